// Command mrkl answers questions with a MRKL agent and the demo tools.
//
//	mrkl -q "What is the weather on the 30th?"
//	mrkl -config mrkl.yaml          # interactive
//
// Secrets are read from .env and .env.<APP_ENV> in the working directory,
// then from the environment. See package config for all settings.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/rickchristie/mrkl"
	"github.com/rickchristie/mrkl/config"
	"github.com/rickchristie/mrkl/demotools"
	"github.com/rickchristie/mrkl/executor"
	"github.com/rickchristie/mrkl/loggers"
	"github.com/rickchristie/mrkl/metrics"
	"github.com/rickchristie/mrkl/toolchain"
	"go.uber.org/zap"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorDim    = "\033[2m"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%sError: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a YAML config file")
	question := flag.String("q", "", "answer one question and exit")
	flag.Parse()

	envFiles := loadEnv(".")

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logger, err := cfg.Log.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Debug("environment loaded", zap.Strings("files", envFiles))

	model, err := newModel(cfg.Model)
	if err != nil {
		return err
	}

	exec, metricsHook := newExecutor(cfg, model, logger)

	if cfg.Metrics.Addr != "" {
		srv := serveMetrics(cfg.Metrics.Addr, metricsHook, logger)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	if *question != "" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return answer(ctx, exec, *question, os.Stdout)
	}
	return interactive(exec)
}

// newExecutor wires the demo tools, the configured limits and the logging and
// metrics hooks.
func newExecutor(cfg *config.Config, model mrkl.Model, logger *zap.Logger) (*executor.Executor, *metrics.Hook) {
	registry := toolchain.NewRegistry()
	for _, tool := range demotools.All() {
		registry.MustRegister(tool)
	}

	metricsHook := metrics.NewHook(cfg.Metrics.Namespace)
	exec := executor.New(model, registry, executor.Config{
		MaxSteps: cfg.Agent.MaxSteps,
		Stop:     cfg.Agent.Stop,
		Limits:   cfg.Agent.Limits(),
		Logger:   logger,
	}).
		RegisterHook(loggers.NewZapHook(logger)).
		RegisterHook(metricsHook)

	if cfg.Agent.Transcript {
		exec.RegisterHook(loggers.NewYAMLHookWithWriter(os.Stderr))
	}
	return exec, metricsHook
}

func serveMetrics(addr string, hook *metrics.Hook, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", hook.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", zap.Error(err))
		}
	}()
	return srv
}

// answer runs one question and prints the steps and the final answer to w.
// Run failures are printed, not returned, except for context cancellation.
func answer(ctx context.Context, exec *executor.Executor, question string, w io.Writer) error {
	result, err := exec.Run(ctx, question)
	if err != nil {
		var runErr *mrkl.RunError
		if errors.As(err, &runErr) {
			fmt.Fprintf(w, "%sRun failed at %s (step %d): %v%s\n",
				colorRed, runErr.Stage, runErr.Iteration, runErr.Err, colorReset)
			if runErr.Text != "" {
				fmt.Fprintf(w, "%sModel output:%s\n%s\n", colorDim, colorReset, runErr.Text)
			}
		}
		if errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}

	for i, step := range result.Steps {
		fmt.Fprintf(w, "%s[%d] %s%s %s\n", colorCyan, i+1, step.Action.Tool, colorReset, step.Action.ToolInput)
		fmt.Fprintf(w, "    %s%s%s\n", colorDim, step.Observation, colorReset)
	}
	fmt.Fprintf(w, "%sFinal Answer:%s %s\n", colorGreen, colorReset, result.Output)
	return nil
}

func interactive(exec *executor.Executor) error {
	rl, err := readline.New(colorCyan + "Question (or 'q' to quit): " + colorReset)
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	for {
		input, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				fmt.Printf("\n%sGoodbye!%s\n", colorGreen, colorReset)
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == "q" || input == "Q" {
			fmt.Printf("%sGoodbye!%s\n", colorGreen, colorReset)
			return nil
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		if err := answer(ctx, exec, input, rl.Stdout()); err != nil {
			fmt.Fprintf(rl.Stderr(), "%sCancelled.%s\n", colorYellow, colorReset)
		}
		stop()
		fmt.Fprintln(rl.Stdout())
	}
}
