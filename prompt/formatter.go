// Package prompt renders the text sent to the model on every iteration.
//
// A prompt is the tool listing, the format instructions, the question and
// the scratchpad: every previous model response followed by the observation
// its action produced. Replaying the scratchpad is what gives a stateless
// completion model the memory of the run so far.
package prompt

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/rickchristie/mrkl/toolchain"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"
)

// ToolDescriber renders the available tools. *toolchain.Registry implements
// it.
type ToolDescriber interface {
	Describe() toolchain.Description
}

// Formatter builds prompts from a template. Format has no side effects other
// than an optional debug log, so the same inputs always give the same text.
type Formatter struct {
	tmpl   *template.Template
	logger *zap.Logger
}

// New creates a Formatter with DefaultTemplate.
func New() *Formatter {
	return &Formatter{
		tmpl:   DefaultTemplate,
		logger: zap.NewNop(),
	}
}

// WithTemplate replaces the template. It receives TemplateData.
func (f *Formatter) WithTemplate(tmpl *template.Template) *Formatter {
	f.tmpl = tmpl
	return f
}

// WithTemplateString parses text as the template.
//
//	f, err := prompt.New().WithTemplateString(
//	    "Tools:\n{{.ToolListing}}\n\nQ: {{.Question}}\nThought:{{.Scratchpad}}",
//	)
func (f *Formatter) WithTemplateString(text string) (*Formatter, error) {
	tmpl, err := template.New("custom").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse prompt template: %w", err)
	}
	f.tmpl = tmpl
	return f, nil
}

// WithLogger sets the logger. At debug level the newest step is logged as
// "input : observation" on every Format call.
func (f *Formatter) WithLogger(logger *zap.Logger) *Formatter {
	if logger == nil {
		logger = zap.NewNop()
	}
	f.logger = logger
	return f
}

// Format renders the prompt for question with the given steps and tools.
func (f *Formatter) Format(question string, steps []schema.AgentStep, tools ToolDescriber) (string, error) {
	if n := len(steps); n > 0 {
		last := steps[n-1]
		f.logger.Debug("newest step",
			zap.String("pair", last.Action.ToolInput+" : "+last.Observation),
		)
	}

	desc := tools.Describe()
	out, err := ExecuteTemplate(f.tmpl, TemplateData{
		ToolListing: desc.Listing,
		ToolNames:   desc.Names,
		Question:    question,
		Scratchpad:  Scratchpad(steps),
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return out, nil
}

// Scratchpad replays steps in order. Each step becomes the raw model text,
// the observation and a fresh "Thought:" for the model to continue from:
//
//	<model text>
//
//	Observation: <observation>
//	Thought:
func Scratchpad(steps []schema.AgentStep) string {
	var sb strings.Builder
	for _, step := range steps {
		sb.WriteString(step.Action.Log)
		sb.WriteString("\n\nObservation: ")
		sb.WriteString(step.Observation)
		sb.WriteString("\nThought:")
	}
	return sb.String()
}
