package models

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tmc/langchaingo/llms/openai"
)

// GitHubModelsBaseURL is the OpenAI-compatible endpoint of the GitHub Models
// API.
const GitHubModelsBaseURL = "https://models.github.ai/inference"

// ErrMissingToken is returned when a provider that needs a token gets none.
var ErrMissingToken = errors.New("missing API token")

// githubHeaderTransport injects the GitHub API version header into every
// request. It implements openai.Doer.
type githubHeaderTransport struct {
	base http.RoundTripper
}

func (t *githubHeaderTransport) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	return t.base.RoundTrip(req)
}

// NewGitHubModel creates a Model backed by the GitHub Models API through
// LangChainGo's OpenAI client.
//
// The token is a fine-grained GitHub PAT with the models:read permission.
// Model names use the publisher/model format, e.g. "openai/gpt-4.1-mini".
//
// Extra openai.Option values are applied after the defaults and can
// override them.
func NewGitHubModel(model, token string, opts ...openai.Option) (*LCGWrapper, error) {
	if token == "" {
		return nil, fmt.Errorf("github models: %w: create a fine-grained PAT with models:read", ErrMissingToken)
	}

	all := append([]openai.Option{
		openai.WithBaseURL(GitHubModelsBaseURL),
		openai.WithToken(token),
		openai.WithModel(model),
		openai.WithHTTPClient(&githubHeaderTransport{base: http.DefaultTransport}),
	}, opts...)

	llm, err := openai.New(all...)
	if err != nil {
		return nil, fmt.Errorf("create github models client: %w", err)
	}
	return NewLCGWrapper(llm).WithModelName(model), nil
}

// NewLCGOpenAI creates a Model backed by LangChainGo's OpenAI client.
// baseURL may be empty.
func NewLCGOpenAI(model, token, baseURL string, opts ...openai.Option) (*LCGWrapper, error) {
	if token == "" {
		return nil, fmt.Errorf("openai: %w", ErrMissingToken)
	}

	all := []openai.Option{
		openai.WithToken(token),
		openai.WithModel(model),
	}
	if baseURL != "" {
		all = append(all, openai.WithBaseURL(baseURL))
	}
	all = append(all, opts...)

	llm, err := openai.New(all...)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}
	return NewLCGWrapper(llm).WithModelName(model), nil
}
