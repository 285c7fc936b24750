package models

// GitHubModel is a model ID for the GitHub Models API, in the
// "publisher/model-name" format.
//
// The full catalog is available from the API:
//
//	curl -H "Authorization: Bearer $GITHUB_TOKEN" \
//	  https://models.github.ai/catalog/models
type GitHubModel = string

const (
	GitHubGPT41     GitHubModel = "openai/gpt-4.1"
	GitHubGPT41Mini GitHubModel = "openai/gpt-4.1-mini"
	GitHubGPT4o     GitHubModel = "openai/gpt-4o"
	GitHubGPT4oMini GitHubModel = "openai/gpt-4o-mini"

	GitHubLlama4Scout  GitHubModel = "meta/llama-4-scout-17b-16e-instruct"
	GitHubMistralSmall GitHubModel = "mistral-ai/mistral-small-2503"
	GitHubDeepSeekV3   GitHubModel = "deepseek/deepseek-v3-0324"
	GitHubPhi4Mini     GitHubModel = "microsoft/phi-4-mini-instruct"
)

// DefaultGitHubModel is used when the github provider is selected without a
// model name.
const DefaultGitHubModel = GitHubGPT41Mini
