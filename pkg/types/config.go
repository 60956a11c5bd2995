package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout (default 10s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "bookrec/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIProvider selects the language-model backend.
type AIProvider string

const (
	ProviderGemini AIProvider = "gemini"
	ProviderOpenAI AIProvider = "openai"
)

// AIConfig holds shared settings for stages that call a language model.
type AIConfig struct {
	// Provider selects the backend: gemini or openai.
	Provider AIProvider `json:"provider" yaml:"provider"`

	// Model is the model identifier (e.g. "gemini-1.5-pro").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the model API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the provider endpoint (OpenAI-compatible
	// gateways). Empty means the provider default.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// SearchConfig holds settings for the book-search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxPerKeyword is the result-count limit per keyword query (default 10).
	MaxPerKeyword int `json:"max_per_keyword" yaml:"max_per_keyword"`

	// RequestDelay is the mandatory pacing delay between per-keyword
	// requests (default 100ms). Part of the search contract: the book
	// service enforces a call-rate ceiling.
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`
}

// VerifyConfig holds settings for the verification stage.
type VerifyConfig struct {
	// MaxCandidates bounds how many candidates are submitted to the
	// model per topic (default 15). Cost control, not correctness.
	MaxCandidates int `json:"max_candidates" yaml:"max_candidates"`

	// DescriptionLimit truncates candidate descriptions in the prompt
	// (default 200 characters). Stored descriptions are unaffected.
	DescriptionLimit int `json:"description_limit" yaml:"description_limit"`
}

// BatchConfig holds settings for the batch runner.
type BatchConfig struct {
	// TopN is how many recommendations each topic keeps (default 2).
	TopN int `json:"top_n" yaml:"top_n"`

	// TopicDelay is the mandatory pacing delay between topics
	// (default 500ms). Larger-scale rate control than
	// SearchConfig.RequestDelay.
	TopicDelay time.Duration `json:"topic_delay" yaml:"topic_delay"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	AI     AIConfig     `json:"ai" yaml:"ai"`
	Search SearchConfig `json:"search" yaml:"search"`
	Verify VerifyConfig `json:"verify" yaml:"verify"`
	Batch  BatchConfig  `json:"batch" yaml:"batch"`
}
