// Package config provides configuration types for Baymax.
package config

import "github.com/flynn-ai/baymax/internal/logger"

// Config represents the main Baymax configuration.
type Config struct {
	Assistant    AssistantConfig      `toml:"assistant"`
	Model        ModelSelection       `toml:"model"`
	Models       map[string]ModelSpec `toml:"models"`
	Capabilities CapabilitiesConfig   `toml:"capabilities"`
	Logging      logger.Config        `toml:"logging"`
}

// AssistantConfig contains conversation-level settings.
type AssistantConfig struct {
	Name string `toml:"name"`
	// EchoPrefix is prepended to outgoing replies; inbound messages that
	// start with its trimmed form are ignored.
	EchoPrefix             string `toml:"echo_prefix"`
	ResponseTimeoutSeconds int    `toml:"response_timeout_seconds"` // 0 = unbounded
}

// ModelSelection chooses the model and the backend that serves it.
type ModelSelection struct {
	Name      string `toml:"name"`
	ModelsDir string `toml:"models_dir"`
	Backend   string `toml:"backend"` // llamacpp, openai

	// Threads overrides the catalog thread count; 0 detects the CPU count.
	Threads int `toml:"threads"`
	// GPULayers overrides the catalog value when set.
	GPULayers *int `toml:"gpu_layers,omitempty"`

	LlamaCpp LlamaCppConfig `toml:"llamacpp"`
	OpenAI   OpenAIConfig   `toml:"openai"`
}

// LlamaCppConfig configures the llama.cpp server backend.
type LlamaCppConfig struct {
	ServerURL             string `toml:"server_url"`
	Launch                bool   `toml:"launch"` // start llama-server ourselves
	Binary                string `toml:"binary"`
	StartupTimeoutSeconds int    `toml:"startup_timeout_seconds"`
}

// OpenAIConfig configures the OpenAI-compatible backend.
type OpenAIConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
	// Model is the remote model id; empty uses the selected catalog name.
	Model string `toml:"model"`
}

// ModelSpec is a catalog entry as written in TOML.
type ModelSpec struct {
	Path        string  `toml:"path"` // empty = <models_dir>/<name>.gguf
	ContextSize int     `toml:"n_ctx"`
	Threads     int     `toml:"n_threads"`
	GPULayers   int     `toml:"n_gpu_layers"`
	Temperature float64 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
	TopP        float64 `toml:"top_p"`
	TopK        int     `toml:"top_k"`
	ChatFormat  string  `toml:"chat_format"`
	Description string  `toml:"description"`
}

// ModelConfig is the fully resolved, immutable description of one model.
// It is produced once at startup by Config.ResolveModel and copied into the
// inference adapter.
type ModelConfig struct {
	Name        string
	Path        string
	ContextSize int
	Threads     int
	GPULayers   int
	Temperature float64
	MaxTokens   int
	TopP        float64
	TopK        int
	ChatFormat  string
	Description string
}

// CapabilitiesConfig configures the external capabilities.
type CapabilitiesConfig struct {
	Weather WeatherConfig `toml:"weather"`
	Search  SearchConfig  `toml:"search"`
	Email   EmailConfig   `toml:"email"`
}

// WeatherConfig configures the wttr.in client.
type WeatherConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// SearchConfig configures the web search client.
type SearchConfig struct {
	BaseURL        string `toml:"base_url"`
	MaxResults     int    `toml:"max_results"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// EmailConfig configures SMTP delivery.
type EmailConfig struct {
	SMTPHost string `toml:"smtp_host"`
	SMTPPort int    `toml:"smtp_port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"` // empty = username
}

// Backend names.
const (
	BackendLlamaCpp = "llamacpp"
	BackendOpenAI   = "openai"
)
