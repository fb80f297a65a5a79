// Package config handles Baymax configuration loading and management.
//
// Configuration is assembled once at startup: defaults, then the TOML file,
// then the process environment (optionally seeded from a .env file). The
// result is passed down explicitly; nothing here is mutated afterwards.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/flynn-ai/baymax/internal/errors"
	"github.com/flynn-ai/baymax/internal/logger"
)

// Environment variables read by ApplyEnv.
const (
	EnvModel     = "BAYMAX_MODEL"
	EnvGPULayers = "BAYMAX_GPU_LAYERS"
	EnvThreads   = "BAYMAX_THREADS"
	EnvGmailUser = "GMAIL_USER"
	EnvGmailPass = "GMAIL_APP_PASSWORD"
	EnvOpenAIKey = "OPENAI_API_KEY"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Assistant: AssistantConfig{
			Name:                   "Baymax",
			EchoPrefix:             "Baymax: ",
			ResponseTimeoutSeconds: 120,
		},
		Model: ModelSelection{
			Name:      DefaultModel,
			ModelsDir: "models",
			Backend:   BackendLlamaCpp,
			LlamaCpp: LlamaCppConfig{
				ServerURL:             "http://127.0.0.1:8080",
				Launch:                true,
				Binary:                "llama-server",
				StartupTimeoutSeconds: 120,
			},
			OpenAI: OpenAIConfig{
				BaseURL: "https://api.openai.com/v1",
			},
		},
		Models: Catalog(),
		Capabilities: CapabilitiesConfig{
			Weather: WeatherConfig{
				BaseURL:        "https://wttr.in",
				TimeoutSeconds: 10,
			},
			Search: SearchConfig{
				BaseURL:        "https://html.duckduckgo.com/html/",
				MaxResults:     5,
				TimeoutSeconds: 15,
			},
			Email: EmailConfig{
				SMTPHost: "smtp.gmail.com",
				SMTPPort: 587,
			},
		},
		Logging: logger.Config{
			Level:     "info",
			Format:    "console",
			Output:    "stderr",
			Timestamp: true,
		},
	}
}

// Load loads the configuration from the given path.
// If the file doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(err, errors.CodeConfigNotFound, "cannot read config "+configPath, errors.CategorySystem)
	}

	// Catalog entries from the file replace built-ins of the same name.
	catalog := cfg.Models
	cfg.Models = nil
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigInvalid, "cannot parse config "+configPath, errors.CategoryUser)
	}
	for name, spec := range cfg.Models {
		catalog[name] = spec
	}
	cfg.Models = catalog

	return expandPaths(cfg), nil
}

// LoadDotEnv loads KEY=value pairs from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrap(err, errors.CodeConfigInvalid, "cannot load env file "+path, errors.CategoryUser)
	}
	return nil
}

// ApplyEnv applies environment overrides using lookup (os.LookupEnv in
// production).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvModel); ok && v != "" {
		c.Model.Name = v
	}

	if v, ok := lookup(EnvGPULayers); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return envError(EnvGPULayers, v, err)
		}
		c.Model.GPULayers = &n
	}

	if v, ok := lookup(EnvThreads); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n <= 0 {
			return envError(EnvThreads, v, err)
		}
		c.Model.Threads = n
	}

	if v, ok := lookup(EnvGmailUser); ok && v != "" {
		c.Capabilities.Email.Username = v
	}
	if v, ok := lookup(EnvGmailPass); ok && v != "" {
		c.Capabilities.Email.Password = v
	}
	if v, ok := lookup(EnvOpenAIKey); ok && v != "" && c.Model.OpenAI.APIKey == "" {
		c.Model.OpenAI.APIKey = v
	}

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.Logging.Format = strings.ToLower(v)
	}

	return nil
}

func envError(key, value string, err error) error {
	b := errors.NewBuilder(errors.CodeConfigInvalid, fmt.Sprintf("%s must be a positive integer (got %q)", key, value)).
		User().
		WithContext("env", key)
	if err != nil {
		b = b.Wrap(err)
	}
	return b.Build()
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Model.Backend {
	case BackendLlamaCpp, BackendOpenAI:
	default:
		return errors.NewBuilder(errors.CodeConfigInvalid, fmt.Sprintf("model.backend must be %q or %q (got %q)", BackendLlamaCpp, BackendOpenAI, c.Model.Backend)).
			User().
			Build()
	}

	if c.Model.Backend == BackendLlamaCpp && c.Model.LlamaCpp.ServerURL == "" {
		return errors.User(errors.CodeConfigInvalid, "model.llamacpp.server_url is required")
	}

	if c.Assistant.ResponseTimeoutSeconds < 0 {
		return errors.User(errors.CodeConfigInvalid, "assistant.response_timeout_seconds must not be negative")
	}

	if err := c.Logging.Validate(); err != nil {
		return errors.Wrap(err, errors.CodeConfigInvalid, "invalid logging config", errors.CategoryUser)
	}

	return nil
}

// Save saves the configuration to the given path.
func (c *Config) Save(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	file, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	return toml.NewEncoder(file).Encode(c)
}

// expandPaths expands a leading ~ in path settings.
func expandPaths(cfg *Config) *Config {
	cfg.Model.ModelsDir = expandHome(cfg.Model.ModelsDir)
	for name, spec := range cfg.Models {
		if spec.Path != "" {
			spec.Path = expandHome(spec.Path)
			cfg.Models[name] = spec
		}
	}
	return cfg
}

func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, path[1:])
}
