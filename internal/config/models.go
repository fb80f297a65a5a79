package config

import (
	"path/filepath"
	"runtime"
	"sort"

	"github.com/flynn-ai/baymax/internal/errors"
)

// DefaultModel is the catalog entry used when no model is selected.
const DefaultModel = "gemma-3n-E2B-it-IQ4_XS"

// Catalog returns the built-in model catalog.
func Catalog() map[string]ModelSpec {
	return map[string]ModelSpec{
		"gemma-3n-E2B-it-IQ4_XS": {
			ContextSize: 2048,
			Threads:     4,
			Temperature: 0.8,
			MaxTokens:   512,
			TopP:        0.95,
			TopK:        40,
			ChatFormat:  "chatml",
			Description: "Gemma 3n model optimized for chat",
		},
		"llama-7b-chat": {
			ContextSize: 4096,
			Threads:     6,
			Temperature: 0.7,
			MaxTokens:   1024,
			TopP:        0.9,
			TopK:        50,
			ChatFormat:  "llama-2",
			Description: "Llama 7B Chat model",
		},
		"mistral-7b-instruct": {
			ContextSize: 4096,
			Threads:     6,
			Temperature: 0.7,
			MaxTokens:   1024,
			TopP:        0.9,
			TopK:        50,
			ChatFormat:  "mistral",
			Description: "Mistral 7B Instruct model",
		},
	}
}

// ModelNames returns the catalog names in sorted order.
func (c *Config) ModelNames() []string {
	names := make([]string, 0, len(c.Models))
	for name := range c.Models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveModel builds the ModelConfig for the selected model.
func (c *Config) ResolveModel() (ModelConfig, error) {
	return c.resolve(c.Model.Name)
}

// ResolveNamed builds the ModelConfig for any catalog entry.
func (c *Config) ResolveNamed(name string) (ModelConfig, error) {
	return c.resolve(name)
}

func (c *Config) resolve(name string) (ModelConfig, error) {
	if name == "" {
		name = DefaultModel
	}

	spec, ok := c.Models[name]
	if !ok {
		return ModelConfig{}, errors.NewBuilder(errors.CodeUnknownModel, "model '"+name+"' not found in configurations").
			User().
			WithContext("model", name).
			WithSuggestion("Run `baymax models` to list the configured models").
			Build()
	}

	path := spec.Path
	if path == "" {
		path = filepath.Join(c.Model.ModelsDir, name+".gguf")
	}

	// The catalog thread count is advisory; the host CPU count wins unless
	// the user pinned a value.
	threads := runtime.NumCPU()
	if c.Model.Threads > 0 {
		threads = c.Model.Threads
	}

	gpuLayers := spec.GPULayers
	if c.Model.GPULayers != nil {
		gpuLayers = *c.Model.GPULayers
	}

	return ModelConfig{
		Name:        name,
		Path:        path,
		ContextSize: spec.ContextSize,
		Threads:     threads,
		GPULayers:   gpuLayers,
		Temperature: spec.Temperature,
		MaxTokens:   spec.MaxTokens,
		TopP:        spec.TopP,
		TopK:        spec.TopK,
		ChatFormat:  spec.ChatFormat,
		Description: spec.Description,
	}, nil
}
