// Package model runs text generation for the conversational fallback.
//
// An Adapter owns one Backend for the lifetime of the process. Backends are
// interchangeable: llama.cpp's server for local GGUF models, or any
// OpenAI-compatible chat endpoint.
package model

import (
	"context"

	"github.com/flynn-ai/baymax/internal/config"
)

// Backend generates text for a single model.
type Backend interface {
	// Name returns the backend identifier.
	Name() string

	// IsLocal reports whether the backend serves a model file from disk.
	// Local backends require the artifact path to exist before Load.
	IsLocal() bool

	// Load prepares the backend to serve cfg.
	Load(ctx context.Context, cfg config.ModelConfig) error

	// Generate runs one completion.
	Generate(ctx context.Context, req *Request) (*Response, error)

	// Close releases backend resources.
	Close() error
}
