package model

import (
	"time"

	"github.com/flynn-ai/baymax/internal/config"
	"github.com/flynn-ai/baymax/internal/errors"
	"github.com/flynn-ai/baymax/internal/logger"
)

// NewBackend builds the backend selected in the model configuration.
func NewBackend(sel config.ModelSelection, log *logger.Logger) (Backend, error) {
	switch sel.Backend {
	case config.BackendLlamaCpp, "":
		return NewLlamaCpp(LlamaCppConfig{
			ServerURL:      sel.LlamaCpp.ServerURL,
			Launch:         sel.LlamaCpp.Launch,
			Binary:         sel.LlamaCpp.Binary,
			StartupTimeout: time.Duration(sel.LlamaCpp.StartupTimeoutSeconds) * time.Second,
		}, log), nil
	case config.BackendOpenAI:
		return NewOpenAI(OpenAIConfig{
			APIKey:  sel.OpenAI.APIKey,
			BaseURL: sel.OpenAI.BaseURL,
			Model:   sel.OpenAI.Model,
		}), nil
	default:
		return nil, errors.User(errors.CodeConfigInvalid, "unknown model backend '"+sel.Backend+"'")
	}
}
