package model

import (
	"context"
	"sync"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"

	"github.com/flynn-ai/baymax/internal/config"
	"github.com/flynn-ai/baymax/internal/errors"
)

// OpenAIConfig configures an OpenAI-compatible chat backend.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // Default: https://api.openai.com/v1
	// Model is the remote model id; empty uses the catalog name.
	Model   string
	Timeout time.Duration
}

// OpenAI generates through the Chat Completions API. It also works against
// llama-server's /v1 endpoint.
type OpenAI struct {
	cfg    OpenAIConfig
	client openai.Client

	mu    sync.RWMutex
	model string
}

// NewOpenAI creates an OpenAI-compatible backend.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAI{cfg: cfg, client: openai.NewClient(opts...)}
}

func (b *OpenAI) Name() string { return config.BackendOpenAI }

func (b *OpenAI) IsLocal() bool { return false }

// Load selects the remote model id. No request is made.
func (b *OpenAI) Load(_ context.Context, cfg config.ModelConfig) error {
	model := b.cfg.Model
	if model == "" {
		model = cfg.Name
	}
	if model == "" {
		return errors.User(errors.CodeConfigInvalid, "openai backend needs a model id")
	}
	b.mu.Lock()
	b.model = model
	b.mu.Unlock()
	return nil
}

// Generate sends the prompt as a single user message.
func (b *OpenAI) Generate(ctx context.Context, req *Request) (*Response, error) {
	b.mu.RLock()
	model := b.model
	b.mu.RUnlock()

	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(req.Prompt)},
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = param.NewOpt(int64(req.MaxTokens))
	}
	params.Temperature = param.NewOpt(req.Temperature)
	if req.TopP > 0 {
		params.TopP = param.NewOpt(req.TopP)
	}

	extra := map[string]any{}
	if len(req.Stop) > 0 {
		extra["stop"] = req.Stop
	}
	// top_k is not part of the OpenAI schema; compatible servers accept it.
	if req.TopK > 0 {
		extra["top_k"] = req.TopK
	}
	if len(extra) > 0 {
		params.SetExtraFields(extra)
	}

	start := time.Now()
	resp, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, errors.NewBuilder(errors.CodeModelUnavailable, "chat completion request failed").
			Temporary().
			Wrap(err).
			WithContext("model", model).
			Build()
	}
	if len(resp.Choices) == 0 {
		return nil, errors.Permanent(errors.CodeGenerationFailed, "API response contained no choices")
	}

	return &Response{
		Text:             resp.Choices[0].Message.Content,
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		Model:            resp.Model,
		DurationMs:       time.Since(start).Milliseconds(),
	}, nil
}

func (b *OpenAI) Close() error { return nil }
