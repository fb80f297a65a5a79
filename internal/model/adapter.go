package model

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flynn-ai/baymax/internal/config"
	"github.com/flynn-ai/baymax/internal/errors"
	"github.com/flynn-ai/baymax/internal/logger"
	"github.com/flynn-ai/baymax/pkg/protocol"
)

// ApologyReply is returned by CompleteOnce when generation fails.
const ApologyReply = "I apologize, but I encountered an error generating a response."

// Adapter serves completions for one model through a Backend.
//
// Generation runs on its own goroutine and is never cancelled once started.
// A caller's context only bounds how long that caller waits: when it ends
// the request is abandoned and the computation finishes in the background.
// Calls are serialized, so at most one generation runs per Adapter.
type Adapter struct {
	cfg     config.ModelConfig
	format  ChatFormat
	backend Backend
	log     *logger.Logger

	state atomicState
	genMu sync.Mutex
}

// New validates cfg, loads the backend and returns a Ready adapter.
func New(ctx context.Context, cfg config.ModelConfig, backend Backend, log *logger.Logger) (*Adapter, error) {
	if log == nil {
		log = logger.Nop()
	}

	format, ok := LookupFormat(cfg.ChatFormat)
	if !ok {
		return nil, errors.NewBuilder(errors.CodeUnknownChatFormat, "unknown chat format '"+cfg.ChatFormat+"'").
			User().
			WithContext("model", cfg.Name).
			WithSuggestion("Use one of: " + strings.Join(FormatNames(), ", ")).
			Build()
	}

	if backend.IsLocal() {
		if _, err := os.Stat(cfg.Path); err != nil {
			return nil, errors.NewBuilder(errors.CodeModelNotFound, "model file not found: "+cfg.Path).
				Permanent().
				Wrap(err).
				WithContext("model", cfg.Name).
				WithSuggestion("Download the GGUF file into the models directory").
				WithSuggestion("Or select another model with BAYMAX_MODEL").
				Build()
		}
	}

	a := &Adapter{
		cfg:     cfg,
		format:  format,
		backend: backend,
		log: log.WithComponent("model").WithFields(logger.Fields(
			logger.FieldModel, cfg.Name,
			logger.FieldBackend, backend.Name(),
		)),
	}

	a.state.Store(StateLoading)
	a.log.Info("loading model", logger.Fields("path", cfg.Path, "threads", cfg.Threads, "gpu_layers", cfg.GPULayers))
	start := time.Now()

	if err := backend.Load(ctx, cfg); err != nil {
		a.state.Store(StateUnloaded)
		_ = backend.Close()
		return nil, errors.NewBuilder(errors.CodeModelLoadFailed, "failed to load model "+cfg.Name).
			System().
			Wrap(err).
			WithContext("backend", backend.Name()).
			Build()
	}

	a.state.Store(StateReady)
	a.log.Info("model ready", logger.DurationFields("load", time.Since(start)))
	return a, nil
}

// Complete runs a single-shot completion of prompt and returns the trimmed
// text.
func (a *Adapter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := a.generate(ctx, a.request(prompt, a.format.OnceStop))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}

// CompleteOnce is Complete with failures replaced by ApologyReply.
func (a *Adapter) CompleteOnce(ctx context.Context, prompt string) string {
	text, err := a.Complete(ctx, prompt)
	if err != nil {
		return ApologyReply
	}
	return text
}

// CompleteStream renders history with the model's chat format and streams
// the reply. The channel yields exactly one chunk and is then closed: the
// full reply with usage, or an error chunk.
func (a *Adapter) CompleteStream(ctx context.Context, history []protocol.ChatTurn) <-chan protocol.CompletionChunk {
	// Buffered so the producer never blocks on a consumer that went away.
	ch := make(chan protocol.CompletionChunk, 1)

	go func() {
		defer close(ch)

		prompt := a.format.Render(history)
		resp, err := a.generate(ctx, a.request(prompt, a.format.StreamStop))
		if err != nil {
			ch <- protocol.CompletionChunk{
				ID:      protocol.ChunkIDError,
				Role:    protocol.RoleAssistant,
				Content: "Error: " + err.Error(),
				Err:     err,
			}
			return
		}

		text := strings.TrimSpace(resp.Text)
		promptTokens := len(strings.Fields(prompt))
		completionTokens := len(strings.Fields(text))
		ch <- protocol.CompletionChunk{
			ID:      protocol.ChunkIDChat,
			Role:    protocol.RoleAssistant,
			Content: text,
			Usage: &protocol.Usage{
				PromptTokens:     promptTokens,
				CompletionTokens: completionTokens,
				TotalTokens:      promptTokens + completionTokens,
			},
		}
	}()

	return ch
}

// State returns the lifecycle state.
func (a *Adapter) State() State {
	return a.state.Load()
}

// Config returns the model configuration the adapter was built with.
func (a *Adapter) Config() config.ModelConfig {
	return a.cfg
}

// Status returns the current status of the model.
func (a *Adapter) Status() *ModelStatus {
	return &ModelStatus{
		Name:    a.cfg.Name,
		Backend: a.backend.Name(),
		State:   a.State().String(),
		Local:   a.backend.IsLocal(),
		Path:    a.cfg.Path,
		Format:  a.format.Name,
	}
}

// Close waits for any in-flight generation and releases the backend.
func (a *Adapter) Close() error {
	a.genMu.Lock()
	defer a.genMu.Unlock()
	a.state.Store(StateUnloaded)
	return a.backend.Close()
}

func (a *Adapter) request(prompt string, stop []string) *Request {
	return &Request{
		Prompt:      prompt,
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
		TopP:        a.cfg.TopP,
		TopK:        a.cfg.TopK,
		Stop:        stop,
	}
}

func (a *Adapter) generate(ctx context.Context, req *Request) (*Response, error) {
	if s := a.State(); s != StateReady {
		return nil, errors.Temporary(errors.CodeModelUnavailable, "model is "+s.String())
	}

	requestID := uuid.NewString()
	detached := context.WithoutCancel(ctx)

	resp, err := errors.WithContextResult(ctx, func() (*Response, error) {
		a.genMu.Lock()
		defer a.genMu.Unlock()

		start := time.Now()
		resp, err := a.backend.Generate(detached, req)
		fields := logger.DurationFields("generate", time.Since(start))
		fields[logger.FieldRequestID] = requestID
		if err != nil {
			a.log.WithError(err).Error("generation failed", fields)
			return nil, err
		}
		a.log.Debug("generation finished", fields)
		return resp, nil
	})
	if err != nil {
		if ctx.Err() != nil {
			a.log.Warn("generation wait abandoned", logger.Fields(logger.FieldRequestID, requestID))
		}
		return nil, errors.Wrap(err, errors.CodeGenerationFailed, "generation failed", errors.GetCategory(err))
	}
	return resp, nil
}
