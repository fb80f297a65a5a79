package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/flynn-ai/baymax/internal/config"
	"github.com/flynn-ai/baymax/internal/errors"
	"github.com/flynn-ai/baymax/internal/logger"
)

// LlamaCppConfig configures the llama.cpp server backend.
type LlamaCppConfig struct {
	ServerURL      string // Default: http://127.0.0.1:8080
	Launch         bool   // start the server binary on Load
	Binary         string // Default: llama-server
	StartupTimeout time.Duration
	RequestTimeout time.Duration
	PollInterval   time.Duration
}

// DefaultLlamaCppConfig returns default configuration for a local server.
func DefaultLlamaCppConfig() LlamaCppConfig {
	return LlamaCppConfig{
		ServerURL:      "http://127.0.0.1:8080",
		Binary:         "llama-server",
		StartupTimeout: 2 * time.Minute,
		RequestTimeout: 5 * time.Minute,
		PollInterval:   250 * time.Millisecond,
	}
}

// LlamaCpp talks to a llama.cpp HTTP server, optionally one it started.
type LlamaCpp struct {
	cfg    LlamaCppConfig
	client *http.Client
	log    *logger.Logger

	mu     sync.Mutex
	model  string
	cmd    *exec.Cmd
	exited chan struct{}
}

// NewLlamaCpp creates a llama.cpp backend.
func NewLlamaCpp(cfg LlamaCppConfig, log *logger.Logger) *LlamaCpp {
	def := DefaultLlamaCppConfig()
	if cfg.ServerURL == "" {
		cfg.ServerURL = def.ServerURL
	}
	if cfg.Binary == "" {
		cfg.Binary = def.Binary
	}
	if cfg.StartupTimeout <= 0 {
		cfg.StartupTimeout = def.StartupTimeout
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if log == nil {
		log = logger.Nop()
	}
	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")

	return &LlamaCpp{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.RequestTimeout},
		log:    log.WithComponent("llamacpp"),
	}
}

func (b *LlamaCpp) Name() string { return config.BackendLlamaCpp }

func (b *LlamaCpp) IsLocal() bool { return true }

// Load starts the server when configured to and waits until it reports
// healthy.
func (b *LlamaCpp) Load(ctx context.Context, cfg config.ModelConfig) error {
	b.mu.Lock()
	b.model = cfg.Name
	b.mu.Unlock()

	if b.cfg.Launch {
		if err := b.launch(cfg); err != nil {
			return err
		}
	}
	return b.waitHealthy(ctx)
}

func (b *LlamaCpp) launch(cfg config.ModelConfig) error {
	u, err := url.Parse(b.cfg.ServerURL)
	if err != nil {
		return errors.Wrap(err, errors.CodeConfigInvalid, "invalid llama.cpp server url", errors.CategoryUser)
	}
	host, port, err := net.SplitHostPort(u.Host)
	if err != nil {
		return errors.Wrap(err, errors.CodeConfigInvalid, "llama.cpp server url needs host:port", errors.CategoryUser)
	}

	bin, err := exec.LookPath(b.cfg.Binary)
	if err != nil {
		return errors.NewBuilder(errors.CodeModelUnavailable, "llama.cpp server binary not found: "+b.cfg.Binary).
			System().
			Wrap(err).
			WithSuggestion("Install llama.cpp and put llama-server on PATH").
			WithSuggestion("Or set model.llamacpp.launch = false and start the server yourself").
			Build()
	}

	args := []string{
		"-m", cfg.Path,
		"-c", strconv.Itoa(cfg.ContextSize),
		"-t", strconv.Itoa(cfg.Threads),
		"-ngl", strconv.Itoa(cfg.GPULayers),
		"--host", host,
		"--port", port,
	}
	// The server outlives Load's context; Close stops it.
	cmd := exec.Command(bin, args...)
	out := &logWriter{log: b.log}
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, errors.CodeModelLoadFailed, "failed to start llama.cpp server", errors.CategorySystem)
	}
	b.log.Info("llama.cpp server started", logger.Fields("pid", cmd.Process.Pid, "args", strings.Join(args, " ")))

	exited := make(chan struct{})
	go func() {
		err := cmd.Wait()
		if err != nil {
			b.log.WithError(err).Warn("llama.cpp server exited")
		}
		close(exited)
	}()

	b.mu.Lock()
	b.cmd = cmd
	b.exited = exited
	b.mu.Unlock()
	return nil
}

func (b *LlamaCpp) waitHealthy(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, b.cfg.StartupTimeout)
	defer cancel()

	b.mu.Lock()
	exited := b.exited
	b.mu.Unlock()

	ticker := time.NewTicker(b.cfg.PollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		if lastErr = b.health(ctx); lastErr == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return errors.NewBuilder(errors.CodeModelUnavailable, "llama.cpp server did not become healthy").
				Temporary().
				Wrap(lastErr).
				WithContext("url", b.cfg.ServerURL).
				Build()
		case <-exited:
			return errors.System(errors.CodeModelLoadFailed, "llama.cpp server exited during startup")
		case <-ticker.C:
		}
	}
}

func (b *LlamaCpp) health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.cfg.ServerURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %s", resp.Status)
	}
	return nil
}

// Generate posts req to the server's /completion endpoint.
func (b *LlamaCpp) Generate(ctx context.Context, req *Request) (*Response, error) {
	body := llamaCompletionRequest{
		Prompt:      req.Prompt,
		NPredict:    req.MaxTokens,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		TopK:        req.TopK,
		Stop:        req.Stop,
		CachePrompt: true,
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeGenerationFailed, "failed to marshal request", errors.CategoryPermanent)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.cfg.ServerURL+"/completion", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeNetworkUnavailable, "failed to create HTTP request", errors.CategoryTemporary)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	r, err := b.client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeNetworkUnavailable, "llama.cpp server unreachable", errors.CategoryTemporary)
	}
	respBody, err := io.ReadAll(r.Body)
	r.Body.Close()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeNetworkUnavailable, "failed to read response body", errors.CategoryTemporary)
	}

	switch r.StatusCode {
	case http.StatusOK:
	case http.StatusServiceUnavailable:
		return nil, errors.Temporary(errors.CodeModelUnavailable, "llama.cpp server is still loading the model")
	case http.StatusBadRequest:
		return nil, errors.NewBuilder(errors.CodeGenerationFailed, "bad request").
			Permanent().
			WithContext("response", string(respBody)).
			Build()
	default:
		return nil, errors.Temporary(errors.CodeGenerationFailed, fmt.Sprintf("llama.cpp error (status %d): %s", r.StatusCode, string(respBody)))
	}

	var out llamaCompletionResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, errors.NewBuilder(errors.CodeGenerationFailed, "failed to parse llama.cpp response").
			Permanent().
			Wrap(err).
			Build()
	}

	b.mu.Lock()
	name := b.model
	b.mu.Unlock()
	if out.Model != "" {
		name = out.Model
	}

	return &Response{
		Text:             out.Content,
		PromptTokens:     out.TokensEvaluated,
		CompletionTokens: out.TokensPredicted,
		Model:            name,
		DurationMs:       time.Since(start).Milliseconds(),
	}, nil
}

// Close stops a server started by Load.
func (b *LlamaCpp) Close() error {
	b.mu.Lock()
	cmd, exited := b.cmd, b.exited
	b.cmd, b.exited = nil, nil
	b.mu.Unlock()

	if cmd == nil {
		return nil
	}
	if err := cmd.Process.Kill(); err != nil {
		select {
		case <-exited:
			return nil
		default:
			return errors.Wrap(err, errors.CodeModelUnavailable, "failed to stop llama.cpp server", errors.CategorySystem)
		}
	}
	<-exited
	b.log.Info("llama.cpp server stopped")
	return nil
}

// ============================================================
// llama.cpp server API types
// ============================================================

type llamaCompletionRequest struct {
	Prompt      string   `json:"prompt"`
	NPredict    int      `json:"n_predict,omitempty"`
	Temperature float64  `json:"temperature"`
	TopP        float64  `json:"top_p,omitempty"`
	TopK        int      `json:"top_k,omitempty"`
	Stop        []string `json:"stop,omitempty"`
	CachePrompt bool     `json:"cache_prompt"`
	Stream      bool     `json:"stream"`
}

type llamaCompletionResponse struct {
	Content         string `json:"content"`
	Model           string `json:"model"`
	TokensPredicted int    `json:"tokens_predicted"`
	TokensEvaluated int    `json:"tokens_evaluated"`
	Stop            bool   `json:"stop"`
}

// logWriter forwards server output lines to the logger at debug level.
type logWriter struct {
	log *logger.Logger
}

func (w *logWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			w.log.Debug(line)
		}
	}
	return len(p), nil
}
