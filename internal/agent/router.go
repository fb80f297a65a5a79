// Package agent routes a user message to a capability or to the
// conversational generator.
//
// Each call to Route is independent: classify, extract arguments, then
// either invoke the matching capability or generate a reply. Nothing is
// remembered between calls.
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/flynn-ai/baymax/internal/capability"
	"github.com/flynn-ai/baymax/internal/classifier"
	"github.com/flynn-ai/baymax/internal/logger"
	"github.com/flynn-ai/baymax/internal/stats"
)

// GeneralErrorReply answers a message whose processing failed unexpectedly.
const GeneralErrorReply = "I apologize, but I encountered an error processing your message. Please try again."

// Generator produces a conversational reply. It must not fail.
type Generator interface {
	Generate(ctx context.Context, message string) string
}

// Config configures a Router.
type Config struct {
	Classifier *classifier.Classifier
	Invoker    *capability.Invoker
	Generator  Generator
	// Streamer, when set, serves ProcessStream for conversational messages.
	Streamer Streamer
	// Timeout bounds a whole Route call. Zero means no bound.
	Timeout time.Duration
	Stats   *stats.Collector
	Logger  *logger.Logger
}

// Router dispatches messages. It is safe for concurrent use.
type Router struct {
	classifier *classifier.Classifier
	invoker    *capability.Invoker
	generator  Generator
	streamer   Streamer
	timeout    time.Duration
	stats      *stats.Collector
	log        *logger.Logger
}

// NewRouter creates a router. Missing collaborators get defaults: the
// built-in classifier, an invoker with no capabilities, and a generator
// that always fails (so every conversational message gets GeneralErrorReply).
func NewRouter(cfg Config) *Router {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	r := &Router{
		classifier: cfg.Classifier,
		invoker:    cfg.Invoker,
		generator:  cfg.Generator,
		streamer:   cfg.Streamer,
		timeout:    cfg.Timeout,
		stats:      cfg.Stats,
		log:        log.WithComponent("router"),
	}
	if r.stats == nil {
		r.stats = stats.NewCollector()
	}
	if r.classifier == nil {
		r.classifier = classifier.NewClassifier()
	}
	if r.invoker == nil {
		r.invoker = capability.NewInvoker(capability.Registry{}, log)
	}
	if r.generator == nil {
		r.generator = generatorFunc(func(context.Context, string) string { return "" })
	}
	return r
}

// Route returns the reply for message. It never returns an empty string.
func (r *Router) Route(ctx context.Context, message string) (reply string) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	requestID := uuid.NewString()
	log := r.log.WithFields(logger.Fields(logger.FieldRequestID, requestID))
	start := time.Now()
	intent := classifier.IntentNone

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("routing panicked", logger.Fields("panic", fmt.Sprint(rec)))
			reply = GeneralErrorReply
		}
		if strings.TrimSpace(reply) == "" {
			reply = GeneralErrorReply
		}
		if reply == GeneralErrorReply {
			r.stats.RecordError()
		}
		r.stats.RecordRequest(intent.String(), time.Since(start))
	}()

	intent = r.classifier.Classify(message)
	if intent == classifier.IntentNone {
		reply = r.generator.Generate(ctx, message)
	} else {
		args := classifier.Extract(intent, message)
		reply = r.invoker.Invoke(ctx, intent, args)
	}

	fields := logger.DurationFields("route", time.Since(start))
	fields[logger.FieldIntent] = intent.String()
	log.Info("message routed", fields)
	return reply
}

// Stats returns the router's statistics collector.
func (r *Router) Stats() *stats.Collector {
	return r.stats
}

func (r *Router) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout > 0 {
		return context.WithTimeout(ctx, r.timeout)
	}
	return context.WithCancel(ctx)
}

type generatorFunc func(ctx context.Context, message string) string

func (f generatorFunc) Generate(ctx context.Context, message string) string { return f(ctx, message) }
