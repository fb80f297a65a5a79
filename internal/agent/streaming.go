package agent

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/flynn-ai/baymax/internal/chat"
	"github.com/flynn-ai/baymax/internal/classifier"
	"github.com/flynn-ai/baymax/internal/prompt"
	"github.com/flynn-ai/baymax/pkg/protocol"
)

// Streamer streams a reply to a chat history.
type Streamer interface {
	CompleteStream(ctx context.Context, history []protocol.ChatTurn) <-chan protocol.CompletionChunk
}

// StreamCallback is called for each chunk of a streamed reply.
type StreamCallback func(chunk StreamChunk)

// StreamChunk is a piece of a streamed reply.
type StreamChunk struct {
	Text  string
	Done  bool
	Usage *protocol.Usage
}

// ProcessStream is Route with the reply delivered through callback.
// Conversational messages are streamed from the Streamer when one is
// configured; everything else arrives as a single final chunk.
func (r *Router) ProcessStream(ctx context.Context, message string, callback StreamCallback) string {
	if callback == nil {
		callback = func(StreamChunk) {}
	}
	if r.streamer == nil || r.classifier.Classify(message) != classifier.IntentNone {
		reply := r.Route(ctx, message)
		callback(StreamChunk{Text: reply, Done: true})
		return reply
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	start := time.Now()
	defer func() { r.stats.RecordRequest(classifier.IntentNone.String(), time.Since(start)) }()

	history := prompt.NewBuilder().BuildConversation(message)
	var (
		text    strings.Builder
		usage   *protocol.Usage
		flushed bool
	)
	// Text is held back until it passes chat.AcceptCompletion so a
	// degenerate completion never reaches the callback.
	for chunk := range r.streamer.CompleteStream(ctx, history) {
		if chunk.ID == protocol.ChunkIDError {
			r.stats.RecordError()
			r.log.WithError(chunk.Err).Warn("stream failed, using fallback reply")
			reply := prompt.FallbackReply(message)
			callback(StreamChunk{Text: reply, Done: true})
			return reply
		}
		text.WriteString(chunk.Content)
		if chunk.Usage != nil {
			usage = chunk.Usage
		}
		if flushed {
			if chunk.Content != "" {
				callback(StreamChunk{Text: chunk.Content})
			}
			continue
		}
		if _, err := chat.AcceptCompletion(text.String()); err == nil {
			flushed = true
			callback(StreamChunk{Text: text.String()})
		}
	}

	if usage != nil {
		r.stats.RecordTokens(usage.PromptTokens, usage.CompletionTokens)
	}
	reply, err := chat.AcceptCompletion(text.String())
	if err != nil {
		r.log.WithError(err).Warn("using fallback reply")
		reply = prompt.FallbackReply(message)
		callback(StreamChunk{Text: reply, Done: true, Usage: usage})
		return reply
	}
	callback(StreamChunk{Done: true, Usage: usage})
	return reply
}

// ProcessAndStream writes the streamed reply to output.
func (r *Router) ProcessAndStream(ctx context.Context, message string, output io.Writer) (*protocol.Usage, error) {
	var (
		usage    *protocol.Usage
		writeErr error
	)
	r.ProcessStream(ctx, message, func(chunk StreamChunk) {
		if chunk.Usage != nil {
			usage = chunk.Usage
		}
		if chunk.Text != "" && writeErr == nil {
			_, writeErr = io.WriteString(output, chunk.Text)
		}
	})
	return usage, writeErr
}
