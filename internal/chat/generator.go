// Package chat produces conversational replies for messages no capability
// handles.
package chat

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/flynn-ai/baymax/internal/errors"
	"github.com/flynn-ai/baymax/internal/logger"
	"github.com/flynn-ai/baymax/internal/prompt"
)

// MinResponseLength is the shortest completion, in characters, accepted
// from the model.
const MinResponseLength = 10

var errTooShort = errors.Permanent(errors.CodeGenerationFailed, "completion shorter than the minimum reply length")

// AcceptCompletion trims text and rejects it when it is shorter than
// MinResponseLength characters.
func AcceptCompletion(text string) (string, error) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < MinResponseLength {
		return "", errTooShort
	}
	return text, nil
}

// Completer runs a single-shot completion.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Generator turns a message into a persona-consistent reply.
type Generator struct {
	completer Completer
	prompts   *prompt.Builder
	log       *logger.Logger
}

// NewGenerator creates a generator. A nil completer always yields the
// rule-based reply.
func NewGenerator(c Completer, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	return &Generator{
		completer: c,
		prompts:   prompt.NewBuilder(),
		log:       log.WithComponent("chat"),
	}
}

// Generate never fails: model errors and short completions fall back to
// prompt.FallbackReply.
func (g *Generator) Generate(ctx context.Context, message string) string {
	if g.completer == nil {
		return prompt.FallbackReply(message)
	}

	reply, _ := errors.FallbackWithResult(
		func() (string, error) {
			text, err := g.completer.Complete(ctx, g.prompts.BuildChatPrompt(message))
			if err != nil {
				return "", err
			}
			return AcceptCompletion(text)
		},
		func(err error) (string, error) {
			g.log.WithError(err).Warn("using fallback reply")
			return prompt.FallbackReply(message), nil
		},
	)
	return reply
}
