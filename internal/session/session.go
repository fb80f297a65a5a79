// Package session adapts the router to a text transport: raw bytes in,
// prefixed reply bytes out.
package session

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/flynn-ai/baymax/internal/logger"
	"github.com/flynn-ai/baymax/internal/prompt"
)

// DefaultEchoPrefix marks messages sent by the assistant.
const DefaultEchoPrefix = "Baymax: "

// Router answers a single message.
type Router interface {
	Route(ctx context.Context, message string) string
}

// Session serves one transport connection.
type Session struct {
	id     string
	router Router
	prefix string
	log    *logger.Logger
}

// New creates a session. An empty prefix uses DefaultEchoPrefix.
func New(router Router, prefix string, log *logger.Logger) *Session {
	if prefix == "" {
		prefix = DefaultEchoPrefix
	}
	if log == nil {
		log = logger.Nop()
	}
	id := uuid.NewString()
	return &Session{
		id:     id,
		router: router,
		prefix: prefix,
		log:    log.WithComponent("session").WithFields(logger.Fields(logger.FieldSessionID, id)),
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Greeting returns the opening line, prefixed.
func (s *Session) Greeting() string {
	return s.prefix + prompt.Greeting
}

// Handle routes one incoming message. It reports false when the message is
// ignored: empty input, invalid UTF-8, or the assistant's own echo.
func (s *Session) Handle(ctx context.Context, data []byte) ([]byte, bool) {
	if !utf8.Valid(data) {
		s.log.Warn("dropping message with invalid UTF-8", logger.Fields("bytes", len(data)))
		return nil, false
	}
	message := strings.TrimSpace(string(data))
	if message == "" {
		return nil, false
	}
	// Our own replies may be echoed back by the transport.
	if strings.HasPrefix(message, strings.TrimSpace(s.prefix)) {
		s.log.Debug("ignoring echoed message")
		return nil, false
	}

	reply := s.router.Route(ctx, message)
	return []byte(s.prefix + reply), true
}
