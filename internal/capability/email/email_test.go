package email

import (
	"context"
	stderrors "errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flynn-ai/baymax/internal/errors"
)

type recorder struct {
	addr string
	from string
	to   []string
	msg  string
	err  error
}

func (r *recorder) send(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
	r.addr, r.from, r.to, r.msg = addr, from, to, string(msg)
	return r.err
}

func testConfig() Config {
	return Config{Username: "baymax@example.com", Password: "app-password"}
}

func TestSend(t *testing.T) {
	rec := &recorder{}
	c := NewWithSender(testConfig(), rec.send)
	c.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	status, err := c.Send(context.Background(), "user@example.com", "Hi", "See you soon")
	require.NoError(t, err)
	assert.Equal(t, "Email sent successfully to user@example.com", status)

	assert.Equal(t, "smtp.gmail.com:587", rec.addr)
	assert.Equal(t, "baymax@example.com", rec.from)
	assert.Equal(t, []string{"user@example.com"}, rec.to)
	assert.Contains(t, rec.msg, "Subject: Hi\r\n")
	assert.Contains(t, rec.msg, "To: user@example.com\r\n")
	assert.True(t, strings.HasSuffix(rec.msg, "\r\n\r\nSee you soon\r\n"))
}

func TestSendEncodesSubject(t *testing.T) {
	rec := &recorder{}
	_, err := NewWithSender(testConfig(), rec.send).Send(context.Background(), "a@b.co", "Café", "body")
	require.NoError(t, err)
	assert.Contains(t, rec.msg, "Subject: =?utf-8?q?Caf=C3=A9?=")
}

func TestSendFailures(t *testing.T) {
	t.Run("missing credentials", func(t *testing.T) {
		_, err := NewWithSender(Config{}, (&recorder{}).send).Send(context.Background(), "a@b.co", "s", "b")
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeCapabilityUnavailable))
	})

	t.Run("bad recipient", func(t *testing.T) {
		_, err := NewWithSender(testConfig(), (&recorder{}).send).Send(context.Background(), "not an address", "s", "b")
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
	})

	t.Run("smtp error", func(t *testing.T) {
		rec := &recorder{err: stderrors.New("535 authentication failed")}
		_, err := NewWithSender(testConfig(), rec.send).Send(context.Background(), "a@b.co", "s", "b")
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeCapabilityFailed))
		assert.Contains(t, err.Error(), "535")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		rec := &recorder{}
		_, err := NewWithSender(testConfig(), rec.send).Send(ctx, "a@b.co", "s", "b")
		require.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, rec.addr)
	})
}
