// Package email delivers plain-text mail over SMTP with STARTTLS.
package email

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"time"

	"github.com/flynn-ai/baymax/internal/errors"
)

// SendFunc matches smtp.SendMail. SendMail upgrades to TLS with STARTTLS
// when the server offers it.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Config configures a Client.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // defaults to Username
}

// Client sends email.
type Client struct {
	cfg  Config
	send SendFunc
	now  func() time.Time
}

// New creates an SMTP client.
func New(cfg Config) *Client {
	return NewWithSender(cfg, smtp.SendMail)
}

// NewWithSender creates a client that delivers through send.
func NewWithSender(cfg Config, send SendFunc) *Client {
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &Client{cfg: cfg, send: send, now: time.Now}
}

// Send delivers one message and returns a status line.
func (c *Client) Send(ctx context.Context, to, subject, body string) (string, error) {
	if c.cfg.Username == "" || c.cfg.Password == "" {
		return "", errors.NewBuilder(errors.CodeCapabilityUnavailable, "email credentials are not configured").
			User().
			WithSuggestion("Set GMAIL_USER and GMAIL_APP_PASSWORD").
			Build()
	}

	rcpt, err := mail.ParseAddress(to)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInvalidInput, "invalid recipient "+to, errors.CategoryUser)
	}
	from, err := mail.ParseAddress(c.cfg.From)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeConfigInvalid, "invalid sender "+c.cfg.From, errors.CategoryUser)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	addr := net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.Port))
	auth := smtp.PlainAuth("", c.cfg.Username, c.cfg.Password, c.cfg.Host)
	msg := c.compose(from.Address, rcpt.Address, subject, body)

	if err := c.send(addr, auth, from.Address, []string{rcpt.Address}, msg); err != nil {
		return "", errors.Wrap(err, errors.CodeCapabilityFailed, "smtp delivery failed", errors.CategoryTemporary)
	}
	return "Email sent successfully to " + rcpt.Address, nil
}

func (c *Client) compose(from, to, subject, body string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", c.now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	buf.WriteString("\r\n")
	return buf.Bytes()
}
