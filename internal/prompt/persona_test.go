package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flynn-ai/baymax/pkg/protocol"
)

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("I scraped my knee")

	assert.True(t, strings.HasPrefix(p, "You are Baymax"))
	assert.Contains(t, p, "\n\nUser message: I scraped my knee\n\n")
	assert.True(t, strings.HasSuffix(p, "healthcare companion personality:"))
}

func TestBuilderEmptyPersonaFallsBack(t *testing.T) {
	b := &Builder{}
	assert.True(t, strings.HasPrefix(b.BuildChatPrompt("x"), Persona))
	assert.Equal(t, Persona, b.BuildSystemPrompt())
}

func TestBuildConversation(t *testing.T) {
	turns := NewBuilder().BuildConversation("Hello")
	require.Len(t, turns, 2)
	assert.Equal(t, protocol.RoleSystem, turns[0].Role)
	assert.Contains(t, turns[0].Content, Greeting)
	assert.Equal(t, protocol.ChatTurn{Role: protocol.RoleUser, Content: "Hello"}, turns[1])
}

func TestFallbackReply(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"Hello there", "Hello! I am Baymax, your personal healthcare companion. How can I assist you today?"},
		{"I am feeling dizzy", "I am programmed to assess and improve your health and well-being. On a scale of 1 to 10, how are you feeling?"},
		{"Goodbye", "I hope I have been helpful. Take care of yourself!"},
		{"thank you", "You are welcome! I am programmed to help."},
		{"I APPRECIATE it", "You are welcome! I am programmed to help."},
		// Greeting is checked before health.
		{"hey, my arm is in pain", "Hello! I am Baymax, your personal healthcare companion. How can I assist you today?"},
	}

	for _, tc := range tests {
		t.Run(tc.msg, func(t *testing.T) {
			assert.Equal(t, tc.want, FallbackReply(tc.msg))
		})
	}
}

func TestFallbackReplyMenu(t *testing.T) {
	got := FallbackReply("What is 2+2?")
	assert.True(t, strings.HasPrefix(got, `I understand you said: "What is 2+2?"`))
	assert.Contains(t, got, "Weather information")
	assert.Contains(t, got, "Web searches")
	assert.Contains(t, got, "Sending emails")
	assert.True(t, strings.HasSuffix(got, "How can I assist you today?"))
}
