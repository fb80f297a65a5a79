package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flynn-ai/baymax/pkg/protocol"
)

func TestChatMLRender(t *testing.T) {
	f, ok := LookupFormat("chatml")
	require.True(t, ok)

	got := f.Render([]protocol.ChatTurn{
		{Role: protocol.RoleSystem, Content: "You are Baymax"},
		{Role: protocol.RoleUser, Content: "Hello"},
		{Role: protocol.RoleAssistant, Content: "Hi!"},
		{Role: protocol.RoleUser, Content: "How are you?"},
	})

	want := "<|im_start|>system\nYou are Baymax<|im_end|>\n" +
		"<|im_start|>user\nHello<|im_end|>\n" +
		"<|im_start|>assistant\nHi!<|im_end|>\n" +
		"<|im_start|>user\nHow are you?<|im_end|>\n" +
		"<|im_start|>assistant"
	assert.Equal(t, want, got)
	assert.Equal(t, []string{"<|im_end|>", "\n\n"}, f.OnceStop)
	assert.Equal(t, []string{"<|im_end|>", "<|im_start|>"}, f.StreamStop)
}

func TestRenderSkipsUnknownRoles(t *testing.T) {
	f, _ := LookupFormat("chatml")
	got := f.Render([]protocol.ChatTurn{{Role: "tool", Content: "ignored"}})
	assert.Equal(t, "<|im_start|>assistant", got)
}

func TestMistralRender(t *testing.T) {
	f, ok := LookupFormat("mistral")
	require.True(t, ok)
	got := f.Render([]protocol.ChatTurn{
		{Role: protocol.RoleUser, Content: "Hi"},
		{Role: protocol.RoleAssistant, Content: "Hello"},
		{Role: protocol.RoleUser, Content: "Bye"},
	})
	assert.Equal(t, "[INST] Hi [/INST]Hello</s>[INST] Bye [/INST]", got)
}

func TestBuiltinFormats(t *testing.T) {
	names := FormatNames()
	assert.Subset(t, names, []string{"chatml", "llama-2", "mistral"})

	_, ok := LookupFormat("alpaca")
	assert.False(t, ok)
}

func TestRegisterFormat(t *testing.T) {
	RegisterFormat(ChatFormat{
		Name: "test-plain",
		Turns: map[protocol.Role]Markers{
			protocol.RoleUser: {Start: "Q: ", End: ""},
		},
		Separator:    "\n",
		AssistantCue: "A:",
	})
	f, ok := LookupFormat("test-plain")
	require.True(t, ok)
	assert.Equal(t, "Q: why\nA:", f.Render([]protocol.ChatTurn{{Role: protocol.RoleUser, Content: "why"}}))
}
