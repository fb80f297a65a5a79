package model

import (
	"sort"
	"strings"
	"sync"

	"github.com/flynn-ai/baymax/pkg/protocol"
)

// Markers wrap one turn of a rendered conversation.
type Markers struct {
	Start string
	End   string
}

// ChatFormat describes how a model expects a conversation to be flattened
// into a prompt.
type ChatFormat struct {
	Name  string
	Turns map[protocol.Role]Markers
	// Separator joins rendered turns.
	Separator string
	// AssistantCue is appended after the last turn to open the reply.
	AssistantCue string
	// OnceStop ends a single-shot completion.
	OnceStop []string
	// StreamStop ends a conversational completion.
	StreamStop []string
}

// Render flattens history into a prompt. Turns with unknown roles are
// skipped.
func (f ChatFormat) Render(history []protocol.ChatTurn) string {
	parts := make([]string, 0, len(history)+1)
	for _, turn := range history {
		m, ok := f.Turns[turn.Role]
		if !ok {
			continue
		}
		parts = append(parts, m.Start+turn.Content+m.End)
	}
	if f.AssistantCue != "" {
		parts = append(parts, f.AssistantCue)
	}
	return strings.Join(parts, f.Separator)
}

// ============================================================
// Registry
// ============================================================

var (
	formatsMu sync.RWMutex
	formats   = map[string]ChatFormat{}
)

// RegisterFormat adds or replaces a chat format.
func RegisterFormat(f ChatFormat) {
	formatsMu.Lock()
	defer formatsMu.Unlock()
	formats[f.Name] = f
}

// LookupFormat returns the chat format registered under name.
func LookupFormat(name string) (ChatFormat, bool) {
	formatsMu.RLock()
	defer formatsMu.RUnlock()
	f, ok := formats[name]
	return f, ok
}

// FormatNames returns the registered format names, sorted.
func FormatNames() []string {
	formatsMu.RLock()
	defer formatsMu.RUnlock()
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	RegisterFormat(ChatFormat{
		Name: "chatml",
		Turns: map[protocol.Role]Markers{
			protocol.RoleSystem:    {Start: "<|im_start|>system\n", End: "<|im_end|>"},
			protocol.RoleUser:      {Start: "<|im_start|>user\n", End: "<|im_end|>"},
			protocol.RoleAssistant: {Start: "<|im_start|>assistant\n", End: "<|im_end|>"},
		},
		Separator:    "\n",
		AssistantCue: "<|im_start|>assistant",
		OnceStop:     []string{"<|im_end|>", "\n\n"},
		StreamStop:   []string{"<|im_end|>", "<|im_start|>"},
	})

	RegisterFormat(ChatFormat{
		Name: "llama-2",
		Turns: map[protocol.Role]Markers{
			protocol.RoleSystem:    {Start: "[INST] <<SYS>>\n", End: "\n<</SYS>> [/INST]"},
			protocol.RoleUser:      {Start: "[INST] ", End: " [/INST]"},
			protocol.RoleAssistant: {Start: "", End: " </s><s>"},
		},
		Separator:  "\n",
		OnceStop:   []string{"</s>", "\n\n"},
		StreamStop: []string{"</s>", "[INST]"},
	})

	// Mistral has no system role; system text is sent as an instruction.
	RegisterFormat(ChatFormat{
		Name: "mistral",
		Turns: map[protocol.Role]Markers{
			protocol.RoleSystem:    {Start: "[INST] ", End: " [/INST]"},
			protocol.RoleUser:      {Start: "[INST] ", End: " [/INST]"},
			protocol.RoleAssistant: {Start: "", End: "</s>"},
		},
		Separator:  "",
		OnceStop:   []string{"</s>", "\n\n"},
		StreamStop: []string{"</s>", "[INST]"},
	})
}
