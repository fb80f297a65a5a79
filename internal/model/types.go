package model

import "sync/atomic"

// Request represents a model inference request.
type Request struct {
	Prompt      string   `json:"prompt"`
	MaxTokens   int      `json:"max_tokens,omitempty"`
	Temperature float64  `json:"temperature"`
	TopP        float64  `json:"top_p,omitempty"`
	TopK        int      `json:"top_k,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

// Response represents a model inference response.
type Response struct {
	Text             string `json:"text"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	Model            string `json:"model"`
	DurationMs       int64  `json:"duration_ms"`
}

// State is the adapter lifecycle state.
type State int32

const (
	StateUnloaded State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

type atomicState struct{ v atomic.Int32 }

func (s *atomicState) Load() State   { return State(s.v.Load()) }
func (s *atomicState) Store(v State) { s.v.Store(int32(v)) }

// ModelStatus represents the status of a model.
type ModelStatus struct {
	Name    string `json:"name"`
	Backend string `json:"backend"`
	State   string `json:"state"`
	Local   bool   `json:"local"`
	Path    string `json:"path,omitempty"`
	Format  string `json:"chat_format"`
}
