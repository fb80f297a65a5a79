// Package protocol provides the data structures Baymax exchanges with its
// callers. These types can be imported by external clients.
package protocol

// Role is the speaker of a chat turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatTurn is one message of a conversation history.
type ChatTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Usage reports token counts for a completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Chunk identifiers emitted by streaming completions.
const (
	ChunkIDChat  = "chat_chunk"
	ChunkIDError = "error_chunk"
)

// CompletionChunk is one element of a streamed completion. The last chunk
// of a stream carries Usage; a failed stream ends with a chunk whose Err is
// set and whose Content is a printable error line.
type CompletionChunk struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Usage   *Usage `json:"usage,omitempty"`
	Err     error  `json:"-"`
}
