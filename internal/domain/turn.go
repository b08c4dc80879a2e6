// Package domain defines the core entities of the study assistant.
package domain

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single message in the conversation history. Turns are append-only:
// once created they are never mutated, and the history they form is owned by
// the caller of the orchestrator.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Intent  string `json:"intent,omitempty"`
}

// LastUserMessage returns the content of the most recent user turn, or the
// last turn's content when no user turn exists.
func LastUserMessage(turns []Turn) string {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == RoleUser {
			return turns[i].Content
		}
	}
	if len(turns) > 0 {
		return turns[len(turns)-1].Content
	}
	return ""
}
