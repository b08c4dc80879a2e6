// Package llm provides the model client used by every agent.
package llm

import "context"

// Role tags a chat message for the completions API.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged message sent to the model.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Client sends a list of messages to a text-generation model and returns the
// raw completion text. No streaming, no tool calling: all structured output is
// recovered from plain text by the extract package.
type Client interface {
	Invoke(ctx context.Context, messages []Message) (string, error)
}

// System builds a system message.
func System(content string) Message { return Message{Role: RoleSystem, Content: content} }

// User builds a user message.
func User(content string) Message { return Message{Role: RoleUser, Content: content} }

// Assistant builds an assistant message.
func Assistant(content string) Message { return Message{Role: RoleAssistant, Content: content} }
