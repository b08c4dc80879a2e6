package llm

import (
	"context"
	"fmt"
	"sync"
)

// Mock is a scripted Client for tests. Responses are returned in order; once
// exhausted the last response repeats. Every call is recorded.
type Mock struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     [][]Message
}

var _ Client = (*Mock)(nil)

// NewMock creates a mock client that replies with the given responses.
func NewMock(responses ...string) *Mock {
	return &Mock{responses: responses}
}

// NewMockError creates a mock client whose every call fails.
func NewMockError(err error) *Mock {
	return &Mock{err: err}
}

// Invoke records the call and returns the next scripted response.
func (m *Mock) Invoke(_ context.Context, messages []Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]Message, len(messages))
	copy(copied, messages)
	m.calls = append(m.calls, copied)

	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "", fmt.Errorf("mock client has no scripted responses")
	}
	idx := len(m.calls) - 1
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	return m.responses[idx], nil
}

// Calls returns a copy of all recorded calls.
func (m *Mock) Calls() [][]Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]Message, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many times Invoke was called.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// LastPrompt returns the content of the last message in the most recent call.
func (m *Mock) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return ""
	}
	last := m.calls[len(m.calls)-1]
	if len(last) == 0 {
		return ""
	}
	return last[len(last)-1].Content
}
