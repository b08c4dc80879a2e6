package agent

import (
	"context"
	"strings"
	"testing"
	"time"

	"studymate/internal/domain"
	"studymate/internal/llm"
)

func fixedClock(o *Orchestrator) {
	o.now = func() time.Time {
		return time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	}
}

func TestDeadlineAddEndToEnd(t *testing.T) {
	t.Parallel()

	mock := llm.NewMock(
		`{"intent": "deadline", "reasoning": "wants to add an exam"}`,
		`{"action": "add", "data": {"title": "Databases exam", "due_date": "2026-06-01", "subject": "CS", "priority": "high", "notes": ""}, "user_message": "Exam scheduled, good luck!"}`,
	)
	spy := &deadlineSpy{}
	o := NewOrchestrator(mockFactory(mock), spy, nil)
	fixedClock(o)

	res, err := o.Dispatch(context.Background(), userTurns("Add my databases exam on 2026-06-01, high priority"), nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if len(spy.added) != 1 {
		t.Fatalf("AddDeadline called %d times, want 1", len(spy.added))
	}
	added := spy.added[0]
	if added.Title != "Databases exam" || added.DueDate != "2026-06-01" || added.Priority != "high" {
		t.Errorf("stored deadline = %+v", added)
	}
	if !strings.Contains(res.Response, "Deadline added") {
		t.Errorf("response missing confirmation: %q", res.Response)
	}
	if !strings.Contains(res.Response, "2026-06-01") {
		t.Errorf("response missing due date: %q", res.Response)
	}
}

// A malformed model reply must surface as plain text and must not touch
// storage at all.
func TestDeadlineMalformedReplyWritesNothing(t *testing.T) {
	t.Parallel()

	raw := "Sure, I'll add that exam for you right away!"
	mock := llm.NewMock(
		`{"intent": "deadline", "reasoning": "deadline talk"}`,
		raw,
	)
	spy := &deadlineSpy{}
	o := NewOrchestrator(mockFactory(mock), spy, nil)
	fixedClock(o)

	res, err := o.Dispatch(context.Background(), userTurns("add my exam friday"), nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if res.Response != raw {
		t.Errorf("response = %q, want raw model text", res.Response)
	}
	if len(spy.added)+len(spy.completed)+len(spy.deleted) != 0 {
		t.Errorf("storage mutated: %+v", spy)
	}
}

func TestDeadlineCompleteUnknownID(t *testing.T) {
	t.Parallel()

	mock := llm.NewMock(
		`{"intent": "deadline", "reasoning": "completion"}`,
		`{"action": "complete", "data": {"id": 42}, "user_message": "done"}`,
	)
	spy := &deadlineSpy{missingID: true}
	o := NewOrchestrator(mockFactory(mock), spy, nil)
	fixedClock(o)

	res, err := o.Dispatch(context.Background(), userTurns("mark deadline 42 as done"), nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if !strings.Contains(res.Response, "Could not find deadline #42") {
		t.Errorf("response = %q", res.Response)
	}
}

func TestDeadlineStringID(t *testing.T) {
	t.Parallel()

	mock := llm.NewMock(
		`{"intent": "deadline", "reasoning": "deletion"}`,
		`{"action": "delete", "data": {"id": "#7"}, "user_message": "removed"}`,
	)
	spy := &deadlineSpy{}
	o := NewOrchestrator(mockFactory(mock), spy, nil)
	fixedClock(o)

	res, err := o.Dispatch(context.Background(), userTurns("delete deadline 7"), nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(spy.deleted) != 1 || spy.deleted[0] != 7 {
		t.Fatalf("deleted = %v, want [7]", spy.deleted)
	}
	if !strings.Contains(res.Response, "#7 deleted") {
		t.Errorf("response = %q", res.Response)
	}
}

func TestDeadlineListIncludesExisting(t *testing.T) {
	t.Parallel()

	mock := llm.NewMock(
		`{"intent": "deadline", "reasoning": "listing"}`,
		`{"action": "list", "data": {"status": "all"}, "user_message": "here you go"}`,
	)
	spy := &deadlineSpy{existing: []domain.Deadline{
		{ID: 1, Title: "Linear algebra quiz", DueDate: "2026-05-25", Priority: domain.PriorityHigh, Status: domain.StatusPending},
	}}
	o := NewOrchestrator(mockFactory(mock), spy, nil)
	fixedClock(o)

	res, err := o.Dispatch(context.Background(), userTurns("show all my deadlines"), nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if !strings.Contains(res.Response, "Linear algebra quiz") {
		t.Errorf("response missing listed deadline: %q", res.Response)
	}
	// The agent prompt embeds current deadlines so the model can resolve ids.
	if spy.listed == 0 {
		t.Error("ListDeadlines never called for prompt context")
	}
}

func TestDeadlinePromptCarriesToday(t *testing.T) {
	t.Parallel()

	mock := llm.NewMock(
		`{"intent": "deadline", "reasoning": "planning"}`,
		`{"action": "chat", "data": {"message": "Let's plan your week."}, "user_message": "Let's plan your week."}`,
	)
	o := NewOrchestrator(mockFactory(mock), &deadlineSpy{}, nil)
	fixedClock(o)

	if _, err := o.Dispatch(context.Background(), userTurns("help me plan"), nil); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	calls := mock.Calls()
	system := calls[len(calls)-1][0].Content
	if !strings.Contains(system, "2026-05-20") {
		t.Error("deadline prompt missing today's date")
	}
}
