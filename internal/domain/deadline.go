package domain

import "time"

// Deadline priorities and statuses are stored as plain strings so records
// survive schema-free round trips through the model.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	StatusPending = "pending"
	StatusDone    = "done"
	StatusOverdue = "overdue"
)

// Deadline is a tracked assignment, exam, or task.
type Deadline struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Subject   string    `json:"subject,omitempty"`
	DueDate   string    `json:"due_date"` // YYYY-MM-DD
	Priority  string    `json:"priority"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
