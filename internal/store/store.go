// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"studymate/internal/domain"
)

// DeadlineStore persists tracked deadlines.
type DeadlineStore interface {
	// AddDeadline inserts a deadline and returns the stored record.
	AddDeadline(ctx context.Context, title, dueDate, subject, priority, notes string) (*domain.Deadline, error)

	// ListDeadlines returns all deadlines ordered by due date. An empty
	// status returns every record.
	ListDeadlines(ctx context.Context, status string) ([]domain.Deadline, error)

	// UpdateDeadlineStatus sets the status of a deadline. Returns false when
	// no record with that id exists.
	UpdateDeadlineStatus(ctx context.Context, id int64, status string) (bool, error)

	// DeleteDeadline removes a deadline. Returns false when no record with
	// that id exists.
	DeleteDeadline(ctx context.Context, id int64) (bool, error)

	// UpcomingDeadlines returns pending deadlines due within the next N days.
	UpcomingDeadlines(ctx context.Context, days int) ([]domain.Deadline, error)
}

// RoomStore persists collaborative study rooms.
type RoomStore interface {
	// CreateRoom creates a room with a fresh unique join code.
	CreateRoom(ctx context.Context, name string) (*domain.Room, error)

	// GetRoom returns a room by code, or nil when it does not exist.
	GetRoom(ctx context.Context, code string) (*domain.Room, error)

	// JoinRoom adds (or reactivates) a member.
	JoinRoom(ctx context.Context, code, username string) error

	// Members lists the active members of a room in join order.
	Members(ctx context.Context, code string) ([]domain.Member, error)

	// AddUpload stores contributed material and invalidates the room's
	// cached graph.
	AddUpload(ctx context.Context, code, username, filename, content string) (*domain.Upload, error)

	// Uploads lists a room's uploads in upload order.
	Uploads(ctx context.Context, code string) ([]domain.Upload, error)

	// MergedContent joins all uploads into one labelled text block.
	MergedContent(ctx context.Context, code string) (string, error)

	// SaveRoomGraph caches a built knowledge graph for the room.
	SaveRoomGraph(ctx context.Context, code string, graph *domain.Graph) error

	// RoomGraph returns the cached graph, or nil when absent or stale.
	RoomGraph(ctx context.Context, code string) (*domain.Graph, error)

	// InvalidateRoomGraph clears the cached graph.
	InvalidateRoomGraph(ctx context.Context, code string) error

	// AddRoomMessage appends a message to the room chat.
	AddRoomMessage(ctx context.Context, code, username string, role domain.Role, content, agent string) (*domain.RoomMessage, error)

	// RoomMessages returns the most recent messages in chronological order.
	RoomMessages(ctx context.Context, code string, limit int) ([]domain.RoomMessage, error)
}

// TrackerStore records study activity for analytics.
type TrackerStore interface {
	// LogSession records one agent interaction.
	LogSession(ctx context.Context, agent, topic string) error

	// LogQuiz records a quiz attempt.
	LogQuiz(ctx context.Context, topic string, score, total int) error

	// LogTopic records topic engagement.
	LogTopic(ctx context.Context, topic, agent string) error

	// DailyActivity returns sessions per day for the last N days, with
	// zero-count days filled in.
	DailyActivity(ctx context.Context, days int) ([]domain.DayCount, error)

	// AgentUsage returns session counts per agent over the last N days.
	AgentUsage(ctx context.Context, days int) (map[string]int, error)

	// QuizHistory returns the most recent quiz attempts, oldest first.
	QuizHistory(ctx context.Context, limit int) ([]domain.QuizAttempt, error)

	// QuizStats aggregates all quiz attempts.
	QuizStats(ctx context.Context) (domain.QuizStats, error)

	// TopicFrequency returns the most-studied topics over the last N days.
	TopicFrequency(ctx context.Context, days, topN int) ([]domain.TopicCount, error)

	// Streak computes current and longest consecutive-day streaks.
	Streak(ctx context.Context) (domain.Streak, error)

	// FullSummary assembles the complete analytics snapshot.
	FullSummary(ctx context.Context, days int) (*domain.StudySummary, error)
}

// Repository is the full persistence surface backed by a single database.
type Repository interface {
	DeadlineStore
	RoomStore
	TrackerStore

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
