package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"studymate/internal/domain"
)

// AddDeadline inserts a deadline and returns the stored record.
func (s *SQLiteStore) AddDeadline(ctx context.Context, title, dueDate, subject, priority, notes string) (*domain.Deadline, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if title == "" {
		title = "Untitled"
	}
	if dueDate == "" {
		dueDate = s.now().Format("2006-01-02")
	}
	if priority == "" {
		priority = domain.PriorityMedium
	}

	query := `
	INSERT INTO deadlines (title, subject, due_date, priority, status, notes, created_at)
	VALUES (?, ?, ?, ?, 'pending', ?, ?)`

	res, err := s.db.ExecContext(ctx, query, title, subject, dueDate, priority, notes, s.now().Unix())
	if err != nil {
		return nil, fmt.Errorf("insert deadline: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("deadline insert id: %w", err)
	}
	return s.getDeadline(ctx, id)
}

func (s *SQLiteStore) getDeadline(ctx context.Context, id int64) (*domain.Deadline, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, subject, due_date, priority, status, notes, created_at
		FROM deadlines WHERE id = ?`, id)

	d, err := scanDeadline(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan deadline row: %w", err)
	}
	return d, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeadline(row rowScanner) (*domain.Deadline, error) {
	var d domain.Deadline
	var createdAt int64
	err := row.Scan(&d.ID, &d.Title, &d.Subject, &d.DueDate, &d.Priority, &d.Status, &d.Notes, &createdAt)
	if err != nil {
		return nil, err
	}
	d.CreatedAt = time.Unix(createdAt, 0)
	return &d, nil
}

// ListDeadlines returns all deadlines ordered by due date, optionally
// filtered by status.
func (s *SQLiteStore) ListDeadlines(ctx context.Context, status string) ([]domain.Deadline, error) {
	query := `
		SELECT id, title, subject, due_date, priority, status, notes, created_at
		FROM deadlines`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY due_date ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query deadlines: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.Deadline
	for rows.Next() {
		d, err := scanDeadline(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deadline row: %w", err)
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deadlines: %w", err)
	}
	return out, nil
}

// UpdateDeadlineStatus sets the status of a deadline.
func (s *SQLiteStore) UpdateDeadlineStatus(ctx context.Context, id int64, status string) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.ExecContext(ctx, `UPDATE deadlines SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return false, fmt.Errorf("update deadline status: %w", err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// DeleteDeadline removes a deadline by id.
func (s *SQLiteStore) DeleteDeadline(ctx context.Context, id int64) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM deadlines WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete deadline: %w", err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// UpcomingDeadlines returns pending deadlines due within the next N days.
func (s *SQLiteStore) UpcomingDeadlines(ctx context.Context, days int) ([]domain.Deadline, error) {
	today := s.now().Format("2006-01-02")
	until := s.now().AddDate(0, 0, days).Format("2006-01-02")

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, subject, due_date, priority, status, notes, created_at
		FROM deadlines
		WHERE status = 'pending' AND due_date BETWEEN ? AND ?
		ORDER BY due_date ASC`, today, until)
	if err != nil {
		return nil, fmt.Errorf("query upcoming deadlines: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.Deadline
	for rows.Next() {
		d, err := scanDeadline(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deadline row: %w", err)
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate upcoming deadlines: %w", err)
	}
	return out, nil
}
