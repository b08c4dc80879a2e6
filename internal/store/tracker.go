package store

import (
	"context"
	"fmt"
	"math"
	"time"

	"studymate/internal/domain"
)

// LogSession records one agent interaction.
func (s *SQLiteStore) LogSession(ctx context.Context, agent, topic string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	now := s.now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO study_sessions (date, agent_used, topic, created_at)
		VALUES (?, ?, ?, ?)`,
		now.Format("2006-01-02"), agent, topic, now.Unix())
	if err != nil {
		return fmt.Errorf("insert study session: %w", err)
	}
	return nil
}

// LogQuiz records a quiz attempt with its percentage score.
func (s *SQLiteStore) LogQuiz(ctx context.Context, topic string, score, total int) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if topic == "" {
		topic = "General"
	}
	var pct float64
	if total > 0 {
		pct = math.Round(float64(score)/float64(total)*1000) / 10
	}
	now := s.now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quiz_attempts (date, topic, score, total, pct, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		now.Format("2006-01-02"), topic, score, total, pct, now.Unix())
	if err != nil {
		return fmt.Errorf("insert quiz attempt: %w", err)
	}
	return nil
}

// LogTopic records topic engagement.
func (s *SQLiteStore) LogTopic(ctx context.Context, topic, agent string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	now := s.now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO topic_engagement (date, topic, agent, created_at)
		VALUES (?, ?, ?, ?)`,
		now.Format("2006-01-02"), topic, agent, now.Unix())
	if err != nil {
		return fmt.Errorf("insert topic engagement: %w", err)
	}
	return nil
}

// DailyActivity returns sessions per day for the last N days, zero-filled.
func (s *SQLiteStore) DailyActivity(ctx context.Context, days int) ([]domain.DayCount, error) {
	if days <= 0 {
		days = 30
	}
	since := s.now().AddDate(0, 0, -(days - 1)).Format("2006-01-02")

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, COUNT(*) FROM study_sessions
		WHERE date >= ? GROUP BY date`, since)
	if err != nil {
		return nil, fmt.Errorf("query daily activity: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var date string
		var count int
		if err := rows.Scan(&date, &count); err != nil {
			return nil, fmt.Errorf("scan daily activity row: %w", err)
		}
		counts[date] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily activity: %w", err)
	}

	out := make([]domain.DayCount, 0, days)
	for i := days - 1; i >= 0; i-- {
		d := s.now().AddDate(0, 0, -i).Format("2006-01-02")
		out = append(out, domain.DayCount{Date: d, Count: counts[d]})
	}
	return out, nil
}

// AgentUsage returns session counts per agent over the last N days.
func (s *SQLiteStore) AgentUsage(ctx context.Context, days int) (map[string]int, error) {
	since := s.now().AddDate(0, 0, -days).Format("2006-01-02")

	rows, err := s.db.QueryContext(ctx, `
		SELECT agent_used, COUNT(*) FROM study_sessions
		WHERE date >= ? GROUP BY agent_used ORDER BY COUNT(*) DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("query agent usage: %w", err)
	}
	defer func() { _ = rows.Close() }()

	usage := make(map[string]int)
	for rows.Next() {
		var agent string
		var count int
		if err := rows.Scan(&agent, &count); err != nil {
			return nil, fmt.Errorf("scan agent usage row: %w", err)
		}
		usage[agent] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate agent usage: %w", err)
	}
	return usage, nil
}

// QuizHistory returns the most recent quiz attempts, oldest first.
func (s *SQLiteStore) QuizHistory(ctx context.Context, limit int) ([]domain.QuizAttempt, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, topic, score, total, pct FROM quiz_attempts
		ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query quiz history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var newestFirst []domain.QuizAttempt
	for rows.Next() {
		var q domain.QuizAttempt
		if err := rows.Scan(&q.ID, &q.Date, &q.Topic, &q.Score, &q.Total, &q.Percent); err != nil {
			return nil, fmt.Errorf("scan quiz attempt row: %w", err)
		}
		newestFirst = append(newestFirst, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quiz history: %w", err)
	}

	out := make([]domain.QuizAttempt, len(newestFirst))
	for i, q := range newestFirst {
		out[len(newestFirst)-1-i] = q
	}
	return out, nil
}

// QuizStats aggregates all quiz attempts.
func (s *SQLiteStore) QuizStats(ctx context.Context) (domain.QuizStats, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(ROUND(AVG(pct), 1), 0),
		       COALESCE(MAX(pct), 0),
		       COALESCE(MIN(pct), 0),
		       COALESCE(SUM(score), 0),
		       COALESCE(SUM(total), 0)
		FROM quiz_attempts`)

	var stats domain.QuizStats
	err := row.Scan(&stats.TotalAttempts, &stats.AvgScore, &stats.BestScore,
		&stats.WorstScore, &stats.TotalCorrect, &stats.TotalQuestions)
	if err != nil {
		return domain.QuizStats{}, fmt.Errorf("scan quiz stats: %w", err)
	}
	return stats, nil
}

// TopicFrequency returns the most-studied topics over the last N days.
func (s *SQLiteStore) TopicFrequency(ctx context.Context, days, topN int) ([]domain.TopicCount, error) {
	if topN <= 0 {
		topN = 8
	}
	since := s.now().AddDate(0, 0, -days).Format("2006-01-02")

	rows, err := s.db.QueryContext(ctx, `
		SELECT topic, COUNT(*) FROM topic_engagement
		WHERE date >= ? AND topic != ''
		GROUP BY topic ORDER BY COUNT(*) DESC LIMIT ?`, since, topN)
	if err != nil {
		return nil, fmt.Errorf("query topic frequency: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.TopicCount
	for rows.Next() {
		var tc domain.TopicCount
		if err := rows.Scan(&tc.Topic, &tc.Count); err != nil {
			return nil, fmt.Errorf("scan topic frequency row: %w", err)
		}
		out = append(out, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate topic frequency: %w", err)
	}
	return out, nil
}

// Streak computes study streaks by the standard definition: the current
// streak is the number of consecutive calendar days with at least one
// session, ending today or yesterday; the longest streak is the longest such
// run anywhere in the history.
func (s *SQLiteStore) Streak(ctx context.Context) (domain.Streak, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT date FROM study_sessions ORDER BY date DESC`)
	if err != nil {
		return domain.Streak{}, fmt.Errorf("query session dates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var dates []time.Time
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return domain.Streak{}, fmt.Errorf("scan session date: %w", err)
		}
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return domain.Streak{}, fmt.Errorf("iterate session dates: %w", err)
	}

	if len(dates) == 0 {
		return domain.Streak{}, nil
	}

	today, _ := time.Parse("2006-01-02", s.now().Format("2006-01-02"))

	// Current streak: walk newest-first while days stay consecutive. A
	// streak is still "current" if the last session was yesterday.
	current := 0
	gap := int(today.Sub(dates[0]).Hours() / 24)
	if gap <= 1 {
		current = 1
		for i := 1; i < len(dates); i++ {
			if int(dates[i-1].Sub(dates[i]).Hours()/24) == 1 {
				current++
			} else {
				break
			}
		}
	}

	longest := 1
	run := 1
	for i := 1; i < len(dates); i++ {
		if int(dates[i-1].Sub(dates[i]).Hours()/24) == 1 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}

	return domain.Streak{
		Current:   current,
		Longest:   longest,
		TotalDays: len(dates),
	}, nil
}

// FullSummary assembles the complete analytics snapshot for the analytics
// agent.
func (s *SQLiteStore) FullSummary(ctx context.Context, days int) (*domain.StudySummary, error) {
	if days <= 0 {
		days = 30
	}

	daily, err := s.DailyActivity(ctx, days)
	if err != nil {
		return nil, err
	}
	usage, err := s.AgentUsage(ctx, days)
	if err != nil {
		return nil, err
	}
	history, err := s.QuizHistory(ctx, 10)
	if err != nil {
		return nil, err
	}
	stats, err := s.QuizStats(ctx)
	if err != nil {
		return nil, err
	}
	topics, err := s.TopicFrequency(ctx, days, 8)
	if err != nil {
		return nil, err
	}
	streak, err := s.Streak(ctx)
	if err != nil {
		return nil, err
	}

	deadlines, err := s.ListDeadlines(ctx, "")
	if err != nil {
		return nil, err
	}
	var counts domain.DeadlineCounts
	counts.Total = len(deadlines)
	for _, d := range deadlines {
		switch d.Status {
		case domain.StatusDone:
			counts.Done++
		case domain.StatusPending:
			counts.Pending++
		}
	}

	return &domain.StudySummary{
		DailyActivity:  daily,
		AgentUsage:     usage,
		QuizHistory:    history,
		QuizStats:      stats,
		TopicFrequency: topics,
		Streak:         streak,
		Deadlines:      counts,
	}, nil
}
