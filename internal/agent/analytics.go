package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"studymate/internal/domain"
	"studymate/internal/llm"
)

// WeeklyReport narrates the student's real tracker data into a coaching
// report. The data block is built here so the model never invents numbers.
func (o *Orchestrator) WeeklyReport(ctx context.Context, summary *domain.StudySummary) (string, error) {
	out, err := o.clients(tempAnalytics).Invoke(ctx, []llm.Message{
		llm.System(weeklyReportPrompt),
		llm.User("Student study data:\n\n" + formatStudyData(summary, o.now())),
	})
	if err != nil {
		return "", fmt.Errorf("weekly report: %w", err)
	}
	return out, nil
}

// QuickInsight produces a two-sentence observation for the dashboard.
func (o *Orchestrator) QuickInsight(ctx context.Context, summary *domain.StudySummary) (string, error) {
	out, err := o.clients(tempAnalytics).Invoke(ctx, []llm.Message{
		llm.System(quickInsightPrompt),
		llm.User("Student study data:\n\n" + formatStudyData(summary, o.now())),
	})
	if err != nil {
		return "", fmt.Errorf("quick insight: %w", err)
	}
	return out, nil
}

func formatStudyData(s *domain.StudySummary, now time.Time) string {
	var b strings.Builder

	thisWeek, lastWeek := weekSplit(s.DailyActivity, now)
	fmt.Fprintf(&b, "Sessions this week (last 7 days): %d\n", thisWeek)
	fmt.Fprintf(&b, "Sessions the week before: %d\n", lastWeek)
	fmt.Fprintf(&b, "Current streak: %d days (longest: %d, total active days: %d)\n",
		s.Streak.Current, s.Streak.Longest, s.Streak.TotalDays)

	if len(s.AgentUsage) > 0 {
		b.WriteString("\nAssistant usage:\n")
		for intent, n := range s.AgentUsage {
			fmt.Fprintf(&b, "- %s: %d sessions\n", intent, n)
		}
	}

	if s.QuizStats.TotalAttempts > 0 {
		fmt.Fprintf(&b, "\nQuizzes: %d attempts, average %.1f%%, best %.1f%%, worst %.1f%% (%d/%d correct overall)\n",
			s.QuizStats.TotalAttempts, s.QuizStats.AvgScore, s.QuizStats.BestScore,
			s.QuizStats.WorstScore, s.QuizStats.TotalCorrect, s.QuizStats.TotalQuestions)
		b.WriteString("Recent quiz results (oldest first):\n")
		for _, q := range s.QuizHistory {
			fmt.Fprintf(&b, "- %s | %s | %d/%d (%.1f%%)\n", q.Date, q.Topic, q.Score, q.Total, q.Percent)
		}
	} else {
		b.WriteString("\nNo quizzes taken yet.\n")
	}

	if len(s.TopicFrequency) > 0 {
		b.WriteString("\nMost studied topics:\n")
		for _, t := range s.TopicFrequency {
			fmt.Fprintf(&b, "- %s (%d times)\n", t.Topic, t.Count)
		}
	}

	fmt.Fprintf(&b, "\nDeadlines: %d done, %d pending (%d total)\n",
		s.Deadlines.Done, s.Deadlines.Pending, s.Deadlines.Total)

	return b.String()
}

// weekSplit counts sessions in the last 7 calendar days and the 7 before
// that, both ending at now.
func weekSplit(daily []domain.DayCount, now time.Time) (thisWeek, lastWeek int) {
	today := now.Format("2006-01-02")
	weekAgo := now.AddDate(0, 0, -6).Format("2006-01-02")
	twoWeeksAgo := now.AddDate(0, 0, -13).Format("2006-01-02")

	for _, d := range daily {
		switch {
		case d.Date >= weekAgo && d.Date <= today:
			thisWeek += d.Count
		case d.Date >= twoWeeksAgo && d.Date < weekAgo:
			lastWeek += d.Count
		}
	}
	return thisWeek, lastWeek
}
