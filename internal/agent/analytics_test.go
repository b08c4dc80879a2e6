package agent

import (
	"context"
	"strings"
	"testing"
	"time"

	"studymate/internal/domain"
	"studymate/internal/llm"
)

func sampleSummary() *domain.StudySummary {
	return &domain.StudySummary{
		DailyActivity: []domain.DayCount{
			{Date: "2026-05-08", Count: 2},
			{Date: "2026-05-14", Count: 1},
			{Date: "2026-05-18", Count: 3},
			{Date: "2026-05-20", Count: 1},
		},
		AgentUsage: map[string]int{"revision": 4, "deadline": 2},
		QuizHistory: []domain.QuizAttempt{
			{Date: "2026-05-18", Topic: "thermodynamics", Score: 6, Total: 10, Percent: 60},
			{Date: "2026-05-20", Topic: "thermodynamics", Score: 8, Total: 10, Percent: 80},
		},
		QuizStats: domain.QuizStats{
			TotalAttempts: 2, AvgScore: 70, BestScore: 80, WorstScore: 60,
			TotalCorrect: 14, TotalQuestions: 20,
		},
		TopicFrequency: []domain.TopicCount{{Topic: "thermodynamics", Count: 5}},
		Streak:         domain.Streak{Current: 1, Longest: 3, TotalDays: 4},
		Deadlines:      domain.DeadlineCounts{Done: 2, Pending: 3, Total: 5},
	}
}

func TestWeekSplit(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)
	thisWeek, lastWeek := weekSplit(sampleSummary().DailyActivity, now)

	// 2026-05-14..20 covers the 14th, 18th and 20th; 05-07..13 covers the 8th.
	if thisWeek != 5 {
		t.Errorf("thisWeek = %d, want 5", thisWeek)
	}
	if lastWeek != 2 {
		t.Errorf("lastWeek = %d, want 2", lastWeek)
	}
}

func TestWeeklyReportDataBlock(t *testing.T) {
	t.Parallel()

	mock := llm.NewMock("## 📊 Performance Summary\nYou studied more this week.")
	o := NewOrchestrator(mockFactory(mock), &deadlineSpy{}, nil)
	fixedClock(o)

	out, err := o.WeeklyReport(context.Background(), sampleSummary())
	if err != nil {
		t.Fatalf("WeeklyReport() error = %v", err)
	}
	if out == "" {
		t.Fatal("empty report")
	}

	// The model must receive real numbers, not raw rows.
	prompt := mock.LastPrompt()
	for _, want := range []string{
		"Sessions this week (last 7 days): 5",
		"Sessions the week before: 2",
		"average 70.0%",
		"thermodynamics",
		"2 done, 3 pending (5 total)",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("data block missing %q:\n%s", want, prompt)
		}
	}
}

func TestQuickInsight(t *testing.T) {
	t.Parallel()

	mock := llm.NewMock("You quizzed twice on thermodynamics this week. Retake it Friday to lock in the gain.")
	o := NewOrchestrator(mockFactory(mock), &deadlineSpy{}, nil)
	fixedClock(o)

	out, err := o.QuickInsight(context.Background(), sampleSummary())
	if err != nil {
		t.Fatalf("QuickInsight() error = %v", err)
	}
	if out == "" {
		t.Fatal("empty insight")
	}
	if !strings.Contains(mock.Calls()[0][0].Content, "2 sentences") {
		t.Error("insight prompt not used")
	}
}
