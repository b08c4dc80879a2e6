package domain

// DayCount is the number of study sessions on a calendar day.
type DayCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// QuizAttempt is one recorded quiz result.
type QuizAttempt struct {
	ID      int64   `json:"id"`
	Date    string  `json:"date"`
	Topic   string  `json:"topic"`
	Score   int     `json:"score"`
	Total   int     `json:"total"`
	Percent float64 `json:"pct"`
}

// QuizStats aggregates all quiz attempts.
type QuizStats struct {
	TotalAttempts  int     `json:"total_attempts"`
	AvgScore       float64 `json:"avg_score"`
	BestScore      float64 `json:"best_score"`
	WorstScore     float64 `json:"worst_score"`
	TotalCorrect   int     `json:"total_correct"`
	TotalQuestions int     `json:"total_questions"`
}

// TopicCount is how often a topic was studied.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// Streak summarises consecutive-day study activity. Current counts the run of
// consecutive calendar days with at least one session ending today or
// yesterday; Longest is the longest such run ever.
type Streak struct {
	Current   int `json:"current"`
	Longest   int `json:"longest"`
	TotalDays int `json:"total_days"`
}

// DeadlineCounts summarises deadline completion for the analytics report.
type DeadlineCounts struct {
	Done    int `json:"done"`
	Pending int `json:"pending"`
	Total   int `json:"total"`
}

// StudySummary is the full analytics snapshot narrated by the analytics agent.
type StudySummary struct {
	DailyActivity  []DayCount     `json:"daily_activity"`
	AgentUsage     map[string]int `json:"agent_usage"`
	QuizHistory    []QuizAttempt  `json:"quiz_history"`
	QuizStats      QuizStats      `json:"quiz_stats"`
	TopicFrequency []TopicCount   `json:"topic_frequency"`
	Streak         Streak         `json:"streak"`
	Deadlines      DeadlineCounts `json:"deadlines"`
}
