package api

import (
	"log/slog"
	"net/http"
)

const analyticsWindowDays = 30

type quizAttemptRequest struct {
	Topic string `json:"topic"`
	Score int    `json:"score"`
	Total int    `json:"total"`
}

// LogQuizAttempt records a finished quiz for the analytics tracker.
func (h *Handler) LogQuizAttempt(w http.ResponseWriter, r *http.Request) {
	var req quizAttemptRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Total <= 0 || req.Score < 0 || req.Score > req.Total {
		Error(w, http.StatusBadRequest, "score must be between 0 and total")
		return
	}

	if err := h.repo.LogQuiz(r.Context(), req.Topic, req.Score, req.Total); err != nil {
		storeError(w, err)
		return
	}
	if req.Topic != "" {
		if err := h.repo.LogTopic(r.Context(), req.Topic, "revision"); err != nil {
			slog.Warn("log topic failed", "error", err)
		}
	}
	JSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
}

// AnalyticsSummary returns the raw analytics snapshot.
func (h *Handler) AnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.repo.FullSummary(r.Context(), analyticsWindowDays)
	if err != nil {
		storeError(w, err)
		return
	}
	JSON(w, http.StatusOK, summary)
}

// AnalyticsReport narrates the snapshot into a weekly coaching report.
func (h *Handler) AnalyticsReport(w http.ResponseWriter, r *http.Request) {
	summary, err := h.repo.FullSummary(r.Context(), analyticsWindowDays)
	if err != nil {
		storeError(w, err)
		return
	}

	report, err := h.orch.WeeklyReport(r.Context(), summary)
	if err != nil {
		slog.Error("weekly report failed", "error", err)
		Error(w, http.StatusBadGateway, "report generation failed")
		return
	}
	JSON(w, http.StatusOK, map[string]string{"report": report})
}

// AnalyticsInsight returns the two-sentence dashboard insight.
func (h *Handler) AnalyticsInsight(w http.ResponseWriter, r *http.Request) {
	summary, err := h.repo.FullSummary(r.Context(), analyticsWindowDays)
	if err != nil {
		storeError(w, err)
		return
	}

	insight, err := h.orch.QuickInsight(r.Context(), summary)
	if err != nil {
		slog.Error("quick insight failed", "error", err)
		Error(w, http.StatusBadGateway, "insight generation failed")
		return
	}
	JSON(w, http.StatusOK, map[string]string{"insight": insight})
}
