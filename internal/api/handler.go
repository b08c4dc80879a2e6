// Package api provides HTTP handlers for the study assistant API.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"studymate/internal/agent"
	"studymate/internal/ingest"
	"studymate/internal/shared"
	"studymate/internal/store"
)

// Handler provides common handler utilities.
type Handler struct {
	repo    store.Repository
	orch    *agent.Orchestrator
	scraper *ingest.URLScraper
	rooms   *roomHub
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(repo store.Repository, orch *agent.Orchestrator) *Handler {
	return &Handler{
		repo:    repo,
		orch:    orch,
		scraper: ingest.NewURLScraper(),
		rooms:   newRoomHub(),
	}
}

// RegisterRoutes registers all API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", h.Chat)
		r.Post("/chat/upload", h.ChatUpload)
		r.Post("/revision/material", h.RevisionMaterial)

		r.Route("/rooms", func(r chi.Router) {
			r.Post("/", h.CreateRoom)
			r.Route("/{code}", func(r chi.Router) {
				r.Get("/", h.GetRoom)
				r.Post("/join", h.JoinRoom)
				r.Post("/uploads", h.RoomUpload)
				r.Get("/uploads", h.RoomUploads)
				r.Get("/messages", h.RoomMessages)
				r.Get("/quiz", h.RoomQuiz)
				r.Get("/summary", h.RoomSummary)
				r.Get("/graph", h.RoomGraph)
				r.Get("/graph/page", h.RoomGraphPage)
			})
		})

		r.Post("/quiz/attempts", h.LogQuizAttempt)
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/summary", h.AnalyticsSummary)
			r.Get("/report", h.AnalyticsReport)
			r.Get("/insight", h.AnalyticsInsight)
		})
	})

	r.Get("/ws/rooms/{code}", h.RoomSocket)
}

func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// storeError maps a storage failure to the right status. SQLite concurrency
// conflicts get 503 so clients know to retry.
func storeError(w http.ResponseWriter, err error) {
	slog.Error("storage failure", "error", err)
	if shared.IsSQLiteConflictError(err) {
		Error(w, http.StatusServiceUnavailable, "database busy, please retry")
		return
	}
	Error(w, http.StatusInternalServerError, "storage error")
}
