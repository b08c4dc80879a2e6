package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"studymate/internal/agent"
	"studymate/internal/render"
)

type createRoomRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

// CreateRoom creates a study room and joins the creator.
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Username) == "" {
		Error(w, http.StatusBadRequest, "name and username are required")
		return
	}

	room, err := h.repo.CreateRoom(r.Context(), req.Name)
	if err != nil {
		storeError(w, err)
		return
	}
	if err := h.repo.JoinRoom(r.Context(), room.Code, req.Username); err != nil {
		storeError(w, err)
		return
	}
	JSON(w, http.StatusCreated, room)
}

// GetRoom returns a room with its members and upload listing.
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	room, err := h.repo.GetRoom(r.Context(), code)
	if err != nil {
		storeError(w, err)
		return
	}
	if room == nil {
		Error(w, http.StatusNotFound, "room not found")
		return
	}

	members, err := h.repo.Members(r.Context(), room.Code)
	if err != nil {
		storeError(w, err)
		return
	}
	uploads, err := h.repo.Uploads(r.Context(), room.Code)
	if err != nil {
		storeError(w, err)
		return
	}
	// Upload bodies can be large; the listing only carries metadata.
	for i := range uploads {
		uploads[i].Content = ""
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"room":    room,
		"members": members,
		"uploads": uploads,
	})
}

type joinRoomRequest struct {
	Username string `json:"username"`
}

// JoinRoom adds a member to a room.
func (h *Handler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	var req joinRoomRequest
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.Username) == "" {
		Error(w, http.StatusBadRequest, "username is required")
		return
	}

	room, err := h.repo.GetRoom(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		storeError(w, err)
		return
	}
	if room == nil {
		Error(w, http.StatusNotFound, "room not found")
		return
	}

	if err := h.repo.JoinRoom(r.Context(), room.Code, req.Username); err != nil {
		storeError(w, err)
		return
	}
	JSON(w, http.StatusOK, room)
}

// RoomUpload adds study material to a room. Accepts the same multipart form
// as ChatUpload plus a username field.
func (h *Handler) RoomUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	username := r.FormValue("username")
	if username == "" {
		Error(w, http.StatusBadRequest, "username is required")
		return
	}

	room, err := h.repo.GetRoom(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		storeError(w, err)
		return
	}
	if room == nil {
		Error(w, http.StatusNotFound, "room not found")
		return
	}

	side, errMsg := h.extractMaterial(r)
	if errMsg != "" {
		Error(w, http.StatusBadRequest, errMsg)
		return
	}

	filename := r.FormValue("filename")
	if filename == "" {
		if _, header, err := r.FormFile("file"); err == nil {
			filename = header.Filename
		} else if side.URL != "" {
			filename = side.URL
		} else {
			filename = "pasted text"
		}
	}

	upload, err := h.repo.AddUpload(r.Context(), room.Code, username, filename, side.Content)
	if err != nil {
		storeError(w, err)
		return
	}
	upload.Content = ""
	JSON(w, http.StatusCreated, upload)
}

// RoomUploads lists a room's uploads without their bodies.
func (h *Handler) RoomUploads(w http.ResponseWriter, r *http.Request) {
	uploads, err := h.repo.Uploads(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		storeError(w, err)
		return
	}
	for i := range uploads {
		uploads[i].Content = ""
	}
	JSON(w, http.StatusOK, uploads)
}

// RoomMessages returns the most recent room chat, oldest first.
func (h *Handler) RoomMessages(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	messages, err := h.repo.RoomMessages(r.Context(), chi.URLParam(r, "code"), limit)
	if err != nil {
		storeError(w, err)
		return
	}
	JSON(w, http.StatusOK, messages)
}

// RoomQuiz generates a group quiz over everything uploaded to the room.
func (h *Handler) RoomQuiz(w http.ResponseWriter, r *http.Request) {
	merged, err := h.repo.MergedContent(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		storeError(w, err)
		return
	}

	quiz, err := h.orch.GroupQuiz(r.Context(), merged)
	if err != nil {
		slog.Error("group quiz failed", "error", err)
		Error(w, http.StatusBadGateway, "quiz generation failed")
		return
	}
	JSON(w, http.StatusOK, map[string]string{"quiz": quiz})
}

// RoomSummary generates a unified study summary for the room.
func (h *Handler) RoomSummary(w http.ResponseWriter, r *http.Request) {
	merged, err := h.repo.MergedContent(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		storeError(w, err)
		return
	}

	summary, err := h.orch.GroupSummary(r.Context(), merged)
	if err != nil {
		slog.Error("group summary failed", "error", err)
		Error(w, http.StatusBadGateway, "summary generation failed")
		return
	}
	JSON(w, http.StatusOK, map[string]string{"summary": summary})
}

// RoomGraph returns the room's knowledge graph, building and caching it when
// absent. New uploads invalidate the cache.
func (h *Handler) RoomGraph(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	if cached, err := h.repo.RoomGraph(r.Context(), code); err == nil && cached != nil {
		JSON(w, http.StatusOK, map[string]interface{}{
			"graph":  cached,
			"stats":  agent.GraphStats(cached),
			"cached": true,
		})
		return
	}

	merged, err := h.repo.MergedContent(r.Context(), code)
	if err != nil {
		storeError(w, err)
		return
	}

	g, err := h.orch.BuildGraph(r.Context(), merged)
	if err != nil {
		slog.Error("graph build failed", "error", err)
		Error(w, http.StatusBadGateway, "graph generation failed")
		return
	}
	if g.Error == "" {
		if err := h.repo.SaveRoomGraph(r.Context(), code, g); err != nil {
			slog.Warn("graph cache write failed", "error", err)
		}
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"graph":  g,
		"stats":  agent.GraphStats(g),
		"cached": false,
	})
}

// RoomGraphPage serves the room's graph as an interactive HTML page.
func (h *Handler) RoomGraphPage(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	g, err := h.repo.RoomGraph(r.Context(), code)
	if err != nil {
		storeError(w, err)
		return
	}
	if g == nil {
		Error(w, http.StatusNotFound, "no graph built for this room yet")
		return
	}

	page, err := render.GraphHTML(g)
	if err != nil {
		slog.Error("graph render failed", "error", err)
		Error(w, http.StatusInternalServerError, "graph rendering failed")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(page))
}
