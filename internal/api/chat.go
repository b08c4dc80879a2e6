package api

import (
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"studymate/internal/agent"
	"studymate/internal/domain"
	"studymate/internal/ingest"
)

const maxUploadBytes = 20 << 20 // 20 MiB

type chatRequest struct {
	Message  string        `json:"message"`
	History  []domain.Turn `json:"history"`
	Room     string        `json:"room"`
	Username string        `json:"username"`
}

type chatResponse struct {
	Response string `json:"response"`
	Intent   string `json:"intent"`
}

// Chat handles one conversational turn. Upstream model failures come back as
// a normal 200 with intent "error": the client keeps its history and the
// student simply retries.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		Error(w, http.StatusBadRequest, "message is required")
		return
	}

	var room *domain.Room
	if req.Room != "" {
		var err error
		room, err = h.repo.GetRoom(r.Context(), req.Room)
		if err != nil {
			storeError(w, err)
			return
		}
		if room == nil {
			Error(w, http.StatusNotFound, "room not found")
			return
		}
	}

	turns := append(req.History, domain.Turn{Role: domain.RoleUser, Content: req.Message})
	res, ok := h.dispatch(w, r, turns, nil)
	if !ok {
		return
	}

	if room != nil {
		h.mirrorToRoom(r, room.Code, req.Username, req.Message, res.Response)
	}
	JSON(w, http.StatusOK, chatResponse{Response: res.Response, Intent: string(res.Intent)})
}

// mirrorToRoom copies a chat exchange into a room's shared log so members see
// it alongside the live conversation. Failures are logged, never surfaced.
func (h *Handler) mirrorToRoom(r *http.Request, code, username, question, answer string) {
	if username == "" {
		username = "student"
	}
	if msg, err := h.repo.AddRoomMessage(r.Context(), code, username, domain.RoleUser, question, ""); err != nil {
		slog.Warn("mirror room message failed", "error", err)
	} else {
		h.rooms.broadcast(code, msg)
	}
	if msg, err := h.repo.AddRoomMessage(r.Context(), code, "AI Tutor", domain.RoleAssistant, answer, "chat"); err != nil {
		slog.Warn("mirror room reply failed", "error", err)
	} else {
		h.rooms.broadcast(code, msg)
	}
}

// ChatUpload ingests study material (PDF, PPTX, URL, or raw text) and runs a
// forced course dispatch over it.
func (h *Handler) ChatUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	message := r.FormValue("message")
	if message == "" {
		message = "Summarize this material for me."
	}

	side, errMsg := h.extractMaterial(r)
	if errMsg != "" {
		Error(w, http.StatusBadRequest, errMsg)
		return
	}
	side.Intent = agent.IntentCourse

	turns := []domain.Turn{{Role: domain.RoleUser, Content: message}}
	if res, ok := h.dispatch(w, r, turns, side); ok {
		JSON(w, http.StatusOK, chatResponse{Response: res.Response, Intent: string(res.Intent)})
	}
}

type revisionMaterialRequest struct {
	Content string `json:"content"`
	Message string `json:"message"`
}

// RevisionMaterial runs a forced revision dispatch over provided material.
func (h *Handler) RevisionMaterial(w http.ResponseWriter, r *http.Request) {
	var req revisionMaterialRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		Error(w, http.StatusBadRequest, "content is required")
		return
	}
	if req.Message == "" {
		req.Message = "Create a quiz from this material."
	}

	side := &agent.SideChannel{
		Intent:  agent.IntentRevision,
		Source:  agent.SourceText,
		Content: req.Content,
	}
	turns := []domain.Turn{{Role: domain.RoleUser, Content: req.Message}}
	if res, ok := h.dispatch(w, r, turns, side); ok {
		JSON(w, http.StatusOK, chatResponse{Response: res.Response, Intent: string(res.Intent)})
	}
}

// dispatch runs one orchestrator turn. On upstream failure it writes the soft
// error response itself and reports ok=false; on success the caller owns the
// reply.
func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, turns []domain.Turn, side *agent.SideChannel) (agent.Result, bool) {
	res, err := h.orch.Dispatch(r.Context(), turns, side)
	if err != nil {
		slog.Error("dispatch failed", "error", err)
		JSON(w, http.StatusOK, chatResponse{
			Response: "⚠️ I couldn't reach the model just now. Your message wasn't lost, please try again.",
			Intent:   "error",
		})
		return agent.Result{}, false
	}

	// Activity tracking is best effort and never blocks the reply.
	topic := domain.LastUserMessage(turns)
	if err := h.repo.LogSession(r.Context(), string(res.Intent), topic); err != nil {
		slog.Warn("log session failed", "error", err)
	}
	return res, true
}

// extractMaterial pulls text out of whichever source the form carries.
// The second return value is a client-facing validation error, empty on
// success.
func (h *Handler) extractMaterial(r *http.Request) (*agent.SideChannel, string) {
	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if err != nil {
			return nil, "could not read uploaded file"
		}

		var text string
		var source agent.SourceKind
		switch strings.ToLower(path.Ext(header.Filename)) {
		case ".pdf":
			source = agent.SourcePDF
			text, err = ingest.PDF(data)
		case ".pptx":
			source = agent.SourcePPTX
			text, err = ingest.PPTX(data)
		case ".txt", ".md":
			source = agent.SourceText
			text = string(data)
		default:
			return nil, "unsupported file type (pdf, pptx, txt, md)"
		}
		if err != nil {
			slog.Warn("file extraction failed", "filename", header.Filename, "error", err)
			return nil, "could not extract text from " + header.Filename
		}
		return &agent.SideChannel{Source: source, Content: text}, ""
	}

	if pageURL := r.FormValue("url"); pageURL != "" {
		return &agent.SideChannel{
			Source:  agent.SourceURL,
			Content: h.scraper.Scrape(r.Context(), pageURL),
			URL:     pageURL,
		}, ""
	}

	if text := r.FormValue("text"); text != "" {
		return &agent.SideChannel{Source: agent.SourceText, Content: text}, ""
	}

	return nil, "provide a file, url, or text"
}
