package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"

	"studymate/internal/domain"
)

// roomHub fans room chat messages out to every open socket in a room.
type roomHub struct {
	mu    sync.Mutex
	conns map[string]map[*websocket.Conn]struct{}
}

func newRoomHub() *roomHub {
	return &roomHub{conns: make(map[string]map[*websocket.Conn]struct{})}
}

func (h *roomHub) add(code string, c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[code] == nil {
		h.conns[code] = make(map[*websocket.Conn]struct{})
	}
	h.conns[code][c] = struct{}{}
}

func (h *roomHub) remove(code string, c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns[code], c)
	if len(h.conns[code]) == 0 {
		delete(h.conns, code)
	}
}

func (h *roomHub) broadcast(code string, msg *domain.RoomMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal room message", "error", err)
		return
	}

	h.mu.Lock()
	targets := make([]*websocket.Conn, 0, len(h.conns[code]))
	for c := range h.conns[code] {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	for _, c := range targets {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := c.Write(ctx, websocket.MessageText, data); err != nil {
			slog.Debug("room broadcast write failed", "error", err)
		}
		cancel()
	}
}

type wsInbound struct {
	Content string `json:"content"`
}

// Members write the mention however they like: @ai, @AI, @Ai.
var aiMention = regexp.MustCompile(`(?i)@ai`)

func stripAIMention(s string) string {
	return strings.TrimSpace(aiMention.ReplaceAllString(s, ""))
}

// RoomSocket is the live chat endpoint for a study room. Messages mentioning
// @ai are answered by the tutor over the room's merged materials; everything
// is persisted and broadcast to all connected members.
func (h *Handler) RoomSocket(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	username := r.URL.Query().Get("username")
	if username == "" {
		Error(w, http.StatusBadRequest, "username query parameter is required")
		return
	}

	room, err := h.repo.GetRoom(r.Context(), code)
	if err != nil {
		storeError(w, err)
		return
	}
	if room == nil {
		Error(w, http.StatusNotFound, "room not found")
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Warn("websocket accept failed", "error", err)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("websocket close", "error", closeErr)
		}
	}()

	if err := h.repo.JoinRoom(r.Context(), room.Code, username); err != nil {
		slog.Warn("ws join failed", "error", err)
	}

	h.rooms.add(room.Code, ws)
	defer h.rooms.remove(room.Code, ws)
	slog.Info("room socket open", "room", room.Code, "username", username)

	for {
		_, data, err := ws.Read(r.Context())
		if err != nil {
			if websocket.CloseStatus(err) == -1 {
				slog.Debug("room socket read", "error", err)
			}
			return
		}

		var in wsInbound
		if err := json.Unmarshal(data, &in); err != nil || strings.TrimSpace(in.Content) == "" {
			continue
		}

		msg, err := h.repo.AddRoomMessage(r.Context(), room.Code, username, domain.RoleUser, in.Content, "")
		if err != nil {
			slog.Error("persist room message", "error", err)
			continue
		}
		h.rooms.broadcast(room.Code, msg)

		if aiMention.MatchString(in.Content) {
			h.answerInRoom(r.Context(), room.Code, in.Content)
		}
	}
}

func (h *Handler) answerInRoom(ctx context.Context, code, question string) {
	merged, err := h.repo.MergedContent(ctx, code)
	if err != nil {
		slog.Error("room merged content", "error", err)
		return
	}
	recent, err := h.repo.RoomMessages(ctx, code, 10)
	if err != nil {
		slog.Error("room recent messages", "error", err)
		return
	}

	var transcript strings.Builder
	for _, m := range recent {
		transcript.WriteString(m.Username + ": " + m.Content + "\n")
	}

	question = stripAIMention(question)
	answer, err := h.orch.AnswerRoomQuestion(ctx, merged, transcript.String(), question)
	if err != nil {
		slog.Error("room tutor failed", "error", err)
		answer = "⚠️ I couldn't reach the model just now, please ask again."
	}

	msg, err := h.repo.AddRoomMessage(ctx, code, "AI Tutor", domain.RoleAssistant, answer, "collab")
	if err != nil {
		slog.Error("persist tutor message", "error", err)
		return
	}
	h.rooms.broadcast(code, msg)
}
