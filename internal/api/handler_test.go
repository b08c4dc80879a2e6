package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"studymate/internal/agent"
	"studymate/internal/llm"
	"studymate/internal/store"
)

func newTestServer(t *testing.T, mock llm.Client) (*httptest.Server, store.Repository) {
	t.Helper()

	repo, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	orch := agent.NewOrchestrator(func(float64) llm.Client { return mock }, repo, nil)
	h := NewHandler(repo, orch)

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, repo
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestChatEndpoint(t *testing.T) {
	t.Parallel()

	mock := llm.NewMock(
		`{"intent": "general", "reasoning": "greeting"}`,
		"Hi! Ready to study?",
	)
	srv, _ := newTestServer(t, mock)

	resp := postJSON(t, srv.URL+"/api/chat", map[string]interface{}{"message": "hello"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body chatResponse
	decodeBody(t, resp, &body)
	if body.Intent != "general" || body.Response != "Hi! Ready to study?" {
		t.Errorf("body = %+v", body)
	}
}

func TestChatEmptyMessageRejected(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, llm.NewMock("unused"))
	resp := postJSON(t, srv.URL+"/api/chat", map[string]interface{}{"message": "   "})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestChatWithRoomMirrorsIntoRoomLog(t *testing.T) {
	t.Parallel()

	mock := llm.NewMock(
		`{"intent": "general", "reasoning": "greeting"}`,
		"Hi! Ready to study?",
	)
	srv, repo := newTestServer(t, mock)

	room, err := repo.CreateRoom(context.Background(), "Evening crew")
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	resp := postJSON(t, srv.URL+"/api/chat", map[string]interface{}{
		"message":  "hello",
		"room":     room.Code,
		"username": "ada",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 when the body names a room", resp.StatusCode)
	}
	var body chatResponse
	decodeBody(t, resp, &body)
	if body.Response != "Hi! Ready to study?" {
		t.Errorf("response = %q", body.Response)
	}

	msgs, err := repo.RoomMessages(context.Background(), room.Code, 10)
	if err != nil {
		t.Fatalf("RoomMessages failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("room messages = %d, want question plus reply", len(msgs))
	}
	if msgs[0].Username != "ada" || msgs[0].Content != "hello" {
		t.Errorf("mirrored question = %+v", msgs[0])
	}
	if msgs[1].Username != "AI Tutor" || msgs[1].Content != "Hi! Ready to study?" {
		t.Errorf("mirrored reply = %+v", msgs[1])
	}
}

func TestChatUnknownRoomRejected(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, llm.NewMock("unused"))
	resp := postJSON(t, srv.URL+"/api/chat", map[string]interface{}{
		"message": "hello",
		"room":    "NOPE99",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestChatUpstreamFailureIsSoft(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, llm.NewMockError(errors.New("connection refused")))

	resp := postJSON(t, srv.URL+"/api/chat", map[string]interface{}{"message": "hello"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 even on model failure", resp.StatusCode)
	}

	var body chatResponse
	decodeBody(t, resp, &body)
	if body.Intent != "error" {
		t.Errorf("intent = %q, want error", body.Intent)
	}
	if body.Response == "" {
		t.Error("empty error message")
	}
}

func TestChatUploadForcesCourse(t *testing.T) {
	t.Parallel()

	mock := llm.NewMock("Here's a summary of your notes.")
	srv, _ := newTestServer(t, mock)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("text", "Entropy always increases in a closed system."); err != nil {
		t.Fatal(err)
	}
	if err := mw.WriteField("message", "summarize"); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	resp, err := http.Post(srv.URL+"/api/chat/upload", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST upload: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body chatResponse
	decodeBody(t, resp, &body)
	if body.Intent != "course" {
		t.Errorf("intent = %q, want course (forced)", body.Intent)
	}
}

func TestRevisionMaterialForcesRevision(t *testing.T) {
	t.Parallel()

	mock := llm.NewMock(`{"type": "quiz", "title": "Quick Quiz", "questions": [
		{"id": 1, "question": "Q?", "options": ["A) yes", "B) no"], "answer": "A", "explanation": ""}
	]}`)
	srv, _ := newTestServer(t, mock)

	resp := postJSON(t, srv.URL+"/api/revision/material", map[string]interface{}{
		"content": "Entropy notes...",
		"message": "quiz me",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body chatResponse
	decodeBody(t, resp, &body)
	if body.Intent != "revision" {
		t.Errorf("intent = %q, want revision (forced)", body.Intent)
	}
	if !strings.Contains(body.Response, "Quick Quiz") {
		t.Errorf("response not rendered as quiz: %q", body.Response)
	}
}

func TestRoomLifecycleOverHTTP(t *testing.T) {
	t.Parallel()

	mock := llm.NewMock(`{"title": "Group Quiz", "questions": [
		{"id": 1, "question": "Q?", "options": ["A) x", "B) y"], "answer": "A", "source": "notes.txt"}
	]}`)
	srv, _ := newTestServer(t, mock)

	// Create.
	resp := postJSON(t, srv.URL+"/api/rooms", map[string]interface{}{
		"name": "Algo cram", "username": "amira",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var room struct {
		Code string `json:"code"`
	}
	decodeBody(t, resp, &room)
	if len(room.Code) != 6 {
		t.Fatalf("room code = %q", room.Code)
	}

	// Join with a lowercased code.
	resp = postJSON(t, srv.URL+"/api/rooms/"+strings.ToLower(room.Code)+"/join",
		map[string]interface{}{"username": "ben"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("join status = %d", resp.StatusCode)
	}

	// Upload text material.
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("username", "amira")
	mw.WriteField("filename", "notes.txt")
	mw.WriteField("text", "Big-O bounds asymptotic growth.")
	mw.Close()

	upResp, err := http.Post(srv.URL+"/api/rooms/"+room.Code+"/uploads", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST upload: %v", err)
	}
	defer upResp.Body.Close()
	if upResp.StatusCode != http.StatusCreated {
		t.Fatalf("upload status = %d", upResp.StatusCode)
	}

	// Members and uploads are visible.
	getResp, err := http.Get(srv.URL + "/api/rooms/" + room.Code)
	if err != nil {
		t.Fatalf("GET room: %v", err)
	}
	var detail struct {
		Members []struct {
			Username string `json:"username"`
		} `json:"members"`
		Uploads []struct {
			Filename string `json:"filename"`
			Content  string `json:"content"`
		} `json:"uploads"`
	}
	decodeBody(t, getResp, &detail)
	if len(detail.Members) != 2 {
		t.Errorf("members = %d, want 2", len(detail.Members))
	}
	if len(detail.Uploads) != 1 || detail.Uploads[0].Filename != "notes.txt" {
		t.Errorf("uploads = %+v", detail.Uploads)
	}
	if detail.Uploads[0].Content != "" {
		t.Error("upload listing leaked content body")
	}

	// Group quiz over the merged material.
	quizResp, err := http.Get(srv.URL + "/api/rooms/" + room.Code + "/quiz")
	if err != nil {
		t.Fatalf("GET quiz: %v", err)
	}
	var quiz struct {
		Quiz string `json:"quiz"`
	}
	decodeBody(t, quizResp, &quiz)
	if !strings.Contains(quiz.Quiz, "Group Quiz") {
		t.Errorf("quiz = %q", quiz.Quiz)
	}
}

func TestRoomNotFound(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, llm.NewMock("unused"))
	resp, err := http.Get(srv.URL + "/api/rooms/ZZZZZZ")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestQuizAttemptAndSummary(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, llm.NewMock("unused"))

	resp := postJSON(t, srv.URL+"/api/quiz/attempts", map[string]interface{}{
		"topic": "thermodynamics", "score": 8, "total": 10,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("attempt status = %d", resp.StatusCode)
	}

	bad := postJSON(t, srv.URL+"/api/quiz/attempts", map[string]interface{}{
		"topic": "t", "score": 11, "total": 10,
	})
	defer bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid attempt status = %d, want 400", bad.StatusCode)
	}

	sumResp, err := http.Get(srv.URL + "/api/analytics/summary")
	if err != nil {
		t.Fatal(err)
	}
	var summary struct {
		QuizStats struct {
			TotalAttempts int     `json:"total_attempts"`
			AvgScore      float64 `json:"avg_score"`
		} `json:"quiz_stats"`
	}
	decodeBody(t, sumResp, &summary)
	if summary.QuizStats.TotalAttempts != 1 || summary.QuizStats.AvgScore != 80 {
		t.Errorf("quiz stats = %+v", summary.QuizStats)
	}
}
