package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func runCORS(t *testing.T, origins []string, origin, method string) *httptest.ResponseRecorder {
	t.Helper()

	handler := CORS(origins)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(method, "/api/chat", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCORSExplicitOriginGetsCredentials(t *testing.T) {
	t.Parallel()

	rec := runCORS(t, []string{"https://study.example.com"}, "https://study.example.com", http.MethodGet)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://study.example.com" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("explicit origin should be allowed credentials")
	}
}

func TestCORSWildcardWithoutCredentials(t *testing.T) {
	t.Parallel()

	rec := runCORS(t, []string{"*"}, "https://anywhere.example.com", http.MethodGet)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://anywhere.example.com" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "" {
		t.Error("wildcard match must not grant credentials")
	}
}

func TestCORSUnknownOriginIgnored(t *testing.T) {
	t.Parallel()

	rec := runCORS(t, []string{"https://study.example.com"}, "https://evil.example.com", http.MethodGet)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("unknown origin should get no CORS headers")
	}
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	t.Parallel()

	rec := runCORS(t, []string{"*"}, "https://anywhere.example.com", http.MethodOptions)
	if rec.Code != http.StatusOK {
		t.Errorf("preflight status = %d", rec.Code)
	}
}
