package telegram

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path"
	"testing"
)

const testToken = "123456:TEST-token_abcdefghijklmnopqrstuvwxyz"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

// writeOK answers with a successful envelope around result.
func writeOK(t *testing.T, w http.ResponseWriter, result any) {
	t.Helper()
	writeJSON(t, w, APIResponse[any]{OK: true, Result: result})
}

// writeRaw answers with a literal body.
func writeRaw(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// apiMethod returns the Bot API method addressed by r.
func apiMethod(r *http.Request) string {
	return path.Base(r.URL.Path)
}

// newTestBot starts a fake Bot API server and returns a bot pointed at it.
func newTestBot(t *testing.T, h http.HandlerFunc, opts ...Option) *Bot {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	opts = append([]Option{WithAPIURL(srv.URL), WithLogger(discardLogger())}, opts...)
	b, err := New(testToken, opts...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

// decodeBody decodes a JSON request body into a generic map.
func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		t.Errorf("decode request body: %v", err)
	}
	return m
}

func testMessage(id MessageID, text string) Message {
	return Message{
		MessageID: id,
		Date:      1700000000,
		Chat:      Chat{ID: 200, Type: "private"},
		From:      &User{ID: 100, FirstName: "Alice", Username: "alice"},
		Text:      text,
	}
}
