package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestWebhookHandler(t *testing.T) {
	t.Parallel()

	valid, err := json.Marshal(messageUpdate(77))
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	tests := []struct {
		name       string
		method     string
		secret     string
		body       []byte
		handlerErr error
		wantStatus int
		wantCalled bool
	}{
		{"accepted", http.MethodPost, "s3cret", valid, nil, http.StatusOK, true},
		{"wrong method", http.MethodGet, "s3cret", nil, nil, http.StatusMethodNotAllowed, false},
		{"missing secret", http.MethodPost, "", valid, nil, http.StatusUnauthorized, false},
		{"wrong secret", http.MethodPost, "guess", valid, nil, http.StatusUnauthorized, false},
		{"not json", http.MethodPost, "s3cret", []byte("hello"), nil, http.StatusBadRequest, false},
		{"missing update_id", http.MethodPost, "s3cret", []byte(`{"message":null}`), nil, http.StatusBadRequest, false},
		{"too large", http.MethodPost, "s3cret", bytes.Repeat([]byte("a"), maxUpdateBytes+1), nil, http.StatusRequestEntityTooLarge, false},
		{"handler fails", http.MethodPost, "s3cret", valid, errors.New("db down"), http.StatusInternalServerError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var called *Update
			h := NewWebhookHandler(HandlerFunc(func(_ context.Context, u *Update) error {
				called = u
				return tt.handlerErr
			}), WithWebhookSecret("s3cret"), WithWebhookLogger(discardLogger()))

			req := httptest.NewRequest(tt.method, "/telegram/webhook", bytes.NewReader(tt.body))
			if tt.secret != "" {
				req.Header.Set(SecretTokenHeader, tt.secret)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if (called != nil) != tt.wantCalled {
				t.Errorf("handler called = %v, want %v", called != nil, tt.wantCalled)
			}
			if called != nil && (called.UpdateID != 77 || called.Message == nil || called.Message.Text != "u") {
				t.Errorf("update = %+v", called)
			}
		})
	}
}

func TestWebhookHandlerWithoutSecret(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics(prometheus.NewRegistry())
	h := NewWebhookHandler(HandlerFunc(func(context.Context, *Update) error { return nil }),
		WithWebhookMetrics(metrics))

	body := `{"update_id":5,"callback_query":{"id":"q","from":{"id":1,"is_bot":false,"first_name":"A"},"chat_instance":"ci","data":"x"}}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %q", rec.Code, rec.Body.String())
	}
	if got := testutil.ToFloat64(metrics.updates.WithLabelValues(string(UpdateCallbackQuery))); got != 1 {
		t.Errorf("updates_total{kind=callback_query} = %v, want 1", got)
	}
}
