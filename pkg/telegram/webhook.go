package telegram

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/flemzord/botapi/internal/security"
)

// SecretTokenHeader carries the secret_token given to setWebhook.
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

const maxUpdateBytes = 1 << 20

// WebhookHandler is an http.Handler receiving updates pushed by Telegram.
// It answers 401 when the secret token does not match, 400 when the body
// is not an Update and 500 when the Handler fails, which makes Telegram
// redeliver the update later.
type WebhookHandler struct {
	handler Handler
	secret  string
	logger  *slog.Logger
	metrics *Metrics
}

// WebhookOption configures a WebhookHandler.
type WebhookOption func(*WebhookHandler)

// WithWebhookSecret requires every request to carry secret in SecretTokenHeader.
func WithWebhookSecret(secret string) WebhookOption {
	return func(w *WebhookHandler) { w.secret = secret }
}

// WithWebhookLogger sets the logger.
func WithWebhookLogger(logger *slog.Logger) WebhookOption {
	return func(w *WebhookHandler) { w.logger = logger }
}

// WithWebhookMetrics counts received updates in m.
func WithWebhookMetrics(m *Metrics) WebhookOption {
	return func(w *WebhookHandler) { w.metrics = m }
}

// NewWebhookHandler creates a webhook endpoint dispatching to h.
func NewWebhookHandler(h Handler, opts ...WebhookOption) *WebhookHandler {
	w := &WebhookHandler{handler: h, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// ServeHTTP implements http.Handler.
func (w *WebhookHandler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		rw.Header().Set("Allow", http.MethodPost)
		http.Error(rw, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if w.secret != "" && !security.SecretEqual(w.secret, r.Header.Get(SecretTokenHeader)) {
		w.logger.Warn("webhook rejected: invalid secret token", "remote_addr", r.RemoteAddr)
		http.Error(rw, "unauthorized", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(rw, r.Body, maxUpdateBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(rw, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(rw, "read body", http.StatusBadRequest)
		return
	}

	update, err := Decode[Update](body)
	if err != nil {
		w.logger.Warn("webhook rejected: invalid update", "error", err)
		http.Error(rw, "invalid update", http.StatusBadRequest)
		return
	}

	kind := update.Kind()
	w.metrics.observeUpdate(kind)
	if err := w.handler.HandleUpdate(r.Context(), &update); err != nil {
		w.logger.Error("update handler failed",
			"update_id", update.UpdateID,
			"kind", kind,
			"error", err,
		)
		http.Error(rw, "handler failed", http.StatusInternalServerError)
		return
	}
	rw.WriteHeader(http.StatusOK)
}
