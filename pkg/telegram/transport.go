package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/flemzord/botapi/internal/security"
)

const (
	// DefaultAPIURL is the public Bot API server.
	DefaultAPIURL = "https://api.telegram.org"

	defaultRequestTimeout = 60 * time.Second
	maxResponseBytes      = 10 << 20
)

// Request is one Bot API call ready to be sent.
type Request struct {
	// Method is the Bot API method name, e.g. "sendMessage".
	Method string
	// HTTPMethod is GET for calls without parameters and POST otherwise.
	HTTPMethod string
	// ContentType is empty for GET requests.
	ContentType string
	Body        []byte
}

// Response is the raw reply to a Request.
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport sends one request and returns the raw response. Non-2xx
// status codes are not errors: Telegram reports failures in the envelope.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// FileDownloader is implemented by transports that can fetch files from
// the Bot API file endpoint.
type FileDownloader interface {
	Download(ctx context.Context, filePath string, w io.Writer) (int64, error)
}

// ErrResponseTooLarge is returned when a Bot API response body exceeds
// the 10 MiB read limit.
var ErrResponseTooLarge = errors.New("response exceeds 10 MiB")

// HTTPTransport is the default Transport, backed by net/http.
type HTTPTransport struct {
	token    string
	baseURL  string
	http     *http.Client
	redactor *security.Redactor
	maxBody  int64
}

var (
	_ Transport      = (*HTTPTransport)(nil)
	_ FileDownloader = (*HTTPTransport)(nil)
)

// NewHTTPTransport creates a transport for the given token and API base
// URL. A nil client gets a dedicated pooled client with a 60s timeout.
func NewHTTPTransport(token, baseURL string, client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{
			Timeout:   defaultRequestTimeout,
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		}
	}
	return &HTTPTransport{
		token:    token,
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     client,
		redactor: security.NewRedactor(token),
		maxBody:  maxResponseBytes,
	}
}

// Do implements Transport.
func (t *HTTPTransport) Do(ctx context.Context, r *Request) (*Response, error) {
	endpoint := t.baseURL + "/bot" + t.token + "/" + r.Method

	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	httpMethod := r.HTTPMethod
	if httpMethod == "" {
		httpMethod = http.MethodPost
	}

	req, err := http.NewRequestWithContext(ctx, httpMethod, endpoint, body)
	if err != nil {
		return nil, t.redact("create request", err)
	}
	if r.ContentType != "" {
		req.Header.Set("Content-Type", r.ContentType)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, t.redact("", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBody+1))
	if err != nil {
		return nil, t.redact("read response", err)
	}
	if int64(len(data)) > t.maxBody {
		return nil, ErrResponseTooLarge
	}
	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}

// FileURL returns the download URL for a file_path obtained from getFile.
// The URL embeds the bot token and must not be shared.
func (t *HTTPTransport) FileURL(filePath string) string {
	return t.baseURL + "/file/bot" + t.token + "/" + strings.TrimLeft(filePath, "/")
}

// Download streams the file at filePath into w.
func (t *HTTPTransport) Download(ctx context.Context, filePath string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.FileURL(filePath), nil)
	if err != nil {
		return 0, t.redact("create request", err)
	}
	resp, err := t.http.Do(req)
	if err != nil {
		return 0, t.redact("", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download %s: http %d", filePath, resp.StatusCode)
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, t.redact("read file", err)
	}
	return n, nil
}

// CloseIdleConnections releases pooled connections.
func (t *HTTPTransport) CloseIdleConnections() {
	t.http.CloseIdleConnections()
}

// redact masks the token in err's message and in the URL of a wrapped
// *url.Error, keeping its Op and cause so errors.Is still sees context
// errors.
func (t *HTTPTransport) redact(prefix string, err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = &url.Error{Op: urlErr.Op, URL: t.redactor.Redact(urlErr.URL), Err: urlErr.Err}
	}
	if prefix != "" {
		err = fmt.Errorf("%s: %w", prefix, err)
	}
	return &redactedError{msg: t.redactor.Redact(err.Error()), err: err}
}

// redactedError hides the token-bearing URL from the message while
// keeping the cause reachable through errors.Is and errors.As.
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

// isContextErr reports whether err stems from a cancelled or expired context.
func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
