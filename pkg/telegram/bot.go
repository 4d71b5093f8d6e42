package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/flemzord/botapi/pkg/telegram"

// Bot is a typed client for the Telegram Bot API. It is safe for
// concurrent use; every method performs exactly one request.
type Bot struct {
	token     string
	id        int64
	apiURL    string
	transport Transport
	owned     *HTTPTransport
	logger    *slog.Logger
	metrics   *Metrics
	tracer    trace.Tracer
}

type options struct {
	apiURL         string
	httpClient     *http.Client
	transport      Transport
	logger         *slog.Logger
	metrics        *Metrics
	tracerProvider trace.TracerProvider
}

// Option configures a Bot.
type Option func(*options)

// WithAPIURL points the bot at a different Bot API server, such as a
// self-hosted telegram-bot-api instance.
func WithAPIURL(apiURL string) Option {
	return func(o *options) { o.apiURL = apiURL }
}

// WithHTTPClient sets the client used by the default transport.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// WithTransport replaces the default HTTP transport.
func WithTransport(t Transport) Option {
	return func(o *options) { o.transport = t }
}

// WithLogger sets the logger. Calls are logged at Debug, API errors at Warn.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics records every call in m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTracerProvider sets the provider for call spans. The global
// provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// New creates a Bot for token. The token must have the form <bot_id>:<hash>.
func New(token string, opts ...Option) (*Bot, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	if !tokenPattern.MatchString(token) {
		return nil, ErrInvalidToken
	}

	o := options{apiURL: DefaultAPIURL}
	for _, opt := range opts {
		opt(&o)
	}

	u, err := url.Parse(o.apiURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("telegram: api_url must be a valid http/https URL, got %q", o.apiURL)
	}

	id, _ := strconv.ParseInt(token[:strings.IndexByte(token, ':')], 10, 64)

	b := &Bot{
		token:   token,
		id:      id,
		apiURL:  strings.TrimRight(o.apiURL, "/"),
		logger:  o.logger,
		metrics: o.metrics,
	}
	if b.logger == nil {
		b.logger = slog.New(slog.DiscardHandler)
	}
	tp := o.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	b.tracer = tp.Tracer(tracerName)

	if o.transport != nil {
		b.transport = o.transport
	} else {
		b.owned = NewHTTPTransport(token, b.apiURL, o.httpClient)
		b.transport = b.owned
	}
	return b, nil
}

// ID returns the bot's user id, taken from the token.
func (b *Bot) ID() int64 { return b.id }

// Close releases idle connections held by the default transport.
func (b *Bot) Close() error {
	if b.owned != nil {
		b.owned.CloseIdleConnections()
	}
	return nil
}

// FileURL returns the download URL for a file_path from GetFile. The URL
// embeds the bot token.
func (b *Bot) FileURL(filePath string) string {
	return b.apiURL + "/file/bot" + b.token + "/" + strings.TrimLeft(filePath, "/")
}

// DownloadFile writes the file at filePath into w and returns the number
// of bytes copied.
func (b *Bot) DownloadFile(ctx context.Context, filePath string, w io.Writer) (int64, error) {
	d, ok := b.transport.(FileDownloader)
	if !ok {
		return 0, ErrDownloadUnsupported
	}
	n, err := d.Download(ctx, filePath, w)
	if err != nil {
		return n, &TransportError{Method: "download", Err: err}
	}
	return n, nil
}

// call runs one Bot API method: validate params, encode, send, decode the
// envelope and map the result onto T.
func call[T any](ctx context.Context, b *Bot, method string, params any, attachments ...InputFile) (T, error) {
	var zero T

	ctx, span := b.tracer.Start(ctx, "telegram "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("telegram.method", method)))
	defer span.End()

	start := time.Now()
	finish := func(outcome string, status int, err error) {
		elapsed := time.Since(start)
		b.metrics.observeCall(method, outcome, elapsed)
		if status != 0 {
			span.SetAttributes(attribute.Int("http.response.status_code", status))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}

		switch outcome {
		case outcomeOK:
			b.logger.Debug("telegram: call", "method", method, "status", status, "duration", elapsed)
		case outcomeAPIError:
			b.logger.Warn("telegram: api error", "method", method, "status", status, "duration", elapsed, "error", err)
		default:
			level := slog.LevelWarn
			if isContextErr(err) {
				level = slog.LevelDebug
			}
			b.logger.Log(ctx, level, "telegram: call failed", "method", method, "outcome", outcome, "duration", elapsed, "error", err)
		}
	}

	if err := validateParams(method, params); err != nil {
		finish(outcomeInvalidParams, 0, err)
		return zero, err
	}

	req, err := encodeRequest(method, params, attachments)
	if err != nil {
		finish(outcomeInvalidParams, 0, err)
		return zero, err
	}

	resp, err := b.transport.Do(ctx, req)
	if errors.Is(err, ErrResponseTooLarge) {
		err = &DecodeError{Method: method, Reason: "body over read limit", Err: err}
		finish(outcomeDecodeError, 0, err)
		return zero, err
	}
	if err != nil {
		err = &TransportError{Method: method, Err: err}
		finish(outcomeTransportError, 0, err)
		return zero, err
	}

	raw, err := decodeEnvelope(method, resp.StatusCode, resp.Body)
	if err != nil {
		outcome := outcomeDecodeError
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			outcome = outcomeAPIError
		}
		finish(outcome, resp.StatusCode, err)
		return zero, err
	}

	result, err := decodeResult[T](method, raw)
	if err != nil {
		outcome := outcomeMappingError
		var decErr *DecodeError
		if errors.As(err, &decErr) {
			outcome = outcomeDecodeError
		}
		finish(outcome, resp.StatusCode, err)
		return zero, err
	}

	finish(outcomeOK, resp.StatusCode, nil)
	return result, nil
}

// callBool runs a method whose result is True on success.
func callBool(ctx context.Context, b *Bot, method string, params any, attachments ...InputFile) error {
	_, err := call[bool](ctx, b, method, params, attachments...)
	return err
}
