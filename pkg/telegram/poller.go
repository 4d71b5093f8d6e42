package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	defaultPollTimeout          = 30
	maxConsecutivePollingErrors = 5
	errorPauseDuration          = 30 * time.Second
	saveOffsetTimeout           = 5 * time.Second
)

// updateMalformed labels updates counted but skipped because they do not
// map onto Update.
const updateMalformed UpdateKind = "malformed"

// Handler processes one update.
type Handler interface {
	HandleUpdate(ctx context.Context, update *Update) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, update *Update) error

// HandleUpdate implements Handler.
func (f HandlerFunc) HandleUpdate(ctx context.Context, update *Update) error {
	return f(ctx, update)
}

// OffsetStore persists the next update_id to request so a restarted
// poller does not replay updates. Offsets are keyed by bot id.
type OffsetStore interface {
	LoadOffset(ctx context.Context, botID int64) (int64, error)
	SaveOffset(ctx context.Context, botID int64, offset int64) error
}

// Poller receives updates with getUpdates long polling and hands them to
// a Handler one at a time, in update_id order.
type Poller struct {
	bot            *Bot
	handler        Handler
	store          OffsetStore
	logger         *slog.Logger
	timeout        int
	limit          int
	allowedUpdates []string
	newBackOff     func() *backoff.ExponentialBackOff
	pause          time.Duration
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithPollTimeout sets the long-polling timeout in seconds (0-50).
func WithPollTimeout(seconds int) PollerOption {
	return func(p *Poller) { p.timeout = seconds }
}

// WithPollLimit caps the number of updates per getUpdates call (1-100).
func WithPollLimit(limit int) PollerOption {
	return func(p *Poller) { p.limit = limit }
}

// WithAllowedUpdates restricts the update kinds Telegram delivers.
func WithAllowedUpdates(kinds ...string) PollerOption {
	return func(p *Poller) { p.allowedUpdates = kinds }
}

// WithOffsetStore persists the polling offset in s.
func WithOffsetStore(s OffsetStore) PollerOption {
	return func(p *Poller) { p.store = s }
}

// WithPollerLogger sets the poller's logger. It defaults to the bot's.
func WithPollerLogger(logger *slog.Logger) PollerOption {
	return func(p *Poller) { p.logger = logger }
}

// WithRetryInterval sets the exponential backoff applied after failed
// polls and the pause taken after repeated failures.
func WithRetryInterval(initial, maxInterval time.Duration) PollerOption {
	return func(p *Poller) {
		p.newBackOff = func() *backoff.ExponentialBackOff {
			bo := backoff.NewExponentialBackOff()
			bo.InitialInterval = initial
			bo.MaxInterval = maxInterval
			return bo
		}
		p.pause = maxInterval
	}
}

// NewPoller creates a Poller for b that dispatches updates to h.
func NewPoller(b *Bot, h Handler, opts ...PollerOption) *Poller {
	p := &Poller{
		bot:        b,
		handler:    h,
		logger:     b.logger,
		timeout:    defaultPollTimeout,
		newBackOff: backoff.NewExponentialBackOff,
		pause:      errorPauseDuration,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls until ctx is done and then returns ctx.Err(). It returns
// early only when the token is rejected by Telegram.
//
// The offset is advanced past every update whether or not the handler
// succeeds, and past updates that fail to map, so neither is redelivered.
// When ctx ends while a batch is dispatched, the rest of the batch is
// left for the next run.
func (p *Poller) Run(ctx context.Context) error {
	offset, err := p.loadOffset(ctx)
	if err != nil {
		return err
	}

	bo := p.newBackOff()
	var consecutiveErrors int

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch, err := p.bot.getUpdatesRaw(ctx, GetUpdatesRequest{
			Offset:         offset,
			Limit:          p.limit,
			Timeout:        p.timeout,
			AllowedUpdates: p.allowedUpdates,
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if isFatalPollError(err) {
				return err
			}

			consecutiveErrors++
			wait := bo.NextBackOff()
			if wait < 0 {
				wait = p.pause
			}
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.RetryAfter() > 0 {
				wait = time.Duration(apiErr.RetryAfter()) * time.Second
			}
			p.logger.Error("polling getUpdates failed",
				"error", err,
				"consecutive_errors", consecutiveErrors,
			)
			if consecutiveErrors >= maxConsecutivePollingErrors {
				wait = max(wait, p.pause)
				p.logger.Warn("polling paused after consecutive errors", "pause", wait)
				consecutiveErrors = 0
			}
			if err := sleepCtx(ctx, wait); err != nil {
				return err
			}
			continue
		}

		consecutiveErrors = 0
		bo.Reset()

		for _, raw := range batch {
			next, ok := p.handleRaw(ctx, raw)
			if ok {
				offset = next
				p.saveOffset(ctx, offset)
			}
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
}

// handleRaw maps one update and dispatches it. It returns the offset that
// acknowledges the update, which is known even when mapping fails as long
// as update_id can be read.
func (p *Poller) handleRaw(ctx context.Context, raw json.RawMessage) (int64, bool) {
	update, err := decodeResult[Update]("getUpdates", raw)
	if err == nil {
		p.dispatch(ctx, &update)
		return update.UpdateID + 1, true
	}

	var head struct {
		UpdateID *int64 `json:"update_id"`
	}
	if json.Unmarshal(raw, &head) != nil || head.UpdateID == nil {
		p.logger.Error("skipping update without update_id", "error", err)
		return 0, false
	}
	p.bot.metrics.observeUpdate(updateMalformed)
	p.logger.Error("skipping update that does not map",
		"update_id", *head.UpdateID,
		"error", err,
	)
	return *head.UpdateID + 1, true
}

func (p *Poller) dispatch(ctx context.Context, update *Update) {
	kind := update.Kind()
	p.bot.metrics.observeUpdate(kind)
	if err := p.handler.HandleUpdate(ctx, update); err != nil {
		p.logger.Error("update handler failed",
			"update_id", update.UpdateID,
			"kind", kind,
			"error", err,
		)
	}
}

func (p *Poller) loadOffset(ctx context.Context) (int64, error) {
	if p.store == nil {
		return 0, nil
	}
	offset, err := p.store.LoadOffset(ctx, p.bot.ID())
	if err != nil {
		return 0, err
	}
	if offset > 0 {
		p.logger.Info("resuming polling", "offset", offset)
	}
	return offset, nil
}

func (p *Poller) saveOffset(ctx context.Context, offset int64) {
	if p.store == nil {
		return
	}
	// The offset must be stored even when a handler stopped the poller.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveOffsetTimeout)
	defer cancel()
	if err := p.store.SaveOffset(ctx, p.bot.ID(), offset); err != nil {
		p.logger.Error("saving polling offset failed", "offset", offset, "error", err)
	}
}

// isFatalPollError reports errors that retrying cannot fix: a revoked or
// unknown token.
func isFatalPollError(err error) bool {
	return IsAPIError(err, http.StatusUnauthorized) || IsAPIError(err, http.StatusNotFound)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
