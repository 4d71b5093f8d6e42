package telegram

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type memOffsets struct {
	mu     sync.Mutex
	start  int64
	saved  []int64
	botIDs []int64
}

func (m *memOffsets) LoadOffset(_ context.Context, botID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.botIDs = append(m.botIDs, botID)
	return m.start, nil
}

func (m *memOffsets) SaveOffset(_ context.Context, _ int64, offset int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, offset)
	return nil
}

func (m *memOffsets) savedOffsets() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.saved...)
}

func messageUpdate(id int64) Update {
	msg := testMessage(MessageID(id), "u")
	return Update{UpdateID: id, Message: &msg}
}

// offsetOf returns the offset sent in a getUpdates body, 0 when absent.
func offsetOf(t *testing.T, r *http.Request) int64 {
	t.Helper()
	body := decodeBody(t, r)
	v, _ := body["offset"].(float64)
	return int64(v)
}

func runPoller(ctx context.Context, t *testing.T, p *Poller) error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return")
		return nil
	}
}

func TestPollerDispatchesInOrder(t *testing.T) {
	t.Parallel()

	var offsets sync.Map
	var calls atomic.Int32
	b := newTestBot(t, func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		offsets.Store(n, offsetOf(t, r))
		switch n {
		case 1:
			writeOK(t, w, []Update{messageUpdate(10), messageUpdate(11)})
		case 2:
			writeOK(t, w, []Update{messageUpdate(12)})
		default:
			writeOK(t, w, []Update{})
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var got []int64
	handler := HandlerFunc(func(_ context.Context, u *Update) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, u.UpdateID)
		if len(got) == 3 {
			cancel()
		}
		return nil
	})

	store := &memOffsets{}
	p := NewPoller(b, handler, WithOffsetStore(store), WithPollTimeout(1))
	err := runPoller(ctx, t, p)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 3 || got[0] != 10 || got[1] != 11 || got[2] != 12 {
		t.Errorf("dispatched = %v, want [10 11 12]", got)
	}
	if v, _ := offsets.Load(int32(1)); v != int64(0) {
		t.Errorf("first offset = %v, want 0", v)
	}
	if v, _ := offsets.Load(int32(2)); v != int64(12) {
		t.Errorf("second offset = %v, want 12", v)
	}

	saved := store.savedOffsets()
	if len(saved) != 3 || saved[2] != 13 {
		t.Errorf("saved offsets = %v, want [11 12 13]", saved)
	}
	if store.botIDs[0] != 123456 {
		t.Errorf("store keyed by bot %d, want 123456", store.botIDs[0])
	}
}

func TestPollerResumesFromStore(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var first atomic.Int64
	b := newTestBot(t, func(w http.ResponseWriter, r *http.Request) {
		first.CompareAndSwap(0, offsetOf(t, r))
		cancel()
		writeOK(t, w, []Update{})
	})

	p := NewPoller(b, HandlerFunc(func(context.Context, *Update) error { return nil }),
		WithOffsetStore(&memOffsets{start: 500}))
	_ = runPoller(ctx, t, p)

	if got := first.Load(); got != 500 {
		t.Errorf("first offset = %d, want 500", got)
	}
}

func TestPollerHandlerErrorDoesNotStop(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	b := newTestBot(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			writeOK(t, w, []Update{messageUpdate(1), messageUpdate(2)})
			return
		}
		writeOK(t, w, []Update{})
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var seen atomic.Int32
	handler := HandlerFunc(func(_ context.Context, u *Update) error {
		if seen.Add(1) == 2 {
			cancel()
		}
		if u.UpdateID == 1 {
			return errors.New("boom")
		}
		return nil
	})

	store := &memOffsets{}
	p := NewPoller(b, handler, WithOffsetStore(store))
	_ = runPoller(ctx, t, p)

	if seen.Load() != 2 {
		t.Errorf("handled %d updates, want 2", seen.Load())
	}
	if saved := store.savedOffsets(); len(saved) != 2 || saved[0] != 2 {
		t.Errorf("saved offsets = %v, want [2 3]", saved)
	}
}

func TestPollerFatalOnUnauthorized(t *testing.T) {
	t.Parallel()

	b := newTestBot(t, func(w http.ResponseWriter, _ *http.Request) {
		writeRaw(w, http.StatusUnauthorized, `{"ok":false,"error_code":401,"description":"Unauthorized"}`)
	})

	p := NewPoller(b, HandlerFunc(func(context.Context, *Update) error { return nil }))
	err := runPoller(context.Background(), t, p)
	if !IsAPIError(err, http.StatusUnauthorized) {
		t.Errorf("Run() error = %v, want 401 APIError", err)
	}
}

func TestPollerRetriesAfterError(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics(prometheus.NewRegistry())
	var calls atomic.Int32
	b := newTestBot(t, func(w http.ResponseWriter, _ *http.Request) {
		switch calls.Add(1) {
		case 1:
			writeRaw(w, http.StatusBadGateway, `bad gateway`)
		case 2:
			writeRaw(w, http.StatusInternalServerError, `{"ok":false,"error_code":500,"description":"Internal Server Error"}`)
		default:
			writeOK(t, w, []Update{messageUpdate(7)})
		}
	}, WithMetrics(metrics))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var handled atomic.Int32
	handler := HandlerFunc(func(context.Context, *Update) error {
		handled.Add(1)
		cancel()
		return nil
	})

	p := NewPoller(b, handler, WithRetryInterval(time.Millisecond, 5*time.Millisecond))
	err := runPoller(ctx, t, p)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if calls.Load() != 3 {
		t.Errorf("getUpdates calls = %d, want 3", calls.Load())
	}
	if handled.Load() != 1 {
		t.Errorf("handled = %d, want 1", handled.Load())
	}
	if got := testutil.ToFloat64(metrics.updates.WithLabelValues(string(UpdateMessage))); got != 1 {
		t.Errorf("updates_total{kind=message} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.requests.WithLabelValues("getUpdates", outcomeDecodeError)); got != 1 {
		t.Errorf("decode_error count = %v, want 1", got)
	}
}

func TestPollerStopsWhenContextDone(t *testing.T) {
	t.Parallel()

	b := newTestBot(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	p := NewPoller(b, HandlerFunc(func(context.Context, *Update) error { return nil }))
	err := runPoller(ctx, t, p)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestPollerSkipsUpdateThatDoesNotMap(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics(prometheus.NewRegistry())
	var calls atomic.Int32
	b := newTestBot(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			// Update 2 carries a message without the required chat.
			writeRaw(w, http.StatusOK, `{"ok":true,"result":[
				{"update_id":1,"message":{"message_id":1,"date":1700000000,"chat":{"id":200,"type":"private"},"text":"a"}},
				{"update_id":2,"message":{"message_id":2,"date":1700000000,"text":"b"}},
				{"update_id":3,"message":{"message_id":3,"date":1700000000,"chat":{"id":200,"type":"private"},"text":"c"}}
			]}`)
			return
		}
		if got := offsetOf(t, r); got != 4 {
			t.Errorf("offset after mixed batch = %d, want 4", got)
		}
		writeOK(t, w, []Update{})
	}, WithMetrics(metrics))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var got []int64
	handler := HandlerFunc(func(_ context.Context, u *Update) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, u.UpdateID)
		return nil
	})

	store := &memOffsets{}
	p := NewPoller(b, handler, WithOffsetStore(store), WithPollTimeout(1))
	go func() {
		for calls.Load() < 2 {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()
	_ = runPoller(ctx, t, p)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("dispatched = %v, want [1 3]", got)
	}
	if saved := store.savedOffsets(); len(saved) != 3 || saved[1] != 3 || saved[2] != 4 {
		t.Errorf("saved offsets = %v, want [2 3 4]", saved)
	}
	if got := testutil.ToFloat64(metrics.updates.WithLabelValues(string(updateMalformed))); got != 1 {
		t.Errorf("updates_total{kind=malformed} = %v, want 1", got)
	}
}

// ctxOffsets fails like a database would when its context is done.
type ctxOffsets struct {
	memOffsets
}

func (c *ctxOffsets) SaveOffset(ctx context.Context, botID, offset int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.memOffsets.SaveOffset(ctx, botID, offset)
}

func TestPollerSavesOffsetWhenHandlerStops(t *testing.T) {
	t.Parallel()

	b := newTestBot(t, func(w http.ResponseWriter, _ *http.Request) {
		writeOK(t, w, []Update{messageUpdate(6), messageUpdate(7), messageUpdate(8)})
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var handled []int64
	handler := HandlerFunc(func(_ context.Context, u *Update) error {
		handled = append(handled, u.UpdateID)
		if u.UpdateID == 7 {
			cancel()
		}
		return nil
	})

	store := &ctxOffsets{}
	p := NewPoller(b, handler, WithOffsetStore(store))
	err := runPoller(ctx, t, p)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}

	if len(handled) != 2 || handled[1] != 7 {
		t.Errorf("handled = %v, want [6 7]", handled)
	}
	saved := store.savedOffsets()
	if len(saved) == 0 || saved[len(saved)-1] != 8 {
		t.Errorf("saved offsets = %v, want last 8", saved)
	}
}
