package event

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DownstreamFunc delivers a flushed batch to whatever sink is listening
// (a websocket connection, a trace accumulator, a test spy).
type DownstreamFunc func(ctx context.Context, batch []InterComEvent) error

const (
	defaultInterval   = 20 * time.Millisecond
	defaultCapacity   = 200
	defaultPerTypeCap = 50
)

// BufferedHandler batches InterComEvents by type and flushes on whichever
// comes first: the very first event it is sent, the per-type soft cap, the
// overall capacity, the flush interval elapsing since the last flush, or a
// background flusher noticing the buffer has sat idle. It never holds its lock while
// calling downstream, so a slow or reentrant sink (one that calls Send
// again from within its callback) can't deadlock the handler.
type BufferedHandler struct {
	downstream DownstreamFunc
	interval   time.Duration
	capacity   int
	perTypeCap int

	mu        sync.Mutex
	pending   map[string][]InterComEvent
	total     int
	oldest    time.Time
	lastFlush atomic.Int64 // unix millis

	stop   chan struct{}
	stopOn sync.Once
}

// NewBufferedHandler creates a handler with the given tunables; zero
// values fall back to the defaults (20ms window, 200 total cap, 50
// per-type soft cap).
func NewBufferedHandler(downstream DownstreamFunc, interval time.Duration, capacity, perTypeCap int) *BufferedHandler {
	if interval <= 0 {
		interval = defaultInterval
	}
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	if perTypeCap <= 0 {
		perTypeCap = defaultPerTypeCap
	}
	h := &BufferedHandler{
		downstream: downstream,
		interval:   interval,
		capacity:   capacity,
		perTypeCap: perTypeCap,
		pending:    make(map[string][]InterComEvent),
		stop:       make(chan struct{}),
	}
	h.lastFlush.Store(time.Now().UnixMilli())
	return h
}

// Send enqueues an event, flushing immediately if this is the first event
// the handler has ever been sent, the event's type hit its per-type cap,
// the overall capacity was reached, or the interval has elapsed since the
// last flush.
func (h *BufferedHandler) Send(ctx context.Context, e InterComEvent) error {
	h.mu.Lock()
	first := h.oldest.IsZero()
	if h.total == 0 {
		h.oldest = time.Now()
	}
	h.pending[e.EventType] = append(h.pending[e.EventType], e)
	h.total++

	flush := first || len(h.pending[e.EventType]) >= h.perTypeCap || h.total >= h.capacity ||
		time.Since(time.UnixMilli(h.lastFlush.Load())) >= h.interval
	h.mu.Unlock()

	if flush {
		return h.Flush(ctx)
	}
	return nil
}

// Flush drains every pending event to downstream, regardless of whether
// any threshold was hit — one downstream call per event type that has
// pending events. Used by the interval/idle tickers and by a caller that
// wants a final synchronous flush before reading results. It returns the
// first downstream error, after every batch has been delivered.
func (h *BufferedHandler) Flush(ctx context.Context) error {
	h.mu.Lock()
	if h.total == 0 {
		h.mu.Unlock()
		return nil
	}
	batches := make([][]InterComEvent, 0, len(h.pending))
	for _, events := range h.pending {
		if len(events) > 0 {
			batches = append(batches, events)
		}
	}
	h.pending = make(map[string][]InterComEvent)
	h.total = 0
	h.mu.Unlock()

	h.lastFlush.Store(time.Now().UnixMilli())
	var firstErr error
	for _, batch := range batches {
		if err := h.downstream(ctx, batch); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Run starts the interval and idle-background flushers; it blocks until
// ctx is canceled or Stop is called, and is meant to run in its own
// goroutine for the lifetime of a run.
func (h *BufferedHandler) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	idleTicker := time.NewTicker(2 * h.interval)
	defer idleTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.stop:
			return
		case <-ticker.C:
			h.mu.Lock()
			due := h.total > 0 && time.Since(h.oldest) >= h.interval
			h.mu.Unlock()
			if due {
				_ = h.Flush(ctx)
			}
		case <-idleTicker.C:
			last := time.UnixMilli(h.lastFlush.Load())
			if time.Since(last) >= 2*h.interval {
				_ = h.Flush(ctx)
			}
		}
	}
}

// Stop halts Run's background flushers. It does not flush remaining
// events; call Flush explicitly first if a final drain is required.
func (h *BufferedHandler) Stop() {
	h.stopOn.Do(func() { close(h.stop) })
}

// AsSingleEventCallback adapts Send into the single-event callback shape a
// node's ExecutionHooks expects, so existing hook-style call sites don't
// need to know batching exists.
func (h *BufferedHandler) AsSingleEventCallback() func(InterComEvent) {
	return func(e InterComEvent) {
		_ = h.Send(context.Background(), e)
	}
}
