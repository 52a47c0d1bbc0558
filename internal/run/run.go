// Package run owns a board execution's lifecycle: starting a dispatcher
// against the caller's board (used as is, not copied), tracking its status, letting a caller cancel
// it mid-flight, and assembling the finished trace tree a host surfaces to
// a debugger or CLI.
package run

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"flowboard/internal/cache"
	"flowboard/internal/core"
	"flowboard/internal/engine"
	"flowboard/internal/event"
	"flowboard/internal/node"
	"flowboard/pkg/board"
)

// Status is a run's current lifecycle state.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
)

// Run tracks one dispatch of a board from a starting node through to
// completion, failure, or cancellation.
type Run struct {
	ID        string
	BoardID   string
	StartNode string
	Status    Status
	StartedAt time.Time
	EndedAt   time.Time
	Err       error
	Trace     *engine.TraceNode

	cancel   chan struct{}
	cancelOn sync.Once
	done     chan struct{}
}

// Cancel requests the run stop at its next dispatcher cancellation check.
// Safe to call multiple times or after the run has already finished.
func (r *Run) Cancel() {
	r.cancelOn.Do(func() { close(r.cancel) })
}

// Wait blocks until the run finishes, for a caller that started it
// asynchronously and wants to join it later.
func (r *Run) Wait() {
	<-r.done
}

// Manager executes runs against a shared resource cache, scoped to the
// manager's lifetime rather than per run, so a long-lived host process
// doesn't open a fresh DB pool per execution. The event-batching tunables
// are shared too, but each run gets its own BufferedHandler.
type Manager struct {
	cache       *cache.ResourceCache
	logger      node.Logger
	eventConfig eventConfig

	mu   sync.Mutex
	runs map[string]*Run
}

type eventConfig struct {
	interval   time.Duration
	capacity   int
	perTypeCap int
}

// NewManager creates a manager with its own resource cache and the given
// event-batching tunables. The sink for a run's flushed event batches is
// passed per run to Execute or NewDebugSession (nil discards them).
func NewManager(logger node.Logger, interval time.Duration, capacity, perTypeCap int) *Manager {
	return &Manager{
		cache:       cache.New(),
		logger:      logger,
		eventConfig: eventConfig{interval: interval, capacity: capacity, perTypeCap: perTypeCap},
		runs:        make(map[string]*Run),
	}
}

// StartGC runs the manager's shared cache GC until stop is closed.
func (m *Manager) StartGC(interval, idleThreshold time.Duration, stop <-chan struct{}) {
	m.cache.GC(interval, idleThreshold, stop)
}

// Execute runs a board from startNodeID to completion, blocking the
// caller. The returned Run's Trace is populated even on failure, since a
// partial trace is often the most useful debugging artifact.
func (m *Manager) Execute(ctx context.Context, b *board.Board, startNodeID string, appState core.AppState, profile *core.Profile, sink event.DownstreamFunc) *Run {
	r := m.newRun(b.ID, startNodeID)
	if err := validateStart(b, startNodeID); err != nil {
		r.Status = StatusFailed
		r.Err = err
		r.EndedAt = time.Now()
		close(r.done)
		return r
	}
	m.runAsync(ctx, r, b, appState, profile, sink, false)
	r.Wait()
	return r
}

// DebugSession drives a run one Trigger call at a time instead of running
// it to completion. The dispatcher has no native single-step primitive, so
// "step" here is per top-level Trigger call, not per individual node —
// Trigger's own internal push-dispatch recursion still runs an entire
// branch to completion within one Step.
type DebugSession struct {
	run        *Run
	b          *board.Board
	dispatcher *engine.Dispatcher
	queue      []string
	mu         sync.Mutex
}

// NewDebugSession prepares a steppable run starting at startNodeID without
// executing anything yet.
func (m *Manager) NewDebugSession(b *board.Board, startNodeID string, appState core.AppState, profile *core.Profile, sink event.DownstreamFunc) (*DebugSession, error) {
	if err := validateStart(b, startNodeID); err != nil {
		return nil, err
	}
	r := m.newRun(b.ID, startNodeID)
	handler := event.NewBufferedHandler(sinkOrDiscard(sink), m.eventConfig.interval, m.eventConfig.capacity, m.eventConfig.perTypeCap)
	d := engine.NewDispatcher(b, r.ID, appState, profile, m.cache, handler, m.logger, r.cancel)
	return &DebugSession{run: r, b: b, dispatcher: d, queue: []string{startNodeID}}, nil
}

// Step triggers the next queued node and reports whether any steps
// remain. The dispatcher's own push-dispatch already recurses through an
// entire execution branch per Trigger call, so "step" here grain is
// per-top-level-trigger, not per-individual-node; fully granular
// single-node stepping would need the dispatcher to expose a pause point
// between Trigger's internal recursion, which it does not.
func (s *DebugSession) Step(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return false, nil
	}
	nodeID := s.queue[0]
	s.queue = s.queue[1:]
	err := s.dispatcher.Trigger(ctx, nodeID, false)
	s.run.Trace = s.dispatcher.Trace()
	return len(s.queue) > 0, err
}

// Run returns the underlying Run handle for status/trace inspection.
func (s *DebugSession) Run() *Run { return s.run }

func (m *Manager) newRun(boardID, startNodeID string) *Run {
	r := &Run{
		ID:        uuid.NewString(),
		BoardID:   boardID,
		StartNode: startNodeID,
		Status:    StatusRunning,
		StartedAt: time.Now(),
		cancel:    make(chan struct{}),
		done:      make(chan struct{}),
	}
	m.mu.Lock()
	m.runs[r.ID] = r
	m.mu.Unlock()
	return r
}

func (m *Manager) runAsync(ctx context.Context, r *Run, b *board.Board, appState core.AppState, profile *core.Profile, sink event.DownstreamFunc, detach bool) {
	handler := event.NewBufferedHandler(sinkOrDiscard(sink), m.eventConfig.interval, m.eventConfig.capacity, m.eventConfig.perTypeCap)

	flushCtx, cancelFlush := context.WithCancel(ctx)
	go handler.Run(flushCtx)

	d := engine.NewDispatcher(b, r.ID, appState, profile, m.cache, handler, m.logger, r.cancel)

	work := func() {
		defer cancelFlush()
		defer close(r.done)

		err := d.Trigger(ctx, r.StartNode, false)
		r.Trace = d.Trace()
		r.EndedAt = time.Now()

		// Deliver every buffered event, run.finished included, before the
		// status is set.
		_ = handler.Send(ctx, event.InterComEvent{
			EventType:   event.EventRunFinished,
			ExecutionID: r.ID,
			Timestamp:   time.Now(),
		})
		_ = handler.Flush(ctx)

		select {
		case <-r.cancel:
			r.Status = StatusCanceled
		default:
			if err != nil {
				r.Status = StatusFailed
				r.Err = err
			} else {
				r.Status = StatusCompleted
			}
		}
	}

	if detach {
		go work()
	} else {
		work()
	}
}

// Get looks up a previously started run by ID.
func (m *Manager) Get(id string) (*Run, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[id]
	return r, ok
}

func sinkOrDiscard(sink event.DownstreamFunc) event.DownstreamFunc {
	if sink != nil {
		return sink
	}
	return func(context.Context, []event.InterComEvent) error { return nil }
}

// validateStart is a small guard Manager.Execute and NewDebugSession share
// to fail fast on an unknown starting node rather than surface a buried
// dispatcher error.
func validateStart(b *board.Board, startNodeID string) error {
	if _, ok := b.Nodes[startNodeID]; !ok {
		return fmt.Errorf("run: start node %s not found on board %s", startNodeID, b.ID)
	}
	return nil
}
