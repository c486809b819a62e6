package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/roadmap-builder/internal/metrics"
	"github.com/nhle/roadmap-builder/internal/store"
)

// ErrQueueFull is reported when a save is requested while the queue is at
// capacity. The request is dropped; local state is unaffected.
var ErrQueueFull = errors.New("save queue full")

// SaveState represents the current state of the background saver.
type SaveState int

const (
	SaveIdle SaveState = iota
	SaveRunning
	SaveError
)

// SaveStatus is a snapshot of the saver.
type SaveStatus struct {
	State    SaveState
	Pending  int
	LastSave time.Time
	Error    error
}

// SaveResultMsg is a tea.Msg sent when a save request completes.
type SaveResultMsg struct {
	Request  Request
	Error    error
	Duration time.Duration
}

// defaultSaveTimeout is the maximum time allowed for a single store call.
const defaultSaveTimeout = 10 * time.Second

// SaverOption configures a Saver.
type SaverOption func(*Saver)

// WithQueueSize sets how many requests may wait for the worker.
func WithQueueSize(n int) SaverOption {
	return func(s *Saver) {
		if n > 0 {
			s.queue = make(chan Request, n)
		}
	}
}

// WithTimeout sets the per-request store timeout.
func WithTimeout(d time.Duration) SaverOption {
	return func(s *Saver) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// Saver persists requests on a single background worker so the UI keeps
// editing while a save is outstanding. Requests are applied in the order
// they were queued.
type Saver struct {
	store   store.Store
	logger  *slog.Logger
	timeout time.Duration

	queue    chan Request
	resultCh chan SaveResultMsg
	stopCh   chan struct{}
	doneCh   chan struct{}

	mu      gosync.Mutex
	running bool
	status  SaveStatus
}

var _ Persister = (*Saver)(nil)

// NewSaver creates a Saver writing to s.
func NewSaver(s store.Store, logger *slog.Logger, opts ...SaverOption) *Saver {
	sv := &Saver{
		store:    s,
		logger:   logger,
		timeout:  defaultSaveTimeout,
		queue:    make(chan Request, 64),
		resultCh: make(chan SaveResultMsg, 64),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(sv)
	}
	return sv
}

// Start returns a tea.Cmd that starts the worker goroutine and subscribes
// to results.
func (s *Saver) Start() tea.Cmd {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	go s.run()

	return s.waitForResult()
}

// Stop halts the worker after it has applied every queued request.
func (s *Saver) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	<-s.doneCh
}

// Persist queues req without blocking. When the queue is full the request
// is dropped and a failed SaveResultMsg is emitted.
func (s *Saver) Persist(req Request) {
	s.mu.Lock()
	s.status.Pending++
	s.mu.Unlock()

	select {
	case s.queue <- req:
	default:
		s.mu.Lock()
		s.status.Pending--
		s.mu.Unlock()

		s.logger.Warn("save dropped", "op", string(req.Op), "roadmap_id", req.targetID())
		metrics.RecordSave(string(req.Op), "dropped", 0)
		s.sendResult(SaveResultMsg{
			Request: req,
			Error:   fmt.Errorf("%s %s: %w", req.Op, req.targetID(), ErrQueueFull),
		})
	}
}

// Status returns the current saver status.
func (s *Saver) Status() SaveStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Saver) run() {
	defer close(s.doneCh)

	for {
		select {
		case req := <-s.queue:
			s.save(req)
		case <-s.stopCh:
			for {
				select {
				case req := <-s.queue:
					s.save(req)
				default:
					return
				}
			}
		}
	}
}

// save applies one request to the store and reports the outcome.
func (s *Saver) save(req Request) {
	s.setState(SaveRunning, nil, false)

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	err := Apply(ctx, s.store, req)
	elapsed := time.Since(start)

	if err != nil {
		s.logger.Error("save failed",
			"op", string(req.Op),
			"roadmap_id", req.targetID(),
			"user_id", req.UserID,
			"error", err,
		)
		metrics.RecordSave(string(req.Op), "failed", elapsed)
		s.setState(SaveError, err, true)
	} else {
		s.logger.Debug("saved",
			"op", string(req.Op),
			"roadmap_id", req.targetID(),
			"duration", elapsed,
		)
		metrics.RecordSave(string(req.Op), "success", elapsed)
		s.setState(SaveIdle, nil, true)
	}

	s.sendResult(SaveResultMsg{Request: req, Error: err, Duration: elapsed})
}

func (s *Saver) setState(state SaveState, err error, finished bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.State = state
	s.status.Error = err
	if finished && s.status.Pending > 0 {
		s.status.Pending--
	}
	if state == SaveIdle && finished {
		s.status.LastSave = time.Now()
	}
}

// sendResult sends a SaveResultMsg on the result channel without blocking.
func (s *Saver) sendResult(msg SaveResultMsg) {
	select {
	case s.resultCh <- msg:
	default:
		// Drop if channel is full to avoid blocking the worker
	}
}

func (s *Saver) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-s.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next save result.
// Call it after handling a SaveResultMsg to keep listening.
func (s *Saver) WaitForNextResult() tea.Cmd {
	return s.waitForResult()
}

// Apply performs req against st.
func Apply(ctx context.Context, st store.Store, req Request) error {
	switch req.Op {
	case OpInsert:
		return st.InsertRoadmap(ctx, req.UserID, req.Roadmap)
	case OpUpdate:
		return st.UpdateRoadmap(ctx, req.UserID, req.Roadmap)
	case OpDelete:
		return st.DeleteRoadmap(ctx, req.UserID, req.RoadmapID)
	case OpSubscription:
		return st.SaveSubscription(ctx, req.UserID, req.Plan)
	default:
		return fmt.Errorf("unknown save op %q", req.Op)
	}
}
