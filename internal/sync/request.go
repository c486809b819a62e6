// Package sync moves roadmap changes from the in-memory session to the
// store without holding up the UI.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	gosync "sync"
	"time"

	"github.com/nhle/roadmap-builder/internal/model"
	"github.com/nhle/roadmap-builder/internal/store"
)

// Op names the store call a Request maps to.
type Op string

const (
	OpInsert       Op = "insert"
	OpUpdate       Op = "update"
	OpDelete       Op = "delete"
	OpSubscription Op = "subscription"
)

// Request is one persistence call issued after a local mutation.
type Request struct {
	Op        Op
	UserID    string
	Roadmap   model.Roadmap
	RoadmapID string
	Plan      model.PlanType
}

// InsertRequest persists a newly created roadmap.
func InsertRequest(userID string, r model.Roadmap) Request {
	return Request{Op: OpInsert, UserID: userID, Roadmap: r.Clone(), RoadmapID: r.ID}
}

// UpdateRequest persists the current state of an existing roadmap.
func UpdateRequest(userID string, r model.Roadmap) Request {
	return Request{Op: OpUpdate, UserID: userID, Roadmap: r.Clone(), RoadmapID: r.ID}
}

// DeleteRequest removes a roadmap.
func DeleteRequest(userID, roadmapID string) Request {
	return Request{Op: OpDelete, UserID: userID, RoadmapID: roadmapID}
}

// SubscriptionRequest records a plan change.
func SubscriptionRequest(userID string, plan model.PlanType) Request {
	return Request{Op: OpSubscription, UserID: userID, Plan: plan}
}

func (r Request) targetID() string {
	if r.RoadmapID != "" {
		return r.RoadmapID
	}
	return r.Roadmap.ID
}

// Persister accepts persistence requests. Implementations must not roll
// back or otherwise touch the caller's in-memory state.
type Persister interface {
	Persist(req Request)
}

// Direct applies every request synchronously. It suits one-shot CLI
// commands that exit right after the mutation.
type Direct struct {
	store   store.Store
	logger  *slog.Logger
	timeout time.Duration

	mu  gosync.Mutex
	err error
}

var _ Persister = (*Direct)(nil)

// NewDirect returns a synchronous persister writing to s.
func NewDirect(s store.Store, logger *slog.Logger) *Direct {
	return &Direct{store: s, logger: logger, timeout: defaultSaveTimeout}
}

// Persist applies req immediately and remembers the first failure.
func (d *Direct) Persist(req Request) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := Apply(ctx, d.store, req); err != nil {
		d.logger.Error("save failed", "op", string(req.Op), "roadmap_id", req.targetID(), "error", err)
		d.mu.Lock()
		if d.err == nil {
			d.err = fmt.Errorf("%s %s: %w", req.Op, req.targetID(), err)
		}
		d.mu.Unlock()
	}
}

// Err returns the first failure seen, if any.
func (d *Direct) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}
