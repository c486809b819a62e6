// Package workspace owns the in-memory state of one builder session: the
// signed-in user, their roadmaps and their subscription.
//
// Every mutation updates local state first and then hands a request to the
// Persister. Local state is never rolled back when a save fails.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nhle/roadmap-builder/internal/editor"
	"github.com/nhle/roadmap-builder/internal/export"
	"github.com/nhle/roadmap-builder/internal/metrics"
	"github.com/nhle/roadmap-builder/internal/model"
	"github.com/nhle/roadmap-builder/internal/roadmaps"
	"github.com/nhle/roadmap-builder/internal/subscription"
	"github.com/nhle/roadmap-builder/internal/sync"
)

var (
	// ErrQuotaExceeded is returned when the plan allows no more roadmaps.
	ErrQuotaExceeded = errors.New("roadmap limit reached for current plan")

	// ErrExportLocked is returned when the plan does not include export.
	ErrExportLocked = errors.New("export is not included in current plan")

	// ErrNoActiveRoadmap is returned by operations on the active roadmap
	// when none is selected.
	ErrNoActiveRoadmap = errors.New("no active roadmap")
)

// Loader reads a user's saved state.
type Loader interface {
	ListRoadmapsForUser(ctx context.Context, userID string) ([]model.Roadmap, error)
	GetSubscription(ctx context.Context, userID string) (model.Subscription, error)
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithCollectionOptions passes options to every roadmap collection the
// workspace builds.
func WithCollectionOptions(opts ...roadmaps.Option) Option {
	return func(w *Workspace) {
		w.collectionOpts = append(w.collectionOpts, opts...)
	}
}

// Workspace is the single owner of a session's roadmap state. It is not
// safe for concurrent use; the UI event loop drives it.
type Workspace struct {
	user      model.User
	roadmaps  roadmaps.Collection
	gate      subscription.Gate
	persister sync.Persister
	logger    *slog.Logger

	collectionOpts []roadmaps.Option
}

// New returns an empty workspace for user on the free plan.
func New(user model.User, persister sync.Persister, logger *slog.Logger, opts ...Option) *Workspace {
	w := &Workspace{
		user:      user,
		gate:      subscription.New(model.PlanFree, 0),
		persister: persister,
		logger:    logger.With("user_id", user.ID),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.roadmaps = roadmaps.NewCollection(nil, w.collectionOpts...)
	return w
}

// Load replaces the workspace state with the user's saved roadmaps and
// plan. The roadmap count is the number of roadmaps loaded.
func (w *Workspace) Load(ctx context.Context, loader Loader) error {
	list, err := loader.ListRoadmapsForUser(ctx, w.user.ID)
	if err != nil {
		return fmt.Errorf("loading roadmaps: %w", err)
	}
	sub, err := loader.GetSubscription(ctx, w.user.ID)
	if err != nil {
		return fmt.Errorf("loading subscription: %w", err)
	}

	w.roadmaps = roadmaps.NewCollection(list, w.collectionOpts...)
	sub.RoadmapsCount = len(list)
	w.gate = subscription.FromSubscription(sub)
	w.logger.Info("workspace loaded", "roadmaps", len(list), "plan", string(w.gate.Plan()))
	return nil
}

// User returns the session owner.
func (w *Workspace) User() model.User { return w.user }

// Roadmaps returns the current collection revision.
func (w *Workspace) Roadmaps() roadmaps.Collection { return w.roadmaps }

// Gate returns the current subscription gate.
func (w *Workspace) Gate() subscription.Gate { return w.gate }

// Active returns the active roadmap.
func (w *Workspace) Active() (model.Roadmap, bool) { return w.roadmaps.Active() }

// CreateRoadmap checks the plan quota and, when allowed, creates and
// activates a new roadmap.
func (w *Workspace) CreateRoadmap(name, description string) (string, error) {
	if !w.gate.CanCreateRoadmap() {
		metrics.RecordCreate("blocked")
		w.logger.Info("roadmap create blocked", "plan", string(w.gate.Plan()), "count", w.gate.RoadmapsCount())
		return "", fmt.Errorf("creating roadmap on %s plan: %w", w.gate.Plan(), ErrQuotaExceeded)
	}

	next, id := w.roadmaps.Create(name, description)
	w.roadmaps = next
	w.gate = w.gate.IncrementRoadmapCount()
	metrics.RecordCreate("created")

	r, _ := w.roadmaps.Get(id)
	w.logger.Info("roadmap created", "roadmap_id", id, "name", r.Name)
	w.persister.Persist(sync.InsertRequest(w.user.ID, r))
	return id, nil
}

// UpdateRoadmap applies u to a roadmap. Unknown ids are ignored.
func (w *Workspace) UpdateRoadmap(id string, u roadmaps.RoadmapUpdate) {
	if _, ok := w.roadmaps.Get(id); !ok {
		return
	}
	w.roadmaps = w.roadmaps.Update(id, u)
	r, _ := w.roadmaps.Get(id)
	w.persister.Persist(sync.UpdateRequest(w.user.ID, r))
}

// RenameRoadmap renames a roadmap. A blank name falls back to the default.
func (w *Workspace) RenameRoadmap(id, name string) {
	w.UpdateRoadmap(id, roadmaps.RoadmapUpdate{}.SetName(name))
}

// DeleteRoadmap removes a roadmap and releases its slot in the plan quota.
func (w *Workspace) DeleteRoadmap(id string) {
	if _, ok := w.roadmaps.Get(id); !ok {
		return
	}
	w.roadmaps = w.roadmaps.Delete(id)
	w.gate = w.gate.DecrementRoadmapCount()
	w.logger.Info("roadmap deleted", "roadmap_id", id)
	w.persister.Persist(sync.DeleteRequest(w.user.ID, id))
}

// SelectRoadmap makes id the active roadmap. An unknown id leaves no
// roadmap active.
func (w *Workspace) SelectRoadmap(id string) {
	w.roadmaps = w.roadmaps.Select(id)
}

// Editor returns an editor over the active roadmap's phases.
func (w *Workspace) Editor() (editor.Editor, error) {
	r, ok := w.roadmaps.Active()
	if !ok {
		return editor.Editor{}, ErrNoActiveRoadmap
	}
	return editor.New(r.Phases), nil
}

// EditActive runs fn against the active roadmap's phases and stores the
// result. When fn fails nothing changes.
func (w *Workspace) EditActive(fn func(editor.Editor) (editor.Editor, error)) error {
	ed, err := w.Editor()
	if err != nil {
		return err
	}
	next, err := fn(ed)
	if err != nil {
		return err
	}

	id := w.roadmaps.ActiveID()
	w.roadmaps = w.roadmaps.UpdatePhases(id, next.Phases())
	r, _ := w.roadmaps.Get(id)
	w.persister.Persist(sync.UpdateRequest(w.user.ID, r))
	return nil
}

// UpgradePlan switches the subscription plan. Payment is assumed to have
// been authorized already.
func (w *Workspace) UpgradePlan(plan model.PlanType) error {
	next, err := w.gate.UpgradePlan(plan)
	if err != nil {
		return err
	}
	w.gate = next
	metrics.RecordPlanChange(string(plan))
	w.logger.Info("plan changed", "plan", string(plan))
	w.persister.Persist(sync.SubscriptionRequest(w.user.ID, plan))
	return nil
}

// Export renders the active roadmap when the plan includes export.
func (w *Workspace) Export(f export.Format) ([]byte, error) {
	if !w.gate.HasExport() {
		metrics.RecordExport(string(f), "locked")
		return nil, fmt.Errorf("exporting on %s plan: %w", w.gate.Plan(), ErrExportLocked)
	}
	r, ok := w.roadmaps.Active()
	if !ok {
		return nil, ErrNoActiveRoadmap
	}

	out, err := export.Render(r, f)
	if err != nil {
		metrics.RecordExport(string(f), "failed")
		return nil, err
	}
	metrics.RecordExport(string(f), "success")
	return out, nil
}

// ExportToDir writes the active roadmap into dir and returns the file path.
func (w *Workspace) ExportToDir(dir string, f export.Format, now time.Time) (string, error) {
	if !w.gate.HasExport() {
		metrics.RecordExport(string(f), "locked")
		return "", fmt.Errorf("exporting on %s plan: %w", w.gate.Plan(), ErrExportLocked)
	}
	r, ok := w.roadmaps.Active()
	if !ok {
		return "", ErrNoActiveRoadmap
	}

	path, err := export.WriteFile(dir, r, f, now)
	if err != nil {
		metrics.RecordExport(string(f), "failed")
		w.logger.Error("export failed", "roadmap_id", r.ID, "error", err)
		return "", err
	}
	metrics.RecordExport(string(f), "success")
	w.logger.Info("roadmap exported", "roadmap_id", r.ID, "path", path)
	return path, nil
}
