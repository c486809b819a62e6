package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/roadmap-builder/internal/editor"
	"github.com/nhle/roadmap-builder/internal/export"
	"github.com/nhle/roadmap-builder/internal/logging"
	"github.com/nhle/roadmap-builder/internal/model"
	"github.com/nhle/roadmap-builder/internal/sync"
	"github.com/nhle/roadmap-builder/tests/testutil"
)

type recorder struct {
	requests []sync.Request
}

func (r *recorder) Persist(req sync.Request) {
	r.requests = append(r.requests, req)
}

func (r *recorder) ops() []sync.Op {
	var ops []sync.Op
	for _, req := range r.requests {
		ops = append(ops, req.Op)
	}
	return ops
}

func newWorkspace() (*Workspace, *recorder) {
	rec := &recorder{}
	w := New(model.User{ID: "u1", Name: "Ada"}, rec, logging.Discard())
	return w, rec
}

func TestFreePlanQuotaAndUpgrade(t *testing.T) {
	w, rec := newWorkspace()

	id, err := w.CreateRoadmap("First", "")
	require.NoError(t, err)
	assert.Equal(t, 1, w.Gate().RoadmapsCount())

	_, err = w.CreateRoadmap("Second", "")
	require.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, 1, w.Roadmaps().Len())
	assert.Equal(t, id, w.Roadmaps().ActiveID())

	require.NoError(t, w.UpgradePlan(model.PlanMonthly))
	id2, err := w.CreateRoadmap("Second", "")
	require.NoError(t, err)
	assert.Equal(t, id2, w.Roadmaps().ActiveID())
	assert.Equal(t, 2, w.Gate().RoadmapsCount())

	assert.Equal(t, []sync.Op{sync.OpInsert, sync.OpSubscription, sync.OpInsert}, rec.ops())
}

func TestDeleteFreesQuota(t *testing.T) {
	w, rec := newWorkspace()

	id, err := w.CreateRoadmap("First", "")
	require.NoError(t, err)
	w.DeleteRoadmap(id)

	assert.Equal(t, 0, w.Gate().RoadmapsCount())
	_, ok := w.Active()
	assert.False(t, ok)

	_, err = w.CreateRoadmap("Again", "")
	require.NoError(t, err)

	w.DeleteRoadmap("missing")
	assert.Equal(t, []sync.Op{sync.OpInsert, sync.OpDelete, sync.OpInsert}, rec.ops())
	assert.Equal(t, id, rec.requests[1].RoadmapID)
}

func TestEditActive(t *testing.T) {
	w, rec := newWorkspace()
	_, err := w.CreateRoadmap("R", "")
	require.NoError(t, err)

	var pid string
	err = w.EditActive(func(e editor.Editor) (editor.Editor, error) {
		e, pid = e.AddPhase()
		e, _ = e.AddMilestone(pid)
		e, mid := e.AddMilestone(pid)
		return e.ToggleMilestone(pid, mid), nil
	})
	require.NoError(t, err)

	r, ok := w.Active()
	require.True(t, ok)
	require.Len(t, r.Phases, 1)
	assert.Equal(t, 50, r.Phases[0].Progress)
	assert.Equal(t, 50, r.OverallProgress())

	last := rec.requests[len(rec.requests)-1]
	assert.Equal(t, sync.OpUpdate, last.Op)
	assert.Len(t, last.Roadmap.Phases, 1)
}

func TestEditActiveErrorLeavesStateUnchanged(t *testing.T) {
	w, rec := newWorkspace()
	_, err := w.CreateRoadmap("R", "")
	require.NoError(t, err)
	before, _ := w.Active()

	err = w.EditActive(func(e editor.Editor) (editor.Editor, error) {
		e, _ = e.AddPhase()
		return e.ReorderPhases(0, 5)
	})
	require.ErrorIs(t, err, editor.ErrIndexOutOfRange)

	after, _ := w.Active()
	assert.Equal(t, before, after)
	assert.Len(t, rec.requests, 1)
}

func TestEditWithoutActiveRoadmap(t *testing.T) {
	w, _ := newWorkspace()

	err := w.EditActive(func(e editor.Editor) (editor.Editor, error) { return e, nil })
	require.ErrorIs(t, err, ErrNoActiveRoadmap)
}

func TestRenameAndSelect(t *testing.T) {
	w, rec := newWorkspace()
	require.NoError(t, w.UpgradePlan(model.PlanYearly))
	a, _ := w.CreateRoadmap("A", "")
	b, _ := w.CreateRoadmap("B", "")

	w.RenameRoadmap(a, "  ")
	r, _ := w.Roadmaps().Get(a)
	assert.Equal(t, model.DefaultRoadmapName, r.Name)

	w.SelectRoadmap(a)
	assert.Equal(t, a, w.Roadmaps().ActiveID())
	w.SelectRoadmap("missing")
	_, ok := w.Active()
	assert.False(t, ok)
	w.SelectRoadmap(b)
	assert.Equal(t, b, w.Roadmaps().ActiveID())

	w.RenameRoadmap("missing", "x")
	assert.Equal(t, sync.OpUpdate, rec.requests[len(rec.requests)-1].Op)
	assert.Len(t, rec.requests, 4)
}

func TestExportGated(t *testing.T) {
	w, _ := newWorkspace()
	_, err := w.CreateRoadmap("Launch", "")
	require.NoError(t, err)

	_, err = w.Export(export.FormatMarkdown)
	require.ErrorIs(t, err, ErrExportLocked)
	_, err = w.ExportToDir(t.TempDir(), export.FormatMarkdown, time.Now())
	require.ErrorIs(t, err, ErrExportLocked)

	require.NoError(t, w.UpgradePlan(model.PlanYearly))
	out, err := w.Export(export.FormatMarkdown)
	require.NoError(t, err)
	assert.Contains(t, string(out), "# Launch")

	dir := t.TempDir()
	path, err := w.ExportToDir(dir, export.FormatYAML, time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "roadmap-2026-02-03.yaml"), path)
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestExportWithoutActive(t *testing.T) {
	w, _ := newWorkspace()
	require.NoError(t, w.UpgradePlan(model.PlanMonthly))

	_, err := w.Export(export.FormatYAML)
	require.ErrorIs(t, err, ErrNoActiveRoadmap)
}

func TestUpgradeUnknownPlan(t *testing.T) {
	w, rec := newWorkspace()

	err := w.UpgradePlan("gold")
	require.Error(t, err)
	assert.Equal(t, model.PlanFree, w.Gate().Plan())
	assert.Empty(t, rec.requests)
}

type failingLoader struct{}

func (failingLoader) ListRoadmapsForUser(context.Context, string) ([]model.Roadmap, error) {
	return nil, errors.New("offline")
}

func (failingLoader) GetSubscription(context.Context, string) (model.Subscription, error) {
	return model.Subscription{}, nil
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t)
	testutil.SeedUser(t, st, "u1")

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "new"} {
		ts := base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, st.InsertRoadmap(ctx, "u1", model.Roadmap{ID: id, Name: id, CreatedAt: ts, UpdatedAt: ts}))
	}
	require.NoError(t, st.SaveSubscription(ctx, "u1", model.PlanMonthly))

	w, _ := newWorkspace()
	require.NoError(t, w.Load(ctx, st))

	assert.Equal(t, 2, w.Roadmaps().Len())
	assert.Equal(t, "new", w.Roadmaps().ActiveID())
	assert.Equal(t, 2, w.Gate().RoadmapsCount())
	assert.Equal(t, model.PlanMonthly, w.Gate().Plan())

	assert.Error(t, w.Load(ctx, failingLoader{}))
	assert.Equal(t, 2, w.Roadmaps().Len())
}

type staticLoader struct {
	list []model.Roadmap
	sub  model.Subscription
}

func (l staticLoader) ListRoadmapsForUser(context.Context, string) ([]model.Roadmap, error) {
	return l.list, nil
}

func (l staticLoader) GetSubscription(context.Context, string) (model.Subscription, error) {
	return l.sub, nil
}

func TestLoadCountsLoadedRoadmaps(t *testing.T) {
	w, _ := newWorkspace()
	loader := staticLoader{
		list: []model.Roadmap{{ID: "only"}},
		sub:  model.Subscription{Plan: "gold", RoadmapsCount: 9},
	}
	require.NoError(t, w.Load(context.Background(), loader))

	assert.Equal(t, model.Subscription{Plan: model.PlanFree, RoadmapsCount: 1}, w.Gate().Subscription())
	assert.False(t, w.Gate().CanCreateRoadmap())
}

func TestSaveFailureKeepsLocalState(t *testing.T) {
	st := testutil.NewTestStore(t)
	d := sync.NewDirect(st, logging.Discard())
	w := New(model.User{ID: "not-in-store"}, d, logging.Discard())

	id, err := w.CreateRoadmap("Offline", "")
	require.NoError(t, err)
	require.Error(t, d.Err())

	r, ok := w.Active()
	require.True(t, ok)
	assert.Equal(t, id, r.ID)
	assert.Equal(t, 1, w.Gate().RoadmapsCount())
}
