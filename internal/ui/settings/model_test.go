package settings

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/roadmap-builder/internal/model"
)

func TestSaveWritesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := *model.DefaultAppConfig()

	m, _ := New(path, cfg, 80, 24).Open()
	m.fb.style = "light"
	m.fb.exportDir = "  /tmp/exports "
	m.fb.logLevel = "debug"

	res, ok := m.save()().(saveResultMsg)
	require.True(t, ok)
	require.NoError(t, res.err)

	m, cmd := m.Update(res)
	require.NotNil(t, cmd)
	saved, ok := cmd().(SavedMsg)
	require.True(t, ok)
	assert.Equal(t, "light", saved.Config.Display.Theme)
	assert.Equal(t, "/tmp/exports", saved.Config.Export.Dir)

	loaded, err := model.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "light", loaded.Display.Theme)
	assert.Equal(t, "debug", loaded.Log.Level)
	assert.Equal(t, "/tmp/exports", loaded.Export.Dir)
	assert.Equal(t, "light", m.cfg.Display.Theme)
}

func TestBlankExportDirKeepsCurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := *model.DefaultAppConfig()
	cfg.Export.Dir = "/srv/out"

	m, _ := New(path, cfg, 80, 24).Open()
	m.fb.exportDir = " "

	res := m.save()().(saveResultMsg)
	require.NoError(t, res.err)
	assert.Equal(t, "/srv/out", res.cfg.Export.Dir)
}
