package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/nhle/roadmap-builder/internal/model"
)

func sampleRoadmap() model.Roadmap {
	return model.Roadmap{
		ID:          "r1",
		Name:        "Product Launch",
		Description: "Everything needed for v1.",
		Phases: []model.Phase{
			{
				ID: "p1", Name: "Research", Theme: model.ThemePurple, Icon: "Lightbulb", Status: "Completed",
				Milestones: []model.Milestone{
					{ID: "m1", Title: "Interviews", Completed: true},
					{ID: "m2", Title: "Survey", Completed: true},
				},
				Progress: 100,
			},
			{
				ID: "p2", Name: "Build", Theme: model.ThemeBlue, Icon: "Unknown", Status: "In Progress",
				Milestones: []model.Milestone{
					{ID: "m3", Title: "API", Completed: true},
					{ID: "m4", Title: "UI"},
				},
				Progress: 50,
			},
			{ID: "p3", Name: "Launch", Theme: model.ThemeGold, Icon: "Rocket", Status: "Planned", Milestones: []model.Milestone{}},
		},
		UpdatedAt: time.Date(2026, 4, 5, 10, 0, 0, 0, time.UTC),
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleRoadmap())

	assert.True(t, strings.HasPrefix(md, "# Product Launch\n"))
	assert.Contains(t, md, "Everything needed for v1.")
	assert.Contains(t, md, "- Overall progress: 50%")
	assert.Contains(t, md, "- Milestones: 3/4 completed")
	assert.Contains(t, md, "- Updated: 2026-04-05")
	assert.Contains(t, md, "## 1. 💡 Research")
	assert.Contains(t, md, "## 2. 📌 Build")
	assert.Contains(t, md, "## 3. 🚀 Launch")
	assert.Contains(t, md, "- [x] Interviews")
	assert.Contains(t, md, "- [ ] UI")
	assert.Contains(t, md, "- Progress: 50% (1/2)")
	assert.Contains(t, md, "_No milestones yet._")

	assert.Less(t, strings.Index(md, "Research"), strings.Index(md, "Build"))
}

func TestMarkdownEmptyRoadmap(t *testing.T) {
	md := Markdown(model.Roadmap{})

	assert.Contains(t, md, "# New Roadmap")
	assert.Contains(t, md, "_No phases yet._")
	assert.NotContains(t, md, "Updated:")
}

func TestYAML(t *testing.T) {
	out, err := YAML(sampleRoadmap())
	require.NoError(t, err)

	var doc struct {
		Roadmap struct {
			Name   string `yaml:"name"`
			Phases []struct {
				Name       string `yaml:"name"`
				Milestones []struct {
					Title string `yaml:"title"`
				} `yaml:"milestones"`
			} `yaml:"phases"`
		} `yaml:"roadmap"`
		Summary struct {
			OverallProgress int `yaml:"overall_progress"`
			Total           int `yaml:"total_milestones"`
		} `yaml:"summary"`
	}
	require.NoError(t, yaml.Unmarshal(out, &doc))

	assert.Equal(t, "Product Launch", doc.Roadmap.Name)
	require.Len(t, doc.Roadmap.Phases, 3)
	assert.Equal(t, "UI", doc.Roadmap.Phases[1].Milestones[1].Title)
	assert.Equal(t, 50, doc.Summary.OverallProgress)
	assert.Equal(t, 4, doc.Summary.Total)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"markdown", FormatMarkdown, false},
		{"MD", FormatMarkdown, false},
		{"yaml", FormatYAML, false},
		{" yml ", FormatYAML, false},
		{"pdf", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestFileName(t *testing.T) {
	now := time.Date(2026, 10, 15, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, "roadmap-2026-10-15.md", FileName(FormatMarkdown, now))
	assert.Equal(t, "roadmap-2026-10-15.yaml", FileName(FormatYAML, now))
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	path, err := WriteFile(dir, sampleRoadmap(), FormatMarkdown, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "roadmap-2026-01-02.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Markdown(sampleRoadmap()), string(data))

	_, err = WriteFile(dir, sampleRoadmap(), Format("pdf"), now)
	assert.Error(t, err)
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "░░░░░░░░░░", ProgressBar(0, 10))
	assert.Equal(t, "█████░░░░░", ProgressBar(50, 10))
	assert.Equal(t, "██████████", ProgressBar(100, 10))
	assert.Equal(t, "██████████", ProgressBar(140, 10))
}

func TestPreview(t *testing.T) {
	out, err := Preview(Markdown(sampleRoadmap()), "notty", 80)
	require.NoError(t, err)
	assert.Contains(t, out, "Product Launch")
	assert.Contains(t, out, "Interviews")

	empty, err := Preview("  ", "notty", 80)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = Preview("# x", "no-such-style", 80)
	assert.Error(t, err)
}
