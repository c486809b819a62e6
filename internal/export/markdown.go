package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/nhle/roadmap-builder/internal/model"
)

// Markdown renders r as a Markdown document: a header with overall
// progress followed by one section per phase with its milestone checklist.
func Markdown(r model.Roadmap) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(model.RoadmapName(r.Name)))
	writeLn("")
	if d := strings.TrimSpace(r.Description); d != "" {
		writeLn(d)
		writeLn("")
	}

	writeLn(fmt.Sprintf("- Overall progress: %d%% %s", r.OverallProgress(), ProgressBar(r.OverallProgress(), 20)))
	writeLn(fmt.Sprintf("- Milestones: %d/%d completed", r.CompletedMilestones(), r.TotalMilestones()))
	writeLn(fmt.Sprintf("- Phases: %d", len(r.Phases)))
	if !r.UpdatedAt.IsZero() {
		writeLn("- Updated: " + r.UpdatedAt.UTC().Format(time.DateOnly))
	}

	if len(r.Phases) == 0 {
		writeLn("")
		writeLn("_No phases yet._")
		return buf.String()
	}

	for i, p := range r.Phases {
		writeLn("")
		writeLn(fmt.Sprintf("## %d. %s %s", i+1, model.IconGlyph(p.Icon), strings.TrimSpace(p.Name)))
		writeLn("")
		if s := strings.TrimSpace(p.Status); s != "" {
			writeLn("- Status: " + s)
		}
		writeLn("- Theme: " + string(p.Theme))
		writeLn(fmt.Sprintf("- Progress: %d%% (%d/%d)", p.Progress, p.CompletedMilestones(), len(p.Milestones)))
		writeLn("")

		if len(p.Milestones) == 0 {
			writeLn("_No milestones yet._")
			continue
		}
		for _, m := range p.Milestones {
			box := "[ ]"
			if m.Completed {
				box = "[x]"
			}
			writeLn("- " + box + " " + strings.TrimSpace(m.Title))
		}
	}

	return buf.String()
}

// ProgressBar draws pct as a fixed-width bar of block characters.
func ProgressBar(pct, width int) string {
	pct = min(max(pct, 0), 100)
	filled := (pct*width + 50) / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
