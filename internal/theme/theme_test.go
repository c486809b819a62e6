package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/roadmap-builder/internal/model"
)

func TestPhaseColorCoversEveryTheme(t *testing.T) {
	seen := map[string]bool{}
	for _, th := range model.Themes {
		c := PhaseColor(th)
		assert.NotEqual(t, ColorGray, c, th)
		seen[c.Dark] = true
	}
	assert.Len(t, seen, len(model.Themes))
	assert.Equal(t, ColorGray, PhaseColor("teal"))
}
