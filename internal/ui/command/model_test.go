package command

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeText(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestEnterEmitsTrimmedCommand(t *testing.T) {
	m := typeText(New(80, 20), " export yaml ")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, CommandMsg("export yaml"), cmd())
	assert.Empty(t, m.Matches())
}

func TestEnterOnBlankInputDoesNothing(t *testing.T) {
	m := typeText(New(80, 20), "   ")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestMatches(t *testing.T) {
	m := typeText(New(80, 20), "ex")
	assert.Equal(t, []string{"export markdown", "export yaml"}, m.Matches())
	assert.Contains(t, m.View(), "export yaml")

	m = typeText(New(80, 20), "zzz")
	assert.Empty(t, m.Matches())
}
