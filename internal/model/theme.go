package model

import "fmt"

// Theme selects the color scheme a phase is drawn with. It has no
// behavioral effect.
type Theme string

const (
	ThemeGreen  Theme = "green"
	ThemePurple Theme = "purple"
	ThemeGold   Theme = "gold"
	ThemeBlue   Theme = "blue"
	ThemeRed    Theme = "red"
	ThemeOrange Theme = "orange"
)

// Themes lists every theme in picker order.
var Themes = []Theme{ThemeGreen, ThemePurple, ThemeGold, ThemeBlue, ThemeRed, ThemeOrange}

// Valid reports whether t is one of the known themes.
func (t Theme) Valid() bool {
	for _, known := range Themes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseTheme converts a string into a Theme.
func ParseTheme(s string) (Theme, error) {
	t := Theme(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown theme %q", s)
	}
	return t, nil
}

// FallbackIconGlyph is shown for icon names outside the icon set.
const FallbackIconGlyph = "📌"

// Icons lists the icon names a phase can use, in picker order.
var Icons = []string{
	"Zap", "Rocket", "Trophy", "Target", "Star", "Heart",
	"Flag", "Sparkles", "Code", "Coffee", "Lightbulb", "Briefcase",
}

var iconGlyphs = map[string]string{
	"Zap":       "⚡",
	"Rocket":    "🚀",
	"Trophy":    "🏆",
	"Target":    "🎯",
	"Star":      "⭐",
	"Heart":     "❤️",
	"Flag":      "🚩",
	"Sparkles":  "✨",
	"Code":      "💻",
	"Coffee":    "☕",
	"Lightbulb": "💡",
	"Briefcase": "💼",
}

// IconGlyph resolves an icon name to its glyph.
func IconGlyph(name string) string {
	if g, ok := iconGlyphs[name]; ok {
		return g
	}
	return FallbackIconGlyph
}
