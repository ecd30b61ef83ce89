package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Error   lipgloss.Color
}

var (
	ThemeEmber = Theme{
		Name:    "ember",
		Primary: lipgloss.Color("#ff7a18"),
		Accent:  lipgloss.Color("#ffd23f"),
		Text:    lipgloss.Color("#fff5e6"),
		Muted:   lipgloss.Color("#8b6b5c"),
		Error:   lipgloss.Color("#ff4757"),
	}

	ThemeForest = Theme{
		Name:    "forest",
		Primary: lipgloss.Color("#5fd068"),
		Accent:  lipgloss.Color("#c3f584"),
		Text:    lipgloss.Color("#e8ffe8"),
		Muted:   lipgloss.Color("#4f7a55"),
		Error:   lipgloss.Color("#ff4444"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Error:   lipgloss.Color("#ff0000"),
	}

	Themes = []Theme{
		ThemeEmber,
		ThemeForest,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name, ember when unknown.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeEmber
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func nextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
