package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme of the trial browser.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Text    lipgloss.Color
	Accent  lipgloss.Color
	Muted   lipgloss.Color
	Error   lipgloss.Color
}

var (
	ThemeDefault = Theme{
		Name:    "default",
		Primary: lipgloss.Color("86"),
		Text:    lipgloss.Color("255"),
		Accent:  lipgloss.Color("220"),
		Muted:   lipgloss.Color("242"),
		Error:   lipgloss.Color("196"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Text:    lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Muted:   lipgloss.Color("#005500"),
		Error:   lipgloss.Color("#ff0000"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Text:    lipgloss.Color("#cccccc"),
		Accent:  lipgloss.Color("#0088ff"),
		Muted:   lipgloss.Color("#888888"),
		Error:   lipgloss.Color("#ff0000"),
	}

	Themes = []Theme{ThemeDefault, ThemeRetroGreen, ThemeMinimal}
)

// GetTheme returns a theme by name, falling back to the default.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDefault
}

type styles struct {
	primary, text, accent, muted, err lipgloss.Style
}

func (t Theme) styles() styles {
	return styles{
		primary: lipgloss.NewStyle().Foreground(t.Primary),
		text:    lipgloss.NewStyle().Foreground(t.Text),
		accent:  lipgloss.NewStyle().Foreground(t.Accent),
		muted:   lipgloss.NewStyle().Foreground(t.Muted),
		err:     lipgloss.NewStyle().Foreground(t.Error),
	}
}
