// Package ui provides the visual styling for the gitcoach terminal tutor.
// Light and dark palettes with auto-detection from the terminal.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Light mode colors (default)
	LightForeground = lipgloss.Color("#1a2332")
	LightPrimary    = lipgloss.Color("#0f4c81")
	LightAccent     = lipgloss.Color("#2e9e44")
	LightMuted      = lipgloss.Color("#8a919c")
	LightBorder     = lipgloss.Color("#d6dae0")

	// Dark mode colors
	DarkForeground = lipgloss.Color("#e8eaed")
	DarkPrimary    = lipgloss.Color("#6db3f2")
	DarkAccent     = lipgloss.Color("#73d13d")
	DarkMuted      = lipgloss.Color("#6b7280")
	DarkBorder     = lipgloss.Color("#374151")

	// Semantic colors (same in both modes)
	Success = lipgloss.Color("#52c41a")
	Failure = lipgloss.Color("#e53935")
	Warning = lipgloss.Color("#faad14")
	Info    = lipgloss.Color("#2196F3")
)

// Theme holds the current color scheme.
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		IsDark:     true,
	}
}

// DetectTheme picks a theme from terminal hints, defaulting to dark:
// most terminals learners use today have dark backgrounds.
func DetectTheme() Theme {
	if colorTerm := os.Getenv("COLORFGBG"); colorTerm != "" {
		// Format is usually "foreground;background".
		parts := strings.Split(colorTerm, ";")
		if len(parts) == 2 {
			if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
				if bgIdx >= 7 && bgIdx != 8 {
					return LightTheme()
				}
				return DarkTheme()
			}
		}
	}
	if os.Getenv("GITCOACH_LIGHT_MODE") == "1" {
		return LightTheme()
	}
	return DarkTheme()
}

// Styles holds the styled components used by the tutor.
type Styles struct {
	Theme Theme

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style

	// Step chrome
	StepHeader   lipgloss.Style
	StepProgress lipgloss.Style
	Instructions lipgloss.Style

	// Verdict banners
	PassBanner lipgloss.Style
	FailBanner lipgloss.Style
	WarnText   lipgloss.Style

	// Interactive
	Prompt     lipgloss.Style
	HintBox    lipgloss.Style
	CommandOut lipgloss.Style
	Help       lipgloss.Style
}

// NewStyles builds the component styles for a theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),
		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Foreground),
		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),
		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		StepHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Accent),
		StepProgress: lipgloss.NewStyle().
			Foreground(theme.Muted),
		Instructions: lipgloss.NewStyle().
			PaddingLeft(1),

		PassBanner: lipgloss.NewStyle().
			Bold(true).
			Foreground(Success),
		FailBanner: lipgloss.NewStyle().
			Foreground(Failure),
		WarnText: lipgloss.NewStyle().
			Foreground(Warning),

		Prompt: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),
		HintBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Foreground(theme.Foreground).
			Padding(0, 1),
		CommandOut: lipgloss.NewStyle().
			Foreground(theme.Muted).
			PaddingLeft(2),
		Help: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),
	}
}
