package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/olabarga/labplan/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// SeverityBadge renders a colored severity marker such as "✗ CRITICAL".
func SeverityBadge(s domain.Severity) string {
	switch s {
	case domain.SeverityCritical:
		return StyleRed.Render("✗ CRITICAL")
	case domain.SeverityWarning:
		return StyleYellow.Render("! WARNING")
	default:
		return StyleDim.Render(string(s))
	}
}

// PhaseBadge renders a phase state as a one-character marker.
func PhaseBadge(s domain.PhaseState) string {
	switch s {
	case domain.StateSucceeded:
		return StyleGreen.Render("✓")
	case domain.StateFailed:
		return StyleRed.Render("✗")
	case domain.StateRunning:
		return StyleYellow.Render("…")
	default:
		return StyleDim.Render("·")
	}
}

// RunBadge renders a run's terminal state in its color.
func RunBadge(s domain.RunState) string {
	switch s {
	case domain.RunSucceeded:
		return StyleGreen.Render(string(s))
	case domain.RunFailed:
		return StyleRed.Render(string(s))
	default:
		return StyleYellow.Render(string(s))
	}
}

// Header renders a section header with the orange header style and an
// underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
