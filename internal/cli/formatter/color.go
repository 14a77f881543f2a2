package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// Overrun threshold in percent of the target price above which a variance
// is shown in red rather than yellow.
const severeOverrunPct = 1.0

// VarianceStyle colors a variance: green below target, dim on target,
// yellow for small overruns and red for large ones.
func VarianceStyle(variance, pct float64) lipgloss.Style {
	switch {
	case variance < 0:
		return StyleGreen
	case variance == 0:
		return StyleDim
	case pct >= severeOverrunPct:
		return StyleRed
	default:
		return StyleYellow
	}
}

// Variance renders a signed amount and percentage, colored by VarianceStyle.
func Variance(variance, pct float64) string {
	return VarianceStyle(variance, pct).Render(fmt.Sprintf("%+.2f (%+.1f%%)", variance, pct))
}

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
