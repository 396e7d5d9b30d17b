package report

import (
	"math"

	"github.com/charmbracelet/lipgloss"
)

// Styles defines the visual theme for terminal report output.
// Lipgloss automatically degrades to no-color when output is not a TTY.
type Styles struct {
	// Header is used for section headers.
	Header lipgloss.Style

	// SubHeader is used for secondary information lines.
	SubHeader lipgloss.Style

	// TableHeader styles the header row of tables.
	TableHeader lipgloss.Style

	// TableCell styles regular table cells.
	TableCell lipgloss.Style

	// RatioGood, RatioLow, and RatioNone color coverage ratios.
	RatioGood lipgloss.Style
	RatioLow  lipgloss.Style
	RatioNone lipgloss.Style

	// ClassLevel marks class-level stubs.
	ClassLevel lipgloss.Style

	// Pass styles a run with no errors.
	Pass lipgloss.Style

	// Fail styles a run with errors.
	Fail lipgloss.Style

	// Border is used for table borders.
	Border lipgloss.Style

	// Muted is used for de-emphasized text.
	Muted lipgloss.Style
}

// DefaultStyles returns the default color scheme for terminal reports.
func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		SubHeader: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),

		TableHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		TableCell:   lipgloss.NewStyle().PaddingRight(1),

		RatioGood: lipgloss.NewStyle().Foreground(lipgloss.Color("40")),
		RatioLow:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		RatioNone: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),

		ClassLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("75")),

		Pass: lipgloss.NewStyle().Foreground(lipgloss.Color("40")).Bold(true),
		Fail: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),

		Border: lipgloss.NewStyle().Foreground(lipgloss.Color("63")),

		Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// RatioStyle returns the style for a coverage ratio: at least one
// assertion per method is good, anything above zero is low.
func (s Styles) RatioStyle(ratio float64) lipgloss.Style {
	switch {
	case math.IsNaN(ratio) || ratio <= 0:
		return s.RatioNone
	case ratio >= 100:
		return s.RatioGood
	default:
		return s.RatioLow
	}
}
