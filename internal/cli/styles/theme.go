// Package styles provides reusable lipgloss-based TUI components.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/arkium/internal/domain/entity"
	"github.com/bnema/arkium/internal/domain/theme"
)

const (
	borderColor = lipgloss.Color("#555555")
	errorColor  = lipgloss.Color("#EF4444")
)

// Theme is the terminal chrome derived from the active page's colors.
type Theme struct {
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	Border     lipgloss.Color

	Title      lipgloss.Style
	Normal     lipgloss.Style
	Subtle     lipgloss.Style
	Highlight  lipgloss.Style
	ErrorStyle lipgloss.Style

	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	TabBar      lipgloss.Style

	ListItemTitle lipgloss.Style
	ListItemDesc  lipgloss.Style
	BadgeMuted    lipgloss.Style

	inputBox lipgloss.Style

	// Pair is the page theme the chrome was derived from.
	Pair entity.ThemePair
}

// DefaultTheme is the chrome used before any page was analyzed.
func DefaultTheme() *Theme {
	return NewThemeFromPair(entity.StartPageTheme)
}

// NewThemeFromPair derives the chrome from a page theme. The page
// background becomes the bar color and the foreground its text; the
// active tab inverts the two.
func NewThemeFromPair(pair entity.ThemePair) *Theme {
	bg := lipgloss.Color(pair.Background)
	fg := lipgloss.Color(pair.Foreground)
	muted := lipgloss.Color(midpoint(pair.Background, pair.Foreground))
	plain := lipgloss.NewStyle()

	return &Theme{
		Background: bg,
		Text:       fg,
		Muted:      muted,
		Accent:     fg,
		Border:     borderColor,

		Title:      plain.Foreground(fg).Bold(true),
		Normal:     plain.Foreground(fg),
		Subtle:     plain.Foreground(muted),
		Highlight:  plain.Foreground(fg).Bold(true),
		ErrorStyle: plain.Foreground(errorColor),

		ActiveTab:   plain.Foreground(bg).Background(fg).Bold(true).Padding(0, 2),
		InactiveTab: plain.Foreground(muted).Background(bg).Padding(0, 2),
		TabBar: plain.Background(bg).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(borderColor),

		ListItemTitle: plain.Foreground(fg),
		ListItemDesc:  plain.Foreground(muted),
		BadgeMuted:    plain.Foreground(fg).Background(borderColor).Padding(0, 1),

		inputBox: plain.Foreground(fg).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1),

		Pair: pair,
	}
}

// InputBox wraps a rendered text input in a rounded box. The border takes
// the accent color while the input has focus.
func (t *Theme) InputBox(input string, focused bool) string {
	style := t.inputBox
	if focused {
		style = style.BorderForeground(t.Accent)
	}
	return style.Render(input)
}

// midpoint blends two hex colors halfway, giving a secondary text color
// that stays readable on either theme polarity.
func midpoint(a, b string) string {
	x, y := theme.ParseColor(a), theme.ParseColor(b)
	avg := func(p, q uint8) uint8 { return uint8((uint16(p) + uint16(q)) / 2) }
	return theme.RGB{R: avg(x.R, y.R), G: avg(x.G, y.G), B: avg(x.B, y.B)}.Hex()
}
