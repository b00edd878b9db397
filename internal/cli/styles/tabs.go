package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const maxTabLabel = 24

// TabsModel represents a horizontal tab bar.
type TabsModel struct {
	Tabs   []string
	Active int
	theme  *Theme
}

// NewTabs creates a tab bar with the given labels. Active is -1 when no
// tab is selected.
func NewTabs(theme *Theme, active int, tabs ...string) TabsModel {
	return TabsModel{
		Tabs:   tabs,
		Active: active,
		theme:  theme,
	}
}

// View renders the tab bar at width.
func (m TabsModel) View(width int) string {
	gap := lipgloss.NewStyle().
		Foreground(m.theme.Border).
		Render("│")

	tabs := make([]string, 0, len(m.Tabs)*2)
	for i, tab := range m.Tabs {
		style := m.theme.InactiveTab
		if i == m.Active {
			style = m.theme.ActiveTab
		}
		if i > 0 {
			tabs = append(tabs, gap)
		}
		tabs = append(tabs, style.Render(Truncate(tab, maxTabLabel)))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if width > 0 {
		return m.theme.TabBar.Width(width).Render(row)
	}
	return m.theme.TabBar.Render(row)
}

// Truncate shortens s to max display cells with an ellipsis.
func Truncate(s string, max int) string {
	if max <= 1 || runewidth.StringWidth(s) <= max {
		return s
	}
	return runewidth.Truncate(s, max, "…")
}
