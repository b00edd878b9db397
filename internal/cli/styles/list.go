package styles

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/arkium/internal/domain/entity"
)

const (
	cursorEmpty    = "  "
	cursorSelected = "▸ "
)

// HistoryItem is a history entry in a list.
type HistoryItem struct {
	entity.HistoryEntry
}

// FilterValue implements list.Item.
func (i HistoryItem) FilterValue() string {
	return i.Title + " " + i.URL
}

// TitleValue returns the title, or the URL for untitled pages.
func (i HistoryItem) TitleValue() string {
	if i.Title != "" {
		return i.Title
	}
	return i.URL
}

// Visited returns the visit time.
func (i HistoryItem) Visited() time.Time {
	return time.UnixMilli(i.Timestamp)
}

// HistoryDelegate draws each entry on two lines: the title, then the URL
// with how long ago it was visited.
type HistoryDelegate struct {
	Theme *Theme
	Now   func() time.Time
}

const (
	maxTitleWidth = 60
	maxURLWidth   = 50
)

func (HistoryDelegate) Height() int                         { return 2 }
func (HistoryDelegate) Spacing() int                        { return 0 }
func (HistoryDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d HistoryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	hi, ok := item.(HistoryItem)
	if !ok {
		return
	}
	now := time.Now()
	if d.Now != nil {
		now = d.Now()
	}

	t := d.Theme
	marker, title, link := cursorEmpty, t.ListItemTitle, t.ListItemDesc
	if index == m.Index() {
		marker = cursorSelected
		title = title.Foreground(t.Accent).Bold(true)
		link = link.Foreground(t.Text)
	}

	age := t.BadgeMuted.Render(RelativeTime(hi.Visited(), now))
	_, _ = fmt.Fprintf(w, "%s%s\n%s%s %s",
		t.Highlight.Render(marker),
		title.Render(Truncate(hi.TitleValue(), maxTitleWidth)),
		cursorEmpty,
		link.Render(Truncate(hi.URL, maxURLWidth)),
		age,
	)
}

// NewHistoryList wraps entries in a filterable list sized width x height.
func NewHistoryList(theme *Theme, entries []entity.HistoryEntry, width, height int) list.Model {
	items := make([]list.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, HistoryItem{HistoryEntry: e})
	}

	l := list.New(items, HistoryDelegate{Theme: theme}, width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.Styles.PaginationStyle = theme.Subtle
	l.Styles.ActivePaginationDot = theme.Normal
	l.Styles.InactivePaginationDot = theme.Subtle
	return l
}

// RelativeTime formats tm relative to now.
func RelativeTime(tm, now time.Time) string {
	diff := now.Sub(tm)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return tm.Format("Jan 2, 2006")
	}
}
