package model

import (
	"context"
	"slices"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/arkium/internal/cli/styles"
	"github.com/bnema/arkium/internal/domain/entity"
	"github.com/bnema/arkium/internal/logging"
)

// HistoryStore is the part of the history use case the browser needs.
type HistoryStore interface {
	List() []entity.HistoryEntry
	Clear(ctx context.Context)
	Delete(ctx context.Context, m entity.HistoryMatcher) (bool, error)
}

// HistoryModel is the Bubble Tea model for the interactive history browser.
type HistoryModel struct {
	list    list.Model
	help    help.Model
	keys    styles.HistoryKeyMap
	confirm *styles.ConfirmModel

	showHelp bool
	width    int
	height   int
	selected string
	err      error

	ctx   context.Context
	store HistoryStore
	theme *styles.Theme
}

// historyLoadedMsg is sent when entries are (re)loaded.
type historyLoadedMsg struct {
	entries []entity.HistoryEntry
}

// historyDeletedMsg is sent when an entry is deleted.
type historyDeletedMsg struct {
	err error
}

// historyClearedMsg is sent when the history is emptied.
type historyClearedMsg struct{}

// NewHistoryModel creates a new history browser model.
func NewHistoryModel(ctx context.Context, theme *styles.Theme, store HistoryStore) HistoryModel {
	logging.FromContext(ctx).Debug().Msg("creating history model")

	return HistoryModel{
		list:   styles.NewHistoryList(theme, nil, 80, 20),
		help:   styles.NewStyledHelp(theme),
		keys:   styles.DefaultHistoryKeyMap(),
		ctx:    ctx,
		store:  store,
		theme:  theme,
		width:  80,
		height: 24,
	}
}

// Init implements tea.Model.
func (m HistoryModel) Init() tea.Cmd {
	return m.loadHistory
}

// loadHistory lists entries newest first.
func (m HistoryModel) loadHistory() tea.Msg {
	entries := m.store.List()
	slices.Reverse(entries)
	logging.FromContext(m.ctx).Debug().Int("count", len(entries)).Msg("loaded history entries")
	return historyLoadedMsg{entries: entries}
}

// Selected returns the URL picked with enter, if any.
func (m HistoryModel) Selected() string {
	return m.selected
}

// Update implements tea.Model.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.confirm != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m.handleConfirm(msg)
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.list.SetSize(msg.Width, m.listHeight())
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case historyLoadedMsg:
		return m.handleLoaded(msg)
	case historyDeletedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		return m, m.loadHistory
	case historyClearedMsg:
		return m, m.loadHistory
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m HistoryModel) handleConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	confirm, _ := m.confirm.Update(msg)
	m.confirm = &confirm
	if !confirm.Done() {
		return m, nil
	}
	m.confirm = nil
	if !confirm.Result() {
		return m, nil
	}
	return m, m.clearHistory()
}

func (m HistoryModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Keys belong to the filter input while it is being edited.
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Open):
		if hi, ok := m.list.SelectedItem().(styles.HistoryItem); ok {
			m.selected = hi.URL
			return m, tea.Quit
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if hi, ok := m.list.SelectedItem().(styles.HistoryItem); ok {
			return m, m.deleteEntry(hi.HistoryEntry)
		}
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		if len(m.list.Items()) > 0 {
			confirm := styles.NewConfirm(m.theme, "Clear all history?")
			m.confirm = &confirm
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m HistoryModel) handleLoaded(msg historyLoadedMsg) (tea.Model, tea.Cmd) {
	index := m.list.Index()
	items := make([]list.Item, len(msg.entries))
	for i, e := range msg.entries {
		items[i] = styles.HistoryItem{HistoryEntry: e}
	}
	cmd := m.list.SetItems(items)
	if index >= len(items) {
		index = len(items) - 1
	}
	if index >= 0 {
		m.list.Select(index)
	}
	return m, cmd
}

// deleteEntry removes the entry with the exact timestamp and url.
func (m HistoryModel) deleteEntry(e entity.HistoryEntry) tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		ts := e.Timestamp
		_, err := store.Delete(ctx, entity.HistoryMatcher{Timestamp: &ts, URL: e.URL})
		return historyDeletedMsg{err: err}
	}
}

func (m HistoryModel) clearHistory() tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		store.Clear(ctx)
		return historyClearedMsg{}
	}
}

func (m HistoryModel) listHeight() int {
	const chromeLines = 4
	return max(5, m.height-chromeLines)
}

// View implements tea.Model.
func (m HistoryModel) View() string {
	t := m.theme
	header := lipgloss.JoinHorizontal(lipgloss.Left,
		t.Title.Render("History"), " ",
		t.BadgeMuted.Render(itemCount(len(m.list.Items()))),
	)

	sections := []string{header, ""}
	if len(m.list.Items()) == 0 {
		sections = append(sections, t.Subtle.Render("No history yet."))
	} else {
		sections = append(sections, m.list.View())
	}
	if m.confirm != nil {
		sections = append(sections, "", m.confirm.View())
	}
	if m.err != nil {
		sections = append(sections, t.ErrorStyle.Render("Error: "+m.err.Error()))
	}
	if m.showHelp {
		sections = append(sections, m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		sections = append(sections, m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func itemCount(n int) string {
	if n == 1 {
		return "1 entry"
	}
	return strconv.Itoa(n) + " entries"
}
