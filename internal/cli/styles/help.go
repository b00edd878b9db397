package styles

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// ShellKeyMap defines keybindings for the browser shell.
type ShellKeyMap struct {
	NewTab   key.Binding
	CloseTab key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Address  key.Binding
	Back     key.Binding
	Forward  key.Binding
	Reload   key.Binding
	Stop     key.Binding
	Home     key.Binding
	CopyURL  key.Binding
	Ask      key.Binding
	Cancel   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// ShortHelp returns keybindings to show in compact help.
func (k ShellKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NewTab, k.CloseTab, k.NextTab, k.Address, k.Ask, k.Help, k.Quit}
}

// FullHelp returns keybindings for expanded help.
func (k ShellKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NewTab, k.CloseTab, k.NextTab, k.PrevTab},
		{k.Address, k.Back, k.Forward, k.Reload, k.Stop, k.Home, k.CopyURL},
		{k.Ask, k.Cancel},
		{k.Help, k.Quit},
	}
}

// DefaultShellKeyMap returns the default shell keybindings.
func DefaultShellKeyMap() ShellKeyMap {
	return ShellKeyMap{
		NewTab: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "new tab"),
		),
		CloseTab: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("C-w", "close tab"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "ctrl+n"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "ctrl+p"),
			key.WithHelp("S-tab", "prev tab"),
		),
		Address: key.NewBinding(
			key.WithKeys("ctrl+l", "o"),
			key.WithHelp("C-l", "address"),
		),
		Back: key.NewBinding(
			key.WithKeys("alt+left", "h"),
			key.WithHelp("h", "back"),
		),
		Forward: key.NewBinding(
			key.WithKeys("alt+right", "l"),
			key.WithHelp("l", "forward"),
		),
		Reload: key.NewBinding(
			key.WithKeys("ctrl+r", "r"),
			key.WithHelp("r", "reload"),
		),
		Stop: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "stop"),
		),
		Home: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "home"),
		),
		CopyURL: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy url"),
		),
		Ask: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "ask assistant"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryKeyMap defines keybindings for the history browser.
type HistoryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Filter key.Binding
	Open   key.Binding
	Delete key.Binding
	Clear  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to show in compact help.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Filter, k.Delete, k.Help, k.Quit}
}

// FullHelp returns keybindings for expanded help.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open},
		{k.Filter},
		{k.Delete, k.Clear},
		{k.Help, k.Quit},
	}
}

// DefaultHistoryKeyMap returns the default history keybindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Clear: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "clear all"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// NewStyledHelp creates a themed help model.
func NewStyledHelp(theme *Theme) help.Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(theme.Accent)
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(theme.Muted)
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(theme.Border)
	h.Styles.FullKey = lipgloss.NewStyle().Foreground(theme.Accent)
	h.Styles.FullDesc = lipgloss.NewStyle().Foreground(theme.Text)
	h.Styles.FullSeparator = lipgloss.NewStyle().Foreground(theme.Border)
	return h
}
