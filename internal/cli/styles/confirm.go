package styles

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type confirmState int

const (
	confirmPending confirmState = iota
	confirmAnswered
	confirmDismissed
)

var confirmKeys = struct {
	yes, no, toggle, accept, dismiss key.Binding
}{
	yes:     key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
	no:      key.NewBinding(key.WithKeys("n", "N"), key.WithHelp("n", "no")),
	toggle:  key.NewBinding(key.WithKeys("left", "right", "h", "l", "tab"), key.WithHelp("←/→", "switch")),
	accept:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "accept")),
	dismiss: key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "dismiss")),
}

// ConfirmModel asks a yes/no question on a single line. The highlighted
// choice starts on "No".
type ConfirmModel struct {
	prompt string
	yes    bool
	state  confirmState
	theme  *Theme
}

// NewConfirm returns a prompt for question.
func NewConfirm(theme *Theme, question string) ConfirmModel {
	return ConfirmModel{prompt: question, theme: theme}
}

// Update reacts to key presses until the prompt is answered.
func (m ConfirmModel) Update(msg tea.Msg) (ConfirmModel, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok || m.state != confirmPending {
		return m, nil
	}
	switch {
	case key.Matches(k, confirmKeys.yes):
		m.yes, m.state = true, confirmAnswered
	case key.Matches(k, confirmKeys.no):
		m.yes, m.state = false, confirmAnswered
	case key.Matches(k, confirmKeys.toggle):
		m.yes = !m.yes
	case key.Matches(k, confirmKeys.accept):
		m.state = confirmAnswered
	case key.Matches(k, confirmKeys.dismiss):
		m.state = confirmDismissed
	}
	return m, nil
}

// View renders the question followed by both choices.
func (m ConfirmModel) View() string {
	t := m.theme
	choice := func(label string, on bool) string {
		if on {
			return t.ActiveTab.Render(label)
		}
		return t.InactiveTab.Render(label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		t.Title.Render(m.prompt), "  ",
		choice("No", !m.yes), " ",
		choice("Yes", m.yes),
	)
}

// Done reports whether the prompt was answered or dismissed.
func (m ConfirmModel) Done() bool { return m.state != confirmPending }

// Result is true only for an explicit "Yes".
func (m ConfirmModel) Result() bool { return m.state == confirmAnswered && m.yes }

// Dismissed reports whether the prompt was closed without an answer.
func (m ConfirmModel) Dismissed() bool { return m.state == confirmDismissed }
