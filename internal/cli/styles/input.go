package styles

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

const (
	urlCharLimit = 2048
	askCharLimit = 1024
)

func newInput(theme *Theme, prompt, placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	Recolor(&ti, theme)
	return ti
}

// NewURLInput is the address field. It completes from history when the
// caller supplies suggestions.
func NewURLInput(theme *Theme) textinput.Model {
	ti := newInput(theme, "→ ", "Enter URL...", urlCharLimit)
	ti.ShowSuggestions = true
	return ti
}

// NewAskInput is the assistant question field.
func NewAskInput(theme *Theme) textinput.Model {
	return newInput(theme, "? ", "Ask about this page...", askCharLimit)
}

// Recolor restyles ti after a theme change.
func Recolor(ti *textinput.Model, theme *Theme) {
	accent := lipgloss.NewStyle().Foreground(theme.Accent)
	ti.PromptStyle = accent
	ti.Cursor.Style = accent
	ti.TextStyle = lipgloss.NewStyle().Foreground(theme.Text)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(theme.Muted)
	ti.CompletionStyle = lipgloss.NewStyle().Foreground(theme.Muted)
}

// NewSpinner shows that an assistant reply is pending.
func NewSpinner(theme *Theme) spinner.Model {
	return spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent)),
	)
}
