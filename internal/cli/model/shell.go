// Package model provides Bubble Tea models for the terminal shell and the
// CLI commands.
package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/bnema/arkium/internal/application/port"
	"github.com/bnema/arkium/internal/cli/styles"
	"github.com/bnema/arkium/internal/domain/autocomplete"
	"github.com/bnema/arkium/internal/logging"
	"github.com/bnema/arkium/internal/shell"
	"github.com/bnema/arkium/internal/ui/coordinator"
	"github.com/bnema/arkium/internal/ui/dispatcher"
)

const (
	systemPrompt = "You are a concise, helpful assistant."
	// maxChatTurns bounds the conversation sent with each question.
	maxChatTurns = 20
)

// Dispatcher executes shell commands.
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd dispatcher.Command) dispatcher.Reply
}

type shellMode int

const (
	modeNormal shellMode = iota
	modeAddress
	modeAsk
)

// ShellModel is the terminal chrome of the browser. It renders the tab
// strip from coordinator events and sends commands for key presses.
type ShellModel struct {
	state   *shell.State
	events  <-chan port.Event
	disp    Dispatcher
	ctx     context.Context
	theme   *styles.Theme
	keys    styles.ShellKeyMap
	help    help.Model
	address textinput.Model
	ask     textinput.Model
	spinner spinner.Model
	// copyText puts text on the system clipboard.
	copyText func(string) error

	mode     shellMode
	showHelp bool
	width    int
	height   int
	status   string
	err      error

	chat    []port.ChatMessage
	pending string
	answer  string
}

// eventMsg carries one coordinator event into the update loop.
type eventMsg struct{ ev port.Event }

// eventsClosedMsg is sent when the event stream ends.
type eventsClosedMsg struct{}

// replyMsg is the outcome of a dispatched command.
type replyMsg struct {
	cmd   dispatcher.Command
	reply dispatcher.Reply
}

// visitedMsg carries the history used for address completion.
type visitedMsg struct{ reply dispatcher.Reply }

// copiedMsg reports the outcome of copying the active URL.
type copiedMsg struct {
	url string
	err error
}

// askSentMsg is sent once a question was handed to the assistant.
type askSentMsg struct {
	id       string
	question string
	err      error
}

// NewShellModel creates the shell. events is usually an event bus
// subscription; the model stops when it is closed.
func NewShellModel(ctx context.Context, disp Dispatcher, events <-chan port.Event) ShellModel {
	logging.FromContext(ctx).Debug().Msg("creating shell model")

	theme := styles.DefaultTheme()
	return ShellModel{
		state:   shell.NewState(),
		events:  events,
		disp:    disp,
		ctx:     ctx,
		theme:   theme,
		keys:    styles.DefaultShellKeyMap(),
		help:    styles.NewStyledHelp(theme),
		address: styles.NewURLInput(theme),
		ask:     styles.NewAskInput(theme),
		spinner: styles.NewSpinner(theme),

		copyText: clipboard.WriteAll,
		width:    80,
		height:   24,
	}
}

// Init implements tea.Model.
func (m ShellModel) Init() tea.Cmd {
	return m.waitEvent()
}

func (m ShellModel) waitEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg{ev: ev}
	}
}

// send dispatches cmd off the update loop.
func (m ShellModel) send(cmd dispatcher.Command) tea.Cmd {
	ctx, disp := m.ctx, m.disp
	return func() tea.Msg {
		return replyMsg{cmd: cmd, reply: disp.Dispatch(ctx, cmd)}
	}
}

// Update implements tea.Model.
func (m ShellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.address.Width = max(10, msg.Width-8)
		m.ask.Width = max(10, msg.Width-8)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case eventMsg:
		return m.handleEvent(msg.ev)
	case eventsClosedMsg:
		return m, tea.Quit
	case replyMsg:
		return m.handleReply(msg)
	case askSentMsg:
		return m.handleAskSent(msg)
	case copiedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("copy url: %w", msg.err)
			return m, nil
		}
		m.err = nil
		m.status = "Copied " + msg.url
		return m, nil
	case visitedMsg:
		if msg.reply.OK {
			m.state.Apply(port.HistoryUpdated{Entries: msg.reply.Items})
			m.address.SetSuggestions(autocomplete.Candidates(m.state.History()))
		}
		return m, nil
	case spinner.TickMsg:
		if m.pending == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m ShellModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeAddress:
		return m.handleAddressKey(msg)
	case modeAsk:
		return m.handleAskKey(msg)
	default:
		return m.handleNormalKey(msg)
	}
}

func (m ShellModel) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.NewTab):
		return m, m.send(dispatcher.Command{Type: dispatcher.CmdCreateSurface})
	case key.Matches(msg, m.keys.CloseTab):
		if id := m.state.ActiveID(); id != 0 {
			return m, m.send(dispatcher.Command{Type: dispatcher.CmdCloseSurface, SurfaceID: id})
		}
		return m, nil
	case key.Matches(msg, m.keys.NextTab):
		return m.cycle(1)
	case key.Matches(msg, m.keys.PrevTab):
		return m.cycle(-1)
	case key.Matches(msg, m.keys.Address):
		m.mode = modeAddress
		m.address.SetValue("")
		if tab, ok := m.state.Active(); ok {
			m.address.SetValue(tab.URL)
		}
		m.address.CursorEnd()
		m.address.Focus()
		return m, tea.Batch(textinput.Blink, m.loadVisited())
	case key.Matches(msg, m.keys.Ask):
		m.mode = modeAsk
		m.ask.SetValue("")
		m.ask.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Back):
		return m, m.send(dispatcher.Command{Type: dispatcher.CmdGoBack})
	case key.Matches(msg, m.keys.Forward):
		return m, m.send(dispatcher.Command{Type: dispatcher.CmdGoForward})
	case key.Matches(msg, m.keys.Reload):
		return m, m.send(dispatcher.Command{Type: dispatcher.CmdReload})
	case key.Matches(msg, m.keys.Stop):
		return m, m.send(dispatcher.Command{Type: dispatcher.CmdStop})
	case key.Matches(msg, m.keys.Home):
		return m, m.send(dispatcher.Command{Type: dispatcher.CmdGoHome})
	case key.Matches(msg, m.keys.CopyURL):
		return m, m.copyActiveURL()
	case key.Matches(msg, m.keys.Cancel):
		m.answer = ""
		m.status = ""
		m.err = nil
		return m, nil
	}
	return m, nil
}

// copyActiveURL copies the active tab's URL. The start page has none.
func (m ShellModel) copyActiveURL() tea.Cmd {
	tab, ok := m.state.Active()
	if !ok || tab.URL == "" {
		return nil
	}
	url, copyText := tab.URL, m.copyText
	return func() tea.Msg {
		return copiedMsg{url: url, err: copyText(url)}
	}
}

func (m ShellModel) cycle(delta int) (tea.Model, tea.Cmd) {
	cmd, ok := m.state.Cycle(delta)
	if !ok {
		return m, nil
	}
	return m, m.send(cmd)
}

func (m ShellModel) handleAddressKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeNormal
		m.address.Blur()
		return m, nil
	case tea.KeyEnter:
		m.mode = modeNormal
		m.address.Blur()
		location := strings.TrimSpace(m.address.Value())
		if location == "" {
			return m, nil
		}
		return m, m.send(dispatcher.Command{Type: dispatcher.CmdNavigate, Location: location})
	}
	var cmd tea.Cmd
	m.address, cmd = m.address.Update(msg)
	return m, cmd
}

// loadVisited fetches the history once per address edit; later changes
// arrive as history-updated events.
func (m ShellModel) loadVisited() tea.Cmd {
	ctx, disp := m.ctx, m.disp
	return func() tea.Msg {
		return visitedMsg{reply: disp.Dispatch(ctx, dispatcher.Command{Type: dispatcher.CmdGetHistory})}
	}
}

func (m ShellModel) handleAskKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeNormal
		m.ask.Blur()
		return m, nil
	case tea.KeyEnter:
		m.mode = modeNormal
		m.ask.Blur()
		question := strings.TrimSpace(m.ask.Value())
		if question == "" || m.pending != "" {
			return m, nil
		}
		id := uuid.NewString()
		m.pending = id
		m.answer = ""
		m.err = nil
		return m, tea.Batch(m.spinner.Tick, m.askCmd(id, question))
	}
	var cmd tea.Cmd
	m.ask, cmd = m.ask.Update(msg)
	return m, cmd
}

// askCmd reads the active page and hands the question to the assistant.
// The answer arrives later as an assistant-reply event.
func (m ShellModel) askCmd(id, question string) tea.Cmd {
	ctx, disp := m.ctx, m.disp
	chat := append([]port.ChatMessage(nil), m.chat...)
	return func() tea.Msg {
		var page *coordinator.PageText
		if r := disp.Dispatch(ctx, dispatcher.Command{Type: dispatcher.CmdExtractPageText}); r.OK {
			page = r.PageText
		}
		messages := ChatMessages(page, chat, question)
		r := disp.Dispatch(ctx, dispatcher.Command{Type: dispatcher.CmdAssistantAsk, RequestID: id, Messages: messages})
		if !r.OK {
			return askSentMsg{id: id, question: question, err: fmt.Errorf("ask assistant: %s", r.Error)}
		}
		return askSentMsg{id: id, question: question}
	}
}

// ChatMessages builds the conversation for one question: the system prompt,
// the page context when available, the previous turns and the question.
func ChatMessages(page *coordinator.PageText, chat []port.ChatMessage, question string) []port.ChatMessage {
	out := []port.ChatMessage{{Role: "system", Content: systemPrompt}}
	if page != nil && page.Text != "" {
		out = append(out, port.ChatMessage{
			Role: "system",
			Content: fmt.Sprintf("Webpage context (do not echo):\nURL: %s\nTITLE: %s\nTEXT: %s",
				page.URL, page.Title, page.Text),
		})
	}
	if len(chat) > maxChatTurns {
		chat = chat[len(chat)-maxChatTurns:]
	}
	out = append(out, chat...)
	return append(out, port.ChatMessage{Role: "user", Content: question})
}

func (m ShellModel) handleAskSent(msg askSentMsg) (tea.Model, tea.Cmd) {
	if msg.id != m.pending {
		return m, nil
	}
	if msg.err != nil {
		m.pending = ""
		m.err = msg.err
		return m, nil
	}
	m.chat = append(m.chat, port.ChatMessage{Role: "user", Content: msg.question})
	// The reply may already have been folded in.
	return m.collectReply(), nil
}

func (m ShellModel) collectReply() ShellModel {
	if m.pending == "" {
		return m
	}
	reply, ok := m.state.Reply(m.pending)
	if !ok {
		return m
	}
	m.pending = ""
	if reply.Error != "" {
		m.err = fmt.Errorf("assistant: %s", reply.Error)
		return m
	}
	m.answer = reply.Content
	m.chat = append(m.chat, port.ChatMessage{Role: "assistant", Content: reply.Content})
	return m
}

func (m ShellModel) handleEvent(ev port.Event) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.waitEvent()}
	for _, follow := range m.state.Apply(ev) {
		cmds = append(cmds, m.send(follow))
	}

	if _, ok := ev.(port.HistoryUpdated); ok {
		m.address.SetSuggestions(autocomplete.Candidates(m.state.History()))
	}
	if pair := m.state.Theme(); pair != m.theme.Pair {
		m.recolor(styles.NewThemeFromPair(pair))
	}
	if reply, ok := ev.(port.AssistantReply); ok && reply.ID == m.pending {
		m = m.collectReply()
	}
	return m, tea.Batch(cmds...)
}

func (m *ShellModel) recolor(theme *styles.Theme) {
	m.theme = theme
	m.help = styles.NewStyledHelp(theme)
	m.help.Width = m.width
	styles.Recolor(&m.address, theme)
	styles.Recolor(&m.ask, theme)
	m.spinner.Style = lipgloss.NewStyle().Foreground(theme.Accent)
}

func (m ShellModel) handleReply(msg replyMsg) (tea.Model, tea.Cmd) {
	if msg.reply.OK {
		return m, nil
	}
	logging.FromContext(m.ctx).Debug().
		Str("command", msg.cmd.Type).
		Str("error", msg.reply.Error).
		Msg("shell command failed")
	m.err = fmt.Errorf("%s: %s", msg.cmd.Type, msg.reply.Error)
	return m, nil
}

// State exposes the folded shell state.
func (m ShellModel) State() *shell.State {
	return m.state
}

// Theme returns the chrome theme in effect.
func (m ShellModel) Theme() *styles.Theme {
	return m.theme
}

// View implements tea.Model.
func (m ShellModel) View() string {
	t := m.theme
	var b strings.Builder

	tabs := m.state.Tabs()
	labels := make([]string, len(tabs))
	active := -1
	for i, tab := range tabs {
		labels[i] = tab.Label()
		if tab.ID == m.state.ActiveID() {
			active = i
		}
	}
	b.WriteString(styles.NewTabs(t, active, labels...).View(m.width))
	b.WriteString("\n")

	switch m.mode {
	case modeAddress:
		b.WriteString(t.InputBox(m.address.View(), true))
		if s, ok := autocomplete.Complete(m.address.Value(), m.state.History()); ok && s.Title != "" {
			b.WriteString("\n" + t.Subtle.Render(styles.Truncate("  "+s.Title, max(10, m.width-2))))
		}
	case modeAsk:
		b.WriteString(t.InputBox(m.ask.View(), true))
	default:
		url := ""
		if tab, ok := m.state.Active(); ok {
			url = tab.URL
		}
		if url == "" {
			url = "New Tab"
		}
		b.WriteString(t.Subtle.Render(styles.Truncate(url, max(10, m.width-2))))
	}
	b.WriteString("\n\n")

	switch {
	case m.pending != "":
		b.WriteString(m.spinner.View() + " " + t.Subtle.Render("Thinking..."))
		b.WriteString("\n")
	case m.answer != "":
		b.WriteString(t.Normal.Width(max(20, m.width-2)).Render(m.answer))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(t.ErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(t.Subtle.Render(styles.Truncate(m.status, max(10, m.width-2))))
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return lipgloss.NewStyle().Background(t.Background).Render(b.String())
}
