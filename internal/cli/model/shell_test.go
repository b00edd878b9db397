package model

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/arkium/internal/application/port"
	"github.com/bnema/arkium/internal/domain/entity"
	"github.com/bnema/arkium/internal/ui/coordinator"
	"github.com/bnema/arkium/internal/ui/dispatcher"
)

type recordingDispatcher struct {
	mu      sync.Mutex
	cmds    []dispatcher.Command
	page    *coordinator.PageText
	failAsk bool
}

func (d *recordingDispatcher) Dispatch(_ context.Context, cmd dispatcher.Command) dispatcher.Reply {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cmds = append(d.cmds, cmd)
	switch cmd.Type {
	case dispatcher.CmdExtractPageText:
		if d.page == nil {
			return dispatcher.Reply{Error: "no active surface"}
		}
		return dispatcher.Reply{OK: true, PageText: d.page}
	case dispatcher.CmdAssistantAsk:
		if d.failAsk {
			return dispatcher.Reply{Error: "assistant unavailable"}
		}
	}
	return dispatcher.Reply{OK: true}
}

func (d *recordingDispatcher) types() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.cmds))
	for i, c := range d.cmds {
		out[i] = c.Type
	}
	return out
}

func (d *recordingDispatcher) last() dispatcher.Command {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cmds[len(d.cmds)-1]
}

// newTestShell returns a shell whose event stream is already closed, so
// running its commands never blocks. Events are fed with feed.
func newTestShell(t *testing.T) (ShellModel, *recordingDispatcher) {
	t.Helper()
	events := make(chan port.Event)
	close(events)
	disp := &recordingDispatcher{}
	return NewShellModel(context.Background(), disp, events), disp
}

func feed(m ShellModel, msg tea.Msg) (ShellModel, []tea.Msg) {
	next, cmd := m.Update(msg)
	return next.(ShellModel), collect(cmd)
}

// collect runs cmd and flattens batches.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestShell_RendersTabsFromEvents(t *testing.T) {
	m, _ := newTestShell(t)

	m, _ = feed(m, eventMsg{ev: port.SurfaceCreated{ID: 1}})
	m, _ = feed(m, eventMsg{ev: port.SurfaceCreated{ID: 2, URL: "https://a.test"}})
	m, _ = feed(m, eventMsg{ev: port.SurfaceUpdated{ID: 2, Title: "Site A", URL: "https://a.test/"}})

	view := m.View()
	assert.Contains(t, view, "New Tab")
	assert.Contains(t, view, "Site A")
	assert.Contains(t, view, "https://a.test/")
	assert.Equal(t, entity.SurfaceID(2), m.State().ActiveID())
}

func TestShell_KeysSendCommands(t *testing.T) {
	m, disp := newTestShell(t)
	m, _ = feed(m, eventMsg{ev: port.SurfaceCreated{ID: 1}})
	m, _ = feed(m, eventMsg{ev: port.SurfaceCreated{ID: 2}})

	m, _ = feed(m, tea.KeyMsg{Type: tea.KeyCtrlT})
	m, _ = feed(m, keyRunes("r"))
	m, _ = feed(m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = feed(m, tea.KeyMsg{Type: tea.KeyCtrlW})

	assert.Equal(t, []string{
		dispatcher.CmdCreateSurface,
		dispatcher.CmdReload,
		dispatcher.CmdSwitchSurface,
		dispatcher.CmdCloseSurface,
	}, disp.types())
	assert.Equal(t, entity.SurfaceID(1), disp.last().SurfaceID, "tab wraps to the first surface")
}

func TestShell_AddressBarNavigates(t *testing.T) {
	m, disp := newTestShell(t)
	m, _ = feed(m, eventMsg{ev: port.SurfaceCreated{ID: 1}})

	m, _ = feed(m, tea.KeyMsg{Type: tea.KeyCtrlL})
	for _, r := range "news.test" {
		m, _ = feed(m, keyRunes(string(r)))
	}
	m, _ = feed(m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, []string{dispatcher.CmdGetHistory, dispatcher.CmdNavigate}, disp.types())
	assert.Equal(t, "news.test", disp.last().Location)
	assert.Equal(t, modeNormal, m.mode)
}

func TestShell_AddressCompletesFromHistory(t *testing.T) {
	m, _ := newTestShell(t)
	m, _ = feed(m, eventMsg{ev: port.SurfaceCreated{ID: 1}})
	m, _ = feed(m, visitedMsg{reply: dispatcher.Reply{OK: true, Items: []entity.HistoryEntry{
		{URL: "https://www.example.com/docs", Title: "Example Docs", Timestamp: 1},
	}}})

	m, _ = feed(m, tea.KeyMsg{Type: tea.KeyCtrlL})
	for _, r := range "exa" {
		m, _ = feed(m, keyRunes(string(r)))
	}

	assert.Contains(t, m.View(), "Example Docs")
	assert.Len(t, m.State().History(), 1)
}

func TestShell_ClosingActiveSelectsNeighbor(t *testing.T) {
	m, disp := newTestShell(t)
	for id := entity.SurfaceID(1); id <= 3; id++ {
		m, _ = feed(m, eventMsg{ev: port.SurfaceCreated{ID: id}})
	}
	m, _ = feed(m, eventMsg{ev: port.SurfaceCreated{ID: 2}})

	_, _ = feed(m, eventMsg{ev: port.SurfaceClosed{ID: 2}})

	require.Equal(t, []string{dispatcher.CmdSwitchSurface}, disp.types())
	assert.Equal(t, entity.SurfaceID(3), disp.last().SurfaceID)
}

func TestShell_RecolorsForActiveTheme(t *testing.T) {
	m, _ := newTestShell(t)
	m, _ = feed(m, eventMsg{ev: port.SurfaceCreated{ID: 1}})
	m, _ = feed(m, eventMsg{ev: port.SurfaceCreated{ID: 2}})

	m, _ = feed(m, eventMsg{ev: port.ThemeSuggested{ID: 1, Background: "#FFFFFF", Foreground: "#000000"}})
	assert.Equal(t, entity.StartPageTheme, m.Theme().Pair, "stale suggestion is ignored")

	m, _ = feed(m, eventMsg{ev: port.ThemeSuggested{ID: 2, Background: "#FFFFFF", Foreground: "#000000"}})
	assert.Equal(t, entity.ThemePair{Background: "#FFFFFF", Foreground: "#000000"}, m.Theme().Pair)
}

func TestShell_AskFlow(t *testing.T) {
	m, disp := newTestShell(t)
	disp.page = &coordinator.PageText{URL: "https://a.test", Title: "A", Text: "hello page"}
	m, _ = feed(m, eventMsg{ev: port.SurfaceCreated{ID: 1}})

	m, _ = feed(m, keyRunes("a"))
	require.Equal(t, modeAsk, m.mode)
	m.ask.SetValue("what is this?")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(ShellModel)
	require.NotEmpty(t, m.pending)
	id := m.pending

	msg := m.askCmd(id, "what is this?")()
	m, _ = feed(m, msg)
	assert.Contains(t, m.View(), "Thinking")

	ask := disp.last()
	assert.Equal(t, dispatcher.CmdAssistantAsk, ask.Type)
	assert.Equal(t, id, ask.RequestID)
	require.Len(t, ask.Messages, 3)
	assert.Contains(t, ask.Messages[1].Content, "hello page")

	m, _ = feed(m, eventMsg{ev: port.AssistantReply{ID: "other", Content: "nope"}})
	assert.Equal(t, id, m.pending)

	m, _ = feed(m, eventMsg{ev: port.AssistantReply{ID: id, Content: "A test page."}})
	assert.Empty(t, m.pending)
	assert.Contains(t, m.View(), "A test page.")
	assert.Len(t, m.chat, 2)
}

func TestShell_AskFailureIsShown(t *testing.T) {
	m, disp := newTestShell(t)
	disp.failAsk = true
	m.pending = "req-1"

	m, _ = feed(m, m.askCmd("req-1", "hi")())

	assert.Empty(t, m.pending)
	require.Error(t, m.err)
	assert.Contains(t, m.View(), "assistant unavailable")
}

func TestShell_QuitsWhenEventsEnd(t *testing.T) {
	m, _ := newTestShell(t)

	msgs := collect(m.Init())
	require.Len(t, msgs, 1)
	_, cmd := m.Update(msgs[0])
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestChatMessages(t *testing.T) {
	msgs := ChatMessages(nil, nil, "hi")
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, port.ChatMessage{Role: "user", Content: "hi"}, msgs[1])

	chat := make([]port.ChatMessage, maxChatTurns+4)
	for i := range chat {
		chat[i] = port.ChatMessage{Role: "user", Content: "turn"}
	}
	msgs = ChatMessages(&coordinator.PageText{Text: "body"}, chat, "q")
	assert.Len(t, msgs, 2+maxChatTurns+1)
	assert.Contains(t, msgs[1].Content, "TEXT: body")
}

func TestShell_CopyURL(t *testing.T) {
	m, _ := newTestShell(t)
	var copied []string
	m.copyText = func(s string) error {
		copied = append(copied, s)
		return nil
	}

	m, _ = feed(m, eventMsg{ev: port.SurfaceCreated{ID: 1}})
	m, msgs := feed(m, keyRunes("y"))
	assert.Empty(t, msgs, "start page has nothing to copy")

	m, _ = feed(m, eventMsg{ev: port.SurfaceCreated{ID: 2, URL: "https://a.test/"}})
	m, msgs = feed(m, keyRunes("y"))
	require.Len(t, msgs, 1)
	m, _ = feed(m, msgs[0])

	assert.Equal(t, []string{"https://a.test/"}, copied)
	assert.Contains(t, m.View(), "Copied https://a.test/")
}

func TestShell_CopyURLFailureIsShown(t *testing.T) {
	m, _ := newTestShell(t)
	m.copyText = func(string) error { return errors.New("no clipboard utility") }

	m, _ = feed(m, eventMsg{ev: port.SurfaceCreated{ID: 1, URL: "https://a.test/"}})
	m, msgs := feed(m, keyRunes("y"))
	require.Len(t, msgs, 1)
	m, _ = feed(m, msgs[0])

	require.Error(t, m.err)
	assert.Contains(t, m.View(), "no clipboard utility")
}
