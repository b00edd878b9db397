package dispatcher

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/arkium/internal/application/port"
	portmocks "github.com/bnema/arkium/internal/application/port/mocks"
	"github.com/bnema/arkium/internal/application/usecase"
	"github.com/bnema/arkium/internal/domain/entity"
	repomocks "github.com/bnema/arkium/internal/domain/repository/mocks"
	"github.com/bnema/arkium/internal/logging"
	"github.com/bnema/arkium/internal/ui/coordinator"
)

type inlineLoop struct{}

func (inlineLoop) Invoke(_ context.Context, fn func()) error {
	fn()
	return nil
}

type stubSurface struct {
	id    entity.SurfaceID
	loads []string
	text  string
}

func (s *stubSurface) ID() entity.SurfaceID { return s.id }
func (s *stubSurface) LoadURL(_ context.Context, u string) error {
	s.loads = append(s.loads, u)
	return nil
}
func (s *stubSurface) GoBack(context.Context) error    { return nil }
func (s *stubSurface) GoForward(context.Context) error { return nil }
func (s *stubSurface) Reload(context.Context) error    { return nil }
func (s *stubSurface) Stop(context.Context) error      { return nil }
func (s *stubSurface) Evaluate(_ context.Context, _ string, out any) error {
	if p, ok := out.(*struct {
		URL   string `json:"url"`
		Title string `json:"title"`
		Text  string `json:"text"`
	}); ok {
		p.URL, p.Title, p.Text = "https://a.test", "A", s.text
	}
	return nil
}
func (s *stubSurface) SetBounds(context.Context, entity.Rect) error { return nil }
func (s *stubSurface) Destroy()                                     {}

type stubEngine struct {
	surfaces map[entity.SurfaceID]*stubSurface
}

func (e *stubEngine) CreateSurface(_ context.Context, id entity.SurfaceID, _ port.LifecycleHandler) (port.WebSurface, error) {
	s := &stubSurface{id: id}
	e.surfaces[id] = s
	return s, nil
}
func (e *stubEngine) StartPageURL() string { return "file:///tmp/startpage/index.html" }

type stubWindow struct{}

func (stubWindow) Attach(context.Context, port.WebSurface) error { return nil }
func (stubWindow) Detach(context.Context, port.WebSurface) error { return nil }
func (stubWindow) ContentSize() entity.Size                      { return entity.Size{Width: 800, Height: 600} }

type recordingSink struct {
	mu     sync.Mutex
	events []port.Event
}

func (s *recordingSink) Publish(ev port.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

type fixture struct {
	ctx       context.Context
	d         *CommandDispatcher
	engine    *stubEngine
	sink      *recordingSink
	secrets   *repomocks.MockSecretRepository
	completer *portmocks.MockChatCompleter
	history   *repomocks.MockHistoryRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	t.Setenv(usecase.APIKeyEnv, "")

	f := &fixture{
		ctx:       logging.WithContext(context.Background(), logging.NewFromConfigValues("debug", "console")),
		engine:    &stubEngine{surfaces: map[entity.SurfaceID]*stubSurface{}},
		sink:      &recordingSink{},
		secrets:   repomocks.NewMockSecretRepository(t),
		completer: portmocks.NewMockChatCompleter(t),
		history:   repomocks.NewMockHistoryRepository(t),
	}
	f.history.EXPECT().Save(mock.Anything, mock.Anything).Return(nil).Maybe()

	historyUC := usecase.NewManageHistoryUseCase(f.history, 100, f.sink)
	tabs := coordinator.NewTabManager(f.ctx, coordinator.TabManagerConfig{
		History: historyUC,
		Engine:  f.engine,
		Window:  stubWindow{},
		Sink:    f.sink,
		Post:    func(fn func()) bool { fn(); return true },
		Spawn:   func(fn func()) { fn() },
	})
	f.d = NewCommandDispatcher(f.ctx, Config{
		Loop:      inlineLoop{},
		Tabs:      tabs,
		History:   historyUC,
		Assistant: usecase.NewAssistantUseCase(f.secrets, f.completer),
		Sink:      f.sink,
		Spawn:     func(fn func()) { fn() },
	})
	return f
}

func TestDispatch_SurfaceCommands(t *testing.T) {
	f := newFixture(t)

	first := f.d.Dispatch(f.ctx, Command{Type: CmdCreateSurface, InitialLocation: "a.test"})
	require.True(t, first.OK, first.Error)
	second := f.d.Dispatch(f.ctx, Command{Type: CmdCreateSurface})
	require.True(t, second.OK, second.Error)
	assert.NotEqual(t, first.ID, second.ID)

	require.True(t, f.d.Dispatch(f.ctx, Command{Type: CmdSwitchSurface, SurfaceID: first.ID}).OK)
	require.True(t, f.d.Dispatch(f.ctx, Command{Type: CmdNavigate, Location: "b.test"}).OK)

	state := f.d.Dispatch(f.ctx, Command{Type: CmdGetState})
	require.NotNil(t, state.State)
	assert.Equal(t, first.ID, state.State.ActiveID)
	assert.Len(t, state.State.Surfaces, 2)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, f.engine.surfaces[first.ID].loads)

	require.True(t, f.d.Dispatch(f.ctx, Command{Type: CmdCloseSurface, SurfaceID: first.ID}).OK)
	state = f.d.Dispatch(f.ctx, Command{Type: CmdGetState})
	assert.Len(t, state.State.Surfaces, 1)
	assert.Zero(t, state.State.ActiveID)
}

func TestDispatch_RequestThemeAnalysisNeedsActiveSurface(t *testing.T) {
	f := newFixture(t)

	first := f.d.Dispatch(f.ctx, Command{Type: CmdCreateSurface})
	second := f.d.Dispatch(f.ctx, Command{Type: CmdCreateSurface})
	require.True(t, f.d.Dispatch(f.ctx, Command{Type: CmdCloseSurface, SurfaceID: second.ID}).OK)

	reply := f.d.Dispatch(f.ctx, Command{Type: CmdRequestThemeAnalysis})
	assert.False(t, reply.OK)
	assert.Equal(t, coordinator.ErrNoActiveSurface.Error(), reply.Error)

	require.True(t, f.d.Dispatch(f.ctx, Command{Type: CmdSwitchSurface, SurfaceID: first.ID}).OK)
	assert.True(t, f.d.Dispatch(f.ctx, Command{Type: CmdRequestThemeAnalysis}).OK)
}

func TestDispatch_UnknownCommand(t *testing.T) {
	f := newFixture(t)

	reply := f.d.Dispatch(f.ctx, Command{Type: "teleport"})

	assert.False(t, reply.OK)
	assert.Contains(t, reply.Error, "unknown command")
}

func TestDispatch_HistoryCommands(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.d.Dispatch(f.ctx, Command{Type: CmdGetHistory}).OK)

	ts := int64(1)
	reply := f.d.Dispatch(f.ctx, Command{Type: CmdDeleteHistoryItem, Timestamp: &ts})
	assert.True(t, reply.OK, "deleting a missing entry is not an error")

	reply = f.d.Dispatch(f.ctx, Command{Type: CmdDeleteHistoryItem})
	assert.False(t, reply.OK)

	assert.True(t, f.d.Dispatch(f.ctx, Command{Type: CmdClearHistory}).OK)
}

func TestDispatch_AssistantAskPublishesReply(t *testing.T) {
	f := newFixture(t)
	f.secrets.EXPECT().GetAPIKey(mock.Anything).Return("sk-saved", nil)
	f.completer.EXPECT().Complete(mock.Anything, "sk-saved", mock.Anything).Return("pong", nil)

	reply := f.d.Dispatch(f.ctx, Command{Type: CmdAssistantAsk, RequestID: "r1", Messages: []port.ChatMessage{{Role: "user", Content: "ping"}}})
	require.True(t, reply.OK)

	require.Len(t, f.sink.events, 1)
	assert.Equal(t, port.AssistantReply{ID: "r1", Content: "pong"}, f.sink.events[0])
}

func TestDispatch_AssistantAskNeedsID(t *testing.T) {
	f := newFixture(t)

	reply := f.d.Dispatch(f.ctx, Command{Type: CmdAssistantAsk})

	assert.False(t, reply.OK)
	assert.Empty(t, f.sink.events)
}

func TestDispatch_KeyCommands(t *testing.T) {
	f := newFixture(t)

	reply := f.d.Dispatch(f.ctx, Command{Type: CmdSaveKey, Key: "pk-nope"})
	assert.False(t, reply.OK)
	assert.Equal(t, usecase.ErrInvalidKey.Error(), reply.Error)

	f.secrets.EXPECT().SetAPIKey(mock.Anything, "sk-abcd1234").Return(nil)
	reply = f.d.Dispatch(f.ctx, Command{Type: CmdSaveKey, Key: " sk-abcd1234 "})
	require.True(t, reply.OK, reply.Error)
	require.NotNil(t, reply.KeyStatus)
	assert.Equal(t, "1234", reply.Last4)

	status := f.d.Dispatch(f.ctx, Command{Type: CmdGetKeyStatus})
	require.NotNil(t, status.KeyStatus)
	assert.True(t, status.Exists)
	assert.Equal(t, usecase.KeySourceSession, status.Source)

	f.completer.EXPECT().Verify(mock.Anything, "sk-abcd1234").Return(errors.New("HTTP 401: Unauthorized"))
	reply = f.d.Dispatch(f.ctx, Command{Type: CmdTestKey})
	assert.False(t, reply.OK)
	assert.Equal(t, "HTTP 401: Unauthorized", reply.Error)
}

func TestDispatch_ExtractPageText(t *testing.T) {
	f := newFixture(t)

	reply := f.d.Dispatch(f.ctx, Command{Type: CmdExtractPageText})
	assert.False(t, reply.OK, "no surface yet")

	created := f.d.Dispatch(f.ctx, Command{Type: CmdCreateSurface, InitialLocation: "a.test"})
	f.engine.surfaces[created.ID].text = "hello"

	reply = f.d.Dispatch(f.ctx, Command{Type: CmdExtractPageText})
	require.True(t, reply.OK, reply.Error)
	require.NotNil(t, reply.PageText)
	assert.Equal(t, "hello", reply.Text)
	assert.False(t, reply.Truncated)
}
