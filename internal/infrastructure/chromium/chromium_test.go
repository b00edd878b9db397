package chromium

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/arkium/internal/application/port"
	"github.com/bnema/arkium/internal/domain/credential"
	"github.com/bnema/arkium/internal/domain/entity"
	domainurl "github.com/bnema/arkium/internal/domain/url"
)

func TestWriteStartPage(t *testing.T) {
	dir := t.TempDir()

	u, err := WriteStartPage(dir)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(u, "file://"))
	assert.True(t, domainurl.IsStartPage(u))

	data, err := os.ReadFile(filepath.Join(dir, "startpage", "index.html"))
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	again, err := WriteStartPage(dir)
	require.NoError(t, err)
	assert.Equal(t, u, again)
}

func TestAllocatorOptions(t *testing.T) {
	opts := allocatorOptions(Options{
		ExecPath:   "/usr/bin/chromium",
		ProfileDir: t.TempDir(),
		Headless:   true,
		ExtraFlags: []string{"--lang=fr", "--mute-audio"},
		WindowSize: entity.Size{Width: 800, Height: 600},
	})
	// Base flags, profile, size, exec path, two extras, headless.
	assert.Len(t, opts, 10+1+1+1+2+1)

	withoutProfile := allocatorOptions(Options{})
	assert.Len(t, withoutProfile, 10+1)
}

type recordingAgent struct {
	mu       sync.Mutex
	planned  []string
	captured []credential.Form
}

func (a *recordingAgent) PlanFill(_ context.Context, host string, _ []credential.Form) (credential.FillPlan, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.planned = append(a.planned, host)
	return credential.FillPlan{}, false
}

func (a *recordingAgent) Capture(_ context.Context, _ string, form credential.Form) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.captured = append(a.captured, form)
	return nil
}

func newTestSurface(t *testing.T, events *[]port.LifecycleEvent) *Surface {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return newSurface(ctx, 7, ctx, cancel, func(ev port.LifecycleEvent) {
		*events = append(*events, ev)
	}, nil)
}

func TestSurface_AgentTitleMessages(t *testing.T) {
	var events []port.LifecycleEvent
	s := newTestSurface(t, &events)
	s.url = "https://a.test/"

	s.onAgentMessage(`{"kind":"title","title":"Hello"}`)
	s.onAgentMessage(`{"kind":"title","title":"Hello"}`)
	s.onAgentMessage(`not json`)
	s.emit(port.LifecycleLoadFinished)

	require.Len(t, events, 2)
	assert.Equal(t, port.LifecycleEvent{Surface: 7, Seq: 1, Kind: port.LifecycleTitleChanged, URL: "https://a.test/", Title: "Hello"}, events[0])
	assert.Equal(t, port.LifecycleLoadFinished, events[1].Kind)
	assert.Equal(t, uint64(2), events[1].Seq)
}

func TestSurface_FormsIgnoredWithoutAgent(t *testing.T) {
	var events []port.LifecycleEvent
	s := newTestSurface(t, &events)

	assert.NotPanics(t, func() {
		s.onAgentMessage(`{"kind":"forms","host":"a.test","forms":[{"index":0,"fields":[]}]}`)
		s.onAgentMessage(`{"kind":"submit","host":"a.test","forms":[{"index":0,"fields":[]}]}`)
	})
	assert.Empty(t, events)
}

func TestSurface_FormsReachAgent(t *testing.T) {
	var events []port.LifecycleEvent
	s := newTestSurface(t, &events)
	agent := &recordingAgent{}
	s.agent = agent

	s.onAgentMessage(`{"kind":"forms","host":"a.test","forms":[{"index":0,"fields":[{"type":"password"}]}]}`)
	s.onAgentMessage(`{"kind":"submit","host":"a.test","forms":[{"index":1,"fields":[{"type":"password","value":"pw"}]}]}`)
	s.onAgentMessage(`{"kind":"submit","host":"","forms":[{"index":2,"fields":[]}]}`)

	assert.Eventually(t, func() bool {
		agent.mu.Lock()
		defer agent.mu.Unlock()
		return len(agent.planned) == 1 && len(agent.captured) == 1
	}, time.Second, 10*time.Millisecond)

	agent.mu.Lock()
	defer agent.mu.Unlock()
	assert.Equal(t, []string{"a.test"}, agent.planned)
	assert.Equal(t, 1, agent.captured[0].Index)
}

func TestSurface_DestroyTwice(t *testing.T) {
	var events []port.LifecycleEvent
	s := newTestSurface(t, &events)
	released := 0
	s.release = func() { released++ }

	s.Destroy()
	s.Destroy()

	assert.Equal(t, 1, released)
	assert.ErrorIs(t, s.LoadURL(context.Background(), "https://a.test"), ErrClosed)
	assert.ErrorIs(t, s.Evaluate(context.Background(), "1", nil), ErrClosed)
}

func TestSurface_QueueFullDropsCommands(t *testing.T) {
	var events []port.LifecycleEvent
	s := newTestSurface(t, &events)

	// The worker is not started, so the queue fills up.
	for range queueDepth {
		require.NoError(t, s.Reload(context.Background()))
	}
	assert.Error(t, s.Reload(context.Background()))
	assert.NoError(t, s.SetBounds(context.Background(), entity.Rect{}), "empty bounds are ignored")
}

func TestWindow_AttachDetach(t *testing.T) {
	var events []port.LifecycleEvent
	s := newTestSurface(t, &events)
	w := NewWindow(entity.Size{Width: 1200, Height: 800})

	require.NoError(t, w.Attach(context.Background(), s))
	assert.Equal(t, entity.SurfaceID(7), w.Attached())

	require.NoError(t, w.Detach(context.Background(), s))
	assert.Zero(t, w.Attached())

	w.SetContentSize(entity.Size{Width: 640, Height: 480})
	assert.Equal(t, entity.Size{Width: 640, Height: 480}, w.ContentSize())
}
