// Package coordinator owns the surface collection and sequences every
// operation on it. All TabManager methods must run on the main loop.
package coordinator

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/arkium/internal/application/port"
	"github.com/bnema/arkium/internal/application/usecase"
	"github.com/bnema/arkium/internal/domain/entity"
	"github.com/bnema/arkium/internal/domain/url"
	"github.com/bnema/arkium/internal/logging"
	"github.com/bnema/arkium/internal/ui/mainloop"
)

// ErrNoActiveSurface is returned by operations that need an active surface.
var ErrNoActiveSurface = errors.New("no active surface")

// HistoryRecorder records completed loads.
type HistoryRecorder interface {
	Record(ctx context.Context, url, title string) bool
}

// TabManager owns the surfaces, the active pointer, the displayed slot and
// the chrome metrics. They are kept in one object because the invariants
// between them must hold jointly after every operation.
type TabManager struct {
	tabsUC  *usecase.ManageTabsUseCase
	history HistoryRecorder
	engine  port.WebEngine
	window  port.Window
	sink    port.EventSink

	post     func(func()) bool
	spawn    func(func())
	analysis *mainloop.Coalescer[entity.SurfaceID]
	ctx      context.Context

	surfaces  *entity.SurfaceList
	views     map[entity.SurfaceID]port.WebSurface
	lastSeq   map[entity.SurfaceID]uint64
	displayed entity.SurfaceID

	metrics entity.ChromeMetrics
	border  int
	size    entity.Size
	sized   bool

	shuttingDown bool
}

// TabManagerConfig holds the collaborators of a TabManager.
type TabManagerConfig struct {
	TabsUC  *usecase.ManageTabsUseCase
	History HistoryRecorder
	Engine  port.WebEngine
	Window  port.Window
	Sink    port.EventSink

	// Post schedules work on the main loop.
	Post func(func()) bool
	// Spawn runs background work. Defaults to a new goroutine.
	Spawn func(func())

	Metrics     entity.ChromeMetrics
	FrameBorder int
}

// NewTabManager creates a TabManager. ctx carries the logger used for
// work that outlives a single call.
func NewTabManager(ctx context.Context, cfg TabManagerConfig) *TabManager {
	log := logging.FromContext(ctx)
	log.Debug().Msg("creating tab manager")

	spawn := cfg.Spawn
	if spawn == nil {
		spawn = func(fn func()) { go fn() }
	}
	tabsUC := cfg.TabsUC
	if tabsUC == nil {
		tabsUC = usecase.NewManageTabsUseCase(nil)
	}
	sink := cfg.Sink
	if sink == nil {
		sink = port.EventSinkFunc(func(port.Event) {})
	}

	return &TabManager{
		tabsUC:   tabsUC,
		history:  cfg.History,
		engine:   cfg.Engine,
		window:   cfg.Window,
		sink:     sink,
		post:     cfg.Post,
		spawn:    spawn,
		analysis: mainloop.NewCoalescer[entity.SurfaceID](spawn),
		ctx:      logging.WithComponent(ctx, "tab-manager"),
		surfaces: entity.NewSurfaceList(),
		views:    make(map[entity.SurfaceID]port.WebSurface),
		lastSeq:  make(map[entity.SurfaceID]uint64),
		metrics:  cfg.Metrics,
		border:   max(0, cfg.FrameBorder),
	}
}

// CreateSurface creates a surface, makes it active and displays it.
// An empty location, "start:" or "start" loads the start document.
func (m *TabManager) CreateSurface(ctx context.Context, location string) (entity.SurfaceID, error) {
	log := logging.FromContext(ctx)

	out, err := m.tabsUC.Create(ctx, usecase.CreateTabInput{
		Surfaces:        m.surfaces,
		InitialLocation: location,
	})
	if err != nil {
		return 0, err
	}
	id := out.Surface.ID
	ctx = logging.WithSurfaceID(ctx, uint64(id))

	view, err := m.engine.CreateSurface(ctx, id, m.lifecycleHandler())
	if err != nil {
		m.surfaces.Remove(id)
		log.Error().Err(err).Uint64("surface_id", uint64(id)).Msg("engine failed to create surface")
		return 0, fmt.Errorf("create surface %d: %w", id, err)
	}
	m.views[id] = view

	m.tabsUC.Switch(ctx, m.surfaces, id)
	m.display(ctx, id)

	if err := view.LoadURL(ctx, url.Resolve(location, m.engine.StartPageURL())); err != nil {
		log.Warn().Err(err).Msg("initial load failed")
	}

	m.sink.Publish(port.SurfaceCreated{ID: id, URL: out.DisplayURL, Title: ""})

	log.Info().
		Uint64("surface_id", uint64(id)).
		Int("count", m.surfaces.Count()).
		Msg("surface created")
	return id, nil
}

// SwitchActive displays id. Unknown and already active ids are ignored.
func (m *TabManager) SwitchActive(ctx context.Context, id entity.SurfaceID) {
	if !m.tabsUC.Switch(ctx, m.surfaces, id) {
		return
	}
	m.display(ctx, id)
	m.requestAnalysis(id)
}

// CloseSurface detaches, releases and removes id. When it was active the
// pointer stays empty until the caller switches; when it was the last
// surface a start page replaces it.
func (m *TabManager) CloseSurface(ctx context.Context, id entity.SurfaceID) {
	ctx = logging.WithSurfaceID(ctx, uint64(id))
	log := logging.FromContext(ctx)

	if m.surfaces.Find(id) == nil {
		log.Debug().Msg("close: unknown surface")
		return
	}

	view := m.views[id]
	if m.displayed == id {
		m.detach(ctx, view)
	}
	if view != nil {
		view.Destroy()
	}
	delete(m.views, id)
	delete(m.lastSeq, id)
	m.tabsUC.Close(ctx, m.surfaces, id)

	m.sink.Publish(port.SurfaceClosed{ID: id})

	if m.surfaces.Count() == 0 && !m.shuttingDown {
		log.Debug().Msg("last surface closed, opening start page")
		if _, err := m.CreateSurface(ctx, url.StartSentinel); err != nil {
			log.Error().Err(err).Msg("failed to replace last surface")
		}
	}
}

// Shutdown releases every surface without replacing them.
func (m *TabManager) Shutdown(ctx context.Context) {
	m.shuttingDown = true
	m.analysis.Destroy()

	if view := m.views[m.displayed]; view != nil {
		m.detach(ctx, view)
	}
	for _, id := range m.surfaces.IDs() {
		if view := m.views[id]; view != nil {
			view.Destroy()
		}
		delete(m.views, id)
		m.surfaces.Remove(id)
	}
	logging.FromContext(ctx).Debug().Msg("tab manager shut down")
}

// SurfaceInfo is a read-only view of one surface.
type SurfaceInfo struct {
	ID        entity.SurfaceID `json:"id"`
	URL       string           `json:"url"`
	Title     string           `json:"title"`
	StartPage bool             `json:"startPage"`
}

// Snapshot is a read-only view of the manager state.
type Snapshot struct {
	Surfaces  []SurfaceInfo        `json:"surfaces"`
	ActiveID  entity.SurfaceID     `json:"activeId"`
	Displayed entity.SurfaceID     `json:"displayed"`
	Metrics   entity.ChromeMetrics `json:"metrics"`
	Bounds    entity.Rect          `json:"bounds"`
}

// Snapshot returns the current state, surfaces in creation order.
func (m *TabManager) Snapshot() Snapshot {
	snap := Snapshot{
		Surfaces:  make([]SurfaceInfo, 0, m.surfaces.Count()),
		ActiveID:  m.surfaces.ActiveID,
		Displayed: m.displayed,
		Metrics:   m.metrics,
		Bounds:    m.bounds(),
	}
	for _, s := range m.surfaces.Surfaces {
		snap.Surfaces = append(snap.Surfaces, SurfaceInfo{
			ID:        s.ID,
			URL:       displayURL(s),
			Title:     s.Title,
			StartPage: s.StartPage,
		})
	}
	return snap
}

// resolve maps id to a surface; zero means the active one.
func (m *TabManager) resolve(id entity.SurfaceID) (*entity.Surface, port.WebSurface) {
	if id == 0 {
		id = m.surfaces.ActiveID
	}
	s := m.surfaces.Find(id)
	if s == nil {
		return nil, nil
	}
	return s, m.views[id]
}

func displayURL(s *entity.Surface) string {
	if s.StartPage {
		return ""
	}
	return s.URL
}
