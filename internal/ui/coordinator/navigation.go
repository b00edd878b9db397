package coordinator

import (
	"context"
	"strings"

	"github.com/bnema/arkium/internal/application/port"
	"github.com/bnema/arkium/internal/domain/entity"
	"github.com/bnema/arkium/internal/domain/url"
	"github.com/bnema/arkium/internal/logging"
)

// Navigate loads location into id, or into the active surface when id is
// zero. "start:" or "start" loads the start document; other locations
// without an http(s) scheme get https://.
func (m *TabManager) Navigate(ctx context.Context, id entity.SurfaceID, location string) {
	log := logging.FromContext(ctx)

	location = strings.TrimSpace(location)
	if location == "" {
		return
	}
	s, view := m.resolve(id)
	if view == nil {
		log.Debug().Uint64("surface_id", uint64(id)).Msg("navigate: unknown surface")
		return
	}

	target := url.Resolve(location, m.engine.StartPageURL())
	log.Debug().
		Uint64("surface_id", uint64(s.ID)).
		Str("url", logging.TruncateURL(target, 80)).
		Msg("navigating")
	if err := view.LoadURL(ctx, target); err != nil {
		log.Warn().Err(err).Msg("navigation failed")
	}
}

// GoHome loads the start document.
func (m *TabManager) GoHome(ctx context.Context, id entity.SurfaceID) {
	m.Navigate(ctx, id, url.StartSentinel)
}

// GoBack navigates back when the surface has history.
func (m *TabManager) GoBack(ctx context.Context, id entity.SurfaceID) {
	m.control(ctx, id, "back", port.WebSurface.GoBack)
}

// GoForward navigates forward when the surface has history.
func (m *TabManager) GoForward(ctx context.Context, id entity.SurfaceID) {
	m.control(ctx, id, "forward", port.WebSurface.GoForward)
}

// Reload reloads the surface.
func (m *TabManager) Reload(ctx context.Context, id entity.SurfaceID) {
	m.control(ctx, id, "reload", port.WebSurface.Reload)
}

// Stop stops the current load.
func (m *TabManager) Stop(ctx context.Context, id entity.SurfaceID) {
	m.control(ctx, id, "stop", port.WebSurface.Stop)
}

func (m *TabManager) control(ctx context.Context, id entity.SurfaceID, name string, fn func(port.WebSurface, context.Context) error) {
	log := logging.FromContext(ctx)
	_, view := m.resolve(id)
	if view == nil {
		log.Debug().Uint64("surface_id", uint64(id)).Str("action", name).Msg("unknown surface")
		return
	}
	if err := fn(view, ctx); err != nil {
		log.Debug().Err(err).Str("action", name).Msg("navigation control unavailable")
	}
}

// lifecycleHandler forwards engine events onto the main loop. The loop is
// FIFO, so per-surface emission order is kept.
func (m *TabManager) lifecycleHandler() port.LifecycleHandler {
	return func(ev port.LifecycleEvent) {
		m.post(func() { m.handleLifecycle(ev) })
	}
}

func (m *TabManager) handleLifecycle(ev port.LifecycleEvent) {
	ctx := logging.WithSurfaceID(m.ctx, uint64(ev.Surface))
	log := logging.FromContext(ctx)

	s := m.surfaces.Find(ev.Surface)
	if s == nil {
		log.Debug().Str("kind", ev.Kind.String()).Msg("event for closed surface dropped")
		return
	}
	if last := m.lastSeq[ev.Surface]; ev.Seq != 0 && ev.Seq <= last {
		log.Debug().Uint64("seq", ev.Seq).Uint64("last", last).Msg("out-of-order event dropped")
		return
	}
	if ev.Seq != 0 {
		m.lastSeq[ev.Surface] = ev.Seq
	}

	switch ev.Kind {
	case port.LifecycleNavigated:
		m.setLocation(s, ev.URL)
		if ev.Title != "" {
			s.Title = ev.Title
		}
	case port.LifecycleTitleChanged:
		s.Title = ev.Title
	case port.LifecycleLoadFinished:
		m.setLocation(s, ev.URL)
		if ev.Title != "" {
			s.Title = ev.Title
		}
	}

	m.sink.Publish(port.SurfaceUpdated{ID: s.ID, Title: s.Title, URL: displayURL(s)})

	if ev.Kind == port.LifecycleLoadFinished {
		log.Debug().Str("url", logging.TruncateURL(s.URL, 80)).Msg("load finished")
		if m.history != nil {
			m.history.Record(ctx, s.URL, s.Title)
		}
		m.requestAnalysis(s.ID)
	}
}

func (m *TabManager) setLocation(s *entity.Surface, u string) {
	if u == "" {
		return
	}
	s.URL = u
	s.StartPage = url.IsStartPage(u)
}
