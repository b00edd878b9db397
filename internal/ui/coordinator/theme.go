package coordinator

import (
	"context"
	"time"

	"github.com/bnema/arkium/assets"
	"github.com/bnema/arkium/internal/application/port"
	"github.com/bnema/arkium/internal/domain/entity"
	"github.com/bnema/arkium/internal/domain/theme"
	"github.com/bnema/arkium/internal/logging"
)

// probeTimeout bounds a single page probe. It does not bound page loads.
const probeTimeout = 10 * time.Second

// RequestThemeAnalysis analyzes the active surface. It reports false when
// no surface is active.
func (m *TabManager) RequestThemeAnalysis(ctx context.Context) bool {
	active := m.surfaces.Active()
	if active == nil {
		logging.FromContext(ctx).Debug().Msg("theme analysis requested without active surface")
		return false
	}
	m.requestAnalysis(active.ID)
	return true
}

// requestAnalysis probes id off the loop and publishes theme-suggested
// back on it. The result is always published; consumers compare the id
// against their current active surface. Requests for a surface whose
// probe has not started yet are merged.
func (m *TabManager) requestAnalysis(id entity.SurfaceID) {
	s, view := m.resolve(id)
	if view == nil {
		return
	}
	activeAtRequest := m.surfaces.ActiveID
	fallbackURL := s.URL
	if s.StartPage || fallbackURL == "" {
		fallbackURL = m.engine.StartPageURL()
	}
	ctx := logging.WithSurfaceID(m.ctx, uint64(id))

	m.analysis.Post(id, func() {
		probe := m.probe(ctx, view)
		if probe.URL == "" {
			probe.URL = fallbackURL
		}
		pair := theme.Analyze(probe)

		m.post(func() {
			m.sink.Publish(port.ThemeSuggested{
				ID:              id,
				Background:      pair.Background,
				Foreground:      pair.Foreground,
				ActiveAtRequest: activeAtRequest,
			})
		})
	})
}

func (m *TabManager) probe(ctx context.Context, view port.WebSurface) theme.Probe {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	var probe theme.Probe
	if err := view.Evaluate(ctx, assets.ProbeScript, &probe); err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("page probe failed, using defaults")
		return theme.Probe{}
	}
	return probe
}
