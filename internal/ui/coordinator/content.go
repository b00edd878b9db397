package coordinator

import (
	"context"

	"github.com/bnema/arkium/internal/application/port"
	"github.com/bnema/arkium/internal/domain/entity"
	"github.com/bnema/arkium/internal/logging"
)

// display makes id the displayed surface: detach the current one, attach
// the target, apply bounds. Two surfaces are never attached at once.
func (m *TabManager) display(ctx context.Context, id entity.SurfaceID) {
	log := logging.FromContext(ctx)

	if m.displayed == id {
		m.applyBounds(ctx)
		return
	}
	if prev := m.views[m.displayed]; prev != nil {
		m.detach(ctx, prev)
	}

	view := m.views[id]
	if view == nil {
		return
	}
	if err := m.window.Attach(ctx, view); err != nil {
		log.Warn().Err(err).Uint64("surface_id", uint64(id)).Msg("attach failed")
	}
	m.displayed = id
	m.applyBounds(ctx)
}

func (m *TabManager) detach(ctx context.Context, view port.WebSurface) {
	if err := m.window.Detach(ctx, view); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Uint64("surface_id", uint64(view.ID())).Msg("detach failed")
	}
	m.displayed = 0
}

// ReportChromeMetrics merges the present edges and re-applies bounds.
func (m *TabManager) ReportChromeMetrics(ctx context.Context, update entity.ChromeMetricsUpdate) {
	m.metrics = m.metrics.Merge(update)
	logging.FromContext(ctx).Debug().
		Int("top", m.metrics.Top).
		Int("left", m.metrics.Left).
		Int("right", m.metrics.Right).
		Int("bottom", m.metrics.Bottom).
		Msg("chrome metrics updated")
	m.applyBounds(ctx)
}

// Resize records a new window content size and re-applies bounds.
func (m *TabManager) Resize(ctx context.Context, size entity.Size) {
	m.size = entity.Size{Width: max(0, size.Width), Height: max(0, size.Height)}
	m.sized = true
	m.applyBounds(ctx)
}

// SetFrameBorder changes the inset around the displayed surface.
func (m *TabManager) SetFrameBorder(ctx context.Context, border int) {
	m.border = max(0, border)
	m.applyBounds(ctx)
}

// Metrics returns the retained chrome metrics.
func (m *TabManager) Metrics() entity.ChromeMetrics {
	return m.metrics
}

func (m *TabManager) contentSize() entity.Size {
	if m.sized || m.window == nil {
		return m.size
	}
	return m.window.ContentSize()
}

func (m *TabManager) bounds() entity.Rect {
	return m.metrics.Bounds(m.contentSize(), m.border)
}

func (m *TabManager) applyBounds(ctx context.Context) {
	view := m.views[m.displayed]
	if view == nil {
		return
	}
	rect := m.bounds()
	if err := view.SetBounds(ctx, rect); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("failed to apply bounds")
	}
}
