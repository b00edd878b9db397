package chromium

import (
	"context"
	"sync"

	"github.com/bnema/arkium/internal/application/port"
	"github.com/bnema/arkium/internal/domain/entity"
	"github.com/bnema/arkium/internal/logging"
)

// Window tracks the displayed page and the content area size. Chrome shows
// one page target in front at a time, so attaching brings it forward.
type Window struct {
	mu       sync.Mutex
	size     entity.Size
	attached entity.SurfaceID
}

var _ port.Window = (*Window)(nil)

// NewWindow creates a window with the given content size.
func NewWindow(size entity.Size) *Window {
	return &Window{size: size}
}

// Attach brings s to the front.
func (w *Window) Attach(ctx context.Context, s port.WebSurface) error {
	w.mu.Lock()
	w.attached = s.ID()
	w.mu.Unlock()

	if cs, ok := s.(*Surface); ok {
		return cs.bringToFront()
	}
	logging.FromContext(ctx).Debug().Uint64("surface_id", uint64(s.ID())).Msg("attach: foreign surface")
	return nil
}

// Detach forgets s when it is the attached surface.
func (w *Window) Detach(_ context.Context, s port.WebSurface) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.attached == s.ID() {
		w.attached = 0
	}
	return nil
}

// Attached returns the displayed surface, zero when none.
func (w *Window) Attached() entity.SurfaceID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.attached
}

// ContentSize returns the current content area size.
func (w *Window) ContentSize() entity.Size {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

// SetContentSize records a new content area size.
func (w *Window) SetContentSize(size entity.Size) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.size = size
}
