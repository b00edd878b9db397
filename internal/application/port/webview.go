// Package port defines application-layer interfaces for external capabilities.
// Ports abstract infrastructure concerns, allowing the application layer to
// remain independent of the browser engine, storage and upstream APIs.
package port

import (
	"context"

	"github.com/bnema/arkium/internal/domain/entity"
)

// LifecycleKind classifies an engine notification.
type LifecycleKind int

const (
	// LifecycleNavigated indicates the main frame committed a new location,
	// including same-document navigations.
	LifecycleNavigated LifecycleKind = iota
	// LifecycleTitleChanged indicates the document title changed.
	LifecycleTitleChanged
	// LifecycleLoadFinished indicates the page has fully loaded.
	LifecycleLoadFinished
)

// String returns a human-readable representation of the lifecycle kind.
func (k LifecycleKind) String() string {
	switch k {
	case LifecycleNavigated:
		return "navigated"
	case LifecycleTitleChanged:
		return "title-changed"
	case LifecycleLoadFinished:
		return "load-finished"
	default:
		return "unknown"
	}
}

// LifecycleEvent is a typed engine notification tagged with its surface.
// Seq increases monotonically per surface in emission order.
type LifecycleEvent struct {
	Surface entity.SurfaceID
	Seq     uint64
	Kind    LifecycleKind
	URL     string
	Title   string
}

// LifecycleHandler receives engine notifications. Implementations must not
// block; the engine calls it from its own goroutines.
type LifecycleHandler func(LifecycleEvent)

// WebSurface is one isolated rendering context.
//
// Navigation methods return once the command is dispatched; completion is
// reported through LifecycleLoadFinished.
type WebSurface interface {
	// ID returns the identifier assigned at creation.
	ID() entity.SurfaceID

	// LoadURL navigates to an already resolved URL.
	LoadURL(ctx context.Context, url string) error

	// GoBack navigates back in history when possible.
	GoBack(ctx context.Context) error

	// GoForward navigates forward in history when possible.
	GoForward(ctx context.Context) error

	// Reload reloads the current page.
	Reload(ctx context.Context) error

	// Stop stops the current page load.
	Stop(ctx context.Context) error

	// Evaluate runs script in the page and decodes its JSON result into out.
	Evaluate(ctx context.Context, script string, out any) error

	// SetBounds applies the surface rectangle.
	SetBounds(ctx context.Context, rect entity.Rect) error

	// Destroy releases the rendering context. It is safe to call twice.
	Destroy()
}

// WebEngine creates surfaces.
type WebEngine interface {
	// CreateSurface allocates a blank surface. Lifecycle events for it are
	// delivered to handler until it is destroyed.
	CreateSurface(ctx context.Context, id entity.SurfaceID, handler LifecycleHandler) (WebSurface, error)

	// StartPageURL returns the URL of the bundled start document.
	StartPageURL() string
}

// Window owns the single displayed-surface slot.
type Window interface {
	// Attach displays s. The caller detaches the previous surface first.
	Attach(ctx context.Context, s WebSurface) error

	// Detach removes s from display.
	Detach(ctx context.Context, s WebSurface) error

	// ContentSize returns the current content area size.
	ContentSize() entity.Size
}
