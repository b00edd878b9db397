// Package chromium implements the web engine ports on top of a Chrome or
// Chromium process driven through the DevTools protocol.
package chromium

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/bnema/arkium/internal/application/port"
	"github.com/bnema/arkium/internal/domain/entity"
	"github.com/bnema/arkium/internal/logging"
)

const (
	startTimeout  = 30 * time.Second
	createTimeout = 15 * time.Second
)

// ErrClosed is returned when a surface is requested after Close.
var ErrClosed = errors.New("engine closed")

// Options configures the browser process.
type Options struct {
	// ExecPath overrides Chrome discovery.
	ExecPath string
	// RemoteURL attaches to an already running browser over its DevTools
	// websocket instead of launching one.
	RemoteURL  string
	ProfileDir string
	Headless   bool
	ExtraFlags []string
	WindowSize entity.Size
	// StartPageDir receives the bundled start document.
	StartPageDir string
	// Agent serves autofill. Nil disables it.
	Agent port.CredentialAgent
}

// Engine owns the browser process. Each surface is a page target of it.
type Engine struct {
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	startURL string
	agent    port.CredentialAgent
	ctx      context.Context

	mu       sync.Mutex
	surfaces map[entity.SurfaceID]*Surface
	closed   bool
}

var _ port.WebEngine = (*Engine)(nil)

// NewEngine materializes the start page and launches (or attaches to) the
// browser. ctx carries the logger; the browser outlives it until Close.
func NewEngine(ctx context.Context, opts Options) (*Engine, error) {
	log := logging.FromContext(ctx)

	startURL, err := WriteStartPage(opts.StartPageDir)
	if err != nil {
		return nil, err
	}

	allocCtx, allocCancel := newAllocator(ctx, opts)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	e := &Engine{
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		startURL:      startURL,
		agent:         opts.Agent,
		ctx:           logging.WithComponent(ctx, "chromium"),
		surfaces:      make(map[entity.SurfaceID]*Surface),
	}

	if err := runDetached(browserCtx, startTimeout); err != nil {
		e.Close()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	log.Info().
		Bool("remote", opts.RemoteURL != "").
		Bool("headless", opts.Headless).
		Str("profile", opts.ProfileDir).
		Msg("browser started")
	return e, nil
}

func newAllocator(ctx context.Context, opts Options) (context.Context, context.CancelFunc) {
	// The allocator must not inherit cancellation from a request context.
	base := context.WithoutCancel(ctx)
	if opts.RemoteURL != "" {
		return chromedp.NewRemoteAllocator(base, opts.RemoteURL)
	}
	return chromedp.NewExecAllocator(base, allocatorOptions(opts)...)
}

// allocatorOptions assembles the flags for a local browser.
func allocatorOptions(opts Options) []chromedp.ExecAllocatorOption {
	out := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-session-crashed-bubble", true),
		chromedp.Flag("hide-crash-restore-bubble", true),
		chromedp.Flag("disable-background-timer-throttling", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("exclude-switches", "enable-automation"),
	}
	if opts.ProfileDir != "" {
		out = append(out, chromedp.UserDataDir(opts.ProfileDir))
	}
	if opts.WindowSize.Width > 0 && opts.WindowSize.Height > 0 {
		out = append(out, chromedp.WindowSize(opts.WindowSize.Width, opts.WindowSize.Height))
	}
	if opts.ExecPath != "" {
		out = append(out, chromedp.ExecPath(opts.ExecPath))
	}
	for _, f := range opts.ExtraFlags {
		out = append(out, parseFlag(f))
	}
	if opts.Headless {
		out = append(out, chromedp.Headless)
	} else {
		out = append(out, chromedp.Flag("headless", false))
	}
	return out
}

// parseFlag turns "--name=value" or "--name" into an allocator flag.
func parseFlag(f string) chromedp.ExecAllocatorOption {
	f = strings.TrimLeft(strings.TrimSpace(f), "-")
	if k, v, ok := strings.Cut(f, "="); ok {
		return chromedp.Flag(k, v)
	}
	return chromedp.Flag(f, true)
}

// runDetached runs actions on a fresh chromedp context. The first Run binds
// the target lifetime to its context, so the timeout is applied around the
// call instead of to the context itself.
func runDetached(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- chromedp.Run(ctx, actions...)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case err := <-errCh:
		return err
	case <-timer.C:
		return fmt.Errorf("timed out after %s", timeout)
	}
}

// StartPageURL returns the file URL of the materialized start document.
func (e *Engine) StartPageURL() string {
	return e.startURL
}

// CreateSurface opens a new page target with the agent script installed.
func (e *Engine) CreateSurface(ctx context.Context, id entity.SurfaceID, handler port.LifecycleHandler) (port.WebSurface, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrClosed
	}
	e.mu.Unlock()

	tabCtx, cancel := chromedp.NewContext(e.browserCtx)
	s := newSurface(logging.WithSurfaceID(e.ctx, uint64(id)), id, tabCtx, cancel, handler, e.agent)
	s.release = func() { e.forget(id) }
	s.listen()

	if err := runDetached(tabCtx, createTimeout, s.setupActions()...); err != nil {
		cancel()
		return nil, err
	}
	s.start()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		s.Destroy()
		return nil, ErrClosed
	}
	e.surfaces[id] = s
	e.mu.Unlock()

	logging.FromContext(ctx).Debug().
		Str("target", s.targetID()).
		Msg("page target created")
	return s, nil
}

// Close destroys every surface and stops the browser. Attached remote
// browsers are left running.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	surfaces := make([]*Surface, 0, len(e.surfaces))
	for _, s := range e.surfaces {
		surfaces = append(surfaces, s)
	}
	e.surfaces = nil
	e.mu.Unlock()

	for _, s := range surfaces {
		s.Destroy()
	}
	if err := chromedp.Cancel(e.browserCtx); err != nil && !errors.Is(err, context.Canceled) {
		logging.FromContext(e.ctx).Debug().Err(err).Msg("browser close")
	}
	e.browserCancel()
	e.allocCancel()
}

func (e *Engine) forget(id entity.SurfaceID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.surfaces, id)
}
