package chromium

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/bnema/arkium/assets"
	"github.com/bnema/arkium/internal/application/port"
	"github.com/bnema/arkium/internal/domain/credential"
	"github.com/bnema/arkium/internal/domain/entity"
	"github.com/bnema/arkium/internal/logging"
)

const (
	queueDepth     = 64
	commandTimeout = 10 * time.Second
	navTimeout     = 2 * time.Minute
)

// Surface is one page target.
//
// Commands that change page state are queued and run in order on a worker
// goroutine so callers on the main loop never wait on the browser.
type Surface struct {
	id      entity.SurfaceID
	ctx     context.Context
	cancel  context.CancelFunc
	handler port.LifecycleHandler
	agent   port.CredentialAgent
	logCtx  context.Context
	release func()

	seq atomic.Uint64

	queue chan func(context.Context)
	stop  chan struct{}

	navMu     sync.Mutex
	navCancel context.CancelFunc

	// Touched only by the target listener goroutine.
	mainFrame cdp.FrameID
	url       string
	title     string

	destroyOnce sync.Once
}

var _ port.WebSurface = (*Surface)(nil)

func newSurface(logCtx context.Context, id entity.SurfaceID, ctx context.Context, cancel context.CancelFunc, handler port.LifecycleHandler, agent port.CredentialAgent) *Surface {
	if handler == nil {
		handler = func(port.LifecycleEvent) {}
	}
	return &Surface{
		id:      id,
		ctx:     ctx,
		cancel:  cancel,
		handler: handler,
		agent:   agent,
		logCtx:  logCtx,
		release: func() {},
		queue:   make(chan func(context.Context), queueDepth),
		stop:    make(chan struct{}),
	}
}

// ID returns the identifier assigned at creation.
func (s *Surface) ID() entity.SurfaceID { return s.id }

func (s *Surface) targetID() string {
	if c := chromedp.FromContext(s.ctx); c != nil && c.Target != nil {
		return string(c.Target.TargetID)
	}
	return ""
}

func (s *Surface) setupActions() []chromedp.Action {
	return []chromedp.Action{
		chromedp.ActionFunc(func(ctx context.Context) error {
			return runtime.AddBinding(assets.AgentBinding).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(assets.AgentScript).Do(ctx)
			return err
		}),
	}
}

func (s *Surface) start() {
	go s.work()
}

func (s *Surface) work() {
	for {
		select {
		case <-s.stop:
			return
		case fn := <-s.queue:
			fn(s.ctx)
		}
	}
}

// enqueue schedules fn on the worker. A full queue drops the command.
func (s *Surface) enqueue(name string, fn func(context.Context)) error {
	select {
	case <-s.stop:
		return ErrClosed
	default:
	}
	select {
	case s.queue <- fn:
		return nil
	default:
		logging.FromContext(s.logCtx).Warn().Str("command", name).Msg("surface command queue full, dropping")
		return errors.New("surface busy")
	}
}

// navigate runs action with its own deadline. A newer navigation cancels
// the wait of the previous one; the browser itself replaces the load.
func (s *Surface) navigate(name string, action chromedp.Action) error {
	return s.enqueue(name, func(ctx context.Context) {
		navCtx, cancel := context.WithTimeout(ctx, navTimeout)
		s.navMu.Lock()
		if s.navCancel != nil {
			s.navCancel()
		}
		s.navCancel = cancel
		s.navMu.Unlock()

		go func() {
			defer cancel()
			if err := chromedp.Run(navCtx, action); err != nil && !errors.Is(err, context.Canceled) {
				logging.FromContext(s.logCtx).Debug().Err(err).Str("action", name).Msg("navigation did not complete")
			}
		}()
	})
}

// LoadURL starts loading url.
func (s *Surface) LoadURL(_ context.Context, url string) error {
	return s.navigate("load", chromedp.Navigate(url))
}

// GoBack navigates back when a previous entry exists.
func (s *Surface) GoBack(context.Context) error {
	return s.navigate("back", chromedp.NavigateBack())
}

// GoForward navigates forward when a next entry exists.
func (s *Surface) GoForward(context.Context) error {
	return s.navigate("forward", chromedp.NavigateForward())
}

// Reload reloads the page.
func (s *Surface) Reload(context.Context) error {
	return s.navigate("reload", chromedp.Reload())
}

// Stop stops the current load.
func (s *Surface) Stop(context.Context) error {
	return s.enqueue("stop", func(ctx context.Context) {
		s.navMu.Lock()
		if s.navCancel != nil {
			s.navCancel()
			s.navCancel = nil
		}
		s.navMu.Unlock()
		s.runQuick(ctx, "stop", chromedp.Stop())
	})
}

// SetBounds sizes the page viewport.
func (s *Surface) SetBounds(_ context.Context, rect entity.Rect) error {
	if rect.Width <= 0 || rect.Height <= 0 {
		return nil
	}
	return s.enqueue("bounds", func(ctx context.Context) {
		s.runQuick(ctx, "bounds", chromedp.ActionFunc(func(ctx context.Context) error {
			return emulation.SetDeviceMetricsOverride(int64(rect.Width), int64(rect.Height), 1, false).Do(ctx)
		}))
	})
}

func (s *Surface) bringToFront() error {
	return s.enqueue("front", func(ctx context.Context) {
		s.runQuick(ctx, "front", chromedp.ActionFunc(func(ctx context.Context) error {
			return page.BringToFront().Do(ctx)
		}))
	})
}

func (s *Surface) runQuick(ctx context.Context, name string, action chromedp.Action) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	if err := chromedp.Run(ctx, action); err != nil {
		logging.FromContext(s.logCtx).Debug().Err(err).Str("action", name).Msg("page command failed")
	}
}

// Evaluate runs script and decodes its result into out. It blocks and must
// not be called from the main loop. A nil out discards the result.
func (s *Surface) Evaluate(ctx context.Context, script string, out any) error {
	select {
	case <-s.stop:
		return ErrClosed
	default:
	}
	// Bind the call to the target while honoring the caller's deadline.
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, chromedp.Evaluate(script, out)); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// Destroy closes the page target. It is safe to call twice.
func (s *Surface) Destroy() {
	s.destroyOnce.Do(func() {
		close(s.stop)
		s.navMu.Lock()
		if s.navCancel != nil {
			s.navCancel()
		}
		s.navMu.Unlock()
		if err := chromedp.Cancel(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
			logging.FromContext(s.logCtx).Debug().Err(err).Msg("page close")
		}
		s.cancel()
		s.release()
	})
}

func (s *Surface) emit(kind port.LifecycleKind) {
	s.handler(port.LifecycleEvent{
		Surface: s.id,
		Seq:     s.seq.Add(1),
		Kind:    kind,
		URL:     s.url,
		Title:   s.title,
	})
}

// listen registers the target listener. It must run before the first Run so
// events from the initial document are not missed.
func (s *Surface) listen() {
	chromedp.ListenTarget(s.ctx, func(ev any) {
		switch ev := ev.(type) {
		case *page.EventFrameNavigated:
			if ev.Frame == nil || ev.Frame.ParentID != "" {
				return
			}
			s.mainFrame = ev.Frame.ID
			s.url = ev.Frame.URL + ev.Frame.URLFragment
			s.emit(port.LifecycleNavigated)
		case *page.EventNavigatedWithinDocument:
			if s.mainFrame != "" && ev.FrameID != s.mainFrame {
				return
			}
			s.url = ev.URL
			s.emit(port.LifecycleNavigated)
		case *page.EventLoadEventFired:
			s.emit(port.LifecycleLoadFinished)
		case *runtime.EventBindingCalled:
			if ev.Name == assets.AgentBinding {
				s.onAgentMessage(ev.Payload)
			}
		}
	})
}

// agentMessage is sent by the injected agent script.
type agentMessage struct {
	Kind  string            `json:"kind"`
	Title string            `json:"title"`
	Host  string            `json:"host"`
	Forms []credential.Form `json:"forms"`
}

func (s *Surface) onAgentMessage(payload string) {
	log := logging.FromContext(s.logCtx)

	var msg agentMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		log.Debug().Err(err).Msg("malformed agent message")
		return
	}

	switch msg.Kind {
	case "title":
		if msg.Title == s.title {
			return
		}
		s.title = msg.Title
		s.emit(port.LifecycleTitleChanged)
	case "forms":
		if s.agent == nil || msg.Host == "" || len(msg.Forms) == 0 {
			return
		}
		go s.fill(msg.Host, msg.Forms)
	case "submit":
		if s.agent == nil || msg.Host == "" || len(msg.Forms) == 0 {
			return
		}
		go func() {
			if err := s.agent.Capture(s.logCtx, msg.Host, msg.Forms[0]); err != nil {
				log.Warn().Err(err).Str("host", msg.Host).Msg("credential capture failed")
			}
		}()
	}
}

func (s *Surface) fill(host string, forms []credential.Form) {
	ctx, cancel := context.WithTimeout(s.logCtx, commandTimeout)
	defer cancel()

	plan, ok := s.agent.PlanFill(ctx, host, forms)
	if !ok {
		return
	}
	raw, err := json.Marshal(plan)
	if err != nil {
		return
	}
	var filled bool
	if err := s.Evaluate(ctx, "window.__arkiumFill("+string(raw)+")", &filled); err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("autofill failed")
		return
	}
	logging.FromContext(ctx).Debug().Str("host", host).Bool("filled", filled).Msg("autofill applied")
}
