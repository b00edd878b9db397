package dispatcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/arkium/internal/application/port"
	"github.com/bnema/arkium/internal/application/usecase"
	"github.com/bnema/arkium/internal/domain/entity"
	"github.com/bnema/arkium/internal/logging"
	"github.com/bnema/arkium/internal/ui/coordinator"
)

// ErrUnknownCommand is returned for unrecognized command types.
var ErrUnknownCommand = errors.New("unknown command")

// Invoker runs fn on the main loop and waits for it.
type Invoker interface {
	Invoke(ctx context.Context, fn func()) error
}

// CommandDispatcher routes shell commands to the tab manager and use cases.
// Tab manager calls are serialized through the main loop.
type CommandDispatcher struct {
	loop      Invoker
	tabs      *coordinator.TabManager
	history   *usecase.ManageHistoryUseCase
	assistant *usecase.AssistantUseCase
	sink      port.EventSink
	spawn     func(func())
}

// Config carries CommandDispatcher dependencies.
type Config struct {
	Loop      Invoker
	Tabs      *coordinator.TabManager
	History   *usecase.ManageHistoryUseCase
	Assistant *usecase.AssistantUseCase
	// Sink receives assistant-reply events.
	Sink port.EventSink
	// Spawn runs background work. Defaults to a new goroutine.
	Spawn func(func())
}

// NewCommandDispatcher creates a new CommandDispatcher.
func NewCommandDispatcher(ctx context.Context, cfg Config) *CommandDispatcher {
	logging.FromContext(ctx).Debug().Msg("creating command dispatcher")

	spawn := cfg.Spawn
	if spawn == nil {
		spawn = func(fn func()) { go fn() }
	}
	return &CommandDispatcher{
		loop:      cfg.Loop,
		tabs:      cfg.Tabs,
		history:   cfg.History,
		assistant: cfg.Assistant,
		sink:      cfg.Sink,
		spawn:     spawn,
	}
}

// Dispatch handles one command and returns its reply. Failures are
// reported in the reply, never as a panic.
func (d *CommandDispatcher) Dispatch(ctx context.Context, cmd Command) Reply {
	log := logging.FromContext(ctx)
	log.Debug().Str("command", cmd.Type).Uint64("surface_id", uint64(cmd.SurfaceID)).Msg("dispatching command")

	reply, err := d.dispatch(ctx, cmd)
	if err != nil {
		log.Debug().Err(err).Str("command", cmd.Type).Msg("command failed")
		return failed(err)
	}
	reply.OK = true
	return reply
}

func (d *CommandDispatcher) dispatch(ctx context.Context, cmd Command) (Reply, error) {
	switch cmd.Type {
	// Surfaces
	case CmdCreateSurface:
		var (
			id  entity.SurfaceID
			err error
		)
		if ierr := d.onLoop(ctx, func() { id, err = d.tabs.CreateSurface(ctx, cmd.InitialLocation) }); ierr != nil {
			return Reply{}, ierr
		}
		return Reply{ID: id}, err
	case CmdSwitchSurface:
		return Reply{}, d.onLoop(ctx, func() { d.tabs.SwitchActive(ctx, cmd.SurfaceID) })
	case CmdCloseSurface:
		return Reply{}, d.onLoop(ctx, func() { d.tabs.CloseSurface(ctx, cmd.SurfaceID) })

	// Navigation
	case CmdNavigate:
		return Reply{}, d.onLoop(ctx, func() { d.tabs.Navigate(ctx, cmd.SurfaceID, cmd.Location) })
	case CmdGoBack:
		return Reply{}, d.onLoop(ctx, func() { d.tabs.GoBack(ctx, cmd.SurfaceID) })
	case CmdGoForward:
		return Reply{}, d.onLoop(ctx, func() { d.tabs.GoForward(ctx, cmd.SurfaceID) })
	case CmdReload:
		return Reply{}, d.onLoop(ctx, func() { d.tabs.Reload(ctx, cmd.SurfaceID) })
	case CmdStop:
		return Reply{}, d.onLoop(ctx, func() { d.tabs.Stop(ctx, cmd.SurfaceID) })
	case CmdGoHome:
		return Reply{}, d.onLoop(ctx, func() { d.tabs.GoHome(ctx, cmd.SurfaceID) })

	// Layout
	case CmdReportChromeMetrics:
		update := cmd.metricsUpdate()
		return Reply{}, d.onLoop(ctx, func() { d.tabs.ReportChromeMetrics(ctx, update) })
	case CmdResize:
		size := entity.Size{Width: cmd.Width, Height: cmd.Height}
		return Reply{}, d.onLoop(ctx, func() { d.tabs.Resize(ctx, size) })

	// Theme and start page
	case CmdRequestThemeAnalysis:
		var started bool
		if err := d.onLoop(ctx, func() { started = d.tabs.RequestThemeAnalysis(ctx) }); err != nil {
			return Reply{}, err
		}
		if !started {
			return Reply{}, coordinator.ErrNoActiveSurface
		}
		return Reply{}, nil
	case CmdSetStartPageTheme:
		return Reply{}, d.onLoop(ctx, func() { d.tabs.ApplyStartPageTheme(ctx, cmd.startPageTheme()) })
	case CmdFocusStartPageSearch:
		return Reply{}, d.onLoop(ctx, func() { d.tabs.FocusStartPageSearch(ctx) })
	case CmdExtractPageText:
		return d.extractPageText(ctx)
	case CmdGetState:
		var snap coordinator.Snapshot
		if err := d.onLoop(ctx, func() { snap = d.tabs.Snapshot() }); err != nil {
			return Reply{}, err
		}
		return Reply{State: &snap}, nil

	// History
	case CmdGetHistory:
		return Reply{Items: d.history.List()}, nil
	case CmdClearHistory:
		d.history.Clear(ctx)
		return Reply{}, nil
	case CmdDeleteHistoryItem:
		_, err := d.history.Delete(ctx, entity.HistoryMatcher{Timestamp: cmd.Timestamp, URL: cmd.URL})
		return Reply{}, err

	// Assistant
	case CmdAssistantAsk:
		return d.ask(ctx, cmd)
	case CmdGetKeyStatus:
		status := d.assistant.Status(ctx)
		return Reply{KeyStatus: &status}, nil
	case CmdSaveKey:
		last4, err := d.assistant.SaveKey(ctx, cmd.Key)
		if err != nil {
			return Reply{}, err
		}
		return Reply{KeyStatus: &usecase.KeyStatus{Exists: true, Last4: last4}}, nil
	case CmdTestKey:
		return Reply{}, d.assistant.TestKey(ctx, cmd.Key)
	}
	return Reply{}, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
}

func (d *CommandDispatcher) onLoop(ctx context.Context, fn func()) error {
	return d.loop.Invoke(ctx, fn)
}

// ask answers on the event stream. The reply only acknowledges the request.
func (d *CommandDispatcher) ask(ctx context.Context, cmd Command) (Reply, error) {
	if cmd.RequestID == "" {
		return Reply{}, errors.New("assistant-ask requires an id")
	}
	actx := context.WithoutCancel(ctx)
	d.spawn(func() {
		d.sink.Publish(d.assistant.Ask(actx, cmd.RequestID, cmd.Messages))
	})
	return Reply{}, nil
}

func (d *CommandDispatcher) extractPageText(ctx context.Context) (Reply, error) {
	type result struct {
		page coordinator.PageText
		err  error
	}
	ch := make(chan result, 1)
	err := d.onLoop(ctx, func() {
		d.tabs.ExtractPageText(ctx, func(p coordinator.PageText, err error) {
			ch <- result{p, err}
		})
	})
	if err != nil {
		return Reply{}, err
	}
	select {
	case r := <-ch:
		if r.err != nil {
			return Reply{}, r.err
		}
		return Reply{PageText: &r.page}, nil
	case <-ctx.Done():
		return Reply{}, ctx.Err()
	}
}
