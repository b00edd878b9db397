package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/arkium/internal/application/port"
	"github.com/bnema/arkium/internal/application/usecase"
	"github.com/bnema/arkium/internal/cli/model"
	"github.com/bnema/arkium/internal/domain/build"
	"github.com/bnema/arkium/internal/domain/entity"
	"github.com/bnema/arkium/internal/infrastructure/assistant"
	"github.com/bnema/arkium/internal/infrastructure/chromium"
	"github.com/bnema/arkium/internal/infrastructure/config"
	"github.com/bnema/arkium/internal/infrastructure/control"
	"github.com/bnema/arkium/internal/infrastructure/persistence/jsonfile"
	"github.com/bnema/arkium/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/arkium/internal/infrastructure/xdg"
	"github.com/bnema/arkium/internal/logging"
	"github.com/bnema/arkium/internal/ui/coordinator"
	"github.com/bnema/arkium/internal/ui/dispatcher"
	"github.com/bnema/arkium/internal/ui/eventbus"
	"github.com/bnema/arkium/internal/ui/mainloop"
)

const (
	eventBusDepth   = 256
	shutdownTimeout = 5 * time.Second
)

// BrowseOptions configures one browser session.
type BrowseOptions struct {
	// InitialURL is loaded in the first surface. Empty opens the start page.
	InitialURL string
	BuildInfo  build.Info
}

// session is everything a running browser owns.
type session struct {
	cfg      *config.Config
	configs  *config.Manager
	stateDir string

	bus     *eventbus.Bus
	loop    *mainloop.Loop
	engine  *chromium.Engine
	tabs    *coordinator.TabManager
	disp    *dispatcher.CommandDispatcher
	control *control.Server
	vault   *sqlite.LazyDB
}

// Browse starts the browser and the terminal shell and blocks until the
// user quits or ctx is canceled.
func Browse(ctx context.Context, opts BrowseOptions) error {
	timer := NewStartupTimer()

	configs, cfg := loadConfig()
	timer.Mark("config")

	// The terminal belongs to the shell, so logs only go to a file.
	logger, logCloser := newSessionLogger(cfg)
	defer logCloser.Close()
	ctx = logging.WithContext(ctx, logger)
	log := logging.FromContext(ctx)
	log.Info().Str("version", opts.BuildInfo.Version).Msg("starting arkium")

	paths := xdg.New()
	stateDir, err := paths.StateDir()
	if err != nil {
		return fmt.Errorf("resolve state dir: %w", err)
	}
	profileDir, err := paths.ProfileDir()
	if err != nil {
		return fmt.Errorf("resolve profile dir: %w", err)
	}

	lock, err := AcquireProfileLock(stateDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			log.Warn().Err(err).Msg("release profile lock")
		}
	}()

	if previousExitWasAbrupt(stateDir) {
		log.Warn().Msg("previous session did not shut down cleanly")
		recoverProfile(profileDir, log)
	}
	if err := writeStartupMarker(stateDir, time.Now()); err != nil {
		log.Warn().Err(err).Msg("write startup marker")
	}
	defer func() {
		if err := writeShutdownMarker(stateDir, time.Now()); err != nil {
			log.Warn().Err(err).Msg("write shutdown marker")
		}
	}()
	timer.Mark("profile")

	s, err := assemble(ctx, cfg, paths, profileDir)
	if err != nil {
		return err
	}
	s.configs = configs
	s.stateDir = stateDir
	defer s.close(ctx)
	timer.Mark("engine")
	timer.Log(ctx)

	return s.run(ctx, opts.InitialURL)
}

func loadConfig() (*config.Manager, *config.Config) {
	mgr, err := config.NewManager("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		return nil, config.DefaultConfig()
	}
	if err := mgr.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		return mgr, config.DefaultConfig()
	}
	return mgr, mgr.Get()
}

func newSessionLogger(cfg *config.Config) (zerolog.Logger, io.Closer) {
	level := cfg.Logging.Level
	if env := os.Getenv("ARKIUM_LOG_LEVEL"); env != "" {
		level = env
	}
	logDir := cfg.Logging.LogDir
	if logDir == "" {
		if dir, err := config.GetLogDir(); err == nil {
			logDir = dir
		}
	}
	return logging.New(logging.Config{
		Level:      logging.ParseLevel(level),
		Format:     cfg.Logging.Format,
		TimeFormat: time.RFC3339,
		FileDir:    logDir,
		NoStderr:   true,
	})
}

// assemble builds the stores, the engine and the components that drive it.
func assemble(ctx context.Context, cfg *config.Config, paths *xdg.Adapter, profileDir string) (*session, error) {
	log := logging.FromContext(ctx)

	dataDir, err := paths.DataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	historyPath, err := paths.DataFile(jsonfile.HistoryFileName)
	if err != nil {
		return nil, fmt.Errorf("resolve history file: %w", err)
	}
	secretsPath, err := paths.DataFile(jsonfile.SecretsFileName)
	if err != nil {
		return nil, fmt.Errorf("resolve secrets file: %w", err)
	}

	s := &session{
		cfg:  cfg,
		bus:  eventbus.New(ctx, eventBusDepth),
		loop: mainloop.New(),
	}

	historyUC := usecase.NewManageHistoryUseCase(jsonfile.NewHistoryRepository(historyPath), cfg.History.MaxEntries, s.bus)
	historyUC.Load(ctx)

	completer := assistant.NewClient(
		assistant.WithModel(cfg.Assistant.Model),
		assistant.WithBaseURL(cfg.Assistant.BaseURL),
		assistant.WithTemperature(cfg.Assistant.Temperature),
	)
	assistantUC := usecase.NewAssistantUseCase(jsonfile.NewSecretRepository(secretsPath), completer)

	agent := s.openVault(ctx, paths)

	size := entity.Size{Width: cfg.Window.Width, Height: cfg.Window.Height}
	engine, err := chromium.NewEngine(ctx, chromium.Options{
		ExecPath:     cfg.Engine.ExecPath,
		RemoteURL:    cfg.Engine.RemoteURL,
		ProfileDir:   profileDir,
		Headless:     cfg.Engine.Headless,
		ExtraFlags:   cfg.Engine.ExtraFlags,
		WindowSize:   size,
		StartPageDir: dataDir,
		Agent:        agent,
	})
	if err != nil {
		if s.vault != nil {
			_ = s.vault.Close()
		}
		return nil, fmt.Errorf("start browser engine: %w", err)
	}
	s.engine = engine

	s.tabs = coordinator.NewTabManager(ctx, coordinator.TabManagerConfig{
		History:     historyUC,
		Engine:      engine,
		Window:      chromium.NewWindow(size),
		Sink:        s.bus,
		Post:        s.loop.Post,
		Metrics:     cfg.Chrome.Metrics(),
		FrameBorder: cfg.Chrome.FrameBorder,
	})
	s.disp = dispatcher.NewCommandDispatcher(ctx, dispatcher.Config{
		Loop:      s.loop,
		Tabs:      s.tabs,
		History:   historyUC,
		Assistant: assistantUC,
		Sink:      s.bus,
	})
	if cfg.Control.ListenAddr != "" {
		s.control = control.NewServer(ctx, control.Config{
			ListenAddr: cfg.Control.ListenAddr,
			Dispatcher: s.disp,
			Events:     s.bus,
		})
	}

	log.Debug().Str("data_dir", dataDir).Str("profile_dir", profileDir).Msg("session assembled")
	return s, nil
}

// openVault prepares the credential store. Autofill is disabled when the
// vault key cannot be loaded; the database itself opens on first use.
func (s *session) openVault(ctx context.Context, paths *xdg.Adapter) port.CredentialAgent {
	log := logging.FromContext(ctx)

	keyPath, err := paths.DataFile(sqlite.VaultKeyFileName)
	if err != nil {
		log.Warn().Err(err).Msg("autofill disabled")
		return nil
	}
	dbPath, err := paths.DataFile(sqlite.VaultFileName)
	if err != nil {
		log.Warn().Err(err).Msg("autofill disabled")
		return nil
	}
	sealer, err := sqlite.LoadOrCreateSealer(keyPath)
	if err != nil {
		log.Warn().Err(err).Msg("autofill disabled")
		return nil
	}
	s.vault = sqlite.NewLazyDB(dbPath)
	return usecase.NewAutofillUseCase(sqlite.NewCredentialRepository(s.vault, sealer))
}

// run drives the main loop, the control channel and the shell until the
// shell exits or ctx is canceled.
func (s *session) run(ctx context.Context, initialURL string) error {
	log := logging.FromContext(ctx)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error { return s.loop.Run(gctx) })
	if s.control != nil {
		// The shell keeps working without the control channel.
		g.Go(func() error {
			if err := s.control.Serve(gctx); err != nil {
				log.Warn().Err(err).Msg("control channel unavailable")
			}
			return nil
		})
	}
	s.watchConfig(gctx)

	// Subscribe before the first surface exists so the shell sees it.
	events, unsubscribe := s.bus.Subscribe()
	program := tea.NewProgram(
		model.NewShellModel(gctx, s.disp, events),
		tea.WithAltScreen(),
		tea.WithContext(gctx),
	)

	g.Go(func() error {
		defer cancel()
		defer unsubscribe()

		reply := s.disp.Dispatch(gctx, dispatcher.Command{
			Type:            dispatcher.CmdCreateSurface,
			InitialLocation: initialURL,
		})
		if !reply.OK {
			return fmt.Errorf("open first surface: %s", reply.Error)
		}

		_, err := program.Run()
		s.shutdownTabs(ctx)
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	log.Info().Msg("session ended")
	return err
}

// shutdownTabs releases every surface on the loop before it stops.
func (s *session) shutdownTabs(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	err := s.loop.Invoke(shutdownCtx, func() { s.tabs.Shutdown(shutdownCtx) })
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("tab shutdown skipped")
	}
}

// watchConfig applies chrome geometry edits to the running tab manager.
func (s *session) watchConfig(ctx context.Context) {
	if s.configs == nil {
		return
	}
	s.configs.OnConfigChange(func(c *config.Config) {
		chrome := c.Chrome
		s.loop.Post(func() {
			s.tabs.SetFrameBorder(ctx, chrome.FrameBorder)
			m := chrome.Metrics()
			s.tabs.ReportChromeMetrics(ctx, entity.ChromeMetricsUpdate{
				Top: &m.Top, Left: &m.Left, Right: &m.Right, Bottom: &m.Bottom,
			})
		})
	})
	s.configs.Watch(ctx)
}

func (s *session) close(ctx context.Context) {
	s.engine.Close()
	if s.vault != nil {
		if err := s.vault.Close(); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Msg("close credential vault")
		}
	}
}
