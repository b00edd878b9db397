// Package cli provides the command-line side of arkium: shared
// dependencies for the cobra commands and their Bubble Tea models.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bnema/arkium/internal/application/usecase"
	"github.com/bnema/arkium/internal/cli/styles"
	"github.com/bnema/arkium/internal/domain/build"
	"github.com/bnema/arkium/internal/infrastructure/assistant"
	"github.com/bnema/arkium/internal/infrastructure/config"
	"github.com/bnema/arkium/internal/infrastructure/persistence/jsonfile"
	"github.com/bnema/arkium/internal/infrastructure/xdg"
	"github.com/bnema/arkium/internal/logging"
)

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Configs   *config.Manager
	Theme     *styles.Theme
	BuildInfo build.Info
	Paths     *xdg.Adapter

	// Use cases
	HistoryUC   *usecase.ManageHistoryUseCase
	AssistantUC *usecase.AssistantUseCase

	// Context with logger
	ctx       context.Context
	logCloser io.Closer
}

// NewApp loads the configuration and the offline stores.
func NewApp() (*App, error) {
	mgr, cfg := LoadConfig()

	// CLI commands log quietly to stderr unless asked otherwise.
	level := cfg.Logging.Level
	if envLevel := os.Getenv("ARKIUM_LOG_LEVEL"); envLevel != "" {
		level = envLevel
	}
	if level == "" || level == "info" {
		level = "warn"
	}
	logger, closer := logging.New(logging.Config{
		Level:      logging.ParseLevel(level),
		Format:     cfg.Logging.Format,
		TimeFormat: "15:04:05",
	})
	ctx := logging.WithContext(context.Background(), logger)

	paths := xdg.New()
	historyPath, err := paths.DataFile(jsonfile.HistoryFileName)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("resolve history file: %w", err)
	}
	secretsPath, err := paths.DataFile(jsonfile.SecretsFileName)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("resolve secrets file: %w", err)
	}

	historyUC := usecase.NewManageHistoryUseCase(jsonfile.NewHistoryRepository(historyPath), cfg.History.MaxEntries, nil)
	historyUC.Load(ctx)

	completer := assistant.NewClient(
		assistant.WithModel(cfg.Assistant.Model),
		assistant.WithBaseURL(cfg.Assistant.BaseURL),
		assistant.WithTemperature(cfg.Assistant.Temperature),
	)

	return &App{
		Config:      cfg,
		Configs:     mgr,
		Theme:       styles.DefaultTheme(),
		Paths:       paths,
		HistoryUC:   historyUC,
		AssistantUC: usecase.NewAssistantUseCase(jsonfile.NewSecretRepository(secretsPath), completer),
		ctx:         ctx,
		logCloser:   closer,
	}, nil
}

// Close releases all resources.
func (a *App) Close() error {
	if a.logCloser != nil {
		return a.logCloser.Close()
	}
	return nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// LoadConfig loads configuration from the standard location. The manager
// is nil and defaults are returned when loading fails.
func LoadConfig() (*config.Manager, *config.Config) {
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
