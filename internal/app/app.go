package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"slices"

	"github.com/specialistvlad/lookmlaudit/internal/assess"
	"github.com/specialistvlad/lookmlaudit/internal/config"
	"github.com/specialistvlad/lookmlaudit/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logger     *slog.Logger
	ctx        context.Context
	config     *Config
	project    *config.Config
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It configures an
// isolated logger writing to logW and loads the project configuration. A
// broken project file is a fatal startup error.
func NewApp(ctx context.Context, logW io.Writer, appConfig *Config) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	var (
		project *config.Config
		err     error
	)
	if appConfig.ConfigPath != "" {
		project, err = config.Load(ctx, appConfig.ConfigPath)
	} else {
		project, err = config.LoadOrDefault(ctx, filepath.Join(appConfig.ProjectPath, config.DefaultFileName))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	known := assess.RuleIDs()
	for _, id := range project.Rules.Disabled {
		if !slices.Contains(known, id) {
			logger.Warn("Disabled rule does not exist, ignoring.", "rule", id)
		}
	}
	logger.Debug("Project configuration loaded.", "entity_dir", project.Entity.Dir, "container_dir", project.Container.Dir)

	return &App{
		logger:  logger,
		ctx:     ctx,
		config:  appConfig,
		project: project,
	}, nil
}

// Logger returns the application's logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Project returns the resolved project configuration.
func (a *App) Project() *config.Config {
	return a.project
}

func (a *App) path(rel string) string {
	return filepath.Join(a.config.ProjectPath, rel)
}
