package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/specialistvlad/lookmlaudit/internal/ctxlog"
	"github.com/specialistvlad/lookmlaudit/internal/fsutil"
	"github.com/specialistvlad/lookmlaudit/internal/watch"
)

// Watch runs the analysis now and again after every relevant change under
// the project, passing each outcome to onRun, until ctx is cancelled. Runs
// are serialized and a failed run is logged without ending the watch. The
// health check server, when enabled, lives as long as the watch.
func (a *App) Watch(ctx context.Context, onRun func(*Result, error)) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := ctxlog.FromContext(ctx)

	relevant, err := a.relevantFiles()
	if err != nil {
		return err
	}

	w, err := watch.New(a.config.ProjectPath, watch.Options{
		Relevant: relevant,
		SkipDir:  func(path string) bool { return filepath.Base(path) == ".git" },
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", a.config.ProjectPath, err)
	}

	if _, err := a.healthCheckServer(); err != nil {
		return err
	}
	defer a.closeHealthCheckServer()

	logger.Info("Watching project for changes.", "project", a.config.ProjectPath)
	return w.Run(ctx, func(ctx context.Context) {
		res, err := a.Run(ctx)
		if err != nil {
			logger.Error("Analysis failed, waiting for the next change.", "error", err)
		}
		onRun(res, err)
	})
}

// relevantFiles matches entity and container files and the .gitignore.
func (a *App) relevantFiles() (func(string) bool, error) {
	entities, err := fsutil.NewFinder(a.project.Entity.Patterns, "")
	if err != nil {
		return nil, err
	}
	containers, err := fsutil.NewFinder(a.project.Container.Patterns, "")
	if err != nil {
		return nil, err
	}
	return func(path string) bool {
		return entities.Match(path) || containers.Match(path) || filepath.Base(path) == ".gitignore"
	}, nil
}
