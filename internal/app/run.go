package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/specialistvlad/lookmlaudit/internal/assess"
	"github.com/specialistvlad/lookmlaudit/internal/builder"
	"github.com/specialistvlad/lookmlaudit/internal/ctxlog"
	"github.com/specialistvlad/lookmlaudit/internal/fieldscan"
	"github.com/specialistvlad/lookmlaudit/internal/fsutil"
	"github.com/specialistvlad/lookmlaudit/internal/graph"
	"github.com/specialistvlad/lookmlaudit/internal/model"
	"github.com/specialistvlad/lookmlaudit/internal/registry"
)

// Result is the outcome of one run.
type Result struct {
	Analysis *model.Analysis
	Findings []assess.Finding
}

// Graph returns the node/edge view of the result.
func (r *Result) Graph() graph.View {
	return graph.FromRows(r.Analysis.Rows)
}

// Run analyzes the project from scratch. Every run gets its own id, registry
// and field cache; nothing is shared between runs.
func (a *App) Run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	ctx = ctxlog.WithRun(ctxlog.WithLogger(ctx, a.logger), runID)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Run method started.", "project", a.config.ProjectPath)

	cfg := a.project
	gitignore := ""
	if cfg.Scan.RespectGitignore {
		gitignore = a.path(".gitignore")
	}

	entityFinder, err := fsutil.NewFinder(cfg.Entity.Patterns, gitignore)
	if err != nil {
		return nil, fmt.Errorf("invalid entity patterns: %w", err)
	}
	containerFinder, err := fsutil.NewFinder(cfg.Container.Patterns, gitignore)
	if err != nil {
		return nil, fmt.Errorf("invalid container patterns: %w", err)
	}

	reg, err := registry.Load(ctx, a.path(cfg.Entity.Dir), registry.Options{
		Keyword:    cfg.Entity.Keyword,
		Suffix:     suffixOf(cfg.Entity.Patterns),
		Finder:     entityFinder,
		IgnoreBase: a.config.ProjectPath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load entities: %w", err)
	}

	fieldOpts := fieldscan.DefaultOptions()
	fieldOpts.Kinds = cfg.Fields.Kinds
	fieldOpts.PrimaryKeyMarker = cfg.Fields.PrimaryKeyMarker
	fields, err := fieldscan.NewCache(cfg.Scan.CacheSize, fieldOpts)
	if err != nil {
		return nil, err
	}
	defer fields.Purge()

	analysis, err := builder.Build(ctx, a.path(cfg.Container.Dir), reg, fields, builder.Options{
		RootKeyword: cfg.Container.RootKeyword,
		JoinKeyword: cfg.Container.JoinKeyword,
		Finder:      containerFinder,
		IgnoreBase:  a.config.ProjectPath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build relation graph: %w", err)
	}
	analysis.RunID = runID

	result := &Result{Analysis: analysis}
	if analysis.Empty() {
		logger.Warn("No query roots found, nothing to assess.")
		return result, nil
	}

	rules := assess.Without(assess.DefaultRules(), cfg.Rules.Disabled...)
	thresholds := assess.Thresholds{MaxRoots: cfg.Rules.MaxRoots, MaxEntities: cfg.Rules.MaxEntities}
	result.Findings = assess.Evaluate(assess.NewContext(analysis, thresholds), rules)

	logger.Info("Assessment finished.", "findings", len(result.Findings), "issues", assess.HasIssues(result.Findings))
	logger.Debug("App.Run method finished.")
	return result, nil
}

// suffixOf derives the file-name suffix stripped to name an entity after its
// file, e.g. ".view.lkml" from "*.view.lkml".
func suffixOf(patterns []string) string {
	for _, p := range patterns {
		if s, ok := strings.CutPrefix(p, "*"); ok && !strings.ContainsAny(s, "*?[{") {
			return s
		}
	}
	return filepath.Ext(patterns[0])
}
