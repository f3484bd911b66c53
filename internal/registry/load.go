package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/lookmlaudit/internal/ctxlog"
	"github.com/specialistvlad/lookmlaudit/internal/fsutil"
	"github.com/specialistvlad/lookmlaudit/internal/syntax"
)

// Options controls how entity files are discovered and read.
type Options struct {
	// Keyword introduces an entity block, e.g. "view".
	Keyword string
	// Suffix is trimmed from a file name to derive an entity name when the
	// file declares none, e.g. ".view.lkml".
	Suffix string
	// Finder selects the entity files.
	Finder *fsutil.Finder
	// IgnoreBase is the directory .gitignore rules are relative to.
	IgnoreBase string
}

// Load walks root and builds a Registry. A missing root is not an error: the
// registry is simply empty and every reference will be unresolved. Unreadable
// files are logged and skipped. Only a cancelled context or a failing walk
// aborts the load.
func Load(ctx context.Context, root string, opts Options) (*Registry, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Registry loading entity definitions...", "path", root)

	reg := New()
	if !fsutil.IsDir(root) {
		logger.Warn("Entity directory not found, every reference will be unresolved.", "path", root)
		return reg, nil
	}

	filePaths, err := opts.Finder.Find(ctx, root, opts.IgnoreBase)
	if err != nil {
		logger.Error("Failed to walk entity directory", "path", root, "error", err)
		return nil, err
	}
	if len(filePaths) == 0 {
		logger.Warn("No entity files found in path", "path", root)
		return reg, nil
	}
	logger.Debug("Found entity files to load", "count", len(filePaths))

	for _, filePath := range filePaths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := reg.loadFile(ctx, root, filePath, opts); err != nil {
			logger.Warn("Could not read entity file, skipping.", "path", filePath, "error", err)
			continue
		}
		reg.Files++
	}

	logger.Info("Registry loaded.", "files", reg.Files, "entities", reg.Len(), "multi_definition_files", len(reg.MultiDefinitionFiles))
	return reg, nil
}

func (r *Registry) loadFile(ctx context.Context, root, filePath string, opts Options) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	text := syntax.StripComments(string(content))

	rel, err := filepath.Rel(root, filePath)
	if err != nil {
		return err
	}
	rel = filepath.ToSlash(rel)

	names := syntax.HeaderNames(text, opts.Keyword)
	if len(names) > 1 {
		r.MultiDefinitionFiles = append(r.MultiDefinitionFiles, rel)
	}
	if len(names) == 0 {
		names = []string{nameFromFile(filePath, opts.Suffix)}
	}

	loc := Location{Folder: folderOf(rel), Path: filePath, RelPath: rel}
	for _, name := range names {
		r.Add(name, loc)
	}

	r.resolveExtensions(ctx, filePath, text, opts.Keyword)
	return nil
}

// resolveExtensions records the extends list of every entity block in text.
func (r *Registry) resolveExtensions(ctx context.Context, filePath, text, keyword string) {
	blocks, err := syntax.Extract(filePath, text, keyword)
	var unbalanced *syntax.UnbalancedError
	if errors.As(err, &unbalanced) {
		ctxlog.FromContext(ctx).Warn("Ignoring unbalanced entity block(s).", "path", filePath, "diagnostics", unbalanced.Diagnostics().Error())
	}
	for _, b := range blocks {
		if extended, ok := syntax.Extends(b.Body); ok {
			r.Extensions[b.Name] = extended
		} else if _, seen := r.Extensions[b.Name]; !seen {
			r.Extensions[b.Name] = []string{}
		}
	}
}

// folderOf returns the first segment of a slash-separated relative file path,
// or RootFolder when the file sits directly under the root.
func folderOf(rel string) string {
	dir := filepath.ToSlash(filepath.Dir(rel))
	if dir == "." || dir == "" {
		return RootFolder
	}
	return strings.SplitN(dir, "/", 2)[0]
}

// nameFromFile derives an entity name from a file name.
func nameFromFile(filePath, suffix string) string {
	base := filepath.Base(filePath)
	if suffix != "" && strings.HasSuffix(base, suffix) {
		return strings.TrimSuffix(base, suffix)
	}
	if i := strings.IndexByte(base, '.'); i > 0 {
		return base[:i]
	}
	return base
}
