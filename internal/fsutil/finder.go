// Package fsutil provides file system utility functions.
package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	ignore "github.com/sabhiram/go-gitignore"
	"github.com/specialistvlad/lookmlaudit/internal/ctxlog"
)

// ErrInvalidPattern indicates a glob pattern could not be compiled.
var ErrInvalidPattern = errors.New("invalid glob pattern")

// Finder selects files under a root whose base name matches one of a set of
// glob patterns, optionally skipping paths excluded by a .gitignore file.
type Finder struct {
	matchers []glob.Glob
	ignored  *ignore.GitIgnore
}

// NewFinder compiles patterns (matched against the file's base name) and,
// when gitignorePath is non-empty and exists, loads its rules.
func NewFinder(patterns []string, gitignorePath string) (*Finder, error) {
	if len(patterns) == 0 {
		panic("patterns must not be empty")
	}

	f := &Finder{}
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.Join(ErrInvalidPattern, fmt.Errorf("%q: %w", p, err))
		}
		f.matchers = append(f.matchers, g)
	}

	if gitignorePath != "" {
		if _, err := os.Stat(gitignorePath); err == nil {
			gi, err := ignore.CompileIgnoreFile(gitignorePath)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", gitignorePath, err)
			}
			f.ignored = gi
		}
	}
	return f, nil
}

// Match reports whether the base name of path matches any pattern.
func (f *Finder) Match(path string) bool {
	name := filepath.Base(path)
	for _, m := range f.matchers {
		if m.Match(name) {
			return true
		}
	}
	return false
}

// Ignored reports whether rel (slash-separated, relative to the ignore file's
// directory) is excluded by the loaded .gitignore rules.
func (f *Finder) Ignored(rel string) bool {
	if f.ignored == nil {
		return false
	}
	return f.ignored.MatchesPath(rel)
}

// Find recursively walks rootPath and returns the matching files in lexical
// walk order. ignoreBase is the directory the .gitignore rules are relative
// to. The context is checked before each entry; a cancelled walk returns the
// context error. Unreadable entries below rootPath are logged and skipped;
// only an unreadable rootPath fails the walk.
func (f *Finder) Find(ctx context.Context, rootPath, ignoreBase string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == rootPath {
				return err
			}
			logger.Warn("Skipping unreadable path.", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if f.ignored != nil && path != rootPath {
			if rel, relErr := filepath.Rel(ignoreBase, path); relErr == nil && f.Ignored(filepath.ToSlash(rel)) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}
		if !d.IsDir() && f.Match(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
