// Package watch re-runs a function whenever relevant files under a directory
// tree change. Events are debounced project-wide: a burst of saves triggers a
// single run once the tree has been quiet for the debounce interval. Runs
// never overlap; a change seen during a run schedules exactly one more.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/specialistvlad/lookmlaudit/internal/ctxlog"
)

// DefaultDebounce is the quiet period before a run is triggered.
const DefaultDebounce = 250 * time.Millisecond

// ErrNotDirectory is returned when the watched root is not a directory.
var ErrNotDirectory = errors.New("watch root is not a directory")

// Options configures a Watcher.
type Options struct {
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// Relevant filters file events; nil accepts every file.
	Relevant func(path string) bool
	// SkipDir excludes directories from watching, e.g. ignored ones.
	SkipDir func(path string) bool
}

// Watcher watches one directory tree.
type Watcher struct {
	root    string
	opts    Options
	watcher *fsnotify.Watcher
	trigger chan struct{}
}

// New creates a watcher for root and registers every directory below it.
func New(root string, opts Options) (*Watcher, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, ErrNotDirectory
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		root:    root,
		opts:    opts,
		watcher: fw,
		trigger: make(chan struct{}, 1),
	}
	if err := w.addRecursive(root); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// Run calls fn once immediately and again after every debounced change,
// until ctx is cancelled. It closes the watcher on return.
func (w *Watcher) Run(ctx context.Context, fn func(ctx context.Context)) error {
	defer w.watcher.Close()
	logger := ctxlog.FromContext(ctx)

	go w.collect(ctx)

	fn(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Debug("Watch stopped.", "root", w.root)
			return nil
		case <-w.trigger:
			logger.Info("Change detected, re-running analysis.", "root", w.root)
			fn(ctx)
		}
	}
}

// collect turns raw fsnotify events into debounced triggers.
func (w *Watcher) collect(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("File watcher error.", "error", err)
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.handle(event) {
				continue
			}
			logger.Debug("Relevant change.", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.AfterFunc(w.opts.Debounce, w.fire)
			} else {
				timer.Reset(w.opts.Debounce)
			}
		}
	}
}

// handle registers new directories and reports whether the event matters.
func (w *Watcher) handle(event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(event.Name)
			return true
		}
	}
	if w.opts.Relevant == nil {
		return true
	}
	return w.opts.Relevant(event.Name)
}

// fire queues one run; a run already queued absorbs it.
func (w *Watcher) fire() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.opts.SkipDir != nil && w.opts.SkipDir(path) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}
