// Package fieldscan reads entity files and summarizes their field blocks:
// how many there are, how many carry a description, and whether any
// dimension is marked as the primary key.
//
// Results are memoized per file path in a Cache. A Cache belongs to one
// analysis run; create a fresh one per run and drop it afterwards.
package fieldscan

import (
	"context"
	"errors"
	"fmt"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/specialistvlad/lookmlaudit/internal/ctxlog"
	"github.com/specialistvlad/lookmlaudit/internal/integrity"
	"github.com/specialistvlad/lookmlaudit/internal/syntax"
)

// DefaultCacheSize bounds the number of entity files kept per run.
const DefaultCacheSize = 4096

// Options selects which blocks count as fields.
type Options struct {
	// Kinds are the field keywords counted for coverage.
	Kinds []string
	// PrimaryKeyKind is the field keyword searched for the primary-key marker.
	PrimaryKeyKind string
	// PrimaryKeyMarker is the annotation declaring uniqueness.
	PrimaryKeyMarker string
}

// DefaultOptions returns the LookML field kinds.
func DefaultOptions() Options {
	return Options{
		Kinds:            []string{"dimension", "measure"},
		PrimaryKeyKind:   "dimension",
		PrimaryKeyMarker: integrity.DefaultPrimaryKeyMarker,
	}
}

// Field is one field block of an entity file.
type Field struct {
	Kind      string
	Name      string
	Described bool
}

// Facts summarizes one entity file.
type Facts struct {
	Path       string
	Fields     []Field
	PrimaryKey bool
}

// Stats counts fields and described fields.
type Stats struct {
	Total     int
	Described int
}

// Stats returns the field counts.
func (f *Facts) Stats() Stats {
	s := Stats{Total: len(f.Fields)}
	for _, fld := range f.Fields {
		if fld.Described {
			s.Described++
		}
	}
	return s
}

// Coverage returns the fraction of described fields. An entity without any
// field is fully covered.
func (f *Facts) Coverage() float64 {
	s := f.Stats()
	if s.Total == 0 {
		return 1.0
	}
	return float64(s.Described) / float64(s.Total)
}

type entry struct {
	facts *Facts
	err   error
}

// Cache memoizes Facts by file path for the duration of one run. It is not
// safe for concurrent use.
type Cache struct {
	opts    Options
	entries *lru.Cache[string, entry]
}

// NewCache creates an empty cache holding at most size files.
func NewCache(size int, opts Options) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, entry](size)
	if err != nil {
		return nil, fmt.Errorf("create field cache: %w", err)
	}
	return &Cache{opts: opts, entries: entries}, nil
}

// Purge drops every memoized result.
func (c *Cache) Purge() {
	c.entries.Purge()
}

// Len returns the number of memoized files.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Facts returns the parsed field summary of the file at path. Read errors are
// memoized too, so a broken file is read and reported once per run.
func (c *Cache) Facts(ctx context.Context, path string) (*Facts, error) {
	if e, ok := c.entries.Get(path); ok {
		return e.facts, e.err
	}
	facts, err := c.scan(ctx, path)
	c.entries.Add(path, entry{facts: facts, err: err})
	return facts, err
}

// Coverage returns the described-field fraction of the entity file at path.
// It returns nil when path is nil or the file cannot be read.
func (c *Cache) Coverage(ctx context.Context, path *string) *float64 {
	if path == nil {
		return nil
	}
	facts, err := c.Facts(ctx, *path)
	if err != nil {
		return nil
	}
	cov := facts.Coverage()
	return &cov
}

func (c *Cache) scan(ctx context.Context, path string) (*Facts, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := syntax.StripComments(string(content))
	logger := ctxlog.FromContext(ctx)

	facts := &Facts{Path: path}
	for _, kind := range c.opts.Kinds {
		blocks, err := syntax.Extract(path, text, kind)
		warnUnbalanced(ctx, err)
		for _, b := range blocks {
			facts.Fields = append(facts.Fields, Field{
				Kind:      kind,
				Name:      b.Name,
				Described: syntax.HasDescription(b.Body),
			})
		}
	}

	pkBlocks, err := syntax.Extract(path, text, c.opts.PrimaryKeyKind)
	warnUnbalanced(ctx, err)
	for _, b := range pkBlocks {
		if integrity.MarksPrimaryKey(b.Body, c.opts.PrimaryKeyMarker) {
			facts.PrimaryKey = true
			break
		}
	}

	logger.Debug("Scanned entity fields.", "path", path, "fields", len(facts.Fields), "primary_key", facts.PrimaryKey)
	return facts, nil
}

func warnUnbalanced(ctx context.Context, err error) {
	var unbalanced *syntax.UnbalancedError
	if errors.As(err, &unbalanced) {
		ctxlog.FromContext(ctx).Warn("Ignoring unbalanced field block(s).", "path", unbalanced.Filename, "diagnostics", unbalanced.Diagnostics().Error())
	}
}
