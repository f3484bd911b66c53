package builder

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/specialistvlad/lookmlaudit/internal/ctxlog"
	"github.com/specialistvlad/lookmlaudit/internal/fieldscan"
	"github.com/specialistvlad/lookmlaudit/internal/fsutil"
	"github.com/specialistvlad/lookmlaudit/internal/integrity"
	"github.com/specialistvlad/lookmlaudit/internal/model"
	"github.com/specialistvlad/lookmlaudit/internal/registry"
	"github.com/specialistvlad/lookmlaudit/internal/syntax"
)

// Options controls container discovery and the keywords of the blocks read.
type Options struct {
	// RootKeyword introduces a query root, e.g. "explore".
	RootKeyword string
	// JoinKeyword introduces a join nested in a query root, e.g. "join".
	JoinKeyword string
	// Finder selects the container files.
	Finder *fsutil.Finder
	// IgnoreBase is the directory .gitignore rules are relative to.
	IgnoreBase string
}

// Build scans every container file under root and returns the rows and
// integrity sets of the project. The field cache must belong to the current
// run.
func Build(ctx context.Context, root string, reg *registry.Registry, fields *fieldscan.Cache, opts Options) (*model.Analysis, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building relation graph from containers...", "path", root)

	if !fsutil.IsDir(root) {
		return nil, &StructuralError{Path: root, Err: ErrContainerDirNotFound}
	}

	files, err := opts.Finder.Find(ctx, root, opts.IgnoreBase)
	if err != nil {
		return nil, err
	}
	logger.Debug("Found container files.", "count", len(files))

	b := &graphBuilder{
		reg:          reg,
		fields:       fields,
		opts:         opts,
		analysis:     &model.Analysis{},
		missingPK:    newOrderedSet(),
		missingRel:   newOrderedSet(),
		sqlFunctions: newOrderedSet(),
		warned:       make(map[string]struct{}),
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b.analysis.Project.Containers++

		content, err := os.ReadFile(file)
		if err != nil {
			logger.Warn("Could not read container file, skipping.", "path", file, "error", err)
			continue
		}
		rel, err := filepath.Rel(root, file)
		if err != nil {
			rel = file
		}
		b.container(ctx, file, filepath.ToSlash(rel), string(content))
	}

	a := b.analysis
	a.Project.Entities = reg.Len()
	a.Project.Roots = a.Descriptions.TotalRoots
	a.Project.Joins = a.Descriptions.TotalJoins
	a.MultiDefinitionFiles = append([]string(nil), reg.MultiDefinitionFiles...)
	a.Shadowed = reg.Shadowed()
	a.MissingPrimaryKey = b.missingPK.items
	a.MissingRelationship = b.missingRel.items
	a.SQLFunctionJoins = b.sqlFunctions.items
	a.ExtendsCycles, a.UnknownExtends = extensionIssues(reg)

	logger.Info("Relation graph built.", "containers", a.Project.Containers, "roots", a.Project.Roots, "joins", a.Project.Joins, "rows", len(a.Rows))
	return a, nil
}

type graphBuilder struct {
	reg      *registry.Registry
	fields   *fieldscan.Cache
	opts     Options
	analysis *model.Analysis

	missingPK    *orderedSet
	missingRel   *orderedSet
	sqlFunctions *orderedSet
	// warned holds entity files whose read failure was already logged.
	warned map[string]struct{}
}

func (b *graphBuilder) container(ctx context.Context, file, rel, content string) {
	text := syntax.StripComments(content)
	roots, err := syntax.Extract(file, text, b.opts.RootKeyword)
	warnUnbalanced(ctx, err)

	for _, root := range roots {
		b.analysis.Descriptions.TotalRoots++
		if syntax.HasDescription(root.Body) {
			b.analysis.Descriptions.RootsWithDescription++
		}

		// The override must belong to the root itself, not to one of its joins.
		primary, ok := syntax.Override(syntax.TopLevel(root.Body))
		if !ok {
			primary = root.Name
		}
		b.addRow(ctx, rel, root.Name, model.RolePrimary, primary, "")

		joins, err := syntax.Extract(file, root.Body, b.opts.JoinKeyword)
		warnUnbalanced(ctx, err)
		for _, join := range joins {
			b.join(ctx, rel, root.Name, join)
		}
	}
}

func (b *graphBuilder) join(ctx context.Context, rel, rootName string, join syntax.Block) {
	b.analysis.Descriptions.TotalJoins++
	if syntax.HasDescription(join.Body) {
		b.analysis.Descriptions.JoinsWithDescription++
	}

	target, ok := syntax.Override(syntax.TopLevel(join.Body))
	if !ok {
		target = join.Name
	}

	qualified := rootName + "." + join.Name
	if integrity.MissingRelationship(join.Body) {
		b.missingRel.add(qualified)
	}
	if integrity.SQLOnCallsFunction(join.Body) {
		b.sqlFunctions.add(qualified)
	}

	if !b.hasPrimaryKey(ctx, target) {
		b.missingPK.add(target)
	}
	b.addRow(ctx, rel, rootName, model.RoleJoin, target, join.Name)
}

// hasPrimaryKey reports whether the entity resolves to a readable file with a
// primary-key dimension.
func (b *graphBuilder) hasPrimaryKey(ctx context.Context, entity string) bool {
	loc, ok := b.reg.Resolve(entity)
	if !ok {
		return false
	}
	facts, err := b.fields.Facts(ctx, loc.Path)
	if err != nil {
		b.warnRead(ctx, loc.Path, err)
		return false
	}
	return facts.PrimaryKey
}

func (b *graphBuilder) addRow(ctx context.Context, rel, rootName string, role model.Role, entity, joinName string) {
	row := model.Row{
		ContainerPath: rel,
		RootName:      rootName,
		Role:          role,
		EntityName:    entity,
		JoinName:      joinName,
		EntityFolder:  model.UnknownFolder,
	}
	if loc, ok := b.reg.Resolve(entity); ok {
		row.Resolved = true
		row.EntityFolder = loc.Folder
		path := loc.Path
		row.Coverage = b.fields.Coverage(ctx, &path)
		if facts, err := b.fields.Facts(ctx, path); err != nil {
			b.warnRead(ctx, path, err)
		} else {
			s := facts.Stats()
			row.Fields = &model.FieldStats{Described: s.Described, Total: s.Total}
		}
		if ext := b.reg.ExtendsOf(entity); len(ext) > 0 {
			row.ExtendsOn = append([]string(nil), ext...)
		}
	}
	b.analysis.Rows = append(b.analysis.Rows, row)
}

func (b *graphBuilder) warnRead(ctx context.Context, path string, err error) {
	if _, done := b.warned[path]; done {
		return
	}
	b.warned[path] = struct{}{}
	ctxlog.FromContext(ctx).Warn("Could not read entity file, treating it as unresolved.", "path", path, "error", err)
}

func warnUnbalanced(ctx context.Context, err error) {
	var unbalanced *syntax.UnbalancedError
	if errors.As(err, &unbalanced) {
		ctxlog.FromContext(ctx).Warn("Ignoring unbalanced block(s).", "path", unbalanced.Filename, "diagnostics", unbalanced.Diagnostics().Error())
	}
}

// orderedSet keeps unique strings in insertion order.
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(item string) {
	if _, ok := s.seen[item]; ok {
		return
	}
	s.seen[item] = struct{}{}
	s.items = append(s.items, item)
}
