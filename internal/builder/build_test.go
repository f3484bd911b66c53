package builder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/lookmlaudit/internal/fieldscan"
	"github.com/specialistvlad/lookmlaudit/internal/fsutil"
	"github.com/specialistvlad/lookmlaudit/internal/model"
	"github.com/specialistvlad/lookmlaudit/internal/registry"
	"github.com/specialistvlad/lookmlaudit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func loadRegistry(t *testing.T, ctx context.Context, root string) *registry.Registry {
	t.Helper()
	finder, err := fsutil.NewFinder([]string{"*.view.lkml"}, "")
	require.NoError(t, err)
	reg, err := registry.Load(ctx, filepath.Join(root, "views"), registry.Options{
		Keyword:    "view",
		Suffix:     ".view.lkml",
		Finder:     finder,
		IgnoreBase: root,
	})
	require.NoError(t, err)
	return reg
}

func buildWith(t *testing.T, ctx context.Context, root string, reg *registry.Registry) (*model.Analysis, error) {
	t.Helper()
	finder, err := fsutil.NewFinder([]string{"*.model.lkml"}, "")
	require.NoError(t, err)
	fields, err := fieldscan.NewCache(64, fieldscan.DefaultOptions())
	require.NoError(t, err)
	return Build(ctx, filepath.Join(root, "models"), reg, fields, Options{
		RootKeyword: "explore",
		JoinKeyword: "join",
		Finder:      finder,
		IgnoreBase:  root,
	})
}

func buildProject(t *testing.T, files map[string]string) (*model.Analysis, *testutil.SafeBuffer) {
	t.Helper()
	root := testutil.WriteProject(t, files)
	ctx, logs := testutil.Context(t)
	a, err := buildWith(t, ctx, root, loadRegistry(t, ctx, root))
	require.NoError(t, err)
	return a, logs
}

func TestBuild_OrdersCustomers(t *testing.T) {
	t.Parallel()

	a, _ := buildProject(t, testutil.OrdersProject())

	wantRows := []model.Row{
		{
			ContainerPath: "shop.model.lkml",
			RootName:      "orders",
			Role:          model.RolePrimary,
			EntityName:    "orders",
			EntityFolder:  model.UnknownFolder,
		},
		{
			ContainerPath: "shop.model.lkml",
			RootName:      "orders",
			Role:          model.RoleJoin,
			EntityName:    "customers",
			JoinName:      "customers",
			Resolved:      true,
			EntityFolder:  registry.RootFolder,
			Coverage:      ptr(0),
			Fields:        &model.FieldStats{Total: 1},
		},
	}
	if diff := cmp.Diff(wantRows, a.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, a.MissingPrimaryKey)
	assert.Empty(t, a.SQLFunctionJoins)
	assert.Empty(t, a.MissingRelationship)
	assert.Empty(t, a.MultiDefinitionFiles)
	assert.Equal(t, []string{"orders"}, a.UnresolvedEntities())
	assert.Equal(t, model.ProjectStats{Containers: 1, Entities: 1, Roots: 1, Joins: 1}, a.Project)
	assert.Equal(t, model.DescriptionStats{TotalRoots: 1, TotalJoins: 1}, a.Descriptions)
}

func TestBuild_MixedProject(t *testing.T) {
	t.Parallel()

	a, _ := buildProject(t, testutil.MixedProject())

	const container = "sales.model.lkml"
	wantRows := []model.Row{
		{ContainerPath: container, RootName: "order_items", Role: model.RolePrimary, EntityName: "order_items", Resolved: true, EntityFolder: registry.RootFolder, Coverage: ptr(0.5), Fields: &model.FieldStats{Described: 2, Total: 4}},
		{ContainerPath: container, RootName: "order_items", Role: model.RoleJoin, EntityName: "products", JoinName: "products", Resolved: true, EntityFolder: "catalog", Coverage: ptr(0), Fields: &model.FieldStats{Total: 2}},
		{ContainerPath: container, RootName: "order_items", Role: model.RoleJoin, EntityName: "users", JoinName: "users", Resolved: true, EntityFolder: registry.RootFolder, Coverage: ptr(0), Fields: &model.FieldStats{Total: 1}, ExtendsOn: []string{"base_users"}},
		{ContainerPath: container, RootName: "order_items", Role: model.RoleJoin, EntityName: "Customer_Orders", JoinName: "Customer_Orders", Resolved: true, EntityFolder: "legacy", Coverage: ptr(0), Fields: &model.FieldStats{Total: 1}},
		{ContainerPath: container, RootName: "inventory", Role: model.RolePrimary, EntityName: "inventory_items", Resolved: true, EntityFolder: registry.RootFolder, Coverage: ptr(1), Fields: &model.FieldStats{}},
	}
	if diff := cmp.Diff(wantRows, a.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, []string{"catalog/products.view.lkml"}, a.MultiDefinitionFiles)
	assert.Equal(t, []string{"users"}, a.MissingPrimaryKey)
	assert.Equal(t, []string{"order_items.users"}, a.MissingRelationship)
	assert.Equal(t, []string{"order_items.users"}, a.SQLFunctionJoins)
	assert.Equal(t, []string{"users extends base_users"}, a.UnknownExtends)
	assert.Empty(t, a.ExtendsCycles)
	assert.Empty(t, a.Shadowed)
	assert.Equal(t, model.ProjectStats{Containers: 1, Entities: 6, Roots: 2, Joins: 3}, a.Project)
	assert.Equal(t, model.DescriptionStats{RootsWithDescription: 1, TotalRoots: 2, TotalJoins: 3}, a.Descriptions)
}

func TestBuild_UnresolvedJoinIsMissingPrimaryKey(t *testing.T) {
	t.Parallel()

	a, _ := buildProject(t, map[string]string{
		"models/m.model.lkml": "explore: a {\n  join: ghost { relationship: many_to_one }\n}\n",
		"views/a.view.lkml":   "view: a { dimension: id { primary_key: yes } }",
	})

	require.Len(t, a.Rows, 2)
	assert.False(t, a.Rows[1].Resolved)
	assert.Equal(t, model.UnknownFolder, a.Rows[1].EntityFolder)
	assert.Nil(t, a.Rows[1].Coverage)
	assert.Nil(t, a.Rows[1].Fields)
	assert.Equal(t, []string{"ghost"}, a.MissingPrimaryKey)
}

func TestBuild_OverrideBelongsToItsOwnLevel(t *testing.T) {
	t.Parallel()

	a, _ := buildProject(t, map[string]string{
		"models/m.model.lkml": `explore: events {
  join: sessions {
    from: raw_sessions
    relationship: many_to_one
  }
}
explore: renamed {
  view_name: events
}
`,
	})

	require.Len(t, a.Rows, 3)
	assert.Equal(t, "events", a.Rows[0].EntityName, "a join's from must not rename its explore")
	assert.Equal(t, "raw_sessions", a.Rows[1].EntityName)
	assert.Equal(t, "sessions", a.Rows[1].JoinName)
	assert.Equal(t, "events", a.Rows[2].EntityName)
	assert.Equal(t, "renamed", a.Rows[2].RootName)
}

func TestBuild_FolderNamedUnknownIsResolved(t *testing.T) {
	t.Parallel()

	a, _ := buildProject(t, map[string]string{
		"models/m.model.lkml":             "explore: archive { join: ghost {} }",
		"views/Unknown/archive.view.lkml": "view: archive { dimension: id { primary_key: yes } }",
	})

	require.Len(t, a.Rows, 2)
	assert.True(t, a.Rows[0].Resolved)
	assert.Equal(t, "Unknown", a.Rows[0].EntityFolder)
	assert.NotNil(t, a.Rows[0].Coverage)
	assert.False(t, a.Rows[1].Resolved)
	assert.Equal(t, []string{"ghost"}, a.UnresolvedEntities())
}

func TestBuild_DescriptionIsSubstringMatch(t *testing.T) {
	t.Parallel()

	a, _ := buildProject(t, map[string]string{
		"models/m.model.lkml": `explore: a {
  short_description: "counts"
}
explore: b {
  description : "spaced, does not count"
}
explore: c {
  join: j { description: "counts for the join and its explore" }
}
`,
	})

	assert.Equal(t, model.DescriptionStats{RootsWithDescription: 2, TotalRoots: 3, JoinsWithDescription: 1, TotalJoins: 1}, a.Descriptions)
}

func TestBuild_UnreadableSubdirectoryIsSkipped(t *testing.T) {
	t.Parallel()
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}

	root := testutil.WriteProject(t, map[string]string{
		"models/ok.model.lkml":       "explore: ok {}",
		"models/locked/x.model.lkml": "explore: hidden {}",
	})
	locked := filepath.Join(root, "models", "locked")
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })
	ctx, logs := testutil.Context(t)

	a, err := buildWith(t, ctx, root, loadRegistry(t, ctx, root))
	require.NoError(t, err)

	require.Len(t, a.Rows, 1)
	assert.Equal(t, "ok", a.Rows[0].RootName)
	assert.Contains(t, logs.String(), "Skipping unreadable path")
}

func TestBuild_MissingContainerDir(t *testing.T) {
	t.Parallel()

	root := testutil.WriteProject(t, map[string]string{"views/a.view.lkml": "view: a {}"})
	ctx, _ := testutil.Context(t)

	a, err := buildWith(t, ctx, root, loadRegistry(t, ctx, root))
	require.Error(t, err)
	assert.Nil(t, a)
	assert.True(t, errors.Is(err, ErrContainerDirNotFound))

	var structural *StructuralError
	require.True(t, errors.As(err, &structural))
	assert.Equal(t, filepath.Join(root, "models"), structural.Path)
}

func TestBuild_NoRootsIsEmptyNotError(t *testing.T) {
	t.Parallel()

	a, _ := buildProject(t, map[string]string{
		"models/empty.model.lkml": "connection: \"warehouse\"\ninclude: \"/views/*.view.lkml\"\n",
	})

	assert.True(t, a.Empty())
	assert.Equal(t, 1, a.Project.Containers)
}

func TestBuild_UnreadableContainerIsSkipped(t *testing.T) {
	t.Parallel()

	root := testutil.WriteProject(t, map[string]string{
		"models/good.model.lkml": "explore: a {}",
	})
	// A dangling symlink is listed by the walk but cannot be read.
	require.NoError(t, os.Symlink(filepath.Join(root, "nowhere"), filepath.Join(root, "models", "broken.model.lkml")))
	ctx, logs := testutil.Context(t)

	a, err := buildWith(t, ctx, root, loadRegistry(t, ctx, root))
	require.NoError(t, err)

	assert.Equal(t, 2, a.Project.Containers, "unreadable files still count as containers")
	require.Len(t, a.Rows, 1)
	assert.Equal(t, "good.model.lkml", a.Rows[0].ContainerPath)
	assert.Contains(t, logs.String(), "Could not read container file")
}

func TestBuild_UnreadableEntityWarnsOnce(t *testing.T) {
	t.Parallel()

	root := testutil.WriteProject(t, map[string]string{
		"models/m.model.lkml": "explore: a { join: ghost {} }\nexplore: b { join: ghost {} }\n",
	})
	ctx, logs := testutil.Context(t)

	reg := registry.New()
	reg.Add("ghost", registry.Location{Folder: "lost", Path: filepath.Join(root, "views", "ghost.view.lkml"), RelPath: "lost/ghost.view.lkml"})

	a, err := buildWith(t, ctx, root, reg)
	require.NoError(t, err)

	require.Len(t, a.Rows, 4)
	assert.True(t, a.Rows[1].Resolved)
	assert.Equal(t, "lost", a.Rows[1].EntityFolder)
	assert.Nil(t, a.Rows[1].Coverage)
	assert.Nil(t, a.Rows[1].Fields)
	assert.Equal(t, []string{"ghost"}, a.MissingPrimaryKey)
	assert.Equal(t, 1, strings.Count(logs.String(), "Could not read entity file"))
}

func TestBuild_UnbalancedContainerKeepsBalancedRoots(t *testing.T) {
	t.Parallel()

	a, logs := buildProject(t, map[string]string{
		"models/m.model.lkml": "explore: ok {}\nexplore: broken {\n  join: x {}\n",
	})

	require.Len(t, a.Rows, 1)
	assert.Equal(t, "ok", a.Rows[0].RootName)
	assert.Contains(t, logs.String(), "Ignoring unbalanced block")
}

func TestBuild_ExtendsCycle(t *testing.T) {
	t.Parallel()

	a, _ := buildProject(t, map[string]string{
		"models/m.model.lkml": "explore: a {}",
		"views/a.view.lkml":   "view: a { extends: [b] }",
		"views/b.view.lkml":   "view: b { extends: [a] }",
		"views/c.view.lkml":   "view: c { extends: [c] }",
	})

	assert.Equal(t, []string{"a -> b -> a", "c -> c"}, a.ExtendsCycles)
	assert.Empty(t, a.UnknownExtends)
	assert.Equal(t, []string{"b"}, a.Rows[0].ExtendsOn)
}

func TestBuild_RerunIsIdentical(t *testing.T) {
	t.Parallel()

	root := testutil.WriteProject(t, testutil.MixedProject())
	ctx, _ := testutil.Context(t)

	first, err := buildWith(t, ctx, root, loadRegistry(t, ctx, root))
	require.NoError(t, err)
	second, err := buildWith(t, ctx, root, loadRegistry(t, ctx, root))
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("re-run mismatch (-first +second):\n%s", diff)
	}
}

func TestBuild_CancelledContext(t *testing.T) {
	t.Parallel()

	root := testutil.WriteProject(t, testutil.OrdersProject())
	ctx, cancel := context.WithCancel(context.Background())
	reg := loadRegistry(t, ctx, root)
	cancel()

	_, err := buildWith(t, ctx, root, reg)
	assert.ErrorIs(t, err, context.Canceled)
}
