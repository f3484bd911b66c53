package graph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/lookmlaudit/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestFromRows(t *testing.T) {
	t.Parallel()

	rows := []model.Row{
		{ContainerPath: "m.model.lkml", RootName: "orders", Role: model.RolePrimary, EntityName: "orders"},
		{ContainerPath: "m.model.lkml", RootName: "orders", Role: model.RoleJoin, EntityName: "users", JoinName: "users"},
		{ContainerPath: "m.model.lkml", RootName: "users", Role: model.RolePrimary, EntityName: "users"},
	}

	v := FromRows(rows)

	wantNodes := []Node{
		{ID: "container:m.model.lkml", Kind: KindContainer, Label: "m.model.lkml", Weight: 2.0 / 3},
		{ID: "root:m.model.lkml/orders", Kind: KindRoot, Label: "orders", Weight: 1},
		{ID: "entity:orders", Kind: KindEntity, Label: "orders", Weight: 1.0 / 3},
		{ID: "entity:users", Kind: KindEntity, Label: "users", Weight: 2.0 / 3},
		{ID: "root:m.model.lkml/users", Kind: KindRoot, Label: "users", Weight: 2.0 / 3},
	}
	wantEdges := []Edge{
		{From: "container:m.model.lkml", To: "root:m.model.lkml/orders", Role: RoleContains, Length: LengthContains},
		{From: "root:m.model.lkml/orders", To: "entity:orders", Role: "primary", Length: LengthPrimary},
		{From: "root:m.model.lkml/orders", To: "entity:users", Role: "join", Length: LengthJoin},
		{From: "container:m.model.lkml", To: "root:m.model.lkml/users", Role: RoleContains, Length: LengthContains},
		{From: "root:m.model.lkml/users", To: "entity:users", Role: "primary", Length: LengthPrimary},
	}

	if diff := cmp.Diff(wantNodes, v.Nodes); diff != "" {
		t.Errorf("nodes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantEdges, v.Edges); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
}

func TestFromRows_WeightsInRange(t *testing.T) {
	t.Parallel()

	rows := []model.Row{
		{ContainerPath: "a.model.lkml", RootName: "r", Role: model.RolePrimary, EntityName: "e1"},
		{ContainerPath: "b.model.lkml", RootName: "r", Role: model.RolePrimary, EntityName: "e1"},
		{ContainerPath: "b.model.lkml", RootName: "r", Role: model.RoleJoin, EntityName: "e2"},
	}

	v := FromRows(rows)

	assert.Len(t, v.Edges, len(rows)+2)
	for _, n := range v.Nodes {
		assert.Greater(t, n.Weight, 0.0, n.ID)
		assert.LessOrEqual(t, n.Weight, 1.0, n.ID)
	}
	assert.NotEqual(t, RootID("a.model.lkml", "r"), RootID("b.model.lkml", "r"))
}

func TestFromRows_Empty(t *testing.T) {
	t.Parallel()

	v := FromRows(nil)

	assert.Empty(t, v.Nodes)
	assert.Empty(t, v.Edges)
}
