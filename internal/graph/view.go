package graph

import (
	"github.com/specialistvlad/lookmlaudit/internal/model"
)

// Kind is the type of a node.
type Kind string

const (
	KindContainer Kind = "container"
	KindRoot      Kind = "root"
	KindEntity    Kind = "entity"
)

// RoleContains labels container -> root edges.
const RoleContains = "contains"

// Length hints per edge role.
const (
	LengthPrimary  = 1.0
	LengthJoin     = 1.5
	LengthContains = 2.0
)

// Node is a vertex of the view.
type Node struct {
	ID     string  `json:"id" yaml:"id"`
	Kind   Kind    `json:"kind" yaml:"kind"`
	Label  string  `json:"label" yaml:"label"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// Edge connects two nodes by ID.
type Edge struct {
	From   string  `json:"from" yaml:"from"`
	To     string  `json:"to" yaml:"to"`
	Role   string  `json:"role" yaml:"role"`
	Length float64 `json:"length" yaml:"length"`
}

// View is the serializable graph of a project.
type View struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// ContainerID returns the node ID of a container file.
func ContainerID(path string) string { return "container:" + path }

// RootID returns the node ID of a query root inside a container.
func RootID(container, root string) string { return "root:" + container + "/" + root }

// EntityID returns the node ID of an entity.
func EntityID(name string) string { return "entity:" + name }

// FromRows builds the view. Nodes appear in the order they are first seen;
// there is one edge per row plus one contains edge per query root.
func FromRows(rows []model.Row) View {
	b := viewBuilder{
		index:  make(map[string]int),
		degree: make(map[string]int),
	}
	seenRoot := make(map[string]struct{})

	for _, r := range rows {
		cid := ContainerID(r.ContainerPath)
		rid := RootID(r.ContainerPath, r.RootName)
		eid := EntityID(r.EntityName)

		b.node(cid, KindContainer, r.ContainerPath)
		b.node(rid, KindRoot, r.RootName)
		if _, ok := seenRoot[rid]; !ok {
			seenRoot[rid] = struct{}{}
			b.edge(cid, rid, RoleContains, LengthContains)
		}
		b.node(eid, KindEntity, r.EntityName)

		length := LengthPrimary
		if r.Role == model.RoleJoin {
			length = LengthJoin
		}
		b.edge(rid, eid, string(r.Role), length)
	}

	b.weigh()
	return View{Nodes: b.nodes, Edges: b.edges}
}

type viewBuilder struct {
	nodes  []Node
	edges  []Edge
	index  map[string]int
	degree map[string]int
}

func (b *viewBuilder) node(id string, kind Kind, label string) {
	if _, ok := b.index[id]; ok {
		return
	}
	b.index[id] = len(b.nodes)
	b.nodes = append(b.nodes, Node{ID: id, Kind: kind, Label: label})
}

func (b *viewBuilder) edge(from, to, role string, length float64) {
	b.edges = append(b.edges, Edge{From: from, To: to, Role: role, Length: length})
	b.degree[from]++
	b.degree[to]++
}

// weigh sets every node's weight to its degree over the maximum degree.
func (b *viewBuilder) weigh() {
	maxDegree := 0
	for _, d := range b.degree {
		maxDegree = max(maxDegree, d)
	}
	if maxDegree == 0 {
		return
	}
	for i := range b.nodes {
		b.nodes[i].Weight = float64(b.degree[b.nodes[i].ID]) / float64(maxDegree)
	}
}
