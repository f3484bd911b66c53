package dag

import (
	"fmt"
	"strings"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = &node{id: id, depSet: make(map[string]struct{})}
	g.order = append(g.order, id)
}

// AddEdge records that fromID depends on toID. Both nodes must exist.
// Self-references are allowed; they are the shortest possible cycle.
func (g *Graph) AddEdge(fromID, toID string) error {
	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}
	if _, ok := g.nodes[toID]; !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}
	if _, dup := fromNode.depSet[toID]; dup {
		return nil
	}
	fromNode.depSet[toID] = struct{}{}
	fromNode.deps = append(fromNode.deps, toID)
	return nil
}

// Has reports whether the node exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Cycles returns every cycle reachable by depth-first search, each as the
// path of node IDs that closes on its first element. A cycle is reported
// once, starting from the node through which the search entered it.
func (g *Graph) Cycles() [][]string {
	// permanent: fully visited. onStack: in the current traversal path.
	permanent := make(map[string]bool)
	onStack := make(map[string]int)
	var stack []string
	var cycles [][]string

	var visit func(n *node)
	visit = func(n *node) {
		onStack[n.id] = len(stack)
		stack = append(stack, n.id)

		for _, depID := range n.deps {
			if i, ok := onStack[depID]; ok {
				cycle := append([]string(nil), stack[i:]...)
				cycles = append(cycles, append(cycle, depID))
				continue
			}
			if !permanent[depID] {
				visit(g.nodes[depID])
			}
		}

		stack = stack[:len(stack)-1]
		delete(onStack, n.id)
		permanent[n.id] = true
	}

	for _, id := range g.order {
		if !permanent[id] {
			visit(g.nodes[id])
		}
	}
	return cycles
}

// FormatCycle renders a cycle path as "a -> b -> a".
func FormatCycle(path []string) string {
	return strings.Join(path, " -> ")
}
