package builder

import (
	"github.com/specialistvlad/lookmlaudit/internal/dag"
	"github.com/specialistvlad/lookmlaudit/internal/registry"
)

// extensionIssues checks the extends graph of the registry. It returns the
// extension cycles, rendered as "a -> b -> a", and the references to
// entities that are not defined, rendered as "child extends parent".
func extensionIssues(reg *registry.Registry) (cycles, unknown []string) {
	g := dag.New()
	names := reg.Names()
	for _, name := range names {
		g.AddNode(name)
	}
	for _, name := range names {
		for _, parent := range reg.ExtendsOf(name) {
			if !g.Has(parent) {
				unknown = append(unknown, name+" extends "+parent)
				continue
			}
			// Both nodes exist, so the edge cannot fail.
			_ = g.AddEdge(name, parent)
		}
	}
	for _, c := range g.Cycles() {
		cycles = append(cycles, dag.FormatCycle(c))
	}
	return cycles, unknown
}
