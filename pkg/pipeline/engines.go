package pipeline

import (
	"github.com/matzehuels/drawlayout/pkg/layout"
	"github.com/matzehuels/drawlayout/pkg/layout/delegate"
	"github.com/matzehuels/drawlayout/pkg/layout/force"
	"github.com/matzehuels/drawlayout/pkg/layout/hierarchical"
)

// DefaultRegistry returns a registry with every built-in engine:
// hierarchical (alias dagre), force, and the Graphviz delegates elk,
// graphviz and neato.
func DefaultRegistry() *layout.Registry {
	r := layout.NewRegistry()

	h := hierarchical.New()
	r.Register(layout.NameHierarchical, h)
	r.Register(layout.NameDagre, h)
	r.Register(layout.NameForce, force.New())

	dot := delegate.New(layout.NameGraphviz)
	r.Register(layout.NameGraphviz, dot)
	r.Register(layout.NameELK, delegate.New(layout.NameELK))
	r.Register(layout.NameNeato, delegate.New(layout.NameNeato))
	return r
}
