package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drawlayout/pkg/igr"
	"github.com/matzehuels/drawlayout/pkg/layout"
	"github.com/matzehuels/drawlayout/pkg/pipeline"
)

// engineDescriptions is shown next to each engine name.
var engineDescriptions = map[string]string{
	layout.NameHierarchical: "layered layout with crossing minimization",
	layout.NameDagre:        "alias of hierarchical",
	layout.NameForce:        "spring-electrical simulation",
	layout.NameGraphviz:     "Graphviz dot",
	layout.NameELK:          "layered layout via Graphviz dot",
	layout.NameNeato:        "Graphviz neato (stress majorization)",
}

// enginesCommand lists the registered layout engines.
func (c *CLI) enginesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "engines",
		Short: "List the available layout engines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, StyleTitle.Render("Layout engines"))
			for _, name := range pipeline.DefaultRegistry().Names() {
				line := fmt.Sprintf("  %-14s %s", name, StyleDim.Render(engineDescriptions[name]))
				if name == igr.DefaultAlgorithm {
					line += " " + StyleHighlight.Render("(default)")
				}
				fmt.Fprintln(w, line)
			}
			return nil
		},
	}
}
