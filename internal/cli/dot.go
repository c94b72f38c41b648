package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	dlio "github.com/matzehuels/drawlayout/pkg/io"
	"github.com/matzehuels/drawlayout/pkg/layout/container"
	"github.com/matzehuels/drawlayout/pkg/layout/delegate"
)

// dotCommand prints the DOT form of a document's top level.
func (c *CLI) dotCommand() *cobra.Command {
	var flags configFlags

	cmd := &cobra.Command{
		Use:   "dot [graph.json|graph.yaml]",
		Short: "Print the Graphviz DOT form of a graph",
		Long: `Print the Graphviz DOT form of a graph's top level.

Containers are laid out first so they appear as boxes of their final size.
The output can be piped to the dot or neato tools for comparison.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDOT(cmd.Context(), args[0], flags, cmd.OutOrStdout())
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func (c *CLI) runDOT(ctx context.Context, input string, flags configFlags, w io.Writer) error {
	cfg, err := flags.resolve()
	if err != nil {
		return err
	}
	g, err := dlio.Import(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	if g.ContainerCount() > 0 {
		m, err := c.newManager(ctx, backendOptions{kind: backendNone})
		if err != nil {
			return err
		}
		defer m.Close()
		if err := m.Layout(ctx, g, cfg); err != nil {
			return fmt.Errorf("size containers: %w", err)
		}
	} else {
		g.EnsureSizes()
	}

	dot, err := delegate.ToDOT(container.TopLevel(g), g.Config.Merge(cfg))
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, dot)
	return err
}
