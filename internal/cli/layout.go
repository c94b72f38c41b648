package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/drawlayout/pkg/igr"
	dlio "github.com/matzehuels/drawlayout/pkg/io"
)

// configFlags are the layout options shared by the layout and dot commands.
// Flags override the --config file, which overrides the document's config
// block.
type configFlags struct {
	file string
	cfg  igr.Config
}

func (f *configFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.file, "config", "", "TOML file with layout options")
	fs.StringVarP(&f.cfg.Algorithm, "engine", "e", "", "layout engine: hierarchical (dagre), force, graphviz, elk, neato")
	fs.StringVarP((*string)(&f.cfg.Direction), "direction", "d", "", "flow direction: TB, BT, LR, RL")
	fs.Float64Var(&f.cfg.NodeSpacing, "node-spacing", 0, "gap between boxes in a rank (default 80)")
	fs.Float64Var(&f.cfg.EdgeSpacing, "edge-spacing", 0, "gap around edge bends (default 20)")
	fs.Float64Var(&f.cfg.RankSpacing, "rank-spacing", 0, "gap between ranks (default 150)")
	fs.IntVar(&f.cfg.Iterations, "iterations", 0, "force simulation steps (default 200)")
	fs.IntVar(&f.cfg.Sweeps, "sweeps", 0, "crossing-minimization sweeps (default 8)")
	fs.Uint64Var(&f.cfg.Seed, "seed", 0, "seed for the force simulation")
	fs.Float64Var(&f.cfg.IdealEdgeLength, "edge-length", 0, "ideal edge length of the force simulation (default 150)")
	fs.Float64Var(&f.cfg.Padding, "padding", 0, "padding inside containers (default 20)")
	fs.BoolVar(&f.cfg.Sequential, "sequential", false, "lay out sibling containers one at a time")
	fs.StringVar(&f.cfg.Fallback, "fallback", "", "engine to use when an external engine fails")
}

// resolve returns the file options with the flag options applied on top.
func (f *configFlags) resolve() (igr.Config, error) {
	var cfg igr.Config
	if f.file != "" {
		var err error
		if cfg, err = dlio.ReadConfigFile(f.file); err != nil {
			return cfg, err
		}
	}
	return cfg.Merge(f.cfg), nil
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		flags   configFlags
		backend backendOptions
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json|graph.yaml]",
		Short: "Compute positions for a graph document",
		Long: `Compute positions for every node, container and edge of a graph document.

The document is written back in the same format with x, y, width and height
set on every node, bounds on every container and start and end points on
every edge. Use -o - to write the result to stdout.

Results are cached, by default in the user cache directory. Use --cache redis
or --cache mongo to share layouts between machines.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noCache {
				backend.kind = backendNone
			}
			return c.runLayout(cmd.Context(), args[0], output, flags, backend)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.<ext>)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the persistent cache")
	cmd.Flags().StringVar(&backend.kind, "cache", backendFile, "cache backend: file, redis, mongo, none")
	cmd.Flags().StringVar(&backend.redisAddr, "redis-addr", "localhost:6379", "Redis address or redis:// URL")
	cmd.Flags().StringVar(&backend.mongoURI, "mongo-uri", "mongodb://localhost:27017", "MongoDB connection URI")
	flags.register(cmd.Flags())

	return cmd
}

// runLayout reads the document, lays it out and writes the result.
func (c *CLI) runLayout(ctx context.Context, input, output string, flags configFlags, backend backendOptions) error {
	cfg, err := flags.resolve()
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	g, err := dlio.Import(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	prog.done("read graph", "path", input, "nodes", g.NodeCount())

	m, err := c.newManager(ctx, backend)
	if err != nil {
		return fmt.Errorf("initialize layout: %w", err)
	}
	defer m.Close()

	toStdout := output == "-"
	eff := g.Config.Merge(cfg).WithDefaults()

	var spinner *Spinner
	if !toStdout {
		spinner = newSpinner(ctx, fmt.Sprintf("Computing %s layout...", eff.Algorithm))
		spinner.Start()
	}
	res, err := m.LayoutWithCacheInfo(ctx, g, cfg)
	if spinner != nil {
		if err != nil {
			spinner.StopWithError("Layout failed")
		} else {
			spinner.Stop()
		}
	}
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if toStdout {
		format, err := dlio.FormatFromPath(input)
		if err != nil {
			return err
		}
		return dlio.Write(g, os.Stdout, format)
	}

	if output == "" {
		output = defaultOutput(input)
	}
	if err := dlio.Export(g, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(g.NodeCount(), g.EdgeCount(), g.ContainerCount(), res.Engine, res.CacheHit)
	if res.Engine != res.Requested {
		printWarning("%s failed, used %s instead", res.Requested, res.Engine)
	}
	printDetail("run %s in %s", res.RunID[:8], res.Duration.Round(time.Millisecond))
	printNewline()
	printNextStep("Graphviz export", appName+" dot "+input)
	return nil
}

// defaultOutput derives "<base>.layout<ext>" from the input path.
func defaultOutput(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ".layout" + ext
}
