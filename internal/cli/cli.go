// Package cli implements the drawlayout command-line interface.
//
// # Commands
//
//   - layout: position a graph document and write it back with geometry
//   - engines: list the layout engines
//   - dot: print the Graphviz DOT form of a graph's top level
//   - cache: manage the on-disk layout cache
//   - completion: generate shell completion scripts
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/drawlayout/pkg/buildinfo"
	"github.com/matzehuels/drawlayout/pkg/cache"
	"github.com/matzehuels/drawlayout/pkg/errors"
	"github.com/matzehuels/drawlayout/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and key prefixes.
	appName = "drawlayout"

	// defaultCacheTTL is how long persisted layouts live in shared backends.
	defaultCacheTTL = 7 * 24 * time.Hour
)

// Cache backends selectable with --cache.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendMongo = "mongo"
	backendNone  = "none"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "drawlayout positions boxes-and-arrows diagrams",
		Long:         `drawlayout computes positions for the nodes, containers and edges of a diagram described as a JSON or YAML graph document, using a layered, force-directed or Graphviz layout.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.enginesCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Manager Factory
// =============================================================================

// backendOptions selects the persistent layout store.
type backendOptions struct {
	kind      string
	redisAddr string
	mongoURI  string
}

// newManager creates a layout manager backed by the selected store.
func (c *CLI) newManager(ctx context.Context, opts backendOptions) (*pipeline.Manager, error) {
	backend, err := c.newBackend(ctx, opts)
	if err != nil {
		return nil, err
	}
	mopts := pipeline.Options{Backend: backend, Logger: c.Logger}
	switch opts.kind {
	case backendRedis, backendMongo:
		mopts.TTL = defaultCacheTTL
		mopts.Keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName+":")
	}
	m, err := pipeline.NewManager(mopts)
	if err != nil && backend != nil {
		backend.Close()
	}
	return m, err
}

// newBackend opens the persistent store. A file cache that cannot be
// created is skipped with a warning; remote stores that cannot be reached
// are an error.
func (c *CLI) newBackend(ctx context.Context, opts backendOptions) (cache.Cache, error) {
	switch strings.ToLower(opts.kind) {
	case backendNone:
		return nil, nil
	case "", backendFile:
		dir, err := cache.DefaultDir()
		if err != nil {
			c.Logger.Warn("file cache disabled", "err", err)
			return nil, nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			c.Logger.Warn("file cache disabled", "dir", dir, "err", err)
			return nil, nil
		}
		return fc, nil
	case backendRedis:
		cfg := cache.RedisConfig{Addr: opts.redisAddr}
		if strings.Contains(opts.redisAddr, "://") {
			cfg = cache.RedisConfig{URL: opts.redisAddr}
		}
		rc, err := cache.NewRedisCache(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return rc, nil
	case backendMongo:
		mc, err := cache.NewMongoCache(ctx, cache.MongoConfig{URI: opts.mongoURI})
		if err != nil {
			return nil, err
		}
		return mc, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q (want file, redis, mongo or none)", opts.kind)
	}
}
