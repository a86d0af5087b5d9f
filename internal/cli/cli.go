package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/grapher/pkg/buildinfo"
	"github.com/matzehuels/grapher/pkg/cache"
	"github.com/matzehuels/grapher/pkg/config"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "grapher"

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
		Short:        "Grapher renders compound graph diagrams as SVG",
		Long:         `Grapher lays out graphs of boxed nodes, nested clusters and labelled edges with Graphviz and writes them as SVG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.workerCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config and Cache
// =============================================================================

// loadConfig reads path, or the default config file when path is empty.
// Only an explicitly named file has to exist.
func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path, false)
	}
	def, err := config.DefaultPath()
	if err != nil {
		return config.Default(), nil
	}
	return config.Load(def, true)
}

// cacheOptions selects the layout cache backend.
type cacheOptions struct {
	disabled  bool
	redisAddr string
	dir       string
}

// newCache returns the layout cache: none when disabled, Redis when an
// address is set, the cache directory otherwise.
func newCache(ctx context.Context, opts cacheOptions) (cache.Cache, error) {
	switch {
	case opts.disabled:
		return cache.NewNullCache(), nil
	case opts.redisAddr != "":
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: opts.redisAddr})
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	dir := opts.dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/grapher/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
