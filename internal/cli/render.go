package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/grapher/pkg/box"
	"github.com/matzehuels/grapher/pkg/cache"
	"github.com/matzehuels/grapher/pkg/config"
	"github.com/matzehuels/grapher/pkg/diagram"
	"github.com/matzehuels/grapher/pkg/document"
	"github.com/matzehuels/grapher/pkg/errors"
	"github.com/matzehuels/grapher/pkg/layout"
	"github.com/matzehuels/grapher/pkg/layout/graphviz"
	"github.com/matzehuels/grapher/pkg/layout/worker"
	"github.com/matzehuels/grapher/pkg/surface"
	"github.com/matzehuels/grapher/pkg/surface/svg"
)

// viewPadding surrounds the diagram bounds in the written viewBox.
const viewPadding = 10

// renderOptions holds the render command flags.
type renderOptions struct {
	output     string
	direction  string
	worker     string
	redis      string
	configPath string
	stylesheet string
	selected   []string
	timeout    time.Duration
	timeoutSet bool
	noPrompt   bool
	noCache    bool
}

// merge fills unset flags from the config file.
func (o *renderOptions) merge(cfg config.Config) {
	if o.worker == "" {
		o.worker = cfg.Worker.URL
	}
	if o.redis == "" {
		o.redis = cfg.Cache.RedisAddr
	}
	if !o.timeoutSet {
		o.timeout = cfg.Layout.Timeout
	}
	o.noCache = o.noCache || cfg.Cache.Disabled
}

// outputPath returns the -o flag, or the input path with an .svg extension.
func (o *renderOptions) outputPath(input string) string {
	if o.output != "" {
		return o.output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".svg"
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render <diagram.json>",
		Short: "Lay out a diagram and write it as SVG",
		Long: `Render reads a JSON diagram description, lays it out and writes an SVG file.

Layouts run in-process with Graphviz unless --worker names a layout worker.
A layout taking longer than --timeout asks whether to keep waiting; pass
--no-prompt to always wait. Results are cached by request unless --no-cache
is set, in Redis when --redis is given.`,
		Example: `  grapher render diagram.json
  grapher render diagram.json -o out.svg --direction vertical
  grapher render big.json --worker http://localhost:8095 --timeout 10s`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.timeoutSet = cmd.Flags().Changed("timeout")
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input with .svg, - for stdout)")
	cmd.Flags().StringVar(&opts.direction, "direction", "", "rank direction: horizontal or vertical")
	cmd.Flags().StringVar(&opts.worker, "worker", "", "layout worker URL")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", layout.DefaultTimeout, "time before asking whether to keep waiting (0 waits)")
	cmd.Flags().BoolVar(&opts.noPrompt, "no-prompt", false, "keep waiting for slow layouts without asking")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "Redis address for the layout cache")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default: user config dir)")
	cmd.Flags().StringVar(&opts.stylesheet, "css", "", "stylesheet replacing the built-in one")
	cmd.Flags().StringSliceVar(&opts.selected, "select", nil, "ids of nodes, entries or edges to mark selected")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOptions) error {
	ctx = withLogger(ctx, c.Logger)

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	opts.merge(cfg)
	if err := errors.ValidateDirection(opts.direction); err != nil {
		return err
	}

	doc, err := document.ImportJSON(input)
	if err != nil {
		return err
	}
	if opts.direction == "" && doc.Direction == "" {
		opts.direction = cfg.Layout.Direction
	}

	canvas, err := newCanvas(opts.stylesheet)
	if err != nil {
		return err
	}

	spinner := newSpinner(ctx, os.Stderr, "Laying out "+filepath.Base(input))
	defer spinner.Stop()

	graphOpts := []diagram.Option{
		diagram.WithLogger(c.Logger),
		diagram.WithNodeSeparation(cfg.Layout.NodeSeparation),
		diagram.WithRankSeparation(cfg.Layout.RankSeparation),
		diagram.WithTimeout(opts.timeout),
		diagram.WithPrompter(c.prompter(opts.noPrompt, spinner.Stop)),
	}
	if opts.direction != "" {
		graphOpts = append(graphOpts, diagram.WithDirection(opts.direction))
	}
	graph, err := doc.Graph(graphOpts...)
	if err != nil {
		return err
	}

	graph.Build(canvas, canvas.Root())
	graph.Measure()

	engine, closeEngine, err := newEngine(ctx, opts, cfg.Cache)
	if err != nil {
		return err
	}
	defer closeEngine()

	prog := newProgress(c.Logger)
	spinner.Start()
	status, err := graph.Layout(ctx, engine)
	spinner.Stop()
	if status == layout.StatusCancelled {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		printWarning("Layout cancelled, nothing written")
		return nil
	}
	if err != nil {
		return fmt.Errorf("layout %s: %w", input, err)
	}
	prog.done(fmt.Sprintf("Laid out %d nodes", len(graph.Nodes())))

	graph.Update(box.NewSelectionSet(opts.selected...))
	canvas.SetViewBox(pad(graph.Bounds(), viewPadding))

	out := opts.outputPath(input)
	if err := writeOutput(out, canvas); err != nil {
		return err
	}
	if out == "-" {
		return nil
	}

	clusters := 0
	for _, n := range graph.Nodes() {
		if graph.IsCluster(n.ID) {
			clusters++
		}
	}
	printSuccess("Rendered %s", filepath.Base(input))
	fmt.Println(statsLine(len(graph.Nodes())-clusters, clusters, len(graph.Edges()), layout.EngineName(engine)))
	printFile(out)
	return nil
}

// newCanvas returns an SVG document measuring text with the bundled font.
func newCanvas(stylesheet string) (*svg.Document, error) {
	measurer, err := svg.DefaultMeasurer()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	opts := []svg.Option{svg.WithMeasurer(measurer)}
	if stylesheet != "" {
		css, err := os.ReadFile(stylesheet)
		if err != nil {
			return nil, fmt.Errorf("read stylesheet: %w", err)
		}
		opts = append(opts, svg.WithStylesheet(string(css)))
	}
	return svg.New(opts...), nil
}

// newEngine returns the layout engine behind the layout cache, and a
// function releasing the cache.
func newEngine(ctx context.Context, opts renderOptions, cfg config.CacheConfig) (layout.Engine, func(), error) {
	logger := loggerFromContext(ctx)

	var engine layout.Engine
	if opts.worker != "" {
		client, err := worker.NewClient(opts.worker, worker.WithClientLogger(logger))
		if err != nil {
			return nil, nil, err
		}
		engine = client
	} else {
		engine = graphviz.New(graphviz.WithLogger(logger))
	}

	store, err := newCache(ctx, cacheOptions{disabled: opts.noCache, redisAddr: opts.redis, dir: cfg.Dir})
	if err != nil {
		logger.Warn("layout cache unavailable", "error", err)
		store = cache.NewNullCache()
	}
	cached := layout.Cached(engine, store, layout.WithTTL(cfg.TTL), layout.WithCacheLogger(logger))
	return cached, func() { _ = store.Close() }, nil
}

// prompter asks on the terminal, or always waits when prompting is off or
// stdin is not a terminal. before runs ahead of each interactive prompt.
func (c *CLI) prompter(noPrompt bool, before func()) layout.Prompter {
	if noPrompt || !isatty.IsTerminal(os.Stdin.Fd()) {
		return layout.Always(layout.DecisionWait)
	}
	return teaPrompter{in: os.Stdin, out: os.Stderr, before: before}
}

func pad(r surface.Rect, p float64) surface.Rect {
	return surface.Rect{X: r.X - p, Y: r.Y - p, Width: r.Width + 2*p, Height: r.Height + 2*p}
}

// writeOutput writes the document to path, or to stdout for "-".
func writeOutput(path string, doc io.WriterTo) error {
	if path == "-" {
		_, err := doc.WriteTo(os.Stdout)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if _, err := doc.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
