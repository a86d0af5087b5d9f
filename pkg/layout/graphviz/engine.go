package graphviz

import (
	"bytes"
	"context"
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/grapher/pkg/curve"
	"github.com/matzehuels/grapher/pkg/layout"
)

// Name is the engine name reported to logs and cache keys.
const Name = "graphviz"

// ClusterPadding is the margin between a cluster and its members, matching
// the Graphviz cluster margin.
const ClusterPadding = 8

// plainFormat is the Graphviz output format Engine parses.
const plainFormat graphviz.Format = "plain"

// Engine is a layout.Engine backed by Graphviz dot.
type Engine struct {
	logger *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New returns a Graphviz engine.
func New(opts ...Option) *Engine {
	e := &Engine{logger: log.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements layout.Namer.
func (e *Engine) Name() string { return Name }

// Layout implements layout.Engine. The Graphviz call itself cannot be
// interrupted; on cancellation its result is discarded and a cancel
// acknowledgement is returned right away.
func (e *Engine) Layout(ctx context.Context, req *layout.Request) (*layout.Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return layout.CancelResponse(), nil
	}
	if len(req.Nodes) == 0 {
		return &layout.Response{Type: layout.TypeLayout}, nil
	}

	dot := ToDOT(req)
	e.logger.Debug("graphviz layout", "nodes", len(req.Nodes), "edges", len(req.Edges))

	type result struct {
		out []byte
		err error
	}
	ch := make(chan result, 1)
	go func() {
		out, err := renderPlain(context.WithoutCancel(ctx), dot)
		ch <- result{out, err}
	}()

	select {
	case <-ctx.Done():
		return layout.CancelResponse(), nil
	case r := <-ch:
		if r.err != nil {
			return nil, r.err
		}
		pg, err := parsePlain(r.out)
		if err != nil {
			return nil, fmt.Errorf("parse graphviz output: %w", err)
		}
		return buildResponse(req, pg)
	}
}

func renderPlain(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, plainFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

type bounds struct{ minX, minY, maxX, maxY float64 }

func emptyBounds() bounds {
	return bounds{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
}

func (b bounds) empty() bool { return b.minX > b.maxX }

func (b *bounds) add(o bounds) {
	b.minX = math.Min(b.minX, o.minX)
	b.minY = math.Min(b.minY, o.minY)
	b.maxX = math.Max(b.maxX, o.maxX)
	b.maxY = math.Max(b.maxY, o.maxY)
}

// buildResponse maps plain output back onto request ids.
func buildResponse(req *layout.Request, pg *plainGraph) (*layout.Response, error) {
	h := newHierarchy(req)
	boxes := make([]bounds, len(req.Nodes))
	done := make([]bool, len(req.Nodes))

	var measure func(i int) (bounds, error)
	measure = func(i int) (bounds, error) {
		if done[i] {
			return boxes[i], nil
		}
		b := emptyBounds()
		if !h.cluster(i) {
			pn, ok := pg.Nodes[nodeName(i)]
			if !ok {
				return b, fmt.Errorf("graphviz output is missing node %q", req.Nodes[i].ID)
			}
			n := req.Nodes[i]
			b = bounds{pn.X - n.Width/2, pn.Y - n.Height/2, pn.X + n.Width/2, pn.Y + n.Height/2}
		} else {
			for _, c := range h.children[i] {
				cb, err := measure(c)
				if err != nil {
					return b, err
				}
				b.add(cb)
			}
			b.minX -= ClusterPadding
			b.minY -= ClusterPadding
			b.maxX += ClusterPadding
			b.maxY += ClusterPadding
		}
		boxes[i], done[i] = b, true
		return b, nil
	}

	resp := &layout.Response{Type: layout.TypeLayout}
	for i, n := range req.Nodes {
		b, err := measure(i)
		if err != nil {
			return nil, err
		}
		nr := layout.NodeResult{ID: n.ID}
		if !b.empty() {
			nr.X = (b.minX + b.maxX) / 2
			nr.Y = (b.minY + b.maxY) / 2
		}
		if h.cluster(i) {
			nr.Width = b.maxX - b.minX
			nr.Height = b.maxY - b.minY
		}
		resp.Nodes = append(resp.Nodes, nr)
	}

	// Plain output lists edges in traversal order; match them to request
	// edges by their endpoint leaves, first come first served.
	type pair struct{ tail, head string }
	queues := make(map[pair][]plainEdge)
	for _, pe := range pg.Edges {
		k := pair{pe.Tail, pe.Head}
		queues[k] = append(queues[k], pe)
	}
	for _, e := range req.Edges {
		from, to := h.index[e.From], h.index[e.To]
		k := pair{nodeName(h.leaf(from)), nodeName(h.leaf(to))}
		q := queues[k]
		if len(q) == 0 {
			return nil, fmt.Errorf("graphviz output is missing edge %q -> %q", e.From, e.To)
		}
		pe := q[0]
		queues[k] = q[1:]

		er := layout.EdgeResult{From: e.From, To: e.To}
		for _, p := range pe.Points {
			er.Points = append(er.Points, curve.Point{X: p[0], Y: p[1]})
		}
		if len(er.Points) < 2 {
			er.Points = straightRoute(boxes[from], boxes[to])
		}
		if pe.HasLabel {
			x, y := pe.LabelX, pe.LabelY
			er.X, er.Y = &x, &y
		}
		resp.Edges = append(resp.Edges, er)
	}
	return resp, nil
}

// straightRoute joins two box centers.
func straightRoute(a, b bounds) []curve.Point {
	return []curve.Point{
		{X: (a.minX + a.maxX) / 2, Y: (a.minY + a.maxY) / 2},
		{X: (b.minX + b.maxX) / 2, Y: (b.minY + b.maxY) / 2},
	}
}

var _ layout.Engine = (*Engine)(nil)
