package diagram

import (
	"context"
	"slices"
	"time"

	"github.com/matzehuels/grapher/pkg/errors"
	"github.com/matzehuels/grapher/pkg/layout"
)

// Request flattens the graph into a layout request.
func (g *Graph) Request() *layout.Request {
	req := &layout.Request{
		Nodes: make([]layout.Node, 0, len(g.nodeOrder)),
		Edges: make([]layout.Edge, 0, len(g.edgeOrder)),
		Options: layout.Options{
			NodeSeparation: g.nodeSeparation,
			RankSeparation: g.rankSeparation,
		},
	}
	for _, id := range g.nodeOrder {
		n := g.nodes[id].Label
		parent, _ := g.Parent(id)
		req.Nodes = append(req.Nodes, layout.Node{
			ID:       id,
			Width:    n.Width,
			Height:   n.Height,
			ParentID: parent,
		})
	}
	for _, k := range g.edgeOrder {
		e := g.edges[k].Label
		req.Edges = append(req.Edges, layout.Edge{
			From:        k.from,
			To:          k.to,
			MinLen:      orDefault(e.MinLen, layout.DefaultMinLen),
			Weight:      orDefault(e.Weight, layout.DefaultWeight),
			Width:       e.Width,
			Height:      e.Height,
			LabelOffset: orDefault(e.LabelOffset, layout.DefaultLabelOffset),
			LabelPos:    orDefault(e.LabelPos, layout.DefaultLabelPos),
		})
	}

	rotate := g.direction != DirectionVertical
	if len(req.Edges) == 0 {
		rotate = g.direction == DirectionVertical
		slices.Reverse(req.Nodes)
	}
	if rotate {
		req.Options.Direction = layout.RankDirLR
	}
	if len(req.Nodes) > layout.LargeGraphThreshold {
		req.Options.Ranker = layout.RankerLongestPath
	}
	return req
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

// Layout asks engine for positions and applies them. With a timeout
// configured the engine runs as a task and the prompter decides what
// happens once the timeout elapses.
//
// A cancelled layout returns layout.StatusCancelled and leaves every
// position untouched. Only one layout may run per graph at a time.
func (g *Graph) Layout(ctx context.Context, engine layout.Engine) (layout.Status, error) {
	if !g.inFlight.CompareAndSwap(false, true) {
		return layout.StatusFailed, errors.New(errors.ErrCodeLayoutInProgress, "a layout is already running for this graph")
	}
	defer g.inFlight.Store(false)

	req := g.Request()
	start := time.Now()
	resp, status, err := layout.Run(ctx, engine, req, layout.RunOptions{
		Timeout:  g.timeout,
		Prompter: g.prompter,
		Logger:   g.logger,
	})
	if status != layout.StatusDone {
		if status == layout.StatusCancelled {
			g.logger.Info("layout cancelled", "nodes", len(req.Nodes))
		}
		return status, err
	}

	g.apply(resp)
	g.logger.Info("layout complete", "nodes", len(req.Nodes), "edges", len(req.Edges), "duration", time.Since(start))
	return layout.StatusDone, nil
}

func (g *Graph) apply(resp *layout.Response) {
	for _, nr := range resp.Nodes {
		entry, ok := g.nodes[nr.ID]
		if !ok {
			continue
		}
		n := entry.Label
		n.X, n.Y = nr.X, nr.Y
		if g.IsCluster(nr.ID) {
			n.Width, n.Height = nr.Width, nr.Height
		}
	}
	for _, er := range resp.Edges {
		entry, ok := g.edges[edgeKey{er.From, er.To}]
		if !ok {
			continue
		}
		e := entry.Label
		e.Points = slices.Clone(er.Points)
		if er.X != nil && er.Y != nil {
			e.X, e.Y = *er.X, *er.Y
		}
		e.bind(g)
	}
	for _, id := range g.nodeOrder {
		if !g.IsCluster(id) {
			g.nodes[id].Label.Layout()
		}
	}
}
