package document

import (
	"fmt"

	"github.com/matzehuels/grapher/pkg/box"
	"github.com/matzehuels/grapher/pkg/diagram"
)

// Graph builds a diagram graph from the document. opts are applied after
// the document's own compound and direction settings.
func (d *Document) Graph(opts ...diagram.Option) (*diagram.Graph, error) {
	compound := d.Compound
	for _, n := range d.Nodes {
		if n.Parent != "" {
			compound = true
		}
	}
	base := []diagram.Option{diagram.WithCompound(compound)}
	if d.Direction != "" {
		base = append(base, diagram.WithDirection(d.Direction))
	}
	g := diagram.New(append(base, opts...)...)

	for _, n := range d.Nodes {
		g.SetNode(n.ID, n.box())
		if entry, ok := g.Node(n.ID); ok {
			entry.RX, entry.RY = n.RX, n.RY
		}
	}
	for _, n := range d.Nodes {
		if n.Parent == "" {
			continue
		}
		if err := g.SetParent(n.ID, n.Parent); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range d.Edges {
		edge := &diagram.Edge{
			Label:  e.Label,
			ID:     e.ID,
			Class:  e.Class,
			MinLen: e.MinLen,
			Weight: e.Weight,
		}
		if err := g.SetEdge(e.From, e.To, edge); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}
	return g, nil
}

// box converts a node description. Blocks are stacked header, arguments,
// canvas; a node without any gets a header showing its id.
func (n *Node) box() *box.Node {
	out := box.NewNode()
	out.ID = n.ID
	out.Class = n.Class

	header := n.Header
	if len(header) == 0 && len(n.Arguments) == 0 && !n.Canvas && n.ID != "" {
		header = []Entry{{Content: n.ID}}
	}
	if len(header) > 0 {
		h := out.Header()
		for _, e := range header {
			h.Add(e.ID, e.Classes, e.Content, e.Tooltip)
		}
	}
	if len(n.Arguments) > 0 {
		list := out.List()
		for _, a := range n.Arguments {
			arg := box.NewArgument(a.Name, a.content())
			arg.ID = a.ID
			arg.Separator = a.Separator
			arg.Tooltip = a.Tooltip
			list.Add(arg)
		}
	}
	if n.Canvas {
		out.Canvas()
	}
	return out
}

func (a *Argument) content() box.Content {
	switch {
	case a.Node != nil:
		return box.Nested(a.Node.box())
	case len(a.Nodes) > 0:
		nodes := make([]*box.Node, len(a.Nodes))
		for i, n := range a.Nodes {
			nodes[i] = n.box()
		}
		return box.NestedList(nodes...)
	default:
		return box.Text(a.Value)
	}
}
