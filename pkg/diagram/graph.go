package diagram

import (
	"slices"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/grapher/pkg/box"
	"github.com/matzehuels/grapher/pkg/errors"
	"github.com/matzehuels/grapher/pkg/layout"
	"github.com/matzehuels/grapher/pkg/surface"
)

// root is the synthetic parent of every top-level node in a compound graph.
// It can never collide with a user id.
const root = "\x00"

// Layout directions. The engine ranks left to right unless the direction
// is vertical; a graph without edges flips this.
const (
	DirectionHorizontal = "horizontal"
	DirectionVertical   = "vertical"
)

// NodeEntry is a node stored in the graph.
type NodeEntry struct {
	ID    string
	Label *box.Node

	// RX and RY round the cluster rectangle when non-zero.
	RX, RY float64

	group surface.Element
	rect  surface.Element
}

// EdgeEntry is an edge stored in the graph.
type EdgeEntry struct {
	From  string
	To    string
	Label *Edge
}

type edgeKey struct{ from, to string }

// Graph is a directed graph of box-model nodes, optionally compound.
type Graph struct {
	compound bool

	nodeOrder []string
	nodes     map[string]*NodeEntry
	edgeOrder []edgeKey
	edges     map[edgeKey]*EdgeEntry

	parent   map[string]string
	children map[string][]string

	direction      string
	nodeSeparation float64
	rankSeparation float64
	timeout        time.Duration
	prompter       layout.Prompter
	logger         *log.Logger

	inFlight atomic.Bool
	layers   *layers
}

// Option configures a Graph.
type Option func(*Graph)

// WithCompound enables parent/child containment.
func WithCompound(compound bool) Option {
	return func(g *Graph) { g.compound = compound }
}

// WithDirection sets DirectionHorizontal or DirectionVertical.
func WithDirection(direction string) Option {
	return func(g *Graph) { g.direction = direction }
}

// WithLogger sets the logger used during layout.
func WithLogger(l *log.Logger) Option {
	return func(g *Graph) { g.logger = l }
}

// WithNodeSeparation sets the horizontal gap between nodes in a rank.
func WithNodeSeparation(v float64) Option {
	return func(g *Graph) { g.nodeSeparation = v }
}

// WithRankSeparation sets the gap between ranks.
func WithRankSeparation(v float64) Option {
	return func(g *Graph) { g.rankSeparation = v }
}

// WithTimeout runs the layout as a task and asks the prompter once d
// elapses. Zero runs the engine synchronously.
func WithTimeout(d time.Duration) Option {
	return func(g *Graph) { g.timeout = d }
}

// WithPrompter sets who decides when a layout exceeds its timeout.
// Without one the layout is cancelled.
func WithPrompter(p layout.Prompter) Option {
	return func(g *Graph) { g.prompter = p }
}

// New returns an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		nodes:          make(map[string]*NodeEntry),
		edges:          make(map[edgeKey]*EdgeEntry),
		parent:         make(map[string]string),
		children:       map[string][]string{root: nil},
		nodeSeparation: layout.DefaultNodeSeparation,
		rankSeparation: layout.DefaultRankSeparation,
		logger:         log.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Compound reports whether the graph supports containment.
func (g *Graph) Compound() bool { return g.compound }

// SetNode inserts a node or replaces its label. A new node of a compound
// graph starts at the top level; a replaced node keeps its position in the
// hierarchy. A nil label is replaced by an empty node. The id reserved for
// the top level is ignored.
func (g *Graph) SetNode(id string, label *box.Node) {
	if id == root {
		g.logger.Warn("ignoring node with reserved id")
		return
	}
	if label == nil {
		label = box.NewNode()
	}
	if label.ID == "" {
		label.ID = id
	}
	if e, ok := g.nodes[id]; ok {
		e.Label = label
		for _, k := range g.edgeOrder {
			if k.from == id || k.to == id {
				g.edges[k].Label.bind(g)
			}
		}
		return
	}
	g.nodes[id] = &NodeEntry{ID: id, Label: label}
	g.nodeOrder = append(g.nodeOrder, id)
	if g.compound {
		g.parent[id] = root
		g.children[id] = nil
		g.children[root] = append(g.children[root], id)
	}
}

// SetEdge adds an edge between two existing nodes. Adding the same ordered
// pair again keeps the first edge.
func (g *Graph) SetEdge(from, to string, label *Edge) error {
	for _, id := range []string{from, to} {
		if _, ok := g.nodes[id]; !ok {
			return errors.New(errors.ErrCodeInvalidReference, "invalid edge %q -> %q: unknown node %q", from, to, id)
		}
	}
	k := edgeKey{from, to}
	if _, ok := g.edges[k]; ok {
		return nil
	}
	if label == nil {
		label = &Edge{}
	}
	label.from, label.to = from, to
	label.bind(g)
	g.edges[k] = &EdgeEntry{From: from, To: to, Label: label}
	g.edgeOrder = append(g.edgeOrder, k)
	return nil
}

// SetParent moves node under parent. An empty parent moves it to the top
// level.
func (g *Graph) SetParent(node, parent string) error {
	if !g.compound {
		return errors.New(errors.ErrCodeInvalidOperation, "cannot set parent in a non-compound graph")
	}
	if _, ok := g.nodes[node]; !ok {
		return errors.New(errors.ErrCodeInvalidReference, "unknown node %q", node)
	}
	if parent == "" {
		parent = root
	} else if _, ok := g.nodes[parent]; !ok {
		return errors.New(errors.ErrCodeInvalidReference, "unknown parent %q", parent)
	}
	for a := parent; a != root; a = g.parent[a] {
		if a == node {
			return errors.New(errors.ErrCodeCycleDetected, "setting %q as parent of %q would create a cycle", parent, node)
		}
	}

	old := g.parent[node]
	if i := slices.Index(g.children[old], node); i >= 0 {
		g.children[old] = slices.Delete(g.children[old], i, i+1)
	}
	g.parent[node] = parent
	g.children[parent] = append(g.children[parent], node)
	return nil
}

// Parent returns the parent of id. Top-level nodes, unknown ids and nodes
// of a flat graph have none.
func (g *Graph) Parent(id string) (string, bool) {
	if !g.compound {
		return "", false
	}
	p, ok := g.parent[id]
	if !ok || p == root {
		return "", false
	}
	return p, true
}

// Children returns the children of id in insertion order. A leaf has an
// empty slice; an unknown id reports false.
func (g *Graph) Children(id string) ([]string, bool) {
	if g.compound {
		c, ok := g.children[id]
		if !ok {
			return nil, false
		}
		if c == nil {
			return []string{}, true
		}
		return slices.Clone(c), true
	}
	if _, ok := g.nodes[id]; ok {
		return []string{}, true
	}
	return nil, false
}

// Roots returns the top-level nodes.
func (g *Graph) Roots() []string {
	if g.compound {
		return slices.Clone(g.children[root])
	}
	return slices.Clone(g.nodeOrder)
}

// IsCluster reports whether id has children.
func (g *Graph) IsCluster(id string) bool {
	return g.compound && len(g.children[id]) > 0
}

// HasNode reports whether id exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the entry for id.
func (g *Graph) Node(id string) (*NodeEntry, bool) {
	e, ok := g.nodes[id]
	return e, ok
}

// Edge returns the entry for the ordered pair.
func (g *Graph) Edge(from, to string) (*EdgeEntry, bool) {
	e, ok := g.edges[edgeKey{from, to}]
	return e, ok
}

// Nodes returns the node entries in insertion order.
func (g *Graph) Nodes() []*NodeEntry {
	out := make([]*NodeEntry, len(g.nodeOrder))
	for i, id := range g.nodeOrder {
		out[i] = g.nodes[id]
	}
	return out
}

// Edges returns the edge entries in insertion order.
func (g *Graph) Edges() []*EdgeEntry {
	out := make([]*EdgeEntry, len(g.edgeOrder))
	for i, k := range g.edgeOrder {
		out[i] = g.edges[k]
	}
	return out
}
