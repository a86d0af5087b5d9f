package layout

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/grapher/pkg/cache"
	"github.com/matzehuels/grapher/pkg/curve"
	"github.com/matzehuels/grapher/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

// Response types.
const (
	TypeLayout = "layout"
	TypeCancel = "cancel"
)

// Rank directions.
const (
	RankDirTB = "TB"
	RankDirLR = "LR"
)

// Rankers.
const (
	RankerNetworkSimplex = "network-simplex"
	RankerLongestPath    = "longest-path"
)

// Request defaults.
const (
	DefaultMinLen         = 1
	DefaultWeight         = 1
	DefaultLabelOffset    = 10
	DefaultLabelPos       = "r"
	DefaultNodeSeparation = 20
	DefaultRankSeparation = 20

	// LargeGraphThreshold is the node count above which the cheaper
	// longest-path ranker is requested.
	LargeGraphThreshold = 3000
)

// =============================================================================
// Request
// =============================================================================

// Request is the flattened graph handed to an engine.
type Request struct {
	Nodes   []Node  `json:"nodes"`
	Edges   []Edge  `json:"edges"`
	Options Options `json:"options"`
}

// Node is a node to place. Clusters are sent with zero size; the engine
// sizes them around their children.
type Node struct {
	ID       string  `json:"id"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	ParentID string  `json:"parentId,omitempty"`
}

// Edge is an edge to route. Width and Height are the label box.
type Edge struct {
	From        string  `json:"from"`
	To          string  `json:"to"`
	MinLen      int     `json:"minlen"`
	Weight      int     `json:"weight"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	LabelOffset float64 `json:"labelOffset"`
	LabelPos    string  `json:"labelPos"`
}

// Options tune the engine.
type Options struct {
	NodeSeparation float64 `json:"nodeSeparation"`
	RankSeparation float64 `json:"rankSeparation"`
	// Direction is the rank direction, RankDirTB when empty.
	Direction string `json:"direction,omitempty"`
	// Ranker is empty for the engine's default ranker.
	Ranker string `json:"ranker,omitempty"`
}

// Validate checks ids are unique and every parent and edge endpoint exists.
func (r *Request) Validate() error {
	ids := make(map[string]struct{}, len(r.Nodes))
	for _, n := range r.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidInput, "node with empty id")
		}
		if _, dup := ids[n.ID]; dup {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate node %q", n.ID)
		}
		ids[n.ID] = struct{}{}
	}
	for _, n := range r.Nodes {
		if n.ParentID == "" {
			continue
		}
		if _, ok := ids[n.ParentID]; !ok {
			return errors.New(errors.ErrCodeInvalidReference, "node %q has unknown parent %q", n.ID, n.ParentID)
		}
	}
	for _, e := range r.Edges {
		for _, end := range []string{e.From, e.To} {
			if _, ok := ids[end]; !ok {
				return errors.New(errors.ErrCodeInvalidReference, "edge %q -> %q references unknown node %q", e.From, e.To, end)
			}
		}
	}
	switch r.Options.Direction {
	case "", RankDirTB, RankDirLR:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown direction %q", r.Options.Direction)
	}
	return nil
}

// Hash returns a stable digest of the request for cache keys.
func (r *Request) Hash() string {
	data, _ := json.Marshal(r)
	return cache.Hash(data)
}

// =============================================================================
// Response
// =============================================================================

// Response is an engine's answer.
type Response struct {
	Type  string       `json:"type"`
	Nodes []NodeResult `json:"nodes,omitempty"`
	Edges []EdgeResult `json:"edges,omitempty"`
}

// NodeResult is a placed node. Width and Height are set for clusters.
type NodeResult struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// EdgeResult is a routed edge. X and Y are the label center when the edge
// has a label.
type EdgeResult struct {
	From   string        `json:"from"`
	To     string        `json:"to"`
	Points []curve.Point `json:"points"`
	X      *float64      `json:"x,omitempty"`
	Y      *float64      `json:"y,omitempty"`
}

// Cancelled reports whether the response acknowledges a cancellation.
func (r *Response) Cancelled() bool {
	return r != nil && r.Type == TypeCancel
}

// CancelResponse returns the acknowledgement an engine sends when it stops
// on request.
func CancelResponse() *Response {
	return &Response{Type: TypeCancel}
}

// Validate checks that a layout response covers every node and edge of req
// and that every route has at least two points.
func (r *Response) Validate(req *Request) error {
	if r.Type != TypeLayout {
		return errors.New(errors.ErrCodeLayoutFailed, "unexpected response type %q", r.Type)
	}
	nodes := make(map[string]struct{}, len(r.Nodes))
	for _, n := range r.Nodes {
		nodes[n.ID] = struct{}{}
	}
	for _, n := range req.Nodes {
		if _, ok := nodes[n.ID]; !ok {
			return errors.New(errors.ErrCodeLayoutFailed, "node %q missing from layout", n.ID)
		}
	}
	type pair struct{ from, to string }
	edges := make(map[pair]int, len(r.Edges))
	for _, e := range r.Edges {
		edges[pair{e.From, e.To}] = len(e.Points)
	}
	for _, e := range req.Edges {
		n, ok := edges[pair{e.From, e.To}]
		if !ok {
			return errors.New(errors.ErrCodeLayoutFailed, "edge %q -> %q missing from layout", e.From, e.To)
		}
		if n < 2 {
			return errors.New(errors.ErrCodeLayoutFailed, "edge %q -> %q has %d route points", e.From, e.To, n)
		}
	}
	return nil
}

// =============================================================================
// Serialization
// =============================================================================

// MarshalResponse encodes a response.
func MarshalResponse(r *Response) ([]byte, error) {
	return json.Marshal(r)
}

// UnmarshalResponse decodes a response.
func UnmarshalResponse(data []byte) (*Response, error) {
	var r Response
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode layout response: %w", err)
	}
	return &r, nil
}
