package document

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/grapher/pkg/errors"
)

// Document is the JSON description of a diagram.
type Document struct {
	Compound  bool   `json:"compound,omitempty"`
	Direction string `json:"direction,omitempty"`
	Nodes     []Node `json:"nodes"`
	Edges     []Edge `json:"edges"`
}

// Node is a graph node or, inside an argument, a nested node.
type Node struct {
	ID        string     `json:"id,omitempty"`
	Class     string     `json:"class,omitempty"`
	Parent    string     `json:"parent,omitempty"`
	Header    []Entry    `json:"header,omitempty"`
	Arguments []Argument `json:"arguments,omitempty"`
	Canvas    bool       `json:"canvas,omitempty"`

	// RX and RY round the rectangle when the node is a cluster.
	RX float64 `json:"rx,omitempty"`
	RY float64 `json:"ry,omitempty"`
}

// Entry is a header entry.
type Entry struct {
	ID      string   `json:"id,omitempty"`
	Content string   `json:"content"`
	Classes []string `json:"classes,omitempty"`
	Tooltip string   `json:"tooltip,omitempty"`
}

// Argument is a named value. Exactly one of Value, Node and Nodes is used.
type Argument struct {
	ID        string  `json:"id,omitempty"`
	Name      string  `json:"name"`
	Value     string  `json:"value,omitempty"`
	Node      *Node   `json:"node,omitempty"`
	Nodes     []*Node `json:"nodes,omitempty"`
	Separator string  `json:"separator,omitempty"`
	Tooltip   string  `json:"tooltip,omitempty"`
}

// Edge connects two top-level ids.
type Edge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Label  string `json:"label,omitempty"`
	ID     string `json:"id,omitempty"`
	Class  string `json:"class,omitempty"`
	MinLen int    `json:"minlen,omitempty"`
	Weight int    `json:"weight,omitempty"`
}

// ReadJSON decodes a document from r and checks the direction and that node
// ids are valid and unique. References are checked when the graph is built.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode")
	}
	if err := errors.ValidateDirection(doc.Direction); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(doc.Nodes))
	for i, n := range doc.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		if _, dup := seen[n.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = struct{}{}
		for _, a := range n.Arguments {
			if err := a.check(); err != nil {
				return nil, fmt.Errorf("node %s: %w", n.ID, err)
			}
		}
	}
	return &doc, nil
}

func (a Argument) check() error {
	kinds := 0
	if a.Value != "" {
		kinds++
	}
	if a.Node != nil {
		kinds++
	}
	if len(a.Nodes) > 0 {
		kinds++
	}
	if kinds > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "argument %q mixes value, node and nodes", a.Name)
	}
	nested := a.Nodes
	if a.Node != nil {
		nested = []*Node{a.Node}
	}
	for _, n := range nested {
		for _, inner := range n.Arguments {
			if err := inner.check(); err != nil {
				return err
			}
		}
	}
	return nil
}

// ImportJSON reads the document at path.
func ImportJSON(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// WriteJSON encodes doc as indented JSON.
func WriteJSON(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes doc to path.
func ExportJSON(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(doc, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
