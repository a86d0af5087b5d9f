package diagram

import (
	"fmt"
	"io"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/grapher/pkg/box"
	"github.com/matzehuels/grapher/pkg/errors"
)

func labelled(text string) *box.Node {
	n := box.NewNode()
	n.Header().Add("", nil, text, "")
	return n
}

// checkForest verifies that parent and children agree and that every node
// sits in exactly one child set.
func checkForest(t *testing.T, g *Graph) {
	t.Helper()
	seen := make(map[string]int)
	var walk func(id string)
	walk = func(id string) {
		children, _ := g.Children(id)
		for _, c := range children {
			seen[c]++
			if p, _ := g.Parent(c); p != id {
				t.Errorf("Parent(%q) = %q, want %q", c, p, id)
			}
			walk(c)
		}
	}
	for _, r := range g.Roots() {
		seen[r]++
		if _, ok := g.Parent(r); ok {
			t.Errorf("root %q has a parent", r)
		}
		walk(r)
	}
	for _, n := range g.Nodes() {
		if seen[n.ID] != 1 {
			t.Errorf("node %q appears %d times in the forest", n.ID, seen[n.ID])
		}
	}
}

func TestSetNodeCompound(t *testing.T) {
	g := New(WithCompound(true))
	g.SetNode("a", nil)
	g.SetNode("b", nil)

	if got := g.Roots(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Roots() = %v, want [a b]", got)
	}
	children, ok := g.Children("a")
	if !ok || children == nil || len(children) != 0 {
		t.Errorf("Children(a) = %v, %v; want empty, true", children, ok)
	}
	if _, ok := g.Children("missing"); ok {
		t.Error("Children(missing) should report false")
	}
	if n, _ := g.Node("a"); n.Label.ID != "a" {
		t.Errorf("nil label should become a node with id a, got %q", n.Label.ID)
	}
	checkForest(t, g)
}

func TestSetNodeReservedID(t *testing.T) {
	g := New(WithCompound(true), WithLogger(log.New(io.Discard)))
	g.SetNode("a", nil)
	g.SetNode(root, nil)

	if g.HasNode(root) {
		t.Error("the reserved top-level id should not become a node")
	}
	if got := g.Roots(); !slices.Equal(got, []string{"a"}) {
		t.Errorf("Roots() = %v, want [a]", got)
	}
	if err := g.SetParent("a", root); !errors.Is(err, errors.ErrCodeInvalidReference) {
		t.Errorf("SetParent(a, reserved) error = %v, want %s", err, errors.ErrCodeInvalidReference)
	}
	if err := g.SetEdge("a", root, nil); err == nil {
		t.Error("SetEdge to the reserved id should fail")
	}
	checkForest(t, g)
}

func TestSetNodeReplaceKeepsHierarchy(t *testing.T) {
	g := New(WithCompound(true))
	g.SetNode("p", nil)
	g.SetNode("c", labelled("old"))
	g.SetNode("d", nil)
	if err := g.SetParent("c", "p"); err != nil {
		t.Fatal(err)
	}
	if err := g.SetEdge("c", "d", nil); err != nil {
		t.Fatal(err)
	}

	replacement := labelled("new")
	g.SetNode("c", replacement)

	if p, _ := g.Parent("c"); p != "p" {
		t.Errorf("Parent(c) = %q after replace, want p", p)
	}
	if n, _ := g.Node("c"); n.Label != replacement {
		t.Error("label was not replaced")
	}
	if e, _ := g.Edge("c", "d"); e.Label.From != replacement {
		t.Error("edge should follow the replaced label")
	}
	if len(g.Nodes()) != 3 {
		t.Errorf("Nodes() = %d, want 3", len(g.Nodes()))
	}
	checkForest(t, g)
}

func TestSetEdge(t *testing.T) {
	g := New()
	g.SetNode("a", nil)
	g.SetNode("b", nil)

	tests := []struct {
		name     string
		from, to string
		want     errors.Code
	}{
		{"valid", "a", "b", ""},
		{"unknown target", "a", "z", errors.ErrCodeInvalidReference},
		{"unknown source", "z", "a", errors.ErrCodeInvalidReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.SetEdge(tt.from, tt.to, nil)
			if got := errors.GetCode(err); got != tt.want {
				t.Errorf("SetEdge() code = %q, want %q", got, tt.want)
			}
		})
	}

	first := &Edge{Label: "first"}
	g.SetNode("c", nil)
	if err := g.SetEdge("b", "c", first); err != nil {
		t.Fatal(err)
	}
	if err := g.SetEdge("b", "c", &Edge{Label: "second"}); err != nil {
		t.Fatalf("duplicate edge should be a no-op, got %v", err)
	}
	if e, _ := g.Edge("b", "c"); e.Label != first {
		t.Error("first insertion should win")
	}
	if len(g.Edges()) != 2 {
		t.Errorf("Edges() = %d, want 2", len(g.Edges()))
	}
}

func TestEdgeIDsMayContainColons(t *testing.T) {
	g := New()
	g.SetNode("a:b", nil)
	g.SetNode("c", nil)
	g.SetNode("a", nil)
	g.SetNode("b:c", nil)
	if err := g.SetEdge("a:b", "c", nil); err != nil {
		t.Fatal(err)
	}
	if err := g.SetEdge("a", "b:c", nil); err != nil {
		t.Fatal(err)
	}
	if len(g.Edges()) != 2 {
		t.Errorf("Edges() = %d, want 2 distinct edges", len(g.Edges()))
	}
}

func TestSetParent(t *testing.T) {
	g := New(WithCompound(true))
	for _, id := range []string{"a", "b", "c", "d"} {
		g.SetNode(id, nil)
	}
	if err := g.SetParent("b", "a"); err != nil {
		t.Fatal(err)
	}
	if err := g.SetParent("c", "b"); err != nil {
		t.Fatal(err)
	}
	checkForest(t, g)

	tests := []struct {
		name         string
		node, parent string
		want         errors.Code
	}{
		{"self", "a", "a", errors.ErrCodeCycleDetected},
		{"descendant", "a", "c", errors.ErrCodeCycleDetected},
		{"child", "a", "b", errors.ErrCodeCycleDetected},
		{"unknown node", "z", "a", errors.ErrCodeInvalidReference},
		{"unknown parent", "a", "z", errors.ErrCodeInvalidReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := snapshot(g)
			err := g.SetParent(tt.node, tt.parent)
			if got := errors.GetCode(err); got != tt.want {
				t.Fatalf("SetParent(%q, %q) code = %q, want %q", tt.node, tt.parent, got, tt.want)
			}
			if after := snapshot(g); after != before {
				t.Errorf("failed SetParent changed the hierarchy:\n%s\n%s", before, after)
			}
		})
	}

	if err := g.SetParent("c", "d"); err != nil {
		t.Fatalf("move c under d: %v", err)
	}
	if children, _ := g.Children("b"); len(children) != 0 {
		t.Errorf("Children(b) = %v after move, want empty", children)
	}
	if err := g.SetParent("b", ""); err != nil {
		t.Fatalf("move b to top level: %v", err)
	}
	if got := g.Roots(); !slices.Equal(got, []string{"a", "d", "b"}) {
		t.Errorf("Roots() = %v, want [a d b]", got)
	}
	if g.IsCluster("a") || !g.IsCluster("d") {
		t.Error("IsCluster should follow the children")
	}
	checkForest(t, g)
}

func TestSetParentFlatGraph(t *testing.T) {
	g := New()
	g.SetNode("a", nil)
	g.SetNode("b", nil)

	if err := g.SetParent("a", "b"); !errors.Is(err, errors.ErrCodeInvalidOperation) {
		t.Errorf("SetParent() = %v, want INVALID_OPERATION", err)
	}
	if got := g.Roots(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Roots() = %v", got)
	}
	if c, ok := g.Children("a"); !ok || len(c) != 0 {
		t.Errorf("Children(a) = %v, %v", c, ok)
	}
	if _, ok := g.Parent("a"); ok {
		t.Error("flat graph nodes have no parent")
	}
	if !g.HasNode("a") || g.HasNode("z") {
		t.Error("HasNode mismatch")
	}
}

func snapshot(g *Graph) string {
	var s string
	for _, n := range g.Nodes() {
		p, _ := g.Parent(n.ID)
		c, _ := g.Children(n.ID)
		s += fmt.Sprintf("%s<%s>%v;", n.ID, p, c)
	}
	return s + fmt.Sprint(g.Roots())
}
