package diagram

import (
	"testing"

	"github.com/matzehuels/grapher/pkg/box"
	"github.com/matzehuels/grapher/pkg/curve"
)

func TestIntersectRect(t *testing.T) {
	node := &box.Node{X: 0, Y: 0, Width: 100, Height: 40}

	tests := []struct {
		name string
		p    curve.Point
		want curve.Point
	}{
		{"right", curve.Point{X: 100, Y: 0}, curve.Point{X: 50, Y: 0}},
		{"below", curve.Point{X: 0, Y: 100}, curve.Point{X: 0, Y: 20}},
		{"left", curve.Point{X: -100, Y: 0}, curve.Point{X: -50, Y: 0}},
		{"above", curve.Point{X: 0, Y: -100}, curve.Point{X: 0, Y: -20}},
		{"steep", curve.Point{X: 20, Y: 80}, curve.Point{X: 5, Y: 20}},
		{"shallow", curve.Point{X: 100, Y: 10}, curve.Point{X: 50, Y: 5}},
		{"center", curve.Point{X: 0, Y: 0}, curve.Point{X: 50, Y: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IntersectRect(node, tt.p); got != tt.want {
				t.Errorf("IntersectRect(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestEdgeRoute(t *testing.T) {
	from := &box.Node{X: 50, Y: 20, Width: 40, Height: 20}
	to := &box.Node{X: 50, Y: 120, Width: 40, Height: 20}

	tests := []struct {
		name   string
		points []curve.Point
		want   []curve.Point
	}{
		{
			name:   "two points",
			points: []curve.Point{{X: 50, Y: 20}, {X: 50, Y: 120}},
			want:   []curve.Point{{X: 50, Y: 30}, {X: 50, Y: 110}},
		},
		{
			name:   "interior kept",
			points: []curve.Point{{X: 0, Y: 0}, {X: 60, Y: 70}, {X: 0, Y: 0}},
			want:   []curve.Point{{X: 52, Y: 30}, {X: 60, Y: 70}, {X: 52, Y: 110}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Edge{From: from, To: to, Points: tt.points}
			got := e.Route()
			if len(got) != len(tt.want) {
				t.Fatalf("Route() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Route()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}

	if (&Edge{From: from, To: to}).Route() != nil {
		t.Error("an edge without points has no route")
	}
}

func TestEdgeEndpointsExact(t *testing.T) {
	from := &box.Node{X: 10, Y: 10, Width: 20, Height: 20}
	to := &box.Node{X: 90, Y: 130, Width: 30, Height: 10}
	e := &Edge{From: from, To: to, Points: []curve.Point{{X: 10, Y: 10}, {X: 40, Y: 60}, {X: 70, Y: 100}, {X: 90, Y: 130}}}

	route := e.Route()
	path := curve.Fit(route)
	start, _ := path.Start()
	end, _ := path.End()
	if start != route[0] || end != route[len(route)-1] {
		t.Errorf("path runs %v -> %v, want %v -> %v", start, end, route[0], route[len(route)-1])
	}
}

func TestEdgeSelect(t *testing.T) {
	doc := newDocument()
	g := New()
	g.SetNode("a", nil)
	g.SetNode("b", nil)
	e := &Edge{ID: "e1", Class: "control"}
	if err := g.SetEdge("a", "b", e); err != nil {
		t.Fatal(err)
	}
	if got := e.Select(); got != nil {
		t.Error("Select() before Build should return nothing")
	}
	g.Build(doc, doc.Root())

	if got := e.Select(); len(got) != 1 {
		t.Fatalf("Select() = %d elements, want 1", len(got))
	}
	if v, _ := e.Element().Attribute("class"); v != "edge-path control select" {
		t.Errorf("class = %q after Select", v)
	}
	e.Deselect()
	if v, _ := e.Element().Attribute("class"); v != "edge-path control" {
		t.Errorf("class = %q after Deselect", v)
	}

	e.Update(box.NewSelectionSet("e1"))
	if v, _ := e.Element().Attribute("class"); v != "edge-path control select" {
		t.Errorf("class = %q with e1 selected", v)
	}
	e.Update(box.NewSelectionSet())
	if v, _ := e.Element().Attribute("class"); v != "edge-path control" {
		t.Errorf("class = %q with nothing selected", v)
	}
}
