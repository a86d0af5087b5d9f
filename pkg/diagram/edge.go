package diagram

import (
	"fmt"
	"math"

	"github.com/matzehuels/grapher/pkg/box"
	"github.com/matzehuels/grapher/pkg/curve"
	"github.com/matzehuels/grapher/pkg/surface"
)

// Edge is the drawable part of a graph edge.
//
// From and To are bound by the graph when the edge is added and follow
// label replacements. Points, X and Y are filled in by the layout.
type Edge struct {
	From *box.Node
	To   *box.Node

	Label  string
	MinLen int
	Weight int

	// Points is the route from the engine, endpoints included.
	Points []curve.Point
	// Width and Height are the measured label box.
	Width, Height float64
	// X and Y are the label center.
	X, Y        float64
	LabelOffset float64
	LabelPos    string

	ID    string
	Class string

	from, to string

	element      surface.Element
	hitTest      surface.Element
	labelElement surface.Element
}

func (e *Edge) bind(g *Graph) {
	if n, ok := g.nodes[e.from]; ok {
		e.From = n.Label
	}
	if n, ok := g.nodes[e.to]; ok {
		e.To = n.Label
	}
}

// Element returns the visible path, or nil before Build.
func (e *Edge) Element() surface.Element { return e.element }

// LabelElement returns the label text, or nil for an unlabelled edge.
func (e *Edge) LabelElement() surface.Element { return e.labelElement }

func (e *Edge) build(doc surface.Document, paths, hitTests, labels surface.Element) {
	e.element = doc.CreateElement("path")
	if e.ID != "" {
		e.element.SetAttribute("id", e.ID)
	}
	if e.Class != "" {
		e.element.SetAttribute("class", "edge-path "+e.Class)
	} else {
		e.element.SetAttribute("class", "edge-path")
	}
	paths.AppendChild(e.element)

	e.hitTest = doc.CreateElement("path")
	hitTests.AppendChild(e.hitTest)

	if e.Label == "" {
		return
	}
	tspan := doc.CreateElement("tspan")
	tspan.SetAttribute("xml:space", "preserve")
	tspan.SetAttribute("dy", "1em")
	tspan.SetAttribute("x", "1")
	tspan.SetText(e.Label)
	e.labelElement = doc.CreateElement("text")
	e.labelElement.AppendChild(tspan)
	e.labelElement.SetAttribute("opacity", "0")
	e.labelElement.SetAttribute("class", "edge-label")
	if e.ID != "" {
		e.labelElement.SetAttribute("id", "edge-label-"+e.ID)
	}
	labels.AppendChild(e.labelElement)
}

// measure sizes the label from its rendered text.
func (e *Edge) measure() {
	if e.labelElement == nil {
		return
	}
	b := e.labelElement.BBox()
	e.Width = b.Width
	e.Height = b.Height
}

// Route returns the route with its ends moved onto the node borders: the
// first point is clipped against From towards the second point and the last
// against To towards the second to last. Interior points are kept.
func (e *Edge) Route() []curve.Point {
	n := len(e.Points)
	if n < 2 || e.From == nil || e.To == nil {
		return nil
	}
	out := make([]curve.Point, 0, n)
	out = append(out, IntersectRect(e.From, e.Points[1]))
	out = append(out, e.Points[1:n-1]...)
	out = append(out, IntersectRect(e.To, e.Points[n-2]))
	return out
}

// Update writes the fitted path to the visible and hit-test paths and moves
// the label into place. sel may be nil.
func (e *Edge) Update(sel box.Selection) {
	if e.element == nil {
		return
	}
	if route := e.Route(); route != nil {
		d := curve.Fit(route).Data()
		e.element.SetAttribute("d", d)
		e.hitTest.SetAttribute("d", d)
	}
	if e.labelElement != nil {
		e.labelElement.SetAttribute("transform", fmt.Sprintf("translate(%s,%s)",
			curve.FormatNumber(e.X-e.Width/2), curve.FormatNumber(e.Y-e.Height/2)))
		e.labelElement.RemoveAttribute("opacity")
	}
	if sel != nil && e.ID != "" {
		if sel.Selected(e.ID) {
			surface.AddClass(e.element, "select")
		} else {
			surface.RemoveClass(e.element, "select")
		}
	}
}

// Select marks the edge selected and returns the affected elements.
func (e *Edge) Select() []surface.Element {
	if e.element == nil {
		return nil
	}
	surface.AddClass(e.element, "select")
	return []surface.Element{e.element}
}

// Deselect clears the selected mark.
func (e *Edge) Deselect() {
	if e.element != nil {
		surface.RemoveClass(e.element, "select")
	}
}

// IntersectRect returns where the segment from the center of node towards p
// crosses the node border.
func IntersectRect(node *box.Node, p curve.Point) curve.Point {
	x, y := node.X, node.Y
	dx, dy := p.X-x, p.Y-y
	w, h := node.Width/2, node.Height/2
	if math.Abs(dy)*w > math.Abs(dx)*h {
		if dy < 0 {
			h = -h
		}
		ix := 0.0
		if dy != 0 {
			ix = h * dx / dy
		}
		return curve.Point{X: x + ix, Y: y + h}
	}
	if dx < 0 {
		w = -w
	}
	iy := 0.0
	if dx != 0 {
		iy = w * dy / dx
	}
	return curve.Point{X: x + w, Y: y + iy}
}
