// Package surface defines the drawing vocabulary the diagram renders through.
//
// The renderer only ever creates elements, sets attributes and text, appends
// children, registers listeners and asks for the bounding box of text. Any
// backend implementing [Document] and [Element] can host a diagram; package
// [github.com/matzehuels/grapher/pkg/surface/svg] provides an in-memory SVG
// tree that serializes to a standalone file.
package surface

import (
	"slices"
	"strings"
)

// Rect is an axis-aligned box in surface units.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Event is delivered to listeners.
type Event struct {
	Type   string
	Target Element
}

// Listener handles an event.
type Listener func(Event)

// ListenerID identifies a registered listener for removal.
type ListenerID uint64

// Document creates elements.
type Document interface {
	CreateElement(tag string) Element
}

// Element is a node in the drawing tree.
type Element interface {
	Tag() string
	SetAttribute(name, value string)
	Attribute(name string) (string, bool)
	RemoveAttribute(name string)
	AppendChild(child Element)
	SetText(text string)
	AddListener(event string, l Listener) ListenerID
	RemoveListener(event string, id ListenerID)
	// BBox returns the box of the rendered content in the element's
	// coordinate system. Text boxes are relative to the baseline.
	BBox() Rect
}

// Classes returns the space-separated class list of el.
func Classes(el Element) []string {
	v, _ := el.Attribute("class")
	return strings.Fields(v)
}

// HasClass reports whether el carries class name.
func HasClass(el Element, name string) bool {
	return slices.Contains(Classes(el), name)
}

// AddClass appends name to the class list unless present.
func AddClass(el Element, name string) {
	classes := Classes(el)
	if slices.Contains(classes, name) {
		return
	}
	el.SetAttribute("class", strings.Join(append(classes, name), " "))
}

// RemoveClass removes name from the class list.
func RemoveClass(el Element, name string) {
	classes := Classes(el)
	i := slices.Index(classes, name)
	if i < 0 {
		return
	}
	el.SetAttribute("class", strings.Join(slices.Delete(classes, i, i+1), " "))
}
