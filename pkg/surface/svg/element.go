package svg

import (
	"strconv"

	"github.com/matzehuels/grapher/pkg/surface"
)

type attr struct {
	name, value string
}

type listener struct {
	id ListenerID
	fn surface.Listener
}

// ListenerID aliases the surface listener handle.
type ListenerID = surface.ListenerID

// Element is an SVG element.
type Element struct {
	doc       *Document
	tag       string
	attrs     []attr
	text      string
	children  []*Element
	parent    *Element
	listeners map[string][]listener
}

var _ surface.Element = (*Element)(nil)

// Tag returns the element name.
func (e *Element) Tag() string { return e.tag }

// SetAttribute sets or replaces an attribute, keeping its original position.
func (e *Element) SetAttribute(name, value string) {
	for i := range e.attrs {
		if e.attrs[i].name == name {
			e.attrs[i].value = value
			return
		}
	}
	e.attrs = append(e.attrs, attr{name, value})
}

// Attribute returns the value of an attribute.
func (e *Element) Attribute(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

// RemoveAttribute deletes an attribute if present.
func (e *Element) RemoveAttribute(name string) {
	for i, a := range e.attrs {
		if a.name == name {
			e.attrs = append(e.attrs[:i], e.attrs[i+1:]...)
			return
		}
	}
}

// AppendChild appends child, detaching it from a previous parent first.
// It panics if child was not created by an svg Document.
func (e *Element) AppendChild(child surface.Element) {
	c, ok := child.(*Element)
	if !ok {
		panic("svg: AppendChild with foreign element")
	}
	if c.parent != nil {
		c.parent.removeChild(c)
	}
	c.parent = e
	e.children = append(e.children, c)
}

func (e *Element) removeChild(c *Element) {
	for i, x := range e.children {
		if x == c {
			e.children = append(e.children[:i], e.children[i+1:]...)
			break
		}
	}
	c.parent = nil
}

// SetText sets the character data of the element.
func (e *Element) SetText(text string) { e.text = text }

// Text returns the character data set with SetText.
func (e *Element) Text() string { return e.text }

// Children returns the child elements.
func (e *Element) Children() []*Element { return e.children }

// Parent returns the parent element or nil.
func (e *Element) Parent() *Element { return e.parent }

// AddListener registers l for event.
func (e *Element) AddListener(event string, l surface.Listener) ListenerID {
	if e.listeners == nil {
		e.listeners = make(map[string][]listener)
	}
	e.doc.nextListener++
	id := e.doc.nextListener
	e.listeners[event] = append(e.listeners[event], listener{id, l})
	return id
}

// RemoveListener unregisters a listener. Unknown ids are ignored.
func (e *Element) RemoveListener(event string, id ListenerID) {
	ls := e.listeners[event]
	for i, l := range ls {
		if l.id == id {
			e.listeners[event] = append(ls[:i], ls[i+1:]...)
			return
		}
	}
}

// Listeners returns the number of listeners registered for event.
func (e *Element) Listeners(event string) int {
	return len(e.listeners[event])
}

// Dispatch delivers an event to the element's listeners in registration order.
func (e *Element) Dispatch(event string) {
	for _, l := range append([]listener(nil), e.listeners[event]...) {
		l.fn(surface.Event{Type: event, Target: e})
	}
}

// Walk calls fn for e and every descendant in document order until fn
// returns false.
func (e *Element) Walk(fn func(*Element) bool) bool {
	if !fn(e) {
		return false
	}
	for _, c := range e.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// BBox returns the content box. Text and tspan elements are measured with the
// document's Measurer relative to their x/y attributes; rect elements use
// their geometry; containers return the union of their children.
func (e *Element) BBox() surface.Rect {
	switch e.tag {
	case "text", "tspan":
		return e.textBBox()
	case "rect":
		return surface.Rect{
			X:      e.number("x"),
			Y:      e.number("y"),
			Width:  e.number("width"),
			Height: e.number("height"),
		}
	}
	var box surface.Rect
	empty := true
	for _, c := range e.children {
		b := c.BBox()
		if b.Width == 0 && b.Height == 0 {
			continue
		}
		if empty {
			box, empty = b, false
			continue
		}
		box = union(box, b)
	}
	return box
}

func (e *Element) textBBox() surface.Rect {
	m := e.doc.measurer
	ascent, descent := m.Metrics()
	var width float64
	e.Walk(func(x *Element) bool {
		switch x.tag {
		case "title":
			return true
		case "text", "tspan":
			if x.text != "" {
				width += m.Measure(x.text, x.bold())
			}
		}
		return true
	})
	return surface.Rect{
		X:      e.number("x"),
		Y:      e.number("y") - ascent,
		Width:  width,
		Height: ascent + descent,
	}
}

func (e *Element) bold() bool {
	for x := e; x != nil; x = x.parent {
		if w, ok := x.Attribute("font-weight"); ok {
			return w == "bold"
		}
	}
	return false
}

func (e *Element) number(name string) float64 {
	v, ok := e.Attribute(name)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

func union(a, b surface.Rect) surface.Rect {
	x0, y0 := min(a.X, b.X), min(a.Y, b.Y)
	x1 := max(a.X+a.Width, b.X+b.Width)
	y1 := max(a.Y+a.Height, b.Y+b.Height)
	return surface.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}
