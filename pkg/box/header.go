package box

import (
	"strings"

	"github.com/matzehuels/grapher/pkg/surface"
)

// Header is a row of entries laid out left to right.
type Header struct {
	blockBase
	Entries []*Entry

	line surface.Element
}

// Add appends an entry.
func (h *Header) Add(id string, classes []string, content, tooltip string) *Entry {
	e := &Entry{ID: id, Classes: classes, Content: content, Tooltip: tooltip}
	h.Entries = append(h.Entries, e)
	return e
}

func (h *Header) build(doc surface.Document, parent surface.Element) {
	for _, e := range h.Entries {
		e.build(doc, parent)
	}
	if !h.first {
		h.line = doc.CreateElement("line")
		parent.AppendChild(h.line)
	}
	for i, e := range h.Entries {
		if i != 0 {
			e.line = doc.CreateElement("line")
			parent.AppendChild(e.line)
		}
	}
}

func (h *Header) measure() {
	h.Width = 0
	h.Height = 0
	for _, e := range h.Entries {
		e.measure()
		h.Height = max(h.Height, e.Height)
		h.Width += e.Width
	}
}

// layout places entries left to right; the last one takes whatever width the
// node grants beyond the sum of the measured entries.
func (h *Header) layout() {
	x := 0.0
	for i, e := range h.Entries {
		e.X = x
		if i == len(h.Entries)-1 {
			e.Width = h.Width - x
		}
		x += e.Width
	}
}

func (h *Header) update(sel Selection) {
	n := len(h.Entries)
	for i, e := range h.Entries {
		e.element.SetAttribute("transform", translate(e.X, h.Y))
		r1 := i == 0 && h.first
		r2 := i == n-1 && h.first
		r3 := i == n-1 && h.last
		r4 := i == 0 && h.last
		e.path.SetAttribute("d", RoundedRect(0, 0, e.Width, e.Height, r1, r2, r3, r4))
		e.text.SetAttribute("x", num(e.tx))
		e.text.SetAttribute("y", num(e.ty))
		applySelection(e.element, e.ID, sel)
	}
	for _, e := range h.Entries[min(1, n):] {
		e.line.SetAttribute("class", "node")
		e.line.SetAttribute("x1", num(e.X))
		e.line.SetAttribute("x2", num(e.X))
		e.line.SetAttribute("y1", num(h.Y))
		e.line.SetAttribute("y2", num(h.Y+h.Height))
	}
	if h.line != nil {
		h.line.SetAttribute("class", "node")
		h.line.SetAttribute("x1", "0")
		h.line.SetAttribute("x2", num(h.Width))
		h.line.SetAttribute("y1", num(h.Y))
		h.line.SetAttribute("y2", num(h.Y))
	}
}

// EventHandler receives entry events.
type EventHandler func(e *Entry, data any)

// Entry is one labelled cell of a header.
type Entry struct {
	ID      string
	Classes []string
	Content string
	Tooltip string

	X      float64
	Width  float64
	Height float64

	tx, ty float64
	events map[string][]EventHandler

	element surface.Element
	path    surface.Element
	text    surface.Element
	line    surface.Element
}

// nbsp keeps empty entries as tall as a line of text.
const nbsp = "\u00a0"

// entryTextX is the text inset inside an entry. It sits one unit left of
// the measuring padding.
const entryTextX = 6

// On registers a handler for event. Handlers registered for "click" before
// Build are wired to clicks on the entry's element.
func (e *Entry) On(event string, fn EventHandler) {
	if e.events == nil {
		e.events = make(map[string][]EventHandler)
	}
	e.events[event] = append(e.events[event], fn)
}

// Emit calls the handlers registered for event.
func (e *Entry) Emit(event string, data any) {
	for _, fn := range e.events[event] {
		fn(e, data)
	}
}

// Element returns the entry group, or nil before Build.
func (e *Entry) Element() surface.Element { return e.element }

func (e *Entry) build(doc surface.Document, parent surface.Element) {
	e.element = doc.CreateElement("g")
	parent.AppendChild(e.element)
	e.path = doc.CreateElement("path")
	e.text = doc.CreateElement("text")
	e.element.AppendChild(e.path)
	e.element.AppendChild(e.text)
	classes := append([]string{"node-item"}, e.Classes...)
	e.element.SetAttribute("class", strings.Join(classes, " "))
	if e.ID != "" {
		e.element.SetAttribute("id", e.ID)
	}
	if len(e.events["click"]) > 0 {
		e.element.AddListener("click", func(surface.Event) {
			e.Emit("click", nil)
		})
	}
	if e.Tooltip != "" {
		title := doc.CreateElement("title")
		title.SetText(e.Tooltip)
		e.element.AppendChild(title)
	}
	if e.Content != "" {
		e.text.SetText(e.Content)
	} else {
		e.text.SetText(nbsp)
	}
}

func (e *Entry) measure() {
	const xPadding, yPadding = 7, 4
	if e.text == nil {
		return
	}
	box := e.text.BBox()
	e.Width = box.Width + 2*xPadding
	e.Height = box.Height + 2*yPadding
	e.tx = entryTextX
	e.ty = yPadding - box.Y
}
