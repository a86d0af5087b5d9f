package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/matzehuels/grapher/pkg/surface"
)

// DefaultStylesheet is embedded into every document unless replaced with
// [WithStylesheet].
const DefaultStylesheet = `
    .node path { fill: #fff; stroke: none; }
    .node .node-border { fill: none; stroke: #333; stroke-width: 1; }
    .node-item path { fill: #eee; }
    .node-item text { font-weight: bold; }
    .node line { stroke: #333; stroke-width: 1; }
    .node-argument rect { fill: none; stroke: none; }
    .node-argument-list path { fill: #fff; }
    .cluster rect { fill: #f5f5f5; stroke: #999; stroke-width: 1; }
    .edge-path { fill: none; stroke: #000; stroke-width: 1; marker-end: url(#arrowhead); }
    .edge-path.select { stroke: #e00; marker-end: url(#arrowhead-select); }
    .edge-paths-hit-test path { fill: none; stroke: transparent; stroke-width: 8; }
    .edge-label { font-size: 10px; }
    .select .node-border { stroke: #e00; stroke-width: 2; }
    #arrowhead-select { fill: #e00; }
    text { font-family: sans-serif; font-size: 11px; }`

// Option configures a Document.
type Option func(*Document)

// WithMeasurer sets the text measurer.
func WithMeasurer(m Measurer) Option { return func(d *Document) { d.measurer = m } }

// WithStylesheet replaces the embedded CSS. An empty string omits the style element.
func WithStylesheet(css string) Option { return func(d *Document) { d.css = css } }

// Document is an SVG document rooted at an <svg> element.
type Document struct {
	root         *Element
	measurer     Measurer
	css          string
	nextListener ListenerID
}

var _ surface.Document = (*Document)(nil)

// New returns an empty document. Without [WithMeasurer] the Go font
// measurer is used, falling back to [Monospace] if the font cannot be parsed.
func New(opts ...Option) *Document {
	d := &Document{css: DefaultStylesheet}
	for _, opt := range opts {
		opt(d)
	}
	if d.measurer == nil {
		if m, err := DefaultMeasurer(); err == nil {
			d.measurer = m
		} else {
			d.measurer = Monospace{CharWidth: 6.5, Ascent: 10, Descent: 3}
		}
	}
	d.root = &Element{doc: d, tag: "svg"}
	return d
}

// CreateElement creates a detached element.
func (d *Document) CreateElement(tag string) surface.Element {
	return d.createElement(tag)
}

func (d *Document) createElement(tag string) *Element {
	return &Element{doc: d, tag: tag}
}

// Root returns the <svg> element.
func (d *Document) Root() *Element { return d.root }

// ElementByID returns the first element with the given id attribute.
func (d *Document) ElementByID(id string) *Element {
	var found *Element
	d.root.Walk(func(e *Element) bool {
		if v, ok := e.Attribute("id"); ok && v == id {
			found = e
			return false
		}
		return true
	})
	return found
}

// SetViewBox sets the root viewBox and the matching width and height.
func (d *Document) SetViewBox(r surface.Rect) {
	d.root.SetAttribute("viewBox", fmt.Sprintf("%s %s %s %s", num(r.X), num(r.Y), num(r.Width), num(r.Height)))
	d.root.SetAttribute("width", num(r.Width))
	d.root.SetAttribute("height", num(r.Height))
}

// Bytes serializes the document.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString(`<svg xmlns="http://www.w3.org/2000/svg"`)
	writeAttrs(&buf, d.root.attrs)
	buf.WriteString(">\n")
	if d.css != "" {
		buf.WriteString("  <style>")
		buf.WriteString(d.css)
		buf.WriteString("\n  </style>\n")
	}
	for _, c := range d.root.children {
		writeElement(&buf, c, 1)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// WriteTo implements io.WriterTo.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d.Bytes())
	return int64(n), err
}

// inline elements are written without indentation so whitespace inside
// text content is preserved.
func inline(tag string) bool {
	return tag == "text" || tag == "tspan" || tag == "title"
}

func writeElement(buf *bytes.Buffer, e *Element, depth int) {
	for range depth {
		buf.WriteString("  ")
	}
	writeInline(buf, e, !inline(e.tag), depth)
	buf.WriteByte('\n')
}

func writeInline(buf *bytes.Buffer, e *Element, block bool, depth int) {
	buf.WriteByte('<')
	buf.WriteString(e.tag)
	writeAttrs(buf, e.attrs)
	if e.text == "" && len(e.children) == 0 {
		buf.WriteString("/>")
		return
	}
	buf.WriteByte('>')
	escape(buf, e.text)
	if block && len(e.children) > 0 {
		buf.WriteByte('\n')
		for _, c := range e.children {
			writeElement(buf, c, depth+1)
		}
		for range depth {
			buf.WriteString("  ")
		}
	} else {
		for _, c := range e.children {
			writeInline(buf, c, false, depth)
		}
	}
	buf.WriteString("</")
	buf.WriteString(e.tag)
	buf.WriteByte('>')
}

func writeAttrs(buf *bytes.Buffer, attrs []attr) {
	for _, a := range attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.name)
		buf.WriteString(`="`)
		escape(buf, a.value)
		buf.WriteByte('"')
	}
}

func escape(buf *bytes.Buffer, s string) {
	_ = xml.EscapeText(buf, []byte(s))
}
