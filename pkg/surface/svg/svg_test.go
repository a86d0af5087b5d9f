package svg

import (
	"strings"
	"testing"

	"github.com/matzehuels/grapher/pkg/surface"
)

func newTestDocument() *Document {
	return New(WithMeasurer(Monospace{CharWidth: 7, Ascent: 10, Descent: 4}), WithStylesheet(""))
}

func TestTextBBox(t *testing.T) {
	doc := newTestDocument()
	text := doc.CreateElement("text")
	text.SetText("abc")

	got := text.BBox()
	want := surface.Rect{X: 0, Y: -10, Width: 21, Height: 14}
	if got != want {
		t.Errorf("BBox() = %+v, want %+v", got, want)
	}

	text.SetAttribute("x", "5")
	text.SetAttribute("y", "20")
	got = text.BBox()
	if got.X != 5 || got.Y != 10 {
		t.Errorf("BBox() origin = (%v,%v), want (5,10)", got.X, got.Y)
	}
}

func TestTextBBoxSpans(t *testing.T) {
	doc := newTestDocument()
	text := doc.CreateElement("text")
	title := doc.CreateElement("title")
	title.SetText("a long tooltip that must not count")
	name := doc.CreateElement("tspan")
	name.SetText("axis")
	value := doc.CreateElement("tspan")
	value.SetText(" = 1")
	text.AppendChild(title)
	text.AppendChild(name)
	text.AppendChild(value)

	if got := text.BBox().Width; got != 56 {
		t.Errorf("Width = %v, want 56", got)
	}
}

func TestContainerBBox(t *testing.T) {
	doc := newTestDocument()
	g := doc.CreateElement("g")
	a := doc.CreateElement("rect")
	a.SetAttribute("x", "0")
	a.SetAttribute("y", "0")
	a.SetAttribute("width", "10")
	a.SetAttribute("height", "10")
	b := doc.CreateElement("rect")
	b.SetAttribute("x", "20")
	b.SetAttribute("y", "-5")
	b.SetAttribute("width", "5")
	b.SetAttribute("height", "5")
	g.AppendChild(a)
	g.AppendChild(b)

	want := surface.Rect{X: 0, Y: -5, Width: 25, Height: 15}
	if got := g.BBox(); got != want {
		t.Errorf("BBox() = %+v, want %+v", got, want)
	}
}

func TestAttributes(t *testing.T) {
	doc := newTestDocument()
	el := doc.CreateElement("path")
	el.SetAttribute("class", "a")
	el.SetAttribute("d", "M0,0")
	el.SetAttribute("class", "b")

	if v, _ := el.Attribute("class"); v != "b" {
		t.Errorf("class = %q, want b", v)
	}
	el.RemoveAttribute("class")
	if _, ok := el.Attribute("class"); ok {
		t.Error("class should be removed")
	}
	if v, ok := el.Attribute("d"); !ok || v != "M0,0" {
		t.Errorf("d = %q, %v", v, ok)
	}
}

func TestAppendChildMoves(t *testing.T) {
	doc := newTestDocument()
	a := doc.CreateElement("g").(*Element)
	b := doc.CreateElement("g").(*Element)
	c := doc.CreateElement("path")

	a.AppendChild(c)
	b.AppendChild(c)

	if len(a.Children()) != 0 {
		t.Errorf("old parent has %d children", len(a.Children()))
	}
	if len(b.Children()) != 1 || c.(*Element).Parent() != b {
		t.Error("child not moved to new parent")
	}
}

func TestListeners(t *testing.T) {
	doc := newTestDocument()
	el := doc.CreateElement("g").(*Element)

	var calls []string
	id1 := el.AddListener("click", func(e surface.Event) { calls = append(calls, "one:"+e.Type) })
	el.AddListener("click", func(e surface.Event) { calls = append(calls, "two") })

	el.Dispatch("click")
	el.RemoveListener("click", id1)
	el.Dispatch("click")
	el.Dispatch("pointerover")

	if got := strings.Join(calls, ","); got != "one:click,two,two" {
		t.Errorf("calls = %s", got)
	}
}

func TestBytes(t *testing.T) {
	doc := newTestDocument()
	doc.SetViewBox(surface.Rect{X: -1, Y: -1, Width: 102, Height: 42})
	g := doc.CreateElement("g")
	g.SetAttribute("id", "nodes")
	text := doc.CreateElement("text")
	text.SetAttribute("xml:space", "preserve")
	span := doc.CreateElement("tspan")
	span.SetText("a<b & c")
	text.AppendChild(span)
	g.AppendChild(text)
	doc.Root().AppendChild(g)

	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="-1 -1 102 42" width="102" height="42">
  <g id="nodes">
    <text xml:space="preserve"><tspan>a&lt;b &amp; c</tspan></text>
  </g>
</svg>
`
	if got := string(doc.Bytes()); got != want {
		t.Errorf("Bytes() =\n%s\nwant\n%s", got, want)
	}

	if doc.ElementByID("nodes") == nil {
		t.Error("ElementByID(nodes) = nil")
	}
}

func TestFontMeasurer(t *testing.T) {
	m, err := DefaultMeasurer()
	if err != nil {
		t.Fatalf("DefaultMeasurer: %v", err)
	}

	short := m.Measure("ab", false)
	long := m.Measure("abcdef", false)
	if short <= 0 || long <= short {
		t.Errorf("widths not increasing: %v, %v", short, long)
	}
	if m.Measure("abcdef", true) < long {
		t.Error("bold text should not be narrower than regular")
	}
	ascent, descent := m.Metrics()
	if ascent <= 0 || descent <= 0 {
		t.Errorf("metrics = %v, %v", ascent, descent)
	}
}
