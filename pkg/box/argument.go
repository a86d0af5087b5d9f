package box

import (
	"strings"

	"github.com/matzehuels/grapher/pkg/surface"
)

// ContentKind tags the value held by a [Content].
type ContentKind int

// Content kinds.
const (
	ContentText ContentKind = iota
	ContentNode
	ContentNodes
)

// String implements fmt.Stringer.
func (k ContentKind) String() string {
	switch k {
	case ContentNode:
		return "node"
	case ContentNodes:
		return "node[]"
	default:
		return "text"
	}
}

// Content is the value of an argument: text, one nested node or a list of
// nested nodes. Only the field matching Kind is meaningful.
type Content struct {
	Kind  ContentKind
	Text  string
	Node  *Node
	Nodes []*Node
}

// Text returns text content.
func Text(s string) Content { return Content{Kind: ContentText, Text: s} }

// Nested returns content holding one node.
func Nested(n *Node) Content { return Content{Kind: ContentNode, Node: n} }

// NestedList returns content holding a list of nodes.
func NestedList(nodes ...*Node) Content { return Content{Kind: ContentNodes, Nodes: nodes} }

// nodes returns the nested nodes in order, or nil for text content.
func (c Content) nodes() []*Node {
	switch c.Kind {
	case ContentNode:
		if c.Node == nil {
			return nil
		}
		return []*Node{c.Node}
	case ContentNodes:
		return c.Nodes
	}
	return nil
}

// nested reports whether the content renders nodes instead of text.
func (c Content) nested() bool {
	return c.Kind == ContentNode || c.Kind == ContentNodes
}

// ArgumentList is a block of name/value rows.
type ArgumentList struct {
	blockBase
	Items []*Argument

	events map[string][]func(*ArgumentList, any)

	element    surface.Element
	background surface.Element
	line       surface.Element
}

// Add appends an argument.
func (l *ArgumentList) Add(a *Argument) {
	l.Items = append(l.Items, a)
}

// On registers a handler for event; "click" handlers registered before Build
// are wired to clicks on the list.
func (l *ArgumentList) On(event string, fn func(*ArgumentList, any)) {
	if l.events == nil {
		l.events = make(map[string][]func(*ArgumentList, any))
	}
	l.events[event] = append(l.events[event], fn)
}

// Emit calls the handlers registered for event.
func (l *ArgumentList) Emit(event string, data any) {
	for _, fn := range l.events[event] {
		fn(l, data)
	}
}

func (l *ArgumentList) build(doc surface.Document, parent surface.Element) {
	l.element = doc.CreateElement("g")
	l.element.SetAttribute("class", "node-argument-list")
	if len(l.events["click"]) > 0 {
		l.element.AddListener("click", func(surface.Event) {
			l.Emit("click", nil)
		})
	}
	l.background = doc.CreateElement("path")
	l.element.AppendChild(l.background)
	parent.AppendChild(l.element)
	for _, a := range l.Items {
		a.build(doc, l.element)
	}
	if !l.first {
		l.line = doc.CreateElement("line")
		l.line.SetAttribute("class", "node")
		l.element.AppendChild(l.line)
	}
}

const (
	listMinWidth = 75
	listPadding  = 3
)

func (l *ArgumentList) measure() {
	l.Width = listMinWidth
	l.Height = listPadding
	for i, a := range l.Items {
		a.measure()
		l.Height += a.Height
		l.Width = max(l.Width, a.Width)
		if a.Content.nested() && i == len(l.Items)-1 {
			l.Height += listPadding
		}
	}
	for _, a := range l.Items {
		a.Width = l.Width
	}
	l.Height += listPadding
}

func (l *ArgumentList) layout() {
	y := float64(listPadding)
	for _, a := range l.Items {
		a.X = l.X
		a.Y = y
		a.Width = l.Width
		a.layout()
		y += a.Height
	}
}

func (l *ArgumentList) update(sel Selection) {
	l.element.SetAttribute("transform", translate(l.X, l.Y))
	l.background.SetAttribute("d", RoundedRect(0, 0, l.Width, l.Height, l.first, l.first, l.last, l.last))
	for _, a := range l.Items {
		a.update(sel)
	}
	if l.line != nil {
		l.line.SetAttribute("x1", "0")
		l.line.SetAttribute("x2", num(l.Width))
		l.line.SetAttribute("y1", "0")
		l.line.SetAttribute("y2", "0")
	}
}

// Argument is a named value in an argument list. X and Y are relative to
// the list.
type Argument struct {
	ID        string
	Name      string
	Content   Content
	Tooltip   string
	Separator string

	X      float64
	Y      float64
	Width  float64
	Height float64

	bottom float64
	offset float64

	element surface.Element
	border  surface.Element
	text    surface.Element
}

// NewArgument returns an argument with the given name and content.
func NewArgument(name string, content Content) *Argument {
	return &Argument{Name: name, Content: content}
}

const (
	argPaddingX       = 6
	argPaddingY       = 1
	argNestedMinWidth = 150
)

func (a *Argument) build(doc surface.Document, parent surface.Element) {
	a.element = doc.CreateElement("g")
	a.element.SetAttribute("class", "node-argument")
	if a.ID != "" {
		a.element.SetAttribute("id", a.ID)
	}
	a.border = doc.CreateElement("rect")
	a.border.SetAttribute("rx", "3")
	a.border.SetAttribute("ry", "3")
	a.element.AppendChild(a.border)
	a.text = doc.CreateElement("text")
	a.text.SetAttribute("xml:space", "preserve")
	if a.Tooltip != "" {
		title := doc.CreateElement("title")
		title.SetText(a.Tooltip)
		a.text.AppendChild(title)
	}
	nested := a.Content.nested()
	name := doc.CreateElement("tspan")
	if nested {
		name.SetText(a.Name + ":")
	} else {
		name.SetText(a.Name)
		if strings.TrimSpace(a.Separator) != "=" {
			name.SetAttribute("font-weight", "bold")
		}
	}
	a.text.AppendChild(name)
	a.element.AppendChild(a.text)
	parent.AppendChild(a.element)
	if nested {
		for _, n := range a.Content.nodes() {
			n.Build(doc, a.element)
		}
		return
	}
	value := doc.CreateElement("tspan")
	value.SetText(a.Separator + a.Content.Text)
	a.text.AppendChild(value)
}

func (a *Argument) measure() {
	if a.text == nil {
		return
	}
	size := a.text.BBox()
	a.Width = argPaddingX + size.Width + argPaddingX
	a.bottom = argPaddingY + size.Height + argPaddingY
	a.offset = size.Y
	a.Height = a.bottom
	for _, n := range a.Content.nodes() {
		n.Measure()
		a.Width = max(argNestedMinWidth, a.Width, n.Width+2*argPaddingX)
		a.Height += n.Height + 4*argPaddingY
	}
}

func (a *Argument) layout() {
	y := a.Y + a.bottom
	for _, n := range a.Content.nodes() {
		n.Width = a.Width - 2*argPaddingX
		n.Layout()
		n.X = a.X + argPaddingX + n.Width/2
		n.Y = y + n.Height/2 + 2*argPaddingY
		y += n.Height + 4*argPaddingY
	}
}

func (a *Argument) update(sel Selection) {
	a.text.SetAttribute("x", num(a.X+argPaddingX))
	a.text.SetAttribute("y", num(a.Y+argPaddingY-a.offset))
	a.border.SetAttribute("x", num(a.X+3))
	a.border.SetAttribute("y", num(a.Y))
	a.border.SetAttribute("width", num(a.Width-6))
	a.border.SetAttribute("height", num(a.Height))
	for _, n := range a.Content.nodes() {
		n.Update(sel)
	}
	applySelection(a.element, a.ID, sel)
}

// Select marks the argument selected and returns the affected elements.
func (a *Argument) Select() []surface.Element { return selectElement(a.element) }

// Deselect clears the selected mark.
func (a *Argument) Deselect() { deselectElement(a.element) }
