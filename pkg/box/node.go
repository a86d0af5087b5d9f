package box

import "github.com/matzehuels/grapher/pkg/surface"

// Node is a box-model node: an ordered stack of blocks.
// X and Y are the center of the node, Width and Height its measured size.
type Node struct {
	ID     string
	Class  string
	Blocks []Block

	X      float64
	Y      float64
	Width  float64
	Height float64

	element surface.Element
	border  surface.Element
}

// NewNode returns a node without blocks.
func NewNode() *Node {
	return &Node{}
}

// Header appends a header block.
func (n *Node) Header() *Header {
	h := &Header{}
	n.Blocks = append(n.Blocks, h)
	return h
}

// List appends an argument list block.
func (n *Node) List() *ArgumentList {
	l := &ArgumentList{}
	n.Blocks = append(n.Blocks, l)
	return l
}

// Canvas appends a canvas block.
func (n *Node) Canvas() *Canvas {
	c := &Canvas{}
	n.Blocks = append(n.Blocks, c)
	return c
}

// Element returns the node group, or nil before Build.
func (n *Node) Element() surface.Element { return n.element }

// Build creates the node's elements under parent. The node stays hidden
// until its first Update.
func (n *Node) Build(doc surface.Document, parent surface.Element) {
	n.element = doc.CreateElement("g")
	if n.ID != "" {
		n.element.SetAttribute("id", n.ID)
	}
	if n.Class != "" {
		n.element.SetAttribute("class", "node "+n.Class)
	} else {
		n.element.SetAttribute("class", "node")
	}
	n.element.SetAttribute("opacity", "0")
	parent.AppendChild(n.element)
	n.border = doc.CreateElement("path")
	n.border.SetAttribute("class", "node node-border")
	for i, b := range n.Blocks {
		base := b.base()
		base.first = i == 0
		base.last = i == len(n.Blocks)-1
		b.build(doc, n.element)
	}
	n.element.AppendChild(n.border)
}

// Measure sizes every block and the node. All blocks share the widest
// block's width.
func (n *Node) Measure() {
	n.Height = 0
	n.Width = 0
	for _, b := range n.Blocks {
		b.measure()
		f := b.base()
		n.Height += f.Height
		n.Width = max(n.Width, f.Width)
	}
	for _, b := range n.Blocks {
		b.base().Width = n.Width
	}
}

// Layout stacks the blocks top-down at the node's current width.
func (n *Node) Layout() {
	y := 0.0
	for _, b := range n.Blocks {
		f := b.base()
		f.X = 0
		f.Y = y
		f.Width = n.Width
		b.layout()
		y += f.Height
	}
}

// Update draws the blocks and the border and moves the node to its center.
// sel may be nil.
func (n *Node) Update(sel Selection) {
	for _, b := range n.Blocks {
		b.update(sel)
	}
	n.border.SetAttribute("d", RoundedRect(0, 0, n.Width, n.Height, true, true, true, true))
	n.element.SetAttribute("transform", translate(n.X-n.Width/2, n.Y-n.Height/2))
	n.element.RemoveAttribute("opacity")
	applySelection(n.element, n.ID, sel)
}

// Select marks the node selected and returns the affected elements.
func (n *Node) Select() []surface.Element { return selectElement(n.element) }

// Deselect clears the selected mark.
func (n *Node) Deselect() { deselectElement(n.element) }
