package box

import "github.com/matzehuels/grapher/pkg/surface"

// Frame is the box of a block relative to its node.
type Frame struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Block is one section of a node: a *Header, an *ArgumentList or a *Canvas.
type Block interface {
	// Bounds returns the current frame.
	Bounds() Frame

	base() *blockBase
	build(doc surface.Document, parent surface.Element)
	measure()
	layout()
	update(sel Selection)
}

type blockBase struct {
	Frame
	first, last bool
}

func (b *blockBase) Bounds() Frame    { return b.Frame }
func (b *blockBase) base() *blockBase { return b }

// Canvas is a fixed-size placeholder block reserving vertical space.
type Canvas struct {
	blockBase
}

// CanvasHeight is the height a canvas reserves.
const CanvasHeight = 80

func (c *Canvas) build(surface.Document, surface.Element) {}

func (c *Canvas) measure() {
	c.Width = 0
	c.Height = CanvasHeight
}

func (c *Canvas) layout()          {}
func (c *Canvas) update(Selection) {}

var (
	_ Block = (*Header)(nil)
	_ Block = (*ArgumentList)(nil)
	_ Block = (*Canvas)(nil)
)
