package curve

import (
	"math"
	"strconv"
	"strings"
)

// Op is a path command.
type Op byte

// Path commands, named after their SVG letters.
const (
	OpMove  Op = 'M'
	OpLine  Op = 'L'
	OpCubic Op = 'C'
	OpClose Op = 'Z'
)

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Command is a single recorded path command.
// Move and line use one point, cubic uses three (two controls and the end),
// close uses none.
type Command struct {
	Op     Op
	Points []Point
}

// End returns the pen position after the command.
func (c Command) End() (Point, bool) {
	if len(c.Points) == 0 {
		return Point{}, false
	}
	return c.Points[len(c.Points)-1], true
}

// Path accumulates path commands and tracks the current subpath.
type Path struct {
	cmds []Command
	// start of the current subpath and the current pen position
	x0, y0, x1, y1 float64
	started        bool
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) {
	p.x0, p.y0 = x, y
	p.x1, p.y1 = x, y
	p.started = true
	p.cmds = append(p.cmds, Command{Op: OpMove, Points: []Point{{x, y}}})
}

// LineTo draws a straight segment to (x, y).
func (p *Path) LineTo(x, y float64) {
	p.x1, p.y1 = x, y
	p.started = true
	p.cmds = append(p.cmds, Command{Op: OpLine, Points: []Point{{x, y}}})
}

// CubicTo draws a cubic Bézier segment with control points (x1, y1) and
// (x2, y2) ending at (x, y).
func (p *Path) CubicTo(x1, y1, x2, y2, x, y float64) {
	p.x1, p.y1 = x, y
	p.started = true
	p.cmds = append(p.cmds, Command{Op: OpCubic, Points: []Point{{x1, y1}, {x2, y2}, {x, y}}})
}

// ClosePath closes the current subpath. It is a no-op on an empty path.
func (p *Path) ClosePath() {
	if !p.started {
		return
	}
	p.x1, p.y1 = p.x0, p.y0
	p.cmds = append(p.cmds, Command{Op: OpClose})
}

// Commands returns the recorded commands.
func (p *Path) Commands() []Command {
	return p.cmds
}

// Current returns the pen position.
func (p *Path) Current() Point {
	return Point{p.x1, p.y1}
}

// Start returns the first point of the path and false when the path is empty.
func (p *Path) Start() (Point, bool) {
	if len(p.cmds) == 0 {
		return Point{}, false
	}
	return p.cmds[0].End()
}

// End returns the final pen position and false when the path is empty.
func (p *Path) End() (Point, bool) {
	if len(p.cmds) == 0 {
		return Point{}, false
	}
	return p.Current(), true
}

// Data renders the path in SVG path-data syntax, e.g. "M0,20L0,80".
func (p *Path) Data() string {
	var b strings.Builder
	for _, c := range p.cmds {
		b.WriteByte(byte(c.Op))
		for i, pt := range c.Points {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(FormatNumber(pt.X))
			b.WriteByte(',')
			b.WriteString(FormatNumber(pt.Y))
		}
	}
	return b.String()
}

// String implements fmt.Stringer.
func (p *Path) String() string { return p.Data() }

// FormatNumber formats v with the fewest digits that round-trip,
// printing negative zero as "0".
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
