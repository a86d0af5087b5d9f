package curve

// Curve fits a uniform cubic B-spline through a sequence of points.
//
// A Curve may be reused: every call to [Curve.Fit] appends to the same
// [Path] and flips the line flag, so the second fit continues the previous
// outline with a line-to instead of a move-to and closes it at the end.
// Use [Fit] when a fresh path per route is wanted, which is the usual case.
type Curve struct {
	path   Path
	state  int
	line   bool
	x0, y0 float64
	x1, y1 float64
}

// NewCurve returns an empty curve.
func NewCurve() *Curve {
	return &Curve{}
}

// Fit feeds points through the spline window and terminates the segment.
// Fewer than two points produce at most a move-to.
func (c *Curve) Fit(points []Point) *Path {
	c.state = 0
	for i, pt := range points {
		c.point(pt.X, pt.Y)
		if i == len(points)-1 {
			c.end()
		}
	}
	return &c.path
}

// Path returns the accumulated path.
func (c *Curve) Path() *Path {
	return &c.path
}

func (c *Curve) point(x, y float64) {
	switch c.state {
	case 0:
		c.state = 1
		if c.line {
			c.path.LineTo(x, y)
		} else {
			c.path.MoveTo(x, y)
		}
	case 1:
		c.state = 2
	case 2:
		c.state = 3
		c.path.LineTo((5*c.x0+c.x1)/6, (5*c.y0+c.y1)/6)
		c.curve(x, y)
	default:
		c.curve(x, y)
	}
	c.x0, c.x1 = c.x1, x
	c.y0, c.y1 = c.y1, y
}

func (c *Curve) end() {
	switch c.state {
	case 3:
		c.curve(c.x1, c.y1)
		c.path.LineTo(c.x1, c.y1)
	case 2:
		c.path.LineTo(c.x1, c.y1)
	}
	if c.line {
		c.path.ClosePath()
	}
	c.line = !c.line
}

func (c *Curve) curve(x, y float64) {
	c.path.CubicTo(
		(2*c.x0+c.x1)/3,
		(2*c.y0+c.y1)/3,
		(c.x0+2*c.x1)/3,
		(c.y0+2*c.y1)/3,
		(c.x0+4*c.x1+x)/6,
		(c.y0+4*c.y1+y)/6,
	)
}

// Fit returns a fresh path fitted through points.
func Fit(points []Point) *Path {
	return NewCurve().Fit(points)
}
