package box

import (
	"fmt"

	"github.com/matzehuels/grapher/pkg/curve"
)

// Radius is the corner radius of rounded rectangles.
const Radius = 5

// RoundedRect returns SVG path data for a rectangle whose corners are rounded
// independently: r1 top-left, r2 top-right, r3 bottom-right, r4 bottom-left.
func RoundedRect(x, y, width, height float64, r1, r2, r3, r4 bool) string {
	a, b, c, d := radius(r1), radius(r2), radius(r3), radius(r4)
	return fmt.Sprintf("M%s,%sh%sa%s,%s 0 0 1 %s,%sv%sa%s,%s 0 0 1 %s,%sh%sa%s,%s 0 0 1 %s,%sv%sa%s,%s 0 0 1 %s,%sz",
		num(x+a), num(y),
		num(width-a-b),
		num(b), num(b), num(b), num(b),
		num(height-b-c),
		num(c), num(c), num(-c), num(c),
		num(c+d-width),
		num(d), num(d), num(-d), num(-d),
		num(-height+d+a),
		num(a), num(a), num(a), num(-a),
	)
}

func radius(on bool) float64 {
	if on {
		return Radius
	}
	return 0
}

func num(v float64) string { return curve.FormatNumber(v) }

func translate(x, y float64) string {
	return fmt.Sprintf("translate(%s,%s)", num(x), num(y))
}
