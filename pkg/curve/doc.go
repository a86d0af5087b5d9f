// Package curve converts edge routes into smooth SVG path data.
//
// # Overview
//
// A layout engine returns every edge as a polyline (its route). [Curve] turns
// that polyline into a uniform cubic B-spline expressed as Bézier segments, the
// same construction as the "basis" curve of most plotting libraries:
//
//	path := curve.Fit([]curve.Point{{X: 0, Y: 20}, {X: 30, Y: 50}, {X: 0, Y: 80}})
//	fmt.Println(path.Data()) // M0,20L5,25C10,30,20,40,20,50C20,60,10,70,5,75L0,80
//
// The fitter is a single pass over the points with a four-state window:
//
//	0 → 1  first point: move-to (line-to when continuing a previous curve)
//	1 → 2  second point: buffered
//	2 → 3  third point: line-to 5/6 of the way along the first segment, then a cubic
//	3      every further point: one cubic segment
//
// After the last point the trailing segment is closed and a final line-to
// lands exactly on the last point, so a route whose endpoints were clipped to
// node boundaries is drawn touching both boundaries.
//
// # Path
//
// [Path] records move-to, line-to, cubic and close commands and renders them
// in SVG path syntax with the shortest exact number formatting.
package curve
