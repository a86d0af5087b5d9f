// Package svg implements [surface.Document] as an in-memory SVG tree.
//
// Elements keep their attributes in insertion order so the serialized output
// is stable across runs, which keeps rendered diagrams diffable and makes
// golden comparisons in tests possible.
//
// Text boxes are measured with a [Measurer]. The default measurer uses the Go
// fonts through golang.org/x/image/font so sizes match what a browser would
// draw with a similar sans-serif face; [Monospace] gives exact integer
// metrics for tests.
//
//	doc := svg.New()
//	g.Build(doc, doc.Root())
//	...
//	_, err := doc.WriteTo(w)
package svg
