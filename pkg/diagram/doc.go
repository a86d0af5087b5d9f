// Package diagram is the compound graph behind a rendered diagram.
//
// A [Graph] holds box-model nodes and [Edge] values keyed by id, plus an
// optional containment forest (compound graphs). Nodes with children are
// clusters and are drawn as rectangles sized by the layout engine; all
// other nodes are leaves drawn by package box.
//
// # Lifecycle
//
//	g := diagram.New(diagram.WithCompound(true))
//	g.SetNode("a", nodeA)
//	g.SetNode("b", nodeB)
//	g.SetEdge("a", "b", &diagram.Edge{Label: "calls"})
//
//	g.Build(doc, doc.Root())  // create surface elements
//	g.Measure()               // size leaves
//	status, err := g.Layout(ctx, engine)
//	if status == layout.StatusDone {
//	    g.Update(nil)         // write geometry
//	}
//
// Update is a pure projection of the current geometry and may be called any
// number of times. A cancelled layout applies nothing, so a diagram drawn
// before the layout stays as it was.
package diagram
