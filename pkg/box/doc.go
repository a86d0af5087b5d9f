// Package box implements the box model used to draw diagram nodes.
//
// # Overview
//
// A [Node] is a vertical stack of blocks. A block is one of [Header],
// [ArgumentList] or [Canvas]; the set is closed, every variant implements the
// unexported [Block] methods and nothing outside this package can add one.
// Arguments may embed further nodes, so a node is the root of a tree:
//
//	n := box.NewNode()
//	n.Header().Add("op", nil, "Conv", "")
//	list := n.List()
//	list.Add(box.NewArgument("kernel", box.Text("3x3")))
//	list.Add(box.NewArgument("bias", box.Nested(inner)))
//
// # Phases
//
// Every element goes through three phases, in order:
//
//  1. Measure computes Width and Height bottom-up from text boxes and the
//     measured sizes of children. It never reads positions.
//  2. Layout assigns positions top-down once the width is fixed. The owning
//     graph sets the node's X and Y (its center) before calling Layout.
//  3. Update writes the finalized geometry to the drawing surface. It only
//     projects existing state and may be called repeatedly.
//
// Calling a phase out of order leaves geometry undefined; it is not checked.
//
// # Geometry
//
// Adjoining blocks share borders so a node reads as one rounded container:
// only the first block gets rounded top corners and only the last block
// rounded bottom corners. [RoundedRect] draws every such shape.
package box
