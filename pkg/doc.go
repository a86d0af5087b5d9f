// Package pkg provides the libraries behind grapher, a compound graph
// diagram renderer.
//
// # Overview
//
// Grapher draws graphs whose nodes are boxes (headers, argument lists,
// nested nodes), grouped into clusters and joined by labelled edges. The
// pkg directory is organized into these areas:
//
//  1. [diagram] - the compound graph, edges, layers and layout application
//  2. [box] - the node box model: measure, lay out and update blocks
//  3. [curve] - basis spline path data for edge routes
//  4. [layout] - the engine contract, timeout prompt and layout cache
//  5. [surface] - the presentation surface and its SVG implementation
//  6. [document] - the JSON diagram description read by the CLI
//
// # Architecture
//
// The typical data flow:
//
//	JSON diagram
//	     ↓
//	[document] package (decode and convert)
//	     ↓
//	[diagram] package (build on a surface, measure)
//	     ↓
//	[layout] engine (graphviz in-process or the HTTP worker)
//	     ↓
//	[diagram] package (apply positions, update)
//	     ↓
//	SVG output
//
// # Quick Start
//
//	import (
//	    "context"
//
//	    "github.com/matzehuels/grapher/pkg/box"
//	    "github.com/matzehuels/grapher/pkg/diagram"
//	    "github.com/matzehuels/grapher/pkg/layout/graphviz"
//	    "github.com/matzehuels/grapher/pkg/surface/svg"
//	)
//
//	g := diagram.New(diagram.WithDirection(diagram.DirectionVertical))
//	a := box.NewNode()
//	a.Header().Add("", nil, "Alpha", "")
//	g.SetNode("a", a)
//	b := box.NewNode()
//	b.Header().Add("", nil, "Beta", "")
//	g.SetNode("b", b)
//	_ = g.SetEdge("a", "b", &diagram.Edge{Label: "uses"})
//
//	doc := svg.New()
//	g.Build(doc, doc.Root())
//	g.Measure()
//	if _, err := g.Layout(context.Background(), graphviz.New()); err != nil {
//	    // handle error
//	}
//	g.Update(nil)
//	doc.SetViewBox(g.Bounds())
//	os.Stdout.Write(doc.Bytes())
package pkg
