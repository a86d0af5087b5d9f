package diagram

import (
	"fmt"
	"math"

	"github.com/matzehuels/grapher/pkg/box"
	"github.com/matzehuels/grapher/pkg/curve"
	"github.com/matzehuels/grapher/pkg/surface"
)

// Layer group ids, bottom to top.
const (
	LayerClusters   = "clusters"
	LayerEdgePaths  = "edge-paths"
	LayerEdgeHits   = "edge-paths-hit-test"
	LayerEdgeLabels = "edge-labels"
	LayerNodes      = "nodes"
)

// Arrowhead marker ids defined by Build.
var Markers = []string{"arrowhead", "arrowhead-select", "arrowhead-hover"}

type layers struct {
	clusters, paths, hits, labels, nodes surface.Element
}

func group(doc surface.Document, name string) surface.Element {
	el := doc.CreateElement("g")
	el.SetAttribute("id", name)
	el.SetAttribute("class", name)
	return el
}

func marker(doc surface.Document, id string) surface.Element {
	el := doc.CreateElement("marker")
	el.SetAttribute("id", id)
	el.SetAttribute("viewBox", "0 0 10 10")
	el.SetAttribute("refX", "9")
	el.SetAttribute("refY", "5")
	el.SetAttribute("markerUnits", "strokeWidth")
	el.SetAttribute("markerWidth", "8")
	el.SetAttribute("markerHeight", "6")
	el.SetAttribute("orient", "auto")
	p := doc.CreateElement("path")
	p.SetAttribute("d", "M 0 0 L 10 5 L 0 10 L 4 5 z")
	p.SetAttribute("stroke-width", "1")
	el.AppendChild(p)
	return el
}

// Build creates the presentation elements under origin: one group per
// layer, arrowhead markers, every leaf node, a rectangle per cluster and
// every edge. Edge labels are measured once they are attached.
func (g *Graph) Build(doc surface.Document, origin surface.Element) {
	l := &layers{
		clusters: group(doc, LayerClusters),
		paths:    group(doc, LayerEdgePaths),
		hits:     group(doc, LayerEdgeHits),
		labels:   group(doc, LayerEdgeLabels),
		nodes:    group(doc, LayerNodes),
	}
	defs := doc.CreateElement("defs")
	for _, id := range Markers {
		defs.AppendChild(marker(doc, id))
	}
	l.paths.AppendChild(defs)

	for _, id := range g.nodeOrder {
		entry := g.nodes[id]
		if !g.IsCluster(id) {
			entry.Label.Build(doc, l.nodes)
			continue
		}
		entry.rect = doc.CreateElement("rect")
		if entry.RX != 0 {
			entry.rect.SetAttribute("rx", curve.FormatNumber(entry.RX))
		}
		if entry.RY != 0 {
			entry.rect.SetAttribute("ry", curve.FormatNumber(entry.RY))
		}
		entry.group = doc.CreateElement("g")
		entry.group.SetAttribute("class", "cluster")
		entry.group.AppendChild(entry.rect)
		l.clusters.AppendChild(entry.group)
	}
	for _, k := range g.edgeOrder {
		g.edges[k].Label.build(doc, l.paths, l.hits, l.labels)
	}

	origin.AppendChild(l.clusters)
	origin.AppendChild(l.paths)
	origin.AppendChild(l.hits)
	origin.AppendChild(l.labels)
	origin.AppendChild(l.nodes)

	for _, k := range g.edgeOrder {
		g.edges[k].Label.measure()
	}
	g.layers = l
}

// Measure sizes every leaf node. It reads rendered text, so Build must run
// first; nodes not yet built keep their size.
func (g *Graph) Measure() {
	for _, id := range g.nodeOrder {
		if !g.IsCluster(id) {
			g.nodes[id].Label.Measure()
		}
	}
}

// Update writes the current geometry to the elements. sel may be nil.
func (g *Graph) Update(sel box.Selection) {
	for _, id := range g.nodeOrder {
		entry := g.nodes[id]
		n := entry.Label
		if !g.IsCluster(id) {
			if n.Element() != nil {
				n.Update(sel)
			}
			continue
		}
		if entry.group == nil {
			continue
		}
		entry.group.SetAttribute("transform", fmt.Sprintf("translate(%s,%s)", curve.FormatNumber(n.X), curve.FormatNumber(n.Y)))
		entry.rect.SetAttribute("x", curve.FormatNumber(-n.Width/2))
		entry.rect.SetAttribute("y", curve.FormatNumber(-n.Height/2))
		entry.rect.SetAttribute("width", curve.FormatNumber(n.Width))
		entry.rect.SetAttribute("height", curve.FormatNumber(n.Height))
	}
	for _, k := range g.edgeOrder {
		g.edges[k].Label.Update(sel)
	}
}

// Bounds returns the box covering every node, cluster, route point and
// label. It is zero for an empty graph.
func (g *Graph) Bounds() surface.Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	add := func(x0, y0, x1, y1 float64) {
		minX, minY = math.Min(minX, x0), math.Min(minY, y0)
		maxX, maxY = math.Max(maxX, x1), math.Max(maxY, y1)
	}
	for _, id := range g.nodeOrder {
		n := g.nodes[id].Label
		add(n.X-n.Width/2, n.Y-n.Height/2, n.X+n.Width/2, n.Y+n.Height/2)
	}
	for _, k := range g.edgeOrder {
		e := g.edges[k].Label
		for _, p := range e.Points {
			add(p.X, p.Y, p.X, p.Y)
		}
		if e.Label != "" {
			add(e.X-e.Width/2, e.Y-e.Height/2, e.X+e.Width/2, e.Y+e.Height/2)
		}
	}
	if minX > maxX {
		return surface.Rect{}
	}
	return surface.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
