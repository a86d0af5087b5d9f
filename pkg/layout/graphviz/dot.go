package graphviz

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/grapher/pkg/layout"
)

// pointsPerInch converts surface units to Graphviz inches.
const pointsPerInch = 72

// hierarchy indexes the containment tree of a request.
type hierarchy struct {
	req      *layout.Request
	index    map[string]int
	children map[int][]int
	roots    []int
}

func newHierarchy(req *layout.Request) *hierarchy {
	h := &hierarchy{
		req:      req,
		index:    make(map[string]int, len(req.Nodes)),
		children: make(map[int][]int),
	}
	for i, n := range req.Nodes {
		h.index[n.ID] = i
	}
	for i, n := range req.Nodes {
		p, ok := h.index[n.ParentID]
		if n.ParentID == "" || !ok {
			h.roots = append(h.roots, i)
			continue
		}
		h.children[p] = append(h.children[p], i)
	}
	return h
}

func (h *hierarchy) cluster(i int) bool { return len(h.children[i]) > 0 }

// leaf returns the first leaf below i in request order, or i for a leaf.
func (h *hierarchy) leaf(i int) int {
	for h.cluster(i) {
		i = h.children[i][0]
	}
	return i
}

func nodeName(i int) string { return "n" + strconv.Itoa(i) }

func clusterName(i int) string { return "cluster_n" + strconv.Itoa(i) }

func inches(v float64) string {
	return strconv.FormatFloat(v/pointsPerInch, 'f', 4, 64)
}

// ToDOT converts a layout request to DOT source.
func ToDOT(req *layout.Request) string {
	h := newHierarchy(req)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if req.Options.Direction == layout.RankDirLR {
		buf.WriteString("  rankdir=LR;\n")
	} else {
		buf.WriteString("  rankdir=TB;\n")
	}
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  splines=spline;\n")
	fmt.Fprintf(&buf, "  nodesep=%s;\n", inches(req.Options.NodeSeparation))
	fmt.Fprintf(&buf, "  ranksep=%s;\n", inches(req.Options.RankSeparation))
	if req.Options.Ranker == layout.RankerLongestPath {
		buf.WriteString("  nslimit=1;\n  nslimit1=1;\n  mclimit=0.1;\n")
	}
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\", margin=0];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("\n")

	for _, i := range h.roots {
		writeNode(&buf, h, i, "  ")
	}

	buf.WriteString("\n")
	for _, e := range req.Edges {
		from, okFrom := h.index[e.From]
		to, okTo := h.index[e.To]
		if !okFrom || !okTo {
			continue
		}
		attrs := []string{}
		if h.cluster(from) {
			attrs = append(attrs, fmt.Sprintf("ltail=%s", clusterName(from)))
		}
		if h.cluster(to) {
			attrs = append(attrs, fmt.Sprintf("lhead=%s", clusterName(to)))
		}
		if e.MinLen > 0 {
			attrs = append(attrs, fmt.Sprintf("minlen=%d", e.MinLen))
		}
		if e.Weight > 0 {
			attrs = append(attrs, fmt.Sprintf("weight=%d", e.Weight))
		}
		if e.Width > 0 || e.Height > 0 {
			attrs = append(attrs, "label="+labelTable(e.Width, e.Height))
		}
		fmt.Fprintf(&buf, "  %s -> %s", nodeName(h.leaf(from)), nodeName(h.leaf(to)))
		if len(attrs) > 0 {
			buf.WriteString(" [")
			for k, a := range attrs {
				if k > 0 {
					buf.WriteString(", ")
				}
				buf.WriteString(a)
			}
			buf.WriteString("]")
		}
		buf.WriteString(";\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeNode(buf *bytes.Buffer, h *hierarchy, i int, indent string) {
	if !h.cluster(i) {
		n := h.req.Nodes[i]
		fmt.Fprintf(buf, "%s%s [width=%s, height=%s];\n", indent, nodeName(i), inches(n.Width), inches(n.Height))
		return
	}
	fmt.Fprintf(buf, "%ssubgraph %s {\n", indent, clusterName(i))
	for _, c := range h.children[i] {
		writeNode(buf, h, c, indent+"  ")
	}
	fmt.Fprintf(buf, "%s}\n", indent)
}

// labelTable reserves a width x height box for an edge label.
func labelTable(width, height float64) string {
	w := max(1, int(math.Ceil(width)))
	ht := max(1, int(math.Ceil(height)))
	return fmt.Sprintf(`<<TABLE BORDER="0" CELLBORDER="0" CELLSPACING="0" CELLPADDING="0"><TR><TD FIXEDSIZE="TRUE" WIDTH="%d" HEIGHT="%d"></TD></TR></TABLE>>`, w, ht)
}
