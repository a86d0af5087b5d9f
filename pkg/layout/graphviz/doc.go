// Package graphviz lays out diagrams in-process with Graphviz dot.
//
// # Overview
//
// [Engine] implements layout.Engine on top of [github.com/goccy/go-graphviz],
// which runs Graphviz compiled to WebAssembly, so no system installation is
// needed. A request is translated to DOT, rendered to the "plain" output
// format and parsed back into node centers and edge routes:
//
//	engine := graphviz.New()
//	resp, err := engine.Layout(ctx, req)
//
// # Translation
//
// Nodes become fixed-size boxes named n0, n1, ... after their request index.
// Clusters become "cluster_nI" subgraphs. Edges touching a cluster are
// attached to the cluster's first leaf and clipped with lhead/ltail.
// Edge labels are reserved as fixed-size HTML tables so routes leave room
// for them. The longest-path ranker has no Graphviz equivalent; it is
// approximated by capping the network simplex iterations.
//
// The plain format carries no cluster boxes, so cluster bounds are derived
// from their members plus [ClusterPadding].
package graphviz
