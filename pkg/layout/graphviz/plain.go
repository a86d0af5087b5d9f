package graphviz

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// plainGraph is Graphviz "plain" output in surface units with the origin at
// the top-left corner.
type plainGraph struct {
	Width, Height float64
	Nodes         map[string]plainNode
	Edges         []plainEdge
}

type plainNode struct {
	X, Y, Width, Height float64
}

type plainEdge struct {
	Tail, Head string
	Points     [][2]float64
	HasLabel   bool
	LabelX     float64
	LabelY     float64
}

// parsePlain reads the plain output format:
//
//	graph scale width height
//	node name x y width height label style shape color fillcolor
//	edge tail head n x1 y1 .. xn yn [label xl yl] style color
//	stop
//
// Coordinates are inches with y growing upwards.
func parsePlain(data []byte) (*plainGraph, error) {
	g := &plainGraph{Nodes: make(map[string]plainNode)}
	var scale float64 = 1

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	seenGraph := false
	for sc.Scan() {
		line++
		fields, err := tokenize(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("plain line %d: %w", line, err)
		}
		if len(fields) == 0 {
			continue
		}
		nums := func(from, n int) ([]float64, error) {
			if len(fields) < from+n {
				return nil, fmt.Errorf("plain line %d: %s needs %d fields, got %d", line, fields[0], from+n, len(fields))
			}
			out := make([]float64, n)
			for i := range out {
				v, err := strconv.ParseFloat(fields[from+i], 64)
				if err != nil {
					return nil, fmt.Errorf("plain line %d: %w", line, err)
				}
				out[i] = v
			}
			return out, nil
		}

		switch fields[0] {
		case "graph":
			v, err := nums(1, 3)
			if err != nil {
				return nil, err
			}
			scale = v[0]
			g.Width = v[1] * scale * pointsPerInch
			g.Height = v[2] * scale * pointsPerInch
			seenGraph = true
		case "node":
			if !seenGraph {
				return nil, fmt.Errorf("plain line %d: node before graph", line)
			}
			v, err := nums(2, 4)
			if err != nil {
				return nil, err
			}
			g.Nodes[fields[1]] = plainNode{
				X:      v[0] * scale * pointsPerInch,
				Y:      g.Height - v[1]*scale*pointsPerInch,
				Width:  v[2] * pointsPerInch,
				Height: v[3] * pointsPerInch,
			}
		case "edge":
			if !seenGraph {
				return nil, fmt.Errorf("plain line %d: edge before graph", line)
			}
			e, err := g.parseEdge(fields, scale)
			if err != nil {
				return nil, fmt.Errorf("plain line %d: %w", line, err)
			}
			g.Edges = append(g.Edges, e)
		case "stop":
			return g, nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !seenGraph {
		return nil, fmt.Errorf("plain output has no graph line")
	}
	return g, nil
}

func (g *plainGraph) parseEdge(fields []string, scale float64) (plainEdge, error) {
	if len(fields) < 4 {
		return plainEdge{}, fmt.Errorf("short edge line")
	}
	e := plainEdge{Tail: fields[1], Head: fields[2]}
	n, err := strconv.Atoi(fields[3])
	if err != nil {
		return plainEdge{}, err
	}
	rest := fields[4:]
	if len(rest) < 2*n {
		return plainEdge{}, fmt.Errorf("edge declares %d points, has %d fields", n, len(rest))
	}
	for i := 0; i < n; i++ {
		x, err := strconv.ParseFloat(rest[2*i], 64)
		if err != nil {
			return plainEdge{}, err
		}
		y, err := strconv.ParseFloat(rest[2*i+1], 64)
		if err != nil {
			return plainEdge{}, err
		}
		e.Points = append(e.Points, g.point(x, y, scale))
	}
	rest = rest[2*n:]
	// A label adds three fields ahead of style and color.
	if len(rest) >= 5 {
		x, err := strconv.ParseFloat(rest[1], 64)
		if err != nil {
			return plainEdge{}, err
		}
		y, err := strconv.ParseFloat(rest[2], 64)
		if err != nil {
			return plainEdge{}, err
		}
		p := g.point(x, y, scale)
		e.HasLabel = true
		e.LabelX, e.LabelY = p[0], p[1]
	}
	return e, nil
}

func (g *plainGraph) point(x, y, scale float64) [2]float64 {
	return [2]float64{x * scale * pointsPerInch, g.Height - y*scale*pointsPerInch}
}

// tokenize splits a plain output line. Double-quoted strings may contain
// escaped quotes; HTML labels are delimited by balanced angle brackets.
func tokenize(s string) ([]string, error) {
	var out []string
	i := 0
	for i < len(s) {
		switch c := s[i]; {
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '"':
			var b strings.Builder
			i++
			closed := false
			for i < len(s) {
				if s[i] == '\\' && i+1 < len(s) {
					b.WriteByte(s[i+1])
					i += 2
					continue
				}
				if s[i] == '"' {
					closed = true
					i++
					break
				}
				b.WriteByte(s[i])
				i++
			}
			if !closed {
				return nil, fmt.Errorf("unterminated string")
			}
			out = append(out, b.String())
		case c == '<':
			depth := 0
			start := i
			for i < len(s) {
				if s[i] == '<' {
					depth++
				} else if s[i] == '>' {
					depth--
					if depth == 0 {
						i++
						break
					}
				}
				i++
			}
			if depth != 0 {
				return nil, fmt.Errorf("unbalanced html label")
			}
			out = append(out, s[start:i])
		default:
			start := i
			for i < len(s) && s[i] != ' ' && s[i] != '\t' {
				i++
			}
			out = append(out, s[start:i])
		}
	}
	return out, nil
}
