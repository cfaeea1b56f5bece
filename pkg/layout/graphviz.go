package layout

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/schematic/pkg/circuit"
)

// pointsPerInch converts Graphviz inches to pixels.
const pointsPerInch = 72.0

// formatPlain is Graphviz's line-oriented layout dump. It is not exported by
// go-graphviz as a constant but is served by the bundled core renderer.
const formatPlain graphviz.Format = "plain"

// engineResult is the provisional geometry produced by Graphviz.
type engineResult struct {
	// centers are keyed by component id, in pixels, y pointing down.
	centers map[string]circuit.Vec

	// routes holds the orthogonal corner points of each connection, indexed
	// like the config's connections, endpoints included. Missing entries are nil.
	routes [][]circuit.Vec
}

// toDOT converts a sanitized config into a Graphviz graph. Components are
// emitted as fixed-size boxes with synthetic node names so arbitrary authored
// ids never need DOT quoting. Two-terminal components without a pinned
// orientation reserve a square footprint, which keeps them clear of their
// neighbours whatever rotation post-processing picks.
func toDOT(cfg circuit.Config, opts Options) string {
	cons := cfg.Constraint()
	scale := 1.0
	if cons.GridSize > 0 {
		scale = float64(cons.GridSize) / float64(DefaultGridSize)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if cons.FlowDirection == circuit.FlowLeftToRight {
		buf.WriteString("  rankdir=LR;\n")
	} else {
		buf.WriteString("  rankdir=TB;\n")
	}
	buf.WriteString("  splines=ortho;\n")
	buf.WriteString("  margin=0;\n")
	fmt.Fprintf(&buf, "  nodesep=%s;\n", inches(float64(opts.NodeSpacing)*scale))
	fmt.Fprintf(&buf, "  ranksep=%s;\n", inches(float64(opts.RankSpacing)*scale))
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("\n")

	for i, c := range cfg.Components {
		s := engineSize(c)
		fmt.Fprintf(&buf, "  n%d [width=%s, height=%s];\n", i, inches(float64(s.W)), inches(float64(s.H)))
	}

	buf.WriteString("\n")
	index := componentIndex(cfg)
	for _, conn := range cfg.Connections {
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", index[conn.From], index[conn.To])
	}

	buf.WriteString("}\n")
	return buf.String()
}

func inches(px float64) string {
	return strconv.FormatFloat(px/pointsPerInch, 'f', 4, 64)
}

// engineSize is the footprint reserved for c during engine layout.
func engineSize(c circuit.Component) circuit.Size {
	s := c.Type.Size()
	if r, pinned := c.Orientation.Rotation(); pinned {
		return s.Rotated(r)
	}
	if c.Type.TwoTerminal() {
		side := max(s.W, s.H)
		return circuit.Size{W: side, H: side}
	}
	return s
}

func componentIndex(cfg circuit.Config) map[string]int {
	index := make(map[string]int, len(cfg.Components))
	for i, c := range cfg.Components {
		index[c.ID] = i
	}
	return index
}

// runEngine lays out cfg with a fresh Graphviz instance. Any failure inside
// the engine, including a panic, is returned as an error.
func runEngine(ctx context.Context, cfg circuit.Config, opts Options) (res *engineResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("graphviz panic: %v", r)
		}
	}()

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(toDOT(cfg, opts)))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, formatPlain, &buf); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	return parsePlain(buf.Bytes(), cfg)
}

// parsePlain reads Graphviz "plain" output:
//
//	graph scale width height
//	node name x y width height label style shape color fillcolor
//	edge tail head n x1 y1 .. xn yn [label xl yl] style color
//	stop
//
// Coordinates are in inches with y pointing up; they are converted to pixels
// with y pointing down. Edge control points are reduced to orthogonal corners.
func parsePlain(data []byte, cfg circuit.Config) (*engineResult, error) {
	res := &engineResult{
		centers: make(map[string]circuit.Vec, len(cfg.Components)),
		routes:  make([][]circuit.Vec, len(cfg.Connections)),
	}

	// Parallel wires share a (tail, head) pair and are matched in input order.
	pending := make(map[[2]int][]int)
	index := componentIndex(cfg)
	for i, conn := range cfg.Connections {
		key := [2]int{index[conn.From], index[conn.To]}
		pending[key] = append(pending[key], i)
	}

	var height float64
	sawGraph := false
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "graph":
			if len(fields) < 4 {
				return nil, fmt.Errorf("malformed graph line %q", sc.Text())
			}
			h, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return nil, fmt.Errorf("graph height: %w", err)
			}
			height, sawGraph = h, true

		case "node":
			if !sawGraph || len(fields) < 4 {
				return nil, fmt.Errorf("malformed node line %q", sc.Text())
			}
			i, ok := nodeIndex(fields[1], len(cfg.Components))
			if !ok {
				return nil, fmt.Errorf("unknown node %q", fields[1])
			}
			x, y, err := parseXY(fields[2], fields[3], height)
			if err != nil {
				return nil, err
			}
			res.centers[cfg.Components[i].ID] = circuit.Vec{X: x, Y: y}

		case "edge":
			if !sawGraph || len(fields) < 4 {
				return nil, fmt.Errorf("malformed edge line %q", sc.Text())
			}
			tail, ok1 := nodeIndex(fields[1], len(cfg.Components))
			head, ok2 := nodeIndex(fields[2], len(cfg.Components))
			n, err := strconv.Atoi(fields[3])
			if !ok1 || !ok2 || err != nil || len(fields) < 4+2*n {
				return nil, fmt.Errorf("malformed edge line %q", sc.Text())
			}
			pts := make([]circuit.Vec, 0, n)
			for k := 0; k < n; k++ {
				x, y, err := parseXY(fields[4+2*k], fields[5+2*k], height)
				if err != nil {
					return nil, err
				}
				pts = append(pts, circuit.Vec{X: x, Y: y})
			}
			key := [2]int{tail, head}
			if q := pending[key]; len(q) > 0 {
				res.routes[q[0]] = corners(pts)
				pending[key] = q[1:]
			}

		case "stop":
			if len(res.centers) != len(cfg.Components) {
				return nil, fmt.Errorf("graphviz placed %d of %d components", len(res.centers), len(cfg.Components))
			}
			return res, nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("truncated plain output")
}

func nodeIndex(name string, n int) (int, bool) {
	name = strings.Trim(name, `"`)
	if !strings.HasPrefix(name, "n") {
		return 0, false
	}
	i, err := strconv.Atoi(name[1:])
	if err != nil || i < 0 || i >= n {
		return 0, false
	}
	return i, true
}

func parseXY(xs, ys string, height float64) (float64, float64, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("coordinate %q: %w", xs, err)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("coordinate %q: %w", ys, err)
	}
	return x * pointsPerInch, (height - y) * pointsPerInch, nil
}

// corners drops duplicate and collinear control points, keeping the endpoints
// and every point where the path turns.
func corners(pts []circuit.Vec) []circuit.Vec {
	const eps = 0.5
	var out []circuit.Vec
	for _, p := range pts {
		if n := len(out); n > 0 && math.Abs(out[n-1].X-p.X) < eps && math.Abs(out[n-1].Y-p.Y) < eps {
			continue
		}
		out = append(out, p)
		for len(out) >= 3 {
			a, b, c := out[len(out)-3], out[len(out)-2], out[len(out)-1]
			sameX := math.Abs(a.X-b.X) < eps && math.Abs(b.X-c.X) < eps
			sameY := math.Abs(a.Y-b.Y) < eps && math.Abs(b.Y-c.Y) < eps
			if !sameX && !sameY {
				break
			}
			out = append(out[:len(out)-2], c)
		}
	}
	return out
}
