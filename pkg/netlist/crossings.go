package netlist

import (
	"maps"
	"slices"
)

// CountCrossings returns the total number of wire crossings for the given rank
// orderings, summed over each pair of consecutive ranks. The orders map holds
// node IDs in top-to-bottom order for each rank; missing ranks are empty.
func CountCrossings(g *Graph, orders map[int][]string) int {
	ranks := slices.Sorted(maps.Keys(orders))
	crossings := 0
	for i := 0; i < len(ranks)-1; i++ {
		r := ranks[i]
		crossings += CountLayerCrossings(g, orders[r], orders[r+1])
	}
	return crossings
}

// CountLayerCrossings counts wire crossings between two adjacent ranks using a
// Fenwick tree (binary indexed tree) in O(E log V).
//
// Two wires (u1,v1) and (u2,v2) cross if and only if:
//
//	pos(u1) < pos(u2) AND pos(v1) > pos(v2)
//
// which is the number of inversions in the sequence of far-side positions when
// wires are sorted by near-side position.
//
// Returns 0 if either rank is empty, as no crossings can exist without wires.
func CountLayerCrossings(g *Graph, near, far []string) int {
	if len(near) == 0 || len(far) == 0 {
		return 0
	}

	farPos := PosMap(far)

	type wire struct{ near, far int }
	wires := make([]wire, 0, len(near)*2)
	for i, id := range near {
		for _, nb := range g.Neighbors(id) {
			if pos, ok := farPos[nb]; ok {
				wires = append(wires, wire{i, pos})
			}
		}
	}
	if len(wires) < 2 {
		return 0
	}

	slices.SortFunc(wires, func(a, b wire) int {
		if a.near != b.near {
			return a.near - b.near
		}
		return a.far - b.far
	})

	fenwick := make([]int, len(far)+1)
	crossings, total := 0, 0
	for _, w := range wires {
		lessOrEqual := 0
		for q := w.far + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual

		total++
		for idx := w.far + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}
