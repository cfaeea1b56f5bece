package transform

import (
	"cmp"
	"maps"
	"slices"

	"github.com/matzehuels/schematic/pkg/netlist"
)

// AssignRanks assigns every node the graph distance from the root of its
// connected part. Existing ranks are overwritten.
//
// Time complexity is O(V + E).
func AssignRanks(g *netlist.Graph) {
	ranks := make(map[string]int, g.NodeCount())
	for _, part := range g.Parts() {
		root := part[0]
		for _, id := range part {
			if n, _ := g.Node(id); n.Root {
				root = id
				break
			}
		}

		ranks[root] = 0
		queue := []string{root}
		for len(queue) > 0 {
			curr := queue[0]
			queue = queue[1:]
			for _, nb := range g.Neighbors(curr) {
				if _, seen := ranks[nb]; !seen {
					ranks[nb] = ranks[curr] + 1
					queue = append(queue, nb)
				}
			}
		}
	}
	g.SetRanks(ranks)
}

// DefaultSweeps is the number of down/up barycenter passes tried by OrderRanks.
const DefaultSweeps = 4

// OrderRanks returns an in-rank ordering for every rank. It starts from
// insertion order and tries sweeps alternating barycenter passes, keeping a
// candidate only when it strictly reduces the total crossing count.
func OrderRanks(g *netlist.Graph, sweeps int) map[int][]string {
	best := make(map[int][]string)
	for _, r := range g.RankIDs() {
		best[r] = netlist.NodeIDs(g.NodesInRank(r))
	}
	bestCrossings := netlist.CountCrossings(g, best)
	if bestCrossings == 0 {
		return best
	}

	ranks := slices.Sorted(maps.Keys(best))
	current := cloneOrders(best)
	for i := 0; i < sweeps; i++ {
		if i%2 == 0 {
			for _, r := range ranks[1:] {
				current[r] = barycenterOrder(g, current[r], current[r-1])
			}
		} else {
			for j := len(ranks) - 2; j >= 0; j-- {
				r := ranks[j]
				current[r] = barycenterOrder(g, current[r], current[r+1])
			}
		}
		if c := netlist.CountCrossings(g, current); c < bestCrossings {
			best, bestCrossings = cloneOrders(current), c
			if c == 0 {
				break
			}
		}
	}
	return best
}

// barycenterOrder sorts ids by the mean position of their neighbors in the
// adjacent rank. Nodes without neighbors there keep their current position as
// their key, and ties keep the current relative order.
func barycenterOrder(g *netlist.Graph, ids, adjacent []string) []string {
	adjPos := netlist.PosMap(adjacent)
	type keyed struct {
		id  string
		key float64
		pos int
	}
	items := make([]keyed, len(ids))
	for i, id := range ids {
		sum, n := 0, 0
		for _, nb := range g.Neighbors(id) {
			if p, ok := adjPos[nb]; ok {
				sum += p
				n++
			}
		}
		key := float64(i)
		if n > 0 {
			key = float64(sum) / float64(n)
		}
		items[i] = keyed{id: id, key: key, pos: i}
	}
	slices.SortStableFunc(items, func(a, b keyed) int {
		if c := cmp.Compare(a.key, b.key); c != 0 {
			return c
		}
		return cmp.Compare(a.pos, b.pos)
	})
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.id
	}
	return out
}

func cloneOrders(orders map[int][]string) map[int][]string {
	out := make(map[int][]string, len(orders))
	for r, ids := range orders {
		out[r] = slices.Clone(ids)
	}
	return out
}
