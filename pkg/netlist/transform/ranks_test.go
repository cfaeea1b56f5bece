package transform

import (
	"testing"

	"github.com/matzehuels/schematic/pkg/netlist"
)

func build(t *testing.T, nodes []netlist.Node, edges [][2]string) *netlist.Graph {
	t.Helper()
	g := netlist.New()
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(netlist.Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatalf("AddEdge(%v): %v", e, err)
		}
	}
	return g
}

func rankOf(g *netlist.Graph, id string) int {
	n, _ := g.Node(id)
	return n.Rank
}

func TestAssignRanksFromRoot(t *testing.T) {
	g := build(t,
		[]netlist.Node{{ID: "R1"}, {ID: "V1", Root: true}, {ID: "C1"}, {ID: "GND"}},
		[][2]string{{"V1", "R1"}, {"R1", "C1"}, {"C1", "GND"}, {"GND", "V1"}},
	)
	AssignRanks(g)

	want := map[string]int{"V1": 0, "R1": 1, "GND": 1, "C1": 2}
	for id, r := range want {
		if got := rankOf(g, id); got != r {
			t.Errorf("rank(%s) = %d, want %d", id, got, r)
		}
	}
}

func TestAssignRanksDisconnected(t *testing.T) {
	g := build(t,
		[]netlist.Node{{ID: "a"}, {ID: "b"}, {ID: "lonely"}},
		[][2]string{{"a", "b"}},
	)
	AssignRanks(g)
	if rankOf(g, "a") != 0 || rankOf(g, "b") != 1 || rankOf(g, "lonely") != 0 {
		t.Errorf("ranks = a:%d b:%d lonely:%d", rankOf(g, "a"), rankOf(g, "b"), rankOf(g, "lonely"))
	}
}

func TestOrderRanksRemovesCrossing(t *testing.T) {
	g := build(t,
		[]netlist.Node{{ID: "r", Root: true}, {ID: "a"}, {ID: "b"}, {ID: "x"}, {ID: "y"}},
		[][2]string{{"r", "a"}, {"r", "b"}, {"a", "y"}, {"b", "x"}},
	)
	AssignRanks(g)

	before := map[int][]string{}
	for _, r := range g.RankIDs() {
		before[r] = netlist.NodeIDs(g.NodesInRank(r))
	}
	if netlist.CountCrossings(g, before) == 0 {
		t.Fatal("fixture should start with a crossing")
	}

	orders := OrderRanks(g, DefaultSweeps)
	if c := netlist.CountCrossings(g, orders); c != 0 {
		t.Errorf("crossings after ordering = %d, want 0 (orders %v)", c, orders)
	}
	for r, ids := range before {
		if len(orders[r]) != len(ids) {
			t.Errorf("rank %d lost nodes: %v -> %v", r, ids, orders[r])
		}
	}
}

func TestOrderRanksEmpty(t *testing.T) {
	if got := OrderRanks(netlist.New(), DefaultSweeps); len(got) != 0 {
		t.Errorf("OrderRanks(empty) = %v, want empty", got)
	}
}
