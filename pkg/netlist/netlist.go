package netlist

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Node is a component in the wiring graph with an assigned rank (layer).
// The zero value is not usable; ID must be set before adding to a Graph.
type Node struct {
	ID   string // Component id
	Rank int    // Layer assignment (0 = closest to the root)
	Root bool   // Preferred BFS root of its connected part (e.g. a source)
}

// Edge is a wire between two nodes. Wires are electrically undirected; From
// and To only record the authored direction.
type Edge struct {
	From string
	To   string
}

// Graph is the wiring topology of a circuit. Unlike a dependency DAG it may
// contain cycles (every closed loop through ground is one), so adjacency is
// tracked undirected.
//
// Nodes are kept in insertion order and every query returns results in a
// deterministic order, which keeps layouts stable across runs.
//
// The zero value is not usable - use New to create a valid Graph.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	order     []*Node
	nodes     map[string]*Node
	edges     []Edge
	neighbors map[string][]string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:     make(map[string]*Node),
		neighbors: make(map[string][]string),
	}
}

// AddNode adds a node to the graph.
// Returns ErrInvalidNodeID if the node ID is empty, or ErrDuplicateNodeID
// if a node with the same ID already exists.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := &n
	g.nodes[node.ID] = node
	g.order = append(g.order, node)
	return nil
}

// AddEdge adds a wire between two existing nodes.
// Returns ErrUnknownSourceNode or ErrUnknownTargetNode for dangling ends.
// Parallel wires are kept; each contributes one adjacency entry.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	g.edges = append(g.edges, e)
	g.neighbors[e.From] = append(g.neighbors[e.From], e.To)
	if e.From != e.To {
		g.neighbors[e.To] = append(g.neighbors[e.To], e.From)
	}
	return nil
}

// Nodes returns all nodes in insertion order. The returned slice contains
// pointers to the actual nodes, so modifications affect the graph.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.order) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node returns the node with the given ID and true, or nil and false.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Neighbors returns the IDs wired to the node, in wiring order. The returned
// slice should not be modified.
func (g *Graph) Neighbors(id string) []string { return g.neighbors[id] }

// Degree returns the number of wire ends attached to the node.
func (g *Graph) Degree(id string) int { return len(g.neighbors[id]) }

// SetRanks updates the rank assignment of the listed nodes. Nodes not present
// in ranks keep their current rank.
func (g *Graph) SetRanks(ranks map[string]int) {
	for _, n := range g.order {
		if r, ok := ranks[n.ID]; ok {
			n.Rank = r
		}
	}
}

// NodesInRank returns the nodes assigned to rank r in insertion order.
func (g *Graph) NodesInRank(r int) []*Node {
	var nodes []*Node
	for _, n := range g.order {
		if n.Rank == r {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// RankIDs returns all rank indices in ascending order.
func (g *Graph) RankIDs() []int {
	var ids []int
	for _, n := range g.order {
		if !slices.Contains(ids, n.Rank) {
			ids = append(ids, n.Rank)
		}
	}
	slices.Sort(ids)
	return ids
}

// Parts returns the connected parts of the graph. Parts are ordered by their
// first node in insertion order and list their members in insertion order.
func (g *Graph) Parts() [][]string {
	part := make(map[string]int, len(g.order))
	var parts [][]string
	for _, start := range g.order {
		if _, seen := part[start.ID]; seen {
			continue
		}
		idx := len(parts)
		part[start.ID] = idx
		queue := []string{start.ID}
		for len(queue) > 0 {
			curr := queue[0]
			queue = queue[1:]
			for _, nb := range g.neighbors[curr] {
				if _, seen := part[nb]; !seen {
					part[nb] = idx
					queue = append(queue, nb)
				}
			}
		}
		members := make([]string, 0)
		for _, n := range g.order {
			if part[n.ID] == idx {
				members = append(members, n.ID)
			}
		}
		parts = append(parts, members)
	}
	return parts
}

// PosMap creates a position lookup map from a slice of node IDs.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

// NodeIDs extracts the ID from each node in a slice.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
