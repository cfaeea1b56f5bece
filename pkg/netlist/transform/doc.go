// Package transform assigns ranks and in-rank orderings to a wiring graph.
//
// # Rank Assignment
//
// [AssignRanks] performs a breadth-first search from a root in every connected
// part and uses the graph distance as the rank. Roots are nodes flagged with
// [netlist.Node.Root] (sources), falling back to the first node of the part.
// Wires are undirected, so closed loops simply meet in the middle.
//
// # Ordering
//
// [OrderRanks] starts from insertion order and applies alternating barycenter
// sweeps. A sweep is kept only if it reduces the crossing count reported by
// [netlist.CountCrossings], so the result is never worse than authored order.
//
// [netlist.Node.Root]: github.com/matzehuels/schematic/pkg/netlist
// [netlist.CountCrossings]: github.com/matzehuels/schematic/pkg/netlist
package transform
