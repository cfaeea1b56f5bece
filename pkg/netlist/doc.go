// Package netlist provides the wiring topology of a circuit as a ranked graph
// for the fallback rank-based layout.
//
// # Overview
//
// A [Graph] holds components as nodes and wires as undirected edges. Nodes
// carry a rank (layer) that the rank-based layout maps to a column, so that a
// diagram reads left to right by graph distance from its source. Unlike a
// dependency DAG, circuits contain closed loops, so adjacency is undirected
// and cycles are normal.
//
// # Basic Usage
//
//	g := netlist.New()
//	_ = g.AddNode(netlist.Node{ID: "V1", Root: true})
//	_ = g.AddNode(netlist.Node{ID: "R1"})
//	_ = g.AddEdge(netlist.Edge{From: "V1", To: "R1"})
//
// Ranks are assigned by [transform.AssignRanks] and in-rank orderings are
// refined by [transform.OrderRanks], which uses [CountLayerCrossings] to accept
// only orderings that reduce wire crossings.
//
// # Determinism
//
// Every query returns nodes in insertion order so the same input always yields
// the same layout.
//
// [transform.AssignRanks]: github.com/matzehuels/schematic/pkg/netlist/transform
// [transform.OrderRanks]: github.com/matzehuels/schematic/pkg/netlist/transform
package netlist
