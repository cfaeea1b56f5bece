// Package layout places the components of a circuit diagram.
//
// # Strategies
//
// Three strategies implement [Strategy]:
//
//   - [Semantic] runs Graphviz's layered layout (dot, orthogonal splines) on
//     the wiring graph and post-processes the result into schematic
//     conventions: vertical mounting of parts whose wires run vertically,
//     grounds at the bottom, inputs left of outputs.
//   - [Rank] ranks each connected part by wiring distance from its source
//     and aligns everything to the grid. It serves raw topology and legacy
//     diagrams with autoLayout.
//   - [Fixed] honours author positions of the legacy manual format.
//
// [Select] picks one from the shape of the input; [ByName] lets callers force
// a strategy.
//
// # Guarantees
//
// Every strategy returns integer positions snapped exactly once. The semantic
// strategy never fails on bad geometry: a Graphviz error (or panic) falls back
// to a deterministic single-row layout that still goes through
// post-processing. Only context cancellation surfaces as an error.
//
// Strategies build fresh working state per call, including a new Graphviz
// instance, so concurrent layouts of different diagrams do not interact.
//
// [Overlapping] and [Sparsity] check placement quality; they back the tests
// and the pipeline's debug logging.
package layout
