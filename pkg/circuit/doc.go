// Package circuit defines the semantic circuit model and the per-kind
// dimension and port table used by every layout strategy.
//
// # Overview
//
// Authors describe a schematic by what it is rather than where it goes: a list
// of [Component] values (resistors, capacitors, sources, ground symbols, junction
// nodes) with optional electrical roles, plus [Connection] values naming which
// components are wired together. Layout strategies in package layout turn that
// description into [ResolvedComponent] and [ResolvedConnection] values with
// integer pixel geometry.
//
// # Component Kinds
//
// [Kind] is a closed set of component kinds. Every per-kind operation
// ([Kind.Size], [Ports], the glyphs in package render/symbol) is a total switch
// whose default arm handles unknown kinds, so an unrecognized component type
// still gets a square footprint with two side ports and never blocks layout.
//
// # Ports
//
// Ports are derived values: the unrotated terminal offsets of a kind are
// transformed by the component's [Rotation] with a quarter-turn rotation matrix
// and added to the component center:
//
//	port(c, side) = c.Position + rotate(offset(c.Type, side), c.Rotation)
//
// # Input
//
// [DecodeBlock] and [DecodeConfig] read the fenced JSON (or YAML) document
// embedded in exam content. [Sanitize] cleans a decoded [Config] without ever
// failing: dangling connections and duplicate ids are dropped and reported as
// [Issue] values so one bad entry never blanks the whole diagram.
package circuit
