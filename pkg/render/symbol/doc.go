// Package symbol draws schematic glyphs as SVG fragments.
//
// Each component kind has a glyph drawn in its unrotated box from the
// dimension table, centred on the origin. [Render] wraps the glyph in a group
// that translates it to the component position and rotates it, so terminal
// leads always end on the rotated port coordinates the router used. Labels
// are written outside the group and stay upright.
//
// Unknown kinds draw a dashed box with their type name so the component is
// never silently dropped.
//
// Glyphs are stateless and depend only on the resolved component and the
// [Theme]; they never move or resize anything.
package symbol
