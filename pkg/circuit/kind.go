package circuit

// Kind identifies the symbol drawn for a component. Values outside the declared
// constants are kept verbatim and handled by the default arm of every switch.
type Kind string

// Component kinds.
const (
	KindResistor      Kind = "resistor"
	KindCapacitor     Kind = "capacitor"
	KindInductor      Kind = "inductor"
	KindVoltageSource Kind = "voltage-source"
	KindCurrentSource Kind = "current-source"
	KindDiode         Kind = "diode"
	KindSwitch        Kind = "switch"
	KindGround        Kind = "ground"
	KindNode          Kind = "node"
)

// Known reports whether k is one of the declared component kinds.
func (k Kind) Known() bool {
	switch k {
	case KindResistor, KindCapacitor, KindInductor, KindVoltageSource,
		KindCurrentSource, KindDiode, KindSwitch, KindGround, KindNode:
		return true
	default:
		return false
	}
}

// TwoTerminal reports whether k exposes exactly two ports whose mounting
// (horizontal or vertical) is derived from the wires attached to it.
// Unknown kinds count as two-terminal since they fall back to two side ports.
func (k Kind) TwoTerminal() bool {
	switch k {
	case KindGround, KindNode:
		return false
	default:
		return true
	}
}

// Role is the semantic tag used by post-processing to enforce drawing
// conventions such as ground-at-bottom and left-to-right flow.
type Role string

// Component roles.
const (
	RoleNone   Role = ""
	RoleInput  Role = "input"
	RoleOutput Role = "output"
	RoleGround Role = "ground"
	RolePower  Role = "power"
)

// Orientation is an author hint that pins a component's mounting.
type Orientation string

// Orientation hints.
const (
	OrientationAuto       Orientation = ""
	OrientationHorizontal Orientation = "horizontal"
	OrientationVertical   Orientation = "vertical"
)

// Rotation returns the rotation implied by the hint and whether the hint was set.
func (o Orientation) Rotation() (Rotation, bool) {
	switch o {
	case OrientationHorizontal:
		return Rotate0, true
	case OrientationVertical:
		return Rotate90, true
	default:
		return Rotate0, false
	}
}

// WireStyle controls how a connection is stroked.
type WireStyle string

// Wire styles.
const (
	WireSolid  WireStyle = "solid"
	WireDashed WireStyle = "dashed"
)

// FlowDirection is the reading order of signal propagation.
type FlowDirection string

// Flow directions.
const (
	FlowNone        FlowDirection = ""
	FlowLeftToRight FlowDirection = "left-to-right"
)
