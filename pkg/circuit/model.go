package circuit

// BlockType is the discriminator of the fenced diagram document.
const BlockType = "circuit-diagram"

// Component is one authored schematic element.
//
// Position and Rotation are only set by the legacy manual format, where authors
// place components themselves; semantic diagrams leave them empty and let the
// layout pipeline decide.
type Component struct {
	ID          string      `json:"id" yaml:"id"`
	Type        Kind        `json:"type" yaml:"type"`
	Label       string      `json:"label,omitempty" yaml:"label,omitempty"`
	Value       string      `json:"value,omitempty" yaml:"value,omitempty"`
	Role        Role        `json:"role,omitempty" yaml:"role,omitempty"`
	Orientation Orientation `json:"orientation,omitempty" yaml:"orientation,omitempty"`
	Position    *Vec        `json:"position,omitempty" yaml:"position,omitempty"`
	Rotation    Rotation    `json:"rotation,omitempty" yaml:"rotation,omitempty"`
}

// Connection is a wire between two components.
type Connection struct {
	From  string    `json:"from" yaml:"from"`
	To    string    `json:"to" yaml:"to"`
	Style WireStyle `json:"style,omitempty" yaml:"style,omitempty"`
}

// Constraints are global drawing conventions. A nil *Constraints is valid and
// yields an unconstrained layout.
type Constraints struct {
	FlowDirection  FlowDirection `json:"flowDirection,omitempty" yaml:"flowDirection,omitempty"`
	GroundAtBottom bool          `json:"groundAtBottom,omitempty" yaml:"groundAtBottom,omitempty"`
	GridSize       int           `json:"gridSize,omitempty" yaml:"gridSize,omitempty"`
}

// Annotation is free text drawn on top of the diagram.
type Annotation struct {
	X    float64 `json:"x" yaml:"x"`
	Y    float64 `json:"y" yaml:"y"`
	Text string  `json:"text" yaml:"text"`
}

// Config is the author's diagram description.
type Config struct {
	Components  []Component  `json:"components" yaml:"components"`
	Connections []Connection `json:"connections" yaml:"connections"`
	Constraints *Constraints `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	InputLabel  string       `json:"inputLabel,omitempty" yaml:"inputLabel,omitempty"`
	OutputLabel string       `json:"outputLabel,omitempty" yaml:"outputLabel,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty" yaml:"annotations,omitempty"`

	// Legacy manual format options.
	AutoLayout bool `json:"autoLayout,omitempty" yaml:"autoLayout,omitempty"`
	SnapToGrid bool `json:"snapToGrid,omitempty" yaml:"snapToGrid,omitempty"`
	GridSize   int  `json:"gridSize,omitempty" yaml:"gridSize,omitempty"`
}

// Positioned reports whether any component carries an author-supplied position,
// which marks the diagram as legacy manual format.
func (c Config) Positioned() bool {
	for _, comp := range c.Components {
		if comp.Position != nil {
			return true
		}
	}
	return false
}

// Semantic reports whether the diagram carries semantic information (roles,
// orientation hints or constraints) that the semantic layout path understands.
func (c Config) Semantic() bool {
	if c.Constraints != nil {
		return true
	}
	for _, comp := range c.Components {
		if comp.Role != RoleNone || comp.Orientation != OrientationAuto {
			return true
		}
	}
	return false
}

// Constraint returns the constraints or the zero value when absent.
func (c Config) Constraint() Constraints {
	if c.Constraints == nil {
		return Constraints{}
	}
	return *c.Constraints
}

// Block is the fenced document embedded in markdown content.
type Block struct {
	Type   string `json:"type" yaml:"type"`
	Config Config `json:"config" yaml:"config"`
}

// ResolvedComponent is a component with final integer geometry.
type ResolvedComponent struct {
	ID       string   `json:"id"`
	Type     Kind     `json:"type"`
	Position Point    `json:"position"`
	Rotation Rotation `json:"rotation"`
	Label    string   `json:"label,omitempty"`
	Value    string   `json:"value,omitempty"`
	Role     Role     `json:"role,omitempty"`
}

// ResolvedConnection is a routed wire. StartPoint and EndPoint coincide with a
// port of the From and To components under their final rotation.
type ResolvedConnection struct {
	From       string    `json:"from"`
	To         string    `json:"to"`
	Style      WireStyle `json:"style,omitempty"`
	StartPoint Point     `json:"startPoint"`
	EndPoint   Point     `json:"endPoint"`
	BendPoints []Point   `json:"bendPoints"`
}

// Path returns the full polyline start → bends → end.
func (c ResolvedConnection) Path() []Point {
	path := make([]Point, 0, len(c.BendPoints)+2)
	path = append(path, c.StartPoint)
	path = append(path, c.BendPoints...)
	return append(path, c.EndPoint)
}

// Diagram is the compiled, render-ready diagram.
type Diagram struct {
	Components  []ResolvedComponent  `json:"components"`
	Connections []ResolvedConnection `json:"connections"`
	Annotations []Annotation         `json:"annotations,omitempty"`
	InputLabel  string               `json:"inputLabel,omitempty"`
	OutputLabel string               `json:"outputLabel,omitempty"`
	Width       int                  `json:"width"`
	Height      int                  `json:"height"`
	Strategy    string               `json:"strategy,omitempty"`
}

// Component returns the resolved component with the given id.
func (d *Diagram) Component(id string) (ResolvedComponent, bool) {
	for _, c := range d.Components {
		if c.ID == id {
			return c, true
		}
	}
	return ResolvedComponent{}, false
}
