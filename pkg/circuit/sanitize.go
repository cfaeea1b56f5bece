package circuit

import "fmt"

// IssueKind classifies a recovered input problem.
type IssueKind string

// Issue kinds reported by [Sanitize].
const (
	IssueMissingID      IssueKind = "missing-id"
	IssueDuplicateID    IssueKind = "duplicate-id"
	IssueDangling       IssueKind = "dangling-connection"
	IssueSelfLoop       IssueKind = "self-loop"
	IssueUnknownKind    IssueKind = "unknown-kind"
	IssueBadRotation    IssueKind = "invalid-rotation"
	IssueBadStyle       IssueKind = "invalid-style"
	IssueBadGrid        IssueKind = "invalid-grid"
	IssueBadFlow        IssueKind = "invalid-flow-direction"
	IssueBadRole        IssueKind = "invalid-role"
	IssueBadOrientation IssueKind = "invalid-orientation"
)

// Issue describes one input problem that was recovered locally.
type Issue struct {
	Kind    IssueKind
	Subject string // component id or "from->to"
	Detail  string
}

func (i Issue) String() string {
	if i.Detail == "" {
		return fmt.Sprintf("%s: %s", i.Kind, i.Subject)
	}
	return fmt.Sprintf("%s: %s (%s)", i.Kind, i.Subject, i.Detail)
}

// Sanitize returns a cleaned copy of cfg and the issues that were recovered.
// It never fails:
//   - components with an empty or duplicate id are dropped (first wins)
//   - connections referencing unknown ids, and self-loops, are dropped
//   - unknown kinds are kept (they render as a generic box) but reported
//   - invalid rotations, styles, roles, orientations and grid sizes are reset
//
// The input is not modified. Empty input yields an empty, non-nil config.
func Sanitize(cfg Config) (Config, []Issue) {
	var issues []Issue
	report := func(kind IssueKind, subject, detail string) {
		issues = append(issues, Issue{Kind: kind, Subject: subject, Detail: detail})
	}

	out := cfg
	out.Components = make([]Component, 0, len(cfg.Components))
	out.Connections = make([]Connection, 0, len(cfg.Connections))

	seen := make(map[string]bool, len(cfg.Components))
	for i, c := range cfg.Components {
		switch {
		case c.ID == "":
			report(IssueMissingID, fmt.Sprintf("#%d", i), string(c.Type))
			continue
		case seen[c.ID]:
			report(IssueDuplicateID, c.ID, "")
			continue
		}
		seen[c.ID] = true

		if !c.Type.Known() {
			report(IssueUnknownKind, c.ID, string(c.Type))
		}
		if !c.Rotation.Valid() {
			report(IssueBadRotation, c.ID, fmt.Sprint(int(c.Rotation)))
			c.Rotation = Rotate0
		}
		c.Rotation = c.Rotation.Normalize()
		switch c.Role {
		case RoleNone, RoleInput, RoleOutput, RoleGround, RolePower:
		default:
			report(IssueBadRole, c.ID, string(c.Role))
			c.Role = RoleNone
		}
		switch c.Orientation {
		case OrientationAuto, OrientationHorizontal, OrientationVertical:
		default:
			report(IssueBadOrientation, c.ID, string(c.Orientation))
			c.Orientation = OrientationAuto
		}
		if c.Position != nil {
			p := *c.Position
			c.Position = &p
		}
		out.Components = append(out.Components, c)
	}

	for _, conn := range cfg.Connections {
		subject := conn.From + "->" + conn.To
		switch {
		case !seen[conn.From] || !seen[conn.To]:
			report(IssueDangling, subject, "")
			continue
		case conn.From == conn.To:
			report(IssueSelfLoop, subject, "")
			continue
		}
		switch conn.Style {
		case WireSolid, WireDashed:
		case "":
			conn.Style = WireSolid
		default:
			report(IssueBadStyle, subject, string(conn.Style))
			conn.Style = WireSolid
		}
		out.Connections = append(out.Connections, conn)
	}

	if cfg.Constraints != nil {
		cons := *cfg.Constraints
		if cons.GridSize < 0 {
			report(IssueBadGrid, "constraints", fmt.Sprint(cons.GridSize))
			cons.GridSize = 0
		}
		switch cons.FlowDirection {
		case FlowNone, FlowLeftToRight:
		default:
			report(IssueBadFlow, "constraints", string(cons.FlowDirection))
			cons.FlowDirection = FlowNone
		}
		out.Constraints = &cons
	}
	if cfg.GridSize < 0 {
		report(IssueBadGrid, "config", fmt.Sprint(cfg.GridSize))
		out.GridSize = 0
	}

	return out, issues
}
