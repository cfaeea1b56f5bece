package circuit

import (
	"testing"
)

func issueKinds(issues []Issue) map[IssueKind]int {
	m := make(map[IssueKind]int)
	for _, i := range issues {
		m[i.Kind]++
	}
	return m
}

func TestSanitizeDropsDangling(t *testing.T) {
	cfg := Config{
		Components: []Component{
			{ID: "R1", Type: KindResistor},
			{ID: "C1", Type: KindCapacitor},
		},
		Connections: []Connection{
			{From: "ghost", To: "R1"},
			{From: "R1", To: "C1"},
			{From: "C1", To: "nowhere"},
		},
	}
	out, issues := Sanitize(cfg)
	if len(out.Connections) != 1 || out.Connections[0].From != "R1" {
		t.Errorf("connections = %+v, want only R1->C1", out.Connections)
	}
	if n := issueKinds(issues)[IssueDangling]; n != 2 {
		t.Errorf("dangling issues = %d, want 2", n)
	}
	if out.Connections[0].Style != WireSolid {
		t.Errorf("default style = %q, want solid", out.Connections[0].Style)
	}
	if len(cfg.Connections) != 3 {
		t.Error("Sanitize modified its input")
	}
}

func TestSanitizeComponents(t *testing.T) {
	cfg := Config{
		Components: []Component{
			{ID: "R1", Type: KindResistor},
			{ID: "R1", Type: KindCapacitor},
			{ID: "", Type: KindInductor},
			{ID: "X1", Type: Kind("opamp"), Rotation: 45},
			{ID: "D1", Type: KindDiode, Rotation: -90, Role: Role("sink"), Orientation: Orientation("diagonal")},
		},
		Connections: []Connection{{From: "R1", To: "R1"}, {From: "R1", To: "X1", Style: "wavy"}},
	}
	out, issues := Sanitize(cfg)
	kinds := issueKinds(issues)

	if len(out.Components) != 3 {
		t.Fatalf("components = %d, want 3", len(out.Components))
	}
	if out.Components[0].Type != KindResistor {
		t.Error("duplicate id did not keep the first component")
	}
	if out.Components[1].Rotation != Rotate0 {
		t.Errorf("invalid rotation = %d, want 0", out.Components[1].Rotation)
	}
	if out.Components[2].Rotation != Rotate270 || out.Components[2].Role != RoleNone || out.Components[2].Orientation != OrientationAuto {
		t.Errorf("D1 = %+v", out.Components[2])
	}
	if len(out.Connections) != 1 || out.Connections[0].Style != WireSolid {
		t.Errorf("connections = %+v", out.Connections)
	}
	for _, k := range []IssueKind{IssueDuplicateID, IssueMissingID, IssueUnknownKind, IssueBadRotation,
		IssueBadRole, IssueBadOrientation, IssueSelfLoop, IssueBadStyle} {
		if kinds[k] != 1 {
			t.Errorf("issue %s reported %d times, want 1", k, kinds[k])
		}
	}
}

func TestSanitizeEmpty(t *testing.T) {
	out, issues := Sanitize(Config{})
	if out.Components == nil || out.Connections == nil {
		t.Error("Sanitize(empty) returned nil slices")
	}
	if len(issues) != 0 {
		t.Errorf("issues = %v, want none", issues)
	}
}

func TestSanitizeConstraints(t *testing.T) {
	cfg := Config{Constraints: &Constraints{GridSize: -5, FlowDirection: "top-down"}, GridSize: -1}
	out, issues := Sanitize(cfg)
	if out.Constraints.GridSize != 0 || out.Constraints.FlowDirection != FlowNone || out.GridSize != 0 {
		t.Errorf("constraints = %+v grid = %d", out.Constraints, out.GridSize)
	}
	if out.Constraints == cfg.Constraints {
		t.Error("Sanitize aliased the input constraints")
	}
	if kinds := issueKinds(issues); kinds[IssueBadGrid] != 2 || kinds[IssueBadFlow] != 1 {
		t.Errorf("issues = %v", issues)
	}
}
