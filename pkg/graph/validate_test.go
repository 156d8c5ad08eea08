package graph

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// buildGlow creates a small valid graph: coordinate -> separate -> ramp ->
// emission -> output.
func buildGlow() *Graph {
	g := New()
	coord := g.NewNode(NodeTexCoord, "Texture Coordinate")
	sep := g.NewNode(NodeSeparateXYZ, "Separate XYZ")
	ramp := g.NewNode(NodeColorRamp, "Color Ramp")
	emission := g.NewNode(NodeEmission, "Emission")
	out := g.NewNode(NodeOutput, "Material Output")

	_ = g.Connect(coord, "Generated", sep, "Vector")
	_ = g.Connect(sep, "Y", ramp, "Fac")
	_ = g.Connect(ramp, "Color", emission, "Color")
	_ = g.Connect(emission, "Emission", out, "Surface")
	return g
}

// hasError returns true if errs contains at least one error-severity finding
// whose message contains substr.
func hasError(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if e.Severity == SeverityError && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// hasWarning returns true if errs contains at least one warning-severity
// finding whose message contains substr.
func hasWarning(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if e.Severity == SeverityWarning && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestValidateValidGraph(t *testing.T) {
	errs := Validate(buildGlow())
	if len(errs) != 0 {
		for _, e := range errs {
			t.Errorf("unexpected finding: %v", e)
		}
	}
}

func TestValidateMissingOutput(t *testing.T) {
	g := New()
	g.NewNode(NodeEmission, "Emission")

	if !hasError(Validate(g), "0 output nodes") {
		t.Error("expected error for missing output node")
	}
}

func TestValidateTwoOutputs(t *testing.T) {
	g := buildGlow()
	g.NewNode(NodeOutput, "Material Output")

	if !hasError(Validate(g), "2 output nodes") {
		t.Error("expected error for duplicate output nodes")
	}
}

func TestValidateCycle(t *testing.T) {
	g := buildGlow()
	a := g.NewNode(NodeMath, "Math")
	b := g.NewNode(NodeMath, "Math")
	_ = g.Connect(a, "Value", b, "Value")
	_ = g.Connect(b, "Value", a, "Value")

	if !hasError(Validate(g), "cycle detected") {
		t.Error("expected cycle error")
	}
}

func TestValidateDanglingLink(t *testing.T) {
	g := buildGlow()
	g.Links = append(g.Links, Link{
		FromNode:   NewNodeID("ghost"),
		FromSocket: "Value",
		ToNode:     g.MustLookup("Emission").ID,
		ToSocket:   "Strength",
	})

	if !hasError(Validate(g), "does not exist") {
		t.Error("expected dangling link error")
	}
}

func TestValidateDoubleFedInput(t *testing.T) {
	g := buildGlow()
	ramp := g.MustLookup("Color Ramp")
	sep := g.MustLookup("Separate XYZ")
	g.Links = append(g.Links, Link{FromNode: sep.ID, FromSocket: "X", ToNode: ramp.ID, ToSocket: "Fac"})

	if !hasError(Validate(g), "more than one link") {
		t.Error("expected double-fed input error")
	}
}

func TestValidateShaderIntoValue(t *testing.T) {
	g := buildGlow()
	emission := g.MustLookup("Emission")
	ramp := g.MustLookup("Color Ramp")
	g.Links = append(g.Links[:1], g.Links[2:]...) // drop sep.Y -> ramp.Fac
	g.Links = append(g.Links, Link{FromNode: emission.ID, FromSocket: "Emission", ToNode: ramp.ID, ToSocket: "Fac"})

	if !hasError(Validate(g), "cannot link shader output") {
		t.Error("expected socket type error")
	}
}

func TestValidateOrphanWarning(t *testing.T) {
	g := buildGlow()
	g.NewNode(NodeTransparent, "Transparent BSDF")

	errs := Validate(g)
	if !hasWarning(errs, "does not contribute") {
		t.Error("expected orphan warning")
	}
	if len(Errors(errs)) != 0 {
		t.Errorf("orphan node should only warn, got %v", Errors(errs))
	}
}
