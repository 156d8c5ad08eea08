package aurora

import (
	"errors"
	"fmt"

	"github.com/chazu/aurora/pkg/anim"
	"github.com/chazu/aurora/pkg/graph"
	"github.com/chazu/aurora/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrGraphInvalid is returned when the synthesized graph fails validation.
var ErrGraphInvalid = errors.New("aurora: appearance graph is invalid")

// Node names in the synthesized appearance graph.
const (
	NodeOutputName      = "Material Output"
	NodeMixName         = "Mix Shader"
	NodeEmissionName    = "Emission"
	NodeTransparentName = "Transparent BSDF"
	NodeColorRampName   = "Color Ramp"
	NodeSeparateName    = "Separate XYZ"
	NodeTexCoordName    = "Texture Coordinate"
	NodeNoiseName       = "Noise Texture"
	NodeMappingName     = "Mapping"
	NodeStretchName     = "Mapping.001"
	NodeFalloffName     = "Emission Falloff"
	NodeMultiplyName    = "Multiply"
	NodeFadeName        = "Vertical Fade"
	NodeMaximumName     = "Maximum"
	NodeTreeActionName  = "Shader Nodetree"
)

// Fixed pattern constants.
const (
	StretchX       = 0.2
	StretchY       = 10.0
	NoiseDetail    = 5.0
	NoiseRoughness = 0.6
	FadeStop       = 0.3
	AnimEndFrame   = 250
	AnimDriftY     = 5.0
)

// LocationPath is the data path keyed by the drift animation.
const LocationPath = `nodes["Mapping"].inputs["Location"].default_value`

// locationSuffix selects the drift F-curves regardless of node path.
const locationSuffix = `inputs["Location"].default_value`

// auroraNodes are the nodes of one synthesized graph.
type auroraNodes struct {
	output, mix, emission, transparent *graph.Node
	colorRamp, separate, texCoord      *graph.Node
	noise, mapping, stretch            *graph.Node
	falloff, multiply, fade, maximum   *graph.Node
}

// buildGraph fills an empty graph with the aurora material: colour by
// height, glow falling off with height, and opacity from the larger of a
// vertical fade and drifting stretched noise.
func buildGraph(g *graph.Graph, p Params) error {
	n := declareNodes(g)
	if err := wireNodes(g, n); err != nil {
		return err
	}
	configureNodes(n, p)

	if errs := graph.Errors(graph.Validate(g)); len(errs) > 0 {
		joined := make([]error, len(errs))
		for i, e := range errs {
			joined[i] = e
		}
		return fmt.Errorf("%w: %w", ErrGraphInvalid, errors.Join(joined...))
	}
	return nil
}

// declareNodes creates every node and lays it out for the node editor.
func declareNodes(g *graph.Graph) *auroraNodes {
	at := func(kind graph.NodeKind, name string, x, y float64) *graph.Node {
		node := g.NewNode(kind, name)
		node.Location = graph.Vec2{X: x, Y: y}
		return node
	}
	return &auroraNodes{
		output:      at(graph.NodeOutput, NodeOutputName, 600, 0),
		mix:         at(graph.NodeMixShader, NodeMixName, 400, 0),
		emission:    at(graph.NodeEmission, NodeEmissionName, 200, 100),
		transparent: at(graph.NodeTransparent, NodeTransparentName, 200, -200),
		colorRamp:   at(graph.NodeColorRamp, NodeColorRampName, -200, 100),
		separate:    at(graph.NodeSeparateXYZ, NodeSeparateName, -400, 100),
		texCoord:    at(graph.NodeTexCoord, NodeTexCoordName, -600, 100),
		noise:       at(graph.NodeNoiseTexture, NodeNoiseName, 0, -200),
		mapping:     at(graph.NodeMapping, NodeMappingName, -400, -200),
		stretch:     at(graph.NodeMapping, NodeStretchName, -200, -200),
		falloff:     at(graph.NodeColorRamp, NodeFalloffName, -200, 200),
		multiply:    at(graph.NodeMath, NodeMultiplyName, 0, 200),
		fade:        at(graph.NodeColorRamp, NodeFadeName, 0, 0),
		maximum:     at(graph.NodeMath, NodeMaximumName, 200, -50),
	}
}

// wireNodes makes the sixteen links of the material.
func wireNodes(g *graph.Graph, n *auroraNodes) error {
	links := []struct {
		from *graph.Node
		out  string
		to   *graph.Node
		in   string
	}{
		// colour and glow by height
		{n.texCoord, "Generated", n.separate, "Vector"},
		{n.separate, "Y", n.colorRamp, "Fac"},
		{n.colorRamp, "Color", n.emission, "Color"},
		{n.separate, "Y", n.falloff, "Fac"},
		{n.falloff, "Color", n.multiply, "Value"},
		{n.multiply, "Value", n.emission, "Strength"},
		// drifting, stretched noise
		{n.texCoord, "Generated", n.mapping, "Vector"},
		{n.mapping, "Vector", n.stretch, "Vector"},
		{n.stretch, "Vector", n.noise, "Vector"},
		// opacity
		{n.separate, "Y", n.fade, "Fac"},
		{n.fade, "Color", n.maximum, "Value"},
		{n.noise, "Fac", n.maximum, "Value_001"},
		{n.maximum, "Value", n.mix, "Fac"},
		// shading
		{n.emission, "Emission", n.mix, "Shader"},
		{n.transparent, "BSDF", n.mix, "Shader_001"},
		{n.mix, "Shader", n.output, "Surface"},
	}
	var errs []error
	for _, l := range links {
		if err := g.Connect(l.from, l.out, l.to, l.in); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// configureNodes sets every constant input and ramp stop.
func configureNodes(n *auroraNodes, p Params) {
	main := n.colorRamp.Data.(graph.ColorRampData).Ramp
	main.Stop(0).Color = p.Color1
	main.Stop(1).Color = p.Color2

	falloff := n.falloff.Data.(graph.ColorRampData).Ramp
	falloff.Stop(0).Position, falloff.Stop(0).Color = 0, graph.White
	falloff.Stop(1).Position, falloff.Stop(1).Color = 1, graph.Black

	n.multiply.Data = graph.MathData{Op: graph.MathMultiply}
	n.multiply.Input("Value_001").Float = p.EmissionStrength

	// white at the base, black from FadeStop up
	fade := n.fade.Data.(graph.ColorRampData).Ramp
	fade.Stop(0).Position, fade.Stop(0).Color = 0, graph.White
	fade.Add(FadeStop)
	fade.Stop(1).Color = graph.Black
	fade.Stop(2).Position, fade.Stop(2).Color = 1, graph.Black

	n.maximum.Data = graph.MathData{Op: graph.MathMaximum}

	scale := n.stretch.Input("Scale")
	scale.Vector.X = StretchX
	scale.Vector.Y = StretchY

	n.noise.Input("Scale").Float = p.NoiseScale
	n.noise.Input("Detail").Float = NoiseDetail
	n.noise.Input("Roughness").Float = NoiseRoughness
	n.noise.Input("Distortion").Float = p.NoiseDistortion
}

// animate keys the drift mapping's Location from rest at frame 1 to
// AnimDriftY on Y at AnimEndFrame, then makes the drift linear and endless.
func animate(mat *scene.Material) {
	loc := mat.Graph.MustLookup(NodeMappingName).Input("Location")

	anim.InsertVector(&mat.Animation, NodeTreeActionName, LocationPath, 1, vec3(loc.Vector))
	loc.Vector.Y = AnimDriftY
	anim.InsertVector(&mat.Animation, NodeTreeActionName, LocationPath, AnimEndFrame, vec3(loc.Vector))

	if !mat.Animation.Animated() {
		return
	}
	for _, fc := range mat.Animation.Action.WithSuffix(locationSuffix) {
		fc.SetInterpolation(anim.InterpLinear)
		fc.AddModifier(anim.Cycles{})
	}
}

func vec3(v v3.Vec) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }
