package aurora

import (
	"fmt"
	"math"
	"testing"

	"github.com/chazu/aurora/pkg/anim"
	"github.com/chazu/aurora/pkg/graph"
	"github.com/chazu/aurora/pkg/kernel"
	"github.com/chazu/aurora/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCurveScene returns a scene whose active object is a straight
// three-point path along X.
func newCurveScene(t *testing.T) (*scene.Scene, *scene.Object) {
	t.Helper()
	sc := scene.New()
	data := sc.NewCurveData("AuroraPath")
	sp := data.NewSpline()
	sp.Grow(3)
	for i, p := range []v3.Vec{{}, {X: 5}, {X: 10}} {
		sp.Points[i].Co = p
		sp.Points[i].HandleLeftType = scene.HandleAuto
		sp.Points[i].HandleRightType = scene.HandleAuto
	}
	sp.RecalcHandles()
	curve := sc.NewObject("AuroraCurve", data)
	sc.Link(curve)
	sc.Select(curve, true)
	require.NoError(t, sc.SetActive(curve))
	return sc, curve
}

func smallParams() Params {
	p := DefaultParams()
	p.Resolution = 8
	return p
}

func TestCompileCreatesArtifact(t *testing.T) {
	sc, curve := newCurveScene(t)
	art, err := NewCompiler(sc).Compile(smallParams())
	require.NoError(t, err)

	assert.Equal(t, StatusOK, art.Status)
	assert.Equal(t, ObjectName, art.Object.Name)
	assert.Equal(t, scene.KindMesh, art.Object.Kind)
	assert.Same(t, art.Mesh, art.Object.Mesh)
	assert.Equal(t, TextureName, art.Texture.Name)
	assert.Equal(t, MaterialName, art.Material.Name)
	assert.Equal(t, scene.BlendAlpha, art.Material.Blend)
	assert.Equal(t, []*scene.Material{art.Material}, art.Mesh.Materials)

	name, _ := curve.Tag(TagObject)
	assert.Equal(t, art.Object.Name, name)
	name, _ = curve.Tag(TagTexture)
	assert.Equal(t, art.Texture.Name, name)
	name, _ = curve.Tag(TagMaterial)
	assert.Equal(t, art.Material.Name, name)

	assert.False(t, curve.Selected())
	assert.True(t, art.Object.Selected())
	assert.Same(t, art.Object, sc.Active())
}

func TestCompileRig(t *testing.T) {
	sc, curve := newCurveScene(t)
	art, err := NewCompiler(sc).Compile(smallParams())
	require.NoError(t, err)

	require.Len(t, art.Object.Modifiers, 2)
	cm, ok := art.Object.Modifiers[0].(*scene.CurveModifier)
	require.True(t, ok, "curve deform comes first")
	assert.Equal(t, CurveModName, cm.Name)
	assert.Same(t, curve, cm.Object)

	dm, ok := art.Object.Modifiers[1].(*scene.DisplaceModifier)
	require.True(t, ok)
	assert.Equal(t, DisplaceModName, dm.Name)
	assert.Same(t, art.Texture, dm.Texture)
	assert.Equal(t, 0.7, dm.Strength)
	assert.Equal(t, scene.AxisZ, dm.Direction)
	assert.Equal(t, 0.5, art.Texture.NoiseScale)
	assert.Equal(t, scene.TextureClouds, art.Texture.Kind)
	assert.Equal(t, 1, art.Texture.Users())
}

func TestCompileScaffold(t *testing.T) {
	sc, _ := newCurveScene(t)
	p := smallParams()
	p.Height = 6
	art, err := NewCompiler(sc).Compile(p)
	require.NoError(t, err)

	g := art.Mesh.Grid
	assert.Equal(t, 8*8, g.FaceCount())
	lo, hi := g.Bounds()
	assert.InDelta(t, -ScaffoldScale, lo.X, 1e-9)
	assert.InDelta(t, ScaffoldScale, hi.X, 1e-9)
	assert.InDelta(t, -3, lo.Z, 1e-9, "stands upright, half the height each side")
	assert.InDelta(t, 3, hi.Z, 1e-9)
	assert.InDelta(t, 0, hi.Y-lo.Y, 1e-9, "rotation is baked flat into XZ")
}

func TestMinimumResolution(t *testing.T) {
	sc, _ := newCurveScene(t)
	p := DefaultParams()
	p.Resolution = 2
	p.Height = 1
	art, err := NewCompiler(sc).Compile(p)
	require.NoError(t, err)
	assert.Equal(t, 4, art.Mesh.Grid.FaceCount())

	p.Resolution = 1
	_, err = NewCompiler(sc).Compile(p)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestInvalidParamsLeaveSceneUntouched(t *testing.T) {
	sc, curve := newCurveScene(t)
	p := DefaultParams()
	p.NoiseScale = 0
	_, err := NewCompiler(sc).Compile(p)
	require.ErrorIs(t, err, ErrInvalidParams)
	assert.Len(t, sc.Objects(), 1)
	assert.Empty(t, curve.Tags)
	assert.Same(t, curve, sc.Active())
}

func TestNoCurveSelected(t *testing.T) {
	sc := scene.New()
	_, err := NewCompiler(sc).Compile(DefaultParams())
	require.ErrorIs(t, err, ErrNoCurveSelected)

	mesh := sc.NewObject("Cube", sc.NewMeshData("Cube", kernel.Plane()))
	sc.Link(mesh)
	require.NoError(t, sc.SetActive(mesh))
	_, err = NewCompiler(sc).Compile(DefaultParams())
	require.ErrorIs(t, err, ErrNoCurveSelected)
	assert.Len(t, sc.Objects(), 1)
	assert.Empty(t, sc.TextureNames())
}

func TestRecompileKeepsOneArtifact(t *testing.T) {
	for _, animate := range []bool{true, false} {
		t.Run(fmt.Sprintf("animate=%v", animate), func(t *testing.T) {
			sc, curve := newCurveScene(t)
			c := NewCompiler(sc)
			p := smallParams()
			p.Animate = animate

			first, err := c.Compile(p)
			require.NoError(t, err)
			require.NoError(t, sc.SetActive(curve))
			second, err := c.Compile(p)
			require.NoError(t, err)

			assert.Len(t, sc.ObjectsOfKind(scene.KindMesh), 1)
			assert.Len(t, sc.TextureNames(), 1)
			assert.Len(t, sc.MeshNames(), 1)
			assert.Equal(t, ObjectName, second.Object.Name, "name is freed by teardown")
			assert.Equal(t, TextureName, second.Texture.Name)
			assert.Same(t, first.Material, second.Material, "material is reused")
			assert.Nil(t, sc.Object(ObjectName+".001"))
			assert.Equal(t, 1, second.Material.Users())
		})
	}
}

func TestRecompileAfterManualDelete(t *testing.T) {
	sc, curve := newCurveScene(t)
	c := NewCompiler(sc)
	first, err := c.Compile(smallParams())
	require.NoError(t, err)

	// user deletes the aurora by hand; the tags now dangle
	sc.RemoveObject(first.Object)
	require.NoError(t, sc.SetActive(curve))

	second, err := c.Compile(smallParams())
	require.NoError(t, err)
	assert.Len(t, sc.ObjectsOfKind(scene.KindMesh), 1)
	assert.NotNil(t, second.Object)
	assert.Len(t, sc.TextureNames(), 1, "orphaned texture is removed through the tag")
}

func TestStaleTagIgnoresReusedName(t *testing.T) {
	sc, curveA := newCurveScene(t)
	dataB := sc.NewCurveData("AuroraPath")
	dataB.NewSpline().Grow(2)
	curveB := sc.NewObject("AuroraCurve", dataB)
	sc.Link(curveB)

	c := NewCompiler(sc)
	a, err := c.Compile(smallParams())
	require.NoError(t, err)
	sc.RemoveObject(a.Object)

	// B takes the name A's artifact left behind
	require.NoError(t, sc.SetActive(curveB))
	b, err := c.Compile(smallParams())
	require.NoError(t, err)
	require.Equal(t, "Aurora", b.Object.Name)
	assert.Nil(t, Resolve(sc, curveA).Object, "A's tag names B's artifact now")

	require.NoError(t, sc.SetActive(curveA))
	again, err := c.Compile(smallParams())
	require.NoError(t, err)

	assert.Same(t, b.Object, sc.Object("Aurora"), "B's artifact survives")
	assert.Same(t, b.Texture, sc.Texture(b.Texture.Name))
	assert.Equal(t, 1, b.Texture.Users())
	assert.Equal(t, "Aurora.001", again.Object.Name)
	assert.Len(t, sc.ObjectsOfKind(scene.KindMesh), 2)
	assert.Len(t, sc.TextureNames(), 2, "A's orphaned texture is removed")

	require.NoError(t, sc.SetActive(curveB))
	_, err = c.Compile(smallParams())
	require.NoError(t, err)
	assert.Same(t, again.Object, sc.Object(again.Object.Name), "recompiling B leaves A alone")
	assert.Len(t, sc.ObjectsOfKind(scene.KindMesh), 2)
}

func TestSharedMeshSurvivesTeardown(t *testing.T) {
	sc, curve := newCurveScene(t)
	c := NewCompiler(sc)
	first, err := c.Compile(smallParams())
	require.NoError(t, err)

	twin := sc.NewObject("Twin", first.Mesh)
	sc.Link(twin)
	require.NoError(t, sc.SetActive(curve))

	_, err = c.Compile(smallParams())
	require.NoError(t, err)
	assert.Same(t, first.Mesh, sc.MeshData(first.Mesh.Name), "mesh still used by Twin")
}

func TestTwoCurvesGetSeparateArtifacts(t *testing.T) {
	sc, curveA := newCurveScene(t)
	dataB := sc.NewCurveData("AuroraPath")
	dataB.NewSpline().Grow(2)
	curveB := sc.NewObject("AuroraCurve", dataB)
	sc.Link(curveB)

	c := NewCompiler(sc)
	a, err := c.Compile(smallParams())
	require.NoError(t, err)
	require.NoError(t, sc.SetActive(curveB))
	b, err := c.Compile(smallParams())
	require.NoError(t, err)

	assert.Equal(t, "Aurora", a.Object.Name)
	assert.Equal(t, "Aurora.001", b.Object.Name)
	assert.NotSame(t, a.Material, b.Material)
	assert.Equal(t, "Aurora_Material.001", b.Material.Name)
	assert.Len(t, sc.ObjectsOfKind(scene.KindMesh), 2)

	name, _ := curveA.Tag(TagObject)
	assert.Equal(t, "Aurora", name)
}

func TestResolve(t *testing.T) {
	sc, curve := newCurveScene(t)
	assert.Equal(t, Resolved{}, Resolve(sc, curve))

	art, err := NewCompiler(sc).Compile(smallParams())
	require.NoError(t, err)
	r := Resolve(sc, curve)
	assert.Same(t, art.Object, r.Object)
	assert.Same(t, art.Texture, r.Texture)
	assert.Same(t, art.Material, r.Material)

	curve.SetTag(TagObject, "gone")
	assert.Nil(t, Resolve(sc, curve).Object, "dangling tag is absent")
}

func TestResolveChecksIdentity(t *testing.T) {
	tests := []struct {
		name  string
		tweak func(sc *scene.Scene, curve *scene.Object, art *Artifact)
		check func(r Resolved) any
	}{
		{
			name: "object id differs",
			tweak: func(_ *scene.Scene, curve *scene.Object, _ *Artifact) {
				curve.SetTag(TagObjectID, uuid.NewString())
			},
			check: func(r Resolved) any { return r.Object },
		},
		{
			name: "object follows another curve",
			tweak: func(sc *scene.Scene, _ *scene.Object, art *Artifact) {
				other := sc.NewObject("Other", sc.NewCurveData("Other"))
				art.Object.Modifier(CurveModName).(*scene.CurveModifier).Object = other
			},
			check: func(r Resolved) any { return r.Object },
		},
		{
			name: "texture id differs",
			tweak: func(_ *scene.Scene, curve *scene.Object, _ *Artifact) {
				curve.SetTag(TagTextureID, uuid.NewString())
			},
			check: func(r Resolved) any { return r.Texture },
		},
		{
			name: "material id differs",
			tweak: func(_ *scene.Scene, curve *scene.Object, _ *Artifact) {
				curve.SetTag(TagMaterialID, uuid.NewString())
			},
			check: func(r Resolved) any { return r.Material },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, curve := newCurveScene(t)
			art, err := NewCompiler(sc).Compile(smallParams())
			require.NoError(t, err)
			tt.tweak(sc, curve, art)
			assert.Nil(t, tt.check(Resolve(sc, curve)))
		})
	}
}

func TestCompileWritesIdentityTags(t *testing.T) {
	sc, curve := newCurveScene(t)
	art, err := NewCompiler(sc).Compile(smallParams())
	require.NoError(t, err)

	for key, want := range map[string]string{
		TagObjectID:   art.Object.ID.String(),
		TagTextureID:  art.Texture.ID.String(),
		TagMaterialID: art.Material.ID.String(),
	} {
		got, ok := curve.Tag(key)
		require.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}
}

// --- Appearance graph ---

func compiledGraph(t *testing.T, p Params) (*scene.Material, *graph.Graph) {
	t.Helper()
	sc, _ := newCurveScene(t)
	art, err := NewCompiler(sc).Compile(p)
	require.NoError(t, err)
	return art.Material, art.Material.Graph
}

func TestGraphShape(t *testing.T) {
	_, g := compiledGraph(t, smallParams())

	assert.Len(t, g.OfKind(graph.NodeOutput), 1)
	assert.Equal(t, 14, g.NodeCount())
	assert.Len(t, g.Links, 16)
	assert.Empty(t, graph.Validate(g), "no errors and every node feeds the output")
	_, err := graph.TopologicalOrder(g)
	assert.NoError(t, err)

	for _, name := range []string{
		NodeOutputName, NodeMixName, NodeEmissionName, NodeTransparentName,
		NodeColorRampName, NodeSeparateName, NodeTexCoordName, NodeNoiseName,
		NodeMappingName, NodeStretchName, NodeFalloffName, NodeMultiplyName,
		NodeFadeName, NodeMaximumName,
	} {
		assert.NotNil(t, g.Lookup(name), name)
	}
}

func TestGraphWiring(t *testing.T) {
	_, g := compiledGraph(t, smallParams())
	from := func(to, in string) string {
		t.Helper()
		l, ok := g.LinkInto(g.MustLookup(to), in)
		require.True(t, ok, "%s.%s is linked", to, in)
		return g.Get(l.FromNode).Name + "." + l.FromSocket
	}

	assert.Equal(t, "Texture Coordinate.Generated", from(NodeSeparateName, "Vector"))
	assert.Equal(t, "Separate XYZ.Y", from(NodeColorRampName, "Fac"))
	assert.Equal(t, "Color Ramp.Color", from(NodeEmissionName, "Color"))
	assert.Equal(t, "Separate XYZ.Y", from(NodeFalloffName, "Fac"))
	assert.Equal(t, "Emission Falloff.Color", from(NodeMultiplyName, "Value"))
	assert.Equal(t, "Multiply.Value", from(NodeEmissionName, "Strength"))
	assert.Equal(t, "Texture Coordinate.Generated", from(NodeMappingName, "Vector"))
	assert.Equal(t, "Mapping.Vector", from(NodeStretchName, "Vector"), "offset mapping is chained before the stretch")
	assert.Equal(t, "Mapping.001.Vector", from(NodeNoiseName, "Vector"))
	assert.Equal(t, "Separate XYZ.Y", from(NodeFadeName, "Fac"))
	assert.Equal(t, "Vertical Fade.Color", from(NodeMaximumName, "Value"))
	assert.Equal(t, "Noise Texture.Fac", from(NodeMaximumName, "Value_001"))
	assert.Equal(t, "Maximum.Value", from(NodeMixName, "Fac"))
	assert.Equal(t, "Emission.Emission", from(NodeMixName, "Shader"))
	assert.Equal(t, "Transparent BSDF.BSDF", from(NodeMixName, "Shader_001"))
	assert.Equal(t, "Mix Shader.Shader", from(NodeOutputName, "Surface"))
}

func TestGraphConstants(t *testing.T) {
	p := smallParams()
	p.EmissionStrength = 12
	p.NoiseScale = 3
	p.NoiseDistortion = 0.25
	_, g := compiledGraph(t, p)

	assert.Equal(t, graph.MathData{Op: graph.MathMultiply}, g.MustLookup(NodeMultiplyName).Data)
	assert.Equal(t, 12.0, g.MustLookup(NodeMultiplyName).Input("Value_001").Float)
	assert.Equal(t, graph.MathData{Op: graph.MathMaximum}, g.MustLookup(NodeMaximumName).Data)

	nz := g.MustLookup(NodeNoiseName)
	assert.Equal(t, 3.0, nz.Input("Scale").Float)
	assert.Equal(t, 5.0, nz.Input("Detail").Float)
	assert.Equal(t, 0.6, nz.Input("Roughness").Float)
	assert.Equal(t, 0.25, nz.Input("Distortion").Float)

	assert.Equal(t, v3.Vec{X: 0.2, Y: 10, Z: 1}, g.MustLookup(NodeStretchName).Input("Scale").Vector)
	assert.Equal(t, graph.Vec2{X: 600, Y: 0}, g.MustLookup(NodeOutputName).Location)

	falloff := g.MustLookup(NodeFalloffName).Data.(graph.ColorRampData).Ramp
	require.Len(t, falloff.Stops, 2)
	assert.Equal(t, graph.RampStop{Position: 0, Color: graph.White}, *falloff.Stop(0))
	assert.Equal(t, graph.RampStop{Position: 1, Color: graph.Black}, *falloff.Stop(1))

	fade := g.MustLookup(NodeFadeName).Data.(graph.ColorRampData).Ramp
	require.Len(t, fade.Stops, 3)
	assert.Equal(t, graph.RampStop{Position: 0, Color: graph.White}, *fade.Stop(0))
	assert.Equal(t, graph.RampStop{Position: 0.3, Color: graph.Black}, *fade.Stop(1))
	assert.Equal(t, graph.RampStop{Position: 1, Color: graph.Black}, *fade.Stop(2))
}

func TestRampEndpointsMatchColors(t *testing.T) {
	cases := [][2]graph.RGBA{
		{{R: 0.1, G: 1, B: 0.7, A: 1}, {R: 0.3, G: 0.2, B: 0.8, A: 1}},
		{{R: 1, A: 1}, {B: 1, A: 0.5}},
		{{}, {R: 1, G: 1, B: 1, A: 1}},
	}
	for i, c := range cases {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			p := smallParams()
			p.Color1, p.Color2 = c[0], c[1]
			_, g := compiledGraph(t, p)
			ramp := g.MustLookup(NodeColorRampName).Data.(graph.ColorRampData).Ramp
			assert.Equal(t, c[0], ramp.Stop(0).Color)
			assert.Equal(t, c[1], ramp.Stop(1).Color)
		})
	}
}

func TestRecompileReplacesGraph(t *testing.T) {
	sc, curve := newCurveScene(t)
	c := NewCompiler(sc)
	p := smallParams()
	_, err := c.Compile(p)
	require.NoError(t, err)

	p.Color1 = graph.RGBA{R: 1, A: 1}
	require.NoError(t, sc.SetActive(curve))
	art, err := c.Compile(p)
	require.NoError(t, err)

	g := art.Material.Graph
	assert.Equal(t, 14, g.NodeCount(), "stale nodes are cleared, not suffixed")
	assert.Nil(t, g.Lookup("Mapping.002"))
	assert.Equal(t, p.Color1, g.MustLookup(NodeColorRampName).Data.(graph.ColorRampData).Ramp.Stop(0).Color)
}

// --- Animation ---

func TestAnimateOff(t *testing.T) {
	p := smallParams()
	p.Animate = false
	mat, g := compiledGraph(t, p)
	assert.False(t, mat.Animation.Animated())
	assert.Equal(t, v3.Vec{}, g.MustLookup(NodeMappingName).Input("Location").Vector)
}

func TestAnimateOn(t *testing.T) {
	mat, g := compiledGraph(t, smallParams())
	require.True(t, mat.Animation.Animated())

	curves := mat.Animation.Action.WithSuffix(`inputs["Location"].default_value`)
	require.Len(t, curves, 3, "one curve per vector channel")
	for _, fc := range curves {
		assert.Equal(t, LocationPath, fc.DataPath)
		require.Len(t, fc.Keyframes, 2)
		assert.Equal(t, 1.0, fc.Keyframes[0].Frame)
		assert.Equal(t, 250.0, fc.Keyframes[1].Frame)
		assert.Equal(t, 249.0, fc.Keyframes[1].Frame-fc.Keyframes[0].Frame)
		for _, k := range fc.Keyframes {
			assert.Equal(t, anim.InterpLinear, k.Interpolation)
		}
		require.Len(t, fc.Modifiers, 1)
		assert.True(t, fc.HasCycles())
	}

	y := mat.Animation.Action.Find(LocationPath, 1)
	require.NotNil(t, y)
	assert.Equal(t, 0.0, y.Keyframes[0].Value)
	assert.Equal(t, 5.0, y.Keyframes[1].Value)
	assert.Equal(t, 0.0, mat.Animation.Action.Find(LocationPath, 0).Keyframes[1].Value)

	assert.Equal(t, 5.0, g.MustLookup(NodeMappingName).Input("Location").Vector.Y)
}

func TestAnimationLoops(t *testing.T) {
	mat, _ := compiledGraph(t, smallParams())
	y := mat.Animation.Action.Find(LocationPath, 1)
	require.NotNil(t, y)

	assert.InDelta(t, 2.5, y.Evaluate(125.5), 1e-9)
	assert.InDelta(t, y.Evaluate(10), y.Evaluate(10+249), 1e-9, "drift repeats every 249 frames")
}

func TestRecompileDropsAnimation(t *testing.T) {
	sc, curve := newCurveScene(t)
	c := NewCompiler(sc)
	_, err := c.Compile(smallParams())
	require.NoError(t, err)

	p := smallParams()
	p.Animate = false
	require.NoError(t, sc.SetActive(curve))
	art, err := c.Compile(p)
	require.NoError(t, err)
	assert.False(t, art.Material.Animation.Animated())
}

// --- Shading ---

func TestShadeBottomAndTop(t *testing.T) {
	p := smallParams()
	p.Animate = false
	mat, _ := compiledGraph(t, p)

	// The fade ramp is white at the base, driving the mix fully to its
	// second (transparent) shader there.
	bottom, err := Shade(mat, graph.Sample{Generated: v3.Vec{X: 0.5, Y: 0}}, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0, bottom.Alpha, 1e-9)

	// Glow falls off to nothing at the top.
	top, err := Shade(mat, graph.Sample{Generated: v3.Vec{X: 0.5, Y: 1}}, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0, top.Emission.G, 1e-9)
	assert.GreaterOrEqual(t, top.Alpha, 0.0)
	assert.LessOrEqual(t, top.Alpha, 1.0)
}

func TestPoseRestores(t *testing.T) {
	mat, g := compiledGraph(t, smallParams())
	loc := g.MustLookup(NodeMappingName).Input("Location")
	before := loc.Vector

	restore, err := Pose(mat, 125.5)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, loc.Vector.Y, 1e-9)
	restore()
	assert.Equal(t, before, loc.Vector)
}

func TestSwatch(t *testing.T) {
	mat, _ := compiledGraph(t, smallParams())
	sw, err := Swatch(mat, 42, 5)
	require.NoError(t, err)
	require.Len(t, sw, 5)
	for _, s := range sw {
		assert.False(t, math.IsNaN(s.Alpha))
		assert.GreaterOrEqual(t, s.Alpha, 0.0)
		assert.LessOrEqual(t, s.Alpha, 1.0)
	}

	_, err = Swatch(mat, 1, 1)
	assert.Error(t, err)
}
