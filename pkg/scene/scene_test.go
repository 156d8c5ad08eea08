package scene

import (
	"testing"

	"github.com/chazu/aurora/pkg/kernel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueNames(t *testing.T) {
	s := New()
	a := s.NewObject("Aurora", nil)
	b := s.NewObject("Aurora", nil)
	c := s.NewObject("Aurora", nil)
	assert.Equal(t, "Aurora", a.Name)
	assert.Equal(t, "Aurora.001", b.Name)
	assert.Equal(t, "Aurora.002", c.Name)

	s.RemoveObject(b)
	d := s.NewObject("Aurora", nil)
	assert.Equal(t, "Aurora.001", d.Name, "lowest free suffix is reused")
}

func TestObjectKindFromData(t *testing.T) {
	s := New()
	curve := s.NewObject("c", s.NewCurveData("c"))
	mesh := s.NewObject("m", s.NewMeshData("m", kernel.Plane()))
	empty := s.NewObject("e", nil)

	assert.Equal(t, KindCurve, curve.Kind)
	assert.Equal(t, KindMesh, mesh.Kind)
	assert.Equal(t, KindEmpty, empty.Kind)
	assert.Equal(t, "curve", curve.Kind.String())
	assert.NotEqual(t, curve.ID, mesh.ID)
}

func TestBlocksGetDistinctIDs(t *testing.T) {
	s := New()
	first := s.NewTexture("Tex", TextureClouds)
	s.RemoveTexture(first)
	second := s.NewTexture("Tex", TextureClouds)

	assert.Equal(t, first.Name, second.Name, "name is free again")
	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, uuid.Nil, s.NewMaterial("m").ID)
}

func TestUserCounts(t *testing.T) {
	s := New()
	md := s.NewMeshData("Aurora", kernel.Plane())
	assert.Equal(t, 0, md.Users())

	o := s.NewObject("Aurora", md)
	assert.Equal(t, 1, md.Users())

	tex := s.NewTexture("Tex", TextureClouds)
	s.AddModifier(o, &DisplaceModifier{Name: "Displacement", Texture: tex, Strength: 0.7, MidLevel: 0.5, Direction: AxisZ})
	assert.Equal(t, 1, tex.Users())

	mat := s.NewMaterial("Mat")
	md.AppendMaterial(mat)
	assert.Equal(t, 1, mat.Users())

	s.Link(o)
	s.RemoveObject(o)
	assert.Equal(t, 0, md.Users())
	assert.Equal(t, 0, tex.Users())
	assert.Nil(t, s.Object("Aurora"))
	assert.Empty(t, s.Objects())

	s.RemoveMeshData(md)
	assert.Equal(t, 0, mat.Users())
	assert.Nil(t, s.MeshData("Aurora"))
}

func TestTextureDefaults(t *testing.T) {
	s := New()
	tex := s.NewTexture("Tex", TextureClouds)
	assert.Equal(t, 0.25, tex.NoiseScale)
	assert.Equal(t, 2, tex.NoiseDepth)
	assert.Equal(t, "clouds", tex.Kind.String())
	assert.Same(t, tex, s.Texture("Tex"))

	s.RemoveTexture(tex)
	assert.Nil(t, s.Texture("Tex"))
	assert.Empty(t, s.TextureNames())
}

func TestRemoveStaleBlockIsNoop(t *testing.T) {
	s := New()
	first := s.NewCurveData("Path")
	s.RemoveCurveData(first)
	second := s.NewCurveData("Path")
	require.Equal(t, "Path", second.Name)

	s.RemoveCurveData(first)
	assert.Same(t, second, s.CurveData("Path"), "removing a stale block must not drop its namesake")
}

func TestLinkIsIdempotent(t *testing.T) {
	s := New()
	o := s.NewObject("o", nil)
	s.Link(o)
	s.Link(o)
	assert.Len(t, s.Objects(), 1)
}

func TestObjectsOfKind(t *testing.T) {
	s := New()
	s.Link(s.NewObject("c", s.NewCurveData("c")))
	s.Link(s.NewObject("m", s.NewMeshData("m", kernel.Plane())))
	s.Link(s.NewObject("c2", s.NewCurveData("c2")))

	curves := s.ObjectsOfKind(KindCurve)
	require.Len(t, curves, 2)
	assert.Equal(t, "c", curves[0].Name)
	assert.Equal(t, "c2", curves[1].Name)
}

func TestSelectionAndActive(t *testing.T) {
	s := New()
	a := s.NewObject("a", nil)
	b := s.NewObject("b", nil)

	require.ErrorIs(t, s.SetActive(a), ErrNotLinked)
	assert.Nil(t, s.Active())

	s.Link(a)
	s.Link(b)
	s.Select(a, true)
	s.Select(b, true)
	assert.Len(t, s.Selected(), 2)

	s.DeselectAll()
	assert.Empty(t, s.Selected())

	require.NoError(t, s.SetActive(b))
	assert.Same(t, b, s.Active())

	s.RemoveObject(b)
	assert.Nil(t, s.Active(), "removing the active object clears active")

	require.NoError(t, s.SetActive(nil))
}

func TestTags(t *testing.T) {
	s := New()
	o := s.NewObject("o", nil)
	_, ok := o.Tag("aurora_object_name")
	assert.False(t, ok)

	o.SetTag("aurora_object_name", "Aurora")
	o.SetTag("aurora_object_name", "Aurora.001")
	v, ok := o.Tag("aurora_object_name")
	assert.True(t, ok)
	assert.Equal(t, "Aurora.001", v)
}

func TestModifierLookup(t *testing.T) {
	s := New()
	o := s.NewObject("o", s.NewMeshData("m", kernel.Plane()))
	curve := s.NewObject("c", s.NewCurveData("c"))
	s.AddModifier(o, &CurveModifier{Name: "FollowCurve", Object: curve, DeformAxis: AxisX})

	m, ok := o.Modifier("FollowCurve").(*CurveModifier)
	require.True(t, ok)
	assert.Same(t, curve, m.Object)
	assert.Nil(t, o.Modifier("Displacement"))
}
