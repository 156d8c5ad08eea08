package view

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCentreClickHitsOrigin(t *testing.T) {
	vp := NewViewport(800, 600)
	p, ok := vp.GroundPoint(400, 300)
	require.True(t, ok)
	assert.InDelta(t, 0, p.X, 1e-9)
	assert.InDelta(t, 0, p.Y, 1e-9)
	assert.Equal(t, 0.0, p.Z)
}

func TestUnprojectDirectionIsUnit(t *testing.T) {
	vp := NewViewport(800, 600)
	for _, xy := range [][2]float64{{0, 0}, {800, 600}, {123, 456}} {
		r := vp.Unproject(xy[0], xy[1])
		assert.InDelta(t, 1, r.Dir.Length(), 1e-9)
	}
}

func TestProjectInvertsUnproject(t *testing.T) {
	cams := map[string]Camera{
		"top": DefaultCamera(),
		"tilted": {
			Position: v3.Vec{X: 3, Y: -20, Z: 12},
			Rotation: v3.Vec{X: 1.0, Z: 0.2},
			FOV:      0.8,
		},
		"ortho": {
			Position:   v3.Vec{Z: 10},
			Ortho:      true,
			OrthoScale: 30,
		},
	}
	for name, cam := range cams {
		t.Run(name, func(t *testing.T) {
			vp := &Viewport{Width: 640, Height: 480, Camera: cam}
			p, ok := vp.GroundPoint(200, 150)
			require.True(t, ok)
			x, y, ok := vp.Project(p)
			require.True(t, ok)
			assert.InDelta(t, 200, x, 1e-6)
			assert.InDelta(t, 150, y, 1e-6)
		})
	}
}

func TestRegionAxes(t *testing.T) {
	vp := NewViewport(800, 800)
	right, ok := vp.GroundPoint(800, 400)
	require.True(t, ok)
	up, ok := vp.GroundPoint(400, 800)
	require.True(t, ok)

	assert.Greater(t, right.X, 0.0, "right edge maps to +X from above")
	assert.Greater(t, up.Y, 0.0, "top edge maps to +Y from above")
	assert.InDelta(t, 30*math.Tan(25*math.Pi/180), right.X, 1e-9)
}

func TestIntersectGroundParallel(t *testing.T) {
	_, ok := IntersectGround(Ray{Origin: v3.Vec{Z: 5}, Dir: v3.Vec{X: 1}})
	assert.False(t, ok)

	_, ok = IntersectGround(Ray{Origin: v3.Vec{Z: 5}, Dir: v3.Vec{X: 1, Z: 1e-12}})
	assert.False(t, ok, "near-parallel rays are treated as parallel")
}

func TestIntersectGroundBehind(t *testing.T) {
	_, ok := IntersectGround(Ray{Origin: v3.Vec{Z: 5}, Dir: v3.Vec{Z: 1}})
	assert.False(t, ok)

	_, ok = IntersectGround(Ray{Origin: v3.Vec{}, Dir: v3.Vec{Z: -1}})
	assert.False(t, ok, "a ray starting on the plane has t = 0")
}

func TestIntersectGroundHit(t *testing.T) {
	p, ok := IntersectGround(Ray{Origin: v3.Vec{X: 1, Y: 2, Z: 4}, Dir: v3.Vec{X: 1, Z: -1}.Normalize()})
	require.True(t, ok)
	assert.InDelta(t, 5, p.X, 1e-9)
	assert.InDelta(t, 2, p.Y, 1e-9)
}

func TestHorizonCameraIsParallel(t *testing.T) {
	vp := NewViewport(800, 600)
	vp.Camera.Rotation = v3.Vec{X: math.Pi / 2}
	vp.Camera.Position = v3.Vec{Z: 2}

	fwd := vp.Camera.Forward()
	assert.InDelta(t, 1, fwd.Y, 1e-9, "camera faces +Y")

	_, ok := vp.GroundPoint(400, 300)
	assert.False(t, ok, "centre ray of a horizon camera never meets the ground")
}

func TestProjectBehindCamera(t *testing.T) {
	vp := NewViewport(800, 600)
	_, _, ok := vp.Project(v3.Vec{Z: 40})
	assert.False(t, ok)
}
