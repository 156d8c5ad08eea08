// Package view models the 3D viewport the user draws in: a camera, the
// region it projects onto, and the conversions between region pixels and
// world space.
package view

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ParallelEpsilon is the smallest |dir.z| for which a ray is considered to
// cross the ground plane.
const ParallelEpsilon = 1e-9

// orthoClip is how far behind the view plane orthographic rays start.
const orthoClip = 1000.0

// Camera looks down its local -Z axis with +Y up. Rotation holds Euler
// angles in radians applied X, then Y, then Z.
type Camera struct {
	Position   v3.Vec  `json:"position" toml:"position" yaml:"position"`
	Rotation   v3.Vec  `json:"rotation" toml:"rotation" yaml:"rotation"`
	FOV        float64 `json:"fov" toml:"fov" yaml:"fov"` // vertical, radians
	Ortho      bool    `json:"ortho" toml:"ortho" yaml:"ortho"`
	OrthoScale float64 `json:"ortho_scale" toml:"ortho_scale" yaml:"ortho_scale"`
}

// DefaultCamera looks straight down at the origin from 30 units up.
func DefaultCamera() Camera {
	return Camera{
		Position:   v3.Vec{Z: 30},
		FOV:        50 * math.Pi / 180,
		OrthoScale: 40,
	}
}

// rotation returns the camera's orientation matrix.
func (c Camera) rotation() sdf.M44 {
	return sdf.RotateZ(c.Rotation.Z).Mul(sdf.RotateY(c.Rotation.Y)).Mul(sdf.RotateX(c.Rotation.X))
}

// matrix returns the camera-to-world transform.
func (c Camera) matrix() sdf.M44 {
	return sdf.Translate3d(c.Position).Mul(c.rotation())
}

// Forward returns the world-space viewing direction.
func (c Camera) Forward() v3.Vec {
	return c.rotation().MulPosition(v3.Vec{Z: -1})
}

// Ray is a half-line from Origin along Dir. Dir is unit length.
type Ray struct {
	Origin v3.Vec
	Dir    v3.Vec
}

// At returns the point t units along the ray.
func (r Ray) At(t float64) v3.Vec {
	return r.Origin.Add(r.Dir.MulScalar(t))
}

// Viewport is a region of Width x Height pixels showing Camera. Region
// coordinates have their origin at the bottom-left corner, y up.
type Viewport struct {
	Width  float64 `json:"width" toml:"width" yaml:"width"`
	Height float64 `json:"height" toml:"height" yaml:"height"`
	Camera Camera  `json:"camera" toml:"camera" yaml:"camera"`
}

// NewViewport returns a viewport of the given size using DefaultCamera.
func NewViewport(width, height float64) *Viewport {
	return &Viewport{Width: width, Height: height, Camera: DefaultCamera()}
}

// halfExtent returns the half width and height of the view plane at unit
// distance (perspective) or in world units (orthographic).
func (v *Viewport) halfExtent() (float64, float64) {
	aspect := 1.0
	if v.Height > 0 {
		aspect = v.Width / v.Height
	}
	if v.Camera.Ortho {
		half := v.Camera.OrthoScale / 2
		if aspect >= 1 {
			return half, half / aspect
		}
		return half * aspect, half
	}
	h := math.Tan(v.Camera.FOV / 2)
	return h * aspect, h
}

// ndc maps region pixels to [-1, 1] on both axes.
func (v *Viewport) ndc(x, y float64) (float64, float64) {
	return 2*x/v.Width - 1, 2*y/v.Height - 1
}

// Unproject returns the world-space ray through region pixel (x, y).
func (v *Viewport) Unproject(x, y float64) Ray {
	nx, ny := v.ndc(x, y)
	hw, hh := v.halfExtent()
	m := v.Camera.matrix()
	rot := v.Camera.rotation()

	if v.Camera.Ortho {
		local := v3.Vec{X: nx * hw, Y: ny * hh, Z: orthoClip / 2}
		return Ray{
			Origin: m.MulPosition(local),
			Dir:    rot.MulPosition(v3.Vec{Z: -1}),
		}
	}
	dir := v3.Vec{X: nx * hw, Y: ny * hh, Z: -1}.Normalize()
	return Ray{
		Origin: v.Camera.Position,
		Dir:    rot.MulPosition(dir),
	}
}

// IntersectGround intersects r with the plane z = 0. It reports false when
// the ray runs parallel to the plane or the hit lies behind the origin.
func IntersectGround(r Ray) (v3.Vec, bool) {
	if math.Abs(r.Dir.Z) < ParallelEpsilon {
		return v3.Vec{}, false
	}
	t := -r.Origin.Z / r.Dir.Z
	if t <= 0 {
		return v3.Vec{}, false
	}
	p := r.At(t)
	p.Z = 0
	return p, true
}

// GroundPoint unprojects (x, y) and intersects the result with z = 0.
func (v *Viewport) GroundPoint(x, y float64) (v3.Vec, bool) {
	return IntersectGround(v.Unproject(x, y))
}

// Project maps a world point to region pixels. It reports false for points
// behind a perspective camera.
func (v *Viewport) Project(world v3.Vec) (float64, float64, bool) {
	local := v.Camera.matrix().Inverse().MulPosition(world)
	hw, hh := v.halfExtent()

	var nx, ny float64
	if v.Camera.Ortho {
		nx, ny = local.X/hw, local.Y/hh
	} else {
		if local.Z >= 0 {
			return 0, 0, false
		}
		d := -local.Z
		nx, ny = local.X/(d*hw), local.Y/(d*hh)
	}
	return (nx + 1) * v.Width / 2, (ny + 1) * v.Height / 2, true
}
