package tessellate

import (
	"errors"
	"sort"

	"github.com/chazu/aurora/pkg/kernel"
	"github.com/chazu/aurora/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var errBadAxis = errors.New("deform axis must be x")

// curveDeform bends space along a flattened spline. The grid's X extent is
// laid along the path from its start: x - xmin becomes arc length, y is
// measured along the path's horizontal normal and z along its up vector.
// Points past either end continue along the end tangent.
type curveDeform struct {
	pts  []v3.Vec
	cum  []float64 // arc length at each point
	xmin float64
}

func newCurveDeform(sp *scene.Spline, axis scene.Axis, grid *kernel.Grid) (*curveDeform, error) {
	if axis != scene.AxisX {
		return nil, errBadAxis
	}
	pts := sp.Flatten()
	if len(pts) == 0 {
		return nil, nil
	}
	cum := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		cum[i] = cum[i-1] + pts[i].Sub(pts[i-1]).Length()
	}
	lo, _ := grid.Bounds()
	return &curveDeform{pts: pts, cum: cum, xmin: lo.X}, nil
}

// Length returns the path's arc length.
func (c *curveDeform) Length() float64 { return c.cum[len(c.cum)-1] }

// frame returns the position and unit tangent at arc length s.
func (c *curveDeform) frame(s float64) (v3.Vec, v3.Vec) {
	n := len(c.pts)
	if n == 1 {
		return c.pts[0].Add(v3.Vec{X: s}), v3.Vec{X: 1}
	}
	// index of the segment [i-1, i] containing s
	i := sort.SearchFloat64s(c.cum, s)
	switch {
	case i <= 0:
		i = 1
	case i >= n:
		i = n - 1
	}
	for i < n-1 && c.cum[i] == c.cum[i-1] {
		i++
	}
	a, b := c.pts[i-1], c.pts[i]
	seg := b.Sub(a)
	l := seg.Length()
	if l == 0 {
		return a, v3.Vec{X: 1}
	}
	t := seg.MulScalar(1 / l)
	return a.Add(t.MulScalar(s - c.cum[i-1])), t
}

// Deform maps p into the path's frame.
func (c *curveDeform) Deform(p v3.Vec) v3.Vec {
	pos, tan := c.frame(p.X - c.xmin)
	up := v3.Vec{Z: 1}
	side := up.Cross(tan)
	if side.Length() < 1e-12 {
		side = v3.Vec{Y: 1}
	}
	side = side.Normalize()
	up = tan.Cross(side).Normalize()
	return pos.Add(side.MulScalar(p.Y)).Add(up.MulScalar(p.Z))
}

var _ kernel.Deformer = (*curveDeform)(nil)
