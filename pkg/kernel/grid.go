package kernel

import (
	"errors"
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrBadSubdivision is returned for non-positive segment counts.
var ErrBadSubdivision = errors.New("kernel: segment count must be positive")

// Grid is a structured quad surface of Cols x Rows cells. Vertices are
// stored row-major, (Cols+1) per row, Rows+1 rows.
type Grid struct {
	Cols, Rows int
	Vertices   []v3.Vec
}

// Plane returns a single-cell 2x2 plane in XY centred on the origin.
func Plane() *Grid {
	return &Grid{
		Cols: 1,
		Rows: 1,
		Vertices: []v3.Vec{
			{X: -1, Y: -1}, {X: 1, Y: -1},
			{X: -1, Y: 1}, {X: 1, Y: 1},
		},
	}
}

// At returns the vertex at column i, row j.
func (g *Grid) At(i, j int) v3.Vec {
	return g.Vertices[j*(g.Cols+1)+i]
}

// VertexCount returns the number of vertices.
func (g *Grid) VertexCount() int { return len(g.Vertices) }

// FaceCount returns the number of quads.
func (g *Grid) FaceCount() int { return g.Cols * g.Rows }

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	return &Grid{Cols: g.Cols, Rows: g.Rows, Vertices: append([]v3.Vec(nil), g.Vertices...)}
}

// Resize scales every vertex about the origin.
func (g *Grid) Resize(s v3.Vec) {
	g.Transform(sdf.Scale3d(s))
}

// Transform applies m to every vertex, baking it into the geometry.
func (g *Grid) Transform(m sdf.M44) {
	for i, v := range g.Vertices {
		g.Vertices[i] = m.MulPosition(v)
	}
}

// RotateX rotates the surface about the X axis by angle radians.
func (g *Grid) RotateX(angle float64) {
	g.Transform(sdf.RotateX(angle))
}

// Deform passes every vertex through d.
func (g *Grid) Deform(d Deformer) {
	for i, v := range g.Vertices {
		g.Vertices[i] = d.Deform(v)
	}
}

// Subdivide splits every cell into cols x rows cells by bilinear
// interpolation. No smoothing is applied.
func (g *Grid) Subdivide(cols, rows int) error {
	if cols <= 0 || rows <= 0 {
		return fmt.Errorf("subdivide %dx%d: %w", cols, rows, ErrBadSubdivision)
	}
	nc, nr := g.Cols*cols, g.Rows*rows
	out := make([]v3.Vec, 0, (nc+1)*(nr+1))
	for j := 0; j <= nr; j++ {
		cj, fj := split(j, rows, g.Rows)
		for i := 0; i <= nc; i++ {
			ci, fi := split(i, cols, g.Cols)
			a := g.At(ci, cj)
			b := g.At(ci+1, cj)
			c := g.At(ci, cj+1)
			d := g.At(ci+1, cj+1)
			bottom := a.Add(b.Sub(a).MulScalar(fi))
			top := c.Add(d.Sub(c).MulScalar(fi))
			out = append(out, bottom.Add(top.Sub(bottom).MulScalar(fj)))
		}
	}
	g.Cols, g.Rows, g.Vertices = nc, nr, out
	return nil
}

// split maps a fine index to its coarse cell and fraction within it.
func split(fine, per, cells int) (int, float64) {
	cell := fine / per
	frac := float64(fine%per) / float64(per)
	if cell >= cells {
		return cells - 1, 1
	}
	return cell, frac
}

// Bounds returns the axis-aligned bounding box.
func (g *Grid) Bounds() (lo, hi v3.Vec) {
	lo = v3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi = v3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, v := range g.Vertices {
		lo = v3.Vec{X: math.Min(lo.X, v.X), Y: math.Min(lo.Y, v.Y), Z: math.Min(lo.Z, v.Z)}
		hi = v3.Vec{X: math.Max(hi.X, v.X), Y: math.Max(hi.Y, v.Y), Z: math.Max(hi.Z, v.Z)}
	}
	return lo, hi
}

// Quads returns each cell's vertex indices counter-clockwise.
func (g *Grid) Quads() [][4]int {
	out := make([][4]int, 0, g.FaceCount())
	w := g.Cols + 1
	for j := 0; j < g.Rows; j++ {
		for i := 0; i < g.Cols; i++ {
			a := j*w + i
			out = append(out, [4]int{a, a + 1, a + w + 1, a + w})
		}
	}
	return out
}

// ToMesh triangulates the grid with smooth per-vertex normals.
func (g *Grid) ToMesh() *Mesh {
	quads := g.Quads()
	normals := make([]v3.Vec, len(g.Vertices))
	indices := make([]uint32, 0, len(quads)*6)
	for _, q := range quads {
		a, b, c, d := g.Vertices[q[0]], g.Vertices[q[1]], g.Vertices[q[2]], g.Vertices[q[3]]
		n := c.Sub(a).Cross(d.Sub(b))
		for _, idx := range q {
			normals[idx] = normals[idx].Add(n)
		}
		indices = append(indices,
			uint32(q[0]), uint32(q[1]), uint32(q[2]),
			uint32(q[2]), uint32(q[3]), uint32(q[0]))
	}

	m := &Mesh{
		Vertices: make([]float32, 0, len(g.Vertices)*3),
		Normals:  make([]float32, 0, len(g.Vertices)*3),
		Indices:  indices,
	}
	for i, v := range g.Vertices {
		n := normals[i]
		if n.Length() > 0 {
			n = n.Normalize()
		}
		m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
		m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
	}
	return m
}
