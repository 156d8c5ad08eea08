// Package sdfx bridges kernel meshes to the github.com/deadsy/sdfx triangle
// types so artifacts can be written out with the sdfx STL renderer.
package sdfx

import (
	"errors"
	"fmt"

	"github.com/chazu/aurora/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrEmptyMesh is returned when there is nothing to export.
var ErrEmptyMesh = errors.New("sdfx: mesh has no triangles")

// vertex reads vertex i from a flat mesh buffer.
func vertex(m *kernel.Mesh, i uint32) v3.Vec {
	return v3.Vec{
		X: float64(m.Vertices[i*3]),
		Y: float64(m.Vertices[i*3+1]),
		Z: float64(m.Vertices[i*3+2]),
	}
}

// ToTriangles converts indexed meshes into sdfx triangles. Degenerate
// triangles are dropped.
func ToTriangles(meshes ...*kernel.Mesh) []*sdf.Triangle3 {
	var out []*sdf.Triangle3
	for _, m := range meshes {
		if m == nil {
			continue
		}
		for i := 0; i+2 < len(m.Indices); i += 3 {
			tri := &sdf.Triangle3{
				vertex(m, m.Indices[i]),
				vertex(m, m.Indices[i+1]),
				vertex(m, m.Indices[i+2]),
			}
			if tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0])).Length() == 0 {
				continue
			}
			out = append(out, tri)
		}
	}
	return out
}

// FromTriangles builds a flat-shaded mesh, three vertices per triangle.
func FromTriangles(triangles []*sdf.Triangle3) *kernel.Mesh {
	numVerts := len(triangles) * 3
	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}
}

// BoundingBox returns the box enclosing every triangle.
func BoundingBox(triangles []*sdf.Triangle3) sdf.Box3 {
	if len(triangles) == 0 {
		return sdf.Box3{}
	}
	bb := sdf.Box3{Min: triangles[0][0], Max: triangles[0][0]}
	for _, tri := range triangles {
		for _, v := range tri {
			bb = bb.Include(v)
		}
	}
	return bb
}

// SaveSTL writes meshes to path as a binary STL file.
func SaveSTL(path string, meshes ...*kernel.Mesh) error {
	triangles := ToTriangles(meshes...)
	if len(triangles) == 0 {
		return ErrEmptyMesh
	}
	if err := render.SaveSTL(path, triangles); err != nil {
		return fmt.Errorf("save stl %s: %w", path, err)
	}
	return nil
}
