// Package kernel holds the surface geometry the aurora tools build and the
// triangle mesh format they hand to viewers and exporters. Surfaces are
// structured quad grids: cheap to subdivide uniformly and easy to deform
// vertex by vertex.
package kernel

import v3 "github.com/deadsy/sdfx/vec/v3"

// Deformer moves a single vertex. Modifier stages implement it.
type Deformer interface {
	Deform(p v3.Vec) v3.Vec
}

// DeformerFunc adapts a function to Deformer.
type DeformerFunc func(p v3.Vec) v3.Vec

// Deform calls f(p).
func (f DeformerFunc) Deform(p v3.Vec) v3.Vec { return f(p) }
