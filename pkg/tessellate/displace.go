package tessellate

import (
	"github.com/chazu/aurora/pkg/kernel"
	"github.com/chazu/aurora/pkg/noise"
	"github.com/chazu/aurora/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// displace pushes vertices along one axis by (texture - mid) * strength,
// sampling the texture at the vertex's current position.
type displace struct {
	tex      func(v3.Vec) float64
	strength float64
	mid      float64
	axis     scene.Axis
}

func newDisplace(m *scene.DisplaceModifier) *displace {
	d := &displace{strength: m.Strength, mid: m.MidLevel, axis: m.Direction}
	switch m.Texture.Kind {
	case scene.TextureClouds:
		c := noise.Clouds{Noise: noise.Default(), Scale: m.Texture.NoiseScale, Depth: m.Texture.NoiseDepth}
		d.tex = c.Sample
	default:
		d.tex = func(v3.Vec) float64 { return m.MidLevel }
	}
	return d
}

// Deform offsets p along the modifier axis.
func (d *displace) Deform(p v3.Vec) v3.Vec {
	off := (d.tex(p) - d.mid) * d.strength
	switch d.axis {
	case scene.AxisX:
		p.X += off
	case scene.AxisY:
		p.Y += off
	default:
		p.Z += off
	}
	return p
}

var _ kernel.Deformer = (*displace)(nil)
