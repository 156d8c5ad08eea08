// Package noise provides seeded 3D gradient noise and the fractal sums
// built on it: the layered "clouds" used by displacement textures and the
// detail/roughness/distortion noise used by the appearance graph.
package noise

import (
	"math"
	"math/rand"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultSeed is used by the package-level helpers.
const DefaultSeed = 0

// Perlin is improved Perlin gradient noise over a seeded permutation.
type Perlin struct {
	perm [512]int
}

// New returns gradient noise whose lattice is shuffled by seed.
func New(seed int64) *Perlin {
	p := &Perlin{}
	for i, v := range rand.New(rand.NewSource(seed)).Perm(256) {
		p.perm[i] = v
		p.perm[i+256] = v
	}
	return p
}

var std = New(DefaultSeed)

// Default returns the shared DefaultSeed generator.
func Default() *Perlin { return std }

func fade(t float64) float64 { return t * t * t * (t*(t*6-15) + 10) }

func lerp(t, a, b float64) float64 { return a + t*(b-a) }

func grad(hash int, x, y, z float64) float64 {
	h := hash & 15
	u := y
	if h < 8 {
		u = x
	}
	var v float64
	switch {
	case h < 4:
		v = y
	case h == 12 || h == 14:
		v = x
	default:
		v = z
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}

// Noise3 returns signed noise, roughly in [-1, 1]. It is zero on every
// integer lattice point.
func (p *Perlin) Noise3(x, y, z float64) float64 {
	fx, fy, fz := math.Floor(x), math.Floor(y), math.Floor(z)
	xi, yi, zi := int(fx)&255, int(fy)&255, int(fz)&255
	x, y, z = x-fx, y-fy, z-fz
	u, v, w := fade(x), fade(y), fade(z)

	pm := &p.perm
	a := pm[xi] + yi
	aa, ab := pm[a]+zi, pm[a+1]+zi
	b := pm[xi+1] + yi
	ba, bb := pm[b]+zi, pm[b+1]+zi

	return lerp(w,
		lerp(v,
			lerp(u, grad(pm[aa], x, y, z), grad(pm[ba], x-1, y, z)),
			lerp(u, grad(pm[ab], x, y-1, z), grad(pm[bb], x-1, y-1, z))),
		lerp(v,
			lerp(u, grad(pm[aa+1], x, y, z-1), grad(pm[ba+1], x-1, y, z-1)),
			lerp(u, grad(pm[ab+1], x, y-1, z-1), grad(pm[bb+1], x-1, y-1, z-1))))
}

// At samples Noise3 at v.
func (p *Perlin) At(v v3.Vec) float64 { return p.Noise3(v.X, v.Y, v.Z) }

// unsigned maps signed noise into [0, 1].
func unsigned(n float64) float64 {
	return math.Max(0, math.Min(1, (n+1)*0.5))
}
