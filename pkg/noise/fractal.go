package noise

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Clouds is layered soft noise: Depth+1 octaves, each at twice the
// frequency and half the amplitude of the previous one.
type Clouds struct {
	Noise *Perlin
	Scale float64 // feature size in world units
	Depth int
}

// Sample returns the clouds value at p in [0, 1].
func (c Clouds) Sample(p v3.Vec) float64 {
	n := c.Noise
	if n == nil {
		n = std
	}
	scale := c.Scale
	if scale <= 0 {
		scale = 1
	}
	q := p.MulScalar(1 / scale)

	sum, amp, norm := 0.0, 1.0, 0.0
	for i := 0; i <= c.Depth; i++ {
		sum += unsigned(n.At(q)) * amp
		norm += amp
		amp *= 0.5
		q = q.MulScalar(2)
	}
	return sum / norm
}

// Fractal is the appearance graph's noise texture: fBm with a fractional
// octave count, a per-octave amplitude factor, and domain distortion.
type Fractal struct {
	Noise      *Perlin
	Scale      float64
	Detail     float64 // octaves beyond the first, may be fractional
	Roughness  float64 // amplitude factor between octaves
	Distortion float64
}

// offsets decorrelate the distortion fields from the main field.
var offsets = [3]v3.Vec{
	{X: 13.5, Y: 7.25, Z: 3.1},
	{X: 5.2, Y: 21.7, Z: 11.3},
	{X: 17.9, Y: 2.6, Z: 29.4},
}

// Sample returns the noise factor at p in [0, 1].
func (f Fractal) Sample(p v3.Vec) float64 {
	n := f.Noise
	if n == nil {
		n = std
	}
	q := p.MulScalar(f.Scale)
	if f.Distortion != 0 {
		q = q.Add(v3.Vec{
			X: n.At(q.Add(offsets[0])) * f.Distortion,
			Y: n.At(q.Add(offsets[1])) * f.Distortion,
			Z: n.At(q.Add(offsets[2])) * f.Distortion,
		})
	}

	detail := math.Max(0, math.Min(15, f.Detail))
	whole := int(detail)
	rough := math.Max(0, math.Min(1, f.Roughness))

	sum, amp, norm := 0.0, 1.0, 0.0
	for i := 0; i <= whole; i++ {
		sum += n.At(q) * amp
		norm += amp
		amp *= rough
		q = q.MulScalar(2)
	}
	value := unsigned(sum / norm)

	if frac := detail - float64(whole); frac > 0 {
		extra := unsigned((sum + n.At(q)*amp) / (norm + amp))
		value = (1-frac)*value + frac*extra
	}
	return value
}
