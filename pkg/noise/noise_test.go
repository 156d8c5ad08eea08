package noise

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
)

func samplePoints() []v3.Vec {
	var pts []v3.Vec
	for i := 0; i < 200; i++ {
		f := float64(i)
		pts = append(pts, v3.Vec{X: f*0.37 - 20, Y: f*0.11 + 3, Z: f*0.73 - 50})
	}
	return pts
}

func TestNoise3ZeroOnLattice(t *testing.T) {
	p := New(1)
	for _, c := range [][3]float64{{0, 0, 0}, {1, 2, 3}, {-4, 7, 250}} {
		assert.InDelta(t, 0, p.Noise3(c[0], c[1], c[2]), 1e-12)
	}
}

func TestNoise3Bounded(t *testing.T) {
	p := New(42)
	var lo, hi float64
	for _, q := range samplePoints() {
		v := p.At(q)
		assert.GreaterOrEqual(t, v, -1.1)
		assert.LessOrEqual(t, v, 1.1)
		lo, hi = min(lo, v), max(hi, v)
	}
	assert.Less(t, lo, 0.0, "noise takes negative values")
	assert.Greater(t, hi, 0.0, "noise takes positive values")
}

func TestDeterministicPerSeed(t *testing.T) {
	a, b, c := New(7), New(7), New(8)
	q := v3.Vec{X: 0.3, Y: 1.7, Z: -2.2}
	assert.Equal(t, a.At(q), b.At(q))
	assert.NotEqual(t, a.At(q), c.At(q))
}

func TestContinuity(t *testing.T) {
	p := Default()
	q := v3.Vec{X: 3.3, Y: 1.1, Z: 0.4}
	d := v3.Vec{X: 1e-6}
	assert.InDelta(t, p.At(q), p.At(q.Add(d)), 1e-4)
}

func TestCloudsRange(t *testing.T) {
	c := Clouds{Scale: 0.5, Depth: 2}
	for _, q := range samplePoints() {
		v := c.Sample(q)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestCloudsScale(t *testing.T) {
	c := Clouds{Scale: 2}
	// one octave at scale 2 is plain noise at half the coordinates
	q := v3.Vec{X: 1.3, Y: 0.7, Z: 2.9}
	want := unsigned(Default().At(q.MulScalar(0.5)))
	assert.InDelta(t, want, c.Sample(q), 1e-12)

	assert.Equal(t, Clouds{Scale: 1}.Sample(q), Clouds{}.Sample(q), "non-positive scale means 1")
}

func TestFractalRange(t *testing.T) {
	f := Fractal{Scale: 1.5, Detail: 5, Roughness: 0.6, Distortion: 0.5}
	for _, q := range samplePoints() {
		v := f.Sample(q)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestFractalDistortionChangesField(t *testing.T) {
	q := v3.Vec{X: 0.31, Y: 0.47, Z: 0.12}
	plain := Fractal{Scale: 1.5, Detail: 2, Roughness: 0.5}
	warped := plain
	warped.Distortion = 2
	assert.NotEqual(t, plain.Sample(q), warped.Sample(q))
}

func TestFractalFractionalDetailBlends(t *testing.T) {
	q := v3.Vec{X: 0.31, Y: 0.47, Z: 0.12}
	lo := Fractal{Scale: 1, Detail: 1, Roughness: 0.5}.Sample(q)
	hi := Fractal{Scale: 1, Detail: 2, Roughness: 0.5}.Sample(q)
	mid := Fractal{Scale: 1, Detail: 1.5, Roughness: 0.5}.Sample(q)
	assert.InDelta(t, (lo+hi)/2, mid, 1e-12)
}
