// Package aurora compiles a Parameter Set and a path curve into an aurora
// curtain: a subdivided surface bent along the curve, displaced by cloud
// noise, and shaded by a procedurally wired emission material.
package aurora

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/aurora/pkg/graph"
)

// ErrInvalidParams is wrapped by every Params.Validate failure.
var ErrInvalidParams = errors.New("aurora: invalid parameters")

// Resolution bounds, inclusive.
const (
	MinResolution = 2
	MaxResolution = 1024
)

// Params is the Parameter Set that drives a compile. It is passed by value
// and owned by nobody.
type Params struct {
	Height           float64    `json:"aurora_height" toml:"aurora_height" yaml:"aurora_height"`
	Resolution       int        `json:"subdivisions" toml:"subdivisions" yaml:"subdivisions"`
	Color1           graph.RGBA `json:"color1" toml:"color1" yaml:"color1"` // bottom
	Color2           graph.RGBA `json:"color2" toml:"color2" yaml:"color2"` // top
	EmissionStrength float64    `json:"emission_strength" toml:"emission_strength" yaml:"emission_strength"`
	NoiseScale       float64    `json:"noise_scale" toml:"noise_scale" yaml:"noise_scale"`
	NoiseDistortion  float64    `json:"noise_distortion" toml:"noise_distortion" yaml:"noise_distortion"`
	Animate          bool       `json:"animate" toml:"animate" yaml:"animate"`
}

// DefaultParams returns a green-to-purple curtain five units tall.
func DefaultParams() Params {
	return Params{
		Height:           5.0,
		Resolution:       128,
		Color1:           graph.RGBA{R: 0.1, G: 1.0, B: 0.7, A: 1.0},
		Color2:           graph.RGBA{R: 0.3, G: 0.2, B: 0.8, A: 1.0},
		EmissionStrength: 25.0,
		NoiseScale:       1.5,
		NoiseDistortion:  0.5,
		Animate:          true,
	}
}

// Validate checks every field against its allowed range.
func (p Params) Validate() error {
	var errs []error
	bad := func(field string, v any, want string) {
		errs = append(errs, fmt.Errorf("%w: %s = %v, want %s", ErrInvalidParams, field, v, want))
	}
	if !(p.Height > 0) || math.IsInf(p.Height, 0) {
		bad("aurora_height", p.Height, "> 0")
	}
	if p.Resolution < MinResolution || p.Resolution > MaxResolution {
		bad("subdivisions", p.Resolution, fmt.Sprintf("in [%d, %d]", MinResolution, MaxResolution))
	}
	if !p.Color1.InRange() {
		bad("color1", p.Color1, "channels in [0, 1]")
	}
	if !p.Color2.InRange() {
		bad("color2", p.Color2, "channels in [0, 1]")
	}
	if !(p.EmissionStrength >= 0) || math.IsInf(p.EmissionStrength, 0) {
		bad("emission_strength", p.EmissionStrength, ">= 0")
	}
	if !(p.NoiseScale > 0) || math.IsInf(p.NoiseScale, 0) {
		bad("noise_scale", p.NoiseScale, "> 0")
	}
	if !(p.NoiseDistortion >= 0) || math.IsInf(p.NoiseDistortion, 0) {
		bad("noise_distortion", p.NoiseDistortion, ">= 0")
	}
	return errors.Join(errs...)
}
