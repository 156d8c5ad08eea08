package graph

// RGBA is a linear colour with alpha, each channel in [0,1].
type RGBA struct {
	R float64 `json:"r" toml:"r" yaml:"r"`
	G float64 `json:"g" toml:"g" yaml:"g"`
	B float64 `json:"b" toml:"b" yaml:"b"`
	A float64 `json:"a" toml:"a" yaml:"a"`
}

var (
	Black = RGBA{0, 0, 0, 1}
	White = RGBA{1, 1, 1, 1}
)

// InRange reports whether every channel lies in [0,1].
func (c RGBA) InRange() bool {
	for _, v := range [4]float64{c.R, c.G, c.B, c.A} {
		if v < 0 || v > 1 {
			return false
		}
	}
	return true
}

// Lerp blends c toward d by t.
func (c RGBA) Lerp(d RGBA, t float64) RGBA {
	return RGBA{
		R: c.R + (d.R-c.R)*t,
		G: c.G + (d.G-c.G)*t,
		B: c.B + (d.B-c.B)*t,
		A: c.A + (d.A-c.A)*t,
	}
}

// ---------------------------------------------------------------------------
// Sources and converters
// ---------------------------------------------------------------------------

// TexCoordData emits the object's texture coordinates.
type TexCoordData struct{}

func (TexCoordData) nodeData() {}

// SeparateXYZData splits a vector into X, Y and Z channels.
type SeparateXYZData struct{}

func (SeparateXYZData) nodeData() {}

// VectorType selects how a mapping node treats its vector.
type VectorType int

const (
	VectorPoint VectorType = iota
	VectorTexture
)

// MappingData applies Location, Rotation and Scale inputs to a vector.
type MappingData struct {
	VectorType VectorType `json:"vector_type"`
}

func (MappingData) nodeData() {}

// ---------------------------------------------------------------------------
// Scalar combinators
// ---------------------------------------------------------------------------

// MathOp enumerates the math node operations.
type MathOp int

const (
	MathAdd MathOp = iota
	MathMultiply
	MathMaximum
	MathMinimum
)

func (op MathOp) String() string {
	switch op {
	case MathAdd:
		return "add"
	case MathMultiply:
		return "multiply"
	case MathMaximum:
		return "maximum"
	case MathMinimum:
		return "minimum"
	default:
		return "unknown"
	}
}

// Apply evaluates the operation on a and b.
func (op MathOp) Apply(a, b float64) float64 {
	switch op {
	case MathAdd:
		return a + b
	case MathMultiply:
		return a * b
	case MathMaximum:
		return max(a, b)
	case MathMinimum:
		return min(a, b)
	default:
		return 0
	}
}

// MathData selects the math node operation.
type MathData struct {
	Op MathOp `json:"op"`
}

func (MathData) nodeData() {}

// ColorRampData maps a scalar factor to a colour through ordered stops.
type ColorRampData struct {
	Ramp *ColorRamp `json:"ramp"`
}

func (ColorRampData) nodeData() {}

// ---------------------------------------------------------------------------
// Textures
// ---------------------------------------------------------------------------

// NoiseTextureData is a 3D fractal noise texture. Scale, detail, roughness
// and distortion are input sockets so they can be linked or animated.
type NoiseTextureData struct {
	Dimensions int `json:"dimensions"`
}

func (NoiseTextureData) nodeData() {}

// ---------------------------------------------------------------------------
// Shaders and output
// ---------------------------------------------------------------------------

// EmissionData is a glowing shader.
type EmissionData struct{}

func (EmissionData) nodeData() {}

// TransparentData is a shader that lets all light through.
type TransparentData struct{}

func (TransparentData) nodeData() {}

// MixShaderData blends its two shader inputs by Fac.
type MixShaderData struct{}

func (MixShaderData) nodeData() {}

// OutputData marks the material's surface output.
type OutputData struct{}

func (OutputData) nodeData() {}
