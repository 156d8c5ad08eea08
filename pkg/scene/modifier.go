package scene

// Axis names a local coordinate axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "unknown"
	}
}

// Modifier is an entry in an object's modifier stack.
type Modifier interface {
	ModifierName() string
}

// CurveModifier bends the mesh along a curve object. The mesh's DeformAxis
// coordinate is mapped to distance along the curve.
type CurveModifier struct {
	Name       string
	Object     *Object
	DeformAxis Axis
}

func (m *CurveModifier) ModifierName() string { return m.Name }

// DisplaceModifier offsets vertices along Direction by
// (texture - MidLevel) * Strength.
type DisplaceModifier struct {
	Name      string
	Texture   *Texture
	Strength  float64
	MidLevel  float64
	Direction Axis
}

func (m *DisplaceModifier) ModifierName() string { return m.Name }
