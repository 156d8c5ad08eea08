package scene

import (
	"github.com/google/uuid"
)

// ObjectKind is the type tag of an object, derived from its data.
type ObjectKind int

const (
	KindEmpty ObjectKind = iota
	KindCurve
	KindMesh
)

func (k ObjectKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindCurve:
		return "curve"
	case KindMesh:
		return "mesh"
	default:
		return "unknown"
	}
}

// Object is a named scene entity wrapping one data block.
type Object struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Kind      ObjectKind        `json:"kind"`
	Curve     *CurveData        `json:"curve,omitempty"`
	Mesh      *MeshData         `json:"mesh,omitempty"`
	Modifiers []Modifier        `json:"-"`
	Tags      map[string]string `json:"tags,omitempty"`
	selected  bool
}

// Selected reports the object's selection state.
func (o *Object) Selected() bool { return o.selected }

// Tag returns the string tag stored under key.
func (o *Object) Tag(key string) (string, bool) {
	v, ok := o.Tags[key]
	return v, ok
}

// SetTag stores value under key, overwriting any previous value.
func (o *Object) SetTag(key, value string) {
	if o.Tags == nil {
		o.Tags = make(map[string]string)
	}
	o.Tags[key] = value
}

// Modifier returns the first modifier with the given name, or nil.
func (o *Object) Modifier(name string) Modifier {
	for _, m := range o.Modifiers {
		if m.ModifierName() == name {
			return m
		}
	}
	return nil
}
