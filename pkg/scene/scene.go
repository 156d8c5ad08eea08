package scene

import (
	"errors"
	"fmt"

	"github.com/chazu/aurora/pkg/graph"
	"github.com/chazu/aurora/pkg/kernel"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ErrNotLinked is returned when an operation needs an object that is not in
// the scene collection.
var ErrNotLinked = errors.New("scene: object not linked")

// Scene is the registry of data blocks and objects plus the linked
// collection, selection, and active object.
type Scene struct {
	objects   map[string]*Object
	curves    map[string]*CurveData
	meshes    map[string]*MeshData
	textures  map[string]*Texture
	materials map[string]*Material

	linked []*Object
	active *Object
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{
		objects:   make(map[string]*Object),
		curves:    make(map[string]*CurveData),
		meshes:    make(map[string]*MeshData),
		textures:  make(map[string]*Texture),
		materials: make(map[string]*Material),
	}
}

// uniqueName returns name, or name with the lowest free ".NNN" suffix.
func uniqueName[T any](registry map[string]T, name string) string {
	if _, taken := registry[name]; !taken {
		return name
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s.%03d", name, i)
		if _, taken := registry[candidate]; !taken {
			return candidate
		}
	}
}

// ---------------------------------------------------------------------------
// Data blocks
// ---------------------------------------------------------------------------

func newBlock(name string) Block {
	return Block{ID: uuid.New(), Name: name}
}

// NewCurveData creates a 3D curve data block.
func (s *Scene) NewCurveData(name string) *CurveData {
	c := &CurveData{Block: newBlock(uniqueName(s.curves, name)), Is3D: true}
	s.curves[c.Name] = c
	return c
}

// NewMeshData creates a mesh data block around grid.
func (s *Scene) NewMeshData(name string, grid *kernel.Grid) *MeshData {
	m := &MeshData{Block: newBlock(uniqueName(s.meshes, name)), Grid: grid}
	s.meshes[m.Name] = m
	return m
}

// NewTexture creates a procedural texture with kind defaults.
func (s *Scene) NewTexture(name string, kind TextureKind) *Texture {
	t := &Texture{
		Block:      newBlock(uniqueName(s.textures, name)),
		Kind:       kind,
		NoiseScale: 0.25,
		NoiseDepth: 2,
	}
	s.textures[t.Name] = t
	return t
}

// NewMaterial creates a material with an empty appearance graph.
func (s *Scene) NewMaterial(name string) *Material {
	m := &Material{Block: newBlock(uniqueName(s.materials, name)), Graph: graph.New()}
	s.materials[m.Name] = m
	return m
}

// CurveData returns the curve block called name, or nil.
func (s *Scene) CurveData(name string) *CurveData { return s.curves[name] }

// MeshData returns the mesh block called name, or nil.
func (s *Scene) MeshData(name string) *MeshData { return s.meshes[name] }

// Texture returns the texture called name, or nil.
func (s *Scene) Texture(name string) *Texture { return s.textures[name] }

// Material returns the material called name, or nil.
func (s *Scene) Material(name string) *Material { return s.materials[name] }

// RemoveCurveData drops a curve block from the registry.
func (s *Scene) RemoveCurveData(c *CurveData) {
	if s.curves[c.Name] == c {
		delete(s.curves, c.Name)
	}
}

// RemoveMeshData drops a mesh block and releases its material slots.
func (s *Scene) RemoveMeshData(m *MeshData) {
	if s.meshes[m.Name] == m {
		delete(s.meshes, m.Name)
		m.releaseMaterials()
	}
}

// RemoveTexture drops a texture from the registry.
func (s *Scene) RemoveTexture(t *Texture) {
	if s.textures[t.Name] == t {
		delete(s.textures, t.Name)
	}
}

// TextureNames returns the registered texture names, for inspection.
func (s *Scene) TextureNames() []string { return lo.Keys(s.textures) }

// MeshNames returns the registered mesh names, for inspection.
func (s *Scene) MeshNames() []string { return lo.Keys(s.meshes) }

// ---------------------------------------------------------------------------
// Objects
// ---------------------------------------------------------------------------

// NewObject creates an unlinked object around data, which must be a
// *CurveData, a *MeshData, or nil for an empty.
func (s *Scene) NewObject(name string, data any) *Object {
	o := &Object{ID: uuid.New(), Name: uniqueName(s.objects, name)}
	switch d := data.(type) {
	case *CurveData:
		o.Kind, o.Curve = KindCurve, d
		d.retain()
	case *MeshData:
		o.Kind, o.Mesh = KindMesh, d
		d.retain()
	default:
		o.Kind = KindEmpty
	}
	s.objects[o.Name] = o
	return o
}

// Object returns the object called name, or nil.
func (s *Scene) Object(name string) *Object { return s.objects[name] }

// Link adds o to the scene collection.
func (s *Scene) Link(o *Object) {
	if !lo.Contains(s.linked, o) {
		s.linked = append(s.linked, o)
	}
}

// Objects returns the linked objects in link order.
func (s *Scene) Objects() []*Object {
	return append([]*Object(nil), s.linked...)
}

// ObjectsOfKind returns the linked objects of kind k.
func (s *Scene) ObjectsOfKind(k ObjectKind) []*Object {
	return lo.Filter(s.linked, func(o *Object, _ int) bool { return o.Kind == k })
}

// RemoveObject unlinks o, drops it from the registry, and releases the
// users it held on its data and modifier textures.
func (s *Scene) RemoveObject(o *Object) {
	if s.objects[o.Name] == o {
		delete(s.objects, o.Name)
	}
	s.linked = lo.Without(s.linked, o)
	if s.active == o {
		s.active = nil
	}
	o.selected = false

	if o.Curve != nil {
		o.Curve.release()
	}
	if o.Mesh != nil {
		o.Mesh.release()
	}
	for _, m := range o.Modifiers {
		if d, ok := m.(*DisplaceModifier); ok && d.Texture != nil {
			d.Texture.release()
		}
	}
}

// AddModifier appends m to o's stack, taking a user of any texture it uses.
func (s *Scene) AddModifier(o *Object, m Modifier) {
	if d, ok := m.(*DisplaceModifier); ok && d.Texture != nil {
		d.Texture.retain()
	}
	o.Modifiers = append(o.Modifiers, m)
}

// ---------------------------------------------------------------------------
// Selection
// ---------------------------------------------------------------------------

// Active returns the active object, or nil.
func (s *Scene) Active() *Object { return s.active }

// SetActive makes o the active object. o must be linked.
func (s *Scene) SetActive(o *Object) error {
	if o != nil && !lo.Contains(s.linked, o) {
		return fmt.Errorf("set active %q: %w", o.Name, ErrNotLinked)
	}
	s.active = o
	return nil
}

// Select sets o's selection state.
func (s *Scene) Select(o *Object, selected bool) {
	o.selected = selected
}

// DeselectAll clears the selection of every linked object.
func (s *Scene) DeselectAll() {
	for _, o := range s.linked {
		o.selected = false
	}
}

// Selected returns the selected linked objects.
func (s *Scene) Selected() []*Object {
	return lo.Filter(s.linked, func(o *Object, _ int) bool { return o.selected })
}
