package aurora

import (
	"github.com/chazu/aurora/pkg/scene"
	"github.com/google/uuid"
)

// Tags written on the path curve, each naming a resource of the last
// compile. A tag whose resource is gone resolves to nothing.
const (
	TagObject   = "aurora_object_name"
	TagTexture  = "aurora_texture_name"
	TagMaterial = "aurora_material_name"
)

// Identity tags stored next to the name tags. Names are reused once their
// owner is deleted, so a name only resolves when the identity still agrees.
const (
	TagObjectID   = "aurora_object_id"
	TagTextureID  = "aurora_texture_id"
	TagMaterialID = "aurora_material_id"
)

// sameID reports whether curve's identity tag under key is absent or
// equal to id.
func sameID(curve *scene.Object, key string, id uuid.UUID) bool {
	want, ok := curve.Tag(key)
	return !ok || want == id.String()
}

// resolveObject returns the artifact object named by curve's tag. The
// object must still follow curve.
func resolveObject(sc *scene.Scene, curve *scene.Object) *scene.Object {
	name, ok := curve.Tag(TagObject)
	if !ok {
		return nil
	}
	obj := sc.Object(name)
	if obj == nil || !sameID(curve, TagObjectID, obj.ID) {
		return nil
	}
	follow, ok := obj.Modifier(CurveModName).(*scene.CurveModifier)
	if !ok || follow.Object != curve {
		return nil
	}
	return obj
}

// resolveTexture returns the displacement texture named by curve's tag.
func resolveTexture(sc *scene.Scene, curve *scene.Object) *scene.Texture {
	name, ok := curve.Tag(TagTexture)
	if !ok {
		return nil
	}
	tex := sc.Texture(name)
	if tex == nil || !sameID(curve, TagTextureID, tex.ID) {
		return nil
	}
	return tex
}

// resolveMaterial returns the material named by curve's tag.
func resolveMaterial(sc *scene.Scene, curve *scene.Object) *scene.Material {
	name, ok := curve.Tag(TagMaterial)
	if !ok {
		return nil
	}
	mat := sc.Material(name)
	if mat == nil || !sameID(curve, TagMaterialID, mat.ID) {
		return nil
	}
	return mat
}

// tagObject points curve's object tags at obj.
func tagObject(curve, obj *scene.Object) {
	curve.SetTag(TagObject, obj.Name)
	curve.SetTag(TagObjectID, obj.ID.String())
}

// tagTexture points curve's texture tags at tex.
func tagTexture(curve *scene.Object, tex *scene.Texture) {
	curve.SetTag(TagTexture, tex.Name)
	curve.SetTag(TagTextureID, tex.ID.String())
}

// tagMaterial points curve's material tags at mat.
func tagMaterial(curve *scene.Object, mat *scene.Material) {
	curve.SetTag(TagMaterial, mat.Name)
	curve.SetTag(TagMaterialID, mat.ID.String())
}

// Resolved is what a curve's tags currently point at.
type Resolved struct {
	Object   *scene.Object
	Texture  *scene.Texture
	Material *scene.Material
}

// Resolve looks up every tagged resource of curve. Missing tags, dangling
// names and names now held by another resource all yield nil fields.
func Resolve(sc *scene.Scene, curve *scene.Object) Resolved {
	return Resolved{
		Object:   resolveObject(sc, curve),
		Texture:  resolveTexture(sc, curve),
		Material: resolveMaterial(sc, curve),
	}
}
