// Package tessellate evaluates mesh objects through their modifier stacks
// and produces triangle meshes. One mesh is produced per object. The scene
// is never mutated.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/chazu/aurora/pkg/kernel"
	"github.com/chazu/aurora/pkg/scene"
)

// ErrNotMesh is returned by Object for objects without mesh data.
var ErrNotMesh = errors.New("tessellate: object has no mesh data")

// Tessellate evaluates every linked mesh object of sc, in link order.
func Tessellate(sc *scene.Scene) ([]*kernel.Mesh, error) {
	if sc == nil {
		return nil, nil
	}
	var meshes []*kernel.Mesh
	for _, o := range sc.ObjectsOfKind(scene.KindMesh) {
		m, err := Object(o)
		if err != nil {
			return nil, fmt.Errorf("tessellate: %w", err)
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

// Object evaluates one mesh object: its grid is copied, passed through
// each modifier in stack order, and triangulated.
func Object(o *scene.Object) (*kernel.Mesh, error) {
	if o.Mesh == nil || o.Mesh.Grid == nil {
		return nil, fmt.Errorf("%s: %w", o.Name, ErrNotMesh)
	}
	grid, err := Evaluate(o)
	if err != nil {
		return nil, err
	}
	mesh := grid.ToMesh()
	mesh.Name = o.Name
	return mesh, nil
}

// Evaluate returns a copy of o's grid with every modifier applied.
func Evaluate(o *scene.Object) (*kernel.Grid, error) {
	if o.Mesh == nil || o.Mesh.Grid == nil {
		return nil, fmt.Errorf("%s: %w", o.Name, ErrNotMesh)
	}
	grid := o.Mesh.Grid.Clone()
	for _, m := range o.Modifiers {
		d, err := deformer(m, grid)
		if err != nil {
			return nil, fmt.Errorf("%s: modifier %s: %w", o.Name, m.ModifierName(), err)
		}
		if d != nil {
			grid.Deform(d)
		}
	}
	return grid, nil
}

// deformer builds the vertex function for one modifier. A modifier with
// nothing to act on yields nil and leaves the grid unchanged.
func deformer(m scene.Modifier, grid *kernel.Grid) (kernel.Deformer, error) {
	switch mod := m.(type) {
	case *scene.CurveModifier:
		if mod.Object == nil || mod.Object.Curve == nil || len(mod.Object.Curve.Splines) == 0 {
			return nil, nil
		}
		cd, err := newCurveDeform(mod.Object.Curve.Splines[0], mod.DeformAxis, grid)
		if err != nil || cd == nil {
			return nil, err
		}
		return cd, nil
	case *scene.DisplaceModifier:
		if mod.Texture == nil {
			return nil, nil
		}
		return newDisplace(mod), nil
	default:
		return nil, fmt.Errorf("unsupported modifier type %T", m)
	}
}
