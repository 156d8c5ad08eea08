package aurora

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/chazu/aurora/pkg/kernel"
	"github.com/chazu/aurora/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrNoCurveSelected is returned when the active object is not a curve.
var ErrNoCurveSelected = errors.New("aurora: active object is not a curve")

// StatusOK is reported after a successful compile.
const StatusOK = "Aurora created/updated successfully!"

// Names given to the resources a compile creates.
const (
	ObjectName       = "Aurora"
	TextureName      = "AuroraDisplaceTexture"
	MaterialName     = "Aurora_Material"
	CurveModName     = "FollowCurve"
	DisplaceModName  = "Displacement"
	ScaffoldScale    = 20.0 // X factor on the 2-unit plane, so 40 units long
	DisplaceScale    = 0.5
	DisplaceStrength = 0.7
)

// Artifact is the result of one compile.
type Artifact struct {
	Object   *scene.Object
	Mesh     *scene.MeshData
	Texture  *scene.Texture
	Material *scene.Material
	Status   string
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the compiler's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) { c.log = l }
}

// Compiler turns the active curve of a scene into an aurora artifact.
// Compiling the same curve again replaces the previous artifact.
type Compiler struct {
	scene *scene.Scene
	log   *slog.Logger
}

// NewCompiler returns a compiler working on sc.
func NewCompiler(sc *scene.Scene, opts ...Option) *Compiler {
	c := &Compiler{scene: sc, log: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile builds or rebuilds the aurora for the active curve. Parameter
// and context checks happen before anything in the scene changes.
func (c *Compiler) Compile(p Params) (*Artifact, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	curve := c.scene.Active()
	if curve == nil || curve.Kind != scene.KindCurve {
		return nil, ErrNoCurveSelected
	}
	log := c.log.With("curve", curve.Name)

	c.teardown(curve)

	mesh, err := c.scaffold(p)
	if err != nil {
		return nil, fmt.Errorf("scaffold: %w", err)
	}
	obj := c.scene.NewObject(ObjectName, mesh)
	c.scene.Link(obj)

	tex := c.rig(obj, curve)

	mat := c.material(curve)
	if err := buildGraph(mat.Graph, p); err != nil {
		return nil, fmt.Errorf("material %s: %w", mat.Name, err)
	}
	if p.Animate {
		animate(mat)
	}

	mesh.AppendMaterial(mat)
	tagObject(curve, obj)
	tagTexture(curve, tex)
	tagMaterial(curve, mat)

	c.scene.Select(curve, false)
	c.scene.Select(obj, true)
	if err := c.scene.SetActive(obj); err != nil {
		return nil, err
	}

	log.Info("aurora compiled",
		"object", obj.Name,
		"material", mat.Name,
		"faces", mesh.Grid.FaceCount(),
		"animated", p.Animate)
	return &Artifact{Object: obj, Mesh: mesh, Texture: tex, Material: mat, Status: StatusOK}, nil
}

// teardown removes the previous artifact named by curve's tags. Data
// blocks are only dropped once nothing else uses them.
func (c *Compiler) teardown(curve *scene.Object) {
	if old := resolveObject(c.scene, curve); old != nil {
		mesh := old.Mesh
		c.scene.RemoveObject(old)
		if mesh != nil && mesh.Users() == 0 {
			c.scene.RemoveMeshData(mesh)
		}
		c.log.Debug("removed previous aurora", "object", old.Name)
	}
	if tex := resolveTexture(c.scene, curve); tex != nil && tex.Users() == 0 {
		c.scene.RemoveTexture(tex)
		c.log.Debug("removed previous texture", "texture", tex.Name)
	}
}

// scaffold builds the flat curtain: a plane stretched by ScaffoldScale
// along X and to the requested height, subdivided, and stood upright with
// the rotation baked in.
func (c *Compiler) scaffold(p Params) (*scene.MeshData, error) {
	grid := kernel.Plane()
	grid.Resize(v3.Vec{X: ScaffoldScale, Y: 1, Z: 1})
	grid.Resize(v3.Vec{X: 1, Y: p.Height / 2, Z: 1})
	if err := grid.Subdivide(p.Resolution, p.Resolution); err != nil {
		return nil, err
	}
	grid.RotateX(math.Pi / 2)
	return c.scene.NewMeshData(ObjectName, grid), nil
}

// rig adds the curve-follow and displacement modifiers to obj.
func (c *Compiler) rig(obj, curve *scene.Object) *scene.Texture {
	c.scene.AddModifier(obj, &scene.CurveModifier{
		Name:       CurveModName,
		Object:     curve,
		DeformAxis: scene.AxisX,
	})
	tex := c.scene.NewTexture(TextureName, scene.TextureClouds)
	tex.NoiseScale = DisplaceScale
	c.scene.AddModifier(obj, &scene.DisplaceModifier{
		Name:      DisplaceModName,
		Texture:   tex,
		Strength:  DisplaceStrength,
		MidLevel:  0.5,
		Direction: scene.AxisZ,
	})
	return tex
}

// material returns the curve's previous material, or a new one, reset to
// an empty alpha-blended graph with no animation.
func (c *Compiler) material(curve *scene.Object) *scene.Material {
	mat := resolveMaterial(c.scene, curve)
	if mat == nil {
		mat = c.scene.NewMaterial(MaterialName)
		tagMaterial(curve, mat)
	} else {
		c.log.Debug("reusing material", "material", mat.Name)
	}
	mat.Blend = scene.BlendAlpha
	mat.Graph.Clear()
	mat.Animation = nil
	return mat
}
