package graph

import (
	"errors"
	"fmt"

	"github.com/chazu/aurora/pkg/noise"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrNoSurface is returned by Evaluate when nothing feeds the output's
// Surface input.
var ErrNoSurface = errors.New("graph: output surface is not linked")

// Sample is the shading context at one surface point.
type Sample struct {
	Generated v3.Vec // position in the object's texture space, [0,1] per axis
	Normal    v3.Vec
	UV        v3.Vec
	Object    v3.Vec
}

// Shader is an evaluated closure: emitted radiance plus opacity.
type Shader struct {
	Emission RGBA    // colour scaled by strength, A unused
	Alpha    float64 // 1 opaque, 0 fully transparent
}

func (s Shader) lerp(o Shader, t float64) Shader {
	return Shader{
		Emission: s.Emission.Lerp(o.Emission, t),
		Alpha:    s.Alpha + (o.Alpha-s.Alpha)*t,
	}
}

// value is whatever flows along one link.
type value struct {
	f  float64
	v  v3.Vec
	c  RGBA
	sh Shader
	t  SocketType
}

func floatValue(f float64) value { return value{f: f, t: SocketFloat} }
func vectorValue(v v3.Vec) value { return value{v: v, t: SocketVector} }
func colorValue(c RGBA) value    { return value{c: c, t: SocketColor} }
func shaderValue(s Shader) value { return value{sh: s, t: SocketShader} }

// asFloat converts implicitly the way shader sockets do.
func (x value) asFloat() float64 {
	switch x.t {
	case SocketVector:
		return (x.v.X + x.v.Y + x.v.Z) / 3
	case SocketColor:
		return 0.2126*x.c.R + 0.7152*x.c.G + 0.0722*x.c.B
	default:
		return x.f
	}
}

func (x value) asVector() v3.Vec {
	switch x.t {
	case SocketFloat:
		return v3.Vec{X: x.f, Y: x.f, Z: x.f}
	case SocketColor:
		return v3.Vec{X: x.c.R, Y: x.c.G, Z: x.c.B}
	default:
		return x.v
	}
}

func (x value) asColor() RGBA {
	switch x.t {
	case SocketFloat:
		return RGBA{x.f, x.f, x.f, 1}
	case SocketVector:
		return RGBA{x.v.X, x.v.Y, x.v.Z, 1}
	default:
		return x.c
	}
}

type socketKey struct {
	node   NodeID
	socket string
}

// evaluator pulls values backwards from the output, memoizing each node
// output once per sample.
type evaluator struct {
	g     *Graph
	s     Sample
	noise *noise.Perlin
	cache map[socketKey]value
	stack map[NodeID]bool
}

// Evaluate shades one sample. The graph must be acyclic.
func Evaluate(g *Graph, s Sample) (Shader, error) {
	outputs := g.OfKind(NodeOutput)
	if len(outputs) != 1 {
		return Shader{}, fmt.Errorf("evaluate: %d output nodes", len(outputs))
	}
	e := &evaluator{
		g:     g,
		s:     s,
		noise: noise.Default(),
		cache: make(map[socketKey]value),
		stack: make(map[NodeID]bool),
	}
	out := outputs[0]
	if _, ok := g.LinkInto(out, "Surface"); !ok {
		return Shader{}, ErrNoSurface
	}
	v, err := e.input(out, "Surface")
	if err != nil {
		return Shader{}, err
	}
	return v.sh, nil
}

// input resolves an input socket: the upstream output if linked, else the
// socket's default.
func (e *evaluator) input(n *Node, name string) (value, error) {
	sock := n.Input(name)
	if sock == nil {
		return value{}, fmt.Errorf("%w: %s has no input %q", ErrUnknownSocket, n.Name, name)
	}
	l, ok := e.g.LinkInto(n, name)
	if !ok {
		switch sock.Type {
		case SocketVector:
			return vectorValue(sock.Vector), nil
		case SocketColor:
			return colorValue(sock.Color), nil
		case SocketShader:
			return shaderValue(Shader{}), nil
		default:
			return floatValue(sock.Float), nil
		}
	}
	from := e.g.Get(l.FromNode)
	if from == nil {
		return value{}, fmt.Errorf("evaluate: link into %s.%s from missing node", n.Name, name)
	}
	return e.output(from, l.FromSocket)
}

func (e *evaluator) output(n *Node, name string) (value, error) {
	key := socketKey{n.ID, name}
	if v, ok := e.cache[key]; ok {
		return v, nil
	}
	if e.stack[n.ID] {
		return value{}, fmt.Errorf("evaluate %s: %w", n.Name, ErrCycle)
	}
	e.stack[n.ID] = true
	defer delete(e.stack, n.ID)

	outs, err := e.compute(n)
	if err != nil {
		return value{}, fmt.Errorf("evaluate %s: %w", n.Name, err)
	}
	for k, v := range outs {
		e.cache[socketKey{n.ID, k}] = v
	}
	v, ok := outs[name]
	if !ok {
		return value{}, fmt.Errorf("%w: %s has no output %q", ErrUnknownSocket, n.Name, name)
	}
	return v, nil
}

// inputs resolves several inputs at once.
func (e *evaluator) inputs(n *Node, names ...string) ([]value, error) {
	out := make([]value, len(names))
	for i, name := range names {
		v, err := e.input(n, name)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// compute evaluates every output of n.
func (e *evaluator) compute(n *Node) (map[string]value, error) {
	switch d := n.Data.(type) {
	case TexCoordData:
		return map[string]value{
			"Generated": vectorValue(e.s.Generated),
			"Normal":    vectorValue(e.s.Normal),
			"UV":        vectorValue(e.s.UV),
			"Object":    vectorValue(e.s.Object),
		}, nil

	case SeparateXYZData:
		in, err := e.input(n, "Vector")
		if err != nil {
			return nil, err
		}
		v := in.asVector()
		return map[string]value{"X": floatValue(v.X), "Y": floatValue(v.Y), "Z": floatValue(v.Z)}, nil

	case MappingData:
		in, err := e.inputs(n, "Vector", "Location", "Rotation", "Scale")
		if err != nil {
			return nil, err
		}
		return map[string]value{"Vector": vectorValue(mapVector(d, in[0].asVector(), in[1].asVector(), in[2].asVector(), in[3].asVector()))}, nil

	case MathData:
		in, err := e.inputs(n, "Value", "Value_001")
		if err != nil {
			return nil, err
		}
		return map[string]value{"Value": floatValue(d.Op.Apply(in[0].asFloat(), in[1].asFloat()))}, nil

	case ColorRampData:
		in, err := e.input(n, "Fac")
		if err != nil {
			return nil, err
		}
		c := d.Ramp.Evaluate(in.asFloat())
		return map[string]value{"Color": colorValue(c), "Alpha": floatValue(c.A)}, nil

	case NoiseTextureData:
		in, err := e.inputs(n, "Vector", "Scale", "Detail", "Roughness", "Distortion")
		if err != nil {
			return nil, err
		}
		p := in[0].asVector()
		if _, linked := e.g.LinkInto(n, "Vector"); !linked {
			p = e.s.Generated
		}
		f := noise.Fractal{
			Noise:      e.noise,
			Scale:      in[1].asFloat(),
			Detail:     in[2].asFloat(),
			Roughness:  in[3].asFloat(),
			Distortion: in[4].asFloat(),
		}
		fac := f.Sample(p)
		col := RGBA{
			R: fac,
			G: f.Sample(p.Add(v3.Vec{X: 7.1, Y: 3.3, Z: 1.9})),
			B: f.Sample(p.Add(v3.Vec{X: 2.7, Y: 9.4, Z: 5.6})),
			A: 1,
		}
		return map[string]value{"Fac": floatValue(fac), "Color": colorValue(col)}, nil

	case EmissionData:
		in, err := e.inputs(n, "Color", "Strength")
		if err != nil {
			return nil, err
		}
		c, k := in[0].asColor(), in[1].asFloat()
		return map[string]value{"Emission": shaderValue(Shader{
			Emission: RGBA{R: c.R * k, G: c.G * k, B: c.B * k, A: 1},
			Alpha:    1,
		})}, nil

	case TransparentData:
		return map[string]value{"BSDF": shaderValue(Shader{})}, nil

	case MixShaderData:
		in, err := e.inputs(n, "Fac", "Shader", "Shader_001")
		if err != nil {
			return nil, err
		}
		t := max(0, min(1, in[0].asFloat()))
		return map[string]value{"Shader": shaderValue(in[1].sh.lerp(in[2].sh, t))}, nil
	}
	return nil, fmt.Errorf("node kind %s cannot be evaluated", n.Kind)
}

// mapVector applies scale, then rotation (XYZ Euler), then translation.
func mapVector(d MappingData, v, loc, rot, scale v3.Vec) v3.Vec {
	v = v3.Vec{X: v.X * scale.X, Y: v.Y * scale.Y, Z: v.Z * scale.Z}
	v = rotateEuler(v, rot)
	if d.VectorType == VectorPoint {
		v = v.Add(loc)
	}
	return v
}

func rotateEuler(v, rot v3.Vec) v3.Vec {
	if rot == (v3.Vec{}) {
		return v
	}
	m := sdf.RotateZ(rot.Z).Mul(sdf.RotateY(rot.Y)).Mul(sdf.RotateX(rot.X))
	return m.MulPosition(v)
}
