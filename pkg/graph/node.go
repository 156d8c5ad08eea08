package graph

import v3 "github.com/deadsy/sdfx/vec/v3"

// NodeKind enumerates the shader node types an appearance graph can hold.
type NodeKind int

const (
	NodeTexCoord     NodeKind = iota // texture coordinate source
	NodeSeparateXYZ                  // vector to per-axis channels
	NodeColorRamp                    // scalar to colour through stops
	NodeMath                         // scalar combinator
	NodeMapping                      // vector offset/rotate/scale
	NodeNoiseTexture                 // fractal noise
	NodeEmission                     // glow shader
	NodeTransparent                  // fully transparent shader
	NodeMixShader                    // blend between two shaders
	NodeOutput                       // material surface output
)

func (k NodeKind) String() string {
	switch k {
	case NodeTexCoord:
		return "tex-coord"
	case NodeSeparateXYZ:
		return "separate-xyz"
	case NodeColorRamp:
		return "color-ramp"
	case NodeMath:
		return "math"
	case NodeMapping:
		return "mapping"
	case NodeNoiseTexture:
		return "noise-texture"
	case NodeEmission:
		return "emission"
	case NodeTransparent:
		return "transparent"
	case NodeMixShader:
		return "mix-shader"
	case NodeOutput:
		return "output"
	default:
		return "unknown"
	}
}

// SocketType is the kind of value flowing through a socket.
type SocketType int

const (
	SocketFloat SocketType = iota
	SocketVector
	SocketColor
	SocketShader
)

func (t SocketType) String() string {
	switch t {
	case SocketFloat:
		return "float"
	case SocketVector:
		return "vector"
	case SocketColor:
		return "color"
	case SocketShader:
		return "shader"
	default:
		return "unknown"
	}
}

// Socket is a named input or output of a node. Unlinked inputs use the
// default value matching their Type.
type Socket struct {
	Name   string     `json:"name"`
	Type   SocketType `json:"type"`
	Float  float64    `json:"float,omitempty"`
	Vector v3.Vec     `json:"vector"`
	Color  RGBA       `json:"color"`
}

// Vec2 is a node editor location.
type Vec2 struct {
	X, Y float64
}

// Node is a single shader node in the appearance graph.
type Node struct {
	ID       NodeID    `json:"id"`
	Kind     NodeKind  `json:"kind"`
	Name     string    `json:"name"`
	Location Vec2      `json:"location"`
	Inputs   []*Socket `json:"inputs,omitempty"`
	Outputs  []*Socket `json:"outputs,omitempty"`
	Data     NodeData  `json:"data"`
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}

// Input returns the input socket with the given name, or nil.
func (n *Node) Input(name string) *Socket {
	return findSocket(n.Inputs, name)
}

// Output returns the output socket with the given name, or nil.
func (n *Node) Output(name string) *Socket {
	return findSocket(n.Outputs, name)
}

func findSocket(sockets []*Socket, name string) *Socket {
	for _, s := range sockets {
		if s.Name == name {
			return s
		}
	}
	return nil
}
