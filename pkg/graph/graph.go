package graph

import (
	"errors"
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

var (
	// ErrUnknownSocket is returned when a link names a socket the node lacks.
	ErrUnknownSocket = errors.New("graph: unknown socket")
	// ErrIncompatibleSockets is returned when a shader socket is linked to a
	// value socket or the other way round.
	ErrIncompatibleSockets = errors.New("graph: incompatible socket types")
)

// Link connects an output socket of one node to an input socket of another.
type Link struct {
	FromNode   NodeID `json:"from_node"`
	FromSocket string `json:"from_socket"`
	ToNode     NodeID `json:"to_node"`
	ToSocket   string `json:"to_socket"`
}

// Graph is an appearance graph. Nodes keep their insertion order so that
// traversals and serialisations are deterministic.
type Graph struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Links     []Link            `json:"links"`
	NameIndex map[string]NodeID `json:"name_index"`
	order     []NodeID
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
	}
}

// AddNode adds a node to the graph. It does not check for duplicates.
func (g *Graph) AddNode(n *Node) {
	if _, exists := g.Nodes[n.ID]; !exists {
		g.order = append(g.order, n.ID)
	}
	g.Nodes[n.ID] = n
	if n.Name != "" {
		g.NameIndex[n.Name] = n.ID
	}
}

// NewNode creates a node of the given kind with its standard sockets and
// adds it to the graph. If name is taken, a ".001"-style suffix is added.
func (g *Graph) NewNode(kind NodeKind, name string) *Node {
	name = g.uniqueName(name)
	n := &Node{
		ID:   NewNodeID(name),
		Kind: kind,
		Name: name,
	}
	n.Inputs, n.Outputs, n.Data = template(kind)
	g.AddNode(n)
	return n
}

func (g *Graph) uniqueName(name string) string {
	if _, taken := g.NameIndex[name]; !taken {
		return name
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s.%03d", name, i)
		if _, taken := g.NameIndex[candidate]; !taken {
			return candidate
		}
	}
}

// Lookup returns the node with the given name, or nil.
func (g *Graph) Lookup(name string) *Node {
	id, ok := g.NameIndex[name]
	if !ok {
		return nil
	}
	return g.Nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (g *Graph) MustLookup(name string) *Node {
	n := g.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("graph: no node named %q", name))
	}
	return n
}

// Get returns the node with the given ID, or nil.
func (g *Graph) Get(id NodeID) *Node {
	return g.Nodes[id]
}

// Ordered returns the nodes in insertion order.
func (g *Graph) Ordered() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		if n := g.Nodes[id]; n != nil {
			out = append(out, n)
		}
	}
	return out
}

// OfKind returns all nodes of kind k in insertion order.
func (g *Graph) OfKind(k NodeKind) []*Node {
	var out []*Node
	for _, n := range g.Ordered() {
		if n.Kind == k {
			out = append(out, n)
		}
	}
	return out
}

// NodeCount returns the total number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.Nodes)
}

// Clear removes every node and link.
func (g *Graph) Clear() {
	g.Nodes = make(map[NodeID]*Node)
	g.NameIndex = make(map[string]NodeID)
	g.Links = nil
	g.order = nil
}

// Connect links output socket out of from to input socket in of to. An
// input accepts a single link, so an existing link into it is replaced.
func (g *Graph) Connect(from *Node, out string, to *Node, in string) error {
	src := from.Output(out)
	if src == nil {
		return fmt.Errorf("%w: %s has no output %q", ErrUnknownSocket, from.Name, out)
	}
	dst := to.Input(in)
	if dst == nil {
		return fmt.Errorf("%w: %s has no input %q", ErrUnknownSocket, to.Name, in)
	}
	if (src.Type == SocketShader) != (dst.Type == SocketShader) {
		return fmt.Errorf("%w: %s.%s (%s) -> %s.%s (%s)", ErrIncompatibleSockets,
			from.Name, out, src.Type, to.Name, in, dst.Type)
	}

	link := Link{FromNode: from.ID, FromSocket: out, ToNode: to.ID, ToSocket: in}
	for i, l := range g.Links {
		if l.ToNode == to.ID && l.ToSocket == in {
			g.Links[i] = link
			return nil
		}
	}
	g.Links = append(g.Links, link)
	return nil
}

// LinkInto returns the link feeding the named input of n, if any.
func (g *Graph) LinkInto(n *Node, in string) (Link, bool) {
	for _, l := range g.Links {
		if l.ToNode == n.ID && l.ToSocket == in {
			return l, true
		}
	}
	return Link{}, false
}

// ---------------------------------------------------------------------------
// Socket templates
// ---------------------------------------------------------------------------

func in(name string, t SocketType) *Socket { return &Socket{Name: name, Type: t} }

func inFloat(name string, v float64) *Socket {
	return &Socket{Name: name, Type: SocketFloat, Float: v}
}

func inColor(name string, c RGBA) *Socket {
	return &Socket{Name: name, Type: SocketColor, Color: c}
}

func inVector(name string, v v3.Vec) *Socket {
	return &Socket{Name: name, Type: SocketVector, Vector: v}
}

// template returns fresh sockets and data for a node kind.
func template(kind NodeKind) (inputs, outputs []*Socket, data NodeData) {
	switch kind {
	case NodeTexCoord:
		return nil, []*Socket{
			in("Generated", SocketVector),
			in("Normal", SocketVector),
			in("UV", SocketVector),
			in("Object", SocketVector),
		}, TexCoordData{}

	case NodeSeparateXYZ:
		return []*Socket{in("Vector", SocketVector)},
			[]*Socket{in("X", SocketFloat), in("Y", SocketFloat), in("Z", SocketFloat)},
			SeparateXYZData{}

	case NodeColorRamp:
		return []*Socket{inFloat("Fac", 0.5)},
			[]*Socket{in("Color", SocketColor), in("Alpha", SocketFloat)},
			ColorRampData{Ramp: NewColorRamp()}

	case NodeMath:
		return []*Socket{inFloat("Value", 0.5), inFloat("Value_001", 0.5)},
			[]*Socket{in("Value", SocketFloat)},
			MathData{Op: MathAdd}

	case NodeMapping:
		return []*Socket{
				in("Vector", SocketVector),
				inVector("Location", v3.Vec{}),
				inVector("Rotation", v3.Vec{}),
				inVector("Scale", v3.Vec{X: 1, Y: 1, Z: 1}),
			},
			[]*Socket{in("Vector", SocketVector)},
			MappingData{VectorType: VectorPoint}

	case NodeNoiseTexture:
		return []*Socket{
				in("Vector", SocketVector),
				inFloat("Scale", 5),
				inFloat("Detail", 2),
				inFloat("Roughness", 0.5),
				inFloat("Distortion", 0),
			},
			[]*Socket{in("Fac", SocketFloat), in("Color", SocketColor)},
			NoiseTextureData{Dimensions: 3}

	case NodeEmission:
		return []*Socket{inColor("Color", White), inFloat("Strength", 1)},
			[]*Socket{in("Emission", SocketShader)},
			EmissionData{}

	case NodeTransparent:
		return []*Socket{inColor("Color", White)},
			[]*Socket{in("BSDF", SocketShader)},
			TransparentData{}

	case NodeMixShader:
		return []*Socket{inFloat("Fac", 0.5), in("Shader", SocketShader), in("Shader_001", SocketShader)},
			[]*Socket{in("Shader", SocketShader)},
			MixShaderData{}

	case NodeOutput:
		return []*Socket{
			in("Surface", SocketShader),
			in("Volume", SocketShader),
			in("Displacement", SocketVector),
		}, nil, OutputData{}
	}
	return nil, nil, nil
}
