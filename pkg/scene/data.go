package scene

import (
	"github.com/chazu/aurora/pkg/anim"
	"github.com/chazu/aurora/pkg/graph"
	"github.com/chazu/aurora/pkg/kernel"
	"github.com/google/uuid"
)

// Block is the user-counted header shared by all data blocks.
type Block struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	users int
}

// Users returns the number of references to the block.
func (b *Block) Users() int { return b.users }

func (b *Block) retain() { b.users++ }

func (b *Block) release() {
	if b.users > 0 {
		b.users--
	}
}

// MeshData is surface geometry plus its material slots.
type MeshData struct {
	Block
	Grid      *kernel.Grid `json:"-"`
	Materials []*Material  `json:"materials,omitempty"`
}

// AppendMaterial adds mat to a new material slot.
func (m *MeshData) AppendMaterial(mat *Material) {
	mat.retain()
	m.Materials = append(m.Materials, mat)
}

func (m *MeshData) releaseMaterials() {
	for _, mat := range m.Materials {
		mat.release()
	}
	m.Materials = nil
}

// TextureKind selects a procedural texture type.
type TextureKind int

const (
	TextureClouds TextureKind = iota
)

func (k TextureKind) String() string {
	switch k {
	case TextureClouds:
		return "clouds"
	default:
		return "unknown"
	}
}

// Texture is a procedural texture used by modifiers.
type Texture struct {
	Block
	Kind       TextureKind `json:"kind"`
	NoiseScale float64     `json:"noise_scale"`
	NoiseDepth int         `json:"noise_depth"`
}

// BlendMode is how a material composites over what is behind it.
type BlendMode int

const (
	BlendOpaque BlendMode = iota
	BlendAlpha
)

// Material owns an appearance graph and its optional animation.
type Material struct {
	Block
	Blend     BlendMode    `json:"blend"`
	Graph     *graph.Graph `json:"graph"`
	Animation *anim.Data   `json:"animation,omitempty"`
}
