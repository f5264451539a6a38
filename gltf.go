// Package gltf implements a codec for the glTF 2.0 scene interchange
// format. It parses JSON or binary (GLB) documents into a resolved,
// read-only graph, decodes accessor data into typed values, and writes
// the graph back to JSON or GLB bytes.
package gltf

import (
	"encoding/json"
)

// Extensions is a named set of extension payloads. Payloads the codec
// does not interpret are kept as their original byte spans so they
// survive a round trip unchanged.
type Extensions map[string]json.RawMessage

// Document is the root of the parsed graph. All entities live in the
// slices below and refer to each other by index into those slices.
// After Decode returns, the graph is resolved and must be treated as
// read-only; concurrent readers need no locking.
type Document struct {
	ExtensionsUsed     []string `json:"extensionsUsed,omitempty"`
	ExtensionsRequired []string `json:"extensionsRequired,omitempty"`

	Asset Asset `json:"asset"`

	Buffers     []*Buffer     `json:"buffers,omitempty"`
	BufferViews []*BufferView `json:"bufferViews,omitempty"`
	Accessors   []*Accessor   `json:"accessors,omitempty"`
	Images      []*Image      `json:"images,omitempty"`
	Samplers    []*Sampler    `json:"samplers,omitempty"`
	Textures    []*Texture    `json:"textures,omitempty"`
	Materials   []*Material   `json:"materials,omitempty"`
	Meshes      []*Mesh       `json:"meshes,omitempty"`
	Cameras     []*Camera     `json:"cameras,omitempty"`
	Nodes       []*Node       `json:"nodes,omitempty"`
	Skins       []*Skin       `json:"skins,omitempty"`
	Animations  []*Animation  `json:"animations,omitempty"`
	Scenes      []*Scene      `json:"scenes,omitempty"`
	Scene       *int          `json:"scene,omitempty"`

	// Lights holds the KHR_lights_punctual light list, captured from
	// the document extensions at resolve time.
	Lights []*Light `json:"-"`

	Extensions Extensions      `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`

	bin []byte // BIN chunk of a GLB container, nil for plain JSON
}

// Bin returns the binary chunk of a GLB container, or nil if the
// document came from plain JSON.
func (d *Document) Bin() []byte { return d.bin }

type Asset struct {
	Copyright  string          `json:"copyright,omitempty"`
	Generator  string          `json:"generator,omitempty"`
	Version    string          `json:"version"`
	MinVersion string          `json:"minVersion,omitempty"`
	Extensions Extensions      `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

// Buffer is a logical byte blob, either referenced by URI or embedded
// in the GLB binary chunk. Data is filled by LoadBuffers.
type Buffer struct {
	Name       string          `json:"name,omitempty"`
	URI        string          `json:"uri,omitempty"`
	ByteLength int             `json:"byteLength"`
	Extensions Extensions      `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`

	Data []byte `json:"-"`

	index int
}

// BufferView is a byte sub-range of a buffer, optionally strided.
type BufferView struct {
	Name       string           `json:"name,omitempty"`
	Buffer     int              `json:"buffer"`
	ByteOffset int              `json:"byteOffset,omitempty"`
	ByteLength int              `json:"byteLength"`
	ByteStride int              `json:"byteStride,omitempty"`
	Target     BufferViewTarget `json:"target,omitempty"`

	// Compression describes an EXT_meshopt_compression payload. The
	// codec records the descriptor but does not run the secondary
	// decode pass; callers that need the plain bytes decode the source
	// range themselves and install the result with SetData.
	Compression *MeshoptCompression `json:"-"`

	Extensions Extensions      `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`

	doc      *Document
	index    int
	override []byte // extension-supplied raw data, replaces the buffer range
}

// SetData installs raw bytes that replace the view's range of its
// owning buffer, for callers that ran an external decode pass.
func (v *BufferView) SetData(b []byte) { v.override = b }

// AccessorSparse lists exceptional elements of an accessor by index.
type AccessorSparse struct {
	Count   int `json:"count"`
	Indices struct {
		BufferView    int             `json:"bufferView"`
		ByteOffset    int             `json:"byteOffset,omitempty"`
		ComponentType ComponentType   `json:"componentType"`
		Extensions    Extensions      `json:"extensions,omitempty"`
		Extras        json.RawMessage `json:"extras,omitempty"`
	} `json:"indices"`
	Values struct {
		BufferView int             `json:"bufferView"`
		ByteOffset int             `json:"byteOffset,omitempty"`
		Extensions Extensions      `json:"extensions,omitempty"`
		Extras     json.RawMessage `json:"extras,omitempty"`
	} `json:"values"`
	Extensions Extensions      `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

// Accessor describes how to interpret a byte range as typed elements.
type Accessor struct {
	Name          string          `json:"name,omitempty"`
	BufferView    *int            `json:"bufferView,omitempty"`
	ByteOffset    int             `json:"byteOffset,omitempty"`
	ComponentType ComponentType   `json:"componentType"`
	Normalized    bool            `json:"normalized,omitempty"`
	Count         int             `json:"count"`
	Type          AccessorType    `json:"type"`
	Max           []float32       `json:"max,omitempty"`
	Min           []float32       `json:"min,omitempty"`
	Sparse        *AccessorSparse `json:"sparse,omitempty"`
	Extensions    Extensions      `json:"extensions,omitempty"`
	Extras        json.RawMessage `json:"extras,omitempty"`

	doc   *Document
	index int
}

type Image struct {
	Name       string          `json:"name,omitempty"`
	URI        string          `json:"uri,omitempty"`
	MimeType   string          `json:"mimeType,omitempty"`
	BufferView *int            `json:"bufferView,omitempty"`
	Extensions Extensions      `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`

	index int
}

type Sampler struct {
	Name       string          `json:"name,omitempty"`
	MagFilter  int             `json:"magFilter,omitempty"`
	MinFilter  int             `json:"minFilter,omitempty"`
	WrapS      int             `json:"wrapS,omitempty"`
	WrapT      int             `json:"wrapT,omitempty"`
	Extensions Extensions      `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`

	index int
}

type Texture struct {
	Name       string          `json:"name,omitempty"`
	Sampler    *int            `json:"sampler,omitempty"`
	Source     *int            `json:"source,omitempty"`
	Extensions Extensions      `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`

	index int
}

// TextureInfo is a reference to a texture plus the UV set it uses.
type TextureInfo struct {
	Index      int             `json:"index"`
	TexCoord   int             `json:"texCoord,omitempty"`
	Extensions Extensions      `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

type NormalTexture struct {
	Index      int             `json:"index"`
	TexCoord   int             `json:"texCoord,omitempty"`
	Scale      *float32        `json:"scale,omitempty"` // default 1
	Extensions Extensions      `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

type OcclusionTexture struct {
	Index      int             `json:"index"`
	TexCoord   int             `json:"texCoord,omitempty"`
	Strength   *float32        `json:"strength,omitempty"` // default 1
	Extensions Extensions      `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

type PBRMetallicRoughness struct {
	BaseColorFactor          *[4]float32     `json:"baseColorFactor,omitempty"` // default [1,1,1,1]
	BaseColorTexture         *TextureInfo    `json:"baseColorTexture,omitempty"`
	MetallicFactor           *float32        `json:"metallicFactor,omitempty"`  // default 1
	RoughnessFactor          *float32        `json:"roughnessFactor,omitempty"` // default 1
	MetallicRoughnessTexture *TextureInfo    `json:"metallicRoughnessTexture,omitempty"`
	Extensions               Extensions      `json:"extensions,omitempty"`
	Extras                   json.RawMessage `json:"extras,omitempty"`
}

// Material's optional sub-structures stay nil when absent, so a
// present-but-default struct is distinguishable from no struct at all.
// The typed extension fields mirror payloads captured from Extensions
// at resolve time; the raw spans stay in Extensions for round-trips.
type Material struct {
	Name                 string                `json:"name,omitempty"`
	PBRMetallicRoughness *PBRMetallicRoughness `json:"pbrMetallicRoughness,omitempty"`
	NormalTexture        *NormalTexture        `json:"normalTexture,omitempty"`
	OcclusionTexture     *OcclusionTexture     `json:"occlusionTexture,omitempty"`
	EmissiveTexture      *TextureInfo          `json:"emissiveTexture,omitempty"`
	EmissiveFactor       *[3]float32           `json:"emissiveFactor,omitempty"` // default [0,0,0]
	AlphaMode            string                `json:"alphaMode,omitempty"`      // default OPAQUE
	AlphaCutoff          *float32              `json:"alphaCutoff,omitempty"`    // default 0.5
	DoubleSided          bool                  `json:"doubleSided,omitempty"`

	SpecularGlossiness  *PBRSpecularGlossiness `json:"-"`
	Clearcoat           *Clearcoat             `json:"-"`
	Transmission        *Transmission          `json:"-"`
	Volume              *Volume                `json:"-"`
	Sheen               *Sheen                 `json:"-"`
	IOR                 *IOR                   `json:"-"`
	EmissiveStrength    *EmissiveStrength      `json:"-"`
	Iridescence         *Iridescence           `json:"-"`
	Anisotropy          *Anisotropy            `json:"-"`
	Dispersion          *Dispersion            `json:"-"`
	DiffuseTransmission *DiffuseTransmission   `json:"-"`
	Unlit               bool                   `json:"-"`

	Extensions Extensions      `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`

	index int
}

// Primitive is one draw batch of a mesh. Attributes maps semantic
// names ("POSITION", "TEXCOORD_1", ...) to accessor indices; Targets
// lists morph-target attribute overrides in the same form.
type Primitive struct {
	Attributes map[string]int   `json:"attributes"`
	Indices    *int             `json:"indices,omitempty"`
	Material   *int             `json:"material,omitempty"`
	Mode       *PrimitiveMode   `json:"mode,omitempty"` // default ModeTriangles
	Targets    []map[string]int `json:"targets,omitempty"`
	Extensions Extensions       `json:"extensions,omitempty"`
	Extras     json.RawMessage  `json:"extras,omitempty"`
}

// DrawMode returns the primitive topology, applying the format default.
func (p *Primitive) DrawMode() PrimitiveMode {
	if p.Mode == nil {
		return ModeTriangles
	}
	return *p.Mode
}

type Mesh struct {
	Name       string          `json:"name,omitempty"`
	Primitives []*Primitive    `json:"primitives"`
	Weights    []float32       `json:"weights,omitempty"`
	Extensions Extensions      `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`

	index int
}

type Orthographic struct {
	XMag       float32         `json:"xmag"`
	YMag       float32         `json:"ymag"`
	ZFar       float32         `json:"zfar"`
	ZNear      float32         `json:"znear"`
	Extensions Extensions      `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

type Perspective struct {
	AspectRatio float32         `json:"aspectRatio,omitempty"`
	YFOV        float32         `json:"yfov"`
	ZFar        float32         `json:"zfar,omitempty"` // 0 = infinite projection
	ZNear       float32         `json:"znear"`
	Extensions  Extensions      `json:"extensions,omitempty"`
	Extras      json.RawMessage `json:"extras,omitempty"`
}

type Camera struct {
	Name         string          `json:"name,omitempty"`
	Type         string          `json:"type"`
	Perspective  *Perspective    `json:"perspective,omitempty"`
	Orthographic *Orthographic   `json:"orthographic,omitempty"`
	Extensions   Extensions      `json:"extensions,omitempty"`
	Extras       json.RawMessage `json:"extras,omitempty"`

	index int
}

// Node is a scene-graph entity. Exactly one transform representation
// is authoritative: an explicit matrix or the TRS triple; with neither
// present the node transform is identity.
type Node struct {
	Name        string          `json:"name,omitempty"`
	Camera      *int            `json:"camera,omitempty"`
	Children    []int           `json:"children,omitempty"`
	Skin        *int            `json:"skin,omitempty"`
	Matrix      *[16]float32    `json:"matrix,omitempty"` // column-major
	Mesh        *int            `json:"mesh,omitempty"`
	Rotation    *[4]float32     `json:"rotation,omitempty"`    // quaternion x,y,z,w
	Scale       *[3]float32     `json:"scale,omitempty"`       // default [1,1,1]
	Translation *[3]float32     `json:"translation,omitempty"` // default [0,0,0]
	Weights     []float32       `json:"weights,omitempty"`

	// Light is the KHR_lights_punctual reference, captured from the
	// node extensions at resolve time.
	Light *int `json:"-"`

	Extensions Extensions      `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`

	doc    *Document
	index  int
	parent *Node
}

// Parent returns the owning node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

type Skin struct {
	Name                string          `json:"name,omitempty"`
	InverseBindMatrices *int            `json:"inverseBindMatrices,omitempty"`
	Skeleton            *int            `json:"skeleton,omitempty"`
	Joints              []int           `json:"joints"`
	Extensions          Extensions      `json:"extensions,omitempty"`
	Extras              json.RawMessage `json:"extras,omitempty"`

	index int
}

type AnimationChannel struct {
	Sampler int `json:"sampler"`
	Target  struct {
		Node       *int            `json:"node,omitempty"`
		Path       string          `json:"path"`
		Extensions Extensions      `json:"extensions,omitempty"`
		Extras     json.RawMessage `json:"extras,omitempty"`
	} `json:"target"`
	Extensions Extensions      `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

type AnimationSampler struct {
	Input         int             `json:"input"`
	Interpolation string          `json:"interpolation,omitempty"` // default LINEAR
	Output        int             `json:"output"`
	Extensions    Extensions      `json:"extensions,omitempty"`
	Extras        json.RawMessage `json:"extras,omitempty"`
}

type Animation struct {
	Name       string              `json:"name,omitempty"`
	Channels   []*AnimationChannel `json:"channels"`
	Samplers   []*AnimationSampler `json:"samplers"`
	Extensions Extensions          `json:"extensions,omitempty"`
	Extras     json.RawMessage     `json:"extras,omitempty"`

	index int
}

// Scene is an ordered, non-owning list of root node indices.
type Scene struct {
	Name       string          `json:"name,omitempty"`
	Nodes      []int           `json:"nodes,omitempty"`
	Extensions Extensions      `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`

	index int
}

// Index methods report an entity's position inside its owning
// sequence, established once at resolve time.

func (b *Buffer) Index() int     { return b.index }
func (v *BufferView) Index() int { return v.index }
func (a *Accessor) Index() int   { return a.index }
func (i *Image) Index() int      { return i.index }
func (s *Sampler) Index() int    { return s.index }
func (t *Texture) Index() int    { return t.index }
func (m *Material) Index() int   { return m.index }
func (m *Mesh) Index() int       { return m.index }
func (c *Camera) Index() int     { return c.index }
func (n *Node) Index() int       { return n.index }
func (s *Skin) Index() int       { return s.index }
func (a *Animation) Index() int  { return a.index }
func (s *Scene) Index() int      { return s.index }

// View returns the accessor's buffer view, or nil for a sparse-only
// accessor reading a zero-filled base.
func (a *Accessor) View() *BufferView {
	if a.BufferView == nil {
		return nil
	}
	return a.doc.BufferViews[*a.BufferView]
}

// Buf returns the view's owning buffer.
func (v *BufferView) Buf() *Buffer {
	return v.doc.Buffers[v.Buffer]
}
