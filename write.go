package gltf

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// Encoder writes a document to a stream, as JSON text or, with
// AsBinary set, as a GLB container.
type Encoder struct {
	AsBinary bool

	w io.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) Encode(d *Document) error {
	var out []byte
	var err error
	if e.AsBinary {
		out, err = d.MarshalGLB()
	} else {
		out, err = d.Marshal()
	}
	if err != nil {
		return err
	}
	_, err = e.w.Write(out)
	return err
}

// Marshal renders the document as JSON text. Optional fields holding
// their implicit default are left out, matching the minimization the
// format expects from writers; extras and uninterpreted extensions
// are re-emitted as their originally captured spans.
func (d *Document) Marshal() ([]byte, error) {
	out, err := json.Marshal(d)
	if err != nil {
		return nil, errors.Wrapf(ErrDocument, "encode: %v", err)
	}
	return out, nil
}

// MarshalGLB packs the JSON rendering and the binary payload into a
// GLB container. The payload is the chunk the document was parsed
// from, or else the data of the first URI-less buffer.
func (d *Document) MarshalGLB() ([]byte, error) {
	doc, err := d.Marshal()
	if err != nil {
		return nil, err
	}
	bin := d.bin
	if bin == nil && len(d.Buffers) > 0 && d.Buffers[0].URI == "" {
		if d.Buffers[0].Data == nil {
			return nil, errors.Wrap(ErrOptions, "binary output requested but buffer 0 has no data")
		}
		bin = d.Buffers[0].Data
	}
	return glbPack(doc, bin), nil
}

func (d *Document) MarshalJSON() ([]byte, error) {
	type alias Document
	m := alias(*d)
	if len(d.Lights) > 0 {
		var ext struct {
			Lights []*Light `json:"lights"`
		}
		ext.Lights = d.Lights
		exts, err := injectExt(d.Extensions, ExtLightsPunctual, &ext)
		if err != nil {
			return nil, err
		}
		m.Extensions = exts
	}
	return json.Marshal(&m)
}

// injectExt returns exts with name marshaled in, unless the original
// span is already present; captured raw spans always win so that
// uninterpreted sub-fields survive.
func injectExt(exts Extensions, name string, payload interface{}) (Extensions, error) {
	if _, ok := exts[name]; ok {
		return exts, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	out := make(Extensions, len(exts)+1)
	for k, v := range exts {
		out[k] = v
	}
	out[name] = raw
	return out, nil
}

var (
	identityMatrix = [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	identityQuat   = [4]float32{0, 0, 0, 1}
	unitScale      = [3]float32{1, 1, 1}
	zeroVec3       = [3]float32{}
	oneVec4        = [4]float32{1, 1, 1, 1}
)

func (n *Node) MarshalJSON() ([]byte, error) {
	type alias Node
	m := alias(*n)
	if m.Matrix != nil && *m.Matrix == identityMatrix {
		m.Matrix = nil
	}
	if m.Rotation != nil && *m.Rotation == identityQuat {
		m.Rotation = nil
	}
	if m.Scale != nil && *m.Scale == unitScale {
		m.Scale = nil
	}
	if m.Translation != nil && *m.Translation == zeroVec3 {
		m.Translation = nil
	}
	if n.Light != nil {
		payload := struct {
			Light int `json:"light"`
		}{*n.Light}
		exts, err := injectExt(n.Extensions, ExtLightsPunctual, &payload)
		if err != nil {
			return nil, err
		}
		m.Extensions = exts
	}
	return json.Marshal(&m)
}

func (m *Material) MarshalJSON() ([]byte, error) {
	type alias Material
	a := alias(*m)
	if a.AlphaMode == AlphaOpaque {
		a.AlphaMode = ""
	}
	if a.AlphaCutoff != nil && *a.AlphaCutoff == 0.5 {
		a.AlphaCutoff = nil
	}
	if a.EmissiveFactor != nil && *a.EmissiveFactor == zeroVec3 {
		a.EmissiveFactor = nil
	}
	exts := m.Extensions
	for _, e := range []struct {
		name    string
		present bool
		payload interface{}
	}{
		{ExtSpecularGlossiness, m.SpecularGlossiness != nil, m.SpecularGlossiness},
		{ExtClearcoat, m.Clearcoat != nil, m.Clearcoat},
		{ExtTransmission, m.Transmission != nil, m.Transmission},
		{ExtVolume, m.Volume != nil, m.Volume},
		{ExtSheen, m.Sheen != nil, m.Sheen},
		{ExtIOR, m.IOR != nil, m.IOR},
		{ExtEmissiveStrength, m.EmissiveStrength != nil, m.EmissiveStrength},
		{ExtIridescence, m.Iridescence != nil, m.Iridescence},
		{ExtAnisotropy, m.Anisotropy != nil, m.Anisotropy},
		{ExtDispersion, m.Dispersion != nil, m.Dispersion},
		{ExtDiffuseTransmission, m.DiffuseTransmission != nil, m.DiffuseTransmission},
		{ExtUnlit, m.Unlit, struct{}{}},
	} {
		if !e.present {
			continue
		}
		var err error
		if exts, err = injectExt(exts, e.name, e.payload); err != nil {
			return nil, errors.Wrapf(err, "materials[%d].%s", m.index, e.name)
		}
	}
	a.Extensions = exts
	return json.Marshal(&a)
}

func (p *Primitive) MarshalJSON() ([]byte, error) {
	type alias Primitive
	a := alias(*p)
	if a.Mode != nil && *a.Mode == ModeTriangles {
		a.Mode = nil
	}
	return json.Marshal(&a)
}

func (p *PBRMetallicRoughness) MarshalJSON() ([]byte, error) {
	type alias PBRMetallicRoughness
	a := alias(*p)
	if a.BaseColorFactor != nil && *a.BaseColorFactor == oneVec4 {
		a.BaseColorFactor = nil
	}
	if a.MetallicFactor != nil && *a.MetallicFactor == 1 {
		a.MetallicFactor = nil
	}
	if a.RoughnessFactor != nil && *a.RoughnessFactor == 1 {
		a.RoughnessFactor = nil
	}
	return json.Marshal(&a)
}

func (t *NormalTexture) MarshalJSON() ([]byte, error) {
	type alias NormalTexture
	a := alias(*t)
	if a.Scale != nil && *a.Scale == 1 {
		a.Scale = nil
	}
	return json.Marshal(&a)
}

func (t *OcclusionTexture) MarshalJSON() ([]byte, error) {
	type alias OcclusionTexture
	a := alias(*t)
	if a.Strength != nil && *a.Strength == 1 {
		a.Strength = nil
	}
	return json.Marshal(&a)
}

func (s *AnimationSampler) MarshalJSON() ([]byte, error) {
	type alias AnimationSampler
	a := alias(*s)
	if a.Interpolation == InterpolationLinear {
		a.Interpolation = ""
	}
	return json.Marshal(&a)
}

func (v *BufferView) MarshalJSON() ([]byte, error) {
	type alias BufferView
	a := alias(*v)
	if v.Compression != nil {
		exts, err := injectExt(v.Extensions, ExtMeshoptCompression, v.Compression)
		if err != nil {
			return nil, err
		}
		a.Extensions = exts
	}
	return json.Marshal(&a)
}
