package gltf

import (
	"github.com/pkg/errors"
)

// resolve binds every raw index reference to its target sequence,
// establishes back-pointers (owning document, position in sequence,
// node parents) and captures the typed extension payloads. It runs
// once at the end of Decode; any failure discards the document.
func (d *Document) resolve() error {
	for i, b := range d.Buffers {
		if b == nil {
			return errors.Wrapf(ErrDocument, "buffers[%d] is null", i)
		}
		b.index = i
		if b.ByteLength < 0 {
			return errors.Wrapf(ErrDocument, "buffers[%d].byteLength %d", i, b.ByteLength)
		}
	}
	for i, v := range d.BufferViews {
		if v == nil {
			return errors.Wrapf(ErrDocument, "bufferViews[%d] is null", i)
		}
		v.doc = d
		v.index = i
		if !inRange(v.Buffer, len(d.Buffers)) {
			return errors.Wrapf(ErrReference, "bufferViews[%d].buffer %d", i, v.Buffer)
		}
		if v.ByteOffset < 0 || v.ByteLength < 0 || v.ByteStride < 0 {
			return errors.Wrapf(ErrDocument, "bufferViews[%d] has a negative byte range", i)
		}
		ok, err := decodeExt(v.Extensions, ExtMeshoptCompression, &v.Compression)
		if err != nil {
			return errors.Wrapf(ErrDocument, "bufferViews[%d].%s: %v", i, ExtMeshoptCompression, err)
		}
		if ok && !inRange(v.Compression.Buffer, len(d.Buffers)) {
			return errors.Wrapf(ErrReference, "bufferViews[%d].%s.buffer %d", i, ExtMeshoptCompression, v.Compression.Buffer)
		}
	}
	for i, a := range d.Accessors {
		if a == nil {
			return errors.Wrapf(ErrDocument, "accessors[%d] is null", i)
		}
		a.doc = d
		a.index = i
		if a.BufferView != nil && !inRange(*a.BufferView, len(d.BufferViews)) {
			return errors.Wrapf(ErrReference, "accessors[%d].bufferView %d", i, *a.BufferView)
		}
		if a.ByteOffset < 0 {
			return errors.Wrapf(ErrDocument, "accessors[%d].byteOffset %d", i, a.ByteOffset)
		}
		if a.Count < 0 {
			return errors.Wrapf(ErrDocument, "accessors[%d].count %d", i, a.Count)
		}
		if s := a.Sparse; s != nil {
			if !inRange(s.Indices.BufferView, len(d.BufferViews)) {
				return errors.Wrapf(ErrReference, "accessors[%d].sparse.indices.bufferView %d", i, s.Indices.BufferView)
			}
			if !inRange(s.Values.BufferView, len(d.BufferViews)) {
				return errors.Wrapf(ErrReference, "accessors[%d].sparse.values.bufferView %d", i, s.Values.BufferView)
			}
			if s.Count < 0 || s.Indices.ByteOffset < 0 || s.Values.ByteOffset < 0 {
				return errors.Wrapf(ErrDocument, "accessors[%d].sparse has a negative byte range", i)
			}
		}
	}
	for i, img := range d.Images {
		if img == nil {
			return errors.Wrapf(ErrDocument, "images[%d] is null", i)
		}
		img.index = i
		if img.BufferView != nil && !inRange(*img.BufferView, len(d.BufferViews)) {
			return errors.Wrapf(ErrReference, "images[%d].bufferView %d", i, *img.BufferView)
		}
	}
	for i, s := range d.Samplers {
		if s == nil {
			return errors.Wrapf(ErrDocument, "samplers[%d] is null", i)
		}
		s.index = i
	}
	for i, t := range d.Textures {
		if t == nil {
			return errors.Wrapf(ErrDocument, "textures[%d] is null", i)
		}
		t.index = i
		if t.Sampler != nil && !inRange(*t.Sampler, len(d.Samplers)) {
			return errors.Wrapf(ErrReference, "textures[%d].sampler %d", i, *t.Sampler)
		}
		if t.Source != nil && !inRange(*t.Source, len(d.Images)) {
			return errors.Wrapf(ErrReference, "textures[%d].source %d", i, *t.Source)
		}
	}
	if err := d.resolveMaterials(); err != nil {
		return err
	}
	if err := d.resolveMeshes(); err != nil {
		return err
	}
	for i, c := range d.Cameras {
		if c == nil {
			return errors.Wrapf(ErrDocument, "cameras[%d] is null", i)
		}
		c.index = i
	}
	if err := d.resolveLights(); err != nil {
		return err
	}
	if err := d.resolveNodes(); err != nil {
		return err
	}
	for i, s := range d.Skins {
		if s == nil {
			return errors.Wrapf(ErrDocument, "skins[%d] is null", i)
		}
		s.index = i
		if s.InverseBindMatrices != nil && !inRange(*s.InverseBindMatrices, len(d.Accessors)) {
			return errors.Wrapf(ErrReference, "skins[%d].inverseBindMatrices %d", i, *s.InverseBindMatrices)
		}
		if s.Skeleton != nil && !inRange(*s.Skeleton, len(d.Nodes)) {
			return errors.Wrapf(ErrReference, "skins[%d].skeleton %d", i, *s.Skeleton)
		}
		for j, joint := range s.Joints {
			if !inRange(joint, len(d.Nodes)) {
				return errors.Wrapf(ErrReference, "skins[%d].joints[%d] %d", i, j, joint)
			}
		}
	}
	for i, a := range d.Animations {
		if a == nil {
			return errors.Wrapf(ErrDocument, "animations[%d] is null", i)
		}
		a.index = i
		for j, s := range a.Samplers {
			if s == nil {
				return errors.Wrapf(ErrDocument, "animations[%d].samplers[%d] is null", i, j)
			}
			if !inRange(s.Input, len(d.Accessors)) {
				return errors.Wrapf(ErrReference, "animations[%d].samplers[%d].input %d", i, j, s.Input)
			}
			if !inRange(s.Output, len(d.Accessors)) {
				return errors.Wrapf(ErrReference, "animations[%d].samplers[%d].output %d", i, j, s.Output)
			}
		}
		for j, c := range a.Channels {
			if c == nil {
				return errors.Wrapf(ErrDocument, "animations[%d].channels[%d] is null", i, j)
			}
			if !inRange(c.Sampler, len(a.Samplers)) {
				return errors.Wrapf(ErrReference, "animations[%d].channels[%d].sampler %d", i, j, c.Sampler)
			}
			if c.Target.Node != nil && !inRange(*c.Target.Node, len(d.Nodes)) {
				return errors.Wrapf(ErrReference, "animations[%d].channels[%d].target.node %d", i, j, *c.Target.Node)
			}
		}
	}
	for i, s := range d.Scenes {
		if s == nil {
			return errors.Wrapf(ErrDocument, "scenes[%d] is null", i)
		}
		s.index = i
		for j, root := range s.Nodes {
			if !inRange(root, len(d.Nodes)) {
				return errors.Wrapf(ErrReference, "scenes[%d].nodes[%d] %d", i, j, root)
			}
			// A node may appear as a root in more than one scene; that
			// is permitted, only child nodes are rejected as roots.
			if d.Nodes[root].parent != nil {
				return errors.Wrapf(ErrReference, "scenes[%d].nodes[%d]: node %d is not a root", i, j, root)
			}
		}
	}
	if d.Scene != nil && !inRange(*d.Scene, len(d.Scenes)) {
		return errors.Wrapf(ErrReference, "scene %d", *d.Scene)
	}
	return nil
}

func (d *Document) resolveMaterials() error {
	for i, m := range d.Materials {
		if m == nil {
			return errors.Wrapf(ErrDocument, "materials[%d] is null", i)
		}
		m.index = i
		textures := map[string]*TextureInfo{
			"emissiveTexture": m.EmissiveTexture,
		}
		if mr := m.PBRMetallicRoughness; mr != nil {
			textures["pbrMetallicRoughness.baseColorTexture"] = mr.BaseColorTexture
			textures["pbrMetallicRoughness.metallicRoughnessTexture"] = mr.MetallicRoughnessTexture
		}
		for field, ti := range textures {
			if ti != nil && !inRange(ti.Index, len(d.Textures)) {
				return errors.Wrapf(ErrReference, "materials[%d].%s %d", i, field, ti.Index)
			}
		}
		if m.NormalTexture != nil && !inRange(m.NormalTexture.Index, len(d.Textures)) {
			return errors.Wrapf(ErrReference, "materials[%d].normalTexture %d", i, m.NormalTexture.Index)
		}
		if m.OcclusionTexture != nil && !inRange(m.OcclusionTexture.Index, len(d.Textures)) {
			return errors.Wrapf(ErrReference, "materials[%d].occlusionTexture %d", i, m.OcclusionTexture.Index)
		}
		if err := m.captureExtensions(); err != nil {
			return errors.Wrapf(ErrDocument, "materials[%d]: %v", i, err)
		}
	}
	return nil
}

func (m *Material) captureExtensions() error {
	for name, out := range map[string]interface{}{
		ExtSpecularGlossiness:  &m.SpecularGlossiness,
		ExtClearcoat:           &m.Clearcoat,
		ExtTransmission:        &m.Transmission,
		ExtVolume:              &m.Volume,
		ExtSheen:               &m.Sheen,
		ExtIOR:                 &m.IOR,
		ExtEmissiveStrength:    &m.EmissiveStrength,
		ExtIridescence:         &m.Iridescence,
		ExtAnisotropy:          &m.Anisotropy,
		ExtDispersion:          &m.Dispersion,
		ExtDiffuseTransmission: &m.DiffuseTransmission,
	} {
		if _, err := decodeExt(m.Extensions, name, out); err != nil {
			return errors.Wrapf(err, "%s", name)
		}
	}
	_, m.Unlit = m.Extensions[ExtUnlit]
	return nil
}

func (d *Document) resolveMeshes() error {
	for i, m := range d.Meshes {
		if m == nil {
			return errors.Wrapf(ErrDocument, "meshes[%d] is null", i)
		}
		m.index = i
		for j, p := range m.Primitives {
			if p == nil {
				return errors.Wrapf(ErrDocument, "meshes[%d].primitives[%d] is null", i, j)
			}
			for sem, acc := range p.Attributes {
				if !inRange(acc, len(d.Accessors)) {
					return errors.Wrapf(ErrReference, "meshes[%d].primitives[%d].attributes[%s] %d", i, j, sem, acc)
				}
			}
			if p.Indices != nil && !inRange(*p.Indices, len(d.Accessors)) {
				return errors.Wrapf(ErrReference, "meshes[%d].primitives[%d].indices %d", i, j, *p.Indices)
			}
			if p.Material != nil && !inRange(*p.Material, len(d.Materials)) {
				return errors.Wrapf(ErrReference, "meshes[%d].primitives[%d].material %d", i, j, *p.Material)
			}
			for k, target := range p.Targets {
				for sem, acc := range target {
					if !inRange(acc, len(d.Accessors)) {
						return errors.Wrapf(ErrReference, "meshes[%d].primitives[%d].targets[%d][%s] %d", i, j, k, sem, acc)
					}
				}
			}
		}
	}
	return nil
}

func (d *Document) resolveLights() error {
	var ext struct {
		Lights []*Light `json:"lights"`
	}
	ok, err := decodeExt(d.Extensions, ExtLightsPunctual, &ext)
	if err != nil {
		return errors.Wrapf(ErrDocument, "extensions.%s: %v", ExtLightsPunctual, err)
	}
	if !ok {
		return nil
	}
	d.Lights = ext.Lights
	for i, l := range d.Lights {
		if l == nil {
			return errors.Wrapf(ErrDocument, "%s.lights[%d] is null", ExtLightsPunctual, i)
		}
		l.index = i
	}
	return nil
}

func (d *Document) resolveNodes() error {
	for i, n := range d.Nodes {
		if n == nil {
			return errors.Wrapf(ErrDocument, "nodes[%d] is null", i)
		}
		n.doc = d
		n.index = i
		if n.Camera != nil && !inRange(*n.Camera, len(d.Cameras)) {
			return errors.Wrapf(ErrReference, "nodes[%d].camera %d", i, *n.Camera)
		}
		if n.Mesh != nil && !inRange(*n.Mesh, len(d.Meshes)) {
			return errors.Wrapf(ErrReference, "nodes[%d].mesh %d", i, *n.Mesh)
		}
		if n.Skin != nil && !inRange(*n.Skin, len(d.Skins)) {
			return errors.Wrapf(ErrReference, "nodes[%d].skin %d", i, *n.Skin)
		}
		var ext struct {
			Light *int `json:"light"`
		}
		ok, err := decodeExt(n.Extensions, ExtLightsPunctual, &ext)
		if err != nil {
			return errors.Wrapf(ErrDocument, "nodes[%d].%s: %v", i, ExtLightsPunctual, err)
		}
		if ok {
			if ext.Light == nil || !inRange(*ext.Light, len(d.Lights)) {
				return errors.Wrapf(ErrReference, "nodes[%d].%s.light", i, ExtLightsPunctual)
			}
			n.Light = ext.Light
		}
	}
	// Parent links. A node owned by two parents, or by itself through
	// any ancestor chain, breaks the tree contract.
	for i, n := range d.Nodes {
		for _, c := range n.Children {
			if !inRange(c, len(d.Nodes)) {
				return errors.Wrapf(ErrReference, "nodes[%d].children %d", i, c)
			}
			child := d.Nodes[c]
			if child.parent != nil {
				return errors.Wrapf(ErrReference, "nodes[%d].children %d: node already has parent %d", i, c, child.parent.index)
			}
			child.parent = n
		}
	}
	for i, n := range d.Nodes {
		seen := 0
		for p := n.parent; p != nil; p = p.parent {
			if p == n {
				return errors.Wrapf(ErrReference, "nodes[%d] is its own ancestor", i)
			}
			if seen++; seen > len(d.Nodes) {
				return errors.Wrapf(ErrReference, "nodes[%d]: ancestor chain does not terminate", i)
			}
		}
	}
	return nil
}

func inRange(i, n int) bool { return i >= 0 && i < n }
