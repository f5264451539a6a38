package gltf

import (
	"github.com/pkg/errors"
)

// Validate walks the resolved graph once and reports the first
// structural violation it finds. Reference bounds are checked again
// even on a freshly resolved graph, since callers may mutate indices
// between resolve and validate; checks that need buffer bytes (sparse
// index ordering) are skipped for buffers that are not loaded.
func (d *Document) Validate() error {
	if d.Asset.Version == "" {
		return errors.Wrap(ErrDocument, "asset.version is required")
	}
	for i, v := range d.BufferViews {
		if !inRange(v.Buffer, len(d.Buffers)) {
			return errors.Wrapf(ErrReference, "bufferViews[%d].buffer %d", i, v.Buffer)
		}
		b := d.Buffers[v.Buffer]
		if v.ByteOffset+v.ByteLength > b.ByteLength {
			return errors.Wrapf(ErrDocument, "bufferViews[%d] range %d+%d exceeds buffer %d length %d", i, v.ByteOffset, v.ByteLength, v.Buffer, b.ByteLength)
		}
	}
	for i, a := range d.Accessors {
		if err := d.validateAccessor(i, a); err != nil {
			return err
		}
	}
	for i, m := range d.Meshes {
		for j, p := range m.Primitives {
			if err := d.validatePrimitive(i, j, p); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Document) validateAccessor(i int, a *Accessor) error {
	if a.ComponentType.Size() == 0 {
		return errors.Wrapf(ErrDocument, "accessors[%d]: unknown component type", i)
	}
	if a.Type.Components() == 0 {
		return errors.Wrapf(ErrDocument, "accessors[%d]: unknown element type", i)
	}
	if a.BufferView != nil {
		if !inRange(*a.BufferView, len(d.BufferViews)) {
			return errors.Wrapf(ErrReference, "accessors[%d].bufferView %d", i, *a.BufferView)
		}
		v := d.BufferViews[*a.BufferView]
		if a.Count > 0 {
			need := a.ByteOffset + (a.Count-1)*a.Stride() + a.ElemSize()
			if need > v.ByteLength {
				return errors.Wrapf(ErrDocument, "accessors[%d] needs %d bytes, bufferViews[%d] holds %d", i, need, v.index, v.ByteLength)
			}
		}
	}
	if n := a.Type.Components(); (a.Min != nil && len(a.Min) != n) || (a.Max != nil && len(a.Max) != n) {
		return errors.Wrapf(ErrDocument, "accessors[%d]: min/max length does not match %s", i, a.Type)
	}
	if s := a.Sparse; s != nil {
		if s.Count <= 0 || s.Count > a.Count {
			return errors.Wrapf(ErrDocument, "accessors[%d].sparse.count %d of %d elements", i, s.Count, a.Count)
		}
		if !inRange(s.Indices.BufferView, len(d.BufferViews)) {
			return errors.Wrapf(ErrReference, "accessors[%d].sparse.indices.bufferView %d", i, s.Indices.BufferView)
		}
		if !inRange(s.Values.BufferView, len(d.BufferViews)) {
			return errors.Wrapf(ErrReference, "accessors[%d].sparse.values.bufferView %d", i, s.Values.BufferView)
		}
		if err := d.validateSparseOrder(i, a); err != nil {
			return err
		}
	}
	return nil
}

// validateSparseOrder checks that sparse indices strictly increase,
// which the overlay rule depends on. Needs loaded bytes.
func (d *Document) validateSparseOrder(i int, a *Accessor) error {
	s := a.Sparse
	iv := d.BufferViews[s.Indices.BufferView]
	if iv.Buf().Data == nil && iv.override == nil {
		return nil
	}
	isize := s.Indices.ComponentType.Size()
	if !s.Indices.ComponentType.Unsigned() {
		return errors.Wrapf(ErrDocument, "accessors[%d].sparse.indices: component %s", i, s.Indices.ComponentType)
	}
	idata, err := iv.data()
	if err != nil {
		return err
	}
	if s.Indices.ByteOffset+s.Count*isize > len(idata) {
		return errors.Wrapf(ErrDocument, "accessors[%d].sparse.indices overrun view %d", i, iv.index)
	}
	prev := -1
	for k := 0; k < s.Count; k++ {
		idx := int(componentUint(idata[s.Indices.ByteOffset+k*isize:], s.Indices.ComponentType))
		if idx <= prev {
			return errors.Wrapf(ErrDocument, "accessors[%d].sparse.indices not strictly increasing at %d", i, k)
		}
		prev = idx
	}
	return nil
}

func (d *Document) validatePrimitive(i, j int, p *Primitive) error {
	if len(p.Attributes) == 0 && len(p.Extensions) == 0 {
		return errors.Wrapf(ErrDocument, "meshes[%d].primitives[%d] has no attributes", i, j)
	}
	if _, ok := p.Attributes["POSITION"]; !ok {
		if _, draco := p.Extensions[ExtDracoCompression]; !draco && !p.compressedAttributes(d) {
			return errors.Wrapf(ErrDocument, "meshes[%d].primitives[%d] has no POSITION attribute", i, j)
		}
	}
	for sem, acc := range p.Attributes {
		if !inRange(acc, len(d.Accessors)) {
			return errors.Wrapf(ErrReference, "meshes[%d].primitives[%d].attributes[%s] %d", i, j, sem, acc)
		}
	}
	if p.Indices != nil {
		if !inRange(*p.Indices, len(d.Accessors)) {
			return errors.Wrapf(ErrReference, "meshes[%d].primitives[%d].indices %d", i, j, *p.Indices)
		}
		ia := d.Accessors[*p.Indices]
		if ia.Type != TypeScalar || !ia.ComponentType.Integer() {
			return errors.Wrapf(ErrDocument, "meshes[%d].primitives[%d]: index accessor must be scalar integer", i, j)
		}
	}
	return nil
}

// compressedAttributes reports whether every attribute of p reads
// through a meshopt-compressed view, in which case the plain POSITION
// requirement does not apply until the override bytes are installed.
func (p *Primitive) compressedAttributes(d *Document) bool {
	if len(p.Attributes) == 0 {
		return false
	}
	for _, acc := range p.Attributes {
		if !inRange(acc, len(d.Accessors)) {
			return false
		}
		v := d.Accessors[acc].View()
		if v == nil || v.Compression == nil {
			return false
		}
	}
	return true
}
