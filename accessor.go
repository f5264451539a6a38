package gltf

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// ElemSize returns the byte size of one tightly packed element.
// Matrix shapes with 1- or 2-byte components carry column padding:
// every column starts on a 4-byte boundary.
func (a *Accessor) ElemSize() int {
	cs := a.ComponentType.Size()
	if dims := a.Type.Dims(); dims != 0 && cs < 4 {
		return dims * pad4(dims*cs)
	}
	return cs * a.Type.Components()
}

// componentOffset returns the byte offset of component c inside an
// element, accounting for matrix column padding. Components are laid
// out column-major.
func (a *Accessor) componentOffset(c int) int {
	cs := a.ComponentType.Size()
	if dims := a.Type.Dims(); dims != 0 && cs < 4 {
		colStride := pad4(dims * cs)
		return (c/dims)*colStride + (c%dims)*cs
	}
	return c * cs
}

// Stride returns the distance in bytes between consecutive elements:
// the view's explicit stride when present, else the tight size.
func (a *Accessor) Stride() int {
	if v := a.View(); v != nil && v.ByteStride != 0 {
		return v.ByteStride
	}
	return a.ElemSize()
}

// FloatCount returns the number of float values a bulk unpack yields.
func (a *Accessor) FloatCount() int {
	return a.Count * a.Type.Components()
}

// base returns the accessor's dense byte range positioned at element
// zero, or nil for a sparse-only accessor whose base is all zeros.
func (a *Accessor) base() ([]byte, error) {
	v := a.View()
	if v == nil {
		return nil, nil
	}
	data, err := v.data()
	if err != nil {
		return nil, err
	}
	if a.Count > 0 {
		need := a.ByteOffset + (a.Count-1)*a.Stride() + a.ElemSize()
		if need > len(data) {
			return nil, errors.Wrapf(ErrDocument, "accessors[%d] needs %d bytes, view %d holds %d", a.index, need, v.index, len(data))
		}
	}
	return data[a.ByteOffset:], nil
}

func componentFloat(b []byte, t ComponentType, normalized bool) float32 {
	le := binary.LittleEndian
	switch t {
	case ComponentFloat:
		return math.Float32frombits(le.Uint32(b))
	case ComponentInt8:
		v := int8(b[0])
		if normalized {
			return max32(float32(v)/127, -1)
		}
		return float32(v)
	case ComponentUint8:
		if normalized {
			return float32(b[0]) / 255
		}
		return float32(b[0])
	case ComponentInt16:
		v := int16(le.Uint16(b))
		if normalized {
			return max32(float32(v)/32767, -1)
		}
		return float32(v)
	case ComponentUint16:
		v := le.Uint16(b)
		if normalized {
			return float32(v) / 65535
		}
		return float32(v)
	case ComponentUint32:
		v := le.Uint32(b)
		if normalized {
			return float32(float64(v) / 4294967295)
		}
		return float32(v)
	}
	return 0
}

func componentUint(b []byte, t ComponentType) uint32 {
	le := binary.LittleEndian
	switch t {
	case ComponentUint8:
		return uint32(b[0])
	case ComponentInt8:
		return uint32(int8(b[0]))
	case ComponentUint16:
		return uint32(le.Uint16(b))
	case ComponentInt16:
		return uint32(int16(le.Uint16(b)))
	case ComponentUint32:
		return le.Uint32(b)
	}
	return 0
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// UnpackFloats decodes every element into a freshly allocated slice
// of Count×Components values, applying normalization and sparse
// substitution.
func (a *Accessor) UnpackFloats() ([]float32, error) {
	out := make([]float32, a.FloatCount())
	if _, err := a.UnpackFloatsInto(out); err != nil {
		return nil, err
	}
	return out, nil
}

// UnpackFloatsInto decodes into dst and returns the number of values
// written. A nil dst is a dry run that only reports the required
// length; a non-nil dst shorter than that fails without writing.
func (a *Accessor) UnpackFloatsInto(dst []float32) (int, error) {
	n := a.FloatCount()
	if dst == nil {
		return n, nil
	}
	if len(dst) < n {
		return 0, errors.Wrapf(ErrOptions, "accessors[%d]: output holds %d of %d values", a.index, len(dst), n)
	}
	base, err := a.base()
	if err != nil {
		return 0, err
	}
	nc := a.Type.Components()
	stride := a.Stride()
	for e := 0; e < a.Count; e++ {
		row := dst[e*nc:]
		if base == nil {
			for c := 0; c < nc; c++ {
				row[c] = 0
			}
			continue
		}
		elem := base[e*stride:]
		for c := 0; c < nc; c++ {
			row[c] = componentFloat(elem[a.componentOffset(c):], a.ComponentType, a.Normalized)
		}
	}
	if a.Sparse != nil {
		if err := a.sparseOverlay(func(idx int, elem []byte) {
			row := dst[idx*nc:]
			for c := 0; c < nc; c++ {
				row[c] = componentFloat(elem[a.componentOffset(c):], a.ComponentType, a.Normalized)
			}
		}); err != nil {
			return 0, err
		}
	}
	return n, nil
}

// UnpackIndices decodes a scalar integer accessor into uint32 values,
// the form index buffers are consumed in.
func (a *Accessor) UnpackIndices() ([]uint32, error) {
	out := make([]uint32, a.Count)
	if _, err := a.UnpackIndicesInto(out); err != nil {
		return nil, err
	}
	return out, nil
}

// UnpackIndicesInto is the caller-buffer form of UnpackIndices, with
// the same nil-dst dry run convention as UnpackFloatsInto.
func (a *Accessor) UnpackIndicesInto(dst []uint32) (int, error) {
	if a.Type != TypeScalar {
		return 0, errors.Wrapf(ErrOptions, "accessors[%d]: index unpack requires SCALAR, got %s", a.index, a.Type)
	}
	if !a.ComponentType.Integer() {
		return 0, errors.Wrapf(ErrOptions, "accessors[%d]: index unpack requires an integer component, got %s", a.index, a.ComponentType)
	}
	if dst == nil {
		return a.Count, nil
	}
	if len(dst) < a.Count {
		return 0, errors.Wrapf(ErrOptions, "accessors[%d]: output holds %d of %d values", a.index, len(dst), a.Count)
	}
	base, err := a.base()
	if err != nil {
		return 0, err
	}
	stride := a.Stride()
	for e := 0; e < a.Count; e++ {
		if base == nil {
			dst[e] = 0
			continue
		}
		dst[e] = componentUint(base[e*stride:], a.ComponentType)
	}
	if a.Sparse != nil {
		if err := a.sparseOverlay(func(idx int, elem []byte) {
			dst[idx] = componentUint(elem, a.ComponentType)
		}); err != nil {
			return 0, err
		}
	}
	return a.Count, nil
}

// sparseOverlay walks the sparse descriptor and hands each override
// element to apply. Values are tightly packed with the accessor's
// element size; indices must land inside [0, Count).
func (a *Accessor) sparseOverlay(apply func(idx int, elem []byte)) error {
	s := a.Sparse
	iv := a.doc.BufferViews[s.Indices.BufferView]
	vv := a.doc.BufferViews[s.Values.BufferView]

	isize := s.Indices.ComponentType.Size()
	if !s.Indices.ComponentType.Unsigned() {
		return errors.Wrapf(ErrDocument, "accessors[%d].sparse.indices: component %s", a.index, s.Indices.ComponentType)
	}
	idata, err := iv.data()
	if err != nil {
		return err
	}
	vdata, err := vv.data()
	if err != nil {
		return err
	}
	esize := a.ElemSize()
	if s.Indices.ByteOffset+s.Count*isize > len(idata) {
		return errors.Wrapf(ErrDocument, "accessors[%d].sparse.indices overrun view %d", a.index, iv.index)
	}
	if s.Values.ByteOffset+s.Count*esize > len(vdata) {
		return errors.Wrapf(ErrDocument, "accessors[%d].sparse.values overrun view %d", a.index, vv.index)
	}
	for k := 0; k < s.Count; k++ {
		idx := int(componentUint(idata[s.Indices.ByteOffset+k*isize:], s.Indices.ComponentType))
		if idx >= a.Count {
			return errors.Wrapf(ErrDocument, "accessors[%d].sparse index %d out of %d elements", a.index, idx, a.Count)
		}
		apply(idx, vdata[s.Values.ByteOffset+k*esize:])
	}
	return nil
}

// ReadFloat decodes element e into out, which must hold at least
// Components values. Sparse accessors are rejected: a single read
// cannot amortize building the override map, use UnpackFloats.
func (a *Accessor) ReadFloat(e int, out []float32) error {
	if a.Sparse != nil {
		return errors.Wrapf(ErrOptions, "accessors[%d]: single-element read of a sparse accessor", a.index)
	}
	nc := a.Type.Components()
	if len(out) < nc {
		return errors.Wrapf(ErrOptions, "accessors[%d]: output holds %d of %d components", a.index, len(out), nc)
	}
	elem, err := a.elem(e)
	if err != nil {
		return err
	}
	for c := 0; c < nc; c++ {
		if elem == nil {
			out[c] = 0
			continue
		}
		out[c] = componentFloat(elem[a.componentOffset(c):], a.ComponentType, a.Normalized)
	}
	return nil
}

// ReadUint decodes element e of an integer accessor into out.
// Matrix shapes are not supported on this path.
func (a *Accessor) ReadUint(e int, out []uint32) error {
	if a.Sparse != nil {
		return errors.Wrapf(ErrOptions, "accessors[%d]: single-element read of a sparse accessor", a.index)
	}
	if a.Type.Matrix() {
		return errors.Wrapf(ErrOptions, "accessors[%d]: uint read of matrix shape %s", a.index, a.Type)
	}
	if !a.ComponentType.Integer() {
		return errors.Wrapf(ErrOptions, "accessors[%d]: uint read of %s component", a.index, a.ComponentType)
	}
	nc := a.Type.Components()
	if len(out) < nc {
		return errors.Wrapf(ErrOptions, "accessors[%d]: output holds %d of %d components", a.index, len(out), nc)
	}
	elem, err := a.elem(e)
	if err != nil {
		return err
	}
	cs := a.ComponentType.Size()
	for c := 0; c < nc; c++ {
		if elem == nil {
			out[c] = 0
			continue
		}
		out[c] = componentUint(elem[c*cs:], a.ComponentType)
	}
	return nil
}

// ReadIndex decodes one element of a scalar integer accessor.
func (a *Accessor) ReadIndex(e int) (uint32, error) {
	if a.Type != TypeScalar {
		return 0, errors.Wrapf(ErrOptions, "accessors[%d]: index read requires SCALAR, got %s", a.index, a.Type)
	}
	var out [1]uint32
	if err := a.ReadUint(e, out[:]); err != nil {
		return 0, err
	}
	return out[0], nil
}

func (a *Accessor) elem(e int) ([]byte, error) {
	if e < 0 || e >= a.Count {
		return nil, errors.Wrapf(ErrOptions, "accessors[%d]: element %d of %d", a.index, e, a.Count)
	}
	base, err := a.base()
	if err != nil {
		return nil, err
	}
	if base == nil {
		return nil, nil
	}
	return base[e*a.Stride():], nil
}
