package gltf

import (
	"encoding/json"
	"fmt"
)

// ComponentType is the storage type of a single accessor component.
// Values match the GL enumerants used by the format.
type ComponentType uint32

const (
	ComponentInt8   ComponentType = 5120 // BYTE
	ComponentUint8  ComponentType = 5121 // UNSIGNED_BYTE
	ComponentInt16  ComponentType = 5122 // SHORT
	ComponentUint16 ComponentType = 5123 // UNSIGNED_SHORT
	ComponentUint32 ComponentType = 5125 // UNSIGNED_INT
	ComponentFloat  ComponentType = 5126 // FLOAT
)

// Size returns the size of one component in bytes, or 0 for an
// unknown component type.
func (t ComponentType) Size() int {
	switch t {
	case ComponentInt8, ComponentUint8:
		return 1
	case ComponentInt16, ComponentUint16:
		return 2
	case ComponentUint32, ComponentFloat:
		return 4
	default:
		return 0
	}
}

func (t ComponentType) Integer() bool {
	return t != ComponentFloat && t.Size() != 0
}

// Unsigned reports the component types sparse indices and similar
// index-carrying fields are restricted to.
func (t ComponentType) Unsigned() bool {
	switch t {
	case ComponentUint8, ComponentUint16, ComponentUint32:
		return true
	}
	return false
}

func (t ComponentType) String() string {
	switch t {
	case ComponentInt8:
		return "BYTE"
	case ComponentUint8:
		return "UNSIGNED_BYTE"
	case ComponentInt16:
		return "SHORT"
	case ComponentUint16:
		return "UNSIGNED_SHORT"
	case ComponentUint32:
		return "UNSIGNED_INT"
	case ComponentFloat:
		return "FLOAT"
	default:
		return fmt.Sprintf("ComponentType(%d)", uint32(t))
	}
}

func (t *ComponentType) UnmarshalJSON(b []byte) error {
	var v uint32
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch ComponentType(v) {
	case ComponentInt8, ComponentUint8, ComponentInt16, ComponentUint16,
		ComponentUint32, ComponentFloat:
		*t = ComponentType(v)
		return nil
	default:
		return fmt.Errorf("bad componentType %d", v)
	}
}

func (t ComponentType) MarshalJSON() ([]byte, error) {
	return json.Marshal(uint32(t))
}

// AccessorType is the element shape of an accessor.
type AccessorType int

const (
	TypeScalar AccessorType = iota
	TypeVec2
	TypeVec3
	TypeVec4
	TypeMat2
	TypeMat3
	TypeMat4
)

// Components returns the number of components per element.
func (a AccessorType) Components() int {
	switch a {
	case TypeScalar:
		return 1
	case TypeVec2:
		return 2
	case TypeVec3:
		return 3
	case TypeVec4:
		return 4
	case TypeMat2:
		return 4
	case TypeMat3:
		return 9
	case TypeMat4:
		return 16
	default:
		return 0
	}
}

// Dims returns the matrix dimension for matrix shapes, 0 otherwise.
func (a AccessorType) Dims() int {
	switch a {
	case TypeMat2:
		return 2
	case TypeMat3:
		return 3
	case TypeMat4:
		return 4
	default:
		return 0
	}
}

func (a AccessorType) Matrix() bool { return a.Dims() != 0 }

func (a AccessorType) String() string {
	switch a {
	case TypeScalar:
		return "SCALAR"
	case TypeVec2:
		return "VEC2"
	case TypeVec3:
		return "VEC3"
	case TypeVec4:
		return "VEC4"
	case TypeMat2:
		return "MAT2"
	case TypeMat3:
		return "MAT3"
	case TypeMat4:
		return "MAT4"
	default:
		return fmt.Sprintf("AccessorType(%d)", int(a))
	}
}

func (a *AccessorType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "SCALAR":
		*a = TypeScalar
	case "VEC2":
		*a = TypeVec2
	case "VEC3":
		*a = TypeVec3
	case "VEC4":
		*a = TypeVec4
	case "MAT2":
		*a = TypeMat2
	case "MAT3":
		*a = TypeMat3
	case "MAT4":
		*a = TypeMat4
	default:
		return fmt.Errorf("bad accessor type %q", s)
	}
	return nil
}

func (a AccessorType) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// PrimitiveMode is the draw topology of a mesh primitive.
type PrimitiveMode int

const (
	ModePoints PrimitiveMode = iota
	ModeLines
	ModeLineLoop
	ModeLineStrip
	ModeTriangles
	ModeTriangleStrip
	ModeTriangleFan
)

// BufferViewTarget hints what kind of data a buffer view holds.
type BufferViewTarget int

const (
	TargetNone          BufferViewTarget = 0
	TargetArrayBuffer   BufferViewTarget = 34962 // vertex data
	TargetElementBuffer BufferViewTarget = 34963 // index data
)

// AlphaMode values.
const (
	AlphaOpaque = "OPAQUE"
	AlphaMask   = "MASK"
	AlphaBlend  = "BLEND"
)

// Camera type values.
const (
	CameraPerspective  = "perspective"
	CameraOrthographic = "orthographic"
)

// Animation channel target paths.
const (
	PathTranslation = "translation"
	PathRotation    = "rotation"
	PathScale       = "scale"
	PathWeights     = "weights"
)

// Animation sampler interpolation values.
const (
	InterpolationLinear      = "LINEAR"
	InterpolationStep        = "STEP"
	InterpolationCubicSpline = "CUBICSPLINE"
)

// KHR_lights_punctual light types.
const (
	LightDirectional = "directional"
	LightPoint       = "point"
	LightSpot        = "spot"
)
