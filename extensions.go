package gltf

import (
	"encoding/json"
)

// Extension names the codec interprets. Their payloads are decoded
// into the typed structs below during resolution; the raw spans stay
// in the entity's Extensions map so writing re-emits them verbatim.
const (
	ExtSpecularGlossiness  = "KHR_materials_pbrSpecularGlossiness"
	ExtClearcoat           = "KHR_materials_clearcoat"
	ExtTransmission        = "KHR_materials_transmission"
	ExtVolume              = "KHR_materials_volume"
	ExtSheen               = "KHR_materials_sheen"
	ExtIOR                 = "KHR_materials_ior"
	ExtEmissiveStrength    = "KHR_materials_emissive_strength"
	ExtIridescence         = "KHR_materials_iridescence"
	ExtAnisotropy          = "KHR_materials_anisotropy"
	ExtDispersion          = "KHR_materials_dispersion"
	ExtDiffuseTransmission = "KHR_materials_diffuse_transmission"
	ExtUnlit               = "KHR_materials_unlit"
	ExtLightsPunctual      = "KHR_lights_punctual"
	ExtMeshoptCompression  = "EXT_meshopt_compression"
	ExtDracoCompression    = "KHR_draco_mesh_compression"
)

type PBRSpecularGlossiness struct {
	DiffuseFactor             *[4]float32  `json:"diffuseFactor,omitempty"` // default [1,1,1,1]
	DiffuseTexture            *TextureInfo `json:"diffuseTexture,omitempty"`
	SpecularFactor            *[3]float32  `json:"specularFactor,omitempty"`    // default [1,1,1]
	GlossinessFactor          *float32     `json:"glossinessFactor,omitempty"`  // default 1
	SpecularGlossinessTexture *TextureInfo `json:"specularGlossinessTexture,omitempty"`
}

type Clearcoat struct {
	ClearcoatFactor           float32        `json:"clearcoatFactor,omitempty"`
	ClearcoatTexture          *TextureInfo   `json:"clearcoatTexture,omitempty"`
	ClearcoatRoughnessFactor  float32        `json:"clearcoatRoughnessFactor,omitempty"`
	ClearcoatRoughnessTexture *TextureInfo   `json:"clearcoatRoughnessTexture,omitempty"`
	ClearcoatNormalTexture    *NormalTexture `json:"clearcoatNormalTexture,omitempty"`
}

type Transmission struct {
	TransmissionFactor  float32      `json:"transmissionFactor,omitempty"`
	TransmissionTexture *TextureInfo `json:"transmissionTexture,omitempty"`
}

type Volume struct {
	ThicknessFactor     float32      `json:"thicknessFactor,omitempty"`
	ThicknessTexture    *TextureInfo `json:"thicknessTexture,omitempty"`
	AttenuationDistance float32      `json:"attenuationDistance,omitempty"` // 0 = infinite
	AttenuationColor    *[3]float32  `json:"attenuationColor,omitempty"`    // default [1,1,1]
}

type Sheen struct {
	SheenColorFactor      *[3]float32  `json:"sheenColorFactor,omitempty"` // default [0,0,0]
	SheenColorTexture     *TextureInfo `json:"sheenColorTexture,omitempty"`
	SheenRoughnessFactor  float32      `json:"sheenRoughnessFactor,omitempty"`
	SheenRoughnessTexture *TextureInfo `json:"sheenRoughnessTexture,omitempty"`
}

type IOR struct {
	IOR *float32 `json:"ior,omitempty"` // default 1.5
}

type EmissiveStrength struct {
	EmissiveStrength *float32 `json:"emissiveStrength,omitempty"` // default 1
}

type Iridescence struct {
	IridescenceFactor           float32      `json:"iridescenceFactor,omitempty"`
	IridescenceTexture          *TextureInfo `json:"iridescenceTexture,omitempty"`
	IridescenceIOR              *float32     `json:"iridescenceIor,omitempty"` // default 1.3
	IridescenceThicknessMinimum *float32     `json:"iridescenceThicknessMinimum,omitempty"` // default 100
	IridescenceThicknessMaximum *float32     `json:"iridescenceThicknessMaximum,omitempty"` // default 400
	IridescenceThicknessTexture *TextureInfo `json:"iridescenceThicknessTexture,omitempty"`
}

type Anisotropy struct {
	AnisotropyStrength float32      `json:"anisotropyStrength,omitempty"`
	AnisotropyRotation float32      `json:"anisotropyRotation,omitempty"`
	AnisotropyTexture  *TextureInfo `json:"anisotropyTexture,omitempty"`
}

type Dispersion struct {
	Dispersion float32 `json:"dispersion,omitempty"`
}

type DiffuseTransmission struct {
	DiffuseTransmissionFactor       float32      `json:"diffuseTransmissionFactor,omitempty"`
	DiffuseTransmissionTexture      *TextureInfo `json:"diffuseTransmissionTexture,omitempty"`
	DiffuseTransmissionColorFactor  *[3]float32  `json:"diffuseTransmissionColorFactor,omitempty"` // default [1,1,1]
	DiffuseTransmissionColorTexture *TextureInfo `json:"diffuseTransmissionColorTexture,omitempty"`
}

// LightSpotCone holds the cone angles of a spot light.
type LightSpotCone struct {
	InnerConeAngle float32  `json:"innerConeAngle,omitempty"`
	OuterConeAngle *float32 `json:"outerConeAngle,omitempty"` // default pi/4
}

// Light is one KHR_lights_punctual entry.
type Light struct {
	Name      string         `json:"name,omitempty"`
	Color     *[3]float32    `json:"color,omitempty"`     // default [1,1,1]
	Intensity *float32       `json:"intensity,omitempty"` // default 1
	Type      string         `json:"type"`
	Range     float32        `json:"range,omitempty"` // 0 = infinite
	Spot      *LightSpotCone `json:"spot,omitempty"`

	index int
}

func (l *Light) Index() int { return l.index }

// MeshoptCompression describes the compressed source range behind a
// buffer view. Mode and Filter keep the wire strings.
type MeshoptCompression struct {
	Buffer     int    `json:"buffer"`
	ByteOffset int    `json:"byteOffset,omitempty"`
	ByteLength int    `json:"byteLength"`
	ByteStride int    `json:"byteStride"`
	Count      int    `json:"count"`
	Mode       string `json:"mode"`
	Filter     string `json:"filter,omitempty"` // default NONE
}

// decodeExt unmarshals the named extension payload into out. Missing
// keys are not an error; a present but malformed payload is.
func decodeExt(exts Extensions, name string, out interface{}) (bool, error) {
	raw, ok := exts[name]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}
