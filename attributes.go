package gltf

import (
	"strconv"
	"strings"
)

// AttributeType classifies a primitive attribute semantic.
type AttributeType int

const (
	AttributeCustom AttributeType = iota
	AttributePosition
	AttributeNormal
	AttributeTangent
	AttributeTexCoord
	AttributeColor
	AttributeJoints
	AttributeWeights
)

// ParseAttribute splits a semantic name like "TEXCOORD_1" into its
// type and set index. Names starting with an underscore, and anything
// unrecognized, classify as AttributeCustom with set 0.
func ParseAttribute(name string) (AttributeType, int) {
	if strings.HasPrefix(name, "_") {
		return AttributeCustom, 0
	}
	base, set := name, 0
	if i := strings.LastIndexByte(name, '_'); i >= 0 {
		if v, err := strconv.Atoi(name[i+1:]); err == nil && v >= 0 {
			base, set = name[:i], v
		}
	}
	switch base {
	case "POSITION":
		return AttributePosition, set
	case "NORMAL":
		return AttributeNormal, set
	case "TANGENT":
		return AttributeTangent, set
	case "TEXCOORD":
		return AttributeTexCoord, set
	case "COLOR":
		return AttributeColor, set
	case "JOINTS":
		return AttributeJoints, set
	case "WEIGHTS":
		return AttributeWeights, set
	default:
		return AttributeCustom, 0
	}
}

func (t AttributeType) String() string {
	switch t {
	case AttributePosition:
		return "POSITION"
	case AttributeNormal:
		return "NORMAL"
	case AttributeTangent:
		return "TANGENT"
	case AttributeTexCoord:
		return "TEXCOORD"
	case AttributeColor:
		return "COLOR"
	case AttributeJoints:
		return "JOINTS"
	case AttributeWeights:
		return "WEIGHTS"
	default:
		return "CUSTOM"
	}
}
