package gltf_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/gltf"
)

func fullDoc(t *testing.T) string {
	t.Helper()
	positions := floatBytes(0, 0, 0, 1, 0, 0, 0, 1, 0)
	indices := u16Bytes(0, 1, 2, 0) // padded to 4 entries for alignment
	data := append(append([]byte{}, positions...), indices...)
	return oneBufferDoc(data, fmt.Sprintf(`
		"extensionsUsed": ["KHR_lights_punctual"],
		"bufferViews": [
			{"buffer": 0, "byteLength": 36, "target": 34962},
			{"buffer": 0, "byteOffset": 36, "byteLength": 8, "target": 34963}
		],
		"accessors": [
			{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3",
			 "min": [0, 0, 0], "max": [1, 1, 0]},
			{"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
		],
		"materials": [{
			"name": "mat",
			"pbrMetallicRoughness": {"baseColorFactor": [1, 0, 0, 1]},
			"alphaMode": "MASK", "alphaCutoff": 0.25,
			"extras": {"artist": "someone"}
		}],
		"meshes": [{"primitives": [
			{"attributes": {"POSITION": 0}, "indices": 1, "material": 0}
		]}],
		"cameras": [{"type": "perspective", "perspective": {"yfov": 0.7, "znear": 0.01}}],
		"extensions": {"KHR_lights_punctual": {"lights": [{"type": "directional"}]}},
		"nodes": [
			{"name": "root", "translation": [1, 2, 3], "children": [1]},
			{"mesh": 0, "rotation": [0, 0, 0, 1], "camera": 0}
		],
		"skins": [{"joints": [0, 1]}],
		"animations": [{
			"channels": [{"sampler": 0, "target": {"node": 1, "path": "translation"}}],
			"samplers": [{"input": 0, "output": 0, "interpolation": "LINEAR"}]
		}],
		"scenes": [{"nodes": [0]}],
		"scene": 0`))
}

func TestRoundTrip(t *testing.T) {
	d := decodeDoc(t, fullDoc(t))
	require.NoError(t, d.Validate())

	out, err := d.Marshal()
	require.NoError(t, err)

	d2, err := gltf.Decode(out, nil)
	require.NoError(t, err)
	require.NoError(t, d2.LoadBuffers(nil))
	require.NoError(t, d2.Validate())

	// Same entity counts.
	assert.Equal(t, len(d.Buffers), len(d2.Buffers))
	assert.Equal(t, len(d.BufferViews), len(d2.BufferViews))
	assert.Equal(t, len(d.Accessors), len(d2.Accessors))
	assert.Equal(t, len(d.Materials), len(d2.Materials))
	assert.Equal(t, len(d.Meshes), len(d2.Meshes))
	assert.Equal(t, len(d.Nodes), len(d2.Nodes))
	assert.Equal(t, len(d.Skins), len(d2.Skins))
	assert.Equal(t, len(d.Animations), len(d2.Animations))
	assert.Equal(t, len(d.Cameras), len(d2.Cameras))
	assert.Equal(t, len(d.Scenes), len(d2.Scenes))
	assert.Equal(t, len(d.Lights), len(d2.Lights))

	// Same reference topology.
	require.NotNil(t, d2.Nodes[1].Mesh)
	assert.Equal(t, 0, *d2.Nodes[1].Mesh)
	assert.Equal(t, d2.Nodes[0], d2.Nodes[1].Parent())
	require.NotNil(t, d2.Meshes[0].Primitives[0].Indices)
	assert.Equal(t, 1, *d2.Meshes[0].Primitives[0].Indices)

	// Equal field values modulo default omission.
	assert.Equal(t, d.Materials[0].AlphaMode, d2.Materials[0].AlphaMode)
	require.NotNil(t, d2.Materials[0].AlphaCutoff)
	assert.InDelta(t, 0.25, *d2.Materials[0].AlphaCutoff, 1e-6)
	assert.Equal(t, [3]float32{1, 2, 3}, *d2.Nodes[0].Translation)
	assert.Equal(t, d.Accessors[0].Min, d2.Accessors[0].Min)

	// Decoded payloads agree.
	p1, err := d.Accessors[0].UnpackFloats()
	require.NoError(t, err)
	p2, err := d2.Accessors[0].UnpackFloats()
	require.NoError(t, err)
	assert.Equal(t, p1, p2)

	// Extras survive as their original spans.
	assert.JSONEq(t, `{"artist": "someone"}`, string(d2.Materials[0].Extras))
}

func TestWriterOmitsDefaults(t *testing.T) {
	d := decodeDoc(t, fullDoc(t))
	out, err := d.Marshal()
	require.NoError(t, err)
	text := string(out)

	// The identity rotation on node 1 was present in the source but
	// holds its default, so the writer drops it.
	assert.NotContains(t, text, "rotation")
	// LINEAR interpolation is the default and is dropped too.
	assert.NotContains(t, text, "LINEAR")
	assert.NotContains(t, text, "OPAQUE")
	// Non-default values stay.
	assert.Contains(t, text, "MASK")
	assert.Contains(t, text, "translation")
}

func TestWriterOmitsDefaultMaterialFactors(t *testing.T) {
	d := decodeDoc(t, `{
		"asset": {"version": "2.0"},
		"materials": [{"pbrMetallicRoughness": {
			"baseColorFactor": [1, 1, 1, 1],
			"metallicFactor": 1,
			"roughnessFactor": 0.5
		}}]
	}`)
	out, err := d.Marshal()
	require.NoError(t, err)
	text := string(out)
	assert.NotContains(t, text, "baseColorFactor")
	assert.NotContains(t, text, "metallicFactor")
	assert.Contains(t, text, "roughnessFactor")
}

func TestWriterReemitsUnknownExtensionsVerbatim(t *testing.T) {
	span := `{"custom":[1,2,{"deep":true}]}`
	d := decodeDoc(t, fmt.Sprintf(`{
		"asset": {"version": "2.0"},
		"nodes": [{"extensions": {"VENDOR_thing": %s}}]
	}`, span))
	out, err := d.Marshal()
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(out), span), "extension span must survive byte-for-byte")
}

func TestGLBRoundTripPreservesGraph(t *testing.T) {
	d := decodeDoc(t, fullDoc(t))
	// Rebind the buffer as an embedded GLB payload.
	d.Buffers[0].URI = ""

	glb, err := d.MarshalGLB()
	require.NoError(t, err)

	d2, err := gltf.Decode(glb, nil)
	require.NoError(t, err)
	require.NoError(t, d2.LoadBuffers(nil))

	assert.Equal(t, len(d.Nodes), len(d2.Nodes))
	i1, err := d.Accessors[1].UnpackIndices()
	require.NoError(t, err)
	i2, err := d2.Accessors[1].UnpackIndices()
	require.NoError(t, err)
	assert.Equal(t, i1, i2)
}
