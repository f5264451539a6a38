package gltf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/gltf"
)

func TestResolveRejectsOutOfRangeBufferView(t *testing.T) {
	// Index equal to the sequence length must fail resolution, never
	// read out of bounds.
	_, err := gltf.Decode([]byte(`{
		"asset": {"version": "2.0"},
		"buffers": [{"uri": "data:application/octet-stream;base64,AAAAAA==", "byteLength": 4}],
		"bufferViews": [{"buffer": 0, "byteLength": 4}],
		"accessors": [{"bufferView": 1, "componentType": 5126, "count": 1, "type": "SCALAR"}]
	}`), nil)
	assert.ErrorIs(t, err, gltf.ErrReference)
}

func TestResolveRejectsNegativeIndex(t *testing.T) {
	_, err := gltf.Decode([]byte(`{
		"asset": {"version": "2.0"},
		"nodes": [{"mesh": -1}]
	}`), nil)
	assert.ErrorIs(t, err, gltf.ErrReference)
}

func TestResolveRejectsNodeCycle(t *testing.T) {
	_, err := gltf.Decode([]byte(`{
		"asset": {"version": "2.0"},
		"nodes": [{"children": [1]}, {"children": [0]}]
	}`), nil)
	assert.ErrorIs(t, err, gltf.ErrReference)
}

func TestResolveRejectsSharedChild(t *testing.T) {
	_, err := gltf.Decode([]byte(`{
		"asset": {"version": "2.0"},
		"nodes": [{"children": [2]}, {"children": [2]}, {}]
	}`), nil)
	assert.ErrorIs(t, err, gltf.ErrReference)
}

func TestResolveRejectsChildAsSceneRoot(t *testing.T) {
	_, err := gltf.Decode([]byte(`{
		"asset": {"version": "2.0"},
		"nodes": [{"children": [1]}, {}],
		"scenes": [{"nodes": [1]}]
	}`), nil)
	assert.ErrorIs(t, err, gltf.ErrReference)
}

func TestRootSharedAcrossScenesIsPermitted(t *testing.T) {
	d, err := gltf.Decode([]byte(`{
		"asset": {"version": "2.0"},
		"nodes": [{}],
		"scenes": [{"nodes": [0]}, {"nodes": [0]}]
	}`), nil)
	require.NoError(t, err)
	assert.Len(t, d.Scenes, 2)
}

func TestReverseIndexLookup(t *testing.T) {
	d := decodeDoc(t, `{
		"asset": {"version": "2.0"},
		"nodes": [{}, {}, {}],
		"meshes": [
			{"primitives": [{"attributes": {"POSITION": 0}}]},
			{"primitives": [{"attributes": {"POSITION": 0}}]}
		],
		"buffers": [{"uri": "data:application/octet-stream;base64,AAAAAAAAAAAAAAAA", "byteLength": 12}],
		"bufferViews": [{"buffer": 0, "byteLength": 12}],
		"accessors": [{"bufferView": 0, "componentType": 5126, "count": 1, "type": "VEC3"}]
	}`)
	for i, n := range d.Nodes {
		assert.Equal(t, i, n.Index())
	}
	assert.Equal(t, 1, d.Meshes[1].Index())
	assert.Equal(t, 0, d.Accessors[0].Index())
	assert.Equal(t, 0, d.BufferViews[0].Index())
}

func TestResolveRejectsBadAnimationRefs(t *testing.T) {
	_, err := gltf.Decode([]byte(`{
		"asset": {"version": "2.0"},
		"animations": [{
			"channels": [{"sampler": 0, "target": {"node": 5, "path": "translation"}}],
			"samplers": [{"input": 0, "output": 0}]
		}]
	}`), nil)
	assert.ErrorIs(t, err, gltf.ErrReference)
}

func TestResolveRejectsBadSkinJoint(t *testing.T) {
	_, err := gltf.Decode([]byte(`{
		"asset": {"version": "2.0"},
		"nodes": [{}],
		"skins": [{"joints": [0, 1]}]
	}`), nil)
	assert.ErrorIs(t, err, gltf.ErrReference)
}

func TestResolveRejectsBadDefaultScene(t *testing.T) {
	_, err := gltf.Decode([]byte(`{
		"asset": {"version": "2.0"},
		"scene": 0
	}`), nil)
	assert.ErrorIs(t, err, gltf.ErrReference)
}

func TestResolveRejectsNegativeByteFields(t *testing.T) {
	// Negative offsets and counts must fail as malformed documents at
	// decode time instead of surfacing later as slice panics in the
	// accessor read paths.
	views := `"bufferViews": [{"buffer": 0, "byteLength": 16}],`
	for name, doc := range map[string]string{
		"buffer byteLength": `{"asset": {"version": "2.0"}, "buffers": [{"byteLength": -1}]}`,
		"view byteOffset": oneBufferDoc16(`
			"bufferViews": [{"buffer": 0, "byteOffset": -4, "byteLength": 4}]`),
		"view byteLength": oneBufferDoc16(`
			"bufferViews": [{"buffer": 0, "byteLength": -4}]`),
		"view byteStride": oneBufferDoc16(`
			"bufferViews": [{"buffer": 0, "byteLength": 16, "byteStride": -8}]`),
		"accessor byteOffset": oneBufferDoc16(views + `
			"accessors": [{"bufferView": 0, "byteOffset": -4, "componentType": 5126, "count": 1, "type": "SCALAR"}]`),
		"accessor count": oneBufferDoc16(views + `
			"accessors": [{"bufferView": 0, "componentType": 5126, "count": -1, "type": "SCALAR"}]`),
		"sparse count": oneBufferDoc16(views + `
			"accessors": [{"componentType": 5126, "count": 4, "type": "SCALAR", "sparse": {
				"count": -1,
				"indices": {"bufferView": 0, "componentType": 5123},
				"values": {"bufferView": 0}
			}}]`),
		"sparse byteOffset": oneBufferDoc16(views + `
			"accessors": [{"componentType": 5126, "count": 4, "type": "SCALAR", "sparse": {
				"count": 1,
				"indices": {"bufferView": 0, "byteOffset": -2, "componentType": 5123},
				"values": {"bufferView": 0}
			}}]`),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := gltf.Decode([]byte(doc), nil)
			assert.ErrorIs(t, err, gltf.ErrDocument)
		})
	}
}

// oneBufferDoc16 renders a document with one zeroed 16-byte buffer.
func oneBufferDoc16(rest string) string {
	return oneBufferDoc(make([]byte, 16), rest)
}

func TestNoPartialDocumentOnFailure(t *testing.T) {
	d, err := gltf.Decode([]byte(`{
		"asset": {"version": "2.0"},
		"nodes": [{"mesh": 7}]
	}`), nil)
	require.Error(t, err)
	assert.Nil(t, d)
}
