package gltf_test

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/gltf"
)

func buildGLB(t *testing.T, doc string, bin []byte) []byte {
	t.Helper()
	le := binary.LittleEndian

	jsonChunk := []byte(doc)
	for len(jsonChunk)%4 != 0 {
		jsonChunk = append(jsonChunk, ' ')
	}
	binChunk := append([]byte{}, bin...)
	for len(binChunk)%4 != 0 {
		binChunk = append(binChunk, 0)
	}

	total := 12 + 8 + len(jsonChunk)
	if len(bin) > 0 {
		total += 8 + len(binChunk)
	}
	out := append([]byte("glTF"), 0, 0, 0, 0, 0, 0, 0, 0)
	le.PutUint32(out[4:], 2)
	le.PutUint32(out[8:], uint32(total))
	out = le.AppendUint32(out, uint32(len(jsonChunk)))
	out = le.AppendUint32(out, 0x4E4F534A)
	out = append(out, jsonChunk...)
	if len(bin) > 0 {
		out = le.AppendUint32(out, uint32(len(binChunk)))
		out = le.AppendUint32(out, 0x004E4942)
		out = append(out, binChunk...)
	}
	return out
}

func TestGLBDecode(t *testing.T) {
	payload := floatBytes(1, 2, 3)
	glb := buildGLB(t, `{
		"asset": {"version": "2.0"},
		"buffers": [{"byteLength": 12}],
		"bufferViews": [{"buffer": 0, "byteLength": 12}],
		"accessors": [{"bufferView": 0, "componentType": 5126, "count": 1, "type": "VEC3"}]
	}`, payload)

	d, err := gltf.Decode(glb, nil)
	require.NoError(t, err)
	require.NoError(t, d.LoadBuffers(nil))
	assert.Equal(t, payload, d.Buffers[0].Data)

	got, err := d.Accessors[0].UnpackFloats()
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, got)
}

func TestGLBBadMagic(t *testing.T) {
	glb := buildGLB(t, `{"asset":{"version":"2.0"}}`, nil)
	copy(glb, "NOPE")
	_, err := gltf.Decode(glb, nil)
	assert.ErrorIs(t, err, gltf.ErrContainer)
}

func TestGLBLegacyVersion(t *testing.T) {
	glb := buildGLB(t, `{"asset":{"version":"2.0"}}`, nil)
	binary.LittleEndian.PutUint32(glb[4:], 1)
	_, err := gltf.Decode(glb, nil)
	assert.ErrorIs(t, err, gltf.ErrVersion)
}

func TestGLBTruncated(t *testing.T) {
	glb := buildGLB(t, `{"asset":{"version":"2.0"}}`, nil)
	_, err := gltf.Decode(glb[:10], nil)
	assert.ErrorIs(t, err, gltf.ErrContainer)

	// Declared total length larger than the input.
	binary.LittleEndian.PutUint32(glb[8:], uint32(len(glb)+4))
	_, err = gltf.Decode(glb, nil)
	assert.ErrorIs(t, err, gltf.ErrContainer)
}

func TestGLBMissingJSONChunk(t *testing.T) {
	glb := buildGLB(t, `{"asset":{"version":"2.0"}}`, nil)
	// Retag the JSON chunk as an unknown chunk.
	binary.LittleEndian.PutUint32(glb[16:], 0xDEADBEEF)
	_, err := gltf.Decode(glb, nil)
	assert.ErrorIs(t, err, gltf.ErrContainer)
}

func TestMarshalGLBPacking(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5} // forces BIN padding
	glb := buildGLB(t, `{
		"asset": {"version": "2.0"},
		"buffers": [{"byteLength": 5}]
	}`, payload)

	d, err := gltf.Decode(glb, nil)
	require.NoError(t, err)
	require.NoError(t, d.LoadBuffers(nil))

	out, err := d.MarshalGLB()
	require.NoError(t, err)
	le := binary.LittleEndian

	// Total length field covers header, chunk headers and padded
	// payloads exactly.
	assert.Equal(t, "glTF", string(out[:4]))
	assert.Equal(t, uint32(2), le.Uint32(out[4:]))
	assert.Equal(t, uint32(len(out)), le.Uint32(out[8:]))

	jsonLen := int(le.Uint32(out[12:]))
	assert.Zero(t, jsonLen%4)
	assert.Equal(t, uint32(0x4E4F534A), le.Uint32(out[16:]))
	// Any JSON chunk padding is ASCII spaces after the closing brace.
	jsonChunk := strings.TrimRight(string(out[20:20+jsonLen]), " ")
	assert.Equal(t, byte('}'), jsonChunk[len(jsonChunk)-1])

	binOff := 20 + jsonLen
	binLen := int(le.Uint32(out[binOff:]))
	assert.Zero(t, binLen%4)
	assert.Equal(t, uint32(0x004E4942), le.Uint32(out[binOff+4:]))
	// BIN chunk pads with zero bytes.
	assert.Equal(t, payload, out[binOff+8:binOff+8+5])
	assert.Equal(t, []byte{0, 0, 0}, out[binOff+8+5:binOff+8+binLen])
	assert.Equal(t, len(out), binOff+8+binLen)

	// The produced container decodes back.
	d2, err := gltf.Decode(out, nil)
	require.NoError(t, err)
	require.NoError(t, d2.LoadBuffers(nil))
	assert.Equal(t, payload, d2.Buffers[0].Data)
}

func TestMarshalGLBWithoutBinaryPayload(t *testing.T) {
	d, err := gltf.Decode([]byte(`{"asset":{"version":"2.0"}}`), nil)
	require.NoError(t, err)

	out, err := d.MarshalGLB()
	require.NoError(t, err)
	le := binary.LittleEndian
	assert.Equal(t, uint32(len(out)), le.Uint32(out[8:]))
	// Single JSON chunk only.
	jsonLen := int(le.Uint32(out[12:]))
	assert.Equal(t, len(out), 20+jsonLen)
}

func TestMarshalGLBRequiresPayloadForBufferZero(t *testing.T) {
	// A URI-less buffer with no loaded data cannot be packed.
	d, err := gltf.Decode([]byte(`{
		"asset": {"version": "2.0"},
		"buffers": [{"byteLength": 4}]
	}`), nil)
	require.NoError(t, err)

	_, err = d.MarshalGLB()
	assert.ErrorIs(t, err, gltf.ErrOptions)
}
