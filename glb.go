package gltf

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// GLB container layout: a 12-byte file header (magic, version, total
// length) followed by 4-byte-aligned chunks, each with an 8-byte
// header (payload length, type tag). The first chunk must be JSON;
// a single optional BIN chunk may follow.
const (
	glbMagic = "glTF"

	glbHeaderSize = 12
	glbChunkSize  = 8

	glbChunkJSON = 0x4E4F534A
	glbChunkBIN  = 0x004E4942
)

func glbUnpack(data []byte) (doc, bin []byte, err error) {
	if len(data) < glbHeaderSize {
		return nil, nil, errors.Wrap(ErrContainer, "truncated header")
	}
	le := binary.LittleEndian
	if version := le.Uint32(data[4:]); version < 2 {
		return nil, nil, errors.Wrapf(ErrVersion, "GLB version %d", version)
	}
	total := int(le.Uint32(data[8:]))
	if total < glbHeaderSize || total > len(data) {
		return nil, nil, errors.Wrapf(ErrContainer, "declared length %d exceeds input %d", total, len(data))
	}

	off := glbHeaderSize
	for off < total {
		if total-off < glbChunkSize {
			return nil, nil, errors.Wrap(ErrContainer, "truncated chunk header")
		}
		length := int(le.Uint32(data[off:]))
		tag := le.Uint32(data[off+4:])
		off += glbChunkSize
		if length < 0 || off+length > total {
			return nil, nil, errors.Wrapf(ErrContainer, "chunk payload overruns container at offset %d", off)
		}
		payload := data[off : off+length]
		switch tag {
		case glbChunkJSON:
			if doc != nil {
				return nil, nil, errors.Wrap(ErrContainer, "duplicate JSON chunk")
			}
			doc = payload
		case glbChunkBIN:
			if doc == nil {
				return nil, nil, errors.Wrap(ErrContainer, "BIN chunk before JSON chunk")
			}
			if bin != nil {
				return nil, nil, errors.Wrap(ErrContainer, "duplicate BIN chunk")
			}
			bin = payload
		default:
			// Unknown chunks are skipped per the container spec.
		}
		off += length
		if pad := off % 4; pad != 0 {
			off += 4 - pad
		}
	}
	if doc == nil {
		return nil, nil, errors.Wrap(ErrContainer, "missing JSON chunk")
	}
	return doc, bin, nil
}

// glbPack assembles the two-chunk container. The JSON chunk is padded
// to 4 bytes with spaces, the BIN chunk with zero bytes; with no
// binary payload the BIN chunk is omitted entirely.
func glbPack(doc, bin []byte) []byte {
	jsonLen := pad4(len(doc))
	total := glbHeaderSize + glbChunkSize + jsonLen
	if len(bin) > 0 {
		total += glbChunkSize + pad4(len(bin))
	}

	out := make([]byte, 0, total)
	le := binary.LittleEndian

	out = append(out, glbMagic...)
	out = le.AppendUint32(out, 2)
	out = le.AppendUint32(out, uint32(total))

	out = le.AppendUint32(out, uint32(jsonLen))
	out = le.AppendUint32(out, glbChunkJSON)
	out = append(out, doc...)
	for i := len(doc); i < jsonLen; i++ {
		out = append(out, ' ')
	}

	if len(bin) > 0 {
		binLen := pad4(len(bin))
		out = le.AppendUint32(out, uint32(binLen))
		out = le.AppendUint32(out, glbChunkBIN)
		out = append(out, bin...)
		for i := len(bin); i < binLen; i++ {
			out = append(out, 0)
		}
	}
	return out
}

func pad4(n int) int {
	if r := n % 4; r != 0 {
		return n + 4 - r
	}
	return n
}
