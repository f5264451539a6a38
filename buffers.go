package gltf

import (
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// LoadBuffers fills Buffer.Data for every buffer of the document:
// the GLB binary chunk binds to the first URI-less buffer, data: URIs
// are decoded in place, and anything else goes through the file
// collaborator in opts. Buffers that already carry data are left
// alone, so callers may pre-install bytes from their own source.
func (d *Document) LoadBuffers(opts *Options) error {
	for i, b := range d.Buffers {
		if b.Data != nil {
			continue
		}
		switch {
		case b.URI == "":
			if i != 0 || d.bin == nil {
				return errors.Wrapf(ErrOptions, "buffers[%d] has no URI and no binary chunk to bind", i)
			}
			// The chunk may carry up to 3 bytes of alignment padding
			// beyond the declared length.
			if b.ByteLength > len(d.bin) {
				return errors.Wrapf(ErrContainer, "buffers[%d] byteLength %d exceeds binary chunk %d", i, b.ByteLength, len(d.bin))
			}
			b.Data = d.bin[:b.ByteLength]
		case strings.HasPrefix(b.URI, "data:"):
			data, err := decodeDataURI(b.URI)
			if err != nil {
				return errors.Wrapf(ErrDocument, "buffers[%d]: %v", i, err)
			}
			b.Data = data
		default:
			name, err := url.PathUnescape(b.URI)
			if err != nil {
				return errors.Wrapf(ErrDocument, "buffers[%d] uri %q: %v", i, b.URI, err)
			}
			data, err := opts.readFile(name)
			if err != nil {
				return err
			}
			b.Data = data
		}
		if len(b.Data) < b.ByteLength {
			return errors.Wrapf(ErrDocument, "buffers[%d] holds %d bytes, byteLength says %d", i, len(b.Data), b.ByteLength)
		}
	}
	return nil
}

func decodeDataURI(uri string) ([]byte, error) {
	comma := strings.IndexByte(uri, ',')
	if comma < 0 {
		return nil, errors.Wrap(ErrDocument, "data URI without payload separator")
	}
	meta, payload := uri[len("data:"):comma], uri[comma+1:]
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, errors.Wrapf(ErrDocument, "data URI base64: %v", err)
		}
		return data, nil
	}
	unescaped, err := url.PathUnescape(payload)
	if err != nil {
		return nil, errors.Wrapf(ErrDocument, "data URI escape: %v", err)
	}
	return []byte(unescaped), nil
}

// data returns the view's byte range: the extension-supplied override
// if one was installed, otherwise the slice of the owning buffer.
func (v *BufferView) data() ([]byte, error) {
	if v.override != nil {
		if len(v.override) < v.ByteLength {
			return nil, errors.Wrapf(ErrOptions, "bufferViews[%d] override holds %d bytes of %d", v.index, len(v.override), v.ByteLength)
		}
		return v.override[:v.ByteLength], nil
	}
	b := v.Buf()
	if b.Data == nil {
		return nil, errors.Wrapf(ErrOptions, "bufferViews[%d]: buffer %d not loaded", v.index, v.Buffer)
	}
	if v.ByteOffset+v.ByteLength > len(b.Data) {
		return nil, errors.Wrapf(ErrDocument, "bufferViews[%d] range %d+%d exceeds buffer %d", v.index, v.ByteOffset, v.ByteLength, len(b.Data))
	}
	return b.Data[v.ByteOffset : v.ByteOffset+v.ByteLength], nil
}
