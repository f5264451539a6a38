package gltf

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Options carries the host collaborators the codec calls out to.
// A nil *Options or a nil field selects the os-backed default. The
// same Options value is threaded into every entry point that needs
// it; the package keeps no ambient state, so documents loaded with
// different host policies coexist safely.
type Options struct {
	// ReadFile loads the bytes behind a buffer or image URI. Paths are
	// resolved against BasePath before the call.
	ReadFile func(name string) ([]byte, error)

	// BasePath anchors relative URIs, typically the directory of the
	// source file. Open sets it automatically.
	BasePath string
}

func (o *Options) readFile(name string) ([]byte, error) {
	read := os.ReadFile
	base := ""
	if o != nil {
		if o.ReadFile != nil {
			read = o.ReadFile
		}
		base = o.BasePath
	}
	if base != "" && !filepath.IsAbs(name) {
		name = filepath.Join(base, name)
	}
	b, err := read(name)
	if err != nil {
		return nil, errors.Wrapf(ErrIO, "read %q: %v", name, err)
	}
	return b, nil
}

// Decode parses data as either JSON text or a GLB container and
// resolves the graph. Buffer payloads are not loaded; call
// LoadBuffers for that. On any failure no document is returned.
func Decode(data []byte, opts *Options) (*Document, error) {
	body := data
	for len(body) > 0 && (body[0] == ' ' || body[0] == '\t' || body[0] == '\r' || body[0] == '\n') {
		body = body[1:]
	}
	var bin []byte
	switch {
	case len(body) >= 4 && string(body[:4]) == glbMagic:
		var err error
		if body, bin, err = glbUnpack(body); err != nil {
			return nil, err
		}
	case len(body) > 0 && body[0] == '{':
	default:
		return nil, errors.Wrap(ErrContainer, "input is neither JSON text nor GLB")
	}

	d := &Document{}
	if err := json.Unmarshal(body, d); err != nil {
		return nil, errors.Wrapf(ErrDocument, "%v", err)
	}
	d.bin = bin

	if err := checkVersion(d.Asset.Version); err != nil {
		return nil, err
	}
	if err := d.resolve(); err != nil {
		return nil, err
	}
	return d, nil
}

// Open reads path, decodes it and loads all buffers, resolving
// relative URIs against the file's directory.
func Open(path string, opts *Options) (*Document, error) {
	o := Options{}
	if opts != nil {
		o = *opts
	}
	if o.BasePath == "" {
		o.BasePath = filepath.Dir(path)
	}
	data, err := (&Options{ReadFile: o.ReadFile}).readFile(path)
	if err != nil {
		return nil, err
	}
	d, err := Decode(data, &o)
	if err != nil {
		return nil, err
	}
	if err := d.LoadBuffers(&o); err != nil {
		return nil, err
	}
	return d, nil
}

func checkVersion(version string) error {
	if version == "" {
		// Left to the validator, which reports the missing field.
		return nil
	}
	major := version
	if i := strings.IndexByte(version, '.'); i >= 0 {
		major = version[:i]
	}
	if v, err := strconv.Atoi(major); err == nil && v < 2 {
		return errors.Wrapf(ErrVersion, "asset version %s", version)
	}
	return nil
}
