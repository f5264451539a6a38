package gltf

import (
	"github.com/pkg/errors"
)

// Error kinds. Every error returned by this package wraps one of these,
// so callers can classify failures with errors.Is while the message
// carries the offending entity and field.
var (
	// ErrContainer marks a malformed GLB container (bad magic, chunk
	// layout or length fields).
	ErrContainer = errors.New("malformed container")

	// ErrDocument marks a structural mismatch between the JSON text and
	// the expected schema.
	ErrDocument = errors.New("malformed document")

	// ErrReference marks an index that does not resolve inside its
	// target sequence.
	ErrReference = errors.New("invalid reference")

	// ErrOptions marks a caller misconfiguration, such as an undersized
	// output slice or an unsupported read mode for the given accessor.
	ErrOptions = errors.New("invalid options")

	// ErrIO wraps a failure reported by the file collaborator.
	ErrIO = errors.New("i/o failure")

	// ErrVersion marks a pre-2.0 document or container.
	ErrVersion = errors.New("unsupported legacy version")
)
