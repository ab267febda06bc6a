package meshsimplify

import "fmt"

// Sentinel errors returned by Engine methods. Use errors.Is to test for
// these, and errors.As for the richer struct errors below.
var (
	// ErrInvalidArgument is returned for malformed call arguments: a
	// non-positive Aggressiveness passed to Configure, a negative target
	// triangle count, or a sub-mesh index stream whose length is not a
	// multiple of 3.
	ErrInvalidArgument = fmt.Errorf("meshsimplify: %w", errInvalidArgument)
	errInvalidArgument = fmt.Errorf("invalid argument")

	// ErrIndexOutOfRange is returned when a triangle index references a
	// vertex outside [0, vertexCount), or a sub-mesh lookup index is out of
	// range.
	ErrIndexOutOfRange = fmt.Errorf("meshsimplify: %w", errIndexOutOfRange)
	errIndexOutOfRange = fmt.Errorf("index out of range")

	// ErrAttributeLengthMismatch is the sentinel an *AttributeError unwraps
	// to. It is never returned by Initialize directly: a mismatched
	// attribute array is logged at SeverityWarning and dropped rather than
	// failing the call (see newAttributeSet).
	ErrAttributeLengthMismatch = fmt.Errorf("meshsimplify: %w", errAttributeLengthMismatch)
	errAttributeLengthMismatch = fmt.Errorf("attribute array length mismatch")

	// ErrUnsupportedAlgorithm is returned by Configure for an
	// Options.Algorithm value it doesn't recognise.
	ErrUnsupportedAlgorithm = fmt.Errorf("meshsimplify: %w", errUnsupportedAlgorithm)
	errUnsupportedAlgorithm = fmt.Errorf("unsupported algorithm")

	// ErrInternal signals an invariant violation detected by a debug-mode
	// assertion (see Options.Debug). It is never expected in release paths.
	ErrInternal = fmt.Errorf("meshsimplify: %w", errInternal)
	errInternal = fmt.Errorf("internal invariant violation")
)

// SubMeshError is returned when a sub-mesh index stream fails validation
// during Initialize. Sentinel is the sentinel error it unwraps to: either
// ErrInvalidArgument (malformed stream length) or ErrIndexOutOfRange (a
// vertex index the stream references does not exist).
type SubMeshError struct {
	SubMesh  int // index of the offending sub-mesh index stream
	Len      int // the stream's length
	Reason   string
	Sentinel error
}

func (e *SubMeshError) Error() string {
	return fmt.Sprintf("meshsimplify: sub-mesh %d (length %d): %s", e.SubMesh, e.Len, e.Reason)
}

func (e *SubMeshError) Unwrap() error {
	if e.Sentinel != nil {
		return e.Sentinel
	}
	return ErrInvalidArgument
}

// AttributeError names an attribute array that failed length validation
// and was dropped at ingest. Its formatted message is used in the
// SeverityWarning log line newAttributeSet emits for the drop.
type AttributeError struct {
	Attribute string // e.g. "normals", "uv[0]", "boneWeights"
	Got, Want int
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("meshsimplify: attribute %q has length %d, want %d", e.Attribute, e.Got, e.Want)
}

func (e *AttributeError) Unwrap() error {
	return ErrAttributeLengthMismatch
}
