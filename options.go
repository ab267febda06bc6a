package meshsimplify

// ProgressEvent is reported once before each simplification pass.
//
//   - Iteration counts passes from 0.
//   - OriginalTriangles is constant for the run.
//   - CurrentTriangles is monotonically non-increasing.
//   - TargetTriangles is -1 in lossless mode, else the value passed to
//     DecimateTo, clamped to the live triangle count at the start of the
//     call.
type ProgressEvent struct {
	Iteration         int
	OriginalTriangles int
	CurrentTriangles  int
	TargetTriangles   int
}

// ProgressFunc observes progress events. It must not mutate the Engine
// that invokes it — treat the engine as read-only for the
// duration of the call.
type ProgressFunc func(ProgressEvent)

// AlgorithmQuadric selects the only currently implemented collapse
// strategy (quadric-error-metric edge collapse). Configure treats an empty
// Options.Algorithm as this value and rejects every other value; the
// field exists so a future second strategy has somewhere to plug in
// without breaking Configure's signature.
const AlgorithmQuadric = "quadric"

// Options configures an Engine. Use DefaultOptions to obtain a value with
// the documented defaults, then override individual fields.
type Options struct {
	// Algorithm selects the collapse strategy. Empty is equivalent to
	// AlgorithmQuadric. Configure rejects any other value with
	// ErrUnsupportedAlgorithm.
	Algorithm string

	// Aggressiveness is the exponent in the per-pass error threshold
	// schedule (threshold_k = 1e-9 * (k+3)^Aggressiveness). Since the base
	// k+3 is at least 3, higher values raise every pass's threshold, so
	// more edges qualify for collapse in each pass. Default 7.0.
	Aggressiveness float64

	// PreserveBorders disables collapsing any edge with at least one
	// border endpoint. Default false.
	PreserveBorders bool

	// EnableSmartLink merges border vertices whose positions fall within
	// VertexLinkDistanceSqr of one another during initial analysis,
	// closing cracks between topologically split but geometrically
	// coincident geometry. Default true. When enabled, it always takes
	// precedence over LegacyKeepLinkedVertices (see that field).
	EnableSmartLink bool

	// VertexLinkDistanceSqr is the squared distance threshold used by
	// EnableSmartLink. Default is machine epsilon.
	VertexLinkDistanceSqr float64

	// LegacyKeepLinkedVertices reproduces the older keep-linked-vertices
	// collapse guard, retained only for backward-compatible construction.
	// It has no effect whenever EnableSmartLink is true — the two
	// coincident-vertex strategies are never combined.
	LegacyKeepLinkedVertices bool

	// MaxVertexCount, if nonzero, is an additional termination condition:
	// a target-mode pass loop stops early only once the triangle target is
	// reached and the number of remaining (non-collapsed) vertices is also
	// below this count. It never ends the loop before the triangle target
	// is reached.
	MaxVertexCount int

	// Verbose enables periodic progress log lines through the process-wide
	// log sink (see SetLogSink), in addition to any registered
	// OnProgress callbacks.
	Verbose bool

	// Debug enables invariant assertions (adjacency consistency after each
	// reference rebuild, and no live triangle referencing a vertex removed
	// by a collapse) that panic with ErrInternal on violation. Never enable
	// in a release build; it exists for this package's own tests.
	Debug bool
}

// DefaultOptions returns the documented default configuration.
func DefaultOptions() Options {
	return Options{
		Algorithm:                AlgorithmQuadric,
		Aggressiveness:           7.0,
		PreserveBorders:          false,
		EnableSmartLink:          true,
		VertexLinkDistanceSqr:    epsilonSqr,
		LegacyKeepLinkedVertices: false,
		MaxVertexCount:           0,
		Verbose:                  false,
		Debug:                    false,
	}
}

// epsilonSqr approximates machine epsilon for float64, used as the
// default VertexLinkDistanceSqr.
const epsilonSqr = 2.220446049250313e-16
