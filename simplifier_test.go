package meshsimplify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// planeGridMesh returns a flat (n+1)x(n+1) vertex grid of unit quads in the
// XY plane, each split into two triangles, all in one sub-mesh. It is
// planar and coplanar-adjacent enough that aggressive target decimation
// can legally collapse it down to very few triangles without violating the
// flip-avoidance guard.
func planeGridMesh(n int) Mesh {
	var verts []Vec3d
	for y := 0; y <= n; y++ {
		for x := 0; x <= n; x++ {
			verts = append(verts, Vec3d{X: float64(x), Y: float64(y), Z: 0})
		}
	}
	idxAt := func(x, y int) int { return y*(n+1) + x }
	var idx []int
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			a := idxAt(x, y)
			b := idxAt(x+1, y)
			c := idxAt(x+1, y+1)
			d := idxAt(x, y+1)
			idx = append(idx, a, b, c, a, c, d)
		}
	}
	return Mesh{Vertices: verts, Indices: [][]int{idx}}
}

// twoSubMeshMesh returns two disjoint single triangles in separate
// sub-meshes, for exercising sub-mesh-tag preservation (P5).
func twoSubMeshMesh() Mesh {
	return Mesh{
		Vertices: []Vec3d{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0},
			{X: 10, Y: 0, Z: 0}, {X: 11, Y: 0, Z: 0}, {X: 10, Y: 1, Z: 0},
		},
		Indices: [][]int{
			{0, 1, 2},
			{3, 4, 5},
		},
	}
}

type EngineSuite struct {
	suite.Suite
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) TestInitializeRejectsOddIndexStream() {
	e := New()
	m := Mesh{Vertices: []Vec3d{{}, {}, {}}, Indices: [][]int{{0, 1}}}
	err := e.Initialize(m)
	require.Error(s.T(), err)
	var subErr *SubMeshError
	require.True(s.T(), errors.As(err, &subErr))
	require.True(s.T(), errors.Is(err, ErrInvalidArgument))
}

func (s *EngineSuite) TestInitializeRejectsOutOfRangeIndex() {
	e := New()
	m := Mesh{Vertices: []Vec3d{{}, {}, {}}, Indices: [][]int{{0, 1, 5}}}
	err := e.Initialize(m)
	require.Error(s.T(), err)
	require.True(s.T(), errors.Is(err, ErrIndexOutOfRange))
}

// TestInitializeDropsAttributeMismatchRatherThanFailing checks that a
// mismatched attribute array is a warning, not a hard failure — Initialize
// still succeeds, and the bad array is simply absent from the working
// state afterward.
func (s *EngineSuite) TestInitializeDropsAttributeMismatchRatherThanFailing() {
	e := New()
	m := quadMesh()
	m.Normals = make([]Vec3, 1)
	err := e.Initialize(m)
	require.NoError(s.T(), err)
	require.False(s.T(), e.attrs.hasNormals)
}

func (s *EngineSuite) TestConfigureRejectsUnknownAlgorithm() {
	e := New()
	err := e.Configure(Options{Algorithm: "nonsense", Aggressiveness: 1})
	require.True(s.T(), errors.Is(err, ErrUnsupportedAlgorithm))
}

func (s *EngineSuite) TestConfigureRejectsNonPositiveAggressiveness() {
	e := New()
	err := e.Configure(Options{Aggressiveness: 0})
	require.True(s.T(), errors.Is(err, ErrInvalidArgument))
}

// TestDecimateToNeverExceedsOriginal checks P3: live triangles never grow,
// and after DecimateTo(target), live triangles <= original.
func (s *EngineSuite) TestDecimateToNeverExceedsOriginal() {
	e := New()
	m := planeGridMesh(6)
	require.NoError(s.T(), e.Initialize(m))
	original := e.liveTriangles

	require.NoError(s.T(), e.DecimateTo(8))
	require.LessOrEqual(s.T(), e.liveTriangles, original)

	result := e.Result()
	require.LessOrEqual(s.T(), result.TriangleCount(), original)
}

// TestDecimateToReducesTriangleCount exercises the common case: a large
// flat grid aggressively collapses toward the requested target.
func (s *EngineSuite) TestDecimateToReducesTriangleCount() {
	e := New()
	m := planeGridMesh(8)
	require.NoError(s.T(), e.Initialize(m))
	original := e.liveTriangles

	require.NoError(s.T(), e.DecimateTo(4))
	require.Less(s.T(), e.liveTriangles, original)
}

// TestNoDegenerateTriangleSurvives checks P4: no surviving triangle has two
// equal corner indices.
func (s *EngineSuite) TestNoDegenerateTriangleSurvives() {
	e := New()
	require.NoError(s.T(), e.Initialize(planeGridMesh(6)))
	require.NoError(s.T(), e.DecimateTo(2))

	result := e.Result()
	for _, idx := range result.Indices {
		for i := 0; i+2 < len(idx); i += 3 {
			a, b, c := idx[i], idx[i+1], idx[i+2]
			require.False(s.T(), a == b || b == c || a == c, "degenerate triangle (%d,%d,%d)", a, b, c)
		}
	}
}

// TestSubMeshTagsPreserved checks P5: output sub-mesh count equals input
// sub-mesh count, even when decimation removes every triangle of every
// sub-mesh and each output stream is empty.
func (s *EngineSuite) TestSubMeshTagsPreserved() {
	e := New()
	m := twoSubMeshMesh()
	require.NoError(s.T(), e.Initialize(m))
	require.NoError(s.T(), e.DecimateTo(0))

	result := e.Result()
	require.Equal(s.T(), m.SubMeshCount(), result.SubMeshCount())
}

// TestAttributeArraysStayCoherent checks P6: every present attribute
// array's length equals the output vertex count after Result.
func (s *EngineSuite) TestAttributeArraysStayCoherent() {
	e := New()
	m := planeGridMesh(6)
	m.Normals = make([]Vec3, len(m.Vertices))
	for i := range m.Normals {
		m.Normals[i] = Vec3{Z: 1}
	}
	require.NoError(s.T(), e.Initialize(m))
	require.NoError(s.T(), e.DecimateTo(4))

	result := e.Result()
	require.Equal(s.T(), len(result.Vertices), len(result.Normals))
}

// TestPreserveBordersKeepsBoundaryEdges checks P7 for a simple case: with
// PreserveBorders set, the outer boundary of a flat grid survives even
// after aggressive interior decimation.
func (s *EngineSuite) TestPreserveBordersKeepsBoundaryEdges() {
	e := New()
	opts := DefaultOptions()
	opts.PreserveBorders = true
	opts.EnableSmartLink = false
	require.NoError(s.T(), e.Configure(opts))
	m := planeGridMesh(6)
	require.NoError(s.T(), e.Initialize(m))

	before := boundaryEdgeCount(m)
	require.NoError(s.T(), e.DecimateTo(2))
	after := boundaryEdgeCount(e.Result())

	require.Equal(s.T(), before, after)
}

// TestLosslessIdempotent checks P8: a second DecimateLossless call
// immediately after the first removes zero triangles.
func (s *EngineSuite) TestLosslessIdempotent() {
	e := New()
	require.NoError(s.T(), e.Initialize(planeGridMesh(5)))
	require.NoError(s.T(), e.DecimateLossless())
	afterFirst := e.liveTriangles

	require.NoError(s.T(), e.DecimateLossless())
	require.Equal(s.T(), afterFirst, e.liveTriangles)
}

// TestQuadricSymmetryAtInit checks P9: immediately after pass-0 analysis,
// each vertex's quadric evaluated at its own position is ~0, since the
// vertex lies on every incident triangle's plane.
func (s *EngineSuite) TestQuadricSymmetryAtInit() {
	e := New()
	require.NoError(s.T(), e.Initialize(planeGridMesh(4)))
	e.updateMesh(true)

	n := e.vertices.Len()
	for i := 0; i < n; i++ {
		v := e.vertices.At(i)
		err := v.q.errorAt(v.p.X, v.p.Y, v.p.Z)
		require.InDelta(s.T(), 0, err, 1e-6)
	}
}

// TestDebugAssertionsPassOnValidRun exercises the Options.Debug invariant
// checks across a full decimation run and confirms they never panic against
// a correctly maintained adjacency/triangle state.
func (s *EngineSuite) TestDebugAssertionsPassOnValidRun() {
	e := New()
	opts := DefaultOptions()
	opts.Debug = true
	require.NoError(s.T(), e.Configure(opts))
	require.NoError(s.T(), e.Initialize(planeGridMesh(6)))
	require.NotPanics(s.T(), func() {
		require.NoError(s.T(), e.DecimateTo(4))
	})
}

// boundaryEdgeCount counts edges that appear in exactly one triangle of m's
// single sub-mesh, as an (index, index) unordered pair.
func boundaryEdgeCount(m Mesh) int {
	type edge struct{ a, b int }
	norm := func(a, b int) edge {
		if a > b {
			a, b = b, a
		}
		return edge{a, b}
	}
	counts := make(map[edge]int)
	for _, idx := range m.Indices {
		for i := 0; i+2 < len(idx); i += 3 {
			a, b, c := idx[i], idx[i+1], idx[i+2]
			counts[norm(a, b)]++
			counts[norm(b, c)]++
			counts[norm(c, a)]++
		}
	}
	n := 0
	for _, c := range counts {
		if c == 1 {
			n++
		}
	}
	return n
}
