package meshsimplify

import "testing"

// quadMesh returns a single-submesh two-triangle quad in the XY plane,
// split along its diagonal (0,1,2) / (0,2,3).
func quadMesh() Mesh {
	return Mesh{
		Vertices: []Vec3d{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 1, Y: 1, Z: 0},
			{X: 0, Y: 1, Z: 0},
		},
		Indices: [][]int{{0, 1, 2, 0, 2, 3}},
	}
}

func newTestEngine(t *testing.T, m Mesh) *Engine {
	t.Helper()
	e := New()
	if err := e.Initialize(m); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return e
}

func TestClassifyBordersQuad(t *testing.T) {
	e := newTestEngine(t, quadMesh())
	e.rebuildReferences()
	e.classifyBorders()

	// In the split quad, every one of the four corners touches two boundary
	// edges (the diagonal is shared, the four outer sides are not).
	for vi := 0; vi < e.vertices.Len(); vi++ {
		if !e.vertices.At(vi).border {
			t.Fatalf("expected vertex %d to be a border vertex in a two-triangle quad", vi)
		}
	}
}

func TestClassifyBordersClosedTetrahedron(t *testing.T) {
	m := Mesh{
		Vertices: []Vec3d{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1},
		},
		Indices: [][]int{{
			0, 1, 2,
			0, 1, 3,
			0, 2, 3,
			1, 2, 3,
		}},
	}
	e := newTestEngine(t, m)
	e.rebuildReferences()
	e.classifyBorders()

	for vi := 0; vi < e.vertices.Len(); vi++ {
		if e.vertices.At(vi).border {
			t.Fatalf("expected no border vertices on a closed tetrahedron, vertex %d was marked", vi)
		}
	}
}

func TestSmartLinkMergesCoincidentBorderVertices(t *testing.T) {
	// Two separate triangles that share an edge only geometrically, not by
	// index: vertices 3 and 4 sit at the same two positions as vertices 1
	// and 0, the shared edge of the first triangle.
	m := Mesh{
		Vertices: []Vec3d{
			{X: 0, Y: 0, Z: 0}, // 0
			{X: 1, Y: 0, Z: 0}, // 1
			{X: 0, Y: 1, Z: 0}, // 2
			{X: 1, Y: 0, Z: 0}, // 3 == vertex 1's position
			{X: 0, Y: 0, Z: 0}, // 4 == vertex 0's position
			{X: 0, Y: -1, Z: 0}, // 5
		},
		Indices: [][]int{{
			0, 1, 2,
			3, 5, 4,
		}},
	}
	e := newTestEngine(t, m)
	e.opts.VertexLinkDistanceSqr = 1e-12
	e.rebuildReferences()
	e.classifyBorders()
	e.smartLink()

	// After linking, triangle 1's corners that referenced vertices 3 and 4
	// must now point at 1 and 0 (or vice versa, whichever survived), so the
	// two triangles become adjacent along a shared index edge.
	t0 := e.triangles.At(0)
	t1 := e.triangles.At(1)
	shared := 0
	for _, a := range t0.v {
		for _, b := range t1.v {
			if a == b {
				shared++
			}
		}
	}
	if shared < 2 {
		t.Fatalf("expected smart link to produce a shared edge (>=2 shared corners), got %d", shared)
	}
}
