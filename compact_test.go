package meshsimplify

import (
	"errors"
	"testing"
)

func TestResultHasNoTombstonedTriangles(t *testing.T) {
	e := newTestEngine(t, planeGridMesh(4))
	if err := e.DecimateTo(4); err != nil {
		t.Fatalf("DecimateTo: %v", err)
	}
	result := e.Result()
	if result.TriangleCount() != e.liveTriangles {
		t.Fatalf("Result triangle count %d does not match live count %d", result.TriangleCount(), e.liveTriangles)
	}
}

func TestResultVertexIndicesAreDense(t *testing.T) {
	e := newTestEngine(t, planeGridMesh(4))
	if err := e.DecimateTo(4); err != nil {
		t.Fatalf("DecimateTo: %v", err)
	}
	result := e.Result()
	seen := make([]bool, len(result.Vertices))
	for _, idx := range result.Indices {
		for _, vi := range idx {
			if vi < 0 || vi >= len(result.Vertices) {
				t.Fatalf("index %d out of range for %d vertices", vi, len(result.Vertices))
			}
			seen[vi] = true
		}
	}
	for vi, s := range seen {
		if !s {
			t.Fatalf("vertex %d is never referenced by a surviving triangle", vi)
		}
	}
}

func TestResultOnUntouchedMeshRoundTripsPositions(t *testing.T) {
	m := quadMesh()
	e := newTestEngine(t, m)
	result := e.Result()

	if len(result.Vertices) != len(m.Vertices) {
		t.Fatalf("expected %d vertices before any decimation, got %d", len(m.Vertices), len(result.Vertices))
	}
	if result.TriangleCount() != m.TriangleCount() {
		t.Fatalf("expected %d triangles before any decimation, got %d", m.TriangleCount(), result.TriangleCount())
	}
	for i, v := range m.Vertices {
		if result.Vertices[i] != v {
			t.Fatalf("vertex %d position changed: got %+v, want %+v", i, result.Vertices[i], v)
		}
	}
}

func TestResultSubMeshReturnsStream(t *testing.T) {
	m := twoSubMeshMesh()
	e := newTestEngine(t, m)
	result := e.Result()

	idx, err := result.SubMesh(1)
	if err != nil {
		t.Fatalf("SubMesh(1): unexpected error %v", err)
	}
	if len(idx) == 0 {
		t.Fatalf("expected sub-mesh 1 to carry triangles, got none")
	}
}

func TestResultSubMeshRejectsOutOfRangeIndex(t *testing.T) {
	result := quadMesh()
	if _, err := result.SubMesh(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("SubMesh(-1): expected ErrIndexOutOfRange, got %v", err)
	}
	if _, err := result.SubMesh(result.SubMeshCount()); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("SubMesh(%d): expected ErrIndexOutOfRange, got %v", result.SubMeshCount(), err)
	}
}
