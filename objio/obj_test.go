package objio_test

import (
	"strings"
	"testing"

	"github.com/mirstar13/meshsimplify"
	"github.com/mirstar13/meshsimplify/objio"
)

const triangleOBJ = `
# a single triangle
v 0.0 0.0 0.0
v 1.0 0.0 0.0
v 0.0 1.0 0.0
f 1 2 3
`

func TestReadSingleTriangle(t *testing.T) {
	m, _, err := objio.Read(strings.NewReader(triangleOBJ))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(m.Vertices) != 3 {
		t.Fatalf("expected 3 vertices, got %d", len(m.Vertices))
	}
	if m.TriangleCount() != 1 {
		t.Fatalf("expected 1 triangle, got %d", m.TriangleCount())
	}
}

func TestReadTriangulatesQuadFace(t *testing.T) {
	const quad = `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`
	m, _, err := objio.Read(strings.NewReader(quad))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if m.TriangleCount() != 2 {
		t.Fatalf("expected fan triangulation to yield 2 triangles, got %d", m.TriangleCount())
	}
}

func TestReadRejectsOutOfRangeIndex(t *testing.T) {
	const bad = `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 9
`
	if _, _, err := objio.Read(strings.NewReader(bad)); err == nil {
		t.Fatal("expected an error for an out-of-range face index")
	}
}

// TestWriteReadRoundTrip checks the OBJ round-trip property: writing a
// Mesh and reading it back yields the same vertex count and triangle
// count, since the corners share no attributes here and so intern 1:1.
func TestWriteReadRoundTrip(t *testing.T) {
	original := meshsimplify.Mesh{
		Vertices: []meshsimplify.Vec3d{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
			{X: 1, Y: 1, Z: 0},
		},
		Indices: [][]int{{0, 1, 2, 1, 3, 2}},
	}

	var buf strings.Builder
	if err := objio.Write(&buf, original, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}

	roundTripped, _, err := objio.Read(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if len(roundTripped.Vertices) != len(original.Vertices) {
		t.Fatalf("vertex count changed: got %d, want %d", len(roundTripped.Vertices), len(original.Vertices))
	}
	if roundTripped.TriangleCount() != original.TriangleCount() {
		t.Fatalf("triangle count changed: got %d, want %d", roundTripped.TriangleCount(), original.TriangleCount())
	}
	for i, v := range original.Vertices {
		got := roundTripped.Vertices[i]
		if got.DistSqr(v) > 1e-9 {
			t.Fatalf("vertex %d drifted: got %+v, want %+v", i, got, v)
		}
	}
}

func TestWriteMultipleSubMeshesEmitsGroups(t *testing.T) {
	m := meshsimplify.Mesh{
		Vertices: []meshsimplify.Vec3d{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0},
			{X: 10, Y: 0, Z: 0}, {X: 11, Y: 0, Z: 0}, {X: 10, Y: 1, Z: 0},
		},
		Indices: [][]int{{0, 1, 2}, {3, 4, 5}},
	}
	var buf strings.Builder
	if err := objio.Write(&buf, m, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if strings.Count(out, "g submesh") != 2 {
		t.Fatalf("expected two sub-mesh groups, got:\n%s", out)
	}
}

// TestUsemtlSplitsSubMeshAndIsReturned checks that a "usemtl" directive
// mid-file both starts a new sub-mesh stream and surfaces the material
// name in the returned SubMeshMaterial slice, aligned with Mesh.Indices.
func TestUsemtlSplitsSubMeshAndIsReturned(t *testing.T) {
	const withMaterial = `
v 0 0 0
v 1 0 0
v 0 1 0
v 10 0 0
v 11 0 0
v 10 1 0
usemtl red
f 1 2 3
usemtl blue
f 4 5 6
`
	m, mats, err := objio.Read(strings.NewReader(withMaterial))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(m.Indices) != 2 {
		t.Fatalf("expected usemtl to split into 2 sub-meshes, got %d", len(m.Indices))
	}
	if len(mats) != len(m.Indices) {
		t.Fatalf("expected one SubMeshMaterial per sub-mesh, got %d for %d sub-meshes", len(mats), len(m.Indices))
	}
	if mats[0].Name != "red" || mats[1].Name != "blue" {
		t.Fatalf("expected material names [red blue], got %+v", mats)
	}
}

// TestWriteReadMaterialRoundTrip checks that writing a mesh with named
// materials through WriteFile and reading it back via ReadFile resolves
// the Kd color written into the sibling MTL file.
func TestWriteReadMaterialRoundTrip(t *testing.T) {
	dir := t.TempDir()
	objPath := dir + "/mesh.obj"

	m := meshsimplify.Mesh{
		Vertices: []meshsimplify.Vec3d{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0},
		},
		Indices: [][]int{{0, 1, 2}},
	}
	mats := []objio.SubMeshMaterial{
		{Name: "red", DiffuseColor: [3]float32{1, 0, 0}},
	}

	if err := objio.WriteFile(objPath, m, mats); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	roundTripped, roundMats, err := objio.ReadFile(objPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if roundTripped.TriangleCount() != m.TriangleCount() {
		t.Fatalf("triangle count changed: got %d, want %d", roundTripped.TriangleCount(), m.TriangleCount())
	}
	if len(roundMats) != 1 || roundMats[0].Name != "red" {
		t.Fatalf("expected one resolved material named red, got %+v", roundMats)
	}
	if roundMats[0].DiffuseColor[0] != 1 {
		t.Fatalf("expected Kd resolved from the sibling MTL file, got %+v", roundMats[0])
	}
}
