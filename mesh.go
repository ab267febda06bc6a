package meshsimplify

// BoneWeight is a skinning record: up to four (boneID, weight) pairs,
// conventionally held in descending weight order and summing to 1 (not
// enforced on input — Initialize accepts whatever the importer produced).
type BoneWeight struct {
	BoneIDs [4]int32
	Weights [4]float32
}

// UV holds a texture coordinate of 2, 3, or 4 components. Components
// records how many of X/Y/Z/W are meaningful; the rest are zero.
type UV struct {
	Components int8
	X, Y, Z, W float32
}

// Mesh is the data-transfer object consumed by Initialize and produced by
// Result/ToMesh. All attribute slices are optional (nil means "not
// supplied") but, when present, must have one entry per vertex.
type Mesh struct {
	// Vertices holds one double-precision position per position-vertex.
	Vertices []Vec3d

	// Indices holds one flat triangle-index stream per sub-mesh. Each
	// inner slice's length must be a multiple of 3.
	Indices [][]int

	// Normals, Tangents, Colors, BoneWeights, and UVChannels are optional
	// per-vertex attribute arrays, indexed by attribute-vertex index (which
	// coincides with position-vertex index at ingest, but may diverge
	// triangle-by-triangle after collapses to preserve attribute seams).
	Normals     []Vec3
	Tangents    []Vec4
	Colors      []Vec4
	BoneWeights []BoneWeight
	UVChannels  [4][]UV
}

// TriangleCount returns the total number of triangles across every
// sub-mesh index stream.
func (m Mesh) TriangleCount() int {
	n := 0
	for _, idx := range m.Indices {
		n += len(idx) / 3
	}
	return n
}

// SubMeshCount returns the number of sub-mesh index streams.
func (m Mesh) SubMeshCount() int {
	return len(m.Indices)
}

// SubMesh returns the k-th sub-mesh's flat triangle-index stream. It
// returns ErrIndexOutOfRange when k is outside [0, SubMeshCount()).
func (m Mesh) SubMesh(k int) ([]int, error) {
	if k < 0 || k >= len(m.Indices) {
		return nil, ErrIndexOutOfRange
	}
	return m.Indices[k], nil
}
