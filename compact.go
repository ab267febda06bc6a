package meshsimplify

// Result compacts the engine's current working state into a public Mesh.
// Per-corner attribute-vertex indices are promoted into the new canonical
// position index: two triangle corners that still share a
// position but were never attribute-merged (e.g. across a smart-linked
// seam) are emitted as distinct output vertices, each keeping its own
// attribute record and a copy of its originating position. Surviving
// triangles are grouped back into exactly subMeshCount index streams, and
// surviving attribute-vertex ids are packed into a dense [0,n) range.
//
// Result does not mutate the engine; it may be called again (e.g. after a
// further DecimateTo call) to obtain a fresh snapshot.
func (e *Engine) Result() Mesh {
	live := e.liveTriangleIndices()

	remap := make(map[int32]int, e.vertices.Len())
	var denseToVA []int32
	for _, ti := range live {
		t := e.triangles.At(ti)
		for k := 0; k < 3; k++ {
			va := t.va[k]
			if _, ok := remap[va]; !ok {
				remap[va] = len(denseToVA)
				denseToVA = append(denseToVA, va)
			}
		}
	}

	positions := make([]Vec3d, len(denseToVA))
	for i, va := range denseToVA {
		positions[i] = e.vertices.At(int(va)).p
	}

	out := Mesh{Vertices: positions}
	out.Normals = e.exportNormals(denseToVA)
	out.Tangents = e.exportTangents(denseToVA)
	out.Colors = e.exportColors(denseToVA)
	out.BoneWeights = e.exportBoneWeights(denseToVA)
	for ch := 0; ch < 4; ch++ {
		out.UVChannels[ch] = e.exportUV(ch, denseToVA)
	}
	out.Indices = e.exportIndexStreams(remap, live)
	return out
}

// ToMesh is an alias for Result, provided for callers that prefer the verb
// matching Initialize's noun (Mesh in, Mesh out).
func (e *Engine) ToMesh() Mesh {
	return e.Result()
}

func (e *Engine) liveTriangleIndices() []int {
	live := make([]int, 0, e.triangles.Len())
	n := e.triangles.Len()
	for i := 0; i < n; i++ {
		if !e.triangles.At(i).deleted {
			live = append(live, i)
		}
	}
	return live
}

// exportIndexStreams rebuilds exactly subMeshCount index streams — one per
// original sub-mesh tag, in tag order, including an empty stream for a
// sub-mesh that lost every triangle — so the output sub-mesh count always
// equals the input sub-mesh count regardless of how decimation
// redistributed survivors.
func (e *Engine) exportIndexStreams(remap map[int32]int, live []int) [][]int {
	streams := make([][]int, e.subMeshCount)
	for _, ti := range live {
		t := e.triangles.At(ti)
		streams[t.subMesh] = append(streams[t.subMesh], remap[t.va[0]], remap[t.va[1]], remap[t.va[2]])
	}
	return streams
}

func (e *Engine) exportNormals(denseToVA []int32) []Vec3 {
	if !e.attrs.hasNormals {
		return nil
	}
	out := make([]Vec3, len(denseToVA))
	for i, a := range denseToVA {
		out[i] = *e.attrs.normals.At(int(a))
	}
	return out
}

func (e *Engine) exportTangents(denseToVA []int32) []Vec4 {
	if !e.attrs.hasTangents {
		return nil
	}
	out := make([]Vec4, len(denseToVA))
	for i, a := range denseToVA {
		out[i] = *e.attrs.tangents.At(int(a))
	}
	return out
}

func (e *Engine) exportColors(denseToVA []int32) []Vec4 {
	if !e.attrs.hasColors {
		return nil
	}
	out := make([]Vec4, len(denseToVA))
	for i, a := range denseToVA {
		out[i] = *e.attrs.colors.At(int(a))
	}
	return out
}

func (e *Engine) exportBoneWeights(denseToVA []int32) []BoneWeight {
	if !e.attrs.hasBW {
		return nil
	}
	out := make([]BoneWeight, len(denseToVA))
	for i, a := range denseToVA {
		out[i] = *e.attrs.boneWeights.At(int(a))
	}
	return out
}

func (e *Engine) exportUV(ch int, denseToVA []int32) []UV {
	if !e.attrs.hasUV[ch] {
		return nil
	}
	out := make([]UV, len(denseToVA))
	for i, a := range denseToVA {
		out[i] = *e.attrs.uv[ch].At(int(a))
	}
	return out
}
