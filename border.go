package meshsimplify

import "sort"

// classifyBorders marks every vertex's border flag by counting, per
// neighbouring vertex id, how many currently-live incident triangles share
// that edge. A neighbour co-occurring in exactly one incident triangle
// contributes a border edge.
func (e *Engine) classifyBorders() {
	neighborCount := make(map[int32]int, 8)
	n := e.vertices.Len()
	for vi := 0; vi < n; vi++ {
		v := e.vertices.At(vi)
		v.border = false
		if v.tcount == 0 {
			continue
		}
		for k := range neighborCount {
			delete(neighborCount, k)
		}
		for r := int32(0); r < v.tcount; r++ {
			ref := e.refs.At(int(v.tstart + r))
			t := e.triangles.At(int(ref.tid))
			if t.deleted {
				continue
			}
			for _, nb := range otherCorners(t, ref.corner) {
				neighborCount[nb]++
			}
		}
		for _, c := range neighborCount {
			if c == 1 {
				v.border = true
				break
			}
		}
	}
}

// otherCorners returns the other two position-vertex ids of t, given that
// corner is this vertex's own corner index within t.
func otherCorners(t *triangle, corner int8) [2]int32 {
	switch corner {
	case 0:
		return [2]int32{t.v[1], t.v[2]}
	case 1:
		return [2]int32{t.v[0], t.v[2]}
	default:
		return [2]int32{t.v[0], t.v[1]}
	}
}

// smartLink merges border vertices whose positions fall within
// VertexLinkDistanceSqr of one another: every triangle corner referencing
// the consumed vertex is rewritten to the surviving one, the survivor's
// border flag is cleared, and adjacency is rebuilt once at the end.
func (e *Engine) smartLink() {
	var borderVerts []int32
	n := e.vertices.Len()
	for vi := 0; vi < n; vi++ {
		if e.vertices.At(vi).border {
			borderVerts = append(borderVerts, int32(vi))
		}
	}
	if len(borderVerts) < 2 {
		return
	}

	consumed := make(map[int32]bool, len(borderVerts))
	threshold := e.opts.VertexLinkDistanceSqr

	for ai := 0; ai < len(borderVerts); ai++ {
		a := borderVerts[ai]
		if consumed[a] {
			continue
		}
		av := e.vertices.At(int(a))
		for bi := ai + 1; bi < len(borderVerts); bi++ {
			b := borderVerts[bi]
			if consumed[b] || b == a {
				continue
			}
			bv := e.vertices.At(int(b))
			if av.p.DistSqr(bv.p) > threshold {
				continue
			}
			e.retargetVertex(b, a)
			av.border = false
			consumed[b] = true
		}
	}

	if len(consumed) > 0 {
		e.rebuildReferences()
	}
}

// retargetVertex rewrites every live triangle corner currently referencing
// from to reference to instead. Attribute indices are left untouched: the
// divergence they create from the position merge is the intended
// attribute seam.
func (e *Engine) retargetVertex(from, to int32) {
	n := e.triangles.Len()
	for ti := 0; ti < n; ti++ {
		t := e.triangles.At(ti)
		if t.deleted {
			continue
		}
		for k := 0; k < 3; k++ {
			if t.v[k] == from {
				t.v[k] = to
			}
		}
	}
}

// markLegacyLinked flags vertices that share an exact (within tolerance)
// position with at least one other vertex, reproducing the older
// keep-linked-vertices collapse guard. Never called when smart link is
// enabled.
func (e *Engine) markLegacyLinked() {
	type posKey struct{ x, y, z int64 }
	const scale = 1e6
	groups := make(map[posKey][]int32)
	n := e.vertices.Len()
	for vi := 0; vi < n; vi++ {
		p := e.vertices.At(vi).p
		key := posKey{
			x: int64(p.X * scale),
			y: int64(p.Y * scale),
			z: int64(p.Z * scale),
		}
		groups[key] = append(groups[key], int32(vi))
	}
	keys := make([]posKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].x != keys[j].x {
			return keys[i].x < keys[j].x
		}
		if keys[i].y != keys[j].y {
			return keys[i].y < keys[j].y
		}
		return keys[i].z < keys[j].z
	})
	for _, k := range keys {
		members := groups[k]
		if len(members) < 2 {
			continue
		}
		for _, vi := range members {
			e.vertices.At(int(vi)).linked = true
		}
	}
}
