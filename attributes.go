package meshsimplify

// attributeSet holds the parallel attribute arrays for one simplification
// run, indexed by attribute-vertex index. Attribute-vertex index shares
// its index space with position-vertex index (both run over the same
// growBuffer-backed range) but the two can diverge in what they *mean*:
// after a collapse, a surviving triangle corner's attribute index may
// still reference an attribute record minted for a vertex id that is no
// longer live as a position ("attribute seams").
//
// Each array is present/absent as a whole: a nil Normals slice on ingest
// means no vertex carries normals, not "some do, some don't".
type attributeSet struct {
	normals     growBuffer[Vec3]
	hasNormals  bool
	tangents    growBuffer[Vec4]
	hasTangents bool
	colors      growBuffer[Vec4]
	hasColors   bool
	boneWeights growBuffer[BoneWeight]
	hasBW       bool
	uv          [4]growBuffer[UV]
	hasUV       [4]bool
}

// newAttributeSet builds the working attribute arrays from m. A mismatched
// attribute array's length is never a hard failure: it is logged as a
// warning and the array is dropped (treated as if the caller never
// supplied it), so a mesh with partial or malformed auxiliary data still
// simplifies on its positions and topology alone.
func newAttributeSet(m Mesh) attributeSet {
	n := len(m.Vertices)
	var a attributeSet

	if m.Normals != nil {
		if len(m.Normals) != n {
			warnAttributeDropped("normals", len(m.Normals), n)
		} else {
			a.hasNormals = true
			a.normals = newGrowBuffer[Vec3](n)
			copy(a.normals.Slice(), m.Normals)
		}
	}
	if m.Tangents != nil {
		if len(m.Tangents) != n {
			warnAttributeDropped("tangents", len(m.Tangents), n)
		} else {
			a.hasTangents = true
			a.tangents = newGrowBuffer[Vec4](n)
			copy(a.tangents.Slice(), m.Tangents)
		}
	}
	if m.Colors != nil {
		if len(m.Colors) != n {
			warnAttributeDropped("colors", len(m.Colors), n)
		} else {
			a.hasColors = true
			a.colors = newGrowBuffer[Vec4](n)
			copy(a.colors.Slice(), m.Colors)
		}
	}
	if m.BoneWeights != nil {
		if len(m.BoneWeights) != n {
			warnAttributeDropped("boneWeights", len(m.BoneWeights), n)
		} else {
			a.hasBW = true
			a.boneWeights = newGrowBuffer[BoneWeight](n)
			copy(a.boneWeights.Slice(), m.BoneWeights)
		}
	}
	for ch := 0; ch < 4; ch++ {
		uv := m.UVChannels[ch]
		if uv == nil {
			continue
		}
		if len(uv) != n {
			warnAttributeDropped(uvChannelName(ch), len(uv), n)
			continue
		}
		a.hasUV[ch] = true
		a.uv[ch] = newGrowBuffer[UV](n)
		copy(a.uv[ch].Slice(), uv)
	}
	return a
}

// warnAttributeDropped logs, at SeverityWarning, that an attribute array
// was dropped at ingest because its length didn't match the vertex count.
// The message is formatted via AttributeError so its Error() rendering
// stays the single source of truth for this wording, even though the
// value itself is never returned as an error from Initialize.
func warnAttributeDropped(attribute string, got, want int) {
	logLine(SeverityWarning, (&AttributeError{Attribute: attribute, Got: got, Want: want}).Error())
}

func uvChannelName(ch int) string {
	switch ch {
	case 0:
		return "uv[0]"
	case 1:
		return "uv[1]"
	case 2:
		return "uv[2]"
	default:
		return "uv[3]"
	}
}

// move overwrites dst's attribute record with src's (Move mode): the
// attribute record at the attribute-vertex index of i1's corner replaces
// the one at i0's corner verbatim, rather than being blended with it.
func (a *attributeSet) move(dst, src int) {
	if a.hasNormals {
		*a.normals.At(dst) = *a.normals.At(src)
	}
	if a.hasTangents {
		*a.tangents.At(dst) = *a.tangents.At(src)
	}
	if a.hasColors {
		*a.colors.At(dst) = *a.colors.At(src)
	}
	if a.hasBW {
		*a.boneWeights.At(dst) = *a.boneWeights.At(src)
	}
	for ch := 0; ch < 4; ch++ {
		if a.hasUV[ch] {
			*a.uv[ch].At(dst) = *a.uv[ch].At(src)
		}
	}
}

// merge writes the arithmetic mean (or, for bone weights, the renormalised
// weighted union) of dst and src's attribute records into dst (Merge mode).
func (a *attributeSet) merge(dst, src int) {
	if a.hasNormals {
		p, q := a.normals.At(dst), a.normals.At(src)
		*p = p.Add(*q).Scale(0.5)
	}
	if a.hasTangents {
		p, q := a.tangents.At(dst), a.tangents.At(src)
		*p = p.Add(*q).Scale(0.5)
	}
	if a.hasColors {
		p, q := a.colors.At(dst), a.colors.At(src)
		*p = p.Add(*q).Scale(0.5)
	}
	for ch := 0; ch < 4; ch++ {
		if a.hasUV[ch] {
			p, q := a.uv[ch].At(dst), a.uv[ch].At(src)
			n := p.Components
			if q.Components > n {
				n = q.Components
			}
			*p = UV{
				Components: n,
				X:          (p.X + q.X) / 2,
				Y:          (p.Y + q.Y) / 2,
				Z:          (p.Z + q.Z) / 2,
				W:          (p.W + q.W) / 2,
			}
		}
	}
	if a.hasBW {
		p, q := a.boneWeights.At(dst), a.boneWeights.At(src)
		*p = mergeBoneWeights(*p, *q)
	}
}

// mergeBoneWeights combines two bone-weight records by summing weights
// keyed by bone id, keeping the four highest-weight entries (ties broken
// by lower bone id), and renormalising so the kept weights sum to 1.
func mergeBoneWeights(a, b BoneWeight) BoneWeight {
	type entry struct {
		id     int32
		weight float32
	}
	byBone := make(map[int32]float32, 8)
	addAll := func(bw BoneWeight) {
		for i := 0; i < 4; i++ {
			if bw.Weights[i] == 0 {
				continue
			}
			byBone[bw.BoneIDs[i]] += bw.Weights[i]
		}
	}
	addAll(a)
	addAll(b)

	entries := make([]entry, 0, len(byBone))
	for id, w := range byBone {
		entries = append(entries, entry{id, w})
	}
	// Selection sort over at most a handful of entries: simple and stable
	// for the tie-break-by-lower-bone-id rule.
	for i := 0; i < len(entries); i++ {
		best := i
		for j := i + 1; j < len(entries); j++ {
			if entries[j].weight > entries[best].weight ||
				(entries[j].weight == entries[best].weight && entries[j].id < entries[best].id) {
				best = j
			}
		}
		entries[i], entries[best] = entries[best], entries[i]
	}
	if len(entries) > 4 {
		entries = entries[:4]
	}

	var total float32
	for _, e := range entries {
		total += e.weight
	}

	var out BoneWeight
	for i, e := range entries {
		if total > 0 {
			out.Weights[i] = e.weight / total
		}
		out.BoneIDs[i] = e.id
	}
	return out
}
