package meshsimplify

import (
	"fmt"
	"math"
)

// ref is a (triangle-id, corner-index) pair. Refs are organised as a
// single flat buffer, re-partitioned into per-vertex windows by
// rebuildReferences. A collapse appends the survivor's new refs at the
// tail, then copies them back over its old window when they fit.
type ref struct {
	tid    int32
	corner int8
}

// vertex is the working-state record for one position-vertex. tstart/
// tcount index a window into Engine.refs.
type vertex struct {
	p      Vec3d
	tstart int32
	tcount int32
	q      symmetricMatrix
	border bool
	linked bool
}

// Collapse-point classification, used to pick between attribute Move and
// Merge semantics.
const (
	classMidpoint = iota
	classEndpoint0
	classEndpoint1
)

// triangle is the fundamental unit of deletion. v/va are position- and
// attribute-vertex indices respectively, tracked separately so collapses
// can preserve attribute seams.
type triangle struct {
	v       [3]int32
	va      [3]int32
	subMesh int32
	normal  Vec3d
	err     [4]float64 // err[0..2] per edge (v0,v1)/(v1,v2)/(v2,v0), err[3] = min
	deleted bool
	dirty   bool
}

// Engine is the simplification engine. Initialize, DecimateTo/
// DecimateLossless, and Result must be called in that order on one
// goroutine; the engine keeps no internal lock.
type Engine struct {
	opts     Options
	progress progressDispatcher

	vertices  growBuffer[vertex]
	triangles growBuffer[triangle]
	refs      growBuffer[ref]
	attrs     attributeSet

	originalTriangles int
	subMeshCount      int
	liveTriangles     int
	remainingVertices int
	initialized       bool
}

// New constructs an Engine with DefaultOptions applied.
func New() *Engine {
	e := &Engine{opts: DefaultOptions(), progress: newProgressDispatcher()}
	return e
}

// Configure replaces the engine's options. It may be called before or
// after Initialize, but never mid-pass (there are no suspension points
// during a pass to call it from).
func (e *Engine) Configure(opts Options) error {
	if opts.Algorithm != "" && opts.Algorithm != AlgorithmQuadric {
		return ErrUnsupportedAlgorithm
	}
	if opts.Aggressiveness <= 0 {
		return ErrInvalidArgument
	}
	e.opts = opts
	return nil
}

// OnProgress registers a progress callback and returns a token usable with
// ClearProgress. Multiple callbacks may be registered; all are invoked
// before each pass.
func (e *Engine) OnProgress(cb ProgressFunc) int {
	return e.progress.add(cb)
}

// ClearProgress removes a previously registered callback.
func (e *Engine) ClearProgress(token int) {
	e.progress.remove(token)
}

// Initialize loads mesh into the engine's working state. It fails without
// mutating any prior state if validation fails.
func (e *Engine) Initialize(mesh Mesh) error {
	for si, idx := range mesh.Indices {
		if len(idx)%3 != 0 {
			return &SubMeshError{SubMesh: si, Len: len(idx), Reason: "index count must be a multiple of 3", Sentinel: ErrInvalidArgument}
		}
		for _, vi := range idx {
			if vi < 0 || vi >= len(mesh.Vertices) {
				return &SubMeshError{SubMesh: si, Len: len(idx), Reason: "index references a nonexistent vertex", Sentinel: ErrIndexOutOfRange}
			}
		}
	}

	attrs := newAttributeSet(mesh)

	vertexCount := len(mesh.Vertices)
	vertices := newGrowBuffer[vertex](vertexCount)
	for i, p := range mesh.Vertices {
		vertices.At(i).p = p
	}

	triCount := mesh.TriangleCount()
	triangles := newGrowBuffer[triangle](triCount)
	w := 0
	for si, idx := range mesh.Indices {
		for i := 0; i+2 < len(idx); i += 3 {
			t := triangles.At(w)
			t.v = [3]int32{int32(idx[i]), int32(idx[i+1]), int32(idx[i+2])}
			t.va = t.v
			t.subMesh = int32(si)
			w++
		}
	}

	e.vertices = vertices
	e.triangles = triangles
	e.refs = newGrowBuffer[ref](0)
	e.attrs = attrs
	e.originalTriangles = triCount
	e.subMeshCount = len(mesh.Indices)
	e.liveTriangles = triCount
	e.remainingVertices = vertexCount
	e.initialized = true
	return nil
}

// DecimateTo runs target-triangle decimation: up to 100 passes, sweeping
// every triangle per pass and collapsing qualifying edges under a
// widening error threshold, until the live triangle count reaches target
// or the pass budget is exhausted. A target above the current count is
// clamped to it; a negative target returns ErrInvalidArgument.
func (e *Engine) DecimateTo(target int) error {
	if target < 0 {
		return ErrInvalidArgument
	}
	if target > e.liveTriangles {
		target = e.liveTriangles
	}

	for pass := 0; pass < 100; pass++ {
		e.reportProgress(pass, target)
		if e.targetSatisfied(target) {
			e.trimBuffers()
			return nil
		}

		if pass%5 == 0 {
			e.updateMesh(pass == 0)
		}
		e.clearDirty()

		threshold := thresholdForPass(pass, e.opts.Aggressiveness)
		e.liveTriangles -= e.sweep(threshold)

		if e.targetSatisfied(target) {
			e.trimBuffers()
			return nil
		}
	}
	e.trimBuffers()
	return nil
}

// DecimateLossless runs lossless decimation: repeated passes at a fixed,
// near-zero threshold, rebuilding adjacency every pass, until a pass
// deletes nothing (a fixpoint) or the 9999-pass cap is hit.
func (e *Engine) DecimateLossless() error {
	const losslessThreshold = 1e-3
	for pass := 0; pass < 9999; pass++ {
		e.reportProgress(pass, -1)
		e.updateMesh(pass == 0)
		e.clearDirty()
		deleted := e.sweep(losslessThreshold)
		e.liveTriangles -= deleted
		if deleted == 0 {
			e.trimBuffers()
			return nil
		}
	}
	e.trimBuffers()
	return nil
}

// trimBuffers releases over-allocation accumulated during a run, once the
// pass loop has settled (no further Push growth expected before the next
// DecimateTo/DecimateLossless call or a Result snapshot).
func (e *Engine) trimBuffers() {
	e.vertices.Trim()
	e.triangles.Trim()
	e.refs.Trim()
}

// targetSatisfied implements the termination check: live triangles
// at or under target, and (when MaxVertexCount is set) remaining vertices
// under that cap too. MaxVertexCount == 0 means "unlimited", i.e. it never
// blocks termination.
func (e *Engine) targetSatisfied(target int) bool {
	if e.liveTriangles > target {
		return false
	}
	if e.opts.MaxVertexCount == 0 {
		return true
	}
	return e.remainingVertices < e.opts.MaxVertexCount
}

func (e *Engine) reportProgress(iteration, target int) {
	ev := ProgressEvent{
		Iteration:         iteration,
		OriginalTriangles: e.originalTriangles,
		CurrentTriangles:  e.liveTriangles,
		TargetTriangles:   target,
	}
	e.progress.dispatch(ev)
	if e.opts.Verbose {
		logLine(SeverityVerbose, progressLine(ev))
	}
}

// thresholdForPass computes threshold_k = 1e-9 * (k+3)^aggressiveness.
func thresholdForPass(k int, aggressiveness float64) float64 {
	return 1e-9 * math.Pow(float64(k+3), aggressiveness)
}

func (e *Engine) clearDirty() {
	n := e.triangles.Len()
	for i := 0; i < n; i++ {
		e.triangles.At(i).dirty = false
	}
}

// updateMesh compacts tombstoned triangles, rebuilds vertex adjacency, and
// (on the first call of a run) classifies borders, applies smart link, and
// initializes per-vertex quadrics and per-triangle edge errors.
func (e *Engine) updateMesh(first bool) {
	e.compactTriangles()
	e.rebuildReferences()
	if first {
		e.classifyBorders()
		if e.opts.EnableSmartLink {
			e.smartLink()
		} else if e.opts.LegacyKeepLinkedVertices {
			e.markLegacyLinked()
		}
		e.initQuadricsAndErrors()
	}
}

// compactTriangles drops tombstoned triangles from the live array,
// preserving the relative order of survivors.
func (e *Engine) compactTriangles() {
	n := e.triangles.Len()
	write := 0
	for read := 0; read < n; read++ {
		t := e.triangles.At(read)
		if t.deleted {
			continue
		}
		if write != read {
			*e.triangles.At(write) = *t
		}
		write++
	}
	e.triangles.Resize(write)
	e.liveTriangles = write
}

// rebuildReferences repartitions Refs into per-vertex windows by a
// two-pass counting sort over the current (already-compacted) triangle
// array.
func (e *Engine) rebuildReferences() {
	vn := e.vertices.Len()
	for i := 0; i < vn; i++ {
		e.vertices.At(i).tcount = 0
	}

	tn := e.triangles.Len()
	for ti := 0; ti < tn; ti++ {
		t := e.triangles.At(ti)
		for k := 0; k < 3; k++ {
			e.vertices.At(int(t.v[k])).tcount++
		}
	}

	offset := int32(0)
	for i := 0; i < vn; i++ {
		v := e.vertices.At(i)
		v.tstart = offset
		offset += v.tcount
	}

	e.refs.Resize(int(offset))
	filled := make([]int32, vn)
	for ti := 0; ti < tn; ti++ {
		t := e.triangles.At(ti)
		for k := 0; k < 3; k++ {
			vi := t.v[k]
			v := e.vertices.At(int(vi))
			slot := v.tstart + filled[vi]
			*e.refs.At(int(slot)) = ref{tid: int32(ti), corner: int8(k)}
			filled[vi]++
		}
	}

	if e.opts.Debug {
		e.assertAdjacencyConsistent()
	}
}

// assertAdjacencyConsistent panics with ErrInternal if the sum of tcount
// over every vertex does not equal 3 * the live triangle count, i.e. the
// Refs buffer does not carry exactly one entry per live triangle corner.
// Only called when Options.Debug is set.
func (e *Engine) assertAdjacencyConsistent() {
	var total int64
	vn := e.vertices.Len()
	for i := 0; i < vn; i++ {
		total += int64(e.vertices.At(i).tcount)
	}
	if total != int64(e.triangles.Len())*3 {
		err := fmt.Errorf("%w: refs window total %d != 3*liveTriangles (%d)", ErrInternal, total, e.triangles.Len()*3)
		logLine(SeverityError, err.Error())
		panic(err)
	}
}

// initQuadricsAndErrors computes each live vertex's quadric from its
// incident triangle planes, caches each triangle's normal, and precomputes
// each triangle's three edge errors plus their minimum.
func (e *Engine) initQuadricsAndErrors() {
	vn := e.vertices.Len()
	for i := 0; i < vn; i++ {
		e.vertices.At(i).q = symmetricMatrix{}
	}

	tn := e.triangles.Len()
	for ti := 0; ti < tn; ti++ {
		t := e.triangles.At(ti)
		p0 := e.vertices.At(int(t.v[0])).p
		p1 := e.vertices.At(int(t.v[1])).p
		p2 := e.vertices.At(int(t.v[2])).p
		a, b, c, d, n, ok := planeFromTriangle(p0, p1, p2)
		t.normal = n
		if !ok {
			continue
		}
		q := newQuadric(a, b, c, d)
		for k := 0; k < 3; k++ {
			vv := e.vertices.At(int(t.v[k]))
			vv.q = vv.q.add(q)
		}
	}

	for ti := 0; ti < tn; ti++ {
		e.recomputeTriangleErrors(e.triangles.At(ti))
	}
}

// recomputeTriangleErrors refreshes t's three cached edge errors and their
// minimum from the current vertex quadrics/positions. It does not touch
// t.normal; callers that also need the normal refreshed call
// recomputeNormal first.
func (e *Engine) recomputeTriangleErrors(t *triangle) {
	err0, _, _ := e.computeEdgeError(t.v[0], t.v[1])
	err1, _, _ := e.computeEdgeError(t.v[1], t.v[2])
	err2, _, _ := e.computeEdgeError(t.v[2], t.v[0])
	t.err = [4]float64{err0, err1, err2, math.Min(err0, math.Min(err1, err2))}
}

func (e *Engine) recomputeNormal(t *triangle) {
	p0 := e.vertices.At(int(t.v[0])).p
	p1 := e.vertices.At(int(t.v[1])).p
	p2 := e.vertices.At(int(t.v[2])).p
	_, _, _, _, n, _ := planeFromTriangle(p0, p1, p2)
	t.normal = n
}

// computeEdgeError solves the combined quadric for its optimal point when
// it is non-singular and neither endpoint is a border vertex; otherwise it
// falls back to the minimum of the two endpoints and the midpoint, with
// ties preferring the midpoint.
func (e *Engine) computeEdgeError(i0, i1 int32) (float64, Vec3d, int) {
	v0 := e.vertices.At(int(i0))
	v1 := e.vertices.At(int(i1))
	q := v0.q.add(v1.q)

	if p, ok := q.optimalPoint(); ok && !v0.border && !v1.border {
		return q.errorAt(p.X, p.Y, p.Z), p, classMidpoint
	}

	mid := Vec3d{
		X: (v0.p.X + v1.p.X) / 2,
		Y: (v0.p.Y + v1.p.Y) / 2,
		Z: (v0.p.Z + v1.p.Z) / 2,
	}
	errMid := q.errorAt(mid.X, mid.Y, mid.Z)
	err0 := q.errorAt(v0.p.X, v0.p.Y, v0.p.Z)
	err1 := q.errorAt(v1.p.X, v1.p.Y, v1.p.Z)

	best, pt, cls := errMid, mid, classMidpoint
	if err0 < best {
		best, pt, cls = err0, v0.p, classEndpoint0
	}
	if err1 < best {
		best, pt, cls = err1, v1.p, classEndpoint1
	}
	return best, pt, cls
}

// sweep runs one pass of the per-triangle, per-edge scan: triangles are
// visited in storage order, edges in order j=0,1,2, and the first
// qualifying non-flipping collapse wins (remaining edges of that triangle
// are skipped). Returns the number of triangles deleted during the sweep.
func (e *Engine) sweep(threshold float64) int {
	deletions := 0
	n := e.triangles.Len()
	for ti := 0; ti < n; ti++ {
		t := e.triangles.At(ti)
		if t.deleted || t.dirty || t.err[3] > threshold {
			continue
		}
		for j := 0; j < 3; j++ {
			if t.err[j] > threshold {
				continue
			}
			i0 := t.v[j]
			i1 := t.v[(j+1)%3]
			if e.skipCandidate(i0, i1) {
				continue
			}
			if d, ok := e.tryCollapse(i0, i1); ok {
				deletions += d
				break
			}
		}
	}
	return deletions
}

// skipCandidate implements the edge-level collapse guards:
// border-membership disagreement, preserve-borders, and the legacy
// linked-vertex guard (inert whenever smart link is enabled).
func (e *Engine) skipCandidate(i0, i1 int32) bool {
	v0 := e.vertices.At(int(i0))
	v1 := e.vertices.At(int(i1))
	if v0.border != v1.border {
		return true
	}
	if e.opts.PreserveBorders && v0.border {
		return true
	}
	if e.opts.LegacyKeepLinkedVertices && !e.opts.EnableSmartLink {
		if v0.linked || v1.linked {
			return true
		}
	}
	return false
}

// tryCollapse attempts to collapse edge (i0, i1), relocating i0 to the
// optimal point and deleting i1. It returns ok=false (with no mutation at
// all) if either endpoint's non-shared incident triangles would flip.
func (e *Engine) tryCollapse(i0, i1 int32) (deletions int, ok bool) {
	_, p, class := e.computeEdgeError(i0, i1)

	if e.wouldFlip(i0, i1, p) || e.wouldFlip(i1, i0, p) {
		return 0, false
	}

	v0 := e.vertices.At(int(i0))
	v1 := e.vertices.At(int(i1))

	switch class {
	case classEndpoint1:
		e.attrs.move(int(i0), int(i1))
	default:
		e.attrs.merge(int(i0), int(i1))
	}

	v0.p = p
	v0.q = v0.q.add(v1.q)

	tailStart := e.refs.Len()
	deletions += e.updateIncidentTriangles(i0, i0, i1, tailStart)
	deletions += e.updateIncidentTriangles(i1, i0, i0, tailStart)

	newCount := e.refs.Len() - tailStart
	if newCount <= int(v0.tcount) {
		for k := 0; k < newCount; k++ {
			*e.refs.At(int(v0.tstart)+k) = *e.refs.At(tailStart + k)
		}
		e.refs.Resize(tailStart)
	} else {
		v0.tstart = int32(tailStart)
	}
	v0.tcount = int32(newCount)
	v1.tcount = 0

	e.remainingVertices--
	if e.opts.Debug {
		e.assertNoTriangleReferencesDeletedVertex(i1)
	}
	return deletions, true
}

// assertNoTriangleReferencesDeletedVertex panics with ErrInternal if any
// surviving triangle still carries i1 as a position-vertex corner after its
// collapse into i0. Only called when Options.Debug is set.
func (e *Engine) assertNoTriangleReferencesDeletedVertex(i1 int32) {
	n := e.triangles.Len()
	for ti := 0; ti < n; ti++ {
		t := e.triangles.At(ti)
		if !t.deleted && triangleHasVertex(t, i1) {
			err := fmt.Errorf("%w: live triangle %d still references collapsed vertex %d", ErrInternal, ti, i1)
			logLine(SeverityError, err.Error())
			panic(err)
		}
	}
}

// updateIncidentTriangles scans homeVertex's current incident triangles.
// Triangles that also contain otherVertex are shared-with-the-other-
// endpoint: they will be deleted by this collapse. Every other triangle
// has its homeVertex corner (and matching attribute corner) retargeted to
// survivor, its geometry/errors refreshed, and a fresh ref for it appended
// to the tail of Engine.refs starting at tailStart. Returns the number of
// triangles newly marked deleted.
func (e *Engine) updateIncidentTriangles(homeVertex, survivor, otherVertex int32, tailStart int) int {
	home := e.vertices.At(int(homeVertex))
	deletions := 0
	for r := int32(0); r < home.tcount; r++ {
		rf := *e.refs.At(int(home.tstart + r))
		t := e.triangles.At(int(rf.tid))
		if t.deleted {
			continue
		}
		if triangleHasVertex(t, otherVertex) {
			if !t.deleted {
				t.deleted = true
				deletions++
			}
			continue
		}
		for k := 0; k < 3; k++ {
			if t.v[k] == homeVertex {
				t.v[k] = survivor
			}
			if t.va[k] == homeVertex {
				t.va[k] = survivor
			}
		}
		e.recomputeNormal(t)
		e.recomputeTriangleErrors(t)
		t.dirty = true
		e.refs.Push(ref{tid: rf.tid, corner: rf.corner})
	}
	return deletions
}

func triangleHasVertex(t *triangle, vid int32) bool {
	return t.v[0] == vid || t.v[1] == vid || t.v[2] == vid
}

// wouldFlip reports whether relocating vFrom to p would flip or degenerate
// any triangle incident to vFrom that does not also contain vTo (i.e. one
// that survives the collapse with exactly one corner relocated to p).
func (e *Engine) wouldFlip(vFrom, vTo int32, p Vec3d) bool {
	v := e.vertices.At(int(vFrom))
	for r := int32(0); r < v.tcount; r++ {
		rf := *e.refs.At(int(v.tstart + r))
		t := e.triangles.At(int(rf.tid))
		if t.deleted {
			continue
		}
		if triangleHasVertex(t, vTo) {
			continue
		}
		other := otherCorners(t, rf.corner)
		p1 := e.vertices.At(int(other[0])).p
		p2 := e.vertices.At(int(other[1])).p

		d1 := p1.Sub(p).Normalize()
		d2 := p2.Sub(p).Normalize()
		if math.Abs(d1.Dot(d2)) > 0.999 {
			return true
		}
		newNormal := d1.Cross(d2).Normalize()
		if newNormal.Dot(t.normal) < 0.2 {
			return true
		}
	}
	return false
}
