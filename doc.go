// Package meshsimplify implements an iterative edge-collapse mesh
// simplifier driven by the quadric error metric (QEM) of Garland &
// Heckbert, in the style popularised by Forstmann's "Fast Quadric Mesh
// Simplification".
//
// What:
//
//   - Engine ingests vertex positions, one or more sub-mesh index streams,
//     and a set of optional per-vertex attribute arrays (normals, tangents,
//     up to four UV channels, colors, bone weights).
//   - DecimateTo collapses edges greedily, cheapest first, until the live
//     triangle count reaches a target or the pass budget is exhausted.
//   - DecimateLossless collapses only zero-error edges to a fixpoint.
//   - Result/ToMesh compacts the working arrays into a clean Mesh with no
//     tombstoned triangles and dense, equal-length attribute arrays.
//
// Why:
//
//   - Level-of-detail generation for real-time rendering: fewer triangles
//     at a distance without visibly changing silhouette or shading.
//   - Asset pipeline size reduction ahead of streaming or storage.
//
// Complexity:
//
//   - Initialize: O(V + T) to copy positions, index streams and attributes;
//     adjacency and per-vertex quadrics are built in the first pass of
//     DecimateTo/DecimateLossless.
//   - DecimateTo: O(passes * T) with passes bounded to 100 (target mode) or
//     9999 (lossless mode); each pass is a single linear scan of triangles.
//   - ToMesh: O(V + T) to compact and remap indices.
//
// Concurrency:
//
//   - The engine is single-threaded and synchronous. Initialize, DecimateTo/
//     DecimateLossless, and Result/ToMesh must be called in that order on
//     one goroutine; there is no internal locking. The only observable side
//     effect mid-run is invocation of registered progress callbacks, which
//     must not mutate the engine.
//
// Errors:
//
//   - ErrInvalidArgument: malformed index stream or out-of-range target.
//   - ErrIndexOutOfRange: a triangle index references a nonexistent vertex,
//     or a Mesh.SubMesh lookup index is out of range.
//   - ErrUnsupportedAlgorithm: an unrecognised algorithm selector.
//   - ErrInternal: a debug-mode invariant violation (never in release paths).
//
// An attribute array's length not matching the vertex count is not an
// error: Initialize logs an AttributeError (wrapping
// ErrAttributeLengthMismatch) at SeverityWarning through the process-wide
// log sink and drops that array, so meshes with partial or malformed
// auxiliary data still simplify on their positions and topology alone.
package meshsimplify
