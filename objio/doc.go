// Package objio reads and writes Wavefront OBJ files into and out of
// meshsimplify.Mesh values. It is a thin text-format adapter: all
// geometric and attribute semantics belong to meshsimplify, not here.
//
// Read triangulates n-gon faces by fan triangulation and interns each
// distinct (position, uv, normal) corner combination into its own
// meshsimplify vertex, so importing then exporting a file that shares no
// corner attributes round-trips losslessly. Write emits each index
// stream's faces under its own "g" group, even when there is only one.
//
// "usemtl" directives key their own sub-mesh stream and come back as a
// SubMeshMaterial alongside the Mesh, one per index stream in the same
// order. ReadFile and WriteFile additionally resolve and emit a sibling
// "mtllib" file; the plain io.Reader/io.Writer Read and Write have no
// filesystem context to do that and so carry material names only (Read)
// or skip the mtllib line entirely (Write).
package objio
