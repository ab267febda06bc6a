package objio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mirstar13/meshsimplify"
)

// cornerKey identifies one distinct (position, uv, normal) triple as they
// appear in a face directive. OBJ indices are interned per-corner rather
// than per-position so that two faces sharing a position but not a normal
// or UV end up as distinct meshsimplify vertices, matching how the format
// is actually authored.
type cornerKey struct {
	v, vt, vn int
}

// groupKey identifies one output sub-mesh index stream: an explicit
// "g"/"o" group name crossed with whichever material a "usemtl" directive
// most recently selected. A material change inside an otherwise unnamed
// group starts a new stream, so simplification and export can carry each
// material as its own SubMeshMaterial entry.
type groupKey struct {
	group, material string
}

// mtlResolver opens the material library file named by a "mtllib"
// directive. ReadFile installs one rooted at the OBJ file's own directory;
// Read has none, so "mtllib" lines are skipped and "usemtl" names resolve
// to SubMeshMaterial entries carrying only their Name.
type mtlResolver func(name string) (io.Reader, error)

// Read parses Wavefront OBJ text from r into a meshsimplify.Mesh plus one
// SubMeshMaterial per entry of the returned Mesh.Indices, in the same
// order. Faces with more than three vertices are fan-triangulated. Each
// distinct "g"/"o" name crossed with the material last selected by
// "usemtl" becomes its own sub-mesh index stream; ungrouped, unmaterialed
// faces form the first stream. Read has no filesystem context to resolve
// "mtllib" directives, so it skips them and materials it named surface
// with only their Name field populated; use ReadFile to resolve
// "mtllib" against a real MTL file.
func Read(r io.Reader) (meshsimplify.Mesh, []SubMeshMaterial, error) {
	return decodeOBJ(r, nil)
}

// ReadFile opens the Wavefront OBJ file at path and parses it as Read
// does, additionally resolving any "mtllib" directive against a sibling
// file in path's directory so the returned materials carry real Kd/Ks/Ns
// properties rather than bare names.
func ReadFile(path string) (meshsimplify.Mesh, []SubMeshMaterial, error) {
	f, err := os.Open(path)
	if err != nil {
		return meshsimplify.Mesh{}, nil, fmt.Errorf("objio: open %s: %w", path, err)
	}
	defer f.Close()
	dir := filepath.Dir(path)
	resolver := func(name string) (io.Reader, error) {
		mf, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		return mf, nil
	}
	return decodeOBJ(f, resolver)
}

// decodeOBJ holds the actual parser; Read and ReadFile differ only in
// whether resolve can open a "mtllib" file.
func decodeOBJ(r io.Reader, resolve mtlResolver) (meshsimplify.Mesh, []SubMeshMaterial, error) {
	var positions []meshsimplify.Vec3d
	var normals []meshsimplify.Vec3
	var uvs []meshsimplify.UV
	hasNormals := false
	hasUV := false

	corners := make(map[cornerKey]int)
	var outPositions []meshsimplify.Vec3d
	var outNormals []meshsimplify.Vec3
	var outUV []meshsimplify.UV

	startKey := groupKey{}
	groups := []groupKey{startKey}
	groupFaces := map[groupKey][]int{startKey: nil}
	currentGroup := ""
	currentMaterial := ""

	materialLib := make(map[string]SubMeshMaterial)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "v":
			if len(parts) < 4 {
				return meshsimplify.Mesh{}, nil, fmt.Errorf("objio: line %d: malformed vertex", lineNum)
			}
			x, err1 := strconv.ParseFloat(parts[1], 64)
			y, err2 := strconv.ParseFloat(parts[2], 64)
			z, err3 := strconv.ParseFloat(parts[3], 64)
			if err1 != nil || err2 != nil || err3 != nil {
				return meshsimplify.Mesh{}, nil, fmt.Errorf("objio: line %d: malformed vertex coordinates", lineNum)
			}
			positions = append(positions, meshsimplify.Vec3d{X: x, Y: y, Z: z})

		case "vn":
			if len(parts) < 4 {
				return meshsimplify.Mesh{}, nil, fmt.Errorf("objio: line %d: malformed normal", lineNum)
			}
			x, err1 := strconv.ParseFloat(parts[1], 32)
			y, err2 := strconv.ParseFloat(parts[2], 32)
			z, err3 := strconv.ParseFloat(parts[3], 32)
			if err1 != nil || err2 != nil || err3 != nil {
				return meshsimplify.Mesh{}, nil, fmt.Errorf("objio: line %d: malformed normal components", lineNum)
			}
			hasNormals = true
			normals = append(normals, meshsimplify.Vec3{X: float32(x), Y: float32(y), Z: float32(z)})

		case "vt":
			if len(parts) < 2 {
				return meshsimplify.Mesh{}, nil, fmt.Errorf("objio: line %d: malformed texture coordinate", lineNum)
			}
			u, err1 := strconv.ParseFloat(parts[1], 32)
			if err1 != nil {
				return meshsimplify.Mesh{}, nil, fmt.Errorf("objio: line %d: malformed uv", lineNum)
			}
			v := 0.0
			comps := int8(2)
			if len(parts) >= 3 {
				if pv, err := strconv.ParseFloat(parts[2], 32); err == nil {
					v = pv
				}
			}
			w := 0.0
			if len(parts) >= 4 {
				if pw, err := strconv.ParseFloat(parts[3], 32); err == nil {
					w = pw
					comps = 3
				}
			}
			hasUV = true
			uvs = append(uvs, meshsimplify.UV{Components: comps, X: float32(u), Y: float32(v), Z: float32(w)})

		case "f":
			if len(parts) < 4 {
				return meshsimplify.Mesh{}, nil, fmt.Errorf("objio: line %d: face needs at least 3 corners", lineNum)
			}
			faceVerts := make([]int, 0, len(parts)-1)
			for i := 1; i < len(parts); i++ {
				key, err := parseFaceCorner(parts[i], len(positions), len(uvs), len(normals))
				if err != nil {
					return meshsimplify.Mesh{}, nil, fmt.Errorf("objio: line %d: %w", lineNum, err)
				}
				idx, ok := corners[key]
				if !ok {
					idx = len(outPositions)
					corners[key] = idx
					outPositions = append(outPositions, positions[key.v])
					if hasNormals {
						if key.vn >= 0 {
							outNormals = append(outNormals, normals[key.vn])
						} else {
							outNormals = append(outNormals, meshsimplify.Vec3{})
						}
					}
					if hasUV {
						if key.vt >= 0 {
							outUV = append(outUV, uvs[key.vt])
						} else {
							outUV = append(outUV, meshsimplify.UV{})
						}
					}
				}
				faceVerts = append(faceVerts, idx)
			}
			key := groupKey{currentGroup, currentMaterial}
			if _, ok := groupFaces[key]; !ok {
				groups = append(groups, key)
				groupFaces[key] = nil
			}
			for i := 1; i < len(faceVerts)-1; i++ {
				groupFaces[key] = append(groupFaces[key], faceVerts[0], faceVerts[i], faceVerts[i+1])
			}

		case "g", "o":
			if len(parts) >= 2 {
				currentGroup = parts[1]
			} else {
				currentGroup = ""
			}

		case "mtllib":
			if len(parts) < 2 || resolve == nil {
				continue
			}
			mf, err := resolve(parts[1])
			if err != nil {
				continue
			}
			lib, err := parseMTL(mf)
			if c, ok := mf.(io.Closer); ok {
				c.Close()
			}
			if err != nil {
				return meshsimplify.Mesh{}, nil, fmt.Errorf("objio: line %d: mtllib %s: %w", lineNum, parts[1], err)
			}
			for name, mat := range lib {
				materialLib[name] = mat
			}

		case "usemtl":
			if len(parts) >= 2 {
				currentMaterial = parts[1]
				if _, ok := materialLib[currentMaterial]; !ok {
					materialLib[currentMaterial] = SubMeshMaterial{Name: currentMaterial}
				}
			}

		default:
			continue
		}
	}
	if err := scanner.Err(); err != nil {
		return meshsimplify.Mesh{}, nil, fmt.Errorf("objio: read: %w", err)
	}
	if len(outPositions) == 0 {
		return meshsimplify.Mesh{}, nil, fmt.Errorf("objio: no vertices found")
	}

	mesh := meshsimplify.Mesh{Vertices: outPositions}
	if hasNormals {
		mesh.Normals = outNormals
	}
	if hasUV {
		mesh.UVChannels[0] = outUV
	}
	var mats []SubMeshMaterial
	for _, g := range groups {
		faces := groupFaces[g]
		if len(faces) == 0 {
			continue
		}
		mesh.Indices = append(mesh.Indices, faces)
		if mat, ok := materialLib[g.material]; ok {
			mats = append(mats, mat)
		} else {
			mats = append(mats, SubMeshMaterial{Name: g.material})
		}
	}
	return mesh, mats, nil
}

// parseFaceCorner parses one face-vertex token (v, v/vt, v/vt/vn, v//vn),
// resolving OBJ's 1-based (and negative, relative) indices to 0-based
// offsets into the position/uv/normal slices seen so far. A missing
// texture or normal component is represented as -1.
func parseFaceCorner(tok string, posCount, uvCount, normCount int) (cornerKey, error) {
	fields := strings.Split(tok, "/")
	key := cornerKey{vt: -1, vn: -1}

	v, err := resolveIndex(fields[0], posCount)
	if err != nil {
		return key, fmt.Errorf("invalid face vertex index: %w", err)
	}
	key.v = v

	if len(fields) > 1 && fields[1] != "" {
		vt, err := resolveIndex(fields[1], uvCount)
		if err != nil {
			return key, fmt.Errorf("invalid face uv index: %w", err)
		}
		key.vt = vt
	}
	if len(fields) > 2 && fields[2] != "" {
		vn, err := resolveIndex(fields[2], normCount)
		if err != nil {
			return key, fmt.Errorf("invalid face normal index: %w", err)
		}
		key.vn = vn
	}
	return key, nil
}

func resolveIndex(s string, count int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case n > 0:
		if n-1 >= count {
			return 0, fmt.Errorf("index %d out of range", n)
		}
		return n - 1, nil
	case n < 0:
		idx := count + n
		if idx < 0 {
			return 0, fmt.Errorf("relative index %d out of range", n)
		}
		return idx, nil
	default:
		return 0, fmt.Errorf("index 0 is not valid in OBJ")
	}
}

// Write serializes mesh as Wavefront OBJ text to w. mats, if non-nil, must
// have one entry per mesh.Indices sub-mesh stream; each named material is
// emitted as a "usemtl" directive ahead of its stream's faces, but no
// "mtllib" reference is written since w has no associated file path to
// derive a sibling MTL name from. Use WriteFile to also emit the MTL file
// and its "mtllib" reference.
func Write(w io.Writer, mesh meshsimplify.Mesh, mats []SubMeshMaterial) error {
	return encodeOBJ(w, mesh, mats, "")
}

// WriteFile serializes mesh as a Wavefront OBJ file at path, overwriting
// any existing file. When mats contains at least one named material, a
// sibling "<path-without-ext>.mtl" file is also written and referenced via
// a "mtllib" directive.
func WriteFile(path string, mesh meshsimplify.Mesh, mats []SubMeshMaterial) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("objio: create %s: %w", path, err)
	}
	defer f.Close()

	mtlName := ""
	for _, m := range mats {
		if m.Name != "" {
			mtlName = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".mtl"
			break
		}
	}
	if mtlName == "" {
		return encodeOBJ(f, mesh, mats, "")
	}

	mtlPath := filepath.Join(filepath.Dir(path), mtlName)
	mtlFile, err := os.Create(mtlPath)
	if err != nil {
		return fmt.Errorf("objio: create %s: %w", mtlPath, err)
	}
	defer mtlFile.Close()
	if err := encodeMTL(mtlFile, mats); err != nil {
		return fmt.Errorf("objio: write %s: %w", mtlPath, err)
	}
	return encodeOBJ(f, mesh, mats, mtlName)
}

// encodeOBJ serializes mesh as OBJ text to w. Each sub-mesh index stream
// is emitted under its own "g" group named "submesh<N>", preceded by a
// "usemtl" directive when mats names a material for that stream. mtllib,
// if non-empty, is emitted as the file's first directive.
func encodeOBJ(w io.Writer, mesh meshsimplify.Mesh, mats []SubMeshMaterial, mtllib string) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# meshsimplify export\n")
	fmt.Fprintf(bw, "# vertices: %d\n", len(mesh.Vertices))
	fmt.Fprintf(bw, "# triangles: %d\n\n", mesh.TriangleCount())

	if mtllib != "" {
		fmt.Fprintf(bw, "mtllib %s\n\n", mtllib)
	}

	for _, v := range mesh.Vertices {
		fmt.Fprintf(bw, "v %.6f %.6f %.6f\n", v.X, v.Y, v.Z)
	}
	bw.WriteString("\n")

	if len(mesh.Normals) > 0 {
		for _, n := range mesh.Normals {
			fmt.Fprintf(bw, "vn %.6f %.6f %.6f\n", n.X, n.Y, n.Z)
		}
		bw.WriteString("\n")
	}

	hasUV := len(mesh.UVChannels[0]) > 0
	if hasUV {
		for _, uv := range mesh.UVChannels[0] {
			if uv.Components >= 3 {
				fmt.Fprintf(bw, "vt %.6f %.6f %.6f\n", uv.X, uv.Y, uv.Z)
			} else {
				fmt.Fprintf(bw, "vt %.6f %.6f\n", uv.X, uv.Y)
			}
		}
		bw.WriteString("\n")
	}

	for si, idx := range mesh.Indices {
		fmt.Fprintf(bw, "g submesh%d\n", si)
		if si < len(mats) && mats[si].Name != "" {
			fmt.Fprintf(bw, "usemtl %s\n", mats[si].Name)
		}
		for i := 0; i+2 < len(idx); i += 3 {
			writeFace(bw, idx[i], idx[i+1], idx[i+2], len(mesh.Normals) > 0, hasUV)
		}
	}

	return bw.Flush()
}

func writeFace(bw *bufio.Writer, a, b, c int, withNormals, withUV bool) {
	corner := func(i int) string {
		switch {
		case withNormals && withUV:
			return fmt.Sprintf("%d/%d/%d", i+1, i+1, i+1)
		case withUV:
			return fmt.Sprintf("%d/%d", i+1, i+1)
		case withNormals:
			return fmt.Sprintf("%d//%d", i+1, i+1)
		default:
			return fmt.Sprintf("%d", i+1)
		}
	}
	fmt.Fprintf(bw, "f %s %s %s\n", corner(a), corner(b), corner(c))
}
