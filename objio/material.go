package objio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SubMeshMaterial holds the Wavefront MTL properties tied to the sub-mesh
// index stream at the same slice position in a Read/ReadFile result. A
// zero-value SubMeshMaterial (empty Name) means that sub-mesh never saw a
// "usemtl" directive. A "usemtl" name that didn't resolve against any
// loaded "mtllib" library keeps its Name with all other fields zero.
type SubMeshMaterial struct {
	Name             string
	DiffuseColor     [3]float32 // Kd
	SpecularColor    [3]float32 // Ks
	Shininess        float32    // Ns
	AmbientIntensity float32    // average of the three Ka components
}

// parseMTL parses Wavefront MTL text from r into a lookup keyed by material
// name. Directives this package's renderer has no use for ("d", "Tr",
// "illum", "map_Kd") are recognised and skipped rather than falling through
// to the unknown-directive case, matching the source material library's
// documented-but-inert handling of the same lines.
func parseMTL(r io.Reader) (map[string]SubMeshMaterial, error) {
	lib := make(map[string]SubMeshMaterial)
	var currentName string
	var current SubMeshMaterial

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "newmtl":
			if currentName != "" {
				lib[currentName] = current
			}
			if len(parts) < 2 {
				currentName = ""
				continue
			}
			currentName = parts[1]
			current = SubMeshMaterial{Name: currentName}

		case "Kd":
			if rgb, ok := parseRGB(parts); ok {
				current.DiffuseColor = rgb
			}

		case "Ks":
			if rgb, ok := parseRGB(parts); ok {
				current.SpecularColor = rgb
			}

		case "Ka":
			if rgb, ok := parseRGB(parts); ok {
				current.AmbientIntensity = (rgb[0] + rgb[1] + rgb[2]) / 3
			}

		case "Ns":
			if len(parts) >= 2 {
				if ns, err := strconv.ParseFloat(parts[1], 32); err == nil {
					current.Shininess = float32(ns)
				}
			}

		case "d", "Tr", "illum", "map_Kd":
			continue

		default:
			continue
		}
	}
	if currentName != "" {
		lib[currentName] = current
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("objio: mtl: %w", err)
	}
	return lib, nil
}

func parseRGB(parts []string) ([3]float32, bool) {
	var rgb [3]float32
	if len(parts) < 4 {
		return rgb, false
	}
	r, err1 := strconv.ParseFloat(parts[1], 32)
	g, err2 := strconv.ParseFloat(parts[2], 32)
	b, err3 := strconv.ParseFloat(parts[3], 32)
	if err1 != nil || err2 != nil || err3 != nil {
		return rgb, false
	}
	return [3]float32{float32(r), float32(g), float32(b)}, true
}

// encodeMTL writes mats as Wavefront MTL text to w, one "newmtl" block per
// distinct non-empty name, in order of first appearance.
func encodeMTL(w io.Writer, mats []SubMeshMaterial) error {
	bw := bufio.NewWriter(w)
	seen := make(map[string]bool)
	for _, m := range mats {
		if m.Name == "" || seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		fmt.Fprintf(bw, "newmtl %s\n", m.Name)
		fmt.Fprintf(bw, "Kd %.6f %.6f %.6f\n", m.DiffuseColor[0], m.DiffuseColor[1], m.DiffuseColor[2])
		fmt.Fprintf(bw, "Ks %.6f %.6f %.6f\n", m.SpecularColor[0], m.SpecularColor[1], m.SpecularColor[2])
		fmt.Fprintf(bw, "Ns %.6f\n\n", m.Shininess)
	}
	return bw.Flush()
}
