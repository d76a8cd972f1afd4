// Package objmesh loads Wavefront .obj files into the flat vertex and
// index buffers the serializer consumes, and hosts the in-place mesh
// passes: welding, position normalization, tangent generation,
// octahedral direction encoding and reordering.
package objmesh

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cwoffenden/obj2buf/pkg/layout"
	"github.com/cwoffenden/obj2buf/pkg/math"
)

// Load errors.
var (
	ErrEmptyMesh   = errors.New("objmesh: no faces in file")
	ErrUnsupported = errors.New("objmesh: unsupported file type")
)

// Mesh is the working mesh: loaded here, manipulated in place by the
// pipeline passes, then serialized. Scale and bias record the position
// normalization for the metadata header (identity until Normalize
// runs).
type Mesh struct {
	Verts []layout.Vertex
	Index []uint32
	Scale math.Vec3
	Bias  math.Vec3
}

// Load reads a .obj file as one big triangle mesh: no objects, groups
// or materials, polygons fan-triangulated. The result is unindexed
// (three vertices per triangle); Weld builds the index buffer.
func Load(path string) (*Mesh, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".obj") {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("objmesh: %w", err)
	}
	defer f.Close()
	return parse(f)
}

func parse(f *os.File) (*Mesh, error) {
	var (
		positions []math.Vec3
		texcoords []math.Vec2
		normals   []math.Vec3
	)
	mesh := &Mesh{
		Scale: math.Vec3{X: 1, Y: 1, Z: 1},
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			positions = append(positions, parseVec3(fields[1:]))
		case "vn":
			normals = append(normals, parseVec3(fields[1:]))
		case "vt":
			v3 := parseVec3(fields[1:])
			texcoords = append(texcoords, math.Vec2{X: v3.X, Y: v3.Y})
		case "f":
			face := make([]layout.Vertex, 0, 4)
			for _, ref := range fields[1:] {
				face = append(face, cornerVertex(ref, positions, texcoords, normals))
			}
			mesh.Verts = appendFan(mesh.Verts, face)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("objmesh: %w", err)
	}
	if len(mesh.Verts) == 0 {
		return nil, ErrEmptyMesh
	}
	return mesh, nil
}

func parseVec3(fields []string) math.Vec3 {
	var v [3]float32
	for i := 0; i < len(fields) && i < 3; i++ {
		f, _ := strconv.ParseFloat(fields[i], 32)
		v[i] = float32(f)
	}
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// cornerVertex resolves one "pos/tex/norm" face corner. Indices are
// 1-based; negative indices count back from the end; missing parts
// stay zero.
func cornerVertex(ref string, positions []math.Vec3, texcoords []math.Vec2, normals []math.Vec3) layout.Vertex {
	var vert layout.Vertex
	parts := strings.Split(ref, "/")
	if i, ok := resolveIndex(parts[0], len(positions)); ok {
		vert.Posn = positions[i]
	}
	if len(parts) > 1 {
		if i, ok := resolveIndex(parts[1], len(texcoords)); ok {
			vert.UV0 = texcoords[i]
		}
	}
	if len(parts) > 2 {
		if i, ok := resolveIndex(parts[2], len(normals)); ok {
			vert.Norm = normals[i]
		}
	}
	return vert
}

func resolveIndex(field string, count int) (int, bool) {
	n, err := strconv.Atoi(field)
	if err != nil || n == 0 {
		return 0, false
	}
	if n < 0 {
		n += count
	} else {
		n--
	}
	if n < 0 || n >= count {
		return 0, false
	}
	return n, true
}

// appendFan triangulates a polygon as a fan, in an order chosen for
// compressibility rather than locality: each added triangle starts
// from the previous triangle's vertex, giving [0,1,2], [2,3,0],
// [0,3,4] and so on. Only convex polygons triangulate correctly, which
// holds for the tris and quads .obj exports contain in practice.
func appendFan(verts []layout.Vertex, face []layout.Vertex) []layout.Vertex {
	if len(face) < 3 {
		return verts
	}
	polyStart := len(verts)
	for i, v := range face {
		if i > 2 {
			if i&1 != 0 {
				verts = append(verts, verts[len(verts)-1])
			} else {
				verts = append(verts, verts[polyStart])
				verts = append(verts, verts[len(verts)-3])
			}
		}
		verts = append(verts, v)
		if i > 2 && i&1 != 0 {
			verts = append(verts, verts[polyStart])
		}
	}
	return verts
}

// Weld merges byte-identical vertices and builds the index buffer
// referencing the survivors, replacing the unindexed triangle list.
func (m *Mesh) Weld() {
	seen := make(map[layout.Vertex]uint32, len(m.Verts))
	unique := make([]layout.Vertex, 0, len(m.Verts))
	index := make([]uint32, 0, len(m.Verts))
	for _, v := range m.Verts {
		idx, ok := seen[v]
		if !ok {
			idx = uint32(len(unique))
			unique = append(unique, v)
			seen[v] = idx
		}
		index = append(index, idx)
	}
	m.Verts = unique
	m.Index = index
}

// Triangles returns the number of triangles.
func (m *Mesh) Triangles() int {
	if len(m.Index) > 0 {
		return len(m.Index) / 3
	}
	return len(m.Verts) / 3
}
