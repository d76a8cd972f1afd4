package objmesh

import (
	"errors"

	"github.com/cwoffenden/obj2buf/pkg/layout"
	"github.com/cwoffenden/obj2buf/pkg/math"
)

// ErrNoTexCoords is returned when tangents are requested but no
// triangle has a usable UV parameterization.
var ErrNoTexCoords = errors.New("objmesh: tangent generation needs texture coordinates")

// GenerateTangents derives a per-vertex tangent frame from the UV
// gradients of each triangle, Gram-Schmidt orthogonalized against the
// normal, with the handedness sign stored alongside. Runs on the
// unindexed mesh, before welding, so mirrored seams keep their own
// frames. flipG flips the V axis for green-down normal maps.
//
// Triangles with a degenerate UV mapping fall back to an arbitrary
// frame perpendicular to the normal; if every triangle degenerates the
// mesh has no texture coordinates and an error is returned.
func (m *Mesh) GenerateTangents(flipG bool) error {
	usable := 0
	for i := 0; i+2 < len(m.Verts); i += 3 {
		v0, v1, v2 := &m.Verts[i], &m.Verts[i+1], &m.Verts[i+2]

		e01 := v1.Posn.Sub(v0.Posn)
		e02 := v2.Posn.Sub(v0.Posn)
		duv01 := v1.UV0.Sub(v0.UV0)
		duv02 := v2.UV0.Sub(v0.UV0)
		if flipG {
			duv01.Y = -duv01.Y
			duv02.Y = -duv02.Y
		}

		det := duv01.X*duv02.Y - duv02.X*duv01.Y
		var tan, btan math.Vec3
		if det != 0 {
			f := 1 / det
			tan = e01.Scale(duv02.Y).Sub(e02.Scale(duv01.Y)).Scale(f)
			btan = e02.Scale(duv01.X).Sub(e01.Scale(duv02.X)).Scale(f)
			usable++
		}

		for _, v := range [3]*layout.Vertex{v0, v1, v2} {
			v.Tans, v.Btan, v.Sign = tangentFrame(v.Norm, tan, btan)
		}
	}
	if usable == 0 {
		return ErrNoTexCoords
	}
	return nil
}

// tangentFrame orthogonalizes the accumulated tangent against the
// normal and rebuilds the bitangent from the cross product so the
// frame is exactly orthonormal, keeping only the handedness from the
// UV-derived bitangent.
func tangentFrame(norm, tan, btan math.Vec3) (math.Vec3, math.Vec3, float32) {
	t := tan.Sub(norm.Scale(norm.Dot(tan))).Normalize()
	if t.Length() == 0 {
		t = anyPerpendicular(norm)
	}
	sign := float32(1)
	if norm.Cross(t).Dot(btan) < 0 {
		sign = -1
	}
	b := norm.Cross(t).Scale(sign)
	return t, b, sign
}

// anyPerpendicular picks a unit vector perpendicular to n, biased away
// from n's dominant axis so the cross product stays well conditioned.
func anyPerpendicular(n math.Vec3) math.Vec3 {
	axis := math.Vec3{X: 1}
	if n.X*n.X > n.Y*n.Y {
		axis = math.Vec3{Y: 1}
	}
	return n.Cross(axis).Normalize()
}
