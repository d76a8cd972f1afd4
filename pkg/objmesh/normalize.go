package objmesh

import (
	stdmath "math"

	"github.com/cwoffenden/obj2buf/pkg/math"
)

// minScale stops near-degenerate axes from exploding positions when
// dividing by the extent (1/127 being the coarsest normalized step the
// serializer emits).
const minScale = 1.0 / 127

// Normalize rescales positions to a unit range and records the inverse
// transform in Scale and Bias so a consumer can recover model units.
//
// With unbiased set the mesh is divided by its full extent, fitting
// unsigned storage; otherwise it is centered and halved to [-1, 1].
// With uniform set a single scale (the largest axis) applies to all
// three, preserving aspect ratio.
func (m *Mesh) Normalize(uniform, unbiased bool) {
	if len(m.Verts) == 0 {
		return
	}
	minP := m.Verts[0].Posn
	maxP := m.Verts[0].Posn
	for _, v := range m.Verts[1:] {
		minP = math.Min(minP, v.Posn)
		maxP = math.Max(maxP, v.Posn)
	}

	scale := maxP.Sub(minP)
	if !unbiased {
		scale = scale.Scale(0.5)
	}
	scale.X = clampScale(scale.X)
	scale.Y = clampScale(scale.Y)
	scale.Z = clampScale(scale.Z)
	if uniform {
		s := max(scale.X, scale.Y, scale.Z)
		scale = math.Vec3{X: s, Y: s, Z: s}
	}

	bias := math.Vec3{}
	if unbiased {
		bias = minP
	} else {
		bias = minP.Add(maxP).Scale(0.5)
	}

	for i := range m.Verts {
		m.Verts[i].Posn = m.Verts[i].Posn.Sub(bias).Div(scale)
	}
	m.Scale = scale
	m.Bias = bias
}

func clampScale(s float32) float32 {
	if s < minScale {
		return minScale
	}
	if stdmath.IsInf(float64(s), 0) || stdmath.IsNaN(float64(s)) {
		return minScale
	}
	return s
}
