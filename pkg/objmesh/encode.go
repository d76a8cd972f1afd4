package objmesh

import (
	"github.com/cwoffenden/obj2buf/pkg/octahedral"
	"github.com/cwoffenden/obj2buf/pkg/vertexpack"
)

// EncodeOptions selects how directions compress to two components.
type EncodeOptions struct {
	// Norm and Tans are the storage types the layout will quantize
	// the encoded components to, driving the precision refinement.
	Norm vertexpack.Storage
	Tans vertexpack.Storage
	// Tangents encodes the tangent alongside the normal; FullBitangent
	// additionally encodes the bitangent vector, for consumers that
	// want it verbatim instead of rebuilding it from the sign.
	Tangents      bool
	FullBitangent bool
	// XYOnly stores the raw X and Y, leaving Z to be recovered as
	// sqrt(1-x²-y²); cheaper to decode than octahedral but only valid
	// for Z >= 0 in practice.
	XYOnly bool
	// Legacy matches the signed normalization the layout will apply.
	Legacy bool
}

// EncodeDirections fills each vertex's 2-component direction fields
// from its normal (and optionally tangent and bitangent) using either
// octahedral encoding or the XY projection.
func (m *Mesh) EncodeDirections(o EncodeOptions) {
	for i := range m.Verts {
		v := &m.Verts[i]
		if o.XYOnly {
			v.EncNorm = v.Norm.XY()
			if o.Tangents {
				v.EncTans = v.Tans.XY()
				if o.FullBitangent {
					v.EncBtan = v.Btan.XY()
				}
			}
			continue
		}
		v.EncNorm = octahedral.EncodePrecise(v.Norm, o.Norm, o.Legacy)
		if o.Tangents {
			v.EncTans = octahedral.EncodePrecise(v.Tans, o.Tans, o.Legacy)
			if o.FullBitangent {
				v.EncBtan = octahedral.EncodePrecise(v.Btan, o.Tans, o.Legacy)
			}
		}
	}
}
