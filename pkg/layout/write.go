package layout

import (
	"github.com/cwoffenden/obj2buf/pkg/math"
	"github.com/cwoffenden/obj2buf/pkg/vertexpack"
)

// Vertex is one vertex ready for serialization. The raw attributes
// always hold the mesh data; the Enc fields are filled by the
// octahedral encoding pass and are only consulted when the layout was
// built with encoding enabled (raw and encoded forms stay distinct
// rather than sharing storage).
type Vertex struct {
	Posn math.Vec3
	UV0  math.Vec2
	Norm math.Vec3
	Tans math.Vec3
	Btan math.Vec3
	// Sign is the bitangent handedness, always +1 or -1, with the
	// bitangent recoverable as sign * cross(norm, tans).
	Sign float32

	EncNorm math.Vec2
	EncTans math.Vec2
	EncBtan math.Vec2
}

// WriteVertex emits one vertex through the packer following the
// planned layout exactly: packed values ride inline with their host
// attribute and alignment padding closes any attribute that still has
// slack. base is the buffer offset where vertex data began (alignment
// is relative to it). The packer's sticky error carries the result;
// the return mirrors it for call sites that check per vertex.
func (l *Layout) WriteVertex(p *vertexpack.Packer, v *Vertex, base int) bool {
	if l.Posn.Present() {
		p.WriteVec3(v.Posn, l.Posn.Storage)
		if l.PackSign == PackPosnW {
			p.WriteScalar(v.Sign, l.Posn.Storage)
		}
		if l.Posn.Unaligned {
			p.Align(base)
		}
	}
	if l.UV0.Present() {
		p.WriteVec2(v.UV0, l.UV0.Storage)
		if l.PackSign == PackUV0Z {
			p.WriteScalar(v.Sign, l.UV0.Storage)
		}
		if l.UV0.Unaligned {
			p.Align(base)
		}
	}
	if l.Norm.Present() {
		switch {
		case l.PackTans == PackNormZ:
			// Encoded normal and encoded tangents, two
			// components each; this layout excludes sign
			// packing here.
			p.WriteVec2(v.EncNorm, l.Norm.Storage)
			p.WriteVec2(v.EncTans, l.Norm.Storage)
		case l.PackSign == PackNormZ:
			// Sign in Z implies an encoded normal.
			p.WriteVec2(v.EncNorm, l.Norm.Storage)
			p.WriteScalar(v.Sign, l.Norm.Storage)
		default:
			if l.cfg.Encoded {
				p.WriteVec2(v.EncNorm, l.Norm.Storage)
			} else {
				p.WriteVec3(v.Norm, l.Norm.Storage)
			}
			if l.PackSign == PackNormW {
				p.WriteScalar(v.Sign, l.Norm.Storage)
			}
		}
		if l.Norm.Unaligned {
			p.Align(base)
		}
	}
	if l.Tans.Present() && l.PackTans == PackNone {
		if l.cfg.Encoded {
			p.WriteVec2(v.EncTans, l.Tans.Storage)
		} else {
			p.WriteVec3(v.Tans, l.Tans.Storage)
		}
		if l.PackSign == PackTansZ || l.PackSign == PackTansW {
			p.WriteScalar(v.Sign, l.Tans.Storage)
		}
		if l.Tans.Unaligned {
			p.Align(base)
		}
	}
	if l.Btan.Present() && l.PackSign == PackNone {
		switch l.Btan.Components {
		case 1:
			p.WriteScalar(v.Sign, l.Btan.Storage)
		case 2:
			p.WriteVec2(v.EncBtan, l.Btan.Storage)
		default:
			p.WriteVec3(v.Btan, l.Btan.Storage)
		}
		if l.Btan.Unaligned {
			p.Align(base)
		}
	}
	return p.Err() == nil
}

// WriteHeader emits the layout metadata: the two packing slots, the
// stride and the attribute count as bytes, then a 4-byte record per
// present attribute. Every field fits a byte (the maximum stride is
// 56) so nothing denser is worth the overhead.
func (l *Layout) WriteHeader(p *vertexpack.Packer) bool {
	attrs := 0
	for _, a := range l.slots() {
		if a.Present() {
			attrs++
		}
	}
	p.WriteInt(int(l.PackTans), vertexpack.UInt8Clamp)
	p.WriteInt(int(l.PackSign), vertexpack.UInt8Clamp)
	p.WriteInt(l.Stride, vertexpack.UInt8Clamp)
	p.WriteInt(attrs, vertexpack.UInt8Clamp)
	ids := []int{AttrPosn, AttrUV0, AttrNorm, AttrTans, AttrBtan}
	for i, a := range l.slots() {
		writeAttrRecord(p, a, ids[i])
	}
	return p.Err() == nil
}

func (l *Layout) slots() [5]*AttrSlot {
	return [5]*AttrSlot{&l.Posn, &l.UV0, &l.Norm, &l.Tans, &l.Btan}
}

// writeAttrRecord emits {id, components, basic type with the high bit
// flagging normalized, offset}. Absent attributes write nothing.
func writeAttrRecord(p *vertexpack.Packer, a *AttrSlot, id int) {
	if !a.Present() {
		return
	}
	basic := int(a.Storage.BasicType())
	if a.Storage.IsNormalized() {
		basic |= 0x80
	}
	p.WriteInt(id, vertexpack.UInt8Clamp)
	p.WriteInt(a.Components, vertexpack.UInt8Clamp)
	p.WriteInt(basic, vertexpack.UInt8Clamp)
	p.WriteInt(a.Offset, vertexpack.UInt8Clamp)
}
