// Package layout plans interleaved vertex buffer layouts: attribute
// offsets, 4-byte alignment padding, and the opportunistic packing of
// small values into other attributes' padding bytes.
package layout

import (
	"fmt"

	"github.com/cwoffenden/obj2buf/pkg/vertexpack"
)

// Attribute ids written to the metadata header. UV1 is reserved for a
// second channel that the converter does not currently fill.
const (
	AttrPosn = 0
	AttrUV0  = 1
	AttrUV1  = 2
	AttrNorm = 3
	AttrTans = 4
	AttrBtan = 5
)

// Packing records where an extra value was squeezed into another
// attribute's spare components. Where a pair is packed (the encoded
// tangents) the value marks the first component.
type Packing uint8

// Packing slots.
const (
	PackNone  Packing = iota // not packed: unused or no space
	PackPosnW                // position's 4th component
	PackUV0Z                 // UV channel 0's 3rd component
	PackNormZ                // encoded normal's 3rd component
	PackNormW                // normal's 4th component
	PackTansZ                // encoded tangent's 3rd component
	PackTansW                // tangent's 4th component
)

// String returns the shader-style component name of the slot.
func (p Packing) String() string {
	switch p {
	case PackNone:
		return "none"
	case PackPosnW:
		return "posn.w"
	case PackUV0Z:
		return "uv0.z"
	case PackNormZ:
		return "norm.z"
	case PackNormW:
		return "norm.w"
	case PackTansZ:
		return "tans.z"
	case PackTansW:
		return "tans.w"
	}
	return fmt.Sprintf("Packing(%d)", uint8(p))
}

// Config selects the storage type per attribute and the packing
// behavior. A zero Storage value excludes the attribute.
type Config struct {
	Posn vertexpack.Storage
	UV0  vertexpack.Storage
	Norm vertexpack.Storage
	Tans vertexpack.Storage

	// Encoded stores normals (and tangents) as 2-component
	// octahedral encodings instead of 3-component vectors.
	Encoded bool

	// BtanSign stores only the bitangent's handedness sign, the
	// full bitangent being recovered from sign * cross(norm, tans)
	// at render time.
	BtanSign bool
}

// AttrSlot describes one attribute in the interleaved layout. Offset
// and the natural component count are fixed once assigned; only
// packing grows Components, to at most 4.
type AttrSlot struct {
	Storage    vertexpack.Storage
	Offset     int
	Components int
	// Unaligned is set when Components*Bytes is not a multiple of
	// 4, meaning the attribute is followed by padding (which a pack
	// may consume).
	Unaligned bool
}

// Present reports whether the attribute takes part in the layout.
func (a *AttrSlot) Present() bool {
	return a.Storage != vertexpack.Excluded
}

// AlignedSize returns the attribute's byte size padded to 4.
func (a *AttrSlot) AlignedSize() int {
	return a.Storage.AlignedSize(a.Components)
}

func (a *AttrSlot) fill(s vertexpack.Storage, offset, components int) {
	a.Storage = s
	a.Offset = offset
	a.Components = components
	a.validate()
}

func (a *AttrSlot) validate() {
	if a.Present() {
		a.Unaligned = (a.Components*a.Storage.Bytes())&3 != 0
	}
}

// Layout is the computed buffer layout: immutable once built, shared
// by every per-vertex write. Stride is always a multiple of 4.
type Layout struct {
	Posn AttrSlot
	UV0  AttrSlot
	Norm AttrSlot
	Tans AttrSlot
	Btan AttrSlot

	PackSign Packing // where the bitangent sign went
	PackTans Packing // where the encoded tangent pair went

	Stride int

	cfg Config
}

// New computes the layout from the requested attribute types. Slots
// are visited in a fixed order (position, uv0, normal, tangent, then
// an unpacked bitangent) and packing is first fit with no
// backtracking. Packing that cannot be placed is not an error: the
// value falls back to a standalone attribute.
func New(cfg Config) *Layout {
	l := &Layout{cfg: cfg}
	hasBtanSign := cfg.BtanSign && cfg.Tans != vertexpack.Excluded
	// The tangent pair can only ride along when both directions are
	// octahedral encoded and share a storage type, making the
	// deliberate 4-component normal layout possible.
	hasTansPack := cfg.Encoded && cfg.Tans != vertexpack.Excluded && cfg.Tans == cfg.Norm

	offset := 0
	if cfg.Posn != vertexpack.Excluded {
		// Positions are always X, Y and Z at offset zero. A 1- or
		// 2-byte type leaves padding that a signed type can lend
		// to the bitangent sign.
		l.Posn.fill(cfg.Posn, offset, 3)
		if hasBtanSign && cfg.Posn.IsSigned() {
			l.tryPacking(&l.PackSign, &l.Posn, 1, PackPosnW, false)
		}
		offset += l.Posn.AlignedSize()
	}
	if cfg.UV0 != vertexpack.Excluded {
		// UVs are X and Y. Only a signed UV type can host the
		// sign, which rules out the usual unsigned formats.
		l.UV0.fill(cfg.UV0, offset, 2)
		if hasBtanSign && cfg.UV0.IsSigned() {
			l.tryPacking(&l.PackSign, &l.UV0, 1, PackUV0Z, false)
		}
		offset += l.UV0.AlignedSize()
	}
	if cfg.Norm != vertexpack.Excluded {
		// Unencoded normals are X, Y and Z; encoded are two
		// components. Encoded normals can also carry the encoded
		// tangent pair in Z and W, a forced packing since it is a
		// planned 4-component layout rather than padding reuse.
		comps := 3
		if cfg.Encoded {
			comps = 2
		}
		l.Norm.fill(cfg.Norm, offset, comps)
		if hasTansPack {
			l.tryPacking(&l.PackTans, &l.Norm, 2, PackNormZ, true)
		} else if hasBtanSign && cfg.Norm.IsSigned() {
			where := PackNormW
			if cfg.Encoded {
				where = PackNormZ
			}
			l.tryPacking(&l.PackSign, &l.Norm, 1, where, false)
		}
		offset += l.Norm.AlignedSize()
	}
	if cfg.Tans != vertexpack.Excluded {
		if l.PackTans == PackNone {
			// Tangents that weren't packed get their own slot,
			// which in turn may host the sign.
			comps := 3
			if cfg.Encoded {
				comps = 2
			}
			l.Tans.fill(cfg.Tans, offset, comps)
			if hasBtanSign && cfg.Tans.IsSigned() {
				where := PackTansW
				if cfg.Encoded {
					where = PackTansZ
				}
				l.tryPacking(&l.PackSign, &l.Tans, 1, where, false)
			}
			offset += l.Tans.AlignedSize()
		}
		if l.PackSign == PackNone {
			// Nothing took the sign, so the bitangent needs its
			// own slot: just the sign, the encoded pair, or the
			// full vector.
			comps := 3
			switch {
			case hasBtanSign:
				comps = 1
			case cfg.Encoded:
				comps = 2
			}
			l.Btan.fill(cfg.Tans, offset, comps)
			offset += l.Btan.AlignedSize()
		}
	}
	l.Stride = offset
	return l
}

// tryPacking grows attr by numComps and records the pack when the
// target decision is still open, the attribute is present with spare
// padding (or force is set) and the component limit of 4 holds.
func (l *Layout) tryPacking(what *Packing, attr *AttrSlot, numComps int, where Packing, force bool) {
	if *what != PackNone {
		return
	}
	if attr.Present() && attr.Components+numComps <= 4 && (attr.Unaligned || force) {
		attr.Components += numComps
		*what = where
		attr.validate()
	}
}

// Describe returns the layout as GL-style attribute pointer lines plus
// notes for the packed values, for logging.
func (l *Layout) Describe() []string {
	var lines []string
	attr := func(a *AttrSlot, name string) {
		if a.Present() {
			normalized := "FALSE"
			if a.Storage.IsNormalized() {
				normalized = "TRUE"
			}
			lines = append(lines, fmt.Sprintf(
				"glVertexAttribPointer(%s, %d, GL_%s, GL_%s, %d, (void*) %d)",
				name, a.Components, a.Storage, normalized, l.Stride, a.Offset))
		}
	}
	attr(&l.Posn, "VERT_POSN_ID")
	attr(&l.UV0, "VERT_TEX0_ID")
	attr(&l.Norm, "VERT_NORM_ID")
	if l.PackTans == PackNone {
		attr(&l.Tans, "VERT_TANS_ID")
	} else {
		lines = append(lines, fmt.Sprintf("encoded tangents packed in %s (note the four components)", l.PackTans))
	}
	if l.PackSign == PackNone {
		attr(&l.Btan, "VERT_BTAN_ID")
	} else {
		lines = append(lines, fmt.Sprintf("bitangent sign packed in %s", l.PackSign))
	}
	return lines
}
