package layout

import (
	"testing"

	"github.com/cwoffenden/obj2buf/pkg/math"
	"github.com/cwoffenden/obj2buf/pkg/vertexpack"
)

// Scenario: all-float attributes, no tangents, no encoding. Nothing
// packs (floats are aligned already) and the stride is 12+8+12.
func TestLayoutAllFloat(t *testing.T) {
	l := New(Config{
		Posn: vertexpack.Float32,
		UV0:  vertexpack.Float32,
		Norm: vertexpack.Float32,
	})
	if l.Stride != 32 {
		t.Errorf("stride = %d, want 32", l.Stride)
	}
	if l.Posn.Offset != 0 || l.UV0.Offset != 12 || l.Norm.Offset != 20 {
		t.Errorf("offsets = %d/%d/%d, want 0/12/20",
			l.Posn.Offset, l.UV0.Offset, l.Norm.Offset)
	}
	if l.PackSign != PackNone || l.PackTans != PackNone {
		t.Errorf("unexpected packing: sign=%v tans=%v", l.PackSign, l.PackTans)
	}

	buf := make([]byte, 64)
	p := vertexpack.NewPacker(buf, 0)
	v := &Vertex{
		Posn: math.Vec3{X: 1, Y: 2, Z: 3},
		UV0:  math.Vec2{X: 0.5, Y: 0.25},
		Norm: math.Vec3{Z: 1},
	}
	if !l.WriteVertex(p, v, 0) {
		t.Fatalf("WriteVertex failed: %v", p.Err())
	}
	if p.Size() != 32 {
		t.Errorf("wrote %d bytes, want 32", p.Size())
	}
}

// Scenario: short positions with encoded byte normals and tangents
// sharing a type, sign-only bitangents. The tangent pair packs into
// norm.zw (forced), the sign packs into the position's padding, and
// the stride collapses to 12.
func TestLayoutPackedEncodedTangents(t *testing.T) {
	l := New(Config{
		Posn:     vertexpack.SInt16Norm,
		Norm:     vertexpack.SInt8Norm,
		Tans:     vertexpack.SInt8Norm,
		Encoded:  true,
		BtanSign: true,
	})
	if l.Stride != 12 {
		t.Errorf("stride = %d, want 12", l.Stride)
	}
	if l.PackTans != PackNormZ {
		t.Errorf("PackTans = %v, want %v", l.PackTans, PackNormZ)
	}
	if l.PackSign != PackPosnW {
		t.Errorf("PackSign = %v, want %v", l.PackSign, PackPosnW)
	}
	if l.Posn.Components != 4 || l.Norm.Components != 4 {
		t.Errorf("components = posn %d, norm %d, want 4 and 4",
			l.Posn.Components, l.Norm.Components)
	}
	if l.Norm.Offset != 8 {
		t.Errorf("norm offset = %d, want 8", l.Norm.Offset)
	}
	// Tangent and bitangent slots fold away entirely.
	if l.Tans.Present() || l.Btan.Present() {
		t.Error("tangent/bitangent should have no standalone slot")
	}

	p := vertexpack.NewPacker(make([]byte, 64), 0)
	v := &Vertex{
		Posn:    math.Vec3{X: 0.5, Y: -0.5, Z: 1},
		Sign:    -1,
		EncNorm: math.Vec2{X: 0.25, Y: -0.75},
		EncTans: math.Vec2{X: -1, Y: 0.5},
	}
	if !l.WriteVertex(p, v, 0) {
		t.Fatalf("WriteVertex failed: %v", p.Err())
	}
	if p.Size() != 12 {
		t.Errorf("wrote %d bytes, want 12", p.Size())
	}
	// The sign lands in bytes 6-7 as an SInt16Norm -1.
	b := p.Bytes()
	if got := int16(uint16(b[6]) | uint16(b[7])<<8); got != -32767 {
		t.Errorf("packed sign = %d, want -32767", got)
	}
}

// With unsigned positions the sign cannot ride in posn.w and falls
// through to the next padded signed host.
func TestLayoutSignSkipsUnsignedHost(t *testing.T) {
	l := New(Config{
		Posn:     vertexpack.UInt16Norm,
		Norm:     vertexpack.SInt8Norm,
		Tans:     vertexpack.SInt8Norm,
		BtanSign: true,
	})
	if l.PackSign != PackNormW {
		t.Errorf("PackSign = %v, want %v", l.PackSign, PackNormW)
	}
	// Position still pads out to 8 bytes with no pack.
	if l.Posn.Components != 3 || !l.Posn.Unaligned {
		t.Errorf("position slot changed: comps %d unaligned %v",
			l.Posn.Components, l.Posn.Unaligned)
	}
}

// Infeasible packing is not an error: the sign becomes a standalone
// single-component bitangent slot.
func TestLayoutSignFallbackStandalone(t *testing.T) {
	l := New(Config{
		Posn:     vertexpack.Float32,
		UV0:      vertexpack.Float32,
		Norm:     vertexpack.Float32,
		Tans:     vertexpack.Float32,
		BtanSign: true,
	})
	if l.PackSign != PackNone {
		t.Errorf("PackSign = %v, want none (no padded hosts)", l.PackSign)
	}
	if !l.Btan.Present() || l.Btan.Components != 1 {
		t.Errorf("bitangent slot = %+v, want 1 standalone component", l.Btan)
	}
	// 12 + 8 + 12 + 12 + 4 (sign padded to 4).
	if l.Stride != 48 {
		t.Errorf("stride = %d, want 48", l.Stride)
	}
}

// Full bitangent storage: no sign-only mode, no packing, three
// components each for tangent and bitangent.
func TestLayoutFullBitangent(t *testing.T) {
	l := New(Config{
		Posn: vertexpack.Float32,
		Norm: vertexpack.Float32,
		Tans: vertexpack.Float32,
	})
	if !l.Tans.Present() || l.Tans.Components != 3 {
		t.Errorf("tangent slot = %+v", l.Tans)
	}
	if !l.Btan.Present() || l.Btan.Components != 3 {
		t.Errorf("bitangent slot = %+v", l.Btan)
	}
	if l.Stride != 48 {
		t.Errorf("stride = %d, want 48", l.Stride)
	}
}

func TestLayoutDeterministic(t *testing.T) {
	cfg := Config{
		Posn:     vertexpack.SInt16Norm,
		UV0:      vertexpack.UInt16Norm,
		Norm:     vertexpack.SInt8Norm,
		Tans:     vertexpack.SInt8Norm,
		Encoded:  true,
		BtanSign: true,
	}
	a := New(cfg)
	b := New(cfg)
	if *a != *b {
		t.Error("layout is not a pure function of its config")
	}
}

func TestLayoutStrideAlwaysAligned(t *testing.T) {
	types := []vertexpack.Storage{
		vertexpack.Excluded, vertexpack.SInt8Norm, vertexpack.UInt8Norm,
		vertexpack.SInt16Norm, vertexpack.Float16, vertexpack.Float32,
	}
	for _, posn := range types {
		for _, uv := range types {
			for _, norm := range types {
				for _, enc := range []bool{false, true} {
					l := New(Config{
						Posn: posn, UV0: uv, Norm: norm,
						Tans: norm, Encoded: enc, BtanSign: true,
					})
					if l.Stride%4 != 0 {
						t.Fatalf("stride %d not a multiple of 4 for %v/%v/%v enc=%v",
							l.Stride, posn, uv, norm, enc)
					}
				}
			}
		}
	}
}

// The two packing decisions may never claim the same components.
func TestLayoutPackingMutualExclusion(t *testing.T) {
	types := []vertexpack.Storage{
		vertexpack.SInt8Norm, vertexpack.SInt16Norm, vertexpack.Float16,
	}
	for _, posn := range types {
		for _, norm := range types {
			l := New(Config{
				Posn: posn, Norm: norm, Tans: norm,
				Encoded: true, BtanSign: true,
			})
			if l.PackTans == PackNone || l.PackSign == PackNone {
				continue
			}
			if l.PackTans == l.PackSign {
				t.Errorf("posn=%v norm=%v: sign and tangents share %v",
					posn, norm, l.PackSign)
			}
		}
	}
}

// Empty config: zero stride, every write a no-op success.
func TestLayoutEmpty(t *testing.T) {
	l := New(Config{})
	if l.Stride != 0 {
		t.Errorf("stride = %d, want 0", l.Stride)
	}
	p := vertexpack.NewPacker(nil, 0)
	if !l.WriteVertex(p, &Vertex{}, 0) {
		t.Error("empty vertex write should succeed")
	}
	if p.Size() != 0 {
		t.Errorf("empty layout wrote %d bytes", p.Size())
	}
}

// Written bytes per vertex always equal the planned stride.
func TestWriteVertexMatchesStride(t *testing.T) {
	configs := []Config{
		{Posn: vertexpack.SInt8Norm, UV0: vertexpack.UInt8Norm, Norm: vertexpack.SInt8Norm},
		{Posn: vertexpack.SInt16Norm, UV0: vertexpack.Float16, Norm: vertexpack.SInt8Norm,
			Tans: vertexpack.SInt8Norm, BtanSign: true},
		{Posn: vertexpack.Float32, Norm: vertexpack.SInt16Norm,
			Tans: vertexpack.SInt16Norm, Encoded: true},
		{Posn: vertexpack.SInt16Norm, Norm: vertexpack.SInt8Norm,
			Tans: vertexpack.SInt8Norm, Encoded: true, BtanSign: true},
		{Posn: vertexpack.Float16, UV0: vertexpack.UInt16Norm,
			Norm: vertexpack.Float16, Tans: vertexpack.Float16},
	}
	v := &Vertex{
		Posn: math.Vec3{X: 0.3, Y: -0.6, Z: 0.9},
		UV0:  math.Vec2{X: 0.5, Y: 0.5},
		Norm: math.Vec3{Z: 1}, Tans: math.Vec3{X: 1},
		Btan: math.Vec3{Y: 1}, Sign: 1,
		EncNorm: math.Vec2{X: 0.5, Y: 0.5},
		EncTans: math.Vec2{X: -0.5, Y: 0.5},
		EncBtan: math.Vec2{X: 0.25, Y: -0.25},
	}
	for i, cfg := range configs {
		l := New(cfg)
		p := vertexpack.NewPacker(make([]byte, 256), 0)
		for n := 0; n < 3; n++ {
			if !l.WriteVertex(p, v, 0) {
				t.Fatalf("config %d: write %d failed: %v", i, n, p.Err())
			}
			if p.Size() != (n+1)*l.Stride {
				t.Fatalf("config %d: size %d after %d writes of stride %d",
					i, p.Size(), n+1, l.Stride)
			}
		}
	}
}

func TestWriteHeader(t *testing.T) {
	l := New(Config{
		Posn: vertexpack.Float32,
		UV0:  vertexpack.Float32,
		Norm: vertexpack.SInt16Norm,
	})
	p := vertexpack.NewPacker(make([]byte, 64), 0)
	if !l.WriteHeader(p) {
		t.Fatalf("WriteHeader failed: %v", p.Err())
	}
	// 4 header bytes + 3 present attributes * 4 bytes.
	if p.Size() != 16 {
		t.Errorf("header size = %d, want 16", p.Size())
	}
	b := p.Bytes()
	if b[0] != byte(PackNone) || b[1] != byte(PackNone) {
		t.Errorf("packing bytes = %d %d", b[0], b[1])
	}
	if b[2] != byte(l.Stride) {
		t.Errorf("stride byte = %d, want %d", b[2], l.Stride)
	}
	if b[3] != 3 {
		t.Errorf("attribute count = %d, want 3", b[3])
	}
	// First record: position, 3 float components at offset 0.
	if b[4] != AttrPosn || b[5] != 3 || b[6] != byte(vertexpack.TypeFloat) || b[7] != 0 {
		t.Errorf("position record = % x", b[4:8])
	}
	// Third record: normal, normalized short flagged with the high
	// bit, offset 20.
	if b[12] != AttrNorm || b[13] != 3 || b[14] != byte(vertexpack.TypeInt16)|0x80 || b[15] != 20 {
		t.Errorf("normal record = % x", b[12:16])
	}
}
