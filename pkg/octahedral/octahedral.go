// Package octahedral encodes unit direction vectors into two
// components, trading a small bounded angular error for a third of the
// storage.
package octahedral

import (
	stdmath "math"

	"github.com/cwoffenden/obj2buf/pkg/math"
	"github.com/cwoffenden/obj2buf/pkg/vertexpack"
)

// signNotZero returns +1 for zero (where the mathematical sign would
// be 0). The octahedral fold depends on this at the boundaries.
func signNotZero(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}

// Encode projects a unit vector onto the octahedron and flattens it to
// two components in [-1,1]. The lower hemisphere folds over the
// diagonals.
func Encode(v math.Vec3) math.Vec2 {
	sum := abs(v.X) + abs(v.Y) + abs(v.Z)
	enc := math.Vec2{X: v.X / sum, Y: v.Y / sum}
	if v.Z <= 0 {
		enc = math.Vec2{
			X: (1 - abs(enc.Y)) * signNotZero(enc.X),
			Y: (1 - abs(enc.X)) * signNotZero(enc.Y),
		}
	}
	return enc
}

// Decode reverses Encode, always returning a unit vector (the zero
// encoding decodes to the zero vector rather than NaN).
func Decode(enc math.Vec2) math.Vec3 {
	v := math.Vec3{
		X: enc.X,
		Y: enc.Y,
		Z: 1 - abs(enc.X) - abs(enc.Y),
	}
	if v.Z < 0 {
		x := v.X
		v.X = (1 - abs(v.Y)) * signNotZero(x)
		v.Y = (1 - abs(x)) * signNotZero(v.Y)
	}
	return v.Normalize()
}

// AngularError returns the angle in radians between a unit vector and
// a decoded approximation, via atan2 of the cross and dot products
// (better conditioned for small angles than acos of the dot).
func AngularError(v, dec math.Vec3) float32 {
	return float32(stdmath.Atan2(float64(v.Cross(dec).Length()), float64(v.Dot(dec))))
}

// EncodePrecise encodes v then refines each axis against the
// quantization grid of the target storage type: the floor and ceiling
// neighbors of the float-precision encoding are combined per axis and
// the combination decoding closest to v (by angular error, ties broken
// by unit length) wins. Rounding the float encoding naively loses up
// to half a quantization step of accuracy; the search never does
// worse.
func EncodePrecise(v math.Vec3, s vertexpack.Storage, legacy bool) math.Vec2 {
	enc := Encode(v)
	xs := [2]float32{quantFloor(enc.X, s, legacy), quantCeil(enc.X, s, legacy)}
	ys := [2]float32{quantFloor(enc.Y, s, legacy), quantCeil(enc.Y, s, legacy)}
	var (
		best     math.Vec2
		bestErr  = float32(stdmath.Inf(1))
		bestUnit = float32(stdmath.Inf(1))
	)
	for _, x := range xs {
		for _, y := range ys {
			cand := math.Vec2{X: x, Y: y}
			dec := decodeRaw(cand)
			unit := abs(dec.Length() - 1)
			angErr := AngularError(v, dec.Normalize())
			if angErr < bestErr || (angErr == bestErr && unit < bestUnit) {
				best = cand
				bestErr = angErr
				bestUnit = unit
				if angErr == 0 && unit == 0 {
					return best
				}
			}
		}
	}
	return best
}

// decodeRaw is Decode without the final normalization, keeping the
// length deviation visible for tie-breaking.
func decodeRaw(enc math.Vec2) math.Vec3 {
	v := math.Vec3{
		X: enc.X,
		Y: enc.Y,
		Z: 1 - abs(enc.X) - abs(enc.Y),
	}
	if v.Z < 0 {
		x := v.X
		v.X = (1 - abs(v.Y)) * signNotZero(x)
		v.Y = (1 - abs(x)) * signNotZero(v.Y)
	}
	return v
}

// quantFloor returns the largest value representable in s that is not
// greater than val; quantCeil the smallest not less. The integer types
// quantize on their own encode/decode grid, Float16 on the half-float
// grid, and Float32 is already exact.
func quantFloor(val float32, s vertexpack.Storage, legacy bool) float32 {
	if s == vertexpack.Float16 {
		return halfNeighbor(val, false)
	}
	return quantize(val, s, legacy, stdmath.Floor)
}

func quantCeil(val float32, s vertexpack.Storage, legacy bool) float32 {
	if s == vertexpack.Float16 {
		return halfNeighbor(val, true)
	}
	return quantize(val, s, legacy, stdmath.Ceil)
}

// halfNeighbor returns the half-precision value adjacent to val on the
// requested side, starting from the round-to-nearest conversion and
// stepping one half ULP when the rounding went the wrong way.
func halfNeighbor(val float32, up bool) float32 {
	h := vertexpack.FloatToHalf(val)
	q := vertexpack.HalfToFloat(h)
	if up {
		if q >= val {
			return q
		}
		return vertexpack.HalfToFloat(halfStep(h, true))
	}
	if q <= val {
		return q
	}
	return vertexpack.HalfToFloat(halfStep(h, false))
}

// halfStep moves a finite half one representable value towards
// positive (up) or negative infinity, crossing zero correctly.
func halfStep(h uint16, up bool) uint16 {
	negative := h&0x8000 != 0
	if up == !negative {
		// Away from zero.
		return h + 1
	}
	// Towards zero, flipping sign at zero.
	if h&0x7FFF == 0 {
		if up {
			return 0x0001
		}
		return 0x8001
	}
	return h - 1
}

func quantize(val float32, s vertexpack.Storage, legacy bool, round func(float64) float64) float32 {
	bits := s.FractionBits()
	if bits == 0 || s == vertexpack.Float32 {
		return val
	}
	if legacy && s.IsNormalized() && s.IsSigned() {
		// Legacy grid: stored n decodes to (2n+1)/(2^b-1).
		full := bits + 1
		scale := float64(int32(1)<<full - 1)
		n := round((float64(val)*scale - 1) / 2)
		n = clampf(n, -float64(int32(1)<<(full-1)), float64(int32(1)<<(full-1)-1))
		return float32((2*n + 1) / scale)
	}
	scale := float64(int32(1)<<bits - 1)
	n := round(float64(val) * scale)
	if s.IsSigned() {
		n = clampf(n, -scale, scale)
	} else {
		n = clampf(n, 0, scale)
	}
	return float32(n / scale)
}

func clampf(v, lo, hi float64) float64 {
	return stdmath.Min(hi, stdmath.Max(lo, v))
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
