package vertexpack

import "math"

// IEEE 754 binary16 conversion using Jeroen van der Zijp's table
// method ("Fast Half Float Conversions"). Go has no hardware half type
// so the tables are the only path; they are built once at package init
// and read-only afterwards.
//
// Narrowing rounds by re-adding the LSB from beyond the 10-bit
// mantissa as an integer, which correctly wraps into the exponent and
// tracks a full round-to-nearest implementation to within one LSB on a
// handful of tie cases.

const (
	halfExpMask  = 0x7C00 // exponent field of a binary16
	halfMantMask = 0x03FF // mantissa field of a binary16
	halfSignMask = 0x8000 // sign bit of a binary16
)

// float32 -> float16 narrowing tables, keyed by the float's sign and
// exponent bits (9 bits, 512 entries).
var (
	halfBase [512]uint16
	halfShft [512]uint8
)

// float16 -> float32 widening tables: exponent (with sign), mantissa
// for subnormal (lower half) and normal (upper half) values, and the
// offset selecting between the two mantissa halves.
var (
	floatExps [64]uint32
	floatMant [2048]uint32
	floatMoff [64]uint16
)

func init() {
	for n, e := 0, -127; n < 256; n, e = n+1, e+1 {
		switch {
		case e < -24:
			// Too small for even a subnormal half: truncate to
			// signed zero (the shift pushes the mantissa out).
			halfBase[n] = 0x0000
			halfBase[n|0x100] = 0x8000
			halfShft[n] = 24
			halfShft[n|0x100] = 24
		case e < -14:
			// Exponents [2^-24, 2^-14) map to subnormal halves.
			halfBase[n] = uint16(0x0400 >> (-e - 14))
			halfBase[n|0x100] = halfBase[n] | 0x8000
			halfShft[n] = uint8(-e - 2)
			halfShft[n|0x100] = uint8(-e - 2)
		case e <= 15:
			// Exponents [2^-14, 2^15] map to normal halves.
			halfBase[n] = uint16((e + 15) << 10)
			halfBase[n|0x100] = halfBase[n] | 0x8000
			halfShft[n] = 12
			halfShft[n|0x100] = 12
		case e < 128:
			// Large floats saturate to infinity, zeroing the
			// mantissa via the oversized shift.
			halfBase[n] = 0x7C00
			halfBase[n|0x100] = 0xFC00
			halfShft[n] = 24
			halfShft[n|0x100] = 24
		default:
			// Infinities and NaNs keep as many mantissa bits as
			// fit, so NaN payloads survive (truncated).
			halfBase[n] = 0x7C00
			halfBase[n|0x100] = 0xFC00
			halfShft[n] = 12
			halfShft[n|0x100] = 12
		}
	}

	for n := uint32(1); n < 31; n++ {
		floatExps[n] = n << 23
		floatExps[n+32] = (n << 23) | (1 << 31)
	}
	floatExps[0] = 0x00000000  // +0.0
	floatExps[32] = 0x80000000 // -0.0
	floatExps[31] = 0x47800000 // +inf/NaN
	floatExps[63] = 0xC7800000 // -inf/NaN

	for n := uint32(0); n < 1024; n++ {
		floatMant[n] = subnormalMant(n)
		floatMant[n+1024] = 0x38000000 | (n << 13)
	}

	for n := 1; n < 32; n++ {
		floatMoff[n] = 1024
		floatMoff[n+32] = 1024
	}
}

// subnormalMant normalizes a subnormal half's mantissa bits into a
// single-precision mantissa plus exponent adjustment.
func subnormalMant(bits uint32) uint32 {
	if bits == 0 {
		return 0
	}
	exp := uint32(0)
	man := bits << 13
	for man&0x00800000 == 0 {
		exp -= 0x00800000
		man <<= 1
	}
	return (exp + 0x38800000) | (man &^ 0x00800000)
}

// FloatToHalf narrows a single-precision float to half precision.
// Values below the smallest subnormal truncate to signed zero; values
// at or beyond the largest finite half saturate to signed infinity.
func FloatToHalf(val float32) uint16 {
	bits := math.Float32bits(val)
	sExp8 := bits >> 23
	mnt11 := (bits & 0x007FFFFF) >> halfShft[sExp8]
	return uint16(uint32(halfBase[sExp8])|(mnt11>>1)) + uint16(mnt11&1)
}

// HalfToFloat widens a half-precision float to single precision.
func HalfToFloat(val uint16) float32 {
	exp := val >> 10
	return math.Float32frombits(floatExps[exp] + floatMant[uint32(floatMoff[exp])|uint32(val&halfMantMask)])
}

// HalfIsNaN reports whether the half-precision value is a NaN (all
// exponent bits set with a non-zero mantissa).
func HalfIsNaN(val uint16) bool {
	return val&halfExpMask == halfExpMask && val&halfMantMask != 0
}

// HalfIsInf reports whether the half-precision value is an infinity of
// either sign.
func HalfIsInf(val uint16) bool {
	return val&^halfSignMask == halfExpMask
}
