package vertexpack

import "math"

// Encode converts a float to the integer bit pattern stored for the
// given type. The legacy flag selects the old signed normalization
// convention, where the full bit range is used but zero cannot be
// represented exactly (pre-4.2 desktop GL and pre-3.0 ES); the default
// modern convention sacrifices the most negative code point to keep an
// exact zero.
//
// Float32 (and the Excluded fallback) reinterpret the float's own bits.
func Encode(val float32, s Storage, legacy bool) int32 {
	if legacy {
		return encodeLegacy(val, s)
	}
	return encodeModern(val, s)
}

// EncodeInt converts an integer value, clamping without rounding.
// Index values and header fields take this path.
func EncodeInt(val int, s Storage) int32 {
	switch s {
	case SInt8Clamp:
		return clamp32(int32(val), math.MinInt8, math.MaxInt8)
	case UInt8Clamp:
		return clamp32(int32(val), 0, math.MaxUint8)
	case SInt16Clamp:
		return clamp32(int32(val), math.MinInt16, math.MaxInt16)
	case UInt16Clamp:
		return clamp32(int32(val), 0, math.MaxUint16)
	case SInt32Clamp, UInt32Clamp:
		return int32(val)
	}
	return Encode(float32(val), s, false)
}

// Decode converts a stored bit pattern back to a float. It is the
// inverse of Encode for every value the type can represent.
func Decode(bits int32, s Storage, legacy bool) float32 {
	switch s {
	case SInt8Norm:
		if legacy {
			return float32(2*bits+1) / float32(math.MaxUint8)
		}
		return float32(bits) / float32(math.MaxInt8)
	case SInt16Norm:
		if legacy {
			return float32(2*bits+1) / float32(math.MaxUint16)
		}
		return float32(bits) / float32(math.MaxInt16)
	case UInt8Norm:
		return float32(bits) / float32(math.MaxUint8)
	case UInt16Norm:
		return float32(bits) / float32(math.MaxUint16)
	case SInt8Clamp, UInt8Clamp, SInt16Clamp, UInt16Clamp, SInt32Clamp:
		return float32(bits)
	case UInt32Clamp:
		return float32(uint32(bits))
	case Float16:
		return HalfToFloat(uint16(bits))
	}
	return math.Float32frombits(uint32(bits))
}

// signedLegacy stores a [-1,1] float using all 2^bits codes, without an
// exact zero: round((v*(2^b-1) - 1) / 2).
func signedLegacy(val float32, bits uint) int32 {
	scale := float64(int32(1)<<bits - 1)
	return int32(math.Round((float64(val)*scale - 1) / 2))
}

// signedModern stores a [-1,1] float symmetrically, preserving zero:
// round(v * (2^(b-1)-1)).
func signedModern(val float32, bits uint) int32 {
	scale := float64(int32(1)<<(bits-1) - 1)
	return int32(math.Round(float64(val) * scale))
}

func encodeLegacy(val float32, s Storage) int32 {
	switch s {
	case SInt8Norm:
		return clamp32(signedLegacy(val, 8), math.MinInt8, math.MaxInt8)
	case SInt16Norm:
		return clamp32(signedLegacy(val, 16), math.MinInt16, math.MaxInt16)
	default:
		return encodeCommon(val, s)
	}
}

func encodeModern(val float32, s Storage) int32 {
	switch s {
	case SInt8Norm:
		return clamp32(signedModern(val, 8), -math.MaxInt8, math.MaxInt8)
	case SInt16Norm:
		return clamp32(signedModern(val, 16), -math.MaxInt16, math.MaxInt16)
	default:
		return encodeCommon(val, s)
	}
}

// encodeCommon covers the types with no legacy/modern split.
func encodeCommon(val float32, s Storage) int32 {
	switch s {
	case SInt8Clamp:
		return clamp32(roundToInt(val), math.MinInt8, math.MaxInt8)
	case UInt8Norm:
		return clamp32(roundToInt(val*math.MaxUint8), 0, math.MaxUint8)
	case UInt8Clamp:
		return clamp32(roundToInt(val), 0, math.MaxUint8)
	case SInt16Clamp:
		return clamp32(roundToInt(val), math.MinInt16, math.MaxInt16)
	case UInt16Norm:
		return clamp32(roundToInt(val*math.MaxUint16), 0, math.MaxUint16)
	case UInt16Clamp:
		return clamp32(roundToInt(val), 0, math.MaxUint16)
	case Float16:
		return int32(FloatToHalf(val))
	case SInt32Clamp:
		return roundClamp64(val)
	case UInt32Clamp:
		r := math.Round(float64(val))
		if r < 0 {
			return 0
		}
		if r > math.MaxUint32 {
			return -1 // all bits set
		}
		return int32(uint32(r))
	default:
		// Float32 and the Excluded fallback.
		return int32(math.Float32bits(val))
	}
}

// roundToInt rounds half away from zero, matching C round().
func roundToInt(val float32) int32 {
	return int32(math.Round(float64(val)))
}

// roundClamp64 rounds and clamps to the full 32-bit range, going
// through 64 bits to avoid overflow before the clamp.
func roundClamp64(val float32) int32 {
	r := math.Round(float64(val))
	if r < math.MinInt32 {
		return math.MinInt32
	}
	if r > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(r)
}

func clamp32(val, lo, hi int32) int32 {
	return min(hi, max(lo, val))
}
