// Package vertexpack converts numeric values to their packed on-disk
// representation and writes them to GPU-ready interleaved buffers.
package vertexpack

import "fmt"

// Storage selects the on-disk representation of a single component.
//
// Normalized types map floats in [-1,1] (signed) or [0,1] (unsigned) to
// the full integer range; clamped types store the rounded integer value
// directly. The ordinal values are part of the shortcode format and must
// not be reordered.
type Storage uint8

// Storage types. Excluded components write zero bytes.
const (
	Excluded Storage = iota
	SInt8Norm
	SInt8Clamp
	UInt8Norm
	UInt8Clamp
	SInt16Norm
	SInt16Clamp
	UInt16Norm
	UInt16Clamp
	Float16
	SInt32Clamp
	UInt32Clamp
	Float32

	numStorage // sentinel
)

// BasicType is the component type ordinal written to the metadata
// header, mirroring the GL vertex attribute types.
type BasicType uint8

// Basic component types.
const (
	TypeNone   BasicType = 0
	TypeInt8   BasicType = 1
	TypeUint8  BasicType = 2
	TypeInt16  BasicType = 3
	TypeUint16 BasicType = 4
	TypeHalf   BasicType = 5
	TypeInt32  BasicType = 6
	TypeUint32 BasicType = 7
	TypeFloat  BasicType = 8
)

// Bytes returns the number of bytes a single component occupies.
func (s Storage) Bytes() int {
	switch s {
	case Excluded:
		return 0
	case SInt8Norm, SInt8Clamp, UInt8Norm, UInt8Clamp:
		return 1
	case SInt16Norm, SInt16Clamp, UInt16Norm, UInt16Clamp, Float16:
		return 2
	case SInt32Clamp, UInt32Clamp, Float32:
		return 4
	}
	panic(fmt.Sprintf("vertexpack: invalid storage %d", s))
}

// IsSigned reports whether the type can represent negative values.
func (s Storage) IsSigned() bool {
	switch s {
	case SInt8Norm, SInt8Clamp, SInt16Norm, SInt16Clamp, SInt32Clamp, Float16, Float32:
		return true
	}
	return false
}

// IsNormalized reports whether stored integers map back to a unit float
// range.
func (s Storage) IsNormalized() bool {
	switch s {
	case SInt8Norm, UInt8Norm, SInt16Norm, UInt16Norm:
		return true
	}
	return false
}

// FractionBits returns the number of bits contributing fractional
// precision for values in the unit range, used to pick quantization
// steps when refining octahedral encodings. Clamped integer types carry
// no fraction and return zero.
func (s Storage) FractionBits() int {
	switch s {
	case SInt8Norm:
		return 7
	case UInt8Norm:
		return 8
	case SInt16Norm:
		return 15
	case UInt16Norm:
		return 16
	case Float16:
		return 10
	case Float32:
		return 23
	}
	return 0
}

// BasicType returns the header ordinal for the component type.
func (s Storage) BasicType() BasicType {
	switch s {
	case Excluded:
		return TypeNone
	case SInt8Norm, SInt8Clamp:
		return TypeInt8
	case UInt8Norm, UInt8Clamp:
		return TypeUint8
	case SInt16Norm, SInt16Clamp:
		return TypeInt16
	case UInt16Norm, UInt16Clamp:
		return TypeUint16
	case Float16:
		return TypeHalf
	case SInt32Clamp, UInt32Clamp:
		return TypeInt32 + BasicType(s-SInt32Clamp)
	case Float32:
		return TypeFloat
	}
	panic(fmt.Sprintf("vertexpack: invalid storage %d", s))
}

// AlignedSize returns the byte size of the given component count padded
// up to 4-byte alignment.
func (s Storage) AlignedSize(components int) int {
	return (components*s.Bytes() + 3) / 4 * 4
}

// String returns the GL-style type name (e.g. "SHORT" for SInt16Norm).
func (s Storage) String() string {
	switch s {
	case Excluded:
		return "NONE"
	case SInt8Norm, SInt8Clamp:
		return "BYTE"
	case UInt8Norm, UInt8Clamp:
		return "UNSIGNED_BYTE"
	case SInt16Norm, SInt16Clamp:
		return "SHORT"
	case UInt16Norm, UInt16Clamp:
		return "UNSIGNED_SHORT"
	case Float16:
		return "HALF_FLOAT"
	case SInt32Clamp:
		return "INT"
	case UInt32Clamp:
		return "UNSIGNED_INT"
	case Float32:
		return "FLOAT"
	}
	return fmt.Sprintf("Storage(%d)", uint8(s))
}

// ParseStorage maps a command-line type name to a Storage. Integer
// names parse to their normalized forms where one exists; callers that
// need the clamped variant switch afterwards (see config.FixUp).
func ParseStorage(name string) (Storage, error) {
	switch name {
	case "byte":
		return SInt8Norm, nil
	case "ubyte":
		return UInt8Norm, nil
	case "short":
		return SInt16Norm, nil
	case "ushort":
		return UInt16Norm, nil
	case "half":
		return Float16, nil
	case "int":
		return SInt32Clamp, nil
	case "uint":
		return UInt32Clamp, nil
	case "float":
		return Float32, nil
	case "none", "":
		return Excluded, nil
	}
	return Excluded, fmt.Errorf("unknown storage type %q", name)
}

// ToClamped returns the clamped equivalent of a normalized integer
// type, or s unchanged for everything else.
func (s Storage) ToClamped() Storage {
	switch s {
	case SInt8Norm:
		return SInt8Clamp
	case UInt8Norm:
		return UInt8Clamp
	case SInt16Norm:
		return SInt16Clamp
	case UInt16Norm:
		return UInt16Clamp
	}
	return s
}

// ToUnsignedClamped returns the unsigned clamped type of the same
// width, used to coerce index buffer types.
func (s Storage) ToUnsignedClamped() Storage {
	switch s.Bytes() {
	case 1:
		return UInt8Clamp
	case 2:
		return UInt16Clamp
	case 4:
		return UInt32Clamp
	}
	return Excluded
}
