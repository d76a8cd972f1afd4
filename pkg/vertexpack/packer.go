package vertexpack

import (
	"errors"

	"github.com/cwoffenden/obj2buf/pkg/math"
)

// ErrOverflow is reported when a write would pass the end of the
// packer's backing buffer.
var ErrOverflow = errors.New("vertexpack: buffer overflow")

// Options is a bitfield of packing behavior flags, fixed at
// construction.
type Options uint

// Packing options.
const (
	// OptBigEndian stores multi-byte values most significant byte
	// first (the default is little endian).
	OptBigEndian Options = 1 << iota
	// OptSignedLegacy selects the legacy signed normalization, where
	// the full bit range is used but zero cannot be represented.
	OptSignedLegacy
)

// Packer is a bounds-checked write cursor over a caller-owned buffer.
// It never grows the buffer and never writes past its end.
//
// Errors are sticky: the first failed write latches the error and
// every subsequent write is a silent no-op, so a batch of writes can
// be issued unconditionally and checked once with Err.
type Packer struct {
	buf  []byte
	next int
	opts Options
	err  error
}

// NewPacker wraps the given buffer. The buffer's full length is the
// write capacity.
func NewPacker(buf []byte, opts Options) *Packer {
	return &Packer{buf: buf, opts: opts}
}

// WriteScalar converts val to the given storage type and appends it.
// Excluded writes nothing and succeeds.
func (p *Packer) WriteScalar(val float32, s Storage) bool {
	if s == Excluded {
		return true
	}
	return p.emit(Encode(val, s, p.opts&OptSignedLegacy != 0), s)
}

// WriteInt converts an integer value (clamped, not rounded) and
// appends it. Index and header values take this path.
func (p *Packer) WriteInt(val int, s Storage) bool {
	if s == Excluded {
		return true
	}
	return p.emit(EncodeInt(val, s), s)
}

// WriteVec2 appends both components in order.
func (p *Packer) WriteVec2(v math.Vec2, s Storage) bool {
	ok := p.WriteScalar(v.X, s)
	ok = p.WriteScalar(v.Y, s) && ok
	return ok
}

// WriteVec3 appends all three components in order.
func (p *Packer) WriteVec3(v math.Vec3, s Storage) bool {
	ok := p.WriteVec2(v.XY(), s)
	ok = p.WriteScalar(v.Z, s) && ok
	return ok
}

// WriteVec4 appends all four components in order.
func (p *Packer) WriteVec4(v math.Vec4, s Storage) bool {
	ok := p.WriteVec3(v.XYZ(), s)
	ok = p.WriteScalar(v.W, s) && ok
	return ok
}

// Align pads with zero bytes until the size written since base is a
// multiple of 4 (0-3 bytes).
func (p *Packer) Align(base int) bool {
	pad := (p.next - base) & 3
	if pad == 0 {
		return p.err == nil
	}
	pad = 4 - pad
	if p.err != nil {
		return false
	}
	if p.next+pad > len(p.buf) {
		p.err = ErrOverflow
		return false
	}
	for i := 0; i < pad; i++ {
		p.buf[p.next] = 0
		p.next++
	}
	return true
}

// Rewind resets the cursor to the start without clearing content,
// allowing in-place header patching.
func (p *Packer) Rewind() {
	p.next = 0
	p.err = nil
}

// Size returns the number of bytes written so far.
func (p *Packer) Size() int {
	return p.next
}

// Bytes returns the written prefix of the backing buffer.
func (p *Packer) Bytes() []byte {
	return p.buf[:p.next]
}

// Err returns the first error encountered, or nil.
func (p *Packer) Err() error {
	return p.err
}

// emit writes the low Bytes(s) bytes of the bit pattern in the
// configured byte order. Nothing is written on a failed bounds check.
func (p *Packer) emit(bits int32, s Storage) bool {
	if p.err != nil {
		return false
	}
	n := s.Bytes()
	if p.next+n > len(p.buf) {
		p.err = ErrOverflow
		return false
	}
	if p.opts&OptBigEndian == 0 {
		for i := 0; i < n; i++ {
			p.buf[p.next] = byte(bits >> (8 * i))
			p.next++
		}
	} else {
		for i := n - 1; i >= 0; i-- {
			p.buf[p.next] = byte(bits >> (8 * i))
			p.next++
		}
	}
	return true
}
