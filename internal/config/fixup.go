package config

import (
	"errors"
	"fmt"

	"github.com/cwoffenden/obj2buf/pkg/vertexpack"
)

// FixUp errors.
var (
	ErrFloatIndices   = errors.New("config: index buffers cannot use float types")
	ErrTansWithoutNrm = errors.New("config: tangents require normals")
)

// FixUp coerces the attribute types into a usable combination, or
// reports the combinations that cannot work. Runs once after Load,
// before any mesh I/O:
//
//   - Index types become their unsigned clamped equivalent (the CLI
//     names parse to normalized types, meaningless for indices).
//   - Float index types have no integer equivalent and are an error.
//   - Tangents cannot be generated or packed without normals.
//   - Positions stored in normalized integer types but left unscaled
//     fall back to the clamped equivalent, since unscaled coordinates
//     rarely fit [-1, 1].
func (c *Config) FixUp() error {
	switch c.Attribs.Idxs {
	case vertexpack.Excluded:
		// Unindexed output.
	case vertexpack.Float16, vertexpack.Float32:
		return fmt.Errorf("%w: %s", ErrFloatIndices, c.Attribs.Idxs)
	default:
		c.Attribs.Idxs = c.Attribs.Idxs.ToUnsignedClamped()
	}

	if c.Attribs.Tans != vertexpack.Excluded && c.Attribs.Norm == vertexpack.Excluded {
		return ErrTansWithoutNrm
	}

	if !c.Scale.Positions && c.Attribs.Posn.IsNormalized() {
		c.Attribs.Posn = c.Attribs.Posn.ToClamped()
	}
	return nil
}
