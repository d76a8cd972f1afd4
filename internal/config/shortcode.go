package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwoffenden/obj2buf/pkg/vertexpack"
)

// Shortcode option flag bits. The layout is frozen: 12 option bits in
// the low word, then a 4-bit storage ordinal per attribute.
const (
	scScale = 1 << iota
	scNoBias
	scUniform
	scOctahedral
	scXYOnly
	scFlipG
	scBtanSign
	scMetadata
	scBigEndian
	scLegacy
	scZstd
	scASCII

	scPosnShift = 12
	scUV0Shift  = 16
	scNormShift = 20
	scTansShift = 24
	scIdxsShift = 28
)

// Shortcode packs the whole configuration into a u32, printable as 8
// hex digits, so a conversion can be reproduced from a single value.
func (c *Config) Shortcode() uint32 {
	var sc uint32
	for _, b := range []struct {
		on  bool
		bit uint32
	}{
		{c.Scale.Positions, scScale},
		{c.Scale.NoBias, scNoBias},
		{c.Scale.Uniform, scUniform},
		{c.Encode.Octahedral, scOctahedral},
		{c.Encode.XYOnly, scXYOnly},
		{c.Encode.FlipG, scFlipG},
		{c.Encode.BitangentSign, scBtanSign},
		{c.Output.Metadata, scMetadata},
		{c.Output.BigEndian, scBigEndian},
		{c.Output.Legacy, scLegacy},
		{c.Output.Zstd, scZstd},
		{c.Output.ASCII, scASCII},
	} {
		if b.on {
			sc |= b.bit
		}
	}
	sc |= uint32(c.Attribs.Posn) << scPosnShift
	sc |= uint32(c.Attribs.UV0) << scUV0Shift
	sc |= uint32(c.Attribs.Norm) << scNormShift
	sc |= uint32(c.Attribs.Tans) << scTansShift
	sc |= uint32(c.Attribs.Idxs) << scIdxsShift
	return sc
}

// ApplyShortcode overwrites the option and attribute fields from a hex
// shortcode, leaving logging untouched.
func (c *Config) ApplyShortcode(code string) error {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(code, "0x"), "0X")
	sc64, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return fmt.Errorf("bad shortcode %q: %w", code, err)
	}
	sc := uint32(sc64)

	for _, attr := range []struct {
		shift uint
		dst   *vertexpack.Storage
	}{
		{scPosnShift, &c.Attribs.Posn},
		{scUV0Shift, &c.Attribs.UV0},
		{scNormShift, &c.Attribs.Norm},
		{scTansShift, &c.Attribs.Tans},
		{scIdxsShift, &c.Attribs.Idxs},
	} {
		ord := sc >> attr.shift & 0xF
		if ord > uint32(vertexpack.Float32) {
			return fmt.Errorf("bad shortcode %q: no storage type %d", code, ord)
		}
		*attr.dst = vertexpack.Storage(ord)
	}

	c.Scale.Positions = sc&scScale != 0
	c.Scale.NoBias = sc&scNoBias != 0
	c.Scale.Uniform = sc&scUniform != 0
	c.Encode.Octahedral = sc&scOctahedral != 0
	c.Encode.XYOnly = sc&scXYOnly != 0
	c.Encode.FlipG = sc&scFlipG != 0
	c.Encode.BitangentSign = sc&scBtanSign != 0
	c.Output.Metadata = sc&scMetadata != 0
	c.Output.BigEndian = sc&scBigEndian != 0
	c.Output.Legacy = sc&scLegacy != 0
	c.Output.Zstd = sc&scZstd != 0
	c.Output.ASCII = sc&scASCII != 0
	return nil
}
