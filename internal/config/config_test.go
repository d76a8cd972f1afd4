package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwoffenden/obj2buf/pkg/vertexpack"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Attribs.Posn != vertexpack.Float32 {
		t.Errorf("expected float positions, got %s", cfg.Attribs.Posn)
	}
	if cfg.Attribs.UV0 != vertexpack.Float32 {
		t.Errorf("expected float texcoords, got %s", cfg.Attribs.UV0)
	}
	if cfg.Attribs.Norm != vertexpack.Float32 {
		t.Errorf("expected float normals, got %s", cfg.Attribs.Norm)
	}
	if cfg.Attribs.Tans != vertexpack.Excluded {
		t.Errorf("expected tangents excluded, got %s", cfg.Attribs.Tans)
	}
	if cfg.Attribs.Idxs != vertexpack.UInt16Clamp {
		t.Errorf("expected ushort indices, got %s", cfg.Attribs.Idxs)
	}
	if cfg.Scale.Positions || cfg.Encode.Octahedral || cfg.Output.Metadata {
		t.Error("expected all options off by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preset.yaml")
	content := `
attributes:
  positions: short
  normals: byte
  tangents: byte
  indices: ubyte
scale:
  positions: true
  uniform: true
encode:
  octahedral: true
  bitangent_sign: true
output:
  metadata: true
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write preset: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Attribs.Posn != vertexpack.SInt16Norm {
		t.Errorf("positions = %s, want SHORT", cfg.Attribs.Posn)
	}
	if cfg.Attribs.Norm != vertexpack.SInt8Norm {
		t.Errorf("normals = %s, want BYTE", cfg.Attribs.Norm)
	}
	if cfg.Attribs.Idxs != vertexpack.UInt8Norm {
		t.Errorf("indices = %s, want UNSIGNED_BYTE pre-fixup", cfg.Attribs.Idxs)
	}
	// Absent fields keep their defaults.
	if cfg.Attribs.UV0 != vertexpack.Float32 {
		t.Errorf("texcoords = %s, want the FLOAT default", cfg.Attribs.UV0)
	}
	if !cfg.Scale.Positions || !cfg.Scale.Uniform || cfg.Scale.NoBias {
		t.Errorf("scale options = %+v", cfg.Scale)
	}
	if !cfg.Encode.Octahedral || !cfg.Encode.BitangentSign {
		t.Errorf("encode options = %+v", cfg.Encode)
	}
	if !cfg.Output.Metadata {
		t.Error("metadata not set")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %s", cfg.Logging.Level)
	}
}

func TestLoadFromFileBadType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preset.yaml")
	if err := os.WriteFile(path, []byte("attributes:\n  positions: double\n"), 0o644); err != nil {
		t.Fatalf("write preset: %v", err)
	}
	if err := loadFromFile(Default(), path); err == nil {
		t.Error("expected error for unknown storage type")
	}
}

func TestShortcodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Attribs.Posn = vertexpack.SInt16Norm
	cfg.Attribs.Norm = vertexpack.SInt8Norm
	cfg.Attribs.Tans = vertexpack.SInt8Norm
	cfg.Scale.Positions = true
	cfg.Scale.Uniform = true
	cfg.Encode.Octahedral = true
	cfg.Encode.BitangentSign = true
	cfg.Output.Metadata = true
	cfg.Output.Zstd = true

	sc := cfg.Shortcode()

	back := Default()
	if err := back.ApplyShortcode("zz"); err == nil {
		t.Error("malformed shortcode should fail to parse")
	}
	if err := back.ApplyShortcode(fmt.Sprintf("%08X", sc)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if back.Shortcode() != sc {
		t.Errorf("round trip: %08X != %08X", back.Shortcode(), sc)
	}
	if back.Attribs.Posn != vertexpack.SInt16Norm || !back.Encode.Octahedral {
		t.Errorf("fields not restored: %+v", back)
	}
}

func TestShortcodeHexPrefix(t *testing.T) {
	cfg := Default()
	sc := cfg.Shortcode()
	back := Default()
	if err := back.ApplyShortcode("0x" + fmt.Sprintf("%08X", sc)); err != nil {
		t.Fatalf("apply with 0x prefix: %v", err)
	}
	if back.Shortcode() != sc {
		t.Errorf("round trip with prefix: %08X != %08X", back.Shortcode(), sc)
	}
}

func TestShortcodeBadStorage(t *testing.T) {
	// Ordinal 15 in the positions nibble is out of range.
	if err := Default().ApplyShortcode("0000F000"); err == nil {
		t.Error("expected error for out-of-range storage ordinal")
	}
}

func TestFixUpIndices(t *testing.T) {
	cfg := Default()
	cfg.Attribs.Idxs = vertexpack.UInt8Norm
	if err := cfg.FixUp(); err != nil {
		t.Fatalf("fixup: %v", err)
	}
	if cfg.Attribs.Idxs != vertexpack.UInt8Clamp {
		t.Errorf("indices = %s, want UNSIGNED_BYTE clamped", cfg.Attribs.Idxs)
	}

	cfg = Default()
	cfg.Attribs.Idxs = vertexpack.SInt32Clamp
	if err := cfg.FixUp(); err != nil {
		t.Fatalf("fixup: %v", err)
	}
	if cfg.Attribs.Idxs != vertexpack.UInt32Clamp {
		t.Errorf("indices = %s, want UNSIGNED_INT", cfg.Attribs.Idxs)
	}

	cfg = Default()
	cfg.Attribs.Idxs = vertexpack.Excluded
	if err := cfg.FixUp(); err != nil {
		t.Fatalf("fixup: %v", err)
	}
	if cfg.Attribs.Idxs != vertexpack.Excluded {
		t.Error("excluded indices must stay excluded (unindexed output)")
	}
}

func TestFixUpFloatIndices(t *testing.T) {
	for _, s := range []vertexpack.Storage{vertexpack.Float16, vertexpack.Float32} {
		cfg := Default()
		cfg.Attribs.Idxs = s
		if err := cfg.FixUp(); !errors.Is(err, ErrFloatIndices) {
			t.Errorf("%s indices: err = %v, want ErrFloatIndices", s, err)
		}
	}
}

func TestFixUpTangentsRequireNormals(t *testing.T) {
	cfg := Default()
	cfg.Attribs.Norm = vertexpack.Excluded
	cfg.Attribs.Tans = vertexpack.SInt8Norm
	if err := cfg.FixUp(); !errors.Is(err, ErrTansWithoutNrm) {
		t.Errorf("err = %v, want ErrTansWithoutNrm", err)
	}
}

func TestFixUpUnscaledPositions(t *testing.T) {
	cfg := Default()
	cfg.Attribs.Posn = vertexpack.SInt16Norm
	if err := cfg.FixUp(); err != nil {
		t.Fatalf("fixup: %v", err)
	}
	if cfg.Attribs.Posn != vertexpack.SInt16Clamp {
		t.Errorf("unscaled positions = %s, want the clamped fallback", cfg.Attribs.Posn)
	}

	cfg = Default()
	cfg.Attribs.Posn = vertexpack.SInt16Norm
	cfg.Scale.Positions = true
	if err := cfg.FixUp(); err != nil {
		t.Fatalf("fixup: %v", err)
	}
	if cfg.Attribs.Posn != vertexpack.SInt16Norm {
		t.Errorf("scaled positions = %s, should stay normalized", cfg.Attribs.Posn)
	}
}

