package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestWriteRaw(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh.bin")
	data := []byte{0xBD, 0xA7, 0x00, 0x01}
	if err := Write(path, data, false, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("raw output %x, want %x", got, data)
	}
}

func TestWriteHex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh.inc")
	data := make([]byte, 14) // one full line plus two cells
	data[0] = 0xAB
	data[13] = 0x01
	if err := Write(path, data, true, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(got), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("line count = %d, want 2:\n%s", len(lines), got)
	}
	if !strings.HasPrefix(lines[0], "0xAB, 0x00,") {
		t.Errorf("first line = %q", lines[0])
	}
	if cells := strings.Count(lines[0], ","); cells != 12 {
		t.Errorf("first line has %d cells, want 12", cells)
	}
	if lines[1] != "0x00, 0x01," {
		t.Errorf("second line = %q", lines[1])
	}
}

func TestWriteZstdRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh.bin")
	data := bytes.Repeat([]byte("interleaved"), 100)
	if err := Write(path, data, false, true); err != nil {
		t.Fatalf("write: %v", err)
	}
	compressed, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(compressed) >= len(data) {
		t.Errorf("repetitive data grew: %d -> %d bytes", len(data), len(compressed))
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}
	defer dec.Close()
	got, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("round trip mismatch")
	}
}

func TestWriteZstdHex(t *testing.T) {
	// Hex formatting applies after compression.
	path := filepath.Join(t.TempDir(), "mesh.inc")
	if err := Write(path, bytes.Repeat([]byte{0xFF}, 64), true, true); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	// Zstandard magic 28 B5 2F FD, little endian byte order in the file.
	if !strings.HasPrefix(string(got), "0x28, 0xB5, 0x2F, 0xFD,") {
		t.Errorf("output does not start with the zstd magic: %q", got[:min(24, len(got))])
	}
}
