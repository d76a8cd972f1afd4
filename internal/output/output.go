// Package output writes the finished buffer to disk: raw binary,
// Zstandard compressed, or ASCII hex for in-lining into source.
package output

import (
	"bytes"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
)

// hexPerLine is how many "0xNN," cells go on one line of ASCII output.
const hexPerLine = 12

// Write stores data at path, "-" meaning stdout. Compression applies
// before hex formatting, so an ASCII file of a compressed buffer is
// the compressed bytes in hex.
func Write(path string, data []byte, ascii, compress bool) error {
	var err error
	if compress {
		if data, err = compressZstd(data); err != nil {
			return fmt.Errorf("output: %w", err)
		}
	}
	if ascii {
		data = formatHex(data)
	}
	if path == "-" {
		_, err = os.Stdout.Write(data)
	} else {
		err = os.WriteFile(path, data, 0o644)
	}
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}
	return nil
}

// compressZstd compresses at the best supported level: conversion
// runs once offline, decompression runs on every load.
func compressZstd(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// formatHex renders data as comma-separated hex octets, 12 per line,
// suitable for pasting into a C array or embedding with go:embed.
func formatHex(data []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(data) * 6)
	for i, b := range data {
		fmt.Fprintf(&out, "0x%02X,", b)
		if (i+1)%hexPerLine == 0 || i == len(data)-1 {
			out.WriteByte('\n')
		} else {
			out.WriteByte(' ')
		}
	}
	return out.Bytes()
}
