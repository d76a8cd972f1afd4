// Package config handles tool configuration: defaults, an optional
// YAML preset file, command-line flags, and the packed shortcode form.
package config

import (
	"gopkg.in/yaml.v3"

	"github.com/cwoffenden/obj2buf/pkg/vertexpack"
)

// Config holds all conversion settings.
type Config struct {
	Attribs AttribConfig  `yaml:"attributes"`
	Scale   ScaleConfig   `yaml:"scale"`
	Encode  EncodeConfig  `yaml:"encode"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// AttribConfig holds the per-attribute storage types. Integer types
// start life as their normalized forms; FixUp switches them to clamped
// variants where the pipeline requires it.
type AttribConfig struct {
	Posn vertexpack.Storage
	UV0  vertexpack.Storage
	Norm vertexpack.Storage
	Tans vertexpack.Storage
	Idxs vertexpack.Storage
}

// ScaleConfig holds position normalization settings.
type ScaleConfig struct {
	Positions bool `yaml:"positions"` // Rescale positions to a unit range
	NoBias    bool `yaml:"no_bias"`   // Keep the origin at zero
	Uniform   bool `yaml:"uniform"`   // One scale for all three axes
}

// EncodeConfig holds direction encoding settings.
type EncodeConfig struct {
	Octahedral    bool `yaml:"octahedral"`     // Normals/tangents as octahedral XY
	XYOnly        bool `yaml:"xy_only"`        // Raw XY projection instead
	FlipG         bool `yaml:"flip_g"`         // Invert the normal map green channel
	BitangentSign bool `yaml:"bitangent_sign"` // Store only the handedness sign
}

// OutputConfig holds serialization settings.
type OutputConfig struct {
	Metadata  bool `yaml:"metadata"`   // Prepend the offsets/layout header
	BigEndian bool `yaml:"big_endian"` // Big endian byte order
	Legacy    bool `yaml:"legacy"`     // Old-style signed normalization
	Zstd      bool `yaml:"zstd"`       // Compress the buffer
	ASCII     bool `yaml:"ascii"`      // Hex text instead of binary
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config matching an unadorned conversion: float
// positions, texcoords and normals, no tangents, short indices.
func Default() *Config {
	return &Config{
		Attribs: AttribConfig{
			Posn: vertexpack.Float32,
			UV0:  vertexpack.Float32,
			Norm: vertexpack.Float32,
			Tans: vertexpack.Excluded,
			Idxs: vertexpack.UInt16Clamp,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Encoded reports whether normals and tangents are written as two
// components, by either encoding.
func (c *Config) Encoded() bool {
	return c.Encode.Octahedral || c.Encode.XYOnly
}

// attribYAML is the wire form of AttribConfig: type names as the CLI
// takes them, absent fields keeping their current value.
type attribYAML struct {
	Positions *string `yaml:"positions"`
	Texcoords *string `yaml:"texcoords"`
	Normals   *string `yaml:"normals"`
	Tangents  *string `yaml:"tangents"`
	Indices   *string `yaml:"indices"`
}

// UnmarshalYAML decodes attribute storage types from their CLI names.
func (a *AttribConfig) UnmarshalYAML(node *yaml.Node) error {
	var raw attribYAML
	if err := node.Decode(&raw); err != nil {
		return err
	}
	for _, field := range []struct {
		name *string
		dst  *vertexpack.Storage
	}{
		{raw.Positions, &a.Posn},
		{raw.Texcoords, &a.UV0},
		{raw.Normals, &a.Norm},
		{raw.Tangents, &a.Tans},
		{raw.Indices, &a.Idxs},
	} {
		if field.name == nil {
			continue
		}
		s, err := vertexpack.ParseStorage(*field.name)
		if err != nil {
			return err
		}
		*field.dst = s
	}
	return nil
}
