package config

import (
	"flag"

	"github.com/cwoffenden/obj2buf/pkg/vertexpack"
)

var (
	flagConfig = flag.String("config", "", "Path to YAML config file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")

	flagPosn = flag.String("p", "", "Positions storage type (byte|short|half|float|none)")
	flagUV0  = flag.String("u", "", "Texture coordinate storage type")
	flagNorm = flag.String("n", "", "Normals storage type")
	flagTans = flag.String("t", "", "Tangents storage type")
	flagIdxs = flag.String("i", "", "Index buffer storage type")

	flagScale   = flag.Bool("s", false, "Scale positions to a unit range")
	flagNoBias  = flag.Bool("sb", false, "Scale without centering (keep the origin)")
	flagUniform = flag.Bool("su", false, "Scale all axes uniformly")

	flagEncoded = flag.Bool("e", false, "Octahedral encode normals and tangents")
	flagXYOnly  = flag.Bool("ey", false, "Store direction X and Y only (recover Z)")
	flagFlipG   = flag.Bool("g", false, "Flip the normal map green channel")
	flagBtnSign = flag.Bool("b", false, "Store only the bitangent handedness sign")

	flagMetadata  = flag.Bool("m", false, "Write the metadata/offsets header")
	flagBigEndian = flag.Bool("be", false, "Write big endian output")
	flagLegacy    = flag.Bool("l", false, "Legacy signed normalization (no exact zero)")
	flagZstd      = flag.Bool("z", false, "Compress the output with Zstandard")
	flagASCII     = flag.Bool("a", false, "Write ASCII hex instead of binary")

	flagShortcode = flag.String("sc", "", "Shortcode overriding all other options (hex)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via -config.
func ConfigPath() string {
	return *flagConfig
}

// Args returns the positional arguments after the flags: input path
// and optional output path.
func Args() []string {
	return flag.Args()
}

// applyFlags applies CLI flag overrides to the config. Boolean flags
// only ever enable: a preset file option cannot be switched back off
// from the command line, matching how the YAML/flag merge behaves for
// every other field.
func applyFlags(cfg *Config) error {
	for _, f := range []struct {
		name string
		dst  *vertexpack.Storage
	}{
		{*flagPosn, &cfg.Attribs.Posn},
		{*flagUV0, &cfg.Attribs.UV0},
		{*flagNorm, &cfg.Attribs.Norm},
		{*flagTans, &cfg.Attribs.Tans},
		{*flagIdxs, &cfg.Attribs.Idxs},
	} {
		if f.name == "" {
			continue
		}
		s, err := vertexpack.ParseStorage(f.name)
		if err != nil {
			return err
		}
		*f.dst = s
	}

	if *flagScale {
		cfg.Scale.Positions = true
	}
	if *flagNoBias {
		cfg.Scale.NoBias = true
	}
	if *flagUniform {
		cfg.Scale.Uniform = true
	}
	if *flagEncoded {
		cfg.Encode.Octahedral = true
	}
	if *flagXYOnly {
		cfg.Encode.XYOnly = true
	}
	if *flagFlipG {
		cfg.Encode.FlipG = true
	}
	if *flagBtnSign {
		cfg.Encode.BitangentSign = true
	}
	if *flagMetadata {
		cfg.Output.Metadata = true
	}
	if *flagBigEndian {
		cfg.Output.BigEndian = true
	}
	if *flagLegacy {
		cfg.Output.Legacy = true
	}
	if *flagZstd {
		cfg.Output.Zstd = true
	}
	if *flagASCII {
		cfg.Output.ASCII = true
	}
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}

	// The shortcode is the whole configuration in one value, so it
	// wins over everything above.
	if *flagShortcode != "" {
		return cfg.ApplyShortcode(*flagShortcode)
	}
	return nil
}
