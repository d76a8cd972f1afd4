// obj2buf converts Wavefront .obj meshes to packed, interleaved vertex
// buffers ready for GPU upload.
//
// A common invocation:
//
//	obj2buf -p short -u short -n byte -t byte -s -su -e -g -b -m -a cube.obj
//
// Positions and UVs as shorts, normals and tangents octahedral encoded
// as bytes, positions uniformly scaled, flipped green channel, only the
// bitangent sign stored (packed into the position's W), metadata
// header, ASCII output.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/cwoffenden/obj2buf/internal/config"
	"github.com/cwoffenden/obj2buf/internal/logger"
	"github.com/cwoffenden/obj2buf/internal/output"
	"github.com/cwoffenden/obj2buf/pkg/layout"
	"github.com/cwoffenden/obj2buf/pkg/objmesh"
	"github.com/cwoffenden/obj2buf/pkg/vertexpack"
)

// magic is the file identifier, doubling as the endianness test: a
// reader seeing 0xA7BD has a byte-swapped file.
const magic = 0xBDA7

// maxMetadataBytes is the worst-case metadata size: magic, five
// offsets, scale and bias, and the layout header with all five
// attribute records.
const maxMetadataBytes = 68

func main() {
	config.ParseFlags()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Fatal("conversion failed", zap.Error(err))
	}
}

func run(cfg *config.Config) error {
	if err := cfg.FixUp(); err != nil {
		return err
	}

	args := config.Args()
	if len(args) < 1 {
		return fmt.Errorf("usage: obj2buf [options] in.obj [out]")
	}
	srcPath := args[0]
	dstPath := defaultOutput(cfg)
	if len(args) > 1 {
		dstPath = args[1]
	}

	logger.Info("converting",
		zap.String("src", srcPath),
		zap.String("dst", dstPath),
		zap.String("shortcode", fmt.Sprintf("%08X", cfg.Shortcode())))

	lay := layout.New(layout.Config{
		Posn:     cfg.Attribs.Posn,
		UV0:      cfg.Attribs.UV0,
		Norm:     cfg.Attribs.Norm,
		Tans:     cfg.Attribs.Tans,
		Encoded:  cfg.Encoded(),
		BtanSign: cfg.Encode.BitangentSign,
	})
	for _, line := range lay.Describe() {
		logger.Debug(line)
	}

	mesh, err := convert(cfg, srcPath)
	if err != nil {
		return err
	}

	data, err := pack(cfg, lay, mesh)
	if err != nil {
		return err
	}

	logger.Info("writing",
		zap.String("path", dstPath),
		zap.Int("bytes", len(data)),
		zap.Bool("ascii", cfg.Output.ASCII),
		zap.Bool("zstd", cfg.Output.Zstd))
	return output.Write(dstPath, data, cfg.Output.ASCII, cfg.Output.Zstd)
}

// convert runs the mesh pipeline: load, tangents, weld, scale, encode,
// reorder. Each step is in-place on the loaded mesh.
func convert(cfg *config.Config, srcPath string) (*objmesh.Mesh, error) {
	hasTans := cfg.Attribs.Tans != vertexpack.Excluded

	mesh, err := objmesh.Load(srcPath)
	if err != nil {
		return nil, err
	}
	if hasTans {
		if err := mesh.GenerateTangents(cfg.Encode.FlipG); err != nil {
			return nil, err
		}
	}
	mesh.Weld()
	if cfg.Scale.Positions {
		mesh.Normalize(cfg.Scale.Uniform, cfg.Scale.NoBias)
	}
	if cfg.Encoded() {
		mesh.EncodeDirections(objmesh.EncodeOptions{
			Norm:          cfg.Attribs.Norm,
			Tans:          cfg.Attribs.Tans,
			Tangents:      hasTans,
			FullBitangent: !cfg.Encode.BitangentSign,
			XYOnly:        cfg.Encode.XYOnly,
			Legacy:        cfg.Output.Legacy,
		})
	}
	mesh.Optimize()

	logger.Info("mesh",
		zap.Int("vertices", len(mesh.Verts)),
		zap.Int("indices", len(mesh.Index)),
		zap.Int("triangles", mesh.Triangles()))
	return mesh, nil
}

// pack serializes the mesh into a single buffer: optional metadata,
// vertices, then indices. The buffer is allocated once at its
// worst-case size and never grows.
func pack(cfg *config.Config, lay *layout.Layout, mesh *objmesh.Mesh) ([]byte, error) {
	indexed := cfg.Attribs.Idxs != vertexpack.Excluded

	// Worst case: full metadata, float3 position/normal/tangent/
	// bitangent plus float2 UVs per vertex, 32-bit indices.
	elems := max(len(mesh.Verts), len(mesh.Index))
	backing := make([]byte, maxMetadataBytes+elems*4*(3+3+2+3+3)+len(mesh.Index)*4)

	var packOpts vertexpack.Options
	if cfg.Output.BigEndian {
		packOpts |= vertexpack.OptBigEndian
	}
	if cfg.Output.Legacy {
		packOpts |= vertexpack.OptSignedLegacy
	}
	packer := vertexpack.NewPacker(backing, packOpts)

	if cfg.Output.Metadata {
		packer.WriteInt(magic, vertexpack.UInt16Clamp)
		// Offsets are patched in after packing, once known.
		for n := 0; n < 5; n++ {
			packer.WriteInt(0, vertexpack.UInt32Clamp)
		}
		packer.WriteVec3(mesh.Scale, vertexpack.Float32)
		packer.WriteVec3(mesh.Bias, vertexpack.Float32)
		lay.WriteHeader(packer)
	}
	headerBytes := packer.Size()

	if indexed {
		for i := range mesh.Verts {
			lay.WriteVertex(packer, &mesh.Verts[i], headerBytes)
		}
	} else {
		// Unindexed output: expand the vertices through the index
		// list and skip the index block entirely.
		for _, idx := range mesh.Index {
			lay.WriteVertex(packer, &mesh.Verts[idx], headerBytes)
		}
	}
	vertexBytes := packer.Size() - headerBytes

	indexBytes := 0
	if indexed {
		for _, idx := range mesh.Index {
			packer.WriteInt(int(idx), cfg.Attribs.Idxs)
		}
		indexBytes = packer.Size() - (headerBytes + vertexBytes)
	}

	if cfg.Output.Metadata {
		// Fill the five reserved offsets, right after the magic.
		patch := vertexpack.NewPacker(backing[2:22], packOpts)
		patch.WriteInt(headerBytes, vertexpack.UInt32Clamp)
		patch.WriteInt(vertexBytes, vertexpack.UInt32Clamp)
		patch.WriteInt(headerBytes+vertexBytes, vertexpack.UInt32Clamp)
		patch.WriteInt(indexBytes, vertexpack.UInt32Clamp)
		indexCount := 0
		if indexed {
			indexCount = len(mesh.Index)
		}
		patch.WriteInt(indexCount, vertexpack.UInt32Clamp)
		if err := patch.Err(); err != nil {
			return nil, err
		}
	}
	if err := packer.Err(); err != nil {
		return nil, err
	}

	logger.Info("packed",
		zap.Int("headerBytes", headerBytes),
		zap.Int("vertexBytes", vertexBytes),
		zap.Int("indexBytes", indexBytes),
		zap.Int("stride", lay.Stride))
	return packer.Bytes(), nil
}

// defaultOutput picks the conventional output name when none is given.
func defaultOutput(cfg *config.Config) string {
	if cfg.Output.ASCII {
		return "out.inc"
	}
	return "out.bin"
}
