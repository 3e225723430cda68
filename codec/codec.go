// Package codec centralizes snapshot payload compression.
//
// Compressor selection is a breaking-change boundary: snapshots record the
// compressor name in their header, and bytes written by a compressor this
// package no longer knows cannot be decoded.
package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compressor compresses and decompresses snapshot payloads.
// Implementations must be safe for concurrent use.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
	Name() string
}

// Default is the compressor used when none is configured.
var Default Compressor = LZ4{}

// ByName returns a built-in compressor by its stable name.
//
// Snapshot headers store the compressor name so persisted bytes stay
// self-describing.
func ByName(name string) (Compressor, bool) {
	switch name {
	case "nop":
		return Nop{}, true
	case "lz4":
		return LZ4{}, true
	case "zstd":
		return Zstd{}, true
	default:
		return nil, false
	}
}

// Nop passes payloads through unchanged.
type Nop struct{}

// Name returns the stable codec name.
func (Nop) Name() string { return "nop" }

// Compress returns data unchanged.
func (Nop) Compress(data []byte) ([]byte, error) { return data, nil }

// Decompress returns data unchanged.
func (Nop) Decompress(data []byte) ([]byte, error) { return data, nil }

// LZ4 compresses with the lz4 block format, prefixing the uncompressed size.
type LZ4 struct{}

// Name returns the stable codec name.
func (LZ4) Name() string { return "lz4" }

// Compress compresses data as a single lz4 block.
func (LZ4) Compress(data []byte) ([]byte, error) {
	buf := make([]byte, 8+lz4.CompressBlockBound(len(data)))
	binary.LittleEndian.PutUint64(buf, uint64(len(data)))

	var c lz4.Compressor
	n, err := c.CompressBlock(data, buf[8:])
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	if n == 0 {
		// Incompressible input; CompressBlock signals this with n == 0.
		buf = append(buf[:8], data...)
		return buf, nil
	}
	return buf[:8+n], nil
}

// Decompress reverses Compress.
func (LZ4) Decompress(data []byte) ([]byte, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("lz4 decompress: short payload (%d bytes)", len(data))
	}
	size := binary.LittleEndian.Uint64(data)
	out := make([]byte, size)
	if uint64(len(data)-8) == size {
		// Stored uncompressed (incompressible input).
		copy(out, data[8:])
		return out, nil
	}
	n, err := lz4.UncompressBlock(data[8:], out)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	return out[:n], nil
}

// Zstd compresses with zstd at the default level.
type Zstd struct{}

// Name returns the stable codec name.
func (Zstd) Name() string { return "zstd" }

// Compress compresses data as a zstd frame.
func (Zstd) Compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd compress: %w", err)
	}
	out := enc.EncodeAll(data, nil)
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("zstd compress: %w", err)
	}
	return out, nil
}

// Decompress reverses Compress.
func (Zstd) Decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	return out, nil
}
