// Package compress provides block compression for container snapshots.
//
// Blocks are self-describing: an 8-byte header records the uncompressed
// and compressed sizes, and a compressed size of 0 marks a block that was
// stored raw because compression did not pay off.
package compress

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/Vonr/compact-strings/internal/conv"
)

// Kind selects the compression algorithm for a block.
type Kind uint8

const (
	// None stores blocks uncompressed.
	None Kind = 0
	// LZ4 uses LZ4 block compression (fast, moderate ratio).
	LZ4 Kind = 1
	// Zstd uses zstandard block compression (better ratio).
	Zstd Kind = 2
)

// String returns the stable name recorded in snapshot headers.
func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// ByName returns the Kind for a stable name recorded in a snapshot header.
func ByName(name string) (Kind, bool) {
	switch name {
	case "none":
		return None, true
	case "lz4":
		return LZ4, true
	case "zstd":
		return Zstd, true
	default:
		return None, false
	}
}

const headerSize = 8

// Encoder/decoder pools: zstd contexts are expensive to create and safe
// to reuse sequentially.
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Block compresses data with the given kind and prepends the block header.
// Incompressible data is stored raw regardless of kind.
func Block(kind Kind, data []byte) ([]byte, error) {
	var compressed []byte

	switch kind {
	case None:
	case LZ4:
		bound := lz4.CompressBlockBound(len(data))
		dst := make([]byte, bound)
		n, err := lz4.CompressBlock(data, dst, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if n > 0 {
			compressed = dst[:n]
		}
	case Zstd:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("unknown compression kind %d", kind)
	}

	// Raw fallback when compression did not shrink the block.
	if compressed == nil || len(compressed) >= len(data) {
		header, err := blockHeader(len(data), 0)
		if err != nil {
			return nil, err
		}
		out := make([]byte, headerSize+len(data))
		copy(out, header[:])
		copy(out[headerSize:], data)
		return out, nil
	}

	header, err := blockHeader(len(data), len(compressed))
	if err != nil {
		return nil, err
	}
	out := make([]byte, headerSize+len(compressed))
	copy(out, header[:])
	copy(out[headerSize:], compressed)
	return out, nil
}

// blockHeader encodes the size header. Sizes are stored as uint32, so a
// block over 4GiB fails the save here rather than producing a snapshot
// that can never load.
func blockHeader(uncompressedLen, compressedLen int) ([headerSize]byte, error) {
	var h [headerSize]byte

	u, err := conv.IntToUint32(uncompressedLen)
	if err != nil {
		return h, fmt.Errorf("block too large: %w", err)
	}
	c, err := conv.IntToUint32(compressedLen)
	if err != nil {
		return h, fmt.Errorf("block too large: %w", err)
	}

	binary.LittleEndian.PutUint32(h[0:], u)
	binary.LittleEndian.PutUint32(h[4:], c)
	return h, nil
}

// Unblock reverses Block, returning the uncompressed payload.
func Unblock(kind Kind, block []byte) ([]byte, error) {
	if len(block) < headerSize {
		return nil, fmt.Errorf("compressed block too short: %d bytes", len(block))
	}
	uncompressedSize := binary.LittleEndian.Uint32(block[0:])
	compressedSize := binary.LittleEndian.Uint32(block[4:])
	body := block[headerSize:]

	if compressedSize == 0 {
		if len(body) != int(uncompressedSize) {
			return nil, fmt.Errorf("raw block size mismatch: header %d, body %d", uncompressedSize, len(body))
		}
		out := make([]byte, len(body))
		copy(out, body)
		return out, nil
	}

	if len(body) != int(compressedSize) {
		return nil, fmt.Errorf("compressed block size mismatch: header %d, body %d", compressedSize, len(body))
	}

	switch kind {
	case LZ4:
		out := make([]byte, uncompressedSize)
		n, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if n != int(uncompressedSize) {
			return nil, fmt.Errorf("lz4 decompress size mismatch: header %d, got %d", uncompressedSize, n)
		}
		return out, nil
	case Zstd:
		dec := getZstdDecoder()
		out, err := dec.DecodeAll(body, make([]byte, 0, uncompressedSize))
		zstdDecoderPool.Put(dec)
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		if len(out) != int(uncompressedSize) {
			return nil, fmt.Errorf("zstd decompress size mismatch: header %d, got %d", uncompressedSize, len(out))
		}
		return out, nil
	case None:
		return nil, fmt.Errorf("raw block carries nonzero compressed size %d", compressedSize)
	default:
		return nil, fmt.Errorf("unknown compression kind %d", kind)
	}
}
