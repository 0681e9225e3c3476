package compactstrings

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"time"

	"github.com/Vonr/compact-strings/internal/compress"
	"github.com/Vonr/compact-strings/internal/conv"
)

// Snapshot format:
//
//	magic    [4]byte  "CSNP"
//	version  uint8    currently 1
//	flavor   uint8    container flavor, see flavor constants
//	codec    uint8    compression codec of the payload block
//	crc32c   uint32   Castagnoli checksum of the payload block, LE
//	length   uint64   payload block length in bytes, LE
//	payload  []byte   compressed entry stream
//
// The entry stream is logical, not a dump of the internal buffers: a
// uvarint entry count followed by uvarint-length-prefixed payloads, live
// entries only, in index order. Loading replays the stream, so
// tombstones and stale bytes never survive a save/load round trip and a
// snapshot taken from one flavor's byte container can seed another.

var snapshotMagic = [4]byte{'C', 'S', 'N', 'P'}

const snapshotVersion = 1

const (
	flavorBytes uint8 = iota
	flavorStrings
	flavorFixedBytes
	flavorFixedStrings
)

func flavorName(f uint8) string {
	switch f {
	case flavorBytes:
		return "bytes"
	case flavorStrings:
		return "strings"
	case flavorFixedBytes:
		return "fixed-bytes"
	case flavorFixedStrings:
		return "fixed-strings"
	default:
		return fmt.Sprintf("unknown(%d)", f)
	}
}

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Compression selects the codec applied to snapshot payloads.
type Compression uint8

const (
	// CompressionNone stores the payload uncompressed.
	CompressionNone = Compression(compress.None)
	// CompressionLZ4 favors speed over ratio.
	CompressionLZ4 = Compression(compress.LZ4)
	// CompressionZstd favors ratio; the default.
	CompressionZstd = Compression(compress.Zstd)
)

// String implements fmt.Stringer.
func (c Compression) String() string { return compress.Kind(c).String() }

// CompressionByName resolves a codec by its name ("none", "lz4",
// "zstd"), as written by Compression.String.
func CompressionByName(name string) (Compression, bool) {
	k, ok := compress.ByName(name)
	return Compression(k), ok
}

// SnapshotOption configures saving a snapshot.
type SnapshotOption func(*snapshotOptions)

type snapshotOptions struct {
	compression Compression
}

// WithCompression selects the payload codec. Default: CompressionZstd.
func WithCompression(c Compression) SnapshotOption {
	return func(o *snapshotOptions) {
		o.compression = c
	}
}

func applySnapshotOptions(optFns []SnapshotOption) snapshotOptions {
	o := snapshotOptions{compression: CompressionZstd}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}

// SaveTo writes a snapshot of the container to w.
func (c *CompactBytes) SaveTo(w io.Writer, optFns ...SnapshotOption) error {
	return saveSnapshot(w, c, flavorBytes, c.logger, c.metrics, optFns)
}

// SaveTo writes a snapshot of the container to w.
func (c *CompactStrings) SaveTo(w io.Writer, optFns ...SnapshotOption) error {
	return saveSnapshot(w, c.inner, flavorStrings, c.inner.logger, c.inner.metrics, optFns)
}

// SaveTo writes a snapshot of the container to w.
func (c *FixedCompactBytes) SaveTo(w io.Writer, optFns ...SnapshotOption) error {
	return saveSnapshot(w, c, flavorFixedBytes, c.logger, c.metrics, optFns)
}

// SaveTo writes a snapshot of the container to w.
func (c *FixedCompactStrings) SaveTo(w io.Writer, optFns ...SnapshotOption) error {
	return saveSnapshot(w, c.inner, flavorFixedStrings, c.inner.logger, c.inner.metrics, optFns)
}

// LoadCompactBytes reads a CompactBytes snapshot from r.
func LoadCompactBytes(r io.Reader, optFns ...Option) (*CompactBytes, error) {
	o := applyOptions(optFns)

	begin := time.Now()
	entries, n, err := loadSnapshot(r, flavorBytes)
	o.metrics.RecordSnapshotLoad(n, time.Since(begin), err)
	if err != nil {
		return nil, err
	}

	c := FromByteSlices(entries, optFns...)
	o.logger.Debug("loaded snapshot", "flavor", flavorName(flavorBytes), "entries", c.Len(), "bytes", n)
	return c, nil
}

// LoadCompactStrings reads a CompactStrings snapshot from r. Every
// entry is UTF-8 validated on the way in.
func LoadCompactStrings(r io.Reader, optFns ...Option) (*CompactStrings, error) {
	o := applyOptions(optFns)

	begin := time.Now()
	entries, n, err := loadSnapshot(r, flavorStrings)
	o.metrics.RecordSnapshotLoad(n, time.Since(begin), err)
	if err != nil {
		return nil, err
	}

	c := NewCompactStrings(optFns...)
	c.Reserve(totalLen(entries), len(entries))
	for _, p := range entries {
		if off := invalidUTF8Offset(p); off >= 0 {
			return nil, &ErrInvalidEncoding{Offset: off}
		}
		c.inner.Push(p)
	}
	o.logger.Debug("loaded snapshot", "flavor", flavorName(flavorStrings), "entries", c.Len(), "bytes", n)
	return c, nil
}

// LoadFixedCompactBytes reads a FixedCompactBytes snapshot from r.
func LoadFixedCompactBytes(r io.Reader, optFns ...Option) (*FixedCompactBytes, error) {
	o := applyOptions(optFns)

	begin := time.Now()
	entries, n, err := loadSnapshot(r, flavorFixedBytes)
	o.metrics.RecordSnapshotLoad(n, time.Since(begin), err)
	if err != nil {
		return nil, err
	}

	c := NewFixedCompactBytes(optFns...)
	c.Reserve(spilledLen(entries), len(entries))
	for _, p := range entries {
		c.Push(p)
	}
	o.logger.Debug("loaded snapshot", "flavor", flavorName(flavorFixedBytes), "entries", c.Len(), "bytes", n)
	return c, nil
}

// LoadFixedCompactStrings reads a FixedCompactStrings snapshot from r.
// Every entry is UTF-8 validated on the way in.
func LoadFixedCompactStrings(r io.Reader, optFns ...Option) (*FixedCompactStrings, error) {
	o := applyOptions(optFns)

	begin := time.Now()
	entries, n, err := loadSnapshot(r, flavorFixedStrings)
	o.metrics.RecordSnapshotLoad(n, time.Since(begin), err)
	if err != nil {
		return nil, err
	}

	c := NewFixedCompactStrings(optFns...)
	c.Reserve(spilledLen(entries), len(entries))
	for _, p := range entries {
		if off := invalidUTF8Offset(p); off >= 0 {
			return nil, &ErrInvalidEncoding{Offset: off}
		}
		c.inner.Push(p)
	}
	o.logger.Debug("loaded snapshot", "flavor", flavorName(flavorFixedStrings), "entries", c.Len(), "bytes", n)
	return c, nil
}

func saveSnapshot(w io.Writer, src entrySource, flavor uint8, logger *Logger, metrics MetricsCollector, optFns []SnapshotOption) error {
	o := applySnapshotOptions(optFns)
	begin := time.Now()

	n, err := writeSnapshot(w, src, flavor, o.compression)
	metrics.RecordSnapshotSave(n, time.Since(begin), err)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	logger.Debug("saved snapshot",
		"flavor", flavorName(flavor),
		"compression", o.compression.String(),
		"entries", src.Len(),
		"bytes", n,
	)
	return nil
}

func writeSnapshot(w io.Writer, src entrySource, flavor uint8, compression Compression) (int, error) {
	stream := encodeEntryStream(src)

	payload, err := compress.Block(compress.Kind(compression), stream)
	if err != nil {
		return 0, err
	}

	length, err := conv.IntToUint64(len(payload))
	if err != nil {
		return 0, err
	}

	header := make([]byte, 0, 19)
	header = append(header, snapshotMagic[:]...)
	header = append(header, snapshotVersion, flavor, uint8(compression))
	header = binary.LittleEndian.AppendUint32(header, crc32.Checksum(payload, castagnoli))
	header = binary.LittleEndian.AppendUint64(header, length)

	written := 0
	for _, chunk := range [][]byte{header, payload} {
		n, err := w.Write(chunk)
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

func encodeEntryStream(src entrySource) []byte {
	total := 0
	for i := 0; i < src.Len(); i++ {
		total += len(src.entryAt(i))
	}

	stream := make([]byte, 0, total+2*src.Len()+binary.MaxVarintLen64)
	stream = binary.AppendUvarint(stream, uint64(src.Len()))
	for i := 0; i < src.Len(); i++ {
		p := src.entryAt(i)
		stream = binary.AppendUvarint(stream, uint64(len(p)))
		stream = append(stream, p...)
	}
	return stream
}

func loadSnapshot(r io.Reader, wantFlavor uint8) (entries [][]byte, read int, err error) {
	var header [19]byte
	n, err := io.ReadFull(r, header[:])
	read = n
	if err != nil {
		return nil, read, fmt.Errorf("%w: short header: %v", ErrSnapshotCorrupt, err)
	}

	if [4]byte(header[:4]) != snapshotMagic {
		return nil, read, fmt.Errorf("%w: bad magic %q", ErrSnapshotCorrupt, header[:4])
	}
	if header[4] != snapshotVersion {
		return nil, read, fmt.Errorf("%w: unsupported version %d", ErrSnapshotCorrupt, header[4])
	}
	flavor := header[5]
	if flavor != wantFlavor {
		return nil, read, &ErrFlavorMismatch{Expected: flavorName(wantFlavor), Actual: flavorName(flavor)}
	}
	kind := compress.Kind(header[6])
	sum := binary.LittleEndian.Uint32(header[7:11])
	length, err := conv.Uint64ToInt(binary.LittleEndian.Uint64(header[11:19]))
	if err != nil {
		return nil, read, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}

	payload := make([]byte, length)
	n, err = io.ReadFull(r, payload)
	read += n
	if err != nil {
		return nil, read, fmt.Errorf("%w: short payload: %v", ErrSnapshotCorrupt, err)
	}
	if crc32.Checksum(payload, castagnoli) != sum {
		return nil, read, fmt.Errorf("%w: checksum mismatch", ErrSnapshotCorrupt)
	}

	stream, err := compress.Unblock(kind, payload)
	if err != nil {
		return nil, read, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}

	entries, err = decodeEntryStream(stream)
	if err != nil {
		return nil, read, err
	}
	return entries, read, nil
}

func decodeEntryStream(stream []byte) ([][]byte, error) {
	count, n := binary.Uvarint(stream)
	if n <= 0 {
		return nil, fmt.Errorf("%w: truncated entry count", ErrSnapshotCorrupt)
	}
	stream = stream[n:]

	entries := make([][]byte, 0, count)
	for i := uint64(0); i < count; i++ {
		length, n := binary.Uvarint(stream)
		if n <= 0 {
			return nil, fmt.Errorf("%w: truncated entry length", ErrSnapshotCorrupt)
		}
		stream = stream[n:]
		if uint64(len(stream)) < length {
			return nil, fmt.Errorf("%w: truncated entry payload", ErrSnapshotCorrupt)
		}
		entries = append(entries, stream[:length:length])
		stream = stream[length:]
	}
	if len(stream) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrSnapshotCorrupt, len(stream))
	}
	return entries, nil
}

func totalLen(entries [][]byte) int {
	total := 0
	for _, p := range entries {
		total += len(p)
	}
	return total
}

// spilledLen sums only the payloads a fixed container will place in its
// arena.
func spilledLen(entries [][]byte) int {
	total := 0
	for _, p := range entries {
		if len(p) > InlineCap {
			total += len(p)
		}
	}
	return total
}
