package compactstrings

import (
	"errors"
	"fmt"
)

var (
	// ErrStaleIterator is reported by an iterator whose container was
	// mutated after the iterator was created. Any mutation may move or
	// reallocate the metadata table or the arena, so borrowed views held
	// by the iterator are no longer valid.
	ErrStaleIterator = errors.New("iterator invalidated by container mutation")

	// ErrSnapshotCorrupt is returned when a snapshot fails structural or
	// checksum validation on load.
	ErrSnapshotCorrupt = errors.New("snapshot corrupt")
)

// ErrIndexOutOfRange indicates an accessor or mutator was given an index
// at or beyond the container's length. The container is left unmodified.
type ErrIndexOutOfRange struct {
	Index int
	Len   int
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("index out of range: index %d, len %d", e.Index, e.Len)
}

// ErrInvalidEncoding indicates a push or insert of bytes that are not
// valid UTF-8 into a string-flavored container. The container is left
// unmodified.
type ErrInvalidEncoding struct {
	// Offset is the byte offset of the first invalid sequence.
	Offset int
}

func (e *ErrInvalidEncoding) Error() string {
	return fmt.Sprintf("invalid utf-8 at byte offset %d", e.Offset)
}

// ErrFlavorMismatch indicates a snapshot was written by a different
// container flavor than the one loading it.
type ErrFlavorMismatch struct {
	Expected string
	Actual   string
}

func (e *ErrFlavorMismatch) Error() string {
	return fmt.Sprintf("snapshot flavor mismatch: expected %s, got %s", e.Expected, e.Actual)
}

func indexError(index, length int) error {
	return &ErrIndexOutOfRange{Index: index, Len: length}
}
