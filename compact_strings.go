package compactstrings

import (
	"unicode/utf8"
	"unsafe"
)

// CompactStrings is the UTF-8-validated flavor of CompactBytes: a compact
// list of strings stored contiguously in one shared byte arena.
//
// Push and Insert reject payloads that are not valid UTF-8, so every view
// handed out is a valid string. All other behavior, including the
// borrowing and invalidation rules, matches CompactBytes.
type CompactStrings struct {
	inner *CompactBytes
}

// NewCompactStrings constructs an empty CompactStrings.
func NewCompactStrings(optFns ...Option) *CompactStrings {
	return &CompactStrings{inner: NewCompactBytes(optFns...)}
}

// AsCompactStrings validates every entry of b and wraps it as a
// CompactStrings. On validation failure the offending entry's index is
// not recoverable from the error; the container is returned unwrapped by
// the caller's original handle and unmodified.
func AsCompactStrings(b *CompactBytes) (*CompactStrings, error) {
	for i := 0; i < b.Len(); i++ {
		if off := invalidUTF8Offset(b.GetUnchecked(i)); off >= 0 {
			return nil, &ErrInvalidEncoding{Offset: off}
		}
	}
	return &CompactStrings{inner: b}, nil
}

// Bytes returns the underlying byte container.
//
// The returned handle shares state with the CompactStrings: pushing
// non-UTF-8 payloads through it breaks the string flavor's validation
// guarantee.
func (c *CompactStrings) Bytes() *CompactBytes { return c.inner }

// Push appends a string to the back of the container. Returns
// ErrInvalidEncoding if s is not valid UTF-8; the container is left
// unmodified.
func (c *CompactStrings) Push(s string) error {
	if off := invalidUTF8OffsetString(s); off >= 0 {
		return &ErrInvalidEncoding{Offset: off}
	}
	c.inner.Push(unsafeStringBytes(s))
	return nil
}

// Get returns a borrowed view of the string at the given index.
//
// The string aliases the arena without copying: it is valid until the
// next mutation of the container. Use strings.Clone before mutating if
// the value must outlive the next push, remove or insert.
func (c *CompactStrings) Get(index int) (string, error) {
	b, err := c.inner.Get(index)
	if err != nil {
		return "", err
	}
	return unsafeByteString(b), nil
}

// GetUnchecked is Get without bounds checking. Calling it with an
// out-of-range index panics.
func (c *CompactStrings) GetUnchecked(index int) string {
	return unsafeByteString(c.inner.GetUnchecked(index))
}

// Len returns the number of strings in the container.
func (c *CompactStrings) Len() int { return c.inner.Len() }

// IsEmpty reports whether the container holds no strings.
func (c *CompactStrings) IsEmpty() bool { return c.inner.IsEmpty() }

// ArenaLen returns the current byte length of the arena, including stale
// bytes.
func (c *CompactStrings) ArenaLen() int { return c.inner.ArenaLen() }

// Cap returns the number of bytes the arena can store without
// reallocating.
func (c *CompactStrings) Cap() int { return c.inner.Cap() }

// CapMeta returns the number of metadata records the table can store
// without reallocating.
func (c *CompactStrings) CapMeta() int { return c.inner.CapMeta() }

// Reserve ensures capacity for at least additionalBytes more arena bytes
// and additionalEntries more metadata records.
func (c *CompactStrings) Reserve(additionalBytes, additionalEntries int) {
	c.inner.Reserve(additionalBytes, additionalEntries)
}

// Remove deletes the string at the given index and returns an owned copy.
func (c *CompactStrings) Remove(index int) (string, error) {
	b, err := c.inner.Remove(index)
	if err != nil {
		return "", err
	}
	return ownedByteString(b), nil
}

// SwapRemove deletes the string at the given index by swapping in the
// last entry's metadata, then reclaiming the arena span. Does not
// preserve entry order.
func (c *CompactStrings) SwapRemove(index int) (string, error) {
	b, err := c.inner.SwapRemove(index)
	if err != nil {
		return "", err
	}
	return ownedByteString(b), nil
}

// Ignore deletes the metadata record at the given index, leaving the
// string's bytes as stale padding in the arena.
func (c *CompactStrings) Ignore(index int) error { return c.inner.Ignore(index) }

// SwapIgnore is the O(1), order-breaking form of Ignore.
func (c *CompactStrings) SwapIgnore(index int) error { return c.inner.SwapIgnore(index) }

// Insert places a string at the given index. Insert at Len() is
// equivalent to Push. Returns ErrInvalidEncoding if s is not valid
// UTF-8; the container is left unmodified.
func (c *CompactStrings) Insert(index int, s string) error {
	if off := invalidUTF8OffsetString(s); off >= 0 {
		return &ErrInvalidEncoding{Offset: off}
	}
	return c.inner.Insert(index, unsafeStringBytes(s))
}

// Clear removes all strings, keeping allocated capacity.
func (c *CompactStrings) Clear() { c.inner.Clear() }

// Compact rebuilds the arena, dropping stale bytes.
func (c *CompactStrings) Compact() { c.inner.Compact() }

// ShrinkToFit reallocates the arena so its capacity matches its length.
func (c *CompactStrings) ShrinkToFit() { c.inner.ShrinkToFit() }

// ShrinkMetaToFit reallocates the metadata table so its capacity matches
// its length.
func (c *CompactStrings) ShrinkMetaToFit() { c.inner.ShrinkMetaToFit() }

// Equal reports whether both containers hold the same strings in the
// same order.
func (c *CompactStrings) Equal(other *CompactStrings) bool {
	return c.inner.Equal(other.inner)
}

// String implements fmt.Stringer, rendering the string list.
func (c *CompactStrings) String() string { return c.inner.String() }

// Iter returns a generation-checked iterator over all strings in index
// order.
func (c *CompactStrings) Iter() *StringIter {
	return &StringIter{inner: newIter(c.inner)}
}

// invalidUTF8Offset returns the byte offset of the first invalid UTF-8
// sequence in p, or -1 if p is valid.
func invalidUTF8Offset(p []byte) int {
	for i := 0; i < len(p); {
		r, size := utf8.DecodeRune(p[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

func invalidUTF8OffsetString(s string) int {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// unsafeByteString returns a string view of b without copying. Safe here
// because the arena bytes backing b are never mutated in place; the view
// is invalidated by container mutation exactly like the []byte it wraps.
func unsafeByteString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// ownedByteString converts a freshly allocated, never-again-mutated byte
// slice into a string without copying.
func ownedByteString(b []byte) string {
	return unsafeByteString(b)
}

// unsafeStringBytes returns a read-only byte view of s without copying.
// Callers must not write through the returned slice; Push and Insert
// only copy from it.
func unsafeStringBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
