// Package arena provides the flat byte arena backing every compact
// container: a single growable []byte holding all entry payloads
// contiguously.
//
// # Concurrency Model
//
// Arena is not synchronized. Containers own exactly one arena and apply
// their single-writer discipline to it; concurrent readers are safe only
// while no writer is active.
//
// # Growth
//
// Append grows the buffer by amortized doubling, the same policy as a
// built-in slice, so the total bytes copied across N appends is O(N).
// Cut and Insert are the splice primitives used by entry removal and
// insertion; both are O(bytes after the splice point) and are the most
// expensive operations in the package.
package arena

// Arena is a growable flat byte buffer.
//
// Offsets handed out by Append remain valid until the next Cut, Insert,
// Clear or ShrinkToFit. Views returned by View alias the underlying
// buffer and are invalidated by any mutation, including Append (which
// may reallocate).
type Arena struct {
	buf []byte
}

// New returns an arena with at least the given byte capacity reserved.
// A capacity of 0 defers allocation until the first Append.
func New(capacity int) *Arena {
	a := &Arena{}
	if capacity > 0 {
		a.buf = make([]byte, 0, capacity)
	}
	return a
}

// Len returns the number of live bytes in the arena.
func (a *Arena) Len() int { return len(a.buf) }

// Cap returns the number of bytes the arena can hold without reallocating.
func (a *Arena) Cap() int { return cap(a.buf) }

// Append copies p to the end of the arena and returns the start offset
// of the copy.
func (a *Arena) Append(p []byte) int {
	start := len(a.buf)
	a.grow(len(p))
	a.buf = append(a.buf, p...)
	return start
}

// View returns the byte range [start, start+length) without copying.
//
// Bounds are the caller's responsibility: the metadata table guarantees
// start+length <= Len(). The returned slice is invalidated by any
// subsequent mutation of the arena.
func (a *Arena) View(start, length int) []byte {
	return a.buf[start : start+length : start+length]
}

// Bytes returns the live prefix of the arena without copying.
func (a *Arena) Bytes() []byte { return a.buf }

// Reserve ensures the arena can hold at least additional more bytes
// without reallocating.
func (a *Arena) Reserve(additional int) {
	if additional <= 0 || len(a.buf)+additional <= cap(a.buf) {
		return
	}
	a.grow(additional)
}

// Cut removes the byte range [start, start+length), shifting every byte
// after it left by length. O(bytes after the range).
func (a *Arena) Cut(start, length int) {
	if length == 0 {
		return
	}
	copy(a.buf[start:], a.buf[start+length:])
	a.buf = a.buf[:len(a.buf)-length]
}

// Insert splices p into the arena at start, shifting every byte at or
// after start right by len(p). O(bytes after start).
func (a *Arena) Insert(start int, p []byte) {
	if len(p) == 0 {
		return
	}
	a.grow(len(p))
	a.buf = a.buf[:len(a.buf)+len(p)]
	copy(a.buf[start+len(p):], a.buf[start:])
	copy(a.buf[start:], p)
}

// Truncate drops all bytes at or after n.
func (a *Arena) Truncate(n int) {
	a.buf = a.buf[:n]
}

// Clear drops all bytes but keeps the allocated capacity.
func (a *Arena) Clear() {
	a.buf = a.buf[:0]
}

// ShrinkToFit reallocates the arena so its capacity matches its length.
// A no-op when the buffer is already exactly sized.
func (a *Arena) ShrinkToFit() {
	if cap(a.buf) == len(a.buf) {
		return
	}
	if len(a.buf) == 0 {
		a.buf = nil
		return
	}
	shrunk := make([]byte, len(a.buf))
	copy(shrunk, a.buf)
	a.buf = shrunk
}

// grow reallocates so that n more bytes fit, doubling capacity to keep
// append cost amortized O(1) per byte.
func (a *Arena) grow(n int) {
	need := len(a.buf) + n
	if need <= cap(a.buf) {
		return
	}
	newCap := cap(a.buf) * 2
	if newCap < need {
		newCap = need
	}
	if newCap < 64 {
		newCap = 64
	}
	grown := make([]byte, len(a.buf), newCap)
	copy(grown, a.buf)
	a.buf = grown
}
