package compactstrings

import "iter"

// entrySource is the read surface the iterators run over. All four
// container flavors implement it.
type entrySource interface {
	Len() int
	entryAt(index int) []byte
	generation() uint64
}

// Iter iterates over the entries of a byte container in index order.
//
// The iterator is invalidated by any mutation of its container: the next
// Next reports false and Err returns ErrStaleIterator. Values returned
// by Value borrow the arena and follow the same invalidation rules as
// Get.
type Iter struct {
	src  entrySource
	gen  uint64
	next int
	cur  []byte
	err  error
}

func newIter(src entrySource) *Iter {
	return &Iter{src: src, gen: src.generation()}
}

// Next advances the iterator. It returns false when the entries are
// exhausted or the container was mutated since the iterator was created;
// check Err to tell the two apart.
func (it *Iter) Next() bool {
	if it.err != nil {
		return false
	}
	if it.src.generation() != it.gen {
		it.err = ErrStaleIterator
		it.cur = nil
		return false
	}
	if it.next >= it.src.Len() {
		it.cur = nil
		return false
	}
	it.cur = it.src.entryAt(it.next)
	it.next++
	return true
}

// Value returns the entry Next advanced to. Valid only after a Next that
// returned true.
func (it *Iter) Value() []byte { return it.cur }

// Err returns ErrStaleIterator if the container was mutated during
// iteration, nil otherwise.
func (it *Iter) Err() error { return it.err }

// Reset rewinds the iterator and re-arms it against the container's
// current generation, clearing any staleness error.
func (it *Iter) Reset() {
	it.gen = it.src.generation()
	it.next = 0
	it.cur = nil
	it.err = nil
}

// StringIter is Iter for the string flavors; values are zero-copy string
// views with the same borrowing rules.
type StringIter struct {
	inner *Iter
}

// Next advances the iterator; see Iter.Next.
func (it *StringIter) Next() bool { return it.inner.Next() }

// Value returns the string Next advanced to.
func (it *StringIter) Value() string { return unsafeByteString(it.inner.Value()) }

// Err returns ErrStaleIterator if the container was mutated during
// iteration, nil otherwise.
func (it *StringIter) Err() error { return it.inner.Err() }

// Reset rewinds the iterator against the container's current generation.
func (it *StringIter) Reset() { it.inner.Reset() }

// All returns a range-over-func sequence of (index, entry) pairs.
// Mutating the container inside the loop ends the sequence early; use
// Iter directly when staleness must be distinguished from exhaustion.
func All(src interface{ Iter() *Iter }) iter.Seq2[int, []byte] {
	return func(yield func(int, []byte) bool) {
		it := src.Iter()
		for i := 0; it.Next(); i++ {
			if !yield(i, it.Value()) {
				return
			}
		}
	}
}

// Values returns a range-over-func sequence of entries.
func Values(src interface{ Iter() *Iter }) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		it := src.Iter()
		for it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

// AllStrings returns a range-over-func sequence of (index, string)
// pairs for the string flavors.
func AllStrings(src interface{ Iter() *StringIter }) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		it := src.Iter()
		for i := 0; it.Next(); i++ {
			if !yield(i, it.Value()) {
				return
			}
		}
	}
}

// StringValues returns a range-over-func sequence of strings for the
// string flavors.
func StringValues(src interface{ Iter() *StringIter }) iter.Seq[string] {
	return func(yield func(string) bool) {
		it := src.Iter()
		for it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}
