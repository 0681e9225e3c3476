package compactstrings

// FixedCompactStrings is the UTF-8-validated flavor of FixedCompactBytes.
//
// Push and Insert reject payloads that are not valid UTF-8. Everything
// else, including inline storage of short strings and tombstoning
// semantics, matches FixedCompactBytes.
type FixedCompactStrings struct {
	inner *FixedCompactBytes
}

// NewFixedCompactStrings constructs an empty FixedCompactStrings.
func NewFixedCompactStrings(optFns ...Option) *FixedCompactStrings {
	return &FixedCompactStrings{inner: NewFixedCompactBytes(optFns...)}
}

// AsFixedCompactStrings validates every live entry of b and wraps it as
// a FixedCompactStrings. The container is shared, not copied.
func AsFixedCompactStrings(b *FixedCompactBytes) (*FixedCompactStrings, error) {
	for i := 0; i < b.Len(); i++ {
		if off := invalidUTF8Offset(b.GetUnchecked(i)); off >= 0 {
			return nil, &ErrInvalidEncoding{Offset: off}
		}
	}
	return &FixedCompactStrings{inner: b}, nil
}

// Bytes returns the underlying byte container.
//
// The returned handle shares state with the FixedCompactStrings: pushing
// non-UTF-8 payloads through it breaks the string flavor's validation
// guarantee.
func (c *FixedCompactStrings) Bytes() *FixedCompactBytes { return c.inner }

// Push appends a string. Returns ErrInvalidEncoding if s is not valid
// UTF-8; the container is left unmodified.
func (c *FixedCompactStrings) Push(s string) error {
	if off := invalidUTF8OffsetString(s); off >= 0 {
		return &ErrInvalidEncoding{Offset: off}
	}
	c.inner.Push(unsafeStringBytes(s))
	return nil
}

// Get returns a borrowed view of the string at the given index, valid
// until the next mutation.
func (c *FixedCompactStrings) Get(index int) (string, error) {
	b, err := c.inner.Get(index)
	if err != nil {
		return "", err
	}
	return unsafeByteString(b), nil
}

// GetUnchecked is Get without bounds checking. Calling it with an
// out-of-range index panics.
func (c *FixedCompactStrings) GetUnchecked(index int) string {
	return unsafeByteString(c.inner.GetUnchecked(index))
}

// Len returns the number of live strings.
func (c *FixedCompactStrings) Len() int { return c.inner.Len() }

// IsEmpty reports whether the container holds no live strings.
func (c *FixedCompactStrings) IsEmpty() bool { return c.inner.IsEmpty() }

// Tombstones returns the number of tombstoned cells still occupying
// metadata slots.
func (c *FixedCompactStrings) Tombstones() int { return c.inner.Tombstones() }

// ArenaLen returns the current byte length of the arena, including stale
// bytes.
func (c *FixedCompactStrings) ArenaLen() int { return c.inner.ArenaLen() }

// Cap returns the number of bytes the arena can store without
// reallocating.
func (c *FixedCompactStrings) Cap() int { return c.inner.Cap() }

// CapMeta returns the number of cells the table can store without
// reallocating.
func (c *FixedCompactStrings) CapMeta() int { return c.inner.CapMeta() }

// Reserve ensures capacity for at least additionalBytes more arena bytes
// and additionalEntries more cells.
func (c *FixedCompactStrings) Reserve(additionalBytes, additionalEntries int) {
	c.inner.Reserve(additionalBytes, additionalEntries)
}

// Remove deletes the string at the given index and returns an owned copy.
func (c *FixedCompactStrings) Remove(index int) (string, error) {
	b, err := c.inner.Remove(index)
	if err != nil {
		return "", err
	}
	return ownedByteString(b), nil
}

// SwapRemove deletes the string at the given index, O(1) when both it
// and the last entry are inline; see FixedCompactBytes.SwapRemove.
func (c *FixedCompactStrings) SwapRemove(index int) (string, error) {
	b, err := c.inner.SwapRemove(index)
	if err != nil {
		return "", err
	}
	return ownedByteString(b), nil
}

// Ignore tombstones the string at the given index without moving bytes.
func (c *FixedCompactStrings) Ignore(index int) error { return c.inner.Ignore(index) }

// SwapIgnore is the swap form of Ignore; see FixedCompactBytes.SwapIgnore.
func (c *FixedCompactStrings) SwapIgnore(index int) error { return c.inner.SwapIgnore(index) }

// Insert places a string at the given index. Insert at Len() is
// equivalent to Push. Returns ErrInvalidEncoding if s is not valid
// UTF-8; the container is left unmodified.
func (c *FixedCompactStrings) Insert(index int, s string) error {
	if off := invalidUTF8OffsetString(s); off >= 0 {
		return &ErrInvalidEncoding{Offset: off}
	}
	return c.inner.Insert(index, unsafeStringBytes(s))
}

// Clear removes all strings and tombstones, keeping allocated capacity.
func (c *FixedCompactStrings) Clear() { c.inner.Clear() }

// Compact rebuilds both buffers, dropping tombstones and stale bytes.
func (c *FixedCompactStrings) Compact() { c.inner.Compact() }

// ShrinkToFit reallocates the arena so its capacity matches its length.
func (c *FixedCompactStrings) ShrinkToFit() { c.inner.ShrinkToFit() }

// ShrinkMetaToFit reallocates the cell table so its capacity matches its
// length.
func (c *FixedCompactStrings) ShrinkMetaToFit() { c.inner.ShrinkMetaToFit() }

// Equal reports whether both containers hold the same live strings in
// the same order.
func (c *FixedCompactStrings) Equal(other *FixedCompactStrings) bool {
	return c.inner.Equal(other.inner)
}

// String implements fmt.Stringer, rendering the live string list.
func (c *FixedCompactStrings) String() string { return c.inner.String() }

// Iter returns a generation-checked iterator over all live strings in
// index order.
func (c *FixedCompactStrings) Iter() *StringIter {
	return &StringIter{inner: newIter(c.inner)}
}
