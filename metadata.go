package compactstrings

// record is the explicit-form metadata descriptor: one per entry, fully
// self-contained. The implicit form (fixed containers) stores cells
// instead, see cell.go.
type record struct {
	start  int
	length int
}

// end returns the exclusive end offset of the record's arena span.
func (r record) end() int { return r.start + r.length }
