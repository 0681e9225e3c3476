package compactstrings_test

import (
	"bytes"
	"fmt"

	compactstrings "github.com/Vonr/compact-strings"
)

func ExampleCompactStrings() {
	c := compactstrings.NewCompactStrings()
	_ = c.Push("one")
	_ = c.Push("two")
	_ = c.Push("three")

	s, _ := c.Get(1)
	fmt.Println(s)
	fmt.Println(c.Len(), c.ArenaLen())
	// Output:
	// two
	// 3 11
}

func ExampleCompactStrings_Ignore() {
	c := compactstrings.NewCompactStrings()
	_ = c.Push("ab")
	_ = c.Push("cde")
	_ = c.Push("f")

	// Ignore drops the entry without touching the arena.
	_ = c.Ignore(0)
	fmt.Println(c.Len(), c.ArenaLen())

	// Compact reclaims the stale bytes.
	c.Compact()
	fmt.Println(c.Len(), c.ArenaLen())
	// Output:
	// 2 6
	// 2 4
}

func ExampleFixedCompactStrings() {
	c := compactstrings.NewFixedCompactStrings()
	_ = c.Push("short") // stored inline, no arena bytes
	_ = c.Push("a-much-longer-string-that-spills")

	fmt.Println(c.ArenaLen())
	fmt.Println(c.GetUnchecked(0))
	// Output:
	// 32
	// short
}

func ExampleCompactStrings_Iter() {
	c := compactstrings.NewCompactStrings()
	_ = c.Push("alpha")
	_ = c.Push("beta")

	it := c.Iter()
	for it.Next() {
		fmt.Println(it.Value())
	}
	// Output:
	// alpha
	// beta
}

func ExampleCompactBytes_SaveTo() {
	c := compactstrings.NewCompactBytes()
	c.Push([]byte("persist me"))

	var buf bytes.Buffer
	_ = c.SaveTo(&buf, compactstrings.WithCompression(compactstrings.CompressionLZ4))

	loaded, _ := compactstrings.LoadCompactBytes(&buf)
	fmt.Println(c.Equal(loaded))
	// Output:
	// true
}

func ExampleExplicit() {
	c := compactstrings.Explicit().
		DataCapacity(1 << 10).
		MetaCapacity(64).
		BuildStrings()

	_ = c.Push("pre-sized")
	fmt.Println(c.Len())
	// Output:
	// 1
}
