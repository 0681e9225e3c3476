package compactstrings

import (
	"testing"

	"github.com/Vonr/compact-strings/testutil"
)

func benchPayloads(n, minLen, maxLen int) [][]byte {
	return testutil.NewRNG(1).ByteCorpus(n, minLen, maxLen)
}

func BenchmarkPush(b *testing.B) {
	payloads := benchPayloads(1024, 4, 64)

	b.Run("explicit", func(b *testing.B) {
		c := NewCompactBytes()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			c.Push(payloads[i%len(payloads)])
		}
	})

	b.Run("fixed", func(b *testing.B) {
		c := NewFixedCompactBytes()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			c.Push(payloads[i%len(payloads)])
		}
	})

	b.Run("fixed inline only", func(b *testing.B) {
		payloads := benchPayloads(1024, 0, InlineCap)
		c := NewFixedCompactBytes()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			c.Push(payloads[i%len(payloads)])
		}
	})

	b.Run("naive slices", func(b *testing.B) {
		var s [][]byte
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			p := payloads[i%len(payloads)]
			s = append(s, append([]byte(nil), p...))
		}
		_ = s
	})
}

func BenchmarkGet(b *testing.B) {
	payloads := benchPayloads(4096, 4, 64)

	b.Run("explicit", func(b *testing.B) {
		c := FromByteSlices(payloads)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = c.GetUnchecked(i % c.Len())
		}
	})

	b.Run("fixed", func(b *testing.B) {
		c := NewFixedCompactBytes()
		for _, p := range payloads {
			c.Push(p)
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = c.GetUnchecked(i % c.Len())
		}
	})
}

func BenchmarkIter(b *testing.B) {
	payloads := benchPayloads(4096, 4, 32)
	c := FromByteSlices(payloads)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		total := 0
		it := c.Iter()
		for it.Next() {
			total += len(it.Value())
		}
		_ = total
	}
}

func BenchmarkRemoveFront(b *testing.B) {
	payloads := benchPayloads(1024, 4, 32)

	b.Run("remove", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			b.StopTimer()
			c := FromByteSlices(payloads)
			b.StartTimer()
			for !c.IsEmpty() {
				_, _ = c.Remove(0)
			}
		}
	})

	b.Run("ignore then compact", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			b.StopTimer()
			c := FromByteSlices(payloads)
			b.StartTimer()
			for !c.IsEmpty() {
				_ = c.Ignore(0)
			}
			c.Compact()
		}
	})
}
