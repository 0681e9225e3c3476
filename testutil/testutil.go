package testutil

import (
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Bytes returns a random payload whose length is uniform in
// [minLen, maxLen].
func (r *RNG) Bytes(minLen, maxLen int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := make([]byte, r.lengthLocked(minLen, maxLen))
	r.rand.Read(p)
	return p
}

// Word returns a random lowercase ASCII word whose length is uniform in
// [minLen, maxLen]. Always valid UTF-8.
func (r *RNG) Word(minLen, maxLen int) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := make([]byte, r.lengthLocked(minLen, maxLen))
	for i := range p {
		p[i] = byte('a' + r.rand.Intn(26))
	}
	return string(p)
}

// Corpus returns n random words; see Word for the length distribution.
func (r *RNG) Corpus(n, minLen, maxLen int) []string {
	words := make([]string, n)
	for i := range words {
		words[i] = r.Word(minLen, maxLen)
	}
	return words
}

// ByteCorpus returns n random payloads; see Bytes for the length
// distribution.
func (r *RNG) ByteCorpus(n, minLen, maxLen int) [][]byte {
	payloads := make([][]byte, n)
	for i := range payloads {
		payloads[i] = r.Bytes(minLen, maxLen)
	}
	return payloads
}

func (r *RNG) lengthLocked(minLen, maxLen int) int {
	if maxLen <= minLen {
		return minLen
	}
	return minLen + r.rand.Intn(maxLen-minLen+1)
}
