// Package testutil provides testing utilities for the compactstrings
// containers.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe RNG and helpers for generating
// random payloads and word corpora with controllable length
// distributions.
//
// # Random Payload Generation
//
//	rng := testutil.NewRNG(seed)
//	p := rng.Bytes(4, 64)           // random length in [4, 64]
//	w := rng.Word(1, 12)            // lowercase ASCII word
//	corpus := rng.Corpus(1000, 1, 24)
package testutil
