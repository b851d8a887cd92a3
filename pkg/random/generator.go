package random

import (
	crypto_rand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// SingleThreadedGenerator is a Random Number Generator (RNG) that
// cannot be used concurrently. This interface is a subset of Go's
// rand.Rand.
type SingleThreadedGenerator interface {
	// Generates a number in range [0, n), where n is of type int64.
	Int64N(n int64) int64
	// Shuffle the elements in a list.
	Shuffle(n int, swap func(i, j int))
}

var _ SingleThreadedGenerator = (*rand.Rand)(nil)

func mustCryptoRandUint64() uint64 {
	var b [8]byte
	if _, err := crypto_rand.Read(b[:]); err != nil {
		panic(fmt.Sprintf("Failed to obtain random data: %s", err))
	}
	return binary.LittleEndian.Uint64(b[:])
}

// NewFastSingleThreadedGenerator creates a new SingleThreadedGenerator
// that is not suitable for cryptographic purposes. The generator is
// randomly seeded.
func NewFastSingleThreadedGenerator() SingleThreadedGenerator {
	return rand.New(rand.NewPCG(mustCryptoRandUint64(), mustCryptoRandUint64()))
}

// NewSeededSingleThreadedGenerator creates a SingleThreadedGenerator
// that yields the same sequence of numbers for a given seed. This can
// be used to reproduce the order in which values were written.
func NewSeededSingleThreadedGenerator(seed uint64) SingleThreadedGenerator {
	return rand.New(rand.NewPCG(seed, seed))
}
