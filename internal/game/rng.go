package game

import (
	crand "crypto/rand"
	"encoding/binary"
	mrand "math/rand"
	"time"
)

// Rand is the randomness the catch resolver needs: uniform [0,1) draws
// for probability checks and interval weights, integer draws for table
// picks, and a rate-1 exponential for heavy-tail weights.
// *math/rand.Rand satisfies it; tests substitute scripted sources.
type Rand interface {
	Float64() float64
	Intn(n int) int
	ExpFloat64() float64
}

// newSeededRand builds a math/rand source seeded from crypto/rand,
// falling back to the wall clock.
func newSeededRand() *mrand.Rand {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return mrand.New(mrand.NewSource(time.Now().UnixNano()))
	}
	return mrand.New(mrand.NewSource(int64(binary.LittleEndian.Uint64(b[:]))))
}
