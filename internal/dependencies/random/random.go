package random

import (
	"crypto/rand"
	"math/big"
)

// Random is the source used for room codes. It can be swapped for a
// scripted source in tests.
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int

	// String returns length characters drawn uniformly from alphabet
	String(length int, alphabet string) string
}

// CryptoRandom implements Random on top of crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Intn returns a random int in [0, n). It returns 0 for n <= 0.
func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken;
		// the room registry's collision check still keeps ids unique
		return 0
	}
	return int(v.Int64())
}

// String returns length characters drawn from alphabet
func (r *CryptoRandom) String(length int, alphabet string) string {
	if length <= 0 || alphabet == "" {
		return ""
	}
	out := make([]byte, length)
	for i := range out {
		out[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(out)
}
