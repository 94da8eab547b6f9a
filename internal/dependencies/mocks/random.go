package mocks

import (
	"github.com/mcoot/minigolf-go/internal/dependencies/random"
)

// MockRandom replays queued values. Once a queue runs dry it falls back to
// deterministic output so tests that do not care still get valid codes.
type MockRandom struct {
	ints    []int
	strings []string

	// Calls counts String invocations, handy for asserting retries
	Calls int
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates an empty MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn pops the next queued int, or returns 0
func (r *MockRandom) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v
}

// String pops the next queued string. When the queue is empty it returns
// length copies of the first alphabet character.
func (r *MockRandom) String(length int, alphabet string) string {
	r.Calls++
	if len(r.strings) > 0 {
		v := r.strings[0]
		r.strings = r.strings[1:]
		return v
	}
	if alphabet == "" {
		return ""
	}
	out := make([]byte, length)
	for i := range out {
		out[i] = alphabet[0]
	}
	return string(out)
}

// QueueIntn appends values returned by Intn
func (r *MockRandom) QueueIntn(values ...int) {
	r.ints = append(r.ints, values...)
}

// QueueString appends values returned by String
func (r *MockRandom) QueueString(values ...string) {
	r.strings = append(r.strings, values...)
}
