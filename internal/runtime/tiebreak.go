package runtime

import (
	"math/rand/v2"
	"sync"
)

// TieBreaker chooses one object when several visible objects satisfy a class.
// Candidates are never empty and are in observation order.
type TieBreaker interface {
	Pick(candidates []string) string
}

// FirstTieBreaker always picks the first candidate.
type FirstTieBreaker struct{}

// Pick returns candidates[0].
func (FirstTieBreaker) Pick(candidates []string) string {
	return candidates[0]
}

// RandomTieBreaker picks uniformly using a seeded source. It is safe for concurrent use.
type RandomTieBreaker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomTieBreaker returns a tie-breaker whose choices are reproducible for a seed.
func NewRandomTieBreaker(seed uint64) *RandomTieBreaker {
	return &RandomTieBreaker{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Pick returns a uniformly chosen candidate.
func (r *RandomTieBreaker) Pick(candidates []string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return candidates[r.rng.IntN(len(candidates))]
}
