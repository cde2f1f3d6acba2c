package domain

import "sync"

// SequenceGenerator hands out the monotonically increasing sequence ids
// stamped onto figures at insert time. Safe for concurrent use.
type SequenceGenerator struct {
	mu   sync.Mutex
	last int64
}

// Next returns the next sequence id, starting at 1.
func (g *SequenceGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last++
	return g.last
}

// Reset returns the generator to its initial state. Intended for tests.
func (g *SequenceGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last = 0
}
