package dedupe

import (
	"context"
	"sync"
	"time"
)

const defaultMaxSize = 10000

// MemoryGuard keeps claims in a map. Expired entries are swept on write.
type MemoryGuard struct {
	mu      sync.Mutex
	claims  map[string]time.Time
	window  time.Duration
	maxSize int
	now     func() time.Time
}

func NewMemoryGuard(window time.Duration) *MemoryGuard {
	if window <= 0 {
		window = 10 * time.Second
	}
	return &MemoryGuard{
		claims:  make(map[string]time.Time),
		window:  window,
		maxSize: defaultMaxSize,
		now:     time.Now,
	}
}

func (g *MemoryGuard) Claim(_ context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if claimedAt, ok := g.claims[key]; ok && now.Sub(claimedAt) < g.window {
		return false, nil
	}

	if len(g.claims) >= g.maxSize {
		g.sweep(now)
	}
	g.claims[key] = now
	return true, nil
}

func (g *MemoryGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.claims, key)
	return nil
}

// Len returns the number of held claims, expired ones included.
func (g *MemoryGuard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.claims)
}

// sweep drops expired claims, then arbitrary ones if the map is still full. Caller holds mu.
func (g *MemoryGuard) sweep(now time.Time) {
	for k, claimedAt := range g.claims {
		if now.Sub(claimedAt) >= g.window {
			delete(g.claims, k)
		}
	}
	for k := range g.claims {
		if len(g.claims) < g.maxSize {
			break
		}
		delete(g.claims, k)
	}
}
