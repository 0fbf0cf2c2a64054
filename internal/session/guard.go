package session

import "sync"

// Guard enforces at-most-one concurrent answer evaluation per user. A second
// submission arriving while the first is still in flight is dropped, not
// queued, so a double tap can never double-count a score. The guard is
// layered above the store's own locking and works even when no session
// exists for the user.
type Guard struct {
	mu     sync.Mutex
	inside map[int64]struct{}
}

// NewGuard constructs an empty answer guard.
func NewGuard() *Guard {
	return &Guard{inside: make(map[int64]struct{})}
}

// TryAcquire marks the user as inside the answer critical section.
// It returns false if the user is already inside.
func (g *Guard) TryAcquire(userID int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inside[userID]; busy {
		return false
	}
	g.inside[userID] = struct{}{}
	return true
}

// Release marks the user as outside the critical section.
func (g *Guard) Release(userID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inside, userID)
}
