package session

import (
	"sync"
	"testing"
)

func TestGuardExcludesSecondConcurrentEntry(t *testing.T) {
	g := NewGuard()
	if !g.TryAcquire(1) {
		t.Fatal("first acquire should succeed")
	}
	if g.TryAcquire(1) {
		t.Fatal("second acquire for the same user should fail")
	}
	if !g.TryAcquire(2) {
		t.Fatal("acquire for another user should succeed")
	}
	g.Release(1)
	if !g.TryAcquire(1) {
		t.Fatal("acquire after release should succeed")
	}
}

func TestGuardScoresAtMostOncePerConcurrentBurst(t *testing.T) {
	s := NewStore()
	g := NewGuard()
	if err := s.Start(1, makeQuestions(1)); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, ok := s.Next(1); !ok {
		t.Fatal("expected question delivery")
	}

	// Simulate a double tap: one submission is mid-evaluation while the
	// duplicates arrive. Every duplicate must be dropped, not queued.
	if !g.TryAcquire(1) {
		t.Fatal("acquire: guard should be free")
	}
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryAcquire(1) {
				t.Error("guard admitted a concurrent duplicate")
				g.Release(1)
			}
		}()
	}
	wg.Wait()

	if _, err := s.Check(1, 0); err != nil {
		t.Fatalf("check: %v", err)
	}
	g.Release(1)

	if got := s.Score(1); got != 1 {
		t.Fatalf("score = %d, want 1", got)
	}
}
