// Package session owns the in-memory quiz-taking state: one entry per user
// with a question cursor, a score, and idle-timeout accounting. Entries are
// serialized per user so concurrent question delivery and answer checking
// for the same user never observe a torn cursor.
package session

import (
	"sync"
	"time"

	"github.com/m3rciful/quizbot/internal/quiz"
)

type entry struct {
	mu           sync.Mutex
	questions    []quiz.Question
	cursor       int
	score        int
	lastActivity time.Time
}

// Store is a keyed concurrent map of per-user quiz sessions. The store
// mutex only guards the map; per-user mutation happens under the entry
// mutex so unrelated users never block each other.
type Store struct {
	mu      sync.RWMutex
	entries map[int64]*entry
	now     func() time.Time
}

// NewStore constructs an empty session store.
func NewStore() *Store {
	return &Store{
		entries: make(map[int64]*entry),
		now:     time.Now,
	}
}

// NewStoreWithClock constructs a store with an injectable clock.
func NewStoreWithClock(now func() time.Time) *Store {
	s := NewStore()
	if now != nil {
		s.now = now
	}
	return s
}

// Start begins a quiz attempt for the user with the given question snapshot.
// An existing session for the same user is overwritten: a user has at most
// one quiz in flight and starting a new one discards the old attempt.
func (s *Store) Start(userID int64, questions []quiz.Question) error {
	if len(questions) == 0 {
		return quiz.ErrEmptyQuiz
	}

	snapshot := make([]quiz.Question, len(questions))
	copy(snapshot, questions)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = &entry{
		questions:    snapshot,
		lastActivity: s.now(),
	}
	return nil
}

// Next returns the question under the cursor and advances it by one.
// It returns false when no session exists or the quiz is exhausted.
func (s *Store) Next(userID int64) (quiz.Question, bool) {
	e := s.lookup(userID)
	if e == nil {
		return quiz.Question{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastActivity = s.now()

	if e.cursor >= len(e.questions) {
		return quiz.Question{}, false
	}
	q := e.questions[e.cursor]
	e.cursor++
	return q, true
}

// Check compares the selected option against the current question, i.e. the
// one most recently returned by Next, and increments the score on a match.
func (s *Store) Check(userID int64, selectedIndex int) (bool, error) {
	e := s.lookup(userID)
	if e == nil {
		return false, quiz.ErrNoSession
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastActivity = s.now()

	current := e.cursor - 1
	if current < 0 || current >= len(e.questions) {
		return false, quiz.ErrInvalidState
	}

	correct := e.questions[current].CorrectIndex == selectedIndex
	if correct {
		e.score++
	}
	return correct, nil
}

// Current returns the question most recently delivered by Next.
// It returns false when no session exists or no question was delivered yet.
func (s *Store) Current(userID int64) (quiz.Question, bool) {
	e := s.lookup(userID)
	if e == nil {
		return quiz.Question{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	current := e.cursor - 1
	if current < 0 || current >= len(e.questions) {
		return quiz.Question{}, false
	}
	return e.questions[current], true
}

// Progress returns the number of delivered questions and the total count.
func (s *Store) Progress(userID int64) (delivered, total int, ok bool) {
	e := s.lookup(userID)
	if e == nil {
		return 0, 0, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor, len(e.questions), true
}

// Score returns the user's current score, or 0 without a session.
func (s *Store) Score(userID int64) int {
	e := s.lookup(userID)
	if e == nil {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.score
}

// Finished reports whether the user's session has delivered every question.
func (s *Store) Finished(userID int64) bool {
	e := s.lookup(userID)
	if e == nil {
		return true
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor >= len(e.questions)
}

// Clear removes the user's session. Clearing an absent session is a no-op.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
}

// Len returns the number of active sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// EvictIdle removes sessions whose last activity is before cutoff and
// returns the evicted user ids. The key set is snapshotted first; each
// entry is re-checked against its current lastActivity under lock, so a
// session touched after the snapshot survives.
func (s *Store) EvictIdle(cutoff time.Time) []int64 {
	s.mu.RLock()
	ids := make([]int64, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	var evicted []int64
	for _, id := range ids {
		s.mu.Lock()
		e, ok := s.entries[id]
		if !ok {
			s.mu.Unlock()
			continue
		}
		e.mu.Lock()
		stale := e.lastActivity.Before(cutoff)
		e.mu.Unlock()
		if stale {
			delete(s.entries, id)
			evicted = append(evicted, id)
		}
		s.mu.Unlock()
	}
	return evicted
}

func (s *Store) lookup(userID int64) *entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[userID]
}
