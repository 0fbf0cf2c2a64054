// Package authoring drives the multi-step admin conversation that builds a
// quiz: title, then a menu of add-one / add-bulk / finish, with a
// three-step sub-flow for single questions. Each conversation is an
// explicit state machine; the scratch fields are only meaningful in the
// phases that set them.
package authoring

import (
	"sync"
	"time"

	"github.com/m3rciful/quizbot/internal/quiz"
)

// Phase is a step of the admin authoring conversation.
type Phase int

const (
	// PhaseAwaitingTitle waits for the quiz title text.
	PhaseAwaitingTitle Phase = iota
	// PhaseMenuChoice waits for an add-one / add-bulk / finish button.
	PhaseMenuChoice
	// PhaseAwaitingQuestionText waits for the question text.
	PhaseAwaitingQuestionText
	// PhaseAwaitingOptions waits for the comma-separated options line.
	PhaseAwaitingOptions
	// PhaseAwaitingCorrectIndex waits for the correct option index digit.
	PhaseAwaitingCorrectIndex
	// PhaseAwaitingBulk waits for a block of question lines.
	PhaseAwaitingBulk
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingTitle:
		return "awaiting_title"
	case PhaseMenuChoice:
		return "menu_choice"
	case PhaseAwaitingQuestionText:
		return "awaiting_question_text"
	case PhaseAwaitingOptions:
		return "awaiting_options"
	case PhaseAwaitingCorrectIndex:
		return "awaiting_correct_index"
	case PhaseAwaitingBulk:
		return "awaiting_bulk"
	}
	return "unknown"
}

// conversation is one admin's in-progress authoring dialogue. QuizID is set
// once the title is accepted and never changes afterwards. pendingQuestion
// and pendingOptions belong to the single-question sub-flow only.
type conversation struct {
	phase           Phase
	quizID          int64
	pendingQuestion string
	pendingOptions  [quiz.OptionCount]string
	lastActivity    time.Time
}

// Store is a keyed concurrent map of per-admin conversations. Transitions
// are atomic under the store mutex; persistence calls never run under it.
type Store struct {
	mu    sync.Mutex
	convs map[int64]*conversation
	now   func() time.Time
}

// NewStore constructs an empty conversation store.
func NewStore() *Store {
	return &Store{
		convs: make(map[int64]*conversation),
		now:   time.Now,
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

// Begin starts a fresh conversation in PhaseAwaitingTitle, replacing any
// conversation the admin may have abandoned.
func (s *Store) Begin(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.convs[userID] = &conversation{
		phase:        PhaseAwaitingTitle,
		lastActivity: s.now(),
	}
}

// Active reports whether the admin has a conversation in progress.
func (s *Store) Active(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.convs[userID]
	return ok
}

// Phase returns the admin's current phase.
func (s *Store) Phase(userID int64) (Phase, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.convs[userID]
	if !ok {
		return 0, false
	}
	return c.phase, true
}

// QuizID returns the id of the quiz being authored.
func (s *Store) QuizID(userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.convs[userID]
	if !ok {
		return 0, quiz.ErrNoConversation
	}
	return c.quizID, nil
}

// Finish destroys the conversation. Finishing an absent conversation is a
// no-op so duplicate button presses stay harmless.
func (s *Store) Finish(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.convs, userID)
}

// Len returns the number of active conversations.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.convs)
}

// EvictIdle removes conversations idle since before cutoff and returns the
// evicted admin ids. An admin who abandons mid-flow therefore regains a
// clean slate after the timeout instead of being stuck forever.
func (s *Store) EvictIdle(cutoff time.Time) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var evicted []int64
	for id, c := range s.convs {
		if c.lastActivity.Before(cutoff) {
			delete(s.convs, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}

// transition applies fn to the conversation if it is in the expected phase.
// It returns ErrNoConversation without a conversation and a state error on
// a phase mismatch, leaving the conversation untouched either way.
func (s *Store) transition(userID int64, expect Phase, fn func(*conversation)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.convs[userID]
	if !ok {
		return quiz.ErrNoConversation
	}
	if c.phase != expect {
		return quiz.E(quiz.KindState, "conversation is in phase %s, expected %s", c.phase, expect)
	}
	fn(c)
	c.lastActivity = s.now()
	return nil
}

// QuizCreated records the persisted quiz id and advances to the menu.
func (s *Store) QuizCreated(userID, quizID int64) error {
	return s.transition(userID, PhaseAwaitingTitle, func(c *conversation) {
		c.quizID = quizID
		c.phase = PhaseMenuChoice
	})
}

// BeginSingle enters the single-question sub-flow from the menu.
func (s *Store) BeginSingle(userID int64) error {
	return s.transition(userID, PhaseMenuChoice, func(c *conversation) {
		c.phase = PhaseAwaitingQuestionText
	})
}

// BeginBulk enters the bulk-entry step from the menu.
func (s *Store) BeginBulk(userID int64) error {
	return s.transition(userID, PhaseMenuChoice, func(c *conversation) {
		c.phase = PhaseAwaitingBulk
	})
}

// QuestionText stores the question text and advances to options entry.
func (s *Store) QuestionText(userID int64, text string) error {
	return s.transition(userID, PhaseAwaitingQuestionText, func(c *conversation) {
		c.pendingQuestion = text
		c.phase = PhaseAwaitingOptions
	})
}

// Options stores the parsed options and advances to correct-index entry.
func (s *Store) Options(userID int64, opts [quiz.OptionCount]string) error {
	return s.transition(userID, PhaseAwaitingOptions, func(c *conversation) {
		c.pendingOptions = opts
		c.phase = PhaseAwaitingCorrectIndex
	})
}

// Pending returns the scratch question assembled so far. Valid only in
// PhaseAwaitingCorrectIndex.
func (s *Store) Pending(userID int64) (text string, opts [quiz.OptionCount]string, quizID int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.convs[userID]
	if !ok {
		return "", opts, 0, quiz.ErrNoConversation
	}
	if c.phase != PhaseAwaitingCorrectIndex {
		return "", opts, 0, quiz.E(quiz.KindState, "conversation is in phase %s, expected %s", c.phase, PhaseAwaitingCorrectIndex)
	}
	return c.pendingQuestion, c.pendingOptions, c.quizID, nil
}

// QuestionSaved clears the scratch fields and returns to the menu.
func (s *Store) QuestionSaved(userID int64) error {
	return s.transition(userID, PhaseAwaitingCorrectIndex, func(c *conversation) {
		c.pendingQuestion = ""
		c.pendingOptions = [quiz.OptionCount]string{}
		c.phase = PhaseMenuChoice
	})
}

// BulkSaved returns to the menu after a bulk submission was persisted.
func (s *Store) BulkSaved(userID int64) error {
	return s.transition(userID, PhaseAwaitingBulk, func(c *conversation) {
		c.phase = PhaseMenuChoice
	})
}
