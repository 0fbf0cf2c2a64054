package authoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m3rciful/quizbot/internal/quiz"
)

// fakePersister records writes and can be told to fail.
type fakePersister struct {
	nextQuizID int64
	fail       error

	created   []string
	questions map[int64][]quiz.NewQuestion
}

func newFakePersister() *fakePersister {
	return &fakePersister{nextQuizID: 100, questions: make(map[int64][]quiz.NewQuestion)}
}

func (p *fakePersister) CreateQuiz(_ context.Context, title string, _ int64) (int64, error) {
	if p.fail != nil {
		return 0, p.fail
	}
	p.created = append(p.created, title)
	p.nextQuizID++
	return p.nextQuizID, nil
}

func (p *fakePersister) AddQuestion(_ context.Context, quizID int64, q quiz.NewQuestion) error {
	if p.fail != nil {
		return p.fail
	}
	p.questions[quizID] = append(p.questions[quizID], q)
	return nil
}

func (p *fakePersister) AddQuestions(_ context.Context, quizID int64, qs []quiz.NewQuestion) error {
	if p.fail != nil {
		return p.fail
	}
	p.questions[quizID] = append(p.questions[quizID], qs...)
	return nil
}

func mustPhase(t *testing.T, s *Store, userID int64, want Phase) {
	t.Helper()
	got, ok := s.Phase(userID)
	if !ok {
		t.Fatalf("expected active conversation, got none")
	}
	if got != want {
		t.Fatalf("phase = %s, want %s", got, want)
	}
}

func TestSingleQuestionHappyPath(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	p := newFakePersister()
	flow := NewFlow(store, p)

	store.Begin(7)
	mustPhase(t, store, 7, PhaseAwaitingTitle)

	out, err := flow.HandleText(ctx, 7, "Capitals")
	if err != nil {
		t.Fatalf("title: %v", err)
	}
	if out.Event != EventQuizCreated {
		t.Fatalf("event = %v, want EventQuizCreated", out.Event)
	}
	mustPhase(t, store, 7, PhaseMenuChoice)

	if err := store.BeginSingle(7); err != nil {
		t.Fatalf("begin single: %v", err)
	}
	if out, err = flow.HandleText(ctx, 7, "Capital of France?"); err != nil || out.Event != EventPromptOptions {
		t.Fatalf("question text: out=%v err=%v", out, err)
	}
	if out, err = flow.HandleText(ctx, 7, "Paris,London,Berlin,Rome"); err != nil || out.Event != EventPromptCorrectIndex {
		t.Fatalf("options: out=%v err=%v", out, err)
	}
	if out, err = flow.HandleText(ctx, 7, "0"); err != nil || out.Event != EventQuestionAdded {
		t.Fatalf("index: out=%v err=%v", out, err)
	}
	mustPhase(t, store, 7, PhaseMenuChoice)

	quizID, err := store.QuizID(7)
	if err != nil {
		t.Fatalf("quiz id: %v", err)
	}
	saved := p.questions[quizID]
	if len(saved) != 1 {
		t.Fatalf("persisted %d questions, want 1", len(saved))
	}
	if saved[0].Text != "Capital of France?" || saved[0].CorrectIndex != 0 {
		t.Fatalf("unexpected question persisted: %+v", saved[0])
	}
}

func TestInvalidInputKeepsPhaseForRetry(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	flow := NewFlow(store, newFakePersister())

	store.Begin(7)
	if _, err := flow.HandleText(ctx, 7, "Capitals"); err != nil {
		t.Fatalf("title: %v", err)
	}
	if err := store.BeginSingle(7); err != nil {
		t.Fatalf("begin single: %v", err)
	}
	if _, err := flow.HandleText(ctx, 7, "Q?"); err != nil {
		t.Fatalf("question text: %v", err)
	}

	if _, err := flow.HandleText(ctx, 7, "only,three,options"); !quiz.IsKind(err, quiz.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	mustPhase(t, store, 7, PhaseAwaitingOptions)

	if _, err := flow.HandleText(ctx, 7, "A,B,C,D"); err != nil {
		t.Fatalf("options retry: %v", err)
	}
	if _, err := flow.HandleText(ctx, 7, "9"); !quiz.IsKind(err, quiz.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	mustPhase(t, store, 7, PhaseAwaitingCorrectIndex)
}

func TestBulkHappyPath(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	p := newFakePersister()
	flow := NewFlow(store, p)

	store.Begin(7)
	if _, err := flow.HandleText(ctx, 7, "Capitals"); err != nil {
		t.Fatalf("title: %v", err)
	}
	if err := store.BeginBulk(7); err != nil {
		t.Fatalf("begin bulk: %v", err)
	}

	out, err := flow.HandleText(ctx, 7, "Q1?|A,B,C,D|0\nQ2?|E,F,G,H|1")
	if err != nil {
		t.Fatalf("bulk: %v", err)
	}
	if out.Event != EventBulkAdded || out.Added != 2 {
		t.Fatalf("out = %+v, want EventBulkAdded with 2 added", out)
	}
	mustPhase(t, store, 7, PhaseMenuChoice)

	quizID, _ := store.QuizID(7)
	if got := len(p.questions[quizID]); got != 2 {
		t.Fatalf("persisted %d questions, want 2", got)
	}
}

func TestBulkBadLinePersistsNothing(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	p := newFakePersister()
	flow := NewFlow(store, p)

	store.Begin(7)
	if _, err := flow.HandleText(ctx, 7, "Capitals"); err != nil {
		t.Fatalf("title: %v", err)
	}
	if err := store.BeginBulk(7); err != nil {
		t.Fatalf("begin bulk: %v", err)
	}

	if _, err := flow.HandleText(ctx, 7, "Q1?|A,B,C,D|0\nBADLINE"); !quiz.IsKind(err, quiz.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	quizID, _ := store.QuizID(7)
	if got := len(p.questions[quizID]); got != 0 {
		t.Fatalf("persisted %d questions, want 0", got)
	}
	// Phase unchanged so the admin can resubmit the corrected block.
	mustPhase(t, store, 7, PhaseAwaitingBulk)
}

func TestPersistenceFailureRollsBackPhase(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	p := newFakePersister()
	p.fail = errors.New("connection refused")
	flow := NewFlow(store, p)

	store.Begin(7)
	if _, err := flow.HandleText(ctx, 7, "Capitals"); !quiz.IsKind(err, quiz.KindBoundary) {
		t.Fatalf("expected boundary error, got %v", err)
	}
	// Still awaiting the title: the admin retries the same step.
	mustPhase(t, store, 7, PhaseAwaitingTitle)

	p.fail = nil
	if out, err := flow.HandleText(ctx, 7, "Capitals"); err != nil || out.Event != EventQuizCreated {
		t.Fatalf("retry: out=%v err=%v", out, err)
	}
	mustPhase(t, store, 7, PhaseMenuChoice)
}

func TestTextIgnoredWithoutConversation(t *testing.T) {
	flow := NewFlow(NewStore(), newFakePersister())
	out, err := flow.HandleText(context.Background(), 7, "hello")
	if err != nil || out.Event != EventIgnored {
		t.Fatalf("out=%v err=%v, want EventIgnored", out, err)
	}
}

func TestStrayTextInMenuIsIgnored(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	flow := NewFlow(store, newFakePersister())

	store.Begin(7)
	if _, err := flow.HandleText(ctx, 7, "Capitals"); err != nil {
		t.Fatalf("title: %v", err)
	}
	out, err := flow.HandleText(ctx, 7, "random text")
	if err != nil || out.Event != EventIgnored {
		t.Fatalf("out=%v err=%v, want EventIgnored", out, err)
	}
	mustPhase(t, store, 7, PhaseMenuChoice)
}

func TestMenuTransitionsRejectWrongPhase(t *testing.T) {
	store := NewStore()
	if err := store.BeginSingle(7); !quiz.IsKind(err, quiz.KindState) {
		t.Fatalf("expected state error without conversation, got %v", err)
	}
	store.Begin(7)
	if err := store.BeginBulk(7); !quiz.IsKind(err, quiz.KindState) {
		t.Fatalf("expected state error in title phase, got %v", err)
	}
}

func TestFinishDestroysConversation(t *testing.T) {
	store := NewStore()
	store.Begin(7)
	store.Finish(7)
	store.Finish(7) // duplicate press is harmless
	if store.Active(7) {
		t.Fatal("conversation should be gone after finish")
	}
}

func TestConversationEvictionFreesAbandonedFlow(t *testing.T) {
	store := NewStore()
	store.Begin(7)

	cutoff := store.now().Add(time.Minute)
	evicted := store.EvictIdle(cutoff)
	if len(evicted) != 1 || evicted[0] != 7 {
		t.Fatalf("evicted = %v, want [7]", evicted)
	}
	if store.Active(7) {
		t.Fatal("conversation should be evicted")
	}
}
