package session

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/m3rciful/quizbot/internal/quiz"
)

func makeQuestions(n int) []quiz.Question {
	qs := make([]quiz.Question, n)
	for i := range qs {
		qs[i] = quiz.Question{
			ID:           int64(i + 1),
			QuizID:       1,
			Text:         "q" + strconv.Itoa(i),
			Option1:      "a",
			Option2:      "b",
			Option3:      "c",
			Option4:      "d",
			CorrectIndex: i % quiz.OptionCount,
		}
	}
	return qs
}

func TestStartRejectsEmptyQuiz(t *testing.T) {
	s := NewStore()
	if err := s.Start(1, nil); err == nil {
		t.Fatal("expected error for empty question set")
	} else if !quiz.IsKind(err, quiz.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNextDeliversQuestionsInOrder(t *testing.T) {
	s := NewStore()
	qs := makeQuestions(3)
	if err := s.Start(1, qs); err != nil {
		t.Fatalf("start: %v", err)
	}

	for i := range qs {
		q, ok := s.Next(1)
		if !ok {
			t.Fatalf("question %d: expected delivery", i)
		}
		if q.ID != qs[i].ID {
			t.Fatalf("question %d: got id %d, want %d", i, q.ID, qs[i].ID)
		}
	}
	if _, ok := s.Next(1); ok {
		t.Fatal("expected exhausted quiz to deliver nothing")
	}
}

func TestCheckBeforeDeliveryFails(t *testing.T) {
	s := NewStore()
	if err := s.Start(1, makeQuestions(2)); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := s.Check(1, 0); !quiz.IsKind(err, quiz.KindState) {
		t.Fatalf("expected state error, got %v", err)
	}
}

func TestCheckWithoutSessionFails(t *testing.T) {
	s := NewStore()
	if _, err := s.Check(42, 0); !quiz.IsKind(err, quiz.KindState) {
		t.Fatalf("expected state error, got %v", err)
	}
}

func TestScoreCountsCorrectAnswers(t *testing.T) {
	s := NewStore()
	qs := makeQuestions(4)
	if err := s.Start(1, qs); err != nil {
		t.Fatalf("start: %v", err)
	}

	answers := []int{0, 0, 2, 0} // correct indices are 0,1,2,3
	want := 2                    // questions 0 and 2 answered correctly
	for i, ans := range answers {
		if _, ok := s.Next(1); !ok {
			t.Fatalf("question %d: expected delivery", i)
		}
		if _, err := s.Check(1, ans); err != nil {
			t.Fatalf("check %d: %v", i, err)
		}
	}
	if got := s.Score(1); got != want {
		t.Fatalf("score = %d, want %d", got, want)
	}
	if !s.Finished(1) {
		t.Fatal("expected quiz to be finished")
	}
}

func TestStartOverwritesExistingSession(t *testing.T) {
	s := NewStore()
	if err := s.Start(1, makeQuestions(3)); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Next(1)
	s.Next(1)
	if _, err := s.Check(1, 1); err != nil {
		t.Fatalf("check: %v", err)
	}

	if err := s.Start(1, makeQuestions(2)); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if got := s.Score(1); got != 0 {
		t.Fatalf("score after restart = %d, want 0", got)
	}
	delivered, total, ok := s.Progress(1)
	if !ok || delivered != 0 || total != 2 {
		t.Fatalf("progress after restart = (%d,%d,%v), want (0,2,true)", delivered, total, ok)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	s := NewStore()
	if err := s.Start(1, makeQuestions(1)); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Clear(1)
	s.Clear(1)
	if s.Len() != 0 {
		t.Fatalf("len = %d, want 0", s.Len())
	}
}

func TestCurrentTracksDeliveredQuestion(t *testing.T) {
	s := NewStore()
	qs := makeQuestions(2)
	if err := s.Start(1, qs); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, ok := s.Current(1); ok {
		t.Fatal("expected no current question before delivery")
	}
	s.Next(1)
	q, ok := s.Current(1)
	if !ok || q.ID != qs[0].ID {
		t.Fatalf("current = (%d,%v), want (%d,true)", q.ID, ok, qs[0].ID)
	}
}

func TestEvictIdleRemovesStaleSessions(t *testing.T) {
	clock := time.Now()
	s := NewStoreWithClock(func() time.Time { return clock })

	if err := s.Start(1, makeQuestions(2)); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Start(2, makeQuestions(2)); err != nil {
		t.Fatalf("start: %v", err)
	}

	clock = clock.Add(11 * time.Minute)
	s.Next(2) // touch user 2 at the advanced clock

	evicted := s.EvictIdle(clock.Add(-10 * time.Minute))
	if len(evicted) != 1 || evicted[0] != 1 {
		t.Fatalf("evicted = %v, want [1]", evicted)
	}
	if s.Len() != 1 {
		t.Fatalf("len = %d, want 1", s.Len())
	}
	if _, _, ok := s.Progress(2); !ok {
		t.Fatal("touched session should survive eviction")
	}
}

func TestTouchedSessionSurvivesRepeatedSweeps(t *testing.T) {
	clock := time.Now()
	s := NewStoreWithClock(func() time.Time { return clock })
	r := NewReaper(ReaperOptions{
		Interval: 2 * time.Minute,
		Timeout:  10 * time.Minute,
		Now:      func() time.Time { return clock },
	}, s)

	if err := s.Start(1, makeQuestions(10)); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 0; i < 5; i++ {
		clock = clock.Add(5 * time.Minute)
		s.Next(1)
		if n := r.Sweep(context.Background()); n != 0 {
			t.Fatalf("sweep %d evicted %d sessions", i, n)
		}
	}
	clock = clock.Add(11 * time.Minute)
	if n := r.Sweep(context.Background()); n != 1 {
		t.Fatalf("final sweep evicted %d sessions, want 1", n)
	}
}

func TestConcurrentNextNeverRepeatsQuestions(t *testing.T) {
	s := NewStore()
	const total = 100
	if err := s.Start(1, makeQuestions(total)); err != nil {
		t.Fatalf("start: %v", err)
	}

	var mu sync.Mutex
	seen := make(map[int64]int)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				q, ok := s.Next(1)
				if !ok {
					return
				}
				mu.Lock()
				seen[q.ID]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != total {
		t.Fatalf("delivered %d distinct questions, want %d", len(seen), total)
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("question %d delivered %d times", id, n)
		}
	}
}
