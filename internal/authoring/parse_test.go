package authoring

import (
	"testing"

	"github.com/m3rciful/quizbot/internal/quiz"
)

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions("Paris, London ,Berlin,Rome")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := [quiz.OptionCount]string{"Paris", "London", "Berlin", "Rome"}
	if opts != want {
		t.Fatalf("opts = %v, want %v", opts, want)
	}
}

func TestParseOptionsWrongCount(t *testing.T) {
	for _, text := range []string{"A,B,C", "A,B,C,D,E", ""} {
		if _, err := ParseOptions(text); !quiz.IsKind(err, quiz.KindValidation) {
			t.Fatalf("ParseOptions(%q): expected validation error, got %v", text, err)
		}
	}
}

func TestParseCorrectIndex(t *testing.T) {
	for text, want := range map[string]int{"0": 0, " 3 ": 3, "2": 2} {
		got, err := ParseCorrectIndex(text)
		if err != nil {
			t.Fatalf("ParseCorrectIndex(%q): %v", text, err)
		}
		if got != want {
			t.Fatalf("ParseCorrectIndex(%q) = %d, want %d", text, got, want)
		}
	}
	for _, text := range []string{"four", "-1", "4", ""} {
		if _, err := ParseCorrectIndex(text); !quiz.IsKind(err, quiz.KindValidation) {
			t.Fatalf("ParseCorrectIndex(%q): expected validation error, got %v", text, err)
		}
	}
}

func TestParseBulkValidBlock(t *testing.T) {
	qs, err := ParseBulk("Q1?|A,B,C,D|0\nQ2?|E,F,G,H|1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("parsed %d questions, want 2", len(qs))
	}
	if qs[0].CorrectIndex != 0 || qs[1].CorrectIndex != 1 {
		t.Fatalf("correct indices = %d,%d, want 0,1", qs[0].CorrectIndex, qs[1].CorrectIndex)
	}
	if qs[0].Text != "Q1?" || qs[1].Text != "Q2?" {
		t.Fatalf("texts = %q,%q", qs[0].Text, qs[1].Text)
	}
}

func TestParseBulkSkipsEmptyLines(t *testing.T) {
	qs, err := ParseBulk("\nQ1?|A,B,C,D|0\n\n   \nQ2?|E,F,G,H|3\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("parsed %d questions, want 2", len(qs))
	}
}

func TestParseBulkRejectsWholeBlockOnBadLine(t *testing.T) {
	qs, err := ParseBulk("Q1?|A,B,C,D|0\nBADLINE")
	if !quiz.IsKind(err, quiz.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if qs != nil {
		t.Fatalf("expected no questions on malformed block, got %d", len(qs))
	}
}

func TestParseBulkRejectsEmptyBlock(t *testing.T) {
	if _, err := ParseBulk("\n \n"); !quiz.IsKind(err, quiz.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
