package authoring

import (
	"strconv"
	"strings"

	"github.com/m3rciful/quizbot/internal/quiz"
)

// ParseOptions splits an options line into exactly four comma-separated
// option strings. Surrounding whitespace is trimmed per option.
func ParseOptions(text string) ([quiz.OptionCount]string, error) {
	var opts [quiz.OptionCount]string
	parts := strings.Split(text, ",")
	if len(parts) != quiz.OptionCount {
		return opts, quiz.E(quiz.KindValidation, "expected %d comma-separated options, got %d", quiz.OptionCount, len(parts))
	}
	for i, p := range parts {
		opts[i] = strings.TrimSpace(p)
	}
	return opts, nil
}

// ParseCorrectIndex parses the correct-answer index and checks its range.
func ParseCorrectIndex(text string) (int, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, quiz.E(quiz.KindValidation, "correct index must be a number")
	}
	if idx < 0 || idx >= quiz.OptionCount {
		return 0, quiz.E(quiz.KindValidation, "correct index must be between 0 and %d", quiz.OptionCount-1)
	}
	return idx, nil
}

// ParseBulkLine parses one bulk line of the form
// "question|optA,optB,optC,optD|correctIndex".
func ParseBulkLine(line string) (quiz.NewQuestion, error) {
	parts := strings.Split(line, "|")
	if len(parts) != 3 {
		return quiz.NewQuestion{}, quiz.E(quiz.KindValidation, "expected question|options|index, got %d segments", len(parts))
	}
	text := strings.TrimSpace(parts[0])
	if text == "" {
		return quiz.NewQuestion{}, quiz.E(quiz.KindValidation, "question text is empty")
	}
	opts, err := ParseOptions(parts[1])
	if err != nil {
		return quiz.NewQuestion{}, err
	}
	idx, err := ParseCorrectIndex(parts[2])
	if err != nil {
		return quiz.NewQuestion{}, err
	}
	return quiz.NewQuestion{Text: text, Options: opts, CorrectIndex: idx}, nil
}

// ParseBulk parses a block of bulk lines, skipping empty lines. The whole
// block is validated before anything is returned: a single malformed line
// rejects the submission so no partial set of questions is ever persisted.
func ParseBulk(block string) ([]quiz.NewQuestion, error) {
	var questions []quiz.NewQuestion
	for i, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		q, err := ParseBulkLine(line)
		if err != nil {
			return nil, quiz.Wrap(quiz.KindValidation, err, "line "+strconv.Itoa(i+1))
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, quiz.E(quiz.KindValidation, "no question lines found")
	}
	return questions, nil
}
