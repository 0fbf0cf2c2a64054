package authoring

import (
	"context"
	"log/slog"

	"github.com/m3rciful/quizbot/core/logger"
	"github.com/m3rciful/quizbot/internal/quiz"
)

// Persister is the persistence boundary the authoring flow writes through.
// Calls may fail; a failure leaves the conversation phase untouched so the
// admin can retry the same step.
type Persister interface {
	CreateQuiz(ctx context.Context, title string, ownerID int64) (int64, error)
	AddQuestion(ctx context.Context, quizID int64, q quiz.NewQuestion) error
	AddQuestions(ctx context.Context, quizID int64, qs []quiz.NewQuestion) error
}

// Event tells the caller what a text submission achieved, so the transport
// layer can render the matching reply and menu.
type Event int

const (
	// EventIgnored means the text required no action (no conversation, or a
	// phase that takes no free text).
	EventIgnored Event = iota
	// EventQuizCreated means the title was accepted and the quiz persisted.
	EventQuizCreated
	// EventPromptOptions asks the admin for the options line.
	EventPromptOptions
	// EventPromptCorrectIndex asks the admin for the correct index digit.
	EventPromptCorrectIndex
	// EventQuestionAdded means the single question was persisted.
	EventQuestionAdded
	// EventBulkAdded means the whole bulk block was persisted.
	EventBulkAdded
)

// Outcome is the result of feeding one text message into the flow.
type Outcome struct {
	Event Event
	// Added is the number of questions persisted for EventBulkAdded.
	Added int
}

// Flow feeds admin text into the conversation state machine, performing
// persistence side effects between validation and the phase transition.
// External calls never run while the store mutex is held, and a failed call
// rolls back to the pre-attempt phase by never leaving it.
type Flow struct {
	store     *Store
	persister Persister
}

// NewFlow wires the conversation store to the persistence boundary.
func NewFlow(store *Store, persister Persister) *Flow {
	return &Flow{store: store, persister: persister}
}

// Store exposes the underlying conversation store for button transitions.
func (f *Flow) Store() *Store { return f.store }

// InProgress reports whether the admin has an authoring conversation open.
func (f *Flow) InProgress(userID int64) bool {
	return f.store.Active(userID)
}

// HandleText advances the conversation with one free-text message.
func (f *Flow) HandleText(ctx context.Context, userID int64, text string) (Outcome, error) {
	phase, ok := f.store.Phase(userID)
	if !ok {
		return Outcome{Event: EventIgnored}, nil
	}

	switch phase {
	case PhaseAwaitingTitle:
		return f.acceptTitle(ctx, userID, text)
	case PhaseAwaitingQuestionText:
		if err := f.store.QuestionText(userID, text); err != nil {
			return Outcome{}, err
		}
		return Outcome{Event: EventPromptOptions}, nil
	case PhaseAwaitingOptions:
		opts, err := ParseOptions(text)
		if err != nil {
			return Outcome{}, err
		}
		if err := f.store.Options(userID, opts); err != nil {
			return Outcome{}, err
		}
		return Outcome{Event: EventPromptCorrectIndex}, nil
	case PhaseAwaitingCorrectIndex:
		return f.acceptCorrectIndex(ctx, userID, text)
	case PhaseAwaitingBulk:
		return f.acceptBulk(ctx, userID, text)
	}

	// MenuChoice takes button presses only; stray text is dropped.
	return Outcome{Event: EventIgnored}, nil
}

func (f *Flow) acceptTitle(ctx context.Context, userID int64, title string) (Outcome, error) {
	quizID, err := f.persister.CreateQuiz(ctx, title, userID)
	if err != nil {
		logger.Error(ctx, "service.authoring", "quiz.create",
			slog.String("status", "fail"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return Outcome{}, quiz.Wrap(quiz.KindBoundary, err, "create quiz")
	}
	if err := f.store.QuizCreated(userID, quizID); err != nil {
		// Conversation vanished between the call and the transition
		// (finish or eviction raced the persistence call).
		return Outcome{}, err
	}
	logger.Info(ctx, "service.authoring", "quiz.create",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.Int64("quiz_id", quizID),
	)
	return Outcome{Event: EventQuizCreated}, nil
}

func (f *Flow) acceptCorrectIndex(ctx context.Context, userID int64, text string) (Outcome, error) {
	idx, err := ParseCorrectIndex(text)
	if err != nil {
		return Outcome{}, err
	}
	qText, opts, quizID, err := f.store.Pending(userID)
	if err != nil {
		return Outcome{}, err
	}

	nq := quiz.NewQuestion{Text: qText, Options: opts, CorrectIndex: idx}
	if err := f.persister.AddQuestion(ctx, quizID, nq); err != nil {
		logger.Error(ctx, "service.authoring", "question.add",
			slog.String("status", "fail"),
			slog.Int64("quiz_id", quizID),
			slog.String("err", err.Error()),
		)
		return Outcome{}, quiz.Wrap(quiz.KindBoundary, err, "add question")
	}
	if err := f.store.QuestionSaved(userID); err != nil {
		return Outcome{}, err
	}
	logger.Info(ctx, "service.authoring", "question.add",
		slog.String("status", "ok"),
		slog.Int64("quiz_id", quizID),
	)
	return Outcome{Event: EventQuestionAdded}, nil
}

func (f *Flow) acceptBulk(ctx context.Context, userID int64, block string) (Outcome, error) {
	questions, err := ParseBulk(block)
	if err != nil {
		return Outcome{}, err
	}
	quizID, err := f.store.QuizID(userID)
	if err != nil {
		return Outcome{}, err
	}

	if err := f.persister.AddQuestions(ctx, quizID, questions); err != nil {
		logger.Error(ctx, "service.authoring", "question.add_bulk",
			slog.String("status", "fail"),
			slog.Int64("quiz_id", quizID),
			slog.Int("count", len(questions)),
			slog.String("err", err.Error()),
		)
		return Outcome{}, quiz.Wrap(quiz.KindBoundary, err, "add questions")
	}
	if err := f.store.BulkSaved(userID); err != nil {
		return Outcome{}, err
	}
	logger.Info(ctx, "service.authoring", "question.add_bulk",
		slog.String("status", "ok"),
		slog.Int64("quiz_id", quizID),
		slog.Int("count", len(questions)),
	)
	return Outcome{Event: EventBulkAdded, Added: len(questions)}, nil
}
