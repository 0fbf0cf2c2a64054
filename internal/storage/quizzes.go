// Package storage implements the Postgres persistence boundary for quizzes,
// questions, and admin identities.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/quizbot/core/logger"
	"github.com/m3rciful/quizbot/internal/quiz"
)

// QuizRepo persists quiz and question records.
type QuizRepo struct {
	db *sqlx.DB
}

// NewQuizRepo wraps the database handle.
func NewQuizRepo(db *sqlx.DB) *QuizRepo {
	return &QuizRepo{db: db}
}

// CreateQuiz inserts a new active quiz owned by ownerID and returns its id.
func (r *QuizRepo) CreateQuiz(ctx context.Context, title string, ownerID int64) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO quizzes (title, created_by, active) VALUES ($1, $2, TRUE) RETURNING id`,
		title, ownerID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create quiz: %w", err)
	}
	logger.SVCQuizzes.Debug("quiz created",
		slog.String("event", "quiz.create"),
		slog.Int64("quiz_id", id),
		slog.Int64("owner_id", ownerID),
	)
	return id, nil
}

// DeleteQuiz removes the quiz and its questions in one transaction.
func (r *QuizRepo) DeleteQuiz(ctx context.Context, quizID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete quiz: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE quiz_id = $1`, quizID); err != nil {
		return fmt.Errorf("delete quiz questions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM quizzes WHERE id = $1`, quizID); err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete quiz: commit: %w", err)
	}
	logger.SVCQuizzes.Debug("quiz deleted",
		slog.String("event", "quiz.delete"),
		slog.Int64("quiz_id", quizID),
	)
	return nil
}

// ListPage returns one page of quizzes ordered by id plus the total count.
func (r *QuizRepo) ListPage(ctx context.Context, pageIndex, pageSize int) ([]quiz.Quiz, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM quizzes`); err != nil {
		return nil, 0, fmt.Errorf("count quizzes: %w", err)
	}

	var items []quiz.Quiz
	err := r.db.SelectContext(ctx, &items,
		`SELECT id, title, created_by, active, created_at
		   FROM quizzes ORDER BY id ASC LIMIT $1 OFFSET $2`,
		pageSize, pageIndex*pageSize,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list quizzes: %w", err)
	}
	return items, total, nil
}

// Questions returns the quiz's questions in authoring order.
func (r *QuizRepo) Questions(ctx context.Context, quizID int64) ([]quiz.Question, error) {
	var items []quiz.Question
	err := r.db.SelectContext(ctx, &items,
		`SELECT id, quiz_id, question, option1, option2, option3, option4, correct_index
		   FROM questions WHERE quiz_id = $1 ORDER BY id ASC`,
		quizID,
	)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return items, nil
}

const insertQuestion = `
INSERT INTO questions (quiz_id, question, option1, option2, option3, option4, correct_index)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

// AddQuestion inserts a single question.
func (r *QuizRepo) AddQuestion(ctx context.Context, quizID int64, q quiz.NewQuestion) error {
	_, err := r.db.ExecContext(ctx, insertQuestion,
		quizID, q.Text, q.Options[0], q.Options[1], q.Options[2], q.Options[3], q.CorrectIndex,
	)
	if err != nil {
		return fmt.Errorf("add question: %w", err)
	}
	return nil
}

// AddQuestions inserts a validated batch in one transaction so a failure
// persists nothing.
func (r *QuizRepo) AddQuestions(ctx context.Context, quizID int64, qs []quiz.NewQuestion) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("add questions: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range qs {
		if _, err := tx.ExecContext(ctx, insertQuestion,
			quizID, q.Text, q.Options[0], q.Options[1], q.Options[2], q.Options[3], q.CorrectIndex,
		); err != nil {
			return fmt.Errorf("add questions: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("add questions: commit: %w", err)
	}
	logger.SVCQuizzes.Debug("questions added",
		slog.String("event", "question.add_bulk"),
		slog.Int64("quiz_id", quizID),
		slog.Int("count", len(qs)),
	)
	return nil
}
