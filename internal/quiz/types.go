// Package quiz holds the domain model shared by the session engine,
// the authoring flow, and the storage layer.
package quiz

import "time"

// OptionCount is the fixed number of answer options per question.
const OptionCount = 4

// Quiz is a stored quiz definition.
type Quiz struct {
	ID        int64     `db:"id"`
	Title     string    `db:"title"`
	CreatedBy int64     `db:"created_by"`
	Active    bool      `db:"active"`
	CreatedAt time.Time `db:"created_at"`
}

// Question is a stored question belonging to a quiz. Options are kept in
// presentation order; CorrectIndex points into them.
type Question struct {
	ID           int64  `db:"id"`
	QuizID       int64  `db:"quiz_id"`
	Text         string `db:"question"`
	Option1      string `db:"option1"`
	Option2      string `db:"option2"`
	Option3      string `db:"option3"`
	Option4      string `db:"option4"`
	CorrectIndex int    `db:"correct_index"`
}

// Options returns the answer options in order.
func (q Question) Options() [OptionCount]string {
	return [OptionCount]string{q.Option1, q.Option2, q.Option3, q.Option4}
}

// NewQuestion is a validated, not-yet-persisted question.
type NewQuestion struct {
	Text         string
	Options      [OptionCount]string
	CorrectIndex int
}
