package quiz

import (
	"errors"
	"fmt"
)

// Kind classifies domain errors so handlers can decide how to report them.
type Kind string

const (
	// KindValidation marks malformed user-supplied structured text.
	KindValidation Kind = "VALIDATION"
	// KindState marks operations that need a session or conversation which
	// does not exist or is in an inconsistent position.
	KindState Kind = "STATE"
	// KindAuthorization marks admin-gated actions attempted by non-admins.
	KindAuthorization Kind = "AUTHORIZATION"
	// KindBoundary marks persistence or delivery boundary failures.
	KindBoundary Kind = "BOUNDARY"
)

// Error is a domain error carrying a kind and an optional cause.
// All kinds are recoverable; none should crash the process.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Code exposes the kind for structured log error codes.
func (e *Error) Code() string { return string(e.Kind) }

// E builds a domain error of the given kind.
func E(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to a domain error of the given kind.
func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of err if it is a domain error, or "" otherwise.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Shared sentinels used across the session and authoring engines.
var (
	// ErrEmptyQuiz rejects starting a session with no questions.
	ErrEmptyQuiz = E(KindValidation, "quiz has no questions")
	// ErrNoSession rejects answer checks without an active session.
	ErrNoSession = E(KindState, "no active quiz session")
	// ErrInvalidState rejects answer checks before a question was delivered
	// or after the quiz ended.
	ErrInvalidState = E(KindState, "invalid question state")
	// ErrNoConversation rejects authoring input without an active conversation.
	ErrNoConversation = E(KindState, "no active authoring conversation")
)
