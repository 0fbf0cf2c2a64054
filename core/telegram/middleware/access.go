package middleware

import (
	"context"

	tghelpers "github.com/m3rciful/quizbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// AdminChecker answers admin identity questions. Checks are performed
// fresh on every event, so promotions and demotions apply immediately.
type AdminChecker interface {
	IsAdmin(ctx context.Context, chatID int64) (bool, error)
	IsRootAdmin(chatID int64) bool
}

// AccessOptions defines how access checks should behave.
type AccessOptions struct {
	Checker  AdminChecker
	OnReject tele.HandlerFunc
}

// WithAdminCheck wraps a handler enforcing admin-only execution.
func WithAdminCheck(opts AccessOptions, handler tele.HandlerFunc) tele.HandlerFunc {
	if opts.Checker == nil {
		return handler
	}
	return func(c tele.Context) error {
		sender := c.Sender()
		if sender == nil {
			return reject(opts, c)
		}
		ok, err := opts.Checker.IsAdmin(tghelpers.BuildContext(c), sender.ID)
		if err != nil {
			return err
		}
		if !ok {
			return reject(opts, c)
		}
		return handler(c)
	}
}

// WithRootAdminCheck wraps a handler enforcing root-admin-only execution.
func WithRootAdminCheck(opts AccessOptions, handler tele.HandlerFunc) tele.HandlerFunc {
	if opts.Checker == nil {
		return handler
	}
	return func(c tele.Context) error {
		sender := c.Sender()
		if sender == nil || !opts.Checker.IsRootAdmin(sender.ID) {
			return reject(opts, c)
		}
		return handler(c)
	}
}

func reject(opts AccessOptions, c tele.Context) error {
	if opts.OnReject != nil {
		return opts.OnReject(c)
	}
	return nil
}
