package bot

import (
	"fmt"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/quizbot/core/logger"
	"github.com/m3rciful/quizbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/quizbot/core/telegram/helpers"
	"github.com/m3rciful/quizbot/internal/quiz"
)

// cmdStart greets the user with a menu matching their privileges. Admin
// status is looked up fresh so a freshly-granted admin sees the authoring
// button immediately.
func (a *App) cmdStart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	isAdmin, err := a.admins.IsAdmin(ctx, c.Sender().ID)
	if err != nil {
		logger.Warn(ctx, "service.admins", "admin.lookup",
			slog.String("err", err.Error()),
		)
		isAdmin = false
	}
	return tghelpers.SendMD(c, msgStart, mainMenuMarkup(isAdmin))
}

// cbTakeQuiz opens the quiz listing at the first page.
func (a *App) cbTakeQuiz(c tele.Context) error {
	return a.renderQuizList(c, 0, false)
}

// cbPage navigates the listing to the requested page, editing in place.
func (a *App) cbPage(c tele.Context) error {
	index, err := callbacks.PayloadInt(c)
	if err != nil || index < 0 {
		return nil
	}
	return a.renderQuizList(c, index, true)
}

// cbQuizSelect snapshots the quiz's questions into a fresh session and
// delivers the first question. Selecting a quiz mid-attempt discards the
// previous attempt.
func (a *App) cbQuizSelect(c tele.Context) error {
	quizID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return nil
	}
	userID := c.Sender().ID
	ctx := tghelpers.BuildContext(c)

	questions, err := a.quizzes.Questions(ctx, quizID)
	if err != nil {
		logger.Error(ctx, "service.sessions", "session.start",
			slog.String("status", "fail"),
			slog.Int64("quiz_id", quizID),
			slog.String("err", err.Error()),
		)
		return tghelpers.SendText(c, msgGenericFail)
	}
	if err := a.sessions.Start(userID, questions); err != nil {
		return tghelpers.SendText(c, msgEmptyQuiz)
	}
	logger.Info(ctx, "service.sessions", "session.start",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.Int64("quiz_id", quizID),
		slog.Int("questions", len(questions)),
	)
	return a.sendNextQuestion(c, userID)
}

// cbAnswer evaluates one answer submission. A second press arriving while
// the first is still in flight is dropped, never double-counted.
func (a *App) cbAnswer(c tele.Context) error {
	userID := c.Sender().ID
	if !a.guard.TryAcquire(userID) {
		return nil
	}
	defer a.guard.Release(userID)

	index, err := callbacks.PayloadInt(c)
	if err != nil || index < 0 || index >= quiz.OptionCount {
		return nil
	}

	correct, err := a.sessions.Check(userID, index)
	if err != nil {
		// Session evicted or answer arrived out of order.
		return tghelpers.SendText(c, msgNoSession(err))
	}

	if q, ok := a.sessions.Current(userID); ok {
		if editErr := tghelpers.EditMD(c, answerFeedback(correct, q)); editErr != nil {
			ctx := tghelpers.BuildContext(c)
			logger.Warn(ctx, "service.sessions", "answer.feedback",
				slog.String("err", editErr.Error()),
			)
		}
	}

	return a.sendNextQuestion(c, userID)
}

// sendNextQuestion delivers the question under the cursor, or the final
// score when the quiz is exhausted, clearing the session.
func (a *App) sendNextQuestion(c tele.Context, userID int64) error {
	q, ok := a.sessions.Next(userID)
	if !ok {
		score := a.sessions.Score(userID)
		_, total, has := a.sessions.Progress(userID)
		a.sessions.Clear(userID)
		if !has {
			return nil
		}
		ctx := tghelpers.BuildContext(c)
		logger.Info(ctx, "service.sessions", "session.finish",
			slog.Int64("user_id", userID),
			slog.Int("score", score),
			slog.Int("total", total),
		)
		return tghelpers.SendText(c, scoreText(score, total))
	}
	delivered, total, _ := a.sessions.Progress(userID)
	return tghelpers.SendMD(c, questionText(q, delivered, total), questionMarkup(q))
}

// cbDeleteQuiz removes the quiz and re-renders the listing on the page the
// admin was viewing. Access is gated at registration.
func (a *App) cbDeleteQuiz(c tele.Context) error {
	quizID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	if err := a.quizzes.DeleteQuiz(ctx, quizID); err != nil {
		return tghelpers.SendText(c, msgGenericFail)
	}
	return a.renderQuizList(c, a.pages.Get(c.Sender().ID), true)
}

// renderQuizList renders one page of the listing. An empty first page gets
// a plain "no quizzes" message; an empty later page still renders so the
// previous-page button remains reachable.
func (a *App) renderQuizList(c tele.Context, index int, edit bool) error {
	userID := c.Sender().ID
	ctx := tghelpers.BuildContext(c)

	items, total, err := a.quizzes.ListPage(ctx, index, a.cfg.Quiz.PageSize)
	if err != nil {
		logger.Error(ctx, "service.quizzes", "quiz.list",
			slog.String("status", "fail"),
			slog.Int("page", index),
			slog.String("err", err.Error()),
		)
		return tghelpers.SendText(c, msgGenericFail)
	}

	a.pages.Set(userID, index)

	if len(items) == 0 && index == 0 {
		if edit {
			return tghelpers.EditMD(c, msgNoQuizzes)
		}
		return tghelpers.SendText(c, msgNoQuizzes)
	}

	isAdmin, err := a.admins.IsAdmin(ctx, userID)
	if err != nil {
		isAdmin = false
	}

	nav := quiz.Paginate(index, a.cfg.Quiz.PageSize, total)
	text := fmt.Sprintf("Available quizzes (page %d):", index+1)
	markup := quizListMarkup(items, nav, isAdmin)
	if edit {
		return tghelpers.EditOrSendMD(c, text, markup)
	}
	return tghelpers.SendMD(c, text, markup)
}

func msgNoSession(err error) string {
	if quiz.IsKind(err, quiz.KindState) {
		return "No quiz in progress. Press Take Quiz to start one."
	}
	return msgGenericFail
}
