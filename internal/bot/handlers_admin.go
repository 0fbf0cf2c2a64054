package bot

import (
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/quizbot/core/telegram/helpers"
	"github.com/m3rciful/quizbot/internal/authoring"
	"github.com/m3rciful/quizbot/internal/quiz"
)

// cbCreateQuiz opens a fresh authoring conversation. An abandoned previous
// conversation for the same admin is replaced.
func (a *App) cbCreateQuiz(c tele.Context) error {
	a.flow.Store().Begin(c.Sender().ID)
	return tghelpers.SendText(c, msgPromptTitle)
}

// cbAddOne enters the three-step single-question sub-flow.
func (a *App) cbAddOne(c tele.Context) error {
	if err := a.flow.Store().BeginSingle(c.Sender().ID); err != nil {
		return tghelpers.SendText(c, authoringErrorMessage(err))
	}
	return tghelpers.SendText(c, msgPromptQText)
}

// cbAddBulk enters the bulk-entry step.
func (a *App) cbAddBulk(c tele.Context) error {
	if err := a.flow.Store().BeginBulk(c.Sender().ID); err != nil {
		return tghelpers.SendText(c, authoringErrorMessage(err))
	}
	return tghelpers.SendText(c, msgPromptBulk)
}

// cbFinish closes the conversation. Pressing it twice is harmless.
func (a *App) cbFinish(c tele.Context) error {
	a.flow.Store().Finish(c.Sender().ID)
	return tghelpers.SendText(c, msgAuthorDone)
}

// handleAuthoringText feeds one free-text message into the conversation and
// renders the prompt matching what the flow achieved.
func (a *App) handleAuthoringText(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	out, err := a.flow.HandleText(ctx, c.Sender().ID, strings.TrimSpace(c.Text()))
	if err != nil {
		return tghelpers.SendText(c, authoringErrorMessage(err))
	}

	switch out.Event {
	case authoring.EventQuizCreated:
		return tghelpers.SendMD(c, "Quiz created! "+msgAuthorMenu, authorMenuMarkup())
	case authoring.EventPromptOptions:
		return tghelpers.SendText(c, msgPromptOptions)
	case authoring.EventPromptCorrectIndex:
		return tghelpers.SendText(c, msgPromptIndex)
	case authoring.EventQuestionAdded:
		return tghelpers.SendMD(c, msgQuestionSaved+" "+msgAuthorMenu, authorMenuMarkup())
	case authoring.EventBulkAdded:
		return tghelpers.SendMD(c,
			fmt.Sprintf("Added %d questions. %s", out.Added, msgAuthorMenu),
			authorMenuMarkup())
	}
	return nil
}

// authoringErrorMessage maps a flow error onto a user-facing reply. Every
// kind is recoverable; the phase was left unchanged so the admin can retry.
func authoringErrorMessage(err error) string {
	switch quiz.KindOf(err) {
	case quiz.KindValidation:
		return "⚠️ " + err.Error() + ". Please try again."
	case quiz.KindState:
		return msgNoConvo
	default:
		return msgGenericFail
	}
}

// cmdAddAdmin grants admin rights to the given chat id. Root-only.
func (a *App) cmdAddAdmin(c tele.Context) error {
	chatID, ok := parseAdminArg(c.Text())
	if !ok {
		return tghelpers.SendText(c, msgUsageAdd)
	}
	ctx := tghelpers.BuildContext(c)
	if err := a.admins.Add(ctx, chatID); err != nil {
		return tghelpers.SendText(c, msgGenericFail)
	}
	return tghelpers.SendText(c, fmt.Sprintf("Admin %d added.", chatID))
}

// cmdRemoveAdmin revokes admin rights from the given chat id. Root-only.
func (a *App) cmdRemoveAdmin(c tele.Context) error {
	chatID, ok := parseAdminArg(c.Text())
	if !ok {
		return tghelpers.SendText(c, msgUsageRemove)
	}
	ctx := tghelpers.BuildContext(c)
	if err := a.admins.Remove(ctx, chatID); err != nil {
		return tghelpers.SendText(c, msgGenericFail)
	}
	return tghelpers.SendText(c, fmt.Sprintf("Admin %d removed.", chatID))
}

// cmdListAdmins lists granted admins. Root admins come from configuration
// and are not listed here.
func (a *App) cmdListAdmins(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	ids, err := a.admins.List(ctx)
	if err != nil {
		return tghelpers.SendText(c, msgGenericFail)
	}
	if len(ids) == 0 {
		return tghelpers.SendText(c, "No granted admins.")
	}
	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		lines = append(lines, strconv.FormatInt(id, 10))
	}
	return tghelpers.SendText(c, "Admins:\n"+strings.Join(lines, "\n"))
}

// parseAdminArg extracts the single chat-id argument of an admin command.
func parseAdminArg(text string) (int64, bool) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return 0, false
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
