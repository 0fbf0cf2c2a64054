package bot

import (
	"fmt"
	"strconv"

	"github.com/m3rciful/quizbot/core/telegram/keyboard"
	"github.com/m3rciful/quizbot/internal/quiz"

	tele "gopkg.in/telebot.v4"
)

// Button payloads carried on outbound inline buttons and echoed back on
// press. These strings are the wire protocol; changing one breaks every
// keyboard already delivered to a chat.
const (
	cbTakeQuiz   = "TAKE_QUIZ"
	cbCreateQuiz = "CREATE_QUIZ"
	cbAddOne     = "ADD_ONE"
	cbAddBulk    = "ADD_BULK"
	cbFinish     = "FINISH"

	cbPagePrefix   = "PAGE_"
	cbDeletePrefix = "DEL_"
	cbQuizPrefix   = "QUIZ_"
	cbAnswerPrefix = "ANS_"
)

const (
	msgStart         = "Welcome to QuizBot! Pick an action below."
	msgNoQuizzes     = "No quizzes yet. Check back later!"
	msgEmptyQuiz     = "This quiz has no questions yet."
	msgGenericFail   = "Something went wrong. Please try again."
	msgNotAllowed    = "You are not allowed to do that."
	msgPromptTitle   = "Send the title for your new quiz."
	msgAuthorMenu    = "What would you like to do next?"
	msgPromptQText   = "Send the question text."
	msgPromptOptions = "Now send the 4 answer options, separated by commas."
	msgPromptIndex   = "Which option is correct? Send a number from 0 to 3."
	msgPromptBulk    = "Send your questions, one per line, in the form:\nquestion|optA,optB,optC,optD|correctIndex"
	msgQuestionSaved = "Question saved."
	msgAuthorDone    = "Quiz saved. It is now available to everyone."
	msgNoConvo       = "No quiz creation in progress. Press Create Quiz to start one."
	msgUsageAdd      = "Usage: /addadmin <chat_id>"
	msgUsageRemove   = "Usage: /removeadmin <chat_id>"
)

func mainMenuMarkup(isAdmin bool) *tele.ReplyMarkup {
	buttons := []keyboard.InlineBtn{
		{Text: "📝 Take Quiz", Data: cbTakeQuiz},
	}
	if isAdmin {
		buttons = append(buttons, keyboard.InlineBtn{Text: "➕ Create Quiz", Data: cbCreateQuiz})
	}
	return keyboard.InlineButtons(buttons)
}

func authorMenuMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "➕ Add One", Data: cbAddOne},
			{Text: "📥 Add Bulk", Data: cbAddBulk},
		},
		[]keyboard.InlineBtn{
			{Text: "✅ Finish", Data: cbFinish},
		},
	)
}

// quizListMarkup renders one page of the quiz listing: one row per quiz,
// with a delete button alongside for admins, and a navigation row driven
// by the page's prev/next affordances.
func quizListMarkup(items []quiz.Quiz, nav quiz.PageNav, isAdmin bool) *tele.ReplyMarkup {
	var rows [][]keyboard.InlineBtn
	for _, q := range items {
		row := []keyboard.InlineBtn{
			{Text: q.Title, Data: cbQuizPrefix + strconv.FormatInt(q.ID, 10)},
		}
		if isAdmin {
			row = append(row, keyboard.InlineBtn{Text: "🗑", Data: cbDeletePrefix + strconv.FormatInt(q.ID, 10)})
		}
		rows = append(rows, row)
	}

	var navRow []keyboard.InlineBtn
	if nav.HasPrevious {
		navRow = append(navRow, keyboard.InlineBtn{Text: "⬅️", Data: cbPagePrefix + strconv.Itoa(nav.Index-1)})
	}
	if nav.HasNext {
		navRow = append(navRow, keyboard.InlineBtn{Text: "➡️", Data: cbPagePrefix + strconv.Itoa(nav.Index+1)})
	}
	if len(navRow) > 0 {
		rows = append(rows, navRow)
	}
	return keyboard.InlineButtonsRows(rows...)
}

func questionMarkup(q quiz.Question) *tele.ReplyMarkup {
	opts := q.Options()
	buttons := make([]keyboard.InlineBtn, 0, len(opts))
	for i, opt := range opts {
		buttons = append(buttons, keyboard.InlineBtn{
			Text: opt,
			Data: cbAnswerPrefix + strconv.Itoa(i),
		})
	}
	return keyboard.InlineButtons(buttons)
}

func questionText(q quiz.Question, number, total int) string {
	return fmt.Sprintf("Question %d/%d\n\n%s", number, total, q.Text)
}

func scoreText(score, total int) string {
	return fmt.Sprintf("🏁 Quiz finished! Your score: %d/%d", score, total)
}

func answerFeedback(correct bool, q quiz.Question) string {
	if correct {
		return "✅ Correct!"
	}
	return fmt.Sprintf("❌ Wrong. The correct answer is: %s", q.Options()[q.CorrectIndex])
}
