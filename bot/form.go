package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/teampulse/pulsebot/chat"
	"github.com/teampulse/pulsebot/log"
	"github.com/teampulse/pulsebot/model"
	"github.com/teampulse/pulsebot/report"
	"github.com/teampulse/pulsebot/session"
)

const (
	savedText      = "Your responses have been recorded!"
	saveFailedText = "An error occurred while saving your response. " +
		"Please send your last answer again to retry."
	notStartedText   = "Please start the form by clicking the button."
	unauthorizedText = "You are not authorized to perform this action."
)

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Debugf("bot.callback.ack: %s", err)
	}
	if cb.Message == nil {
		return
	}

	userID := cb.From.ID
	chatID := cb.Message.Chat.ID

	switch data := cb.Data; {
	case data == actionStartForm:
		b.app.Sessions.Begin(userID)
		b.askQuestion(userID, chatID, 0)

	case data == actionBackToStart:
		b.app.Sessions.Cancel(userID)
		b.showMenu(userID, chatID)

	case data == actionMainMenu:
		b.showMenu(userID, chatID)

	default:
		if index, ok := parseBackToQuestion(data); ok {
			b.navigateBack(userID, chatID, index)
			return
		}
		if target, ok := parseSeeAnswers(data); ok {
			b.showAnswers(ctx, cb, target)
			return
		}
		log.Debugf("bot.callback.unknown_action: %q", data)
	}
}

func (b *Bot) handleAnswer(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	step, err := b.app.Sessions.RecordAnswer(userID, msg.Text)
	if err != nil {
		if errors.Is(err, session.ErrNotStarted) {
			b.reply(chatID, notStartedText)
		} else {
			log.Errorf("bot.answer: %s", err)
		}
		return
	}

	if !step.Done {
		b.askQuestion(userID, chatID, step.Next)
		return
	}
	b.commit(ctx, msg.From, chatID, step.Answers)
}

// askQuestion replaces the current prompt with the question at index.
// Question 0 offers a bail-out to the start menu; later questions offer
// a step back to the previous one.
func (b *Bot) askQuestion(userID, chatID int64, index int) {
	question, ok := b.app.Catalog.Question(index)
	if !ok {
		log.Warnf("bot.ask.no_such_question: %d", index)
		b.showMenu(userID, chatID)
		return
	}

	back := chat.Button{Label: "⬅ Back to start", Action: actionBackToStart}
	if index > 0 {
		back = chat.Button{Label: "⬅ Previous question", Action: backToQuestion(index - 1)}
	}

	if err := b.messenger.Show(userID, chatID, question, back); err != nil {
		log.Errorf("bot.ask.show: %s", err)
	}
}

func (b *Bot) navigateBack(userID, chatID int64, index int) {
	err := b.app.Sessions.NavigateBack(userID, index)
	switch {
	case errors.Is(err, session.ErrNotStarted):
		b.showMenu(userID, chatID)

	case errors.Is(err, session.ErrInvalidNavigation):
		// Tampered or stale payload: hold position instead of failing.
		log.Warnf("bot.navigate.invalid_target: user %d -> question %d", userID, index)
		if pos, ok := b.app.Sessions.Position(userID); ok {
			b.askQuestion(userID, chatID, pos)
		}

	default:
		b.askQuestion(userID, chatID, index)
	}
}

// commit persists the completed answer set. On storage failure the
// session is left in place: sending the final answer again retries the
// commit without collecting a duplicate answer.
func (b *Bot) commit(ctx context.Context, user *tgbotapi.User, chatID int64, answers []string) {
	sub := model.Submission{
		Participant: model.Participant{
			ID:       user.ID,
			Name:     displayName(user),
			Username: user.UserName,
		},
		Time:    time.Now(),
		Answers: answers,
	}

	if err := b.app.Periods.Submit(ctx, sub); err != nil {
		log.Errorf("bot.commit: %s", err)
		if err := b.messenger.Show(user.ID, chatID, saveFailedText); err != nil {
			log.Errorf("bot.commit.show_failure: %s", err)
		}
		return
	}

	b.app.Sessions.Finalize(user.ID)
	err := b.messenger.Show(user.ID, chatID, savedText,
		chat.Button{Label: "Back to main menu", Action: actionMainMenu})
	if err != nil {
		log.Errorf("bot.commit.show_saved: %s", err)
	}

	b.notifyAdmins(sub)
}

// notifyAdmins fans the completion out to every admin. Failures are
// per-recipient: one blocked admin never hides the submission from the
// others.
func (b *Bot) notifyAdmins(sub model.Submission) {
	admins, err := b.app.Admins.All()
	if err != nil {
		log.Errorf("bot.notify_admins.roster: %s", err)
		return
	}

	summary := fmt.Sprintf("%s (%s) submitted their weekly update at %s.",
		sub.Participant.Name, sub.Participant.Handle(), sub.Time.Format(model.TimeLayout))
	button := chat.Button{Label: "See answers", Action: seeAnswers(sub.Participant.ID)}

	for _, adminID := range admins {
		if _, err := b.gw.Send(adminID, summary, button); err != nil {
			log.Warnf("bot.notify_admins.send: admin %d: %s", adminID, err)
		}
	}
}

// showAnswers swaps the admin's notification message for the full
// latest answer set of the given participant.
func (b *Bot) showAnswers(ctx context.Context, cb *tgbotapi.CallbackQuery, target int64) {
	chatID := cb.Message.Chat.ID
	if !b.app.Admins.IsAdmin(cb.From.ID) {
		b.reply(chatID, unauthorizedText)
		return
	}

	sub, err := b.app.Reports.LatestSubmission(ctx, target)
	switch {
	case errors.Is(err, report.ErrNoPeriod), errors.Is(err, report.ErrNoSubmission):
		b.reply(chatID, "No submission found for this user.")
		return
	case err != nil:
		log.Errorf("bot.show_answers: %s", err)
		b.reply(chatID, "An error occurred while reading responses. Please try again later.")
		return
	}

	if err := b.gw.Edit(chatID, cb.Message.MessageID, formatSubmission(sub)); err != nil {
		log.Errorf("bot.show_answers.edit: %s", err)
	}
}

func formatSubmission(sub *report.Submission) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Latest update from %s (%s)\nSubmitted: %s\n",
		sub.Name, sub.Handle, sub.Time.Format(model.TimeLayout))
	for _, qa := range sub.QA {
		fmt.Fprintf(&sb, "\n%s\n%s\n", qa.Question, qa.Answer)
	}
	return sb.String()
}

func displayName(user *tgbotapi.User) string {
	return strings.TrimSpace(user.FirstName + " " + user.LastName)
}
