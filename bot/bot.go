// Package bot wires the Telegram transport to the survey core: command
// dispatch, the form flow, and admin notifications.
package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/teampulse/pulsebot/app"
	"github.com/teampulse/pulsebot/chat"
	"github.com/teampulse/pulsebot/log"
)

const welcomeText = "Hi\n\n" +
	"Register your weekly activity overview by clicking the button below.\n\n" +
	"Carefully read each question before you answer to make the process easier for everyone."

type Bot struct {
	api       *tgbotapi.BotAPI
	gw        chat.Gateway
	messenger *chat.Messenger
	app       app.App
}

func New(app app.App) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(app.Token)
	if err != nil {
		return nil, err
	}

	gw := gateway{api}
	return &Bot{
		api:       api,
		gw:        gw,
		messenger: chat.NewMessenger(gw),
		app:       app,
	}, nil
}

// Run long-polls for updates until the context is cancelled. Updates
// are handled one at a time, which also serializes every participant's
// actions against their own session.
func (b *Bot) Run(ctx context.Context) error {
	log.Infof("bot.run: logged in as @%s", b.api.Self.UserName)

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			b.dispatch(ctx, update)
		}
	}
}

// dispatch routes one update. Transport faults and handler panics are
// contained here: a bad update must never take the process down.
func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("bot.dispatch.panic: %v", r)
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.Message != nil && update.Message.Text != "":
		b.handleAnswer(ctx, update.Message)
	}
}

// reply sends a plain one-off message, outside the prompt lifecycle.
func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.gw.Send(chatID, text); err != nil {
		log.Errorf("bot.reply: %s", err)
	}
}

// showMenu replaces the participant's current prompt with the welcome
// menu.
func (b *Bot) showMenu(userID, chatID int64) {
	err := b.messenger.Show(userID, chatID, welcomeText,
		chat.Button{Label: "Gathering Weekly Updates", Action: actionStartForm})
	if err != nil {
		log.Errorf("bot.show_menu: %s", err)
	}
}
