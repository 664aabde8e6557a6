package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/teampulse/pulsebot/chat"
)

// gateway adapts the Telegram Bot API to the transport capabilities the
// core works against.
type gateway struct {
	api *tgbotapi.BotAPI
}

func (g gateway) Send(chatID int64, text string, buttons ...chat.Button) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup, ok := keyboard(buttons); ok {
		msg.ReplyMarkup = markup
	}
	sent, err := g.api.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (g gateway) Edit(chatID int64, messageID int, text string, buttons ...chat.Button) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if markup, ok := keyboard(buttons); ok {
		edit.ReplyMarkup = &markup
	}
	_, err := g.api.Send(edit)
	return err
}

func (g gateway) Delete(chatID int64, messageID int) error {
	_, err := g.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	return err
}

// keyboard lays buttons out one per row, which reads better on phones
// than one wide row.
func keyboard(buttons []chat.Button) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(buttons) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, len(buttons))
	for i, b := range buttons {
		rows[i] = tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Action),
		)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}
