package bot

import (
	"cherdak-bot/internal/dialog"
	"cherdak-bot/internal/keyboard"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// render turns a dialogue reply into a Telegram request.
func render(chatID int64, r dialog.Reply) tgbotapi.Chattable {
	if r.Document != nil {
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: r.Document.Name, Bytes: r.Document.Data})
		doc.Caption = r.Text
		return doc
	}

	msg := tgbotapi.NewMessage(chatID, r.Text)
	if r.Markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}

	switch {
	case r.RemoveKeyboard:
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	case len(r.Keyboard) > 0:
		msg.ReplyMarkup = replyKeyboard(r.Keyboard)
	}

	return msg
}

func replyKeyboard(layout keyboard.Layout) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(layout))
	for _, labels := range layout {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(labels))
		for _, label := range labels {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
		}
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(buttons...))
	}
	return tgbotapi.NewReplyKeyboard(rows...)
}
