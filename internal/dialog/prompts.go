package dialog

import (
	"strings"

	"cherdak-bot/internal/catalog"
	"cherdak-bot/internal/keyboard"
)

// KeyboardFor maps a state to the choices offered in it. items is only read
// for StateAwaitingItemSelection and must come from a fresh store query.
func KeyboardFor(state State, items []catalog.Item) keyboard.Layout {
	switch state {
	case StateIdle:
		return keyboard.Main()
	case StateAwaitingCategoryChoice:
		return keyboard.AdminMenu()
	case StateAwaitingName, StateAwaitingDescription, StateAwaitingNewName, StateAwaitingNewDescription:
		return keyboard.CancelOnly()
	case StateAwaitingAvailability, StateAwaitingNewAvailable:
		return keyboard.Availability()
	case StateAwaitingItemSelection:
		return keyboard.Items(items)
	case StateAwaitingEditAction:
		return keyboard.EditOrDelete()
	case StateAwaitingEditDetail:
		return keyboard.EditDetail()
	default:
		return nil
	}
}

// promptFor is the message that asks for the input sess.State expects.
func promptFor(sess Session) Reply {
	var text string
	switch sess.State {
	case StateIdle:
		text = textWelcome
	case StateAwaitingCategoryChoice:
		text = textChooseAction
	case StateAwaitingName:
		text = askNameText[sess.Pending.Category]
	case StateAwaitingDescription:
		text = textAskDetail
	case StateAwaitingAvailability:
		text = textAskAvailability
	case StateAwaitingItemSelection:
		text = textChooseItem
	case StateAwaitingEditAction:
		text = textInvalidAction
	case StateAwaitingEditDetail:
		text = textChooseDetail
	case StateAwaitingNewName:
		text = textAskNewName
	case StateAwaitingNewDescription:
		text = textAskNewDetail
	case StateAwaitingNewAvailable:
		text = textAskNewAvailability
	}

	return Reply{
		Text:     text,
		Keyboard: KeyboardFor(sess.State, nil),
		Markdown: sess.State == StateAwaitingEditAction,
	}
}

// freeText accepts any non-blank text and re-prompts otherwise.
func freeText(sess Session, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &ValidationError{Prompt: promptFor(sess)}
	}
	return text, nil
}

func backToMenu(done string, removeKeyboard bool) []Reply {
	return []Reply{
		{Text: done, RemoveKeyboard: removeKeyboard},
		{Text: textBackToMenu, Keyboard: keyboard.AdminMenu()},
	}
}
