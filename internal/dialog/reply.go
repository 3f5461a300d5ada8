package dialog

import (
	"errors"

	"cherdak-bot/internal/catalog"
	"cherdak-bot/internal/keyboard"
)

// Reply is an outbound message. A nil Keyboard leaves the current keyboard in place.
type Reply struct {
	Text           string
	Keyboard       keyboard.Layout
	RemoveKeyboard bool
	Markdown       bool
	Document       *Document
}

// Document is a file attachment; Text becomes its caption.
type Document struct {
	Name string
	Data []byte
}

// Outcome classifies how a message was handled.
type Outcome string

const (
	OutcomeOK           Outcome = "ok"
	OutcomeInvalid      Outcome = "invalid"
	OutcomeUnrecognized Outcome = "unrecognized"
	OutcomeDenied       Outcome = "denied"
	OutcomeNotFound     Outcome = "not_found"
	OutcomeStoreError   Outcome = "store_error"
)

// Result is the output of one dialogue step.
type Result struct {
	Session Session
	Replies []Reply
	Outcome Outcome
}

// ValidationError rejects input while keeping the dialogue where it is.
// Prompt is sent back so the user can try again.
type ValidationError struct {
	Prompt Reply
}

func (e *ValidationError) Error() string {
	return "invalid input, expected: " + e.Prompt.Text
}

func (e *ValidationError) Unwrap() error {
	return catalog.ErrValidation
}

func invalid(text string, kb keyboard.Layout, markdown bool) error {
	return &ValidationError{Prompt: Reply{Text: text, Keyboard: kb, Markdown: markdown}}
}

var (
	errUnrecognized = errors.New("unrecognized input")
	// errBrokenSession means the session lacks a field an earlier step should have
	// collected, e.g. after a partial write to the session store.
	errBrokenSession = errors.New("session is missing collected fields")
)
