// Package session persists dialogue sessions between messages.
package session

import (
	"context"

	"cherdak-bot/internal/dialog"
)

// Store keeps one dialogue session per chat.
type Store interface {
	// Get returns the stored session or an idle one when nothing is stored.
	Get(ctx context.Context, chatID int64) (dialog.Session, error)
	Save(ctx context.Context, s dialog.Session) error
	Clear(ctx context.Context, chatID int64) error
}

// Persist writes s back, dropping it entirely once the dialogue is over.
func Persist(ctx context.Context, store Store, s dialog.Session) error {
	if s.Active() {
		return store.Save(ctx, s)
	}
	return store.Clear(ctx, s.ChatID)
}
