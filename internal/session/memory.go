package session

import (
	"context"
	"sync"

	"cherdak-bot/internal/dialog"
)

type Memory struct {
	mu       sync.RWMutex
	sessions map[int64]dialog.Session
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{sessions: make(map[int64]dialog.Session)}
}

func (m *Memory) Get(ctx context.Context, chatID int64) (dialog.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if s, ok := m.sessions[chatID]; ok {
		return s, nil
	}
	return dialog.NewSession(chatID), nil
}

func (m *Memory) Save(ctx context.Context, s dialog.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[s.ChatID] = s
	return nil
}

func (m *Memory) Clear(ctx context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, chatID)
	return nil
}

// Len returns the number of chats with an active dialogue.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}
