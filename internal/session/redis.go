package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cherdak-bot/internal/dialog"
	"cherdak-bot/pkg/redis"
)

// KV is the subset of the Redis client the session store needs.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
	Del(ctx context.Context, key string) error
}

var _ KV = (*redis.Client)(nil)

// Redis stores sessions as JSON under session:<chat_id>. Keys expire with the
// client TTL, which abandons dialogues left unfinished for that long.
type Redis struct {
	kv KV
}

var _ Store = (*Redis)(nil)

func NewRedis(kv KV) *Redis {
	return &Redis{kv: kv}
}

func (r *Redis) Get(ctx context.Context, chatID int64) (dialog.Session, error) {
	data, err := r.kv.Get(ctx, buildSessionKey(chatID))
	if errors.Is(err, redis.ErrMiss) {
		return dialog.NewSession(chatID), nil
	}
	if err != nil {
		return dialog.Session{}, fmt.Errorf("get session: %w", err)
	}

	var s dialog.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return dialog.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	s.ChatID = chatID
	return s, nil
}

func (r *Redis) Save(ctx context.Context, s dialog.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := r.kv.Set(ctx, buildSessionKey(s.ChatID), data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context, chatID int64) error {
	if err := r.kv.Del(ctx, buildSessionKey(chatID)); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func buildSessionKey(chatID int64) string {
	return fmt.Sprintf("session:%d", chatID)
}
