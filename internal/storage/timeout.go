package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cherdak-bot/internal/catalog"
)

// timeoutStore bounds every store call with a deadline. A call that runs out
// of time surfaces as catalog.ErrStore so the dialogue reports a transient failure.
type timeoutStore struct {
	next    catalog.Store
	timeout time.Duration
}

func WithTimeout(next catalog.Store, timeout time.Duration) catalog.Store {
	if timeout <= 0 {
		return next
	}
	return &timeoutStore{next: next, timeout: timeout}
}

func (s *timeoutStore) List(ctx context.Context, category catalog.Category) ([]catalog.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	items, err := s.next.List(ctx, category)
	return items, s.check(ctx, err)
}

func (s *timeoutStore) ListAll(ctx context.Context) ([]catalog.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	items, err := s.next.ListAll(ctx)
	return items, s.check(ctx, err)
}

func (s *timeoutStore) Insert(ctx context.Context, category catalog.Category, name, detail string, available bool) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	id, err := s.next.Insert(ctx, category, name, detail, available)
	return id, s.check(ctx, err)
}

func (s *timeoutStore) UpdateField(ctx context.Context, ref catalog.ItemRef, field catalog.Field, value any) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.check(ctx, s.next.UpdateField(ctx, ref, field, value))
}

func (s *timeoutStore) Delete(ctx context.Context, ref catalog.ItemRef) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.check(ctx, s.next.Delete(ctx, ref))
}

func (s *timeoutStore) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ok, err := s.next.IsAdmin(ctx, userID)
	return ok, s.check(ctx, err)
}

func (s *timeoutStore) check(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, catalog.ErrStore) {
		return fmt.Errorf("%w: timed out after %s: %w", catalog.ErrStore, s.timeout, err)
	}
	return err
}
