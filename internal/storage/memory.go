package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"cherdak-bot/internal/catalog"
)

// MemoryStorage keeps the catalog in process memory. It is used by tests and
// by STORAGE_DRIVER=memory for local runs without Postgres.
type MemoryStorage struct {
	mu     sync.RWMutex
	items  map[catalog.Category][]catalog.Item
	nextID map[catalog.Category]int64
	admins map[int64]struct{}
}

var _ catalog.Store = (*MemoryStorage)(nil)

func NewMemoryStorage(adminIDs ...int64) *MemoryStorage {
	s := &MemoryStorage{
		items:  make(map[catalog.Category][]catalog.Item),
		nextID: make(map[catalog.Category]int64),
		admins: make(map[int64]struct{}),
	}
	for _, id := range adminIDs {
		s.admins[id] = struct{}{}
	}
	return s
}

func (s *MemoryStorage) List(ctx context.Context, category catalog.Category) ([]catalog.Item, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", catalog.ErrStore, category)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]catalog.Item(nil), s.items[category]...), nil
}

func (s *MemoryStorage) ListAll(ctx context.Context) ([]catalog.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []catalog.Item
	for _, category := range catalog.Categories {
		all = append(all, s.items[category]...)
	}
	return all, nil
}

func (s *MemoryStorage) Insert(ctx context.Context, category catalog.Category, name, detail string, available bool) (int64, error) {
	if !category.Valid() {
		return 0, fmt.Errorf("%w: unknown category %q", catalog.ErrStore, category)
	}
	// mirrors the CHECK (name <> '') constraint of the SQL schema
	if strings.TrimSpace(name) == "" {
		return 0, fmt.Errorf("%w: empty item name", catalog.ErrStore)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID[category]++
	id := s.nextID[category]
	s.items[category] = append(s.items[category], catalog.Item{
		ID:        id,
		Category:  category,
		Name:      name,
		Detail:    detail,
		Available: available,
	})
	return id, nil
}

func (s *MemoryStorage) UpdateField(ctx context.Context, ref catalog.ItemRef, field catalog.Field, value any) error {
	if err := field.CheckValue(value); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(ref)
	if idx < 0 {
		return fmt.Errorf("update %s: %w", ref, catalog.ErrNotFound)
	}

	item := &s.items[ref.Category][idx]
	switch field {
	case catalog.FieldName:
		name := value.(string)
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: empty item name", catalog.ErrStore)
		}
		item.Name = name
	case catalog.FieldDetail:
		item.Detail = value.(string)
	case catalog.FieldAvailable:
		item.Available = value.(bool)
	}
	return nil
}

func (s *MemoryStorage) Delete(ctx context.Context, ref catalog.ItemRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(ref)
	if idx < 0 {
		return fmt.Errorf("delete %s: %w", ref, catalog.ErrNotFound)
	}

	items := s.items[ref.Category]
	s.items[ref.Category] = append(items[:idx:idx], items[idx+1:]...)
	return nil
}

func (s *MemoryStorage) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.admins[userID]
	return ok, nil
}

// SeedAdmins adds ids to the allow-list.
func (s *MemoryStorage) SeedAdmins(ctx context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		s.admins[id] = struct{}{}
	}
	return nil
}

// Close is a no-op kept for parity with PostgresStorage.
func (s *MemoryStorage) Close() error {
	return nil
}

func (s *MemoryStorage) indexOf(ref catalog.ItemRef) int {
	for i, item := range s.items[ref.Category] {
		if item.ID == ref.ID {
			return i
		}
	}
	return -1
}
