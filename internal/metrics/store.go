package metrics

import (
	"context"
	"time"

	"cherdak-bot/internal/catalog"
)

type instrumentedStore struct {
	next    catalog.Store
	metrics *Metrics
}

// InstrumentStore records the latency of every call made through store.
func InstrumentStore(store catalog.Store, m *Metrics) catalog.Store {
	return &instrumentedStore{next: store, metrics: m}
}

func (s *instrumentedStore) observe(op string, start time.Time) {
	s.metrics.storeDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (s *instrumentedStore) List(ctx context.Context, category catalog.Category) ([]catalog.Item, error) {
	defer s.observe("list", time.Now())
	return s.next.List(ctx, category)
}

func (s *instrumentedStore) ListAll(ctx context.Context) ([]catalog.Item, error) {
	defer s.observe("list_all", time.Now())
	return s.next.ListAll(ctx)
}

func (s *instrumentedStore) Insert(ctx context.Context, category catalog.Category, name, detail string, available bool) (int64, error) {
	defer s.observe("insert", time.Now())
	return s.next.Insert(ctx, category, name, detail, available)
}

func (s *instrumentedStore) UpdateField(ctx context.Context, ref catalog.ItemRef, field catalog.Field, value any) error {
	defer s.observe("update", time.Now())
	return s.next.UpdateField(ctx, ref, field, value)
}

func (s *instrumentedStore) Delete(ctx context.Context, ref catalog.ItemRef) error {
	defer s.observe("delete", time.Now())
	return s.next.Delete(ctx, ref)
}

func (s *instrumentedStore) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	defer s.observe("is_admin", time.Now())
	return s.next.IsAdmin(ctx, userID)
}
