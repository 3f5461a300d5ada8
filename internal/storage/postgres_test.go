package storage

import (
	"context"
	"errors"
	"testing"

	"cherdak-bot/internal/catalog"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

func newMockStorage(t *testing.T) (*PostgresStorage, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock.New failed: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	return &PostgresStorage{db: sqlx.NewDb(db, "postgres"), logger: zap.NewNop()}, mock
}

var itemColumns = []string{"category", "id", "name", "detail", "available"}

func TestPostgresStorage_List(t *testing.T) {
	s, mock := newMockStorage(t)
	mock.ExpectQuery(`SELECT 'tea' AS category, id, name, description AS detail, available FROM tea ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(itemColumns).AddRow("tea", int64(2), "Пуэр", "earthy", false))

	items, err := s.List(context.Background(), catalog.Tea)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := catalog.Item{ID: 2, Category: catalog.Tea, Name: "Пуэр", Detail: "earthy"}
	if len(items) != 1 || items[0] != want {
		t.Errorf("items = %+v, want [%+v]", items, want)
	}
}

func TestPostgresStorage_ListAll(t *testing.T) {
	s, mock := newMockStorage(t)
	mock.ExpectQuery(`
        SELECT category, id, name, detail, available FROM (
            SELECT 1 AS rank, 'tobacco' AS category, id, name, flavor AS detail, available FROM tobacco
            UNION ALL
            SELECT 2 AS rank, 'tea' AS category, id, name, description AS detail, available FROM tea
        ) AS items
        ORDER BY rank, id`).
		WillReturnRows(sqlmock.NewRows(itemColumns).
			AddRow("tobacco", int64(1), "Mint", "fresh", true).
			AddRow("tea", int64(1), "Сенча", "grassy", false))

	items, err := s.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}

	want := []catalog.Item{
		{ID: 1, Category: catalog.Tobacco, Name: "Mint", Detail: "fresh", Available: true},
		{ID: 1, Category: catalog.Tea, Name: "Сенча", Detail: "grassy", Available: false},
	}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(items))
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("position %d: got %+v, want %+v", i, items[i], want[i])
		}
	}
}

func TestPostgresStorage_UpdateField(t *testing.T) {
	tests := []struct {
		name  string
		ref   catalog.ItemRef
		field catalog.Field
		value any
		query string
	}{
		{
			name:  "tobacco flavor",
			ref:   catalog.ItemRef{Category: catalog.Tobacco, ID: 3},
			field: catalog.FieldDetail,
			value: "cherry",
			query: `UPDATE tobacco SET flavor = $1 WHERE id = $2`,
		},
		{
			name:  "tea description",
			ref:   catalog.ItemRef{Category: catalog.Tea, ID: 4},
			field: catalog.FieldDetail,
			value: "smoky",
			query: `UPDATE tea SET description = $1 WHERE id = $2`,
		},
		{
			name:  "tea name",
			ref:   catalog.ItemRef{Category: catalog.Tea, ID: 4},
			field: catalog.FieldName,
			value: "Лапсанг",
			query: `UPDATE tea SET name = $1 WHERE id = $2`,
		},
		{
			name:  "tobacco availability",
			ref:   catalog.ItemRef{Category: catalog.Tobacco, ID: 3},
			field: catalog.FieldAvailable,
			value: false,
			query: `UPDATE tobacco SET available = $1 WHERE id = $2`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStorage(t)
			mock.ExpectExec(tt.query).
				WithArgs(tt.value, tt.ref.ID).
				WillReturnResult(sqlmock.NewResult(0, 1))

			if err := s.UpdateField(context.Background(), tt.ref, tt.field, tt.value); err != nil {
				t.Fatalf("UpdateField failed: %v", err)
			}
		})
	}
}

func TestPostgresStorage_UpdateFieldMissing(t *testing.T) {
	s, mock := newMockStorage(t)
	mock.ExpectExec(`UPDATE tea SET description = $1 WHERE id = $2`).
		WithArgs("smoky", int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateField(context.Background(), catalog.ItemRef{Category: catalog.Tea, ID: 9}, catalog.FieldDetail, "smoky")
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresStorage_Insert(t *testing.T) {
	s, mock := newMockStorage(t)
	mock.ExpectQuery(`INSERT INTO tea (name, description, available) VALUES ($1, $2, $3) RETURNING id`).
		WithArgs("Сенча", "grassy", true).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	id, err := s.Insert(context.Background(), catalog.Tea, "Сенча", "grassy", true)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if id != 5 {
		t.Errorf("id = %d, want 5", id)
	}
}
