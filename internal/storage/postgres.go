package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cherdak-bot/internal/catalog"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
}

func (c Config) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, sslMode,
	)
}

// table describes how a category is laid out in SQL.
type table struct {
	name        string
	detailField string
}

var tables = map[catalog.Category]table{
	catalog.Tobacco: {name: "tobacco", detailField: "flavor"},
	catalog.Tea:     {name: "tea", detailField: "description"},
}

func tableFor(category catalog.Category) (table, error) {
	t, ok := tables[category]
	if !ok {
		return table{}, fmt.Errorf("%w: unknown category %q", catalog.ErrStore, category)
	}
	return t, nil
}

type PostgresStorage struct {
	db     *sqlx.DB
	logger *zap.Logger
}

var _ catalog.Store = (*PostgresStorage)(nil)

func NewPostgresStorage(ctx context.Context, cfg Config, logger *zap.Logger) (*PostgresStorage, error) {
	const operation = "storage.NewPostgresStorage"

	var db *sqlx.DB

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = cfg.ConnectTimeout
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("Connecting to PostgreSQL...",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("db", cfg.DBName))

	err := backoff.RetryNotify(
		func() error {
			conn, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			db = conn
			return nil
		},
		backoff.WithContext(retryPolicy, ctx),
		func(err error, duration time.Duration) {
			logger.Warn("PostgreSQL connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", duration))
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := RunMigrations(ctx, db.DB, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	logger.Info("Successfully connected to PostgreSQL")
	return &PostgresStorage{
		db:     db,
		logger: logger,
	}, nil
}

func (s *PostgresStorage) List(ctx context.Context, category catalog.Category) ([]catalog.Item, error) {
	t, err := tableFor(category)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`SELECT '%s' AS category, id, name, %s AS detail, available FROM %s ORDER BY id`,
		category, t.detailField, t.name,
	)

	var items []catalog.Item
	if err := s.db.SelectContext(ctx, &items, query); err != nil {
		return nil, wrapErr("list "+string(category), err)
	}
	return items, nil
}

func (s *PostgresStorage) ListAll(ctx context.Context) ([]catalog.Item, error) {
	const query = `
        SELECT category, id, name, detail, available FROM (
            SELECT 1 AS rank, 'tobacco' AS category, id, name, flavor AS detail, available FROM tobacco
            UNION ALL
            SELECT 2 AS rank, 'tea' AS category, id, name, description AS detail, available FROM tea
        ) AS items
        ORDER BY rank, id
    `

	var items []catalog.Item
	if err := s.db.SelectContext(ctx, &items, query); err != nil {
		return nil, wrapErr("list all", err)
	}
	return items, nil
}

func (s *PostgresStorage) Insert(ctx context.Context, category catalog.Category, name, detail string, available bool) (int64, error) {
	t, err := tableFor(category)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (name, %s, available) VALUES ($1, $2, $3) RETURNING id`,
		t.name, t.detailField,
	)

	var id int64
	if err := s.db.QueryRowContext(ctx, query, name, detail, available).Scan(&id); err != nil {
		return 0, wrapErr("insert "+string(category), err)
	}

	s.logger.Info("Catalog item created",
		zap.String("category", string(category)),
		zap.Int64("id", id))
	return id, nil
}

func (s *PostgresStorage) UpdateField(ctx context.Context, ref catalog.ItemRef, field catalog.Field, value any) error {
	if err := field.CheckValue(value); err != nil {
		return err
	}
	t, err := tableFor(ref.Category)
	if err != nil {
		return err
	}

	column := string(field)
	if field == catalog.FieldDetail {
		column = t.detailField
	}

	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE id = $2`, t.name, column)
	res, err := s.db.ExecContext(ctx, query, value, ref.ID)
	if err != nil {
		return wrapErr("update "+ref.String(), err)
	}
	return expectOneRow(res, "update "+ref.String())
}

func (s *PostgresStorage) Delete(ctx context.Context, ref catalog.ItemRef) error {
	t, err := tableFor(ref.Category)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, t.name)
	res, err := s.db.ExecContext(ctx, query, ref.ID)
	if err != nil {
		return wrapErr("delete "+ref.String(), err)
	}
	return expectOneRow(res, "delete "+ref.String())
}

func (s *PostgresStorage) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM admins WHERE telegram_id = $1)`

	var exists bool
	if err := s.db.GetContext(ctx, &exists, query, userID); err != nil {
		return false, wrapErr("is admin", err)
	}
	return exists, nil
}

// SeedAdmins upserts the configured admin ids into the allow-list.
func (s *PostgresStorage) SeedAdmins(ctx context.Context, ids []int64) error {
	const query = `INSERT INTO admins (telegram_id) VALUES ($1) ON CONFLICT DO NOTHING`

	for _, id := range ids {
		if _, err := s.db.ExecContext(ctx, query, id); err != nil {
			return wrapErr("seed admins", err)
		}
	}
	return nil
}

func (s *PostgresStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

func expectOneRow(res rowsAffecter, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, catalog.ErrNotFound)
	}
	return nil
}

// wrapErr classifies driver errors as catalog.ErrStore while keeping the cause.
func wrapErr(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "23" {
		return fmt.Errorf("%s: %w: constraint %s violated: %w", op, catalog.ErrStore, pqErr.Constraint, err)
	}
	return fmt.Errorf("%s: %w: %w", op, catalog.ErrStore, err)
}
