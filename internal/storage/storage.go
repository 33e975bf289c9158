// Package storage opens the bun database holding rich-text content.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-richtext/internal/logging"
	"github.com/goliatone/go-richtext/internal/migration"
	"github.com/goliatone/go-richtext/internal/runtimeconfig"
	"github.com/goliatone/go-richtext/pkg/interfaces"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
)

// ErrUnsupportedDialect is returned for dialects other than sqlite and postgres.
var ErrUnsupportedDialect = errors.New("storage: unsupported dialect")

// Option configures Open.
type Option func(*options)

type options struct {
	logger interfaces.Logger
}

// WithLogger sets the logger used while opening the database.
func WithLogger(logger interfaces.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Open connects to the configured database and pings it. Tables are created
// when cfg.CreateTables is set.
func Open(ctx context.Context, cfg runtimeconfig.StorageConfig, opts ...Option) (*bun.DB, error) {
	o := options{logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	driver, dialect, err := resolveDialect(cfg.Dialect)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", driver, err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	db := bun.NewDB(sqlDB, dialect)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: ping %s: %w", driver, err)
	}
	o.logger.Info("storage.opened", "dialect", dialect.Name().String(), "max_open_conns", cfg.MaxOpenConns)

	if cfg.CreateTables {
		if err := EnsureTables(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		o.logger.Debug("storage.tables.ensured")
	}
	return db, nil
}

// EnsureTables creates the pages and page_translations tables when missing.
func EnsureTables(ctx context.Context, db bun.IDB) error {
	models := []any{
		(*migration.Page)(nil),
		(*migration.PageTranslation)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("storage: create table for %T: %w", model, err)
		}
	}
	return nil
}

func resolveDialect(name string) (string, schema.Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case runtimeconfig.DialectSQLite, "sqlite3":
		return "sqlite3", sqlitedialect.New(), nil
	case runtimeconfig.DialectPostgres, "postgresql":
		return "postgres", pgdialect.New(), nil
	default:
		return "", nil, fmt.Errorf("%w: %q", ErrUnsupportedDialect, name)
	}
}
