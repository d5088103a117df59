// Package sqlite implements the repositories on an embedded SQLite file through gorm.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/maxviazov/stock-adjustment-service/internal/config"
	"github.com/maxviazov/stock-adjustment-service/internal/repository"
)

// DB owns the gorm handle shared by the sqlite repositories.
type DB struct {
	gorm *gorm.DB
}

// Open connects to cfg.Path, creating its directory when missing, and migrates the schema.
func Open(cfg *config.SQLiteConfig, logger zerolog.Logger) (*DB, error) {
	if cfg == nil || cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}
	log := logger.With().Str("module", "repository").Str("component", "sqlite").Logger()

	if isFilePath(cfg.Path) {
		dir := filepath.Dir(cfg.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	g, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: gormlogger.New(gormWriter{log: log}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLevel(log.GetLevel()),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		}),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", cfg.Path, err)
	}

	sqlDB, err := g.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps shared in-memory databases alive.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := g.AutoMigrate(&itemRow{}, &stockRow{}, &adjustmentRow{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
	}
	log.Info().Str("path", cfg.Path).Msg("Successfully opened SQLite database")
	return &DB{gorm: g}, nil
}

// Stores wires every sqlite repository onto the handle. Close closes the database.
func (d *DB) Stores() repository.Stores {
	return repository.Stores{
		Items:       &itemRepository{db: d},
		Stocks:      &stockRepository{db: d},
		Adjustments: &adjustmentRepository{db: d},
		Tx:          d,
		Pinger:      d,
		Close:       d.Close,
	}
}

func (d *DB) Close() {
	if sqlDB, err := d.gorm.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (d *DB) Ping(ctx context.Context) error {
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return fmt.Errorf("%w: %w", repository.ErrUnavailable, err)
	}
	return mapError(sqlDB.PingContext(ctx))
}

type txKey struct{}

// conn returns the transaction bound to ctx, or the root handle.
func (d *DB) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return d.gorm.WithContext(ctx)
}

// WithinTx runs fn in a gorm transaction; nested calls join the outer one.
func (d *DB) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return d.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func isFilePath(path string) bool {
	return path != ":memory:" && !strings.HasPrefix(path, "file:")
}

// mapError translates gorm and driver errors to repository errors.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrAlreadyExists
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return repository.ErrConflict
	case errors.Is(err, sql.ErrConnDone):
		return fmt.Errorf("%w: %w", repository.ErrUnavailable, err)
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint"):
		return repository.ErrAlreadyExists
	case strings.Contains(msg, "database is locked"), strings.Contains(msg, "database is closed"):
		return fmt.Errorf("%w: %w", repository.ErrUnavailable, err)
	}
	return err
}

// gormWriter sends gorm's log lines to zerolog. gorm filters by its own level,
// so every line it emits is written at the logger's level.
type gormWriter struct {
	log zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.log.WithLevel(w.log.GetLevel()).Msgf(format, args...)
}

func gormLevel(l zerolog.Level) gormlogger.LogLevel {
	switch {
	case l <= zerolog.DebugLevel:
		return gormlogger.Info
	case l <= zerolog.WarnLevel:
		return gormlogger.Warn
	case l <= zerolog.ErrorLevel:
		return gormlogger.Error
	default:
		return gormlogger.Silent
	}
}

var (
	_ repository.TxManager = (*DB)(nil)
	_ repository.Pinger    = (*DB)(nil)
)
