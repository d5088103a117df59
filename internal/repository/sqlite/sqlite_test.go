package sqlite

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/maxviazov/stock-adjustment-service/internal/config"
	"github.com/maxviazov/stock-adjustment-service/internal/model"
	"github.com/maxviazov/stock-adjustment-service/internal/repository"
	"github.com/maxviazov/stock-adjustment-service/internal/repository/contract"
)

func openMemory(t *testing.T) *DB {
	t.Helper()
	cfg := &config.SQLiteConfig{Path: "file:" + uuid.NewString() + "?mode=memory&cache=shared"}
	db, err := Open(cfg, zerolog.New(io.Discard))
	require.NoError(t, err)
	return db
}

func makeStores(t *testing.T) (repository.Stores, func()) {
	s := openMemory(t).Stores()
	return s, s.Close
}

func TestSQLiteContract(t *testing.T) {
	contract.RunAll(t, makeStores)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(&config.SQLiteConfig{}, zerolog.Nop())
	assert.Error(t, err)
	_, err = Open(nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "adjustments.db")
	db, err := Open(&config.SQLiteConfig{Path: path}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(db.Close)
	assert.FileExists(t, path)
	assert.NoError(t, db.Ping(context.Background()))
}

func TestPing_AfterClose(t *testing.T) {
	db := openMemory(t)
	db.Close()
	assert.Error(t, db.Ping(context.Background()))
}

func TestMapError(t *testing.T) {
	boom := errors.New("boom")
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"not found", gorm.ErrRecordNotFound, repository.ErrNotFound},
		{"duplicated", gorm.ErrDuplicatedKey, repository.ErrAlreadyExists},
		{"foreign key", gorm.ErrForeignKeyViolated, repository.ErrConflict},
		{"unique message", errors.New("UNIQUE constraint failed: items.code"), repository.ErrAlreadyExists},
		{"locked", errors.New("database is locked"), repository.ErrUnavailable},
		{"canceled", context.Canceled, context.Canceled},
		{"other", boom, boom},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError(tc.in), tc.want)
		})
	}
	assert.NoError(t, mapError(nil))
}

func TestCount_ZeroFilterMatchesAll(t *testing.T) {
	db := openMemory(t)
	t.Cleanup(db.Close)
	s := db.Stores()
	ctx := context.Background()
	for _, code := range []string{"A", "B"} {
		_, err := s.Items.Create(ctx, model.Item{Code: code, Name: "n", UOM: "unit"})
		require.NoError(t, err)
	}

	n, err := s.Items.Count(ctx, repository.ItemFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
