package sqlite

import (
	"database/sql"
	"time"

	"gorm.io/gorm"
)

type scope = func(*gorm.DB) *gorm.DB

// eq adds an equality condition for non-zero values only.
func eq[T comparable](column string, value T) scope {
	var zero T
	return func(db *gorm.DB) *gorm.DB {
		if value == zero {
			return db
		}
		return db.Where(column+" = ?", value)
	}
}

func count(db *gorm.DB, table any, scopes ...scope) (int, error) {
	var n int64
	if err := db.Model(table).Scopes(scopes...).Count(&n).Error; err != nil {
		return 0, mapError(err)
	}
	return int(n), nil
}

func lastModified(db *gorm.DB, table any, scopes ...scope) (time.Time, bool, error) {
	var ts sql.NullInt64
	if err := db.Model(table).Scopes(scopes...).Select("MAX(updated_at)").Row().Scan(&ts); err != nil {
		return time.Time{}, false, mapError(err)
	}
	if !ts.Valid {
		return time.Time{}, false, nil
	}
	return fromNanos(ts.Int64), true, nil
}

// window applies the stable id order and the skip/limit window.
func window(skip, limit int) scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC").Offset(skip).Limit(limit)
	}
}
