package database

import (
	"gorm.io/gorm"
)

// Paginate applies offset pagination to a GORM query. Non-positive values
// disable it.
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page <= 0 || pageSize <= 0 {
			return db
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

// NotDeleted scopes a query to rows in the Active state. Soft deletion is
// managed explicitly by the repositories rather than gorm's DeletedAt.
func NotDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("deleted_at IS NULL")
}
