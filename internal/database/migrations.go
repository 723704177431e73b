package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes that AutoMigrate does not
// cover. Only supported on postgres; other drivers rely on the model tags.
func AddIndexes(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Composite lookups for the tenancy-scoped list queries
		{"tasks", "idx_tasks_org_active", "organization_id, deleted_at"},
		{"projects", "idx_projects_org_active", "organization_id, deleted_at"},

		// Pending-invitation uniqueness checks filter on these together
		{"invitations", "idx_invitations_org_email", "organization_id, email"},

		// Activity feed is read newest-first per organization
		{"activity_log_entries", "idx_activity_org_created", "organization_id, created_at"},

		// Unread notification count per user
		{"notifications", "idx_notifications_user_read", "user_id, read_at"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Scan(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
