package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type compositeIndex struct {
	table   string
	name    string
	columns string
}

// lookupIndexes back the notification/reminder dedupe lookups and the
// per-user listing endpoints.
var lookupIndexes = []compositeIndex{
	{"notifications", "idx_notifications_dedupe", "user_id, type, related_type, related_id"},
	{"notifications", "idx_notifications_user_unread", "user_id, is_read"},
	{"reminders", "idx_reminders_dedupe", "user_id, type, related_type, related_id, remind_at"},
	{"reminders", "idx_reminders_user_pending", "user_id, is_read, remind_at"},
	{"activity_logs", "idx_activity_logs_user_created", "user_id, created_at"},
	{"project_members", "idx_project_members_user_id", "user_id"},
	{"task_assignments", "idx_task_assignments_user_id", "user_id"},
}

// AddIndexes creates the composite indexes that AutoMigrate cannot express
// through struct tags. Existing indexes are left alone.
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	for _, idx := range lookupIndexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			log.Debug("Index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("Created index", zap.String("index", idx.name), zap.String("table", idx.table), zap.String("columns", idx.columns))
	}

	return nil
}
