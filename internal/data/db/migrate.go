package db

import (
	"fmt"

	types "github.com/tolgee/tolgee-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return EnsureActivityIndexes(db)
}

// EnsureActivityIndexes creates the indexes behind the project feed and the
// daily aggregation. Both Postgres and SQLite support partial indexes.
func EnsureActivityIndexes(db *gorm.DB) error {
	// Project feed: visible interactive revisions only.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_activity_revision_project_feed
		ON activity_revision (project_id, timestamp)
		WHERE type IS NOT NULL AND batch_job_chunk_execution_id IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_activity_revision_project_feed: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_activity_modified_entity_revision_class
		ON activity_modified_entity (activity_revision_id, entity_class);
	`).Error; err != nil {
		return fmt.Errorf("create idx_activity_modified_entity_revision_class: %w", err)
	}
	return nil
}
