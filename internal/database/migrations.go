package database

import (
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RunMigrations runs custom data migrations after schema changes.
func RunMigrations(db *gorm.DB) error {
	if err := backfillRevisions(db, "watchlist_entries"); err != nil {
		return err
	}
	if err := backfillRevisions(db, "favorite_entries"); err != nil {
		return err
	}
	return nil
}

// backfillRevisions assigns a revision token to rows created before safe
// removes existed. Safe to run multiple times: it only touches rows where the
// revision is NULL or empty.
func backfillRevisions(db *gorm.DB, table string) error {
	if !db.Migrator().HasTable(table) {
		return nil
	}

	var ids []string
	if err := db.Table(table).Where("revision IS NULL OR revision = ''").Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	for _, id := range ids {
		result := db.Table(table).Where("id = ?", id).Update("revision", uuid.NewString())
		if result.Error != nil {
			log.Printf("Warning: failed to backfill revision for %s row %s: %v", table, id, result.Error)
		}
	}

	log.Printf("Backfilled revision tokens for %d %s rows", len(ids), table)
	return nil
}
