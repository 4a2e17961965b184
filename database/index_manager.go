package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/sahrati/reservation-backend/models"
)

// EnsureIndexes creates the query-path indexes AutoMigrate's struct tags
// do not cover. The availability resolver scans confirmed reservations
// by date on every booking, so that path gets a dedicated index.
func EnsureIndexes(db *gorm.DB) error {
	type namedIndex struct {
		name string
		stmt string
	}

	indexes := []namedIndex{
		{
			name: "idx_reservations_date_status",
			stmt: "CREATE INDEX idx_reservations_date_status ON reservations (reservation_date, status)",
		},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(&models.Reservation{}, idx.name) {
			continue
		}
		if err := db.Exec(idx.stmt).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}
	return nil
}
