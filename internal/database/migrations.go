package database

import (
	"fleetdesk/internal/logger"
)

// CreateIndexes creates additional indexes that GORM doesn't create
// automatically
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		// one OPEN task per (vehicle, task type)
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_vehicle_tasks_open_unique ON vehicle_tasks(vehicle_id, task_type_id) WHERE status = 'OPEN' AND deleted_at IS NULL",
		"CREATE INDEX IF NOT EXISTS idx_mileage_entries_vehicle_observed ON mileage_entries(vehicle_id, observed_at DESC, id DESC)",
		"CREATE INDEX IF NOT EXISTS idx_assignments_vehicle_status ON assignments(vehicle_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_vehicle_bookings_vehicle_window ON vehicle_bookings(vehicle_id, starts_at, ends_at)",
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			log.Warn("Failed to create index", "sql", indexSQL, "error", err)
			// Continue with other indexes even if one fails
		}
	}

	log.Info("Additional database indexes created")
	return nil
}
