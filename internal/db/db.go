package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"seating-backend/config"
	"seating-backend/internal/model"
)

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	log.Println("Running database migrations...")
	if err := db.AutoMigrate(
		&model.Layout{},
		&model.Section{},
		&model.Seat{},
		&model.LayoutActivation{},
		&model.Reservation{},
		&model.SeatPreference{},
		&model.WaitlistEntry{},
		&model.SeatAllocation{},
		&model.PushSubscription{},
	); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	if cfg.EnableOverlapConstraint {
		log.Println("Applying the allocation overlap exclusion constraint...")
		if err := applyOverlapConstraint(db); err != nil {
			log.Printf("Warning: failed to apply the overlap constraint: %v. Continuing without it.", err)
		}
	}

	log.Println("Database initialization complete.")
	return db, nil
}

// applyOverlapConstraint makes Postgres itself reject two active
// allocations of the same seat with overlapping [start, end) windows.
// The engine already guarantees this; the constraint catches any write
// that bypasses it.
func applyOverlapConstraint(db *gorm.DB) error {
	ddls := []string{
		"CREATE EXTENSION IF NOT EXISTS btree_gist;",

		"ALTER TABLE seat_allocations " +
			"ADD CONSTRAINT seat_allocations_window_valid CHECK (start_time < end_time);",

		"ALTER TABLE seat_allocations " +
			"ADD CONSTRAINT seat_allocations_no_overlap EXCLUDE USING GIST " +
			"(seat_id WITH =, tstzrange(start_time, end_time, '[)') WITH &&) " +
			"WHERE (released_at IS NULL);",

		"CREATE INDEX idx_seat_allocations_seat_window ON seat_allocations (seat_id, start_time DESC);",
	}

	for _, ddl := range ddls {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("DDL failed on %q: %w", ddl, err)
		}
	}
	return nil
}
