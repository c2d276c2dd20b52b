package postgres

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"licensing-core/types"
)

// One ACTIVE contract per (client, system); the index makes the
// check-then-insert race lose at the database instead of silently
// inserting a duplicate.
const oneActivePerClientSystemIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS idx_contracts_one_active
ON contracts (client_id, software_system_id)
WHERE status = 'ACTIVE'`

// InitDB opens the Postgres connection and prepares the schema.
// dsn format: "host=localhost user=postgres password=root dbname=mydb port=5432 sslmode=disable"
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Duplicate-key violations come back as gorm.ErrDuplicatedKey.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect db failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&types.Client{},
		&types.SoftwareSystem{},
		&types.SoftwareVersion{},
		&types.Discount{},
		&types.Contract{},
		&types.Payment{},
	); err != nil {
		return nil, fmt.Errorf("migrate failed: %w", err)
	}
	if err := db.Exec(oneActivePerClientSystemIndex).Error; err != nil {
		return nil, fmt.Errorf("create active-contract index failed: %w", err)
	}

	slog.Info("PostgreSQL connected successfully")
	return db, nil
}
