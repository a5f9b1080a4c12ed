package infra

import (
	"fmt"

	"github.com/01-Gira/store-app-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs the schema
// migration and seeds the default sale location when none exists.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations applies the schema and the pieces AutoMigrate cannot
// express. It is idempotent; integration tests call it against throwaway
// databases.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Product{},
		&model.Location{},
		&model.InventoryLevel{},
		&model.Customer{},
		&model.Transaction{},
		&model.TransactionItem{},
		&model.LoyaltyLedgerEntry{},
		&model.StockMovement{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// Receipt numbers come from a dedicated sequence so concurrent
	// settlements never collide on the unique index.
	if err := db.Exec(`CREATE SEQUENCE IF NOT EXISTS transaction_number_seq`).Error; err != nil {
		return fmt.Errorf("create sequence: %w", err)
	}

	return ensureDefaultLocation(db)
}

// ensureDefaultLocation seeds a "Main store" default location on first boot
// so settlement always has a sale location to fall back to.
func ensureDefaultLocation(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Location{}).Where("is_default = true").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.Create(&model.Location{Name: "Main store", IsDefault: true}).Error
}
