// Package database wraps all persistence behind a Store handle. Controllers
// receive a *Store instead of reaching for a package-level DB so tests can
// run against an in-memory database.
package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"teamserver/errs"
	"teamserver/models"
)

// Store is the persistence handle for operators, tasks and implants.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// Connect opens a Postgres-backed store and migrates the schema.
func Connect(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	return newStore(db)
}

// Open builds a store on an already-opened gorm connection. Tests use this
// with the sqlite driver.
func Open(db *gorm.DB) (*Store, error) {
	return newStore(db)
}

func newStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(
		&models.Operator{},
		&models.Task{},
		&models.Implant{},
	); err != nil {
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

// upstream tags a storage failure as retryable for the response boundary.
func upstream(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", errs.ErrUpstream, err)
}
