// Package database provides Postgres connection helpers shared by the
// platform services.
package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens a Postgres connection pool. TranslateError is on so
// uniqueness violations surface as gorm.ErrDuplicatedKey, which the
// repositories map to their conflict sentinel.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Health adapts a gorm.DB to the health handler's Pinger interface.
type Health struct {
	DB *gorm.DB
}

// Ping checks the underlying connection pool.
func (h Health) Ping() error {
	sqlDB, err := h.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
