// Package db opens the relational store and manages its schema.
package db

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"apiservices/internal/config"
)

// Open connects to the configured driver.
func Open(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case config.DriverMySQL:
		return NewMySQL(dsn)
	case config.DriverSQLite:
		return NewSQLite(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

// Migrate creates or updates the tables for models. When reset is set the
// tables are dropped first.
func Migrate(gormDB *gorm.DB, reset bool, models ...interface{}) error {
	if reset {
		slog.Warn("RESET_DB=true detected, dropping tables", slog.Int("count", len(models)))
		for _, m := range models {
			if err := gormDB.Migrator().DropTable(m); err != nil {
				slog.Warn("drop table failed (may not exist)", slog.String("error", err.Error()))
			}
		}
	}
	if err := gormDB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
}
