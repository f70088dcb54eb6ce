package database

import (
	"fmt"

	"hospital-queue/config"
	"hospital-queue/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewConnection opens the record store selected by cfg.Driver and migrates
// its schema.
func NewConnection(cfg config.DBConfig, env string) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel(env)),
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case config.DriverSQLite, "":
		db, err = NewSQLiteConnection(cfg.Path, gormConfig)
	case config.DriverPostgres:
		db, err = NewPostgresConnection(cfg, gormConfig)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		Close(db)
		return nil, err
	}

	return db, nil
}

func logLevel(env string) logger.LogLevel {
	if env == "development" {
		return logger.Info
	}
	return logger.Warn
}

// Migrate creates or updates the doctors, patients, appointments and
// audit_logs tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&entity.Doctor{},
		&entity.Patient{},
		&entity.Appointment{},
		&entity.AuditLog{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logrus.Warnf("Failed to close database: %+v", err)
	}
}
