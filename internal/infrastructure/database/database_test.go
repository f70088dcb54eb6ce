package database

import (
	"path/filepath"
	"testing"

	"hospital-queue/config"
	"hospital-queue/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnection_SQLiteFilePersists(t *testing.T) {
	cfg := config.DBConfig{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "hospital.db")}

	db, err := NewConnection(cfg, "test")
	require.NoError(t, err)
	require.NoError(t, db.Create(&entity.Doctor{Name: "Dr. Lee", Specialization: "Cardiology"}).Error)
	Close(db)

	db, err = NewConnection(cfg, "test")
	require.NoError(t, err)
	defer Close(db)

	var doctors []entity.Doctor
	require.NoError(t, db.Find(&doctors).Error)
	require.Len(t, doctors, 1)
	assert.Equal(t, "Dr. Lee", doctors[0].Name)
}

func TestNewConnection_UnsupportedDriver(t *testing.T) {
	_, err := NewConnection(config.DBConfig{Driver: "mysql"}, "test")
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestPostgresDSN(t *testing.T) {
	dsn := postgresDSN(config.DBConfig{Host: "db", Port: "5432", User: "clinic", Password: "secret", Name: "hospital"})
	assert.Equal(t, "host=db user=clinic password=secret dbname=hospital port=5432 sslmode=disable TimeZone=UTC", dsn)

	dsn = postgresDSN(config.DBConfig{Host: "db", Port: "5432", Name: "hospital", SSLMode: "require"})
	assert.Contains(t, dsn, "sslmode=require")
}

func TestClose_NilIsNoop(t *testing.T) {
	assert.NotPanics(t, func() { Close(nil) })
}
