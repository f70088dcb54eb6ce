package repository

import (
	"hospital-queue/internal/domain/entity"

	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(db *gorm.DB, patient *entity.Patient) error
	Count(db *gorm.DB) (int64, error)
	DeleteAll(db *gorm.DB) (int64, error)
}
