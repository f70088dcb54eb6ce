package repository

import (
	"hospital-queue/internal/domain/entity"
	domainRepo "hospital-queue/internal/domain/repository"

	"gorm.io/gorm"
)

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) Create(db *gorm.DB, patient *entity.Patient) error {
	return db.Create(patient).Error
}

func (r *patientRepository) Count(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&entity.Patient{}).Count(&count).Error
	return count, err
}

// DeleteAll removes every patient. Appointments must be deleted first.
func (r *patientRepository) DeleteAll(db *gorm.DB) (int64, error) {
	result := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entity.Patient{})
	return result.RowsAffected, result.Error
}
