package repository

import (
	"hospital-queue/internal/domain/entity"

	"gorm.io/gorm"
)

// DoctorMaxNumber pairs a doctor with the highest appointment number issued.
type DoctorMaxNumber struct {
	DoctorID  uint
	MaxNumber int
}

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	MaxNumberByDoctor(db *gorm.DB, doctorID uint) (int, error)
	MaxNumbers(db *gorm.DB, limit, offset int) ([]DoctorMaxNumber, error)
	FindAllViews(db *gorm.DB) ([]entity.AppointmentView, error)
	FindViewsByDoctor(db *gorm.DB, doctorID uint) ([]entity.AppointmentView, error)
	DeleteAll(db *gorm.DB) (int64, error)
}
