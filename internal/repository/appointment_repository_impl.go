package repository

import (
	"errors"

	"hospital-queue/internal/domain/entity"
	domainRepo "hospital-queue/internal/domain/repository"

	"gorm.io/gorm"
)

const appointmentViewColumns = `
	appointments.id AS appointment_id,
	appointments.appointment_number,
	patients.name AS patient_name,
	patients.age AS patient_age,
	doctors.id AS doctor_id,
	doctors.name AS doctor_name,
	doctors.specialization,
	appointments.start_time,
	appointments.end_time
`

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	err := db.Omit("Patient", "Doctor").Create(appointment).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainRepo.ErrDuplicateAppointmentNumber
	}
	return err
}

// MaxNumberByDoctor returns the highest appointment number issued for the
// doctor, or 0 when the doctor has none.
func (r *appointmentRepository) MaxNumberByDoctor(db *gorm.DB, doctorID uint) (int, error) {
	var max int
	err := db.Model(&entity.Appointment{}).
		Select("COALESCE(MAX(appointment_number), 0)").
		Where("doctor_id = ?", doctorID).
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}

// MaxNumbers pages through per-doctor maxima, ordered by doctor id.
func (r *appointmentRepository) MaxNumbers(db *gorm.DB, limit, offset int) ([]domainRepo.DoctorMaxNumber, error) {
	var results []domainRepo.DoctorMaxNumber
	err := db.Model(&entity.Appointment{}).
		Select("doctor_id, MAX(appointment_number) AS max_number").
		Group("doctor_id").
		Order("doctor_id").
		Limit(limit).
		Offset(offset).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *appointmentRepository) joinedViews(db *gorm.DB) *gorm.DB {
	return db.Table("appointments").
		Select(appointmentViewColumns).
		Joins("JOIN patients ON patients.id = appointments.patient_id").
		Joins("JOIN doctors ON doctors.id = appointments.doctor_id")
}

func (r *appointmentRepository) FindAllViews(db *gorm.DB) ([]entity.AppointmentView, error) {
	var views []entity.AppointmentView
	err := r.joinedViews(db).
		Order("doctors.name ASC").
		Order("appointments.appointment_number ASC").
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (r *appointmentRepository) FindViewsByDoctor(db *gorm.DB, doctorID uint) ([]entity.AppointmentView, error) {
	var views []entity.AppointmentView
	err := r.joinedViews(db).
		Where("appointments.doctor_id = ?", doctorID).
		Order("appointments.appointment_number ASC").
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (r *appointmentRepository) DeleteAll(db *gorm.DB) (int64, error) {
	result := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entity.Appointment{})
	return result.RowsAffected, result.Error
}
