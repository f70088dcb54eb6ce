package entity

import "time"

// Appointment links a patient to a doctor's first-come-first-served queue.
// AppointmentNumber is unique per doctor; the composite index enforces it in
// the store as well.
type Appointment struct {
	ID                uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID         uint       `gorm:"not null;index" json:"patient_id"`
	DoctorID          uint       `gorm:"not null;uniqueIndex:idx_appointments_doctor_number" json:"doctor_id"`
	AppointmentNumber int        `gorm:"not null;uniqueIndex:idx_appointments_doctor_number" json:"appointment_number"`
	StartTime         *time.Time `json:"start_time,omitempty"`
	EndTime           *time.Time `json:"end_time,omitempty"`

	// Relationships
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  Doctor  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// AppointmentView is an appointment joined with its patient and doctor.
type AppointmentView struct {
	AppointmentID     uint
	AppointmentNumber int
	PatientName       string
	PatientAge        int
	DoctorID          uint
	DoctorName        string
	Specialization    string
	StartTime         *time.Time
	EndTime           *time.Time
}
