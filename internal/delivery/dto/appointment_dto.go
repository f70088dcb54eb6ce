package dto

// Response DTOs

// AppointmentResponse is one row of the schedule view. StartTime and EndTime
// are "-" until a time slot is assigned.
type AppointmentResponse struct {
	ID                uint   `json:"id"`
	AppointmentNumber int    `json:"appointment_number"`
	PatientName       string `json:"patient_name"`
	PatientAge        int    `json:"patient_age"`
	DoctorID          uint   `json:"doctor_id"`
	DoctorName        string `json:"doctor_name"`
	Specialization    string `json:"specialization"`
	StartTime         string `json:"start_time"`
	EndTime           string `json:"end_time"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type ClearResponse struct {
	DeletedAppointments int64 `json:"deleted_appointments"`
	DeletedPatients     int64 `json:"deleted_patients"`
}
