package dto

import (
	"bytes"
	"encoding/json"
)

// Request DTOs

// RegisterPatientRequest registers a patient and queues them for a doctor.
// Age arrives as text from data-entry clients and is parsed by the usecase.
type RegisterPatientRequest struct {
	Name     string   `json:"name" validate:"required"`
	Age      AgeInput `json:"age" validate:"required"`
	DoctorID uint     `json:"doctor_id" validate:"required"`
}

// AgeInput accepts a JSON string or a bare JSON number and keeps its text.
type AgeInput string

func (a *AgeInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = AgeInput(s)
		return nil
	}
	*a = AgeInput(data)
	return nil
}

// Response DTOs

type RegistrationResponse struct {
	PatientID         uint   `json:"patient_id"`
	AppointmentID     uint   `json:"appointment_id"`
	AppointmentNumber int    `json:"appointment_number"`
	DoctorID          uint   `json:"doctor_id"`
	DoctorName        string `json:"doctor_name"`
}
