package dto

// Request DTOs

type CreateDoctorRequest struct {
	Name           string `json:"name" validate:"required"`
	Specialization string `json:"specialization" validate:"required"`
}

// Response DTOs

type DoctorResponse struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
