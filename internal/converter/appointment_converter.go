package converter

import (
	"time"

	"hospital-queue/internal/delivery/dto"
	"hospital-queue/internal/domain/entity"
)

// unsetTime is shown for appointments without a time slot.
const unsetTime = "-"

func formatTime(t *time.Time) string {
	if t == nil {
		return unsetTime
	}
	return t.Format(time.RFC3339)
}

// AppointmentViewToResponse converts a joined appointment row to AppointmentResponse DTO
func AppointmentViewToResponse(view entity.AppointmentView) dto.AppointmentResponse {
	return dto.AppointmentResponse{
		ID:                view.AppointmentID,
		AppointmentNumber: view.AppointmentNumber,
		PatientName:       view.PatientName,
		PatientAge:        view.PatientAge,
		DoctorID:          view.DoctorID,
		DoctorName:        view.DoctorName,
		Specialization:    view.Specialization,
		StartTime:         formatTime(view.StartTime),
		EndTime:           formatTime(view.EndTime),
	}
}

// AppointmentViewsToResponses keeps the order of views.
func AppointmentViewsToResponses(views []entity.AppointmentView) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(views))
	for i, view := range views {
		responses[i] = AppointmentViewToResponse(view)
	}
	return responses
}
