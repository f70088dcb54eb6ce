package handler

import (
	"net/http"

	"hospital-queue/internal/usecase"
	"hospital-queue/pkg/response"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
	}
}

func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.appointmentUsecase.ListAppointments(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) ClearAppointments(w http.ResponseWriter, r *http.Request) {
	cleared, err := h.appointmentUsecase.ClearPatientsAndAppointments(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to clear schedules")
		return
	}

	response.Success(w, http.StatusOK, "All patients and appointments deleted", cleared)
}

func (h *AppointmentHandler) ResetAll(w http.ResponseWriter, r *http.Request) {
	if err := h.appointmentUsecase.ResetAll(r.Context()); err != nil {
		response.InternalServerError(w, "Failed to reset data")
		return
	}

	response.Success(w, http.StatusOK, "All data deleted", nil)
}
