package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"hospital-queue/internal/delivery/dto"
	"hospital-queue/internal/domain/repository"
	"hospital-queue/internal/usecase"
	"hospital-queue/pkg/response"
)

type PatientHandler struct {
	registrationUsecase usecase.RegistrationUsecase
}

func NewPatientHandler(registrationUsecase usecase.RegistrationUsecase) *PatientHandler {
	return &PatientHandler{
		registrationUsecase: registrationUsecase,
	}
}

func (h *PatientHandler) RegisterPatient(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	registration, err := h.registrationUsecase.RegisterPatient(r.Context(), &req)
	if err != nil {
		if writeValidationError(w, err) {
			return
		}
		if errors.Is(err, repository.ErrDuplicateAppointmentNumber) {
			response.Error(w, http.StatusConflict, "Appointment number already issued, retry the registration", nil)
			return
		}
		response.InternalServerError(w, "Failed to register patient")
		return
	}

	response.Success(w, http.StatusCreated, "Patient added and appointment created", registration)
}
