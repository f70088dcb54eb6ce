package usecase

import (
	"context"
	"strconv"
	"strings"

	"hospital-queue/internal/delivery/dto"
	"hospital-queue/internal/domain/entity"
	"hospital-queue/internal/domain/repository"
	"hospital-queue/internal/service"
	"hospital-queue/pkg/validator"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type RegistrationUsecase interface {
	RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.RegistrationResponse, error)
}

type registrationUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	validator       *validator.CustomValidator
	doctorRepo      repository.DoctorRepository
	patientRepo     repository.PatientRepository
	appointmentRepo repository.AppointmentRepository
	sequenceService *service.SequenceService
	auditService    service.AuditService
}

func NewRegistrationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	appointmentRepo repository.AppointmentRepository,
	sequenceService *service.SequenceService,
	auditService service.AuditService,
) RegistrationUsecase {
	return &registrationUsecase{
		db:              db,
		log:             log,
		validator:       validator,
		doctorRepo:      doctorRepo,
		patientRepo:     patientRepo,
		appointmentRepo: appointmentRepo,
		sequenceService: sequenceService,
		auditService:    auditService,
	}
}

// RegisterPatient creates a patient and their appointment for the chosen
// doctor as one unit.
//
// Flow:
// 1. Validate name, age and doctor before touching the store
// 2. Lock the doctor's queue and open a transaction
// 3. Allocate the next number, insert patient and appointment
// 4. Commit; any failure rolls back both rows
func (u *registrationUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.RegistrationResponse, error) {
	input := dto.RegisterPatientRequest{
		Name:     strings.TrimSpace(req.Name),
		Age:      dto.AgeInput(strings.TrimSpace(string(req.Age))),
		DoctorID: req.DoctorID,
	}
	if err := validate(u.validator, &input); err != nil {
		return nil, err
	}

	age, err := strconv.Atoi(string(input.Age))
	if err != nil {
		return nil, newValidationError("age", "age must be a whole number")
	}

	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), input.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %d: %+v", input.DoctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, newValidationError("doctor_id", "doctor not found")
	}

	var (
		patient     *entity.Patient
		appointment *entity.Appointment
	)
	actor := actorFromContext(ctx)

	number, err := u.sequenceService.WithNextNumber(ctx, u.db, doctor.ID, func(tx *gorm.DB, number int) error {
		patient = &entity.Patient{Name: input.Name, Age: age}
		if err := u.patientRepo.Create(tx, patient); err != nil {
			u.log.Warnf("Failed to create patient: %+v", err)
			return err
		}

		appointment = &entity.Appointment{
			PatientID:         patient.ID,
			DoctorID:          doctor.ID,
			AppointmentNumber: number,
		}
		if err := u.appointmentRepo.Create(tx, appointment); err != nil {
			u.log.Warnf("Failed to create appointment for doctor %d: %+v", doctor.ID, err)
			return err
		}

		if err := u.auditService.LogCreate(ctx, tx, actor, entity.AuditActionPatientRegister, "appointment", strconv.FormatUint(uint64(appointment.ID), 10), entity.JSON{
			"patient_id":         patient.ID,
			"doctor_id":          doctor.ID,
			"appointment_number": number,
		}); err != nil {
			u.log.Warnf("Failed to create audit log: %+v", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Patient registered: patient=%d, doctor=%d, appointment_number=%d", patient.ID, doctor.ID, number)
	return &dto.RegistrationResponse{
		PatientID:         patient.ID,
		AppointmentID:     appointment.ID,
		AppointmentNumber: number,
		DoctorID:          doctor.ID,
		DoctorName:        doctor.Name,
	}, nil
}
