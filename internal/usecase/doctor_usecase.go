package usecase

import (
	"context"
	"strconv"
	"strings"

	"hospital-queue/internal/converter"
	"hospital-queue/internal/delivery/dto"
	"hospital-queue/internal/domain/entity"
	"hospital-queue/internal/domain/repository"
	"hospital-queue/internal/service"
	"hospital-queue/pkg/validator"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type DoctorUsecase interface {
	CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
	GetDoctorQueue(ctx context.Context, doctorID uint) (*dto.AppointmentListResponse, error)
}

type doctorUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	validator       *validator.CustomValidator
	doctorRepo      repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		db:              db,
		log:             log,
		validator:       validator,
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
	}
}

func (u *doctorUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	input := dto.CreateDoctorRequest{
		Name:           strings.TrimSpace(req.Name),
		Specialization: strings.TrimSpace(req.Specialization),
	}
	if err := validate(u.validator, &input); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor := &entity.Doctor{
		Name:           input.Name,
		Specialization: input.Specialization,
	}
	if err := u.doctorRepo.Create(tx, doctor); err != nil {
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}

	actor := actorFromContext(ctx)
	if err := u.auditService.LogCreate(ctx, tx, actor, entity.AuditActionDoctorCreate, "doctor", strconv.FormatUint(uint64(doctor.ID), 10), converter.DoctorToResponse(doctor)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Doctor created: id=%d, name=%q", doctor.ID, doctor.Name)
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

// GetDoctorQueue lists one doctor's appointments in queue order.
func (u *doctorUsecase) GetDoctorQueue(ctx context.Context, doctorID uint) (*dto.AppointmentListResponse, error) {
	db := u.db.WithContext(ctx)

	doctor, err := u.doctorRepo.FindByID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %d: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	views, err := u.appointmentRepo.FindViewsByDoctor(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %d: %+v", doctorID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentViewsToResponses(views),
		Total:        len(views),
	}, nil
}
