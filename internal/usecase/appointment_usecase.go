package usecase

import (
	"context"

	"hospital-queue/internal/converter"
	"hospital-queue/internal/delivery/dto"
	"hospital-queue/internal/domain/entity"
	"hospital-queue/internal/domain/queue"
	"hospital-queue/internal/domain/repository"
	"hospital-queue/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AppointmentUsecase interface {
	ListAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
	ClearPatientsAndAppointments(ctx context.Context) (*dto.ClearResponse, error)
	ResetAll(ctx context.Context) error
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	patientRepo     repository.PatientRepository
	appointmentRepo repository.AppointmentRepository
	storeRepo       repository.StoreRepository
	sequenceService *service.SequenceService
	auditService    service.AuditService
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	appointmentRepo repository.AppointmentRepository,
	storeRepo repository.StoreRepository,
	sequenceService *service.SequenceService,
	auditService service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		patientRepo:     patientRepo,
		appointmentRepo: appointmentRepo,
		storeRepo:       storeRepo,
		sequenceService: sequenceService,
		auditService:    auditService,
	}
}

// ListAppointments returns every appointment ordered by doctor name, then
// appointment number.
func (u *appointmentUsecase) ListAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	views, err := u.appointmentRepo.FindAllViews(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, err
	}

	// The query already orders rows, but database collations differ.
	queue.SortAppointments(views)

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentViewsToResponses(views),
		Total:        len(views),
	}, nil
}

// ClearPatientsAndAppointments deletes every patient and appointment; doctors
// stay. Numbering restarts at 1 for every doctor.
func (u *appointmentUsecase) ClearPatientsAndAppointments(ctx context.Context) (*dto.ClearResponse, error) {
	result := &dto.ClearResponse{}
	actor := actorFromContext(ctx)

	err := u.sequenceService.ResetWith(ctx, func() error {
		return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			if result.DeletedAppointments, err = u.appointmentRepo.DeleteAll(tx); err != nil {
				u.log.Warnf("Failed to delete appointments: %+v", err)
				return err
			}
			if result.DeletedPatients, err = u.patientRepo.DeleteAll(tx); err != nil {
				u.log.Warnf("Failed to delete patients: %+v", err)
				return err
			}

			if err := u.auditService.LogEvent(ctx, tx, actor, entity.AuditActionScheduleClear, entity.JSON{
				"deleted_appointments": result.DeletedAppointments,
				"deleted_patients":     result.DeletedPatients,
			}); err != nil {
				u.log.Warnf("Failed to create audit log: %+v", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Schedules cleared: appointments=%d, patients=%d", result.DeletedAppointments, result.DeletedPatients)
	return result, nil
}

// ResetAll wipes every record, doctors and audit trail included.
func (u *appointmentUsecase) ResetAll(ctx context.Context) error {
	actor := actorFromContext(ctx)

	err := u.sequenceService.ResetWith(ctx, func() error {
		if err := u.storeRepo.ResetAll(u.db.WithContext(ctx)); err != nil {
			u.log.Warnf("Failed to reset store: %+v", err)
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := u.auditService.LogEvent(ctx, u.db, actor, entity.AuditActionSystemReset, nil); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	u.log.Info("Record store reset")
	return nil
}
