package usecase

import (
	"context"
	"errors"

	"hospital-queue/internal/converter"
	"hospital-queue/internal/delivery/dto"
	"hospital-queue/internal/domain/repository"
	"hospital-queue/pkg/validator"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrAuditLogNotFound = errors.New("audit log not found")

const defaultAuditLogLimit = 100

type AuditLogUsecase interface {
	GetAllAuditLogs(ctx context.Context, query *dto.AuditLogQuery) (*dto.AuditLogListResponse, error)
	GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	validator    *validator.CustomValidator
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		validator:    validator,
		auditLogRepo: auditLogRepo,
	}
}

// GetAllAuditLogs lists the newest entries first. A nil query or a zero limit
// returns the latest defaultAuditLogLimit entries.
func (u *auditLogUsecase) GetAllAuditLogs(ctx context.Context, query *dto.AuditLogQuery) (*dto.AuditLogListResponse, error) {
	if query == nil {
		query = &dto.AuditLogQuery{}
	}
	if err := validate(u.validator, query); err != nil {
		return nil, err
	}

	filter := repository.AuditLogFilter{
		Action: query.Action,
		Actor:  query.Actor,
		Limit:  query.Limit,
	}
	if filter.Limit == 0 {
		filter.Limit = defaultAuditLogLimit
	}

	logs, err := u.auditLogRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to find audit logs: %+v", err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}

func (u *auditLogUsecase) GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	auditLog, err := u.auditLogRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find audit log %d: %+v", id, err)
		return nil, err
	}
	if auditLog == nil {
		return nil, ErrAuditLogNotFound
	}

	return converter.AuditLogToResponse(auditLog), nil
}
