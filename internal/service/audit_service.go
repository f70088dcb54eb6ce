package service

import (
	"context"

	"hospital-queue/internal/domain/entity"
	"hospital-queue/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuditService interface {
	LogCreate(ctx context.Context, tx *gorm.DB, actor string, action string, entityName string, entityID string, newValue interface{}) error
	LogEvent(ctx context.Context, tx *gorm.DB, actor string, action string, details entity.JSON) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

// LogCreate logs a create action
func (s *auditService) LogCreate(ctx context.Context, tx *gorm.DB, actor string, action string, entityName string, entityID string, newValue interface{}) error {
	metadata := entity.JSON{
		"entity":    entityName,
		"entity_id": entityID,
		"new_value": newValue,
	}

	return s.create(ctx, tx, actor, action, metadata)
}

// LogEvent logs an action that is not tied to a single record, such as a bulk
// delete.
func (s *auditService) LogEvent(ctx context.Context, tx *gorm.DB, actor string, action string, details entity.JSON) error {
	return s.create(ctx, tx, actor, action, details)
}

func (s *auditService) create(ctx context.Context, tx *gorm.DB, actor string, action string, metadata entity.JSON) error {
	auditLog := &entity.AuditLog{
		Actor:    actor,
		Action:   action,
		Metadata: metadata,
	}

	if err := s.auditRepo.Create(tx.WithContext(ctx), auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
