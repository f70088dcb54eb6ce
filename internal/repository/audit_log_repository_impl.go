package repository

import (
	"errors"

	"hospital-queue/internal/domain/entity"
	domainRepo "hospital-queue/internal/domain/repository"

	"gorm.io/gorm"
)

type auditLogRepository struct{}

func NewAuditLogRepository() domainRepo.AuditLogRepository {
	return &auditLogRepository{}
}

func (r *auditLogRepository) Create(db *gorm.DB, log *entity.AuditLog) error {
	return db.Create(log).Error
}

// FindAll returns matching entries, newest first.
func (r *auditLogRepository) FindAll(db *gorm.DB, filter domainRepo.AuditLogFilter) ([]entity.AuditLog, error) {
	query := db.Model(&entity.AuditLog{})
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.Actor != "" {
		query = query.Where("actor = ?", filter.Actor)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var logs []entity.AuditLog
	if err := query.Order("id DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *auditLogRepository) FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error) {
	var log entity.AuditLog
	err := db.First(&log, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}
