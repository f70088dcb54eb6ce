package repository

import (
	"hospital-queue/internal/domain/entity"

	"gorm.io/gorm"
)

// AuditLogFilter narrows an audit log listing. Zero values match everything;
// a zero Limit returns every row.
type AuditLogFilter struct {
	Action string
	Actor  string
	Limit  int
}

type AuditLogRepository interface {
	Create(db *gorm.DB, log *entity.AuditLog) error
	FindAll(db *gorm.DB, filter AuditLogFilter) ([]entity.AuditLog, error)
	FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error)
}
