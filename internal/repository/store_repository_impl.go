package repository

import (
	"fmt"

	"hospital-queue/internal/domain/entity"
	domainRepo "hospital-queue/internal/domain/repository"

	"gorm.io/gorm"
)

type storeRepository struct{}

func NewStoreRepository() domainRepo.StoreRepository {
	return &storeRepository{}
}

// ResetAll wipes every table, doctors included, and restarts id generation so
// the store looks freshly created.
func (r *storeRepository) ResetAll(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		switch tx.Dialector.Name() {
		case "postgres":
			if err := tx.Exec("TRUNCATE TABLE appointments, patients, doctors, audit_logs RESTART IDENTITY CASCADE").Error; err != nil {
				return fmt.Errorf("truncate tables: %w", err)
			}
			return nil
		default:
			all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
			for _, model := range []interface{}{&entity.Appointment{}, &entity.Patient{}, &entity.Doctor{}, &entity.AuditLog{}} {
				if err := all.Delete(model).Error; err != nil {
					return fmt.Errorf("delete %T: %w", model, err)
				}
			}
			if tx.Dialector.Name() == "sqlite" {
				if err := tx.Exec("DELETE FROM sqlite_sequence WHERE name IN ('appointments', 'patients', 'doctors', 'audit_logs')").Error; err != nil {
					return fmt.Errorf("reset sqlite sequences: %w", err)
				}
			}
			return nil
		}
	})
}
