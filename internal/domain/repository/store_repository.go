package repository

import "gorm.io/gorm"

// StoreRepository covers operations spanning every table.
type StoreRepository interface {
	ResetAll(db *gorm.DB) error
}
