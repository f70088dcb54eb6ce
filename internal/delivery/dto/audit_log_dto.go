package dto

import (
	"time"

	"hospital-queue/internal/domain/entity"
)

// AuditLogQuery is read from the query string of the audit log listing.
type AuditLogQuery struct {
	Action string `json:"action" validate:"omitempty,max=100"`
	Actor  string `json:"actor" validate:"omitempty,max=100"`
	Limit  int    `json:"limit" validate:"omitempty,min=1,max=1000"`
}

type AuditLogResponse struct {
	ID        int64       `json:"id"`
	Actor     string      `json:"actor,omitempty"`
	Action    string      `json:"action"`
	Metadata  entity.JSON `json:"metadata"`
	CreatedAt time.Time   `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int                `json:"total"`
}
