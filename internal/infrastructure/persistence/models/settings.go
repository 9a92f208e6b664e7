package models

import (
	"time"

	"github.com/cashdesk/backend/internal/domain/ledger"
	"github.com/google/uuid"
)

// ProjectSettingsModel stores per-project ledger settings. One row per
// project, created lazily on the first settings write.
type ProjectSettingsModel struct {
	ProjectID       uuid.UUID `gorm:"type:uuid;primary_key"`
	AllowedPastDays int       `gorm:"not null"`
	UnlockExpiresAt *time.Time
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName specifies the table name
func (ProjectSettingsModel) TableName() string {
	return "project_settings"
}

// ToDateLock converts the model to a domain date lock
func (m *ProjectSettingsModel) ToDateLock() *ledger.DateLock {
	return &ledger.DateLock{
		ProjectID:       m.ProjectID,
		AllowedPastDays: m.AllowedPastDays,
		UnlockExpiresAt: m.UnlockExpiresAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// ProjectSettingsModelFromDateLock creates a model from a domain date lock
func ProjectSettingsModelFromDateLock(l *ledger.DateLock) *ProjectSettingsModel {
	return &ProjectSettingsModel{
		ProjectID:       l.ProjectID,
		AllowedPastDays: l.AllowedPastDays,
		UnlockExpiresAt: l.UnlockExpiresAt,
		UpdatedAt:       l.UpdatedAt,
	}
}
