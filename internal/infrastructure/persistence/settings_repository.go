package persistence

import (
	"context"
	"errors"

	"github.com/cashdesk/backend/internal/domain/ledger"
	"github.com/cashdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettingsRepository implements ledger.SettingsRepository using GORM
type GormSettingsRepository struct {
	db          *gorm.DB
	defaultDays int
}

// SettingsRepositoryOption is a functional option for the repository
type SettingsRepositoryOption func(*GormSettingsRepository)

// WithDefaultAllowedPastDays overrides the editable window applied to
// projects that have not stored their own lock record
func WithDefaultAllowedPastDays(days int) SettingsRepositoryOption {
	return func(r *GormSettingsRepository) {
		r.defaultDays = days
	}
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB, opts ...SettingsRepositoryOption) *GormSettingsRepository {
	r := &GormSettingsRepository{
		db:          db,
		defaultDays: ledger.DefaultAllowedPastDays,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ ledger.SettingsRepository = (*GormSettingsRepository)(nil)

// GetDateLock returns the project's lock record, or the default record
// when none has been stored yet.
func (r *GormSettingsRepository) GetDateLock(ctx context.Context, projectID uuid.UUID) (*ledger.DateLock, error) {
	var model models.ProjectSettingsModel
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			lock := ledger.NewDateLock(projectID)
			lock.AllowedPastDays = r.defaultDays
			return lock, nil
		}
		return nil, err
	}
	return model.ToDateLock(), nil
}

// SaveDateLock upserts the project's lock record
func (r *GormSettingsRepository) SaveDateLock(ctx context.Context, lock *ledger.DateLock) error {
	model := models.ProjectSettingsModelFromDateLock(lock)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}},
			UpdateAll: true,
		}).
		Create(model).Error
}
