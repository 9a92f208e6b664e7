package persistence

import (
	"context"
	"errors"

	"github.com/cashdesk/backend/internal/domain/category"
	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/cashdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCategoryRepository implements category.Repository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

var _ category.Repository = (*GormCategoryRepository)(nil)

// FindByKind returns every declared node of the forest, active or not
func (r *GormCategoryRepository) FindByKind(ctx context.Context, projectID uuid.UUID, kind category.Kind) ([]*category.Node, error) {
	var categoryModels []models.CategoryModel
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND kind = ?", projectID, string(kind)).
		Order("display_order ASC, label ASC").
		Find(&categoryModels).Error; err != nil {
		return nil, err
	}

	nodes := make([]*category.Node, len(categoryModels))
	for i := range categoryModels {
		nodes[i] = categoryModels[i].ToDomain()
	}
	return nodes, nil
}

// FindByID loads a single node
func (r *GormCategoryRepository) FindByID(ctx context.Context, projectID, id uuid.UUID) (*category.Node, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND id = ?", projectID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}
