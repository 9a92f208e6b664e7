package models

import (
	"github.com/cashdesk/backend/internal/domain/category"
	"github.com/google/uuid"
)

// CategoryModel is the persistence model for category nodes
type CategoryModel struct {
	ProjectModel
	Kind         string     `gorm:"type:varchar(32);not null;index:idx_categories_project_kind,priority:2"`
	Label        string     `gorm:"type:varchar(255);not null"`
	ParentID     *uuid.UUID `gorm:"type:uuid;index"`
	DisplayOrder int        `gorm:"not null;default:0"`
	Active       bool       `gorm:"not null;default:true"`
}

// TableName specifies the table name
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the model to a domain category node
func (m *CategoryModel) ToDomain() *category.Node {
	return &category.Node{
		ID:           m.ID,
		ProjectID:    m.ProjectID,
		Kind:         category.Kind(m.Kind),
		Label:        m.Label,
		ParentID:     m.ParentID,
		DisplayOrder: m.DisplayOrder,
		Active:       m.Active,
	}
}
