package models

import (
	"time"

	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// ProjectModel provides common persistence fields for project-scoped rows
type ProjectModel struct {
	BaseModel
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// ToDomainProjectEntity converts ProjectModel to domain ProjectEntity
func (m *ProjectModel) ToDomainProjectEntity() shared.ProjectEntity {
	return shared.ProjectEntity{
		BaseEntity: m.BaseModel.ToDomain(),
		ProjectID:  m.ProjectID,
	}
}

// FromDomainProjectEntity populates ProjectModel from domain ProjectEntity
func (m *ProjectModel) FromDomainProjectEntity(e shared.ProjectEntity) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.ProjectID = e.ProjectID
}
