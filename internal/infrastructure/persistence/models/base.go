package models

import (
	"time"

	"github.com/financas/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// AggregateModel extends BaseModel with a version for optimistic locking
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// UserAggregateModel provides common persistence fields for user-owned
// aggregate roots
type UserAggregateModel struct {
	AggregateModel
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// FromDomainUserAggregateRoot populates the model from a domain UserAggregateRoot
func (m *UserAggregateModel) FromDomainUserAggregateRoot(u shared.UserAggregateRoot) {
	m.ID = u.ID
	m.CreatedAt = u.CreatedAt
	m.UpdatedAt = u.UpdatedAt
	m.Version = u.Version
	m.UserID = u.UserID
}

// ToDomainUserAggregateRoot converts the model's common fields back to the domain
func (m *UserAggregateModel) ToDomainUserAggregateRoot() shared.UserAggregateRoot {
	return shared.UserAggregateRoot{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		UserID: m.UserID,
	}
}
