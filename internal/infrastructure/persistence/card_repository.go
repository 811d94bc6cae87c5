package persistence

import (
	"context"
	"errors"

	"github.com/financas/backend/internal/domain/ledger"
	"github.com/financas/backend/internal/domain/shared"
	"github.com/financas/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCardRepository implements ledger.CardRepository using GORM
type GormCardRepository struct {
	db *gorm.DB
}

// NewGormCardRepository creates a new GormCardRepository
func NewGormCardRepository(db *Database) *GormCardRepository {
	return &GormCardRepository{db: db.DB}
}

// FindByID finds a card by its ID
func (r *GormCardRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Card, error) {
	var model models.CardModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUser finds a card by ID scoped to its owning user
func (r *GormCardRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*ledger.Card, error) {
	var model models.CardModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForUser lists a user's cards with filtering
func (r *GormCardRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]ledger.Card, error) {
	var cardModels []models.CardModel
	query := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&models.CardModel{}).
		Where("user_id = ?", userID)
	query = applyFilter(query, filter, "name")

	if err := query.Find(&cardModels).Error; err != nil {
		return nil, err
	}
	cards := make([]ledger.Card, len(cardModels))
	for i, model := range cardModels {
		cards[i] = *model.ToDomain()
	}
	return cards, nil
}

// FindActiveForUser lists a user's active cards ordered by name
func (r *GormCardRepository) FindActiveForUser(ctx context.Context, userID uuid.UUID) ([]ledger.Card, error) {
	var cardModels []models.CardModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Order("name ASC").
		Find(&cardModels).Error; err != nil {
		return nil, err
	}
	cards := make([]ledger.Card, len(cardModels))
	for i, model := range cardModels {
		cards[i] = *model.ToDomain()
	}
	return cards, nil
}

// Save creates or updates a card
func (r *GormCardRepository) Save(ctx context.Context, card *ledger.Card) error {
	model := models.CardModelFromDomain(card)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(model).Error
}

// Delete removes a card
func (r *GormCardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).WithContext(ctx).
		Delete(&models.CardModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormCardRepository implements CardRepository
var _ ledger.CardRepository = (*GormCardRepository)(nil)
