package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/financas/backend/internal/domain/ledger"
	"github.com/financas/backend/internal/domain/shared"
	"github.com/financas/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// signedValueExpr computes a movement's effect on a balance in SQL: receita
// and transfer-in count positive, despesa and transfer-out negative. It must
// mirror Movement.SignedValue.
const signedValueExpr = "CASE WHEN kind = 'RECEITA' OR transfer_direction = 'ENTRADA' THEN value ELSE -value END"

// GormMovementRepository implements ledger.MovementRepository using GORM
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *Database) *GormMovementRepository {
	return &GormMovementRepository{db: db.DB}
}

// FindByID finds a movement by its ID
func (r *GormMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Movement, error) {
	var model models.MovementModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUser finds a movement by ID scoped to its owning user
func (r *GormMovementRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*ledger.Movement, error) {
	var model models.MovementModel
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

// FindAllForUser lists a user's movements with filtering
func (r *GormMovementRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]ledger.Movement, error) {
	var movementModels []models.MovementModel
	query := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&models.MovementModel{}).
		Where("user_id = ?", userID)
	query = applyFilter(query, filter, "description")

	if err := query.Find(&movementModels).Error; err != nil {
		return nil, err
	}
	return toDomainMovements(movementModels), nil
}

// FindBySeries returns every member of a series, ordered by competence date
func (r *GormMovementRepository) FindBySeries(ctx context.Context, userID, seriesID uuid.UUID) ([]ledger.Movement, error) {
	var movementModels []models.MovementModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("user_id = ? AND series_id = ?", userID, seriesID).
		Order("competence_date ASC").
		Find(&movementModels).Error; err != nil {
		return nil, err
	}
	return toDomainMovements(movementModels), nil
}

// FindByInvoice returns the movements linked to one invoice
func (r *GormMovementRepository) FindByInvoice(ctx context.Context, userID, invoiceID uuid.UUID) ([]ledger.Movement, error) {
	var movementModels []models.MovementModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("user_id = ? AND invoice_id = ?", userID, invoiceID).
		Order("competence_date ASC").
		Find(&movementModels).Error; err != nil {
		return nil, err
	}
	return toDomainMovements(movementModels), nil
}

// FindByTransferGroup returns both legs of a transfer
func (r *GormMovementRepository) FindByTransferGroup(ctx context.Context, userID, groupID uuid.UUID) ([]ledger.Movement, error) {
	var movementModels []models.MovementModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("user_id = ? AND transfer_group_id = ?", userID, groupID).
		Find(&movementModels).Error; err != nil {
		return nil, err
	}
	return toDomainMovements(movementModels), nil
}

// FindForPeriod returns movements whose competence date falls within
// [from, to], ordered by competence date
func (r *GormMovementRepository) FindForPeriod(ctx context.Context, userID uuid.UUID, from, to time.Time, query ledger.MovementQuery) ([]ledger.Movement, error) {
	var movementModels []models.MovementModel
	q := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&models.MovementModel{}).
		Where("movements.user_id = ? AND competence_date >= ? AND competence_date <= ?", userID, from, to)
	if query.ExcludeSettledCard {
		q = excludeSettledCardMovements(q)
	}
	q = applyMovementQuery(q, query)

	if err := q.Order("competence_date ASC").Find(&movementModels).Error; err != nil {
		return nil, err
	}
	return toDomainMovements(movementModels), nil
}

// SumSignedBefore returns the signed sum of movements dated strictly before
// the given date. With paidOnly only paid movements count, which is the
// carried-over portion of an account's real balance.
func (r *GormMovementRepository) SumSignedBefore(ctx context.Context, userID uuid.UUID, before time.Time, paidOnly bool, query ledger.MovementQuery) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	q := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&models.MovementModel{}).
		Select("COALESCE(SUM("+signedValueExpr+"), 0) as total").
		Where("movements.user_id = ? AND competence_date < ?", userID, before)
	if paidOnly {
		q = q.Where("paid = ?", true)
	} else if query.ExcludeSettledCard {
		q = excludeSettledCardMovements(q)
	}
	q = applyMovementQuery(q, query)

	if err := q.Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Save creates or updates a movement
func (r *GormMovementRepository) Save(ctx context.Context, movement *ledger.Movement) error {
	model := models.MovementModelFromDomain(movement)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(model).Error
}

// Delete removes a movement
func (r *GormMovementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).WithContext(ctx).
		Delete(&models.MovementModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteMany removes a batch of movements in one statement
func (r *GormMovementRepository) DeleteMany(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return dbFromContext(ctx, r.db).WithContext(ctx).
		Delete(&models.MovementModel{}, "user_id = ? AND id IN ?", userID, ids).Error
}

// excludeSettledCardMovements filters out card movements linked to a PAGA
// invoice. Counting them alongside the settlement movement would double the
// cash effect in projected balances.
func excludeSettledCardMovements(q *gorm.DB) *gorm.DB {
	return q.Where(
		"movements.invoice_id IS NULL OR movements.invoice_id NOT IN (?)",
		q.Session(&gorm.Session{NewDB: true}).
			Model(&models.InvoiceModel{}).
			Select("id").
			Where("status = ?", ledger.InvoiceStatusPaga),
	)
}

// applyMovementQuery narrows a movement query with the optional filters
func applyMovementQuery(q *gorm.DB, query ledger.MovementQuery) *gorm.DB {
	if query.AccountID != nil {
		q = q.Where("account_id = ?", *query.AccountID)
	}
	if query.CardID != nil {
		q = q.Where("movements.card_id = ?", *query.CardID)
	}
	if query.InvoiceID != nil {
		q = q.Where("movements.invoice_id = ?", *query.InvoiceID)
	}
	if query.CategoryID != nil {
		q = q.Where("category_id = ?", *query.CategoryID)
	}
	if query.Kind != nil {
		q = q.Where("kind = ?", *query.Kind)
	}
	if query.PaidOnly {
		q = q.Where("paid = ?", true)
	}
	return q
}

func toDomainMovements(movementModels []models.MovementModel) []ledger.Movement {
	movements := make([]ledger.Movement, len(movementModels))
	for i, model := range movementModels {
		movements[i] = *model.ToDomain()
	}
	return movements
}

// Ensure GormMovementRepository implements MovementRepository
var _ ledger.MovementRepository = (*GormMovementRepository)(nil)
