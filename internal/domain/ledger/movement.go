package ledger

import (
	"time"

	"github.com/financas/backend/internal/domain/shared"
	"github.com/financas/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementKind classifies a movement
type MovementKind string

const (
	MovementKindReceita       MovementKind = "RECEITA"
	MovementKindDespesa       MovementKind = "DESPESA"
	MovementKindTransferencia MovementKind = "TRANSFERENCIA"
)

// IsValid checks if the kind is a valid MovementKind
func (k MovementKind) IsValid() bool {
	switch k {
	case MovementKindReceita, MovementKindDespesa, MovementKindTransferencia:
		return true
	}
	return false
}

// String returns the string representation of MovementKind
func (k MovementKind) String() string {
	return string(k)
}

// TransferDirection identifies which leg of a transfer a movement is
type TransferDirection string

const (
	TransferDirectionEntrada TransferDirection = "ENTRADA" // Money arriving at the account
	TransferDirectionSaida   TransferDirection = "SAIDA"   // Money leaving the account
)

// IsValid checks if the direction is a valid TransferDirection
func (d TransferDirection) IsValid() bool {
	return d == TransferDirectionEntrada || d == TransferDirectionSaida
}

// Movement is the aggregate root for a single financial transaction. Its
// funding reference is exactly one of {account, card invoice}: the XOR is
// enforced at construction and on every funding change.
//
// A card-funded movement is settled at the invoice level, so its paid flag is
// not individually togglable; an account-funded movement only hits the
// account's running balance while paid.
type Movement struct {
	shared.UserAggregateRoot
	Description       string            `json:"description"`
	Value             decimal.Decimal   `json:"value"`
	Kind              MovementKind      `json:"kind"`
	TransferDirection TransferDirection `json:"transfer_direction,omitempty"`
	TransferGroupID   *uuid.UUID        `json:"transfer_group_id,omitempty"`
	CompetenceDate    time.Time         `json:"competence_date"`
	Paid              bool              `json:"paid"`
	CategoryID        *uuid.UUID        `json:"category_id,omitempty"`
	Observation       string            `json:"observation,omitempty"`

	// Funding reference (exactly one of account or card+invoice)
	AccountID *uuid.UUID `json:"account_id,omitempty"`
	CardID    *uuid.UUID `json:"card_id,omitempty"`
	InvoiceID *uuid.UUID `json:"invoice_id,omitempty"`

	// Series metadata
	SeriesID          *uuid.UUID `json:"series_id,omitempty"`
	SeriesKind        SeriesKind `json:"series_kind,omitempty"`
	InstallmentNumber int        `json:"installment_number,omitempty"`
	InstallmentCount  int        `json:"installment_count,omitempty"`
}

// NewAccountMovement creates a movement funded directly by an account
func NewAccountMovement(userID uuid.UUID, description string, value valueobject.Money, kind MovementKind, competenceDate time.Time, paid bool, accountID uuid.UUID, categoryID *uuid.UUID) (*Movement, error) {
	m := &Movement{
		UserAggregateRoot: shared.NewUserAggregateRoot(userID),
		Description:       description,
		Value:             value.Amount(),
		Kind:              kind,
		CompetenceDate:    competenceDate,
		Paid:              paid,
		CategoryID:        categoryID,
		AccountID:         &accountID,
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	m.AddDomainEvent(NewMovementCreatedEvent(m))
	return m, nil
}

// NewCardMovement creates a movement funded through a card invoice. Card
// movements are settled when the invoice is paid, never individually.
func NewCardMovement(userID uuid.UUID, description string, value valueobject.Money, kind MovementKind, competenceDate time.Time, cardID, invoiceID uuid.UUID, categoryID *uuid.UUID) (*Movement, error) {
	if kind == MovementKindTransferencia {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "A transfer cannot be funded through a card")
	}
	m := &Movement{
		UserAggregateRoot: shared.NewUserAggregateRoot(userID),
		Description:       description,
		Value:             value.Amount(),
		Kind:              kind,
		CompetenceDate:    competenceDate,
		Paid:              false,
		CategoryID:        categoryID,
		CardID:            &cardID,
		InvoiceID:         &invoiceID,
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	m.AddDomainEvent(NewMovementCreatedEvent(m))
	return m, nil
}

// NewTransferLegs creates the two paid legs of a transfer between accounts.
// Both legs share a transfer group ID so either can find its counterpart.
func NewTransferLegs(userID uuid.UUID, description string, value valueobject.Money, competenceDate time.Time, paid bool, fromAccountID, toAccountID uuid.UUID) (*Movement, *Movement, error) {
	if fromAccountID == uuid.Nil || toAccountID == uuid.Nil {
		return nil, nil, shared.NewDomainError("VALIDATION_ERROR", "Transfer requires both source and destination accounts")
	}
	if fromAccountID == toAccountID {
		return nil, nil, shared.NewDomainError("VALIDATION_ERROR", "Transfer source and destination must differ")
	}

	groupID := uuid.New()

	out := &Movement{
		UserAggregateRoot: shared.NewUserAggregateRoot(userID),
		Description:       description,
		Value:             value.Amount(),
		Kind:              MovementKindTransferencia,
		TransferDirection: TransferDirectionSaida,
		TransferGroupID:   &groupID,
		CompetenceDate:    competenceDate,
		Paid:              paid,
		AccountID:         &fromAccountID,
	}
	in := &Movement{
		UserAggregateRoot: shared.NewUserAggregateRoot(userID),
		Description:       description,
		Value:             value.Amount(),
		Kind:              MovementKindTransferencia,
		TransferDirection: TransferDirectionEntrada,
		TransferGroupID:   &groupID,
		CompetenceDate:    competenceDate,
		Paid:              paid,
		AccountID:         &toAccountID,
	}

	if err := out.validate(); err != nil {
		return nil, nil, err
	}
	if err := in.validate(); err != nil {
		return nil, nil, err
	}

	out.AddDomainEvent(NewMovementCreatedEvent(out))
	in.AddDomainEvent(NewMovementCreatedEvent(in))

	return out, in, nil
}

// NewSettlementMovement creates the paid outgoing movement recorded on the
// account that settles a card invoice. It carries transfer semantics: the
// money covers card spending that is already categorized per movement, so the
// settlement itself must not count as an expense again.
func NewSettlementMovement(userID uuid.UUID, description string, value valueobject.Money, paidAt time.Time, accountID uuid.UUID) (*Movement, error) {
	m := &Movement{
		UserAggregateRoot: shared.NewUserAggregateRoot(userID),
		Description:       description,
		Value:             value.Amount(),
		Kind:              MovementKindTransferencia,
		TransferDirection: TransferDirectionSaida,
		CompetenceDate:    paidAt,
		Paid:              true,
		AccountID:         &accountID,
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	m.AddDomainEvent(NewMovementCreatedEvent(m))
	return m, nil
}

func (m *Movement) validate() error {
	if m.Description == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Movement description cannot be empty")
	}
	if m.Value.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Movement value must be positive")
	}
	if !m.Kind.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", "Movement kind is not valid")
	}
	if m.CompetenceDate.IsZero() {
		return shared.NewDomainError("VALIDATION_ERROR", "Movement requires a competence date")
	}
	if m.Kind == MovementKindTransferencia && !m.TransferDirection.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", "Transfer movement requires a direction")
	}
	if m.Kind != MovementKindTransferencia && m.TransferDirection != "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Only transfer movements carry a direction")
	}
	return m.validateFunding()
}

func (m *Movement) validateFunding() error {
	hasAccount := m.AccountID != nil && *m.AccountID != uuid.Nil
	hasCard := m.CardID != nil && *m.CardID != uuid.Nil
	hasInvoice := m.InvoiceID != nil && *m.InvoiceID != uuid.Nil

	if hasCard != hasInvoice {
		return ErrFundingConflict
	}
	if hasAccount == hasCard {
		return ErrFundingConflict
	}
	return nil
}

// IsAccountFunded returns true when the movement debits/credits an account
func (m *Movement) IsAccountFunded() bool {
	return m.AccountID != nil && *m.AccountID != uuid.Nil
}

// IsCardFunded returns true when the movement is linked to a card invoice
func (m *Movement) IsCardFunded() bool {
	return m.CardID != nil && *m.CardID != uuid.Nil
}

// IsTransfer returns true for either transfer leg
func (m *Movement) IsTransfer() bool {
	return m.Kind == MovementKindTransferencia
}

// SignedValue returns the movement's effect on a balance: receita and
// transfer-in are positive, despesa and transfer-out negative.
func (m *Movement) SignedValue() decimal.Decimal {
	switch {
	case m.Kind == MovementKindReceita:
		return m.Value
	case m.Kind == MovementKindDespesa:
		return m.Value.Neg()
	case m.TransferDirection == TransferDirectionEntrada:
		return m.Value
	default:
		return m.Value.Neg()
	}
}

// GetValueMoney returns the absolute value as Money
func (m *Movement) GetValueMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(m.Value)
}

// TogglePaid flips the paid flag. Only legal for account-funded movements:
// card movements settle at the invoice level.
func (m *Movement) TogglePaid() error {
	if m.IsCardFunded() {
		return shared.NewDomainError("INVALID_STATE", "Card movements are settled by paying the invoice, not individually")
	}
	m.Paid = !m.Paid
	m.Touch()
	m.AddDomainEvent(NewMovementPaidToggledEvent(m))
	return nil
}

// SetAccountFunding rebinds the movement to a direct account funding source
func (m *Movement) SetAccountFunding(accountID uuid.UUID) error {
	m.AccountID = &accountID
	m.CardID = nil
	m.InvoiceID = nil
	m.Touch()
	return m.validateFunding()
}

// SetCardFunding rebinds the movement to a card invoice funding source
func (m *Movement) SetCardFunding(cardID, invoiceID uuid.UUID) error {
	if m.Kind == MovementKindTransferencia {
		return shared.NewDomainError("VALIDATION_ERROR", "A transfer cannot be funded through a card")
	}
	m.AccountID = nil
	m.CardID = &cardID
	m.InvoiceID = &invoiceID
	m.Paid = false
	m.Touch()
	return m.validateFunding()
}

// AttachToSeries marks the movement as a member of a recurring or
// installment series. Installment membership is immutable after creation.
func (m *Movement) AttachToSeries(seriesID uuid.UUID, kind SeriesKind) error {
	if !kind.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", "Series kind is not valid")
	}
	if m.SeriesID != nil {
		return shared.NewDomainError("INVALID_STATE", "Movement already belongs to a series")
	}
	m.SeriesID = &seriesID
	m.SeriesKind = kind
	return nil
}

// SetInstallment records the parcel position within an installment purchase.
// Number and count cannot be changed afterwards.
func (m *Movement) SetInstallment(number, count int) error {
	if m.SeriesKind != SeriesKindParcelada {
		return shared.NewDomainError("INVALID_STATE", "Only installment series members carry parcel numbers")
	}
	if count < 2 {
		return shared.NewDomainError("VALIDATION_ERROR", "Installment count must be at least 2")
	}
	if number < 1 || number > count {
		return shared.NewDomainError("VALIDATION_ERROR", "Installment number must be within the installment count")
	}
	if m.InstallmentCount != 0 {
		return shared.NewDomainError("INVALID_STATE", "Installment number and count are immutable after creation")
	}
	m.InstallmentNumber = number
	m.InstallmentCount = count
	return nil
}

// IsSeriesMember returns true when the movement belongs to a series
func (m *Movement) IsSeriesMember() bool {
	return m.SeriesID != nil
}

// IsInstallment returns true for installment series members
func (m *Movement) IsInstallment() bool {
	return m.SeriesKind == SeriesKindParcelada
}

// IsRecurring returns true for recurring series members
func (m *Movement) IsRecurring() bool {
	return m.SeriesKind == SeriesKindRecorrente
}

// MovementPatch carries the per-member editable fields of an update. Nil
// fields are left unchanged. Funding changes travel separately because they
// require aggregate recomputation on both sides.
type MovementPatch struct {
	Description    *string
	Value          *decimal.Decimal
	CompetenceDate *time.Time
	CategoryID     *uuid.UUID
	ClearCategory  bool
	Observation    *string
}

// IsEmpty returns true when the patch changes nothing
func (p MovementPatch) IsEmpty() bool {
	return p.Description == nil && p.Value == nil && p.CompetenceDate == nil &&
		p.CategoryID == nil && !p.ClearCategory && p.Observation == nil
}

// ApplyPatch applies the editable fields. Value changes are validated here;
// the funding aggregates are recomputed by the caller with the old and new
// values.
func (m *Movement) ApplyPatch(p MovementPatch) error {
	if p.Description != nil {
		if *p.Description == "" {
			return shared.NewDomainError("VALIDATION_ERROR", "Movement description cannot be empty")
		}
		m.Description = *p.Description
	}
	if p.Value != nil {
		if p.Value.LessThanOrEqual(decimal.Zero) {
			return shared.NewDomainError("VALIDATION_ERROR", "Movement value must be positive")
		}
		m.Value = *p.Value
	}
	if p.CompetenceDate != nil {
		if p.CompetenceDate.IsZero() {
			return shared.NewDomainError("VALIDATION_ERROR", "Movement requires a competence date")
		}
		m.CompetenceDate = *p.CompetenceDate
	}
	if p.ClearCategory {
		m.CategoryID = nil
	} else if p.CategoryID != nil {
		m.CategoryID = p.CategoryID
	}
	if p.Observation != nil {
		m.Observation = *p.Observation
	}
	m.Touch()
	m.AddDomainEvent(NewMovementUpdatedEvent(m))
	return nil
}

// Retire raises the deletion event before the movement is removed from
// storage. Movements are retired logically; history reversal happens on the
// funding aggregate first.
func (m *Movement) Retire() {
	m.AddDomainEvent(NewMovementDeletedEvent(m))
}
