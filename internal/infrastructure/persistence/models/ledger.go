package models

import (
	"time"

	"github.com/financas/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountModel is the persistence model for the Account aggregate root
type AccountModel struct {
	UserAggregateModel
	Name           string             `gorm:"type:varchar(100);not null"`
	Type           ledger.AccountType `gorm:"type:varchar(20);not null"`
	Color          string             `gorm:"type:varchar(20)"`
	Active         bool               `gorm:"not null;default:true;index"`
	InitialBalance decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	CurrentBalance decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account
func (m *AccountModel) ToDomain() *ledger.Account {
	return &ledger.Account{
		UserAggregateRoot: m.ToDomainUserAggregateRoot(),
		Name:              m.Name,
		Type:              m.Type,
		Color:             m.Color,
		Active:            m.Active,
		InitialBalance:    m.InitialBalance,
		CurrentBalance:    m.CurrentBalance,
	}
}

// FromDomain populates the persistence model from a domain Account
func (m *AccountModel) FromDomain(a *ledger.Account) {
	m.FromDomainUserAggregateRoot(a.UserAggregateRoot)
	m.Name = a.Name
	m.Type = a.Type
	m.Color = a.Color
	m.Active = a.Active
	m.InitialBalance = a.InitialBalance
	m.CurrentBalance = a.CurrentBalance
}

// AccountModelFromDomain creates a new persistence model from a domain Account
func AccountModelFromDomain(a *ledger.Account) *AccountModel {
	m := &AccountModel{}
	m.FromDomain(a)
	return m
}

// CardModel is the persistence model for the Card aggregate root
type CardModel struct {
	UserAggregateModel
	Name             string          `gorm:"type:varchar(100);not null"`
	CreditLimit      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ClosingDay       int             `gorm:"not null"`
	DueDay           int             `gorm:"not null"`
	DefaultAccountID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Active           bool            `gorm:"not null;default:true;index"`
	UtilizedLimit    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (CardModel) TableName() string {
	return "cards"
}

// ToDomain converts the persistence model to a domain Card
func (m *CardModel) ToDomain() *ledger.Card {
	return &ledger.Card{
		UserAggregateRoot: m.ToDomainUserAggregateRoot(),
		Name:              m.Name,
		CreditLimit:       m.CreditLimit,
		ClosingDay:        m.ClosingDay,
		DueDay:            m.DueDay,
		DefaultAccountID:  m.DefaultAccountID,
		Active:            m.Active,
		UtilizedLimit:     m.UtilizedLimit,
	}
}

// FromDomain populates the persistence model from a domain Card
func (m *CardModel) FromDomain(c *ledger.Card) {
	m.FromDomainUserAggregateRoot(c.UserAggregateRoot)
	m.Name = c.Name
	m.CreditLimit = c.CreditLimit
	m.ClosingDay = c.ClosingDay
	m.DueDay = c.DueDay
	m.DefaultAccountID = c.DefaultAccountID
	m.Active = c.Active
	m.UtilizedLimit = c.UtilizedLimit
}

// CardModelFromDomain creates a new persistence model from a domain Card
func CardModelFromDomain(c *ledger.Card) *CardModel {
	m := &CardModel{}
	m.FromDomain(c)
	return m
}

// InvoiceModel is the persistence model for the Invoice aggregate root.
// ATRASADA is never stored; only ABERTA, FECHADA and PAGA reach this table.
type InvoiceModel struct {
	UserAggregateModel
	CardID              uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_invoice_card_reference,priority:1"`
	ReferenceMonth      int                  `gorm:"not null;uniqueIndex:idx_invoice_card_reference,priority:3"`
	ReferenceYear       int                  `gorm:"not null;uniqueIndex:idx_invoice_card_reference,priority:2"`
	ClosingDate         time.Time            `gorm:"not null"`
	DueDate             time.Time            `gorm:"not null;index"`
	Status              ledger.InvoiceStatus `gorm:"type:varchar(20);not null;default:'ABERTA';index"`
	TotalValue          decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	PaidValue           decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	SettlementAccountID *uuid.UUID           `gorm:"type:uuid"`
	PaidAt              *time.Time
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *ledger.Invoice {
	return &ledger.Invoice{
		UserAggregateRoot:   m.ToDomainUserAggregateRoot(),
		CardID:              m.CardID,
		ReferenceMonth:      m.ReferenceMonth,
		ReferenceYear:       m.ReferenceYear,
		ClosingDate:         m.ClosingDate,
		DueDate:             m.DueDate,
		Status:              m.Status,
		TotalValue:          m.TotalValue,
		PaidValue:           m.PaidValue,
		SettlementAccountID: m.SettlementAccountID,
		PaidAt:              m.PaidAt,
	}
}

// FromDomain populates the persistence model from a domain Invoice
func (m *InvoiceModel) FromDomain(inv *ledger.Invoice) {
	m.FromDomainUserAggregateRoot(inv.UserAggregateRoot)
	m.CardID = inv.CardID
	m.ReferenceMonth = inv.ReferenceMonth
	m.ReferenceYear = inv.ReferenceYear
	m.ClosingDate = inv.ClosingDate
	m.DueDate = inv.DueDate
	m.Status = inv.Status
	m.TotalValue = inv.TotalValue
	m.PaidValue = inv.PaidValue
	m.SettlementAccountID = inv.SettlementAccountID
	m.PaidAt = inv.PaidAt
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice
func InvoiceModelFromDomain(inv *ledger.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// MovementModel is the persistence model for the Movement aggregate root
type MovementModel struct {
	UserAggregateModel
	Description       string                   `gorm:"type:varchar(200);not null"`
	Value             decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	Kind              ledger.MovementKind      `gorm:"type:varchar(20);not null;index"`
	TransferDirection ledger.TransferDirection `gorm:"type:varchar(10)"`
	TransferGroupID   *uuid.UUID               `gorm:"type:uuid;index"`
	CompetenceDate    time.Time                `gorm:"not null;index"`
	Paid              bool                     `gorm:"not null;default:false;index"`
	CategoryID        *uuid.UUID               `gorm:"type:uuid;index"`
	Observation       string                   `gorm:"type:text"`
	AccountID         *uuid.UUID               `gorm:"type:uuid;index"`
	CardID            *uuid.UUID               `gorm:"type:uuid;index"`
	InvoiceID         *uuid.UUID               `gorm:"type:uuid;index"`
	SeriesID          *uuid.UUID               `gorm:"type:uuid;index"`
	SeriesKind        ledger.SeriesKind        `gorm:"type:varchar(20)"`
	InstallmentNumber int                      `gorm:"not null;default:0"`
	InstallmentCount  int                      `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (MovementModel) TableName() string {
	return "movements"
}

// ToDomain converts the persistence model to a domain Movement
func (m *MovementModel) ToDomain() *ledger.Movement {
	return &ledger.Movement{
		UserAggregateRoot: m.ToDomainUserAggregateRoot(),
		Description:       m.Description,
		Value:             m.Value,
		Kind:              m.Kind,
		TransferDirection: m.TransferDirection,
		TransferGroupID:   m.TransferGroupID,
		CompetenceDate:    m.CompetenceDate,
		Paid:              m.Paid,
		CategoryID:        m.CategoryID,
		Observation:       m.Observation,
		AccountID:         m.AccountID,
		CardID:            m.CardID,
		InvoiceID:         m.InvoiceID,
		SeriesID:          m.SeriesID,
		SeriesKind:        m.SeriesKind,
		InstallmentNumber: m.InstallmentNumber,
		InstallmentCount:  m.InstallmentCount,
	}
}

// FromDomain populates the persistence model from a domain Movement
func (m *MovementModel) FromDomain(mv *ledger.Movement) {
	m.FromDomainUserAggregateRoot(mv.UserAggregateRoot)
	m.Description = mv.Description
	m.Value = mv.Value
	m.Kind = mv.Kind
	m.TransferDirection = mv.TransferDirection
	m.TransferGroupID = mv.TransferGroupID
	m.CompetenceDate = mv.CompetenceDate
	m.Paid = mv.Paid
	m.CategoryID = mv.CategoryID
	m.Observation = mv.Observation
	m.AccountID = mv.AccountID
	m.CardID = mv.CardID
	m.InvoiceID = mv.InvoiceID
	m.SeriesID = mv.SeriesID
	m.SeriesKind = mv.SeriesKind
	m.InstallmentNumber = mv.InstallmentNumber
	m.InstallmentCount = mv.InstallmentCount
}

// MovementModelFromDomain creates a new persistence model from a domain Movement
func MovementModelFromDomain(mv *ledger.Movement) *MovementModel {
	m := &MovementModel{}
	m.FromDomain(mv)
	return m
}
