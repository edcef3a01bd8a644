package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CashEntryKind string

const (
	CashEntryIncome  CashEntryKind = "ingreso"
	CashEntryExpense CashEntryKind = "egreso"
)

type CashEntry struct {
	ID        uuid.UUID       `json:"id"`
	Kind      CashEntryKind   `json:"kind"`
	Concept   string          `json:"concept"`
	Amount    decimal.Decimal `json:"amount"`
	EntryDate time.Time       `json:"entry_date"`
	CreatedAt time.Time       `json:"created_at"`
}

type CreateCashEntryRequest struct {
	Kind    CashEntryKind   `json:"kind" validate:"required,oneof=ingreso egreso"`
	Concept string          `json:"concept" validate:"required,min=2,max=200"`
	Amount  decimal.Decimal `json:"amount" validate:"required"`
	// EntryDate defaults to today when omitted. Format: 2006-01-02.
	EntryDate string `json:"entry_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// CashboxSummary is the day's running tally shown on the register page.
type CashboxSummary struct {
	Date    string          `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
	Entries []CashEntry     `json:"entries"`
}
