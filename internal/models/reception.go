package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReceptionStatus string

const (
	ReceptionStatusDraft   ReceptionStatus = "borrador"
	ReceptionStatusApplied ReceptionStatus = "aplicada"
)

type ReceptionLine struct {
	ID          uuid.UUID       `json:"id"`
	ReceptionID uuid.UUID       `json:"reception_id"`
	ProductID   int64           `json:"product_id"`
	Quantity    int             `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// Reception is a merchandise-receiving document. Stock moves only when the
// document is applied, never while it is a draft.
type Reception struct {
	ID           uuid.UUID       `json:"id"`
	SupplierName string          `json:"supplier_name"`
	Reference    string          `json:"reference,omitempty"`
	Status       ReceptionStatus `json:"status"`
	Lines        []ReceptionLine `json:"lines"`
	AppliedAt    *time.Time      `json:"applied_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type ReceptionLineRequest struct {
	ProductID int64           `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	UnitCost  decimal.Decimal `json:"unit_cost" validate:"required"`
}

type CreateReceptionRequest struct {
	SupplierName string                 `json:"supplier_name" validate:"required,min=2,max=150"`
	Reference    string                 `json:"reference,omitempty" validate:"omitempty,max=50"`
	Lines        []ReceptionLineRequest `json:"lines" validate:"required,min=1,dive"`
}
