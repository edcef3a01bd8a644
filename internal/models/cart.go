package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type HydrateSource string

const (
	HydrateEmpty     HydrateSource = "empty"
	HydratePersisted HydrateSource = "persisted"
	HydrateEdit      HydrateSource = "edit"
)

// HydrateCartRequest resolves the cart's single hydration source at
// construction time. OrderID is required only for edit mode.
type HydrateCartRequest struct {
	Source  HydrateSource `json:"source" validate:"required,oneof=empty persisted edit"`
	OrderID *uuid.UUID    `json:"order_id,omitempty"`
}

type AddLineRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
}

type SetQuantityRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

type SetDiscountRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Enabled   bool  `json:"enabled"`
}

// CartLineView is a cart line with its display-rule derived figures.
type CartLineView struct {
	ProductID          int64           `json:"product_id"`
	Description        string          `json:"description"`
	UnitSuggestedPrice decimal.Decimal `json:"unit_suggested_price"`
	UnitMinPrice       decimal.Decimal `json:"unit_min_price"`
	Quantity           int             `json:"quantity"`
	DiscountEnabled    bool            `json:"discount_enabled"`
	EffectiveUnitPrice decimal.Decimal `json:"effective_unit_price"`
	LineTotal          decimal.Decimal `json:"line_total"`
}

type CartView struct {
	Lines   []CartLineView  `json:"lines"`
	Total   decimal.Decimal `json:"total"`
	Savings decimal.Decimal `json:"savings"`
}
