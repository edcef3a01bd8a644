package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pendiente"
	OrderStatusPaid       OrderStatus = "pagado"
	OrderStatusDispatched OrderStatus = "despachado"
	OrderStatusCancelled  OrderStatus = "anulado"
)

type OrderItem struct {
	ID        uuid.UUID       `json:"id"`
	OrderID   uuid.UUID       `json:"order_id"`
	ProductID int64           `json:"product_id"`
	// Description is joined from the catalog on reads; it is not stored
	// with the item.
	Description string          `json:"description,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	CreatedAt   time.Time       `json:"created_at"`
}

type Order struct {
	ID        uuid.UUID       `json:"id"`
	Number    string          `json:"number"`
	ClientID  *uuid.UUID      `json:"client_id,omitempty"`
	Status    OrderStatus     `json:"status"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
	Notes     string          `json:"notes,omitempty"`
	Items     []OrderItem     `json:"items"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SubmitOrderRequest turns the caller's working cart into an order. The
// line items never travel in the request; they come from the server-held
// cart so a stale client cannot smuggle prices.
type SubmitOrderRequest struct {
	ClientID      *uuid.UUID `json:"client_id,omitempty"`
	PaymentMethod string     `json:"payment_method" validate:"required,oneof=efectivo tarjeta transferencia yape"`
	PointOfSale   string     `json:"point_of_sale" validate:"required,min=2,max=50"`
	ReceiptEmail  string     `json:"receipt_email,omitempty" validate:"omitempty,email"`
}

// UpdateOrderRequest is the partial-update variant used by edit mode.
type UpdateOrderRequest struct {
	ClientID      *uuid.UUID `json:"client_id,omitempty"`
	PaymentMethod *string    `json:"payment_method,omitempty" validate:"omitempty,oneof=efectivo tarjeta transferencia yape"`
	PointOfSale   *string    `json:"point_of_sale,omitempty" validate:"omitempty,min=2,max=50"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pendiente pagado despachado anulado"`
}
