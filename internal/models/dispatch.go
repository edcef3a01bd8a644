package models

import (
	"time"

	"github.com/google/uuid"
)

type DispatchStatus string

const (
	DispatchStatusPreparing DispatchStatus = "preparando"
	DispatchStatusInRoute   DispatchStatus = "en_ruta"
	DispatchStatusDelivered DispatchStatus = "entregado"
)

type Dispatch struct {
	ID           uuid.UUID      `json:"id"`
	OrderID      uuid.UUID      `json:"order_id"`
	Carrier      string         `json:"carrier"`
	TrackingCode string         `json:"tracking_code,omitempty"`
	Address      string         `json:"address"`
	Status       DispatchStatus `json:"status"`
	DispatchedAt *time.Time     `json:"dispatched_at,omitempty"`
	DeliveredAt  *time.Time     `json:"delivered_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

type CreateDispatchRequest struct {
	OrderID      uuid.UUID `json:"order_id" validate:"required"`
	Carrier      string    `json:"carrier" validate:"required,min=2,max=100"`
	TrackingCode string    `json:"tracking_code,omitempty" validate:"omitempty,max=100"`
	Address      string    `json:"address" validate:"required,min=5,max=250"`
	// NotifyEmail, when present, triggers a dispatch notice to the client.
	NotifyEmail string `json:"notify_email,omitempty" validate:"omitempty,email"`
}

type UpdateDispatchStatusRequest struct {
	Status DispatchStatus `json:"status" validate:"required,oneof=preparando en_ruta entregado"`
}
