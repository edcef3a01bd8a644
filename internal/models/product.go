package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product wire fields follow the catalog contract consumed by the POS
// terminals (§ precio_sugerido = list price, precio_minimo = bulk price).
type Product struct {
	ID             int64           `json:"id"`
	CategoryID     int64           `json:"categoria_id"`
	PresentationID int64           `json:"presentacion_id"`
	Code           string          `json:"codigo"`
	Description    string          `json:"descripcion"`
	SuggestedPrice decimal.Decimal `json:"precio_sugerido"`
	MinPrice       decimal.Decimal `json:"precio_minimo"`
	Stock          int             `json:"stock"`
	Image          string          `json:"imagen,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type ProductFields struct {
	CategoryID     int64           `json:"categoria_id" validate:"required"`
	PresentationID int64           `json:"presentacion_id" validate:"required"`
	Code           string          `json:"codigo" validate:"required,min=3,max=50"`
	Description    string          `json:"descripcion" validate:"required,min=3,max=200"`
	SuggestedPrice decimal.Decimal `json:"precio_sugerido" validate:"required"`
	MinPrice       decimal.Decimal `json:"precio_minimo" validate:"required"`
	Stock          int             `json:"stock" validate:"gte=0"`
}

type UpdateProductRequest struct {
	CategoryID     *int64           `json:"categoria_id,omitempty"`
	PresentationID *int64           `json:"presentacion_id,omitempty"`
	Code           *string          `json:"codigo,omitempty" validate:"omitempty,min=3,max=50"`
	Description    *string          `json:"descripcion,omitempty" validate:"omitempty,min=3,max=200"`
	SuggestedPrice *decimal.Decimal `json:"precio_sugerido,omitempty"`
	MinPrice       *decimal.Decimal `json:"precio_minimo,omitempty"`
	Stock          *int             `json:"stock,omitempty" validate:"omitempty,gte=0"`
}

type ProductWriteKind string

const (
	ProductWriteJSON      ProductWriteKind = "json"
	ProductWriteMultipart ProductWriteKind = "multipart"
)

// ProductWrite is the normalized form of the two product submission shapes
// (plain JSON, or multipart form with an image). Handlers resolve the kind
// from the request Content-Type; services never branch on wire shape.
type ProductWrite struct {
	Kind      ProductWriteKind
	Fields    ProductFields
	Image     []byte
	ImageName string
}
