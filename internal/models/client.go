package models

import (
	"time"

	"github.com/google/uuid"
)

type DocumentType string

const (
	DocumentTypeDNI DocumentType = "dni"
	DocumentTypeRUC DocumentType = "ruc"
	DocumentTypeCE  DocumentType = "ce"
)

type Client struct {
	ID         uuid.UUID    `json:"id"`
	Name       string       `json:"name"`
	DocType    DocumentType `json:"doc_type"`
	DocNumber  string       `json:"doc_number"`
	Phone      string       `json:"phone,omitempty"`
	Email      string       `json:"email,omitempty"`
	Address    string       `json:"address,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

type CreateClientRequest struct {
	Name      string       `json:"name" validate:"required,min=2,max=150"`
	DocType   DocumentType `json:"doc_type" validate:"required,oneof=dni ruc ce"`
	DocNumber string       `json:"doc_number" validate:"required"`
	Phone     string       `json:"phone,omitempty" validate:"omitempty,min=6,max=15"`
	Email     string       `json:"email,omitempty" validate:"omitempty,email"`
	Address   string       `json:"address,omitempty" validate:"omitempty,max=250"`
}

type UpdateClientRequest struct {
	Name      *string       `json:"name,omitempty" validate:"omitempty,min=2,max=150"`
	DocType   *DocumentType `json:"doc_type,omitempty" validate:"omitempty,oneof=dni ruc ce"`
	DocNumber *string       `json:"doc_number,omitempty"`
	Phone     *string       `json:"phone,omitempty" validate:"omitempty,min=6,max=15"`
	Email     *string       `json:"email,omitempty" validate:"omitempty,email"`
	Address   *string       `json:"address,omitempty" validate:"omitempty,max=250"`
}
