package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmorenoc/retail-pos-platform/internal/models"
	"github.com/dmorenoc/retail-pos-platform/internal/utils"
)

type ClientRepository interface {
	CreateClient(ctx context.Context, client *models.Client) error
	GetClientByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	GetClientByDocument(ctx context.Context, docType models.DocumentType, docNumber string) (*models.Client, error)
	UpdateClient(ctx context.Context, client *models.Client) error
	ListClients(ctx context.Context, page, size int) ([]*models.Client, int, error)
}

type clientRepository struct {
	DB *sql.DB
}

func NewClientRepo(db *sql.DB) ClientRepository {
	return &clientRepository{DB: db}
}

func (r *clientRepository) CreateClient(ctx context.Context, client *models.Client) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO clients (id, name, doc_type, doc_number, phone, email, address)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query,
		client.ID, client.Name, client.DocType, client.DocNumber, client.Phone, client.Email, client.Address).
		Scan(&client.CreatedAt, &client.UpdatedAt)
}

func (r *clientRepository) GetClientByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	client := &models.Client{}

	query := `
		SELECT id, name, doc_type, doc_number, phone, email, address, created_at, updated_at
		FROM clients
		WHERE id = $1`

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(
		&client.ID, &client.Name, &client.DocType, &client.DocNumber,
		&client.Phone, &client.Email, &client.Address, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("querying database: %w", err)
	}

	return client, nil
}

func (r *clientRepository) GetClientByDocument(ctx context.Context, docType models.DocumentType, docNumber string) (*models.Client, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	client := &models.Client{}

	query := `
		SELECT id, name, doc_type, doc_number, phone, email, address, created_at, updated_at
		FROM clients
		WHERE doc_type = $1 AND doc_number = $2`

	err := r.DB.QueryRowContext(dbCtx, query, docType, docNumber).Scan(
		&client.ID, &client.Name, &client.DocType, &client.DocNumber,
		&client.Phone, &client.Email, &client.Address, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return client, nil
}

func (r *clientRepository) UpdateClient(ctx context.Context, client *models.Client) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE clients SET name = $1, doc_type = $2, doc_number = $3, phone = $4, email = $5, address = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query,
		client.Name, client.DocType, client.DocNumber, client.Phone, client.Email, client.Address, client.ID).
		Scan(&client.UpdatedAt)
}

func (r *clientRepository) ListClients(ctx context.Context, page, size int) ([]*models.Client, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM clients`).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `
		SELECT id, name, doc_type, doc_number, phone, email, address, created_at, updated_at
		FROM clients
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.DB.QueryContext(dbCtx, query, size, offset)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	var clients []*models.Client

	for rows.Next() {
		client := &models.Client{}

		err := rows.Scan(
			&client.ID, &client.Name, &client.DocType, &client.DocNumber,
			&client.Phone, &client.Email, &client.Address, &client.CreatedAt, &client.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}

		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return clients, total, nil
}
