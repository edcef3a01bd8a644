package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmorenoc/retail-pos-platform/internal/models"
	"github.com/dmorenoc/retail-pos-platform/internal/utils"
)

type DispatchRepository interface {
	CreateDispatch(ctx context.Context, dispatch *models.Dispatch) error
	GetDispatchByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Dispatch, error)
	UpdateDispatch(ctx context.Context, dispatch *models.Dispatch) error
	ListDispatches(ctx context.Context, page, size int) ([]*models.Dispatch, int, error)
}

type dispatchRepository struct {
	DB *sql.DB
}

func NewDispatchRepo(db *sql.DB) DispatchRepository {
	return &dispatchRepository{DB: db}
}

func (r *dispatchRepository) CreateDispatch(ctx context.Context, dispatch *models.Dispatch) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO dispatches (id, order_id, carrier, tracking_code, address, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query,
		dispatch.ID, dispatch.OrderID, dispatch.Carrier, dispatch.TrackingCode,
		dispatch.Address, dispatch.Status).
		Scan(&dispatch.CreatedAt, &dispatch.UpdatedAt)
}

func (r *dispatchRepository) GetDispatchByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Dispatch, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	dispatch := &models.Dispatch{}

	query := `
		SELECT id, order_id, carrier, tracking_code, address, status, dispatched_at, delivered_at, created_at, updated_at
		FROM dispatches
		WHERE order_id = $1`

	err := r.DB.QueryRowContext(dbCtx, query, orderID).Scan(
		&dispatch.ID, &dispatch.OrderID, &dispatch.Carrier, &dispatch.TrackingCode,
		&dispatch.Address, &dispatch.Status, &dispatch.DispatchedAt, &dispatch.DeliveredAt,
		&dispatch.CreatedAt, &dispatch.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("querying database: %w", err)
	}

	return dispatch, nil
}

func (r *dispatchRepository) UpdateDispatch(ctx context.Context, dispatch *models.Dispatch) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE dispatches
		SET carrier = $1, tracking_code = $2, address = $3, status = $4, dispatched_at = $5, delivered_at = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query,
		dispatch.Carrier, dispatch.TrackingCode, dispatch.Address, dispatch.Status,
		dispatch.DispatchedAt, dispatch.DeliveredAt, dispatch.ID).
		Scan(&dispatch.UpdatedAt)
}

func (r *dispatchRepository) ListDispatches(ctx context.Context, page, size int) ([]*models.Dispatch, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM dispatches`).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `
		SELECT id, order_id, carrier, tracking_code, address, status, dispatched_at, delivered_at, created_at, updated_at
		FROM dispatches
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.DB.QueryContext(dbCtx, query, size, offset)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	var dispatches []*models.Dispatch

	for rows.Next() {
		dispatch := &models.Dispatch{}

		err := rows.Scan(
			&dispatch.ID, &dispatch.OrderID, &dispatch.Carrier, &dispatch.TrackingCode,
			&dispatch.Address, &dispatch.Status, &dispatch.DispatchedAt, &dispatch.DeliveredAt,
			&dispatch.CreatedAt, &dispatch.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}

		dispatches = append(dispatches, dispatch)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return dispatches, total, nil
}
