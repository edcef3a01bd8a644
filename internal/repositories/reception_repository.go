package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmorenoc/retail-pos-platform/internal/models"
	"github.com/dmorenoc/retail-pos-platform/internal/utils"
)

type ReceptionRepository interface {
	CreateReception(ctx context.Context, reception *models.Reception) error
	GetReceptionByID(ctx context.Context, id uuid.UUID) (*models.Reception, error)
	ListReceptions(ctx context.Context, page, size int) ([]*models.Reception, int, error)
	ApplyReception(ctx context.Context, id uuid.UUID) (*models.Reception, error)
}

type receptionRepository struct {
	DB *sql.DB
}

func NewReceptionRepo(db *sql.DB) ReceptionRepository {
	return &receptionRepository{DB: db}
}

func (r *receptionRepository) CreateReception(ctx context.Context, reception *models.Reception) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	headerQuery := `
		INSERT INTO receptions (id, supplier_name, reference, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err = tx.QueryRowContext(dbCtx, headerQuery,
		reception.ID, reception.SupplierName, reception.Reference, reception.Status).
		Scan(&reception.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert reception: %w", err)
	}

	lineQuery := `
		INSERT INTO reception_lines (id, reception_id, product_id, quantity, unit_cost)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, line := range reception.Lines {
		_, err := tx.ExecContext(dbCtx, lineQuery,
			line.ID, line.ReceptionID, line.ProductID, line.Quantity, line.UnitCost)
		if err != nil {
			return fmt.Errorf("failed to insert reception line: %w", err)
		}
	}

	return tx.Commit()
}

func (r *receptionRepository) GetReceptionByID(ctx context.Context, id uuid.UUID) (*models.Reception, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	reception := &models.Reception{}

	query := `
		SELECT id, supplier_name, reference, status, applied_at, created_at
		FROM receptions
		WHERE id = $1`

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(
		&reception.ID, &reception.SupplierName, &reception.Reference,
		&reception.Status, &reception.AppliedAt, &reception.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("querying database: %w", err)
	}

	linesQuery := `
		SELECT id, reception_id, product_id, quantity, unit_cost
		FROM reception_lines
		WHERE reception_id = $1`

	rows, err := r.DB.QueryContext(dbCtx, linesQuery, id)
	if err != nil {
		return nil, fmt.Errorf("querying reception lines: %w", err)
	}

	defer rows.Close()

	for rows.Next() {
		var line models.ReceptionLine

		err := rows.Scan(&line.ID, &line.ReceptionID, &line.ProductID, &line.Quantity, &line.UnitCost)
		if err != nil {
			return nil, err
		}

		reception.Lines = append(reception.Lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reception, nil
}

func (r *receptionRepository) ListReceptions(ctx context.Context, page, size int) ([]*models.Reception, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM receptions`).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `
		SELECT id, supplier_name, reference, status, applied_at, created_at
		FROM receptions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.DB.QueryContext(dbCtx, query, size, offset)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	var receptions []*models.Reception

	for rows.Next() {
		reception := &models.Reception{}

		err := rows.Scan(
			&reception.ID, &reception.SupplierName, &reception.Reference,
			&reception.Status, &reception.AppliedAt, &reception.CreatedAt)
		if err != nil {
			return nil, 0, err
		}

		receptions = append(receptions, reception)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return receptions, total, nil
}

// ApplyReception flips a draft to applied and increments stock per line in
// one transaction. Applying twice is impossible: the status guard makes
// the second call report no rows.
func (r *receptionRepository) ApplyReception(ctx context.Context, id uuid.UUID) (*models.Reception, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	applyQuery := `
		UPDATE receptions
		SET status = $1, applied_at = NOW()
		WHERE id = $2 AND status = $3
	`

	result, err := tx.ExecContext(dbCtx, applyQuery, models.ReceptionStatusApplied, id, models.ReceptionStatusDraft)
	if err != nil {
		return nil, fmt.Errorf("failed to apply reception: %w", err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updated == 0 {
		return nil, sql.ErrNoRows
	}

	stockQuery := `
		UPDATE products p
		SET stock = p.stock + rl.quantity, updated_at = NOW()
		FROM reception_lines rl
		WHERE rl.reception_id = $1 AND rl.product_id = p.id
	`

	if _, err := tx.ExecContext(dbCtx, stockQuery, id); err != nil {
		return nil, fmt.Errorf("failed to increment stock: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetReceptionByID(ctx, id)
}
