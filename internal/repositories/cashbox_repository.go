package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmorenoc/retail-pos-platform/internal/models"
	"github.com/dmorenoc/retail-pos-platform/internal/utils"
)

type CashboxRepository interface {
	CreateEntry(ctx context.Context, entry *models.CashEntry) error
	ListEntriesByDate(ctx context.Context, day time.Time) ([]models.CashEntry, error)
}

type cashboxRepository struct {
	DB *sql.DB
}

func NewCashboxRepo(db *sql.DB) CashboxRepository {
	return &cashboxRepository{DB: db}
}

func (r *cashboxRepository) CreateEntry(ctx context.Context, entry *models.CashEntry) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO cash_entries (id, kind, concept, amount, entry_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	return r.DB.QueryRowContext(dbCtx, query,
		entry.ID, entry.Kind, entry.Concept, entry.Amount, entry.EntryDate).
		Scan(&entry.CreatedAt)
}

func (r *cashboxRepository) ListEntriesByDate(ctx context.Context, day time.Time) ([]models.CashEntry, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, kind, concept, amount, entry_date, created_at
		FROM cash_entries
		WHERE entry_date = $1
		ORDER BY created_at
	`

	rows, err := r.DB.QueryContext(dbCtx, query, day)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var entries []models.CashEntry

	for rows.Next() {
		var entry models.CashEntry

		err := rows.Scan(&entry.ID, &entry.Kind, &entry.Concept, &entry.Amount, &entry.EntryDate, &entry.CreatedAt)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
