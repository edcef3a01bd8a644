package repository_test

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmorenoc/retail-pos-platform/internal/models"
	repository "github.com/dmorenoc/retail-pos-platform/internal/repositories"
)

func setupReceptionRepoTest(t *testing.T) (repository.ReceptionRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	return repository.NewReceptionRepo(db), mock
}

var (
	receptionInsertSQL  = regexp.QuoteMeta(`INSERT INTO receptions (id, supplier_name, reference, status)`)
	receptionLineSQL    = regexp.QuoteMeta(`INSERT INTO reception_lines (id, reception_id, product_id, quantity, unit_cost)`)
	receptionSelectSQL  = regexp.QuoteMeta(`SELECT id, supplier_name, reference, status, applied_at, created_at`)
	receptionLinesSQL   = regexp.QuoteMeta(`FROM reception_lines`)
	receptionApplySQL   = regexp.QuoteMeta(`WHERE id = $2 AND status = $3`)
	receptionRestockSQL = regexp.QuoteMeta(`SET stock = p.stock + rl.quantity, updated_at = NOW()`)
)

func draftReception() *models.Reception {
	receptionID := uuid.New()

	return &models.Reception{
		ID:           receptionID,
		SupplierName: "Distribuidora Norte",
		Reference:    "FAC-0042",
		Status:       models.ReceptionStatusDraft,
		Lines: []models.ReceptionLine{
			{ID: uuid.New(), ReceptionID: receptionID, ProductID: 7, Quantity: 24, UnitCost: decimal.RequireFromString("5.10")},
		},
	}
}

func TestReceptionRepoCreateReception(t *testing.T) {
	ctx := t.Context()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		repo, mock := setupReceptionRepoTest(t)
		reception := draftReception()

		mock.ExpectBegin()
		mock.ExpectQuery(receptionInsertSQL).
			WithArgs(reception.ID, reception.SupplierName, reception.Reference, reception.Status).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

		line := reception.Lines[0]
		mock.ExpectExec(receptionLineSQL).
			WithArgs(line.ID, line.ReceptionID, line.ProductID, line.Quantity, line.UnitCost).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.CreateReception(ctx, reception)

		assert.NoError(t, err)
		assert.WithinDuration(t, now, reception.CreatedAt, time.Second)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Line Insert Error", func(t *testing.T) {
		repo, mock := setupReceptionRepoTest(t)
		reception := draftReception()
		dbErr := errors.New("line insert failed")

		mock.ExpectBegin()
		mock.ExpectQuery(receptionInsertSQL).
			WithArgs(reception.ID, reception.SupplierName, reception.Reference, reception.Status).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

		line := reception.Lines[0]
		mock.ExpectExec(receptionLineSQL).
			WithArgs(line.ID, line.ReceptionID, line.ProductID, line.Quantity, line.UnitCost).
			WillReturnError(dbErr)
		mock.ExpectRollback()

		err := repo.CreateReception(ctx, reception)

		require.Error(t, err)
		assert.ErrorContains(t, err, "failed to insert reception line")
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReceptionRepoApplyReception(t *testing.T) {
	ctx := t.Context()
	now := time.Now()

	t.Run("Success - Stock Incremented And Reloaded", func(t *testing.T) {
		repo, mock := setupReceptionRepoTest(t)
		stored := draftReception()

		mock.ExpectBegin()
		mock.ExpectExec(receptionApplySQL).
			WithArgs(models.ReceptionStatusApplied, stored.ID, models.ReceptionStatusDraft).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(receptionRestockSQL).
			WithArgs(stored.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		headerRows := sqlmock.NewRows([]string{"id", "supplier_name", "reference", "status", "applied_at", "created_at"}).
			AddRow(stored.ID.String(), stored.SupplierName, stored.Reference, string(models.ReceptionStatusApplied), now, now)
		mock.ExpectQuery(receptionSelectSQL).WithArgs(stored.ID).WillReturnRows(headerRows)

		line := stored.Lines[0]
		lineRows := sqlmock.NewRows([]string{"id", "reception_id", "product_id", "quantity", "unit_cost"}).
			AddRow(line.ID.String(), line.ReceptionID.String(), line.ProductID, line.Quantity, "5.10")
		mock.ExpectQuery(receptionLinesSQL).WithArgs(stored.ID).WillReturnRows(lineRows)

		reception, err := repo.ApplyReception(ctx, stored.ID)

		require.NoError(t, err)
		require.NotNil(t, reception)
		assert.Equal(t, models.ReceptionStatusApplied, reception.Status)
		require.NotNil(t, reception.AppliedAt)
		require.Len(t, reception.Lines, 1)
		assert.Equal(t, 24, reception.Lines[0].Quantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Already Applied", func(t *testing.T) {
		repo, mock := setupReceptionRepoTest(t)
		receptionID := uuid.New()

		// The status guard keeps an applied reception from re-applying.
		mock.ExpectBegin()
		mock.ExpectExec(receptionApplySQL).
			WithArgs(models.ReceptionStatusApplied, receptionID, models.ReceptionStatusDraft).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		reception, err := repo.ApplyReception(ctx, receptionID)

		require.Error(t, err)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, reception)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Stock Update Error", func(t *testing.T) {
		repo, mock := setupReceptionRepoTest(t)
		receptionID := uuid.New()
		dbErr := errors.New("restock failed")

		mock.ExpectBegin()
		mock.ExpectExec(receptionApplySQL).
			WithArgs(models.ReceptionStatusApplied, receptionID, models.ReceptionStatusDraft).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(receptionRestockSQL).
			WithArgs(receptionID).
			WillReturnError(dbErr)
		mock.ExpectRollback()

		reception, err := repo.ApplyReception(ctx, receptionID)

		require.Error(t, err)
		assert.ErrorContains(t, err, "failed to increment stock")
		assert.ErrorIs(t, err, dbErr)
		assert.Nil(t, reception)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReceptionRepoGetReceptionByID(t *testing.T) {
	ctx := t.Context()

	t.Run("Failure - Not Found", func(t *testing.T) {
		repo, mock := setupReceptionRepoTest(t)
		receptionID := uuid.New()

		mock.ExpectQuery(receptionSelectSQL).WithArgs(receptionID).WillReturnError(sql.ErrNoRows)

		reception, err := repo.GetReceptionByID(ctx, receptionID)

		require.Error(t, err)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, reception)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
