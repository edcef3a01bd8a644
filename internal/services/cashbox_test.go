package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	appErrors "github.com/dmorenoc/retail-pos-platform/internal/errors"
	"github.com/dmorenoc/retail-pos-platform/internal/models"
	repository "github.com/dmorenoc/retail-pos-platform/internal/repositories"
	service "github.com/dmorenoc/retail-pos-platform/internal/services"
)

func cashboxTestSetup() (*repository.MockCashboxRepository, service.CashboxService) {
	repo := repository.NewMockCashboxRepository()
	return repo, service.NewCashboxService(repo)
}

func TestCreateCashEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Explicit Date", func(t *testing.T) {
		repo, svc := cashboxTestSetup()

		repo.On("CreateEntry", ctx, mock.AnythingOfType("*models.CashEntry")).Return(nil).Once()

		entry, err := svc.CreateEntry(ctx, &models.CreateCashEntryRequest{
			Kind:      models.CashEntryIncome,
			Concept:   "Venta mostrador",
			Amount:    decimal.RequireFromString("120.50"),
			EntryDate: "2026-08-30",
		})

		assert.NoError(t, err)
		assert.Equal(t, "2026-08-30", entry.EntryDate.Format("2006-01-02"))
		assert.Equal(t, models.CashEntryIncome, entry.Kind)
		repo.AssertExpectations(t)
	})

	t.Run("Failure - Non-Positive Amount", func(t *testing.T) {
		repo, svc := cashboxTestSetup()

		entry, err := svc.CreateEntry(ctx, &models.CreateCashEntryRequest{
			Kind:    models.CashEntryExpense,
			Concept: "Compra de bolsas",
			Amount:  decimal.Zero,
		})

		assert.Nil(t, entry)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeValidation, appErr.Code)
		repo.AssertNotCalled(t, "CreateEntry", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Malformed Date", func(t *testing.T) {
		_, svc := cashboxTestSetup()

		entry, err := svc.CreateEntry(ctx, &models.CreateCashEntryRequest{
			Kind:      models.CashEntryIncome,
			Concept:   "Venta mostrador",
			Amount:    decimal.RequireFromString("10.00"),
			EntryDate: "30/08/2026",
		})

		assert.Nil(t, entry)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeValidation, appErr.Code)
	})
}

func TestDailySummary(t *testing.T) {
	ctx := context.Background()
	day, _ := time.Parse("2006-01-02", "2026-08-30")

	t.Run("Success - Tallies Income And Expense", func(t *testing.T) {
		repo, svc := cashboxTestSetup()

		repo.On("ListEntriesByDate", ctx, day).Return([]models.CashEntry{
			{Kind: models.CashEntryIncome, Amount: decimal.RequireFromString("120.50")},
			{Kind: models.CashEntryIncome, Amount: decimal.RequireFromString("44.25")},
			{Kind: models.CashEntryExpense, Amount: decimal.RequireFromString("30.00")},
		}, nil).Once()

		summary, err := svc.DailySummary(ctx, "2026-08-30")

		assert.NoError(t, err)
		assert.Equal(t, "2026-08-30", summary.Date)
		assert.Equal(t, "164.75", summary.Income.StringFixed(2))
		assert.Equal(t, "30.00", summary.Expense.StringFixed(2))
		assert.Equal(t, "134.75", summary.Balance.StringFixed(2))
		assert.Len(t, summary.Entries, 3)
	})

	t.Run("Success - Empty Day Balances To Zero", func(t *testing.T) {
		repo, svc := cashboxTestSetup()

		repo.On("ListEntriesByDate", ctx, day).Return([]models.CashEntry{}, nil).Once()

		summary, err := svc.DailySummary(ctx, "2026-08-30")

		assert.NoError(t, err)
		assert.True(t, summary.Balance.IsZero())
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		repo, svc := cashboxTestSetup()

		repo.On("ListEntriesByDate", ctx, day).Return(nil, errors.New("query failed")).Once()

		summary, err := svc.DailySummary(ctx, "2026-08-30")

		assert.Nil(t, summary)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
	})
}
