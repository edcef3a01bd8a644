package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	appErrors "github.com/dmorenoc/retail-pos-platform/internal/errors"
	"github.com/dmorenoc/retail-pos-platform/internal/models"
	repository "github.com/dmorenoc/retail-pos-platform/internal/repositories"
	service "github.com/dmorenoc/retail-pos-platform/internal/services"
	"github.com/dmorenoc/retail-pos-platform/internal/services/mocks"
)

func receptionTestSetup() (*repository.MockReceptionRepository, *repository.MockProductRepository, *mocks.ProductService, service.ReceptionService) {
	repo := repository.NewMockReceptionRepository()
	products := repository.NewMockProductRepository()
	catalog := new(mocks.ProductService)

	return repo, products, catalog, service.NewReceptionService(repo, products, catalog)
}

func TestCreateReception(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Starts As Draft", func(t *testing.T) {
		repo, products, _, svc := receptionTestSetup()

		products.On("GetProductByID", ctx, int64(7)).Return(&models.Product{ID: 7}, nil).Once()
		repo.On("CreateReception", ctx, mock.AnythingOfType("*models.Reception")).Return(nil).Once()

		reception, err := svc.CreateReception(ctx, &models.CreateReceptionRequest{
			SupplierName: "Distribuidora Norte",
			Reference:    "FAC-00123",
			Lines: []models.ReceptionLineRequest{
				{ProductID: 7, Quantity: 24, UnitCost: decimal.RequireFromString("6.10")},
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, models.ReceptionStatusDraft, reception.Status)
		assert.Len(t, reception.Lines, 1)
		assert.Equal(t, reception.ID, reception.Lines[0].ReceptionID)
		repo.AssertExpectations(t)
	})

	t.Run("Failure - Unknown Product", func(t *testing.T) {
		repo, products, _, svc := receptionTestSetup()

		products.On("GetProductByID", ctx, int64(99)).Return(nil, sql.ErrNoRows).Once()

		reception, err := svc.CreateReception(ctx, &models.CreateReceptionRequest{
			SupplierName: "Distribuidora Norte",
			Lines: []models.ReceptionLineRequest{
				{ProductID: 99, Quantity: 10, UnitCost: decimal.RequireFromString("1.00")},
			},
		})

		assert.Nil(t, reception)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		repo.AssertNotCalled(t, "CreateReception", mock.Anything, mock.Anything)
	})
}

func TestApplyReception(t *testing.T) {
	ctx := context.Background()
	receptionID := uuid.New()

	t.Run("Success - Catalog Cache Dropped", func(t *testing.T) {
		repo, _, catalog, svc := receptionTestSetup()

		applied := &models.Reception{ID: receptionID, Status: models.ReceptionStatusApplied}
		repo.On("ApplyReception", ctx, receptionID).Return(applied, nil).Once()
		catalog.On("InvalidateCatalog", ctx).Once()

		reception, err := svc.ApplyReception(ctx, receptionID)

		assert.NoError(t, err)
		assert.Equal(t, models.ReceptionStatusApplied, reception.Status)
		catalog.AssertExpectations(t)
	})

	t.Run("Failure - Already Applied", func(t *testing.T) {
		repo, _, catalog, svc := receptionTestSetup()

		repo.On("ApplyReception", ctx, receptionID).Return(nil, sql.ErrNoRows).Once()

		reception, err := svc.ApplyReception(ctx, receptionID)

		assert.Nil(t, reception)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeBadRequest, appErr.Code)
		catalog.AssertNotCalled(t, "InvalidateCatalog", mock.Anything)
	})
}
