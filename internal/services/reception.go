package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/dmorenoc/retail-pos-platform/internal/errors"
	"github.com/dmorenoc/retail-pos-platform/internal/models"
	repository "github.com/dmorenoc/retail-pos-platform/internal/repositories"
)

type ReceptionService interface {
	CreateReception(ctx context.Context, req *models.CreateReceptionRequest) (*models.Reception, error)
	GetReceptionByID(ctx context.Context, id uuid.UUID) (*models.Reception, error)
	ListReceptions(ctx context.Context, page, pageSize int) ([]*models.Reception, int, error)
	// ApplyReception moves stock. A reception can be applied exactly once.
	ApplyReception(ctx context.Context, id uuid.UUID) (*models.Reception, error)
}

type receptionService struct {
	repo     repository.ReceptionRepository
	products repository.ProductRepository
	catalog  ProductService
}

func NewReceptionService(repo repository.ReceptionRepository, products repository.ProductRepository, catalog ProductService) ReceptionService {
	return &receptionService{repo: repo, products: products, catalog: catalog}
}

func (s *receptionService) CreateReception(ctx context.Context, req *models.CreateReceptionRequest) (*models.Reception, error) {

	reception := &models.Reception{
		ID:           uuid.New(),
		SupplierName: req.SupplierName,
		Reference:    req.Reference,
		Status:       models.ReceptionStatusDraft,
	}

	for _, line := range req.Lines {
		if _, err := s.products.GetProductByID(ctx, line.ProductID); err != nil {
			return nil, errors.NotFoundError("Reception references an unknown product").WithError(err)
		}

		reception.Lines = append(reception.Lines, models.ReceptionLine{
			ID:          uuid.New(),
			ReceptionID: reception.ID,
			ProductID:   line.ProductID,
			Quantity:    line.Quantity,
			UnitCost:    line.UnitCost,
		})
	}

	if err := s.repo.CreateReception(ctx, reception); err != nil {
		return nil, errors.DatabaseError("Failed to create reception").WithError(err)
	}

	return reception, nil
}

func (s *receptionService) GetReceptionByID(ctx context.Context, id uuid.UUID) (*models.Reception, error) {

	reception, err := s.repo.GetReceptionByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Reception not found").WithError(err)
	}

	return reception, nil
}

func (s *receptionService) ListReceptions(ctx context.Context, page, pageSize int) ([]*models.Reception, int, error) {

	receptions, total, err := s.repo.ListReceptions(ctx, page, pageSize)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch receptions").WithError(err)
	}

	return receptions, total, nil
}

func (s *receptionService) ApplyReception(ctx context.Context, id uuid.UUID) (*models.Reception, error) {

	reception, err := s.repo.ApplyReception(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.BadRequestError("Reception not found or already applied")
		}

		return nil, errors.DatabaseError("Failed to apply reception").WithError(err)
	}

	s.catalog.InvalidateCatalog(ctx)

	return reception, nil
}
