package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dmorenoc/retail-pos-platform/internal/cache"
	"github.com/dmorenoc/retail-pos-platform/internal/cart"
	"github.com/dmorenoc/retail-pos-platform/internal/errors"
	"github.com/dmorenoc/retail-pos-platform/internal/models"
	repository "github.com/dmorenoc/retail-pos-platform/internal/repositories"
)

// ImageDir is where multipart product images land. The handler serves them
// back under /uploads/.
const ImageDir = "uploads"

type ProductService interface {
	CreateProduct(ctx context.Context, write *models.ProductWrite) (*models.Product, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, req *models.UpdateProductRequest) (*models.Product, error)
	ListProducts(ctx context.Context, page, pageSize int) ([]*models.Product, int, error)
	// CatalogSnapshot is the cart engine's advisory view of stock and
	// prices. It is cached; staleness is acceptable by contract.
	CatalogSnapshot(ctx context.Context) (cart.Snapshot, error)
	// InvalidateCatalog drops the cached snapshot after any stock
	// movement outside this service.
	InvalidateCatalog(ctx context.Context)
}

type productService struct {
	repo  repository.ProductRepository
	cache cache.Cache
}

func NewProductService(repo repository.ProductRepository, cache cache.Cache) ProductService {
	return &productService{repo: repo, cache: cache}
}

func (s *productService) CreateProduct(ctx context.Context, write *models.ProductWrite) (*models.Product, error) {

	if write.Fields.MinPrice.GreaterThan(write.Fields.SuggestedPrice) {
		return nil, errors.ValidationError("Minimum price cannot exceed the suggested price")
	}

	product := &models.Product{
		CategoryID:     write.Fields.CategoryID,
		PresentationID: write.Fields.PresentationID,
		Code:           write.Fields.Code,
		Description:    write.Fields.Description,
		SuggestedPrice: write.Fields.SuggestedPrice,
		MinPrice:       write.Fields.MinPrice,
		Stock:          write.Fields.Stock,
	}

	if write.Kind == models.ProductWriteMultipart && len(write.Image) > 0 {
		imagePath, err := s.storeImage(write)
		if err != nil {
			return nil, errors.InternalError("Failed to store product image").WithError(err)
		}

		product.Image = imagePath
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, errors.DatabaseError("Failed to create product").WithError(err)
	}

	s.InvalidateCatalog(ctx)

	return product, nil
}

func (s *productService) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Product not found").WithError(err)
	}

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id int64, req *models.UpdateProductRequest) (*models.Product, error) {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Product not found").WithError(err)
	}

	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}
	if req.PresentationID != nil {
		product.PresentationID = *req.PresentationID
	}
	if req.Code != nil {
		product.Code = *req.Code
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.SuggestedPrice != nil {
		product.SuggestedPrice = *req.SuggestedPrice
	}
	if req.MinPrice != nil {
		product.MinPrice = *req.MinPrice
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if product.MinPrice.GreaterThan(product.SuggestedPrice) {
		return nil, errors.ValidationError("Minimum price cannot exceed the suggested price")
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, errors.DatabaseError("Failed to update product").WithError(err)
	}

	s.InvalidateCatalog(ctx)

	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, page, pageSize int) ([]*models.Product, int, error) {

	products, total, err := s.repo.ListProducts(ctx, page, pageSize)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch products").WithError(err)
	}

	return products, total, nil
}

func (s *productService) CatalogSnapshot(ctx context.Context) (cart.Snapshot, error) {

	var products []models.Product

	found, err := s.cache.Get(ctx, cache.CatalogKey, &products)
	if err != nil {
		slog.WarnContext(ctx, "catalog cache read failed", slog.Any("error", err))
	}

	if !found {
		products, err = s.repo.GetCatalog(ctx)
		if err != nil {
			return nil, errors.DatabaseError("Failed to load catalog").WithError(err)
		}

		if err := s.cache.Set(ctx, cache.CatalogKey, products, 0); err != nil {
			slog.WarnContext(ctx, "catalog cache write failed", slog.Any("error", err))
		}
	}

	snapshot := make(cart.Snapshot, len(products))
	for _, p := range products {
		snapshot[p.ID] = p
	}

	return snapshot, nil
}

func (s *productService) storeImage(write *models.ProductWrite) (string, error) {

	if err := os.MkdirAll(ImageDir, 0o755); err != nil {
		return "", fmt.Errorf("creating image directory: %w", err)
	}

	name := filepath.Base(write.ImageName)
	path := filepath.Join(ImageDir, name)

	if err := os.WriteFile(path, write.Image, 0o644); err != nil {
		return "", fmt.Errorf("writing image file: %w", err)
	}

	return path, nil
}

// Stock and price edits must not survive in the cached catalog.
func (s *productService) InvalidateCatalog(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.CatalogKey); err != nil {
		slog.WarnContext(ctx, "catalog cache invalidation failed", slog.Any("error", err))
	}
}
