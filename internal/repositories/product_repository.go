package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmorenoc/retail-pos-platform/internal/models"
	"github.com/dmorenoc/retail-pos-platform/internal/utils"
)

// ErrStockConflict is returned when a stock mutation would drive a
// product's stock negative. The database guard is the final authority on
// stock; the cart's snapshot checks are advisory only.
var ErrStockConflict = errors.New("insufficient stock")

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	ListProducts(ctx context.Context, page, size int) ([]*models.Product, int, error)
	GetCatalog(ctx context.Context) ([]models.Product, error)
	AdjustStock(ctx context.Context, productID int64, delta int) error
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO products (categoria_id, presentacion_id, codigo, descripcion, precio_sugerido, precio_minimo, stock, imagen)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id, created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query,
		product.CategoryID, product.PresentationID, product.Code, product.Description,
		product.SuggestedPrice, product.MinPrice, product.Stock, product.Image).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	product := &models.Product{}

	query := `
		SELECT id, categoria_id, presentacion_id, codigo, descripcion, precio_sugerido, precio_minimo, stock, imagen, created_at, updated_at
		FROM products
		WHERE id = $1`

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(
		&product.ID, &product.CategoryID, &product.PresentationID, &product.Code, &product.Description,
		&product.SuggestedPrice, &product.MinPrice, &product.Stock, &product.Image,
		&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("querying database: %w", err)
	}

	return product, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products SET categoria_id = $1, presentacion_id = $2, codigo = $3, descripcion = $4, precio_sugerido = $5, precio_minimo = $6, stock = $7, imagen = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query,
		product.CategoryID, product.PresentationID, product.Code, product.Description,
		product.SuggestedPrice, product.MinPrice, product.Stock, product.Image, product.ID).
		Scan(&product.UpdatedAt)
}

func (r *productRepository) ListProducts(ctx context.Context, page, size int) ([]*models.Product, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM products`

	err := r.DB.QueryRowContext(dbCtx, countQuery).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `
		SELECT id, categoria_id, presentacion_id, codigo, descripcion, precio_sugerido, precio_minimo, stock, imagen, created_at, updated_at
		FROM products
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.DB.QueryContext(dbCtx, query, size, offset)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	var products []*models.Product

	for rows.Next() {
		product := &models.Product{}

		err := rows.Scan(
			&product.ID, &product.CategoryID, &product.PresentationID, &product.Code, &product.Description,
			&product.SuggestedPrice, &product.MinPrice, &product.Stock, &product.Image,
			&product.CreatedAt, &product.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// GetCatalog loads the full catalog for the cart engine's snapshot. The
// catalog of a small retail operation fits in memory comfortably.
func (r *productRepository) GetCatalog(ctx context.Context) ([]models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, categoria_id, presentacion_id, codigo, descripcion, precio_sugerido, precio_minimo, stock, imagen, created_at, updated_at
		FROM products
		ORDER BY id
	`

	rows, err := r.DB.QueryContext(dbCtx, query)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}

	defer rows.Close()

	var products []models.Product

	for rows.Next() {
		var product models.Product

		err := rows.Scan(
			&product.ID, &product.CategoryID, &product.PresentationID, &product.Code, &product.Description,
			&product.SuggestedPrice, &product.MinPrice, &product.Stock, &product.Image,
			&product.CreatedAt, &product.UpdatedAt)
		if err != nil {
			return nil, err
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

// AdjustStock applies a signed stock delta. The WHERE guard refuses to
// drive stock negative and reports ErrStockConflict instead.
func (r *productRepository) AdjustStock(ctx context.Context, productID int64, delta int) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products
		SET stock = stock + $1, updated_at = NOW()
		WHERE id = $2 AND stock + $1 >= 0
	`

	result, err := r.DB.ExecContext(dbCtx, query, delta, productID)
	if err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return ErrStockConflict
	}

	return nil
}
