package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmorenoc/retail-pos-platform/internal/cart"
	"github.com/dmorenoc/retail-pos-platform/internal/errors"
	"github.com/dmorenoc/retail-pos-platform/internal/models"
	repository "github.com/dmorenoc/retail-pos-platform/internal/repositories"
)

type CartService interface {
	// Hydrate builds the owner's working cart from exactly one source and
	// replaces whatever snapshot was stored before.
	Hydrate(ctx context.Context, ownerID uuid.UUID, req *models.HydrateCartRequest) (*models.CartView, error)
	View(ctx context.Context, ownerID uuid.UUID) (*models.CartView, error)
	AddLine(ctx context.Context, ownerID uuid.UUID, req *models.AddLineRequest) (*models.CartView, error)
	SetQuantity(ctx context.Context, ownerID uuid.UUID, req *models.SetQuantityRequest) (*models.CartView, error)
	SetDiscount(ctx context.Context, ownerID uuid.UUID, req *models.SetDiscountRequest) (*models.CartView, error)
	RemoveLine(ctx context.Context, ownerID uuid.UUID, productID int64) (*models.CartView, error)
	Clear(ctx context.Context, ownerID uuid.UUID) error
}

type cartService struct {
	snapshots repository.CartSnapshotRepository
	orders    repository.OrderRepository
	products  ProductService
}

func NewCartService(snapshots repository.CartSnapshotRepository, orders repository.OrderRepository, products ProductService) CartService {
	return &cartService{snapshots: snapshots, orders: orders, products: products}
}

func (s *cartService) Hydrate(ctx context.Context, ownerID uuid.UUID, req *models.HydrateCartRequest) (*models.CartView, error) {

	var c *cart.Cart

	switch req.Source {
	case models.HydrateEmpty:
		c = cart.New()

	case models.HydratePersisted:
		stored, err := s.snapshots.Load(ctx, ownerID)
		if err != nil {
			return nil, errors.ThirdPartyError("Failed to load stored cart").WithError(err)
		}

		if stored == nil {
			stored = cart.New()
		}

		c = stored

	case models.HydrateEdit:
		if req.OrderID == nil {
			return nil, errors.BadRequestError("order_id is required for edit mode")
		}

		edited, err := s.cartFromOrder(ctx, *req.OrderID)
		if err != nil {
			return nil, err
		}

		c = edited

	default:
		return nil, errors.BadRequestError("Unknown hydration source")
	}

	if err := s.snapshots.Save(ctx, ownerID, c); err != nil {
		return nil, errors.ThirdPartyError("Failed to persist cart").WithError(err)
	}

	return buildCartView(c), nil
}

// cartFromOrder rebuilds editable lines from a persisted order. Price
// points come from the current catalog; the discount flag is inferred from
// the price the order was actually stored with.
func (s *cartService) cartFromOrder(ctx context.Context, orderID uuid.UUID) (*cart.Cart, error) {

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, errors.NotFoundError("Order not found").WithError(err)
	}

	snapshot, err := s.products.CatalogSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	c := cart.New()

	for _, item := range order.Items {
		product, ok := snapshot[item.ProductID]
		if !ok {
			return nil, errors.BadRequestError("Order contains a product no longer in the catalog")
		}

		line := cart.Line{
			ProductID:          product.ID,
			Description:        product.Description,
			UnitSuggestedPrice: product.SuggestedPrice,
			UnitMinPrice:       product.MinPrice,
			Quantity:           item.Quantity,
			DiscountEnabled:    item.UnitPrice.Equal(product.MinPrice) && product.MinPrice.LessThan(product.SuggestedPrice),
		}

		c.Lines = append(c.Lines, line)
	}

	return c, nil
}

func (s *cartService) View(ctx context.Context, ownerID uuid.UUID) (*models.CartView, error) {

	c, err := s.loadCart(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return buildCartView(c), nil
}

func (s *cartService) AddLine(ctx context.Context, ownerID uuid.UUID, req *models.AddLineRequest) (*models.CartView, error) {

	c, err := s.loadCart(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.products.CatalogSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	product, ok := snapshot[req.ProductID]
	if !ok {
		return nil, errors.NotFoundError("Product not found in the catalog")
	}

	if err := c.AddLine(product); err != nil {
		return nil, err
	}

	return s.saveAndView(ctx, ownerID, c)
}

func (s *cartService) SetQuantity(ctx context.Context, ownerID uuid.UUID, req *models.SetQuantityRequest) (*models.CartView, error) {

	c, err := s.loadCart(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.products.CatalogSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.SetQuantity(req.ProductID, req.Quantity, snapshot); err != nil {
		return nil, err
	}

	return s.saveAndView(ctx, ownerID, c)
}

func (s *cartService) SetDiscount(ctx context.Context, ownerID uuid.UUID, req *models.SetDiscountRequest) (*models.CartView, error) {

	c, err := s.loadCart(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if err := c.SetDiscountEligible(req.ProductID, req.Enabled); err != nil {
		return nil, err
	}

	return s.saveAndView(ctx, ownerID, c)
}

func (s *cartService) RemoveLine(ctx context.Context, ownerID uuid.UUID, productID int64) (*models.CartView, error) {

	c, err := s.loadCart(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	c.RemoveLine(productID)

	return s.saveAndView(ctx, ownerID, c)
}

func (s *cartService) Clear(ctx context.Context, ownerID uuid.UUID) error {

	if err := s.snapshots.Delete(ctx, ownerID); err != nil {
		return errors.ThirdPartyError("Failed to clear cart").WithError(err)
	}

	return nil
}

func (s *cartService) loadCart(ctx context.Context, ownerID uuid.UUID) (*cart.Cart, error) {

	c, err := s.snapshots.Load(ctx, ownerID)
	if err != nil {
		return nil, errors.ThirdPartyError("Failed to load cart").WithError(err)
	}

	if c == nil {
		c = cart.New()
	}

	return c, nil
}

func (s *cartService) saveAndView(ctx context.Context, ownerID uuid.UUID, c *cart.Cart) (*models.CartView, error) {

	if err := s.snapshots.Save(ctx, ownerID, c); err != nil {
		return nil, errors.ThirdPartyError("Failed to persist cart").WithError(err)
	}

	return buildCartView(c), nil
}

func buildCartView(c *cart.Cart) *models.CartView {

	view := &models.CartView{
		Lines:   make([]models.CartLineView, 0, len(c.Lines)),
		Total:   c.Total(),
		Savings: c.Savings(),
	}

	for _, line := range c.Lines {
		view.Lines = append(view.Lines, models.CartLineView{
			ProductID:          line.ProductID,
			Description:        line.Description,
			UnitSuggestedPrice: line.UnitSuggestedPrice,
			UnitMinPrice:       line.UnitMinPrice,
			Quantity:           line.Quantity,
			DiscountEnabled:    line.DiscountEnabled,
			EffectiveUnitPrice: cart.EffectiveUnitPrice(line, cart.DisplayRule),
			LineTotal:          cart.LineTotal(line, cart.DisplayRule),
		})
	}

	return view
}
