package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/dmorenoc/retail-pos-platform/internal/cart"
	"github.com/dmorenoc/retail-pos-platform/internal/errors"
	"github.com/dmorenoc/retail-pos-platform/internal/metrics"
	"github.com/dmorenoc/retail-pos-platform/internal/models"
	"github.com/dmorenoc/retail-pos-platform/internal/receipt"
	repository "github.com/dmorenoc/retail-pos-platform/internal/repositories"
	"github.com/dmorenoc/retail-pos-platform/pkg/sendgrid"
)

type OrderService interface {
	// SubmitOrder turns the owner's working cart into a persisted order.
	// On any failure the cart is left intact for a retry.
	SubmitOrder(ctx context.Context, ownerID uuid.UUID, req *models.SubmitOrderRequest) (*models.Order, error)
	// ResubmitOrder is the edit-mode write: the cart replaces the named
	// order's items and totals under the same stock guard.
	ResubmitOrder(ctx context.Context, ownerID uuid.UUID, orderID uuid.UUID, req *models.SubmitOrderRequest) (*models.Order, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, page, pageSize int) ([]*models.Order, int, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error)
	RenderReceipt(ctx context.Context, id uuid.UUID) (string, error)
}

type orderService struct {
	repo      repository.OrderRepository
	products  repository.ProductRepository
	snapshots repository.CartSnapshotRepository
	catalog   ProductService
	email     sendgrid.EmailService
	sanitizer *bluemonday.Policy
	now       func() time.Time
}

func NewOrderService(
	repo repository.OrderRepository,
	products repository.ProductRepository,
	snapshots repository.CartSnapshotRepository,
	catalog ProductService,
	email sendgrid.EmailService,
) OrderService {
	return &orderService{
		repo:      repo,
		products:  products,
		snapshots: snapshots,
		catalog:   catalog,
		email:     email,
		sanitizer: bluemonday.StrictPolicy(),
		now:       time.Now,
	}
}

func (s *orderService) SubmitOrder(ctx context.Context, ownerID uuid.UUID, req *models.SubmitOrderRequest) (*models.Order, error) {

	payload, err := s.preparePayload(ctx, ownerID, req)
	if err != nil {
		return nil, err
	}

	order := s.orderFromPayload(payload, req.ClientID)
	order.ID = uuid.New()
	order.Status = models.OrderStatusPending

	number, err := cart.NewOrderNumber(s.now())
	if err != nil {
		return nil, submissionError(err)
	}

	order.Number = number

	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, submissionError(err)
	}

	metrics.ObserveOrderSubmitted(req.PaymentMethod)
	s.finishSubmission(ctx, ownerID, order, req.ReceiptEmail)

	return order, nil
}

func (s *orderService) ResubmitOrder(ctx context.Context, ownerID uuid.UUID, orderID uuid.UUID, req *models.SubmitOrderRequest) (*models.Order, error) {

	existing, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, errors.NotFoundError("Order not found").WithError(err)
	}

	if existing.Status != models.OrderStatusPending {
		return nil, errors.SubmissionRejectedError("Only pending orders can be edited")
	}

	payload, err := s.preparePayload(ctx, ownerID, req)
	if err != nil {
		return nil, err
	}

	order := s.orderFromPayload(payload, req.ClientID)
	order.ID = existing.ID
	order.Number = existing.Number
	order.Status = existing.Status
	order.CreatedAt = existing.CreatedAt

	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}

	if err := s.repo.ReplaceOrder(ctx, order); err != nil {
		return nil, submissionError(err)
	}

	s.finishSubmission(ctx, ownerID, order, req.ReceiptEmail)

	return order, nil
}

// preparePayload loads the cart, runs the pre-submission stock gate against
// a fresh catalog snapshot, and prices the cart under the submission rule.
func (s *orderService) preparePayload(ctx context.Context, ownerID uuid.UUID, req *models.SubmitOrderRequest) (cart.SubmissionPayload, error) {

	var empty cart.SubmissionPayload

	c, err := s.snapshots.Load(ctx, ownerID)
	if err != nil {
		return empty, errors.ThirdPartyError("Failed to load cart").WithError(err)
	}

	if c == nil || c.IsEmpty() {
		return empty, errors.SubmissionRejectedError("The cart is empty")
	}

	snapshot, err := s.catalog.CatalogSnapshot(ctx)
	if err != nil {
		return empty, err
	}

	if shortages := c.ValidateStock(snapshot); len(shortages) > 0 {
		detail := ""
		for i, sh := range shortages {
			if i > 0 {
				detail += "; "
			}

			detail += fmt.Sprintf("%s: requested %d, available %d", sh.Description, sh.Requested, sh.Available)
		}

		return empty, errors.StockInsufficientError("Some products no longer have enough stock").WithDetail(detail)
	}

	payload := c.BuildSubmissionPayload(cart.Meta{
		PaymentMethod: req.PaymentMethod,
		PointOfSale:   req.PointOfSale,
	})
	payload.Notes = s.sanitizer.Sanitize(payload.Notes)

	return payload, nil
}

func (s *orderService) orderFromPayload(payload cart.SubmissionPayload, clientID *uuid.UUID) *models.Order {

	order := &models.Order{
		ClientID: clientID,
		Subtotal: payload.Subtotal,
		Tax:      payload.Tax,
		Total:    payload.Total,
		Notes:    payload.Notes,
	}

	for _, line := range payload.Lines {
		order.Items = append(order.Items, models.OrderItem{
			ID:        uuid.New(),
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal,
		})
	}

	return order
}

// The cart is discarded only after the database accepted the order. The
// receipt email is best effort; a failed send never fails the sale.
func (s *orderService) finishSubmission(ctx context.Context, ownerID uuid.UUID, order *models.Order, receiptEmail string) {

	if err := s.snapshots.Delete(ctx, ownerID); err != nil {
		slog.WarnContext(ctx, "failed to discard cart after submission",
			slog.String("order", order.Number), slog.Any("error", err))
	}

	s.catalog.InvalidateCatalog(ctx)

	if receiptEmail == "" {
		return
	}

	ticket := receipt.Render(order, receipt.Options{})

	err := s.email.Send(ctx, &models.EmailNotificationRequest{
		To:      receiptEmail,
		Subject: fmt.Sprintf("Comprobante %s", order.Number),
		Content: ticket,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to send receipt email",
			slog.String("order", order.Number), slog.Any("error", err))
	}
}

// submissionError keeps the failure mode uniform toward the caller. Stock
// conflicts get their own code so the UI can prompt a cart refresh.
func submissionError(err error) error {

	if err == repository.ErrStockConflict {
		return errors.StockInsufficientError("Stock changed while submitting; refresh the cart").WithError(err)
	}

	return errors.SubmissionRejectedError("The order could not be saved").WithError(err)
}

func (s *orderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {

	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Order not found").WithError(err)
	}

	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, page, pageSize int) ([]*models.Order, int, error) {

	orders, total, err := s.repo.ListOrders(ctx, page, pageSize)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, total, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {

	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Order not found").WithError(err)
	}

	if order.Status == status {
		return order, nil
	}

	if order.Status == models.OrderStatusCancelled {
		return nil, errors.BadRequestError("Cancelled orders cannot change status")
	}

	// Cancelling is allowed from any live status; everything else only
	// moves forward through pendiente, pagado, despachado.
	if status != models.OrderStatusCancelled && orderStatusRank(status) <= orderStatusRank(order.Status) {
		return nil, errors.BadRequestError(
			fmt.Sprintf("An order cannot move from %s back to %s", order.Status, status))
	}

	if err := s.repo.UpdateOrderStatus(ctx, id, status); err != nil {
		return nil, errors.DatabaseError("Failed to update order status").WithError(err)
	}

	// Cancelling returns the reserved units to the shelf.
	if status == models.OrderStatusCancelled {
		for _, item := range order.Items {
			if err := s.products.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
				slog.ErrorContext(ctx, "failed to restore stock for cancelled order",
					slog.String("order", order.Number),
					slog.Int64("product", item.ProductID),
					slog.Any("error", err))
			}
		}

		s.catalog.InvalidateCatalog(ctx)
	}

	order.Status = status

	return order, nil
}

func orderStatusRank(status models.OrderStatus) int {
	switch status {
	case models.OrderStatusPending:
		return 0
	case models.OrderStatusPaid:
		return 1
	case models.OrderStatusDispatched:
		return 2
	}

	return -1
}

func (s *orderService) RenderReceipt(ctx context.Context, id uuid.UUID) (string, error) {

	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return "", errors.NotFoundError("Order not found").WithError(err)
	}

	return receipt.Render(order, receipt.Options{}), nil
}
