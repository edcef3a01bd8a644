package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmorenoc/retail-pos-platform/internal/errors"
	"github.com/dmorenoc/retail-pos-platform/internal/models"
	repository "github.com/dmorenoc/retail-pos-platform/internal/repositories"
	"github.com/dmorenoc/retail-pos-platform/pkg/sendgrid"
)

type DispatchService interface {
	CreateDispatch(ctx context.Context, req *models.CreateDispatchRequest) (*models.Dispatch, error)
	GetDispatchByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Dispatch, error)
	UpdateDispatchStatus(ctx context.Context, orderID uuid.UUID, status models.DispatchStatus) (*models.Dispatch, error)
	ListDispatches(ctx context.Context, page, pageSize int) ([]*models.Dispatch, int, error)
}

type dispatchService struct {
	repo   repository.DispatchRepository
	orders repository.OrderRepository
	email  sendgrid.EmailService
	now    func() time.Time
}

func NewDispatchService(repo repository.DispatchRepository, orders repository.OrderRepository, email sendgrid.EmailService) DispatchService {
	return &dispatchService{repo: repo, orders: orders, email: email, now: time.Now}
}

func (s *dispatchService) CreateDispatch(ctx context.Context, req *models.CreateDispatchRequest) (*models.Dispatch, error) {

	order, err := s.orders.GetOrderByID(ctx, req.OrderID)
	if err != nil {
		return nil, errors.NotFoundError("Order not found").WithError(err)
	}

	if order.Status == models.OrderStatusCancelled {
		return nil, errors.BadRequestError("Cancelled orders cannot be dispatched")
	}

	if existing, _ := s.repo.GetDispatchByOrderID(ctx, req.OrderID); existing != nil {
		return nil, errors.DuplicateEntryError("A dispatch already exists for this order")
	}

	dispatch := &models.Dispatch{
		ID:           uuid.New(),
		OrderID:      req.OrderID,
		Carrier:      req.Carrier,
		TrackingCode: req.TrackingCode,
		Address:      req.Address,
		Status:       models.DispatchStatusPreparing,
	}

	if err := s.repo.CreateDispatch(ctx, dispatch); err != nil {
		return nil, errors.DatabaseError("Failed to create dispatch").WithError(err)
	}

	if req.NotifyEmail != "" {
		s.sendNotice(ctx, req.NotifyEmail, order, dispatch)
	}

	return dispatch, nil
}

func (s *dispatchService) GetDispatchByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Dispatch, error) {

	dispatch, err := s.repo.GetDispatchByOrderID(ctx, orderID)
	if err != nil {
		return nil, errors.NotFoundError("Dispatch not found").WithError(err)
	}

	return dispatch, nil
}

// Status only ever moves forward: preparando, en_ruta, entregado.
func (s *dispatchService) UpdateDispatchStatus(ctx context.Context, orderID uuid.UUID, status models.DispatchStatus) (*models.Dispatch, error) {

	dispatch, err := s.repo.GetDispatchByOrderID(ctx, orderID)
	if err != nil {
		return nil, errors.NotFoundError("Dispatch not found").WithError(err)
	}

	if rank(status) <= rank(dispatch.Status) {
		return nil, errors.BadRequestError("Dispatch status can only move forward")
	}

	now := s.now()

	switch status {
	case models.DispatchStatusInRoute:
		dispatch.DispatchedAt = &now
	case models.DispatchStatusDelivered:
		dispatch.DeliveredAt = &now
	}

	dispatch.Status = status

	if err := s.repo.UpdateDispatch(ctx, dispatch); err != nil {
		return nil, errors.DatabaseError("Failed to update dispatch").WithError(err)
	}

	if status == models.DispatchStatusDelivered {
		if err := s.orders.UpdateOrderStatus(ctx, orderID, models.OrderStatusDispatched); err != nil {
			slog.WarnContext(ctx, "failed to mark order as dispatched",
				slog.String("order_id", orderID.String()), slog.Any("error", err))
		}
	}

	return dispatch, nil
}

func (s *dispatchService) ListDispatches(ctx context.Context, page, pageSize int) ([]*models.Dispatch, int, error) {

	dispatches, total, err := s.repo.ListDispatches(ctx, page, pageSize)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch dispatches").WithError(err)
	}

	return dispatches, total, nil
}

func rank(status models.DispatchStatus) int {
	switch status {
	case models.DispatchStatusPreparing:
		return 0
	case models.DispatchStatusInRoute:
		return 1
	case models.DispatchStatusDelivered:
		return 2
	}

	return -1
}

func (s *dispatchService) sendNotice(ctx context.Context, to string, order *models.Order, dispatch *models.Dispatch) {

	content := fmt.Sprintf(
		"Su pedido %s está en preparación.\nTransportista: %s\nDirección: %s",
		order.Number, dispatch.Carrier, dispatch.Address)

	if dispatch.TrackingCode != "" {
		content += fmt.Sprintf("\nCódigo de seguimiento: %s", dispatch.TrackingCode)
	}

	err := s.email.Send(ctx, &models.EmailNotificationRequest{
		To:      to,
		Subject: fmt.Sprintf("Despacho del pedido %s", order.Number),
		Content: content,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to send dispatch notice",
			slog.String("order", order.Number), slog.Any("error", err))
	}
}
