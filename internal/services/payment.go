package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmorenoc/retail-pos-platform/internal/config"
	"github.com/dmorenoc/retail-pos-platform/internal/errors"
	"github.com/dmorenoc/retail-pos-platform/internal/models"
	repository "github.com/dmorenoc/retail-pos-platform/internal/repositories"
	"github.com/dmorenoc/retail-pos-platform/pkg/stripe"
)

type PaymentService interface {
	// CreatePayment records a payment against a pending order. Card
	// payments go through Stripe and settle via webhook; the rest settle
	// on the spot.
	CreatePayment(ctx context.Context, req *models.CreatePaymentRequest) (*models.PaymentResponse, error)
	GetPaymentByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	ListPaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.Payment, error)
	ProcessWebhook(ctx context.Context, payload []byte, signature string) (stripe.Event, error)
}

var decimalHundred = decimal.NewFromInt(100)

type paymentService struct {
	repo         repository.PaymentRepository
	orders       repository.OrderRepository
	stripeClient stripe.Client
	currency     string
}

func NewPaymentService(repo repository.PaymentRepository, orders repository.OrderRepository, stripeClient stripe.Client, cfg *config.Config) PaymentService {
	return &paymentService{
		repo:         repo,
		orders:       orders,
		stripeClient: stripeClient,
		currency:     cfg.Stripe.Currency,
	}
}

func (s *paymentService) CreatePayment(ctx context.Context, req *models.CreatePaymentRequest) (*models.PaymentResponse, error) {

	order, err := s.orders.GetOrderByID(ctx, req.OrderID)
	if err != nil {
		return nil, errors.NotFoundError("Order not found").WithError(err)
	}

	if order.Status != models.OrderStatusPending {
		return nil, errors.BadRequestError("Only pending orders can be paid")
	}

	if !req.Amount.Equal(order.Total) {
		return nil, errors.ValidationError(
			fmt.Sprintf("Payment amount must match the order total of %s", order.Total.StringFixed(2)))
	}

	payment := &models.Payment{
		ID:       uuid.New(),
		OrderID:  order.ID,
		Method:   req.Method,
		Amount:   req.Amount,
		Currency: s.currency,
	}

	if req.Method == models.PaymentMethodCard {
		return s.createCardPayment(ctx, order, payment, req.Token)
	}

	payment.Status = models.PaymentStatusSucceeded

	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return nil, errors.DatabaseError("Failed to record payment").WithError(err)
	}

	if err := s.orders.UpdateOrderStatus(ctx, order.ID, models.OrderStatusPaid); err != nil {
		return nil, errors.DatabaseError("Failed to mark order as paid").WithError(err)
	}

	return &models.PaymentResponse{
		Payment: payment,
		Message: "Payment recorded.",
	}, nil
}

// createCardPayment leaves the payment pending; the webhook settles it.
func (s *paymentService) createCardPayment(ctx context.Context, order *models.Order, payment *models.Payment, token string) (*models.PaymentResponse, error) {

	// Stripe amounts are integer minor units.
	amountCents := payment.Amount.Mul(decimalHundred).IntPart()

	intent, err := s.stripeClient.CreatePaymentIntent(
		amountCents, s.currency, fmt.Sprintf("Venta %s", order.Number), token)
	if err != nil {
		return nil, errors.ThirdPartyError("Failed to create payment intent").WithError(err)
	}

	payment.Status = models.PaymentStatusPending
	payment.StripeID = intent.ID

	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return nil, errors.DatabaseError("Failed to record payment").WithError(err)
	}

	return &models.PaymentResponse{
		Payment:      payment,
		ClientSecret: intent.ClientSecret,
		Message:      "Payment initiated; confirm with the card terminal.",
	}, nil
}

func (s *paymentService) GetPaymentByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {

	payment, err := s.repo.GetPaymentByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Payment not found").WithError(err)
	}

	return payment, nil
}

func (s *paymentService) ListPaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.Payment, error) {

	payments, err := s.repo.ListPaymentsByOrder(ctx, orderID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch payments").WithError(err)
	}

	return payments, nil
}

func (s *paymentService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (stripe.Event, error) {

	event, err := s.stripeClient.VerifyWebhookSignature(payload, signature)
	if err != nil {
		return stripe.Event{}, errors.ThirdPartyError("Webhook signature verification failed").WithError(err)
	}

	switch event.Type {
	case "payment_intent.succeeded":
		stripeID, err := intentIDFromEvent(event)
		if err != nil {
			return event, err
		}

		if err := s.settleCardPayment(ctx, stripeID); err != nil {
			return event, err
		}

	case "payment_intent.payment_failed":
		stripeID, err := intentIDFromEvent(event)
		if err != nil {
			return event, err
		}

		if err := s.repo.UpdatePaymentStatusByStripeID(ctx, stripeID, models.PaymentStatusFailed); err != nil {
			return event, errors.DatabaseError("Failed to update payment status").WithError(err)
		}

	case "charge.refunded":
		paymentIntentID, ok := event.Data.Object["payment_intent"].(string)
		if !ok || paymentIntentID == "" {
			return event, errors.ThirdPartyError("Missing payment intent ID in webhook")
		}

		if err := s.repo.UpdatePaymentStatusByStripeID(ctx, paymentIntentID, models.PaymentStatusRefunded); err != nil {
			return event, errors.DatabaseError("Failed to update payment status").WithError(err)
		}

	default:
		slog.DebugContext(ctx, "ignoring stripe event", slog.String("type", string(event.Type)))
	}

	return event, nil
}

func (s *paymentService) settleCardPayment(ctx context.Context, stripeID string) error {

	if err := s.repo.UpdatePaymentStatusByStripeID(ctx, stripeID, models.PaymentStatusSucceeded); err != nil {
		return errors.DatabaseError("Failed to update payment status").WithError(err)
	}

	payment, err := s.repo.GetPaymentByStripeID(ctx, stripeID)
	if err != nil {
		return errors.DatabaseError("Failed to load settled payment").WithError(err)
	}

	if err := s.orders.UpdateOrderStatus(ctx, payment.OrderID, models.OrderStatusPaid); err != nil {
		return errors.DatabaseError("Failed to mark order as paid").WithError(err)
	}

	return nil
}

func intentIDFromEvent(event stripe.Event) (string, error) {

	idValue, ok := event.Data.Object["id"]
	if !ok {
		return "", errors.InternalError("Payment intent ID not found in Stripe response")
	}

	stripeID, ok := idValue.(string)
	if !ok || stripeID == "" {
		return "", errors.ThirdPartyError("Missing payment intent ID in webhook")
	}

	return stripeID, nil
}
