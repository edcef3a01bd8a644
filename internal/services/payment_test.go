package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	stripeSDK "github.com/stripe/stripe-go/v81"

	"github.com/dmorenoc/retail-pos-platform/internal/config"
	appErrors "github.com/dmorenoc/retail-pos-platform/internal/errors"
	"github.com/dmorenoc/retail-pos-platform/internal/models"
	repository "github.com/dmorenoc/retail-pos-platform/internal/repositories"
	service "github.com/dmorenoc/retail-pos-platform/internal/services"
	pkgStripe "github.com/dmorenoc/retail-pos-platform/pkg/stripe"
)

type mockStripeClient struct {
	mock.Mock
}

func (m *mockStripeClient) CreatePaymentIntent(amount int64, currency string, description string, paymentMethodID string) (*stripeSDK.PaymentIntent, error) {
	args := m.Called(amount, currency, description, paymentMethodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripeSDK.PaymentIntent), args.Error(1)
}

func (m *mockStripeClient) ConfirmPaymentIntent(paymentIntentID string) (*stripeSDK.PaymentIntent, error) {
	args := m.Called(paymentIntentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripeSDK.PaymentIntent), args.Error(1)
}

func (m *mockStripeClient) RefundPayment(paymentIntentID string, amount int64) (*stripeSDK.Refund, error) {
	args := m.Called(paymentIntentID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripeSDK.Refund), args.Error(1)
}

func (m *mockStripeClient) VerifyWebhookSignature(payload []byte, signature string) (pkgStripe.Event, error) {
	args := m.Called(payload, signature)
	return args.Get(0).(pkgStripe.Event), args.Error(1)
}

func paymentTestSetup() (*repository.MockPaymentRepository, *repository.MockOrderRepository, *mockStripeClient, service.PaymentService) {
	repo := repository.NewMockPaymentRepository()
	orders := repository.NewMockOrderRepository()
	stripeClient := new(mockStripeClient)

	cfg := &config.Config{}
	cfg.Stripe.Currency = "pen"

	svc := service.NewPaymentService(repo, orders, stripeClient, cfg)

	return repo, orders, stripeClient, svc
}

func pendingOrder(orderID uuid.UUID) *models.Order {
	return &models.Order{
		ID:     orderID,
		Number: "PED-260830-A1B2",
		Status: models.OrderStatusPending,
		Total:  decimal.RequireFromString("44.25"),
	}
}

func TestCreatePayment(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()

	t.Run("Success - Cash Settles Immediately", func(t *testing.T) {
		repo, orders, _, svc := paymentTestSetup()

		orders.On("GetOrderByID", ctx, orderID).Return(pendingOrder(orderID), nil).Once()
		repo.On("CreatePayment", ctx, mock.AnythingOfType("*models.Payment")).Return(nil).Once()
		orders.On("UpdateOrderStatus", ctx, orderID, models.OrderStatusPaid).Return(nil).Once()

		resp, err := svc.CreatePayment(ctx, &models.CreatePaymentRequest{
			OrderID: orderID,
			Method:  models.PaymentMethodCash,
			Amount:  decimal.RequireFromString("44.25"),
		})

		assert.NoError(t, err)
		assert.Equal(t, models.PaymentStatusSucceeded, resp.Payment.Status)
		assert.Empty(t, resp.ClientSecret)
		assert.Equal(t, "pen", resp.Payment.Currency)
		repo.AssertExpectations(t)
		orders.AssertExpectations(t)
	})

	t.Run("Success - Card Stays Pending With Client Secret", func(t *testing.T) {
		repo, orders, stripeClient, svc := paymentTestSetup()

		orders.On("GetOrderByID", ctx, orderID).Return(pendingOrder(orderID), nil).Once()
		stripeClient.On("CreatePaymentIntent", int64(4425), "pen", "Venta PED-260830-A1B2", "pm_123").
			Return(&stripeSDK.PaymentIntent{ID: "pi_123", ClientSecret: "pi_123_secret"}, nil).Once()
		repo.On("CreatePayment", ctx, mock.AnythingOfType("*models.Payment")).Return(nil).Once()

		resp, err := svc.CreatePayment(ctx, &models.CreatePaymentRequest{
			OrderID: orderID,
			Method:  models.PaymentMethodCard,
			Amount:  decimal.RequireFromString("44.25"),
			Token:   "pm_123",
		})

		assert.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPending, resp.Payment.Status)
		assert.Equal(t, "pi_123", resp.Payment.StripeID)
		assert.Equal(t, "pi_123_secret", resp.ClientSecret)
		orders.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything)
		stripeClient.AssertExpectations(t)
	})

	t.Run("Failure - Amount Mismatch", func(t *testing.T) {
		repo, orders, _, svc := paymentTestSetup()

		orders.On("GetOrderByID", ctx, orderID).Return(pendingOrder(orderID), nil).Once()

		resp, err := svc.CreatePayment(ctx, &models.CreatePaymentRequest{
			OrderID: orderID,
			Method:  models.PaymentMethodCash,
			Amount:  decimal.RequireFromString("40.00"),
		})

		assert.Nil(t, resp)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeValidation, appErr.Code)
		repo.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Order Already Paid", func(t *testing.T) {
		_, orders, _, svc := paymentTestSetup()

		paid := pendingOrder(orderID)
		paid.Status = models.OrderStatusPaid

		orders.On("GetOrderByID", ctx, orderID).Return(paid, nil).Once()

		resp, err := svc.CreatePayment(ctx, &models.CreatePaymentRequest{
			OrderID: orderID,
			Method:  models.PaymentMethodCash,
			Amount:  decimal.RequireFromString("44.25"),
		})

		assert.Nil(t, resp)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeBadRequest, appErr.Code)
	})

	t.Run("Failure - Stripe Rejects Intent", func(t *testing.T) {
		repo, orders, stripeClient, svc := paymentTestSetup()

		orders.On("GetOrderByID", ctx, orderID).Return(pendingOrder(orderID), nil).Once()
		stripeClient.On("CreatePaymentIntent", int64(4425), "pen", "Venta PED-260830-A1B2", "").
			Return(nil, errors.New("card declined")).Once()

		resp, err := svc.CreatePayment(ctx, &models.CreatePaymentRequest{
			OrderID: orderID,
			Method:  models.PaymentMethodCard,
			Amount:  decimal.RequireFromString("44.25"),
		})

		assert.Nil(t, resp)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeThirdPartyError, appErr.Code)
		repo.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
	})
}

func TestProcessWebhook(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()
	payload := []byte(`{"id":"evt_1"}`)

	intentEvent := func(eventType string, object map[string]interface{}) pkgStripe.Event {
		return pkgStripe.Event{
			Type: stripeSDK.EventType(eventType),
			Data: &stripeSDK.EventData{Object: object},
		}
	}

	t.Run("Success - Intent Succeeded Settles Payment And Order", func(t *testing.T) {
		repo, orders, stripeClient, svc := paymentTestSetup()

		event := intentEvent("payment_intent.succeeded", map[string]interface{}{"id": "pi_123"})
		stripeClient.On("VerifyWebhookSignature", payload, "sig").Return(event, nil).Once()
		repo.On("UpdatePaymentStatusByStripeID", ctx, "pi_123", models.PaymentStatusSucceeded).Return(nil).Once()
		repo.On("GetPaymentByStripeID", ctx, "pi_123").
			Return(&models.Payment{ID: uuid.New(), OrderID: orderID, StripeID: "pi_123"}, nil).Once()
		orders.On("UpdateOrderStatus", ctx, orderID, models.OrderStatusPaid).Return(nil).Once()

		_, err := svc.ProcessWebhook(ctx, payload, "sig")

		assert.NoError(t, err)
		repo.AssertExpectations(t)
		orders.AssertExpectations(t)
	})

	t.Run("Success - Intent Failed Marks Payment Failed", func(t *testing.T) {
		repo, _, stripeClient, svc := paymentTestSetup()

		event := intentEvent("payment_intent.payment_failed", map[string]interface{}{"id": "pi_123"})
		stripeClient.On("VerifyWebhookSignature", payload, "sig").Return(event, nil).Once()
		repo.On("UpdatePaymentStatusByStripeID", ctx, "pi_123", models.PaymentStatusFailed).Return(nil).Once()

		_, err := svc.ProcessWebhook(ctx, payload, "sig")

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Success - Refund Marks Payment Refunded", func(t *testing.T) {
		repo, _, stripeClient, svc := paymentTestSetup()

		event := intentEvent("charge.refunded", map[string]interface{}{"payment_intent": "pi_123"})
		stripeClient.On("VerifyWebhookSignature", payload, "sig").Return(event, nil).Once()
		repo.On("UpdatePaymentStatusByStripeID", ctx, "pi_123", models.PaymentStatusRefunded).Return(nil).Once()

		_, err := svc.ProcessWebhook(ctx, payload, "sig")

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Success - Unknown Event Is Ignored", func(t *testing.T) {
		repo, _, stripeClient, svc := paymentTestSetup()

		event := intentEvent("customer.created", map[string]interface{}{})
		stripeClient.On("VerifyWebhookSignature", payload, "sig").Return(event, nil).Once()

		_, err := svc.ProcessWebhook(ctx, payload, "sig")

		assert.NoError(t, err)
		repo.AssertNotCalled(t, "UpdatePaymentStatusByStripeID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Bad Signature", func(t *testing.T) {
		_, _, stripeClient, svc := paymentTestSetup()

		stripeClient.On("VerifyWebhookSignature", payload, "bad").
			Return(pkgStripe.Event{}, errors.New("signature mismatch")).Once()

		_, err := svc.ProcessWebhook(ctx, payload, "bad")

		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeThirdPartyError, appErr.Code)
	})
}
