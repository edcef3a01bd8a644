package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dmorenoc/retail-pos-platform/internal/api/middleware"
	"github.com/dmorenoc/retail-pos-platform/internal/errors"
	"github.com/dmorenoc/retail-pos-platform/internal/models"
	service "github.com/dmorenoc/retail-pos-platform/internal/services"
	"github.com/dmorenoc/retail-pos-platform/internal/utils"
	"github.com/dmorenoc/retail-pos-platform/internal/utils/response"
)

const maxWebhookBody = 64 << 10

type PaymentHandler struct {
	paymentService service.PaymentService
	validator      *validator.Validate
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, validator: validator.New()}
}

func (h *PaymentHandler) CreatePayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreatePaymentRequest
		if err := utils.DecodeJSONBody(w, r, &req); err != nil {
			return
		}

		if !utils.ValidateStruct(w, h.validator, req) {
			return
		}

		resp, err := h.paymentService.CreatePayment(r.Context(), &req)
		if err != nil {
			logger.Warn("Payment rejected",
				slog.String("orderId", req.OrderID.String()),
				slog.String("method", string(req.Method)),
				slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Payment recorded",
			slog.String("paymentId", resp.Payment.ID.String()),
			slog.String("method", string(resp.Payment.Method)))
		response.Success(w, http.StatusCreated, resp)

	}
}

func (h *PaymentHandler) GetPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid payment id"))

			return
		}

		payment, err := h.paymentService.GetPaymentByID(r.Context(), id)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, payment)

	}
}

func (h *PaymentHandler) ListPaymentsByOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		orderID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid order id"))

			return
		}

		payments, err := h.paymentService.ListPaymentsByOrder(r.Context(), orderID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, payments)

	}
}

// HandleWebhook receives Stripe's signed callbacks. It must acknowledge
// fast; Stripe retries on anything but 2xx.
func (h *PaymentHandler) HandleWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
		if err != nil {
			response.Error(w, errors.BadRequestError("Failed to read webhook body").WithError(err))

			return
		}

		signature := r.Header.Get("Stripe-Signature")

		event, err := h.paymentService.ProcessWebhook(r.Context(), payload, signature)
		if err != nil {
			logger.Warn("Webhook processing failed", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Webhook processed", slog.String("type", string(event.Type)))
		response.Success(w, http.StatusOK, map[string]string{"received": string(event.Type)})

	}
}
