package handlers

import (
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

type DispatchHandler struct {
	dispatchService service.DispatchService
	validator       *validator.Validate
}

func NewDispatchHandler(dispatchService service.DispatchService) *DispatchHandler {
	return &DispatchHandler{dispatchService: dispatchService, validator: validator.New()}
}

func (h *DispatchHandler) CreateDispatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateDispatchRequest
		if err := utils.DecodeJSONBody(w, r, &req); err != nil {
			return
		}

		if !utils.ValidateStruct(w, h.validator, req) {
			return
		}

		dispatch, err := h.dispatchService.CreateDispatch(r.Context(), &req)
		if err != nil {
			logger.Warn("Dispatch creation rejected", slog.String("orderId", req.OrderID.String()), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Dispatch created", slog.String("dispatchId", dispatch.ID.String()))
		response.Success(w, http.StatusCreated, dispatch)

	}
}

func (h *DispatchHandler) GetDispatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		orderID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid order id"))

			return
		}

		dispatch, err := h.dispatchService.GetDispatchByOrderID(r.Context(), orderID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, dispatch)

	}
}

func (h *DispatchHandler) UpdateDispatchStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		orderID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid order id"))

			return
		}

		var req models.UpdateDispatchStatusRequest
		if err := utils.DecodeJSONBody(w, r, &req); err != nil {
			return
		}

		if !utils.ValidateStruct(w, h.validator, req) {
			return
		}

		dispatch, err := h.dispatchService.UpdateDispatchStatus(r.Context(), orderID, req.Status)
		if err != nil {
			logger.Warn("Dispatch status change rejected",
				slog.String("orderId", orderID.String()),
				slog.String("status", string(req.Status)),
				slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, dispatch)

	}
}

func (h *DispatchHandler) ListDispatches() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		page, pageSize := pagination(r)

		dispatches, total, err := h.dispatchService.ListDispatches(r.Context(), page, pageSize)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     dispatches,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		})

	}
}
