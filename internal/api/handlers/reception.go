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

type ReceptionHandler struct {
	receptionService service.ReceptionService
	validator        *validator.Validate
}

func NewReceptionHandler(receptionService service.ReceptionService) *ReceptionHandler {
	return &ReceptionHandler{receptionService: receptionService, validator: validator.New()}
}

func (h *ReceptionHandler) CreateReception() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateReceptionRequest
		if err := utils.DecodeJSONBody(w, r, &req); err != nil {
			return
		}

		if !utils.ValidateStruct(w, h.validator, req) {
			return
		}

		reception, err := h.receptionService.CreateReception(r.Context(), &req)
		if err != nil {
			logger.Error("Reception creation failed", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Reception created", slog.String("receptionId", reception.ID.String()))
		response.Success(w, http.StatusCreated, reception)

	}
}

func (h *ReceptionHandler) GetReception() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid reception id"))

			return
		}

		reception, err := h.receptionService.GetReceptionByID(r.Context(), id)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, reception)

	}
}

func (h *ReceptionHandler) ListReceptions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		page, pageSize := pagination(r)

		receptions, total, err := h.receptionService.ListReceptions(r.Context(), page, pageSize)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     receptions,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		})

	}
}

func (h *ReceptionHandler) ApplyReception() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid reception id"))

			return
		}

		reception, err := h.receptionService.ApplyReception(r.Context(), id)
		if err != nil {
			logger.Warn("Reception apply rejected", slog.String("receptionId", id.String()), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Reception applied", slog.String("receptionId", reception.ID.String()))
		response.Success(w, http.StatusOK, reception)

	}
}
