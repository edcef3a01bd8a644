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

type ClientHandler struct {
	clientService service.ClientService
	validator     *validator.Validate
}

func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService, validator: validator.New()}
}

func (h *ClientHandler) CreateClient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateClientRequest
		if err := utils.DecodeJSONBody(w, r, &req); err != nil {
			return
		}

		if !utils.ValidateStruct(w, h.validator, req) {
			return
		}

		client, err := h.clientService.CreateClient(r.Context(), &req)
		if err != nil {
			logger.Error("Client creation failed", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Client created", slog.String("clientId", client.ID.String()))
		response.Success(w, http.StatusCreated, client)

	}
}

func (h *ClientHandler) GetClient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid client id"))

			return
		}

		client, err := h.clientService.GetClientByID(r.Context(), id)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, client)

	}
}

// SearchByDocument looks a client up by exact document for the checkout
// form. GET /clients/search?doc_type=dni&doc_number=12345678
func (h *ClientHandler) SearchByDocument() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		docType := models.DocumentType(r.URL.Query().Get("doc_type"))
		docNumber := r.URL.Query().Get("doc_number")

		if docType == "" || docNumber == "" {
			response.Error(w, errors.BadRequestError("doc_type and doc_number are required"))

			return
		}

		client, err := h.clientService.GetClientByDocument(r.Context(), docType, docNumber)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, client)

	}
}

func (h *ClientHandler) UpdateClient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid client id"))

			return
		}

		var req models.UpdateClientRequest
		if err := utils.DecodeJSONBody(w, r, &req); err != nil {
			return
		}

		if !utils.ValidateStruct(w, h.validator, req) {
			return
		}

		client, err := h.clientService.UpdateClient(r.Context(), id, &req)
		if err != nil {
			logger.Error("Client update failed", slog.String("clientId", id.String()), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, client)

	}
}

func (h *ClientHandler) ListClients() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		page, pageSize := pagination(r)

		clients, total, err := h.clientService.ListClients(r.Context(), page, pageSize)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     clients,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		})

	}
}
