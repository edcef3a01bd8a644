package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dmorenoc/retail-pos-platform/internal/api/middleware"
	"github.com/dmorenoc/retail-pos-platform/internal/models"
	service "github.com/dmorenoc/retail-pos-platform/internal/services"
	"github.com/dmorenoc/retail-pos-platform/internal/utils"
	"github.com/dmorenoc/retail-pos-platform/internal/utils/response"
)

type CashboxHandler struct {
	cashboxService service.CashboxService
	validator      *validator.Validate
}

func NewCashboxHandler(cashboxService service.CashboxService) *CashboxHandler {
	return &CashboxHandler{cashboxService: cashboxService, validator: validator.New()}
}

func (h *CashboxHandler) CreateEntry() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateCashEntryRequest
		if err := utils.DecodeJSONBody(w, r, &req); err != nil {
			return
		}

		if !utils.ValidateStruct(w, h.validator, req) {
			return
		}

		entry, err := h.cashboxService.CreateEntry(r.Context(), &req)
		if err != nil {
			logger.Error("Cash entry creation failed", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Cash entry recorded",
			slog.String("kind", string(entry.Kind)),
			slog.String("amount", entry.Amount.StringFixed(2)))
		response.Success(w, http.StatusCreated, entry)

	}
}

// DailySummary answers GET /cashbox/summary?date=2026-08-30
func (h *CashboxHandler) DailySummary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		summary, err := h.cashboxService.DailySummary(r.Context(), r.URL.Query().Get("date"))
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, summary)

	}
}
