package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dmorenoc/retail-pos-platform/internal/api/middleware"
	"github.com/dmorenoc/retail-pos-platform/internal/errors"
	"github.com/dmorenoc/retail-pos-platform/internal/models"
	service "github.com/dmorenoc/retail-pos-platform/internal/services"
	"github.com/dmorenoc/retail-pos-platform/internal/utils"
	"github.com/dmorenoc/retail-pos-platform/internal/utils/response"
)

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: validator.New()}
}

// The working cart always belongs to the authenticated user.
func ownerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		response.Error(w, errors.UnauthorizedError("Authentication required"))

		return uuid.Nil, false
	}

	return claims.UserID, true
}

func (h *CartHandler) Hydrate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		owner, ok := ownerID(w, r)
		if !ok {
			return
		}

		var req models.HydrateCartRequest
		if err := utils.DecodeJSONBody(w, r, &req); err != nil {
			return
		}

		if !utils.ValidateStruct(w, h.validator, req) {
			return
		}

		view, err := h.cartService.Hydrate(r.Context(), owner, &req)
		if err != nil {
			logger.Warn("Cart hydration failed", slog.String("source", string(req.Source)), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Cart hydrated", slog.String("source", string(req.Source)))
		response.Success(w, http.StatusOK, view)

	}
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		owner, ok := ownerID(w, r)
		if !ok {
			return
		}

		view, err := h.cartService.View(r.Context(), owner)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, view)

	}
}

func (h *CartHandler) AddLine() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		owner, ok := ownerID(w, r)
		if !ok {
			return
		}

		var req models.AddLineRequest
		if err := utils.DecodeJSONBody(w, r, &req); err != nil {
			return
		}

		if !utils.ValidateStruct(w, h.validator, req) {
			return
		}

		view, err := h.cartService.AddLine(r.Context(), owner, &req)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, view)

	}
}

func (h *CartHandler) SetQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		owner, ok := ownerID(w, r)
		if !ok {
			return
		}

		var req models.SetQuantityRequest
		if err := utils.DecodeJSONBody(w, r, &req); err != nil {
			return
		}

		if !utils.ValidateStruct(w, h.validator, req) {
			return
		}

		view, err := h.cartService.SetQuantity(r.Context(), owner, &req)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, view)

	}
}

func (h *CartHandler) SetDiscount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		owner, ok := ownerID(w, r)
		if !ok {
			return
		}

		var req models.SetDiscountRequest
		if err := utils.DecodeJSONBody(w, r, &req); err != nil {
			return
		}

		if !utils.ValidateStruct(w, h.validator, req) {
			return
		}

		view, err := h.cartService.SetDiscount(r.Context(), owner, &req)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, view)

	}
}

func (h *CartHandler) RemoveLine() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		owner, ok := ownerID(w, r)
		if !ok {
			return
		}

		productID, err := strconv.ParseInt(r.PathValue("productId"), 10, 64)
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid product id"))

			return
		}

		view, err := h.cartService.RemoveLine(r.Context(), owner, productID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, view)

	}
}

func (h *CartHandler) Clear() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		owner, ok := ownerID(w, r)
		if !ok {
			return
		}

		if err := h.cartService.Clear(r.Context(), owner); err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, map[string]string{"message": "Cart cleared"})

	}
}
