package handlers

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/dmorenoc/retail-pos-platform/internal/api/middleware"
	"github.com/dmorenoc/retail-pos-platform/internal/errors"
	"github.com/dmorenoc/retail-pos-platform/internal/models"
	service "github.com/dmorenoc/retail-pos-platform/internal/services"
	"github.com/dmorenoc/retail-pos-platform/internal/utils"
	"github.com/dmorenoc/retail-pos-platform/internal/utils/response"
)

// 5 MiB is plenty for a shelf photo.
const maxImageSize = 5 << 20

type ProductHandler struct {
	productService service.ProductService
	validator      *validator.Validate
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService, validator: validator.New()}
}

// CreateProduct accepts either a JSON body or a multipart form carrying an
// image; both normalize into the same write shape.
func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		write, ok := h.decodeProductWrite(w, r)
		if !ok {
			return
		}

		product, err := h.productService.CreateProduct(r.Context(), write)
		if err != nil {
			logger.Error("Product creation failed", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Product created", slog.Int64("productId", product.ID))
		response.Success(w, http.StatusCreated, product)

	}
}

func (h *ProductHandler) decodeProductWrite(w http.ResponseWriter, r *http.Request) (*models.ProductWrite, bool) {

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "multipart/form-data" {
		return h.decodeMultipart(w, r)
	}

	var fields models.ProductFields
	if err := utils.DecodeJSONBody(w, r, &fields); err != nil {
		return nil, false
	}

	if !utils.ValidateStruct(w, h.validator, fields) {
		return nil, false
	}

	return &models.ProductWrite{Kind: models.ProductWriteJSON, Fields: fields}, true
}

// The multipart form uses the catalog's wire field names.
func (h *ProductHandler) decodeMultipart(w http.ResponseWriter, r *http.Request) (*models.ProductWrite, bool) {

	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		response.Error(w, errors.BadRequestError("Invalid multipart form").WithError(err))

		return nil, false
	}

	fields, err := productFieldsFromForm(r)
	if err != nil {
		response.Error(w, err)

		return nil, false
	}

	if !utils.ValidateStruct(w, h.validator, fields) {
		return nil, false
	}

	write := &models.ProductWrite{Kind: models.ProductWriteMultipart, Fields: fields}

	file, header, err := r.FormFile("imagen")
	if err == nil {
		defer file.Close()

		data, readErr := io.ReadAll(io.LimitReader(file, maxImageSize))
		if readErr != nil {
			response.Error(w, errors.BadRequestError("Failed to read image").WithError(readErr))

			return nil, false
		}

		write.Image = data
		write.ImageName = header.Filename
	}

	return write, true
}

func productFieldsFromForm(r *http.Request) (models.ProductFields, error) {

	var fields models.ProductFields

	categoryID, err := strconv.ParseInt(r.FormValue("categoria_id"), 10, 64)
	if err != nil {
		return fields, errors.ValidationError("categoria_id must be an integer")
	}

	presentationID, err := strconv.ParseInt(r.FormValue("presentacion_id"), 10, 64)
	if err != nil {
		return fields, errors.ValidationError("presentacion_id must be an integer")
	}

	suggested, err := decimal.NewFromString(r.FormValue("precio_sugerido"))
	if err != nil {
		return fields, errors.ValidationError("precio_sugerido must be a decimal number")
	}

	min, err := decimal.NewFromString(r.FormValue("precio_minimo"))
	if err != nil {
		return fields, errors.ValidationError("precio_minimo must be a decimal number")
	}

	stock := 0
	if v := r.FormValue("stock"); v != "" {
		stock, err = strconv.Atoi(v)
		if err != nil {
			return fields, errors.ValidationError("stock must be an integer")
		}
	}

	fields.CategoryID = categoryID
	fields.PresentationID = presentationID
	fields.Code = r.FormValue("codigo")
	fields.Description = r.FormValue("descripcion")
	fields.SuggestedPrice = suggested
	fields.MinPrice = min
	fields.Stock = stock

	return fields, nil
}

func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid product id"))

			return
		}

		product, err := h.productService.GetProductByID(r.Context(), id)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, product)

	}
}

func (h *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid product id"))

			return
		}

		var req models.UpdateProductRequest
		if err := utils.DecodeJSONBody(w, r, &req); err != nil {
			return
		}

		if !utils.ValidateStruct(w, h.validator, req) {
			return
		}

		product, err := h.productService.UpdateProduct(r.Context(), id, &req)
		if err != nil {
			logger.Error("Product update failed", slog.Int64("productId", id), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Product updated", slog.Int64("productId", product.ID))
		response.Success(w, http.StatusOK, product)

	}
}

func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		page, pageSize := pagination(r)

		products, total, err := h.productService.ListProducts(r.Context(), page, pageSize)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     products,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		})

	}
}

// Catalog serves the full snapshot consumed by the POS terminals.
func (h *ProductHandler) Catalog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		snapshot, err := h.productService.CatalogSnapshot(r.Context())
		if err != nil {
			response.Error(w, err)

			return
		}

		products := make([]models.Product, 0, len(snapshot))
		for _, p := range snapshot {
			products = append(products, p)
		}

		sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })

		response.Success(w, http.StatusOK, products)

	}
}
