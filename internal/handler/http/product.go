package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stridekart/catalog/internal/domain"
	"github.com/stridekart/catalog/internal/service"
	apperrors "github.com/stridekart/catalog/pkg/errors"
	"github.com/stridekart/catalog/pkg/httputil"
	"github.com/stridekart/catalog/pkg/pagination"
	"github.com/stridekart/catalog/pkg/validator"
)

// CatalogService defines the catalog operations the product handler needs.
type CatalogService interface {
	ListProducts(ctx context.Context, q service.ListQuery, page pagination.Params) (*pagination.Result[domain.Product], error)
	GetTopProducts(ctx context.Context, n int) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, input service.CreateProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, input service.UpdateProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// ProductHandler serves product catalog endpoints.
type ProductHandler struct {
	catalog CatalogService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(catalog CatalogService, log *slog.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, logger: log}
}

// List handles GET /api/v1/products
// @Summary List products
// @Description Returns a paginated product listing with optional filters
// @Tags products
// @Produce json
// @Param limit query int false "Page size" default(10)
// @Param skip query int false "Items to skip" default(0)
// @Param search query string false "Case-insensitive name substring"
// @Param category query string false "Category, case-insensitive exact match"
// @Param footwearType query string false "Footwear type, exact match"
// @Param priceRange query string false "Price range as min-max, either side optional"
// @Param brands query string false "Comma-separated brand list"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := service.ListQuery{
		Search:       q.Get("search"),
		Category:     q.Get("category"),
		FootwearType: q.Get("footwearType"),
		PriceRange:   q.Get("priceRange"),
		Brands:       q.Get("brands"),
	}

	result, err := h.catalog.ListProducts(r.Context(), query, pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Top handles GET /api/v1/products/top
// @Summary Top rated products
// @Description Returns the highest-rated products, default 3
// @Tags products
// @Produce json
// @Param count query int false "Number of products" default(3)
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/products/top [get]
func (h *ProductHandler) Top(w http.ResponseWriter, r *http.Request) {
	n := 0
	if v := r.URL.Query().Get("count"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			n = parsed
		}
	}

	products, err := h.catalog.GetTopProducts(r.Context(), n)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// Get handles GET /api/v1/products/{id}
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path string true "Product UUID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/products/{id} [get]
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// Create handles POST /api/v1/products
// @Summary Create a product
// @Description Creates a product with empty review state. Requires X-User-ID header.
// @Tags products
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Authenticated user UUID"
// @Param request body service.CreateProductInput true "Product payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("missing X-User-ID header"), h.logger)
		return
	}

	var input service.CreateProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body"), h.logger)
		return
	}
	input.UserID = userID

	product, err := h.catalog.CreateProduct(r.Context(), input)
	if err != nil {
		var vErr *validator.ValidationError
		if errors.As(err, &vErr) {
			httputil.WriteValidationError(w, err)
			return
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// Update handles PUT /api/v1/products/{id}
// @Summary Update a product
// @Description Merges the supplied fields into the product. Omitted or zero-valued fields are left unchanged.
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product UUID"
// @Param request body service.UpdateProductInput true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/products/{id} [put]
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body"), h.logger)
		return
	}

	product, err := h.catalog.UpdateProduct(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		var vErr *validator.ValidationError
		if errors.As(err, &vErr) {
			httputil.WriteValidationError(w, err)
			return
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// Delete handles DELETE /api/v1/products/{id}
// @Summary Delete a product
// @Description Removes the product and cleans up its stored image best effort
// @Tags products
// @Produce json
// @Param id path string true "Product UUID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/products/{id} [delete]
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"message": "product removed"}})
}
