package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stridekart/catalog/internal/domain"
	"github.com/stridekart/catalog/internal/service"
	apperrors "github.com/stridekart/catalog/pkg/errors"
	"github.com/stridekart/catalog/pkg/health"
	"github.com/stridekart/catalog/pkg/pagination"
)

const (
	testProductID = "4e8bc92e-46d1-4b3f-9c55-0f0d4c9332a1"
	testUserID    = "7a1f08aa-92c4-4d7e-8b2f-d1e6c38c0251"
)

type mockCatalogService struct {
	mock.Mock
}

func (m *mockCatalogService) ListProducts(ctx context.Context, q service.ListQuery, page pagination.Params) (*pagination.Result[domain.Product], error) {
	args := m.Called(ctx, q, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Result[domain.Product]), args.Error(1)
}

func (m *mockCatalogService) GetTopProducts(ctx context.Context, n int) ([]domain.Product, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockCatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockCatalogService) CreateProduct(ctx context.Context, input service.CreateProductInput) (*domain.Product, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockCatalogService) UpdateProduct(ctx context.Context, id string, input service.UpdateProductInput) (*domain.Product, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockCatalogService) DeleteProduct(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockReviewService struct {
	mock.Mock
}

func (m *mockReviewService) SubmitReview(ctx context.Context, input service.SubmitReviewInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestRouter(catalog *mockCatalogService, reviews *mockReviewService) http.Handler {
	return NewRouter(
		NewProductHandler(catalog, testLogger()),
		NewReviewHandler(reviews, testLogger()),
		health.NewHandler(),
		testLogger(),
	)
}

func doRequest(t *testing.T, router http.Handler, method, target string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func sampleProduct() *domain.Product {
	return &domain.Product{
		ID:     testProductID,
		Name:   "Air Zoom Pegasus",
		Brand:  "Nike",
		Price:  129.99,
		Rating: 4.5,
	}
}

func TestProductHandler_List(t *testing.T) {
	catalog := new(mockCatalogService)
	router := newTestRouter(catalog, new(mockReviewService))

	result := pagination.NewResult([]domain.Product{*sampleProduct()}, 25, pagination.Params{Limit: 10})
	catalog.On("ListProducts", mock.Anything,
		service.ListQuery{Search: "pegasus", PriceRange: "100-200", Brands: "Nike,Puma"},
		pagination.Params{Limit: 10, Skip: 20},
	).Return(&result, nil)

	rec := doRequest(t, router, http.MethodGet,
		"/api/v1/products?search=pegasus&priceRange=100-200&brands=Nike,Puma&limit=10&skip=20", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data pagination.Result[domain.Product] `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 25, resp.Data.TotalCount)
	assert.Equal(t, 3, resp.Data.TotalPages)
	assert.Len(t, resp.Data.Data, 1)
	catalog.AssertExpectations(t)
}

func TestProductHandler_List_NotFound(t *testing.T) {
	catalog := new(mockCatalogService)
	router := newTestRouter(catalog, new(mockReviewService))

	catalog.On("ListProducts", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.NotFoundMsg("no products found"))

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products", nil, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestProductHandler_Top(t *testing.T) {
	catalog := new(mockCatalogService)
	router := newTestRouter(catalog, new(mockReviewService))

	catalog.On("GetTopProducts", mock.Anything, 5).
		Return([]domain.Product{*sampleProduct()}, nil)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products/top?count=5", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	catalog.AssertExpectations(t)
}

func TestProductHandler_Top_DefaultCount(t *testing.T) {
	catalog := new(mockCatalogService)
	router := newTestRouter(catalog, new(mockReviewService))

	catalog.On("GetTopProducts", mock.Anything, 0).
		Return([]domain.Product{}, nil)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products/top", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	catalog.AssertExpectations(t)
}

func TestProductHandler_Get(t *testing.T) {
	catalog := new(mockCatalogService)
	router := newTestRouter(catalog, new(mockReviewService))

	catalog.On("GetProduct", mock.Anything, testProductID).Return(sampleProduct(), nil)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products/"+testProductID, nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Air Zoom Pegasus")
}

func TestProductHandler_Get_MalformedID(t *testing.T) {
	catalog := new(mockCatalogService)
	router := newTestRouter(catalog, new(mockReviewService))

	catalog.On("GetProduct", mock.Anything, "not-a-uuid").
		Return(nil, apperrors.InvalidInput("invalid product id"))

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products/not-a-uuid", nil, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductHandler_Create(t *testing.T) {
	catalog := new(mockCatalogService)
	router := newTestRouter(catalog, new(mockReviewService))

	catalog.On("CreateProduct", mock.Anything, mock.MatchedBy(func(input service.CreateProductInput) bool {
		return input.UserID == testUserID && input.Name == "Ultraboost"
	})).Return(sampleProduct(), nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/products",
		map[string]any{"name": "Ultraboost", "brand": "Adidas", "category": "Running", "price": 180},
		map[string]string{"X-User-ID": testUserID},
	)

	assert.Equal(t, http.StatusCreated, rec.Code)
	catalog.AssertExpectations(t)
}

func TestProductHandler_Create_MissingUserHeader(t *testing.T) {
	catalog := new(mockCatalogService)
	router := newTestRouter(catalog, new(mockReviewService))

	rec := doRequest(t, router, http.MethodPost, "/api/v1/products",
		map[string]any{"name": "Ultraboost"}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	catalog.AssertNotCalled(t, "CreateProduct")
}

func TestProductHandler_Update(t *testing.T) {
	catalog := new(mockCatalogService)
	router := newTestRouter(catalog, new(mockReviewService))

	catalog.On("UpdateProduct", mock.Anything, testProductID,
		service.UpdateProductInput{Name: "Pegasus 41", Price: 139.99},
	).Return(sampleProduct(), nil)

	rec := doRequest(t, router, http.MethodPut, "/api/v1/products/"+testProductID,
		map[string]any{"name": "Pegasus 41", "price": 139.99}, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	catalog.AssertExpectations(t)
}

func TestProductHandler_Delete(t *testing.T) {
	catalog := new(mockCatalogService)
	router := newTestRouter(catalog, new(mockReviewService))

	catalog.On("DeleteProduct", mock.Anything, testProductID).Return(nil)

	rec := doRequest(t, router, http.MethodDelete, "/api/v1/products/"+testProductID, nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "product removed")
}

func TestReviewHandler_Submit(t *testing.T) {
	reviews := new(mockReviewService)
	router := newTestRouter(new(mockCatalogService), reviews)

	reviews.On("SubmitReview", mock.Anything, service.SubmitReviewInput{
		ProductID: testProductID,
		UserID:    testUserID,
		UserName:  "Jordan",
		Rating:    4,
		Comment:   "Great shoe",
	}).Return(nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/products/"+testProductID+"/reviews",
		map[string]any{"rating": 4, "comment": "Great shoe"},
		map[string]string{"X-User-ID": testUserID, "X-User-Name": "Jordan"},
	)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "review added")
	reviews.AssertExpectations(t)
}

func TestReviewHandler_Submit_MissingUserID(t *testing.T) {
	reviews := new(mockReviewService)
	router := newTestRouter(new(mockCatalogService), reviews)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/products/"+testProductID+"/reviews",
		map[string]any{"rating": 4}, map[string]string{"X-User-Name": "Jordan"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	reviews.AssertNotCalled(t, "SubmitReview")
}

func TestReviewHandler_Submit_Conflict(t *testing.T) {
	reviews := new(mockReviewService)
	router := newTestRouter(new(mockCatalogService), reviews)

	reviews.On("SubmitReview", mock.Anything, mock.Anything).
		Return(apperrors.Conflict("product was modified concurrently, please retry"))

	rec := doRequest(t, router, http.MethodPost, "/api/v1/products/"+testProductID+"/reviews",
		map[string]any{"rating": 4},
		map[string]string{"X-User-ID": testUserID, "X-User-Name": "Jordan"},
	)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(new(mockCatalogService), new(mockReviewService))

	for _, path := range []string{"/health/live", "/health/ready"} {
		rec := doRequest(t, router, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
