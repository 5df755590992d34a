package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stridekart/catalog/internal/domain"
	"github.com/stridekart/catalog/internal/imagestore"
	"github.com/stridekart/catalog/internal/repository"
	apperrors "github.com/stridekart/catalog/pkg/errors"
	"github.com/stridekart/catalog/pkg/pagination"
	"github.com/stridekart/catalog/pkg/validator"
)

const (
	testProductID = "4e8bc92e-46d1-4b3f-9c55-0f0d4c9332a1"
	testUserID    = "7a1f08aa-92c4-4d7e-8b2f-d1e6c38c0251"
)

func newCatalogService(repo *mockProductRepo, cache *mockTopCache, images *mockImageStore) *CatalogService {
	var c repository.TopProductsCache = noopCache{}
	if cache != nil {
		c = cache
	}

	var img imagestore.ImageStore = imagestore.Noop{}
	if images != nil {
		img = images
	}

	return NewCatalogService(repo, c, img, testPublisher(), testLogger())
}

func storedProduct() *domain.Product {
	return &domain.Product{
		ID:           testProductID,
		UserID:       testUserID,
		Name:         "Air Zoom Pegasus",
		Description:  "Responsive daily trainer",
		Brand:        "Nike",
		Category:     "Running",
		FootwearType: "Sneakers",
		Image:        "pegasus.jpg",
		Price:        129.99,
		CountInStock: 12,
		Reviews:      []domain.Review{},
		Version:      1,
	}
}

func TestCatalogService_ListProducts(t *testing.T) {
	repo := new(mockProductRepo)
	svc := newCatalogService(repo, nil, nil)

	repo.On("List", mock.Anything, mock.Anything, 10, 0).
		Return([]domain.Product{*storedProduct()}, 25, nil)

	result, err := svc.ListProducts(context.Background(), ListQuery{}, pagination.Params{})

	require.NoError(t, err)
	assert.Len(t, result.Data, 1)
	assert.Equal(t, 25, result.TotalCount)
	assert.Equal(t, 3, result.TotalPages)
	repo.AssertExpectations(t)
}

func TestCatalogService_ListProducts_EmptyIsNotFound(t *testing.T) {
	repo := new(mockProductRepo)
	svc := newCatalogService(repo, nil, nil)

	repo.On("List", mock.Anything, mock.Anything, 10, 50).
		Return([]domain.Product{}, 0, nil)

	result, err := svc.ListProducts(context.Background(), ListQuery{}, pagination.Params{Limit: 10, Skip: 50})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCatalogService_ListProducts_NormalizesPageParams(t *testing.T) {
	repo := new(mockProductRepo)
	svc := newCatalogService(repo, nil, nil)

	repo.On("List", mock.Anything, mock.Anything, 10, 0).
		Return([]domain.Product{*storedProduct()}, 1, nil)

	_, err := svc.ListProducts(context.Background(), ListQuery{}, pagination.Params{Limit: -5, Skip: -3})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCatalogService_GetTopProducts_CacheMiss(t *testing.T) {
	repo := new(mockProductRepo)
	cache := new(mockTopCache)
	svc := newCatalogService(repo, cache, nil)
	top := []domain.Product{*storedProduct()}

	cache.On("Get", mock.Anything, 3).Return(nil, nil)
	repo.On("ListTopRated", mock.Anything, 3).Return(top, nil)
	cache.On("Set", mock.Anything, 3, top).Return(nil)

	got, err := svc.GetTopProducts(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, top, got)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestCatalogService_GetTopProducts_CacheHit(t *testing.T) {
	repo := new(mockProductRepo)
	cache := new(mockTopCache)
	svc := newCatalogService(repo, cache, nil)
	top := []domain.Product{*storedProduct()}

	cache.On("Get", mock.Anything, 5).Return(top, nil)

	got, err := svc.GetTopProducts(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, top, got)
	repo.AssertNotCalled(t, "ListTopRated")
}

func TestCatalogService_GetTopProducts_CacheErrorFallsThrough(t *testing.T) {
	repo := new(mockProductRepo)
	cache := new(mockTopCache)
	svc := newCatalogService(repo, cache, nil)
	top := []domain.Product{*storedProduct()}

	cache.On("Get", mock.Anything, 3).Return(nil, assert.AnError)
	repo.On("ListTopRated", mock.Anything, 3).Return(top, nil)
	cache.On("Set", mock.Anything, 3, top).Return(nil)

	got, err := svc.GetTopProducts(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, top, got)
}

func TestCatalogService_GetProduct(t *testing.T) {
	repo := new(mockProductRepo)
	svc := newCatalogService(repo, nil, nil)

	repo.On("GetByID", mock.Anything, testProductID).Return(storedProduct(), nil)

	got, err := svc.GetProduct(context.Background(), testProductID)

	require.NoError(t, err)
	assert.Equal(t, testProductID, got.ID)
}

func TestCatalogService_GetProduct_MalformedID(t *testing.T) {
	repo := new(mockProductRepo)
	svc := newCatalogService(repo, nil, nil)

	got, err := svc.GetProduct(context.Background(), "not-a-uuid")

	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "GetByID")
}

func TestCatalogService_CreateProduct(t *testing.T) {
	repo := new(mockProductRepo)
	svc := newCatalogService(repo, nil, nil)

	var created *domain.Product
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.Product) }).
		Return(nil)

	got, err := svc.CreateProduct(context.Background(), CreateProductInput{
		UserID:       testUserID,
		Name:         "Ultraboost",
		Description:  "Responsive cushioned runner",
		Brand:        "Adidas",
		Category:     "Running",
		Image:        "/images/ultraboost.jpg",
		Price:        180,
		CountInStock: 5,
	})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEmpty(t, got.ID)
	assert.NotNil(t, got.Reviews)
	assert.Empty(t, got.Reviews)
	assert.Zero(t, got.NumReviews)
	assert.Zero(t, got.Rating)
	assert.Equal(t, int64(1), got.Version)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestCatalogService_CreateProduct_MissingFields(t *testing.T) {
	repo := new(mockProductRepo)
	svc := newCatalogService(repo, nil, nil)

	got, err := svc.CreateProduct(context.Background(), CreateProductInput{
		UserID: testUserID,
		Name:   "Nameless brand",
	})

	assert.Nil(t, got)
	var vErr *validator.ValidationError
	assert.ErrorAs(t, err, &vErr)
	repo.AssertNotCalled(t, "Create")
}

func TestCatalogService_UpdateProduct_MergesNonZeroFields(t *testing.T) {
	repo := new(mockProductRepo)
	svc := newCatalogService(repo, nil, nil)

	repo.On("GetByID", mock.Anything, testProductID).Return(storedProduct(), nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	got, err := svc.UpdateProduct(context.Background(), testProductID, UpdateProductInput{
		Name:  "Air Zoom Pegasus 41",
		Price: 139.99,
	})

	require.NoError(t, err)
	assert.Equal(t, "Air Zoom Pegasus 41", got.Name)
	assert.Equal(t, 139.99, got.Price)
	assert.Equal(t, "Nike", got.Brand)
	assert.Equal(t, 12, got.CountInStock)
}

func TestCatalogService_UpdateProduct_ZeroPriceKeepsOld(t *testing.T) {
	repo := new(mockProductRepo)
	svc := newCatalogService(repo, nil, nil)

	repo.On("GetByID", mock.Anything, testProductID).Return(storedProduct(), nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	got, err := svc.UpdateProduct(context.Background(), testProductID, UpdateProductInput{
		Description: "Updated description",
	})

	require.NoError(t, err)
	assert.Equal(t, 129.99, got.Price)
	assert.Equal(t, 12, got.CountInStock)
	assert.Equal(t, "Updated description", got.Description)
}

func TestCatalogService_UpdateProduct_NotFound(t *testing.T) {
	repo := new(mockProductRepo)
	svc := newCatalogService(repo, nil, nil)

	repo.On("GetByID", mock.Anything, testProductID).
		Return(nil, apperrors.NotFound("product", testProductID))

	got, err := svc.UpdateProduct(context.Background(), testProductID, UpdateProductInput{Name: "x"})

	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCatalogService_DeleteProduct(t *testing.T) {
	repo := new(mockProductRepo)
	images := new(mockImageStore)
	svc := newCatalogService(repo, nil, images)

	repo.On("GetByID", mock.Anything, testProductID).Return(storedProduct(), nil)
	repo.On("Delete", mock.Anything, testProductID).Return(nil)
	images.On("Delete", mock.Anything, "pegasus.jpg").Return(nil)

	err := svc.DeleteProduct(context.Background(), testProductID)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
	images.AssertExpectations(t)
}

func TestCatalogService_DeleteProduct_ImageFailureIgnored(t *testing.T) {
	repo := new(mockProductRepo)
	images := new(mockImageStore)
	svc := newCatalogService(repo, nil, images)

	repo.On("GetByID", mock.Anything, testProductID).Return(storedProduct(), nil)
	repo.On("Delete", mock.Anything, testProductID).Return(nil)
	images.On("Delete", mock.Anything, "pegasus.jpg").Return(assert.AnError)

	err := svc.DeleteProduct(context.Background(), testProductID)

	assert.NoError(t, err)
}

func TestCatalogService_DeleteProduct_MalformedID(t *testing.T) {
	repo := new(mockProductRepo)
	svc := newCatalogService(repo, nil, nil)

	err := svc.DeleteProduct(context.Background(), "bogus")

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "GetByID")
	repo.AssertNotCalled(t, "Delete")
}
