package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stridekart/catalog/internal/domain"
	"github.com/stridekart/catalog/internal/event"
	"github.com/stridekart/catalog/internal/imagestore"
	"github.com/stridekart/catalog/internal/repository"
	apperrors "github.com/stridekart/catalog/pkg/errors"
	"github.com/stridekart/catalog/pkg/logger"
	"github.com/stridekart/catalog/pkg/pagination"
	"github.com/stridekart/catalog/pkg/validator"
)

// DefaultTopCount is the number of products returned by GetTopProducts when
// the caller does not ask for a specific count.
const DefaultTopCount = 3

// CatalogService implements product catalog operations.
type CatalogService struct {
	repo   repository.ProductRepository
	cache  repository.TopProductsCache
	images imagestore.ImageStore
	events *event.Publisher
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	repo repository.ProductRepository,
	cache repository.TopProductsCache,
	images imagestore.ImageStore,
	events *event.Publisher,
	log *slog.Logger,
) *CatalogService {
	return &CatalogService{
		repo:   repo,
		cache:  cache,
		images: images,
		events: events,
		logger: log,
	}
}

// CreateProductInput holds the fields for creating a product.
type CreateProductInput struct {
	UserID       string  `json:"-" validate:"required,uuid"`
	Name         string  `json:"name" validate:"required,max=200"`
	Description  string  `json:"description" validate:"required"`
	Brand        string  `json:"brand" validate:"required,max=100"`
	Category     string  `json:"category" validate:"required,max=100"`
	FootwearType string  `json:"footwearType" validate:"max=100"`
	Image        string  `json:"image" validate:"required"`
	Price        float64 `json:"price" validate:"gte=0"`
	CountInStock int     `json:"countInStock" validate:"gte=0"`
}

// UpdateProductInput holds the fields for updating a product. Zero values mean
// the field was absent and the stored value is kept, so a product's price or
// stock count cannot be updated to zero through this operation.
type UpdateProductInput struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Brand        string  `json:"brand"`
	Category     string  `json:"category"`
	FootwearType string  `json:"footwearType"`
	Image        string  `json:"image"`
	Price        float64 `json:"price" validate:"gte=0"`
	CountInStock int     `json:"countInStock" validate:"gte=0"`
}

// ListProducts returns a page of products matching the query filters.
// An empty result page is reported as not found.
func (s *CatalogService) ListProducts(ctx context.Context, q ListQuery, page pagination.Params) (*pagination.Result[domain.Product], error) {
	page = page.Normalize()
	filter := BuildProductFilter(q)

	products, total, err := s.repo.List(ctx, filter, page.Limit, page.Skip)
	if err != nil {
		return nil, err
	}

	if len(products) == 0 {
		return nil, apperrors.NotFoundMsg("no products found")
	}

	result := pagination.NewResult(products, total, page)
	return &result, nil
}

// GetTopProducts returns the n highest-rated products, serving from cache when
// possible. n falls back to DefaultTopCount when not positive.
func (s *CatalogService) GetTopProducts(ctx context.Context, n int) ([]domain.Product, error) {
	if n <= 0 {
		n = DefaultTopCount
	}

	if cached, err := s.cache.Get(ctx, n); err != nil {
		logger.WithContext(ctx, s.logger).Warn("top products cache read failed",
			slog.String("error", err.Error()),
		)
	} else if cached != nil {
		return cached, nil
	}

	products, err := s.repo.ListTopRated(ctx, n)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, n, products); err != nil {
		logger.WithContext(ctx, s.logger).Warn("top products cache write failed",
			slog.String("error", err.Error()),
		)
	}

	return products, nil
}

// GetProduct returns a single product by ID.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.InvalidInput("invalid product id")
	}

	return s.repo.GetByID(ctx, id)
}

// CreateProduct creates a new product with empty review state.
func (s *CatalogService) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:           uuid.New().String(),
		UserID:       input.UserID,
		Name:         input.Name,
		Description:  input.Description,
		Brand:        input.Brand,
		Category:     input.Category,
		FootwearType: input.FootwearType,
		Image:        input.Image,
		Price:        input.Price,
		CountInStock: input.CountInStock,
		Reviews:      []domain.Review{},
		NumReviews:   0,
		Rating:       0,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	logger.WithContext(ctx, s.logger).Info("product created",
		slog.String("product_id", product.ID),
		slog.String("name", product.Name),
	)

	s.events.ProductCreated(ctx, product)
	s.invalidateTopCache(ctx)

	return product, nil
}

// UpdateProduct merges the given fields into an existing product.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.InvalidInput("invalid product id")
	}

	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyProductUpdate(product, input)

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	logger.WithContext(ctx, s.logger).Info("product updated",
		slog.String("product_id", product.ID),
	)

	s.events.ProductUpdated(ctx, product)
	s.invalidateTopCache(ctx)

	return product, nil
}

// DeleteProduct removes a product. The stored image is deleted best effort;
// a failed image cleanup is logged but does not fail the delete.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.InvalidInput("invalid product id")
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.images.Delete(ctx, product.Image); err != nil {
		logger.WithContext(ctx, s.logger).Warn("failed to delete product image",
			slog.String("product_id", id),
			slog.String("image", product.Image),
			slog.String("error", err.Error()),
		)
	}

	logger.WithContext(ctx, s.logger).Info("product deleted",
		slog.String("product_id", id),
	)

	s.events.ProductDeleted(ctx, product)
	s.invalidateTopCache(ctx)

	return nil
}

func applyProductUpdate(p *domain.Product, input UpdateProductInput) {
	if input.Name != "" {
		p.Name = input.Name
	}
	if input.Description != "" {
		p.Description = input.Description
	}
	if input.Brand != "" {
		p.Brand = input.Brand
	}
	if input.Category != "" {
		p.Category = input.Category
	}
	if input.FootwearType != "" {
		p.FootwearType = input.FootwearType
	}
	if input.Image != "" {
		p.Image = input.Image
	}
	if input.Price != 0 {
		p.Price = input.Price
	}
	if input.CountInStock != 0 {
		p.CountInStock = input.CountInStock
	}
}

func (s *CatalogService) invalidateTopCache(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.WithContext(ctx, s.logger).Warn("top products cache invalidation failed",
			slog.String("error", err.Error()),
		)
	}
}
