package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stridekart/catalog/internal/event"
	"github.com/stridekart/catalog/internal/repository"
	apperrors "github.com/stridekart/catalog/pkg/errors"
	"github.com/stridekart/catalog/pkg/logger"
	"github.com/stridekart/catalog/pkg/validator"
)

// saveAttempts bounds the optimistic-concurrency retry loop for review writes.
const saveAttempts = 3

// ReviewService handles review submission against product aggregates.
type ReviewService struct {
	repo   repository.ProductRepository
	cache  repository.TopProductsCache
	events *event.Publisher
	logger *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	repo repository.ProductRepository,
	cache repository.TopProductsCache,
	events *event.Publisher,
	log *slog.Logger,
) *ReviewService {
	return &ReviewService{
		repo:   repo,
		cache:  cache,
		events: events,
		logger: log,
	}
}

// SubmitReviewInput holds the fields for submitting a product review.
type SubmitReviewInput struct {
	ProductID string `json:"-"`
	UserID    string `json:"-" validate:"required"`
	UserName  string `json:"-" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"max=2000"`
}

// SubmitReview adds or replaces the author's review on a product and
// recomputes the rating aggregate. A repeat review from the same author
// replaces the earlier one in place.
//
// The write is a compare-and-swap on the product version so concurrent
// submissions for the same product never drop each other's changes. A lost
// race reloads and retries; exhausting the attempts reports a conflict.
func (s *ReviewService) SubmitReview(ctx context.Context, input SubmitReviewInput) error {
	if _, err := uuid.Parse(input.ProductID); err != nil {
		return apperrors.InvalidInput("invalid product id")
	}

	if err := validator.Validate(input); err != nil {
		return err
	}

	for attempt := 0; attempt < saveAttempts; attempt++ {
		product, err := s.repo.GetByID(ctx, input.ProductID)
		if err != nil {
			return err
		}

		product.ApplyReview(input.UserID, input.UserName, input.Rating, input.Comment, time.Now().UTC())

		ok, err := s.repo.SaveIfVersion(ctx, product, product.Version)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		logger.WithContext(ctx, s.logger).Info("review submitted",
			slog.String("product_id", product.ID),
			slog.String("review_user_id", input.UserID),
			slog.Int("rating", input.Rating),
			slog.Int("num_reviews", product.NumReviews),
		)

		s.events.ReviewSubmitted(ctx, product, input.UserID, input.Rating)
		s.invalidateTopCache(ctx)

		return nil
	}

	return apperrors.Conflict("product was modified concurrently, please retry")
}

func (s *ReviewService) invalidateTopCache(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.WithContext(ctx, s.logger).Warn("top products cache invalidation failed",
			slog.String("error", err.Error()),
		)
	}
}
