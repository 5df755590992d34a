package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stridekart/catalog/internal/service"
	apperrors "github.com/stridekart/catalog/pkg/errors"
	"github.com/stridekart/catalog/pkg/httputil"
	"github.com/stridekart/catalog/pkg/validator"
)

// ReviewService defines the review operations the review handler needs.
type ReviewService interface {
	SubmitReview(ctx context.Context, input service.SubmitReviewInput) error
}

// ReviewHandler serves product review endpoints.
type ReviewHandler struct {
	reviews ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(reviews ReviewService, log *slog.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, logger: log}
}

type submitReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Submit handles POST /api/v1/products/{id}/reviews
// @Summary Submit a product review
// @Description Adds or replaces the caller's review and recomputes the product rating. Requires X-User-ID and X-User-Name headers.
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "Product UUID"
// @Param X-User-ID header string true "Authenticated user UUID"
// @Param X-User-Name header string true "Authenticated user display name"
// @Param request body submitReviewRequest true "Review payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/products/{id}/reviews [post]
func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.ParseUUID(w, r.Header.Get("X-User-ID"))
	if !ok {
		return
	}

	userName := r.Header.Get("X-User-Name")
	if userName == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("missing X-User-Name header"), h.logger)
		return
	}

	var req submitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body"), h.logger)
		return
	}

	err := h.reviews.SubmitReview(r.Context(), service.SubmitReviewInput{
		ProductID: chi.URLParam(r, "id"),
		UserID:    userID.String(),
		UserName:  userName,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		var vErr *validator.ValidationError
		if errors.As(err, &vErr) {
			httputil.WriteValidationError(w, err)
			return
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: map[string]string{"message": "review added"}})
}
