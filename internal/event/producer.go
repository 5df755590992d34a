package event

import (
	"context"
	"log/slog"

	"github.com/stridekart/catalog/internal/domain"
	"github.com/stridekart/catalog/pkg/kafka"
	"github.com/stridekart/catalog/pkg/logger"
)

// Event types published by the catalog service.
const (
	TypeProductCreated  = "catalog.product.created"
	TypeProductUpdated  = "catalog.product.updated"
	TypeProductDeleted  = "catalog.product.deleted"
	TypeReviewSubmitted = "catalog.product.review.submitted"
)

const (
	aggregateType = "product"
	eventSource   = "catalog-service"
)

// Publisher publishes catalog domain events to Kafka. Event delivery is best
// effort; failures are logged and never surfaced to the write path.
type Publisher struct {
	producer *kafka.Producer
	topic    string
	logger   *slog.Logger
}

// DefaultTopic is the Kafka topic catalog events go to unless configured
// otherwise.
const DefaultTopic = "catalog.events"

// NewPublisher creates a new catalog event publisher. A nil producer disables
// publishing.
func NewPublisher(producer *kafka.Producer, topic string, log *slog.Logger) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{producer: producer, topic: topic, logger: log}
}

// ProductPayload is the event body for product lifecycle events.
type ProductPayload struct {
	ProductID    string  `json:"productId"`
	Name         string  `json:"name"`
	Brand        string  `json:"brand"`
	Category     string  `json:"category"`
	FootwearType string  `json:"footwearType"`
	Price        float64 `json:"price"`
	Rating       float64 `json:"rating"`
	NumReviews   int     `json:"numReviews"`
}

// ReviewPayload is the event body for review submission events.
type ReviewPayload struct {
	ProductID  string  `json:"productId"`
	UserID     string  `json:"userId"`
	Rating     int     `json:"rating"`
	NumReviews int     `json:"numReviews"`
	NewRating  float64 `json:"newRating"`
}

func productPayload(p *domain.Product) ProductPayload {
	return ProductPayload{
		ProductID:    p.ID,
		Name:         p.Name,
		Brand:        p.Brand,
		Category:     p.Category,
		FootwearType: p.FootwearType,
		Price:        p.Price,
		Rating:       p.Rating,
		NumReviews:   p.NumReviews,
	}
}

// ProductCreated publishes a product created event.
func (p *Publisher) ProductCreated(ctx context.Context, product *domain.Product) {
	p.publish(ctx, TypeProductCreated, product.ID, productPayload(product))
}

// ProductUpdated publishes a product updated event.
func (p *Publisher) ProductUpdated(ctx context.Context, product *domain.Product) {
	p.publish(ctx, TypeProductUpdated, product.ID, productPayload(product))
}

// ProductDeleted publishes a product deleted event.
func (p *Publisher) ProductDeleted(ctx context.Context, product *domain.Product) {
	p.publish(ctx, TypeProductDeleted, product.ID, productPayload(product))
}

// ReviewSubmitted publishes a review submission event with the recomputed
// aggregate values.
func (p *Publisher) ReviewSubmitted(ctx context.Context, product *domain.Product, userID string, rating int) {
	p.publish(ctx, TypeReviewSubmitted, product.ID, ReviewPayload{
		ProductID:  product.ID,
		UserID:     userID,
		Rating:     rating,
		NumReviews: product.NumReviews,
		NewRating:  product.Rating,
	})
}

func (p *Publisher) publish(ctx context.Context, eventType, productID string, payload any) {
	if p.producer == nil {
		return
	}

	evt, err := kafka.NewEvent(eventType, productID, aggregateType, eventSource, payload)
	if err != nil {
		logger.WithContext(ctx, p.logger).Error("failed to build event",
			slog.String("event_type", eventType),
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
		return
	}

	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		evt = evt.WithCorrelationID(cid)
	}

	if err := p.producer.Publish(ctx, p.topic, evt); err != nil {
		logger.WithContext(ctx, p.logger).Error("failed to publish event",
			slog.String("event_type", eventType),
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}
}
