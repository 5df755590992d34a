package domain

import (
	"time"
)

// Product is the aggregate root of the catalog. It owns its embedded review
// collection and the derived Rating and NumReviews fields; every mutation of
// Reviews must go through ApplyReview (or be followed by Recalculate) so the
// derived fields never drift from the collection.
type Product struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Brand        string    `json:"brand"`
	Category     string    `json:"category"`
	FootwearType string    `json:"footwear_type,omitempty"`
	Image        string    `json:"image"`
	Price        float64   `json:"price"`
	CountInStock int       `json:"count_in_stock"`
	Reviews      []Review  `json:"reviews"`
	NumReviews   int       `json:"num_reviews"`
	Rating       float64   `json:"rating"`
	Version      int64     `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ApplyReview inserts or updates the review authored by userID. A repeat
// submission by the same author replaces the rating and comment of the
// existing entry in place, preserving its position and original timestamp;
// a first submission appends a new review stamped with now. The derived
// aggregate fields are recomputed either way. Reports whether a new review
// was appended.
func (p *Product) ApplyReview(userID, userName string, rating int, comment string, now time.Time) bool {
	appended := false

	found := false
	for i := range p.Reviews {
		if p.Reviews[i].UserID == userID {
			p.Reviews[i].Rating = rating
			p.Reviews[i].Comment = comment
			found = true
			break
		}
	}

	if !found {
		p.Reviews = append(p.Reviews, Review{
			UserID:    userID,
			UserName:  userName,
			Rating:    rating,
			Comment:   comment,
			CreatedAt: now,
		})
		appended = true
	}

	p.Recalculate()
	return appended
}

// Recalculate recomputes NumReviews and Rating from the review collection.
// Rating is 0 when there are no reviews.
func (p *Product) Recalculate() {
	p.NumReviews = len(p.Reviews)
	if p.NumReviews == 0 {
		p.Rating = 0
		return
	}

	sum := 0
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	p.Rating = float64(sum) / float64(p.NumReviews)
}
