package domain

import (
	"time"
)

// Review is a value embedded inside exactly one Product. At most one review
// exists per (product, author) pair.
type Review struct {
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
