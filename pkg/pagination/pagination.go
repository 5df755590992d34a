package pagination

import (
	"net/http"
	"strconv"
)

// DefaultLimit is the page size used when the caller does not supply one.
const DefaultLimit = 10

// Params holds absolute offset pagination parameters extracted from query
// strings. The service works in limit/skip terms; any notion of a "page
// number" is caller-side bookkeeping (skip = (page-1) * limit).
type Params struct {
	Limit int `json:"limit"`
	Skip  int `json:"skip"`
}

// DefaultParams returns sensible pagination defaults.
func DefaultParams() Params {
	return Params{
		Limit: DefaultLimit,
		Skip:  0,
	}
}

// Normalize clamps the parameters to valid values: a non-positive limit falls
// back to DefaultLimit and a negative skip falls back to 0.
func (p Params) Normalize() Params {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Skip < 0 {
		p.Skip = 0
	}
	return p
}

// FromRequest extracts pagination parameters from an HTTP request.
// Missing or malformed values fall back to defaults.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Limit = n
		}
	}

	if v := r.URL.Query().Get("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			p.Skip = n
		}
	}

	return p
}

// TotalPages computes ceil(total / limit). It is 0 when total is 0 and never
// negative. A non-positive limit is treated as DefaultLimit.
func TotalPages(total, limit int) int {
	if total <= 0 {
		return 0
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	pages := total / limit
	if total%limit > 0 {
		pages++
	}
	return pages
}

// Result wraps a paginated listing response.
type Result[T any] struct {
	Data       []T `json:"data"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// NewResult creates a paginated result, computing TotalPages from the total
// count and the requested limit.
func NewResult[T any](data []T, totalCount int, params Params) Result[T] {
	if data == nil {
		data = []T{}
	}
	return Result[T]{
		Data:       data,
		TotalCount: totalCount,
		TotalPages: TotalPages(totalCount, params.Limit),
	}
}
