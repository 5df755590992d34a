package service

import (
	"strconv"
	"strings"

	"github.com/stridekart/catalog/internal/repository"
)

// ListQuery carries the raw filter parameters of a product list request.
// Empty strings mean the parameter was absent.
type ListQuery struct {
	Search       string
	Category     string
	FootwearType string
	PriceRange   string
	Brands       string
}

// BuildProductFilter translates raw query parameters into a repository filter.
//
// PriceRange uses the "<min>-<max>" form. Either side may be empty; a value
// with no dash sets no price bounds at all. An unparsable minimum falls back
// to zero, an unparsable maximum leaves the upper bound open. Brands is a
// comma-separated list; entries are trimmed and blank ones dropped.
func BuildProductFilter(q ListQuery) repository.ProductFilter {
	var filter repository.ProductFilter

	if q.Search != "" {
		filter.Search = &q.Search
	}

	if q.Category != "" {
		filter.Category = &q.Category
	}

	if q.FootwearType != "" {
		filter.FootwearType = &q.FootwearType
	}

	if q.PriceRange != "" {
		if minStr, maxStr, ok := strings.Cut(q.PriceRange, "-"); ok {
			minPrice := 0.0
			if v, err := strconv.ParseFloat(strings.TrimSpace(minStr), 64); err == nil {
				minPrice = v
			}
			filter.MinPrice = &minPrice

			if v, err := strconv.ParseFloat(strings.TrimSpace(maxStr), 64); err == nil {
				filter.MaxPrice = &v
			}
		}
	}

	if q.Brands != "" {
		for _, b := range strings.Split(q.Brands, ",") {
			if b = strings.TrimSpace(b); b != "" {
				filter.Brands = append(filter.Brands, b)
			}
		}
	}

	return filter
}
