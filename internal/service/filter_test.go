package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildProductFilter_Empty(t *testing.T) {
	filter := BuildProductFilter(ListQuery{})

	assert.Nil(t, filter.Search)
	assert.Nil(t, filter.Category)
	assert.Nil(t, filter.FootwearType)
	assert.Nil(t, filter.MinPrice)
	assert.Nil(t, filter.MaxPrice)
	assert.Nil(t, filter.Brands)
}

func TestBuildProductFilter_TextFields(t *testing.T) {
	filter := BuildProductFilter(ListQuery{
		Search:       "pegasus",
		Category:     "Running",
		FootwearType: "Sneakers",
	})

	require.NotNil(t, filter.Search)
	assert.Equal(t, "pegasus", *filter.Search)
	require.NotNil(t, filter.Category)
	assert.Equal(t, "Running", *filter.Category)
	require.NotNil(t, filter.FootwearType)
	assert.Equal(t, "Sneakers", *filter.FootwearType)
}

func TestBuildProductFilter_PriceRange(t *testing.T) {
	tests := []struct {
		name       string
		priceRange string
		wantMin    *float64
		wantMax    *float64
	}{
		{"both bounds", "100-500", f(100), f(500)},
		{"min only", "100-", f(100), nil},
		{"max only", "-500", f(0), f(500)},
		{"dash only", "-", f(0), nil},
		{"no dash", "500", nil, nil},
		{"bad min falls back to zero", "abc-500", f(0), f(500)},
		{"bad max left open", "100-xyz", f(100), nil},
		{"decimal bounds", "99.5-199.99", f(99.5), f(199.99)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := BuildProductFilter(ListQuery{PriceRange: tt.priceRange})

			if tt.wantMin == nil {
				assert.Nil(t, filter.MinPrice)
			} else {
				require.NotNil(t, filter.MinPrice)
				assert.Equal(t, *tt.wantMin, *filter.MinPrice)
			}

			if tt.wantMax == nil {
				assert.Nil(t, filter.MaxPrice)
			} else {
				require.NotNil(t, filter.MaxPrice)
				assert.Equal(t, *tt.wantMax, *filter.MaxPrice)
			}
		})
	}
}

func TestBuildProductFilter_Brands(t *testing.T) {
	tests := []struct {
		name   string
		brands string
		want   []string
	}{
		{"single", "Nike", []string{"Nike"}},
		{"multiple with spaces", "Nike, Puma, Adidas", []string{"Nike", "Puma", "Adidas"}},
		{"blank entries dropped", "Nike,,  ,Puma", []string{"Nike", "Puma"}},
		{"case preserved", "nike,NIKE", []string{"nike", "NIKE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := BuildProductFilter(ListQuery{Brands: tt.brands})
			assert.Equal(t, tt.want, filter.Brands)
		})
	}
}

func f(v float64) *float64 { return &v }
