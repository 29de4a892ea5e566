package report

import (
	"testing"

	"github.com/drstein77/foodwizz/internal/catalog"
	"github.com/drstein77/foodwizz/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeDefaults(t *testing.T) {
	s := Summarize(catalog.Defaults(), DefaultLowStockThreshold)

	assert.Equal(t, 20, s.TotalProducts)
	assert.Equal(t, "2402.25", s.InventoryValue.StringFixed(2))
	assert.Equal(t, 9, s.LowStock)
	assert.Equal(t, "12.55", s.AveragePrice.StringFixed(2))

	require.Len(t, s.Categories, 3)
	assert.Equal(t, "Ramen", s.Categories[0].Category)
	assert.Equal(t, 7, s.Categories[0].Products)
	assert.Equal(t, "Other", s.Categories[1].Category)
	assert.Equal(t, "Drink", s.Categories[2].Category)
	assert.Equal(t, 93, s.Categories[2].Stock)
}

func TestSummarizeIsExactToTheCent(t *testing.T) {
	products := []models.Product{
		{Name: "A", Price: 0.1, Category: "X", Stock: 3},
		{Name: "B", Price: 0.2, Category: "X", Stock: 3},
	}

	s := Summarize(products, 1)
	assert.True(t, s.InventoryValue.Equal(decimal.RequireFromString("0.9")), s.InventoryValue.String())
	assert.Equal(t, "0.15", s.AveragePrice.StringFixed(2))
	assert.Equal(t, 0, s.LowStock)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, DefaultLowStockThreshold)

	assert.Equal(t, 0, s.TotalProducts)
	assert.True(t, s.InventoryValue.IsZero())
	assert.True(t, s.AveragePrice.IsZero())
	assert.Empty(t, s.Categories)
}
