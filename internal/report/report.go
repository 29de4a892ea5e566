// Package report derives the inventory statistics of the reports view.
package report

import (
	"github.com/drstein77/foodwizz/internal/models"
	"github.com/shopspring/decimal"
)

const DefaultLowStockThreshold = 10

// Summarize computes totals over products. A product is low on stock when its
// stock is below lowStock. Categories are listed in first-seen order.
func Summarize(products []models.Product, lowStock int) models.Summary {
	summary := models.Summary{
		TotalProducts:  len(products),
		InventoryValue: decimal.Zero,
		AveragePrice:   decimal.Zero,
		Categories:     []models.CategoryReport{},
	}

	priceSum := decimal.Zero
	index := make(map[string]int)
	for _, p := range products {
		price := decimal.NewFromFloat(p.Price)
		value := price.Mul(decimal.NewFromInt(int64(p.Stock)))

		priceSum = priceSum.Add(price)
		summary.InventoryValue = summary.InventoryValue.Add(value)
		if p.Stock < lowStock {
			summary.LowStock++
		}

		i, ok := index[p.Category]
		if !ok {
			i = len(summary.Categories)
			index[p.Category] = i
			summary.Categories = append(summary.Categories, models.CategoryReport{Category: p.Category, Value: decimal.Zero})
		}
		c := &summary.Categories[i]
		c.Products++
		c.Stock += p.Stock
		c.Value = c.Value.Add(value)
	}

	if len(products) > 0 {
		summary.AveragePrice = priceSum.Div(decimal.NewFromInt(int64(len(products))))
	}
	summary.InventoryValue = summary.InventoryValue.Round(2)
	summary.AveragePrice = summary.AveragePrice.Round(2)
	for i := range summary.Categories {
		summary.Categories[i].Value = summary.Categories[i].Value.Round(2)
	}
	return summary
}
