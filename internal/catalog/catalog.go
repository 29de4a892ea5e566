// Package catalog owns the product list: query helpers, validation,
// JSON file persistence and the Store that ties them together.
package catalog

import (
	"iter"
	"strings"

	"github.com/drstein77/foodwizz/internal/models"
)

// AllCategories disables the category predicate of Filter.
const AllCategories = ""

// Filter yields, in catalog order, the products whose name contains
// name case-insensitively and whose category equals category exactly.
// The predicate runs on every iteration.
func Filter(products []models.Product, name, category string) iter.Seq[models.Product] {
	needle := strings.ToLower(name)
	return func(yield func(models.Product) bool) {
		for _, p := range products {
			if category != AllCategories && p.Category != category {
				continue
			}
			if needle != "" && !strings.Contains(strings.ToLower(p.Name), needle) {
				continue
			}
			if !yield(p) {
				return
			}
		}
	}
}

// Search matches text case-insensitively against name or category.
func Search(products []models.Product, text string) iter.Seq[models.Product] {
	needle := strings.ToLower(text)
	return func(yield func(models.Product) bool) {
		for _, p := range products {
			if !strings.Contains(strings.ToLower(p.Name), needle) &&
				!strings.Contains(strings.ToLower(p.Category), needle) {
				continue
			}
			if !yield(p) {
				return
			}
		}
	}
}

// FindByName returns the index of the first product named exactly name, or -1.
func FindByName(products []models.Product, name string) int {
	for i, p := range products {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// FindByNameFold is FindByName with case-insensitive matching.
func FindByNameFold(products []models.Product, name string) int {
	for i, p := range products {
		if strings.EqualFold(p.Name, name) {
			return i
		}
	}
	return -1
}
