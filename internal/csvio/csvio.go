// Package csvio converts products to and from CSV with the header
// name,price,image_path,category,stock.
package csvio

import (
	"fmt"
	"io"

	"github.com/drstein77/foodwizz/internal/models"
	"github.com/gocarina/gocsv"
)

// ReadProducts parses every CSV row into a product. Shape errors fail the
// whole read; value constraints are left to the catalog.
func ReadProducts(r io.Reader) ([]models.Product, error) {
	var products []models.Product
	if err := gocsv.Unmarshal(r, &products); err != nil {
		return nil, fmt.Errorf("failed to parse products csv: %w", err)
	}
	return products, nil
}

// WriteProducts writes the header and one row per product.
func WriteProducts(w io.Writer, products []models.Product) error {
	if products == nil {
		products = []models.Product{}
	}
	if err := gocsv.Marshal(products, w); err != nil {
		return fmt.Errorf("failed to write products csv: %w", err)
	}
	return nil
}
