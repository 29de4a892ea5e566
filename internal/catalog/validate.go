package catalog

import (
	"math"
	"strings"

	"github.com/drstein77/foodwizz/internal/models"
)

// Policy tunes product validation.
type Policy struct {
	// StrictPrice rejects a zero price in addition to negative ones.
	StrictPrice bool
}

// Validate checks p field by field and reports the first violation.
func (pol Policy) Validate(p models.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(p.Category) == "" {
		return &ValidationError{Field: "category", Reason: "must not be empty"}
	}
	if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
		return &ValidationError{Field: "price", Reason: "must be a number"}
	}
	if pol.StrictPrice && p.Price <= 0 {
		return &ValidationError{Field: "price", Reason: "must be positive"}
	}
	if p.Price < 0 {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if p.Stock < 0 {
		return &ValidationError{Field: "stock", Reason: "must not be negative"}
	}
	return nil
}
