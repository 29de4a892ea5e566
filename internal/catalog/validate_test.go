package catalog

import (
	"errors"
	"math"
	"testing"

	"github.com/drstein77/foodwizz/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyValidate(t *testing.T) {
	valid := models.Product{Name: "Valid", Price: 5, Category: CategoryRamen, Stock: 2}

	tests := []struct {
		name   string
		policy Policy
		mutate func(*models.Product)
		field  string
	}{
		{name: "valid", mutate: func(*models.Product) {}},
		{name: "empty name", mutate: func(p *models.Product) { p.Name = "" }, field: "name"},
		{name: "blank name", mutate: func(p *models.Product) { p.Name = "   " }, field: "name"},
		{name: "empty category", mutate: func(p *models.Product) { p.Category = "" }, field: "category"},
		{name: "negative price", mutate: func(p *models.Product) { p.Price = -1 }, field: "price"},
		{name: "NaN price", mutate: func(p *models.Product) { p.Price = math.NaN() }, field: "price"},
		{name: "zero price allowed", mutate: func(p *models.Product) { p.Price = 0 }},
		{name: "zero price strict", policy: Policy{StrictPrice: true}, mutate: func(p *models.Product) { p.Price = 0 }, field: "price"},
		{name: "negative stock", mutate: func(p *models.Product) { p.Stock = -3 }, field: "stock"},
		{name: "zero stock", mutate: func(p *models.Product) { p.Stock = 0 }},
		{name: "first violation wins", mutate: func(p *models.Product) { p.Name = ""; p.Price = -1 }, field: "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)

			err := tt.policy.Validate(p)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}
