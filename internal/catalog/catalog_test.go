package catalog

import (
	"slices"
	"strings"
	"testing"

	"github.com/drstein77/foodwizz/internal/models"
	"github.com/stretchr/testify/assert"
)

func names(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestFilter(t *testing.T) {
	products := Defaults()

	tests := []struct {
		name     string
		search   string
		category string
		want     []string
	}{
		{
			name:     "empty search and all categories returns everything",
			category: AllCategories,
			want:     names(products),
		},
		{
			name:     "case-insensitive substring",
			search:   "RAMEN",
			category: AllCategories,
			want:     []string{"Beef Ramen", "Spicy Ramen", "Pork Ramen"},
		},
		{
			name:     "category only",
			category: CategoryDrink,
			want:     []string{"Matcha Ice Cream", "Green Tea", "Iced Coffee", "Bubble Tea", "Coconut Water", "Oolong Tea"},
		},
		{
			name:     "substring and category",
			search:   "tea",
			category: CategoryDrink,
			want:     []string{"Green Tea", "Bubble Tea", "Oolong Tea"},
		},
		{
			name:     "category is exact",
			category: "drink",
			want:     []string{},
		},
		{
			name:     "no match",
			search:   "pizza",
			category: AllCategories,
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(Filter(products, tt.search, tt.category))
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestFilterMatchesPredicate(t *testing.T) {
	products := Defaults()
	for _, search := range []string{"", "a", "ice", "TEA", "zz"} {
		for _, category := range append([]string{AllCategories}, KnownCategories...) {
			got := slices.Collect(Filter(products, search, category))

			var want []models.Product
			for _, p := range products {
				if (category == AllCategories || p.Category == category) &&
					strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
					want = append(want, p)
				}
			}
			assert.Equal(t, want, got, "search=%q category=%q", search, category)

			again := slices.Collect(Filter(got, search, category))
			assert.Equal(t, got, again, "filter must be idempotent")
		}
	}
}

func TestFilterIsLazy(t *testing.T) {
	products := Defaults()
	seq := Filter(products, "", AllCategories)

	var first []string
	for p := range seq {
		first = append(first, p.Name)
		if len(first) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"Beef Ramen", "Chicken Teriyaki"}, first)

	products[0].Name = "Changed"
	got := slices.Collect(seq)
	assert.Equal(t, "Changed", got[0].Name)
}

func TestSearch(t *testing.T) {
	products := Defaults()

	got := slices.Collect(Search(products, "drink"))
	assert.Len(t, got, 6)

	got = slices.Collect(Search(products, "soup"))
	assert.Equal(t, []string{"Miso Soup"}, names(got))

	got = slices.Collect(Search(products, ""))
	assert.Len(t, got, len(products))
}

func TestFindByName(t *testing.T) {
	products := []models.Product{
		{Name: "Green Tea"},
		{Name: "Miso Soup"},
		{Name: "Green Tea"},
	}

	assert.Equal(t, 0, FindByName(products, "Green Tea"))
	assert.Equal(t, 1, FindByName(products, "Miso Soup"))
	assert.Equal(t, -1, FindByName(products, "green tea"))
	assert.Equal(t, -1, FindByName(nil, "Green Tea"))

	assert.Equal(t, 0, FindByNameFold(products, "GREEN TEA"))
	assert.Equal(t, -1, FindByNameFold(products, "Sake"))
}
