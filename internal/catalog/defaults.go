package catalog

import "github.com/drstein77/foodwizz/internal/models"

// Known categories offered by the inventory forms. Category stays free text.
const (
	CategoryRamen   = "Ramen"
	CategoryDrink   = "Drink"
	CategoryOther   = "Other"
	CategoryPostres = "Postres"
	CategorySnacks  = "Snacks"
)

var KnownCategories = []string{CategoryRamen, CategoryDrink, CategoryOther, CategoryPostres, CategorySnacks}

// Defaults returns a fresh copy of the seed catalog used when no file is available.
func Defaults() []models.Product {
	return []models.Product{
		{Name: "Beef Ramen", Price: 23.00, ImagePath: "img/beef_ramen.jpg", Category: CategoryRamen, Stock: 12},
		{Name: "Chicken Teriyaki", Price: 18.50, ImagePath: "img/chicken_teriyaki.jpg", Category: CategoryRamen, Stock: 8},
		{Name: "Sushi Roll", Price: 12.00, ImagePath: "img/sushi_roll.jpg", Category: CategoryOther, Stock: 20},
		{Name: "Tofu Salad", Price: 15.75, ImagePath: "img/tofu_salad.jpg", Category: CategoryOther, Stock: 5},
		{Name: "Tempura Udon", Price: 20.00, ImagePath: "img/tempura_udon.jpg", Category: CategoryRamen, Stock: 6},
		{Name: "Matcha Ice Cream", Price: 7.50, ImagePath: "img/matcha_ice_cream.jpg", Category: CategoryDrink, Stock: 13},
		{Name: "Miso Soup", Price: 6.00, ImagePath: "img/miso_soup.jpg", Category: CategoryRamen, Stock: 25},
		{Name: "Green Tea", Price: 4.50, ImagePath: "img/green_tea.jpg", Category: CategoryDrink, Stock: 9},
		{Name: "Spicy Ramen", Price: 22.00, ImagePath: "img/spicy_ramen.jpg", Category: CategoryRamen, Stock: 14},
		{Name: "Salmon Sashimi", Price: 19.00, ImagePath: "img/salmon_sashimi.jpg", Category: CategoryOther, Stock: 7},
		{Name: "Vegetable Gyoza", Price: 10.00, ImagePath: "img/vegetable_gyoza.jpg", Category: CategoryOther, Stock: 10},
		{Name: "Iced Coffee", Price: 5.00, ImagePath: "img/iced_coffee.jpg", Category: CategoryDrink, Stock: 11},
		{Name: "Fruit Mochi", Price: 6.50, ImagePath: "img/fruit_mochi.jpg", Category: CategoryOther, Stock: 15},
		{Name: "Pork Ramen", Price: 24.00, ImagePath: "img/pork_ramen.jpg", Category: CategoryRamen, Stock: 4},
		{Name: "Bubble Tea", Price: 6.00, ImagePath: "img/bubble_tea.jpeg", Category: CategoryDrink, Stock: 18},
		{Name: "Shrimp Tempura", Price: 17.50, ImagePath: "img/shrimp_tempura.jpg", Category: CategoryOther, Stock: 6},
		{Name: "Yakisoba", Price: 16.00, ImagePath: "img/yakisoba.jpg", Category: CategoryRamen, Stock: 3},
		{Name: "Coconut Water", Price: 4.75, ImagePath: "img/coconut_water.jpg", Category: CategoryDrink, Stock: 20},
		{Name: "Seaweed Salad", Price: 9.00, ImagePath: "img/seaweed_salad.jpg", Category: CategoryOther, Stock: 2},
		{Name: "Oolong Tea", Price: 4.00, ImagePath: "img/oolong_tea.jpg", Category: CategoryDrink, Stock: 22},
	}
}
