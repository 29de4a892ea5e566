package models

import "github.com/shopspring/decimal"

// Product is a single item for sale in the catalog.
type Product struct {
	Name      string  `json:"name" csv:"name"`
	Price     float64 `json:"price" csv:"price"`
	ImagePath string  `json:"image_path" csv:"image_path"`
	Category  string  `json:"category" csv:"category"`
	Stock     int     `json:"stock" csv:"stock"`
}

// ProcessResponse summarizes an archive import.
type ProcessResponse struct {
	TotalItems      int     `json:"total_items"`
	SkippedItems    int     `json:"skipped_items"`
	TotalCategories int     `json:"total_categories"`
	TotalPrice      float64 `json:"total_price"`
}

// CategoryReport aggregates the products of one category.
type CategoryReport struct {
	Category string          `json:"category"`
	Products int             `json:"products"`
	Stock    int             `json:"stock"`
	Value    decimal.Decimal `json:"value"`
}

// Summary holds the inventory statistics shown on the reports view.
type Summary struct {
	TotalProducts  int              `json:"total_products"`
	InventoryValue decimal.Decimal  `json:"inventory_value"`
	LowStock       int              `json:"low_stock"`
	AveragePrice   decimal.Decimal  `json:"average_price"`
	Categories     []CategoryReport `json:"categories"`
}

// MirrorStatus compares the database mirror with the in-memory catalog.
type MirrorStatus struct {
	Enabled  bool `json:"enabled"`
	InSync   bool `json:"in_sync"`
	Catalog  int  `json:"catalog"`
	Mirrored int  `json:"mirrored"`
}

// Settings are the account and business preferences of the operator.
type Settings struct {
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	BusinessName     string  `json:"business_name"`
	Phone            string  `json:"phone"`
	Address          string  `json:"address"`
	Theme            string  `json:"theme"`
	Notifications    bool    `json:"notifications"`
	AutoBackup       bool    `json:"auto_backup"`
	Language         string  `json:"language"`
	Currency         string  `json:"currency"`
	TaxRate          float64 `json:"tax_rate"`
	JoinDate         string  `json:"join_date"`
	TotalSales       float64 `json:"total_sales"`
	TotalOrders      int     `json:"total_orders"`
	FavoriteCategory string  `json:"favorite_category"`
}
