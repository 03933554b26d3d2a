package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// LowStockThreshold is the stock level below which a product counts as low stock.
	LowStockThreshold = 10
	// RestockAmount is added to every low-stock product by the restock mutation.
	RestockAmount = 10
)

// ProductSearchFilter holds filter criteria for product list queries
type ProductSearchFilter struct {
	Name     string           `json:"name,omitempty"`      // Case-insensitive substring
	PriceGte *decimal.Decimal `json:"price_gte,omitempty"` // Minimum price
	PriceLte *decimal.Decimal `json:"price_lte,omitempty"` // Maximum price
	StockGte *int             `json:"stock_gte,omitempty"` // Minimum stock
	StockLte *int             `json:"stock_lte,omitempty"` // Maximum stock
	LowStock *bool            `json:"low_stock,omitempty"` // true: stock below LowStockThreshold
}

type Product struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Stock     int             `json:"stock" db:"stock"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// IsLowStock reports whether the product is below the restock threshold.
func (p *Product) IsLowStock() bool {
	return p.Stock < LowStockThreshold
}

// Validate runs the model-level field checks. Price and stock bounds are
// checked by the mutation before this runs.
func (p *Product) Validate() map[string]string {
	errs := make(map[string]string)

	name := strings.TrimSpace(p.Name)
	switch {
	case name == "":
		errs["name"] = "This field cannot be blank."
	case len(name) > maxNameLength:
		errs["name"] = "Ensure this value has at most 255 characters."
	}

	// numeric(10,2)
	if p.Price.Exponent() < -2 && !p.Price.Equal(p.Price.Round(2)) {
		errs["price"] = "Ensure that there are no more than 2 decimal places."
	} else if p.Price.Abs().GreaterThanOrEqual(decimal.New(1, 8)) {
		errs["price"] = "Ensure that there are no more than 8 digits before the decimal point."
	}

	return errs
}
