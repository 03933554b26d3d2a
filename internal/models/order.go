package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const OrderStatusPending = "pending"

// OrderSearchFilter holds filter criteria for order list queries
type OrderSearchFilter struct {
	TotalAmountGte *decimal.Decimal `json:"total_amount_gte,omitempty"` // Minimum total
	TotalAmountLte *decimal.Decimal `json:"total_amount_lte,omitempty"` // Maximum total
	OrderDateGte   *DateBound       `json:"order_date_gte,omitempty"`   // Ordered on or after
	OrderDateLte   *DateBound       `json:"order_date_lte,omitempty"`   // Ordered on or before
	CustomerName   string           `json:"customer_name,omitempty"`    // Case-insensitive substring on the owner's name
	ProductName    string           `json:"product_name,omitempty"`     // Orders containing a product whose name matches
	ProductID      *uuid.UUID       `json:"product_id,omitempty"`       // Orders containing this product
	Status         *string          `json:"status,omitempty"`           // Exact status
}

type Order struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	CustomerID  uuid.UUID       `json:"customer_id" db:"customer_id"`
	TotalAmount decimal.Decimal `json:"total_amount" db:"total_amount"`
	Status      string          `json:"status" db:"status"`
	OrderDate   time.Time       `json:"order_date" db:"order_date"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`

	// Loaded on demand, not columns of orders
	Customer *Customer   `json:"customer,omitempty" db:"-"`
	Items    []OrderItem `json:"items,omitempty" db:"-"`
	Products []*Product  `json:"products,omitempty" db:"-"`
}
