package common

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes raised by schema constraints
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
	pgNumericOverflow     = "22003"
)

// constraintMessages maps schema constraint names to the field and message
// reported to clients.
var constraintMessages = map[string][2]string{
	"customers_email_key":           {"email", "Customer with this email already exists."},
	"products_price_check":          {"price", "Ensure this value is greater than or equal to 0.01."},
	"products_stock_check":          {"stock", "Ensure this value is greater than or equal to 0."},
	"orders_total_amount_check":     {"total_amount", "Ensure this value is greater than or equal to 0.01."},
	"order_items_quantity_check":    {"quantity", "Ensure this value is greater than or equal to 1."},
	"order_items_price_check":       {"price", "Ensure this value is greater than or equal to 0.01."},
	"order_items_order_product_key": {"product", "Order item with this order and product already exists."},
	"orders_customer_id_fkey":       {"customer", "Customer does not exist."},
	"order_items_product_id_fkey":   {"product", "Product does not exist."},
	"order_items_order_id_fkey":     {"order", "Order does not exist."},
}

// ConstraintFieldErrors converts a storage constraint violation into
// per-field messages. ok is false for any other error.
func ConstraintFieldErrors(err error) (errs map[string]string, ok bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil, false
	}

	switch pgErr.Code {
	case pgUniqueViolation, pgForeignKeyViolation, pgCheckViolation:
		if m, found := constraintMessages[pgErr.ConstraintName]; found {
			return map[string]string{m[0]: m[1]}, true
		}
		field := pgErr.ColumnName
		if field == "" {
			field = pgErr.ConstraintName
		}
		return map[string]string{field: pgErr.Message}, true
	case pgNotNullViolation:
		return map[string]string{pgErr.ColumnName: "This field cannot be null."}, true
	case pgNumericOverflow:
		// Product prices are bounded before insert, so only a summed
		// order total can exceed numeric(10,2).
		return map[string]string{"total_amount": "Ensure that there are no more than 8 digits before the decimal point."}, true
	}
	return nil, false
}
