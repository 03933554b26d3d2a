package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePhone(t *testing.T) {
	testCases := []struct {
		phone string
		valid bool
	}{
		{"", true},
		{"+1234567890", true},
		{"+123456789012345", true},
		{"123-456-7890", true},
		{"+1234567890123456", false},
		{"1234567890", false},
		{"+", false},
		{"123-4567-890", false},
		{"(123) 456-7890", false},
	}

	for _, tc := range testCases {
		t.Run(tc.phone, func(t *testing.T) {
			assert.Equal(t, tc.valid, ValidatePhone(tc.phone))
		})
	}
}

func TestValidatePriceAndStock(t *testing.T) {
	assert.NoError(t, ValidatePrice(decimal.RequireFromString("0.01")))
	assert.ErrorIs(t, ValidatePrice(decimal.Zero), ErrPriceNotPositive)
	assert.ErrorIs(t, ValidatePrice(decimal.RequireFromString("-3")), ErrPriceNotPositive)

	assert.NoError(t, ValidateStock(0))
	assert.EqualError(t, ValidateStock(-1), MsgStockNegative)
}

func TestParseID(t *testing.T) {
	_, err := ParseID(" ", "Customer")
	assert.EqualError(t, err, "Customer ID is required")

	_, err = ParseID("42", "Product")
	assert.EqualError(t, err, "Invalid product ID: 42")

	id, err := ParseID(" 6f1c2a7e-3b7a-4c1e-9f55-3a8d2b4e1c90 ", "Order")
	require.NoError(t, err)
	assert.Equal(t, "6f1c2a7e-3b7a-4c1e-9f55-3a8d2b4e1c90", id.String())
}

func TestFieldErrors(t *testing.T) {
	assert.Nil(t, FieldErrors(nil))
	assert.Equal(t, []string{
		"email: Enter a valid email address.",
		"name: This field cannot be blank.",
	}, FieldErrors(map[string]string{
		"name":  "This field cannot be blank.",
		"email": "Enter a valid email address.",
	}))
}

func TestConstraintFieldErrors(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected map[string]string
		ok       bool
	}{
		{
			name:     "known unique constraint",
			err:      &pgconn.PgError{Code: "23505", ConstraintName: "customers_email_key"},
			expected: map[string]string{"email": "Customer with this email already exists."},
			ok:       true,
		},
		{
			name:     "wrapped foreign key",
			err:      fmt.Errorf("insert order: %w", &pgconn.PgError{Code: "23503", ConstraintName: "orders_customer_id_fkey"}),
			expected: map[string]string{"customer": "Customer does not exist."},
			ok:       true,
		},
		{
			name:     "unknown check constraint",
			err:      &pgconn.PgError{Code: "23514", ConstraintName: "products_name_check", Message: "violates check"},
			expected: map[string]string{"products_name_check": "violates check"},
			ok:       true,
		},
		{
			name:     "not null",
			err:      &pgconn.PgError{Code: "23502", ColumnName: "name"},
			expected: map[string]string{"name": "This field cannot be null."},
			ok:       true,
		},
		{
			name:     "numeric overflow",
			err:      fmt.Errorf("insert order: %w", &pgconn.PgError{Code: "22003", Message: "numeric field overflow"}),
			expected: map[string]string{"total_amount": "Ensure that there are no more than 8 digits before the decimal point."},
			ok:       true,
		},
		{
			name: "other postgres error",
			err:  &pgconn.PgError{Code: "40001"},
		},
		{
			name: "not a postgres error",
			err:  errors.New("boom"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			errs, ok := ConstraintFieldErrors(tc.err)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, errs)
		})
	}
}
