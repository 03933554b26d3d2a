package common

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User-facing validation messages
const (
	MsgInvalidPhone     = "Invalid phone format. Use +1234567890 or 123-456-7890"
	MsgEmailExists      = "Email already exists"
	MsgPriceNotPositive = "Price must be positive"
	MsgStockNegative    = "Stock cannot be negative"
	MsgNoProducts       = "At least one product must be selected"
)

var phonePattern = regexp.MustCompile(`^(\+\d{1,15}|\d{3}-\d{3}-\d{4})$`)

var (
	ErrPriceNotPositive = errors.New(MsgPriceNotPositive)
	ErrStockNegative    = errors.New(MsgStockNegative)
)

// ValidatePhone reports whether phone is empty or in one of the accepted
// formats: +<1-15 digits> or NNN-NNN-NNNN.
func ValidatePhone(phone string) bool {
	if phone == "" {
		return true
	}
	return phonePattern.MatchString(phone)
}

// ValidatePrice requires a strictly positive price.
func ValidatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return ErrPriceNotPositive
	}
	return nil
}

func ValidateStock(stock int) error {
	if stock < 0 {
		return ErrStockNegative
	}
	return nil
}

// ParseID parses an identifier supplied by a client.
func ParseID(idStr, entity string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s ID is required", entity)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("Invalid %s ID: %s", strings.ToLower(entity), idStr)
	}
	return id, nil
}

// FieldErrors renders a field -> message map as "<field>: <message>" strings
// in field order.
func FieldErrors(errs map[string]string) []string {
	if len(errs) == 0 {
		return nil
	}
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	out := make([]string, 0, len(fields))
	for _, field := range fields {
		out = append(out, fmt.Sprintf("%s: %s", field, errs[field]))
	}
	return out
}
