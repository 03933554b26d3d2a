package services

import (
	"crmhub/internal/models"
)

// Envelope is the outcome shared by every mutation. Errors is nil on
// success.
type Envelope struct {
	Success bool
	Message string
	Errors  []string
}

func succeeded(message string) Envelope {
	return Envelope{Success: true, Message: message}
}

func failed(message string, errs ...string) Envelope {
	if len(errs) == 0 {
		errs = nil
	}
	return Envelope{Success: false, Message: message, Errors: errs}
}

const (
	msgValidationFailed = "Validation failed"
	msgUnexpectedError  = "An unexpected error occurred"
)

type CustomerResult struct {
	Envelope
	Customer *models.Customer
}

type BulkCustomersResult struct {
	Envelope
	Customers []*models.Customer
}

type ProductResult struct {
	Envelope
	Product *models.Product
}

type OrderResult struct {
	Envelope
	Order *models.Order
}

type LowStockResult struct {
	Envelope
	UpdatedProducts []*models.Product
}

// userError is a referential or validation failure detected inside a
// transaction. It aborts the transaction and is reported to the client
// as-is.
type userError struct {
	msg string
}

func (e *userError) Error() string { return e.msg }
