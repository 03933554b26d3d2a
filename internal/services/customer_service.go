package services

import (
	"context"
	"fmt"
	"strings"

	"crmhub/internal/common"
	"crmhub/internal/models"
	"crmhub/internal/repositories"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
)

type CreateCustomerInput struct {
	Name  string
	Email string
	Phone *string
}

// CustomerService defines customer queries and mutations
type CustomerService interface {
	CreateCustomer(ctx context.Context, input CreateCustomerInput) *CustomerResult
	BulkCreateCustomers(ctx context.Context, inputs []CreateCustomerInput) *BulkCustomersResult
	GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	ListCustomers(ctx context.Context, filter *models.CustomerSearchFilter, opts models.ListOptions) ([]*models.Customer, int, error)
}

type customerService struct {
	store repositories.Store
}

func NewCustomerService(store repositories.Store) CustomerService {
	return &customerService{store: store}
}

// CreateCustomer validates phone format and email uniqueness together, then
// the model fields, then persists.
func (s *customerService) CreateCustomer(ctx context.Context, input CreateCustomerInput) *CustomerResult {
	customer, errs, err := prepareCustomer(ctx, s.store.Customers(), input)
	if err != nil {
		zlog.Error().Err(err).Str("email", input.Email).Msg("customer validation failed unexpectedly")
		return &CustomerResult{Envelope: failed("Failed to create customer", msgUnexpectedError)}
	}
	if len(errs) > 0 {
		return &CustomerResult{Envelope: failed(msgValidationFailed, errs...)}
	}

	if err := s.store.Customers().Create(ctx, customer); err != nil {
		if fieldErrs, ok := common.ConstraintFieldErrors(err); ok {
			return &CustomerResult{Envelope: failed(msgValidationFailed, common.FieldErrors(fieldErrs)...)}
		}
		zlog.Error().Err(err).Str("email", customer.Email).Msg("failed to persist customer")
		return &CustomerResult{Envelope: failed("Failed to create customer", msgUnexpectedError)}
	}

	zlog.Info().Str("customer_id", customer.ID.String()).Msg("customer created")
	return &CustomerResult{Envelope: succeeded("Customer created successfully"), Customer: customer}
}

// BulkCreateCustomers creates every valid record in one transaction. Each
// insert runs under its own savepoint so a rejected record does not abort
// the others.
func (s *customerService) BulkCreateCustomers(ctx context.Context, inputs []CreateCustomerInput) *BulkCustomersResult {
	if len(inputs) == 0 {
		return &BulkCustomersResult{Envelope: failed("No customers were created", "At least one customer is required")}
	}

	var created []*models.Customer
	var errs []string

	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		created, errs = nil, nil
		for i, input := range inputs {
			customer, recordErrs, err := prepareCustomer(ctx, tx.Customers(), input)
			if err != nil {
				return err
			}
			if len(recordErrs) == 0 {
				err = tx.WithTx(ctx, func(sp repositories.Store) error {
					return sp.Customers().Create(ctx, customer)
				})
				if err != nil {
					fieldErrs, ok := common.ConstraintFieldErrors(err)
					if !ok {
						return err
					}
					recordErrs = common.FieldErrors(fieldErrs)
				}
			}

			if len(recordErrs) > 0 {
				errs = append(errs, fmt.Sprintf("Record %d: %s", i+1, strings.Join(recordErrs, "; ")))
				continue
			}
			created = append(created, customer)
		}
		return nil
	})
	if err != nil {
		zlog.Error().Err(err).Int("records", len(inputs)).Msg("bulk customer creation rolled back")
		return &BulkCustomersResult{Envelope: failed("Failed to create customers", msgUnexpectedError)}
	}

	zlog.Info().Int("created", len(created)).Int("rejected", len(errs)).Msg("bulk customer creation finished")

	switch {
	case len(errs) == 0:
		return &BulkCustomersResult{
			Envelope:  succeeded(fmt.Sprintf("Successfully created %d customers", len(created))),
			Customers: created,
		}
	case len(created) > 0:
		return &BulkCustomersResult{
			Envelope: Envelope{
				Success: true,
				Message: fmt.Sprintf("Partially successful: created %d customers, %d errors", len(created), len(errs)),
				Errors:  errs,
			},
			Customers: created,
		}
	default:
		return &BulkCustomersResult{Envelope: failed("No customers were created", errs...), Customers: []*models.Customer{}}
	}
}

func (s *customerService) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return s.store.Customers().GetByID(ctx, id)
}

func (s *customerService) ListCustomers(ctx context.Context, filter *models.CustomerSearchFilter, opts models.ListOptions) ([]*models.Customer, int, error) {
	return s.store.Customers().List(ctx, filter, opts)
}

// prepareCustomer builds a customer from input and collects every
// validation error. err is set only when storage could not be consulted.
func prepareCustomer(ctx context.Context, repo repositories.CustomerRepository, input CreateCustomerInput) (*models.Customer, []string, error) {
	var errs []string

	// Phone is validated as submitted; only the empty string maps to null.
	phone := input.Phone
	if phone != nil && *phone == "" {
		phone = nil
	}
	if phone != nil && !common.ValidatePhone(*phone) {
		errs = append(errs, common.MsgInvalidPhone)
	}

	email := strings.TrimSpace(input.Email)
	if email != "" {
		exists, err := repo.EmailExists(ctx, email)
		if err != nil {
			return nil, nil, fmt.Errorf("check email uniqueness: %w", err)
		}
		if exists {
			errs = append(errs, common.MsgEmailExists)
		}
	}

	if len(errs) > 0 {
		return nil, errs, nil
	}

	customer := &models.Customer{
		ID:    uuid.New(),
		Name:  strings.TrimSpace(input.Name),
		Email: email,
		Phone: phone,
	}
	if fieldErrs := customer.Validate(); len(fieldErrs) > 0 {
		return nil, common.FieldErrors(fieldErrs), nil
	}
	return customer, nil, nil
}
