package repositories

import (
	"context"
	"errors"
	"strings"

	"crmhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter *models.CustomerSearchFilter, opts models.ListOptions) ([]*models.Customer, int, error)
	DeleteAll(ctx context.Context) error
}

type customerRepo struct {
	db DBTX
}

func NewCustomerRepo(db DBTX) CustomerRepository {
	return &customerRepo{db: db}
}

var customerSortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"email":      "email",
	"phone":      "phone",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

func (r *customerRepo) Create(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (id, name, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, customer.ID, customer.Name, customer.Email, customer.Phone).
		Scan(&customer.CreatedAt, &customer.UpdatedAt)
}

func (r *customerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer := &models.Customer{}
	query := `
		SELECT id, name, email, phone, created_at, updated_at
		FROM customers
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&customer.ID, &customer.Name, &customer.Email, &customer.Phone, &customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

func (r *customerRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM customers WHERE email = $1)`
	if err := r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *customerRepo) List(ctx context.Context, filter *models.CustomerSearchFilter, opts models.ListOptions) ([]*models.Customer, int, error) {
	opts.Normalize()
	where := customerWhere(filter)

	orderBy, err := orderByClause(opts.OrderBy, customerSortColumns, "id", "created_at DESC")
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM customers`+where.sql(), where.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, name, email, phone, created_at, updated_at FROM customers` + where.sql() + orderBy
	query += " LIMIT " + where.nextParam(opts.First) + " OFFSET " + where.nextParam(opts.Offset)

	rows, err := r.db.Query(ctx, query, where.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		customer := &models.Customer{}
		if err := rows.Scan(&customer.ID, &customer.Name, &customer.Email, &customer.Phone, &customer.CreatedAt, &customer.UpdatedAt); err != nil {
			return nil, 0, err
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

func (r *customerRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM customers`)
	return err
}

func customerWhere(filter *models.CustomerSearchFilter) *whereBuilder {
	where := &whereBuilder{}
	if filter == nil {
		return where
	}

	if filter.Name != "" {
		where.add("name ILIKE ?", containsPattern(filter.Name))
	}
	if filter.Email != "" {
		where.add("email ILIKE ?", containsPattern(filter.Email))
	}
	if filter.CreatedAtGte != nil {
		where.add("created_at >= ?", filter.CreatedAtGte.Lower())
	}
	if filter.CreatedAtLte != nil {
		where.add("created_at < ?", filter.CreatedAtLte.UpperExclusive())
	}
	if filter.PhonePattern != "" {
		addPhonePattern(where, filter.PhonePattern)
	}
	return where
}

// addPhonePattern supports "+1" as a shortcut for numbers starting with +1,
// explicit "starts_with:" and "contains:" modes, and otherwise matches the
// literal value exactly or as a substring.
func addPhonePattern(where *whereBuilder, pattern string) {
	switch {
	case pattern == "+1":
		where.add("phone LIKE ?", prefixPattern("+1"))
	case strings.HasPrefix(pattern, "starts_with:"):
		where.add("phone LIKE ?", prefixPattern(strings.TrimPrefix(pattern, "starts_with:")))
	case strings.HasPrefix(pattern, "contains:"):
		where.add("phone ILIKE ?", containsPattern(strings.TrimPrefix(pattern, "contains:")))
	default:
		where.add("(phone = ? OR phone ILIKE ?)", pattern, containsPattern(pattern))
	}
}
