package repositories

import (
	"context"
	"errors"

	"crmhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filter *models.OrderSearchFilter, opts models.ListOptions) ([]*models.Order, int, error)
	DeleteAll(ctx context.Context) error
}

type orderRepo struct {
	db DBTX
}

func NewOrderRepo(db DBTX) OrderRepository {
	return &orderRepo{db: db}
}

// Orders are always read together with their owning customer.
const orderSelect = `
	SELECT o.id, o.customer_id, o.total_amount, o.status, o.order_date, o.created_at, o.updated_at,
	       c.id, c.name, c.email, c.phone, c.created_at, c.updated_at
	FROM orders o
	JOIN customers c ON c.id = o.customer_id`

var orderSortColumns = map[string]string{
	"id":            "o.id",
	"total_amount":  "o.total_amount",
	"order_date":    "o.order_date",
	"status":        "o.status",
	"created_at":    "o.created_at",
	"updated_at":    "o.updated_at",
	"customer_name": "c.name",
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	order := &models.Order{Customer: &models.Customer{}}
	c := order.Customer
	err := row.Scan(
		&order.ID, &order.CustomerID, &order.TotalAmount, &order.Status, &order.OrderDate, &order.CreatedAt, &order.UpdatedAt,
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, customer_id, total_amount, status, order_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, order.ID, order.CustomerID, order.TotalAmount, order.Status, order.OrderDate).
		Scan(&order.CreatedAt, &order.UpdatedAt)
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx, orderSelect+` WHERE o.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) List(ctx context.Context, filter *models.OrderSearchFilter, opts models.ListOptions) ([]*models.Order, int, error) {
	opts.Normalize()
	where := orderWhere(filter)

	orderBy, err := orderByClause(opts.OrderBy, orderSortColumns, "o.id", "o.created_at DESC")
	if err != nil {
		return nil, 0, err
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM orders o JOIN customers c ON c.id = o.customer_id` + where.sql()
	if err := r.db.QueryRow(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := orderSelect + where.sql() + orderBy
	query += " LIMIT " + where.nextParam(opts.First) + " OFFSET " + where.nextParam(opts.Offset)

	rows, err := r.db.Query(ctx, query, where.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM orders`)
	return err
}

func orderWhere(filter *models.OrderSearchFilter) *whereBuilder {
	where := &whereBuilder{}
	if filter == nil {
		return where
	}

	if filter.TotalAmountGte != nil {
		where.add("o.total_amount >= ?", *filter.TotalAmountGte)
	}
	if filter.TotalAmountLte != nil {
		where.add("o.total_amount <= ?", *filter.TotalAmountLte)
	}
	if filter.OrderDateGte != nil {
		where.add("o.order_date >= ?", filter.OrderDateGte.Lower())
	}
	if filter.OrderDateLte != nil {
		where.add("o.order_date < ?", filter.OrderDateLte.UpperExclusive())
	}
	if filter.CustomerName != "" {
		where.add("c.name ILIKE ?", containsPattern(filter.CustomerName))
	}
	if filter.ProductName != "" {
		where.add(`EXISTS (
			SELECT 1 FROM order_items oi JOIN products p ON p.id = oi.product_id
			WHERE oi.order_id = o.id AND p.name ILIKE ?
		)`, containsPattern(filter.ProductName))
	}
	if filter.ProductID != nil {
		where.add("EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = o.id AND oi.product_id = ?)", *filter.ProductID)
	}
	if filter.Status != nil && *filter.Status != "" {
		where.add("o.status = ?", *filter.Status)
	}
	return where
}
