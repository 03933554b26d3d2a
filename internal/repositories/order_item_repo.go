package repositories

import (
	"context"

	"crmhub/internal/models"

	"github.com/google/uuid"
)

type OrderItemRepository interface {
	Create(ctx context.Context, orderItem *models.OrderItem) error
	// ListByOrderIDs returns the items of the given orders with their
	// products loaded, keyed by order id.
	ListByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]models.OrderItem, error)
	DeleteAll(ctx context.Context) error
}

type orderItemRepo struct {
	db DBTX
}

func NewOrderItemRepo(db DBTX) OrderItemRepository {
	return &orderItemRepo{db: db}
}

func (r *orderItemRepo) Create(ctx context.Context, orderItem *models.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, price, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at
	`
	return r.db.QueryRow(ctx, query, orderItem.ID, orderItem.OrderID, orderItem.ProductID, orderItem.Quantity, orderItem.Price).
		Scan(&orderItem.CreatedAt)
}

func (r *orderItemRepo) ListByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]models.OrderItem, error) {
	items := make(map[uuid.UUID][]models.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return items, nil
	}

	ids := make([]string, len(orderIDs))
	for i, id := range orderIDs {
		ids[i] = id.String()
	}

	query := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price, oi.created_at,
		       p.id, p.name, p.price, p.stock, p.created_at, p.updated_at
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1::uuid[])
		ORDER BY oi.created_at, oi.id
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		product := &models.Product{}
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price, &item.CreatedAt,
			&product.ID, &product.Name, &product.Price, &product.Stock, &product.CreatedAt, &product.UpdatedAt,
		); err != nil {
			return nil, err
		}
		item.Product = product
		items[item.OrderID] = append(items[item.OrderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *orderItemRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM order_items`)
	return err
}
