package repositories

import (
	"context"
	"errors"

	"crmhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	// LockByID reads a product and holds a share lock on it until the
	// surrounding transaction ends, so its price cannot change underneath.
	LockByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, filter *models.ProductSearchFilter, opts models.ListOptions) ([]*models.Product, int, error)
	RestockBelow(ctx context.Context, threshold, amount int) ([]*models.Product, error)
	DeleteAll(ctx context.Context) error
}

type productRepo struct {
	db DBTX
}

func NewProductRepo(db DBTX) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `id, name, price, stock, created_at, updated_at`

var productSortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"price":      "price",
	"stock":      "stock",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

func scanProduct(row pgx.Row) (*models.Product, error) {
	product := &models.Product{}
	if err := row.Scan(&product.ID, &product.Name, &product.Price, &product.Stock, &product.CreatedAt, &product.UpdatedAt); err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, name, price, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, product.ID, product.Name, product.Price, product.Stock).
		Scan(&product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return r.getByID(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

func (r *productRepo) LockByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return r.getByID(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR SHARE`, id)
}

func (r *productRepo) getByID(ctx context.Context, query string, id uuid.UUID) (*models.Product, error) {
	product, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (r *productRepo) List(ctx context.Context, filter *models.ProductSearchFilter, opts models.ListOptions) ([]*models.Product, int, error) {
	opts.Normalize()
	where := productWhere(filter)

	orderBy, err := orderByClause(opts.OrderBy, productSortColumns, "id", "created_at DESC")
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where.sql(), where.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM products` + where.sql() + orderBy
	query += " LIMIT " + where.nextParam(opts.First) + " OFFSET " + where.nextParam(opts.Offset)

	products, err := r.queryProducts(ctx, query, where.args...)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// RestockBelow adds amount to the stock of every product whose stock is
// below threshold and returns the updated rows.
func (r *productRepo) RestockBelow(ctx context.Context, threshold, amount int) ([]*models.Product, error) {
	query := `
		UPDATE products
		SET stock = stock + $1, updated_at = NOW()
		WHERE stock < $2
		RETURNING ` + productColumns
	return r.queryProducts(ctx, query, amount, threshold)
}

func (r *productRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM products`)
	return err
}

func (r *productRepo) queryProducts(ctx context.Context, query string, args ...interface{}) ([]*models.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func productWhere(filter *models.ProductSearchFilter) *whereBuilder {
	where := &whereBuilder{}
	if filter == nil {
		return where
	}

	if filter.Name != "" {
		where.add("name ILIKE ?", containsPattern(filter.Name))
	}
	if filter.PriceGte != nil {
		where.add("price >= ?", *filter.PriceGte)
	}
	if filter.PriceLte != nil {
		where.add("price <= ?", *filter.PriceLte)
	}
	if filter.StockGte != nil {
		where.add("stock >= ?", *filter.StockGte)
	}
	if filter.StockLte != nil {
		where.add("stock <= ?", *filter.StockLte)
	}
	if filter.LowStock != nil && *filter.LowStock {
		where.add("stock < ?", models.LowStockThreshold)
	}
	return where
}
