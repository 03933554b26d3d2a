package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crmhub/internal/common"
	"crmhub/internal/models"
	"crmhub/internal/repositories"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type CreateOrderInput struct {
	CustomerID string
	ProductIDs []string
	OrderDate  *time.Time
}

// OrderServiceInterface defines order queries and mutations
type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) *OrderResult
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, filter *models.OrderSearchFilter, opts models.ListOptions) ([]*models.Order, int, error)
	PendingOrdersSince(ctx context.Context, since time.Time) ([]*models.Order, error)
}

type orderService struct {
	store repositories.Store
	now   func() time.Time
}

// NewOrderService creates a new order service instance
func NewOrderService(store repositories.Store) OrderServiceInterface {
	return &orderService{store: store, now: time.Now}
}

// CreateOrder writes the order and one item per product in a single
// transaction. Any unresolved reference fails the whole order.
func (s *orderService) CreateOrder(ctx context.Context, input CreateOrderInput) *OrderResult {
	if len(input.ProductIDs) == 0 {
		return &OrderResult{Envelope: failed("Order creation failed", common.MsgNoProducts)}
	}

	customerID, err := common.ParseID(input.CustomerID, "Customer")
	if err != nil {
		return &OrderResult{Envelope: failed("Order creation failed", err.Error())}
	}

	productIDs := make([]uuid.UUID, 0, len(input.ProductIDs))
	seen := make(map[uuid.UUID]bool, len(input.ProductIDs))
	for _, raw := range input.ProductIDs {
		id, err := common.ParseID(raw, "Product")
		if err != nil {
			return &OrderResult{Envelope: failed("Order creation failed", err.Error())}
		}
		if seen[id] {
			return &OrderResult{Envelope: failed("Order creation failed", fmt.Sprintf("Duplicate product ID: %s", id))}
		}
		seen[id] = true
		productIDs = append(productIDs, id)
	}

	orderDate := s.now()
	if input.OrderDate != nil {
		orderDate = *input.OrderDate
	}

	var order *models.Order
	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		customer, err := tx.Customers().GetByID(ctx, customerID)
		if err != nil {
			if errors.Is(err, models.ErrCustomerNotFound) {
				return &userError{msg: fmt.Sprintf("Customer with ID %s not found", customerID)}
			}
			return fmt.Errorf("load customer: %w", err)
		}

		products := make([]*models.Product, 0, len(productIDs))
		total := decimal.Zero
		for _, id := range productIDs {
			product, err := tx.Products().LockByID(ctx, id)
			if err != nil {
				if errors.Is(err, models.ErrProductNotFound) {
					return &userError{msg: fmt.Sprintf("Product with ID %s not found", id)}
				}
				return fmt.Errorf("load product %s: %w", id, err)
			}
			total = total.Add(product.Price)
			products = append(products, product)
		}

		o := &models.Order{
			ID:          uuid.New(),
			CustomerID:  customer.ID,
			TotalAmount: total,
			Status:      models.OrderStatusPending,
			OrderDate:   orderDate,
			Customer:    customer,
			Products:    products,
		}
		if err := tx.Orders().Create(ctx, o); err != nil {
			return err
		}

		for _, product := range products {
			item := models.OrderItem{
				ID:        uuid.New(),
				OrderID:   o.ID,
				ProductID: product.ID,
				Quantity:  1,
				Price:     product.Price,
				Product:   product,
			}
			if err := tx.OrderItems().Create(ctx, &item); err != nil {
				return err
			}
			o.Items = append(o.Items, item)
		}

		order = o
		return nil
	})
	if err != nil {
		var ue *userError
		if errors.As(err, &ue) {
			return &OrderResult{Envelope: failed("Order creation failed", ue.msg)}
		}
		if fieldErrs, ok := common.ConstraintFieldErrors(err); ok {
			return &OrderResult{Envelope: failed(msgValidationFailed, common.FieldErrors(fieldErrs)...)}
		}
		zlog.Error().Err(err).Str("customer_id", customerID.String()).Msg("order creation rolled back")
		return &OrderResult{Envelope: failed("Failed to create order", msgUnexpectedError)}
	}

	zlog.Info().
		Str("order_id", order.ID.String()).
		Str("total_amount", order.TotalAmount.StringFixed(2)).
		Int("items", len(order.Items)).
		Msg("order created")
	return &OrderResult{Envelope: succeeded("Order created successfully"), Order: order}
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.store.Orders().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, []*models.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, filter *models.OrderSearchFilter, opts models.ListOptions) ([]*models.Order, int, error) {
	orders, total, err := s.store.Orders().List(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	if err := s.attachItems(ctx, orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// PendingOrdersSince returns pending orders placed at or after since.
func (s *orderService) PendingOrdersSince(ctx context.Context, since time.Time) ([]*models.Order, error) {
	status := models.OrderStatusPending
	filter := &models.OrderSearchFilter{
		Status:       &status,
		OrderDateGte: &models.DateBound{Time: since},
	}
	orders, _, err := s.ListOrders(ctx, filter, models.ListOptions{
		OrderBy: []string{"order_date"},
		First:   models.MaxPageSize,
	})
	return orders, err
}

func (s *orderService) attachItems(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}

	items, err := s.store.OrderItems().ListByOrderIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	for _, o := range orders {
		o.Items = items[o.ID]
		o.Products = make([]*models.Product, 0, len(o.Items))
		for _, item := range o.Items {
			o.Products = append(o.Products, item.Product)
		}
	}
	return nil
}
