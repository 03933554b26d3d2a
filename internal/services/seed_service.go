package services

import (
	"context"
	"fmt"
	"time"

	"crmhub/internal/models"
	"crmhub/internal/repositories"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// SeedSummary counts the rows written by Seed.
type SeedSummary struct {
	Customers  int
	Products   int
	Orders     int
	OrderItems int
}

type SeedService struct {
	store repositories.Store
	now   func() time.Time
}

func NewSeedService(store repositories.Store) *SeedService {
	return &SeedService{store: store, now: time.Now}
}

func strPtr(s string) *string { return &s }

// Seed clears all CRM tables and loads the demo fixture set.
func (s *SeedService) Seed(ctx context.Context) (*SeedSummary, error) {
	summary := &SeedSummary{}

	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		*summary = SeedSummary{}

		if err := tx.OrderItems().DeleteAll(ctx); err != nil {
			return fmt.Errorf("clear order items: %w", err)
		}
		if err := tx.Orders().DeleteAll(ctx); err != nil {
			return fmt.Errorf("clear orders: %w", err)
		}
		if err := tx.Products().DeleteAll(ctx); err != nil {
			return fmt.Errorf("clear products: %w", err)
		}
		if err := tx.Customers().DeleteAll(ctx); err != nil {
			return fmt.Errorf("clear customers: %w", err)
		}

		customers := []*models.Customer{
			{ID: uuid.New(), Name: "John Doe", Email: "john@example.com", Phone: strPtr("+1234567890")},
			{ID: uuid.New(), Name: "Jane Smith", Email: "jane@example.com", Phone: strPtr("123-456-7890")},
			{ID: uuid.New(), Name: "Bob Johnson", Email: "bob@example.com", Phone: strPtr("+447912345678")},
		}
		for _, c := range customers {
			if err := tx.Customers().Create(ctx, c); err != nil {
				return fmt.Errorf("create customer %s: %w", c.Email, err)
			}
			summary.Customers++
		}

		products := []*models.Product{
			{ID: uuid.New(), Name: "Laptop", Price: decimal.RequireFromString("999.99"), Stock: 10},
			{ID: uuid.New(), Name: "Mouse", Price: decimal.RequireFromString("29.99"), Stock: 50},
			{ID: uuid.New(), Name: "Keyboard", Price: decimal.RequireFromString("79.99"), Stock: 30},
			{ID: uuid.New(), Name: "Monitor", Price: decimal.RequireFromString("299.99"), Stock: 15},
		}
		for _, p := range products {
			if err := tx.Products().Create(ctx, p); err != nil {
				return fmt.Errorf("create product %s: %w", p.Name, err)
			}
			summary.Products++
		}

		fixtures := []struct {
			customer *models.Customer
			products []*models.Product
		}{
			{customers[0], []*models.Product{products[0], products[1]}},
			{customers[1], []*models.Product{products[2]}},
		}
		for _, f := range fixtures {
			total := decimal.Zero
			for _, p := range f.products {
				total = total.Add(p.Price)
			}
			order := &models.Order{
				ID:          uuid.New(),
				CustomerID:  f.customer.ID,
				TotalAmount: total,
				Status:      models.OrderStatusPending,
				OrderDate:   s.now(),
			}
			if err := tx.Orders().Create(ctx, order); err != nil {
				return fmt.Errorf("create order for %s: %w", f.customer.Email, err)
			}
			summary.Orders++

			for _, p := range f.products {
				item := &models.OrderItem{
					ID:        uuid.New(),
					OrderID:   order.ID,
					ProductID: p.ID,
					Quantity:  1,
					Price:     p.Price,
				}
				if err := tx.OrderItems().Create(ctx, item); err != nil {
					return fmt.Errorf("create order item: %w", err)
				}
				summary.OrderItems++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zlog.Info().
		Int("customers", summary.Customers).
		Int("products", summary.Products).
		Int("orders", summary.Orders).
		Msg("database seeded")
	return summary, nil
}
