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
	"github.com/shopspring/decimal"
)

type CreateProductInput struct {
	Name  string
	Price decimal.Decimal
	Stock *int
}

// ProductService defines product queries and mutations
type ProductService interface {
	CreateProduct(ctx context.Context, input CreateProductInput) *ProductResult
	UpdateLowStockProducts(ctx context.Context) *LowStockResult
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, filter *models.ProductSearchFilter, opts models.ListOptions) ([]*models.Product, int, error)
}

type productService struct {
	store repositories.Store
}

func NewProductService(store repositories.Store) ProductService {
	return &productService{store: store}
}

func (s *productService) CreateProduct(ctx context.Context, input CreateProductInput) *ProductResult {
	stock := 0
	if input.Stock != nil {
		stock = *input.Stock
	}

	var errs []string
	if err := common.ValidatePrice(input.Price); err != nil {
		errs = append(errs, err.Error())
	}
	if err := common.ValidateStock(stock); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return &ProductResult{Envelope: failed(msgValidationFailed, errs...)}
	}

	product := &models.Product{
		ID:    uuid.New(),
		Name:  strings.TrimSpace(input.Name),
		Price: input.Price,
		Stock: stock,
	}
	if fieldErrs := product.Validate(); len(fieldErrs) > 0 {
		return &ProductResult{Envelope: failed(msgValidationFailed, common.FieldErrors(fieldErrs)...)}
	}

	if err := s.store.Products().Create(ctx, product); err != nil {
		if fieldErrs, ok := common.ConstraintFieldErrors(err); ok {
			return &ProductResult{Envelope: failed(msgValidationFailed, common.FieldErrors(fieldErrs)...)}
		}
		zlog.Error().Err(err).Str("name", product.Name).Msg("failed to persist product")
		return &ProductResult{Envelope: failed("Failed to create product", msgUnexpectedError)}
	}

	zlog.Info().Str("product_id", product.ID.String()).Msg("product created")
	return &ProductResult{Envelope: succeeded("Product created successfully"), Product: product}
}

// UpdateLowStockProducts restocks every product below the low-stock
// threshold. Each call adds RestockAmount again to anything still below it.
func (s *productService) UpdateLowStockProducts(ctx context.Context) *LowStockResult {
	updated, err := s.store.Products().RestockBelow(ctx, models.LowStockThreshold, models.RestockAmount)
	if err != nil {
		zlog.Error().Err(err).Msg("low-stock restock failed")
		return &LowStockResult{
			Envelope:        failed(fmt.Sprintf("Error updating low-stock products: %s", err)),
			UpdatedProducts: []*models.Product{},
		}
	}
	if updated == nil {
		updated = []*models.Product{}
	}

	zlog.Info().Int("updated", len(updated)).Msg("low-stock products restocked")
	return &LowStockResult{
		Envelope:        succeeded(fmt.Sprintf("Successfully updated %d low-stock products", len(updated))),
		UpdatedProducts: updated,
	}
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.store.Products().GetByID(ctx, id)
}

func (s *productService) ListProducts(ctx context.Context, filter *models.ProductSearchFilter, opts models.ListOptions) ([]*models.Product, int, error) {
	return s.store.Products().List(ctx, filter, opts)
}
