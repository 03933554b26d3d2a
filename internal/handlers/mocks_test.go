package handlers

import (
	"context"
	"time"

	"crmhub/internal/models"
	"crmhub/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) CreateCustomer(ctx context.Context, input services.CreateCustomerInput) *services.CustomerResult {
	args := m.Called(ctx, input)
	return args.Get(0).(*services.CustomerResult)
}

func (m *MockCustomerService) BulkCreateCustomers(ctx context.Context, inputs []services.CreateCustomerInput) *services.BulkCustomersResult {
	args := m.Called(ctx, inputs)
	return args.Get(0).(*services.BulkCustomersResult)
}

func (m *MockCustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerService) ListCustomers(ctx context.Context, filter *models.CustomerSearchFilter, opts models.ListOptions) ([]*models.Customer, int, error) {
	args := m.Called(ctx, filter, opts)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Customer), args.Int(1), args.Error(2)
}

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) CreateProduct(ctx context.Context, input services.CreateProductInput) *services.ProductResult {
	args := m.Called(ctx, input)
	return args.Get(0).(*services.ProductResult)
}

func (m *MockProductService) UpdateLowStockProducts(ctx context.Context) *services.LowStockResult {
	args := m.Called(ctx)
	return args.Get(0).(*services.LowStockResult)
}

func (m *MockProductService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) ListProducts(ctx context.Context, filter *models.ProductSearchFilter, opts models.ListOptions) ([]*models.Product, int, error) {
	args := m.Called(ctx, filter, opts)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Product), args.Int(1), args.Error(2)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, input services.CreateOrderInput) *services.OrderResult {
	args := m.Called(ctx, input)
	return args.Get(0).(*services.OrderResult)
}

func (m *MockOrderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, filter *models.OrderSearchFilter, opts models.ListOptions) ([]*models.Order, int, error) {
	args := m.Called(ctx, filter, opts)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Order), args.Int(1), args.Error(2)
}

func (m *MockOrderService) PendingOrdersSince(ctx context.Context, since time.Time) ([]*models.Order, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}
