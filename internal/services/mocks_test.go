package services

import (
	"context"

	"crmhub/internal/models"
	"crmhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) List(ctx context.Context, filter *models.CustomerSearchFilter, opts models.ListOptions) ([]*models.Customer, int, error) {
	args := m.Called(ctx, filter, opts)
	return args.Get(0).([]*models.Customer), args.Int(1), args.Error(2)
}

func (m *MockCustomerRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) LockByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, filter *models.ProductSearchFilter, opts models.ListOptions) ([]*models.Product, int, error) {
	args := m.Called(ctx, filter, opts)
	return args.Get(0).([]*models.Product), args.Int(1), args.Error(2)
}

func (m *MockProductRepository) RestockBelow(ctx context.Context, threshold, amount int) ([]*models.Product, error) {
	args := m.Called(ctx, threshold, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, filter *models.OrderSearchFilter, opts models.ListOptions) ([]*models.Order, int, error) {
	args := m.Called(ctx, filter, opts)
	return args.Get(0).([]*models.Order), args.Int(1), args.Error(2)
}

func (m *MockOrderRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockOrderItemRepository struct {
	mock.Mock
}

func (m *MockOrderItemRepository) Create(ctx context.Context, orderItem *models.OrderItem) error {
	args := m.Called(ctx, orderItem)
	return args.Error(0)
}

func (m *MockOrderItemRepository) ListByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]models.OrderItem, error) {
	args := m.Called(ctx, orderIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID][]models.OrderItem), args.Error(1)
}

func (m *MockOrderItemRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// fakeStore hands out the mock repositories for both the root store and
// every transaction. Only the outermost transaction is tracked.
type fakeStore struct {
	customers  *MockCustomerRepository
	products   *MockProductRepository
	orders     *MockOrderRepository
	orderItems *MockOrderItemRepository

	depth      int
	commits    int
	rollbacks  int
	savepoints int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		customers:  &MockCustomerRepository{},
		products:   &MockProductRepository{},
		orders:     &MockOrderRepository{},
		orderItems: &MockOrderItemRepository{},
	}
}

func (s *fakeStore) Customers() repositories.CustomerRepository   { return s.customers }
func (s *fakeStore) Products() repositories.ProductRepository     { return s.products }
func (s *fakeStore) Orders() repositories.OrderRepository         { return s.orders }
func (s *fakeStore) OrderItems() repositories.OrderItemRepository { return s.orderItems }

func (s *fakeStore) WithTx(ctx context.Context, fn func(repositories.Store) error) error {
	if s.depth > 0 {
		s.savepoints++
	}
	s.depth++
	err := fn(s)
	s.depth--
	if s.depth == 0 {
		if err != nil {
			s.rollbacks++
		} else {
			s.commits++
		}
	}
	return err
}

func (s *fakeStore) Ping(ctx context.Context) error { return nil }

func (s *fakeStore) assertExpectations(t mock.TestingT) {
	s.customers.AssertExpectations(t)
	s.products.AssertExpectations(t)
	s.orders.AssertExpectations(t)
	s.orderItems.AssertExpectations(t)
}
