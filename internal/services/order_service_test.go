package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"crmhub/internal/common"
	"crmhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type OrderServiceTestSuite struct {
	suite.Suite
	store    *fakeStore
	service  *orderService
	ctx      context.Context
	now      time.Time
	customer *models.Customer
	laptop   *models.Product
	mouse    *models.Product
}

func (suite *OrderServiceTestSuite) SetupTest() {
	suite.store = newFakeStore()
	suite.now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	suite.service = &orderService{store: suite.store, now: func() time.Time { return suite.now }}
	suite.ctx = context.Background()

	suite.customer = &models.Customer{ID: uuid.New(), Name: "John Doe", Email: "john@example.com"}
	suite.laptop = &models.Product{ID: uuid.New(), Name: "Laptop", Price: decimal.RequireFromString("999.99"), Stock: 10}
	suite.mouse = &models.Product{ID: uuid.New(), Name: "Mouse", Price: decimal.RequireFromString("29.99"), Stock: 50}
}

func (suite *OrderServiceTestSuite) TearDownTest() {
	suite.store.assertExpectations(suite.T())
}

func TestOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (suite *OrderServiceTestSuite) TestCreateOrder_SumsPricesAndSnapshotsItems() {
	suite.store.customers.On("GetByID", mock.Anything, suite.customer.ID).Return(suite.customer, nil).Once()
	suite.store.products.On("LockByID", mock.Anything, suite.laptop.ID).Return(suite.laptop, nil).Once()
	suite.store.products.On("LockByID", mock.Anything, suite.mouse.ID).Return(suite.mouse, nil).Once()
	suite.store.orders.On("Create", mock.Anything, mock.MatchedBy(func(o *models.Order) bool {
		return o.TotalAmount.Equal(decimal.RequireFromString("1029.98")) &&
			o.Status == models.OrderStatusPending &&
			o.OrderDate.Equal(suite.now) &&
			o.CustomerID == suite.customer.ID
	})).Return(nil).Once()
	suite.store.orderItems.On("Create", mock.Anything, mock.AnythingOfType("*models.OrderItem")).Return(nil).Twice()

	result := suite.service.CreateOrder(suite.ctx, CreateOrderInput{
		CustomerID: suite.customer.ID.String(),
		ProductIDs: []string{suite.laptop.ID.String(), suite.mouse.ID.String()},
	})

	require.True(suite.T(), result.Success, result.Errors)
	assert.Equal(suite.T(), "Order created successfully", result.Message)
	order := result.Order
	require.NotNil(suite.T(), order)
	assert.Equal(suite.T(), "1029.98", order.TotalAmount.StringFixed(2))
	require.Len(suite.T(), order.Items, 2)
	assert.Equal(suite.T(), 1, order.Items[0].Quantity)
	assert.True(suite.T(), order.Items[0].Price.Equal(suite.laptop.Price))
	assert.True(suite.T(), order.Items[1].Price.Equal(suite.mouse.Price))
	assert.Len(suite.T(), order.Products, 2)
	assert.Equal(suite.T(), 1, suite.store.commits)

	// a later price edit does not reach the recorded item
	suite.laptop.Price = decimal.RequireFromString("1299.00")
	assert.Equal(suite.T(), "999.99", order.Items[0].Price.StringFixed(2))
}

func (suite *OrderServiceTestSuite) TestCreateOrder_DecimalTotalIsExact() {
	cheap := &models.Product{ID: uuid.New(), Name: "Sticker", Price: decimal.RequireFromString("0.10")}
	other := &models.Product{ID: uuid.New(), Name: "Pin", Price: decimal.RequireFromString("0.20")}

	suite.store.customers.On("GetByID", mock.Anything, suite.customer.ID).Return(suite.customer, nil).Once()
	suite.store.products.On("LockByID", mock.Anything, cheap.ID).Return(cheap, nil).Once()
	suite.store.products.On("LockByID", mock.Anything, other.ID).Return(other, nil).Once()
	suite.store.orders.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	suite.store.orderItems.On("Create", mock.Anything, mock.Anything).Return(nil).Twice()

	result := suite.service.CreateOrder(suite.ctx, CreateOrderInput{
		CustomerID: suite.customer.ID.String(),
		ProductIDs: []string{cheap.ID.String(), other.ID.String()},
	})

	require.True(suite.T(), result.Success)
	assert.True(suite.T(), result.Order.TotalAmount.Equal(decimal.RequireFromString("0.30")))
}

func (suite *OrderServiceTestSuite) TestCreateOrder_UsesSuppliedOrderDate() {
	placed := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)
	suite.store.customers.On("GetByID", mock.Anything, suite.customer.ID).Return(suite.customer, nil).Once()
	suite.store.products.On("LockByID", mock.Anything, suite.mouse.ID).Return(suite.mouse, nil).Once()
	suite.store.orders.On("Create", mock.Anything, mock.MatchedBy(func(o *models.Order) bool {
		return o.OrderDate.Equal(placed)
	})).Return(nil).Once()
	suite.store.orderItems.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	result := suite.service.CreateOrder(suite.ctx, CreateOrderInput{
		CustomerID: suite.customer.ID.String(),
		ProductIDs: []string{suite.mouse.ID.String()},
		OrderDate:  &placed,
	})
	assert.True(suite.T(), result.Success)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_EmptyProductList() {
	result := suite.service.CreateOrder(suite.ctx, CreateOrderInput{CustomerID: suite.customer.ID.String()})

	assert.False(suite.T(), result.Success)
	assert.Equal(suite.T(), []string{common.MsgNoProducts}, result.Errors)
	assert.Nil(suite.T(), result.Order)
	assert.Equal(suite.T(), 0, suite.store.commits)
	suite.store.orders.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_MissingProductWritesNothing() {
	missing := uuid.New()
	suite.store.customers.On("GetByID", mock.Anything, suite.customer.ID).Return(suite.customer, nil).Once()
	suite.store.products.On("LockByID", mock.Anything, suite.laptop.ID).Return(suite.laptop, nil).Once()
	suite.store.products.On("LockByID", mock.Anything, missing).Return(nil, models.ErrProductNotFound).Once()

	result := suite.service.CreateOrder(suite.ctx, CreateOrderInput{
		CustomerID: suite.customer.ID.String(),
		ProductIDs: []string{suite.laptop.ID.String(), missing.String()},
	})

	assert.False(suite.T(), result.Success)
	assert.Equal(suite.T(), "Order creation failed", result.Message)
	assert.Equal(suite.T(), []string{fmt.Sprintf("Product with ID %s not found", missing)}, result.Errors)
	assert.Equal(suite.T(), 1, suite.store.rollbacks)
	suite.store.orders.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
	suite.store.orderItems.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_MissingCustomer() {
	suite.store.customers.On("GetByID", mock.Anything, suite.customer.ID).Return(nil, models.ErrCustomerNotFound).Once()

	result := suite.service.CreateOrder(suite.ctx, CreateOrderInput{
		CustomerID: suite.customer.ID.String(),
		ProductIDs: []string{suite.laptop.ID.String()},
	})

	assert.False(suite.T(), result.Success)
	assert.Equal(suite.T(), []string{fmt.Sprintf("Customer with ID %s not found", suite.customer.ID)}, result.Errors)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_RejectsMalformedAndDuplicateIDs() {
	result := suite.service.CreateOrder(suite.ctx, CreateOrderInput{CustomerID: "abc", ProductIDs: []string{suite.laptop.ID.String()}})
	assert.Equal(suite.T(), []string{"Invalid customer ID: abc"}, result.Errors)

	result = suite.service.CreateOrder(suite.ctx, CreateOrderInput{CustomerID: suite.customer.ID.String(), ProductIDs: []string{"xyz"}})
	assert.Equal(suite.T(), []string{"Invalid product ID: xyz"}, result.Errors)

	id := suite.laptop.ID.String()
	result = suite.service.CreateOrder(suite.ctx, CreateOrderInput{CustomerID: suite.customer.ID.String(), ProductIDs: []string{id, id}})
	assert.Equal(suite.T(), []string{"Duplicate product ID: " + id}, result.Errors)
	assert.Equal(suite.T(), 0, suite.store.commits+suite.store.rollbacks)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_ItemInsertFailureRollsBack() {
	suite.store.customers.On("GetByID", mock.Anything, suite.customer.ID).Return(suite.customer, nil).Once()
	suite.store.products.On("LockByID", mock.Anything, suite.mouse.ID).Return(suite.mouse, nil).Once()
	suite.store.orders.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	suite.store.orderItems.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection lost")).Once()

	result := suite.service.CreateOrder(suite.ctx, CreateOrderInput{
		CustomerID: suite.customer.ID.String(),
		ProductIDs: []string{suite.mouse.ID.String()},
	})

	assert.False(suite.T(), result.Success)
	assert.Equal(suite.T(), "Failed to create order", result.Message)
	assert.Equal(suite.T(), 1, suite.store.rollbacks)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_TotalOverflowIsFieldError() {
	pricey := &models.Product{ID: uuid.New(), Name: "Server", Price: decimal.RequireFromString("99999999.99"), Stock: 5}
	other := &models.Product{ID: uuid.New(), Name: "Rack", Price: decimal.RequireFromString("99999999.99"), Stock: 5}

	suite.store.customers.On("GetByID", mock.Anything, suite.customer.ID).Return(suite.customer, nil).Once()
	suite.store.products.On("LockByID", mock.Anything, pricey.ID).Return(pricey, nil).Once()
	suite.store.products.On("LockByID", mock.Anything, other.ID).Return(other, nil).Once()
	suite.store.orders.On("Create", mock.Anything, mock.Anything).
		Return(fmt.Errorf("insert order: %w", &pgconn.PgError{Code: "22003", Message: "numeric field overflow"})).Once()

	result := suite.service.CreateOrder(suite.ctx, CreateOrderInput{
		CustomerID: suite.customer.ID.String(),
		ProductIDs: []string{pricey.ID.String(), other.ID.String()},
	})

	assert.False(suite.T(), result.Success)
	assert.Equal(suite.T(), "Validation failed", result.Message)
	assert.Equal(suite.T(), []string{"total_amount: Ensure that there are no more than 8 digits before the decimal point."}, result.Errors)
	assert.Equal(suite.T(), 1, suite.store.rollbacks)
	assert.Equal(suite.T(), 0, suite.store.commits)
}

func (suite *OrderServiceTestSuite) TestPendingOrdersSince_AttachesItems() {
	since := suite.now.AddDate(0, 0, -7)
	order := &models.Order{ID: uuid.New(), Status: models.OrderStatusPending, Customer: suite.customer}
	item := models.OrderItem{ID: uuid.New(), OrderID: order.ID, ProductID: suite.mouse.ID, Quantity: 1, Price: suite.mouse.Price, Product: suite.mouse}

	suite.store.orders.On("List", mock.Anything, mock.MatchedBy(func(f *models.OrderSearchFilter) bool {
		return f.Status != nil && *f.Status == models.OrderStatusPending && f.OrderDateGte != nil && f.OrderDateGte.Lower().Equal(since)
	}), models.ListOptions{OrderBy: []string{"order_date"}, First: models.MaxPageSize}).
		Return([]*models.Order{order}, 1, nil).Once()
	suite.store.orderItems.On("ListByOrderIDs", mock.Anything, []uuid.UUID{order.ID}).
		Return(map[uuid.UUID][]models.OrderItem{order.ID: {item}}, nil).Once()

	orders, err := suite.service.PendingOrdersSince(suite.ctx, since)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), orders, 1)
	require.Len(suite.T(), orders[0].Products, 1)
	assert.Equal(suite.T(), "Mouse", orders[0].Products[0].Name)
}

func (suite *OrderServiceTestSuite) TestGetOrder_NotFound() {
	id := uuid.New()
	suite.store.orders.On("GetByID", mock.Anything, id).Return(nil, models.ErrOrderNotFound).Once()

	_, err := suite.service.GetOrder(suite.ctx, id)
	assert.ErrorIs(suite.T(), err, models.ErrOrderNotFound)
}
