package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"crmhub/internal/models"
	"crmhub/internal/repositories"
	"crmhub/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	zlog "github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const helloMessage = "Hello, GraphQL!"

// operation resolves one named query or mutation from its raw variables.
type operation func(ctx context.Context, vars json.RawMessage) (interface{}, error)

// OperationRequest is the body accepted by the operation endpoint.
type OperationRequest struct {
	OperationName string          `json:"operationName"`
	Operation     string          `json:"operation"`
	Variables     json.RawMessage `json:"variables"`
}

type operationError struct {
	Message string `json:"message"`
}

// OperationResponse carries either data keyed by operation name or errors.
type OperationResponse struct {
	Data   map[string]interface{} `json:"data,omitempty"`
	Errors []operationError       `json:"errors,omitempty"`
}

// requestError marks problems with the request itself rather than storage.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

// OperationHandlers dispatches named queries and mutations to the services
type OperationHandlers struct {
	customerService services.CustomerService
	productService  services.ProductService
	orderService    services.OrderServiceInterface
	operations      map[string]operation
	now             func() time.Time
}

// NewOperationHandlers creates the handler and registers every operation
func NewOperationHandlers(customerService services.CustomerService, productService services.ProductService, orderService services.OrderServiceInterface) *OperationHandlers {
	h := &OperationHandlers{
		customerService: customerService,
		productService:  productService,
		orderService:    orderService,
		now:             time.Now,
	}
	h.operations = map[string]operation{
		// queries
		"hello":         h.hello,
		"customer":      h.customer,
		"product":       h.product,
		"order":         h.order,
		"allCustomers":  h.allCustomers,
		"allProducts":   h.allProducts,
		"allOrders":     h.allOrders,
		"pendingOrders": h.pendingOrders,
		"orders":        h.ordersWhere,
		// mutations
		"createCustomer":         h.createCustomer,
		"bulkCreateCustomers":    h.bulkCreateCustomers,
		"createProduct":          h.createProduct,
		"createOrder":            h.createOrder,
		"updateLowStockProducts": h.updateLowStockProducts,
	}
	return h
}

// Operations lists the registered operation names.
func (h *OperationHandlers) Operations() []string {
	names := make([]string, 0, len(h.operations))
	for name := range h.operations {
		names = append(names, name)
	}
	return names
}

// Execute handles POST /graphql
func (h *OperationHandlers) Execute(c echo.Context) error {
	var req OperationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
	}

	name := strings.TrimSpace(req.OperationName)
	if name == "" {
		name = strings.TrimSpace(req.Operation)
	}
	if name == "" {
		return c.JSON(http.StatusBadRequest, errorResponse("operationName is required"))
	}

	op, ok := h.operations[name]
	if !ok {
		return c.JSON(http.StatusBadRequest, errorResponse(fmt.Sprintf("Unknown operation: %s", name)))
	}

	result, err := op(c.Request().Context(), req.Variables)
	if err != nil {
		var reqErr *requestError
		var orderErr *repositories.InvalidOrderByError
		switch {
		case errors.As(err, &reqErr), errors.As(err, &orderErr):
			return c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		default:
			zlog.Error().Err(err).Str("operation", name).Msg("operation failed")
			return c.JSON(http.StatusInternalServerError, errorResponse("Internal server error"))
		}
	}

	return c.JSON(http.StatusOK, OperationResponse{Data: map[string]interface{}{name: result}})
}

func errorResponse(msg string) OperationResponse {
	return OperationResponse{Errors: []operationError{{Message: msg}}}
}

// decodeVars unmarshals variables into dst; absent variables leave dst zero.
func decodeVars(vars json.RawMessage, dst interface{}) error {
	if len(vars) == 0 || string(vars) == "null" {
		return nil
	}
	if err := json.Unmarshal(vars, dst); err != nil {
		return &requestError{msg: fmt.Sprintf("Invalid variables: %v", err)}
	}
	return nil
}

type idVars struct {
	ID string `json:"id"`
}

// lookupID parses the id variable. ok is false when the id cannot name any
// entity, which callers report as not found.
func lookupID(vars json.RawMessage) (uuid.UUID, bool, error) {
	var v idVars
	if err := decodeVars(vars, &v); err != nil {
		return uuid.Nil, false, err
	}
	id, err := uuid.Parse(strings.TrimSpace(v.ID))
	if err != nil {
		return uuid.Nil, false, nil
	}
	return id, true, nil
}

type listVars[F any] struct {
	Filter  *F       `json:"filter"`
	OrderBy []string `json:"orderBy"`
	First   int      `json:"first"`
	Offset  int      `json:"offset"`
}

func (v listVars[F]) options() models.ListOptions {
	return models.ListOptions{OrderBy: v.OrderBy, First: v.First, Offset: v.Offset}
}

func (h *OperationHandlers) hello(_ context.Context, _ json.RawMessage) (interface{}, error) {
	return helloMessage, nil
}

func (h *OperationHandlers) customer(ctx context.Context, vars json.RawMessage) (interface{}, error) {
	id, ok, err := lookupID(vars)
	if err != nil || !ok {
		return nil, err
	}
	customer, err := h.customerService.GetCustomer(ctx, id)
	if errors.Is(err, models.ErrCustomerNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toCustomerDTO(customer), nil
}

func (h *OperationHandlers) product(ctx context.Context, vars json.RawMessage) (interface{}, error) {
	id, ok, err := lookupID(vars)
	if err != nil || !ok {
		return nil, err
	}
	product, err := h.productService.GetProduct(ctx, id)
	if errors.Is(err, models.ErrProductNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toProductDTO(product), nil
}

func (h *OperationHandlers) order(ctx context.Context, vars json.RawMessage) (interface{}, error) {
	id, ok, err := lookupID(vars)
	if err != nil || !ok {
		return nil, err
	}
	order, err := h.orderService.GetOrder(ctx, id)
	if errors.Is(err, models.ErrOrderNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toOrderDTO(order), nil
}

func (h *OperationHandlers) allCustomers(ctx context.Context, vars json.RawMessage) (interface{}, error) {
	var v listVars[models.CustomerSearchFilter]
	if err := decodeVars(vars, &v); err != nil {
		return nil, err
	}
	customers, total, err := h.customerService.ListCustomers(ctx, v.Filter, v.options())
	if err != nil {
		return nil, err
	}
	return newConnection(customers, total, func(c *models.Customer) CustomerDTO { return *toCustomerDTO(c) }), nil
}

func (h *OperationHandlers) allProducts(ctx context.Context, vars json.RawMessage) (interface{}, error) {
	var v listVars[models.ProductSearchFilter]
	if err := decodeVars(vars, &v); err != nil {
		return nil, err
	}
	products, total, err := h.productService.ListProducts(ctx, v.Filter, v.options())
	if err != nil {
		return nil, err
	}
	return newConnection(products, total, func(p *models.Product) ProductDTO { return *toProductDTO(p) }), nil
}

func (h *OperationHandlers) allOrders(ctx context.Context, vars json.RawMessage) (interface{}, error) {
	var v listVars[models.OrderSearchFilter]
	if err := decodeVars(vars, &v); err != nil {
		return nil, err
	}
	orders, total, err := h.orderService.ListOrders(ctx, v.Filter, v.options())
	if err != nil {
		return nil, err
	}
	return newConnection(orders, total, func(o *models.Order) OrderDTO { return *toOrderDTO(o) }), nil
}

type pendingOrdersVars struct {
	SinceDate string `json:"sinceDate"`
}

// pendingOrders returns pending orders placed on or after sinceDate,
// defaulting to the last 7 days.
func (h *OperationHandlers) pendingOrders(ctx context.Context, vars json.RawMessage) (interface{}, error) {
	var v pendingOrdersVars
	if err := decodeVars(vars, &v); err != nil {
		return nil, err
	}
	since := h.now().AddDate(0, 0, -7)
	if v.SinceDate != "" {
		bound, err := models.ParseDateBound(v.SinceDate)
		if err != nil {
			return nil, &requestError{msg: err.Error()}
		}
		since = bound.Lower()
	}

	orders, err := h.orderService.PendingOrdersSince(ctx, since)
	if err != nil {
		return nil, err
	}
	return toOrderDTOs(orders), nil
}

type ordersWhereVars struct {
	Where struct {
		OrderDateGte *models.DateBound `json:"orderDate_gte"`
		Status       *string           `json:"status"`
	} `json:"where"`
}

// ordersWhere is the flat "orders(where: ...)" query shape.
func (h *OperationHandlers) ordersWhere(ctx context.Context, vars json.RawMessage) (interface{}, error) {
	var v ordersWhereVars
	if err := decodeVars(vars, &v); err != nil {
		return nil, err
	}
	filter := &models.OrderSearchFilter{
		OrderDateGte: v.Where.OrderDateGte,
		Status:       v.Where.Status,
	}
	orders, _, err := h.orderService.ListOrders(ctx, filter, models.ListOptions{
		OrderBy: []string{"order_date"},
		First:   models.MaxPageSize,
	})
	if err != nil {
		return nil, err
	}
	return toOrderDTOs(orders), nil
}

func toOrderDTOs(orders []*models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, *toOrderDTO(o))
	}
	return out
}

type customerInput struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}

func (in customerInput) toService() services.CreateCustomerInput {
	return services.CreateCustomerInput{Name: in.Name, Email: in.Email, Phone: in.Phone}
}

func (h *OperationHandlers) createCustomer(ctx context.Context, vars json.RawMessage) (interface{}, error) {
	var v struct {
		Input customerInput `json:"input"`
	}
	if err := decodeVars(vars, &v); err != nil {
		return nil, err
	}
	result := h.customerService.CreateCustomer(ctx, v.Input.toService())
	return CustomerPayload{envelopeDTO: toEnvelopeDTO(result.Envelope), Customer: toCustomerDTO(result.Customer)}, nil
}

func (h *OperationHandlers) bulkCreateCustomers(ctx context.Context, vars json.RawMessage) (interface{}, error) {
	var v struct {
		Input []customerInput `json:"input"`
	}
	if err := decodeVars(vars, &v); err != nil {
		return nil, err
	}
	inputs := make([]services.CreateCustomerInput, 0, len(v.Input))
	for _, in := range v.Input {
		inputs = append(inputs, in.toService())
	}

	result := h.customerService.BulkCreateCustomers(ctx, inputs)
	payload := BulkCustomersPayload{envelopeDTO: toEnvelopeDTO(result.Envelope), Customers: make([]CustomerDTO, 0, len(result.Customers))}
	for _, c := range result.Customers {
		payload.Customers = append(payload.Customers, *toCustomerDTO(c))
	}
	return payload, nil
}

func (h *OperationHandlers) createProduct(ctx context.Context, vars json.RawMessage) (interface{}, error) {
	var v struct {
		Input struct {
			Name  string          `json:"name"`
			Price decimal.Decimal `json:"price"`
			Stock *int            `json:"stock"`
		} `json:"input"`
	}
	if err := decodeVars(vars, &v); err != nil {
		return nil, err
	}
	result := h.productService.CreateProduct(ctx, services.CreateProductInput{
		Name:  v.Input.Name,
		Price: v.Input.Price,
		Stock: v.Input.Stock,
	})
	return ProductPayload{envelopeDTO: toEnvelopeDTO(result.Envelope), Product: toProductDTO(result.Product)}, nil
}

func (h *OperationHandlers) createOrder(ctx context.Context, vars json.RawMessage) (interface{}, error) {
	var v struct {
		Input struct {
			CustomerID string            `json:"customerId"`
			ProductIDs []string          `json:"productIds"`
			OrderDate  *models.DateBound `json:"orderDate"`
		} `json:"input"`
	}
	if err := decodeVars(vars, &v); err != nil {
		return nil, err
	}

	input := services.CreateOrderInput{CustomerID: v.Input.CustomerID, ProductIDs: v.Input.ProductIDs}
	if v.Input.OrderDate != nil {
		orderDate := v.Input.OrderDate.Lower()
		input.OrderDate = &orderDate
	}

	result := h.orderService.CreateOrder(ctx, input)
	return OrderPayload{envelopeDTO: toEnvelopeDTO(result.Envelope), Order: toOrderDTO(result.Order)}, nil
}

func (h *OperationHandlers) updateLowStockProducts(ctx context.Context, _ json.RawMessage) (interface{}, error) {
	result := h.productService.UpdateLowStockProducts(ctx)
	return LowStockPayload{envelopeDTO: toEnvelopeDTO(result.Envelope), UpdatedProducts: toProductDTOs(result.UpdatedProducts)}, nil
}
