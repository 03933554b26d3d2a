package handlers

import (
	"time"

	"crmhub/internal/models"
	"crmhub/internal/services"
)

// Response shapes list every exposed field; models are never serialized
// directly.

type CustomerDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

type ProductDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"createdAt"`
}

type OrderItemDTO struct {
	ID       string      `json:"id"`
	Product  *ProductDTO `json:"product"`
	Quantity int         `json:"quantity"`
	Price    string      `json:"price"`
}

type OrderDTO struct {
	ID          string         `json:"id"`
	Customer    *CustomerDTO   `json:"customer"`
	TotalAmount string         `json:"totalAmount"`
	Status      string         `json:"status"`
	OrderDate   time.Time      `json:"orderDate"`
	Products    []ProductDTO   `json:"products"`
	Items       []OrderItemDTO `json:"items"`
}

type Edge[T any] struct {
	Node T `json:"node"`
}

type Connection[T any] struct {
	TotalCount int       `json:"totalCount"`
	Edges      []Edge[T] `json:"edges"`
}

func newConnection[M any, T any](items []M, total int, convert func(M) T) Connection[T] {
	edges := make([]Edge[T], 0, len(items))
	for _, item := range items {
		edges = append(edges, Edge[T]{Node: convert(item)})
	}
	return Connection[T]{TotalCount: total, Edges: edges}
}

type envelopeDTO struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

type CustomerPayload struct {
	envelopeDTO
	Customer *CustomerDTO `json:"customer"`
}

type BulkCustomersPayload struct {
	envelopeDTO
	Customers []CustomerDTO `json:"customers"`
}

type ProductPayload struct {
	envelopeDTO
	Product *ProductDTO `json:"product"`
}

type OrderPayload struct {
	envelopeDTO
	Order *OrderDTO `json:"order"`
}

type LowStockPayload struct {
	envelopeDTO
	UpdatedProducts []ProductDTO `json:"updatedProducts"`
}

func toEnvelopeDTO(e services.Envelope) envelopeDTO {
	return envelopeDTO{Success: e.Success, Message: e.Message, Errors: e.Errors}
}

func toCustomerDTO(c *models.Customer) *CustomerDTO {
	if c == nil {
		return nil
	}
	return &CustomerDTO{
		ID:        c.ID.String(),
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
}

func toProductDTO(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:        p.ID.String(),
		Name:      p.Name,
		Price:     p.Price.StringFixed(2),
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt,
	}
}

func toProductDTOs(products []*models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, *toProductDTO(p))
	}
	return out
}

func toOrderDTO(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:          o.ID.String(),
		Customer:    toCustomerDTO(o.Customer),
		TotalAmount: o.TotalAmount.StringFixed(2),
		Status:      o.Status,
		OrderDate:   o.OrderDate,
		Products:    toProductDTOs(o.Products),
		Items:       make([]OrderItemDTO, 0, len(o.Items)),
	}
	for _, item := range o.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ID:       item.ID.String(),
			Product:  toProductDTO(item.Product),
			Quantity: item.Quantity,
			Price:    item.Price.StringFixed(2),
		})
	}
	return dto
}
