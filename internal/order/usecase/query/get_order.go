package query

import (
	"context"

	"github.com/tair/smart-inventory/internal/order/domain"
)

// GetOrderHandler handles single-order lookups.
type GetOrderHandler struct {
	orders domain.OrderRepository
}

// NewGetOrderHandler creates a new get order handler.
func NewGetOrderHandler(orders domain.OrderRepository) *GetOrderHandler {
	return &GetOrderHandler{orders: orders}
}

// Handle looks up an order by id.
func (h *GetOrderHandler) Handle(ctx context.Context, id uint) (*domain.Order, error) {
	return h.orders.FindByID(id)
}

// HandleByNumber looks up an order by its order number.
func (h *GetOrderHandler) HandleByNumber(ctx context.Context, number string) (*domain.Order, error) {
	return h.orders.FindByNumber(number)
}
