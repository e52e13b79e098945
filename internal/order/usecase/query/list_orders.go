package query

import (
	"context"
	"fmt"

	"github.com/tair/smart-inventory/internal/order/domain"
	"github.com/tair/smart-inventory/pkg/apperr"
)

// ListOrdersHandler handles order listing queries.
type ListOrdersHandler struct {
	orders domain.OrderRepository
}

// NewListOrdersHandler creates a new list orders handler.
func NewListOrdersHandler(orders domain.OrderRepository) *ListOrdersHandler {
	return &ListOrdersHandler{orders: orders}
}

// Handle returns orders matching the filter.
func (h *ListOrdersHandler) Handle(ctx context.Context, filter domain.Filter) ([]domain.Order, error) {
	if filter.Type != "" && !domain.ValidType(filter.Type) {
		return nil, fmt.Errorf("%w: unknown order type %q", apperr.ErrInvalidArgument, filter.Type)
	}
	if filter.Status != "" {
		switch filter.Status {
		case domain.StatusPending, domain.StatusProcessing, domain.StatusCompleted, domain.StatusCancelled:
		default:
			return nil, fmt.Errorf("%w: unknown order status %q", apperr.ErrInvalidArgument, filter.Status)
		}
	}
	return h.orders.FindAll(filter)
}
