package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	itemdomain "github.com/tair/smart-inventory/internal/item/domain"
	"github.com/tair/smart-inventory/internal/order/domain"
	"github.com/tair/smart-inventory/pkg/apperr"
)

// OrderLineInput is one requested item position.
type OrderLineInput struct {
	ItemID    uint
	Quantity  int
	UnitPrice float64
}

// CreateOrderCommand represents the command to open a new order.
type CreateOrderCommand struct {
	OrderNumber  string
	Type         string
	Counterparty string
	Lines        []OrderLineInput
	Notes        string
	ActorID      uint
}

// CreateOrderHandler handles order creation. New orders start PENDING
// and never move stock.
type CreateOrderHandler struct {
	orders domain.OrderRepository
	items  itemdomain.ItemRepository
}

// NewCreateOrderHandler creates a new create order handler.
func NewCreateOrderHandler(orders domain.OrderRepository, items itemdomain.ItemRepository) *CreateOrderHandler {
	return &CreateOrderHandler{orders: orders, items: items}
}

// Handle executes the create order command.
func (h *CreateOrderHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	if !domain.ValidType(cmd.Type) {
		return nil, fmt.Errorf("%w: unknown order type %q", apperr.ErrInvalidArgument, cmd.Type)
	}
	if len(cmd.Lines) == 0 {
		return nil, fmt.Errorf("%w: order must have at least one line", apperr.ErrInvalidArgument)
	}

	seen := make(map[uint]bool, len(cmd.Lines))
	lines := make([]domain.OrderLine, 0, len(cmd.Lines))
	for _, in := range cmd.Lines {
		if in.Quantity <= 0 {
			return nil, fmt.Errorf("%w: line quantity must be positive", apperr.ErrInvalidArgument)
		}
		if in.UnitPrice < 0 {
			return nil, fmt.Errorf("%w: unit price cannot be negative", apperr.ErrInvalidArgument)
		}
		if seen[in.ItemID] {
			return nil, fmt.Errorf("%w: item %d appears on more than one line", apperr.ErrInvalidArgument, in.ItemID)
		}
		seen[in.ItemID] = true

		item, err := h.items.FindByID(in.ItemID)
		if err != nil {
			return nil, err
		}
		if !item.Active {
			return nil, fmt.Errorf("%w: item %s is deactivated", apperr.ErrInvalidState, item.SKU)
		}

		lines = append(lines, domain.OrderLine{
			ItemID:    in.ItemID,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
		})
	}

	number := strings.TrimSpace(cmd.OrderNumber)
	if number == "" {
		number = generateOrderNumber()
	} else {
		exists, err := h.orders.ExistsByNumber(number)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("%w: order number %s is already in use", apperr.ErrInvalidArgument, number)
		}
	}

	order := &domain.Order{
		OrderNumber:  number,
		Type:         cmd.Type,
		Status:       domain.StatusPending,
		Counterparty: strings.TrimSpace(cmd.Counterparty),
		Lines:        lines,
		TotalAmount:  domain.ComputeTotal(lines),
		Notes:        cmd.Notes,
		CreatedBy:    cmd.ActorID,
	}
	if err := h.orders.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return order, nil
}

func generateOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}
