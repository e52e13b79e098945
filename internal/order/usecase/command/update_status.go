package command

import (
	"context"
	"fmt"

	"github.com/tair/smart-inventory/internal/alert/engine"
	itemdomain "github.com/tair/smart-inventory/internal/item/domain"
	"github.com/tair/smart-inventory/internal/order/domain"
	"github.com/tair/smart-inventory/kafka"
	"github.com/tair/smart-inventory/pkg/apperr"
	"github.com/tair/smart-inventory/pkg/logger"
)

// UpdateStatusCommand moves an order through its lifecycle.
type UpdateStatusCommand struct {
	OrderID uint
	Status  string
	ActorID uint
}

// UpdateStatusHandler handles order status transitions. The COMPLETED
// transition is the only one that touches stock; cancellation never
// reverts anything because nothing was applied before completion.
type UpdateStatusHandler struct {
	orders    domain.OrderRepository
	items     itemdomain.ItemRepository
	engine    *engine.Engine
	publisher *kafka.Publisher
}

// NewUpdateStatusHandler creates a new update status handler.
func NewUpdateStatusHandler(orders domain.OrderRepository, items itemdomain.ItemRepository, eng *engine.Engine, publisher *kafka.Publisher) *UpdateStatusHandler {
	return &UpdateStatusHandler{orders: orders, items: items, engine: eng, publisher: publisher}
}

// Handle executes the transition.
func (h *UpdateStatusHandler) Handle(ctx context.Context, cmd UpdateStatusCommand) (*domain.Order, error) {
	switch cmd.Status {
	case domain.StatusProcessing, domain.StatusCompleted, domain.StatusCancelled:
	default:
		return nil, fmt.Errorf("%w: unknown order status %q", apperr.ErrInvalidArgument, cmd.Status)
	}

	order, err := h.orders.FindByID(cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status == domain.StatusCompleted || order.Status == domain.StatusCancelled {
		return nil, fmt.Errorf("%w: order %s is %s", apperr.ErrInvalidState, order.OrderNumber, order.Status)
	}
	if !domain.CanTransition(order.Status, cmd.Status) {
		return nil, fmt.Errorf("%w: order %s cannot move from %s to %s",
			apperr.ErrInvalidTransition, order.OrderNumber, order.Status, cmd.Status)
	}

	if cmd.Status != domain.StatusCompleted {
		if err := h.orders.UpdateStatus(order.ID, order.Status, cmd.Status); err != nil {
			return nil, err
		}
		order.Status = cmd.Status
		return order, nil
	}

	completed, records, err := h.orders.Complete(ctx, order.ID, cmd.ActorID)
	if err != nil {
		return nil, err
	}

	// Post-commit fanout. Failures here never undo the fulfillment:
	// events are warn-logged and alert state is repaired by the sweep.
	for _, record := range records {
		item, err := h.items.FindByID(record.ItemID)
		if err != nil {
			logger.Warn(ctx).Err(err).Uint("item_id", record.ItemID).Msg("Failed to load item for stock event")
			continue
		}
		if err := h.publisher.PublishStockAdjusted(ctx, kafka.StockAdjustedEvent{
			ItemID:         item.ID,
			SKU:            item.SKU,
			Delta:          record.Quantity,
			ResultingStock: item.CurrentStock,
			TransactionID:  record.ID,
			OrderID:        record.OrderID,
			ActorID:        cmd.ActorID,
		}); err != nil {
			logger.Warn(ctx).Err(err).Uint("item_id", item.ID).Msg("Failed to publish stock event")
		}
		if _, err := h.engine.EvaluateItem(ctx, item.ID); err != nil {
			logger.Error(ctx).Err(err).Uint("item_id", item.ID).Msg("Post-fulfillment alert evaluation failed")
		}
	}

	return completed, nil
}
