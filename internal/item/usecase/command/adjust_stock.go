package command

import (
	"context"
	"fmt"

	"github.com/tair/smart-inventory/internal/alert/engine"
	"github.com/tair/smart-inventory/internal/item/domain"
	txdomain "github.com/tair/smart-inventory/internal/transaction/domain"
	"github.com/tair/smart-inventory/kafka"
	"github.com/tair/smart-inventory/pkg/apperr"
	"github.com/tair/smart-inventory/pkg/logger"
)

// AdjustStockCommand represents one manual stock mutation.
type AdjustStockCommand struct {
	ItemID  uint
	Delta   int
	Type    string
	Reason  string
	ActorID uint
	OrderID *uint
}

// AdjustStockHandler is the sole entry point for single-item stock
// mutations: it appends to the ledger, re-evaluates alerts and emits
// the stock event.
type AdjustStockHandler struct {
	items     domain.ItemRepository
	engine    *engine.Engine
	publisher *kafka.Publisher
}

// NewAdjustStockHandler creates a new adjust stock handler.
func NewAdjustStockHandler(items domain.ItemRepository, eng *engine.Engine, publisher *kafka.Publisher) *AdjustStockHandler {
	return &AdjustStockHandler{items: items, engine: eng, publisher: publisher}
}

// Handle executes the adjust stock command.
func (h *AdjustStockHandler) Handle(ctx context.Context, cmd AdjustStockCommand) (*domain.Item, *txdomain.Transaction, error) {
	if cmd.ItemID == 0 {
		return nil, nil, fmt.Errorf("%w: item_id is required", apperr.ErrInvalidArgument)
	}
	if !txdomain.ValidType(cmd.Type) {
		return nil, nil, fmt.Errorf("%w: unknown transaction type %q", apperr.ErrInvalidArgument, cmd.Type)
	}

	item, record, err := h.items.AdjustStock(ctx, domain.StockAdjustment{
		ItemID:  cmd.ItemID,
		Delta:   cmd.Delta,
		Type:    cmd.Type,
		Reason:  cmd.Reason,
		ActorID: cmd.ActorID,
		OrderID: cmd.OrderID,
	})
	if err != nil {
		return nil, nil, err
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

	// The mutation is already committed; an evaluation failure here is
	// repaired by the periodic sweep rather than retried inline.
	if _, err := h.engine.EvaluateItem(ctx, item.ID); err != nil {
		logger.Error(ctx).Err(err).Uint("item_id", item.ID).Msg("Post-adjustment alert evaluation failed")
	}

	return item, record, nil
}
