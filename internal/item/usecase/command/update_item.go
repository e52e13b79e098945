package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tair/smart-inventory/internal/alert/engine"
	catdomain "github.com/tair/smart-inventory/internal/category/domain"
	"github.com/tair/smart-inventory/internal/item/domain"
	"github.com/tair/smart-inventory/pkg/apperr"
	"github.com/tair/smart-inventory/pkg/logger"
)

// UpdateItemCommand carries the editable item fields. Stock is absent
// on purpose: the counter only moves through ledger adjustments.
type UpdateItemCommand struct {
	ID           uint
	Name         string
	Description  string
	SKU          string
	CategoryID   *uint
	MinimumStock int
	CostPrice    float64
	SellingPrice float64
	Location     string
	Supplier     string
	ExpiryDate   *time.Time
	ImageURL     string
}

// UpdateItemHandler handles item metadata updates.
type UpdateItemHandler struct {
	items      domain.ItemRepository
	categories catdomain.CategoryRepository
	engine     *engine.Engine
}

// NewUpdateItemHandler creates a new update item handler.
func NewUpdateItemHandler(items domain.ItemRepository, categories catdomain.CategoryRepository, eng *engine.Engine) *UpdateItemHandler {
	return &UpdateItemHandler{items: items, categories: categories, engine: eng}
}

// Handle executes the update item command. Threshold and expiry edits
// change alert conditions, so the item is re-evaluated afterwards.
func (h *UpdateItemHandler) Handle(ctx context.Context, cmd UpdateItemCommand) (*domain.Item, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("%w: name is required", apperr.ErrInvalidArgument)
	}
	if domain.NormalizeSKU(cmd.SKU) == "" {
		return nil, fmt.Errorf("%w: sku is required", apperr.ErrInvalidArgument)
	}
	if cmd.MinimumStock < 0 {
		return nil, fmt.Errorf("%w: minimum stock cannot be negative", apperr.ErrInvalidArgument)
	}
	if cmd.CostPrice < 0 || cmd.SellingPrice < 0 {
		return nil, fmt.Errorf("%w: prices cannot be negative", apperr.ErrInvalidArgument)
	}

	item, err := h.items.FindByID(cmd.ID)
	if err != nil {
		return nil, err
	}

	if sku := domain.NormalizeSKU(cmd.SKU); sku != item.SKU {
		if existing, err := h.items.FindBySKU(sku); err == nil && existing != nil {
			return nil, fmt.Errorf("%w: sku %s is already in use", apperr.ErrInvalidArgument, sku)
		} else if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		item.SKU = sku
	}

	if cmd.CategoryID != nil {
		if _, err := h.categories.FindByID(*cmd.CategoryID); err != nil {
			return nil, err
		}
	}

	item.Name = cmd.Name
	item.Description = cmd.Description
	item.CategoryID = cmd.CategoryID
	item.MinimumStock = cmd.MinimumStock
	item.CostPrice = cmd.CostPrice
	item.SellingPrice = cmd.SellingPrice
	item.Location = cmd.Location
	item.Supplier = cmd.Supplier
	item.ExpiryDate = cmd.ExpiryDate
	item.ImageURL = cmd.ImageURL

	if err := h.items.Update(item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	if _, err := h.engine.EvaluateItem(ctx, item.ID); err != nil {
		logger.Error(ctx).Err(err).Uint("item_id", item.ID).Msg("Post-update alert evaluation failed")
	}

	return item, nil
}
