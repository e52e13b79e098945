package command

import (
	"context"

	"github.com/tair/smart-inventory/internal/item/domain"
)

// DeactivateItemHandler handles item deactivation.
type DeactivateItemHandler struct {
	items domain.ItemRepository
}

// NewDeactivateItemHandler creates a new deactivate item handler.
func NewDeactivateItemHandler(items domain.ItemRepository) *DeactivateItemHandler {
	return &DeactivateItemHandler{items: items}
}

// Handle soft-disables the item. Its ledger history stays queryable.
func (h *DeactivateItemHandler) Handle(ctx context.Context, id uint) error {
	return h.items.Deactivate(id)
}
