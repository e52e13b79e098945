package query

import (
	"context"

	"github.com/tair/smart-inventory/internal/item/domain"
)

// GetItemHandler handles single-item lookups.
type GetItemHandler struct {
	items domain.ItemRepository
}

// NewGetItemHandler creates a new get item handler.
func NewGetItemHandler(items domain.ItemRepository) *GetItemHandler {
	return &GetItemHandler{items: items}
}

// Handle looks up an item by id.
func (h *GetItemHandler) Handle(ctx context.Context, id uint) (*domain.Item, error) {
	return h.items.FindByID(id)
}

// HandleBySKU looks up an item by its normalized SKU.
func (h *GetItemHandler) HandleBySKU(ctx context.Context, sku string) (*domain.Item, error) {
	return h.items.FindBySKU(sku)
}
