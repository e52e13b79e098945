package query

import (
	"context"
	"time"

	"github.com/tair/smart-inventory/internal/item/domain"
)

// defaultExpiryWindowDays matches the alert engine's lookahead.
const defaultExpiryWindowDays = 30

// ListItemsHandler handles item listing queries.
type ListItemsHandler struct {
	items domain.ItemRepository
}

// NewListItemsHandler creates a new list items handler.
func NewListItemsHandler(items domain.ItemRepository) *ListItemsHandler {
	return &ListItemsHandler{items: items}
}

// Handle returns items matching the filter.
func (h *ListItemsHandler) Handle(ctx context.Context, filter domain.ListFilter) ([]domain.Item, error) {
	return h.items.FindAll(filter)
}

// HandleLowStock returns active items at or below their minimum.
func (h *ListItemsHandler) HandleLowStock(ctx context.Context) ([]domain.Item, error) {
	return h.items.FindLowStock()
}

// HandleExpiring returns active items whose expiry date falls within
// the given number of days from now.
func (h *ListItemsHandler) HandleExpiring(ctx context.Context, days int) ([]domain.Item, error) {
	if days <= 0 {
		days = defaultExpiryWindowDays
	}
	cutoff := time.Now().AddDate(0, 0, days)
	return h.items.FindExpiringBefore(cutoff)
}
