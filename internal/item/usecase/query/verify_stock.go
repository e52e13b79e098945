package query

import (
	"context"
	"fmt"

	"github.com/tair/smart-inventory/internal/item/domain"
	txdomain "github.com/tair/smart-inventory/internal/transaction/domain"
	"github.com/tair/smart-inventory/pkg/apperr"
)

// StockReport compares an item's materialized stock against the ledger.
type StockReport struct {
	ItemID       uint   `json:"item_id"`
	SKU          string `json:"sku"`
	CurrentStock int    `json:"current_stock"`
	LedgerSum    int64  `json:"ledger_sum"`
	Consistent   bool   `json:"consistent"`
}

// VerifyStockHandler replays the ledger for an item and checks that the
// sum of transaction quantities matches the materialized counter.
type VerifyStockHandler struct {
	items  domain.ItemRepository
	ledger txdomain.TransactionRepository
}

// NewVerifyStockHandler creates a new verify stock handler.
func NewVerifyStockHandler(items domain.ItemRepository, ledger txdomain.TransactionRepository) *VerifyStockHandler {
	return &VerifyStockHandler{items: items, ledger: ledger}
}

// Handle verifies one item. A mismatch is reported both in the result
// and as an integrity error so callers can alert on it.
func (h *VerifyStockHandler) Handle(ctx context.Context, itemID uint) (*StockReport, error) {
	item, err := h.items.FindByID(itemID)
	if err != nil {
		return nil, err
	}

	sum, err := h.ledger.SumByItem(itemID)
	if err != nil {
		return nil, err
	}

	report := &StockReport{
		ItemID:       item.ID,
		SKU:          item.SKU,
		CurrentStock: item.CurrentStock,
		LedgerSum:    sum,
		Consistent:   int64(item.CurrentStock) == sum,
	}
	if !report.Consistent {
		return report, fmt.Errorf("%w: item %s stock %d does not match ledger sum %d",
			apperr.ErrIntegrity, item.SKU, item.CurrentStock, sum)
	}
	return report, nil
}
