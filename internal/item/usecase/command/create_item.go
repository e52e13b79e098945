package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	catdomain "github.com/tair/smart-inventory/internal/category/domain"
	"github.com/tair/smart-inventory/internal/item/domain"
	txdomain "github.com/tair/smart-inventory/internal/transaction/domain"
	"github.com/tair/smart-inventory/pkg/apperr"
)

// CreateItemCommand represents the command to register a new item.
type CreateItemCommand struct {
	Name         string
	Description  string
	SKU          string
	CategoryID   *uint
	InitialStock int
	MinimumStock int
	CostPrice    float64
	SellingPrice float64
	Location     string
	Supplier     string
	ExpiryDate   *time.Time
	ImageURL     string
	ActorID      uint
}

// CreateItemHandler handles item registration.
type CreateItemHandler struct {
	items      domain.ItemRepository
	categories catdomain.CategoryRepository
}

// NewCreateItemHandler creates a new create item handler.
func NewCreateItemHandler(items domain.ItemRepository, categories catdomain.CategoryRepository) *CreateItemHandler {
	return &CreateItemHandler{items: items, categories: categories}
}

// Handle executes the create item command. Initial stock is recorded
// through the ledger so the stock invariant holds from the first row.
func (h *CreateItemHandler) Handle(ctx context.Context, cmd CreateItemCommand) (*domain.Item, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("%w: name is required", apperr.ErrInvalidArgument)
	}
	if domain.NormalizeSKU(cmd.SKU) == "" {
		return nil, fmt.Errorf("%w: sku is required", apperr.ErrInvalidArgument)
	}
	if cmd.InitialStock < 0 {
		return nil, fmt.Errorf("%w: initial stock cannot be negative", apperr.ErrInvalidArgument)
	}
	if cmd.MinimumStock < 0 {
		return nil, fmt.Errorf("%w: minimum stock cannot be negative", apperr.ErrInvalidArgument)
	}
	if cmd.CostPrice < 0 || cmd.SellingPrice < 0 {
		return nil, fmt.Errorf("%w: prices cannot be negative", apperr.ErrInvalidArgument)
	}

	if existing, err := h.items.FindBySKU(cmd.SKU); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: sku %s is already in use", apperr.ErrInvalidArgument, existing.SKU)
	} else if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	if cmd.CategoryID != nil {
		if _, err := h.categories.FindByID(*cmd.CategoryID); err != nil {
			return nil, err
		}
	}

	item := &domain.Item{
		Name:         cmd.Name,
		Description:  cmd.Description,
		SKU:          domain.NormalizeSKU(cmd.SKU),
		CategoryID:   cmd.CategoryID,
		CurrentStock: 0,
		MinimumStock: cmd.MinimumStock,
		CostPrice:    cmd.CostPrice,
		SellingPrice: cmd.SellingPrice,
		Location:     cmd.Location,
		Supplier:     cmd.Supplier,
		ExpiryDate:   cmd.ExpiryDate,
		ImageURL:     cmd.ImageURL,
		Active:       true,
		CreatedBy:    cmd.ActorID,
	}
	if err := h.items.Create(item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	if cmd.InitialStock > 0 {
		adjusted, _, err := h.items.AdjustStock(ctx, domain.StockAdjustment{
			ItemID:  item.ID,
			Delta:   cmd.InitialStock,
			Type:    txdomain.TypeStockIn,
			Reason:  "Initial stock",
			ActorID: cmd.ActorID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to record initial stock: %w", err)
		}
		item = adjusted
	}

	return item, nil
}
