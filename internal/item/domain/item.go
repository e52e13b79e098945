package domain

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	txdomain "github.com/tair/smart-inventory/internal/transaction/domain"
)

// Item represents a stock-keeping unit. CurrentStock is a materialized
// value derived from the transaction ledger; it is mutated only through
// the repository's adjustment path, never directly.
type Item struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Name         string         `json:"name" gorm:"not null;index"`
	Description  string         `json:"description"`
	SKU          string         `json:"sku" gorm:"uniqueIndex;not null"`
	CategoryID   *uint          `json:"category_id,omitempty" gorm:"index"`
	CurrentStock int            `json:"current_stock" gorm:"not null;default:0"`
	MinimumStock int            `json:"minimum_stock" gorm:"not null;default:0"`
	CostPrice    float64        `json:"cost_price" gorm:"not null"`
	SellingPrice float64        `json:"selling_price" gorm:"not null"`
	Location     string         `json:"location"`
	Supplier     string         `json:"supplier"`
	ExpiryDate   *time.Time     `json:"expiry_date,omitempty"`
	ImageURL     string         `json:"image_url"`
	Active       bool           `json:"active" gorm:"default:true"`
	CreatedBy    uint           `json:"created_by"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Item) TableName() string {
	return "items"
}

// NormalizeSKU canonicalizes a SKU. SKUs are unique case-insensitively,
// so they are stored upper-cased.
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

// ListFilter narrows item listings.
type ListFilter struct {
	CategoryID uint
	Name       string
	ActiveOnly bool
	Limit      int
	Offset     int
}

// StockAdjustment describes one requested stock mutation.
type StockAdjustment struct {
	ItemID  uint
	Delta   int // signed: positive = stock in, negative = stock out
	Type    string
	Reason  string
	ActorID uint
	OrderID *uint
}

// ItemRepository defines the contract for item data access. AdjustStock
// and AdjustStockBatch serialize mutations per item, append the ledger
// entry and update the materialized stock atomically, and never leave a
// partial effect behind.
type ItemRepository interface {
	Create(item *Item) error
	FindByID(id uint) (*Item, error)
	FindBySKU(sku string) (*Item, error)
	FindAll(filter ListFilter) ([]Item, error)
	FindLowStock() ([]Item, error)
	FindExpiringBefore(date time.Time) ([]Item, error)
	CountByCategory(categoryID uint) (int64, error)
	Update(item *Item) error
	Deactivate(id uint) error

	AdjustStock(ctx context.Context, adj StockAdjustment) (*Item, *txdomain.Transaction, error)
	AdjustStockBatch(ctx context.Context, adjs []StockAdjustment) ([]Item, error)
}
