package domain

import "time"

// Transaction types
const (
	TypeStockIn          = "STOCK_IN"
	TypeStockOut         = "STOCK_OUT"
	TypeAdjustment       = "ADJUSTMENT"
	TypeOrderFulfillment = "ORDER_FULFILLMENT"
)

// Transaction is one immutable entry of the stock ledger. Rows are
// appended inside the same database transaction as the item stock
// update and are never modified or deleted afterwards; an item's
// current stock is always the sum of its transaction quantities.
type Transaction struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ItemID    uint      `json:"item_id" gorm:"not null;index"`
	Quantity  int       `json:"quantity" gorm:"not null"` // signed delta: positive = stock in
	Type      string    `json:"type" gorm:"not null;index"`
	Notes     string    `json:"notes"`
	OrderID   *uint     `json:"order_id,omitempty" gorm:"index"`
	CreatedBy uint      `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name
func (Transaction) TableName() string {
	return "transactions"
}

// ValidType reports whether t is a known transaction type.
func ValidType(t string) bool {
	switch t {
	case TypeStockIn, TypeStockOut, TypeAdjustment, TypeOrderFulfillment:
		return true
	}
	return false
}

// Filter narrows ledger listings.
type Filter struct {
	ItemID uint
	Type   string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// TransactionRepository defines read access to the ledger. The ledger
// is append-only and appends happen through the item store's atomic
// adjustment path, so there is no standalone write method here.
type TransactionRepository interface {
	FindByID(id uint) (*Transaction, error)
	FindAll(filter Filter) ([]Transaction, error)
	FindByItem(itemID uint, limit, offset int) ([]Transaction, error)
	SumByItem(itemID uint) (int64, error)
}
