package domain

import (
	"context"
	"time"

	"gorm.io/gorm"

	txdomain "github.com/tair/smart-inventory/internal/transaction/domain"
)

// Order types
const (
	TypePurchase = "PURCHASE" // incoming stock from a supplier
	TypeSale     = "SALE"     // outgoing stock to a customer
)

// Order statuses
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

// Order groups stock movements that must apply together. Stock only
// moves at the COMPLETED transition; PENDING, PROCESSING and CANCELLED
// orders never touch item counters.
type Order struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	OrderNumber string `json:"order_number" gorm:"uniqueIndex;not null"`
	Type        string `json:"type" gorm:"not null;index"`
	Status      string `json:"status" gorm:"not null;index;default:'PENDING'"`
	// Counterparty is the supplier for PURCHASE orders and the
	// customer for SALE orders.
	Counterparty string         `json:"counterparty"`
	Lines        []OrderLine    `json:"lines" gorm:"foreignKey:OrderID"`
	TotalAmount  float64        `json:"total_amount"`
	Notes        string         `json:"notes"`
	CreatedBy    uint           `json:"created_by"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Order) TableName() string {
	return "orders"
}

// OrderLine is one item position of an order.
type OrderLine struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	OrderID   uint    `json:"order_id" gorm:"not null;index"`
	ItemID    uint    `json:"item_id" gorm:"not null;index"`
	Quantity  int     `json:"quantity" gorm:"not null"` // always positive; direction comes from the order type
	UnitPrice float64 `json:"unit_price"`
}

// TableName specifies the table name
func (OrderLine) TableName() string {
	return "order_lines"
}

// ValidType reports whether t is a known order type.
func ValidType(t string) bool {
	return t == TypePurchase || t == TypeSale
}

// CanTransition reports whether an order may move from one status to
// another. COMPLETED and CANCELLED are terminal.
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusProcessing || to == StatusCancelled
	case StatusProcessing:
		return to == StatusCompleted || to == StatusCancelled
	}
	return false
}

// LineTotal returns the monetary amount of one line.
func (l OrderLine) LineTotal() float64 {
	return float64(l.Quantity) * l.UnitPrice
}

// ComputeTotal sums the line totals.
func ComputeTotal(lines []OrderLine) float64 {
	var total float64
	for _, l := range lines {
		total += l.LineTotal()
	}
	return total
}

// Filter narrows order listings.
type Filter struct {
	Type   string
	Status string
	Limit  int
	Offset int
}

// OrderRepository defines the contract for order data access. Complete
// is the only operation that moves stock: it applies every line and the
// status flip atomically.
type OrderRepository interface {
	Create(order *Order) error
	FindByID(id uint) (*Order, error)
	FindByNumber(number string) (*Order, error)
	ExistsByNumber(number string) (bool, error)
	FindAll(filter Filter) ([]Order, error)
	UpdateStatus(id uint, from, to string) error
	Complete(ctx context.Context, id uint, actorID uint) (*Order, []txdomain.Transaction, error)
}
