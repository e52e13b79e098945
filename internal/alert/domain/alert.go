package domain

import "time"

// Alert types
const (
	TypeLowStock          = "LOW_STOCK"
	TypeOutOfStock        = "OUT_OF_STOCK"
	TypeExpiryApproaching = "EXPIRY_APPROACHING"
	TypeExpired           = "EXPIRED"
)

// Alert statuses
const (
	StatusActive   = "ACTIVE"
	StatusResolved = "RESOLVED"
	StatusIgnored  = "IGNORED"
)

// SystemResolver marks alerts auto-resolved by the engine when their
// triggering condition clears.
const SystemResolver = "system"

// Alert is one occurrence of a threshold or expiry condition on an
// item. At most one ACTIVE alert of a given type exists per item;
// RESOLVED and IGNORED are terminal for the occurrence.
type Alert struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	ItemID     uint       `json:"item_id" gorm:"not null;index"`
	AlertType  string     `json:"alert_type" gorm:"not null;index"`
	Status     string     `json:"status" gorm:"not null;index;default:'ACTIVE'"`
	Message    string     `json:"message"`
	ResolvedBy string     `json:"resolved_by,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TableName specifies the table name
func (Alert) TableName() string {
	return "stock_alerts"
}

// ValidType reports whether t is a known alert type.
func ValidType(t string) bool {
	switch t {
	case TypeLowStock, TypeOutOfStock, TypeExpiryApproaching, TypeExpired:
		return true
	}
	return false
}

// Filter narrows alert listings.
type Filter struct {
	ItemID uint
	Type   string
	Status string
	Limit  int
	Offset int
}

// AlertRepository defines the contract for alert data access.
type AlertRepository interface {
	Create(alert *Alert) error
	FindByID(id uint) (*Alert, error)
	FindAll(filter Filter) ([]Alert, error)
	FindActive(itemID uint, alertType string) (*Alert, error)
	CountActive() (int64, error)
	Update(alert *Alert) error
}
