package kafka

import "time"

// StockAdjustedEvent is emitted after every committed stock mutation.
type StockAdjustedEvent struct {
	EventID        string    `json:"event_id"`
	EventType      string    `json:"event_type"`
	ItemID         uint      `json:"item_id"`
	SKU            string    `json:"sku"`
	Delta          int       `json:"delta"`
	ResultingStock int       `json:"resulting_stock"`
	TransactionID  uint      `json:"transaction_id"`
	OrderID        *uint     `json:"order_id,omitempty"`
	ActorID        uint      `json:"actor_id"`
	Timestamp      time.Time `json:"timestamp"`
}

// StockAlertEvent is emitted when the alert engine raises or
// auto-resolves an alert.
type StockAlertEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	AlertID   uint      `json:"alert_id"`
	ItemID    uint      `json:"item_id"`
	AlertType string    `json:"alert_type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeStockAdjusted = "stock.adjusted"
	EventTypeAlertRaised   = "alert.raised"
	EventTypeAlertResolved = "alert.resolved"
)

// Kafka topics
const (
	TopicStockAdjusted = "stock-adjusted"
	TopicStockAlerts   = "stock-alerts"
)
