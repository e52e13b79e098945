package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tair/smart-inventory/internal/alert/domain"
	itemdomain "github.com/tair/smart-inventory/internal/item/domain"
	"github.com/tair/smart-inventory/kafka"
	"github.com/tair/smart-inventory/pkg/apperr"
	"github.com/tair/smart-inventory/pkg/keylock"
	"github.com/tair/smart-inventory/pkg/logger"
)

// Config holds alert evaluation thresholds.
type Config struct {
	// ExpiryLookahead is how far ahead of an item's expiry date the
	// EXPIRY_APPROACHING alert is raised.
	ExpiryLookahead time.Duration
}

// DefaultConfig returns the default evaluation configuration.
func DefaultConfig() Config {
	return Config{ExpiryLookahead: 30 * 24 * time.Hour}
}

const evalLockTimeout = 3 * time.Second

// Engine derives alert state from item state. Evaluation is idempotent:
// re-running it against an unchanged item never creates duplicates, and
// alerts whose condition has cleared auto-resolve with resolver
// "system". The periodic sweep repairs any alert state a failed inline
// evaluation left behind.
type Engine struct {
	alerts    domain.AlertRepository
	items     itemdomain.ItemRepository
	publisher *kafka.Publisher
	cfg       Config
}

// New creates an alert engine.
func New(alerts domain.AlertRepository, items itemdomain.ItemRepository, publisher *kafka.Publisher, cfg Config) *Engine {
	if cfg.ExpiryLookahead <= 0 {
		cfg.ExpiryLookahead = DefaultConfig().ExpiryLookahead
	}
	return &Engine{alerts: alerts, items: items, publisher: publisher, cfg: cfg}
}

func alertKey(itemID uint) string {
	return fmt.Sprintf("alert/%d", itemID)
}

// EvaluateItem re-derives the alert state of one item. It returns the
// number of alerts raised. Evaluation per item is serialized so that
// concurrent post-mutation evaluations cannot produce duplicate ACTIVE
// alerts.
func (e *Engine) EvaluateItem(ctx context.Context, itemID uint) (int, error) {
	lockCtx, cancel := context.WithTimeout(ctx, evalLockTimeout)
	defer cancel()
	release, err := keylock.Acquire(lockCtx, alertKey(itemID))
	if err != nil {
		return 0, fmt.Errorf("%w: alert evaluation for item %d is locked", apperr.ErrConflict, itemID)
	}
	defer release()

	item, err := e.items.FindByID(itemID)
	if err != nil {
		return 0, err
	}

	raised := 0
	now := time.Now()

	// Stock thresholds. OUT_OF_STOCK and LOW_STOCK are mutually
	// exclusive: zero stock supersedes the low-stock condition.
	switch {
	case item.CurrentStock == 0:
		n, err := e.ensure(ctx, item, domain.TypeOutOfStock,
			fmt.Sprintf("Out of stock: %s has no units left", item.Name))
		if err != nil {
			return raised, err
		}
		raised += n
		if err := e.resolve(ctx, item.ID, domain.TypeLowStock); err != nil {
			return raised, err
		}
	case item.CurrentStock <= item.MinimumStock:
		n, err := e.ensure(ctx, item, domain.TypeLowStock,
			fmt.Sprintf("Low stock alert: %s has only %d units left (minimum: %d)",
				item.Name, item.CurrentStock, item.MinimumStock))
		if err != nil {
			return raised, err
		}
		raised += n
		if err := e.resolve(ctx, item.ID, domain.TypeOutOfStock); err != nil {
			return raised, err
		}
	default:
		if err := e.resolve(ctx, item.ID, domain.TypeLowStock); err != nil {
			return raised, err
		}
		if err := e.resolve(ctx, item.ID, domain.TypeOutOfStock); err != nil {
			return raised, err
		}
	}

	// Expiry. EXPIRED supersedes EXPIRY_APPROACHING. Clearing or
	// extending the date past the lookahead window auto-resolves both.
	switch {
	case item.ExpiryDate == nil:
		if err := e.resolve(ctx, item.ID, domain.TypeExpiryApproaching); err != nil {
			return raised, err
		}
		if err := e.resolve(ctx, item.ID, domain.TypeExpired); err != nil {
			return raised, err
		}
	case !item.ExpiryDate.After(now):
		n, err := e.ensure(ctx, item, domain.TypeExpired,
			fmt.Sprintf("Expired: %s expired on %s", item.Name, item.ExpiryDate.Format("2006-01-02")))
		if err != nil {
			return raised, err
		}
		raised += n
		if err := e.resolve(ctx, item.ID, domain.TypeExpiryApproaching); err != nil {
			return raised, err
		}
	case item.ExpiryDate.Before(now.Add(e.cfg.ExpiryLookahead)):
		n, err := e.ensure(ctx, item, domain.TypeExpiryApproaching,
			fmt.Sprintf("Expiry alert: %s will expire on %s", item.Name, item.ExpiryDate.Format("2006-01-02")))
		if err != nil {
			return raised, err
		}
		raised += n
		if err := e.resolve(ctx, item.ID, domain.TypeExpired); err != nil {
			return raised, err
		}
	default:
		if err := e.resolve(ctx, item.ID, domain.TypeExpiryApproaching); err != nil {
			return raised, err
		}
		if err := e.resolve(ctx, item.ID, domain.TypeExpired); err != nil {
			return raised, err
		}
	}

	return raised, nil
}

// Sweep re-evaluates every active item. Items that fail evaluation are
// logged and skipped; the next sweep retries them.
func (e *Engine) Sweep(ctx context.Context) (int, error) {
	items, err := e.items.FindAll(itemdomain.ListFilter{ActiveOnly: true})
	if err != nil {
		return 0, err
	}

	raised := 0
	for _, item := range items {
		n, err := e.EvaluateItem(ctx, item.ID)
		if err != nil {
			logger.Error(ctx).Err(err).Uint("item_id", item.ID).Msg("Alert sweep: item evaluation failed")
			continue
		}
		raised += n
	}
	return raised, nil
}

// ensure guarantees exactly one ACTIVE alert of the given type exists
// for the item. Returns 1 when a new alert was raised, 0 otherwise.
func (e *Engine) ensure(ctx context.Context, item *itemdomain.Item, alertType, message string) (int, error) {
	_, err := e.alerts.FindActive(item.ID, alertType)
	if err == nil {
		return 0, nil // already active, evaluation is idempotent
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return 0, err
	}

	alert := &domain.Alert{
		ItemID:    item.ID,
		AlertType: alertType,
		Status:    domain.StatusActive,
		Message:   message,
	}
	if err := e.alerts.Create(alert); err != nil {
		return 0, err
	}

	if err := e.publisher.PublishAlert(ctx, kafka.StockAlertEvent{
		EventType: kafka.EventTypeAlertRaised,
		AlertID:   alert.ID,
		ItemID:    item.ID,
		AlertType: alertType,
		Message:   message,
	}); err != nil {
		logger.Warn(ctx).Err(err).Uint("alert_id", alert.ID).Msg("Failed to publish alert event")
	}

	return 1, nil
}

// resolve auto-resolves the ACTIVE alert of the given type, if any.
func (e *Engine) resolve(ctx context.Context, itemID uint, alertType string) error {
	alert, err := e.alerts.FindActive(itemID, alertType)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil
		}
		return err
	}

	now := time.Now()
	alert.Status = domain.StatusResolved
	alert.ResolvedBy = domain.SystemResolver
	alert.ResolvedAt = &now
	if err := e.alerts.Update(alert); err != nil {
		return err
	}

	if err := e.publisher.PublishAlert(ctx, kafka.StockAlertEvent{
		EventType: kafka.EventTypeAlertResolved,
		AlertID:   alert.ID,
		ItemID:    itemID,
		AlertType: alertType,
		Message:   alert.Message,
	}); err != nil {
		logger.Warn(ctx).Err(err).Uint("alert_id", alert.ID).Msg("Failed to publish alert event")
	}

	return nil
}
