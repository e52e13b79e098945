package command

import (
	"context"
	"fmt"
	"time"

	"github.com/tair/smart-inventory/internal/alert/domain"
	"github.com/tair/smart-inventory/pkg/apperr"
)

// IgnoreAlertCommand dismisses an active alert without acting on it.
type IgnoreAlertCommand struct {
	AlertID   uint
	IgnoredBy string
}

// IgnoreAlertHandler handles alert dismissal.
type IgnoreAlertHandler struct {
	alerts domain.AlertRepository
}

// NewIgnoreAlertHandler creates a new ignore alert handler.
func NewIgnoreAlertHandler(alerts domain.AlertRepository) *IgnoreAlertHandler {
	return &IgnoreAlertHandler{alerts: alerts}
}

// Handle ignores the alert. Only ACTIVE alerts can be ignored.
func (h *IgnoreAlertHandler) Handle(ctx context.Context, cmd IgnoreAlertCommand) (*domain.Alert, error) {
	if cmd.IgnoredBy == "" {
		return nil, fmt.Errorf("%w: actor is required", apperr.ErrInvalidArgument)
	}

	alert, err := h.alerts.FindByID(cmd.AlertID)
	if err != nil {
		return nil, err
	}
	if alert.Status != domain.StatusActive {
		return nil, fmt.Errorf("%w: alert %d is already %s", apperr.ErrInvalidState, alert.ID, alert.Status)
	}

	now := time.Now()
	alert.Status = domain.StatusIgnored
	alert.ResolvedBy = cmd.IgnoredBy
	alert.ResolvedAt = &now

	if err := h.alerts.Update(alert); err != nil {
		return nil, fmt.Errorf("failed to ignore alert: %w", err)
	}
	return alert, nil
}
