package command

import (
	"context"
	"fmt"
	"time"

	"github.com/tair/smart-inventory/internal/alert/domain"
	"github.com/tair/smart-inventory/pkg/apperr"
)

// ResolveAlertCommand marks an active alert as handled by an operator.
type ResolveAlertCommand struct {
	AlertID    uint
	ResolvedBy string
}

// ResolveAlertHandler handles manual alert resolution.
type ResolveAlertHandler struct {
	alerts domain.AlertRepository
}

// NewResolveAlertHandler creates a new resolve alert handler.
func NewResolveAlertHandler(alerts domain.AlertRepository) *ResolveAlertHandler {
	return &ResolveAlertHandler{alerts: alerts}
}

// Handle resolves the alert. Only ACTIVE alerts can be resolved;
// RESOLVED and IGNORED are terminal.
func (h *ResolveAlertHandler) Handle(ctx context.Context, cmd ResolveAlertCommand) (*domain.Alert, error) {
	if cmd.ResolvedBy == "" {
		return nil, fmt.Errorf("%w: resolver is required", apperr.ErrInvalidArgument)
	}

	alert, err := h.alerts.FindByID(cmd.AlertID)
	if err != nil {
		return nil, err
	}
	if alert.Status != domain.StatusActive {
		return nil, fmt.Errorf("%w: alert %d is already %s", apperr.ErrInvalidState, alert.ID, alert.Status)
	}

	now := time.Now()
	alert.Status = domain.StatusResolved
	alert.ResolvedBy = cmd.ResolvedBy
	alert.ResolvedAt = &now

	if err := h.alerts.Update(alert); err != nil {
		return nil, fmt.Errorf("failed to resolve alert: %w", err)
	}
	return alert, nil
}
