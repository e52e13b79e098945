package query

import (
	"context"
	"fmt"

	"github.com/tair/smart-inventory/internal/alert/domain"
	"github.com/tair/smart-inventory/pkg/apperr"
)

// ListAlertsHandler handles alert listing queries.
type ListAlertsHandler struct {
	alerts domain.AlertRepository
}

// NewListAlertsHandler creates a new list alerts handler.
func NewListAlertsHandler(alerts domain.AlertRepository) *ListAlertsHandler {
	return &ListAlertsHandler{alerts: alerts}
}

// Handle returns alerts matching the filter.
func (h *ListAlertsHandler) Handle(ctx context.Context, filter domain.Filter) ([]domain.Alert, error) {
	if filter.Type != "" && !domain.ValidType(filter.Type) {
		return nil, fmt.Errorf("%w: unknown alert type %q", apperr.ErrInvalidArgument, filter.Type)
	}
	if filter.Status != "" {
		switch filter.Status {
		case domain.StatusActive, domain.StatusResolved, domain.StatusIgnored:
		default:
			return nil, fmt.Errorf("%w: unknown alert status %q", apperr.ErrInvalidArgument, filter.Status)
		}
	}
	return h.alerts.FindAll(filter)
}

// HandleGet returns a single alert by id.
func (h *ListAlertsHandler) HandleGet(ctx context.Context, id uint) (*domain.Alert, error) {
	return h.alerts.FindByID(id)
}

// CountActive returns the number of ACTIVE alerts.
func (h *ListAlertsHandler) CountActive(ctx context.Context) (int64, error) {
	return h.alerts.CountActive()
}
