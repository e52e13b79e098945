package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/smart-inventory/internal/alert/domain"
	"github.com/tair/smart-inventory/internal/alert/engine"
	"github.com/tair/smart-inventory/internal/alert/usecase/command"
	"github.com/tair/smart-inventory/internal/alert/usecase/query"
	"github.com/tair/smart-inventory/internal/authz"
	"github.com/tair/smart-inventory/pkg/apperr"
	"github.com/tair/smart-inventory/pkg/logger"
)

// AlertHandler handles HTTP requests for stock alerts using CQRS pattern
type AlertHandler struct {
	// Command handlers
	resolveHandler *command.ResolveAlertHandler
	ignoreHandler  *command.IgnoreAlertHandler

	// Query handlers
	listHandler *query.ListAlertsHandler

	engine       *engine.Engine
	activeAlerts prometheus.Gauge
}

// NewAlertHandler creates a new alert handler using dependency injection.
func NewAlertHandler(
	resolveHandler *command.ResolveAlertHandler,
	ignoreHandler *command.IgnoreAlertHandler,
	listHandler *query.ListAlertsHandler,
	eng *engine.Engine,
) *AlertHandler {
	activeAlerts := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "inventory_service_active_alerts",
			Help: "Number of alerts currently in ACTIVE status",
		},
	)
	prometheus.MustRegister(activeAlerts)

	return &AlertHandler{
		resolveHandler: resolveHandler,
		ignoreHandler:  ignoreHandler,
		listHandler:    listHandler,
		engine:         eng,
		activeAlerts:   activeAlerts,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func (h *AlertHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/alerts",
		authz.Require(authz.OpAlertRead, h.ListAlerts)).Methods("GET")
	router.HandleFunc("/api/alerts/generate",
		authz.Require(authz.OpAlertSweep, h.GenerateAlerts)).Methods("POST")
	router.HandleFunc("/api/alerts/{id}",
		authz.Require(authz.OpAlertRead, h.GetAlert)).Methods("GET")
	router.HandleFunc("/api/alerts/{id}/resolve",
		authz.Require(authz.OpAlertResolve, h.ResolveAlert)).Methods("POST")
	router.HandleFunc("/api/alerts/{id}/ignore",
		authz.Require(authz.OpAlertResolve, h.IgnoreAlert)).Methods("POST")
}

// ListAlerts handles GET /api/alerts
func (h *AlertHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	itemID, _ := strconv.ParseUint(r.URL.Query().Get("item_id"), 10, 32)

	filter := domain.Filter{
		ItemID: uint(itemID),
		Type:   r.URL.Query().Get("type"),
		Status: r.URL.Query().Get("status"),
		Limit:  limit,
		Offset: offset,
	}

	alerts, err := h.listHandler.Handle(r.Context(), filter)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list alerts")
		respondJSON(w, apperr.HTTPStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	h.updateActiveAlertsMetric(r)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"alerts": alerts,
			"total":  len(alerts),
			"limit":  limit,
			"offset": offset,
		},
	})
}

// GetAlert handles GET /api/alerts/{id}
func (h *AlertHandler) GetAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	alert, err := h.listHandler.HandleGet(r.Context(), id)
	if err != nil {
		respondJSON(w, apperr.HTTPStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    alert,
	})
}

// GenerateAlerts handles POST /api/alerts/generate
//
// Runs a full sweep over active items. The sweep is idempotent, so
// triggering it repeatedly never duplicates alerts.
func (h *AlertHandler) GenerateAlerts(w http.ResponseWriter, r *http.Request) {
	raised, err := h.engine.Sweep(r.Context())
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Alert sweep failed")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Alert sweep failed",
		})
		return
	}

	h.updateActiveAlertsMetric(r)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Alert sweep completed",
		Data: map[string]interface{}{
			"raised": raised,
		},
	})
}

// ResolveAlert handles POST /api/alerts/{id}/resolve
func (h *AlertHandler) ResolveAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	principal, _ := authz.FromContext(r.Context())

	alert, err := h.resolveHandler.Handle(r.Context(), command.ResolveAlertCommand{
		AlertID:    id,
		ResolvedBy: principal.Username,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Uint("alert_id", id).Msg("Failed to resolve alert")
		respondJSON(w, apperr.HTTPStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	h.updateActiveAlertsMetric(r)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Alert resolved successfully",
		Data:    alert,
	})
}

// IgnoreAlert handles POST /api/alerts/{id}/ignore
func (h *AlertHandler) IgnoreAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	principal, _ := authz.FromContext(r.Context())

	alert, err := h.ignoreHandler.Handle(r.Context(), command.IgnoreAlertCommand{
		AlertID:   id,
		IgnoredBy: principal.Username,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Uint("alert_id", id).Msg("Failed to ignore alert")
		respondJSON(w, apperr.HTTPStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	h.updateActiveAlertsMetric(r)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Alert ignored successfully",
		Data:    alert,
	})
}

// updateActiveAlertsMetric refreshes the active alerts gauge
func (h *AlertHandler) updateActiveAlertsMetric(r *http.Request) {
	count, err := h.listHandler.CountActive(r.Context())
	if err == nil {
		h.activeAlerts.Set(float64(count))
	}
}

// pathID parses the {id} path variable, responding with 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid alert ID",
		})
		return 0, false
	}
	return uint(id), true
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
