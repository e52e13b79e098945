package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/tair/smart-inventory/internal/authz"
	"github.com/tair/smart-inventory/internal/order/domain"
	"github.com/tair/smart-inventory/internal/order/usecase/command"
	"github.com/tair/smart-inventory/internal/order/usecase/query"
	"github.com/tair/smart-inventory/pkg/apperr"
	"github.com/tair/smart-inventory/pkg/cache"
	"github.com/tair/smart-inventory/pkg/logger"
)

// OrderHandler handles HTTP requests for orders using CQRS pattern
type OrderHandler struct {
	// Command handlers
	createHandler       *command.CreateOrderHandler
	updateStatusHandler *command.UpdateStatusHandler

	// Query handlers
	getHandler  *query.GetOrderHandler
	listHandler *query.ListOrdersHandler

	redisClient *redis.Client
}

// NewOrderHandler creates a new order handler using dependency injection.
func NewOrderHandler(
	createHandler *command.CreateOrderHandler,
	updateStatusHandler *command.UpdateStatusHandler,
	getHandler *query.GetOrderHandler,
	listHandler *query.ListOrdersHandler,
	redisClient *redis.Client,
) *OrderHandler {
	return &OrderHandler{
		createHandler:       createHandler,
		updateStatusHandler: updateStatusHandler,
		getHandler:          getHandler,
		listHandler:         listHandler,
		redisClient:         redisClient,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func (h *OrderHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/orders",
		authz.Require(authz.OpOrderWrite, h.CreateOrder)).Methods("POST")
	router.HandleFunc("/api/orders",
		authz.Require(authz.OpOrderRead, h.ListOrders)).Methods("GET")
	router.HandleFunc("/api/orders/number/{number}",
		authz.Require(authz.OpOrderRead, h.GetOrderByNumber)).Methods("GET")
	router.HandleFunc("/api/orders/{id}",
		authz.Require(authz.OpOrderRead, h.GetOrder)).Methods("GET")
	router.HandleFunc("/api/orders/{id}/status",
		authz.Require(authz.OpOrderWrite, h.UpdateStatus)).Methods("PATCH")
}

// CreateOrder handles POST /api/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderNumber  string `json:"order_number"`
		Type         string `json:"type"`
		Counterparty string `json:"counterparty"`
		Notes        string `json:"notes"`
		Lines        []struct {
			ItemID    uint    `json:"item_id"`
			Quantity  int     `json:"quantity"`
			UnitPrice float64 `json:"unit_price"`
		} `json:"lines"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	principal, _ := authz.FromContext(r.Context())

	cmd := command.CreateOrderCommand{
		OrderNumber:  req.OrderNumber,
		Type:         req.Type,
		Counterparty: req.Counterparty,
		Notes:        req.Notes,
		ActorID:      principal.ID,
	}
	for _, line := range req.Lines {
		cmd.Lines = append(cmd.Lines, command.OrderLineInput{
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	order, err := h.createHandler.Handle(r.Context(), cmd)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create order")
		respondJSON(w, apperr.HTTPStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Order created successfully",
		Data:    order,
	})
}

// ListOrders handles GET /api/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	filter := domain.Filter{
		Type:   r.URL.Query().Get("type"),
		Status: r.URL.Query().Get("status"),
		Limit:  limit,
		Offset: offset,
	}

	orders, err := h.listHandler.Handle(r.Context(), filter)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list orders")
		respondJSON(w, apperr.HTTPStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"orders": orders,
			"total":  len(orders),
			"limit":  limit,
			"offset": offset,
		},
	})
}

// GetOrder handles GET /api/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid order ID",
		})
		return
	}

	order, err := h.getHandler.Handle(r.Context(), uint(id))
	if err != nil {
		respondJSON(w, apperr.HTTPStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    order,
	})
}

// GetOrderByNumber handles GET /api/orders/number/{number}
func (h *OrderHandler) GetOrderByNumber(w http.ResponseWriter, r *http.Request) {
	number := mux.Vars(r)["number"]

	order, err := h.getHandler.HandleByNumber(r.Context(), number)
	if err != nil {
		respondJSON(w, apperr.HTTPStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    order,
	})
}

// UpdateStatus handles PATCH /api/orders/{id}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid order ID",
		})
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	principal, _ := authz.FromContext(r.Context())

	order, err := h.updateStatusHandler.Handle(r.Context(), command.UpdateStatusCommand{
		OrderID: uint(id),
		Status:  req.Status,
		ActorID: principal.ID,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Uint("order_id", uint(id)).Msg("Failed to update order status")
		respondJSON(w, apperr.HTTPStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	// Completion moved stock, so cached item reads are stale.
	if order.Status == domain.StatusCompleted {
		cache.Invalidate(r.Context(), h.redisClient, cache.ItemsPrefix)
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Order status updated successfully",
		Data:    order,
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
