package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/tair/smart-inventory/internal/authz"
	"github.com/tair/smart-inventory/internal/item/domain"
	"github.com/tair/smart-inventory/internal/item/usecase/command"
	"github.com/tair/smart-inventory/internal/item/usecase/query"
	"github.com/tair/smart-inventory/pkg/apperr"
	"github.com/tair/smart-inventory/pkg/cache"
	"github.com/tair/smart-inventory/pkg/logger"
)

// ItemHandler handles HTTP requests for items using CQRS pattern
type ItemHandler struct {
	// Command handlers
	createHandler     *command.CreateItemHandler
	updateHandler     *command.UpdateItemHandler
	deactivateHandler *command.DeactivateItemHandler

	// Query handlers
	getHandler    *query.GetItemHandler
	listHandler   *query.ListItemsHandler
	verifyHandler *query.VerifyStockHandler

	redisClient    *redis.Client
	cacheMW        mux.MiddlewareFunc
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewItemHandler creates a new item handler using dependency injection.
func NewItemHandler(
	createHandler *command.CreateItemHandler,
	updateHandler *command.UpdateItemHandler,
	deactivateHandler *command.DeactivateItemHandler,
	getHandler *query.GetItemHandler,
	listHandler *query.ListItemsHandler,
	verifyHandler *query.VerifyStockHandler,
	redisClient *redis.Client,
) *ItemHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_service_requests_total",
			Help: "Total number of requests to the inventory service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inventory_service_request_duration_seconds",
			Help:    "Duration of inventory service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	cacheCfg := cache.DefaultConfig()
	cacheCfg.KeyPrefix = cache.ItemsPrefix

	return &ItemHandler{
		createHandler:     createHandler,
		updateHandler:     updateHandler,
		deactivateHandler: deactivateHandler,
		getHandler:        getHandler,
		listHandler:       listHandler,
		verifyHandler:     verifyHandler,
		redisClient:       redisClient,
		cacheMW:           cache.Middleware(redisClient, cacheCfg),
		requestCounter:    requestCounter,
		requestLatency:    requestLatency,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *ItemHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()

		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

func (h *ItemHandler) RegisterRoutes(router *mux.Router) {
	// Read routes go through the response cache. Specific paths are
	// registered before the {id} wildcard.
	router.Handle("/api/items/low-stock",
		h.cacheMW(h.metricsMiddleware("/api/items/low-stock", authz.Require(authz.OpItemRead, h.ListLowStock)))).Methods("GET")
	router.Handle("/api/items/expiring",
		h.cacheMW(h.metricsMiddleware("/api/items/expiring", authz.Require(authz.OpItemRead, h.ListExpiring)))).Methods("GET")
	router.Handle("/api/items/sku/{sku}",
		h.cacheMW(h.metricsMiddleware("/api/items/sku/{sku}", authz.Require(authz.OpItemRead, h.GetItemBySKU)))).Methods("GET")
	router.Handle("/api/items",
		h.cacheMW(h.metricsMiddleware("/api/items", authz.Require(authz.OpItemRead, h.ListItems)))).Methods("GET")
	router.Handle("/api/items/{id}",
		h.cacheMW(h.metricsMiddleware("/api/items/{id}", authz.Require(authz.OpItemRead, h.GetItem)))).Methods("GET")

	// Ledger verification is never cached.
	router.HandleFunc("/api/items/{id}/verify",
		h.metricsMiddleware("/api/items/{id}/verify", authz.Require(authz.OpStockVerify, h.VerifyStock))).Methods("GET")

	router.HandleFunc("/api/items",
		h.metricsMiddleware("/api/items", authz.Require(authz.OpItemWrite, h.CreateItem))).Methods("POST")
	router.HandleFunc("/api/items/{id}",
		h.metricsMiddleware("/api/items/{id}", authz.Require(authz.OpItemWrite, h.UpdateItem))).Methods("PUT")
	router.HandleFunc("/api/items/{id}",
		h.metricsMiddleware("/api/items/{id}", authz.Require(authz.OpItemDelete, h.DeactivateItem))).Methods("DELETE")
}

type itemRequest struct {
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	SKU          string     `json:"sku"`
	CategoryID   *uint      `json:"category_id"`
	InitialStock int        `json:"initial_stock"`
	MinimumStock int        `json:"minimum_stock"`
	CostPrice    float64    `json:"cost_price"`
	SellingPrice float64    `json:"selling_price"`
	Location     string     `json:"location"`
	Supplier     string     `json:"supplier"`
	ExpiryDate   *time.Time `json:"expiry_date"`
	ImageURL     string     `json:"image_url"`
}

// CreateItem handles POST /api/items
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	principal, _ := authz.FromContext(r.Context())

	cmd := command.CreateItemCommand{
		Name:         req.Name,
		Description:  req.Description,
		SKU:          req.SKU,
		CategoryID:   req.CategoryID,
		InitialStock: req.InitialStock,
		MinimumStock: req.MinimumStock,
		CostPrice:    req.CostPrice,
		SellingPrice: req.SellingPrice,
		Location:     req.Location,
		Supplier:     req.Supplier,
		ExpiryDate:   req.ExpiryDate,
		ImageURL:     req.ImageURL,
		ActorID:      principal.ID,
	}

	item, err := h.createHandler.Handle(r.Context(), cmd)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create item")
		respondJSON(w, apperr.HTTPStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	cache.Invalidate(r.Context(), h.redisClient, cache.ItemsPrefix)

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Item created successfully",
		Data:    item,
	})
}

// ListItems handles GET /api/items
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	categoryID, _ := strconv.ParseUint(r.URL.Query().Get("category_id"), 10, 32)

	filter := domain.ListFilter{
		CategoryID: uint(categoryID),
		Name:       r.URL.Query().Get("name"),
		ActiveOnly: r.URL.Query().Get("include_inactive") != "true",
		Limit:      limit,
		Offset:     offset,
	}

	items, err := h.listHandler.Handle(r.Context(), filter)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list items")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list items",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"items":  items,
			"total":  len(items),
			"limit":  limit,
			"offset": offset,
		},
	})
}

// ListLowStock handles GET /api/items/low-stock
func (h *ItemHandler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.listHandler.HandleLowStock(r.Context())
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list low stock items")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list low stock items",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    items,
	})
}

// ListExpiring handles GET /api/items/expiring
func (h *ItemHandler) ListExpiring(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	items, err := h.listHandler.HandleExpiring(r.Context(), days)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list expiring items")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list expiring items",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    items,
	})
}

// GetItem handles GET /api/items/{id}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	item, err := h.getHandler.Handle(r.Context(), id)
	if err != nil {
		respondJSON(w, apperr.HTTPStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    item,
	})
}

// GetItemBySKU handles GET /api/items/sku/{sku}
func (h *ItemHandler) GetItemBySKU(w http.ResponseWriter, r *http.Request) {
	sku := mux.Vars(r)["sku"]

	item, err := h.getHandler.HandleBySKU(r.Context(), sku)
	if err != nil {
		respondJSON(w, apperr.HTTPStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    item,
	})
}

// UpdateItem handles PUT /api/items/{id}
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	cmd := command.UpdateItemCommand{
		ID:           id,
		Name:         req.Name,
		Description:  req.Description,
		SKU:          req.SKU,
		CategoryID:   req.CategoryID,
		MinimumStock: req.MinimumStock,
		CostPrice:    req.CostPrice,
		SellingPrice: req.SellingPrice,
		Location:     req.Location,
		Supplier:     req.Supplier,
		ExpiryDate:   req.ExpiryDate,
		ImageURL:     req.ImageURL,
	}

	item, err := h.updateHandler.Handle(r.Context(), cmd)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to update item")
		respondJSON(w, apperr.HTTPStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	cache.Invalidate(r.Context(), h.redisClient, cache.ItemsPrefix)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Item updated successfully",
		Data:    item,
	})
}

// DeactivateItem handles DELETE /api/items/{id}
func (h *ItemHandler) DeactivateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.deactivateHandler.Handle(r.Context(), id); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to deactivate item")
		respondJSON(w, apperr.HTTPStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	cache.Invalidate(r.Context(), h.redisClient, cache.ItemsPrefix)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Item deactivated successfully",
	})
}

// VerifyStock handles GET /api/items/{id}/verify
func (h *ItemHandler) VerifyStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	report, err := h.verifyHandler.Handle(r.Context(), id)
	if err != nil {
		if report != nil {
			// Mismatch: return the report alongside the error so the
			// operator can see both counters.
			logger.Error(r.Context()).Err(err).Uint("item_id", id).Msg("Stock ledger mismatch")
			respondJSON(w, http.StatusInternalServerError, Response{
				Success: false,
				Error:   err.Error(),
				Data:    report,
			})
			return
		}
		respondJSON(w, apperr.HTTPStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    report,
	})
}

// pathID parses the {id} path variable, responding with 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid item ID",
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
