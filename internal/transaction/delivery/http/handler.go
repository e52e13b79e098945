package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/tair/smart-inventory/internal/authz"
	itemcommand "github.com/tair/smart-inventory/internal/item/usecase/command"
	"github.com/tair/smart-inventory/internal/transaction/domain"
	"github.com/tair/smart-inventory/pkg/apperr"
	"github.com/tair/smart-inventory/pkg/cache"
	"github.com/tair/smart-inventory/pkg/logger"
)

// TransactionHandler exposes the ledger. Reads go to the transaction
// repository; the single write path delegates to the item store's
// atomic adjustment command.
type TransactionHandler struct {
	repo          domain.TransactionRepository
	adjustHandler *itemcommand.AdjustStockHandler
	redisClient   *redis.Client
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(repo domain.TransactionRepository, adjustHandler *itemcommand.AdjustStockHandler, redisClient *redis.Client) *TransactionHandler {
	return &TransactionHandler{repo: repo, adjustHandler: adjustHandler, redisClient: redisClient}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func (h *TransactionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/transactions",
		authz.Require(authz.OpTransactionCreate, h.CreateTransaction)).Methods("POST")
	router.HandleFunc("/api/transactions",
		authz.Require(authz.OpTransactionReadAll, h.ListTransactions)).Methods("GET")
	router.HandleFunc("/api/transactions/item/{itemId}",
		authz.Require(authz.OpTransactionReadItem, h.ListByItem)).Methods("GET")
	router.HandleFunc("/api/transactions/{id}",
		authz.Require(authz.OpTransactionReadItem, h.GetTransaction)).Methods("GET")
}

// CreateTransaction handles POST /api/transactions
//
// Quantity is interpreted per type: STOCK_IN and STOCK_OUT take a
// positive count and the ledger sign is derived, ADJUSTMENT takes a
// signed correction delta. ORDER_FULFILLMENT rows are only written by
// order completion and cannot be created here.
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID   uint   `json:"item_id"`
		Type     string `json:"type"`
		Quantity int    `json:"quantity"`
		Notes    string `json:"notes"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	delta, err := ledgerDelta(req.Type, req.Quantity)
	if err != nil {
		respondJSON(w, apperr.HTTPStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	principal, _ := authz.FromContext(r.Context())

	item, record, err := h.adjustHandler.Handle(r.Context(), itemcommand.AdjustStockCommand{
		ItemID:  req.ItemID,
		Delta:   delta,
		Type:    req.Type,
		Reason:  req.Notes,
		ActorID: principal.ID,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Uint("item_id", req.ItemID).Msg("Failed to record transaction")
		respondJSON(w, apperr.HTTPStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	// The stock moved, so cached item reads are stale.
	cache.Invalidate(r.Context(), h.redisClient, cache.ItemsPrefix)

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Transaction recorded successfully",
		Data: map[string]interface{}{
			"transaction":   record,
			"current_stock": item.CurrentStock,
		},
	})
}

// ListTransactions handles GET /api/transactions
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	itemID, _ := strconv.ParseUint(r.URL.Query().Get("item_id"), 10, 32)

	filter := domain.Filter{
		ItemID: uint(itemID),
		Type:   r.URL.Query().Get("type"),
		Limit:  limit,
		Offset: offset,
	}
	if from := r.URL.Query().Get("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, Response{
				Success: false,
				Error:   "Invalid 'from' timestamp, expected RFC3339",
			})
			return
		}
		filter.From = &t
	}
	if to := r.URL.Query().Get("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, Response{
				Success: false,
				Error:   "Invalid 'to' timestamp, expected RFC3339",
			})
			return
		}
		filter.To = &t
	}

	txs, err := h.repo.FindAll(filter)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list transactions")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list transactions",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"transactions": txs,
			"total":        len(txs),
			"limit":        limit,
			"offset":       offset,
		},
	})
}

// ListByItem handles GET /api/transactions/item/{itemId}
func (h *TransactionHandler) ListByItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseUint(mux.Vars(r)["itemId"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid item ID",
		})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	txs, err := h.repo.FindByItem(uint(itemID), limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list item transactions")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list item transactions",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    txs,
	})
}

// GetTransaction handles GET /api/transactions/{id}
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid transaction ID",
		})
		return
	}

	tx, err := h.repo.FindByID(uint(id))
	if err != nil {
		respondJSON(w, apperr.HTTPStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    tx,
	})
}

// ledgerDelta maps the request quantity to a signed ledger delta.
func ledgerDelta(txType string, quantity int) (int, error) {
	switch txType {
	case domain.TypeStockIn:
		if quantity <= 0 {
			return 0, fmt.Errorf("%w: STOCK_IN quantity must be positive", apperr.ErrInvalidArgument)
		}
		return quantity, nil
	case domain.TypeStockOut:
		if quantity <= 0 {
			return 0, fmt.Errorf("%w: STOCK_OUT quantity must be positive", apperr.ErrInvalidArgument)
		}
		return -quantity, nil
	case domain.TypeAdjustment:
		if quantity == 0 {
			return 0, fmt.Errorf("%w: ADJUSTMENT quantity must be non-zero", apperr.ErrInvalidArgument)
		}
		return quantity, nil
	case domain.TypeOrderFulfillment:
		return 0, fmt.Errorf("%w: ORDER_FULFILLMENT transactions are created by order completion", apperr.ErrInvalidArgument)
	default:
		return 0, fmt.Errorf("%w: unknown transaction type %q", apperr.ErrInvalidArgument, txType)
	}
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
