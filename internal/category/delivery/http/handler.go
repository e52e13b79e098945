package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/tair/smart-inventory/internal/authz"
	"github.com/tair/smart-inventory/internal/category/domain"
	itemdomain "github.com/tair/smart-inventory/internal/item/domain"
	"github.com/tair/smart-inventory/pkg/apperr"
	"github.com/tair/smart-inventory/pkg/logger"
)

// CategoryHandler handles HTTP requests for categories. Categories are
// simple enough that the handler talks to the repository directly.
type CategoryHandler struct {
	repo  domain.CategoryRepository
	items itemdomain.ItemRepository
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(repo domain.CategoryRepository, items itemdomain.ItemRepository) *CategoryHandler {
	return &CategoryHandler{repo: repo, items: items}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func (h *CategoryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/categories",
		authz.Require(authz.OpCategoryRead, h.ListCategories)).Methods("GET")
	router.HandleFunc("/api/categories/{id}",
		authz.Require(authz.OpCategoryRead, h.GetCategory)).Methods("GET")
	router.HandleFunc("/api/categories",
		authz.Require(authz.OpCategoryWrite, h.CreateCategory)).Methods("POST")
	router.HandleFunc("/api/categories/{id}",
		authz.Require(authz.OpCategoryWrite, h.UpdateCategory)).Methods("PUT")
	router.HandleFunc("/api/categories/{id}",
		authz.Require(authz.OpCategoryDelete, h.DeleteCategory)).Methods("DELETE")
}

// CreateCategory handles POST /api/categories
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Category name is required",
		})
		return
	}

	// Name uniqueness is case-insensitive.
	if existing, err := h.repo.FindByName(req.Name); err == nil && existing != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   fmt.Sprintf("Category %q already exists", existing.Name),
		})
		return
	} else if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		logger.Error(r.Context()).Err(err).Msg("Failed to check category name")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to create category",
		})
		return
	}

	category := &domain.Category{
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
	}
	if err := h.repo.Create(category); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create category")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to create category",
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Category created successfully",
		Data:    category,
	})
}

// ListCategories handles GET /api/categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	categories, err := h.repo.FindAll(limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list categories")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list categories",
		})
		return
	}

	type categoryWithCount struct {
		domain.Category
		ItemCount int64 `json:"item_count"`
	}

	result := make([]categoryWithCount, 0, len(categories))
	for _, category := range categories {
		count, err := h.items.CountByCategory(category.ID)
		if err != nil {
			logger.Warn(r.Context()).Err(err).Uint("category_id", category.ID).Msg("Failed to count category items")
		}
		result = append(result, categoryWithCount{Category: category, ItemCount: count})
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"categories": result,
			"total":      len(result),
			"limit":      limit,
			"offset":     offset,
		},
	})
}

// GetCategory handles GET /api/categories/{id}
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	category, err := h.repo.FindByID(id)
	if err != nil {
		respondJSON(w, apperr.HTTPStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    category,
	})
}

// UpdateCategory handles PUT /api/categories/{id}
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Active      *bool  `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	category, err := h.repo.FindByID(id)
	if err != nil {
		respondJSON(w, apperr.HTTPStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Category name is required",
		})
		return
	}

	if !strings.EqualFold(req.Name, category.Name) {
		if existing, err := h.repo.FindByName(req.Name); err == nil && existing != nil {
			respondJSON(w, http.StatusBadRequest, Response{
				Success: false,
				Error:   fmt.Sprintf("Category %q already exists", existing.Name),
			})
			return
		} else if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			logger.Error(r.Context()).Err(err).Msg("Failed to check category name")
			respondJSON(w, http.StatusInternalServerError, Response{
				Success: false,
				Error:   "Failed to update category",
			})
			return
		}
	}

	category.Name = req.Name
	category.Description = req.Description
	if req.Active != nil {
		category.Active = *req.Active
	}

	if err := h.repo.Update(category); err != nil {
		logger.Error(r.Context()).Err(err).Uint("category_id", id).Msg("Failed to update category")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to update category",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Category updated successfully",
		Data:    category,
	})
}

// DeleteCategory handles DELETE /api/categories/{id}
//
// A category that still has active items cannot be removed; the items
// must be moved or deactivated first.
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	count, err := h.items.CountByCategory(id)
	if err != nil {
		logger.Error(r.Context()).Err(err).Uint("category_id", id).Msg("Failed to count category items")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to delete category",
		})
		return
	}
	if count > 0 {
		respondJSON(w, http.StatusConflict, Response{
			Success: false,
			Error:   fmt.Sprintf("Category has %d active items and cannot be deleted", count),
		})
		return
	}

	if err := h.repo.Delete(id); err != nil {
		respondJSON(w, apperr.HTTPStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Category deleted successfully",
	})
}

// pathID parses the {id} path variable, responding with 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid category ID",
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
