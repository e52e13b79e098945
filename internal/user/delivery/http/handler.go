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
	"github.com/tair/smart-inventory/internal/user/domain"
	"github.com/tair/smart-inventory/pkg/apperr"
	"github.com/tair/smart-inventory/pkg/auth"
	"github.com/tair/smart-inventory/pkg/logger"
)

// UserHandler manages service accounts. All routes are admin-only;
// token issuance is handled by the identity provider, not here.
type UserHandler struct {
	repo domain.UserRepository
}

// NewUserHandler creates a new user handler.
func NewUserHandler(repo domain.UserRepository) *UserHandler {
	return &UserHandler{repo: repo}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/users",
		authz.Require(authz.OpUserManage, h.CreateUser)).Methods("POST")
	router.HandleFunc("/api/users",
		authz.Require(authz.OpUserManage, h.ListUsers)).Methods("GET")
	router.HandleFunc("/api/users/{id}",
		authz.Require(authz.OpUserManage, h.GetUser)).Methods("GET")
	router.HandleFunc("/api/users/{id}/role",
		authz.Require(authz.OpUserManage, h.ChangeRole)).Methods("PATCH")
	router.HandleFunc("/api/users/{id}",
		authz.Require(authz.OpUserManage, h.DeactivateUser)).Methods("DELETE")
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
		Role     string `json:"role"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Username, email and password are required",
		})
		return
	}
	if req.Role == "" {
		req.Role = authz.RoleEmployee
	}
	if !domain.ValidRole(req.Role) {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   fmt.Sprintf("Unknown role %q", req.Role),
		})
		return
	}

	if existing, err := h.repo.FindByUsername(req.Username); err == nil && existing != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Username is already taken",
		})
		return
	} else if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		logger.Error(r.Context()).Err(err).Msg("Failed to check username")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to create user",
		})
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to hash password")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to create user",
		})
		return
	}

	user := &domain.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashed,
		FullName: req.FullName,
		Role:     req.Role,
		IsActive: true,
	}
	if err := h.repo.Create(user); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create user")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to create user",
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "User created successfully",
		Data:    user,
	})
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	users, err := h.repo.FindAll(limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list users")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list users",
		})
		return
	}

	count, _ := h.repo.Count()

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"users":  users,
			"total":  count,
			"limit":  limit,
			"offset": offset,
		},
	})
}

// GetUser handles GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.repo.FindByID(id)
	if err != nil {
		respondJSON(w, apperr.HTTPStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    user,
	})
}

// ChangeRole handles PATCH /api/users/{id}/role
func (h *UserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}
	if !domain.ValidRole(req.Role) {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   fmt.Sprintf("Unknown role %q", req.Role),
		})
		return
	}

	user, err := h.repo.FindByID(id)
	if err != nil {
		respondJSON(w, apperr.HTTPStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	user.Role = req.Role
	if err := h.repo.Update(user); err != nil {
		logger.Error(r.Context()).Err(err).Uint("user_id", id).Msg("Failed to change role")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to change role",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Role updated successfully",
		Data:    user,
	})
}

// DeactivateUser handles DELETE /api/users/{id}
func (h *UserHandler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.repo.FindByID(id)
	if err != nil {
		respondJSON(w, apperr.HTTPStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	user.IsActive = false
	if err := h.repo.Update(user); err != nil {
		logger.Error(r.Context()).Err(err).Uint("user_id", id).Msg("Failed to deactivate user")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to deactivate user",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "User deactivated successfully",
	})
}

// pathID parses the {id} path variable, responding with 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid user ID",
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
