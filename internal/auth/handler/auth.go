package handler

import (
	"encoding/json"
	"net/http"

	"innkeep/internal/auth/service"
	apperrors "innkeep/pkg/errors"
	httputil "innkeep/pkg/http"
	"innkeep/pkg/logger"
	"innkeep/pkg/middleware"
	"innkeep/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type AuthHandler struct {
	service service.AuthService
	log     *logger.Logger
}

func NewAuthHandler(service service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input service.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeError(w, "Register", apperrors.InvalidInput("Invalid JSON in request body"))
		return
	}

	user, err := h.service.Register(r.Context(), input)
	if err != nil {
		h.writeError(w, "Register", err)
		return
	}

	if err := httputil.WriteCreated(w, user); err != nil {
		h.log.Error("failed to write response", "handler", "Register", "error", err)
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Login", apperrors.InvalidInput("Invalid JSON in request body"))
		return
	}

	result, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, "Login", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write response", "handler", "Login", "error", err)
	}
}

// GuestSession hands out an anonymous booking identity, no account needed.
func (h *AuthHandler) GuestSession(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteCreated(w, h.service.GuestSession()); err != nil {
		h.log.Error("failed to write response", "handler", "GuestSession", "error", err)
	}
}

// Profile returns the authenticated user's account with recent stays.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ref, ok := middleware.UserRefFromContext(r.Context())
	if !ok || ref.Kind != model.RefRegistered {
		h.writeError(w, "Profile", apperrors.Unauthorized("Authentication required"))
		return
	}

	profile, err := h.service.Profile(r.Context(), ref.ID)
	if err != nil {
		h.writeError(w, "Profile", err)
		return
	}

	if err := httputil.WriteSuccess(w, profile); err != nil {
		h.log.Error("failed to write response", "handler", "Profile", "error", err)
	}
}

type userListResponse struct {
	Users      []*model.User `json:"users"`
	TotalItems int           `json:"totalItems"`
}

type userDeletedResponse struct {
	UserID string `json:"userId"`
}

// ListUsers returns every account. Admin only.
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := h.requireAdmin(r); err != nil {
		h.writeError(w, "ListUsers", err)
		return
	}

	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.writeError(w, "ListUsers", err)
		return
	}

	if err := httputil.WriteSuccess(w, userListResponse{Users: users, TotalItems: len(users)}); err != nil {
		h.log.Error("failed to write response", "handler", "ListUsers", "error", err)
	}
}

// DeleteUser removes an account by id. Admin only.
func (h *AuthHandler) DeleteUser(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	if err := h.requireAdmin(r); err != nil {
		h.writeError(w, "DeleteUser", err)
		return
	}

	userID := params.ByName("id")
	if err := h.service.DeleteUser(r.Context(), userID); err != nil {
		h.writeError(w, "DeleteUser", err)
		return
	}

	if err := httputil.WriteSuccess(w, userDeletedResponse{UserID: userID}); err != nil {
		h.log.Error("failed to write response", "handler", "DeleteUser", "error", err)
	}
}

func (h *AuthHandler) requireAdmin(r *http.Request) error {
	ref, ok := middleware.UserRefFromContext(r.Context())
	if !ok || ref.Kind != model.RefRegistered {
		return apperrors.Unauthorized("Authentication required")
	}
	role, ok := middleware.RoleFromContext(r.Context())
	if !ok || role != model.RoleAdmin {
		return apperrors.Forbidden("Admin access required")
	}
	return nil
}

func (h *AuthHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/auth/register", h.Register)
	router.POST("/api/v1/auth/login", h.Login)
	router.POST("/api/v1/auth/guest", h.GuestSession)
	router.GET("/api/v1/guest/profile", h.Profile)
	router.GET("/api/v1/admin/users", h.ListUsers)
	router.DELETE("/api/v1/admin/users/:id", h.DeleteUser)
}

func (h *AuthHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}
