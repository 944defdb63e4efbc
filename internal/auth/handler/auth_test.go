package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"innkeep/internal/auth/service"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/logger"
	"innkeep/pkg/middleware"
	"innkeep/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockAuthService struct {
	listUsersFn  func(ctx context.Context) ([]*model.User, error)
	deleteUserFn func(ctx context.Context, userID string) error
}

func (m *mockAuthService) Register(context.Context, service.RegisterInput) (*model.User, error) {
	return nil, nil
}

func (m *mockAuthService) Login(context.Context, string, string) (*service.AuthResult, error) {
	return nil, nil
}

func (m *mockAuthService) GuestSession() *service.GuestSession {
	return &service.GuestSession{GuestID: "guest-abc"}
}

func (m *mockAuthService) Profile(context.Context, string) (*service.Profile, error) {
	return nil, nil
}

func (m *mockAuthService) ListUsers(ctx context.Context) ([]*model.User, error) {
	if m.listUsersFn == nil {
		return []*model.User{}, nil
	}
	return m.listUsersFn(ctx)
}

func (m *mockAuthService) DeleteUser(ctx context.Context, userID string) error {
	if m.deleteUserFn == nil {
		return nil
	}
	return m.deleteUserFn(ctx, userID)
}

func testHandler(svc service.AuthService) *AuthHandler {
	log := logger.New(logger.Config{
		Level:   "info",
		Format:  logger.JSON,
		Service: "test",
	})
	return NewAuthHandler(svc, log)
}

func requestAs(method, target string, role model.Role) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	ctx := context.WithValue(req.Context(), middleware.UserRefKey, model.UserRef{
		Kind: model.RefRegistered,
		ID:   "65a1b2c3d4e5f6a7b8c9d111",
	})
	ctx = context.WithValue(ctx, middleware.RoleKey, string(role))
	return req.WithContext(ctx)
}

func TestListUsers_AdminOnly(t *testing.T) {
	h := testHandler(&mockAuthService{
		listUsersFn: func(context.Context) ([]*model.User, error) {
			return []*model.User{
				{ID: "65a1b2c3d4e5f6a7b8c9d111", Username: "ada", Role: model.RoleAdmin},
				{ID: "65a1b2c3d4e5f6a7b8c9d112", Username: "grace", Role: model.RoleGuest},
			}, nil
		},
	})

	req := requestAs(http.MethodGet, "/api/v1/admin/users", model.RoleAdmin)
	rec := httptest.NewRecorder()
	h.ListUsers(rec, req, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data userListResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Data.TotalItems != 2 || len(resp.Data.Users) != 2 {
		t.Errorf("totalItems = %d with %d users, want 2 and 2", resp.Data.TotalItems, len(resp.Data.Users))
	}
}

func TestListUsers_ForbiddenForNonAdmin(t *testing.T) {
	h := testHandler(&mockAuthService{})

	req := requestAs(http.MethodGet, "/api/v1/admin/users", model.RoleReceptionist)
	rec := httptest.NewRecorder()
	h.ListUsers(rec, req, nil)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestListUsers_RequiresAuthentication(t *testing.T) {
	h := testHandler(&mockAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	rec := httptest.NewRecorder()
	h.ListUsers(rec, req, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestDeleteUser_Admin(t *testing.T) {
	var deletedID string
	h := testHandler(&mockAuthService{
		deleteUserFn: func(_ context.Context, userID string) error {
			deletedID = userID
			return nil
		},
	})

	req := requestAs(http.MethodDelete, "/api/v1/admin/users/65a1b2c3d4e5f6a7b8c9d112", model.RoleAdmin)
	rec := httptest.NewRecorder()
	h.DeleteUser(rec, req, httprouter.Params{{Key: "id", Value: "65a1b2c3d4e5f6a7b8c9d112"}})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}
	if deletedID != "65a1b2c3d4e5f6a7b8c9d112" {
		t.Errorf("deleted id = %q, want the path id", deletedID)
	}
}

func TestDeleteUser_NotFound(t *testing.T) {
	h := testHandler(&mockAuthService{
		deleteUserFn: func(_ context.Context, userID string) error {
			return apperrors.NotFoundWithID("User", userID)
		},
	})

	req := requestAs(http.MethodDelete, "/api/v1/admin/users/65a1b2c3d4e5f6a7b8c9dead", model.RoleAdmin)
	rec := httptest.NewRecorder()
	h.DeleteUser(rec, req, httprouter.Params{{Key: "id", Value: "65a1b2c3d4e5f6a7b8c9dead"}})

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteUser_ForbiddenForGuestRole(t *testing.T) {
	h := testHandler(&mockAuthService{})

	req := requestAs(http.MethodDelete, "/api/v1/admin/users/65a1b2c3d4e5f6a7b8c9d112", model.RoleGuest)
	rec := httptest.NewRecorder()
	h.DeleteUser(rec, req, httprouter.Params{{Key: "id", Value: "65a1b2c3d4e5f6a7b8c9d112"}})

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}
