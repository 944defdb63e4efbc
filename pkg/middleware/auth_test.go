package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"innkeep/pkg/logger"
	"innkeep/pkg/model"
	"innkeep/pkg/token"
)

func resolveChain(t *testing.T, issuer token.Issuer) (http.Handler, *model.UserRef) {
	t.Helper()

	var captured model.UserRef
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ref, ok := UserRefFromContext(r.Context()); ok {
			captured = ref
		}
		w.WriteHeader(http.StatusOK)
	})

	log := logger.New(logger.Config{Output: io.Discard})
	return ResolveUserRef(issuer, log)(inner), &captured
}

func TestResolveUserRef_Bearer(t *testing.T) {
	issuer := token.NewIssuer("secret", time.Hour)
	signed, err := issuer.Issue("user-1", "guest")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	chain, captured := resolveChain(t, issuer)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if captured.Kind != model.RefRegistered || captured.ID != "user-1" {
		t.Errorf("ref = %+v, want registered user-1", captured)
	}
}

func TestResolveUserRef_InvalidBearer(t *testing.T) {
	chain, captured := resolveChain(t, token.NewIssuer("secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if !captured.IsZero() {
		t.Errorf("ref = %+v, want zero", captured)
	}
}

func TestResolveUserRef_GuestToken(t *testing.T) {
	chain, captured := resolveChain(t, token.NewIssuer("secret", time.Hour))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
	req.Header.Set("X-Guest-Token", "guest-abc")
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if captured.Kind != model.RefGuest || captured.ID != "guest-abc" {
		t.Errorf("ref = %+v, want guest guest-abc", captured)
	}
}

func TestResolveUserRef_Anonymous(t *testing.T) {
	chain, captured := resolveChain(t, token.NewIssuer("secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil)
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !captured.IsZero() {
		t.Errorf("ref = %+v, want zero for anonymous request", captured)
	}
}
