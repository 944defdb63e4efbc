package middleware

import (
	"context"
	"innkeep/pkg/logger"
	"innkeep/pkg/model"
	"innkeep/pkg/token"
	"net/http"
	"strings"
)

const (
	UserRefKey contextKey = "user_ref"
	RoleKey    contextKey = "role"

	guestTokenHeader = "X-Guest-Token"
)

// ResolveUserRef resolves the caller's identity once at the HTTP boundary:
// a valid bearer token yields a Registered ref, a guest token header yields a
// Guest ref. Unauthenticated requests pass through with no ref; handlers that
// require one reject them. A present-but-invalid bearer token is rejected here.
func ResolveUserRef(issuer token.Issuer, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bearer := extractBearer(r); bearer != "" {
				claims, err := issuer.Validate(bearer)
				if err != nil {
					log.Warn("Rejected invalid bearer token",
						"path", r.URL.Path,
						"error", err,
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusUnauthorized)
					_, _ = w.Write([]byte(`{"error":"Invalid or expired token"}`))
					return
				}

				ctx := context.WithValue(r.Context(), UserRefKey, model.UserRef{
					Kind: model.RefRegistered,
					ID:   claims.UserID,
				})
				ctx = context.WithValue(ctx, RoleKey, claims.Role)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if guest := r.Header.Get(guestTokenHeader); guest != "" {
				ctx := context.WithValue(r.Context(), UserRefKey, model.UserRef{
					Kind: model.RefGuest,
					ID:   guest,
				})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// UserRefFromContext returns the resolved caller ref, if any.
func UserRefFromContext(ctx context.Context) (model.UserRef, bool) {
	ref, ok := ctx.Value(UserRefKey).(model.UserRef)
	return ref, ok && !ref.IsZero()
}

// RoleFromContext returns the authenticated caller's role. Guest-token
// callers carry no role.
func RoleFromContext(ctx context.Context) (model.Role, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	if !ok || role == "" {
		return "", false
	}
	return model.Role(role), true
}

func extractBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
