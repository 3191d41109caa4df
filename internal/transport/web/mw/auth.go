package mw

import (
	"net/http"
	"strings"

	"github.com/ValerioGc/shop-manager/internal/domain"
)

type AuthDeps struct {
	Tokens    domain.TokenManager
	Blacklist domain.TokenBlacklist
}

const unauthorizedBody = `{"status":"error","message":"unauthorized"}`

// RequireAuth guards the private and auth surfaces with Bearer tokens.
// Revoked tokens (logout) are rejected via the blacklist.
func RequireAuth(deps AuthDeps, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := extractBearer(r.Header.Get("Authorization"))
		if raw == "" {
			deny(w)
			return
		}
		claims, err := deps.Tokens.Parse(r.Context(), raw)
		if err != nil {
			deny(w)
			return
		}
		if revoked, _ := deps.Blacklist.IsRevoked(r.Context(), claims.JTI); revoked {
			deny(w)
			return
		}
		u := domain.User{ID: claims.UserID, Login: claims.Login}
		next.ServeHTTP(w, r.WithContext(domain.WithUser(r.Context(), u)))
	})
}

// ClaimsFromRequest re-parses the Bearer token, for logout which needs
// the jti and expiry.
func ClaimsFromRequest(deps AuthDeps, r *http.Request) (domain.TokenClaims, error) {
	raw := extractBearer(r.Header.Get("Authorization"))
	if raw == "" {
		return domain.TokenClaims{}, domain.ErrUnauth
	}
	return deps.Tokens.Parse(r.Context(), raw)
}

func deny(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	http.Error(w, unauthorizedBody, http.StatusUnauthorized)
}

func extractBearer(h string) string {
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
