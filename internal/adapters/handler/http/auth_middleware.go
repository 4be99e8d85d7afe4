package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
	"github.com/vncsmyrnk/pollcontract/internal/core/ports"
)

type contextKey string

const UserIDKey contextKey = "user_id"

const accessTokenCookie = "access_token"

type AuthMiddleware struct {
	verifier ports.IdentityVerifier
}

func NewAuthMiddleware(verifier ports.IdentityVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Authenticate rejects requests without a valid access token, taken from
// the Authorization header or the access_token cookie.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			unauthorized(w, "missing access token")
			return
		}

		userID, err := m.verifier.Verify(r.Context(), token)
		if err != nil {
			unauthorized(w, "invalid access token")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie(accessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// invocation builds the call context for the authenticated caller.
func invocation(w http.ResponseWriter, r *http.Request) (domain.Invocation, bool) {
	userID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		unauthorized(w, "missing user context")
		return domain.Invocation{}, false
	}
	return domain.Invocation{Caller: userID, RequestID: middleware.GetReqID(r.Context())}, true
}
