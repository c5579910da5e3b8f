package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/mkovarik/social-api/internal/user"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const (
	// SessionContextKey holds the pre-resolved authenticated user, when any.
	SessionContextKey ContextKey = "session_user"
)

// Middleware resolves the optional session carried by a request.
type Middleware struct {
	tokens TokenIssuer
	users  UserStore
}

func NewMiddleware(tokens TokenIssuer, users UserStore) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// ResolveSession inspects the Authorization header and, when it carries a
// valid access token for an existing account, injects that user record
// into the request context. Requests without a valid token proceed as
// anonymous; each operation decides for itself whether anonymity is an
// error, so this middleware never rejects.
func (m *Middleware) ResolveSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.tokens.DecodeAccessToken(token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		u, err := m.users.GetByUsername(r.Context(), claims.Username)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionFromContext returns the authenticated user resolved for this
// request, or nil when the request is anonymous.
func SessionFromContext(ctx context.Context) *user.User {
	u, _ := ctx.Value(SessionContextKey).(*user.User)
	return u
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}
