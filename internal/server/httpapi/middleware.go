package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/healthsync/healthsync/internal/server/models"
)

type ctxKey int

const accountCtxKey ctxKey = iota

// TokenResolver resolves a bearer token to an active account.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*models.Account, error)
}

// RequireAuth extracts the bearer token from the Authorization header,
// resolves it to an account, and stores the account in the request
// context. Requests without a valid token get a 401.
func RequireAuth(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				_ = RespondWithError(w, ErrUnauthorized("missing bearer token"))
				return
			}

			account, err := resolver.ResolveToken(r.Context(), token)
			if err != nil {
				_ = RespondWithError(w, ErrUnauthorized(""))
				return
			}

			ctx := context.WithValue(r.Context(), accountCtxKey, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}

// AccountFromContext returns the authenticated account stored by
// RequireAuth. The second return is false on unauthenticated requests.
func AccountFromContext(ctx context.Context) (*models.Account, bool) {
	account, ok := ctx.Value(accountCtxKey).(*models.Account)
	return account, ok
}
