package chi

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vocabdex/internal/domain/identity"
	"github.com/kailas-cloud/vocabdex/internal/logger"
)

// IdentityValidator resolves a bearer token to an identity.
type IdentityValidator interface {
	Validate(token string) (identity.Identity, error)
}

type identityCtxKey struct{}

// IdentityFromContext returns the caller identity, anonymous if none was set.
func IdentityFromContext(ctx context.Context) identity.Identity {
	if id, ok := ctx.Value(identityCtxKey{}).(identity.Identity); ok {
		return id
	}
	return identity.Anonymous()
}

// ContextWithIdentity stores the caller identity in the context.
func ContextWithIdentity(ctx context.Context, id identity.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// IdentityMiddleware resolves the Authorization header into the request identity.
// A request without the header is anonymous; a malformed or invalid token is
// rejected with 401. A nil validator leaves every request anonymous.
func IdentityMiddleware(tokens IdentityValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || tokens == nil {
				next.ServeHTTP(w, r)
				return
			}

			const bearerPrefix = "Bearer "
			if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			id, err := tokens.Validate(strings.TrimSpace(header[len(bearerPrefix):]))
			if err != nil {
				logger.FromContext(r.Context()).Debug("Token rejected", zap.Error(err))
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid or expired token")
				return
			}

			ctx := ContextWithIdentity(r.Context(), id)
			ctx = logger.WithSubject(ctx, id.ID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
