package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/shortly/shortly-api/internal/api/domain"
	"github.com/shortly/shortly-api/internal/api/service"
	"github.com/shortly/shortly-api/pkg/httpx"
	"github.com/shortly/shortly-api/pkg/slogx"
)

type ctxKey string

const ctxKeyPrincipal ctxKey = "principal"

// PrincipalFromContext returns the resolved requesting user, hash excluded.
// Only available behind withPrincipal.
func PrincipalFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(ctxKeyPrincipal).(domain.User)
	return u, ok
}

// withPrincipal resolves the verified token subject to a live user record.
// A token whose subject no longer exists is as good as no token: 401, not
// 404, so deleted accounts cannot be probed for.
func (rt *Router) withPrincipal() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			userID := httpx.UserIDFromContext(ctx)
			if userID == "" {
				httpx.WriteBearerError(w, r, "missing bearer token")
				return
			}

			principal, err := rt.UserService.GetByID(ctx, userID)
			if err != nil {
				if errors.Is(err, service.ErrUserNotFound) {
					log.Warn("token subject no longer exists", "user_id", userID)
					httpx.WriteBearerError(w, r, "invalid or expired token")
					return
				}
				log.Error("principal lookup failed", "user_id", userID, "err", err)
				httpx.WriteError(w, r, http.StatusInternalServerError, "internal server error")
				return
			}

			ctx = context.WithValue(ctx, ctxKeyPrincipal, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAnyRole lets the request through if the principal holds at least one
// of the required roles. Declaring no roles means any authenticated principal
// passes. Authorization failures are 403; a missing principal means the chain
// was assembled wrong and renders as 401.
func RequireAnyRole(required ...domain.Role) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			principal, ok := PrincipalFromContext(ctx)
			if !ok {
				httpx.WriteBearerError(w, r, "missing bearer token")
				return
			}

			if len(required) > 0 && !principal.HasAnyRole(required...) {
				log.Warn("insufficient role",
					"user_id", principal.ID,
					"roles", domain.RoleStrings(principal.Roles),
				)
				httpx.WriteError(w, r, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
