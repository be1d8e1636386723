package http

import (
	"net/http"

	"github.com/shortly/shortly-api/pkg/httpx"
)

// ProfileHandler returns the authenticated user's own record. The principal
// middleware has already resolved the token subject, so this is a pure read
// of the request context.
type ProfileHandler struct{}

func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteBearerError(w, r, "missing bearer token")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(principal))
}
