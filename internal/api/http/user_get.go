package http

import (
	"errors"
	"net/http"

	"github.com/shortly/shortly-api/internal/api/service"
	"github.com/shortly/shortly-api/pkg/httpx"
	"github.com/shortly/shortly-api/pkg/slogx"
)

// UserGetHandler is the admin lookup of an arbitrary user by id. Unlike the
// principal path, a missing target here is a real 404: the caller is already
// authenticated and authorized, so there is nothing to hide.
type UserGetHandler struct {
	UserService *service.UserService
}

func (h *UserGetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := r.PathValue("id")
	if userID == "" {
		httpx.WriteError(w, r, http.StatusBadRequest, "missing user id")
		return
	}

	user, err := h.UserService.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			httpx.WriteError(w, r, http.StatusNotFound, "user not found")
			return
		}
		log.Error("user lookup failed", "user_id", userID, "err", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}
