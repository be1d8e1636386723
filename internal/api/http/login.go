package http

import (
	"errors"
	"net/http"

	"github.com/shortly/shortly-api/internal/api/service"
	"github.com/shortly/shortly-api/pkg/httpx"
	"github.com/shortly/shortly-api/pkg/slogx"
)

type LoginHandler struct {
	AuthService *service.AuthService
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req LoginRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	pair, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		// Unknown email and wrong password must be indistinguishable to the
		// caller. The service already logged which one it was.
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteError(w, r, http.StatusUnauthorized, "invalid email or password")
			return
		}
		log.Error("login failed", "err", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toTokenResponse(pair))
}
