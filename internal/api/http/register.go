package http

import (
	"errors"
	"net/http"

	"github.com/shortly/shortly-api/internal/api/domain"
	"github.com/shortly/shortly-api/internal/api/service"
	"github.com/shortly/shortly-api/pkg/httpx"
	"github.com/shortly/shortly-api/pkg/slogx"
)

type RegisterHandler struct {
	AuthService *service.AuthService
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req RegisterRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.AuthService.Register(ctx, service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Roles:    domain.RolesFromStrings(req.Roles),
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			httpx.WriteError(w, r, http.StatusConflict, "email already registered")
			return
		}
		log.Error("registration failed", "err", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}
