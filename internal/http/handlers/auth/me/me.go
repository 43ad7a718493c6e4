package me

import (
	e "authfront/internal/core/domain/errors"
	"authfront/internal/core/domain/user"
	"authfront/internal/core/services"
	service "authfront/internal/core/services/get_user_by_session_token"
	"authfront/internal/http/handlers/auth"
	"authfront/internal/http/handlers/response"
	"errors"
	"net/http"
)

type Handler struct {
	service services.Service[service.Input, service.Result]
}

func New(
	service services.Service[service.Input, service.Result],
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Result struct {
	User response.User `json:"user"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	token, ok := auth.ParseToken(r)
	if !ok {
		response.RenderUnauthorized(rw, r)
		return
	}

	result, err := h.service.Run(r.Context(), service.Input{Token: token})
	if errors.Is(err, user.ErrInvalidSessionToken) {
		response.RenderUnauthorized(rw, r)
		return
	}
	if err != nil {
		response.RenderInternalError(rw, r)
		return
	}

	u := response.User{}
	u.FromDomainUser(result.User)
	response.Render(rw, Result{User: u}, http.StatusOK)
}
