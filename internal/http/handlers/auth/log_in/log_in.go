package login

import (
	e "authfront/internal/core/domain/errors"
	ratelimiter "authfront/internal/core/domain/rate_limiter"
	"authfront/internal/core/domain/user"
	"authfront/internal/core/services"
	login "authfront/internal/core/services/log_in"
	"authfront/internal/http/handlers/response"
	"authfront/internal/i18n"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
)

type Handler struct {
	service services.Service[login.Input, login.Result]
}

func New(service services.Service[login.Input, login.Result]) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	EmailOrPhone string `json:"emailOrPhone"`
	Password     string `json:"password"`
	RememberMe   bool   `json:"rememberMe"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.EmailOrPhone, validation.Required, validation.Length(0, 512)),
		validation.Field(&i.Password, validation.Required, validation.Length(0, 256)),
	)
}

type Result struct {
	Message string        `json:"message"`
	Token   string        `json:"token"`
	User    response.User `json:"user"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderInvalidRequest(rw, r)
		return
	}
	if err := input.Validate(); err != nil {
		response.RenderInvalidInput(rw, r, err)
		return
	}

	result, err := h.service.Run(r.Context(), login.Input{
		EmailOrPhone: input.EmailOrPhone,
		Password:     user.RawPassword(input.Password),
		RememberMe:   input.RememberMe,
	})
	if err != nil {
		var invalidInput *e.InvalidInputError
		switch {
		case errors.As(err, &invalidInput):
			response.RenderInvalidInput(rw, r, err)
		case errors.Is(err, user.ErrInvalidCredentials):
			response.RenderError(rw, r, response.InvalidCredentials, i18n.InvalidCredentials, http.StatusUnauthorized)
		case errors.Is(err, ratelimiter.ErrRateLimitExceeded):
			response.RenderRateLimitExceeded(rw, r)
		default:
			response.RenderInternalError(rw, r)
		}
		return
	}

	u := response.User{}
	u.FromDomainUser(result.User)
	response.Render(rw, Result{
		Message: i18n.T(r.Context(), i18n.SignedIn),
		Token:   string(result.Token),
		User:    u,
	}, http.StatusOK)
}
