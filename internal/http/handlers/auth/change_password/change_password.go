package changepassword

import (
	e "authfront/internal/core/domain/errors"
	"authfront/internal/core/domain/user"
	"authfront/internal/core/services"
	changepassword "authfront/internal/core/services/change_password"
	"authfront/internal/http/handlers/response"
	"authfront/internal/i18n"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
)

type Handler struct {
	service services.Service[changepassword.Input, changepassword.Result]
}

func New(
	service services.Service[changepassword.Input, changepassword.Result],
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.CurrentPassword, validation.Required, validation.Length(0, 256)),
		validation.Field(&i.NewPassword, validation.Required, validation.Length(user.MinPasswordLength, 256)),
	)
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

	_, err := h.service.Run(
		r.Context(),
		changepassword.Input{
			CurrentPassword: user.RawPassword(input.CurrentPassword),
			NewPassword:     user.RawPassword(input.NewPassword),
		},
	)
	if err != nil {
		var invalidInput *e.InvalidInputError
		switch {
		case errors.As(err, &invalidInput):
			response.RenderInvalidInput(rw, r, err)
		case errors.Is(err, user.ErrInvalidSessionToken):
			response.RenderUnauthorized(rw, r)
		case errors.Is(err, user.ErrInvalidCredentials):
			response.RenderError(rw, r, response.InvalidCredentials, i18n.InvalidCredentials, http.StatusUnauthorized)
		default:
			response.RenderInternalError(rw, r)
		}
		return
	}

	response.RenderMessage(rw, r, i18n.PasswordChanged, http.StatusOK)
}
