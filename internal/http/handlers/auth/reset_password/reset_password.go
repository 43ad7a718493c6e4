package resetpassword

import (
	e "authfront/internal/core/domain/errors"
	"authfront/internal/core/domain/user"
	"authfront/internal/core/services"
	resetpassword "authfront/internal/core/services/reset_password"
	"authfront/internal/http/handlers/response"
	"authfront/internal/i18n"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
)

type Handler struct {
	service services.Service[resetpassword.Input, resetpassword.Result]
}

func New(
	service services.Service[resetpassword.Input, resetpassword.Result],
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Token, validation.Required, validation.Length(0, 1024)),
		validation.Field(&i.Password, validation.Required, validation.Length(user.MinPasswordLength, 256)),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderInvalidRequest(rw, r)
		return
	}
	if input.Token == "" || input.Password == "" {
		response.RenderError(rw, r, response.InvalidInput, i18n.TokenAndPasswordRequired, http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		response.RenderInvalidInput(rw, r, err)
		return
	}

	_, err := h.service.Run(
		r.Context(),
		resetpassword.Input{
			Token:       user.PasswordResetSecret(input.Token),
			NewPassword: user.RawPassword(input.Password),
		},
	)
	if err != nil {
		var invalidInput *e.InvalidInputError
		switch {
		case errors.As(err, &invalidInput):
			response.RenderInvalidInput(rw, r, err)
		case errors.Is(err, user.ErrPasswordResetTokenNotFound):
			response.RenderError(rw, r, response.TokenNotFound, i18n.InvalidResetToken, http.StatusBadRequest)
		case errors.Is(err, user.ErrPasswordResetTokenExpired):
			response.RenderError(rw, r, response.TokenExpired, i18n.ResetTokenExpired, http.StatusBadRequest)
		default:
			response.RenderInternalError(rw, r)
		}
		return
	}

	response.RenderMessage(rw, r, i18n.PasswordResetSuccess, http.StatusOK)
}
