package signup

import (
	c "authfront/internal/core/domain/common"
	e "authfront/internal/core/domain/errors"
	"authfront/internal/core/domain/user"
	"authfront/internal/core/services"
	signup "authfront/internal/core/services/sign_up"
	"authfront/internal/http/handlers/response"
	"authfront/internal/i18n"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type Handler struct {
	service services.Service[signup.Input, signup.Result]
}

func New(service services.Service[signup.Input, signup.Result]) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Password string  `json:"password"`
	Name     *string `json:"name"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i *Input) normalize() {
	if i.Email != nil {
		email := string(c.NewEmail(*i.Email))
		i.Email = &email
		if email == "" {
			i.Email = nil
		}
	}
	if i.Phone != nil {
		phone := string(c.NewPhone(*i.Phone))
		i.Phone = &phone
		if phone == "" {
			i.Phone = nil
		}
	}
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, is.Email, validation.Length(0, 512)),
		validation.Field(&i.Phone, validation.Match(c.PhoneRegexp)),
		validation.Field(&i.Password, validation.Required, validation.Length(user.MinPasswordLength, 256)),
		validation.Field(&i.Name, validation.Length(0, 256)),
	)
}

func (i Input) toService() signup.Input {
	input := signup.Input{Password: user.RawPassword(i.Password)}
	if i.Email != nil {
		input.Email = c.NewOptional(c.Email(*i.Email), true)
	}
	if i.Phone != nil {
		input.Phone = c.NewOptional(c.Phone(*i.Phone), true)
	}
	if i.Name != nil && *i.Name != "" {
		input.Name = c.NewOptional(*i.Name, true)
	}
	return input
}

type Result struct {
	Message string        `json:"message"`
	User    response.User `json:"user"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderInvalidRequest(rw, r)
		return
	}
	input.normalize()
	if input.Email == nil && input.Phone == nil {
		response.RenderError(rw, r, response.InvalidInput, i18n.EmailOrPhoneRequired, http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		response.RenderInvalidInput(rw, r, err)
		return
	}

	result, err := h.service.Run(r.Context(), input.toService())
	if err != nil {
		var invalidInput *e.InvalidInputError
		switch {
		case errors.As(err, &invalidInput):
			response.RenderInvalidInput(rw, r, err)
		case errors.Is(err, user.ErrUserAlreadyExists):
			response.RenderError(rw, r, response.Conflict, i18n.UserAlreadyExists, http.StatusConflict)
		default:
			response.RenderInternalError(rw, r)
		}
		return
	}

	u := response.User{}
	u.FromDomainUser(result.User)
	response.Render(rw, Result{Message: i18n.T(r.Context(), i18n.AccountCreated), User: u}, http.StatusCreated)
}
