package sendpasswordresettoken

import (
	c "authfront/internal/core/domain/common"
	e "authfront/internal/core/domain/errors"
	ratelimiter "authfront/internal/core/domain/rate_limiter"
	"authfront/internal/core/services"
	service "authfront/internal/core/services/send_password_reset_token"
	"authfront/internal/http/handlers/response"
	"authfront/internal/i18n"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const TEST_TOKEN_HEADER = "x-test-password-reset-token"

type Handler struct {
	service        services.Service[service.Input, service.Result]
	smtpConfigured bool
	isTestMode     bool
}

func New(
	service services.Service[service.Input, service.Result],
	smtpConfigured bool,
	isTestMode bool,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service, smtpConfigured: smtpConfigured, isTestMode: isTestMode}
}

type Input struct {
	Email string `json:"email"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.Email, validation.Length(0, 512)),
	)
}

// Result is the same whether or not the email belongs to an account.
type Result struct {
	Message        string `json:"message"`
	SMTPConfigured bool   `json:"smtpConfigured"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderInvalidRequest(rw, r)
		return
	}
	email := c.NewEmail(input.Email)
	input.Email = string(email)
	if err := input.Validate(); err != nil {
		response.RenderInvalidInput(rw, r, err)
		return
	}

	result, err := h.service.Run(r.Context(), service.Input{Email: email})
	if err != nil {
		var invalidInput *e.InvalidInputError
		switch {
		case errors.As(err, &invalidInput):
			response.RenderInvalidInput(rw, r, err)
		case errors.Is(err, ratelimiter.ErrRateLimitExceeded):
			response.RenderRateLimitExceeded(rw, r)
		default:
			response.RenderInternalError(rw, r)
		}
		return
	}

	if h.isTestMode && result.Secret.IsPresent {
		rw.Header().Set(TEST_TOKEN_HEADER, string(result.Secret.Value))
	}
	response.Render(rw, Result{
		Message:        i18n.T(r.Context(), i18n.ResetLinkSent),
		SMTPConfigured: h.smtpConfigured,
	}, http.StatusOK)
}
