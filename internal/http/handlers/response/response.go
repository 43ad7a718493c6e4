package response

import (
	e "authfront/internal/core/domain/errors"
	"authfront/internal/i18n"
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
)

type ErrorKind string

const (
	InvalidInput       ErrorKind = "invalid_input"
	TokenNotFound      ErrorKind = "token_not_found"
	TokenExpired       ErrorKind = "token_expired"
	Conflict           ErrorKind = "conflict"
	InvalidCredentials ErrorKind = "invalid_credentials"
	Unauthorized       ErrorKind = "unauthorized"
	NotFound           ErrorKind = "not_found"
	NotImplemented     ErrorKind = "not_implemented"
	RateLimitExceeded  ErrorKind = "rate_limit_exceeded"
	Internal           ErrorKind = "internal"
)

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error   ErrorKind         `json:"error"`
	Message string            `json:"message"`
	Fields  validation.Errors `json:"fields,omitempty"`
}

var fieldMessages = map[string]i18n.MessageID{
	"email":        i18n.InvalidEmail,
	"phone":        i18n.InvalidPhone,
	"password":     i18n.PasswordTooShort,
	"newPassword":  i18n.PasswordTooShort,
	"token":        i18n.TokenAndPasswordRequired,
	"emailOrPhone": i18n.EmailOrPhoneRequired,
}

func fieldMessage(field string) i18n.MessageID {
	id, ok := fieldMessages[field]
	if !ok {
		return i18n.InvalidRequest
	}
	return id
}

// RenderInvalidInput accepts either ozzo validation errors or
// *errors.InvalidInputError and picks the message of the first bad field.
func RenderInvalidInput(rw http.ResponseWriter, r *http.Request, err error) {
	res := errorResponse{Error: InvalidInput}

	var validationErrors validation.Errors
	var invalidInput *e.InvalidInputError
	switch {
	case errors.As(err, &validationErrors):
		fields := make([]string, 0, len(validationErrors))
		for field := range validationErrors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		id := i18n.InvalidRequest
		if len(fields) > 0 {
			id = fieldMessage(fields[0])
		}
		res.Message = i18n.T(r.Context(), id)
		res.Fields = validationErrors
	case errors.As(err, &invalidInput):
		res.Message = i18n.T(r.Context(), fieldMessage(invalidInput.Field))
	default:
		res.Message = i18n.T(r.Context(), i18n.InvalidRequest)
	}
	Render(rw, res, http.StatusBadRequest)
}

func RenderInvalidRequest(rw http.ResponseWriter, r *http.Request) {
	RenderError(rw, r, InvalidInput, i18n.InvalidRequest, http.StatusBadRequest)
}

func RenderUnauthorized(rw http.ResponseWriter, r *http.Request) {
	RenderError(rw, r, Unauthorized, i18n.Unauthorized, http.StatusUnauthorized)
}

func RenderInternalError(rw http.ResponseWriter, r *http.Request) {
	RenderError(rw, r, Internal, i18n.InternalError, http.StatusInternalServerError)
}

func RenderRateLimitExceeded(rw http.ResponseWriter, r *http.Request) {
	RenderError(rw, r, RateLimitExceeded, i18n.RateLimitExceeded, http.StatusTooManyRequests)
}

func RenderError(rw http.ResponseWriter, r *http.Request, kind ErrorKind, id i18n.MessageID, status int) {
	Render(rw, errorResponse{Error: kind, Message: i18n.T(r.Context(), id)}, status)
}

func RenderMessage(rw http.ResponseWriter, r *http.Request, id i18n.MessageID, status int) {
	Render(rw, messageResponse{Message: i18n.T(r.Context(), id)}, status)
}

func Render(rw http.ResponseWriter, res interface{}, status int) {
	rw.Header().Set("Content-Type", "application/json")

	content, err := json.Marshal(res)
	if err != nil {
		rw.WriteHeader(http.StatusInternalServerError)
		return
	}

	rw.WriteHeader(status)
	rw.Write(content)
}
