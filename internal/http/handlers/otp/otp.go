package otp

import (
	c "authfront/internal/core/domain/common"
	"authfront/internal/http/handlers/response"
	"authfront/internal/i18n"
	"encoding/json"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Phone sign-in is routed so that clients get a stable contract, but no OTP
// backend exists yet. Valid requests are answered with 501.

type RequestInput struct {
	Phone string `json:"phone"`
}

func (i *RequestInput) FromJSON(r io.Reader) error {
	return json.NewDecoder(r).Decode(i)
}

func (i RequestInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Phone, validation.Required, validation.Match(c.PhoneRegexp)),
	)
}

type VerifyInput struct {
	Phone string `json:"phone"`
	Token string `json:"token"`
}

func (i *VerifyInput) FromJSON(r io.Reader) error {
	return json.NewDecoder(r).Decode(i)
}

func (i VerifyInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Phone, validation.Required, validation.Match(c.PhoneRegexp)),
		validation.Field(&i.Token, validation.Required, validation.Length(4, 16)),
	)
}

type input interface {
	FromJSON(r io.Reader) error
	Validate() error
	normalize()
}

func (i *RequestInput) normalize() {
	i.Phone = string(c.NewPhone(i.Phone))
}

func (i *VerifyInput) normalize() {
	i.Phone = string(c.NewPhone(i.Phone))
}

type Handler struct {
	newInput func() input
}

func NewRequest() *Handler {
	return &Handler{newInput: func() input { return &RequestInput{} }}
}

func NewVerify() *Handler {
	return &Handler{newInput: func() input { return &VerifyInput{} }}
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := h.newInput()
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderInvalidRequest(rw, r)
		return
	}
	input.normalize()
	if err := input.Validate(); err != nil {
		response.RenderInvalidInput(rw, r, err)
		return
	}
	response.RenderError(rw, r, response.NotImplemented, i18n.OTPNotAvailable, http.StatusNotImplemented)
}
