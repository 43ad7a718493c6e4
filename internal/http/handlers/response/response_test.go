package response

import (
	e "authfront/internal/core/domain/errors"
	"authfront/internal/i18n"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	body := map[string]any{}
	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRenderInvalidInputFromValidationErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", nil)

	RenderInvalidInput(rec, r, validation.Errors{
		"password": errors.New("the length must be between 8 and 256"),
		"email":    errors.New("must be a valid email address"),
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	require.Equal(t, "invalid_input", body["error"])
	require.Equal(t, i18n.Translate(i18n.English, i18n.InvalidEmail), body["message"])
	require.Contains(t, body["fields"], "password")
}

func TestRenderInvalidInputFromDomainError(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", nil)

	RenderInvalidInput(rec, r, e.NewInvalidInputError("password", "too short"))

	body := decode(t, rec)
	require.Equal(t, i18n.Translate(i18n.English, i18n.PasswordTooShort), body["message"])
	require.NotContains(t, body, "fields")
}

func TestRenderErrorIsLocalized(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r = r.WithContext(i18n.WithLanguage(r.Context(), i18n.Arabic))

	RenderInternalError(rec, r)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode(t, rec)
	require.Equal(t, "internal", body["error"])
	require.Equal(t, i18n.Translate(i18n.Arabic, i18n.InternalError), body["message"])
	require.NotEqual(t, i18n.Translate(i18n.English, i18n.InternalError), body["message"])
}
