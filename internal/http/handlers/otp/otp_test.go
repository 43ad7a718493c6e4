package otp

import (
	"authfront/internal/i18n"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func serve(h http.Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/otp", strings.NewReader(body)))
	return rec
}

func TestValidRequestsAreNotImplemented(t *testing.T) {
	cases := []struct {
		handler http.Handler
		body    string
	}{
		{handler: NewRequest(), body: `{"phone": "+966 50 123 4567"}`},
		{handler: NewVerify(), body: `{"phone": "+966501234567", "token": "123456"}`},
	}

	for _, tc := range cases {
		rec := serve(tc.handler, tc.body)

		require.Equal(t, http.StatusNotImplemented, rec.Code, tc.body)
		body := map[string]string{}
		require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "not_implemented", body["error"])
		require.Equal(t, i18n.Translate(i18n.English, i18n.OTPNotAvailable), body["message"])
	}
}

func TestInvalidRequests(t *testing.T) {
	cases := []struct {
		handler http.Handler
		body    string
	}{
		{handler: NewRequest(), body: `{}`},
		{handler: NewRequest(), body: `{"phone": "123"}`},
		{handler: NewRequest(), body: `not json`},
		{handler: NewVerify(), body: `{"phone": "+966501234567"}`},
		{handler: NewVerify(), body: `{"token": "123456"}`},
	}

	for _, tc := range cases {
		rec := serve(tc.handler, tc.body)

		require.Equal(t, http.StatusBadRequest, rec.Code, tc.body)
	}
}
