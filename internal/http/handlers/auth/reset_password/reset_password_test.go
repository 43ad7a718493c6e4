package resetpassword

import (
	e "authfront/internal/core/domain/errors"
	"authfront/internal/core/domain/user"
	resetpassword "authfront/internal/core/services/reset_password"
	"authfront/internal/i18n"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubService struct {
	err    error
	inputs []resetpassword.Input
}

func (s *stubService) Run(ctx context.Context, input resetpassword.Input) (resetpassword.Result, error) {
	s.inputs = append(s.inputs, input)
	return resetpassword.Result{UserID: 1}, s.err
}

func serve(h http.Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/auth/reset", strings.NewReader(body))
	h.ServeHTTP(rec, r)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	body := map[string]any{}
	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSuccess(t *testing.T) {
	s := &stubService{}
	rec := serve(New(s), `{"token": "secret", "password": "new-password"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, i18n.Translate(i18n.English, i18n.PasswordResetSuccess), decode(t, rec)["message"])
	require.Equal(t, []resetpassword.Input{{Token: "secret", NewPassword: "new-password"}}, s.inputs)
}

func TestMissingFields(t *testing.T) {
	for _, body := range []string{`{"token": "secret"}`, `{"password": "new-password"}`, `{}`} {
		s := &stubService{}
		rec := serve(New(s), body)

		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		require.Equal(t, i18n.Translate(i18n.English, i18n.TokenAndPasswordRequired), decode(t, rec)["message"], body)
		require.Empty(t, s.inputs, body)
	}
}

func TestShortPassword(t *testing.T) {
	s := &stubService{}
	rec := serve(New(s), `{"token": "secret", "password": "1234567"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, i18n.Translate(i18n.English, i18n.PasswordTooShort), decode(t, rec)["message"])
	require.Empty(t, s.inputs)
}

func TestServiceErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		kind   string
	}{
		{err: user.ErrPasswordResetTokenNotFound, status: http.StatusBadRequest, kind: "token_not_found"},
		{err: user.ErrPasswordResetTokenExpired, status: http.StatusBadRequest, kind: "token_expired"},
		{err: e.NewInvalidInputError("password", "too short"), status: http.StatusBadRequest, kind: "invalid_input"},
		{err: fmt.Errorf("wrapped: %w", user.ErrPasswordResetTokenNotFound), status: http.StatusBadRequest, kind: "token_not_found"},
		{err: errors.New("deadlock detected"), status: http.StatusInternalServerError, kind: "internal"},
	}

	for _, tc := range cases {
		rec := serve(New(&stubService{err: tc.err}), `{"token": "secret", "password": "new-password"}`)

		require.Equal(t, tc.status, rec.Code, tc.err.Error())
		require.Equal(t, tc.kind, decode(t, rec)["error"], tc.err.Error())
	}
}
