package oauth

import (
	c "authfront/internal/core/domain/common"
	"authfront/internal/core/domain/logging"
	"authfront/internal/core/domain/user"
	loginwithoauth "authfront/internal/core/services/log_in_with_oauth"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type stubStateGenerator struct {
	err error
}

func (g stubStateGenerator) GenerateState() (string, error) {
	return "state-1", g.err
}

type stubService struct {
	err    error
	inputs []loginwithoauth.Input
}

func (s *stubService) Run(ctx context.Context, input loginwithoauth.Input) (loginwithoauth.Result, error) {
	s.inputs = append(s.inputs, input)
	if s.err != nil {
		return loginwithoauth.Result{}, s.err
	}
	return loginwithoauth.Result{
		User:  user.User{ID: 1, Email: c.NewOptional(c.Email("user@example.com"), true)},
		Token: "session-token",
	}, nil
}

type testSuite struct {
	suite.Suite
	providers user.FakeOAuthProviders
	service   *stubService
	router    *chi.Mux
}

func (suite *testSuite) SetupTest() {
	suite.providers = user.FakeOAuthProviders{
		"google": user.NewFakeOAuthProvider("google", user.OAuthProfile{}),
	}
	suite.service = &stubService{}
	suite.router = suite.newRouter(stubStateGenerator{})
}

func (suite *testSuite) newRouter(generator StateGenerator) *chi.Mux {
	router := chi.NewRouter()
	router.Method(http.MethodGet, "/auth/oauth/{provider}", NewRedirect(logging.NewFakeLogger(), suite.providers, generator, true))
	router.Method(http.MethodGet, "/auth/oauth/{provider}/callback", NewCallback(suite.service, true))
	return router
}

func (suite *testSuite) serve(target string, state string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, target, nil)
	if state != "" {
		r.AddCookie(&http.Cookie{Name: STATE_COOKIE_NAME, Value: state})
	}
	suite.router.ServeHTTP(rec, r)
	return rec
}

func TestOAuthHandlers(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestRedirect() {
	rec := s.serve("/auth/oauth/google", "")

	s.Equal(http.StatusFound, rec.Code)
	s.Equal("https://google.test/authorize?state=state-1", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	s.Require().Len(cookies, 1)
	s.Equal(STATE_COOKIE_NAME, cookies[0].Name)
	s.Equal("state-1", cookies[0].Value)
	s.True(cookies[0].HttpOnly)
	s.True(cookies[0].Secure)
}

func (s *testSuite) TestRedirectUnknownProvider() {
	rec := s.serve("/auth/oauth/github", "")

	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *testSuite) TestRedirectStateError() {
	s.router = s.newRouter(stubStateGenerator{err: errors.New("entropy exhausted")})

	rec := s.serve("/auth/oauth/google", "")

	s.Equal(http.StatusInternalServerError, rec.Code)
}

func (s *testSuite) TestCallback() {
	rec := s.serve("/auth/oauth/google/callback?state=state-1&code=abc", "state-1")

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"token":"session-token"`)
	s.Equal([]loginwithoauth.Input{{Provider: "google", Code: "abc"}}, s.service.inputs)
}

func (s *testSuite) TestCallbackStateMismatch() {
	for _, state := range []string{"", "other"} {
		s.service.inputs = nil
		rec := s.serve("/auth/oauth/google/callback?state=state-1&code=abc", state)

		s.Equal(http.StatusBadRequest, rec.Code)
		s.Empty(s.service.inputs)
	}
}

func (s *testSuite) TestCallbackProviderDenied() {
	rec := s.serve("/auth/oauth/google/callback?state=state-1&error=access_denied", "state-1")

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Empty(s.service.inputs)
}

func (s *testSuite) TestCallbackServiceErrors() {
	cases := []struct {
		err    error
		status int
	}{
		{err: user.ErrOAuthProviderNotFound, status: http.StatusNotFound},
		{err: user.ErrInvalidCredentials, status: http.StatusUnauthorized},
		{err: user.ErrOAuthProfileHasNoEmail, status: http.StatusUnauthorized},
		{err: user.ErrOAuthAccountNotLinked, status: http.StatusConflict},
		{err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		s.service.err = tc.err
		rec := s.serve("/auth/oauth/google/callback?state=state-1&code=abc", "state-1")

		require.Equal(s.T(), tc.status, rec.Code, tc.err.Error())
	}
}
