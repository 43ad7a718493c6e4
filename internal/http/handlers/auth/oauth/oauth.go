package oauth

import (
	e "authfront/internal/core/domain/errors"
	"authfront/internal/core/domain/logging"
	"authfront/internal/core/domain/user"
	"authfront/internal/core/services"
	loginwithoauth "authfront/internal/core/services/log_in_with_oauth"
	"authfront/internal/http/handlers/response"
	"authfront/internal/i18n"
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const (
	STATE_COOKIE_NAME    = "oauth_state"
	STATE_COOKIE_MAX_AGE = 10 * time.Minute
)

type StateGenerator interface {
	GenerateState() (string, error)
}

// Redirect sends the browser to the provider consent page with a state
// value that Callback checks against the cookie.
type Redirect struct {
	log            logging.Logger
	providers      user.OAuthProviders
	stateGenerator StateGenerator
	secureCookie   bool
}

func NewRedirect(
	log logging.Logger,
	providers user.OAuthProviders,
	stateGenerator StateGenerator,
	secureCookie bool,
) *Redirect {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if providers == nil {
		panic(e.NewNilArgumentError("providers"))
	}
	if stateGenerator == nil {
		panic(e.NewNilArgumentError("stateGenerator"))
	}
	return &Redirect{log: log, providers: providers, stateGenerator: stateGenerator, secureCookie: secureCookie}
}

func (h *Redirect) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	provider, ok := h.providers.Get(user.OAuthProviderName(chi.URLParam(r, "provider")))
	if !ok {
		response.RenderError(rw, r, response.NotFound, i18n.ProviderNotFound, http.StatusNotFound)
		return
	}

	state, err := h.stateGenerator.GenerateState()
	if err != nil {
		logging.Error(r.Context(), h.log, err, logging.Entry("provider", provider.Name()))
		response.RenderInternalError(rw, r)
		return
	}

	http.SetCookie(rw, &http.Cookie{
		Name:     STATE_COOKIE_NAME,
		Value:    state,
		Path:     "/auth/oauth",
		MaxAge:   int(STATE_COOKIE_MAX_AGE.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(rw, r, provider.AuthCodeURL(state), http.StatusFound)
}

type Callback struct {
	service      services.Service[loginwithoauth.Input, loginwithoauth.Result]
	secureCookie bool
}

func NewCallback(
	service services.Service[loginwithoauth.Input, loginwithoauth.Result],
	secureCookie bool,
) *Callback {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Callback{service: service, secureCookie: secureCookie}
}

type Result struct {
	Message string        `json:"message"`
	Token   string        `json:"token"`
	User    response.User `json:"user"`
}

func (h *Callback) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	cookie, err := r.Cookie(STATE_COOKIE_NAME)
	if err != nil || cookie.Value == "" ||
		subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(query.Get("state"))) != 1 {
		response.RenderInvalidRequest(rw, r)
		return
	}
	http.SetCookie(rw, &http.Cookie{
		Name:     STATE_COOKIE_NAME,
		Path:     "/auth/oauth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	if query.Get("error") != "" {
		response.RenderError(rw, r, response.InvalidCredentials, i18n.OAuthFailed, http.StatusUnauthorized)
		return
	}

	result, err := h.service.Run(r.Context(), loginwithoauth.Input{
		Provider: user.OAuthProviderName(chi.URLParam(r, "provider")),
		Code:     query.Get("code"),
	})
	if err != nil {
		var invalidInput *e.InvalidInputError
		switch {
		case errors.Is(err, user.ErrOAuthProviderNotFound):
			response.RenderError(rw, r, response.NotFound, i18n.ProviderNotFound, http.StatusNotFound)
		case errors.As(err, &invalidInput):
			response.RenderInvalidRequest(rw, r)
		case errors.Is(err, user.ErrInvalidCredentials), errors.Is(err, user.ErrOAuthProfileHasNoEmail):
			response.RenderError(rw, r, response.InvalidCredentials, i18n.OAuthFailed, http.StatusUnauthorized)
		case errors.Is(err, user.ErrOAuthAccountNotLinked):
			response.RenderError(rw, r, response.Conflict, i18n.OAuthAccountNotLinked, http.StatusConflict)
		default:
			response.RenderInternalError(rw, r)
		}
		return
	}

	u := response.User{}
	u.FromDomainUser(result.User)
	response.Render(rw, Result{
		Message: i18n.T(r.Context(), i18n.SignedIn),
		Token:   string(result.Token),
		User:    u,
	}, http.StatusOK)
}
