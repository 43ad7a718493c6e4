package app

import (
	"authfront/internal/app/deps"
	"authfront/internal/app/services"
	"authfront/internal/http/handlers/auth"
	changepassword "authfront/internal/http/handlers/auth/change_password"
	login "authfront/internal/http/handlers/auth/log_in"
	"authfront/internal/http/handlers/auth/me"
	"authfront/internal/http/handlers/auth/oauth"
	resetpassword "authfront/internal/http/handlers/auth/reset_password"
	sendpasswordresettoken "authfront/internal/http/handlers/auth/send_password_reset_token"
	signup "authfront/internal/http/handlers/auth/sign_up"
	"authfront/internal/http/handlers/otp"
	"authfront/internal/http/handlers/outbox"
	"authfront/internal/i18n"
	"authfront/internal/implementations/logging"
	"net/http"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(deps *deps.Deps, s *services.Services) http.Handler {
	isTestMode := deps.Config.IsTestMode
	secureCookie := deps.Config.BaseURL().Scheme == "https"

	authRouter := chi.NewRouter()
	authRouter.Method(
		http.MethodPost,
		"/forgot",
		sendpasswordresettoken.New(s.SendPasswordResetToken, deps.Config.SMTPConfigured(), isTestMode),
	)
	authRouter.Method(http.MethodPost, "/reset", resetpassword.New(s.ResetPassword))
	authRouter.Method(http.MethodPost, "/register", signup.New(s.SignUp))
	authRouter.Method(http.MethodPost, "/login", login.New(s.LogIn))
	authRouter.Method(http.MethodGet, "/me", me.New(s.GetUserBySessionToken))
	authRouter.With(auth.SetAuthTokenToContext).Method(
		http.MethodPost,
		"/password",
		changepassword.New(s.ChangePassword),
	)
	authRouter.Method(
		http.MethodGet,
		"/oauth/{provider}",
		oauth.NewRedirect(deps.Logger, deps.OAuthProviders, deps.OAuthStateGenerator, secureCookie),
	)
	authRouter.Method(http.MethodGet, "/oauth/{provider}/callback", oauth.NewCallback(s.LogInWithOAuth, secureCookie))

	apiRouter := chi.NewRouter()
	apiRouter.Method(http.MethodPost, "/auth/otp", otp.NewRequest())
	apiRouter.Method(http.MethodPost, "/auth/verify", otp.NewVerify())

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logRequestID)
	router.Use(middleware.Recoverer)
	router.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Language"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Use(i18n.Middleware)
	router.Mount("/auth", authRouter)
	router.Mount("/api", apiRouter)
	if isTestMode {
		router.Method(http.MethodGet, "/internal/outbox", outbox.New(deps.Logger, deps.SseServer, deps.OutboxTokens))
	}

	return router
}

func logRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	return &http.Server{
		Handler:           NewRouter(deps, s),
		Addr:              deps.Config.HTTPAddress,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
