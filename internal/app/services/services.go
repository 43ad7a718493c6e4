package services

import (
	"authfront/internal/app/deps"
	drl "authfront/internal/core/domain/rate_limiter"
	"authfront/internal/core/services"
	"authfront/internal/core/services/auth"
	changepassword "authfront/internal/core/services/change_password"
	getuserbysessiontoken "authfront/internal/core/services/get_user_by_session_token"
	login "authfront/internal/core/services/log_in"
	loginwithoauth "authfront/internal/core/services/log_in_with_oauth"
	ratelimiting "authfront/internal/core/services/rate_limiting"
	resetpassword "authfront/internal/core/services/reset_password"
	sendpasswordresettoken "authfront/internal/core/services/send_password_reset_token"
	signup "authfront/internal/core/services/sign_up"
)

var (
	SendPasswordResetTokenLimit = drl.Limit{Interval: drl.Hour, Value: 3}
	LogInLimit                  = drl.Limit{Interval: drl.Hour, Value: 10}
)

type Services struct {
	SendPasswordResetToken services.Service[sendpasswordresettoken.Input, sendpasswordresettoken.Result]
	ResetPassword          services.Service[resetpassword.Input, resetpassword.Result]
	SignUp                 services.Service[signup.Input, signup.Result]
	LogIn                  services.Service[login.Input, login.Result]
	LogInWithOAuth         services.Service[loginwithoauth.Input, loginwithoauth.Result]
	GetUserBySessionToken  services.Service[getuserbysessiontoken.Input, getuserbysessiontoken.Result]
	ChangePassword         services.Service[changepassword.Input, changepassword.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.SendPasswordResetToken = ratelimiting.New(
		deps.Logger,
		deps.RateLimiter,
		SendPasswordResetTokenLimit,
		sendpasswordresettoken.New(
			deps.Logger,
			deps.UnitOfWork,
			deps.PasswordResetSecretGenerator,
			deps.PasswordResetLinkSender,
			deps.Config.BaseURL(),
			deps.Config.PasswordResetValidDurationMinutes,
			deps.Now,
		),
	)
	s.ResetPassword = resetpassword.New(
		deps.Logger,
		deps.UnitOfWork,
		deps.PasswordHasher,
		deps.Now,
	)
	s.SignUp = signup.New(
		deps.Logger,
		deps.UnitOfWork,
		deps.PasswordHasher,
		deps.Now,
	)
	s.LogIn = ratelimiting.New(
		deps.Logger,
		deps.RateLimiter,
		LogInLimit,
		login.New(
			deps.Logger,
			deps.UserRepository,
			deps.PasswordHasher,
			deps.SessionTokenIssuer,
		),
	)
	s.LogInWithOAuth = loginwithoauth.New(
		deps.Logger,
		deps.OAuthProviders,
		deps.UserRepository,
		deps.SessionTokenIssuer,
		deps.Now,
	)
	s.GetUserBySessionToken = getuserbysessiontoken.New(
		deps.Logger,
		deps.SessionTokenIssuer,
		deps.UserRepository,
	)
	s.ChangePassword = auth.WithAuthentication(
		s.GetUserBySessionToken,
		changepassword.New(
			deps.Logger,
			deps.UnitOfWork,
			deps.PasswordHasher,
		),
	)

	return s
}
