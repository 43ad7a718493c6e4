package loginwithoauth

import (
	c "authfront/internal/core/domain/common"
	e "authfront/internal/core/domain/errors"
	"authfront/internal/core/domain/logging"
	"authfront/internal/core/domain/user"
	"authfront/internal/core/services"
	"context"
	"errors"
	"time"
)

type Input struct {
	Provider user.OAuthProviderName
	Code     string
}

type Result struct {
	User  user.User
	Token user.SessionToken
}

type service struct {
	log            logging.Logger
	providers      user.OAuthProviders
	userRepository user.UserRepository
	sessionIssuer  user.SessionTokenIssuer
	now            func() time.Time
}

func New(
	log logging.Logger,
	providers user.OAuthProviders,
	userRepository user.UserRepository,
	sessionIssuer user.SessionTokenIssuer,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if providers == nil {
		panic(e.NewNilArgumentError("providers"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if sessionIssuer == nil {
		panic(e.NewNilArgumentError("sessionIssuer"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		providers:      providers,
		userRepository: userRepository,
		sessionIssuer:  sessionIssuer,
		now:            now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	provider, ok := s.providers.Get(input.Provider)
	if !ok {
		return result, user.ErrOAuthProviderNotFound
	}
	if input.Code == "" {
		return result, e.NewInvalidInputError("code", "must not be empty")
	}

	profile, err := provider.Exchange(ctx, input.Code)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Warning(
			ctx,
			"Could not exchange OAuth code.",
			logging.Entry("provider", input.Provider),
			logging.Entry("err", err),
		)
		return result, user.ErrInvalidCredentials
	}
	if !profile.Email.IsPresent {
		s.log.Info(ctx, "OAuth profile has no email.", logging.Entry("provider", input.Provider))
		return result, user.ErrOAuthProfileHasNoEmail
	}

	u, err := s.userRepository.UpsertOAuthUser(ctx, user.UpsertOAuthUserInput{
		Email:        c.NewEmail(string(profile.Email.Value)),
		LinkExisting: profile.EmailVerified,
		Name:         profile.Name,
		Image:        profile.Image,
		CreatedAt:    s.now(),
	})
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrOAuthAccountNotLinked) {
		s.log.Info(
			ctx,
			"OAuth account is not linked to the existing user.",
			logging.Entry("provider", input.Provider),
			logging.Entry("emailVerified", profile.EmailVerified),
		)
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not upsert OAuth user.", logging.Entry("err", err))
		return result, err
	}

	token, err := s.sessionIssuer.IssueSessionToken(u, user.RememberedSessionMaxAge)
	if err != nil {
		s.log.Error(ctx, "Could not issue session token.", logging.Entry("userID", u.ID), logging.Entry("err", err))
		return result, err
	}

	s.log.Info(
		ctx,
		"User authenticated through OAuth provider.",
		logging.Entry("userID", u.ID),
		logging.Entry("provider", input.Provider),
	)
	return Result{User: u, Token: token}, nil
}
