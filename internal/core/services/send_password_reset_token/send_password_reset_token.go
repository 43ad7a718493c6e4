package sendpasswordresettoken

import (
	c "authfront/internal/core/domain/common"
	e "authfront/internal/core/domain/errors"
	"authfront/internal/core/domain/logging"
	uow "authfront/internal/core/domain/unit_of_work"
	"authfront/internal/core/domain/user"
	"authfront/internal/core/services"
	"context"
	"errors"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/golang-module/carbon/v2"
)

type Input struct {
	Email c.Email
}

func (i Input) GetRateLimitKey() string {
	return "send-password-reset-token::" + string(i.Email)
}

// Result is identical for known and unknown emails. Secret is only filled
// in so that test mode can expose it, callers must not branch on it.
type Result struct {
	Secret    c.Optional[user.PasswordResetSecret]
	WasLogged bool
}

type service struct {
	log                  logging.Logger
	unitOfWork           uow.UnitOfWork
	secretGenerator      user.PasswordResetSecretGenerator
	sender               user.PasswordResetLinkSender
	baseURL              url.URL
	validDurationMinutes int
	now                  func() time.Time
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	secretGenerator user.PasswordResetSecretGenerator,
	sender user.PasswordResetLinkSender,
	baseURL url.URL,
	validDurationMinutes int,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if secretGenerator == nil {
		panic(e.NewNilArgumentError("secretGenerator"))
	}
	if sender == nil {
		panic(e.NewNilArgumentError("sender"))
	}
	if validDurationMinutes <= 0 {
		panic("validDurationMinutes must be positive")
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:                  log,
		unitOfWork:           unitOfWork,
		secretGenerator:      secretGenerator,
		sender:               sender,
		baseURL:              baseURL,
		validDurationMinutes: validDurationMinutes,
		now:                  now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if err := validation.Validate(string(input.Email), validation.Required, is.Email); err != nil {
		return result, e.NewInvalidInputError("email", err.Error())
	}

	secret, err := s.issue(ctx, input.Email)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(ctx, "Password reset requested for unknown email.", logging.Entry("email", input.Email))
		return result, nil
	}
	if err != nil {
		return result, err
	}
	result.Secret = c.NewOptional(secret, true)

	sendResult, err := s.sender.SendPasswordResetLink(ctx, user.SendPasswordResetLinkInput{
		Email:  input.Email,
		Secret: secret,
		URL:    user.BuildPasswordResetURL(s.baseURL, secret),
	})
	if err != nil {
		s.log.Error(
			ctx,
			"Could not send password reset link.",
			logging.Entry("email", input.Email),
			logging.Entry("err", err),
		)
		return result, nil
	}
	result.WasLogged = sendResult.WasLogged

	s.log.Info(
		ctx,
		"Password reset link has been sent.",
		logging.Entry("email", input.Email),
		logging.Entry("wasLogged", sendResult.WasLogged),
	)
	return result, nil
}

// issue replaces every reset token of the user with a fresh one. The user row
// stays locked until commit so concurrent requests cannot both insert.
func (s *service) issue(ctx context.Context, email c.Email) (secret user.PasswordResetSecret, err error) {
	uow, err := s.unitOfWork.Begin(ctx)
	if errors.Is(err, context.Canceled) {
		return secret, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not begin unit of work.", logging.Entry("err", err))
		return secret, err
	}
	defer uow.Rollback(ctx)

	u, err := uow.Users().GetByEmailForUpdate(ctx, email)
	if errors.Is(err, context.Canceled) || errors.Is(err, user.ErrUserDoesNotExist) {
		return secret, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not get user by email.", logging.Entry("email", email), logging.Entry("err", err))
		return secret, err
	}

	secret, err = s.secretGenerator.GeneratePasswordResetSecret()
	if err != nil {
		s.log.Error(ctx, "Could not generate password reset secret.", logging.Entry("err", err))
		return secret, err
	}

	superseded, err := uow.PasswordResetTokens().DeleteByUserID(ctx, u.ID)
	if errors.Is(err, context.Canceled) {
		return secret, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not delete previous password reset tokens.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return secret, err
	}

	now := s.now()
	token, err := uow.PasswordResetTokens().Create(ctx, user.CreatePasswordResetTokenInput{
		UserID:    u.ID,
		TokenHash: secret.Hash(),
		ExpiresAt: carbon.Time2Carbon(now).AddMinutes(s.validDurationMinutes).Carbon2Time(),
		CreatedAt: now,
	})
	if errors.Is(err, context.Canceled) {
		return secret, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not create password reset token.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return secret, err
	}

	err = uow.Commit(ctx)
	if errors.Is(err, context.Canceled) {
		return secret, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not commit unit of work.", logging.Entry("userID", u.ID), logging.Entry("err", err))
		return secret, err
	}

	s.log.Info(
		ctx,
		"Password reset token has been issued.",
		logging.Entry("userID", u.ID),
		logging.Entry("tokenID", token.ID),
		logging.Entry("superseded", superseded),
		logging.Entry("expiresAt", token.ExpiresAt),
	)
	return secret, nil
}
