package resetpassword

import (
	e "authfront/internal/core/domain/errors"
	"authfront/internal/core/domain/logging"
	uow "authfront/internal/core/domain/unit_of_work"
	"authfront/internal/core/domain/user"
	"authfront/internal/core/services"
	"context"
	"errors"
	"time"
)

type Input struct {
	Token       user.PasswordResetSecret
	NewPassword user.RawPassword
}

type Result struct {
	UserID user.ID
}

type service struct {
	log            logging.Logger
	unitOfWork     uow.UnitOfWork
	passwordHasher user.PasswordHasher
	now            func() time.Time
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	passwordHasher user.PasswordHasher,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		unitOfWork:     unitOfWork,
		passwordHasher: passwordHasher,
		now:            now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.Token == "" {
		return result, e.NewInvalidInputError("token", "must not be empty")
	}
	if !input.NewPassword.IsLongEnough() {
		return result, e.NewInvalidInputError("password", "too short")
	}

	// Hashing happens before the row gets locked, bcrypt is slow.
	newPasswordHash, err := s.passwordHasher.HashPassword(input.NewPassword)
	if err != nil {
		s.log.Error(ctx, "Could not hash password.", logging.Entry("err", err))
		return result, err
	}

	uow, err := s.unitOfWork.Begin(ctx)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not begin unit of work.", logging.Entry("err", err))
		return result, err
	}
	defer uow.Rollback(ctx)

	token, err := uow.PasswordResetTokens().GetByTokenHashForUpdate(ctx, input.Token.Hash())
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrPasswordResetTokenNotFound) {
		s.log.Info(ctx, "Password reset token not found.")
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not get password reset token.", logging.Entry("err", err))
		return result, err
	}

	if token.IsExpired(s.now()) {
		if err := s.deleteExpired(ctx, uow, token); err != nil {
			return result, err
		}
		return result, user.ErrPasswordResetTokenExpired
	}

	err = uow.Users().SetPassword(ctx, token.UserID, newPasswordHash)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not update user password.",
			logging.Entry("userID", token.UserID),
			logging.Entry("err", err),
		)
		return result, err
	}

	if err := uow.PasswordResetTokens().Delete(ctx, token.ID); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("tokenID", token.ID))
		return result, err
	}

	if err := uow.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", token.UserID))
		return result, err
	}

	s.log.Info(
		ctx,
		"New password has been successfully set.",
		logging.Entry("userID", token.UserID),
		logging.Entry("tokenID", token.ID),
	)
	return Result{UserID: token.UserID}, nil
}

func (s *service) deleteExpired(ctx context.Context, uow uow.Context, token user.PasswordResetToken) error {
	if err := uow.PasswordResetTokens().Delete(ctx, token.ID); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("tokenID", token.ID))
		return err
	}
	if err := uow.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("tokenID", token.ID))
		return err
	}
	s.log.Info(
		ctx,
		"Expired password reset token has been deleted.",
		logging.Entry("userID", token.UserID),
		logging.Entry("tokenID", token.ID),
		logging.Entry("expiresAt", token.ExpiresAt),
	)
	return nil
}
