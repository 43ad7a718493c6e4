package getuserbysessiontoken

import (
	e "authfront/internal/core/domain/errors"
	"authfront/internal/core/domain/logging"
	"authfront/internal/core/domain/user"
	"authfront/internal/core/services"
	"context"
	"errors"
)

type Input struct {
	Token user.SessionToken
}

type Result struct {
	User user.User
}

type service struct {
	log            logging.Logger
	sessionIssuer  user.SessionTokenIssuer
	userRepository user.UserRepository
}

func New(
	log logging.Logger,
	sessionIssuer user.SessionTokenIssuer,
	userRepository user.UserRepository,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if sessionIssuer == nil {
		panic(e.NewNilArgumentError("sessionIssuer"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	return &service{
		log:            log,
		sessionIssuer:  sessionIssuer,
		userRepository: userRepository,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.Token == "" {
		return result, user.ErrInvalidSessionToken
	}
	session, err := s.sessionIssuer.ParseSessionToken(input.Token)
	if err != nil {
		return result, user.ErrInvalidSessionToken
	}

	u, err := s.userRepository.GetByID(ctx, session.UserID)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Warning(ctx, "Session token refers to a deleted user.", logging.Entry("userID", session.UserID))
		return result, user.ErrInvalidSessionToken
	}
	if err != nil {
		s.log.Error(ctx, "Could not get user by ID.", logging.Entry("userID", session.UserID), logging.Entry("err", err))
		return result, err
	}
	return Result{User: u}, nil
}
