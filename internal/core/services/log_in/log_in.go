package login

import (
	c "authfront/internal/core/domain/common"
	e "authfront/internal/core/domain/errors"
	"authfront/internal/core/domain/logging"
	"authfront/internal/core/domain/user"
	"authfront/internal/core/services"
	"context"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Input.EmailOrPhone is tried as an email first and as a phone number otherwise.
type Input struct {
	EmailOrPhone string
	Password     user.RawPassword
	RememberMe   bool
}

func (i Input) GetRateLimitKey() string {
	return "log-in::" + strings.ToLower(strings.TrimSpace(i.EmailOrPhone))
}

func (i Input) identifier() (email c.Optional[c.Email], phone c.Optional[c.Phone], err error) {
	value := strings.TrimSpace(i.EmailOrPhone)
	if value == "" {
		return email, phone, e.NewInvalidInputError("emailOrPhone", "must not be empty")
	}
	if candidate := c.NewEmail(value); validation.Validate(string(candidate), is.Email) == nil {
		return c.NewOptional(candidate, true), phone, nil
	}
	if p := c.NewPhone(value); p.IsValid() {
		return email, c.NewOptional(p, true), nil
	}
	return email, phone, e.NewInvalidInputError("emailOrPhone", "must be an email or a phone number")
}

type Result struct {
	User  user.User
	Token user.SessionToken
}

type service struct {
	log            logging.Logger
	userRepository user.UserRepository
	passwordHasher user.PasswordHasher
	sessionIssuer  user.SessionTokenIssuer
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	passwordHasher user.PasswordHasher,
	sessionIssuer user.SessionTokenIssuer,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	if sessionIssuer == nil {
		panic(e.NewNilArgumentError("sessionIssuer"))
	}
	return &service{
		log:            log,
		userRepository: userRepository,
		passwordHasher: passwordHasher,
		sessionIssuer:  sessionIssuer,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	email, phone, err := input.identifier()
	if err != nil {
		return result, err
	}

	u, err := s.userRepository.GetByEmailOrPhone(ctx, email, phone)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		// Minimize risk for timing attacks
		s.passwordHasher.HashPassword(input.Password)
		return result, user.ErrInvalidCredentials
	}
	if err != nil {
		s.log.Error(ctx, "Could not get user by email or phone.", logging.Entry("err", err))
		return result, err
	}
	if !u.HasPassword() {
		s.log.Info(ctx, "Credentials login attempt for OAuth-only user.", logging.Entry("userID", u.ID))
		return result, user.ErrInvalidCredentials
	}
	if !s.passwordHasher.ValidatePassword(input.Password, u.PasswordHash.Value) {
		return result, user.ErrInvalidCredentials
	}

	maxAge := user.SessionMaxAge
	if input.RememberMe {
		maxAge = user.RememberedSessionMaxAge
	}
	token, err := s.sessionIssuer.IssueSessionToken(u, maxAge)
	if err != nil {
		s.log.Error(
			ctx,
			"Could not issue session token for user.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(
		ctx,
		"User successfully authenticated, session token issued.",
		logging.Entry("userID", u.ID),
		logging.Entry("rememberMe", input.RememberMe),
	)
	return Result{User: u, Token: token}, nil
}
