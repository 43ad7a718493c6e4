package signup

import (
	c "authfront/internal/core/domain/common"
	e "authfront/internal/core/domain/errors"
	"authfront/internal/core/domain/logging"
	uow "authfront/internal/core/domain/unit_of_work"
	"authfront/internal/core/domain/user"
	"authfront/internal/core/services"
	"context"
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type Input struct {
	Email    c.Optional[c.Email]
	Phone    c.Optional[c.Phone]
	Password user.RawPassword
	Name     c.Optional[string]
}

func (i Input) validate() error {
	if !i.Email.IsPresent && !i.Phone.IsPresent {
		return e.NewInvalidInputError("email", "email or phone is required")
	}
	if i.Email.IsPresent {
		if err := validation.Validate(string(i.Email.Value), validation.Required, is.Email); err != nil {
			return e.NewInvalidInputError("email", err.Error())
		}
	}
	if i.Phone.IsPresent && !i.Phone.Value.IsValid() {
		return e.NewInvalidInputError("phone", "must be 10 to 15 digits")
	}
	if !i.Password.IsLongEnough() {
		return e.NewInvalidInputError("password", "is too short")
	}
	return nil
}

type Result struct {
	User user.User
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
	if err := input.validate(); err != nil {
		return result, err
	}

	passwordHash, err := s.passwordHasher.HashPassword(input.Password)
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

	_, err = uow.Users().GetByEmailOrPhone(ctx, input.Email, input.Phone)
	if err == nil {
		s.log.Info(
			ctx,
			"User with the email or phone already exists.",
			logging.Entry("email", input.Email),
			logging.Entry("phone", input.Phone),
		)
		return result, user.ErrUserAlreadyExists
	}
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if !errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Error(ctx, "Could not look up existing user.", logging.Entry("err", err))
		return result, err
	}

	createdUser, err := uow.Users().Create(ctx, user.CreateUserInput{
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: c.NewOptional(passwordHash, true),
		Name:         input.Name,
		CreatedAt:    s.now(),
	})
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserAlreadyExists) {
		s.log.Info(ctx, "User has been created concurrently.", logging.Entry("email", input.Email))
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not create new user.", logging.Entry("err", err))
		return result, err
	}

	err = uow.Commit(ctx)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not commit unit of work.", logging.Entry("err", err))
		return result, err
	}

	s.log.Info(ctx, "New user has been created.", logging.Entry("userID", createdUser.ID))
	return Result{User: createdUser}, nil
}
