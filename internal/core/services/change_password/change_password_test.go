package changepassword

import (
	c "authfront/internal/core/domain/common"
	e "authfront/internal/core/domain/errors"
	"authfront/internal/core/domain/logging"
	uow "authfront/internal/core/domain/unit_of_work"
	"authfront/internal/core/domain/user"
	"authfront/internal/core/services"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const (
	CURRENT_PASSWORD = user.RawPassword("current123")
	NEW_PASSWORD     = user.RawPassword("brand-new-123")
)

var NOW = time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC)

type testSuite struct {
	suite.Suite
	Logger         *logging.FakeLogger
	UnitOfWork     *uow.FakeUnitOfWork
	PasswordHasher *user.FakePasswordHasher
	Service        services.Service[Input, Result]
	User           user.User
}

func (s *testSuite) SetupTest() {
	s.Logger = logging.NewFakeLogger()
	s.UnitOfWork = uow.NewFakeUnitOfWork()
	s.PasswordHasher = user.NewFakePasswordHasher()
	s.Service = New(s.Logger, s.UnitOfWork, s.PasswordHasher)

	hash, err := s.PasswordHasher.HashPassword(CURRENT_PASSWORD)
	s.Require().NoError(err)
	s.User, err = s.UnitOfWork.Context.UserRepository.Create(context.Background(), user.CreateUserInput{
		Email:        c.NewOptional(c.Email("user@example.com"), true),
		PasswordHash: c.NewOptional(hash, true),
		CreatedAt:    NOW,
	})
	s.Require().NoError(err)
}

func TestChangePasswordService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) storedHash() user.PasswordHash {
	u, err := s.UnitOfWork.Context.UserRepository.GetByID(context.Background(), s.User.ID)
	s.Require().NoError(err)
	return u.PasswordHash.Value
}

func (s *testSuite) TestPasswordChanged() {
	_, err := s.Service.Run(context.Background(), Input{
		CurrentPassword: CURRENT_PASSWORD,
		NewPassword:     NEW_PASSWORD,
		User:            s.User,
	})

	s.Require().NoError(err)
	s.Require().True(s.PasswordHasher.ValidatePassword(NEW_PASSWORD, s.storedHash()))
	s.Require().True(s.UnitOfWork.Context.WasCommitCalled)
}

func (s *testSuite) TestOutstandingResetTokensAreRevoked() {
	tokens := s.UnitOfWork.Context.PasswordResetTokenRepository
	_, err := tokens.Create(context.Background(), user.CreatePasswordResetTokenInput{
		UserID:    s.User.ID,
		TokenHash: user.PasswordResetSecret("outstanding").Hash(),
		ExpiresAt: NOW.Add(time.Hour),
		CreatedAt: NOW,
	})
	s.Require().NoError(err)

	_, err = s.Service.Run(context.Background(), Input{
		CurrentPassword: CURRENT_PASSWORD,
		NewPassword:     NEW_PASSWORD,
		User:            s.User,
	})

	s.Require().NoError(err)
	s.Require().Equal(0, tokens.CountByUserID(s.User.ID))
}

func (s *testSuite) TestWrongCurrentPassword() {
	_, err := s.Service.Run(context.Background(), Input{
		CurrentPassword: "not-the-password",
		NewPassword:     NEW_PASSWORD,
		User:            s.User,
	})

	s.Require().ErrorIs(err, user.ErrInvalidCredentials)
	s.Require().True(s.PasswordHasher.ValidatePassword(CURRENT_PASSWORD, s.storedHash()))
	s.Require().False(s.UnitOfWork.Context.WasCommitCalled)
}

func (s *testSuite) TestUserWithoutPassword() {
	oauthUser := s.User
	oauthUser.PasswordHash = c.Optional[user.PasswordHash]{}

	_, err := s.Service.Run(context.Background(), Input{
		CurrentPassword: CURRENT_PASSWORD,
		NewPassword:     NEW_PASSWORD,
		User:            oauthUser,
	})

	s.Require().ErrorIs(err, user.ErrInvalidCredentials)
}

func (s *testSuite) TestNewPasswordTooShort() {
	_, err := s.Service.Run(context.Background(), Input{
		CurrentPassword: CURRENT_PASSWORD,
		NewPassword:     "short",
		User:            s.User,
	})

	var invalidInput *e.InvalidInputError
	s.Require().ErrorAs(err, &invalidInput)
	s.Require().True(s.PasswordHasher.ValidatePassword(CURRENT_PASSWORD, s.storedHash()))
}

func (s *testSuite) TestStoreErrorIsLogged() {
	s.UnitOfWork.Context.UserRepository.ReturnError = true

	_, err := s.Service.Run(context.Background(), Input{
		CurrentPassword: CURRENT_PASSWORD,
		NewPassword:     NEW_PASSWORD,
		User:            s.User,
	})

	s.Require().Error(err)
	s.Require().True(s.UnitOfWork.Context.WasRollbackCalled)
	s.Require().Equal(1, s.Logger.CountByLevel(logging.ERROR))
}
