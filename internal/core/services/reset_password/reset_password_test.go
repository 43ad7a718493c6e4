package resetpassword

import (
	c "authfront/internal/core/domain/common"
	e "authfront/internal/core/domain/errors"
	"authfront/internal/core/domain/logging"
	uow "authfront/internal/core/domain/unit_of_work"
	"authfront/internal/core/domain/user"
	"authfront/internal/core/services"
	sendpasswordresettoken "authfront/internal/core/services/send_password_reset_token"
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const (
	EMAIL        = c.Email("user@example.com")
	OLD_PASSWORD = user.RawPassword("oldpass123")
	NEW_PASSWORD = user.RawPassword("newpass123")
	SECRET       = user.PasswordResetSecret("valid-secret")
)

var NOW = time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC)

type testSuite struct {
	suite.Suite
	Logger         *logging.FakeLogger
	UnitOfWork     *uow.FakeUnitOfWork
	PasswordHasher *user.FakePasswordHasher
	Now            time.Time
	Service        services.Service[Input, Result]
	User           user.User
}

func (s *testSuite) SetupTest() {
	s.Logger = logging.NewFakeLogger()
	s.UnitOfWork = uow.NewFakeUnitOfWork()
	s.PasswordHasher = user.NewFakePasswordHasher()
	s.Now = NOW
	s.Service = New(s.Logger, s.UnitOfWork, s.PasswordHasher, func() time.Time { return s.Now })

	oldHash, err := s.PasswordHasher.HashPassword(OLD_PASSWORD)
	s.Require().NoError(err)
	s.User, err = s.UnitOfWork.Context.UserRepository.Create(context.Background(), user.CreateUserInput{
		Email:        c.NewOptional(EMAIL, true),
		PasswordHash: c.NewOptional(oldHash, true),
		CreatedAt:    NOW,
	})
	s.Require().NoError(err)
}

func TestResetPasswordService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) createToken(secret user.PasswordResetSecret, expiresAt time.Time) user.PasswordResetToken {
	token, err := s.UnitOfWork.Context.PasswordResetTokenRepository.Create(
		context.Background(),
		user.CreatePasswordResetTokenInput{
			UserID:    s.User.ID,
			TokenHash: secret.Hash(),
			ExpiresAt: expiresAt,
			CreatedAt: NOW,
		},
	)
	s.Require().NoError(err)
	return token
}

func (s *testSuite) assertPassword(password user.RawPassword) {
	u, err := s.UnitOfWork.Context.UserRepository.GetByID(context.Background(), s.User.ID)
	s.Require().NoError(err)
	s.Require().True(s.PasswordHasher.ValidatePassword(password, u.PasswordHash.Value))
}

func (s *testSuite) TestSuccessExactlyOnce() {
	ctx := context.Background()
	s.createToken(SECRET, NOW.Add(time.Hour))

	result, err := s.Service.Run(ctx, Input{Token: SECRET, NewPassword: NEW_PASSWORD})

	assert := s.Require()
	assert.NoError(err)
	assert.Equal(s.User.ID, result.UserID)
	assert.True(s.UnitOfWork.Context.WasCommitCalled)
	assert.Empty(s.UnitOfWork.Context.PasswordResetTokenRepository.Tokens)
	s.assertPassword(NEW_PASSWORD)

	_, err = s.Service.Run(ctx, Input{Token: SECRET, NewPassword: user.RawPassword("another-pass")})
	assert.ErrorIs(err, user.ErrPasswordResetTokenNotFound)
	s.assertPassword(NEW_PASSWORD)
}

func (s *testSuite) TestTokenValidUntilExpiryInclusive() {
	s.createToken(SECRET, NOW)

	_, err := s.Service.Run(context.Background(), Input{Token: SECRET, NewPassword: NEW_PASSWORD})

	s.Require().NoError(err)
	s.assertPassword(NEW_PASSWORD)
}

func (s *testSuite) TestExpiredTokenIsDeleted() {
	ctx := context.Background()
	s.createToken(SECRET, NOW.Add(time.Hour))
	s.Now = NOW.Add(time.Hour + time.Second)

	_, err := s.Service.Run(ctx, Input{Token: SECRET, NewPassword: NEW_PASSWORD})

	assert := s.Require()
	assert.ErrorIs(err, user.ErrPasswordResetTokenExpired)
	assert.True(s.UnitOfWork.Context.WasCommitCalled)
	assert.Empty(s.UnitOfWork.Context.PasswordResetTokenRepository.Tokens)
	s.assertPassword(OLD_PASSWORD)

	_, err = s.Service.Run(ctx, Input{Token: SECRET, NewPassword: NEW_PASSWORD})
	assert.ErrorIs(err, user.ErrPasswordResetTokenNotFound)
}

func (s *testSuite) TestShortPasswordDoesNotConsumeToken() {
	ctx := context.Background()
	s.createToken(SECRET, NOW.Add(time.Hour))
	s.UnitOfWork.ReturnError = true

	_, err := s.Service.Run(ctx, Input{Token: SECRET, NewPassword: user.RawPassword("short")})

	assert := s.Require()
	var invalidInput *e.InvalidInputError
	assert.ErrorAs(err, &invalidInput)
	assert.Equal("password", invalidInput.Field)
	assert.Len(s.UnitOfWork.Context.PasswordResetTokenRepository.Tokens, 1)

	s.UnitOfWork.ReturnError = false
	_, err = s.Service.Run(ctx, Input{Token: SECRET, NewPassword: NEW_PASSWORD})
	assert.NoError(err)
}

func (s *testSuite) TestEmptyToken() {
	_, err := s.Service.Run(context.Background(), Input{Token: "", NewPassword: NEW_PASSWORD})

	var invalidInput *e.InvalidInputError
	s.Require().ErrorAs(err, &invalidInput)
	s.Require().Equal("token", invalidInput.Field)
}

func (s *testSuite) TestUnknownToken() {
	s.createToken(SECRET, NOW.Add(time.Hour))

	cases := []user.PasswordResetSecret{"unknown", "VALID-SECRET", "valid-secre", "valid-secret "}
	for _, token := range cases {
		s.Run(string(token), func() {
			_, err := s.Service.Run(context.Background(), Input{Token: token, NewPassword: NEW_PASSWORD})
			s.Require().ErrorIs(err, user.ErrPasswordResetTokenNotFound)
		})
	}
	s.Require().Len(s.UnitOfWork.Context.PasswordResetTokenRepository.Tokens, 1)
	s.assertPassword(OLD_PASSWORD)
}

func (s *testSuite) TestStoreFailureKeepsToken() {
	s.createToken(SECRET, NOW.Add(time.Hour))
	s.UnitOfWork.Context.UserRepository.ReturnError = true

	_, err := s.Service.Run(context.Background(), Input{Token: SECRET, NewPassword: NEW_PASSWORD})

	assert := s.Require()
	assert.Error(err)
	assert.False(s.UnitOfWork.Context.WasCommitCalled)
	assert.True(s.UnitOfWork.Context.WasRollbackCalled)
	assert.Len(s.UnitOfWork.Context.PasswordResetTokenRepository.Tokens, 1)
}

func (s *testSuite) TestReissueInvalidatesPreviousToken() {
	ctx := context.Background()
	sender := user.NewFakePasswordResetLinkSender()
	baseURL, err := url.Parse("https://auth.example.com")
	s.Require().NoError(err)
	issuer := sendpasswordresettoken.New(
		s.Logger,
		s.UnitOfWork,
		user.NewFakePasswordResetSecretGenerator("T1", "T2"),
		sender,
		*baseURL,
		60,
		func() time.Time { return s.Now },
	)

	assert := s.Require()
	_, err = issuer.Run(ctx, sendpasswordresettoken.Input{Email: EMAIL})
	assert.NoError(err)
	t1 := sender.LastSent().Secret
	_, err = issuer.Run(ctx, sendpasswordresettoken.Input{Email: EMAIL})
	assert.NoError(err)
	t2 := sender.LastSent().Secret
	assert.NotEqual(t1, t2)

	_, err = s.Service.Run(ctx, Input{Token: t1, NewPassword: NEW_PASSWORD})
	assert.ErrorIs(err, user.ErrPasswordResetTokenNotFound)
	s.assertPassword(OLD_PASSWORD)

	_, err = s.Service.Run(ctx, Input{Token: t2, NewPassword: NEW_PASSWORD})
	assert.NoError(err)
	s.assertPassword(NEW_PASSWORD)

	_, err = s.Service.Run(ctx, Input{Token: t2, NewPassword: NEW_PASSWORD})
	assert.ErrorIs(err, user.ErrPasswordResetTokenNotFound)
}
