package login

import (
	c "authfront/internal/core/domain/common"
	e "authfront/internal/core/domain/errors"
	"authfront/internal/core/domain/logging"
	"authfront/internal/core/domain/user"
	"authfront/internal/core/services"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const (
	EMAIL    = c.Email("test@example.com")
	PHONE    = c.Phone("+201001234567")
	PASSWORD = user.RawPassword("test-password")
)

var NOW = time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)

type testSuite struct {
	suite.Suite
	Logger         *logging.FakeLogger
	UserRepository *user.FakeUserRepository
	PasswordHasher *user.FakePasswordHasher
	SessionIssuer  *user.FakeSessionTokenIssuer
	Service        services.Service[Input, Result]
	User           user.User
}

func (suite *testSuite) SetupTest() {
	suite.Logger = logging.NewFakeLogger()
	suite.UserRepository = user.NewFakeUserRepository()
	suite.PasswordHasher = user.NewFakePasswordHasher()
	suite.SessionIssuer = user.NewFakeSessionTokenIssuer(func() time.Time { return NOW })
	suite.Service = New(suite.Logger, suite.UserRepository, suite.PasswordHasher, suite.SessionIssuer)

	passwordHash, err := suite.PasswordHasher.HashPassword(PASSWORD)
	suite.Require().Nil(err)
	suite.User, err = suite.UserRepository.Create(context.Background(), user.CreateUserInput{
		Email:        c.NewOptional(EMAIL, true),
		Phone:        c.NewOptional(PHONE, true),
		PasswordHash: c.NewOptional(passwordHash, true),
		CreatedAt:    NOW,
	})
	suite.Require().Nil(err)
}

func TestLogInService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (suite *testSuite) TestSuccessByEmail() {
	result, err := suite.Service.Run(context.Background(), Input{EmailOrPhone: " Test@Example.com ", Password: PASSWORD})

	assert := suite.Require()
	assert.Nil(err)
	assert.Equal(suite.User.ID, result.User.ID)
	session, err := suite.SessionIssuer.ParseSessionToken(result.Token)
	assert.Nil(err)
	assert.Equal(suite.User.ID, session.UserID)
	assert.Equal(NOW.Add(user.SessionMaxAge), session.ExpiresAt)
}

func (suite *testSuite) TestSuccessByPhoneWithRememberMe() {
	result, err := suite.Service.Run(context.Background(), Input{
		EmailOrPhone: "+20 100-123-4567",
		Password:     PASSWORD,
		RememberMe:   true,
	})

	assert := suite.Require()
	assert.Nil(err)
	session, err := suite.SessionIssuer.ParseSessionToken(result.Token)
	assert.Nil(err)
	assert.Equal(PHONE, session.Phone.Value)
	assert.Equal(NOW.Add(user.RememberedSessionMaxAge), session.ExpiresAt)
}

func (suite *testSuite) TestInvalidCredentials() {
	cases := []Input{
		{EmailOrPhone: string(EMAIL), Password: "wrong-password"},
		{EmailOrPhone: "unknown@example.com", Password: PASSWORD},
		{EmailOrPhone: "+201009999999", Password: PASSWORD},
	}
	for _, input := range cases {
		_, err := suite.Service.Run(context.Background(), input)
		suite.Require().ErrorIs(err, user.ErrInvalidCredentials)
	}
	suite.Require().Empty(suite.SessionIssuer.Issued)
}

func (suite *testSuite) TestOAuthUserCannotUseCredentials() {
	ctx := context.Background()
	_, err := suite.UserRepository.UpsertOAuthUser(ctx, user.UpsertOAuthUserInput{
		Email:     c.Email("oauth@example.com"),
		CreatedAt: NOW,
	})
	suite.Require().Nil(err)

	_, err = suite.Service.Run(ctx, Input{EmailOrPhone: "oauth@example.com", Password: PASSWORD})

	suite.Require().ErrorIs(err, user.ErrInvalidCredentials)
}

func (suite *testSuite) TestInvalidIdentifier() {
	for _, value := range []string{"", "   ", "not-an-email", "123"} {
		_, err := suite.Service.Run(context.Background(), Input{EmailOrPhone: value, Password: PASSWORD})

		var invalidInput *e.InvalidInputError
		suite.Require().ErrorAs(err, &invalidInput)
		suite.Require().Equal("emailOrPhone", invalidInput.Field)
	}
}

func (suite *testSuite) TestRateLimitKeyIsCaseInsensitive() {
	assert := suite.Require()
	assert.Equal(
		Input{EmailOrPhone: "Test@Example.com"}.GetRateLimitKey(),
		Input{EmailOrPhone: " test@example.com"}.GetRateLimitKey(),
	)
}
