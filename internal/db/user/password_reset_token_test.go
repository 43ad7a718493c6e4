package user

import (
	c "authfront/internal/core/domain/common"
	"authfront/internal/core/domain/user"
	"authfront/internal/db"
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/suite"
)

type passwordResetTokenSuite struct {
	suite.Suite
	pool   *pgxpool.Pool
	repo   *PgxPasswordResetTokenRepository
	userID user.ID
}

func (suite *passwordResetTokenSuite) SetupSuite() {
	suite.pool = db.CreateTestPool()
	suite.repo = NewPgxPasswordResetTokenRepository(suite.pool)
}

func (suite *passwordResetTokenSuite) SetupTest() {
	u, err := NewPgxRepository(suite.pool).Create(context.Background(), user.CreateUserInput{
		Email:        c.NewOptional(EMAIL, true),
		PasswordHash: c.NewOptional(PASSWORD_HASH, true),
		CreatedAt:    NOW,
	})
	suite.Require().Nil(err)
	suite.userID = u.ID
}

func (suite *passwordResetTokenSuite) TearDownSuite() {
	suite.pool.Close()
}

func (suite *passwordResetTokenSuite) TearDownTest() {
	db.TruncateTables(suite.pool)
}

func TestPgxPasswordResetTokenRepository(t *testing.T) {
	suite.Run(t, new(passwordResetTokenSuite))
}

func (suite *passwordResetTokenSuite) create(secret user.PasswordResetSecret) user.PasswordResetToken {
	token, err := suite.repo.Create(context.Background(), user.CreatePasswordResetTokenInput{
		UserID:    suite.userID,
		TokenHash: secret.Hash(),
		ExpiresAt: NOW.Add(time.Hour),
		CreatedAt: NOW,
	})
	suite.Require().Nil(err)
	return token
}

func (suite *passwordResetTokenSuite) TestCreateAndGet() {
	created := suite.create("secret")

	token, err := suite.repo.GetByTokenHashForUpdate(context.Background(), user.PasswordResetSecret("secret").Hash())

	assert := suite.Require()
	assert.Nil(err)
	assert.Equal(created, token)
	assert.Equal(suite.userID, token.UserID)
	assert.Equal(NOW.Add(time.Hour), token.ExpiresAt)
	assert.Equal(NOW, token.CreatedAt)
}

func (suite *passwordResetTokenSuite) TestGetUnknownHash() {
	suite.create("secret")

	_, err := suite.repo.GetByTokenHashForUpdate(context.Background(), user.PasswordResetSecret("other").Hash())

	suite.Require().ErrorIs(err, user.ErrPasswordResetTokenNotFound)
}

func (suite *passwordResetTokenSuite) TestDeleteByUserID() {
	ctx := context.Background()
	suite.create("first")
	suite.create("second")

	deleted, err := suite.repo.DeleteByUserID(ctx, suite.userID)

	assert := suite.Require()
	assert.Nil(err)
	assert.Equal(int64(2), deleted)
	_, err = suite.repo.GetByTokenHashForUpdate(ctx, user.PasswordResetSecret("first").Hash())
	assert.ErrorIs(err, user.ErrPasswordResetTokenNotFound)
}

func (suite *passwordResetTokenSuite) TestDelete() {
	ctx := context.Background()
	token := suite.create("secret")

	assert := suite.Require()
	assert.Nil(suite.repo.Delete(ctx, token.ID))
	assert.ErrorIs(suite.repo.Delete(ctx, token.ID), user.ErrPasswordResetTokenNotFound)
}

func (suite *passwordResetTokenSuite) TestTokensAreDeletedWithUser() {
	ctx := context.Background()
	suite.create("secret")

	_, err := suite.pool.Exec(ctx, `DELETE FROM "user" WHERE id = $1`, int64(suite.userID))
	suite.Require().Nil(err)

	_, err = suite.repo.GetByTokenHashForUpdate(ctx, user.PasswordResetSecret("secret").Hash())
	suite.Require().ErrorIs(err, user.ErrPasswordResetTokenNotFound)
}
