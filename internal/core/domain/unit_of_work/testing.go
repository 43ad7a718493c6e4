package uow

import (
	"authfront/internal/core/domain/user"
	"context"
	"errors"
)

type FakeUnitOfWorkContext struct {
	UserRepository               *user.FakeUserRepository
	PasswordResetTokenRepository *user.FakePasswordResetTokenRepository
	WasRollbackCalled            bool
	WasCommitCalled              bool
	CommitCount                  int
}

func NewFakeUnitOfWorkContext(
	userRepository *user.FakeUserRepository,
	passwordResetTokenRepository *user.FakePasswordResetTokenRepository,
) *FakeUnitOfWorkContext {
	return &FakeUnitOfWorkContext{
		UserRepository:               userRepository,
		PasswordResetTokenRepository: passwordResetTokenRepository,
	}
}

func (c *FakeUnitOfWorkContext) Rollback(ctx context.Context) error {
	c.WasRollbackCalled = true
	return nil
}

func (c *FakeUnitOfWorkContext) Commit(ctx context.Context) error {
	c.WasCommitCalled = true
	c.CommitCount++
	return nil
}

func (c *FakeUnitOfWorkContext) Users() user.UserRepository {
	return c.UserRepository
}

func (c *FakeUnitOfWorkContext) PasswordResetTokens() user.PasswordResetTokenRepository {
	return c.PasswordResetTokenRepository
}

type FakeUnitOfWork struct {
	Context     *FakeUnitOfWorkContext
	ReturnError bool
}

func NewFakeUnitOfWork() *FakeUnitOfWork {
	return &FakeUnitOfWork{
		Context: NewFakeUnitOfWorkContext(
			user.NewFakeUserRepository(),
			user.NewFakePasswordResetTokenRepository(),
		),
	}
}

func (u *FakeUnitOfWork) Begin(ctx context.Context) (Context, error) {
	if u.ReturnError {
		return nil, errors.New("could not begin unit of work")
	}
	return u.Context, nil
}
