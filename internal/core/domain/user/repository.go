package user

import (
	c "authfront/internal/core/domain/common"
	"context"
	"time"
)

type CreateUserInput struct {
	Email        c.Optional[c.Email]
	Phone        c.Optional[c.Phone]
	PasswordHash c.Optional[PasswordHash]
	Name         c.Optional[string]
	Image        c.Optional[string]
	CreatedAt    time.Time
}

type UpsertOAuthUserInput struct {
	Email        c.Email
	// LinkExisting allows signing in to an existing password-less user
	// with the same email.
	LinkExisting bool
	Name         c.Optional[string]
	Image        c.Optional[string]
	CreatedAt    time.Time
}

type UserRepository interface {
	Create(ctx context.Context, input CreateUserInput) (User, error)
	GetByID(ctx context.Context, id ID) (User, error)
	GetByEmail(ctx context.Context, email c.Email) (User, error)
	// GetByEmailForUpdate locks the user row until the surrounding unit of
	// work ends, which serializes changes to the user's reset tokens.
	GetByEmailForUpdate(ctx context.Context, email c.Email) (User, error)
	// GetByEmailOrPhone matches any present value. At least one must be present.
	GetByEmailOrPhone(ctx context.Context, email c.Optional[c.Email], phone c.Optional[c.Phone]) (User, error)
	SetPassword(ctx context.Context, id ID, password PasswordHash) error
	// UpsertOAuthUser creates a password-less user or fills the missing profile
	// fields of the existing user with the same email. An existing user with a
	// password, or any existing user when LinkExisting is false, gives
	// ErrOAuthAccountNotLinked.
	UpsertOAuthUser(ctx context.Context, input UpsertOAuthUserInput) (User, error)
}

type CreatePasswordResetTokenInput struct {
	UserID    ID
	TokenHash PasswordResetTokenHash
	ExpiresAt time.Time
	CreatedAt time.Time
}

type PasswordResetTokenRepository interface {
	Create(ctx context.Context, input CreatePasswordResetTokenInput) (PasswordResetToken, error)
	DeleteByUserID(ctx context.Context, userID ID) (deleted int64, err error)
	// GetByTokenHashForUpdate locks the row until the surrounding unit of work ends.
	GetByTokenHashForUpdate(ctx context.Context, hash PasswordResetTokenHash) (PasswordResetToken, error)
	Delete(ctx context.Context, id PasswordResetTokenID) error
}
