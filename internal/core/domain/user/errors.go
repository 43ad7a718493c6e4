package user

import (
	"errors"
)

var (
	ErrUserAlreadyExists          = errors.New("user already exists")
	ErrUserDoesNotExist           = errors.New("user does not exist")
	ErrInvalidCredentials         = errors.New("invalid credentials")
	ErrInvalidSessionToken        = errors.New("invalid session token")
	ErrPasswordResetTokenNotFound = errors.New("password reset token not found")
	ErrPasswordResetTokenExpired  = errors.New("password reset token expired")
	ErrOAuthProviderNotFound      = errors.New("oauth provider not found")
	ErrOAuthProfileHasNoEmail     = errors.New("oauth profile has no email")
	ErrOAuthAccountNotLinked      = errors.New("oauth account is not linked to the existing user")
)
