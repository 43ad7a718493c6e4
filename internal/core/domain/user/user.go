package user

import (
	c "authfront/internal/core/domain/common"
	e "authfront/internal/core/domain/errors"
	"fmt"
	"time"
)

type ID int64

type PasswordHash string

func (p PasswordHash) String() string {
	return "***"
}

type RawPassword string

func (p RawPassword) String() string {
	return "***"
}

const MinPasswordLength = 8

func (p RawPassword) IsLongEnough() bool {
	return len([]rune(string(p))) >= MinPasswordLength
}

type User struct {
	ID           ID
	Email        c.Optional[c.Email]
	Phone        c.Optional[c.Phone]
	PasswordHash c.Optional[PasswordHash]
	Name         c.Optional[string]
	Image        c.Optional[string]
	CreatedAt    time.Time
}

func (u *User) Validate() error {
	if !u.Email.IsPresent && !u.Phone.IsPresent {
		return e.NewInvalidStateError(fmt.Sprintf("neither email nor phone is defined for user %d", u.ID))
	}
	if !u.Email.IsPresent && !u.PasswordHash.IsPresent {
		return e.NewInvalidStateError(fmt.Sprintf("password hash is not set for phone user %d", u.ID))
	}
	return nil
}

// HasPassword is false for accounts created through an OAuth provider.
func (u *User) HasPassword() bool {
	return u.PasswordHash.IsPresent && u.PasswordHash.Value != ""
}
