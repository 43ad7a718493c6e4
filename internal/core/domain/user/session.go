package user

import (
	c "authfront/internal/core/domain/common"
	"time"
)

type SessionToken string

type Session struct {
	UserID    ID
	Phone     c.Optional[c.Phone]
	ExpiresAt time.Time
}

type SessionTokenIssuer interface {
	IssueSessionToken(u User, maxAge time.Duration) (SessionToken, error)
	ParseSessionToken(token SessionToken) (Session, error)
}

const (
	RememberedSessionMaxAge = 30 * 24 * time.Hour
	SessionMaxAge           = 24 * time.Hour
)
