package session

import (
	c "authfront/internal/core/domain/common"
	"authfront/internal/core/domain/user"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "authfront"

type claims struct {
	jwt.RegisteredClaims
	Phone string `json:"phone,omitempty"`
}

// JWT issues HS256-signed session tokens that carry the user ID as subject.
type JWT struct {
	secret []byte
	now    func() time.Time
}

func NewJWT(secret string, now func() time.Time) *JWT {
	if secret == "" {
		panic("Argument secret must not be empty.")
	}
	if now == nil {
		panic("Argument now must not be nil.")
	}
	return &JWT{secret: []byte(secret), now: now}
}

func (j *JWT) IssueSessionToken(u user.User, maxAge time.Duration) (user.SessionToken, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(int64(u.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(maxAge)),
		},
		Phone: string(u.Phone.Value),
	})
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", err
	}
	return user.SessionToken(signed), nil
}

func (j *JWT) ParseSessionToken(token user.SessionToken) (s user.Session, err error) {
	parsed := &claims{}
	t, err := jwt.ParseWithClaims(
		string(token),
		parsed,
		func(t *jwt.Token) (interface{}, error) { return j.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return s, errors.Join(user.ErrInvalidSessionToken, err)
	}
	if !t.Valid {
		return s, user.ErrInvalidSessionToken
	}
	id, err := strconv.ParseInt(parsed.Subject, 10, 64)
	if err != nil {
		return s, user.ErrInvalidSessionToken
	}
	return user.Session{
		UserID:    user.ID(id),
		Phone:     c.NewOptional(c.Phone(parsed.Phone), parsed.Phone != ""),
		ExpiresAt: parsed.ExpiresAt.Time,
	}, nil
}
