package user

import (
	c "authfront/internal/core/domain/common"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// PasswordResetSecret is the value mailed to the user. Only its hash is stored.
type PasswordResetSecret string

func (s PasswordResetSecret) String() string {
	return "***"
}

func (s PasswordResetSecret) Hash() PasswordResetTokenHash {
	sum := sha256.Sum256([]byte(s))
	return PasswordResetTokenHash(hex.EncodeToString(sum[:]))
}

type PasswordResetTokenHash string

type PasswordResetTokenID uuid.UUID

func NewPasswordResetTokenID() PasswordResetTokenID {
	return PasswordResetTokenID(uuid.New())
}

func (id PasswordResetTokenID) String() string {
	return uuid.UUID(id).String()
}

type PasswordResetToken struct {
	ID        PasswordResetTokenID
	UserID    ID
	TokenHash PasswordResetTokenHash
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (t PasswordResetToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

type PasswordResetSecretGenerator interface {
	GeneratePasswordResetSecret() (PasswordResetSecret, error)
}

type SendPasswordResetLinkInput struct {
	Email  c.Email
	Secret PasswordResetSecret
	URL    string
}

// SendResult.WasLogged means no delivery channel is configured and the link
// was only recorded for operators.
type SendResult struct {
	WasLogged bool
}

type PasswordResetLinkSender interface {
	SendPasswordResetLink(ctx context.Context, input SendPasswordResetLinkInput) (SendResult, error)
}

func BuildPasswordResetURL(baseURL url.URL, secret PasswordResetSecret) string {
	resetURL := baseURL.JoinPath("auth", "reset")
	query := url.Values{}
	query.Set("token", string(secret))
	resetURL.RawQuery = query.Encode()
	return resetURL.String()
}
