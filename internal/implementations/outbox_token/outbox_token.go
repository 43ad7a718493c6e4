package outboxtoken

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

const saltLength = 8

// HMAC issues tokens that grant read access to the operator outbox stream.
// A token is the base64 of "<salt>-<hex mac of salt>".
type HMAC struct {
	secretKey []byte
}

func NewHMAC(secretKey string) *HMAC {
	if secretKey == "" {
		panic("secret key must not be empty")
	}
	return &HMAC{
		secretKey: []byte(secretKey),
	}
}

func (h *HMAC) GenerateOutboxToken() (string, error) {
	salt, err := randomSalt()
	if err != nil {
		return "", err
	}
	mac := h.getMac(salt)
	return base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf("%s-%s", salt, mac))), nil
}

func (h *HMAC) ValidateOutboxToken(token string) bool {
	decodedToken, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return false
	}
	salt, mac, ok := strings.Cut(string(decodedToken), "-")
	if !ok || salt == "" {
		return false
	}
	return hmac.Equal([]byte(h.getMac(salt)), []byte(mac))
}

func (h *HMAC) getMac(salt string) string {
	hasher := hmac.New(sha256.New, h.secretKey)
	hasher.Write([]byte(salt))
	return hex.EncodeToString(hasher.Sum(nil))
}

func randomSalt() (string, error) {
	b := make([]byte, saltLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
