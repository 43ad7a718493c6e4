package randomstringgenerator

import (
	"authfront/internal/core/domain/user"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

const PasswordResetSecretBytes = 32

type Generator struct {
	source io.Reader
}

func NewGenerator() *Generator {
	return &Generator{source: rand.Reader}
}

// GeneratePasswordResetSecret returns 32 bytes from crypto/rand, hex encoded.
func (g *Generator) GeneratePasswordResetSecret() (user.PasswordResetSecret, error) {
	b := make([]byte, PasswordResetSecretBytes)
	if _, err := io.ReadFull(g.source, b); err != nil {
		return "", fmt.Errorf("could not read random bytes: %w", err)
	}
	return user.PasswordResetSecret(hex.EncodeToString(b)), nil
}

// GenerateState returns an opaque value for the OAuth state cookie.
func (g *Generator) GenerateState() (string, error) {
	b := make([]byte, 16)
	if _, err := io.ReadFull(g.source, b); err != nil {
		return "", fmt.Errorf("could not read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
