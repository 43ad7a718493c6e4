package outboxtoken

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeneratedTokenIsValid(t *testing.T) {
	cases := []struct {
		secretKey string
	}{
		{secretKey: "test-1"},
		{secretKey: "test-2"},
		{secretKey: "test-3"},
	}

	for _, testCase := range cases {
		t.Run(testCase.secretKey, func(t *testing.T) {
			g := NewHMAC(testCase.secretKey)

			token, err := g.GenerateOutboxToken()
			require.Nil(t, err)
			require.True(t, g.ValidateOutboxToken(token), token)
		})
	}
}

func TestTokensDiffer(t *testing.T) {
	g := NewHMAC("test")

	first, err := g.GenerateOutboxToken()
	require.Nil(t, err)
	second, err := g.GenerateOutboxToken()
	require.Nil(t, err)

	require.NotEqual(t, first, second)
}

func TestTokenOfOtherKeyIsInvalid(t *testing.T) {
	token, err := NewHMAC("one").GenerateOutboxToken()
	require.Nil(t, err)

	require.False(t, NewHMAC("two").ValidateOutboxToken(token))
}

func TestMalformedTokens(t *testing.T) {
	g := NewHMAC("test")

	for _, token := range []string{
		"",
		"not base64 !",
		base64.RawURLEncoding.EncodeToString([]byte("no-separator-mac")),
		base64.RawURLEncoding.EncodeToString([]byte("-abc")),
		base64.RawURLEncoding.EncodeToString([]byte("nodash")),
	} {
		require.False(t, g.ValidateOutboxToken(token), token)
	}
}
