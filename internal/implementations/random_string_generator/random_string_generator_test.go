package randomstringgenerator

import (
	"authfront/internal/core/domain/user"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

var hexSecret = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestPasswordResetSecretGenerator(t *testing.T) {
	generator := NewGenerator()
	secrets := make(map[user.PasswordResetSecret]struct{})
	for i := 0; i < 100; i++ {
		secret, err := generator.GeneratePasswordResetSecret()
		require.Nil(t, err)
		require.Regexp(t, hexSecret, string(secret))
		_, ok := secrets[secret]
		require.False(t, ok, "secret %d is repeated", i)
		secrets[secret] = struct{}{}
	}
}

func TestStateGenerator(t *testing.T) {
	generator := NewGenerator()
	first, err := generator.GenerateState()
	require.Nil(t, err)
	second, err := generator.GenerateState()
	require.Nil(t, err)
	require.Len(t, first, 32)
	require.NotEqual(t, first, second)
}

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("entropy source is broken")
}

func TestRandomSourceFailure(t *testing.T) {
	generator := &Generator{source: failingReader{}}
	_, err := generator.GeneratePasswordResetSecret()
	require.Error(t, err)
}
