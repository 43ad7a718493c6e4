package logging

import (
	"authfront/internal/core/domain/logging"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestEntriesBecomeFields(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	log := newZapLogger(zap.New(core))

	ctx := WithRequestID(context.Background(), "req-1")
	log.Info(ctx, "Password reset token has been issued.", logging.Entry("userID", 42))
	log.Error(ctx, "Could not send password reset link.", logging.Entry("err", errors.New("boom")))

	entries := observed.AllUntimed()
	require.Len(t, entries, 2)
	require.Equal(t, zapcore.InfoLevel, entries[0].Level)
	require.Equal(t, "Password reset token has been issued.", entries[0].Message)
	fields := entries[0].ContextMap()
	require.Equal(t, "req-1", fields["requestID"])
	require.EqualValues(t, 42, fields["userID"])
	require.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	require.Equal(t, "boom", entries[1].ContextMap()["err"])
}

func TestWithoutRequestID(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	log := newZapLogger(zap.New(core))

	log.Warning(context.Background(), "Rate limit exceeded.", logging.Entry("key", "k"))

	fields := observed.AllUntimed()[0].ContextMap()
	_, ok := fields["requestID"]
	require.False(t, ok)
	require.Equal(t, "k", fields["key"])
}
