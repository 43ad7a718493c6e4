package outbox

import (
	"authfront/internal/core/domain/logging"
	"authfront/internal/core/domain/user"
	"authfront/internal/implementations/email"
	outboxtoken "authfront/internal/implementations/outbox_token"
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/r3labs/sse/v2"
	"github.com/stretchr/testify/require"
)

func TestInvalidToken(t *testing.T) {
	server := sse.New()
	defer server.Close()
	h := New(logging.NewFakeLogger(), server, outboxtoken.NewHMAC("secret"))

	for _, target := range []string{"/internal/outbox", "/internal/outbox?token=forged"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

		require.Equal(t, http.StatusNotFound, rec.Code, target)
	}
}

func TestStreamsLoggedLinks(t *testing.T) {
	server := sse.New()
	server.AutoReplay = false
	defer server.Close()
	log := logging.NewFakeLogger()
	sender := email.NewLogSender(log, server)
	tokens := outboxtoken.NewHMAC("secret")
	token, err := tokens.GenerateOutboxToken()
	require.Nil(t, err)

	httpServer := httptest.NewServer(New(log, server, tokens))
	defer httpServer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, httpServer.URL+"?token="+token, nil)
	require.Nil(t, err)
	res, err := http.DefaultClient.Do(req)
	require.Nil(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	_, err = sender.SendPasswordResetLink(ctx, user.SendPasswordResetLinkInput{
		Email: "user@example.com",
		URL:   "https://auth.example.com/auth/reset?token=secret",
	})
	require.Nil(t, err)

	reader := bufio.NewReader(res.Body)
	for {
		line, err := reader.ReadString('\n')
		require.Nil(t, err)
		if strings.HasPrefix(line, "data:") {
			require.Contains(t, line, `"email":"user@example.com"`)
			require.Contains(t, line, `"url":"https://auth.example.com/auth/reset?token=secret"`)
			return
		}
	}
}
