package email

import (
	"authfront/internal/core/domain/logging"
	"authfront/internal/core/domain/user"
	"context"
	"encoding/json"

	"github.com/r3labs/sse/v2"
)

const OutboxStream = "outbox"

type outboxEvent struct {
	Email string `json:"email"`
	URL   string `json:"url"`
}

// LogSender is used when no email provider is configured. Links are written
// to the log and, if an SSE server is given, published to OutboxStream.
type LogSender struct {
	log       logging.Logger
	sseServer *sse.Server
}

func NewLogSender(log logging.Logger, sseServer *sse.Server) *LogSender {
	if log == nil {
		panic("Argument log must not be nil.")
	}
	if sseServer != nil && !sseServer.StreamExists(OutboxStream) {
		sseServer.CreateStream(OutboxStream)
	}
	return &LogSender{log: log, sseServer: sseServer}
}

func (s *LogSender) SendPasswordResetLink(
	ctx context.Context,
	input user.SendPasswordResetLinkInput,
) (user.SendResult, error) {
	s.log.Info(
		ctx,
		"Password reset link is not delivered, no email provider configured.",
		logging.Entry("email", input.Email),
		logging.Entry("url", input.URL),
	)
	if s.sseServer != nil {
		data, err := json.Marshal(outboxEvent{Email: string(input.Email), URL: input.URL})
		if err != nil {
			return user.SendResult{}, err
		}
		s.sseServer.Publish(OutboxStream, &sse.Event{Data: data})
	}
	return user.SendResult{WasLogged: true}, nil
}
