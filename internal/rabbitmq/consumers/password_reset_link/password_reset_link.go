package passwordresetlink

import (
	"authfront/internal/core/domain/common"
	e "authfront/internal/core/domain/errors"
	"authfront/internal/core/domain/logging"
	"authfront/internal/core/domain/user"
	"authfront/internal/rabbitmq"
	"authfront/internal/rabbitmq/schema"
	"context"

	"github.com/rabbitmq/amqp091-go"
)

// Consumer delivers queued reset links through the configured email sender.
// Failed deliveries are logged and acknowledged; there are no retries.
type Consumer struct {
	log     logging.Logger
	channel *rabbitmq.Channel
	queue   string
	sender  user.PasswordResetLinkSender
}

func New(
	log logging.Logger,
	channel *rabbitmq.Channel,
	queue string,
	sender user.PasswordResetLinkSender,
) *Consumer {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	if queue == "" {
		panic("queue name must not be empty")
	}
	if sender == nil {
		panic(e.NewNilArgumentError("sender"))
	}

	return &Consumer{log: log, channel: channel, queue: queue, sender: sender}
}

func (c *Consumer) Consume() error {
	if err := c.channel.DeclareQueue(c.queue); err != nil {
		c.log.Error(context.Background(), "Could not declare queue.", logging.Entry("err", err))
		return err
	}
	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		c.log.Error(context.Background(), "Could not start consuming.", logging.Entry("err", err))
		return err
	}

	go func() {
		for delivery := range deliveries {
			c.handle(context.Background(), delivery.Body)
			c.Ack(delivery)
		}
	}()
	return nil
}

func (c *Consumer) handle(ctx context.Context, body []byte) {
	link := &schema.PasswordResetLink{}
	if err := link.Unmarshal(body); err != nil {
		c.log.Error(ctx, "Could not unmarshal password reset link.", logging.Entry("err", err))
		return
	}

	c.log.Info(
		ctx,
		"Got password reset link for sending.",
		logging.Entry("email", link.Email),
		logging.Entry("enqueuedAt", link.EnqueuedAt),
	)
	_, err := c.sender.SendPasswordResetLink(ctx, user.SendPasswordResetLinkInput{
		Email:  common.Email(link.Email),
		Secret: user.PasswordResetSecret(link.Secret),
		URL:    link.URL,
	})
	if err != nil {
		c.log.Error(
			ctx,
			"Could not send password reset link.",
			logging.Entry("email", link.Email),
			logging.Entry("err", err),
		)
	}
}

func (c *Consumer) Ack(delivery amqp091.Delivery) {
	if err := delivery.Ack(false); err != nil {
		c.log.Error(context.Background(), "Could not ACK AMQP message.", logging.Entry("err", err))
	}
}
