package consumers

import (
	"authfront/internal/app/deps"
	dl "authfront/internal/core/domain/logging"
	passwordresetlink "authfront/internal/rabbitmq/consumers/password_reset_link"
	"context"
)

func initPasswordResetLinkConsumer(deps *deps.Deps) func() {
	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}

	queue := deps.Config.RabbitmqPasswordResetQueue
	consumer := passwordresetlink.New(
		deps.Logger,
		rabbitmqChannel,
		queue,
		deps.PasswordResetLinkSender,
	)
	if err = consumer.Consume(); err != nil {
		deps.Logger.Error(
			context.Background(),
			"Could not start RabbitMQ consuming.",
			dl.Entry("err", err),
			dl.Entry("queue", queue),
		)
		panic(err)
	}

	deps.Logger.Info(context.Background(), "Consumer has started.", dl.Entry("queue", queue))
	return func() { rabbitmqChannel.Close() }
}

func InitConsumers(deps *deps.Deps) func() {
	shutdownPasswordResetLinkConsumer := initPasswordResetLinkConsumer(deps)

	return func() {
		shutdownPasswordResetLinkConsumer()
	}
}
