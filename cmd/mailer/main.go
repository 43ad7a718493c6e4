package main

import (
	"authfront/internal/app/consumers"
	"authfront/internal/app/deps"
	"authfront/internal/core/domain/logging"
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	deps, shutdownDeps := deps.InitMailerDeps()
	defer shutdownDeps()

	shutdownConsumers := consumers.InitConsumers(deps)

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer close(stopCh)

	deps.Logger.Info(
		context.Background(),
		"Mailer has started.",
		logging.Entry("emailProvider", deps.Config.EmailProvider),
	)
	<-stopCh

	deps.Logger.Info(context.Background(), "Stopping mailer.")
	shutdownConsumers()
}
