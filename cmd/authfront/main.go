package main

import (
	"authfront/internal/app"
	"authfront/internal/app/deps"
	"authfront/internal/app/services"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	dl "authfront/internal/core/domain/logging"
)

func main() {
	deps, shutdownDeps := deps.InitDeps()
	services := services.InitServices(deps)

	httpServer := app.InitHttpServer(deps, services)
	go start(httpServer, deps)

	stopCh, closeCh := createChannel()
	defer closeCh()

	<-stopCh
	shutdown(context.Background(), httpServer, deps, shutdownDeps)
}

func createChannel() (chan os.Signal, func()) {
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	return stopCh, func() {
		close(stopCh)
	}
}

func start(server *http.Server, deps *deps.Deps) {
	deps.Logger.Info(
		context.Background(),
		"HTTP server has started.",
		dl.Entry("address", server.Addr),
		dl.Entry("isTestMode", deps.Config.IsTestMode),
		dl.Entry("emailProvider", deps.Config.EmailProvider),
		dl.Entry("queued", deps.Config.RabbitmqURL != ""),
	)
	if deps.Config.IsTestMode {
		logOutboxURL(deps)
	}
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(err)
	} else {
		deps.Logger.Info(context.Background(), "HTTP service is stopping gracefully.")
	}
}

func logOutboxURL(deps *deps.Deps) {
	token, err := deps.OutboxTokens.GenerateOutboxToken()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not generate outbox token.", dl.Entry("err", err))
		return
	}
	baseURL := deps.Config.BaseURL()
	outboxURL := baseURL.JoinPath("internal", "outbox")
	outboxURL.RawQuery = "token=" + token
	deps.Logger.Info(context.Background(), "Outbox stream is available.", dl.Entry("url", outboxURL.String()))
}

func shutdown(ctx context.Context, server *http.Server, deps *deps.Deps, shutDownDeps func()) {
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		panic(err)
	}

	shutDownDeps()
	deps.Logger.Info(ctx, "HTTP server has shutdowned.")
}
