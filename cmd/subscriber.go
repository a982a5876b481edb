package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"restaurant-ordering/internal/config"
	"restaurant-ordering/internal/logger"
	"restaurant-ordering/internal/messaging"
	"restaurant-ordering/internal/services/notification"
	"restaurant-ordering/internal/web"
)

// runNotificationSubscriber prints order events and relays them to websocket clients on port
func runNotificationSubscriber(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	requestID := logger.GenerateRequestID()

	if !cfg.RabbitMQ.Enabled {
		return fmt.Errorf("notification subscriber requires rabbitmq.enabled")
	}

	conn, err := messaging.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}

	consumer := messaging.NewConsumer(conn, log, messaging.QueueNotifications, "notification-subscriber", 10)
	hub := notification.NewHub(log)

	mux := http.NewServeMux()
	notification.NewHandler(hub, log).RegisterRoutes(mux)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           web.WithLogging(log, mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- serve(ctx, server, cfg.Server.ShutdownTimeout, log, requestID) }()

	subErr := notification.NewSubscriber(consumer, hub, os.Stdout, log).Start(ctx)
	if subErr != nil {
		// Consumer gave up before shutdown was requested; take the websocket server down too.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		<-serveErr
		return subErr
	}
	return <-serveErr
}
