package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"restaurant-ordering/internal/config"
	"restaurant-ordering/internal/database"
	"restaurant-ordering/internal/logger"
	"restaurant-ordering/internal/messaging"
	"restaurant-ordering/internal/services/menu"
	"restaurant-ordering/internal/services/order"
	"restaurant-ordering/internal/services/report"
	"restaurant-ordering/internal/services/restaurant"
	"restaurant-ordering/internal/web"
)

type eventPublisher interface {
	order.EventPublisher
	Close() error
}

// runAPI serves the REST API until ctx is cancelled
func runAPI(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	requestID := logger.GenerateRequestID()

	db, err := database.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	publisher, err := newPublisher(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer publisher.Close()

	menuService := menu.NewService(menu.NewRepository(db))
	orderRepo := order.NewRepository(db)
	orderService := order.NewOrderService(orderRepo, menuService, publisher, log)
	reportService := report.NewService(orderRepo, menuService)

	mux := http.NewServeMux()
	restaurant.NewHandler(restaurant.NewService(restaurant.NewRepository(db)), log).RegisterRoutes(mux)
	menu.NewHandler(menuService, log).RegisterRoutes(mux)
	order.NewHandler(orderService, log).RegisterRoutes(mux)
	report.NewHandler(reportService, log).RegisterRoutes(mux)
	mux.HandleFunc("GET /health", healthHandler(db, log))
	if cfg.Server.StaticDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(cfg.Server.StaticDir)))
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           web.WithLogging(log, mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return serve(ctx, server, cfg.Server.ShutdownTimeout, log, requestID)
}

func newPublisher(ctx context.Context, cfg *config.Config, log *logger.Logger) (eventPublisher, error) {
	if !cfg.RabbitMQ.Enabled {
		log.Warn("rabbitmq_disabled", "RabbitMQ disabled, order events will not be published", "", nil)
		return messaging.NopPublisher{Logger: log}, nil
	}
	conn, err := messaging.New(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize messaging: %w", err)
	}
	return messaging.NewPublisher(conn, log), nil
}

func healthHandler(db *database.DB, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			log.Warn("health_check_failed", "Database ping failed", web.RequestID(r.Context()), map[string]interface{}{
				"error": err.Error(),
			})
			_ = web.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		_ = web.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// serve runs server until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, server *http.Server, shutdownTimeout time.Duration, log *logger.Logger, requestID string) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("service_started", fmt.Sprintf("HTTP server listening on %s", server.Addr), requestID, nil)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("graceful_shutdown", "Shutting down HTTP server", requestID, nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
