package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"restaurant-ordering/internal/config"
	"restaurant-ordering/internal/logger"
)

func main() {
	var (
		mode       = flag.String("mode", "", "Run mode (api, notification-subscriber, cart)")
		configPath = flag.String("config", config.DefaultConfigPath, "Path to the YAML config file")
		port       = flag.Int("port", 0, "Listen port, overrides server.port")
	)
	flag.Parse()

	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// The cart client owns stdout for its own output.
	logOut := os.Stdout
	if *mode == "cart" {
		logOut = os.Stderr
	}
	log := logger.NewWithWriter(*mode, logOut, cfg.Log.Level)
	requestID := logger.GenerateRequestID()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "api":
		if *port != 0 {
			cfg.Server.Port = *port
		}
		if err := runAPI(ctx, cfg, log); err != nil {
			log.Error("service_failed", "API service failed", requestID, err, nil)
			os.Exit(1)
		}
	case "notification-subscriber":
		wsPort := *port
		if wsPort == 0 {
			wsPort = cfg.Server.Port + 1
		}
		if err := runNotificationSubscriber(ctx, cfg, log, wsPort); err != nil {
			log.Error("service_failed", "Notification subscriber failed", requestID, err, nil)
			os.Exit(1)
		}
	case "cart":
		if err := runCart(ctx, cfg, log, flag.Args()); err != nil {
			if !errors.Is(err, errReported) {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			stop()
			os.Exit(1)
		}
		return
	default:
		log.Error("validation_failed", fmt.Sprintf("Unknown mode: %s", *mode), requestID, nil, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}
