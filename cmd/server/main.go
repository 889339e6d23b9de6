package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vibin/news-relay/config"
	httpHandler "github.com/vibin/news-relay/internal/adapters/primary/http"
	"github.com/vibin/news-relay/internal/adapters/secondary/line"
	"github.com/vibin/news-relay/internal/adapters/secondary/sources"
	"github.com/vibin/news-relay/internal/core/services"
	"github.com/vibin/news-relay/internal/logger"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	debugMode := flag.Bool("debug", false, "Enable debug logging")
	writeConfig := flag.String("write-config", "", "Write the effective config (secrets redacted) to this path and exit")
	flag.Parse()

	cfg, err := config.Load(config.GetConfigPath(*configPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logLevel := logger.ParseLevel(cfg.Log.Level)
	if *debugMode {
		logLevel = slog.LevelDebug
	}
	log := logger.NewWithFormat(logLevel, os.Stdout, logger.Format(cfg.Log.Format))

	if *writeConfig != "" {
		if err := config.SaveConfig(cfg, *writeConfig); err != nil {
			log.Error("Failed to write configuration", "path", *writeConfig, "error", err)
			os.Exit(1)
		}
		log.Info("Configuration written", "path", *writeConfig)
		return
	}

	log.Info("Starting news relay")

	if err := cfg.Validate(); err != nil {
		log.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	replyClient, err := line.NewReplyClient(&cfg.LINE, log)
	if err != nil {
		log.Error("Failed to initialize LINE reply client", "error", err)
		os.Exit(1)
	}

	fetcher := sources.NewHTTPFetcher(cfg.Sources.Timeout(), log)
	relay := services.NewRelayService(
		services.NewDefaultRouter(),
		sources.NewDefaultSources(fetcher, &cfg.Sources, log),
		replyClient,
		log,
	)

	handler := httpHandler.NewHandler(relay, cfg.LINE.ChannelSecret, log)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Server exited")
}
