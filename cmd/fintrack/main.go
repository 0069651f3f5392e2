package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fintrack/internal/ai"
	"fintrack/internal/amqp"
	"fintrack/internal/api"
	"fintrack/internal/config"
	apphttp "fintrack/internal/http"
	"fintrack/internal/log"
	"fintrack/internal/session"
)

func main() {
	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	sessions, err := session.Open(cfg.SQLitePath)
	if err != nil {
		logger.Error("Failed to open session store", log.FieldError, err, "path", cfg.SQLitePath)
		os.Exit(1)
	}
	defer sessions.Close()

	backend := api.NewClient(cfg.APIBaseURL, nil, cfg.RequestTimeout)
	aiClient := ai.NewClient(cfg.AIBaseURL, cfg.RequestTimeout)
	suggester := ai.NewSuggester(aiClient, cfg.SuggestDebounce, logger.WithComponent(log.ComponentAI))

	// Suggestions are advisory, so an unreachable AI service is logged and
	// the app starts anyway.
	healthCtx, healthCancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	if err := aiClient.Health(healthCtx); err != nil {
		logger.Warn("AI service unreachable, suggestions degraded", log.FieldError, err, "url", cfg.AIBaseURL)
	} else {
		logger.Info("AI service reachable", "url", cfg.AIBaseURL)
	}
	healthCancel()

	// The broker is optional. Without it the app still works; insight
	// warm-up events are simply not published.
	var events *amqp.Client
	if cfg.AMQPURL != "" {
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without refresh events", log.FieldError, err)
			events = nil
		} else {
			defer events.Close()
		}
	}

	srv, err := apphttp.NewServer(apphttp.Deps{
		Config:    cfg,
		Logger:    logger,
		Backend:   backend,
		Suggester: suggester,
		Sessions:  sessions,
		Events:    events,
	})
	if err != nil {
		logger.Error("Failed to build server", log.FieldError, err)
		os.Exit(1)
	}

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		suggester.Cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting fintrack server", "port", cfg.Port, "api", cfg.APIBaseURL)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
