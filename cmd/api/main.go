package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/octobees/siret-extractor/internal/auth"
	"github.com/octobees/siret-extractor/internal/config"
	"github.com/octobees/siret-extractor/internal/dns"
	"github.com/octobees/siret-extractor/internal/handler"
	"github.com/octobees/siret-extractor/internal/logging"
	middlewarepkg "github.com/octobees/siret-extractor/internal/middleware"
	"github.com/octobees/siret-extractor/internal/router"
	"github.com/octobees/siret-extractor/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("invalid log level: %v", err)
	}
	logger := logging.New(os.Stderr, level)

	verifier, err := auth.NewKeyVerifier(cfg.APIKeyHash)
	if err != nil {
		log.Fatalf("invalid api key hash: %v", err)
	}
	if cfg.APIKeyHash == "" {
		logger.Warn("SIRET_EXTRACTOR_API_KEY_HASH is not set, /extract will reject every request")
	}

	extractService := service.NewExtractServiceFromConfig(cfg, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(logger))
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, verifier, router.Handlers{
		Extract: handler.NewExtractHandler(extractService),
		Tools:   handler.NewToolsHandler(dns.NewDigger(nil)),
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
