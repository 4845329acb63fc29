package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/minasamy417/resultsboard/api"
	"github.com/minasamy417/resultsboard/chat"
	"github.com/minasamy417/resultsboard/config"
	"github.com/minasamy417/resultsboard/hub"
	"github.com/minasamy417/resultsboard/llmclient"
	"github.com/minasamy417/resultsboard/logger"
	"github.com/minasamy417/resultsboard/prompt"
	"github.com/minasamy417/resultsboard/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer lg.Sync()

	lg.Info("starting resultsboard",
		"http_port", cfg.HTTPPort,
		"database", cfg.DatabaseDSN,
		"llm_proxy_url", cfg.LLMProxyURL)

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseDSN)
	if err != nil {
		lg.Fatal("failed to initialize store", "error", err)
	}
	defer db.Close()

	// Initialize LLM client
	llmClient := llmclient.NewClient(cfg.LLMProxyURL, cfg.LLMAPIKey, cfg.LLMTimeout)

	// Initialize the live-message hub
	messageHub := hub.New(lg)
	go messageHub.Run()

	// Initialize chat service
	builder := prompt.NewBuilder(cfg.ContextCap)
	chatSvc := chat.NewService(db, llmClient, builder, messageHub, lg)

	// Initialize handler
	h := api.NewHandler(chatSvc, db, hub.NewServer(messageHub), cfg, lg)

	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	h.RegisterRoutes(e)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			lg.Fatal("failed to start server", "error", err)
		}
	}()

	lg.Info("api started", "port", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lg.Info("shutting down resultsboard")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		lg.Error("failed to shutdown server gracefully", "error", err)
	}

	lg.Info("resultsboard stopped")
}
