// Package api provides the HTTP handlers for resultsboard.
package api

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/minasamy417/resultsboard/chat"
	"github.com/minasamy417/resultsboard/config"
	"github.com/minasamy417/resultsboard/hub"
	"github.com/minasamy417/resultsboard/logger"
	"github.com/minasamy417/resultsboard/store"
)

// Handler handles HTTP requests.
type Handler struct {
	chat   *chat.Service
	store  store.Store
	stream *hub.Server
	config *config.Config
	log    *logger.Logger

	// exporting tracks per-dataset save-in-progress flags so an export
	// click cannot re-enter while a file is still being generated.
	mu        sync.Mutex
	exporting map[string]bool
}

// NewHandler creates a new handler. stream may be nil.
func NewHandler(chatSvc *chat.Service, st store.Store, stream *hub.Server, cfg *config.Config, log *logger.Logger) *Handler {
	return &Handler{
		chat:      chatSvc,
		store:     st,
		stream:    stream,
		config:    cfg,
		log:       log,
		exporting: make(map[string]bool),
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Chat
	e.POST("/v1/sessions", h.CreateSession)
	e.GET("/v1/sessions/:session_id/messages", h.GetSessionMessages)
	e.POST("/v1/sessions/:session_id/messages", h.PostMessage)
	e.GET("/v1/sessions/:session_id/stream", h.Stream)

	// Reports
	e.GET("/v1/datasets/:dataset_id/summaries", h.GetSummaries)
	e.GET("/v1/datasets/:dataset_id/records", h.GetRecords)
	e.POST("/v1/datasets/:dataset_id/export", h.Export)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
