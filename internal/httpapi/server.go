// Package httpapi provides the HTTP API for chronicled.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/chronicled/internal/analysis"
	"github.com/fyrsmithlabs/chronicled/internal/archive"
	"github.com/fyrsmithlabs/chronicled/internal/story"
)

const defaultSearchLimit = 5

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// Archiver is the archive surface the server needs. Nil disables the
// archive endpoints.
type Archiver interface {
	Archive(ctx context.Context, conv analysis.Conversation, result analysis.Result) error
	Search(ctx context.Context, query string, k int, category string) ([]archive.Entry, error)
}

// Server provides HTTP endpoints for chronicled.
type Server struct {
	echo     *echo.Echo
	analyzer *analysis.Service
	stories  *story.Service
	archiver Archiver
	logger   *zap.Logger
	config   *Config
}

// NewServer creates a new HTTP server. The archiver may be nil, in which
// case archive endpoints return 503.
func NewServer(analyzer *analysis.Service, stories *story.Service, archiver Archiver, proxies *ProxyConfig, logger *zap.Logger, cfg *Config) (*Server, error) {
	if analyzer == nil {
		return nil, fmt.Errorf("analyzer cannot be nil")
	}
	if stories == nil {
		return nil, fmt.Errorf("story service cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{Host: "localhost", Port: 8090}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(metricsMiddleware())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:     e,
		analyzer: analyzer,
		stories:  stories,
		archiver: archiver,
		logger:   logger,
		config:   cfg,
	}

	s.registerRoutes(proxies)

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes(proxies *ProxyConfig) {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")
	v1.POST("/conversations/analyze", s.handleAnalyze)
	v1.POST("/conversations", s.handleConversation)
	v1.GET("/archive/search", s.handleArchiveSearch)

	v1.POST("/stories", s.handleAddStory)
	v1.GET("/stories/:category", s.handleListStories)
	v1.PATCH("/stories/:id", s.handleUpdateStory)
	v1.DELETE("/stories/:id", s.handleRemoveStory)
	v1.GET("/stats", s.handleStats)

	if proxies != nil {
		registerProxyRoutes(v1.Group("/proxy"), proxies, s.logger)
	}
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleAnalyze runs analysis only: nothing is stored.
func (s *Server) handleAnalyze(c echo.Context) error {
	var conv analysis.Conversation
	if err := c.Bind(&conv); err != nil {
		s.logger.Warn("invalid analyze request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if conv.ID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id field is required")
	}

	result := s.analyzer.Analyze(c.Request().Context(), conv)
	return c.JSON(http.StatusOK, result)
}

// handleConversation analyzes and archives a conversation. Archiving is
// best-effort: its failure is logged and the analysis still returned.
func (s *Server) handleConversation(c echo.Context) error {
	var conv analysis.Conversation
	if err := c.Bind(&conv); err != nil {
		s.logger.Warn("invalid conversation request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if conv.ID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id field is required")
	}

	ctx := c.Request().Context()
	result := s.analyzer.Analyze(ctx, conv)

	if s.archiver != nil {
		if err := s.archiver.Archive(ctx, conv, result); err != nil {
			s.logger.Warn("failed to archive conversation",
				zap.String("conversation_id", conv.ID),
				zap.Error(err),
			)
		}
	}

	return c.JSON(http.StatusOK, result)
}

// handleArchiveSearch performs semantic search over archived conversations.
func (s *Server) handleArchiveSearch(c echo.Context) error {
	if s.archiver == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "archive is not enabled")
	}

	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q parameter is required")
	}

	limit := defaultSearchLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = parsed
	}

	entries, err := s.archiver.Search(c.Request().Context(), query, limit, c.QueryParam("category"))
	if err != nil {
		s.logger.Error("archive search failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}
	if entries == nil {
		entries = []archive.Entry{}
	}

	return c.JSON(http.StatusOK, map[string]any{"results": entries})
}

// AddStoryRequest is the request body for POST /api/v1/stories.
type AddStoryRequest struct {
	Category   string              `json:"category"`
	Suggestion analysis.Suggestion `json:"suggestion"`
}

func (s *Server) handleAddStory(c echo.Context) error {
	var req AddStoryRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid story request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	st, err := s.stories.AddStory(c.Request().Context(), req.Category, req.Suggestion)
	if err != nil {
		if errors.Is(err, story.ErrUnknownCategory) {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown category %q", req.Category))
		}
		s.logger.Error("failed to add story", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to add story")
	}

	return c.JSON(http.StatusCreated, st)
}

func (s *Server) handleListStories(c echo.Context) error {
	category := c.Param("category")
	stories := s.stories.Stories(category)
	if stories == nil {
		stories = []story.Story{}
	}
	return c.JSON(http.StatusOK, map[string]any{"stories": stories})
}

func (s *Server) handleUpdateStory(c echo.Context) error {
	var upd story.Update
	if err := c.Bind(&upd); err != nil {
		s.logger.Warn("invalid update request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	id := c.Param("id")
	updated, ok := s.stories.UpdateStory(c.Request().Context(), id, upd)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("story %q not found", id))
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) handleRemoveStory(c echo.Context) error {
	id := c.Param("id")
	if !s.stories.RemoveStory(c.Request().Context(), id) {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("story %q not found", id))
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleStats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.stories.Stats())
}

// Echo exposes the underlying echo instance for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
