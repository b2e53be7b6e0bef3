// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/texforge/backend/internal/convert"
	"github.com/texforge/backend/internal/ingest"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Ingest             *ingest.Service
	Converter          convert.Converter
	MaxConcurrentReads int
	ConvertTimeout     time.Duration
	Health             HealthInfo
	Logger             *slog.Logger
}

// Handlers holds all handler instances
type Handlers struct {
	Health  HealthHandler
	Ingest  IngestHandler
	Convert ConvertHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	health := deps.Health
	if health.Backend == "" && deps.Converter != nil {
		health.Backend = deps.Converter.Name()
	}
	if health.BatchCount == nil && deps.Ingest != nil {
		health.BatchCount = deps.Ingest.Registry().Len
	}
	return &Handlers{
		Health:  NewHealthHandler(health),
		Ingest:  NewIngestHandler(deps.Ingest, logger),
		Convert: NewConvertHandler(deps.Converter, deps.MaxConcurrentReads, deps.ConvertTimeout, logger),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	apiGroup := e.Group("/api")

	apiGroup.GET("/health", handlers.Health.HandleHealth)

	apiGroup.POST("/ingest", handlers.Ingest.HandleIngest)
	apiGroup.GET("/ingest/:documentId", handlers.Ingest.HandleGetBatch)

	apiGroup.POST("/convert-to-latex", handlers.Convert.HandleConvert)
}

// MiddlewareConfig tunes SetupMiddleware.
type MiddlewareConfig struct {
	RequestLogging bool
	ShowDetails    bool
	BodyLimit      string
	AllowOrigins   []string
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo, cfg MiddlewareConfig) {
	e.HTTPErrorHandler = NewErrorHandler(cfg.ShowDetails)

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			if !cfg.RequestLogging {
				return true
			}
			return c.Request().URL.Path == "/api/health"
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))

	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}

	if len(cfg.AllowOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: cfg.AllowOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}
}

// NewServer builds an Echo instance with middleware and API routes.
func NewServer(deps *Dependencies, cfg MiddlewareConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	SetupMiddleware(e, cfg)
	RegisterRoutes(e, NewHandlers(deps))
	return e
}

// SplitOrigins parses a comma-separated origin list.
func SplitOrigins(list string) []string {
	var origins []string
	for _, o := range strings.Split(list, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
