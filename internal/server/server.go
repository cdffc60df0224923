// internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"iana-intake/internal/common/auth"
	"iana-intake/internal/common/config"
	"iana-intake/internal/common/logger"
	"iana-intake/internal/common/observability"
	"iana-intake/internal/server/middleware"
)

// Deps carries everything the HTTP layer needs. Handlers depend on the
// narrow service interfaces, never on concrete workflow types.
type Deps struct {
	Submission SubmissionService
	Respond    RespondService
	Review     ReviewService
	Uploader   Uploader
	Verifier   auth.Verifier
	AdminUsers middleware.AdminUsers
	Redis      *redis.Client
	Logger     logger.Logger
	Obs        *observability.Observability
}

// Server is the HTTP front of the intake service.
type Server struct {
	echo *echo.Echo
	cfg  *config.Config
	log  logger.Logger
}

func New(cfg *config.Config, deps Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(requestLogger(deps.Logger, deps.Obs))

	registerRoutes(e, cfg, deps)

	return &Server{echo: e, cfg: cfg, log: deps.Logger}
}

func registerRoutes(e *echo.Echo, cfg *config.Config, deps Deps) {
	applyHandler := NewApplyHandler(deps.Submission)
	respondHandler := NewRespondHandler(deps.Respond, deps.Uploader)
	uploadHandler := NewUploadHandler(deps.Uploader)
	adminHandler := NewAdminHandler(deps.Review)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
	if deps.Obs != nil {
		e.GET("/metrics", echo.WrapHandler(deps.Obs.Handler()))
	}

	api := e.Group("/api")

	submitLimiter := middleware.RateLimit(deps.Redis, cfg.HTTP.RateLimit, time.Duration(cfg.HTTP.RateLimitWindow)*time.Second)
	apply := api.Group("/apply", submitLimiter)
	apply.POST("/:form", applyHandler.Submit)

	api.POST("/upload", uploadHandler.Upload, submitLimiter)

	api.GET("/respond/:role/:token", respondHandler.Resolve)
	api.POST("/respond/:role/:token", respondHandler.Submit, submitLimiter)
	api.POST("/respond/upload", respondHandler.Upload, submitLimiter)

	admin := api.Group("/admin", middleware.AdminAuth(deps.Verifier, deps.AdminUsers, deps.Logger))
	admin.GET("/applications", adminHandler.List)
	admin.GET("/applications/:id", adminHandler.Get)
	admin.POST("/applications/:id/status", adminHandler.UpdateStatus)
	admin.POST("/import-csv", adminHandler.ImportCSV)
}

// requestLogger emits one structured line per request and feeds the
// duration histogram. Bodies are never logged.
func requestLogger(log logger.Logger, obs *observability.Observability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			duration := time.Since(start)
			log.Info("request completed", map[string]interface{}{
				"method":   c.Request().Method,
				"route":    c.Path(),
				"status":   c.Response().Status,
				"duration": duration.String(),
			})
			if obs != nil {
				obs.RecordRequestDuration(c.Request().Context(), c.Path(), duration)
			}
			return nil
		}
	}
}

// Start blocks serving HTTP until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.HTTP.Port)
	s.log.Info("http server listening", map[string]interface{}{"addr": addr})
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests up to the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
