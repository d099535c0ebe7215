package http

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"github.com/location-gateway/internal/config"
	"github.com/location-gateway/internal/delivery/http/handler"
	"github.com/location-gateway/internal/delivery/http/middleware"
	"github.com/location-gateway/internal/metrics"
	"github.com/location-gateway/internal/pkg/errors"
	"github.com/location-gateway/internal/pkg/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app      *fiber.App
	config   *config.Config
	logger   *zap.Logger
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer

	// Handlers
	locationHandler *handler.LocationHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	locationHandler *handler.LocationHandler,
) *Server {
	// upstream calls may take up to the configured timeout
	writeTimeout := cfg.UpstreamTimeout() + 5*time.Second

	app := fiber.New(fiber.Config{
		AppName:               "Location Gateway",
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          writeTimeout,
		IdleTimeout:           60 * time.Second,
		ErrorHandler:          customErrorHandler(logger),
		DisableStartupMessage: true,
	})

	s := &Server{
		app:             app,
		config:          cfg,
		logger:          logger,
		metrics:         m,
		gatherer:        gatherer,
		locationHandler: locationHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Logger(s.logger, s.metrics))
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.AllowOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Health check
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	location := s.app.Group("/api/location")
	location.Get("/autocomplete", s.locationHandler.Autocomplete)
	location.Post("/nearby", s.locationHandler.NearbyPlaces)
	location.Get("/geocode", s.locationHandler.Geocode)
	location.Get("/reverse-geocode", s.locationHandler.ReverseGeocode)
	location.Get("/place-details", s.locationHandler.PlaceDetails)
}

// App exposes the underlying fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - кастомный обработчик ошибок; ответ в том же формате, что и utils.SendError
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		appErr := utils.ToAppError(err)

		var fe *fiber.Error
		if stderrors.As(err, &fe) {
			appErr = errors.New(
				strings.ToUpper(strings.ReplaceAll(fiberutils.StatusMessage(fe.Code), " ", "_")),
				fe.Message,
				fe.Code,
			)
		}

		if appErr.StatusCode >= fiber.StatusInternalServerError {
			logger.Error("HTTP Error",
				zap.String("path", c.Path()),
				zap.Int("status", appErr.StatusCode),
				zap.Error(err),
			)
		}

		return c.Status(appErr.StatusCode).JSON(utils.ErrorResponse{Error: appErr})
	}
}
