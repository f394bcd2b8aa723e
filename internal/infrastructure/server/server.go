package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	httpHandlers "github.com/goalboard/core/internal/adapters/http"
	"github.com/goalboard/core/internal/adapters/repository"
	"github.com/goalboard/core/internal/adapters/storage"
	"github.com/goalboard/core/internal/application/services"
	"github.com/goalboard/core/internal/infrastructure/config"
	"github.com/goalboard/core/internal/infrastructure/database"
	"github.com/goalboard/core/internal/infrastructure/logger"
)

// Server represents the HTTP server
type Server struct {
	echo        *echo.Echo
	config      *config.Config
	logger      *logger.Logger
	db          *database.DB
	redis       *redis.Client
	goalService *services.GoalService
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance
func New(cfg *config.Config, db *database.DB, redisClient *redis.Client, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	// Set custom validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Configure Echo
	e.HideBanner = true
	e.HidePort = true

	// Custom error handler
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	// Initialize adapters
	boardRepo := repository.NewBoardRepository(db.DB)
	deviceRepo := repository.NewDeviceStateRepository(redisClient)

	fileStore, err := storage.NewDiskFileStore(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("init file store: %w", err)
	}

	// Initialize services
	goalService := services.NewGoalService(boardRepo, fileStore, appLogger)
	analyticsService := services.NewAnalyticsService(goalService, deviceRepo, appLogger)

	// Initialize handlers
	boardHandler := httpHandlers.NewBoardHandler(goalService, appLogger)
	analyticsHandler := httpHandlers.NewAnalyticsHandler(analyticsService, appLogger)

	server := &Server{
		echo:        e,
		config:      cfg,
		logger:      appLogger,
		db:          db,
		redis:       redisClient,
		goalService: goalService,
	}

	// Setup middleware
	server.setupMiddleware()

	// Setup routes
	server.setupRoutes(boardHandler, analyticsHandler, fileStore)

	// Setup metrics
	if cfg.Metrics.Enabled {
		server.setupMetrics()
	}

	return server, nil
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Logger middleware
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
				"user_agent", values.UserAgent,
			}

			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				s.logger.Errorw("HTTP request failed", fields...)
			} else {
				s.logger.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))

	// CORS middleware
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowMethods: []string{echo.GET, echo.HEAD, echo.PUT, echo.PATCH, echo.POST, echo.DELETE},
	}))

	// Rate limiting middleware
	s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{Rate: rate.Limit(s.config.Security.RateLimitRequests), Burst: s.config.Security.RateLimitRequests, ExpiresIn: s.config.Security.RateLimitWindow},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			id := ctx.RealIP()
			return id, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(http.StatusForbidden, map[string]string{"message": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
		},
	}))

	// Security headers
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
	}))

	// Request ID middleware
	s.echo.Use(middleware.RequestID())

	// Timeout middleware
	s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: 30 * time.Second,
	}))

	// Body limit for uploads
	s.echo.Use(middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{
		Limit: fmt.Sprintf("%d", s.config.Security.MaxUploadBytes),
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(boardHandler *httpHandlers.BoardHandler, analyticsHandler *httpHandlers.AnalyticsHandler, fileStore *storage.DiskFileStore) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// Uploaded note files are served statically
	s.echo.Static("/files", fileStore.BaseDir())

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	// Board lifecycle
	v1.POST("/boards", boardHandler.CreateBoard)

	board := v1.Group("/boards/:slug")
	board.POST("/session", boardHandler.OpenBoard)
	board.DELETE("/session", boardHandler.CloseBoard)
	board.GET("/days", boardHandler.GetDays)
	board.GET("/days/:date", boardHandler.GetDay)

	// Day items
	day := board.Group("/days/:date")
	day.POST("/items", boardHandler.AddItem)
	day.POST("/items/:kind/:id/toggle", boardHandler.ToggleItem)
	day.DELETE("/items/:kind/:id", boardHandler.RemoveItem)
	day.PATCH("/dsa/:id", boardHandler.UpdateDsaItem)

	// Dev subtasks
	day.POST("/dev/:id/subtasks", boardHandler.AddSubtask)
	day.POST("/dev/:id/subtasks/:subtaskId/toggle", boardHandler.ToggleSubtask)
	day.DELETE("/dev/:id/subtasks/:subtaskId", boardHandler.RemoveSubtask)

	// Habits
	day.POST("/habits", boardHandler.AddHabit)
	day.POST("/habits/:id/toggle", boardHandler.ToggleHabit)
	day.DELETE("/habits/:id", boardHandler.RemoveHabit)

	// Notes and attachments
	day.PUT("/notes", boardHandler.UpdateNotes)
	day.POST("/notes/flush", boardHandler.FlushNotes)
	day.POST("/files", boardHandler.UploadNoteFile)
	day.DELETE("/files", boardHandler.RemoveNoteFile)

	// Analytics
	stats := board.Group("/stats")
	stats.GET("/summary", analyticsHandler.GetSummary)
	stats.GET("/streaks", analyticsHandler.GetStreaks)
	stats.GET("/weekly", analyticsHandler.GetWeeklyData)
	stats.GET("/categories", analyticsHandler.GetCategoryBreakdown)
	stats.GET("/trend", analyticsHandler.GetCompletionTrend)
	stats.GET("/dsa-time", analyticsHandler.GetDsaTimeStats)
	stats.GET("/totals", analyticsHandler.GetTotalStats)
	stats.GET("/comparison", analyticsHandler.GetWeeklyComparison)

	// Badges
	board.GET("/badges", analyticsHandler.GetBadges)
	board.POST("/badges/seen", analyticsHandler.MarkBadgesSeen)

	// Device preferences
	device := v1.Group("/device")
	device.GET("/theme", analyticsHandler.GetTheme)
	device.PUT("/theme", analyticsHandler.SetTheme)
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics() {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(requestsTotal, requestDuration)

	// Custom metrics middleware
	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status

			requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	})

	// Metrics endpoint
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	s.echo.GET("/metrics", echo.WrapHandler(metricsHandler))
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	status := "ok"
	checks := make(map[string]interface{})

	// Database health check
	if err := s.db.HealthCheck(); err != nil {
		status = "error"
		checks["database"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	} else {
		checks["database"] = map[string]interface{}{
			"status": "ok",
			"stats":  s.db.GetConnectionInfo(),
		}
	}

	// Redis health check
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		status = "error"
		checks["redis"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	} else {
		checks["redis"] = map[string]interface{}{
			"status": "ok",
		}
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
			"go":  "1.21",
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	// Check if server is ready to accept requests
	if err := s.db.Ping(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "database_not_ready",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Info("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server, flushing open sessions
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			msg = he.Message
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		} else if e, ok := err.(validator.ValidationErrors); ok {
			code = http.StatusBadRequest
			msg = map[string]string{"message": "validation failed", "details": e.Error()}
		} else {
			msg = map[string]string{"message": http.StatusText(code)}
		}

		if code == http.StatusInternalServerError {
			logger.Error("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		// Send response
		if !c.Response().Committed {
			if c.Request().Method == echo.HEAD {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Error("Error sending response", "error", err)
			}
		}
	}
}
