package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/sibstore/storefront/docs"
	httpHandlers "github.com/sibstore/storefront/internal/adapters/http"
	"github.com/sibstore/storefront/internal/adapters/repository"
	"github.com/sibstore/storefront/internal/application/services"
	"github.com/sibstore/storefront/internal/domain/credential"
	"github.com/sibstore/storefront/internal/infrastructure/chat"
	"github.com/sibstore/storefront/internal/infrastructure/config"
	"github.com/sibstore/storefront/internal/infrastructure/database"
	"github.com/sibstore/storefront/internal/infrastructure/logger"
	"github.com/sibstore/storefront/internal/infrastructure/metrics"
	"github.com/sibstore/storefront/internal/infrastructure/session"
	"github.com/sibstore/storefront/internal/ports"
)

const sessionSweepInterval = 5 * time.Minute

// Server represents the HTTP server
type Server struct {
	echo     *echo.Echo
	config   *config.Config
	logger   *logger.Logger
	db       *database.DB
	sessions ports.SessionStore
	metrics  *metrics.Metrics
	stop     context.CancelFunc
}

type handlers struct {
	auth      *httpHandlers.AuthHandler
	catalog   *httpHandlers.CatalogHandler
	order     *httpHandlers.OrderHandler
	analytics *httpHandlers.AnalyticsHandler
	contact   *httpHandlers.ContactHandler
	chat      *httpHandlers.ChatHandler
	calendar  *httpHandlers.CalendarHandler
}

// New creates a new server instance
func New(cfg *config.Config, db *database.DB, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	e.Validator = httpHandlers.NewValidator()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	ctx, stop := context.WithCancel(context.Background())

	server := &Server{
		echo:     e,
		config:   cfg,
		logger:   appLogger.WithComponent("server"),
		db:       db,
		sessions: session.New(ctx, cfg.Redis, appLogger),
		stop:     stop,
	}
	if cfg.Metrics.Enabled {
		server.metrics = metrics.New()
	}

	// Initialize repositories
	adminRepo := repository.NewAdminRepository(db.DB)
	productRepo := repository.NewProductRepository(db.DB)
	usedPhoneRepo := repository.NewUsedPhoneRepository(db.DB)
	orderRepo := repository.NewOrderRepository(db.DB)
	analyticsRepo := repository.NewAnalyticsRepository(db.DB)
	contactRepo := repository.NewContactRepository(db.DB)

	var chatClient ports.ChatClient
	if cfg.Chat.Enabled {
		chatClient = chat.NewClient(cfg.Chat)
	} else {
		appLogger.Info("Chat backend disabled")
	}

	// Initialize services
	authService := services.NewAuthService(adminRepo, server.sessions, cfg.JWT, appLogger, server.metrics)
	catalogService := services.NewCatalogService(productRepo, usedPhoneRepo, appLogger)
	orderService := services.NewOrderService(orderRepo, productRepo, usedPhoneRepo, credential.New(), appLogger, server.metrics)
	analyticsService := services.NewAnalyticsService(analyticsRepo, orderRepo, productRepo, usedPhoneRepo, appLogger)
	contactService := services.NewContactService(contactRepo, appLogger)
	chatService := services.NewChatService(chatClient, cfg.Chat.SystemPrompt, cfg.Chat.HistoryLimit, appLogger, server.metrics)

	// Initialize handlers
	h := handlers{
		auth:      httpHandlers.NewAuthHandler(authService, appLogger),
		catalog:   httpHandlers.NewCatalogHandler(catalogService, appLogger),
		order:     httpHandlers.NewOrderHandler(orderService, appLogger),
		analytics: httpHandlers.NewAnalyticsHandler(analyticsService, appLogger),
		contact:   httpHandlers.NewContactHandler(contactService, appLogger),
		chat:      httpHandlers.NewChatHandler(chatService),
		calendar:  httpHandlers.NewCalendarHandler(),
	}

	server.setupMiddleware()

	if server.metrics != nil {
		server.setupMetrics()
	}

	server.setupRoutes(h, authService)

	if store, ok := server.sessions.(*session.MemoryStore); ok {
		go server.sweepSessions(ctx, store)
	}

	return server, nil
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())

	s.echo.Use(middleware.RequestID())

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			s.logger.WithRequestID(values.RequestID).LogRequest(logger.Request{
				Method:    values.Method,
				Path:      values.URI,
				Status:    values.Status,
				Latency:   values.Latency,
				IP:        values.RemoteIP,
				UserAgent: values.UserAgent,
				Err:       values.Error,
			})
			return nil
		},
	}))

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods: []string{echo.GET, echo.HEAD, echo.PUT, echo.PATCH, echo.POST, echo.DELETE},
	}))

	s.echo.Use(s.rateLimiter(rate.Limit(s.config.Security.RateLimitRequests), s.config.Security.RateLimitRequests))

	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
	}))

	s.echo.Use(middleware.BodyLimit(s.config.Server.BodyLimit))

	s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout:      s.config.Server.RequestTimeout,
		ErrorMessage: `{"message":"request timed out"}`,
	}))
}

// rateLimiter limits requests per client IP.
func (s *Server) rateLimiter(limit rate.Limit, burst int) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{Rate: limit, Burst: burst, ExpiresIn: s.config.Security.RateLimitWindow},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(http.StatusForbidden, ports.ErrorResponse{Message: "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(http.StatusTooManyRequests, ports.ErrorResponse{Message: "rate limit exceeded"})
		},
	})
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(h handlers, authService ports.AuthService) {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := s.echo.Group("/api/v1")

	// Storefront (public)
	v1.GET("/products", h.catalog.ListProducts)
	v1.GET("/products/:id", h.catalog.GetProduct)
	v1.GET("/used-phones", h.catalog.ListUsedPhones)
	v1.GET("/used-phones/:id", h.catalog.GetUsedPhone)
	v1.POST("/orders/apple-id", h.order.CreateAppleIDOrder)
	v1.POST("/orders/purchase", h.order.CreatePurchaseOrder)
	v1.POST("/contact", h.contact.Submit)
	v1.POST("/visits", h.analytics.RecordVisit)
	v1.POST("/errors", h.analytics.RecordError)
	v1.GET("/calendar/gregorian", h.calendar.ToGregorian)
	v1.POST("/chat", h.chat.Reply, s.rateLimiter(rate.Limit(s.config.Chat.RateLimit), s.config.Chat.RateBurst))

	// Admin dashboard
	admin := v1.Group("/admin")
	admin.POST("/login", h.auth.Login)

	protected := admin.Group("", s.adminAuth(authService))
	protected.POST("/logout", h.auth.Logout)
	protected.GET("/me", h.auth.Me)

	protected.GET("/products", h.catalog.AdminListProducts)
	protected.POST("/products", h.catalog.CreateProduct)
	protected.PUT("/products/:id", h.catalog.UpdateProduct)
	protected.PATCH("/products/:id/price", h.catalog.UpdatePrice)
	protected.DELETE("/products/:id", h.catalog.DeleteProduct)

	protected.GET("/used-phones", h.catalog.AdminListUsedPhones)
	protected.POST("/used-phones", h.catalog.CreateUsedPhone)
	protected.PUT("/used-phones/:id", h.catalog.UpdateUsedPhone)
	protected.POST("/used-phones/:id/sold", h.catalog.MarkUsedPhoneSold)
	protected.DELETE("/used-phones/:id", h.catalog.DeleteUsedPhone)

	protected.GET("/orders", h.order.ListOrders)
	protected.GET("/orders/:id", h.order.GetOrder)
	protected.PATCH("/orders/:id/status", h.order.UpdateStatus)

	protected.GET("/dashboard", h.analytics.Dashboard)
	protected.GET("/errors", h.analytics.ListErrors)
	protected.GET("/contact", h.contact.List)
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics() {
	s.echo.Use(s.metrics.Middleware())
	s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
}

func (s *Server) sweepSessions(ctx context.Context, store *session.MemoryStore) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Sweep(); n > 0 {
				s.logger.Debugw("Expired sessions removed", "count", n)
			}
		}
	}
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	ctx := c.Request().Context()
	status := "ok"
	checks := make(map[string]interface{})

	if err := s.db.HealthCheck(ctx); err != nil {
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

	if err := s.sessions.Ping(ctx); err != nil {
		status = "error"
		checks["sessions"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	} else {
		checks["sessions"] = map[string]interface{}{
			"status": "ok",
			"store":  fmt.Sprintf("%T", s.sessions),
		}
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	if err := s.db.Ping(c.Request().Context()); err != nil {
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

// ServeHTTP lets the server be driven directly by net/http and httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	s.stop()
	if closer, ok := s.sessions.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			s.logger.Warnw("Failed to close session store", "error", err)
		}
	}
	return s.echo.Shutdown(ctx)
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		var msg interface{} = ports.ErrorResponse{Message: http.StatusText(code)}

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			switch m := he.Message.(type) {
			case ports.ErrorResponse:
				msg = m
			case string:
				msg = ports.ErrorResponse{Message: m}
			default:
				msg = ports.ErrorResponse{Message: fmt.Sprint(m)}
			}
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		}

		if code >= http.StatusInternalServerError {
			logger.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		if !c.Response().Committed {
			if c.Request().Method == echo.HEAD {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Errorw("Error sending response", "error", err)
			}
		}
	}
}
