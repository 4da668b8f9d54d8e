// Package server assembles the echo application: middleware, services,
// handlers and routes.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"finance-tracker/internal/config"
	"finance-tracker/internal/database"
	"finance-tracker/internal/handlers"
	"finance-tracker/internal/middleware"
	"finance-tracker/internal/repositories"
	"finance-tracker/internal/services"
	"finance-tracker/web"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	bodyLimit       = "1M"
	csrfHeader      = "X-CSRF-Token"
	csrfFormField   = "csrf_token"
	shutdownTimeout = 10 * time.Second
)

// Options carries what New needs beyond the configuration.
type Options struct {
	DB     *database.DB
	Logger *slog.Logger
	// Registry receives the service metrics and backs /metrics. Nil uses
	// the process-wide default registry.
	Registry *prometheus.Registry
	// SampleDataSeed seeds the sample data generator; zero picks a random seed.
	SampleDataSeed uint64
}

type Server struct {
	echo     *echo.Echo
	cfg      *config.Config
	logger   *slog.Logger
	limiters []*middleware.IPRateLimiter
	stop     chan struct{}
}

// New wires every layer against opts.DB and registers the routes.
func New(cfg *config.Config, opts Options) (*Server, error) {
	if opts.DB == nil {
		return nil, errors.New("server: database is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	metricsHandler := promhttp.Handler()
	if opts.Registry != nil {
		registerer = opts.Registry
		metricsHandler = promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})
	}

	renderer, err := handlers.NewTemplateRenderer(web.TemplatesFS)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	docsHandler, err := handlers.NewDocsHandler(web.DocsFS)
	if err != nil {
		return nil, fmt.Errorf("failed to load API docs: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	s := &Server{
		echo:   e,
		cfg:    cfg,
		logger: logger,
		stop:   make(chan struct{}),
	}

	// Repositories
	gormDB := opts.DB.DB
	userRepo := repositories.NewUserRepository(gormDB)
	categoryRepo := repositories.NewCategoryRepository(gormDB)
	transactionRepo := repositories.NewTransactionRepository(gormDB)
	blacklistedTokenRepo := repositories.NewBlacklistedTokenRepository(gormDB)
	auditLogRepo := repositories.NewAuditLogRepository(gormDB)

	// Services
	metrics := services.NewPrometheusMetrics(registerer)
	auditService := services.NewAuditService(auditLogRepo)
	passwordService := services.NewPasswordService(cfg.Security)
	tokenService := services.NewTokenService(&cfg.Session)
	authService := services.NewAuthService(userRepo, blacklistedTokenRepo, auditService, passwordService,
		tokenService, metrics, cfg.Security.MaxFailedAttempts, logger)
	categoryService := services.NewCategoryService(categoryRepo, auditService, metrics, logger)
	transactionService := services.NewTransactionService(transactionRepo, categoryRepo, auditService, metrics,
		time.Now, cfg.Server.Location, logger)
	reportService := services.NewReportService(transactionRepo, metrics, logger)
	adminService := services.NewAdminService(userRepo, categoryRepo, transactionRepo, auditService, metrics, logger)

	// Handlers
	cookie := handlers.SessionCookie{Name: cfg.Session.CookieName, Secure: cfg.Session.CookieSecure}
	pages := handlers.NewPages(handlers.NewFlashStore(cfg.Session.FlashSecret, cfg.Session.CookieSecure))
	authHandler := handlers.NewAuthHandler(authService, pages, cookie)
	reportHandler := handlers.NewReportHandler(reportService, authService, pages, cfg.IsDevelopment())
	transactionHandler := handlers.NewTransactionHandler(transactionService, pages)
	categoryHandler := handlers.NewCategoryHandler(categoryService, pages)
	adminHandler := handlers.NewAdminHandler(adminService, auditService)
	healthHandler := handlers.NewHealthCheckHandler(opts.DB)

	e.Pre(echomw.AddTrailingSlashWithConfig(echomw.TrailingSlashConfig{
		Skipper:      skipTrailingSlash,
		RedirectCode: http.StatusPermanentRedirect,
	}))

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.PanicRecovery())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.BodyLimit(bodyLimit))
	e.Use(middleware.Authenticate(tokenService, blacklistedTokenRepo, cookie))
	if cfg.Security.CSRFEnabled {
		e.Use(echomw.CSRFWithConfig(echomw.CSRFConfig{
			Skipper:        skipCSRF,
			TokenLookup:    "header:" + csrfHeader + ",form:" + csrfFormField,
			ContextKey:     "csrf",
			CookieName:     "tracker_csrf",
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSecure:   cfg.Session.CookieSecure,
			CookieSameSite: http.SameSiteLaxMode,
		}))
	}

	// Infrastructure
	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(metricsHandler))
	e.StaticFS("/static", echo.MustSubFS(web.StaticFS, "static"))

	// Public pages; credential posts are rate limited per client address
	loginLimiter := s.newLimiter()
	registerLimiter := s.newLimiter()
	e.GET("/", reportHandler.Index)
	e.GET("/register/", authHandler.ShowRegister)
	e.POST("/register/", authHandler.Register, registerLimiter.Middleware())
	e.GET("/login/", authHandler.ShowLogin)
	e.POST("/login/", authHandler.Login, loginLimiter.Middleware())
	e.GET("/logout/", authHandler.Logout)

	// Pages that need a session
	session := middleware.RequireSession()
	both := []string{http.MethodGet, http.MethodPost}
	e.GET("/spending/", reportHandler.Spending, session)
	e.GET("/dashboard/", reportHandler.Dashboard, session)
	e.GET("/dashboard/charts/:chart/", reportHandler.Chart, session)
	e.GET("/account/", reportHandler.Account, session)
	e.GET("/transactions/", transactionHandler.List, session)
	e.Match(both, "/add_expense/", transactionHandler.AddExpense, session)
	e.Match(both, "/add_income/", transactionHandler.AddIncome, session)
	e.Match(both, "/edit_transaction/:id/", transactionHandler.Edit, session)
	e.Match(both, "/delete_transaction/:id/", transactionHandler.Delete, session)
	e.GET("/categories/", categoryHandler.List, session)
	e.POST("/categories/", categoryHandler.Create, session)

	// Management API and its reference
	adminAPI := e.Group("/admin/api", session, middleware.RequireAdmin())
	adminAPI.GET("/transactions", adminHandler.ListTransactions)
	adminAPI.GET("/categories", adminHandler.ListCategories)
	adminAPI.POST("/categories", adminHandler.CreateCategory)
	adminAPI.PUT("/categories/:id", adminHandler.UpdateCategory)
	adminAPI.GET("/users", adminHandler.ListUsers)
	adminAPI.POST("/users/:id/unlock", adminHandler.UnlockUser)
	adminAPI.DELETE("/users/:id", adminHandler.DeleteUser)
	adminAPI.GET("/audit-logs", adminHandler.AuditLogs)

	adminDocs := e.Group("/admin/docs", session, middleware.RequireAdmin())
	adminDocs.GET("/", docsHandler.ServeScalarUI)
	adminDocs.GET("/openapi.json", docsHandler.ServeOAS3JSON)

	if cfg.IsDevelopment() {
		generator := services.NewTransactionGenerator(categoryRepo, transactionRepo, auditService, metrics,
			nil, opts.SampleDataSeed, logger)
		devHandler := handlers.NewDevHandler(generator, pages)
		e.POST("/dev/sample-data/", devHandler.GenerateSampleData, session)
		logger.Info("development routes enabled")
	}

	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until Shutdown is called. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	for _, limiter := range s.limiters {
		go limiter.Cleanup(s.stop)
	}

	s.logger.Info("starting server", "address", s.cfg.Address(), "environment", s.cfg.Server.Environment)
	if err := s.echo.Start(s.cfg.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.stop)

	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return s.echo.Shutdown(ctx)
}

func (s *Server) newLimiter() *middleware.IPRateLimiter {
	limiter := middleware.NewIPRateLimiter(s.cfg.Security.RateLimitPerSecond, s.cfg.Security.RateLimitBurst)
	s.limiters = append(s.limiters, limiter)
	return limiter
}

// skipTrailingSlash leaves API, infrastructure and file paths alone; every
// page lives under a slashed path.
func skipTrailingSlash(c echo.Context) bool {
	p := c.Request().URL.Path
	switch {
	case p == "/health", p == "/metrics":
		return true
	case strings.HasPrefix(p, "/admin/api"), strings.HasPrefix(p, "/static/"):
		return true
	default:
		return path.Ext(p) != ""
	}
}

// skipCSRF exempts bearer-token callers, which cannot be driven by a
// cross-site form.
func skipCSRF(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
}
