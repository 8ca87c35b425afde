package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"repair-tracker/internal/authz"
	"repair-tracker/internal/controllers"
	"repair-tracker/internal/repositories"
	"repair-tracker/internal/services"
	"repair-tracker/pkg/config"
	"repair-tracker/pkg/constants"
	apperrors "repair-tracker/pkg/errors"
	"repair-tracker/pkg/metrics"
	"repair-tracker/pkg/middleware"
	"repair-tracker/pkg/trackingcode"
	"repair-tracker/pkg/utils"
	"repair-tracker/pkg/validation"
)

// Dependencies - все, что роутер получает снаружи. Cache и RateLimitStore
// могут быть nil; без RateLimitStore лимит считается в памяти процесса.
type Dependencies struct {
	Config         *config.Config
	TxManager      repositories.TxManagerInterface
	QuoteRepo      repositories.QuoteRepositoryInterface
	StatusRepo     repositories.StatusEntryRepositoryInterface
	Generator      trackingcode.Generator
	Publisher      services.EventPublisher
	Metrics        *metrics.Metrics
	RateLimitStore echomw.RateLimiterStore
	DB             controllers.Pinger
	Cache          controllers.Pinger
	Logger         *zap.Logger
}

func InitRouter(e *echo.Echo, deps Dependencies) {
	logger := deps.Logger
	cfg := deps.Config
	logger.Info("InitRouter: registering routes")

	e.HideBanner = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = utils.HTTPErrorHandler(logger)

	setupMiddleware(e, cfg, deps.Metrics, logger)

	// --- 1. СЕРВИСЫ ---
	quoteService := services.NewQuoteService(
		deps.TxManager, deps.QuoteRepo, deps.StatusRepo, deps.Generator, deps.Publisher, deps.Metrics, logger,
	)
	trackingService := services.NewTrackingService(
		deps.TxManager, deps.QuoteRepo, deps.StatusRepo, deps.Publisher, deps.Metrics, logger,
	)
	adminQuoteService := services.NewAdminQuoteService(deps.QuoteRepo, logger)

	// --- 2. КОНТРОЛЛЕРЫ ---
	quoteCtrl := controllers.NewQuoteController(quoteService, logger)
	trackingCtrl := controllers.NewTrackingController(trackingService, logger)
	adminCtrl := controllers.NewAdminQuoteController(adminQuoteService, logger)
	healthCtrl := controllers.NewHealthController(cfg.App, deps.DB, deps.Cache, logger)

	// --- 3. РОУТЕРЫ ---
	api := e.Group("/api/v1")

	var submitMW []echo.MiddlewareFunc
	if cfg.Security.RateLimitPerMinute > 0 {
		store := deps.RateLimitStore
		if store == nil {
			store = middleware.NewMemoryStore(cfg.Security.RateLimitPerMinute)
		}
		submitMW = append(submitMW, middleware.RateLimit(store, logger))
	}
	runPublicRouter(api, quoteCtrl, trackingCtrl, healthCtrl, submitMW...)

	adminMW := middleware.AdminKey(authz.NewGatekeeper(cfg.Admin), logger)
	runAdminRouter(api.Group("/admin", adminMW), trackingCtrl, adminCtrl)

	e.GET("/metrics", echo.WrapHandler(deps.Metrics.Handler()))

	logger.Info("InitRouter: routes registered")
}

func setupMiddleware(e *echo.Echo, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) {
	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			return apperrors.NewHttpError(http.StatusInternalServerError, "Internal server error", err, nil)
		},
	}))
	e.Use(middleware.RequestID(logger))
	e.Use(m.Middleware())
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.SecureHeaders(cfg.IsProduction()))
	e.Use(middleware.AllowedHosts(cfg.Security.AllowedHosts))

	if len(cfg.Security.AllowedOrigins) > 0 {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:  cfg.Security.AllowedOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, constants.APIKeyHeader},
			ExposeHeaders: []string{echo.HeaderContentDisposition, middleware.HeaderRequestID},
		}))
	}

	e.Use(echomw.BodyLimit("64K"))
}
