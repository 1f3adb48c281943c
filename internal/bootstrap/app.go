package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/locvowork/headergrid/internal/config"
	"github.com/locvowork/headergrid/internal/handler"
	"github.com/locvowork/headergrid/internal/logger"
	"github.com/locvowork/headergrid/internal/service"
)

type App struct {
	Echo    *echo.Echo
	Layouts service.LayoutService
}

func NewApp() *App {
	e := echo.New()
	e.HideBanner = true
	return &App{Echo: e}
}

func (a *App) Initialize(ctx context.Context) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}

	// Initialize logging
	logger.InitLogging(config.DefaultEnvConfig.LOG_FILE_PATH)
	if err := logger.SetLevel(config.DefaultEnvConfig.LOG_LEVEL); err != nil {
		return err
	}
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	layouts, err := service.LoadLayoutService(config.DefaultEnvConfig.LAYOUT_CONFIG_PATH, config.DefaultEnvConfig.MAX_EXPORT_ROWS)
	if err != nil {
		return fmt.Errorf("failed to load layouts: %w", err)
	}
	a.Layouts = layouts
	logger.InfoLog(ctx, "Loaded %d layouts from %s", len(layouts.List(ctx)), config.DefaultEnvConfig.LAYOUT_CONFIG_PATH)

	a.RegisterMiddlewares()
	a.RegisterRoutes(handler.NewHeaderHandler(layouts))
	return nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.RequestID())
	a.Echo.Use(requestContext)
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
	a.Echo.Use(middleware.BodyLimit(config.DefaultEnvConfig.MAX_BODY_SIZE))
}

// requestContext copies the request id set by middleware.RequestID into the
// request context so service logs carry it.
func requestContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithRequestID(req.Context(), id)))
		}
		return next(c)
	}
}

func (a *App) RegisterRoutes(headerHandler *handler.HeaderHandler) {
	a.Echo.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	headerHandler.Register(a.Echo.Group("/api/v1"))
}

func (a *App) Run() error {
	return a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
}

func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}
