// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"mngconsole/internal/domain/account"
	"mngconsole/internal/domain/menu"
	"mngconsole/internal/infrastructure/http/v1/handlers"
	"mngconsole/internal/infrastructure/http/v1/middleware"
	"mngconsole/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Database backs the health checks.
	Database handlers.Database

	// Logger for request logging
	Logger *logger.Logger

	Accounts *account.Service
	Menus    *menu.Service

	Version  string
	IDSource string

	// Debug switches gin to debug mode.
	Debug bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	if cfg.Database != nil {
		healthHandler := handlers.NewHealthHandler(cfg.Database, cfg.Version, cfg.IDSource)
		health := router.Group("/health")
		{
			health.GET("/live", healthHandler.Live)
			health.GET("/ready", healthHandler.Ready)
			health.GET("/info", healthHandler.Info)
		}
	}

	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, cfg)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.Accounts))

		registerManagementRoutes(protected.Group("/mng"), cfg)
	}

	return router
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	authHandler := handlers.NewAuthHandler(handlers.NewBaseHandler(), cfg.Accounts)

	public := rg.Group("/auth")
	protected := rg.Group("/auth")
	protected.Use(middleware.Auth(cfg.Accounts))

	authHandler.RegisterRoutes(public, protected)
}

// registerManagementRoutes registers the console configuration resources.
func registerManagementRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	base := handlers.NewBaseHandler()
	config := rg.Group("/config")

	RegisterEntityRoutes(config.Group("/users"), handlers.NewAccountHandler(base, cfg.Accounts))

	menuHandler := handlers.NewMenuHandler(base, cfg.Menus)
	RegisterEntityRoutes(config.Group("/top-menu-groups"), menuHandler.Top)
	RegisterEntityRoutes(config.Group("/mid-menu-groups"), menuHandler.Mid)

	low := config.Group("/low-menus")
	low.GET("/count", menuHandler.CountLowMenus)
	RegisterEntityRoutes(low, menuHandler.Low)

	rg.GET("/menu-tree", menuHandler.Tree)
}
