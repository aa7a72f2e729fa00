package api

import (
	"github.com/gin-gonic/gin"
	"github.com/labdan/Dashboard-sub000/internal/api/handlers"
	"github.com/labdan/Dashboard-sub000/internal/api/middleware"
	"github.com/labdan/Dashboard-sub000/internal/api/response"
	"github.com/labdan/Dashboard-sub000/internal/pkg/config"
	"github.com/labdan/Dashboard-sub000/internal/pkg/logger"
)

// Dependencies are the collaborators the router exposes over HTTP
type Dependencies struct {
	Enricher handlers.Enricher
	Database handlers.DatabaseChecker
	Cache    handlers.Pinger // optional
	Version  string
}

// Router holds all dependencies for API routing
type Router struct {
	engine         *gin.Engine
	config         *config.Config
	healthHandler  *handlers.HealthHandler
	companyHandler *handlers.CompanyHandler
}

// NewRouter creates a new API router with all dependencies
func NewRouter(cfg *config.Config, deps Dependencies) *Router {
	gin.SetMode(cfg.Server.Mode)

	router := &Router{
		engine:         gin.New(),
		config:         cfg,
		healthHandler:  handlers.NewHealthHandler(deps.Database, deps.Cache, deps.Version),
		companyHandler: handlers.NewCompanyHandler(deps.Enricher),
	}

	router.setupMiddlewares()
	router.setupRoutes()

	return router
}

// setupMiddlewares configures all global middlewares
func (r *Router) setupMiddlewares() {
	// Recovery middleware (must be first)
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	logCfg := middleware.LoggingConfig{
		SkipPaths: []string{"/health"}, // Skip health checks to reduce noise
	}
	if r.config.Logging.FileEnabled {
		accessLogger := logger.NewAccessLogger(
			r.config.Logging.FilePath,
			r.config.Logging.RotationSize,
			r.config.Logging.RetentionDays,
		)
		logCfg.AccessLogger = &accessLogger
	}
	r.engine.Use(middleware.Logging(logCfg))

	r.engine.Use(middleware.CORS(middleware.DashboardCORSConfig(r.config.Server.AllowedOrigins)))
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	r.engine.GET("/health", r.healthHandler.Health)

	api := r.engine.Group("/api")
	{
		companies := api.Group("/company")
		{
			companies.GET("", r.companyHandler.Get)
			companies.POST("/batch", r.companyHandler.Batch)
		}
	}

	r.engine.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "route not found: "+c.Request.URL.Path)
	})
}

// Engine returns the underlying Gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
