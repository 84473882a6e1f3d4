package router

import (
	"github.com/gin-gonic/gin"
	"github.com/zenmart/auth-service/config"
	"github.com/zenmart/auth-service/internal/handler"
	"github.com/zenmart/auth-service/internal/middleware"
)

type Router struct {
	authHandler   *handler.AuthHandler
	userHandler   *handler.UserHandler
	healthHandler *handler.HealthHandler

	jwtMw       *middleware.JWTMiddleware
	rateLimiter gin.HandlerFunc
	Config      *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	user *handler.UserHandler,
	health *handler.HealthHandler,
	jwtMw *middleware.JWTMiddleware,
	rateLimiter gin.HandlerFunc,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:   auth,
		userHandler:   user,
		healthHandler: health,
		jwtMw:         jwtMw,
		rateLimiter:   rateLimiter,
		Config:        cfg,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	if r.Config != nil && r.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORS())

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.HealthCheck)

		v1 := api.Group("/v1")
		{
			if r.rateLimiter != nil {
				v1.Use(r.rateLimiter)
			}

			r.authRoutes(v1)
			r.userRoutes(v1)
		}
	}

	return router
}
