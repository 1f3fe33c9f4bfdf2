package router

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/sleep-social/config"
	_ "github.com/d60-Lab/sleep-social/docs"
	"github.com/d60-Lab/sleep-social/internal/api/handler"
	"github.com/d60-Lab/sleep-social/internal/api/middleware"
	"github.com/d60-Lab/sleep-social/internal/service"
)

// Setup 组装中间件与路由
func Setup(cfg *config.Config, h *handler.Handler, authService service.AuthService) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
	}
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)))
	}

	r.GET("/health", h.Health)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	if cfg.Swagger.Enabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", h.Health)
		v1.POST("/signup", h.Signup)
		v1.POST("/login", h.Login)

		authed := v1.Group("", middleware.Auth(authService))
		{
			authed.GET("/me", h.Me)
			authed.DELETE("/me", h.DeleteMe)

			authed.POST("/sleep_records", h.Clock)
			authed.GET("/sleep_records", h.Feed)

			authed.POST("/users/:id/follow", h.Follow)
			authed.DELETE("/users/:id/follow", h.Unfollow)
			authed.GET("/users/:id/following", h.ListFollowing)
			authed.GET("/users/:id/followers", h.ListFollowers)
		}
	}
	return r
}
