package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sssalamanders/penny-lane/internal/infra/config"
	"github.com/sssalamanders/penny-lane/internal/transport/http/handlers"
	"github.com/sssalamanders/penny-lane/internal/transport/http/middleware"
)

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config *config.AppConfig
	Logger *zap.Logger
	Relay  handlers.RelayStatusProvider
}

// Register configures the Gin engine with the ops surface: liveness,
// relay status, and Prometheus metrics. Nothing here ever sees a raw
// subject or group identifier.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))

	healthHandler := handlers.NewHealthHandler()
	statusHandler := handlers.NewStatusHandler(deps.Relay, deps.Config.Registry)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/status", statusHandler.Status)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
