package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lighthouse-backend/internal/assistant"
	"lighthouse-backend/internal/evidence"
	"lighthouse-backend/internal/services/health"
	"lighthouse-backend/internal/shared/config"
	"lighthouse-backend/internal/shared/metrics"
	"lighthouse-backend/internal/shared/server/middleware"
	"lighthouse-backend/internal/shared/server/respond"
	"lighthouse-backend/internal/strategy"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config           config.Config
	StrategyHandler  *strategy.Handler
	AssistantHandler *assistant.Handler
	EvidenceHandler  *evidence.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Identity(),
	)

	healthSvc := health.NewService()

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status())
	})
	api.GET("/metrics", metrics.Handler())
	registerMeRoutes(api)

	if deps.StrategyHandler != nil {
		deps.StrategyHandler.RegisterRoutes(api)
	}
	if deps.EvidenceHandler != nil {
		deps.EvidenceHandler.RegisterRoutes(api)
	}
	if deps.AssistantHandler != nil {
		// The assistant endpoints fan out to a paid model API, so they get a
		// per-session token bucket on top of the shared middleware.
		assistantGroup := api.Group("")
		assistantGroup.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"ASSISTANT": {Rate: 1, Burst: 5},
			},
			DefaultGroup: "ASSISTANT",
		}))
		deps.AssistantHandler.RegisterRoutes(assistantGroup)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
