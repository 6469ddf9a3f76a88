package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harikaa2703/ArogyaKrishi/internal/chat"
	"github.com/harikaa2703/ArogyaKrishi/internal/detections"
	"github.com/harikaa2703/ArogyaKrishi/internal/devices"
	"github.com/harikaa2703/ArogyaKrishi/internal/history"
	"github.com/harikaa2703/ArogyaKrishi/internal/knowledge"
	"github.com/harikaa2703/ArogyaKrishi/internal/remedies"
	"github.com/harikaa2703/ArogyaKrishi/internal/services/health"
	"github.com/harikaa2703/ArogyaKrishi/internal/shared/config"
	"github.com/harikaa2703/ArogyaKrishi/internal/shared/metrics"
	"github.com/harikaa2703/ArogyaKrishi/internal/shared/server/middleware"
	"github.com/harikaa2703/ArogyaKrishi/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config           config.Config
	Health           *health.Service
	KnowledgeHandler *knowledge.Handler
	DetectionHandler *detections.Handler
	DeviceHandler    *devices.Handler
	RemedyHandler    *remedies.Handler
	HistoryHandler   *history.Handler
	ChatHandler      *chat.Handler
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
		middleware.Device(),
	)

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, deps.Health.Status())
	})
	r.GET("/version", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"version": health.Version})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	deps.KnowledgeHandler.RegisterRoutes(api)
	deps.DeviceHandler.RegisterRoutes(api)
	deps.RemedyHandler.RegisterRoutes(api)
	deps.HistoryHandler.RegisterRoutes(api)
	deps.ChatHandler.RegisterRoutes(api)

	// Image analysis is the expensive path; it gets its own rate limit.
	detect := api.Group("")
	detect.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"DETECT": {Rate: 0.5, Burst: 5},
		},
		DefaultGroup: "DETECT",
	}))
	deps.DetectionHandler.RegisterRoutes(detect)

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
