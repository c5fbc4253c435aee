package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/godilite/reputation-server/pkg/httpserver"
)

func corsMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// NewRouter assembles the gin engine with the shared middleware chain
// and all API routes. gin.SetMode must be configured by the caller.
func NewRouter(h *Handlers, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		httpserver.RequestLogger(logger),
		httpserver.Recovery(logger),
		corsMiddleware(),
	)

	router.GET("/health", h.Health)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/feedback", h.SubmitFeedback)
		v1.GET("/drivers", h.ListDrivers)
		v1.GET("/drivers/:id", h.GetDriver)
		v1.GET("/drivers/:id/feedback", h.GetDriverFeedback)
		v1.GET("/alerts", h.ListAlerts)
	}

	return router
}
