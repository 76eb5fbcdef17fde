// internal/api/routes.go
package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter wires the HTTP surface onto a gin engine.
func SetupRouter(h *Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger.Named("http")))

	r.Any("/health", func(c *gin.Context) {
		c.String(200, "ok")
	})

	pools := r.Group("/pools")
	{
		pools.POST("", h.Launch)
		pools.GET("", h.ListPools)
		pools.GET("/:id", h.GetPool)
		pools.GET("/:id/events", h.ListEvents)
		pools.POST("/:id/buy", h.Buy)
		pools.POST("/:id/claim", h.Claim)
		pools.POST("/:id/migrate", h.Migrate)
	}

	return r
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.Info("Request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()))
	}
}
