package routers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wanderguild/internal/handlers"
	"wanderguild/pkg/logger"
)

// SetupRoutes registers the internal API surface. These routes are invoked
// by the surrounding visit-processing and client services, not by end users
// directly.
func SetupRoutes(r *gin.Engine,
	awardHandler *handlers.AwardHandler,
	locationHandler *handlers.LocationHandler,
) {
	r.Use(traceIDMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"Status": "OK",
		})
	})

	internal := r.Group("/internal")
	{
		internal.POST("/awards", awardHandler.Award)
		internal.GET("/context", awardHandler.ResolveContext)
		internal.PUT("/locations/:user_id", locationHandler.Update)
		internal.DELETE("/locations/:user_id", locationHandler.Remove)
	}
}

// traceIDMiddleware puts a trace ID into the request context so every log
// line of one award attempt can be correlated.
func traceIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := logger.WithTraceID(c.Request.Context(), c.GetHeader("X-Trace-ID"))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
