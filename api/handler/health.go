package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/ratescope/cache"
	"github.com/use-agent/ratescope/models"
)

// Health returns the handler for GET /health. No auth so monitoring probes
// always work.
func Health(store *cache.Store, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:   "healthy",
			Uptime:   time.Since(startTime).Round(time.Second).String(),
			Sessions: store.Len(),
			Version:  "0.1.0",
		})
	}
}
