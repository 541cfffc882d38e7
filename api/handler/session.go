package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/ratescope/cache"
	"github.com/use-agent/ratescope/models"
)

// GetSession returns the handler for GET /api/v1/cache/:session, a
// debugging view of the cached session data.
func GetSession(store *cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		urls, results, ok := store.Get(c.Param("session"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "session not found",
				},
			})
			return
		}
		c.JSON(http.StatusOK, models.SessionResponse{URLs: urls, Results: results})
	}
}
