package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/ratescope/cache"
	"github.com/use-agent/ratescope/export"
	"github.com/use-agent/ratescope/models"
)

// DownloadExcel returns the handler for GET /download/excel/:session.
//
// The report is rendered from the session's collected results and served
// straight from memory; the session is dropped once the report is built,
// so each run is downloadable exactly once.
func DownloadExcel(store *cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("session")

		_, results, ok := store.Get(sessionID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "session not found or expired",
				},
			})
			return
		}
		if len(results) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "no results available for download",
				},
			})
			return
		}

		buf, err := export.BuildReport(results, models.TableRows)
		if err != nil {
			slog.Error("excel report build failed", "session", sessionID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInternal,
					Message: "failed to generate Excel file",
				},
			})
			return
		}
		store.Delete(sessionID)

		c.Header("Content-Disposition",
			`attachment; filename="`+export.ReportFilename(sessionID)+`"`)
		c.Data(http.StatusOK, export.XLSXContentType, buf.Bytes())
	}
}
