package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/use-agent/ratescope/cache"
	"github.com/use-agent/ratescope/models"
)

// Streamer produces the ordered analysis event sequence for a URL list.
// *analyzer.Analyzer satisfies it; tests substitute a stub.
type Streamer interface {
	Stream(ctx context.Context, sessionID string, urls []string) <-chan models.Event
}

// Stream returns the handler for GET /stream?u=<url>&u=<url>...
//
// It opens a server-sent event response and relays the orchestrator's
// events verbatim (`event: <name>\ndata: <json>\n\n` records). Successful
// results are also folded into the session store so the client can fetch
// the Excel report afterwards; the session ID travels in the init event.
// When the client hangs up, gin stops the stream and the request context
// cancels the run.
func Stream(st Streamer, store *cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		urls := models.CleanURLList(c.QueryArray("u"))
		if len(urls) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "need at least one ?u= parameter",
				},
			})
			return
		}

		sessionID := uuid.NewString()
		store.Create(sessionID, urls)
		slog.Info("stream opened", "session", sessionID, "urls", len(urls))

		events := st.Stream(c.Request.Context(), sessionID, urls)

		h := c.Writer.Header()
		h.Set("Content-Type", "text/event-stream")
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		// Disable nginx response buffering if a proxy sits in front.
		h.Set("X-Accel-Buffering", "no")

		c.Stream(func(w io.Writer) bool {
			ev, ok := <-events
			if !ok {
				slog.Info("stream closed", "session", sessionID)
				return false
			}

			if ev.Name == models.EventResult {
				if res, isResult := ev.Data.(models.ResultPayload); isResult && res.Data != nil {
					store.Append(sessionID, res.Data)
				}
			}

			payload, err := json.Marshal(ev.Data)
			if err != nil {
				slog.Error("stream: marshal event failed",
					"session", sessionID, "event", ev.Name, "error", err)
				return false
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, payload)
			return true
		})
	}
}
