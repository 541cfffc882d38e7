package analyzer

import (
	"context"
	"log/slog"

	"github.com/use-agent/ratescope/models"
)

// progressSteps is the fixed phase count reported per URL.
const progressSteps = 5

// phaseNames in emission order.
var phaseNames = [progressSteps]string{
	"Creating fresh browser",
	"Submitting to RateMySite",
	"Waiting for results",
	"Parsing output",
	"Done",
}

// errNoResults is the error payload text for an empty extraction.
const errNoResults = "No results found - check debug log"

// Stream runs the full analysis for urls in input order and emits the event
// sequence on the returned channel: one init, then per URL a start_url,
// five progress events interleaved with the attempt's debug lines, one
// result, and a single terminal done once every URL has been attempted.
//
// Failures never cross URL boundaries: each URL gets a fresh browser, its
// own debug log, and at worst an error result. Cancelling ctx (the consumer
// hanging up) stops the run; the in-flight browser session is torn down via
// its deferred cleanup and the channel closes without a done event.
func (a *Analyzer) Stream(ctx context.Context, sessionID string, urls []string) <-chan models.Event {
	ch := make(chan models.Event)
	go func() {
		defer close(ch)

		emit := func(name string, data any) bool {
			// Cancellation wins over a ready consumer, so a hung-up client
			// stops the run at the next event boundary.
			select {
			case <-ctx.Done():
				return false
			default:
			}
			select {
			case ch <- models.Event{Name: name, Data: data}:
				return true
			case <-ctx.Done():
				return false
			}
		}

		total := len(urls)
		if !emit(models.EventInit, models.InitPayload{
			Total:     total,
			Rows:      models.TableRows,
			SessionID: sessionID,
		}) {
			return
		}

		for i, rawURL := range urls {
			idx := i + 1
			url := models.NormalizeURL(rawURL)

			slog.Info("analysis started", "index", idx, "total", total, "url", url)
			if !emit(models.EventStartURL, models.StartURLPayload{Index: idx, URL: url}) {
				return
			}

			progress := func(p int) bool {
				return emit(models.EventProgress, models.ProgressPayload{
					Index: idx, Phase: phaseNames[p-1], P: p, Of: progressSteps,
				})
			}

			if !progress(1) || !progress(2) {
				return
			}

			rawText, dlog := a.analyzeOne(ctx, url)

			if !progress(3) {
				return
			}
			for _, msg := range dlog.Lines() {
				if !emit(models.EventDebug, models.DebugPayload{Index: idx, Message: msg}) {
					return
				}
			}
			if !progress(4) || !progress(5) {
				return
			}

			result := models.ResultPayload{Index: idx, URL: url}
			if rawText != "" {
				result.Data = ParseFields(url, rawText)
			} else {
				result.Error = errNoResults
			}
			if !emit(models.EventResult, result) {
				return
			}
			slog.Info("analysis finished", "index", idx, "total", total,
				"url", url, "ok", rawText != "")
		}

		emit(models.EventDone, models.DonePayload{OK: true})
	}()
	return ch
}
